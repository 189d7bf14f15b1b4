package ast

// Walk traverses the AST starting from node, calling fn for each node.
// If fn returns false, Walk stops traversing that branch.
func Walk(node Node, fn func(Node) bool) {
	if node == nil || !fn(node) {
		return
	}

	switch n := node.(type) {
	case *Program:
		for _, decl := range n.Decls {
			Walk(decl, fn)
		}

	case *FnDecl:
		for _, param := range n.Params {
			Walk(param, fn)
		}
		if n.Body != nil {
			Walk(n.Body, fn)
		}

	case *VarDecl:
		if n.Init != nil {
			Walk(n.Init, fn)
		}

	case *ExprDecl:
		Walk(n.X, fn)

	case *BinaryExpr:
		Walk(n.Left, fn)
		Walk(n.Right, fn)

	case *UnaryExpr:
		Walk(n.X, fn)

	case *CallExpr:
		Walk(n.Callee, fn)
		for _, arg := range n.Args {
			Walk(arg, fn)
		}

	case *CompoundExpr:
		for _, decl := range n.Decls {
			Walk(decl, fn)
		}

	case *Param, *IntegerLit, *Ident, *VarRef:
		// leaves
	}
}

// Inspect is like Walk but always descends into children.
func Inspect(node Node, fn func(Node)) {
	Walk(node, func(n Node) bool {
		fn(n)
		return true
	})
}
