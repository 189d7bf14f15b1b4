package ast

import (
	"fmt"
	"io"
	"strings"
)

// Sprint renders node as a parenthesized tree, one construct per form:
//
//	(fn main () void (compound (var foo int (int 40))))
//
// The output is stable and meant for dumps and tests.
func Sprint(node Node) string {
	var b strings.Builder
	writeNode(&b, node)
	return b.String()
}

// Fprint writes the Sprint form of node followed by a newline.
func Fprint(w io.Writer, node Node) error {
	_, err := fmt.Fprintln(w, Sprint(node))
	return err
}

func writeNode(b *strings.Builder, node Node) {
	switch n := node.(type) {
	case nil:
		b.WriteString("nil")
	case *Program:
		b.WriteString("(program")
		for _, d := range n.Decls {
			b.WriteByte(' ')
			writeNode(b, d)
		}
		b.WriteByte(')')
	case *FnDecl:
		fmt.Fprintf(b, "(fn %s (", n.Name)
		for i, p := range n.Params {
			if i > 0 {
				b.WriteByte(' ')
			}
			writeNode(b, p)
		}
		if n.Variadic {
			if len(n.Params) > 0 {
				b.WriteByte(' ')
			}
			b.WriteString("...")
			if n.VariadicType != nil {
				b.WriteString(n.VariadicType.String())
			}
		}
		fmt.Fprintf(b, ") %s", n.ReturnType)
		if n.Body != nil {
			b.WriteByte(' ')
			writeNode(b, n.Body)
		}
		b.WriteByte(')')
	case *Param:
		switch {
		case n.Mode == ByRef && n.Mutable:
			fmt.Fprintf(b, "(%s &mut %s)", n.Name, n.Type)
		case n.Mode == ByRef:
			fmt.Fprintf(b, "(%s &%s)", n.Name, n.Type)
		default:
			fmt.Fprintf(b, "(%s %s)", n.Name, n.Type)
		}
	case *VarDecl:
		kw := "var"
		if n.Mutability == Immutable {
			kw = "const"
		}
		fmt.Fprintf(b, "(%s %s %s ", kw, n.Name, n.Type)
		writeNode(b, n.Init)
		b.WriteByte(')')
	case *ExprDecl:
		writeNode(b, n.X)
	case *IntegerLit:
		fmt.Fprintf(b, "(int %d)", n.Value)
	case *Ident:
		fmt.Fprintf(b, "(ident %s)", n.Name)
	case *VarRef:
		fmt.Fprintf(b, "(ref %s)", n.Name)
	case *BinaryExpr:
		fmt.Fprintf(b, "(%s ", n.Op)
		writeNode(b, n.Left)
		b.WriteByte(' ')
		writeNode(b, n.Right)
		b.WriteByte(')')
	case *UnaryExpr:
		fmt.Fprintf(b, "(unary%s ", n.Op)
		writeNode(b, n.X)
		b.WriteByte(')')
	case *CallExpr:
		b.WriteString("(call ")
		writeNode(b, n.Callee)
		for _, a := range n.Args {
			b.WriteByte(' ')
			writeNode(b, a)
		}
		b.WriteByte(')')
	case *CompoundExpr:
		b.WriteString("(compound")
		for _, d := range n.Decls {
			b.WriteByte(' ')
			writeNode(b, d)
		}
		b.WriteByte(')')
	default:
		fmt.Fprintf(b, "(unknown %T)", node)
	}
}
