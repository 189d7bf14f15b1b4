package ast

import "github.com/cx-lang/cxc/internal/lexer"

// Node represents any AST node with an associated source span.
type Node interface {
	Span() lexer.Span
}

// Expr represents an expression node.
type Expr interface {
	Node
	exprNode()
}

// Decl represents a declaration, either at the top level or nested inside a
// compound expression.
type Decl interface {
	Node
	declNode()
}

// Program is a parsed translation unit: its declarations in source order.
type Program struct {
	Decls []Decl
	span  lexer.Span
}

// Span returns the span covering the entire program.
func (p *Program) Span() lexer.Span { return p.span }

// NewProgram constructs a program node.
func NewProgram(decls []Decl, span lexer.Span) *Program {
	return &Program{Decls: decls, span: span}
}

// Mutability tags a variable declaration or reference.
type Mutability int

const (
	Mutable Mutability = iota
	Immutable
)

func (m Mutability) String() string {
	if m == Immutable {
		return "immutable"
	}
	return "mutable"
}

// PassMode describes how a parameter is passed.
type PassMode int

const (
	ByValue PassMode = iota
	ByRef
)

func (m PassMode) String() string {
	if m == ByRef {
		return "by-ref"
	}
	return "by-value"
}

// Param represents a function parameter.
type Param struct {
	Name    string // empty only for unnamed function-type parameters
	Type    Type
	Mode    PassMode
	Mutable bool // meaningful when Mode is ByRef
	span    lexer.Span
}

// Span returns the parameter span.
func (p *Param) Span() lexer.Span { return p.span }

// NewParam constructs a named by-value parameter.
func NewParam(name string, typ Type, span lexer.Span) *Param {
	return &Param{Name: name, Type: typ, Mode: ByValue, span: span}
}

// NewRefParam constructs a named by-reference parameter.
func NewRefParam(name string, typ Type, mutable bool, span lexer.Span) *Param {
	return &Param{Name: name, Type: typ, Mode: ByRef, Mutable: mutable, span: span}
}

// FnDecl represents a function declaration. A nil Body marks a forward or
// external declaration.
type FnDecl struct {
	Name         string
	Params       []*Param
	ReturnType   Type
	Variadic     bool
	VariadicType Type // optional element type constraint for variadic arguments
	Body         *CompoundExpr
	span         lexer.Span
}

// Span returns the declaration span.
func (d *FnDecl) Span() lexer.Span { return d.span }

// NewFnDecl constructs a function declaration node.
func NewFnDecl(name string, params []*Param, returnType Type, body *CompoundExpr, span lexer.Span) *FnDecl {
	if returnType == nil {
		returnType = Void
	}
	return &FnDecl{
		Name:       name,
		Params:     params,
		ReturnType: returnType,
		Body:       body,
		span:       span,
	}
}

// Type folds the declaration's signature back into a function type.
func (d *FnDecl) Type() *FuncType {
	params := make([]Type, len(d.Params))
	for i, p := range d.Params {
		params[i] = p.Type
		if p.Mode == ByRef {
			params[i] = &RefType{To: p.Type, Mutable: p.Mutable}
		}
	}
	return &FuncType{
		Return:       d.ReturnType,
		Params:       params,
		Variadic:     d.Variadic,
		VariadicType: d.VariadicType,
	}
}

// IsForward reports whether the declaration has no body.
func (d *FnDecl) IsForward() bool { return d.Body == nil }

func (*FnDecl) declNode() {}

// VarDecl represents a variable declaration.
type VarDecl struct {
	Name       string
	Type       Type
	Init       Expr
	Mutability Mutability
	span       lexer.Span
}

// Span returns the declaration span.
func (d *VarDecl) Span() lexer.Span { return d.span }

// NewVarDecl constructs a variable declaration node.
func NewVarDecl(name string, typ Type, init Expr, mutability Mutability, span lexer.Span) *VarDecl {
	return &VarDecl{
		Name:       name,
		Type:       typ,
		Init:       init,
		Mutability: mutability,
		span:       span,
	}
}

func (*VarDecl) declNode() {}

// ExprDecl is a bare expression kept for its side effect.
type ExprDecl struct {
	X    Expr
	span lexer.Span
}

// Span returns the declaration span.
func (d *ExprDecl) Span() lexer.Span { return d.span }

// NewExprDecl wraps x as a side-effect declaration.
func NewExprDecl(x Expr, span lexer.Span) *ExprDecl {
	return &ExprDecl{X: x, span: span}
}

func (*ExprDecl) declNode() {}

// IntegerLit represents an integer literal.
type IntegerLit struct {
	Value int64
	span  lexer.Span
}

// Span returns the literal span.
func (l *IntegerLit) Span() lexer.Span { return l.span }

// NewIntegerLit constructs an integer literal node.
func NewIntegerLit(value int64, span lexer.Span) *IntegerLit {
	return &IntegerLit{Value: value, span: span}
}

func (*IntegerLit) exprNode() {}

// Ident is a syntactic, unresolved name reference.
type Ident struct {
	Name string
	span lexer.Span
}

// Span returns the identifier span.
func (i *Ident) Span() lexer.Span { return i.span }

// NewIdent constructs an identifier node.
func NewIdent(name string, span lexer.Span) *Ident {
	return &Ident{Name: name, span: span}
}

func (*Ident) exprNode() {}

// VarRef is a resolved variable reference. The parser never produces it; it
// is reserved for a name resolution pass.
type VarRef struct {
	Name string
	Decl *VarDecl
	span lexer.Span
}

// Span returns the reference span.
func (r *VarRef) Span() lexer.Span { return r.span }

// NewVarRef constructs a resolved reference to decl.
func NewVarRef(decl *VarDecl, span lexer.Span) *VarRef {
	return &VarRef{Name: decl.Name, Decl: decl, span: span}
}

func (*VarRef) exprNode() {}

// BinaryExpr represents a binary operation.
type BinaryExpr struct {
	Op    BinaryOp
	Left  Expr
	Right Expr
	span  lexer.Span
}

// Span returns the expression span.
func (e *BinaryExpr) Span() lexer.Span { return e.span }

// NewBinaryExpr constructs a binary expression spanning both operands.
func NewBinaryExpr(op BinaryOp, left, right Expr) *BinaryExpr {
	return &BinaryExpr{
		Op:    op,
		Left:  left,
		Right: right,
		span:  left.Span().Merge(right.Span()),
	}
}

func (*BinaryExpr) exprNode() {}

// UnaryExpr represents a prefix operation.
type UnaryExpr struct {
	Op   UnaryOp
	X    Expr
	span lexer.Span
}

// Span returns the expression span.
func (e *UnaryExpr) Span() lexer.Span { return e.span }

// NewUnaryExpr constructs a unary expression; opSpan locates the operator.
func NewUnaryExpr(op UnaryOp, x Expr, opSpan lexer.Span) *UnaryExpr {
	return &UnaryExpr{Op: op, X: x, span: opSpan.Merge(x.Span())}
}

func (*UnaryExpr) exprNode() {}

// CallExpr represents a call.
type CallExpr struct {
	Callee Expr
	Args   []Expr
	span   lexer.Span
}

// Span returns the expression span.
func (e *CallExpr) Span() lexer.Span { return e.span }

// NewCallExpr constructs a call expression.
func NewCallExpr(callee Expr, args []Expr, span lexer.Span) *CallExpr {
	return &CallExpr{Callee: callee, Args: args, span: span}
}

func (*CallExpr) exprNode() {}

// CompoundExpr is a brace-delimited sequence of declarations, used for
// function bodies and blocks. Its value is the value of its last declaration.
type CompoundExpr struct {
	Decls []Decl
	span  lexer.Span
}

// Span returns the expression span.
func (e *CompoundExpr) Span() lexer.Span { return e.span }

// NewCompoundExpr constructs a compound expression.
func NewCompoundExpr(decls []Decl, span lexer.Span) *CompoundExpr {
	return &CompoundExpr{Decls: decls, span: span}
}

func (*CompoundExpr) exprNode() {}
