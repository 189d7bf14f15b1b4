package codegen

import (
	"fmt"

	"github.com/cx-lang/cxc/internal/ast"
)

// setcc maps comparisons to the instruction materializing their flag.
var setcc = map[ast.BinaryOp]string{
	ast.Eq:  "sete",
	ast.Neq: "setne",
	ast.Lt:  "setl",
	ast.Gt:  "setg",
	ast.Leq: "setle",
	ast.Geq: "setge",
}

// genExpr evaluates e into rax.
func (g *Generator) genExpr(e ast.Expr) error {
	switch e := e.(type) {
	case *ast.IntegerLit:
		g.emit("mov", "%s, %d", accumulator, e.Value)
		return nil
	case *ast.BinaryExpr:
		return g.genBinary(e)
	case *ast.UnaryExpr:
		return g.genUnary(e)
	case *ast.CompoundExpr:
		return g.genCompound(e)
	case *ast.Ident:
		return unsupported(fmt.Sprintf("identifier %q used as a value", e.Name), e.Span())
	case *ast.VarRef:
		return unsupported(fmt.Sprintf("variable reference %q", e.Name), e.Span())
	case *ast.CallExpr:
		return unsupported("function call", e.Span())
	default:
		return fmt.Errorf("codegen: unknown expression %T", e)
	}
}

// genBinary evaluates the left operand, parks it on the stack, evaluates the
// right operand and combines rbx (left) with rax (right) into rax.
func (g *Generator) genBinary(e *ast.BinaryExpr) error {
	if !binarySupported(e.Op) {
		return unsupported(fmt.Sprintf("operator %s", e.Op), e.Span())
	}

	if err := g.genExpr(e.Left); err != nil {
		return err
	}
	g.push(accumulator)
	if err := g.genExpr(e.Right); err != nil {
		return err
	}
	if err := g.pop(secondary); err != nil {
		return err
	}

	switch e.Op {
	case ast.Add:
		g.emit("add", "rax, rbx")
	case ast.Sub:
		g.emit("sub", "rbx, rax")
		g.emit("mov", "rax, rbx")
	case ast.Mul:
		g.emit("imul", "rax, rbx")
	case ast.Div, ast.Mod:
		g.emit("xor", "rdx, rdx")
		g.emit("mov", "rcx, rax")
		g.emit("mov", "rax, rbx")
		g.emit("div", "rcx")
		if e.Op == ast.Mod {
			g.emit("mov", "rax, rdx")
		}
	default:
		g.emit("cmp", "rbx, rax")
		g.emit(setcc[e.Op], "al")
		g.emit("movzx", "rax, al")
	}
	return nil
}

func binarySupported(op ast.BinaryOp) bool {
	switch op {
	case ast.Add, ast.Sub, ast.Mul, ast.Div, ast.Mod:
		return true
	default:
		_, ok := setcc[op]
		return ok
	}
}

func (g *Generator) genUnary(e *ast.UnaryExpr) error {
	switch e.Op {
	case ast.Neg:
		if err := g.genExpr(e.X); err != nil {
			return err
		}
		g.emit("neg", "rax")
	case ast.Not:
		if err := g.genExpr(e.X); err != nil {
			return err
		}
		g.emit("cmp", "rax, 0")
		g.emit("sete", "al")
		g.emit("movzx", "rax, al")
	default:
		return unsupported(fmt.Sprintf("unary operator %s", e.Op), e.Span())
	}
	return nil
}
