package codegen

import (
	"errors"
	"fmt"

	"github.com/cx-lang/cxc/internal/ast"
)

var errNotConstant = errors.New("expression is not constant")

// isConstant reports whether expr can be evaluated at compile time.
func isConstant(expr ast.Expr) bool {
	switch e := expr.(type) {
	case *ast.IntegerLit:
		return true
	case *ast.BinaryExpr:
		if _, ok := foldableBinary[e.Op]; !ok {
			return false
		}
		return isConstant(e.Left) && isConstant(e.Right)
	case *ast.UnaryExpr:
		return (e.Op == ast.Neg || e.Op == ast.Not) && isConstant(e.X)
	default:
		return false
	}
}

// evaluateConstant folds expr with the same semantics the emitted
// instructions have at run time: wrapping 64-bit arithmetic, unsigned
// division and signed comparisons yielding 0 or 1.
func evaluateConstant(expr ast.Expr) (int64, error) {
	switch e := expr.(type) {
	case *ast.IntegerLit:
		return e.Value, nil
	case *ast.UnaryExpr:
		x, err := evaluateConstant(e.X)
		if err != nil {
			return 0, err
		}
		switch e.Op {
		case ast.Neg:
			return -x, nil
		case ast.Not:
			return boolValue(x == 0), nil
		}
	case *ast.BinaryExpr:
		fold, ok := foldableBinary[e.Op]
		if !ok {
			break
		}
		left, err := evaluateConstant(e.Left)
		if err != nil {
			return 0, err
		}
		right, err := evaluateConstant(e.Right)
		if err != nil {
			return 0, err
		}
		return fold(left, right)
	}
	return 0, errNotConstant
}

var errDivideByZero = errors.New("division by zero in constant expression")

var foldableBinary = map[ast.BinaryOp]func(l, r int64) (int64, error){
	ast.Add: func(l, r int64) (int64, error) { return l + r, nil },
	ast.Sub: func(l, r int64) (int64, error) { return l - r, nil },
	ast.Mul: func(l, r int64) (int64, error) { return l * r, nil },
	ast.Div: func(l, r int64) (int64, error) {
		if r == 0 {
			return 0, errDivideByZero
		}
		return int64(uint64(l) / uint64(r)), nil
	},
	ast.Mod: func(l, r int64) (int64, error) {
		if r == 0 {
			return 0, errDivideByZero
		}
		return int64(uint64(l) % uint64(r)), nil
	},
	ast.Eq:  func(l, r int64) (int64, error) { return boolValue(l == r), nil },
	ast.Neq: func(l, r int64) (int64, error) { return boolValue(l != r), nil },
	ast.Lt:  func(l, r int64) (int64, error) { return boolValue(l < r), nil },
	ast.Gt:  func(l, r int64) (int64, error) { return boolValue(l > r), nil },
	ast.Leq: func(l, r int64) (int64, error) { return boolValue(l <= r), nil },
	ast.Geq: func(l, r int64) (int64, error) { return boolValue(l >= r), nil },
}

func boolValue(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// foldGlobal evaluates the initializer of a global variable.
func foldGlobal(decl *ast.VarDecl) (int64, error) {
	if decl.Init == nil {
		return 0, nil
	}
	if !isConstant(decl.Init) {
		return 0, unsupported("non-constant initializer for global "+decl.Name, decl.Init.Span())
	}
	v, err := evaluateConstant(decl.Init)
	if err != nil {
		return 0, fmt.Errorf("global %s: %w", decl.Name, err)
	}
	return v, nil
}
