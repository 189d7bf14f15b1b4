package codegen

import (
	"github.com/cx-lang/cxc/internal/ast"
)

const (
	wordSize = 8

	// compatSlotSize is the fixed slot every local received in the historical
	// layout, whatever its type.
	compatSlotSize = 32
)

// frameTracker hands out frame offsets. next returns the current offset and
// advances past a slot of the requested size; offsets never decrease.
type frameTracker struct {
	current int
	compat  bool
}

func (f *frameTracker) next(size int) int {
	old := f.current
	if f.compat {
		// historical stride: an extra word of padding before rounding
		f.current += ((size + wordSize - 1) + wordSize) &^ (wordSize - 1)
	} else {
		f.current += alignUp(size, wordSize)
	}
	return old
}

func (f *frameTracker) reset() {
	f.current = 0
}

func alignUp(n, to int) int {
	return (n + to - 1) &^ (to - 1)
}

// slotSize is the frame space reserved for a local of type t. Only values
// that fit in a general purpose register can be stored.
func slotSize(t ast.Type) (int, bool) {
	if !ast.IsScalar(t) {
		return 0, false
	}
	size, ok := ast.SizeOf(t)
	if !ok || size > wordSize {
		return 0, false
	}
	return alignUp(size, wordSize), true
}

// frameSize sums the slots of every local declared in body, including those in
// nested compounds, rounded up to keep rsp 16-byte aligned. Nested function
// bodies get their own frame and are skipped.
func frameSize(body *ast.CompoundExpr) (int, error) {
	total := 0
	var err error
	ast.Walk(body, func(n ast.Node) bool {
		if err != nil {
			return false
		}
		switch n := n.(type) {
		case *ast.FnDecl:
			return false
		case *ast.VarDecl:
			size, ok := slotSize(n.Type)
			if !ok {
				err = unsupported("local of type "+typeName(n.Type), n.Span())
				return false
			}
			total += size
		}
		return true
	})
	if err != nil {
		return 0, err
	}
	return alignUp(total, 16), nil
}

func typeName(t ast.Type) string {
	if t == nil {
		return "<none>"
	}
	return t.String()
}
