package codegen

import (
	"errors"
	"fmt"

	"github.com/cx-lang/cxc/internal/diag"
	"github.com/cx-lang/cxc/internal/lexer"
)

// ErrUnbalancedStack is returned when the native stack depth after a
// declaration differs from its depth on entry. It always indicates a bug in
// the generator.
var ErrUnbalancedStack = errors.New("codegen: unbalanced evaluation stack")

// UnsupportedError reports a tree shape with no lowering. Generation stops at
// the first one and no output is returned.
type UnsupportedError struct {
	Construct string
	Span      lexer.Span
}

func (e *UnsupportedError) Error() string {
	if e.Span.IsValid() {
		return fmt.Sprintf("%s: unsupported construct: %s", e.Span, e.Construct)
	}
	return "unsupported construct: " + e.Construct
}

// Diagnostic converts the error to a CODEGEN_UNSUPPORTED diagnostic.
func (e *UnsupportedError) Diagnostic() diag.Diagnostic {
	return diag.Unsupported(e.Construct, e.Span)
}

func unsupported(construct string, span lexer.Span) error {
	return &UnsupportedError{Construct: construct, Span: span}
}
