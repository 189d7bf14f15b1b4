package codegen

import (
	"fmt"

	"github.com/cx-lang/cxc/internal/parser"
)

// GenerateAsm parses src and returns the rendered assembly.
func GenerateAsm(src string, opts ...Option) (string, error) {
	prog, errs := parser.ParseSource(src)
	if len(errs) > 0 {
		return "", fmt.Errorf("parsing failed: %w", errs)
	}

	out, err := New(opts...).Generate(prog)
	if err != nil {
		return "", fmt.Errorf("code generation failed: %w", err)
	}
	return out.String(), nil
}
