package codegen

import (
	"strings"
	"testing"
)

// RunCodegenTest generates assembly for src and verifies that each of the
// expected lines appears, in order, in the output.
func RunCodegenTest(t *testing.T, src string, checks []string, opts ...Option) string {
	t.Helper()
	out, err := GenerateAsm(src, opts...)
	if err != nil {
		t.Fatalf("%v", err)
	}
	if strings.TrimSpace(out) == "" {
		t.Fatalf("generated output is empty")
	}

	lines := strings.Split(out, "\n")
	pos := 0
	for _, chk := range checks {
		found := false
		for pos < len(lines) {
			line := strings.TrimSpace(lines[pos])
			pos++
			if line == chk {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected generated code to contain %q in order, but it was missing.\nGenerated output:\n%s", chk, out)
			return out
		}
	}
	return out
}
