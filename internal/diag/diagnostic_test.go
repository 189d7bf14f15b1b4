package diag

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSpanMerge(t *testing.T) {
	a := Span{StartLine: 1, StartCol: 4, EndLine: 1, EndCol: 6}
	b := Span{Filename: "main.cx", StartLine: 2, StartCol: 0, EndLine: 2, EndCol: 3}

	got := a.Merge(b)
	want := Span{Filename: "main.cx", StartLine: 1, StartCol: 4, EndLine: 2, EndCol: 3}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("merge mismatch (-want +got):\n%s", diff)
	}
	if got.String() != "main.cx:1:5" {
		t.Fatalf("expected %q, got %q", "main.cx:1:5", got.String())
	}
}

func TestDiagnosticError(t *testing.T) {
	d := MissingToken(";", "}", Span{StartLine: 3, StartCol: 0, EndLine: 3, EndCol: 0})

	want := "3:1: error[PARSE_MISSING_TOKEN]: expected `;`, found `}`"
	if got := d.Error(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if d.Expected != ";" || d.Found != "}" {
		t.Fatalf("expected payload (;, }), got (%s, %s)", d.Expected, d.Found)
	}
}

func TestListErr(t *testing.T) {
	var l List
	if l.Err() != nil {
		t.Fatalf("expected nil error for an empty list")
	}

	l.Add(UnexpectedToken("}", Span{StartLine: 1, EndLine: 1}))
	l.Extend(List{UnexpectedEOF(Span{StartLine: 2, EndLine: 2})})

	if !l.HasErrors() {
		t.Fatalf("expected HasErrors to be true")
	}
	err := l.Err()
	if err == nil {
		t.Fatalf("expected non-nil error")
	}
	if lines := strings.Split(err.Error(), "\n"); len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), err.Error())
	}
}

func TestListWithFilename(t *testing.T) {
	prev := Span{StartLine: 1, StartCol: 4, EndLine: 1, EndCol: 4}
	l := List{
		RedefinedVariable("x", Span{StartLine: 2, StartCol: 4, EndLine: 2, EndCol: 4}, prev),
		UnexpectedEOF(Span{Filename: "other.cx", StartLine: 1, EndLine: 1}),
	}

	got := l.WithFilename("main.cx")
	if got[0].Span.Filename != "main.cx" || got[0].Prev.Filename != "main.cx" {
		t.Fatalf("expected spans attributed to main.cx, got %s and %s", got[0].Span, got[0].Prev)
	}
	for _, ls := range got[0].LabeledSpans {
		if ls.Span.Filename != "main.cx" {
			t.Fatalf("expected labeled span attributed to main.cx, got %s", ls.Span)
		}
	}
	if got[1].Span.Filename != "other.cx" {
		t.Fatalf("expected existing filename to be kept, got %q", got[1].Span.Filename)
	}
	if l[0].Span.Filename != "" || prev.Filename != "" {
		t.Fatalf("WithFilename must not modify the receiver")
	}
}

func TestCBORRoundTrip(t *testing.T) {
	l := List{
		MissingToken(":", "int", Span{Filename: "main.cx", StartLine: 1, StartCol: 6, EndLine: 1, EndCol: 8}).
			WithHelp("add a type annotation"),
		RedefinedVariable("x",
			Span{StartLine: 3, StartCol: 4, EndLine: 3, EndCol: 4},
			Span{StartLine: 1, StartCol: 4, EndLine: 1, EndCol: 4}),
	}

	var buf bytes.Buffer
	if err := l.EncodeCBOR(&buf); err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeCBOR(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(l, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatterSnippet(t *testing.T) {
	const src = "var a int = 1;"

	var out bytes.Buffer
	f := NewFormatter(&out)
	f.AddSource("main.cx", src)
	f.Format(MissingToken(":", "int", Span{Filename: "main.cx", StartLine: 1, StartCol: 6, EndLine: 1, EndCol: 8}))

	want := strings.Join([]string{
		"error[PARSE_MISSING_TOKEN]: expected `:`, found `int`",
		"  --> main.cx:1:7",
		"   |",
		" 1 | var a int = 1;",
		"   |       ^^^",
		"   |",
		"",
	}, "\n")
	if diff := cmp.Diff(want, out.String()); diff != "" {
		t.Fatalf("formatter output mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatterWithoutSource(t *testing.T) {
	var out bytes.Buffer
	f := NewFormatter(&out)
	f.Format(UnexpectedEOF(Span{}).WithNote("input ended early"))

	want := "error[PARSE_UNEXPECTED_EOF]: unexpected end of input\n  = note: input ended early\n"
	if diff := cmp.Diff(want, out.String()); diff != "" {
		t.Fatalf("formatter output mismatch (-want +got):\n%s", diff)
	}
}

type typeName string

func (n typeName) String() string { return string(n) }

func TestSemanticVariants(t *testing.T) {
	span := Span{StartLine: 3, StartCol: 2, EndLine: 3, EndCol: 4}

	tests := []struct {
		d       Diagnostic
		code    Code
		message string
	}{
		{UndefinedVariable("x", span), CodeUndefinedVariable, "undefined variable `x`"},
		{RedefinedVariable("x", span, Span{StartLine: 1}), CodeRedefinedVariable, "`x` is already defined"},
		{TypeMismatch(typeName("int"), typeName("char*"), span), CodeTypeMismatch, "mismatched types: expected `int`, found `char*`"},
		{MutabilityMismatch(typeName("mutable"), typeName("immutable"), span), CodeMutabilityMismatch, "mutability mismatch: expected mutable reference, found immutable"},
		{InvalidOperation("-", typeName("void"), span), CodeInvalidOperation, "cannot apply `-` to a value of type `void`"},
	}

	for _, tt := range tests {
		if tt.d.Stage != StageSemantic {
			t.Errorf("%s: expected stage %q, got %q", tt.code, StageSemantic, tt.d.Stage)
		}
		if tt.d.Code != tt.code {
			t.Errorf("expected code %q, got %q", tt.code, tt.d.Code)
		}
		if tt.d.Message != tt.message {
			t.Errorf("%s: expected %q, got %q", tt.code, tt.message, tt.d.Message)
		}
		if tt.d.Span != span {
			t.Errorf("%s: expected span %v, got %v", tt.code, span, tt.d.Span)
		}
	}
}

func TestFormatterSecondarySpan(t *testing.T) {
	const src = "var a: int = 1;\nvar a: int = 2;"

	prev := Span{Filename: "main.cx", StartLine: 1, StartCol: 4, EndLine: 1, EndCol: 4}
	span := Span{Filename: "main.cx", StartLine: 2, StartCol: 4, EndLine: 2, EndCol: 4}

	var out bytes.Buffer
	f := NewFormatter(&out)
	f.AddSource("main.cx", src)
	f.Format(RedefinedVariable("a", span, prev))

	want := strings.Join([]string{
		"error[SEMA_REDEFINED_VARIABLE]: `a` is already defined",
		"  --> main.cx:1:5",
		"   |",
		" 1 | var a: int = 1;",
		"   |     ~",
		"   | previous definition here",
		" 2 | var a: int = 2;",
		"   |     ^ redefined here",
		"   |",
		"",
	}, "\n")
	if diff := cmp.Diff(want, out.String()); diff != "" {
		t.Fatalf("formatter output mismatch (-want +got):\n%s", diff)
	}
}
