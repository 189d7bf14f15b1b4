package parser_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/cx-lang/cxc/internal/ast"
	"github.com/cx-lang/cxc/internal/diag"
	"github.com/cx-lang/cxc/internal/parser"
)

func parseSource(t *testing.T, src string, opts ...parser.Option) (*ast.Program, diag.List) {
	t.Helper()

	return parser.ParseSource(src, opts...)
}

func assertNoErrors(t *testing.T, errs diag.List) {
	t.Helper()

	if len(errs) == 0 {
		return
	}

	for _, err := range errs {
		t.Errorf("unexpected parse error: %s", err.Message)
	}
	t.Fatalf("parser reported %d error(s)", len(errs))
}

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()

	prog, errs := parseSource(t, src)
	assertNoErrors(t, errs)
	if prog == nil {
		t.Fatalf("program is nil")
	}
	return prog
}

func codes(errs diag.List) []diag.Code {
	out := make([]diag.Code, len(errs))
	for i, d := range errs {
		out[i] = d.Code
	}
	return out
}

func TestParseMainWithTwoVariables(t *testing.T) {
	prog := mustParse(t, `fn main() { var foo: int = 40; var ahh: int = 50; }`)

	if len(prog.Decls) != 1 {
		t.Fatalf("expected 1 declaration, got %d", len(prog.Decls))
	}

	fn, ok := prog.Decls[0].(*ast.FnDecl)
	if !ok {
		t.Fatalf("expected *ast.FnDecl, got %T", prog.Decls[0])
	}
	if fn.Name != "main" {
		t.Fatalf("expected function name %q, got %q", "main", fn.Name)
	}
	if fn.IsForward() {
		t.Fatalf("expected main to have a body")
	}
	if len(fn.Body.Decls) != 2 {
		t.Fatalf("expected 2 body declarations, got %d", len(fn.Body.Decls))
	}

	want := []struct {
		name  string
		value int64
	}{
		{"foo", 40},
		{"ahh", 50},
	}
	for i, w := range want {
		v, ok := fn.Body.Decls[i].(*ast.VarDecl)
		if !ok {
			t.Fatalf("decl %d: expected *ast.VarDecl, got %T", i, fn.Body.Decls[i])
		}
		if v.Name != w.name {
			t.Fatalf("decl %d: expected name %q, got %q", i, w.name, v.Name)
		}
		if v.Mutability != ast.Mutable {
			t.Fatalf("decl %d: expected mutable, got %s", i, v.Mutability)
		}
		if !ast.TypesEqual(v.Type, ast.Int) {
			t.Fatalf("decl %d: expected type int, got %s", i, v.Type)
		}
		lit, ok := v.Init.(*ast.IntegerLit)
		if !ok || lit.Value != w.value {
			t.Fatalf("decl %d: expected initializer %d, got %s", i, w.value, ast.Sprint(v.Init))
		}
	}
}

func TestParseForwardDeclaration(t *testing.T) {
	prog := mustParse(t, `fn foo();`)

	fn := prog.Decls[0].(*ast.FnDecl)
	if !fn.IsForward() {
		t.Fatalf("expected forward declaration, got body %s", ast.Sprint(fn.Body))
	}
	if !ast.TypesEqual(fn.ReturnType, ast.Void) {
		t.Fatalf("expected default return type void, got %s", fn.ReturnType)
	}
}

func TestParseTree(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "multiplicative binds tighter than additive",
			src:  `1 + 2 * 3;`,
			want: "(program (+ (int 1) (* (int 2) (int 3))))",
		},
		{
			name: "subtraction is left associative",
			src:  `10 - 4 - 3;`,
			want: "(program (- (- (int 10) (int 4)) (int 3)))",
		},
		{
			name: "division is left associative",
			src:  `8 / 4 / 2;`,
			want: "(program (/ (/ (int 8) (int 4)) (int 2)))",
		},
		{
			name: "logical levels",
			src:  `a || b && c == d < e;`,
			want: "(program (|| (ident a) (&& (ident b) (== (ident c) (< (ident d) (ident e))))))",
		},
		{
			name: "prefix operators",
			src:  `-!*&x;`,
			want: "(program (unary- (unary! (unary* (unary& (ident x))))))",
		},
		{
			name: "unary binds tighter than binary",
			src:  `-a * b;`,
			want: "(program (* (unary- (ident a)) (ident b)))",
		},
		{
			name: "less than a negated operand",
			src:  `1<-2;`,
			want: "(program (< (int 1) (unary- (int 2))))",
		},
		{
			name: "minus a negated operand",
			src:  `5--3;`,
			want: "(program (- (int 5) (unary- (int 3))))",
		},
		{
			name: "grouping",
			src:  `(1 + 2) % 3;`,
			want: "(program (% (+ (int 1) (int 2)) (int 3)))",
		},
		{
			name: "calls",
			src:  `f(1, g(2))(3);`,
			want: "(program (call (call (ident f) (int 1) (call (ident g) (int 2))) (int 3)))",
		},
		{
			name: "const declaration",
			src:  `const limit: u8 = 0xff;`,
			want: "(program (const limit u8 (int 255)))",
		},
		{
			name: "nested compound",
			src:  `fn main() -> int { { 1; } 2 }`,
			want: "(program (fn main () int (compound (compound (int 1)) (int 2))))",
		},
		{
			name: "parameters",
			src:  `fn copy(dst: &mut [u8], src: &[u8; 4], n: int) -> i64;`,
			want: "(program (fn copy ((dst &mut [u8]) (src &[u8; 4]) (n int)) i64))",
		},
		{
			name: "variadic",
			src:  `fn printf(fmt: char*, ...) -> int;`,
			want: "(program (fn printf ((fmt char*) ...) int))",
		},
		{
			name: "typed variadic",
			src:  `fn sum(...int) -> int;`,
			want: "(program (fn sum (...int) int))",
		},
		{
			name: "pointer to pointer",
			src:  `var argv: char** = 0;`,
			want: "(program (var argv char** (int 0)))",
		},
		{
			name: "named type",
			src:  `var p: struct point = 0;`,
			want: "(program (var p struct point (int 0)))",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog := mustParse(t, tt.src)
			if diff := cmp.Diff(tt.want, ast.Sprint(prog)); diff != "" {
				t.Fatalf("tree mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseVariadicAndRefParams(t *testing.T) {
	prog := mustParse(t, `fn f(a: &mut int, ...i32);`)

	fn := prog.Decls[0].(*ast.FnDecl)
	if !fn.Variadic {
		t.Fatalf("expected variadic function")
	}
	if !ast.TypesEqual(fn.VariadicType, &ast.IntegerType{Bits: 32, Signed: true}) {
		t.Fatalf("expected variadic type i32, got %v", fn.VariadicType)
	}
	if len(fn.Params) != 1 {
		t.Fatalf("expected 1 parameter, got %d", len(fn.Params))
	}
	p := fn.Params[0]
	if p.Mode != ast.ByRef || !p.Mutable {
		t.Fatalf("expected mutable by-ref parameter, got %s mutable=%v", p.Mode, p.Mutable)
	}

	want := &ast.FuncType{
		Return:       ast.Void,
		Params:       []ast.Type{&ast.RefType{To: ast.Int, Mutable: true}},
		Variadic:     true,
		VariadicType: &ast.IntegerType{Bits: 32, Signed: true},
	}
	if !ast.TypesEqual(fn.Type(), want) {
		t.Fatalf("expected signature %s, got %s", want, fn.Type())
	}
}

func TestParseBatchesErrors(t *testing.T) {
	src := `
var a int = 1;
var ok: int = 2;
fn f(x int);
fn good();
`
	prog, errs := parseSource(t, src)
	if prog != nil {
		t.Fatalf("expected nil program when diagnostics are reported")
	}
	if len(errs) != 2 {
		t.Fatalf("expected 2 diagnostics, got %d: %v", len(errs), errs)
	}

	want := []diag.Code{diag.CodeParseMissingToken, diag.CodeParseMissingToken}
	if diff := cmp.Diff(want, codes(errs)); diff != "" {
		t.Fatalf("codes mismatch (-want +got):\n%s", diff)
	}
	if errs[0].Span.StartLine != 2 || errs[1].Span.StartLine != 4 {
		t.Fatalf("expected diagnostics on lines 2 and 4, got %s and %s", errs[0].Span, errs[1].Span)
	}
}

func TestParseRecoveryInBlock(t *testing.T) {
	src := `fn main() {
	var a: int = ;
	var b: int = 2;
	1 +
}
fn after() { var c = 3; }
`
	_, errs := parseSource(t, src)
	if len(errs) != 3 {
		t.Fatalf("expected 3 diagnostics, got %d: %v", len(errs), errs)
	}

	lines := []int{errs[0].Span.StartLine, errs[1].Span.StartLine, errs[2].Span.StartLine}
	if diff := cmp.Diff([]int{2, 5, 6}, lines); diff != "" {
		t.Fatalf("diagnostic lines mismatch (-want +got):\n%s", diff)
	}
}

func TestParseUnclosedBlocksReportOnce(t *testing.T) {
	_, errs := parseSource(t, `fn main() { { { }`)
	if len(errs) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d: %v", len(errs), errs)
	}
	if errs[0].Code != diag.CodeParseUnexpectedEndOfFile {
		t.Fatalf("expected %q, got %q", diag.CodeParseUnexpectedEndOfFile, errs[0].Code)
	}

	// Distinct errors before end of input are still reported.
	_, errs = parseSource(t, "fn main() {\n\tvar a: int = ;\n\t{")
	if len(errs) != 2 {
		t.Fatalf("expected 2 diagnostics, got %d: %v", len(errs), errs)
	}
}

func TestParseErrorCodes(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want diag.Code
	}{
		{"missing function name", `fn (a: int);`, diag.CodeParseDeclarationNoName},
		{"missing variable name", `var : int = 1;`, diag.CodeParseDeclarationNoName},
		{"missing parameter name", `fn f(: int);`, diag.CodeParseMissingIdentifier},
		{"missing initializer", `var x: int;`, diag.CodeParseMissingToken},
		{"body is not a block", `fn f() 1;`, diag.CodeParseMissingToken},
		{"missing type", `var x: = 1;`, diag.CodeParseMissingToken},
		{"stray closing brace", `}`, diag.CodeParseUnexpectedToken},
		{"trailing comma in call", `f(1,);`, diag.CodeParseUnexpectedToken},
		{"end of input", `var x: int = 1 +`, diag.CodeParseUnexpectedEndOfFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errs := parseSource(t, tt.src)
			if len(errs) != 1 {
				t.Fatalf("expected 1 diagnostic, got %d: %v", len(errs), errs)
			}
			if errs[0].Code != tt.want {
				t.Fatalf("expected code %s, got %s (%s)", tt.want, errs[0].Code, errs[0].Message)
			}
			if errs[0].Stage != diag.StageParser {
				t.Fatalf("expected parser stage, got %s", errs[0].Stage)
			}
		})
	}
}

func TestDiagnosticSpanUsesCursorToken(t *testing.T) {
	const src = `fn main() { var a int = 1; }`

	_, errs := parseSource(t, src)
	if len(errs) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(errs))
	}
	if got := errs[0].Span.StartCol; got != 18 {
		t.Fatalf("expected span at column 18 (the 'int' token), got %d", got)
	}

	_, errs = parseSource(t, src, parser.WithFirstTokenSpans())
	if len(errs) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(errs))
	}
	if got := errs[0].Span.StartCol; got != 0 {
		t.Fatalf("expected first-token span at column 0, got %d", got)
	}
}

func TestWithFilename(t *testing.T) {
	_, errs := parseSource(t, `var : int = 1;`, parser.WithFilename("main.cx"))
	if len(errs) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(errs))
	}
	if got := errs[0].Span.Filename; got != "main.cx" {
		t.Fatalf("expected filename %q, got %q", "main.cx", got)
	}
}

func TestParseSourceReportsLexerErrors(t *testing.T) {
	prog, errs := parseSource(t, "var x: int = 1 @ 2;")
	if prog != nil {
		t.Fatalf("expected nil program")
	}
	if len(errs) == 0 || errs[0].Stage != diag.StageLexer {
		t.Fatalf("expected a lexer diagnostic first, got %v", errs)
	}
}

func TestParseEmptyProgram(t *testing.T) {
	prog := mustParse(t, "  // nothing here\n")
	if len(prog.Decls) != 0 {
		t.Fatalf("expected no declarations, got %d", len(prog.Decls))
	}
}
