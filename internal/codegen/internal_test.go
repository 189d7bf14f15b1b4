package codegen

import (
	"errors"
	"testing"

	"github.com/cx-lang/cxc/internal/ast"
	"github.com/cx-lang/cxc/internal/parser"
)

func TestFrameTrackerStride(t *testing.T) {
	tests := []struct {
		name   string
		compat bool
		sizes  []int
		want   []int
	}{
		{"compat fixed slots", true, []int{32, 32, 32}, []int{0, 40, 80}},
		{"compat small slot", true, []int{8, 8}, []int{0, 16}},
		{"corrected", false, []int{8, 1, 16, 4}, []int{0, 8, 16, 32}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := frameTracker{compat: tt.compat}
			for i, size := range tt.sizes {
				if got := f.next(size); got != tt.want[i] {
					t.Fatalf("slot %d: expected offset %d, got %d", i, tt.want[i], got)
				}
			}
		})
	}
}

func TestEvalStackBalance(t *testing.T) {
	var s evalStack
	if err := s.pop(); !errors.Is(err, ErrUnbalancedStack) {
		t.Fatalf("expected ErrUnbalancedStack from an empty pop, got %v", err)
	}

	s.push(accumulator)
	s.push(accumulator)
	if err := s.expect(0); !errors.Is(err, ErrUnbalancedStack) {
		t.Fatalf("expected ErrUnbalancedStack, got %v", err)
	}
	if err := s.pop(); err != nil {
		t.Fatal(err)
	}
	if err := s.pop(); err != nil {
		t.Fatal(err)
	}
	if err := s.expect(0); err != nil {
		t.Fatalf("expected balanced stack, got %v", err)
	}
	if s.max != 2 {
		t.Fatalf("expected max depth 2, got %d", s.max)
	}
}

func TestFrameSize(t *testing.T) {
	tests := []struct {
		src  string
		want int
	}{
		{`fn f() { 1; }`, 0},
		{`fn f() { var a: int = 1; }`, 16},
		{`fn f() { var a: int = 1; var b: int = 2; }`, 16},
		{`fn f() { var a: int = 1; var b: int = { var c: int = 3; c }; }`, 32},
		{`fn f() { var a: int = 1; fn g() { var b: int = 1; var c: int = 2; } }`, 16},
	}

	for _, tt := range tests {
		prog, errs := parser.ParseSource(tt.src)
		if len(errs) > 0 {
			t.Fatalf("%s: %v", tt.src, errs)
		}
		fn := prog.Decls[0].(*ast.FnDecl)
		got, err := frameSize(fn.Body)
		if err != nil {
			t.Fatalf("%s: %v", tt.src, err)
		}
		if got != tt.want {
			t.Fatalf("%s: expected frame of %d bytes, got %d", tt.src, tt.want, got)
		}
	}
}

func TestConstantFolding(t *testing.T) {
	tests := []struct {
		src  string
		want int64
	}{
		{`const x: int = 6 * 7;`, 42},
		{`const x: int = 10 - 4 - 3;`, 3},
		{`const x: int = -5;`, -5},
		{`const x: int = !0;`, 1},
		{`const x: int = 3 < 4;`, 1},
		{`const x: int = 17 % 5;`, 2},
		{`const x: int = -1 / 2;`, int64(^uint64(0) / 2)},
	}

	for _, tt := range tests {
		prog, errs := parser.ParseSource(tt.src)
		if len(errs) > 0 {
			t.Fatalf("%s: %v", tt.src, errs)
		}
		got, err := foldGlobal(prog.Decls[0].(*ast.VarDecl))
		if err != nil {
			t.Fatalf("%s: %v", tt.src, err)
		}
		if got != tt.want {
			t.Fatalf("%s: expected %d, got %d", tt.src, tt.want, got)
		}
	}
}

func TestConstantDivideByZero(t *testing.T) {
	prog, errs := parser.ParseSource(`const x: int = 1 / (2 - 2);`)
	if len(errs) > 0 {
		t.Fatal(errs)
	}
	if _, err := New().Generate(prog); !errors.Is(err, errDivideByZero) {
		t.Fatalf("expected errDivideByZero, got %v", err)
	}
}
