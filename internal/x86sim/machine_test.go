package x86sim

import (
	"errors"
	"testing"
)

func TestRunArithmetic(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want int64
	}{
		{
			name: "subtract",
			src: `section .text
main:
    push rbp
    mov rbp, rsp
    mov rax, 5
    push rax
    mov rax, 3
    pop rbx
    sub rbx, rax
    mov rax, rbx
    mov rsp, rbp
    pop rbp
    ret
`,
			want: 2,
		},
		{
			name: "divide ignores stale rdx",
			src: `main:
    mov rdx, 99
    mov rbx, 17
    mov rax, 5
    xor rdx, rdx
    mov rcx, rax
    mov rax, rbx
    div rcx
    mov rax, rdx
    ret
`,
			want: 2,
		},
		{
			name: "compare and negate",
			src: `main:
    mov rbx, 3
    mov rax, 4
    cmp rbx, rax
    setl al
    movzx rax, al
    neg rax
    ret
`,
			want: -1,
		},
		{
			name: "frame slots",
			src: `main:
    push rbp
    mov rbp, rsp
    sub rsp, 16
    mov rax, 40
    mov qword [rbp - 8], rax
    mov rax, 50
    mov qword [rbp - 16], rax
    mov rax, [rbp - 8]
    add rax, [rbp - 16]
    mov rsp, rbp
    pop rbp
    ret
`,
			want: 90,
		},
		{
			name: "call",
			src: `helper:
    mov rax, 7
    ret
main:
    call helper
    imul rax, 6
    ret
`,
			want: 42,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Run(tt.src, "main")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected rax = %d, got %d", tt.want, got)
			}
		})
	}
}

func TestRunIgnoresDirectivesAndData(t *testing.T) {
	src := `extern puts

section .text
global main
main:
    mov rax, 1 ; comment
    ret

section .data
answer: dq 42

section .bss
scratch: resq 1
`
	got, err := Run(src, "main")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 1 {
		t.Fatalf("expected rax = 1, got %d", got)
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"divide by zero", "main:\n    xor rdx, rdx\n    mov rcx, 0\n    div rcx\n    ret\n", ErrDivide},
		{"infinite loop", "main:\n    call main\n", ErrStepLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, err := Parse(tt.src)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			m := NewMachine()
			m.MaxSteps = 1000
			if _, err := m.Call(prog, "main"); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	for _, src := range []string{
		"main:\nmain:\n",
		"main:\n    mov rax, foo\n",
		"main:\n    mov rax, [rbp - 8\n",
		"main:\n    mov rax, [rip + 8]\n",
	} {
		if _, err := Parse(src); err == nil {
			t.Fatalf("expected parse error for %q", src)
		}
	}
}

func TestUnknownEntry(t *testing.T) {
	if _, err := Run("main:\n    ret\n", "start"); err == nil {
		t.Fatalf("expected error for a missing entry label")
	}
}
