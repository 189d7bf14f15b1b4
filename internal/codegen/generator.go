// Package codegen lowers a parsed program to NASM x86-64 assembly in a single
// pass, using a fixed accumulator pair and an explicit stack frame layout.
package codegen

import (
	"fmt"

	"github.com/tliron/commonlog"

	"github.com/cx-lang/cxc/internal/ast"
)

type Option func(*Generator)

// WithCompat selects the historical layout: every local gets a fixed 32-byte
// slot with a padded stride, the slot is cleared to zero instead of holding
// the initializer, offsets are counted from rbp itself and one tracker spans
// the whole program.
func WithCompat() Option {
	return func(g *Generator) {
		g.compat = true
	}
}

// Generator converts a program to assembly. A Generator may be reused for
// several programs but is not safe for concurrent use.
type Generator struct {
	out   *Output
	frame frameTracker
	stack evalStack

	// nested function definitions, emitted after the enclosing function
	pending []*ast.FnDecl

	compat bool
	log    commonlog.Logger
}

// New creates a generator.
func New(opts ...Option) *Generator {
	g := &Generator{log: commonlog.GetLogger("cxc.codegen")}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate lowers prog. On failure no output is returned: an
// *UnsupportedError names the first construct without a lowering, and errors
// wrapping ErrUnbalancedStack report internal invariant violations.
func (g *Generator) Generate(prog *ast.Program) (*Output, error) {
	g.out = &Output{}
	g.frame = frameTracker{compat: g.compat}
	g.stack = evalStack{}
	g.pending = nil

	for _, decl := range prog.Decls {
		if err := g.genTopLevel(decl); err != nil {
			return nil, err
		}
	}
	if err := g.stack.expect(0); err != nil {
		return nil, err
	}

	g.log.Debugf("generated %d text lines, max stack depth %d", len(g.out.Text), g.stack.max)
	return g.out, nil
}

func (g *Generator) genTopLevel(decl ast.Decl) error {
	switch d := decl.(type) {
	case *ast.FnDecl:
		return g.genFunction(d)
	case *ast.VarDecl:
		if g.compat {
			return g.genLocal(d)
		}
		return g.genGlobal(d)
	case *ast.ExprDecl:
		return unsupported("expression outside of a function", d.Span())
	default:
		return fmt.Errorf("codegen: unknown declaration %T", decl)
	}
}

// genDecl lowers a declaration nested in a compound expression.
func (g *Generator) genDecl(decl ast.Decl) error {
	switch d := decl.(type) {
	case *ast.FnDecl:
		if d.IsForward() || g.compat {
			return g.genFunction(d)
		}
		g.pending = append(g.pending, d)
		return nil
	case *ast.VarDecl:
		return g.genLocal(d)
	case *ast.ExprDecl:
		mark := g.stack.depth()
		if err := g.genExpr(d.X); err != nil {
			return err
		}
		return g.stack.expect(mark)
	default:
		return fmt.Errorf("codegen: unknown declaration %T", decl)
	}
}

// genFunction emits an extern for a forward declaration, otherwise the
// function's label, frame setup, body and epilogue. The body's value is the
// return value in rax.
func (g *Generator) genFunction(fn *ast.FnDecl) error {
	if fn.IsForward() {
		g.emitExtern(fn.Name)
		return nil
	}

	g.log.Debugf("function %s", fn.Name)

	frame := 0
	if !g.compat {
		size, err := frameSize(fn.Body)
		if err != nil {
			return err
		}
		frame = size
		g.frame.reset()
		g.out.Globals = append(g.out.Globals, fn.Name)
	}

	g.emitLabel(fn.Name)
	g.emit("push", "rbp")
	g.emit("mov", "rbp, rsp")
	if frame > 0 {
		g.emit("sub", "rsp, %d", frame)
	}

	if err := g.genCompound(fn.Body); err != nil {
		return err
	}

	g.emit("mov", "rsp, rbp")
	g.emit("pop", "rbp")
	g.emit("ret", "")

	for len(g.pending) > 0 {
		next := g.pending[0]
		g.pending = g.pending[1:]
		if err := g.genFunction(next); err != nil {
			return err
		}
	}
	return nil
}

// genLocal reserves a frame slot for decl. The historical layout clears the
// slot; the default layout evaluates the initializer and stores it.
func (g *Generator) genLocal(decl *ast.VarDecl) error {
	if g.compat {
		off := g.frame.next(compatSlotSize)
		g.emit("mov", "[rbp - %d], 0", off)
		return nil
	}

	size, ok := slotSize(decl.Type)
	if !ok {
		return unsupported("local of type "+typeName(decl.Type), decl.Span())
	}
	off := g.frame.next(size) + size

	if decl.Init == nil {
		g.emit("mov", "qword [rbp - %d], 0", off)
		return nil
	}

	mark := g.stack.depth()
	if err := g.genExpr(decl.Init); err != nil {
		return err
	}
	if err := g.stack.expect(mark); err != nil {
		return err
	}
	g.emit("mov", "qword [rbp - %d], %s", off, accumulator)
	return nil
}

// genGlobal places a global in .data, or in .bss when its value is zero.
func (g *Generator) genGlobal(decl *ast.VarDecl) error {
	if size, ok := slotSize(decl.Type); !ok || size != wordSize {
		return unsupported("global of type "+typeName(decl.Type), decl.Span())
	}

	v, err := foldGlobal(decl)
	if err != nil {
		return err
	}
	if v == 0 {
		g.out.BSS = append(g.out.BSS, fmt.Sprintf("%s: resq 1", decl.Name))
		return nil
	}
	g.out.Data = append(g.out.Data, fmt.Sprintf("%s: dq %d", decl.Name, v))
	return nil
}

func (g *Generator) genCompound(c *ast.CompoundExpr) error {
	for _, decl := range c.Decls {
		if err := g.genDecl(decl); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) emit(op, format string, args ...any) {
	line := "    " + op
	if format != "" {
		line += " " + fmt.Sprintf(format, args...)
	}
	g.out.Text = append(g.out.Text, line)
}

func (g *Generator) emitLabel(name string) {
	g.out.Text = append(g.out.Text, name+":")
}

func (g *Generator) emitExtern(name string) {
	g.out.Externs = append(g.out.Externs, "extern "+name)
}

func (g *Generator) push(reg string) {
	g.emit("push", "%s", reg)
	g.stack.push(reg)
}

func (g *Generator) pop(reg string) error {
	if err := g.stack.pop(); err != nil {
		return err
	}
	g.emit("pop", "%s", reg)
	return nil
}
