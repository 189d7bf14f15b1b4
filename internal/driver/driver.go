// Package driver wires the lexer, parser and code generator together.
package driver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"

	"github.com/cx-lang/cxc/internal/codegen"
	"github.com/cx-lang/cxc/internal/config"
	"github.com/cx-lang/cxc/internal/diag"
	"github.com/cx-lang/cxc/internal/parser"
)

var log = commonlog.GetLogger("cxc.driver")

// Options selects compatibility behavior for a compilation.
type Options struct {
	Compat          bool
	FirstTokenSpans bool
}

// OptionsFromConfig extracts the build options of cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Compat:          cfg.Build.Compat,
		FirstTokenSpans: cfg.Build.FirstTokenSpans,
	}
}

// Unit is one translation unit.
type Unit struct {
	Filename string
	Source   string
}

// Result is the outcome of compiling one unit. Exactly one of Output and
// Diagnostics is set unless Err reports an internal failure.
type Result struct {
	Unit        Unit
	Output      *codegen.Output
	Diagnostics diag.List
	Err         error
}

// Failed reports whether the unit produced no output.
func (r *Result) Failed() bool {
	return r.Output == nil
}

// Compile lexes, parses and generates one unit. Syntax errors and
// unsupported constructs are returned as diagnostics; any other error is an
// internal failure.
func Compile(unit Unit, opts Options) *Result {
	res := &Result{Unit: unit}

	popts := []parser.Option{parser.WithFilename(unit.Filename)}
	if opts.FirstTokenSpans {
		popts = append(popts, parser.WithFirstTokenSpans())
	}
	prog, diags := parser.ParseSource(unit.Source, popts...)
	if len(diags) > 0 {
		log.Debugf("%s: %d diagnostic(s)", unit.Filename, len(diags))
		res.Diagnostics = diags
		return res
	}

	var gopts []codegen.Option
	if opts.Compat {
		gopts = append(gopts, codegen.WithCompat())
	}
	out, err := codegen.New(gopts...).Generate(prog)
	if err != nil {
		var ue *codegen.UnsupportedError
		if errors.As(err, &ue) {
			res.Diagnostics = diag.List{ue.Diagnostic()}.WithFilename(unit.Filename)
			return res
		}
		res.Err = fmt.Errorf("%s: %w", unit.Filename, err)
		return res
	}

	log.Debugf("%s: %d declaration(s) compiled", unit.Filename, len(prog.Decls))
	res.Output = out
	return res
}

// CompileAll compiles independent units concurrently. Results keep the
// order of units. The returned error is non-nil only when ctx is cancelled
// before every unit has been compiled.
func CompileAll(ctx context.Context, units []Unit, opts Options) ([]*Result, error) {
	results := make([]*Result, len(units))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, unit := range units {
		i, unit := i, unit
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = Compile(unit, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// ReadUnits loads the named source files.
func ReadUnits(paths []string) ([]Unit, error) {
	units := make([]Unit, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("cannot read %s: %w", path, err)
		}
		units = append(units, Unit{Filename: path, Source: string(data)})
	}
	return units, nil
}
