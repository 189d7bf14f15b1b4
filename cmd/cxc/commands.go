package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cx-lang/cxc/internal/ast"
	"github.com/cx-lang/cxc/internal/config"
	"github.com/cx-lang/cxc/internal/diag"
	"github.com/cx-lang/cxc/internal/driver"
	"github.com/cx-lang/cxc/internal/parser"
	"github.com/cx-lang/cxc/internal/x86sim"
)

func runBuild(cfg *config.Config, args []string) int {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	output := fs.String("o", "", "write assembly to `file` (\"-\" for stdout; single input only)")
	compat := fs.Bool("compat", cfg.Build.Compat, "reproduce the historical frame layout")
	firstToken := fs.Bool("first-token-spans", cfg.Build.FirstTokenSpans, "report every diagnostic at the first token")
	fs.Parse(args)

	paths, fromConfig := inputs(cfg, fs.Args())
	if len(paths) == 0 {
		fmt.Fprintf(os.Stderr, "Usage: cxc build [-o file] [-compat] <file>...\n")
		return 1
	}
	if *output != "" && len(paths) != 1 {
		fmt.Fprintf(os.Stderr, "Error: -o requires exactly one input file\n")
		return 1
	}

	results, code := compile(paths, driver.Options{Compat: *compat, FirstTokenSpans: *firstToken})
	if results == nil {
		return code
	}

	for _, res := range results {
		if res.Failed() {
			continue
		}
		asm := res.Output.String()

		var dest string
		switch {
		case *output != "":
			dest = *output
		case fromConfig:
			dest = cfg.OutputPath(res.Unit.Filename)
		default:
			dest = "-"
		}
		if err := writeOutput(dest, asm); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}
	return code
}

func runRun(cfg *config.Config, args []string) int {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	entry := fs.String("entry", "main", "function to call")
	fs.Parse(args)

	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: cxc run [-entry name] <file>\n")
		return 1
	}

	results, code := compile(fs.Args(), driver.OptionsFromConfig(cfg))
	if results == nil || code != 0 {
		return max(code, 1)
	}

	rax, err := x86sim.Run(results[0].Output.String(), *entry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Println(rax)
	return 0
}

func runCheck(cfg *config.Config, args []string) int {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	format := fs.String("format", "text", "diagnostic format: text or cbor")
	fs.Parse(args)

	if *format != "text" && *format != "cbor" {
		fmt.Fprintf(os.Stderr, "Error: unknown format %q\n", *format)
		return 1
	}

	paths, _ := inputs(cfg, fs.Args())
	if len(paths) == 0 {
		fmt.Fprintf(os.Stderr, "Usage: cxc check [-format text|cbor] <file>...\n")
		return 1
	}
	units, err := driver.ReadUnits(paths)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	results, err := driver.CompileAll(context.Background(), units, driver.OptionsFromConfig(cfg))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	var all diag.List
	for _, res := range results {
		if res.Err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", res.Err)
			return 1
		}
		all.Extend(res.Diagnostics)
	}

	if *format == "cbor" {
		if err := all.EncodeCBOR(os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	} else {
		report(units, all)
	}

	if all.HasErrors() {
		return 1
	}
	return 0
}

func runParse(cfg *config.Config, args []string) int {
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "Usage: cxc parse <file>\n")
		return 1
	}
	units, err := driver.ReadUnits(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	opts := []parser.Option{parser.WithFilename(units[0].Filename)}
	if cfg.Build.FirstTokenSpans {
		opts = append(opts, parser.WithFirstTokenSpans())
	}
	prog, diags := parser.ParseSource(units[0].Source, opts...)
	if len(diags) > 0 {
		report(units, diags)
		return 1
	}
	if err := ast.Fprint(os.Stdout, prog); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// inputs returns the files named on the command line, or the sources of
// cxc.toml when there are none.
func inputs(cfg *config.Config, args []string) (paths []string, fromConfig bool) {
	if len(args) > 0 {
		return args, false
	}
	return cfg.SourcePaths(), true
}

// compile reads and compiles paths, printing diagnostics. It returns nil
// results when nothing could be compiled, and exit code 1 when any unit
// failed.
func compile(paths []string, opts driver.Options) ([]*driver.Result, int) {
	units, err := driver.ReadUnits(paths)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return nil, 1
	}

	results, err := driver.CompileAll(context.Background(), units, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return nil, 1
	}

	code := 0
	var all diag.List
	for _, res := range results {
		if res.Err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", res.Err)
			code = 1
		}
		if len(res.Diagnostics) > 0 {
			all.Extend(res.Diagnostics)
			code = 1
		}
	}
	report(units, all)
	return results, code
}

func report(units []driver.Unit, diags diag.List) {
	if len(diags) == 0 {
		return
	}
	f := diag.NewFormatter(os.Stderr)
	for _, u := range units {
		f.AddSource(u.Filename, u.Source)
	}
	f.FormatAll(diags)
}

func writeOutput(dest, asm string) error {
	if dest == "-" {
		_, err := io.WriteString(os.Stdout, asm)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return err
	}
	return os.WriteFile(dest, []byte(asm), 0644)
}
