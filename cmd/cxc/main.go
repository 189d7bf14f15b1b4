package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tliron/commonlog"

	"github.com/cx-lang/cxc/internal/config"

	_ "github.com/tliron/commonlog/simple"
)

func main() {
	verbosity := flag.Int("v", -1, "log verbosity (overrides log.verbosity in cxc.toml)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: cxc [-v N] <command> [options]\n")
		fmt.Fprintf(os.Stderr, "\nCommands:\n")
		fmt.Fprintf(os.Stderr, "  build [files]   Compile source files to NASM assembly\n")
		fmt.Fprintf(os.Stderr, "  run <file>      Compile a file and simulate main, printing rax\n")
		fmt.Fprintf(os.Stderr, "  check [files]   Report diagnostics without writing output\n")
		fmt.Fprintf(os.Stderr, "  parse <file>    Print the syntax tree of a file\n")
		fmt.Fprintf(os.Stderr, "\nWithout files, build and check use the sources listed in cxc.toml.\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	level := cfg.Log.Verbosity
	if *verbosity >= 0 {
		level = *verbosity
	}
	commonlog.Configure(level, nil)

	command := flag.Arg(0)
	args := flag.Args()[1:]

	switch command {
	case "build":
		os.Exit(runBuild(cfg, args))
	case "run":
		os.Exit(runRun(cfg, args))
	case "check":
		os.Exit(runCheck(cfg, args))
	case "parse":
		os.Exit(runParse(cfg, args))
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		flag.Usage()
		os.Exit(1)
	}
}

// loadConfig finds cxc.toml from the working directory, falling back to
// defaults rooted there.
func loadConfig() (*config.Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	cfg, err := config.FindAndLoad(cwd)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = config.Default()
		cfg.Dir = cwd
	}
	return cfg, nil
}
