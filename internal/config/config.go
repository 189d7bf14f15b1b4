// Package config handles cxc.toml project configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the name of the project file searched for by FindAndLoad.
const FileName = "cxc.toml"

// Config represents a cxc.toml project configuration.
type Config struct {
	Project Project `toml:"project"`
	Source  Source  `toml:"source"`
	Build   Build   `toml:"build"`
	Log     Log     `toml:"log"`

	// Dir is the directory containing the cxc.toml file (set at load time).
	Dir string `toml:"-"`
}

// Project contains project metadata.
type Project struct {
	Name string `toml:"name"`
}

// Source lists the translation units of the project.
type Source struct {
	Files []string `toml:"files"`
}

// Build configures code generation and output.
type Build struct {
	Output          string `toml:"output"`
	Compat          bool   `toml:"compat"`
	FirstTokenSpans bool   `toml:"first-token-spans"`
}

// Log configures logging verbosity.
type Log struct {
	Verbosity int `toml:"verbosity"`
}

// Default returns the configuration used when no cxc.toml exists.
func Default() *Config {
	return &Config{
		Build: Build{Output: "."},
	}
}

// Parse decodes cxc.toml content. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown key %q", undecoded[0].String())
	}
	if cfg.Build.Output == "" {
		cfg.Build.Output = "."
	}
	if cfg.Log.Verbosity < 0 {
		return nil, errors.New("log.verbosity must not be negative")
	}
	return cfg, nil
}

// Load parses the cxc.toml file in dir.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	cfg.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}
	return cfg, nil
}

// FindAndLoad walks up from startDir to find a cxc.toml file, then loads
// it. Returns nil if no file is found.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, FileName)); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

// SourcePaths returns the configured source files relative to Dir.
func (c *Config) SourcePaths() []string {
	paths := make([]string, 0, len(c.Source.Files))
	for _, f := range c.Source.Files {
		if filepath.IsAbs(f) {
			paths = append(paths, f)
			continue
		}
		paths = append(paths, filepath.Join(c.Dir, f))
	}
	return paths
}

// OutputPath returns where the assembly for source file src is written:
// the file's base name with an .asm extension inside Build.Output.
func (c *Config) OutputPath(src string) string {
	base := filepath.Base(src)
	base = base[:len(base)-len(filepath.Ext(base))] + ".asm"

	out := c.Build.Output
	if !filepath.IsAbs(out) {
		out = filepath.Join(c.Dir, out)
	}
	return filepath.Join(out, base)
}
