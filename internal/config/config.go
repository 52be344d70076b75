// Package config parses cprizm's command-line invocation by hand,
// following the CLI entrypoint's convention of
// scanning os.Args directly rather than reaching for a flag library -
// confirmed against the rest of the retrieval pack, no example repo
// there uses one either.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"cprizm/internal/arch"
)

// Config is the fully resolved set of options one compiler invocation
// runs with.
type Config struct {
	Source     string
	Target     arch.Descriptor
	OutputPath string
	OptLevel   int
	EmitDot    bool
	Verbose    bool
}

// archOverride is the shape an --arch-config YAML file may supply to
// replace individual register banks or the stack alignment of the chosen
// target descriptor, exercising gopkg.in/yaml.v3 as a direct domain
// dependency rather than only the transitive one already pulled in
// (see SPEC_FULL.md §1.3).
type archOverride struct {
	GPRegisters []string `yaml:"gp_registers"`
	FPRegisters []string `yaml:"fp_registers"`
	StackAlign  int      `yaml:"stack_align"`
}

// Parse scans args - conventionally os.Args[1:] - one positional source
// file plus a handful of named flags, no subcommands.
func Parse(args []string) (Config, error) {
	cfg := Config{OptLevel: 1, EmitDot: true}
	targetName := ""
	archConfigPath := ""

	for i := 0; i < len(args); i++ {
		a := args[i]
		switch a {
		case "--target":
			i++
			if i >= len(args) {
				return Config{}, fmt.Errorf("--target requires a value")
			}
			targetName = args[i]
		case "-L":
			cfg.EmitDot = false
		case "-O":
			i++
			if i >= len(args) {
				return Config{}, fmt.Errorf("-O requires a value")
			}
			level, err := parseLevel(args[i])
			if err != nil {
				return Config{}, err
			}
			cfg.OptLevel = level
		case "--target-file":
			i++
			if i >= len(args) {
				return Config{}, fmt.Errorf("--target-file requires a value")
			}
			cfg.OutputPath = args[i]
		case "-v":
			cfg.Verbose = true
		case "--arch-config":
			i++
			if i >= len(args) {
				return Config{}, fmt.Errorf("--arch-config requires a value")
			}
			archConfigPath = args[i]
		default:
			if len(a) > 0 && a[0] == '-' {
				return Config{}, fmt.Errorf("unrecognized flag %q", a)
			}
			if cfg.Source != "" {
				return Config{}, fmt.Errorf("unexpected argument %q, source already set to %q", a, cfg.Source)
			}
			cfg.Source = a
		}
	}

	if cfg.Source == "" {
		return Config{}, fmt.Errorf("usage: cprizm [--target mac-aarch64|fxcg50] [-O N] [-L] [-v] [--target-file out] [--arch-config file.yaml] <file.c>")
	}

	if targetName == "" {
		targetName = arch.AArch64Mac.Name
	}
	target, ok := arch.ByName(targetName)
	if !ok {
		return Config{}, fmt.Errorf("unknown target %q", targetName)
	}
	cfg.Target = target

	if archConfigPath != "" {
		overridden, err := applyArchOverride(cfg.Target, archConfigPath)
		if err != nil {
			return Config{}, err
		}
		cfg.Target = overridden
	}

	if cfg.OutputPath == "" {
		cfg.OutputPath = defaultOutputPath(cfg.Source, cfg.Target)
	}

	return cfg, nil
}

func parseLevel(s string) (int, error) {
	switch s {
	case "0":
		return 0, nil
	case "1":
		return 1, nil
	case "2":
		return 2, nil
	default:
		return 0, fmt.Errorf("invalid optimization level %q, want 0, 1 or 2", s)
	}
}

func defaultOutputPath(source string, target arch.Descriptor) string {
	base := source[:len(source)-len(filepath.Ext(source))]
	if target.Name == arch.SH4AFxcg50.Name {
		return base + ".g3a"
	}
	return base + ".s"
}

// applyArchOverride decodes path as YAML and layers whichever fields it
// sets on top of base, leaving every field the file doesn't mention
// untouched.
func applyArchOverride(base arch.Descriptor, path string) (arch.Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return arch.Descriptor{}, fmt.Errorf("reading --arch-config: %w", err)
	}

	var override archOverride
	if err := yaml.Unmarshal(data, &override); err != nil {
		return arch.Descriptor{}, fmt.Errorf("parsing --arch-config: %w", err)
	}

	out := base
	if len(override.GPRegisters) > 0 {
		out.GPRegisters = namedFrom(override.GPRegisters, arch.GeneralPurpose)
	}
	if len(override.FPRegisters) > 0 {
		out.FPRegisters = namedFrom(override.FPRegisters, arch.FloatingPoint)
	}
	if override.StackAlign > 0 {
		out.StackAlign = override.StackAlign
	}
	return out, nil
}

func namedFrom(names []string, class arch.RegisterClass) []arch.Register {
	out := make([]arch.Register, len(names))
	for i, n := range names {
		out[i] = arch.Register{Name: n, Class: class}
	}
	return out
}
