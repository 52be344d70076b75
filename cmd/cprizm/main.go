// Command cprizm compiles a single C-subset source file to either AArch64
// assembly text (macOS calling convention) or a Casio Prizm fx-CG50 G3A
// binary: read the file, run the pipeline stage by stage, report the
// first failure with fatih/color styling, print a green "done" line naming
// the output file on success.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/iancoleman/strcase"

	"cprizm/internal/arch"
	"cprizm/internal/assemble"
	"cprizm/internal/ast"
	"cprizm/internal/codegen/aarch64"
	"cprizm/internal/codegen/sh4a"
	"cprizm/internal/compile"
	"cprizm/internal/config"
	"cprizm/internal/cst"
	"cprizm/internal/dot"
	cerrors "cprizm/internal/errors"
	"cprizm/internal/g3a"
	"cprizm/internal/ir"
	"cprizm/internal/irbuild"
	"cprizm/internal/regalloc"
	"cprizm/internal/semantic"
)

func main() {
	cfg, err := config.Parse(os.Args[1:])
	if err != nil {
		color.Red("error: %s", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		color.Red("error: %s", err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	source, err := os.ReadFile(cfg.Source)
	if err != nil {
		return fmt.Errorf("reading %s: %w", cfg.Source, err)
	}

	unit, parseErrors, err := cst.ParseSource(cfg.Source, string(source))
	if err != nil {
		reporter := cerrors.NewErrorReporter(cfg.Source, string(source))
		if ce, ok := cerrors.ReportParticipleError(cfg.Source, err); ok {
			fmt.Print(reporter.FormatError(ce))
		} else {
			color.HiRed("unexpected error: %s", err)
		}
		return fmt.Errorf("lexing failed")
	}
	if len(parseErrors) > 0 {
		reporter := cerrors.NewErrorReporter(cfg.Source, string(source))
		for _, pe := range parseErrors {
			fmt.Print(reporter.FormatError(cerrors.CompilerError{
				Level:   cerrors.Error,
				Code:    cerrors.ErrorUnexpectedToken,
				Message: pe.Message,
				Position: ast.Position{
					Filename: pe.Pos.Filename,
					Offset:   pe.Pos.Offset,
					Line:     pe.Pos.Line,
					Column:   pe.Pos.Column,
				},
				Length: 1,
			}))
		}
		return fmt.Errorf("parsing failed with %d error(s)", len(parseErrors))
	}

	checked := semantic.Check(unit)
	if len(checked.Diagnostics) > 0 {
		reporter := cerrors.NewErrorReporter(cfg.Source, string(source))
		for _, d := range checked.Diagnostics {
			fmt.Print(reporter.FormatError(d))
		}
	}
	if checked.HasErrors() {
		return fmt.Errorf("semantic checking failed")
	}

	program, err := irbuild.Build(unit, checked, cfg.Target)
	if err != nil {
		return fmt.Errorf("building IR: %w", err)
	}

	if cfg.EmitDot {
		dotPath := "program.dot"
		if err := os.WriteFile(dotPath, []byte(dot.Program(program)), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", dotPath, err)
		}
	}

	results, err := compileFunctions(program, cfg)
	if err != nil {
		return err
	}

	switch cfg.Target.Name {
	case arch.AArch64Mac.Name:
		err = writeAArch64(cfg, program, results)
	case arch.SH4AFxcg50.Name:
		err = writeFxcg50(cfg, program, results)
	default:
		err = fmt.Errorf("unsupported target %q", cfg.Target.Name)
	}
	if err != nil {
		return err
	}

	color.Green("done -> %s", cfg.OutputPath)
	return nil
}

// compileFunctions runs the post-irbuild pipeline over every function in
// program, in name order so -v timing output is reproducible across runs.
func compileFunctions(program *ir.Program, cfg config.Config) (map[string]*compile.Result, error) {
	names := sortedFunctionNames(program)
	results := make(map[string]*compile.Result, len(names))

	for _, name := range names {
		fn := program.Functions[name]

		var tracer regalloc.Tracer = regalloc.NoopTracer{}
		if cfg.Verbose {
			tracer = &regalloc.RecordingTracer{}
		}

		start := time.Now()
		result, err := compile.Function(fn, cfg.Target, cfg.OptLevel, tracer)
		if err != nil {
			return nil, fmt.Errorf("compiling %s: %w", name, err)
		}
		if cfg.Verbose {
			fmt.Fprintf(os.Stderr, "%-24s %s\n", name, time.Since(start))
			if rt, ok := tracer.(*regalloc.RecordingTracer); ok {
				for _, step := range rt.Steps {
					printTraceStep(step)
				}
			}
		}
		results[name] = result
	}

	return results, nil
}

func writeAArch64(cfg config.Config, program *ir.Program, results map[string]*compile.Result) error {
	var out []byte
	for _, name := range sortedFunctionNames(program) {
		r := results[name]
		out = append(out, []byte(aarch64.Lower(r.Function, r.Mapping, r.Frame))...)
		out = append(out, '\n')
	}
	return os.WriteFile(cfg.OutputPath, out, 0o644)
}

func writeFxcg50(cfg config.Config, program *ir.Program, results map[string]*compile.Result) error {
	var blocks []sh4a.Block
	mainName := ""
	for _, name := range sortedFunctionNames(program) {
		r := results[name]
		lowered := sh4a.Lower(r.Function, r.Mapping, r.Frame)
		if name == "main" && len(lowered) > 0 {
			mainName = lowered[0].Name
		}
		blocks = append(blocks, lowered...)
	}

	if mainName == "" && len(blocks) > 0 {
		mainName = blocks[0].Name
	}

	code := assemble.Assemble(mainName, blocks)

	internalName := strcase.ToScreamingSnake(baseName(cfg.Source))
	if len(internalName) > 8 {
		internalName = internalName[:8]
	}

	builder := g3a.NewBuilder(internalName, "01.00", "20260101000000")
	builder.InternalName(internalName).ShortName(baseName(cfg.Source)).Code(code)

	return os.WriteFile(cfg.OutputPath, builder.Finish(), 0o644)
}

func printTraceStep(step regalloc.TraceStep) {
	switch {
	case step.Function != nil:
		fmt.Fprint(os.Stderr, *step.Function)
	case step.Spilled != nil:
		fmt.Fprintf(os.Stderr, "spilled %s\n", step.Spilled.String())
	}
}

func baseName(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}

func sortedFunctionNames(program *ir.Program) []string {
	names := make([]string, 0, len(program.Functions))
	for name := range program.Functions {
		names = append(names, name)
	}
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j-1] > names[j]; j-- {
			names[j-1], names[j] = names[j], names[j-1]
		}
	}
	return names
}
