package ir

import (
	"fmt"
	"strings"
)

// Printer provides pretty-printing for IR, used for -v output and as the
// basis of the program.dot exporter's node labels.
type Printer struct {
	indent int
	output strings.Builder
}

func NewPrinter() *Printer { return &Printer{} }

// Print returns the textual form of an entire program.
func Print(p *Program) string {
	pr := NewPrinter()
	pr.printProgram(p)
	return pr.output.String()
}

// PrintFunction returns the textual form of a single function.
func PrintFunction(f *FunctionDefinition) string {
	pr := NewPrinter()
	pr.printFunction(f)
	return pr.output.String()
}

func (p *Printer) writeLine(format string, args ...interface{}) {
	p.output.WriteString(strings.Repeat("  ", p.indent))
	p.output.WriteString(fmt.Sprintf(format, args...))
	p.output.WriteString("\n")
}

func (p *Printer) printProgram(prog *Program) {
	p.writeLine("PROGRAM")
	p.indent++
	for _, fn := range prog.Functions {
		p.writeLine("")
		p.printFunction(fn)
	}
	p.indent--
}

func (p *Printer) printFunction(f *FunctionDefinition) {
	args := make([]string, len(f.Arguments))
	for i, a := range f.Arguments {
		args[i] = fmt.Sprintf("%s %s", a.Type, a.Name)
	}
	p.writeLine("func %s(%s) -> %s", f.Name, strings.Join(args, ", "), f.ReturnType)
	p.indent++
	for _, b := range f.Blocks() {
		p.printBlock(b)
	}
	p.indent--
}

func (p *Printer) printBlock(b *BasicBlock) {
	label := b.Description
	if label == "" {
		label = "block"
	}
	p.writeLine("%s%d: ; preds=%v", label, b.ID(), b.Predecessors)
	p.indent++
	for _, s := range b.Statements {
		p.writeLine("%s", s.String())
	}
	p.indent--
}
