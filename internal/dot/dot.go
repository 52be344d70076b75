// Package dot renders a Program's control-flow graph as Graphviz source,
// one cluster subgraph per function, reusing ir.Printer's statement text
// for node labels exactly as that package's own doc comment anticipates.
package dot

import (
	"fmt"
	"strings"

	"cprizm/internal/ir"
)

// Program renders every function in p as a single Graphviz digraph.
func Program(p *ir.Program) string {
	var b strings.Builder
	b.WriteString("digraph cprizm {\n")
	b.WriteString("  node [shape=box, fontname=\"monospace\"];\n")

	names := make([]string, 0, len(p.Functions))
	for name := range p.Functions {
		names = append(names, name)
	}
	sortStrings(names)

	for _, name := range names {
		writeFunction(&b, p.Functions[name])
	}

	b.WriteString("}\n")
	return b.String()
}

func writeFunction(b *strings.Builder, fn *ir.FunctionDefinition) {
	fmt.Fprintf(b, "  subgraph cluster_%s {\n", sanitizeID(fn.Name))
	fmt.Fprintf(b, "    label=%s;\n", dotQuote(escapeDotText(fn.Name)))

	for _, block := range fn.Blocks() {
		writeNode(b, fn.Name, block)
	}
	for _, block := range fn.Blocks() {
		writeEdges(b, fn.Name, block)
	}

	b.WriteString("  }\n")
}

func writeNode(b *strings.Builder, fnName string, block *ir.BasicBlock) {
	var label strings.Builder
	fmt.Fprintf(&label, "%s%d\\l", blockLabel(block), block.ID())
	for _, s := range block.Statements {
		label.WriteString(escapeDotText(s.String()))
		label.WriteString("\\l")
	}
	fmt.Fprintf(b, "    %s [label=%s];\n", nodeID(fnName, block.ID()), dotQuote(label.String()))
}

func writeEdges(b *strings.Builder, fnName string, block *ir.BasicBlock) {
	backEdges := loopBackEdgeTargets(block)
	for _, succ := range block.Successors() {
		style := ""
		if backEdges[succ] {
			style = " [style=dashed, color=gray]"
		}
		fmt.Fprintf(b, "    %s -> %s%s;\n", nodeID(fnName, block.ID()), nodeID(fnName, succ), style)
	}
}

// loopBackEdgeTargets returns the set of successor block IDs block reaches
// via a jump carrying ir.JumpLoopBackEdge metadata. A block's terminator is
// its final Jump/JumpTrue, but a conditional branch's JumpTrue sits one
// statement before an unconditional Jump when both are present (see
// BasicBlock.Successors), so both must be checked.
func loopBackEdgeTargets(block *ir.BasicBlock) map[ir.BlockID]bool {
	out := map[ir.BlockID]bool{}
	n := len(block.Statements)
	if n == 0 {
		return out
	}
	if jt, ok := block.Statements[n-1].(ir.JumpTrue); ok && jt.Meta == ir.JumpLoopBackEdge {
		out[jt.Target] = true
	}
	if j, ok := block.Statements[n-1].(ir.Jump); ok && j.Meta == ir.JumpLoopBackEdge {
		out[j.Target] = true
	}
	if n >= 2 {
		if jt, ok := block.Statements[n-2].(ir.JumpTrue); ok && jt.Meta == ir.JumpLoopBackEdge {
			out[jt.Target] = true
		}
	}
	return out
}

func blockLabel(block *ir.BasicBlock) string {
	if block.Description == "" {
		return "block"
	}
	return block.Description
}

func nodeID(fnName string, id ir.BlockID) string {
	return fmt.Sprintf("%s_%d", sanitizeID(fnName), id)
}

func sanitizeID(name string) string {
	var b strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

// dotQuote wraps s in double quotes and escapes nothing itself: callers
// escape text with escapeDotText first. Go's %q is not used because it
// would double-escape the \l left-justify markers writeNode already
// embedded.
func dotQuote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	b.WriteString(s)
	b.WriteByte('"')
	return b.String()
}

func escapeDotText(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return s
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}
