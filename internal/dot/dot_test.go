package dot

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"cprizm/internal/ir"
)

func TestProgramEmitsOneClusterPerFunctionWithStatementLabels(t *testing.T) {
	prog := ir.NewProgram()

	fn := ir.NewFunctionDefinition("add", nil, ir.Int(ir.I32))
	entry := fn.Block(fn.Entry)
	sum := fn.Vars.Fresh("sum", ir.Int(ir.I32))
	entry.Push(ir.Assignment{Target: sum, Value: ir.ConstantValue{Constant: ir.IntConstant(ir.Int(ir.I32), 3)}})
	entry.Push(ir.Return{Var: &sum})
	fn.Link(fn.Entry)
	prog.AddFunction(fn)

	out := Program(prog)

	assert.True(t, strings.HasPrefix(out, "digraph cprizm {"))
	assert.Contains(t, out, "subgraph cluster_add")
	assert.Contains(t, out, entry.Terminator().String())
}

func TestProgramMarksLoopBackEdgesDashed(t *testing.T) {
	prog := ir.NewProgram()

	fn := ir.NewFunctionDefinition("loop", nil, ir.Void)
	entry := fn.Block(fn.Entry)
	header := fn.NewBlock("header")
	exit := fn.NewBlock("exit")

	entry.Push(ir.Jump{Target: header})

	cond := fn.Vars.Fresh("cond", ir.Int(ir.I32))
	fn.Block(header).Push(ir.Assignment{Target: cond, Value: ir.ConstantValue{Constant: ir.IntConstant(ir.Int(ir.I32), 0)}})
	fn.Block(header).Push(ir.JumpTrue{Cond: cond, Target: header, Meta: ir.JumpLoopBackEdge})
	fn.Block(header).Push(ir.Jump{Target: exit})

	fn.Block(exit).Push(ir.Return{})

	fn.Link(fn.Entry)
	fn.Link(header)
	prog.AddFunction(fn)

	out := Program(prog)
	assert.Contains(t, out, "style=dashed")
}
