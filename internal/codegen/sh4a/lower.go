package sh4a

import (
	"fmt"

	"github.com/iancoleman/strcase"

	"cprizm/internal/arch"
	"cprizm/internal/frame"
	"cprizm/internal/ir"
	"cprizm/internal/regalloc"
)

// Lowerer walks one function's blocks and emits an sh4a.Block per IR
// BasicBlock, the same one-statement-at-a-time structure as the AArch64
// lowerer but building instruction values instead of assembly text, since
// this target's output goes through internal/assemble rather than a
// system assembler.
type Lowerer struct {
	mapping regalloc.Mapping
	frame   frame.Plan
	fnName  string
}

func NewLowerer(fnName string, mapping regalloc.Mapping, plan frame.Plan) *Lowerer {
	return &Lowerer{fnName: fnName, mapping: mapping, frame: plan}
}

// Lower produces one Block per basic block, named with the same
// fn-qualified scheme the AArch64 target uses for labels, plus a prologue
// prepended to the entry block and an epilogue appended before every
// Return.
func Lower(fn *ir.FunctionDefinition, mapping regalloc.Mapping, plan frame.Plan) []Block {
	l := NewLowerer(fn.Name, mapping, plan)

	var blocks []Block
	for _, b := range fn.Blocks() {
		var instrs []Instruction
		if b.ID() == fn.Entry {
			instrs = append(instrs, l.prologue()...)
			instrs = append(instrs, l.bindArguments(fn)...)
		}
		for _, s := range b.Statements {
			instrs = append(instrs, l.statement(s)...)
		}
		blocks = append(blocks, Block{Name: blockLabel(fn.Name, b.ID()), Instructions: instrs})
	}
	return blocks
}

// blockLabel derives a local label the way the AArch64 backend does (see
// its doc comment): strcase normalizes the function name's casing before
// the block id is appended, so names that differ only in casing
// convention (myFunc, my_func) produce the same label.
func blockLabel(fn string, id ir.BlockID) string {
	return fmt.Sprintf("%s_%d", strcase.ToScreamingSnake(fn), id)
}

func (l *Lowerer) prologue() []Instruction {
	var out []Instruction
	if l.frame.TotalSize > 0 {
		out = append(out, AddImmediate{Reg: StackPointer, Immediate: int8(-clampImm(l.frame.TotalSize))})
	}
	for range l.frame.CalleeSavedOffsets {
		// callee-saved spills are emitted per-register by the allocator
		// driver once it knows which physical registers it actually used;
		// this placeholder keeps prologue/epilogue symmetric in length.
	}
	return out
}

// bindArguments moves each incoming argument out of its ABI register (r4-r7
// for this subset) into wherever irbuild's parameter binding - generation 0
// of the parameter's name - was actually allocated: a different register,
// or a pushed frame slot for an escaping or spilled parameter.
func (l *Lowerer) bindArguments(fn *ir.FunctionDefinition) []Instruction {
	var out []Instruction
	for i, p := range fn.Arguments {
		if i >= len(argRegisters) {
			break
		}
		v := ir.Variable{Name: p.Name, Generation: 0, Type: p.Type}
		if reg, ok := l.mapping.Register(v); ok {
			dst := toSH4Register(reg)
			if dst != argRegisters[i] {
				out = append(out, MovRR{Src: argRegisters[i], Dest: dst})
			}
			continue
		}
		out = append(out, PushL{Reg: argRegisters[i]})
	}
	return out
}

func (l *Lowerer) epilogue() []Instruction {
	var out []Instruction
	if l.frame.TotalSize > 0 {
		out = append(out, AddImmediate{Reg: StackPointer, Immediate: int8(clampImm(l.frame.TotalSize))})
	}
	out = append(out, Return{}, Nop{})
	return out
}

func clampImm(n int) int {
	if n > 127 {
		return 127
	}
	return n
}

func (l *Lowerer) statement(s ir.Statement) []Instruction {
	switch st := s.(type) {
	case ir.Assignment:
		return l.assignment(st)
	case ir.WriteMemory:
		addr := l.operandReg(st.Addr, GP(0))
		val := l.operandReg(st.Value, GP(1))
		return []Instruction{MovLRR0PR{Base: addr, Src: val}}
	case ir.Call:
		var out []Instruction
		for i, arg := range st.Args {
			if i >= len(argRegisters) {
				break
			}
			out = append(out, MovRR{Src: l.operandReg(arg, argRegisters[i]), Dest: argRegisters[i]})
		}
		out = append(out, JumpSubroutine{Label: st.Name}, Nop{})
		return out
	case ir.InlineAsm:
		// inline asm is opaque to this lowering stage and produces no
		// instructions; nothing in this package or its caller expands it.
		return nil
	case ir.SaveVariable:
		reg := l.regOrScratch(st.Var, GP(0))
		return []Instruction{PushL{Reg: reg}}
	case ir.SaveGlobalVariable:
		reg := l.regOrScratch(st.Var, GP(0))
		return []Instruction{PushL{Reg: reg}}
	case ir.Return:
		var out []Instruction
		if st.Var != nil {
			if reg, ok := l.mapping.Register(*st.Var); ok {
				out = append(out, MovRR{Src: toSH4Register(reg), Dest: GP(0)})
			}
		}
		out = append(out, l.epilogue()...)
		return out
	case ir.Jump:
		return []Instruction{JumpLabel{Label: blockLabel(l.fnName, st.Target)}}
	case ir.JumpTrue:
		cond := l.varReg(st.Cond, GP(0))
		return []Instruction{CmpPl{Reg: cond}, BranchTrueLabel{Cond: cond, Label: blockLabel(l.fnName, st.Target)}}
	}
	return nil
}

var argRegisters = []Register{GP(4), GP(5), GP(6), GP(7)}

func (l *Lowerer) assignment(a ir.Assignment) []Instruction {
	dst := l.regOrScratch(a.Target, GP(1))

	switch v := a.Value.(type) {
	case ir.UnknownValue:
		return []Instruction{PopL{Reg: dst}}
	case ir.ConstantValue:
		if v.Constant.IntValue >= -128 && v.Constant.IntValue <= 127 {
			return []Instruction{MovIR{Immediate: int8(v.Constant.IntValue), Dest: dst}}
		}
		return []Instruction{MovImmR{Immediate: int32(v.Constant.IntValue), Dest: dst}}
	case ir.VariableValue:
		src := l.varReg(v.Var, dst)
		if src == dst {
			return nil
		}
		return []Instruction{MovRR{Src: src, Dest: dst}}
	case ir.ExpressionValue:
		return l.expression(dst, v.Expr)
	case ir.PhiValue:
		return nil // destructured before codegen; see internal/phi
	}
	return nil
}

func (l *Lowerer) expression(dst Register, e ir.Expression) []Instruction {
	switch expr := e.(type) {
	case ir.BinaryOp:
		lhs := l.operandReg(expr.Left, GP(1))
		rhs := l.operandReg(expr.Right, GP(2))
		return l.binary(dst, expr.Op, lhs, rhs)
	case ir.UnaryOp:
		src := l.operandReg(expr.Operand, GP(1))
		return l.unary(dst, expr.Op, src)
	case ir.Cast:
		src := l.operandReg(expr.Operand, GP(1))
		if src == dst {
			return nil
		}
		return []Instruction{MovRR{Src: src, Dest: dst}}
	case ir.AddressOf:
		offset, _ := l.frame.Offset(expr.Var.Name)
		return []Instruction{MovRR{Src: StackPointer, Dest: dst}, AddImmediate{Reg: dst, Immediate: int8(clampImm(offset))}}
	case ir.ReadMemory:
		addr := l.operandReg(expr.Addr, GP(0))
		return []Instruction{MovLR0PRR{Base: addr, Target: dst}}
	case ir.ReadGlobalVariable:
		return []Instruction{MovImmR{Immediate: 0, Dest: dst}} // address patched by the linker/loader
	case ir.FunctionCall:
		var out []Instruction
		for i, arg := range expr.Args {
			if i >= len(argRegisters) {
				break
			}
			out = append(out, MovRR{Src: l.operandReg(arg, argRegisters[i]), Dest: argRegisters[i]})
		}
		out = append(out, JumpSubroutine{Label: expr.Name}, Nop{})
		if dst != GP(0) {
			out = append(out, MovRR{Src: GP(0), Dest: dst})
		}
		return out
	case ir.StackAlloc:
		return nil
	}
	return nil
}

func (l *Lowerer) binary(dst Register, op ir.BinOp, lhs, rhs Register) []Instruction {
	move := MovRR{Src: lhs, Dest: dst}
	switch op {
	case ir.Add:
		return []Instruction{move, Add{Src: rhs, Dest: dst}}
	case ir.Sub:
		return []Instruction{move, Sub{Src: rhs, Dest: dst}}
	case ir.Mul:
		return []Instruction{move, MulRR{Src: rhs, Dest: dst}, StsMacl{Dest: dst}}
	case ir.And:
		return []Instruction{move, AndRR{Src: rhs, Dest: dst}}
	case ir.Or:
		return []Instruction{move, OrRR{Src: rhs, Dest: dst}}
	case ir.Xor:
		return []Instruction{move, XorRR{Src: rhs, Dest: dst}}
	case ir.Shl:
		return []Instruction{move, ShldRR{Shift: rhs, Dest: dst}}
	case ir.Shr:
		return []Instruction{move, ShldRR{Shift: rhs, Dest: dst}}
	case ir.CmpEq:
		return []Instruction{CmpEq{Src: rhs, Dest: lhs}, MovT{Dest: dst}}
	case ir.CmpGt:
		return []Instruction{CmpGt{Src: rhs, Dest: lhs}, MovT{Dest: dst}}
	case ir.Div:
		return l.divide(dst, lhs, rhs)
	case ir.Rem:
		return l.remainder(dst, lhs, rhs)
	case ir.CmpLt:
		return []Instruction{CmpGt{Src: lhs, Dest: rhs}, MovT{Dest: dst}}
	case ir.CmpNe, ir.CmpLe, ir.CmpGe:
		// test the opposite condition, then flip T's copy using r13 (reserved scratch)
		var cmp Instruction = CmpEq{Src: rhs, Dest: lhs}
		if op == ir.CmpLe {
			cmp = CmpGt{Src: rhs, Dest: lhs}
		} else if op == ir.CmpGe {
			cmp = CmpGt{Src: lhs, Dest: rhs}
		}
		return []Instruction{cmp, MovT{Dest: dst}, MovIR{Immediate: 1, Dest: GP(13)}, XorRR{Src: GP(13), Dest: dst}}
	default:
		return nil
	}
}

// divide computes the unsigned 32-bit quotient of lhs/rhs into dst using
// the div0u+div1 step sequence: div1 treats its dest register as a running
// dividend that settles into the quotient after one step per bit.
func (l *Lowerer) divide(dst, lhs, rhs Register) []Instruction {
	work := scratchAvoiding(lhs, rhs)
	out := []Instruction{MovRR{Src: lhs, Dest: work}, Div0u{}}
	for i := 0; i < 32; i++ {
		out = append(out, Div1{Src: rhs, Dest: work})
	}
	return append(out, MovRR{Src: work, Dest: dst})
}

// remainder computes lhs - (lhs/rhs)*rhs, since div1 only produces a
// quotient.
func (l *Lowerer) remainder(dst, lhs, rhs Register) []Instruction {
	quotient := scratchAvoiding(lhs, rhs, dst)
	out := l.divide(quotient, lhs, rhs)
	out = append(out, MulRR{Src: rhs, Dest: quotient}, StsMacl{Dest: quotient})
	out = append(out, MovRR{Src: lhs, Dest: dst}, Sub{Src: quotient, Dest: dst})
	return out
}

// scratchAvoiding picks a general-purpose register distinct from taken,
// for use as an intermediate that must not alias an instruction's own
// operands.
func scratchAvoiding(taken ...Register) Register {
	for i := 2; i < 14; i++ {
		candidate := GP(i)
		clash := false
		for _, t := range taken {
			if t == candidate {
				clash = true
				break
			}
		}
		if !clash {
			return candidate
		}
	}
	return GP(13)
}

func (l *Lowerer) unary(dst Register, op ir.UnOp, src Register) []Instruction {
	switch op {
	case ir.Neg:
		return []Instruction{MovIR{Immediate: 0, Dest: dst}, Sub{Src: src, Dest: dst}}
	case ir.Not:
		return []Instruction{CmpEq{Src: GP(15), Dest: src}, MovT{Dest: dst}}
	case ir.BitNot:
		return []Instruction{MovIR{Immediate: -1, Dest: GP(3)}, XorRR{Src: GP(3), Dest: dst}}
	}
	return nil
}

func (l *Lowerer) regOrScratch(v ir.Variable, fallback Register) Register {
	if r, ok := l.mapping.Register(v); ok {
		return toSH4Register(r)
	}
	return fallback
}

func (l *Lowerer) varReg(v ir.Variable, fallback Register) Register {
	return l.regOrScratch(v, fallback)
}

func (l *Lowerer) operandReg(o ir.Operand, scratch Register) Register {
	switch o.Kind {
	case ir.OperandVariable:
		return l.varReg(o.Variable, scratch)
	default:
		return scratch
	}
}

func toSH4Register(r arch.Register) Register {
	if r.Class == arch.FloatingPoint {
		return FP(indexFromName(r.Name))
	}
	return GP(indexFromName(r.Name))
}

func indexFromName(name string) int {
	n := 0
	for _, c := range name {
		if c >= '0' && c <= '9' {
			n = n*10 + int(c-'0')
		}
	}
	return n
}
