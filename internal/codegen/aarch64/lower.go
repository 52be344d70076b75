// Package aarch64 lowers post-allocation IR into AArch64 assembly text
// targeting the macOS calling convention, following spec.md §6's contract
// that the mac-aarch64 target emits assembly text for the system assembler
// rather than raw bytes.
package aarch64

import (
	"fmt"
	"strings"

	"github.com/iancoleman/strcase"

	"cprizm/internal/arch"
	"cprizm/internal/frame"
	"cprizm/internal/ir"
	"cprizm/internal/regalloc"
)

// Lowerer walks one function's basic blocks in ID order and emits one
// assembly line per IR statement, following internal/ir/printer.go's
// writeLine/indent idiom rather than building an AST of instructions -
// this target's output is text, so there's no encoding phase to separate
// lowering from.
type Lowerer struct {
	mapping regalloc.Mapping
	frame   frame.Plan
	out     strings.Builder
}

// NewLowerer prepares a Lowerer for one function using its already-computed
// register mapping and stack frame plan.
func NewLowerer(mapping regalloc.Mapping, plan frame.Plan) *Lowerer {
	return &Lowerer{mapping: mapping, frame: plan}
}

func (l *Lowerer) line(format string, args ...any) {
	l.out.WriteString("\t")
	fmt.Fprintf(&l.out, format, args...)
	l.out.WriteString("\n")
}

func (l *Lowerer) label(name string) {
	l.out.WriteString(name)
	l.out.WriteString(":\n")
}

// Lower emits the complete assembly text for fn: a global-scope label, the
// prologue (frame allocation and callee-saved spills), one label per block,
// and the epilogue reached by every Return.
func Lower(fn *ir.FunctionDefinition, mapping regalloc.Mapping, plan frame.Plan) string {
	l := NewLowerer(mapping, plan)

	l.out.WriteString(".globl _" + fn.Name + "\n")
	l.out.WriteString(".p2align 2\n")
	l.label("_" + fn.Name)

	if plan.TotalSize > 0 {
		l.line("sub sp, sp, #%d", plan.TotalSize)
	}
	for name, offset := range plan.CalleeSavedOffsets {
		l.line("str %s, [sp, #%d]", name, offset)
	}
	l.bindArguments(fn)

	for _, b := range fn.Blocks() {
		l.label(blockLabel(fn.Name, b.ID()))
		for _, s := range b.Statements {
			l.statement(fn, b, s)
		}
	}

	return l.out.String()
}

// blockLabel derives a local label from the function name and block id.
// strcase.ToScreamingSnake normalizes whatever identifier casing convention
// the source used (camelCase, snake_case, a single letter) into one
// consistent label alphabet, so names that differ only in casing convention
// (myFunc, my_func) produce the same block label.
func blockLabel(fn string, id ir.BlockID) string {
	return fmt.Sprintf("L%s_%d", strcase.ToScreamingSnake(fn), id)
}

// bindArguments moves each incoming argument out of its ABI register into
// wherever irbuild's parameter binding (generation 0 of the parameter's
// name) was actually allocated: a different register, or - for an
// escaping or spilled parameter - its frame slot. Parameters beyond the
// register-passed set are not supported by this subset (spec.md's calling
// convention is register-only).
func (l *Lowerer) bindArguments(fn *ir.FunctionDefinition) {
	for i, p := range fn.Arguments {
		if i >= len(argRegisters) {
			break
		}
		v := ir.Variable{Name: p.Name, Generation: 0, Type: p.Type}
		if reg, ok := l.mapping.Register(v); ok {
			if reg.Name != argRegisters[i] {
				l.line("mov %s, %s", reg.Name, argRegisters[i])
			}
			continue
		}
		if offset, ok := l.frame.Offset(p.Name); ok {
			l.line("str %s, [sp, #%d]", argRegisters[i], offset)
		}
	}
}

func (l *Lowerer) statement(fn *ir.FunctionDefinition, b *ir.BasicBlock, s ir.Statement) {
	switch st := s.(type) {
	case ir.Assignment:
		l.assignment(st)
	case ir.WriteMemory:
		addr := l.operandReg(st.Addr, "x9")
		val := l.operandReg(st.Value, "x10")
		l.line("str %s, [%s]", val, addr)
	case ir.Call:
		for i, arg := range st.Args {
			if i >= len(argRegisters) {
				break
			}
			l.line("mov %s, %s", argRegisters[i], l.operandReg(arg, argRegisters[i]))
		}
		l.line("bl _%s", st.Name)
	case ir.InlineAsm:
		l.line("%s", st.Template)
	case ir.SaveVariable:
		offset, ok := l.frame.Offset(st.Var.Name)
		if !ok {
			offset = 0
		}
		reg, _ := l.mapping.Register(st.Var)
		l.line("str %s, [sp, #%d] // spill %s", registerOr(reg, "x0"), offset, st.Var.String())
	case ir.SaveGlobalVariable:
		l.line("adrp x9, _%s@PAGE", st.Var.Name)
		reg, _ := l.mapping.Register(st.Var)
		l.line("str %s, [x9, _%s@PAGEOFF]", registerOr(reg, "x0"), st.Var.Name)
	case ir.Return:
		if st.Var != nil {
			reg, ok := l.mapping.Register(*st.Var)
			if ok {
				l.line("mov x0, %s", reg.Name)
			}
		}
		for name, offset := range l.frame.CalleeSavedOffsets {
			l.line("ldr %s, [sp, #%d]", name, offset)
		}
		if l.frame.TotalSize > 0 {
			l.line("add sp, sp, #%d", l.frame.TotalSize)
		}
		l.line("ret")
	case ir.Jump:
		if st.Target != b.ID()+1 {
			l.line("b %s", blockLabel(fn.Name, st.Target))
		}
	case ir.JumpTrue:
		cond := l.operandVar(st.Cond, "x9")
		l.line("cbnz %s, %s", cond, blockLabel(fn.Name, st.Target))
	}
}

var argRegisters = []string{"x0", "x1", "x2", "x3", "x4", "x5", "x6", "x7"}

func (l *Lowerer) assignment(a ir.Assignment) {
	dst := l.destReg(a.Target)

	switch v := a.Value.(type) {
	case ir.UnknownValue:
		offset, ok := l.frame.Offset(a.Target.Name)
		if !ok {
			offset = 0
		}
		l.line("ldr %s, [sp, #%d] // reload %s", dst, offset, a.Target.String())
	case ir.ConstantValue:
		l.line("mov %s, #%d", dst, v.Constant.IntValue)
	case ir.VariableValue:
		src := l.operandVar(v.Var, dst)
		if src != dst {
			l.line("mov %s, %s", dst, src)
		}
	case ir.ExpressionValue:
		l.expression(dst, v.Expr)
	case ir.PhiValue:
		// phi destruction (internal/phi) runs before codegen; a surviving
		// phi here is a compiler bug, not a user error.
		l.line("// unreachable: undestructed phi for %s", a.Target.String())
	}
}

func (l *Lowerer) expression(dst string, e ir.Expression) {
	switch expr := e.(type) {
	case ir.BinaryOp:
		lhs := l.operandReg(expr.Left, "x9")
		rhs := l.operandReg(expr.Right, "x10")
		l.binary(dst, expr.Op, lhs, rhs)
	case ir.UnaryOp:
		src := l.operandReg(expr.Operand, "x9")
		l.unary(dst, expr.Op, src)
	case ir.Cast:
		src := l.operandReg(expr.Operand, "x9")
		l.line("mov %s, %s // cast to %s", dst, src, expr.To.String())
	case ir.AddressOf:
		offset, ok := l.frame.Offset(expr.Var.Name)
		if !ok {
			offset = 0
		}
		l.line("add %s, sp, #%d", dst, offset)
	case ir.ReadMemory:
		addr := l.operandReg(expr.Addr, "x9")
		l.line("ldr %s, [%s]", dst, addr)
	case ir.ReadGlobalVariable:
		l.line("adrp x9, _%s@PAGE", expr.Name)
		l.line("ldr %s, [x9, _%s@PAGEOFF]", dst, expr.Name)
	case ir.FunctionCall:
		for i, arg := range expr.Args {
			if i >= len(argRegisters) {
				break
			}
			l.line("mov %s, %s", argRegisters[i], l.operandReg(arg, argRegisters[i]))
		}
		l.line("bl _%s", expr.Name)
		if dst != "x0" {
			l.line("mov %s, x0", dst)
		}
	case ir.StackAlloc:
		l.line("// %s reserved %d bytes in the frame, see frame.Plan", dst, expr.Size)
	}
}

func (l *Lowerer) binary(dst string, op ir.BinOp, lhs, rhs string) {
	switch op {
	case ir.Add:
		l.line("add %s, %s, %s", dst, lhs, rhs)
	case ir.Sub:
		l.line("sub %s, %s, %s", dst, lhs, rhs)
	case ir.Mul:
		l.line("mul %s, %s, %s", dst, lhs, rhs)
	case ir.Div:
		l.line("sdiv %s, %s, %s", dst, lhs, rhs)
	case ir.Rem:
		l.line("sdiv x11, %s, %s", lhs, rhs)
		l.line("msub %s, x11, %s, %s", dst, rhs, lhs)
	case ir.And:
		l.line("and %s, %s, %s", dst, lhs, rhs)
	case ir.Or:
		l.line("orr %s, %s, %s", dst, lhs, rhs)
	case ir.Xor:
		l.line("eor %s, %s, %s", dst, lhs, rhs)
	case ir.Shl:
		l.line("lsl %s, %s, %s", dst, lhs, rhs)
	case ir.Shr:
		l.line("asr %s, %s, %s", dst, lhs, rhs)
	case ir.CmpEq, ir.CmpNe, ir.CmpLt, ir.CmpLe, ir.CmpGt, ir.CmpGe:
		l.line("cmp %s, %s", lhs, rhs)
		l.line("cset %s, %s", dst, conditionCode(op))
	}
}

func conditionCode(op ir.BinOp) string {
	switch op {
	case ir.CmpEq:
		return "eq"
	case ir.CmpNe:
		return "ne"
	case ir.CmpLt:
		return "lt"
	case ir.CmpLe:
		return "le"
	case ir.CmpGt:
		return "gt"
	case ir.CmpGe:
		return "ge"
	default:
		return "al"
	}
}

func (l *Lowerer) unary(dst string, op ir.UnOp, src string) {
	switch op {
	case ir.Neg:
		l.line("neg %s, %s", dst, src)
	case ir.Not:
		l.line("cmp %s, #0", src)
		l.line("cset %s, eq", dst)
	case ir.BitNot:
		l.line("mvn %s, %s", dst, src)
	}
}

// destReg returns the physical register backing v's assignment target, or
// a scratch register if v didn't survive to coloring (shouldn't happen for
// well-formed post-allocation IR, but codegen must not panic on it).
func (l *Lowerer) destReg(v ir.Variable) string {
	if r, ok := l.mapping.Register(v); ok {
		return r.Name
	}
	if v.Type.IsFloat() {
		return "d0"
	}
	return "x9"
}

func (l *Lowerer) operandVar(v ir.Variable, fallback string) string {
	if r, ok := l.mapping.Register(v); ok {
		return r.Name
	}
	return fallback
}

// operandReg materializes an Operand into scratch, loading a constant into
// scratch or resolving a variable to its assigned register.
func (l *Lowerer) operandReg(o ir.Operand, scratch string) string {
	switch o.Kind {
	case ir.OperandConstant:
		l.line("mov %s, #%d", scratch, o.Constant.IntValue)
		return scratch
	case ir.OperandVariable:
		return l.operandVar(o.Variable, scratch)
	default:
		return scratch
	}
}

func registerOr(r arch.Register, fallback string) string {
	if r.Name == "" {
		return fallback
	}
	return r.Name
}
