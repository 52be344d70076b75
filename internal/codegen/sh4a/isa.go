// Package sh4a models the SuperH SH-4A instruction set as a Go sum type
// (mirroring the ir package's Statement/Value interface-plus-concrete-struct
// pattern) and lowers post-allocation IR into it. Unlike the AArch64
// target, SH-4A is not handed to a system assembler: internal/assemble
// encodes this instruction set into the raw byte stream the fxcg50 target
// ships inside a G3A container.
package sh4a

import "fmt"

// Register is either a general-purpose register (R0-R15, R15 being the
// stack pointer) or a floating-point register, or the procedure register
// holding a subroutine's return address.
type Register struct {
	Kind  RegisterKind
	Index int
}

type RegisterKind int

const (
	GeneralPurpose RegisterKind = iota
	FloatingPoint
	ProcedureRegister
)

func GP(n int) Register { return Register{Kind: GeneralPurpose, Index: n} }
func FP(n int) Register { return Register{Kind: FloatingPoint, Index: n} }

// StackPointer is R15, reserved by the ABI and never handed to the
// allocator.
var StackPointer = GP(15)

func (r Register) String() string {
	switch r.Kind {
	case GeneralPurpose:
		return fmt.Sprintf("r%d", r.Index)
	case FloatingPoint:
		return fmt.Sprintf("fr%d", r.Index)
	default:
		return "pr"
	}
}

// Instruction is a closed sum type over every SH-4A form this back end
// emits, grounded on original_source/backend/src/isas/sh4a.rs's
// Instruction enum. MovImmR, JumpLabel and BranchTrueLabel are pseudo-ops
// internal/assemble expands into PC-relative literal-pool sequences.
type Instruction interface {
	isInstruction()
}

type Nop struct{}
type Return struct{}

type MovRR struct{ Src, Dest Register }
type MovIR struct {
	Immediate int8
	Dest      Register
}

// MovImmR loads a full 32-bit immediate via a PC-relative literal, since
// SH-4A has no single instruction encoding a 32-bit constant.
type MovImmR struct {
	Immediate int32
	Dest      Register
}

// MovLR0PRR computes R0+Base and loads a 32-bit value from that address.
type MovLR0PRR struct{ Base, Target Register }

// MovLRR0PR computes R0+Base and stores Src's value there.
type MovLRR0PR struct{ Base, Src Register }

type MovRPR struct{ Src Register }
type MovT struct{ Dest Register }

type PushL struct{ Reg Register }
type PushPR struct{}
type PopL struct{ Reg Register }
type PopPR struct{}

type AddImmediate struct {
	Reg       Register
	Immediate int8
}

type Add struct{ Src, Dest Register }
type Sub struct{ Src, Dest Register }
type AndRR struct{ Src, Dest Register }
type OrRR struct{ Src, Dest Register }
type XorRR struct{ Src, Dest Register }
type ShldRR struct{ Shift, Dest Register }
type MulRR struct{ Src, Dest Register }
type StsMacl struct{ Dest Register }
type Dmuls struct{ Src, Dest Register }
type Div0u struct{}
type Div1 struct{ Src, Dest Register }

type CmpEq struct{ Src, Dest Register }
type CmpGt struct{ Src, Dest Register }
type CmpPl struct{ Reg Register }

type JumpSubroutine struct{ Label string }

// JumpLabel is an unconditional jump to a block label.
type JumpLabel struct{ Label string }

// BranchTrueLabel branches to Label when Cond is non-zero (the T bit set by
// a preceding CmpEq/CmpGt/CmpPl).
type BranchTrueLabel struct {
	Cond  Register
	Label string
}

func (Nop) isInstruction()             {}
func (Return) isInstruction()          {}
func (MovRR) isInstruction()           {}
func (MovIR) isInstruction()           {}
func (MovImmR) isInstruction()         {}
func (MovLR0PRR) isInstruction()       {}
func (MovLRR0PR) isInstruction()       {}
func (MovRPR) isInstruction()          {}
func (MovT) isInstruction()            {}
func (PushL) isInstruction()           {}
func (PushPR) isInstruction()          {}
func (PopL) isInstruction()            {}
func (PopPR) isInstruction()           {}
func (AddImmediate) isInstruction()    {}
func (Add) isInstruction()             {}
func (Sub) isInstruction()             {}
func (AndRR) isInstruction()           {}
func (OrRR) isInstruction()            {}
func (XorRR) isInstruction()           {}
func (ShldRR) isInstruction()          {}
func (MulRR) isInstruction()           {}
func (StsMacl) isInstruction()         {}
func (Dmuls) isInstruction()           {}
func (Div0u) isInstruction()           {}
func (Div1) isInstruction()            {}
func (CmpEq) isInstruction()           {}
func (CmpGt) isInstruction()           {}
func (CmpPl) isInstruction()           {}
func (JumpSubroutine) isInstruction()  {}
func (JumpLabel) isInstruction()       {}
func (BranchTrueLabel) isInstruction() {}

// Block is a labelled sequence of instructions, the unit internal/assemble
// lays out and aligns.
type Block struct {
	Name         string
	Instructions []Instruction
}
