// Package arch describes target architecture properties shared by codegen,
// the stack-frame planner and the register allocator: pointer/word size,
// alignment rules and the register banks available to the coloring
// allocator.
package arch

import "strconv"

// RegisterClass distinguishes the two register banks the allocator colors
// independently.
type RegisterClass int

const (
	GeneralPurpose RegisterClass = iota
	FloatingPoint
)

// Register is one physical register in a Descriptor's bank.
type Register struct {
	Name  string
	Class RegisterClass
}

// Descriptor fully describes a compilation target: its pointer width,
// required stack alignment, and the registers available for allocation
// (minus any reserved for the frame pointer, stack pointer, link register or
// similar ABI-mandated roles, which never appear here).
type Descriptor struct {
	Name string

	PointerSize int // bytes
	StackAlign  int // bytes, final frame alignment

	IntSizes   map[string]int // type name -> size in bytes, e.g. "int": 4
	IntAligns  map[string]int

	GPRegisters []Register
	FPRegisters []Register

	// CalleeSaved lists registers the callee must preserve across a call,
	// in the order the stack-frame planner should save/restore them.
	CalleeSaved []Register
}

// Useable reports whether class c can hold a value of the given type kind
// ("int"-family vs floating point).
func (d Descriptor) Useable(class RegisterClass, isFloat bool) bool {
	if isFloat {
		return class == FloatingPoint
	}
	return class == GeneralPurpose
}

// RegisterConfig is the budget the spiller and allocator must respect for a
// given descriptor: how many registers of each class are actually available
// once ABI-reserved registers are excluded.
type RegisterConfig struct {
	GeneralPurposeCount int
	FloatingPointCount  int
}

// Config derives the spiller's register budget from a descriptor, reserving
// one register of each class as scratch space the codegen stage needs for
// materializing constants and addresses (grounding register_allocation's
// convention of computing pressure against count-1 usable registers).
func (d Descriptor) Config() RegisterConfig {
	gp := len(d.GPRegisters) - 1
	if gp < 0 {
		gp = 0
	}
	fp := len(d.FPRegisters) - 1
	if fp < 0 {
		fp = 0
	}
	return RegisterConfig{GeneralPurposeCount: gp, FloatingPointCount: fp}
}

// AArch64Mac is the macOS AArch64 calling-convention descriptor: x0-x17
// allocatable general purpose, x19-x28 listed as callee-saved (x29 frame
// pointer, x30 link register and xzr/sp are reserved and never appear in
// GPRegisters), d0-d7 floating point, 16-byte stack alignment.
var AArch64Mac = Descriptor{
	Name:        "mac-aarch64",
	PointerSize: 8,
	StackAlign:  16,
	IntSizes: map[string]int{
		"char": 1, "short": 2, "int": 4, "long": 8, "float": 4, "double": 8,
	},
	IntAligns: map[string]int{
		"char": 1, "short": 2, "int": 4, "long": 8, "float": 4, "double": 8,
	},
	GPRegisters: namedRegisters(GeneralPurpose, "x", 0, 18), // x0-x17 caller-saved argument/scratch
	FPRegisters: namedRegisters(FloatingPoint, "d", 0, 8),
	CalleeSaved: namedRegisters(GeneralPurpose, "x", 19, 10), // x19-x28
}

// SH4AFxcg50 is the SuperH SH-4A descriptor for the Casio Prizm fx-CG50: a
// flat 32-bit address space, 4-byte frame alignment, r0-r12 allocatable
// general purpose (r13 is reserved scratch, r15 the stack pointer),
// fr0-fr11 floating point.
var SH4AFxcg50 = Descriptor{
	Name:        "fxcg50",
	PointerSize: 4,
	StackAlign:  4,
	IntSizes: map[string]int{
		"char": 1, "short": 2, "int": 4, "long": 4, "float": 4, "double": 4,
	},
	IntAligns: map[string]int{
		"char": 1, "short": 2, "int": 4, "long": 4, "float": 4, "double": 4,
	},
	GPRegisters: namedRegisters(GeneralPurpose, "r", 0, 13), // r0-r12, r13 reserved scratch
	FPRegisters: namedRegisters(FloatingPoint, "fr", 0, 12),
	CalleeSaved: namedRegisters(GeneralPurpose, "r", 8, 5), // r8-r12
}

func namedRegisters(class RegisterClass, prefix string, start, count int) []Register {
	out := make([]Register, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, Register{Name: registerName(prefix, start+i), Class: class})
	}
	return out
}

func registerName(prefix string, n int) string {
	return prefix + strconv.Itoa(n)
}

// ByName finds a target descriptor by its CLI --target value.
func ByName(name string) (Descriptor, bool) {
	switch name {
	case AArch64Mac.Name:
		return AArch64Mac, true
	case SH4AFxcg50.Name:
		return SH4AFxcg50, true
	default:
		return Descriptor{}, false
	}
}
