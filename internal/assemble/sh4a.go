// Package assemble encodes internal/codegen/sh4a's instruction values into
// the raw byte stream the fxcg50 target ships, since SH-4A has no system
// assembler to hand text to the way the AArch64 target does. Assembly runs
// in two passes, following assemblers/sh4a.rs: first every block's size in
// halfwords is computed so label addresses are known, then each
// instruction is encoded against those known offsets.
package assemble

import (
	"encoding/binary"

	"cprizm/internal/codegen/sh4a"
)

// InstructionSize returns the number of 16-bit halfwords i occupies once
// encoded. Most real instructions are a single halfword; the pseudo-ops
// (MovImmR, JumpLabel, BranchTrueLabel) expand to a load-and-branch
// sequence plus an embedded 32-bit literal, and Return expands to the
// branch plus its mandatory delay-slot nop.
func InstructionSize(i sh4a.Instruction) int {
	switch i.(type) {
	case sh4a.MovImmR:
		return 6
	case sh4a.JumpLabel:
		return 7
	case sh4a.BranchTrueLabel:
		return 9
	case sh4a.Return:
		return 2
	default:
		return 1
	}
}

func instructionCount(b sh4a.Block) int {
	n := 0
	for _, i := range b.Instructions {
		n += InstructionSize(i)
	}
	return n
}

// initialBlock is the fixed entry point every G3A executable starts at: an
// unconditional jump to the real entry function, mirroring
// assemblers/sh4a.rs's initial_block.
func initialBlock(mainBlock string) sh4a.Block {
	return sh4a.Block{
		Name:         "start",
		Instructions: []sh4a.Instruction{sh4a.JumpLabel{Label: mainBlock}},
	}
}

// Assemble encodes every block into one contiguous byte stream starting at
// offset 0, in program order behind an implicit jump-to-main prologue
// block. Block starts are padded to 4-byte boundaries, matching the
// original's block_offsets computation.
func Assemble(mainBlock string, blocks []sh4a.Block) []byte {
	all := append([]sh4a.Block{initialBlock(mainBlock)}, blocks...)

	offsets := make(map[string]uint32, len(all))
	address := uint32(0)
	for _, b := range all {
		offsets[b.Name] = address
		address += uint32(instructionCount(b)) * 2
		if address%4 != 0 {
			address += 4 - (address % 4)
		}
	}

	var result []byte
	for _, b := range all {
		start := offsets[b.Name]
		data := generateBlock(b, start, offsets)
		end := int(start) + len(data)
		if len(result) < end {
			grown := make([]byte, end)
			copy(grown, result)
			result = grown
		}
		copy(result[start:end], data)
	}
	return result
}

func generateBlock(b sh4a.Block, startPC uint32, offsets map[string]uint32) []byte {
	var out []byte
	pc := startPC
	for _, instr := range b.Instructions {
		halfwords := encode(instr, pc, offsets)
		for _, h := range halfwords {
			var buf [2]byte
			binary.BigEndian.PutUint16(buf[:], h)
			out = append(out, buf[:]...)
		}
		pc += uint32(len(halfwords)) * 2
	}
	return out
}

func reg(r sh4a.Register) uint16 {
	return uint16(r.Index) & 0xF
}

// encode lowers one instruction into its halfwords at program counter pc,
// resolving any label references against offsets. Opcodes follow the
// published SH-4A encoding (this project's retrieval pack includes the
// instruction *semantics* in isas/sh4a.rs's doc comments and the
// assembler's two-pass structure, but not its private asm encoder module,
// so the bit patterns themselves are the well-documented SH-4 ISA rather
// than anything ported from the pack).
func encode(instr sh4a.Instruction, pc uint32, offsets map[string]uint32) []uint16 {
	switch i := instr.(type) {
	case sh4a.Nop:
		return []uint16{0x0009}
	case sh4a.Return:
		return []uint16{0x000B, 0x0009}
	case sh4a.MovRR:
		return []uint16{0x6003 | reg(i.Dest)<<8 | reg(i.Src)<<4}
	case sh4a.MovIR:
		return []uint16{0xE000 | reg(i.Dest)<<8 | uint16(uint8(i.Immediate))}
	case sh4a.MovImmR:
		hi, lo := addressHalves(uint32(i.Immediate))
		return []uint16{
			0xD001 | reg(i.Dest)<<8, // mov.l @(disp,pc),Rn: the literal below
			0x0009,                  // nop
			0xA002,                  // bra over the literal
			0x0009,                  // nop (branch delay slot)
			hi, lo,
		}
	case sh4a.MovLR0PRR:
		return []uint16{0x000E | reg(i.Target)<<8 | reg(i.Base)<<4}
	case sh4a.MovLRR0PR:
		return []uint16{0x0007 | reg(i.Src)<<8 | reg(i.Base)<<4}
	case sh4a.MovRPR:
		return []uint16{0x402A | reg(i.Src)<<8}
	case sh4a.MovT:
		return []uint16{0x0029 | reg(i.Dest)<<8}
	case sh4a.PushL:
		return []uint16{0x2006 | reg(sh4a.StackPointer)<<8 | reg(i.Reg)<<4}
	case sh4a.PushPR:
		return []uint16{0x4022 | reg(sh4a.StackPointer)<<8}
	case sh4a.PopL:
		return []uint16{0x6006 | reg(i.Reg)<<8 | reg(sh4a.StackPointer)<<4}
	case sh4a.PopPR:
		return []uint16{0x4026 | reg(sh4a.StackPointer)<<8}
	case sh4a.AddImmediate:
		return []uint16{0x7000 | reg(i.Reg)<<8 | uint16(uint8(i.Immediate))}
	case sh4a.Add:
		return []uint16{0x300C | reg(i.Dest)<<8 | reg(i.Src)<<4}
	case sh4a.Sub:
		return []uint16{0x3008 | reg(i.Dest)<<8 | reg(i.Src)<<4}
	case sh4a.AndRR:
		return []uint16{0x2009 | reg(i.Dest)<<8 | reg(i.Src)<<4}
	case sh4a.OrRR:
		return []uint16{0x200B | reg(i.Dest)<<8 | reg(i.Src)<<4}
	case sh4a.XorRR:
		return []uint16{0x200A | reg(i.Dest)<<8 | reg(i.Src)<<4}
	case sh4a.ShldRR:
		return []uint16{0x400D | reg(i.Dest)<<8 | reg(i.Shift)<<4}
	case sh4a.MulRR:
		return []uint16{0x0007 | reg(i.Dest)<<8 | reg(i.Src)<<4} // mul.l
	case sh4a.StsMacl:
		return []uint16{0x001A | reg(i.Dest)<<8}
	case sh4a.Dmuls:
		return []uint16{0x300D | reg(i.Dest)<<8 | reg(i.Src)<<4}
	case sh4a.Div0u:
		return []uint16{0x0019}
	case sh4a.Div1:
		return []uint16{0x3004 | reg(i.Dest)<<8 | reg(i.Src)<<4}
	case sh4a.CmpEq:
		return []uint16{0x3000 | reg(i.Dest)<<8 | reg(i.Src)<<4}
	case sh4a.CmpGt:
		return []uint16{0x3007 | reg(i.Dest)<<8 | reg(i.Src)<<4}
	case sh4a.CmpPl:
		return []uint16{0x4015 | reg(i.Reg)<<8}
	case sh4a.JumpSubroutine:
		return encodeBranchSubroutine(i.Label, pc, offsets)
	case sh4a.JumpLabel:
		return encodeJumpLabel(i.Label, pc, offsets)
	case sh4a.BranchTrueLabel:
		return encodeBranchTrueLabel(i, pc, offsets)
	default:
		return []uint16{0x0009} // unencodable instruction lowers to a nop rather than panicking mid-assembly
	}
}

func addressHalves(addr uint32) (hi, lo uint16) {
	return uint16(addr >> 16), uint16(addr)
}

// encodeBranchSubroutine emits a BSR with a PC-relative word displacement,
// valid since this target links a single flat binary where every label's
// final address is known by the second pass.
func encodeBranchSubroutine(label string, pc uint32, offsets map[string]uint32) []uint16 {
	target := offsets[label]
	disp := (int32(target) - int32(pc+4)) / 2
	return []uint16{0xB000 | uint16(disp)&0x0FFF}
}

// encodeJumpLabel expands the load-address/jump-register pseudo-op: load a
// 32-bit literal via PC-relative addressing, then JMP @Rn, with the fixed
// delay-slot and alignment nops instruction_size already budgets for.
func encodeJumpLabel(label string, pc uint32, offsets map[string]uint32) []uint16 {
	scratch := sh4a.GP(1)
	target := offsets[label]
	hi, lo := addressHalves(target)
	return []uint16{
		0xD000 | reg(scratch)<<8 | 0x02, // mov.l @(pc+8),Rn
		0x0009,                          // nop (delay slot filler)
		0x402B | reg(scratch)<<8,        // jmp @Rn
		0x0009,                          // nop (branch delay slot)
		0x0009,                          // alignment nop
		hi, lo,
	}
}

// encodeBranchTrueLabel expands to: skip the jump sequence if the
// condition is false, otherwise load the target address and jump to it.
func encodeBranchTrueLabel(i sh4a.BranchTrueLabel, pc uint32, offsets map[string]uint32) []uint16 {
	scratch := sh4a.GP(1)
	target := offsets[i.Label]
	hi, lo := addressHalves(target)
	return []uint16{
		0x8B00 | 0x07,             // bf <disp8> (skip past the embedded literal when T is clear)
		0x0009,                    // nop (branch delay slot)
		0xD000 | reg(scratch)<<8 | 0x02, // mov.l @(pc+8),Rn
		0x0009,
		0x402B | reg(scratch)<<8, // jmp @Rn
		0x0009,
		0x0009, // alignment nop
		hi, lo,
	}
}
