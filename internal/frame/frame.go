// Package frame computes a function's stack layout: where callee-saved
// registers are spilled, where named locals and spill slots live, and
// where each explicit StackAlloc lands, all aligned to the target's rules.
package frame

import (
	"sort"

	"cprizm/internal/arch"
	"cprizm/internal/ir"
)

// Plan is the computed layout for one function's stack frame. All offsets
// are positive byte distances from the frame base (the stack pointer value
// immediately after the prologue's allocation), growing away from the
// return address the way the target ABI expects.
type Plan struct {
	// TotalSize is the full, alignment-padded size of the frame in bytes.
	TotalSize int

	// CalleeSavedOffsets maps a saved register's name to its slot offset.
	CalleeSavedOffsets map[string]int

	// VarOffsets maps a named local's textual name to its slot offset.
	// Compiler temporaries never appear here: they stay in registers or in
	// per-generation spill slots the allocator names directly.
	VarOffsets map[string]int

	// AllocOffsets maps the target variable of a StackAlloc expression to
	// the offset of the allocated region.
	AllocOffsets map[ir.VarKey]int
}

// Offset looks up where a named local lives in the frame.
func (p Plan) Offset(name string) (int, bool) {
	o, ok := p.VarOffsets[name]
	return o, ok
}

// Compute lays out fn's stack frame: first the callee-saved registers
// usedRegisters actually needs to preserve, then every named local
// variable defined anywhere in the function, then every explicit
// StackAlloc, each group sorted by name, each aligned to its own
// requirement and the whole frame padded to the target's StackAlign.
//
// Grounded on original_source/backend/src/util/stack.rs's allocate_stack,
// collapsing its generic setup/teardown-instruction-emitting callbacks
// (left to codegen in this port, which lowers Plan into concrete
// push/pop or sub/add sequences) down to pure layout arithmetic.
func Compute(fn *ir.FunctionDefinition, usedRegisters []arch.Register, descriptor arch.Descriptor) Plan {
	base := 0

	base, calleeSaved := placeRegisters(base, usedRegisters, descriptor)
	base, varOffsets := placeLocals(base, fn, descriptor)
	base, allocOffsets := placeStackAllocs(base, fn)

	total := alignUp(base, max(descriptor.StackAlign, 1))

	return Plan{
		TotalSize:          total,
		CalleeSavedOffsets: calleeSaved,
		VarOffsets:         varOffsets,
		AllocOffsets:       allocOffsets,
	}
}

func placeRegisters(base int, regs []arch.Register, descriptor arch.Descriptor) (int, map[string]int) {
	offsets := make(map[string]int, len(regs))
	calleeSaved := make(map[string]bool, len(descriptor.CalleeSaved))
	for _, r := range descriptor.CalleeSaved {
		calleeSaved[r.Name] = true
	}
	var sorted []arch.Register
	for _, r := range regs {
		if calleeSaved[r.Name] {
			sorted = append(sorted, r)
		}
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	size := descriptor.PointerSize
	if size <= 0 {
		size = 8
	}
	for _, r := range sorted {
		base = alignUp(base, size)
		offsets[r.Name] = base
		base += size
	}
	return base, offsets
}

func placeLocals(base int, fn *ir.FunctionDefinition, descriptor arch.Descriptor) (int, map[string]int) {
	type namedLocal struct {
		name  string
		align int
		size  int
	}
	seen := make(map[string]bool)
	var locals []namedLocal

	for _, b := range fn.Blocks() {
		for _, s := range b.Statements {
			a, ok := s.(ir.Assignment)
			if !ok || a.Target.IsTmp() || seen[a.Target.Name] {
				continue
			}
			seen[a.Target.Name] = true
			locals = append(locals, namedLocal{
				name:  a.Target.Name,
				align: a.Target.Type.Align(descriptor),
				size:  a.Target.Type.Size(descriptor),
			})
		}
	}
	sort.Slice(locals, func(i, j int) bool { return locals[i].name < locals[j].name })

	offsets := make(map[string]int, len(locals))
	for _, l := range locals {
		align := l.align
		if align <= 0 {
			align = 1
		}
		base = alignUp(base, align)
		offsets[l.name] = base
		base += l.size
	}
	return base, offsets
}

func placeStackAllocs(base int, fn *ir.FunctionDefinition) (int, map[ir.VarKey]int) {
	type alloc struct {
		key   ir.VarKey
		align int
		size  int
	}
	var allocs []alloc

	for _, b := range fn.Blocks() {
		for _, s := range b.Statements {
			a, ok := s.(ir.Assignment)
			if !ok {
				continue
			}
			ev, ok := a.Value.(ir.ExpressionValue)
			if !ok {
				continue
			}
			sa, ok := ev.Expr.(ir.StackAlloc)
			if !ok {
				continue
			}
			allocs = append(allocs, alloc{key: a.Target.Key(), align: sa.Align, size: sa.Size})
		}
	}
	sort.Slice(allocs, func(i, j int) bool {
		if allocs[i].key.Name != allocs[j].key.Name {
			return allocs[i].key.Name < allocs[j].key.Name
		}
		return allocs[i].key.Generation < allocs[j].key.Generation
	})

	offsets := make(map[ir.VarKey]int, len(allocs))
	for _, a := range allocs {
		align := a.align
		if align <= 0 {
			align = 1
		}
		base = alignUp(base, align)
		offsets[a.key] = base
		base += a.size
	}
	return base, offsets
}

func alignUp(offset, align int) int {
	if align <= 1 {
		return offset
	}
	if rem := offset % align; rem != 0 {
		return offset + (align - rem)
	}
	return offset
}
