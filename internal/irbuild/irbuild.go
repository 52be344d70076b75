// Package irbuild lowers a type-checked translation unit into the SSA IR
// internal/ir defines: one FunctionDefinition per C function, direct
// variable versioning wherever a block has a single known predecessor, and
// real φ-nodes where control flow joins: if/else merges, loop headers, loop
// exits, for-loop post blocks and the merge blocks of && and ||.
//
// Grounded on a single
// recursive-descent walk over the annotated AST, guided entirely by the
// type side-table a prior semantic pass already built, with no further name
// resolution or type inference performed here.
package irbuild

import (
	"fmt"

	"cprizm/internal/arch"
	"cprizm/internal/ast"
	cerrors "cprizm/internal/errors"
	"cprizm/internal/ir"
	"cprizm/internal/semantic"
)

// internalError is recovered by Build and reported as an E05xx diagnostic,
// matching spec.md §7's fail-fast contract for bugs in a post-semantic
// phase: anything irbuild cannot make sense of is a builder defect, not a
// user-facing type error (those were already caught by internal/semantic).
type internalError struct {
	msg string
	pos ast.Position
}

func (e internalError) Error() string { return e.msg }

func fail(pos ast.Position, format string, args ...any) {
	panic(internalError{msg: fmt.Sprintf(format, args...), pos: pos})
}

// Build lowers unit into a Program for desc. It returns an error without
// lowering anything when checked reports errors.
func Build(unit *ast.TranslationUnit, checked *semantic.Checked, desc arch.Descriptor) (prog *ir.Program, err error) {
	if checked.HasErrors() {
		return nil, fmt.Errorf("irbuild: cannot lower a translation unit with unresolved semantic errors")
	}

	defer func() {
		if r := recover(); r != nil {
			ie, ok := r.(internalError)
			if !ok {
				panic(r)
			}
			ce := cerrors.NewSemanticError(cerrors.ErrorInternal, ie.msg, ie.pos).Build()
			err = fmt.Errorf("%s: %s", ce.Code, ce.Message)
		}
	}()

	b := &builder{
		desc:    desc,
		checked: checked,
		structs: map[string]ir.Type{},
		program: ir.NewProgram(),
	}

	// Struct layouts are computed up front so every function body sees a
	// complete cache; a self-referential struct can only occur through a
	// pointer member, and pointer members never need their pointee's
	// layout to resolve (see structType's building-set cycle guard).
	for name := range checked.Structs {
		b.structType(name, ast.Position{})
	}

	for _, decl := range unit.Decls {
		fd, ok := decl.(*ast.FunctionDecl)
		if !ok || fd.Body == nil {
			continue
		}
		fn := b.lowerFunction(fd)
		if !b.program.AddFunction(fn) {
			fail(fd.Pos, "duplicate function %q reached irbuild", fd.Name.Value)
		}
	}

	return b.program, nil
}

// builder carries whole-program state shared by every function lowered
// from the same translation unit: the struct-layout cache and the Program
// under construction.
type builder struct {
	desc    arch.Descriptor
	checked *semantic.Checked
	structs map[string]ir.Type
	program *ir.Program
}

// structType returns the cached ir.Type for the named struct, computing it
// on first request. Pointer fields never recurse into their pointee's
// layout (see convertType), so the only cycle a systematically C struct
// graph can form - mutual by-value containment - is caught by the
// "building" sentinel rather than overflowing the stack.
func (b *builder) structType(name string, pos ast.Position) ir.Type {
	if t, ok := b.structs[name]; ok {
		return t
	}
	info, ok := b.checked.Structs[name]
	if !ok {
		fail(pos, "unresolved struct %q reached irbuild", name)
	}
	b.structs[name] = ir.Type{Kind: ir.Struct} // building sentinel, breaks cycles
	members := make([]ir.StructMember, len(info.Fields))
	for i, f := range info.Fields {
		members[i] = ir.StructMember{Name: f.Name.Value, Type: b.convertType(f.Type, f.Pos)}
	}
	full := ir.StructOf(members...)
	b.structs[name] = full
	return full
}

// convertType maps a resolved C type onto the IR's closed type sum. Every
// pointer collapses to an opaque byte pointer: internal/ir's Size/Align
// never consult Pointer.Elem (codegen/aarch64's AddressOf and ReadMemory
// carry their own explicit element type at each use site instead), so
// carrying a fully resolved pointee type here would only reintroduce the
// self-referential-struct cycle convertType otherwise avoids, for no
// benefit.
func (b *builder) convertType(t *ast.Type, pos ast.Position) ir.Type {
	if t == nil {
		return ir.Int(ir.Void)
	}
	switch t.Kind {
	case ast.TypeVoid:
		return ir.Int(ir.Void)
	case ast.TypeChar:
		if t.Unsigned {
			return ir.Int(ir.U8)
		}
		return ir.Int(ir.I8)
	case ast.TypeInt:
		switch {
		case t.Short && t.Unsigned:
			return ir.Int(ir.U16)
		case t.Short:
			return ir.Int(ir.I16)
		case t.Long && t.Unsigned:
			return ir.Int(ir.U64)
		case t.Long:
			return ir.Int(ir.I64)
		case t.Unsigned:
			return ir.Int(ir.U32)
		default:
			return ir.Int(ir.I32)
		}
	case ast.TypeFloat:
		return ir.Int(ir.Float)
	case ast.TypeDouble:
		if t.Long {
			return ir.Int(ir.LongDouble)
		}
		return ir.Int(ir.Double)
	case ast.TypePointer:
		return ir.PointerTo(ir.Int(ir.I8))
	case ast.TypeArray:
		length := t.ArrayLen
		if length < 0 {
			length = 0
		}
		return ir.ArrayOf(b.convertType(t.Elem, pos), length)
	case ast.TypeStruct:
		return b.structType(t.Name, pos)
	default:
		fail(pos, "unsupported type kind %d reached irbuild", t.Kind)
		return ir.Type{}
	}
}

// isAggregate reports whether a converted type cannot live in a single
// register and so must always be spoken of through memory.
func isAggregate(t ir.Type) bool {
	return t.Kind == ir.Struct || t.Kind == ir.Array
}

// fieldOffset mirrors ir.Type's own struct layout algorithm (alignUp per
// member, in declaration order) so a member address agrees exactly with
// where structType laid that field out.
func (b *builder) fieldOffset(info *semantic.StructInfo, field string, pos ast.Position) (int, *ast.Type) {
	off := 0
	for _, f := range info.Fields {
		ft := b.convertType(f.Type, f.Pos)
		off = alignUp(off, ft.Align(b.desc))
		if f.Name.Value == field {
			return off, f.Type
		}
		off += ft.Size(b.desc)
	}
	fail(pos, "unknown field %q reached irbuild", field)
	return 0, nil
}
