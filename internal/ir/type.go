package ir

import (
	"fmt"
	"strings"

	"cprizm/internal/arch"
)

// TypeKind enumerates the closed sum of types spec.md §3 defines.
type TypeKind int

const (
	Void TypeKind = iota
	I8
	I16
	I32
	I64
	U8
	U16
	U32
	U64
	Float
	Double
	LongDouble
	Pointer
	Array
	Struct
)

// StructMember is one named field of a Struct type.
type StructMember struct {
	Name string
	Type Type
}

// Type is a closed sum type: no virtual-call hierarchy is appropriate for
// it, so it is represented as a tagged struct rather than an interface.
type Type struct {
	Kind TypeKind

	Elem *Type // Pointer, Array
	Len  int   // Array

	Members []StructMember // Struct
}

func Int(kind TypeKind) Type { return Type{Kind: kind} }

func PointerTo(elem Type) Type { return Type{Kind: Pointer, Elem: &elem} }

func ArrayOf(elem Type, length int) Type { return Type{Kind: Array, Elem: &elem, Len: length} }

func StructOf(members ...StructMember) Type { return Type{Kind: Struct, Members: members} }

// IsPointer reports whether t is a pointer type (spec.md's ty.rs::is_ptr).
func (t Type) IsPointer() bool { return t.Kind == Pointer }

// IsFloat reports whether t belongs to the floating-point register class.
func (t Type) IsFloat() bool {
	return t.Kind == Float || t.Kind == Double || t.Kind == LongDouble
}

// IsSigned reports whether t is a signed integer type.
func (t Type) IsSigned() bool {
	switch t.Kind {
	case I8, I16, I32, I64:
		return true
	default:
		return false
	}
}

// Equal performs structural equality, needed because Type embeds pointers
// and slices and so is not comparable with ==.
func (t Type) Equal(o Type) bool {
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case Pointer, Array:
		if t.Kind == Array && t.Len != o.Len {
			return false
		}
		if t.Elem == nil || o.Elem == nil {
			return t.Elem == o.Elem
		}
		return t.Elem.Equal(*o.Elem)
	case Struct:
		if len(t.Members) != len(o.Members) {
			return false
		}
		for i := range t.Members {
			if t.Members[i].Name != o.Members[i].Name || !t.Members[i].Type.Equal(o.Members[i].Type) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

func (t Type) String() string {
	switch t.Kind {
	case Void:
		return "void"
	case I8:
		return "i8"
	case I16:
		return "i16"
	case I32:
		return "i32"
	case I64:
		return "i64"
	case U8:
		return "u8"
	case U16:
		return "u16"
	case U32:
		return "u32"
	case U64:
		return "u64"
	case Float:
		return "float"
	case Double:
		return "double"
	case LongDouble:
		return "long double"
	case Pointer:
		return t.Elem.String() + "*"
	case Array:
		return fmt.Sprintf("%s[%d]", t.Elem.String(), t.Len)
	case Struct:
		names := make([]string, len(t.Members))
		for i, m := range t.Members {
			names[i] = fmt.Sprintf("%s %s", m.Type.String(), m.Name)
		}
		return "struct{" + strings.Join(names, "; ") + "}"
	default:
		return "<?type>"
	}
}

// Size returns t's size in bytes on the given target.
func (t Type) Size(d arch.Descriptor) int {
	switch t.Kind {
	case Void:
		return 0
	case I8, U8:
		return d.IntSizes["char"]
	case I16, U16:
		return d.IntSizes["short"]
	case I32, U32:
		return d.IntSizes["int"]
	case I64, U64:
		return d.IntSizes["long"]
	case Float:
		return d.IntSizes["float"]
	case Double, LongDouble:
		return d.IntSizes["double"]
	case Pointer:
		return d.PointerSize
	case Array:
		return t.Elem.Size(d) * t.Len
	case Struct:
		off := 0
		for _, m := range t.Members {
			a := m.Type.Align(d)
			off = alignUp(off, a) + m.Type.Size(d)
		}
		return alignUp(off, t.Align(d))
	default:
		return 0
	}
}

// Align returns t's required alignment in bytes on the given target.
func (t Type) Align(d arch.Descriptor) int {
	switch t.Kind {
	case I8, U8:
		return d.IntAligns["char"]
	case I16, U16:
		return d.IntAligns["short"]
	case I32, U32:
		return d.IntAligns["int"]
	case I64, U64:
		return d.IntAligns["long"]
	case Float:
		return d.IntAligns["float"]
	case Double, LongDouble:
		return d.IntAligns["double"]
	case Pointer:
		return d.PointerSize
	case Array:
		return t.Elem.Align(d)
	case Struct:
		max := 1
		for _, m := range t.Members {
			if a := m.Type.Align(d); a > max {
				max = a
			}
		}
		return max
	default:
		return 1
	}
}

func alignUp(off, align int) int {
	if align <= 1 {
		return off
	}
	rem := off % align
	if rem == 0 {
		return off
	}
	return off + (align - rem)
}
