package ir

import "fmt"

// Visibility controls whether an entity is part of the user-facing model or
// internal protocol plumbing.
type Visibility string

const (
	// VisibilityGlobal marks user-declared entities.
	VisibilityGlobal Visibility = "global"
	// VisibilityHidden marks entities synthesized for the builtin object
	// get/set protocol.
	VisibilityHidden Visibility = "hidden"
)

// Type is a sealed interface over the compiled type variants.
// Only PrimitiveType, StructType, EnumType and ArrayType implement it.
//
// Elaborated named types (struct/enum) are shared by pointer; two fields of
// the same declared type reference the same *StructType or *EnumType, so
// identity checks are pointer comparisons, never structural recursion.
type Type interface {
	irType() // sealed

	// TypeName returns the textual descriptor for primitives and arrays,
	// or the declared name for structs and enums.
	TypeName() string
}

// PrimitiveType is an anonymous fixed-width primitive (integer or decimal).
type PrimitiveType struct {
	Signal SignalType
}

func (*PrimitiveType) irType() {}

// TypeName renders the primitive back into descriptor form, e.g. "u8",
// "i12" or "d10<0..100>".
func (t *PrimitiveType) TypeName() string {
	return t.Signal.Descriptor()
}

// Attribute is a named, typed struct member.
type Attribute struct {
	Name string
	Type Type
}

// StructType is a compiled struct definition. Attributes keep declaration
// order; layout is back-to-back with no padding.
type StructType struct {
	Name        string
	Description string
	Attributes  []Attribute
	Visibility  Visibility
}

func (*StructType) irType() {}

func (t *StructType) TypeName() string { return t.Name }

// EnumEntry is a named enum value.
type EnumEntry struct {
	Name  string
	Value uint64
}

// EnumType is a compiled enum definition. Size is the derived bit width,
// never less than 1.
type EnumType struct {
	Name        string
	Description string
	Size        uint8
	Entries     []EnumEntry
	Visibility  Visibility
}

func (*EnumType) irType() {}

func (t *EnumType) TypeName() string { return t.Name }

// MaxValue returns the largest entry value, or 0 for an empty enum.
func (t *EnumType) MaxValue() uint64 {
	var max uint64
	for _, e := range t.Entries {
		if e.Value > max {
			max = e.Value
		}
	}
	return max
}

// ArrayType is a fixed-length array of a single element type.
type ArrayType struct {
	Len  int
	Elem Type
}

func (*ArrayType) irType() {}

func (t *ArrayType) TypeName() string {
	return fmt.Sprintf("%s[%d]", t.Elem.TypeName(), t.Len)
}

// BitSize returns the total flattened width of a type in bits.
func BitSize(t Type) int {
	switch ty := t.(type) {
	case *PrimitiveType:
		return int(ty.Signal.Size)
	case *EnumType:
		return int(ty.Size)
	case *StructType:
		total := 0
		for _, attr := range ty.Attributes {
			total += BitSize(attr.Type)
		}
		return total
	case *ArrayType:
		return ty.Len * BitSize(ty.Elem)
	default:
		panic(fmt.Sprintf("ir: unknown type variant %T", t))
	}
}
