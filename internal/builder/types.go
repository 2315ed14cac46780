package builder

import "github.com/canforge/canforge/internal/ir"

// TypeDecl is a sealed interface over declared type definitions.
// Only *Struct and *Enum implement it.
type TypeDecl interface {
	typeDecl() // sealed

	// DeclName returns the declared type name.
	DeclName() string
}

// StructAttribute is a named attribute with its textual type descriptor.
// Descriptors are resolved during compilation, not at declaration time.
type StructAttribute struct {
	Name string
	Type string
}

// Struct is a declared struct type.
type Struct struct {
	Name        string
	Description string
	Attributes  []StructAttribute
	Visibility  ir.Visibility
}

func (*Struct) typeDecl() {}

func (s *Struct) DeclName() string { return s.Name }

// AddAttribute appends an attribute. Order is significant: attributes are
// laid out back-to-back in declaration order.
func (s *Struct) AddAttribute(name, typeDescriptor string) {
	s.Attributes = append(s.Attributes, StructAttribute{Name: name, Type: typeDescriptor})
}

// SetDescription sets the human-readable description.
func (s *Struct) SetDescription(d string) { s.Description = d }

// EnumEntryDecl is a declared enum entry. Value is nil for implicit
// entries, which inherit previous+1 (the first defaults to 0).
type EnumEntryDecl struct {
	Name  string
	Value *uint64
}

// Enum is a declared enum type.
type Enum struct {
	Name        string
	Description string
	Entries     []EnumEntryDecl
	Visibility  ir.Visibility
}

func (*Enum) typeDecl() {}

func (e *Enum) DeclName() string { return e.Name }

// AddEntry appends an implicit entry (value = previous+1, first entry 0).
func (e *Enum) AddEntry(name string) {
	e.Entries = append(e.Entries, EnumEntryDecl{Name: name})
}

// AddEntryWithValue appends an entry with an explicit value.
func (e *Enum) AddEntryWithValue(name string, value uint64) {
	v := value
	e.Entries = append(e.Entries, EnumEntryDecl{Name: name, Value: &v})
}

// SetDescription sets the human-readable description.
func (e *Enum) SetDescription(d string) { e.Description = d }
