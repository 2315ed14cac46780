package ir

// TypeSignalEncoding is a sealed interface over the encoding tree that
// mirrors a typed message field's type structure. Only PrimitiveEncoding
// and CompositeEncoding implement it.
//
// The tree is purely derived: leaves reference the flat signals the
// flattener emitted, composites mirror struct attributes and array elements.
type TypeSignalEncoding interface {
	irEncoding() // sealed

	// FieldName returns the field or attribute name this node encodes.
	FieldName() string
	// Of returns the type this node encodes.
	Of() Type
}

// PrimitiveEncoding is a leaf encoding one primitive or enum value as a
// single signal.
type PrimitiveEncoding struct {
	Name   string
	Type   Type
	Signal *Signal
}

func (*PrimitiveEncoding) irEncoding() {}

func (e *PrimitiveEncoding) FieldName() string { return e.Name }
func (e *PrimitiveEncoding) Of() Type          { return e.Type }

// CompositeEncoding is an interior node encoding a struct or array as the
// ordered encodings of its members.
type CompositeEncoding struct {
	Name     string
	Type     Type
	Elements []TypeSignalEncoding
}

func (*CompositeEncoding) irEncoding() {}

func (e *CompositeEncoding) FieldName() string { return e.Name }
func (e *CompositeEncoding) Of() Type          { return e.Type }
