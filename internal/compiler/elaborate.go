package compiler

import (
	"math/bits"

	"github.com/canforge/canforge/internal/builder"
	"github.com/canforge/canforge/internal/ir"
)

// elaborateTypes converts topologically ordered declarations into immutable
// types. The ordering guarantees every struct attribute resolves against an
// already-elaborated context.
func elaborateTypes(ordered []builder.TypeDecl) ([]ir.Type, error) {
	types := make([]ir.Type, 0, len(ordered))
	for _, decl := range ordered {
		switch d := decl.(type) {
		case *builder.Enum:
			types = append(types, elaborateEnum(d))
		case *builder.Struct:
			st, err := elaborateStruct(d, types)
			if err != nil {
				return nil, err
			}
			types = append(types, st)
		}
	}
	return types, nil
}

func elaborateEnum(decl *builder.Enum) *ir.EnumType {
	entries := make([]ir.EnumEntry, 0, len(decl.Entries))
	var next uint64
	for _, e := range decl.Entries {
		value := next
		if e.Value != nil {
			value = *e.Value
		}
		entries = append(entries, ir.EnumEntry{Name: e.Name, Value: value})
		next = value + 1
	}

	var max uint64
	for _, e := range entries {
		if e.Value > max {
			max = e.Value
		}
	}
	return &ir.EnumType{
		Name:        decl.Name,
		Description: decl.Description,
		Size:        enumBitWidth(max),
		Entries:     entries,
		Visibility:  decl.Visibility,
	}
}

// enumBitWidth is ceil(log2(max+1)) with a floor of 1 bit, so a
// single-entry enum valued 0 still occupies one bit on the wire.
func enumBitWidth(max uint64) uint8 {
	width := bits.Len64(max)
	if width == 0 {
		width = 1
	}
	return uint8(width)
}

func elaborateStruct(decl *builder.Struct, elaborated []ir.Type) (*ir.StructType, error) {
	attribs := make([]ir.Attribute, 0, len(decl.Attributes))
	for _, attr := range decl.Attributes {
		ty, err := resolveType(elaborated, attr.Type)
		if err != nil {
			return nil, err
		}
		attribs = append(attribs, ir.Attribute{Name: attr.Name, Type: ty})
	}
	return &ir.StructType{
		Name:        decl.Name,
		Description: decl.Description,
		Attributes:  attribs,
		Visibility:  decl.Visibility,
	}, nil
}
