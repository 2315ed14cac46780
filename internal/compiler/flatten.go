package compiler

import (
	"fmt"

	"github.com/canforge/canforge/internal/builder"
	"github.com/canforge/canforge/internal/ir"
)

// flattenMessage produces the flat signal table for a message and, for
// typed formats, the encoding tree mirroring the field types.
//
// Offsets are bit-granular and globally contiguous across the whole field
// list: fields are laid out back-to-back in declaration order with no
// padding or byte alignment.
func flattenMessage(msg *builder.Message, types []ir.Type) ([]*ir.Signal, []ir.TypeSignalEncoding, error) {
	switch {
	case msg.SignalFormat != nil:
		return flattenRawSignals(msg), nil, nil
	case msg.TypeFormat != nil:
		return flattenTypedFields(msg, types)
	default:
		return nil, nil, nil // empty payload
	}
}

// flattenRawSignals assigns sequential contiguous offsets to caller-supplied
// signals, ignoring any offset implied by the declaration, and prefixes each
// name with the message name.
func flattenRawSignals(msg *builder.Message) []*ir.Signal {
	signals := make([]*ir.Signal, 0, len(msg.SignalFormat.Signals))
	offset := 0
	for _, raw := range msg.SignalFormat.Signals {
		signals = append(signals, &ir.Signal{
			Name:        fmt.Sprintf("%s_%s", msg.Name, raw.Name),
			Description: raw.Description,
			Type:        raw.Type,
			Offset:      offset,
		})
		offset += int(raw.Type.Size)
	}
	return signals
}

func flattenTypedFields(msg *builder.Message, types []ir.Type) ([]*ir.Signal, []ir.TypeSignalEncoding, error) {
	var (
		signals   []*ir.Signal
		encodings []ir.TypeSignalEncoding
		cursor    int
	)
	for _, field := range msg.TypeFormat.Fields {
		ty, err := resolveType(types, field.Type)
		if err != nil {
			return nil, nil, err
		}
		qualified := fmt.Sprintf("%s_%s", msg.Name, field.Name)
		encodings = append(encodings, flattenField(ty, field.Name, qualified, &cursor, &signals))
	}
	return signals, encodings, nil
}

// flattenField walks one typed field recursively, emitting signals at the
// shared cursor and building the mirroring encoding node.
//
//   - Primitives and enums become one signal each.
//   - Structs recurse into attributes in declared order, threading the same
//     cursor.
//   - Arrays replicate the element encoding Len times, each instance
//     advancing the cursor by the element width.
func flattenField(ty ir.Type, name, qualified string, cursor *int, signals *[]*ir.Signal) ir.TypeSignalEncoding {
	switch t := ty.(type) {
	case *ir.PrimitiveType:
		sig := &ir.Signal{
			Name:   qualified,
			Type:   t.Signal,
			Offset: *cursor,
		}
		*cursor += int(t.Signal.Size)
		*signals = append(*signals, sig)
		return &ir.PrimitiveEncoding{Name: name, Type: ty, Signal: sig}

	case *ir.EnumType:
		sig := &ir.Signal{
			Name:       qualified,
			Type:       ir.SignalType{Kind: ir.SignalUnsigned, Size: t.Size},
			Offset:     *cursor,
			ValueTable: t.Entries,
		}
		*cursor += int(t.Size)
		*signals = append(*signals, sig)
		return &ir.PrimitiveEncoding{Name: name, Type: ty, Signal: sig}

	case *ir.StructType:
		elements := make([]ir.TypeSignalEncoding, 0, len(t.Attributes))
		for _, attr := range t.Attributes {
			elements = append(elements, flattenField(
				attr.Type, attr.Name, qualified+"_"+attr.Name, cursor, signals))
		}
		return &ir.CompositeEncoding{Name: name, Type: ty, Elements: elements}

	case *ir.ArrayType:
		elements := make([]ir.TypeSignalEncoding, 0, t.Len)
		for i := 0; i < t.Len; i++ {
			elements = append(elements, flattenField(
				t.Elem, fmt.Sprintf("%d", i), fmt.Sprintf("%s_%d", qualified, i), cursor, signals))
		}
		return &ir.CompositeEncoding{Name: name, Type: ty, Elements: elements}

	default:
		integrityFault(qualified, "unknown type variant %T", ty)
		return nil
	}
}

// messageDLC derives the byte length from the maximum signal extent.
func messageDLC(signals []*ir.Signal) uint8 {
	maxBit := 0
	for _, sig := range signals {
		if end := sig.Offset + int(sig.Type.Size); end > maxBit {
			maxBit = end
		}
	}
	return uint8((maxBit + 7) / 8)
}
