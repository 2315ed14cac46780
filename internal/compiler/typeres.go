package compiler

import (
	"math"
	"regexp"
	"strconv"

	"github.com/canforge/canforge/internal/ir"
)

// The textual type grammar, tried in order: signed integer, unsigned
// integer, decimal with range, array suffix, then exact-name lookup among
// already-elaborated types.
var (
	signedIntPattern   = regexp.MustCompile(`^i([0-9]{1,2})$`)
	unsignedIntPattern = regexp.MustCompile(`^u([0-9]{1,2})$`)
	decimalPattern     = regexp.MustCompile(`^d([0-9]{1,2})<([+-]?(?:[0-9]*[.])?[0-9]+)\.\.([+-]?(?:[0-9]*[.])?[0-9]+)>$`)

	// Greedy element match so the outermost suffix binds last:
	// "u8[2][3]" parses as ("u8[2]")[3].
	arrayPattern = regexp.MustCompile(`^(.+)\[([0-9]+)\]$`)
)

// resolveType parses a type descriptor into a concrete type, or resolves
// it by exact name against the already-elaborated named types.
func resolveType(defined []ir.Type, descriptor string) (ir.Type, error) {
	if m := signedIntPattern.FindStringSubmatch(descriptor); m != nil {
		size, _ := strconv.ParseUint(m[1], 10, 8)
		if size >= 1 && size <= 64 {
			return &ir.PrimitiveType{Signal: ir.SignalType{
				Kind: ir.SignalSigned,
				Size: uint8(size),
			}}, nil
		}
	}

	if m := unsignedIntPattern.FindStringSubmatch(descriptor); m != nil {
		size, _ := strconv.ParseUint(m[1], 10, 8)
		if size >= 1 && size <= 64 {
			return &ir.PrimitiveType{Signal: ir.SignalType{
				Kind: ir.SignalUnsigned,
				Size: uint8(size),
			}}, nil
		}
	}

	if m := decimalPattern.FindStringSubmatch(descriptor); m != nil {
		size, _ := strconv.ParseUint(m[1], 10, 8)
		if size >= 1 && size <= 64 {
			min, _ := strconv.ParseFloat(m[2], 64)
			max, _ := strconv.ParseFloat(m[3], 64)
			if min >= max {
				return nil, compileErrorf(ErrInvalidRange, descriptor,
					"decimal range min (%g) must be less than max (%g)", min, max)
			}
			rawMax := uint64(math.MaxUint64) >> (64 - size)
			return &ir.PrimitiveType{Signal: ir.SignalType{
				Kind:   ir.SignalDecimal,
				Size:   uint8(size),
				Offset: min,
				Scale:  (max - min) / float64(rawMax),
			}}, nil
		}
	}

	if m := arrayPattern.FindStringSubmatch(descriptor); m != nil {
		length, err := strconv.Atoi(m[2])
		if err == nil {
			elem, err := resolveType(defined, m[1])
			if err != nil {
				return nil, err
			}
			return &ir.ArrayType{Len: length, Elem: elem}, nil
		}
	}

	for _, ty := range defined {
		switch t := ty.(type) {
		case *ir.StructType:
			if t.Name == descriptor {
				return ty, nil
			}
		case *ir.EnumType:
			if t.Name == descriptor {
				return ty, nil
			}
		}
	}

	return nil, compileErrorf(ErrInvalidType, descriptor, "failed to resolve type")
}

// ParseSignalType parses a primitive type descriptor ("u8", "i12",
// "d10<0..100>") into a signal type. Named and array descriptors are
// rejected: raw-signal formats carry primitives only.
func ParseSignalType(descriptor string) (ir.SignalType, error) {
	ty, err := resolveType(nil, descriptor)
	if err != nil {
		return ir.SignalType{}, err
	}
	prim, ok := ty.(*ir.PrimitiveType)
	if !ok {
		return ir.SignalType{}, compileErrorf(ErrInvalidType, descriptor,
			"raw signals must use a primitive type descriptor")
	}
	return prim.Signal, nil
}

// baseTypeName strips trailing array suffixes: "vec3[4]" -> "vec3".
func baseTypeName(descriptor string) string {
	for {
		m := arrayPattern.FindStringSubmatch(descriptor)
		if m == nil {
			return descriptor
		}
		descriptor = m[1]
	}
}
