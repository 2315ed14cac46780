package ir

import (
	"fmt"
	"strconv"
)

// SignalKind distinguishes the numeric interpretation of a signal's raw bits.
type SignalKind string

const (
	SignalUnsigned SignalKind = "unsigned"
	SignalSigned   SignalKind = "signed"
	SignalDecimal  SignalKind = "decimal"
)

// SignalType describes the fixed-width numeric encoding of a signal.
// For decimals the decoded value is raw*Scale + Offset.
type SignalType struct {
	Kind   SignalKind
	Size   uint8 // bit width, 1..64
	Offset float64
	Scale  float64
}

// Decode maps a raw unsigned bit pattern to the physical value.
// Integer kinds pass through (signed values must already be sign-extended
// by the caller); decimals apply the affine transform.
func (t SignalType) Decode(raw uint64) float64 {
	if t.Kind == SignalDecimal {
		return float64(raw)*t.Scale + t.Offset
	}
	return float64(raw)
}

// Max returns the largest decodable physical value.
func (t SignalType) Max() float64 {
	rawMax := uint64(0xFFFFFFFFFFFFFFFF) >> (64 - t.Size)
	return t.Decode(rawMax)
}

// Descriptor renders the signal type in the textual type grammar.
func (t SignalType) Descriptor() string {
	switch t.Kind {
	case SignalSigned:
		return fmt.Sprintf("i%d", t.Size)
	case SignalUnsigned:
		return fmt.Sprintf("u%d", t.Size)
	case SignalDecimal:
		min := formatDecimalBound(t.Offset)
		max := formatDecimalBound(t.Max())
		return fmt.Sprintf("d%d<%s..%s>", t.Size, min, max)
	default:
		panic(fmt.Sprintf("ir: unknown signal kind %q", t.Kind))
	}
}

func formatDecimalBound(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Signal is a fixed-offset, fixed-width bit-field within a message payload.
// Offsets are bit-granular, 0-based and contiguous within one message.
type Signal struct {
	Name        string
	Description string
	Type        SignalType
	Offset      int

	// ValueTable is set for enum-backed signals and maps raw values to
	// entry names.
	ValueTable []EnumEntry
}

// Size returns the signal's bit width.
func (s *Signal) Size() uint8 { return s.Type.Size }
