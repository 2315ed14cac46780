package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canforge/canforge/internal/ir"
)

func TestResolveTypeUnsigned(t *testing.T) {
	ty, err := resolveType(nil, "u8")
	require.NoError(t, err)
	prim := ty.(*ir.PrimitiveType)
	assert.Equal(t, ir.SignalUnsigned, prim.Signal.Kind)
	assert.Equal(t, uint8(8), prim.Signal.Size)
}

func TestResolveTypeSigned(t *testing.T) {
	ty, err := resolveType(nil, "i13")
	require.NoError(t, err)
	prim := ty.(*ir.PrimitiveType)
	assert.Equal(t, ir.SignalSigned, prim.Signal.Kind)
	assert.Equal(t, uint8(13), prim.Signal.Size)
}

func TestResolveTypeWidthBounds(t *testing.T) {
	for _, descriptor := range []string{"u1", "u64", "i1", "i64"} {
		_, err := resolveType(nil, descriptor)
		assert.NoError(t, err, descriptor)
	}
	for _, descriptor := range []string{"u0", "u65", "i0", "i99", "u", "u8.5"} {
		_, err := resolveType(nil, descriptor)
		assert.Equal(t, ErrInvalidType, CodeOf(err), descriptor)
	}
}

func TestResolveTypeDecimal(t *testing.T) {
	ty, err := resolveType(nil, "d10<0..100>")
	require.NoError(t, err)
	prim := ty.(*ir.PrimitiveType)
	assert.Equal(t, ir.SignalDecimal, prim.Signal.Kind)
	assert.Equal(t, uint8(10), prim.Signal.Size)
	assert.Equal(t, 0.0, prim.Signal.Offset)
	assert.InDelta(t, 100.0/1023.0, prim.Signal.Scale, 1e-12)

	// The largest raw value decodes back to max.
	assert.InDelta(t, 100, prim.Signal.Max(), 1e-9)
	assert.InDelta(t, 0, prim.Signal.Decode(0), 1e-9)
}

func TestResolveTypeDecimalNegativeBounds(t *testing.T) {
	ty, err := resolveType(nil, "d8<-40..+85.5>")
	require.NoError(t, err)
	prim := ty.(*ir.PrimitiveType)
	assert.Equal(t, -40.0, prim.Signal.Offset)
	assert.InDelta(t, -40, prim.Signal.Decode(0), 1e-9)
	assert.InDelta(t, 85.5, prim.Signal.Max(), 1e-9)
}

func TestResolveTypeDecimalInvalidRange(t *testing.T) {
	_, err := resolveType(nil, "d8<5..5>")
	assert.Equal(t, ErrInvalidRange, CodeOf(err))

	_, err = resolveType(nil, "d8<10..2>")
	assert.Equal(t, ErrInvalidRange, CodeOf(err))
}

func TestResolveTypeArray(t *testing.T) {
	ty, err := resolveType(nil, "u8[4]")
	require.NoError(t, err)
	arr := ty.(*ir.ArrayType)
	assert.Equal(t, 4, arr.Len)
	assert.Equal(t, "u8", arr.Elem.TypeName())
	assert.Equal(t, 32, ir.BitSize(arr))
}

func TestResolveTypeNestedArray(t *testing.T) {
	// The greedy element match binds the outermost suffix last.
	ty, err := resolveType(nil, "u8[2][3]")
	require.NoError(t, err)
	outer := ty.(*ir.ArrayType)
	assert.Equal(t, 3, outer.Len)
	inner := outer.Elem.(*ir.ArrayType)
	assert.Equal(t, 2, inner.Len)
	assert.Equal(t, "u8[2][3]", outer.TypeName())
}

func TestResolveTypeDecimalArray(t *testing.T) {
	ty, err := resolveType(nil, "d10<0..100>[2]")
	require.NoError(t, err)
	arr := ty.(*ir.ArrayType)
	assert.Equal(t, 2, arr.Len)
	prim := arr.Elem.(*ir.PrimitiveType)
	assert.Equal(t, ir.SignalDecimal, prim.Signal.Kind)
}

func TestResolveTypeNamedLookup(t *testing.T) {
	state := &ir.EnumType{Name: "state", Size: 2}
	header := &ir.StructType{Name: "header"}
	defined := []ir.Type{state, header}

	ty, err := resolveType(defined, "state")
	require.NoError(t, err)
	assert.Same(t, ir.Type(state), ty)

	ty, err = resolveType(defined, "header[3]")
	require.NoError(t, err)
	arr := ty.(*ir.ArrayType)
	assert.Same(t, ir.Type(header), arr.Elem)

	_, err = resolveType(defined, "missing")
	assert.Equal(t, ErrInvalidType, CodeOf(err))
}

func TestParseSignalType(t *testing.T) {
	st, err := ParseSignalType("i12")
	require.NoError(t, err)
	assert.Equal(t, ir.SignalSigned, st.Kind)
	assert.Equal(t, uint8(12), st.Size)

	// Arrays and names are not signal types.
	_, err = ParseSignalType("u8[2]")
	assert.Equal(t, ErrInvalidType, CodeOf(err))
	_, err = ParseSignalType("state")
	assert.Equal(t, ErrInvalidType, CodeOf(err))
}

func TestBaseTypeName(t *testing.T) {
	assert.Equal(t, "vec3", baseTypeName("vec3[4]"))
	assert.Equal(t, "vec3", baseTypeName("vec3[4][2]"))
	assert.Equal(t, "u8", baseTypeName("u8"))
}
