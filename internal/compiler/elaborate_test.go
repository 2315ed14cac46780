package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canforge/canforge/internal/builder"
	"github.com/canforge/canforge/internal/ir"
)

func TestElaborateEnumImplicitValues(t *testing.T) {
	e := &builder.Enum{Name: "state"}
	e.AddEntry("idle")
	e.AddEntry("running")
	e.AddEntry("stopping")

	enum := elaborateEnum(e)
	require.Len(t, enum.Entries, 3)
	assert.Equal(t, uint64(0), enum.Entries[0].Value)
	assert.Equal(t, uint64(1), enum.Entries[1].Value)
	assert.Equal(t, uint64(2), enum.Entries[2].Value)
	assert.Equal(t, uint8(2), enum.Size)
}

func TestElaborateEnumImplicitAfterExplicit(t *testing.T) {
	e := &builder.Enum{Name: "state"}
	e.AddEntryWithValue("a", 5)
	e.AddEntry("b") // previous + 1

	enum := elaborateEnum(e)
	assert.Equal(t, uint64(5), enum.Entries[0].Value)
	assert.Equal(t, uint64(6), enum.Entries[1].Value)
	assert.Equal(t, uint8(3), enum.Size)
}

func TestElaborateEnumWidth(t *testing.T) {
	// Width is ceil(log2(max+1)) with a floor of one bit.
	cases := []struct {
		max   uint64
		width uint8
	}{
		{0, 1},
		{1, 1},
		{2, 2},
		{3, 2},
		{4, 3},
		{5, 3},
		{255, 8},
		{256, 9},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.width, enumBitWidth(tc.max), "max=%d", tc.max)
	}
}

func TestElaborateEnumSingleZeroEntry(t *testing.T) {
	e := &builder.Enum{Name: "unit"}
	e.AddEntry("only")

	enum := elaborateEnum(e)
	assert.Equal(t, uint8(1), enum.Size)
}

func TestElaborateStructSharesNamedTypes(t *testing.T) {
	nw := &builder.Network{}
	mode := nw.DefineEnum("mode")
	mode.AddEntry("off")
	mode.AddEntry("on")

	s := nw.DefineStruct("status")
	s.AddAttribute("left", "mode")
	s.AddAttribute("right", "mode")

	ordered, err := orderTypeDecls(nw.Types)
	require.NoError(t, err)
	types, err := elaborateTypes(ordered)
	require.NoError(t, err)

	var st *ir.StructType
	for _, ty := range types {
		if s, ok := ty.(*ir.StructType); ok {
			st = s
		}
	}
	require.NotNil(t, st)
	// Both attributes reference the same elaborated enum by pointer.
	assert.Same(t, st.Attributes[0].Type, st.Attributes[1].Type)
}

func TestElaborateTypesOrderedContext(t *testing.T) {
	nw := &builder.Network{}
	outer := nw.DefineStruct("outer")
	outer.AddAttribute("pair", "inner[2]")
	inner := nw.DefineStruct("inner")
	inner.AddAttribute("raw", "u4")

	ordered, err := orderTypeDecls(nw.Types)
	require.NoError(t, err)
	types, err := elaborateTypes(ordered)
	require.NoError(t, err)
	require.Len(t, types, 2)

	// inner elaborates first and outer's array element is the same pointer.
	innerTy := types[0].(*ir.StructType)
	outerTy := types[1].(*ir.StructType)
	arr := outerTy.Attributes[0].Type.(*ir.ArrayType)
	assert.Same(t, ir.Type(innerTy), arr.Elem)
	assert.Equal(t, 8, ir.BitSize(outerTy))
}
