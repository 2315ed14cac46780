package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canforge/canforge/internal/ir"
)

func TestNewDeclaresProtocol(t *testing.T) {
	nw := New()

	// Four protocol messages, all hidden.
	require.NotNil(t, nw.GetReq)
	require.NotNil(t, nw.GetResp)
	require.NotNil(t, nw.SetReq)
	require.NotNil(t, nw.SetResp)
	assert.Len(t, nw.Messages, 4)
	for _, m := range nw.Messages {
		assert.Equal(t, ir.VisibilityHidden, m.Visibility)
	}

	// Header structs, status enums and the command erno.
	names := make(map[string]bool)
	for _, decl := range nw.Types {
		names[decl.DeclName()] = true
	}
	for _, want := range []string{
		"get_req_header", "get_resp_header", "set_req_header", "set_resp_header",
		"get_resp_erno", "set_resp_erno", "command_resp_erno",
	} {
		assert.True(t, names[want], "missing builtin type %s", want)
	}
}

func TestCreateBusSequentialIDs(t *testing.T) {
	nw := New()
	a := nw.CreateBus("can0")
	b := nw.CreateBus("can1")
	assert.Equal(t, uint32(0), a.ID)
	assert.Equal(t, uint32(1), b.ID)
	assert.Equal(t, uint32(DefaultBaudrate), a.Baudrate)
}

func TestCreateNodeIdempotent(t *testing.T) {
	nw := New()
	first := nw.CreateNode("motor")
	second := nw.CreateNode("motor")
	assert.Same(t, first, second)
	assert.Len(t, nw.Nodes, 1)
}

func TestCreateMessageDefaultTemplate(t *testing.T) {
	nw := New()
	m := nw.CreateMessage("status")
	assert.Equal(t, IDAny, m.ID.Kind)
	assert.False(t, m.ID.Fixed())

	m.SetStdID(0x42)
	assert.True(t, m.ID.Fixed())
	assert.Equal(t, uint32(0x42), m.ID.Raw)

	m.SetAnyExtID()
	assert.False(t, m.ID.Fixed())
	assert.Equal(t, IDAnyExt, m.ID.Kind)
}

func TestEnumEntryDeclarations(t *testing.T) {
	e := &Enum{Name: "state"}
	e.AddEntry("implicit")
	e.AddEntryWithValue("explicit", 7)

	require.Len(t, e.Entries, 2)
	assert.Nil(t, e.Entries[0].Value)
	require.NotNil(t, e.Entries[1].Value)
	assert.Equal(t, uint64(7), *e.Entries[1].Value)
}
