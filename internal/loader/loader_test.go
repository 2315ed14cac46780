package loader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canforge/canforge/internal/builder"
	"github.com/canforge/canforge/internal/compiler"
)

const demoYAML = `
baudrate: 500000
buses:
  - name: can0
types:
  - enum:
      name: motor_state
      entries:
        - name: idle
        - name: running
        - name: fault
          value: 10
  - struct:
      name: motor_status
      attributes:
        - name: state
          type: motor_state
        - name: rpm
          type: u16
messages:
  - name: status
    id: 0x100
    fields:
      - name: report
        type: motor_status
  - name: heartbeat
    interval: 100ms
    signals:
      - name: alive
        type: u1
  - name: reset_req
  - name: reset_resp
  - name: telemetry
    id_space: ext
nodes:
  - name: motor
    buses: [can0]
    tx: [status, heartbeat, telemetry, reset_resp]
    rx: [reset_req]
    object_entries:
      - name: rpm
        type: u16
        access: read
      - name: temperature
        type: d8<0..120>
        unit: C
        access: read
    commands:
      - name: reset
        request: reset_req
        response: reset_resp
    tx_streams:
      - name: telemetry
        message: telemetry
        entries: [rpm, temperature]
  - name: controller
    buses: [can0]
    tx: [reset_req]
    rx: [status, telemetry, reset_resp]
    object_entries:
      - name: motor_rpm
        type: u16
        access: write
    extern_commands: [reset]
    rx_streams:
      - node: motor
        stream: telemetry
        map:
          0: motor_rpm
`

func TestParseDemoDocument(t *testing.T) {
	nw, err := Parse([]byte(demoYAML))
	require.NoError(t, err)

	assert.Equal(t, uint32(500_000), nw.Baudrate)
	require.Len(t, nw.Buses, 1)

	// The builtin protocol adds its own types and messages on top of the
	// declared ones.
	assert.Len(t, nw.Nodes, 2)

	network, err := compiler.Compile(nw)
	require.NoError(t, err)

	status := network.MessageByName("status")
	require.NotNil(t, status)
	assert.Equal(t, uint32(0x100), status.ID.Raw)
	assert.False(t, status.ID.Extended)

	heartbeat := network.MessageByName("heartbeat")
	usage := heartbeat.Usage()
	require.NotNil(t, usage)
	assert.Equal(t, "external", usage.UsageKind())

	telemetry := network.MessageByName("telemetry")
	assert.True(t, telemetry.ID.Extended)

	ctrl := network.NodeByName("controller")
	require.Len(t, ctrl.ExternCommands, 1)
	assert.Equal(t, "motor", ctrl.ExternCommands[0].Owner)
	require.Len(t, ctrl.RxStreams, 1)
	require.Len(t, ctrl.RxStreams[0].Mapping, 2)
	assert.Equal(t, "motor_rpm", ctrl.RxStreams[0].Mapping[0].Name)
	assert.Nil(t, ctrl.RxStreams[0].Mapping[1])
}

func TestParseInterval(t *testing.T) {
	nw, err := Parse([]byte(demoYAML))
	require.NoError(t, err)

	var heartbeat *builder.Message
	for _, m := range nw.Messages {
		if m.Name == "heartbeat" {
			heartbeat = m
		}
	}
	require.NotNil(t, heartbeat)
	assert.Equal(t, 100*time.Millisecond, heartbeat.Interval)
}

func TestParseMalformedYAML(t *testing.T) {
	_, err := Parse([]byte("buses: [unclosed"))
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, ErrParse, loadErr.Code)
}

func TestParseUnknownBusReference(t *testing.T) {
	_, err := Parse([]byte(`
messages:
  - name: status
    bus: can9
`))
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, ErrReference, loadErr.Code)
	assert.Contains(t, loadErr.Message, "can9")
}

func TestParseUnknownIDSpace(t *testing.T) {
	_, err := Parse([]byte(`
messages:
  - name: status
    id_space: weird
`))
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, ErrValue, loadErr.Code)
}

func TestParseBadInterval(t *testing.T) {
	_, err := Parse([]byte(`
messages:
  - name: status
    interval: fast
`))
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, ErrValue, loadErr.Code)
}

func TestParseFieldsAndSignalsExclusive(t *testing.T) {
	_, err := Parse([]byte(`
messages:
  - name: status
    fields:
      - name: a
        type: u8
    signals:
      - name: b
        type: u8
`))
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, ErrValue, loadErr.Code)
}

func TestParseSignalRejectsNamedType(t *testing.T) {
	_, err := Parse([]byte(`
types:
  - enum:
      name: mode
      entries:
        - name: "off"
messages:
  - name: status
    signals:
      - name: mode
        type: mode
`))
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, ErrValue, loadErr.Code)
}

func TestParseTypeEntryShape(t *testing.T) {
	_, err := Parse([]byte("types:\n  - {}\n"))
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, ErrValue, loadErr.Code)
}

func TestParseUnknownExternCommand(t *testing.T) {
	_, err := Parse([]byte(`
nodes:
  - name: controller
    extern_commands: [reset]
`))
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, ErrReference, loadErr.Code)
}

func TestParseRxStreamBeforePublisherDeclared(t *testing.T) {
	// The subscriber appears first in the document; the second pass still
	// resolves the publisher's stream.
	nw, err := Parse([]byte(`
messages:
  - name: telemetry
nodes:
  - name: controller
    object_entries:
      - name: mirror
        type: u8
        access: write
    rx_streams:
      - node: motor
        stream: telemetry
        map:
          0: mirror
  - name: motor
    object_entries:
      - name: value
        type: u8
        access: read
    tx_streams:
      - name: telemetry
        message: telemetry
        entries: [value]
`))
	require.NoError(t, err)

	network, err := compiler.Compile(nw)
	require.NoError(t, err)
	ctrl := network.NodeByName("controller")
	require.Len(t, ctrl.RxStreams, 1)
	assert.Equal(t, "mirror", ctrl.RxStreams[0].Mapping[0].Name)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, ErrParse, loadErr.Code)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "network.yaml")
	require.NoError(t, os.WriteFile(path, []byte(demoYAML), 0644))

	nw, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, nw.Nodes, 2)
}
