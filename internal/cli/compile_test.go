package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canforge/canforge/internal/ir"
)

const testNetworkYAML = `
types:
  - enum:
      name: mode
      entries:
        - name: idle
        - name: active
messages:
  - name: status
    id: 0x100
    fields:
      - name: mode
        type: mode
  - name: heartbeat
    signals:
      - name: alive
        type: u1
nodes:
  - name: motor
    tx: [status, heartbeat]
`

const invalidNetworkYAML = `
messages:
  - name: status
    id: 0x42
  - name: other
    id: 0x42
`

func writeNetworkFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "network.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func executeCommand(args ...string) (string, error) {
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCompileTextOutput(t *testing.T) {
	path := writeNetworkFile(t, testNetworkYAML)

	out, err := executeCommand("compile", path)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Compiled")
	assert.Contains(t, out, "Fingerprint:")
	assert.Contains(t, out, "motor")
	assert.Contains(t, out, "0x100")
}

func TestCompileJSONOutput(t *testing.T) {
	path := writeNetworkFile(t, testNetworkYAML)

	out, err := executeCommand("--format", "json", "compile", path)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var snap ir.NetworkSnapshot
	require.NoError(t, json.Unmarshal(data, &snap))
	assert.Equal(t, ir.ModelVersion, snap.ModelVersion)
	assert.NotEmpty(t, snap.Fingerprint)
	assert.NotEmpty(t, snap.BuildID)
}

func TestCompileFingerprintOnly(t *testing.T) {
	path := writeNetworkFile(t, testNetworkYAML)

	first, err := executeCommand("compile", "--fingerprint-only", path)
	require.NoError(t, err)
	second, err := executeCommand("compile", "--fingerprint-only", path)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Len(t, bytes.TrimSpace([]byte(first)), 64)
}

func TestCompileWritesOutputFile(t *testing.T) {
	path := writeNetworkFile(t, testNetworkYAML)
	outPath := filepath.Join(t.TempDir(), "snapshot.json")

	_, err := executeCommand("compile", "-o", outPath, path)
	require.NoError(t, err)

	raw, err := os.ReadFile(outPath)
	require.NoError(t, err)
	var snap ir.NetworkSnapshot
	require.NoError(t, json.Unmarshal(raw, &snap))
	assert.NotEmpty(t, snap.Fingerprint)
}

func TestCompileSavesToStore(t *testing.T) {
	path := writeNetworkFile(t, testNetworkYAML)
	dbPath := filepath.Join(t.TempDir(), "canforge.db")

	_, err := executeCommand("compile", "--db", dbPath, path)
	require.NoError(t, err)

	out, err := executeCommand("--format", "json", "snapshots", "--db", dbPath, "list")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	rows, ok := resp.Data.([]any)
	require.True(t, ok)
	assert.Len(t, rows, 1)
}

func TestCompileMissingFile(t *testing.T) {
	out, err := executeCommand("compile", filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error")
}

func TestCompileInvalidNetwork(t *testing.T) {
	path := writeNetworkFile(t, invalidNetworkYAML)

	out, err := executeCommand("compile", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "DUPLICATE_ID")
}

func TestValidateValidNetwork(t *testing.T) {
	path := writeNetworkFile(t, testNetworkYAML)

	out, err := executeCommand("validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Valid")
}

func TestValidateJSONOutput(t *testing.T) {
	path := writeNetworkFile(t, testNetworkYAML)

	out, err := executeCommand("--format", "json", "validate", path)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestValidateInvalidNetwork(t *testing.T) {
	path := writeNetworkFile(t, invalidNetworkYAML)

	_, err := executeCommand("validate", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestSnapshotsMissingDatabase(t *testing.T) {
	out, err := executeCommand("snapshots", "--db", filepath.Join(t.TempDir(), "absent.db"), "list")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "DB_NOT_FOUND")
}

func TestSnapshotsShow(t *testing.T) {
	path := writeNetworkFile(t, testNetworkYAML)
	dbPath := filepath.Join(t.TempDir(), "canforge.db")

	_, err := executeCommand("compile", "--db", dbPath, path)
	require.NoError(t, err)

	out, err := executeCommand("--format", "json", "snapshots", "--db", dbPath, "list")
	require.NoError(t, err)
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	rows := resp.Data.([]any)
	require.Len(t, rows, 1)
	buildID := rows[0].(map[string]any)["build_id"].(string)

	out, err = executeCommand("snapshots", "--db", dbPath, "show", buildID)
	require.NoError(t, err)
	assert.Contains(t, out, buildID)
	assert.Contains(t, out, "Fingerprint:")
}

func TestSnapshotsShowNotFound(t *testing.T) {
	path := writeNetworkFile(t, testNetworkYAML)
	dbPath := filepath.Join(t.TempDir(), "canforge.db")
	_, err := executeCommand("compile", "--db", dbPath, path)
	require.NoError(t, err)

	out, err := executeCommand("snapshots", "--db", dbPath, "show", "no-such-build")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "NOT_FOUND")
}
