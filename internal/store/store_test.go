package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canforge/canforge/internal/compiler"
	"github.com/canforge/canforge/internal/ir"
	"github.com/canforge/canforge/internal/testutil"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func demoSnapshot(t *testing.T) ir.NetworkSnapshot {
	t.Helper()
	network, err := compiler.Compile(testutil.DemoNetwork())
	require.NoError(t, err)
	snap, err := network.Snapshot()
	require.NoError(t, err)
	return snap
}

func TestOpenIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	first, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, second.Close())
}

func TestSaveAndGetSnapshot(t *testing.T) {
	s := openTestStore(t)
	snap := demoSnapshot(t)

	require.NoError(t, s.SaveSnapshot(snap))

	loaded, err := s.GetSnapshot(snap.BuildID)
	require.NoError(t, err)
	assert.Equal(t, snap.Fingerprint, loaded.Fingerprint)
	assert.Equal(t, snap.CompiledAt, loaded.CompiledAt)
	assert.Equal(t, len(snap.Messages), len(loaded.Messages))
	assert.Equal(t, snap.Protocol, loaded.Protocol)
}

func TestSaveSnapshotRequiresBuildID(t *testing.T) {
	s := openTestStore(t)
	err := s.SaveSnapshot(ir.NetworkSnapshot{ModelVersion: ir.ModelVersion})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no build id")
}

func TestSaveSnapshotImmutable(t *testing.T) {
	s := openTestStore(t)
	snap := demoSnapshot(t)

	require.NoError(t, s.SaveSnapshot(snap))
	err := s.SaveSnapshot(snap)
	require.Error(t, err)
}

func TestGetSnapshotNotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.GetSnapshot("no-such-build")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListSnapshots(t *testing.T) {
	s := openTestStore(t)

	infos, err := s.ListSnapshots()
	require.NoError(t, err)
	assert.Empty(t, infos)

	first := demoSnapshot(t)
	second := demoSnapshot(t)
	require.NoError(t, s.SaveSnapshot(first))
	require.NoError(t, s.SaveSnapshot(second))

	infos, err = s.ListSnapshots()
	require.NoError(t, err)
	require.Len(t, infos, 2)

	ids := []string{infos[0].BuildID, infos[1].BuildID}
	assert.Contains(t, ids, first.BuildID)
	assert.Contains(t, ids, second.BuildID)
	// Same declarations, same fingerprint.
	assert.Equal(t, infos[0].Fingerprint, infos[1].Fingerprint)
}
