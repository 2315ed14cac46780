package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/canforge/canforge/internal/ir"
)

// ErrNotFound is returned when no snapshot matches the requested build id.
var ErrNotFound = errors.New("snapshot not found")

// SnapshotInfo is a stored snapshot's metadata row.
type SnapshotInfo struct {
	BuildID      string `json:"build_id"`
	Fingerprint  string `json:"fingerprint"`
	ModelVersion string `json:"model_version"`
	CompiledAt   string `json:"compiled_at"`
}

// GetSnapshot loads a stored snapshot by build id.
func (s *Store) GetSnapshot(buildID string) (ir.NetworkSnapshot, error) {
	var body string
	err := s.db.QueryRow(
		`SELECT snapshot FROM snapshots WHERE build_id = ?`, buildID,
	).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return ir.NetworkSnapshot{}, fmt.Errorf("build %s: %w", buildID, ErrNotFound)
	}
	if err != nil {
		return ir.NetworkSnapshot{}, fmt.Errorf("query snapshot %s: %w", buildID, err)
	}

	var snap ir.NetworkSnapshot
	if err := json.Unmarshal([]byte(body), &snap); err != nil {
		return ir.NetworkSnapshot{}, fmt.Errorf("unmarshal snapshot %s: %w", buildID, err)
	}
	return snap, nil
}

// ListSnapshots returns stored snapshot metadata, most recent first.
func (s *Store) ListSnapshots() ([]SnapshotInfo, error) {
	rows, err := s.db.Query(
		`SELECT build_id, fingerprint, model_version, compiled_at
		 FROM snapshots ORDER BY compiled_at DESC, build_id`)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var infos []SnapshotInfo
	for rows.Next() {
		var info SnapshotInfo
		if err := rows.Scan(&info.BuildID, &info.Fingerprint, &info.ModelVersion, &info.CompiledAt); err != nil {
			return nil, fmt.Errorf("scan snapshot row: %w", err)
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}
