package store

import (
	"encoding/json"
	"fmt"

	"github.com/canforge/canforge/internal/ir"
)

// SaveSnapshot persists a compiled-network snapshot keyed by its build id.
// Saving the same build id twice is an error: snapshots are immutable.
func (s *Store) SaveSnapshot(snap ir.NetworkSnapshot) error {
	if snap.BuildID == "" {
		return fmt.Errorf("snapshot has no build id")
	}
	body, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO snapshots (build_id, fingerprint, model_version, compiled_at, snapshot)
		 VALUES (?, ?, ?, ?, ?)`,
		snap.BuildID, snap.Fingerprint, snap.ModelVersion, snap.CompiledAt, string(body),
	)
	if err != nil {
		return fmt.Errorf("insert snapshot %s: %w", snap.BuildID, err)
	}
	return nil
}
