package ir

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// DomainNetwork is the domain prefix for network fingerprints. The version
// suffix enables future algorithm migration.
const DomainNetwork = "canforge/network/v1"

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data). The null byte prevents domain/data
// boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint computes the content-addressed identity of a compiled
// network. It is stable across builds of the same declarations; build id
// and timestamp do not contribute.
func (n *Network) Fingerprint() (string, error) {
	snap, err := n.Snapshot()
	if err != nil {
		return "", err
	}
	return snap.Fingerprint, nil
}

// fingerprintSnapshot hashes the deterministic content of a snapshot.
// BuildID, CompiledAt and Fingerprint must be unset on the argument.
func fingerprintSnapshot(snap NetworkSnapshot) (string, error) {
	tree, err := snapshotAsTree(snap)
	if err != nil {
		return "", err
	}
	canonical, err := MarshalCanonical(tree)
	if err != nil {
		return "", fmt.Errorf("fingerprint: %w", err)
	}
	return hashWithDomain(DomainNetwork, canonical), nil
}

// snapshotAsTree round-trips the snapshot through encoding/json into the
// generic tree MarshalCanonical consumes. All numeric fields in a snapshot
// are integers (decimal bounds are strings), so json.Number never carries a
// fraction here.
func snapshotAsTree(snap NetworkSnapshot) (map[string]any, error) {
	raw, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("fingerprint: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var tree map[string]any
	if err := dec.Decode(&tree); err != nil {
		return nil, fmt.Errorf("fingerprint: %w", err)
	}
	converted, err := convertNumbers(tree)
	if err != nil {
		return nil, err
	}
	return converted.(map[string]any), nil
}

func convertNumbers(v any) (any, error) {
	switch val := v.(type) {
	case json.Number:
		i, err := val.Int64()
		if err != nil {
			return nil, fmt.Errorf("fingerprint: non-integer number %q in snapshot", val)
		}
		return i, nil
	case []any:
		for i, elem := range val {
			converted, err := convertNumbers(elem)
			if err != nil {
				return nil, err
			}
			val[i] = converted
		}
		return val, nil
	case map[string]any:
		for k, elem := range val {
			converted, err := convertNumbers(elem)
			if err != nil {
				return nil, err
			}
			val[k] = converted
		}
		return val, nil
	default:
		return v, nil
	}
}
