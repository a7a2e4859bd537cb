package persist

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// envelope is a snapshot with its slices left raw, so migrations can repair
// one slice without touching the others.
type envelope struct {
	Version    int             `json:"version"`
	Auth       json.RawMessage `json:"auth"`
	Users      json.RawMessage `json:"users"`
	Categories json.RawMessage `json:"categories"`
	Products   json.RawMessage `json:"products"`
}

// migrations maps a stored version to the pure function that lifts an
// envelope to the next version. Applied in sequence until CurrentVersion.
// A migration returning an error causes the whole snapshot to be discarded.
var migrations = map[int]func(*envelope) error{
	1: migrateV1ProductsShape,
}

// migrate lifts env from its stored version to CurrentVersion. A missing
// version field means the legacy version 1 layout.
func migrate(env *envelope) error {
	if env.Version == 0 {
		env.Version = 1
	}
	if env.Version > CurrentVersion {
		return fmt.Errorf("snapshot version %d is newer than supported version %d", env.Version, CurrentVersion)
	}
	for env.Version < CurrentVersion {
		step, ok := migrations[env.Version]
		if !ok {
			return fmt.Errorf("no migration from snapshot version %d", env.Version)
		}
		if err := step(env); err != nil {
			return fmt.Errorf("migrating snapshot from version %d: %w", env.Version, err)
		}
		env.Version++
	}
	return nil
}

// migrateV1ProductsShape resets the products slice to empty when the stored
// value is not the expected ordered sequence. Other slices are kept as-is:
// one stale slice must not cost the rest of the snapshot.
func migrateV1ProductsShape(env *envelope) error {
	var state struct {
		Products json.RawMessage `json:"products"`
	}
	if len(env.Products) == 0 || json.Unmarshal(env.Products, &state) != nil || !looksLikeArray(state.Products) {
		env.Products = json.RawMessage(`{"products":[]}`)
	}
	return nil
}

// looksLikeArray reports whether raw is a JSON array.
func looksLikeArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}
