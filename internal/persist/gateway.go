package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/erazemk/zaloga/internal/model"
	"github.com/erazemk/zaloga/internal/vault"
)

// rootKey is the fixed vault key the whole snapshot is stored under.
const rootKey = "root"

// Gateway persists snapshots to the encrypted vault. Saves triggered by
// mutations are fire-and-forget: failures are logged, never surfaced.
type Gateway struct {
	vault *vault.Vault
	log   *zap.Logger
	wg    sync.WaitGroup

	// mu orders background writes; seq is assigned when a save is
	// scheduled so a stale snapshot can never overwrite a newer one.
	mu      sync.Mutex
	seq     uint64
	written uint64
}

// NewGateway returns a gateway writing through the given vault.
func NewGateway(v *vault.Vault, log *zap.Logger) *Gateway {
	return &Gateway{vault: v, log: log}
}

// Save serializes the snapshot and writes it to the vault.
func (g *Gateway) Save(ctx context.Context, snap Snapshot) error {
	snap.Version = CurrentVersion
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := g.vault.Put(ctx, rootKey, data); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}

// SaveAsync writes the snapshot in the background. The caller never waits
// and never sees an error; a crash before the write lands loses exactly
// the mutations since the last successful save.
func (g *Gateway) SaveAsync(snap Snapshot) {
	g.mu.Lock()
	g.seq++
	seq := g.seq
	g.mu.Unlock()

	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		g.mu.Lock()
		defer g.mu.Unlock()
		if seq <= g.written {
			// A snapshot scheduled after this one already landed.
			return
		}
		if err := g.Save(context.Background(), snap); err != nil {
			g.log.Warn("snapshot save failed", zap.Error(err))
			return
		}
		g.written = seq
	}()
}

// Flush waits for in-flight background saves to finish.
func (g *Gateway) Flush() {
	g.wg.Wait()
}

// Load reads, migrates and decodes the stored snapshot. Any failure mode
// short of a missing snapshot is logged and answered with an empty
// snapshot; the data layer never refuses to start.
func (g *Gateway) Load(ctx context.Context) Snapshot {
	data, err := g.vault.Get(ctx, rootKey)
	if errors.Is(err, vault.ErrNotFound) {
		return Empty()
	}
	if err != nil {
		g.log.Error("reading snapshot, starting empty", zap.Error(err))
		return Empty()
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		g.log.Error("snapshot is not valid JSON, starting empty", zap.Error(err))
		return Empty()
	}
	if err := migrate(&env); err != nil {
		g.log.Error("snapshot migration failed, starting empty", zap.Error(err))
		return Empty()
	}

	snap := Empty()
	if err := decodeEnvelope(env, &snap); err != nil {
		g.log.Error("decoding migrated snapshot, starting empty", zap.Error(err))
		return Empty()
	}
	return snap
}

func decodeEnvelope(env envelope, snap *Snapshot) error {
	snap.Version = env.Version
	for _, part := range []struct {
		raw  json.RawMessage
		dest any
	}{
		{env.Auth, &snap.Auth},
		{env.Users, &snap.Users},
		{env.Categories, &snap.Categories},
		{env.Products, &snap.Products},
	} {
		if len(part.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(part.raw, part.dest); err != nil {
			return err
		}
	}
	if snap.Users.Entities == nil {
		snap.Users.Entities = map[string]*model.User{}
	}
	return nil
}
