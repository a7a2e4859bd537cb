// Package vault is an encrypted key-value store backed by a local SQLite
// file, standing in for the device's encrypted storage. Values are sealed
// with XChaCha20-Poly1305 under a key derived from the passphrase.
package vault

import (
	"context"
	"crypto/cipher"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned by Get for keys that have never been stored.
var ErrNotFound = errors.New("vault: key not found")

// Argon2id parameters for deriving the sealing key.
const (
	argonTime    uint32 = 3
	argonMemory  uint32 = 64 * 1024
	argonThreads uint8  = 1
	keyLen       uint32 = 32
	saltLen             = 16
)

const schema = `
CREATE TABLE IF NOT EXISTS vault (
    key   TEXT PRIMARY KEY,
    value BLOB NOT NULL
);

CREATE TABLE IF NOT EXISTS meta (
    key   TEXT PRIMARY KEY,
    value BLOB NOT NULL
);
`

// Vault wraps the SQLite handle and the AEAD derived from the passphrase.
type Vault struct {
	db   *sql.DB
	aead cipher.AEAD
}

// Open opens (creating if needed) the vault file and derives the sealing
// key from the passphrase. A wrong passphrase is not detected here; it
// surfaces as a decryption error on the first Get.
func Open(path, passphrase string) (*Vault, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening vault: %w", err)
	}
	// A single connection keeps in-memory vaults coherent and avoids
	// writer contention on file-backed ones.
	db.SetMaxOpenConns(1)

	// Set pragmas for performance and correctness.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", p, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating vault schema: %w", err)
	}

	salt, err := kdfSalt(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	key := argon2.IDKey([]byte(passphrase), salt, argonTime, argonMemory, argonThreads, keyLen)
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing cipher: %w", err)
	}

	return &Vault{db: db, aead: aead}, nil
}

// Close closes the backing database.
func (v *Vault) Close() error {
	return v.db.Close()
}

// Put seals the value and stores it under key, replacing any previous value.
func (v *Vault) Put(ctx context.Context, key string, value []byte) error {
	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := rand.Read(nonce); err != nil {
		return fmt.Errorf("generating nonce: %w", err)
	}
	sealed := append(nonce, v.aead.Seal(nil, nonce, value, []byte(key))...)

	_, err := v.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO vault (key, value) VALUES (?, ?)`,
		key, sealed,
	)
	if err != nil {
		return fmt.Errorf("storing %q: %w", key, err)
	}
	return nil
}

// Get retrieves and opens the value stored under key.
func (v *Vault) Get(ctx context.Context, key string) ([]byte, error) {
	var sealed []byte
	err := v.db.QueryRowContext(ctx,
		`SELECT value FROM vault WHERE key = ?`, key,
	).Scan(&sealed)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", key, err)
	}

	if len(sealed) < chacha20poly1305.NonceSizeX {
		return nil, fmt.Errorf("opening %q: sealed value too short", key)
	}
	nonce, ct := sealed[:chacha20poly1305.NonceSizeX], sealed[chacha20poly1305.NonceSizeX:]
	value, err := v.aead.Open(nil, nonce, ct, []byte(key))
	if err != nil {
		return nil, fmt.Errorf("opening %q: %w", key, err)
	}
	return value, nil
}

// Delete removes the value stored under key. Missing keys are not an error.
func (v *Vault) Delete(ctx context.Context, key string) error {
	if _, err := v.db.ExecContext(ctx, `DELETE FROM vault WHERE key = ?`, key); err != nil {
		return fmt.Errorf("deleting %q: %w", key, err)
	}
	return nil
}

// Secret returns the named random secret, generating and storing it on
// first use. Used for the session token signing key.
func (v *Vault) Secret(ctx context.Context, name string) (string, error) {
	key := "secret/" + name
	if existing, err := v.Get(ctx, key); err == nil {
		return string(existing), nil
	} else if !errors.Is(err, ErrNotFound) {
		return "", err
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating secret %q: %w", name, err)
	}
	secret := hex.EncodeToString(buf)
	if err := v.Put(ctx, key, []byte(secret)); err != nil {
		return "", err
	}
	return secret, nil
}

// kdfSalt returns the vault's key-derivation salt, generating it on first
// open. Uses INSERT OR IGNORE + re-SELECT so a concurrent first open still
// converges on a single salt.
func kdfSalt(db *sql.DB) ([]byte, error) {
	candidate := make([]byte, saltLen)
	if _, err := rand.Read(candidate); err != nil {
		return nil, fmt.Errorf("generating salt: %w", err)
	}

	_, err := db.Exec(
		`INSERT OR IGNORE INTO meta (key, value) VALUES ('kdf_salt', ?)`,
		candidate,
	)
	if err != nil {
		return nil, fmt.Errorf("storing salt: %w", err)
	}

	var salt []byte
	err = db.QueryRow(`SELECT value FROM meta WHERE key = 'kdf_salt'`).Scan(&salt)
	if err != nil {
		return nil, fmt.Errorf("querying salt: %w", err)
	}
	return salt, nil
}
