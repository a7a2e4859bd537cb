package vault

import "testing"

// NewTestVault creates a fresh in-memory vault with a fixed passphrase.
func NewTestVault(t *testing.T) *Vault {
	t.Helper()

	v, err := Open(":memory:", "test-passphrase")
	if err != nil {
		t.Fatalf("opening test vault: %v", err)
	}

	t.Cleanup(func() { v.Close() })

	return v
}
