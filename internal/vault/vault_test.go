package vault

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutGetRoundTrip(t *testing.T) {
	v := NewTestVault(t)
	ctx := context.Background()

	require.NoError(t, v.Put(ctx, "root", []byte(`{"hello":"world"}`)))

	got, err := v.Get(ctx, "root")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"hello":"world"}`), got)
}

func TestGetMissingKey(t *testing.T) {
	v := NewTestVault(t)

	_, err := v.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPutReplaces(t *testing.T) {
	v := NewTestVault(t)
	ctx := context.Background()

	require.NoError(t, v.Put(ctx, "root", []byte("first")))
	require.NoError(t, v.Put(ctx, "root", []byte("second")))

	got, err := v.Get(ctx, "root")
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), got)
}

func TestDelete(t *testing.T) {
	v := NewTestVault(t)
	ctx := context.Background()

	require.NoError(t, v.Put(ctx, "root", []byte("data")))
	require.NoError(t, v.Delete(ctx, "root"))

	_, err := v.Get(ctx, "root")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting a missing key is not an error.
	assert.NoError(t, v.Delete(ctx, "root"))
}

func TestValuesAreSealedAtRest(t *testing.T) {
	v := NewTestVault(t)
	ctx := context.Background()

	plaintext := []byte("sensitive inventory data")
	require.NoError(t, v.Put(ctx, "root", plaintext))

	var stored []byte
	err := v.db.QueryRow(`SELECT value FROM vault WHERE key = 'root'`).Scan(&stored)
	require.NoError(t, err)
	assert.NotContains(t, string(stored), "sensitive")
}

func TestWrongPassphrase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.vault")
	ctx := context.Background()

	v, err := Open(path, "correct horse")
	require.NoError(t, err)
	require.NoError(t, v.Put(ctx, "root", []byte("data")))
	require.NoError(t, v.Close())

	reopened, err := Open(path, "wrong horse")
	require.NoError(t, err, "a wrong passphrase is not detected at open time")
	defer reopened.Close()

	_, err = reopened.Get(ctx, "root")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestReopenSamePassphrase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.vault")
	ctx := context.Background()

	v, err := Open(path, "correct horse")
	require.NoError(t, err)
	require.NoError(t, v.Put(ctx, "root", []byte("data")))
	require.NoError(t, v.Close())

	reopened, err := Open(path, "correct horse")
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(ctx, "root")
	require.NoError(t, err)
	assert.Equal(t, []byte("data"), got)
}

func TestSecret(t *testing.T) {
	v := NewTestVault(t)
	ctx := context.Background()

	first, err := v.Secret(ctx, "session_token")
	require.NoError(t, err)
	assert.Len(t, first, 64)

	again, err := v.Secret(ctx, "session_token")
	require.NoError(t, err)
	assert.Equal(t, first, again, "secret must be stable across calls")

	other, err := v.Secret(ctx, "other")
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
}
