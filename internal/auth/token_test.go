package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMintAndValidateToken(t *testing.T) {
	token, err := MintToken("secret", "u1", "Alice_1")
	require.NoError(t, err)

	claims, err := ValidateToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "Alice_1", claims.Username)
	assert.NotEmpty(t, claims.ID, "expected a JTI")
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := MintToken("secret", "u1", "Alice_1")
	require.NoError(t, err)

	_, err = ValidateToken("other-secret", token)
	assert.Error(t, err)
}

func TestValidateTokenGarbage(t *testing.T) {
	_, err := ValidateToken("secret", "not-a-token")
	assert.Error(t, err)
}

func TestValidateTokenExpired(t *testing.T) {
	claims := Claims{
		UserID:   "u1",
		Username: "Alice_1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = ValidateToken("secret", expired)
	assert.Error(t, err)
}

func TestUniqueJTIs(t *testing.T) {
	a, err := MintToken("secret", "u1", "Alice_1")
	require.NoError(t, err)
	b, err := MintToken("secret", "u1", "Alice_1")
	require.NoError(t, err)

	ca, err := ValidateToken("secret", a)
	require.NoError(t, err)
	cb, err := ValidateToken("secret", b)
	require.NoError(t, err)
	assert.NotEqual(t, ca.ID, cb.ID)
}
