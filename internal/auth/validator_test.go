package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestKeys(t *testing.T) (*rsa.PrivateKey, *Validator) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key, NewValidator(&key.PublicKey)
}

func signToken(t *testing.T, key *rsa.PrivateKey, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestValidate_ValidToken(t *testing.T) {
	key, v := newTestKeys(t)
	token := signToken(t, key, jwt.MapClaims{
		"user_id": "U1",
		"email":   "alice@example.com",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	claims, err := v.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "U1", claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
}

func TestValidate_SubFallback(t *testing.T) {
	key, v := newTestKeys(t)
	token := signToken(t, key, jwt.MapClaims{
		"sub":   "U2",
		"email": "bob@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	claims, err := v.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "U2", claims.UserID)
}

func TestValidate_Rejections(t *testing.T) {
	key, v := newTestKeys(t)
	otherKey, _ := newTestKeys(t)

	expired := signToken(t, key, jwt.MapClaims{
		"user_id": "U1",
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})
	wrongKey := signToken(t, otherKey, jwt.MapClaims{
		"user_id": "U1",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	noIdentity := signToken(t, key, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	hmac, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "U1",
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not.a.token"},
		{"expired", expired},
		{"wrong key", wrongKey},
		{"wrong algorithm", hmac},
		{"no identity claim", noIdentity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Validate(tt.token)
			assert.Error(t, err)
		})
	}
}
