package security_test

import (
	"testing"
	"time"

	"github.com/Rrens/campus-console/internal/security"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspectToken(t *testing.T) {
	exp := time.Now().Add(30 * time.Minute).Truncate(time.Second)
	claims := jwt.RegisteredClaims{
		Subject:   "admin",
		Issuer:    "campus-api",
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-secret"))
	require.NoError(t, err)

	info, err := security.InspectToken(signed)
	require.NoError(t, err)

	assert.Equal(t, "admin", info.Subject)
	assert.Equal(t, "campus-api", info.Issuer)
	assert.True(t, info.ExpiresAt.Equal(exp))
	assert.False(t, info.Expired(time.Now()))
	assert.True(t, info.Expired(exp.Add(time.Second)))
}

func TestInspectToken_Opaque(t *testing.T) {
	_, err := security.InspectToken("not-a-jwt")
	assert.Error(t, err)
}

func TestTokenInfo_NoExpiry(t *testing.T) {
	assert.False(t, security.TokenInfo{}.Expired(time.Now()))
}
