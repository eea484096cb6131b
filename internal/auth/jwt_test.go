package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_IssueAndParse(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	for _, role := range []string{RoleTenantAdmin, RoleTenantMember} {
		t.Run(role, func(t *testing.T) {
			tok, err := m.IssueToken("alice", role)
			require.NoError(t, err)

			claims, err := m.ParseToken(tok)
			require.NoError(t, err)
			assert.Equal(t, role, claims.Role)
			assert.Equal(t, "alice", claims.Subject)
		})
	}
}

func TestManager_IssueToken_UnknownRole(t *testing.T) {
	_, err := NewManager("test-secret", time.Hour).IssueToken("alice", "ROOT")
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestManager_ParseToken_WrongSecret(t *testing.T) {
	tok, err := NewManager("secret-a", time.Hour).IssueToken("alice", RoleTenantAdmin)
	require.NoError(t, err)

	_, err = NewManager("secret-b", time.Hour).ParseToken(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestManager_ParseToken_Expired(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	past := time.Now().Add(-2 * time.Hour)
	claims := Claims{
		Role: RoleTenantAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(past.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(past),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = m.ParseToken(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestManager_ParseToken_WrongAlgorithm(t *testing.T) {
	claims := Claims{Role: RoleTenantAdmin}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = NewManager("test-secret", time.Hour).ParseToken(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestManager_ParseToken_UnknownRole(t *testing.T) {
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{Role: "ROOT"}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = NewManager("test-secret", time.Hour).ParseToken(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestManager_ParseToken_Garbage(t *testing.T) {
	_, err := NewManager("test-secret", time.Hour).ParseToken("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
