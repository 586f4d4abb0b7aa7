package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenProvider_RoundTrip(t *testing.T) {
	p := NewTokenProvider("secret", time.Hour)

	token, exp, err := p.Issue(Identity{UserID: 7, Email: "admin@tesinsurance.com", Role: "admin"})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	id, err := p.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), id.UserID)
	assert.Equal(t, "admin@tesinsurance.com", id.Email)
	assert.Equal(t, "admin", id.Role)
}

func TestTokenProvider_Expired(t *testing.T) {
	p := NewTokenProvider("secret", time.Minute)
	p.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, err := p.Issue(Identity{UserID: 1, Role: "admin"})
	require.NoError(t, err)

	p.now = time.Now
	_, err = p.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenProvider_Tampered(t *testing.T) {
	p := NewTokenProvider("secret", time.Hour)
	token, _, err := p.Issue(Identity{UserID: 1, Role: "agent"})
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	forged := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	_, err = p.Verify(forged)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = NewTokenProvider("other", time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = p.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenProvider_RejectsNoneAlg(t *testing.T) {
	claims := Claims{UserID: 1, Role: "admin", RegisteredClaims: jwt.RegisteredClaims{
		Issuer:    issuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenProvider("secret", time.Hour).Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestHasher(t *testing.T) {
	h := NewHasher(1)
	assert.Equal(t, 4, h.cost, "cost is clamped to bcrypt.MinCost")

	hash, err := h.Hash("password123")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", hash)

	assert.NoError(t, h.Compare(hash, "password123"))
	assert.ErrorIs(t, h.Compare(hash, "wrong"), ErrPasswordMismatch)
	assert.ErrorIs(t, h.Compare("not-a-hash", "password123"), ErrPasswordMismatch)
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	_, ok := IdentityFrom(ctx)
	assert.False(t, ok)
	assert.Equal(t, Client{}, ClientFrom(ctx))

	ctx = WithIdentity(ctx, Identity{UserID: 3, Role: "manager"})
	ctx = WithClient(ctx, Client{IP: "10.0.0.1", UserAgent: "curl"})

	id, ok := IdentityFrom(ctx)
	require.True(t, ok)
	assert.Equal(t, int64(3), id.UserID)
	assert.Equal(t, "10.0.0.1", ClientFrom(ctx).IP)

	assert.True(t, HasRole("manager", "admin", "manager"))
	assert.False(t, HasRole("agent", "admin"))
}
