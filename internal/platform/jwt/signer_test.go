package jwtmw

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSigner_RoundTrip は署名したトークンからセッションIDを取り出せることを検証します。
func TestSigner_RoundTrip(t *testing.T) {
	t.Parallel()

	s := NewSigner("test-secret")
	token, err := s.Sign("abc123", 42, time.Now().Add(time.Hour))
	require.NoError(t, err)

	id, err := s.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "abc123", id)

	var claims jwt.RegisteredClaims
	_, _, err = jwt.NewParser().ParseUnverified(token, &claims)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)
}

// TestSigner_Parse_Rejects は不正なトークンがErrInvalidTokenになることを検証します。
func TestSigner_Parse_Rejects(t *testing.T) {
	t.Parallel()

	s := NewSigner("test-secret")
	other := NewSigner("other-secret")

	expired, err := s.Sign("expired", 1, time.Now().Add(-time.Minute))
	require.NoError(t, err)
	foreign, err := other.Sign("foreign", 1, time.Now().Add(time.Hour))
	require.NoError(t, err)
	noID, err := s.Sign("", 1, time.Now().Add(time.Hour))
	require.NoError(t, err)
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{ID: "x"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"empty", ""},
		{"expired", expired},
		{"wrong secret", foreign},
		{"missing session id", noID},
		{"alg none", none},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := s.Parse(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
