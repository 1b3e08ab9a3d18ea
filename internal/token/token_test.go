package token

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

func newTestService(t *testing.T) *Service {
	t.Helper()
	s, err := New(testSecret)
	require.NoError(t, err)
	return s
}

func TestNew_EmptySecret(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Fatal("expected an error for an empty signing secret")
	}
}

func TestIssueAndVerify_RoundTrip(t *testing.T) {
	s := newTestService(t)

	signed, err := s.Issue("68b1c2d3e4f5a6b7c8d9e0f1", "ann@example.com")
	require.NoError(t, err)

	claims, err := s.Verify(signed, AudienceAccess)
	require.NoError(t, err)
	assert.Equal(t, "68b1c2d3e4f5a6b7c8d9e0f1", claims.UserID)
	assert.Equal(t, "ann@example.com", claims.Email)
	assert.Equal(t, Issuer, claims.Issuer)
	assert.NotEmpty(t, claims.ID)
}

func TestVerify_AudienceMismatch(t *testing.T) {
	s := newTestService(t)

	access, err := s.Issue("68b1c2d3e4f5a6b7c8d9e0f1", "ann@example.com")
	require.NoError(t, err)
	refresh, err := s.IssueRefresh("68b1c2d3e4f5a6b7c8d9e0f1")
	require.NoError(t, err)

	// An access token must not pass the refresh check and vice versa.
	_, err = s.Verify(access, AudienceRefresh)
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = s.Verify(refresh, AudienceAccess)
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = s.Verify(refresh, AudienceRefresh)
	assert.NoError(t, err)
}

func TestVerify_ExpiredDistinctFromTampered(t *testing.T) {
	s := newTestService(t)

	// Issue a token that expired an hour ago.
	s.now = func() time.Time { return time.Now().Add(-accessTTL - time.Hour) }
	expired, err := s.Issue("68b1c2d3e4f5a6b7c8d9e0f1", "ann@example.com")
	require.NoError(t, err)
	s.now = time.Now

	_, err = s.Verify(expired, AudienceAccess)
	assert.ErrorIs(t, err, ErrExpired, "an expired token must be reported as expired")

	// Tamper with the signature of a fresh token.
	fresh, err := s.Issue("68b1c2d3e4f5a6b7c8d9e0f1", "ann@example.com")
	require.NoError(t, err)
	tampered := fresh[:len(fresh)-2] + "xx"

	_, err = s.Verify(tampered, AudienceAccess)
	assert.ErrorIs(t, err, ErrInvalid, "a tampered token must be reported as invalid, not expired")
	assert.False(t, errors.Is(err, ErrExpired))
}

func TestVerify_WrongSecret(t *testing.T) {
	s := newTestService(t)
	other, err := New("a-different-secret")
	require.NoError(t, err)

	signed, err := other.Issue("68b1c2d3e4f5a6b7c8d9e0f1", "ann@example.com")
	require.NoError(t, err)

	_, err = s.Verify(signed, AudienceAccess)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestVerify_Garbage(t *testing.T) {
	s := newTestService(t)

	for _, tokenString := range []string{"", "garbage", "a.b.c", strings.Repeat("x", 300)} {
		if _, err := s.Verify(tokenString, AudienceAccess); !errors.Is(err, ErrInvalid) {
			t.Errorf("Verify(%q) error = %v; want ErrInvalid", tokenString, err)
		}
	}
}

func TestDecode(t *testing.T) {
	s := newTestService(t)

	signed, err := s.Issue("68b1c2d3e4f5a6b7c8d9e0f1", "ann@example.com")
	require.NoError(t, err)

	claims := Decode(signed)
	require.NotNil(t, claims)
	assert.Equal(t, "68b1c2d3e4f5a6b7c8d9e0f1", claims.UserID)
	require.NotNil(t, claims.ExpiresAt)
	assert.True(t, claims.ExpiresAt.After(time.Now()))

	assert.Nil(t, Decode("not a token"))
}
