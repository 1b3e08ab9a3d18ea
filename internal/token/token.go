// Package token implements issuing and verification of the signed bearer
// tokens that carry a user's identity between requests. Tokens are
// stateless: there is no server-side revocation list, expiry is the only
// termination mechanism.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// Issuer identifies tokens produced by this service.
	Issuer = "taskhub-api"

	// AudienceAccess marks short-lived tokens accepted by the API.
	AudienceAccess = "access"
	// AudienceRefresh marks long-lived tokens used only to obtain new
	// access tokens.
	AudienceRefresh = "refresh"

	// accessTTL is the lifetime of an access token.
	accessTTL = 7 * 24 * time.Hour
	// refreshTTL is the lifetime of a refresh token.
	refreshTTL = 30 * 24 * time.Hour
)

var (
	// ErrExpired is returned when a structurally valid token has passed
	// its expiry. Callers branch on this to prompt a re-login instead of
	// rejecting the token as forged.
	ErrExpired = errors.New("token has expired")
	// ErrInvalid is returned when the signature, structure, issuer or
	// audience of a token is wrong.
	ErrInvalid = errors.New("invalid token")
	// ErrVerification is returned for any other parse failure.
	ErrVerification = errors.New("token verification failed")
)

// Claims is the payload embedded in every issued token.
type Claims struct {
	// UserID is the hex identifier of the authenticated user.
	UserID string `json:"userId"`
	// Email is the user's email at issuance time.
	Email string `json:"email,omitempty"`

	jwt.RegisteredClaims
}

// Service signs and verifies tokens with a single process-wide HS256 key.
type Service struct {
	secret []byte
	// now is the clock used for issuance, overridable in tests.
	now func() time.Time
}

// New constructs a token Service. The secret must be non-empty; a missing
// signing key is a fatal configuration condition, not something to
// discover per request.
func New(secret string) (*Service, error) {
	if secret == "" {
		return nil, errors.New("token: signing secret is empty")
	}
	return &Service{secret: []byte(secret), now: time.Now}, nil
}

// Issue produces a signed access token embedding the user's identifier
// and email.
func (s *Service) Issue(userID, email string) (string, error) {
	return s.sign(userID, email, AudienceAccess, accessTTL)
}

// IssueRefresh produces a signed refresh token for the user. Refresh
// tokens carry no email and are rejected by the access audience check.
func (s *Service) IssueRefresh(userID string) (string, error) {
	return s.sign(userID, "", AudienceRefresh, refreshTTL)
}

func (s *Service) sign(userID, email, audience string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := &Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    Issuer,
			Audience:  jwt.ClaimStrings{audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token against the expected audience.
// It fails with ErrExpired for an expired token, ErrInvalid for a bad
// signature, structure, issuer or audience, and ErrVerification for any
// other parse error.
func (s *Service) Verify(tokenString, audience string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithAudience(audience),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpired
		case errors.Is(err, jwt.ErrTokenMalformed),
			errors.Is(err, jwt.ErrTokenSignatureInvalid),
			errors.Is(err, jwt.ErrTokenInvalidAudience),
			errors.Is(err, jwt.ErrTokenInvalidIssuer),
			errors.Is(err, jwt.ErrTokenUnverifiable):
			return nil, ErrInvalid
		default:
			return nil, ErrVerification
		}
	}
	return claims, nil
}

// Decode parses a token without verifying its signature. It exists only
// so clients can read the expiry for UX purposes and must never be used
// as an authorization check. Returns nil if the token cannot be parsed.
func Decode(tokenString string) *Claims {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil
	}
	return claims
}
