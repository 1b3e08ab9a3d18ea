// Package middleware provides HTTP middlewares for authentication and logging.
package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/taskhub/backend/internal/models"
	"github.com/taskhub/backend/internal/token"
)

type ctxKey string

const userKey ctxKey = "user"

// TokenVerifier verifies a bearer token against an expected audience and
// returns its claims.
type TokenVerifier interface {
	Verify(tokenString, audience string) (*token.Claims, error)
}

// UserLoader resolves a user record by its hex identifier.
type UserLoader interface {
	// UserByID returns the user or an error satisfying
	// errors.Is(err, repository.ErrNotFound) semantics via the loader's
	// own not-found error.
	UserByID(ctx context.Context, id string) (*models.User, error)
}

// BearerAuth is a middleware that enforces bearer-token authentication.
//
// It extracts the token from the Authorization header, verifies it with
// audience "access", resolves the embedded user identifier to a user
// record and stores the user in the request context. Requests without a
// token, with an expired or invalid token, or whose user no longer
// exists are rejected with 401. The response message distinguishes the
// cases for client UX, the status never does.
func BearerAuth(verifier TokenVerifier, users UserLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				unauthorized(w, "Authentication token required")
				return
			}

			claims, err := verifier.Verify(raw, token.AudienceAccess)
			if err != nil {
				if errors.Is(err, token.ErrExpired) {
					unauthorized(w, "Your token has expired. Please log in again.")
					return
				}
				unauthorized(w, "Invalid token. Please log in again.")
				return
			}

			user, err := users.UserByID(r.Context(), claims.UserID)
			if err != nil || user == nil {
				// Token may outlive the account it was issued for.
				unauthorized(w, "User no longer exists")
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header. Returns an empty string if the header is absent or malformed.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

// unauthorized writes a 401 JSON response with the given message.
func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}

// GetUserFromContext extracts the authenticated user stored by BearerAuth.
// Returns nil if the request was not authenticated.
func GetUserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(userKey).(*models.User)
	return user
}

// WithUser returns a copy of ctx carrying the given user. It exists for
// handler tests that bypass the middleware.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}
