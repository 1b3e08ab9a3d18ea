package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/taskhub/backend/internal/middleware"
	"github.com/taskhub/backend/internal/models"
	"github.com/taskhub/backend/internal/repository"
	"github.com/taskhub/backend/internal/service"
	"github.com/taskhub/backend/internal/validation"
)

// AuthService defines the interface for authentication operations
// required by the HTTP handlers.
type AuthService interface {
	// Register creates a new user from validated fields. A duplicate
	// email yields repository.ErrDuplicateEmail.
	Register(ctx context.Context, name, email, password string) (*models.User, error)
	// Login verifies the credentials and returns the matching user, or
	// service.ErrInvalidCredentials.
	Login(ctx context.Context, email, password string) (*models.User, error)
}

// TokenIssuer produces signed access tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID, email string) (string, error)
}

// AuthHandler handles HTTP requests for registration, login and profile.
type AuthHandler struct {
	// AuthService performs the underlying authentication operations.
	AuthService AuthService
	// Tokens issues bearer tokens after successful authentication.
	Tokens TokenIssuer
}

// RegisterRequest represents the JSON payload for user registration.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the JSON payload for user login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles user registration requests.
// It validates the payload, creates the user and responds with a signed
// access token and the public user fields. All validation violations are
// returned at once; a duplicate email yields 409.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if errs := validation.ValidateRegister(req.Name, req.Email, req.Password); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	user, err := h.AuthService.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			writeMessage(w, http.StatusConflict, "User already exists with this email")
			return
		}
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	tokenString, err := h.Tokens.Issue(user.ID.Hex(), user.Email)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "User registered successfully",
		"token":   tokenString,
		"user":    publicUser(user),
	})
}

// Login handles user login requests.
// Bad credentials always produce the same 401 message, whether the email
// is unknown or the password is wrong.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if errs := validation.ValidateLogin(req.Email, req.Password); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	user, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeMessage(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	tokenString, err := h.Tokens.Issue(user.ID.Hex(), user.Email)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"token":   tokenString,
		"user":    publicUser(user),
	})
}

// Profile returns the authenticated user's public fields.
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		writeMessage(w, http.StatusUnauthorized, "Authentication token required")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": publicUser(user)})
}
