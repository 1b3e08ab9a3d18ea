// Package service provides business-logic services for authentication and
// task management, delegating persistence to repository interfaces.
package service

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/taskhub/backend/internal/models"
	"github.com/taskhub/backend/internal/repository"
	"github.com/taskhub/backend/internal/validation"
)

// ErrInvalidCredentials is returned on a failed login. It deliberately
// does not distinguish an unknown email from a wrong password, to avoid
// user enumeration.
var ErrInvalidCredentials = errors.New("invalid email or password")

// UserRepository defines the persistence operations required by the
// authentication service.
type UserRepository interface {
	// CreateUser inserts a new user, assigning its identifier. A
	// duplicate email yields repository.ErrDuplicateEmail.
	CreateUser(ctx context.Context, user *models.User) error
	// UserByEmail returns the user with the given normalized email,
	// or repository.ErrNotFound.
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	// UserByID returns the user with the given hex identifier,
	// or repository.ErrNotFound / repository.ErrInvalidID.
	UserByID(ctx context.Context, id string) (*models.User, error)
}

// AuthService implements registration, login and identity resolution.
type AuthService struct {
	// repo performs the data-layer operations.
	repo UserRepository
}

// NewAuthService constructs a new AuthService using the provided repository.
func NewAuthService(repo UserRepository) *AuthService {
	return &AuthService{repo: repo}
}

// Register creates a new user with a bcrypt-hashed password. The caller
// is expected to have validated the raw fields already; the email is
// normalized here so uniqueness is case-insensitive. A duplicate email
// yields repository.ErrDuplicateEmail.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         strings.TrimSpace(name),
		Email:        validation.NormalizeEmail(email),
		PasswordHash: hash,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies the credentials and returns the matching user.
// Both an unknown email and a wrong password yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.repo.UserByEmail(ctx, validation.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// UserByID resolves a user by its hex identifier. Used by the
// authentication middleware to attach the user to the request context.
func (s *AuthService) UserByID(ctx context.Context, id string) (*models.User, error) {
	return s.repo.UserByID(ctx, id)
}
