package service

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/taskhub/backend/internal/models"
	"github.com/taskhub/backend/internal/repository"
)

type mockUserRepo struct {
	CreateUserFunc  func(ctx context.Context, user *models.User) error
	UserByEmailFunc func(ctx context.Context, email string) (*models.User, error)
	UserByIDFunc    func(ctx context.Context, id string) (*models.User, error)
}

func (m *mockUserRepo) CreateUser(ctx context.Context, user *models.User) error {
	return m.CreateUserFunc(ctx, user)
}
func (m *mockUserRepo) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.UserByEmailFunc(ctx, email)
}
func (m *mockUserRepo) UserByID(ctx context.Context, id string) (*models.User, error) {
	return m.UserByIDFunc(ctx, id)
}

func TestRegister_HashesPasswordAndNormalizesEmail(t *testing.T) {
	var stored *models.User
	repo := &mockUserRepo{
		CreateUserFunc: func(ctx context.Context, user *models.User) error {
			stored = user
			return nil
		},
	}
	svc := NewAuthService(repo)

	user, err := svc.Register(context.Background(), "  Ann Lee ", " ANN@Example.com ", "secret1")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if stored == nil {
		t.Fatal("expected CreateUser to be called on repo")
	}

	if user.Name != "Ann Lee" {
		t.Errorf("Name = %q; want trimmed %q", user.Name, "Ann Lee")
	}
	if user.Email != "ann@example.com" {
		t.Errorf("Email = %q; want normalized %q", user.Email, "ann@example.com")
	}
	if string(user.PasswordHash) == "secret1" {
		t.Fatal("password stored in clear text")
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte("secret1")); err != nil {
		t.Errorf("stored hash does not match the password: %v", err)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := &mockUserRepo{
		CreateUserFunc: func(ctx context.Context, user *models.User) error {
			return repository.ErrDuplicateEmail
		},
	}
	svc := NewAuthService(repo)

	_, err := svc.Register(context.Background(), "Ann Lee", "ann@example.com", "secret1")
	if !errors.Is(err, repository.ErrDuplicateEmail) {
		t.Errorf("Register error = %v; want ErrDuplicateEmail", err)
	}
}

func TestLogin_Success(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}

	repo := &mockUserRepo{
		UserByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			if email != "ann@example.com" {
				t.Errorf("UserByEmail received %q; want normalized %q", email, "ann@example.com")
			}
			return &models.User{Email: email, PasswordHash: hash}, nil
		},
	}
	svc := NewAuthService(repo)

	user, err := svc.Login(context.Background(), "Ann@Example.COM", "secret1")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if user == nil {
		t.Fatal("expected a user")
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	repo := &mockUserRepo{
		UserByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return nil, repository.ErrNotFound
		},
	}
	svc := NewAuthService(repo)

	_, err := svc.Login(context.Background(), "ghost@example.com", "secret1")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login error = %v; want ErrInvalidCredentials", err)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}

	repo := &mockUserRepo{
		UserByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{Email: email, PasswordHash: hash}, nil
		},
	}
	svc := NewAuthService(repo)

	// Wrong password must be indistinguishable from an unknown email.
	_, err = svc.Login(context.Background(), "ann@example.com", "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login error = %v; want ErrInvalidCredentials", err)
	}
}

func TestLogin_RepositoryError(t *testing.T) {
	wantErr := errors.New("db down")
	repo := &mockUserRepo{
		UserByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return nil, wantErr
		},
	}
	svc := NewAuthService(repo)

	_, err := svc.Login(context.Background(), "ann@example.com", "secret1")
	if !errors.Is(err, wantErr) {
		t.Errorf("Login error = %v; want the repository error passed through", err)
	}
	if errors.Is(err, ErrInvalidCredentials) {
		t.Error("infrastructure failures must not masquerade as bad credentials")
	}
}

func TestUserByID_Delegates(t *testing.T) {
	want := &models.User{Name: "Ann Lee"}
	repo := &mockUserRepo{
		UserByIDFunc: func(ctx context.Context, id string) (*models.User, error) {
			if id != "68b1c2d3e4f5a6b7c8d9e0f1" {
				t.Errorf("UserByID received id %q", id)
			}
			return want, nil
		},
	}
	svc := NewAuthService(repo)

	got, err := svc.UserByID(context.Background(), "68b1c2d3e4f5a6b7c8d9e0f1")
	if err != nil {
		t.Fatalf("UserByID returned error: %v", err)
	}
	if got != want {
		t.Errorf("UserByID = %+v; want %+v", got, want)
	}
}
