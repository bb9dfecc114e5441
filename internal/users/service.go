package users

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost matches the cost used for stored document credentials.
const BcryptCost = 12

// Repository is the persistence contract for user accounts.
type Repository interface {
	// FindByEmail matches case-insensitively; callers pass any casing.
	FindByEmail(ctx context.Context, email string) (User, error)
	FindByID(ctx context.Context, id string) (User, error)
}

var (
	ErrNotFound = errors.New("users: not found")
	// ErrInvalidCredentials deliberately covers both unknown email and wrong
	// password so responses never reveal which part failed.
	ErrInvalidCredentials = errors.New("users: invalid credentials")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service { return &Service{repo: repo} }

// Authenticate validates an email/password pair and returns the account.
func (s *Service) Authenticate(ctx context.Context, email, password string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return User{}, ErrInvalidCredentials
	}

	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return User{}, ErrInvalidCredentials
	}
	return u, nil
}

// Get returns the account for id. Used by token refresh to re-read the role.
func (s *Service) Get(ctx context.Context, id string) (User, error) {
	if id == "" {
		return User{}, ErrNotFound
	}
	return s.repo.FindByID(ctx, id)
}

// HashPassword produces a salted bcrypt hash for seeding and tests.
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
