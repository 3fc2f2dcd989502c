package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"spendlog/internal/core"
)

// User is an account record as persisted by the user store.
type User struct {
	ID           int64
	Email        string
	FullName     string
	PasswordHash []byte
	CreatedAt    time.Time
}

// Principal converts a stored account into the identity value the ledger
// consumes.
func (u User) Principal() core.Principal {
	return core.Principal{ID: u.ID, Email: u.Email, DisplayName: u.FullName}
}

// UserStore is the persistence port for accounts.
type UserStore interface {
	CreateUser(ctx context.Context, email, fullName string, passwordHash []byte) (User, error)
	UserByEmail(ctx context.Context, email string) (User, error)
}

// ErrUserNotFound is returned by UserStore implementations when no account
// matches.
var ErrUserNotFound = errors.New("user not found")

// Service handles signup and signin, producing signed tokens.
type Service struct {
	store  UserStore
	tokens *TokenIssuer
	now    func() time.Time
}

func NewService(store UserStore, tokens *TokenIssuer) *Service {
	return &Service{store: store, tokens: tokens, now: time.Now}
}

// Signup registers a new account and returns its principal with a fresh
// token. A duplicate email fails with ErrEmailTaken.
func (s *Service) Signup(ctx context.Context, email, password, fullName string) (core.Principal, string, error) {
	if email == "" {
		return core.Principal{}, "", ErrInvalidCredentials
	}
	if _, err := s.store.UserByEmail(ctx, email); err == nil {
		return core.Principal{}, "", ErrEmailTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return core.Principal{}, "", fmt.Errorf("lookup user: %w", err)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return core.Principal{}, "", err
	}

	user, err := s.store.CreateUser(ctx, email, fullName, hash)
	if err != nil {
		return core.Principal{}, "", fmt.Errorf("create user: %w", err)
	}

	principal := user.Principal()
	token, err := s.tokens.Issue(principal, s.now())
	if err != nil {
		return core.Principal{}, "", err
	}
	return principal, token, nil
}

// Signin authenticates an account. Unknown email and wrong password produce
// the same ErrInvalidCredentials.
func (s *Service) Signin(ctx context.Context, email, password string) (core.Principal, string, error) {
	user, err := s.store.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return core.Principal{}, "", ErrInvalidCredentials
		}
		return core.Principal{}, "", fmt.Errorf("lookup user: %w", err)
	}
	if !CheckPassword(user.PasswordHash, password) {
		return core.Principal{}, "", ErrInvalidCredentials
	}

	principal := user.Principal()
	token, err := s.tokens.Issue(principal, s.now())
	if err != nil {
		return core.Principal{}, "", err
	}
	return principal, token, nil
}
