package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"resume-builder-backend/internal/shared/auth"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

const bcryptCost = 10

// Service owns registration, login, and federated login-or-register.
type Service struct {
	Repo Repo
}

// Register creates a password-backed account and returns the user with a
// signed session token.
func (s *Service) Register(ctx context.Context, name, email, password string) (User, string, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" || password == "" {
		return User{}, "", fmt.Errorf("%w: name, email and password are required", ErrInvalidInput)
	}
	if len(name) < 3 || len(name) > 30 {
		return User{}, "", fmt.Errorf("%w: name must be 3-30 characters", ErrInvalidInput)
	}
	if len(password) < 6 {
		return User{}, "", fmt.Errorf("%w: password must be at least 6 characters", ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return User{}, "", err
	}

	now := time.Now().UTC()
	user := User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		return User{}, "", err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return User{}, "", err
	}
	return user, token, nil
}

// Login verifies credentials. Unknown email and wrong password produce the
// same error so the endpoint cannot be used to probe for accounts.
func (s *Service) Login(ctx context.Context, email, password string) (User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return User{}, "", fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}

	user, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, "", ErrInvalidCredentials
		}
		return User{}, "", err
	}
	if user.PasswordHash == "" {
		// Federated account without a password.
		return User{}, "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return User{}, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		return User{}, "", err
	}
	return user, token, nil
}

// LoginOrRegisterFederated resolves an identity asserted by an external
// provider. New accounts get no password hash and can only log in federated.
func (s *Service) LoginOrRegisterFederated(ctx context.Context, name, email string) (User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return User{}, "", fmt.Errorf("%w: email is required", ErrInvalidInput)
	}

	user, err := s.Repo.GetByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		now := time.Now().UTC()
		user = User{
			ID:        uuid.NewString(),
			Name:      strings.TrimSpace(name),
			Email:     email,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if user.Name == "" {
			user.Name = email
		}
		err = s.Repo.Create(ctx, user)
		if errors.Is(err, ErrDuplicateEmail) {
			// Lost a race with another login; read the winner.
			user, err = s.Repo.GetByEmail(ctx, email)
		}
	}
	if err != nil {
		return User{}, "", err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return User{}, "", err
	}
	return user, token, nil
}

// Get returns the account for an authenticated subject.
func (s *Service) Get(ctx context.Context, userID string) (User, error) {
	return s.Repo.GetByID(ctx, userID)
}

func (s *Service) issueToken(user User) (string, error) {
	return auth.SignJWT(auth.Claims{
		Sub:   user.ID,
		Email: user.Email,
		Name:  user.Name,
	})
}
