package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/c-victorino/dishcord-web-app/internal/models"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is the hash cost for all stored passwords.
const bcryptCost = 10

// UserStore is the credential-store access the auth service needs.
type UserStore interface {
	// FindByUserName returns the user with the exact (case-sensitive)
	// user name, or an error wrapping ErrNotFound.
	FindByUserName(ctx context.Context, userName string) (*models.User, error)
	// Insert persists a new user. Returns an error wrapping
	// ErrDuplicateUser when the userName unique index is violated.
	Insert(ctx context.Context, user *models.User) error
	// AppendLoginHistory appends one event to the user's history.
	AppendLoginHistory(ctx context.Context, userName string, event models.LoginEvent) error
	// Count returns the number of registered users.
	Count(ctx context.Context) (int64, error)
}

// RegisterData carries the registration form fields. Password2 is the
// confirmation field and must match Password.
type RegisterData struct {
	UserName  string
	Password  string
	Password2 string
	Email     string
}

// Credentials carries one login attempt. UserAgent is recorded in the
// login history on success.
type Credentials struct {
	UserName  string
	Password  string
	UserAgent string
}

// AuthService registers users and verifies credentials against the
// credential store.
type AuthService struct {
	store UserStore
}

func NewAuthService(store UserStore) *AuthService {
	return &AuthService{store: store}
}

// Register creates a new account. It does not create a session; the
// caller decides what happens after a successful registration.
func (s *AuthService) Register(ctx context.Context, data RegisterData) error {
	data.UserName = strings.TrimSpace(data.UserName)
	if data.UserName == "" {
		return fmt.Errorf("%w: user name is required", ErrValidation)
	}
	if data.Password == "" {
		return fmt.Errorf("%w: password is required", ErrValidation)
	}
	if data.Password != data.Password2 {
		return fmt.Errorf("%w: passwords do not match", ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(data.Password), bcryptCost)
	if err != nil {
		return fmt.Errorf("%w: hash password: %v", ErrPersistence, err)
	}

	user := &models.User{
		UserName:     data.UserName,
		PasswordHash: string(hash),
		Email:        data.Email,
		LoginHistory: []models.LoginEvent{},
	}
	return s.store.Insert(ctx, user)
}

// Authenticate verifies credentials and, on success, appends one login
// event to the stored history and returns the user with that history
// included. The history is an audit log: every successful call appends,
// a failed password check appends nothing.
func (s *AuthService) Authenticate(ctx context.Context, creds Credentials) (*models.User, error) {
	user, err := s.store.FindByUserName(ctx, creds.UserName)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		return nil, fmt.Errorf("%w for user: %s", ErrInvalidCredentials, creds.UserName)
	}

	event := models.LoginEvent{DateTime: time.Now(), UserAgent: creds.UserAgent}
	if err := s.store.AppendLoginHistory(ctx, user.UserName, event); err != nil {
		return nil, err
	}
	user.LoginHistory = append(user.LoginHistory, event)
	return user, nil
}

// UserCount returns the total number of registered users.
func (s *AuthService) UserCount(ctx context.Context) (int64, error) {
	return s.store.Count(ctx)
}
