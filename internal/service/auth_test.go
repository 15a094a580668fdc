package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/c-victorino/dishcord-web-app/internal/models"

	"golang.org/x/crypto/bcrypt"
)

type mockUserStore struct {
	FindByUserNameFunc     func(ctx context.Context, userName string) (*models.User, error)
	InsertFunc             func(ctx context.Context, user *models.User) error
	AppendLoginHistoryFunc func(ctx context.Context, userName string, event models.LoginEvent) error
	CountFunc              func(ctx context.Context) (int64, error)
}

func (m *mockUserStore) FindByUserName(ctx context.Context, userName string) (*models.User, error) {
	return m.FindByUserNameFunc(ctx, userName)
}
func (m *mockUserStore) Insert(ctx context.Context, user *models.User) error {
	return m.InsertFunc(ctx, user)
}
func (m *mockUserStore) AppendLoginHistory(ctx context.Context, userName string, event models.LoginEvent) error {
	return m.AppendLoginHistoryFunc(ctx, userName, event)
}
func (m *mockUserStore) Count(ctx context.Context) (int64, error) {
	return m.CountFunc(ctx)
}

func hashFor(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return string(hash)
}

func TestRegister_PasswordMismatch(t *testing.T) {
	inserted := false
	store := &mockUserStore{
		InsertFunc: func(ctx context.Context, user *models.User) error {
			inserted = true
			return nil
		},
	}
	svc := NewAuthService(store)

	err := svc.Register(context.Background(), RegisterData{
		UserName:  "bob",
		Password:  "a",
		Password2: "b",
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("Register error = %v, want ErrValidation", err)
	}
	if inserted {
		t.Error("Register persisted a user despite mismatched passwords")
	}
}

func TestRegister_MissingFields(t *testing.T) {
	store := &mockUserStore{
		InsertFunc: func(ctx context.Context, user *models.User) error {
			t.Error("Insert called for invalid input")
			return nil
		},
	}
	svc := NewAuthService(store)

	cases := []RegisterData{
		{UserName: "", Password: "pw", Password2: "pw"},
		{UserName: "   ", Password: "pw", Password2: "pw"},
		{UserName: "bob", Password: "", Password2: ""},
	}
	for _, data := range cases {
		if err := svc.Register(context.Background(), data); !errors.Is(err, ErrValidation) {
			t.Errorf("Register(%+v) error = %v, want ErrValidation", data, err)
		}
	}
}

func TestRegister_HashesPassword(t *testing.T) {
	var saved *models.User
	store := &mockUserStore{
		InsertFunc: func(ctx context.Context, user *models.User) error {
			saved = user
			return nil
		},
	}
	svc := NewAuthService(store)

	err := svc.Register(context.Background(), RegisterData{
		UserName:  "alice",
		Password:  "secret-pw",
		Password2: "secret-pw",
		Email:     "alice@example.com",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if saved == nil {
		t.Fatal("Register did not persist the user")
	}
	if saved.PasswordHash == "secret-pw" {
		t.Fatal("Register stored the plaintext password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(saved.PasswordHash), []byte("secret-pw")); err != nil {
		t.Errorf("stored hash does not verify the password: %v", err)
	}
	cost, err := bcrypt.Cost([]byte(saved.PasswordHash))
	if err != nil {
		t.Fatalf("read hash cost: %v", err)
	}
	if cost != 10 {
		t.Errorf("hash cost = %d, want 10", cost)
	}
	if saved.LoginHistory == nil || len(saved.LoginHistory) != 0 {
		t.Errorf("new user login history = %v, want empty", saved.LoginHistory)
	}
}

func TestRegister_DuplicateUser(t *testing.T) {
	store := &mockUserStore{
		InsertFunc: func(ctx context.Context, user *models.User) error {
			return fmt.Errorf("%w: %s", ErrDuplicateUser, user.UserName)
		},
	}
	svc := NewAuthService(store)

	err := svc.Register(context.Background(), RegisterData{
		UserName:  "bob",
		Password:  "pw",
		Password2: "pw",
	})
	if !errors.Is(err, ErrDuplicateUser) {
		t.Fatalf("Register error = %v, want ErrDuplicateUser", err)
	}
}

func TestAuthenticate_UnknownUser(t *testing.T) {
	store := &mockUserStore{
		FindByUserNameFunc: func(ctx context.Context, userName string) (*models.User, error) {
			return nil, fmt.Errorf("%w: unable to find user: %s", ErrNotFound, userName)
		},
	}
	svc := NewAuthService(store)

	_, err := svc.Authenticate(context.Background(), Credentials{UserName: "ghost", Password: "pw"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Authenticate error = %v, want ErrNotFound", err)
	}
}

func TestAuthenticate_WrongPassword(t *testing.T) {
	appended := false
	store := &mockUserStore{
		FindByUserNameFunc: func(ctx context.Context, userName string) (*models.User, error) {
			return &models.User{UserName: userName, PasswordHash: hashFor(t, "right")}, nil
		},
		AppendLoginHistoryFunc: func(ctx context.Context, userName string, event models.LoginEvent) error {
			appended = true
			return nil
		},
	}
	svc := NewAuthService(store)

	_, err := svc.Authenticate(context.Background(), Credentials{UserName: "bob", Password: "wrong"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("Authenticate error = %v, want ErrInvalidCredentials", err)
	}
	if appended {
		t.Error("Authenticate appended a login event for a failed password check")
	}
}

func TestAuthenticate_Success(t *testing.T) {
	var appendedUser string
	var appendedEvents []models.LoginEvent
	store := &mockUserStore{
		FindByUserNameFunc: func(ctx context.Context, userName string) (*models.User, error) {
			return &models.User{
				UserName:     userName,
				PasswordHash: hashFor(t, "right"),
				Email:        "carol@example.com",
			}, nil
		},
		AppendLoginHistoryFunc: func(ctx context.Context, userName string, event models.LoginEvent) error {
			appendedUser = userName
			appendedEvents = append(appendedEvents, event)
			return nil
		},
	}
	svc := NewAuthService(store)

	user, err := svc.Authenticate(context.Background(), Credentials{
		UserName:  "carol",
		Password:  "right",
		UserAgent: "test-agent/1.0",
	})
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}
	if appendedUser != "carol" {
		t.Errorf("login event recorded for %q, want %q", appendedUser, "carol")
	}
	if len(appendedEvents) != 1 {
		t.Fatalf("appended %d login events, want exactly 1", len(appendedEvents))
	}
	if appendedEvents[0].UserAgent != "test-agent/1.0" {
		t.Errorf("event user agent = %q, want %q", appendedEvents[0].UserAgent, "test-agent/1.0")
	}
	if appendedEvents[0].DateTime.IsZero() {
		t.Error("event timestamp is zero")
	}
	if len(user.LoginHistory) != 1 {
		t.Errorf("returned user history has %d entries, want 1", len(user.LoginHistory))
	}
}

func TestUserCount(t *testing.T) {
	store := &mockUserStore{
		CountFunc: func(ctx context.Context) (int64, error) { return 42, nil },
	}
	svc := NewAuthService(store)

	got, err := svc.UserCount(context.Background())
	if err != nil {
		t.Fatalf("UserCount returned error: %v", err)
	}
	if got != 42 {
		t.Errorf("UserCount = %d, want 42", got)
	}
}
