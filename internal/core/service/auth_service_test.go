package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/todomessages/todo-api/internal/core/domain"
	"github.com/todomessages/todo-api/internal/core/token"
)

var authSecret = []byte("secret")

type stubAuthRepo struct {
	users     map[string]*domain.User // by email
	nextID    int
	createErr error
	findErr   error
}

func newStubAuthRepo() *stubAuthRepo {
	return &stubAuthRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubAuthRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	if _, exists := r.users[user.Email]; exists {
		return nil, domain.ErrUserExists
	}
	r.nextID++
	stored := cloneUser(user)
	stored.ID = "user-" + strconv.Itoa(r.nextID)
	r.users[stored.Email] = stored
	return cloneUser(stored), nil
}

func (r *stubAuthRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.users[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func newAuthSvc(repo *stubAuthRepo, opts ...AuthOption) *AuthService {
	return NewAuthService(repo, authSecret, time.Hour, zerolog.Nop(), opts...)
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newAuthSvc(repo)

	user, err := svc.Register(context.Background(), "Alice", " Alice@Example.com ", "pass123")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.ID == "" || user.Email != "alice@example.com" || user.Name != "Alice" {
		t.Fatalf("unexpected user: %+v", user)
	}

	stored := repo.users["alice@example.com"]
	if stored.PasswordHash == "pass123" || strings.Contains(stored.PasswordHash, "pass123") {
		t.Fatalf("plaintext password stored")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	cost, err := bcrypt.Cost([]byte(stored.PasswordHash))
	if err != nil || cost != 10 {
		t.Fatalf("expected bcrypt cost 10, got %d (%v)", cost, err)
	}
}

func TestAuthService_Register_HashIsSalted(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newAuthSvc(repo)

	if _, err := svc.Register(context.Background(), "A", "a@example.com", "same"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register(context.Background(), "B", "b@example.com", "same"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if repo.users["a@example.com"].PasswordHash == repo.users["b@example.com"].PasswordHash {
		t.Fatalf("expected distinct hashes for equal passwords")
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := newAuthSvc(newStubAuthRepo())

	cases := [][3]string{
		{"", "a@example.com", "pass"},
		{"Alice", "", "pass"},
		{"Alice", "a@example.com", ""},
		{"Alice", "a@example.com", strings.Repeat("x", 73)},
	}
	for _, c := range cases {
		if _, err := svc.Register(context.Background(), c[0], c[1], c[2]); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("%q: expected ErrInvalidInput, got %v", c, err)
		}
	}
}

func TestAuthService_Register_DuplicateKeepsExisting(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newAuthSvc(repo)

	first, err := svc.Register(context.Background(), "Bob", "bob@example.com", "pass")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	before := *repo.users["bob@example.com"]

	if _, err := svc.Register(context.Background(), "Robert", "bob@example.com", "pass2"); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}

	after := repo.users["bob@example.com"]
	if after.ID != first.ID || after.Name != before.Name || after.PasswordHash != before.PasswordHash {
		t.Fatalf("existing record mutated: before=%+v after=%+v", before, after)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	issued := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	repo := newStubAuthRepo()
	svc := newAuthSvc(repo, WithClock(fixedClock(issued)))

	user, err := svc.Register(context.Background(), "Carol", "a@x.com", "right")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	signed, err := svc.Login(context.Background(), "a@x.com", "right")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if strings.Contains(signed, repo.users["a@x.com"].PasswordHash) {
		t.Fatalf("token leaks password hash")
	}

	id, err := token.Verify(signed, authSecret, issued.Add(59*time.Minute))
	if err != nil {
		t.Fatalf("token rejected before expiry: %v", err)
	}
	if id.UserID != user.ID {
		t.Fatalf("expected userId %s, got %s", user.ID, id.UserID)
	}

	if _, err := token.Verify(signed, authSecret, issued.Add(time.Hour)); !errors.Is(err, token.ErrExpired) {
		t.Fatalf("expected token expired at expiry instant, got %v", err)
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newAuthSvc(repo)

	_, _ = svc.Register(context.Background(), "Dave", "dave@example.com", "goodpass")
	if _, err := svc.Login(context.Background(), "dave@example.com", "badpass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UserNotFound(t *testing.T) {
	svc := newAuthSvc(newStubAuthRepo())

	if _, err := svc.Login(context.Background(), "ghost@example.com", "pass"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthService_Login_StoreFailure(t *testing.T) {
	repo := newStubAuthRepo()
	repo.findErr = errors.New("connection reset")
	svc := newAuthSvc(repo)

	_, err := svc.Login(context.Background(), "a@example.com", "pass")
	if err == nil || errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected raw store error, got %v", err)
	}
}

func TestAuthService_Login_MissingSecret(t *testing.T) {
	repo := newStubAuthRepo()
	svc := NewAuthService(repo, nil, time.Hour, zerolog.Nop())

	if _, err := svc.Register(context.Background(), "Eve", "eve@example.com", "pass"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Login(context.Background(), "eve@example.com", "pass"); !errors.Is(err, token.ErrNoSecret) {
		t.Fatalf("expected ErrNoSecret, got %v", err)
	}
}
