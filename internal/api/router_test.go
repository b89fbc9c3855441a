package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/todomessages/todo-api/internal/core/domain"
	"github.com/todomessages/todo-api/internal/core/ports"
	"github.com/todomessages/todo-api/internal/core/service"
	"github.com/todomessages/todo-api/internal/core/token"
	"github.com/todomessages/todo-api/internal/infrastructure/http/handlers"
)

var testSecret = []byte("router-test-secret")

type memUsers struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.Email]; ok {
		return nil, domain.ErrUserExists
	}
	cp := *u
	cp.ID = "user-" + u.Email
	m.users[u.Email] = &cp
	out := cp
	return &out, nil
}

type ownerEcho struct{}

func (ownerEcho) Create(_ context.Context, in ports.CreateMessageInput) (*domain.Message, error) {
	return &domain.Message{ID: "m1", UserID: in.UserID, Title: in.Title}, nil
}

func (ownerEcho) Get(_ context.Context, userID, id string) (*domain.Message, error) {
	if userID != "owner" {
		return nil, domain.ErrMessageNotFound
	}
	return &domain.Message{ID: id, UserID: userID, Title: "mine"}, nil
}

func (ownerEcho) List(_ context.Context, userID string) ([]*domain.Message, error) {
	return []*domain.Message{{ID: "m1", UserID: userID, Title: userID}}, nil
}

func (ownerEcho) Update(_ context.Context, userID, id string, _ domain.MessagePatch) (*domain.Message, error) {
	return nil, domain.ErrMessageNotFound
}

func (ownerEcho) Delete(_ context.Context, userID, id string) error {
	return domain.ErrMessageNotFound
}

func newTestRouter() *echo.Echo {
	users := &memUsers{users: make(map[string]*domain.User)}
	return NewRouter(Dependencies{
		AuthService:    service.NewAuthService(users, testSecret, time.Hour, zerolog.Nop()),
		MessageService: ownerEcho{},
		Secret:         testSecret,
		Log:            zerolog.Nop(),
		Readiness: []handlers.Dependency{
			{Name: "mongodb", Ping: func(context.Context) error { return nil }},
		},
	})
}

func do(e *echo.Echo, method, path, body, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v (%s)", err, rec.Body.String())
	}
	return resp.Error
}

func TestRouter_RegisterLoginAndAccess(t *testing.T) {
	e := newTestRouter()

	rec := do(e, http.MethodPost, "/register", `{"name":"Ana","email":"ana@example.com","password":"s3cret"}`, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	if strings.Contains(strings.ToLower(rec.Body.String()), "password") {
		t.Fatalf("register response exposes password: %s", rec.Body.String())
	}

	rec = do(e, http.MethodPost, "/register", `{"name":"Ana","email":"ana@example.com","password":"other"}`, "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate register: expected 409, got %d", rec.Code)
	}

	rec = do(e, http.MethodPost, "/login", `{"email":"ana@example.com","password":"s3cret"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	var login struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &login); err != nil || login.AccessToken == "" {
		t.Fatalf("login: no access token in %s", rec.Body.String())
	}

	rec = do(e, http.MethodGet, "/messages", "", login.AccessToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("messages: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"title":"user-ana@example.com"`) {
		t.Fatalf("messages not scoped to token identity: %s", rec.Body.String())
	}
}

func TestRouter_LoginFailures(t *testing.T) {
	e := newTestRouter()
	_ = do(e, http.MethodPost, "/register", `{"name":"Ana","email":"ana@example.com","password":"s3cret"}`, "")

	rec := do(e, http.MethodPost, "/login", `{"email":"nobody@example.com","password":"s3cret"}`, "")
	if rec.Code != http.StatusBadRequest || errorBody(t, rec) != "user not found" {
		t.Fatalf("unknown user: got %d %s", rec.Code, rec.Body.String())
	}

	rec = do(e, http.MethodPost, "/login", `{"email":"ana@example.com","password":"wrong"}`, "")
	if rec.Code != http.StatusBadRequest || errorBody(t, rec) != "Password errata" {
		t.Fatalf("wrong password: got %d %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_ProtectedRoutes(t *testing.T) {
	e := newTestRouter()
	now := time.Now()

	valid, err := token.Issue("owner", testSecret, now, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	expired, err := token.Issue("owner", testSecret, now.Add(-2*time.Hour), time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	forged, err := token.Issue("owner", []byte("another-secret"), now, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	tests := []struct {
		name   string
		bearer string
		header string
		code   int
		body   string
	}{
		{name: "no header", code: http.StatusUnauthorized, body: "missing access token"},
		{name: "wrong scheme", header: "Basic " + valid, code: http.StatusUnauthorized, body: "missing access token"},
		{name: "garbage", bearer: "not-a-token", code: http.StatusForbidden, body: "invalid or expired token"},
		{name: "forged", bearer: forged, code: http.StatusForbidden, body: "invalid or expired token"},
		{name: "expired", bearer: expired, code: http.StatusForbidden, body: "invalid or expired token"},
		{name: "valid", bearer: valid, code: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/messages/m1", nil)
			switch {
			case tt.header != "":
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			case tt.bearer != "":
				req.Header.Set(echo.HeaderAuthorization, "Bearer "+tt.bearer)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			if rec.Code != tt.code {
				t.Fatalf("expected %d, got %d (%s)", tt.code, rec.Code, rec.Body.String())
			}
			if tt.body != "" && errorBody(t, rec) != tt.body {
				t.Fatalf("expected body %q, got %s", tt.body, rec.Body.String())
			}
		})
	}
}

func TestRouter_ForeignMessageIsNotFound(t *testing.T) {
	e := newTestRouter()
	tok, err := token.Issue("intruder", testSecret, time.Now(), time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	rec := do(e, http.MethodGet, "/messages/m1", "", tok)
	if rec.Code != http.StatusNotFound || errorBody(t, rec) != "message not found" {
		t.Fatalf("expected 404, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_Probes(t *testing.T) {
	e := newTestRouter()

	if rec := do(e, http.MethodGet, "/health", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", rec.Code)
	}
	if rec := do(e, http.MethodGet, "/health/ready", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("ready: expected 200, got %d", rec.Code)
	}
	rec := do(e, http.MethodGet, "/metrics", "", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "go_goroutines") {
		t.Fatalf("metrics: unexpected response %d", rec.Code)
	}
}

func TestRouter_UnknownRouteUsesEnvelope(t *testing.T) {
	e := newTestRouter()
	rec := do(e, http.MethodGet, "/nope", "", "")
	if rec.Code != http.StatusNotFound || errorBody(t, rec) == "" {
		t.Fatalf("expected enveloped 404, got %d %s", rec.Code, rec.Body.String())
	}
}
