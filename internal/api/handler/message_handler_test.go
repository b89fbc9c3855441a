package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/todomessages/todo-api/internal/core/domain"
	"github.com/todomessages/todo-api/internal/core/ports"
)

type stubMessageService struct {
	createFn func(ctx context.Context, in ports.CreateMessageInput) (*domain.Message, error)
	getFn    func(ctx context.Context, userID, id string) (*domain.Message, error)
	listFn   func(ctx context.Context, userID string) ([]*domain.Message, error)
	updateFn func(ctx context.Context, userID, id string, patch domain.MessagePatch) (*domain.Message, error)
	deleteFn func(ctx context.Context, userID, id string) error
}

func (s *stubMessageService) Create(ctx context.Context, in ports.CreateMessageInput) (*domain.Message, error) {
	return s.createFn(ctx, in)
}

func (s *stubMessageService) Get(ctx context.Context, userID, id string) (*domain.Message, error) {
	return s.getFn(ctx, userID, id)
}

func (s *stubMessageService) List(ctx context.Context, userID string) ([]*domain.Message, error) {
	return s.listFn(ctx, userID)
}

func (s *stubMessageService) Update(ctx context.Context, userID, id string, patch domain.MessagePatch) (*domain.Message, error) {
	return s.updateFn(ctx, userID, id, patch)
}

func (s *stubMessageService) Delete(ctx context.Context, userID, id string) error {
	return s.deleteFn(ctx, userID, id)
}

var fixedTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newMessageContext(e *echo.Echo, method, path, body, userID string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != "" {
		c.Set("user_id", userID)
	}
	return c, rec
}

func httpCode(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError, got %T (%v)", err, err)
	}
	return he.Code
}

func TestMessageHandler_Create_Success(t *testing.T) {
	e := newEcho()
	svc := &stubMessageService{
		createFn: func(ctx context.Context, in ports.CreateMessageInput) (*domain.Message, error) {
			if in.UserID != "u1" || in.Title != "Buy milk" || in.Body != "2 litres" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.Message{ID: "m1", UserID: in.UserID, Title: in.Title, Body: in.Body, CreatedAt: fixedTime, UpdatedAt: fixedTime}, nil
		},
	}
	h := NewMessageHandler(svc)

	c, rec := newMessageContext(e, http.MethodPost, "/messages", `{"title":"Buy milk","body":"2 litres"}`, "u1")
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp messageResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.ID != "m1" || resp.CreatedAt != "2024-05-01T12:00:00Z" || resp.Completed {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestMessageHandler_Create_MissingTitle(t *testing.T) {
	e := newEcho()
	h := NewMessageHandler(&stubMessageService{})

	c, _ := newMessageContext(e, http.MethodPost, "/messages", `{"body":"no title"}`, "u1")
	if code := httpCode(t, h.Create(c)); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}

func TestMessageHandler_RequiresIdentity(t *testing.T) {
	e := newEcho()
	h := NewMessageHandler(&stubMessageService{})

	c, _ := newMessageContext(e, http.MethodGet, "/messages", "", "")
	if code := httpCode(t, h.List(c)); code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
}

func TestMessageHandler_List(t *testing.T) {
	e := newEcho()
	svc := &stubMessageService{
		listFn: func(ctx context.Context, userID string) ([]*domain.Message, error) {
			if userID != "u1" {
				t.Fatalf("unexpected user: %s", userID)
			}
			return []*domain.Message{
				{ID: "m2", Title: "b", CreatedAt: fixedTime, UpdatedAt: fixedTime},
				{ID: "m1", Title: "a", CreatedAt: fixedTime, UpdatedAt: fixedTime},
			}, nil
		},
	}
	h := NewMessageHandler(svc)

	c, rec := newMessageContext(e, http.MethodGet, "/messages", "", "u1")
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp listMessagesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Total != 2 || resp.Items[0].ID != "m2" || resp.Items[1].ID != "m1" {
		t.Fatalf("unexpected list: %+v", resp)
	}
}

func TestMessageHandler_List_EmptyIsArray(t *testing.T) {
	e := newEcho()
	svc := &stubMessageService{
		listFn: func(ctx context.Context, userID string) ([]*domain.Message, error) { return nil, nil },
	}
	h := NewMessageHandler(svc)

	c, rec := newMessageContext(e, http.MethodGet, "/messages", "", "u1")
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"items":[]`) {
		t.Fatalf("expected empty items array, got %s", rec.Body.String())
	}
}

func TestMessageHandler_Get_NotFound(t *testing.T) {
	e := newEcho()
	svc := &stubMessageService{
		getFn: func(ctx context.Context, userID, id string) (*domain.Message, error) {
			return nil, domain.ErrMessageNotFound
		},
	}
	h := NewMessageHandler(svc)

	c, _ := newMessageContext(e, http.MethodGet, "/messages/m9", "", "u1")
	c.SetParamNames("id")
	c.SetParamValues("m9")

	if err := h.Get(c); !errors.Is(err, domain.ErrMessageNotFound) {
		t.Fatalf("expected ErrMessageNotFound, got %v", err)
	}
}

func TestMessageHandler_Update_PassesPatch(t *testing.T) {
	e := newEcho()
	svc := &stubMessageService{
		updateFn: func(ctx context.Context, userID, id string, patch domain.MessagePatch) (*domain.Message, error) {
			if id != "m1" || patch.Title != nil || patch.Body != nil || patch.Completed == nil || !*patch.Completed {
				t.Fatalf("unexpected patch for %s: %+v", id, patch)
			}
			return &domain.Message{ID: id, Title: "a", Completed: true, CreatedAt: fixedTime, UpdatedAt: fixedTime}, nil
		},
	}
	h := NewMessageHandler(svc)

	c, rec := newMessageContext(e, http.MethodPatch, "/messages/m1", `{"completed":true}`, "u1")
	c.SetParamNames("id")
	c.SetParamValues("m1")

	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"completed":true`) {
		t.Fatalf("unexpected response %d: %s", rec.Code, rec.Body.String())
	}
}

func TestMessageHandler_Delete(t *testing.T) {
	e := newEcho()
	var deleted string
	svc := &stubMessageService{
		deleteFn: func(ctx context.Context, userID, id string) error {
			deleted = userID + "/" + id
			return nil
		},
	}
	h := NewMessageHandler(svc)

	c, rec := newMessageContext(e, http.MethodDelete, "/messages/m1", "", "u1")
	c.SetParamNames("id")
	c.SetParamValues("m1")

	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent || deleted != "u1/m1" {
		t.Fatalf("unexpected result %d %q", rec.Code, deleted)
	}
}
