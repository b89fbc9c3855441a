package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/todomessages/todo-api/internal/infrastructure/notifycenter"
	"github.com/todomessages/todo-api/internal/notification"
)

// Tray is the notification center as seen by the shell.
type Tray interface {
	Visible() []notifycenter.Visible
	Lookup(tag string) (notification.Notification, bool)
	Windows() []notifycenter.WindowState
	Register(url string) *notifycenter.Window
}

// ClickDispatcher delivers a notification click to the presenter.
type ClickDispatcher interface {
	Click(ctx context.Context, n notification.Notification, action string) error
}

// NotificationHandler lets a local shell read the tray, report clicks and
// announce the application windows it has open.
type NotificationHandler struct {
	tray Tray
	host ClickDispatcher
}

func NewNotificationHandler(tray Tray, host ClickDispatcher) *NotificationHandler {
	return &NotificationHandler{tray: tray, host: host}
}

type clickRequest struct {
	Action string `json:"action"`
}

type registerWindowRequest struct {
	URL string `json:"url"`
}

// List handles GET /notifications.
func (h *NotificationHandler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, h.tray.Visible())
}

// Click handles POST /notifications/:tag/click. The click is delivered to the
// presenter and the response is sent once the event has settled.
func (h *NotificationHandler) Click(c echo.Context) error {
	var req clickRequest
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
		}
	}

	tag := c.Param("tag")
	n, ok := h.tray.Lookup(tag)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "notification not found")
	}

	if err := h.host.Click(c.Request().Context(), n, req.Action); err != nil {
		// The click was consumed; only the routing work failed.
		return c.JSON(http.StatusAccepted, map[string]string{"status": "failed", "error": err.Error()})
	}
	return c.JSON(http.StatusAccepted, map[string]string{"status": "handled"})
}

// Windows handles GET /windows.
func (h *NotificationHandler) Windows(c echo.Context) error {
	return c.JSON(http.StatusOK, h.tray.Windows())
}

// RegisterWindow handles POST /windows.
func (h *NotificationHandler) RegisterWindow(c echo.Context) error {
	var req registerWindowRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	url := strings.TrimSpace(req.URL)
	if url == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "url is required")
	}

	w := h.tray.Register(url)
	return c.JSON(http.StatusCreated, notifycenter.WindowState{ID: w.ID(), URL: url, Focused: true})
}
