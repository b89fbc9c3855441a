package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/todomessages/todo-api/internal/core/domain"
	"github.com/todomessages/todo-api/internal/core/ports"
)

// MessageHandler serves the caller's todo messages. Errors are returned to
// the echo error handler, which owns the status mapping.
type MessageHandler struct {
	service ports.MessageService
}

func NewMessageHandler(service ports.MessageService) *MessageHandler {
	return &MessageHandler{service: service}
}

// Create handles POST /messages.
//
// @Summary      Create a todo message
// @Tags         messages
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createMessageRequest  true  "Message"
// @Success      201   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /messages [post]
func (h *MessageHandler) Create(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req createMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	m, err := h.service.Create(c.Request().Context(), ports.CreateMessageInput{
		UserID: userID,
		Title:  req.Title,
		Body:   req.Body,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toMessageResponse(m))
}

// List handles GET /messages.
//
// @Summary      List the caller's todo messages
// @Tags         messages
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listMessagesResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /messages [get]
func (h *MessageHandler) List(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	msgs, err := h.service.List(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	items := make([]messageResponse, 0, len(msgs))
	for _, m := range msgs {
		items = append(items, toMessageResponse(m))
	}
	return c.JSON(http.StatusOK, listMessagesResponse{Items: items, Total: len(items)})
}

// Get handles GET /messages/:id.
//
// @Summary      Get a todo message
// @Tags         messages
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Message id"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  map[string]string
// @Router       /messages/{id} [get]
func (h *MessageHandler) Get(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	m, err := h.service.Get(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toMessageResponse(m))
}

// Update handles PATCH /messages/:id.
//
// @Summary      Update a todo message
// @Tags         messages
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Message id"
// @Param        body  body      updateMessageRequest  true  "Fields to change"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /messages/{id} [patch]
func (h *MessageHandler) Update(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req updateMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	m, err := h.service.Update(c.Request().Context(), userID, c.Param("id"), domain.MessagePatch{
		Title:     req.Title,
		Body:      req.Body,
		Completed: req.Completed,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toMessageResponse(m))
}

// Delete handles DELETE /messages/:id.
//
// @Summary      Delete a todo message
// @Tags         messages
// @Security     BearerAuth
// @Param        id   path  string  true  "Message id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /messages/{id} [delete]
func (h *MessageHandler) Delete(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), userID, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func toMessageResponse(m *domain.Message) messageResponse {
	return messageResponse{
		ID:        m.ID,
		Title:     m.Title,
		Body:      m.Body,
		Completed: m.Completed,
		CreatedAt: m.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: m.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
