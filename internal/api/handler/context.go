package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/todomessages/todo-api/internal/api/middleware"
	"github.com/todomessages/todo-api/internal/core/domain"
)

// ctxUserID returns the caller identity attached by the Auth middleware. Its
// absence means the route was mounted without Auth; answer as unauthenticated.
func ctxUserID(c echo.Context) (string, error) {
	id := middleware.UserID(c)
	if id == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, domain.ErrUnauthorized.Error())
	}
	return id, nil
}
