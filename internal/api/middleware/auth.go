package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/todomessages/todo-api/internal/core/domain"
	"github.com/todomessages/todo-api/internal/core/token"
	"github.com/todomessages/todo-api/internal/metrics"
)

const userIDKey = "user_id"

// UserID returns the identity attached by Auth, or "" outside protected routes.
func UserID(c echo.Context) string {
	id, _ := c.Get(userIDKey).(string)
	return id
}

// Auth verifies the bearer token of every request and attaches the caller's
// user id to the context. A missing token is 401; a bad or expired one is 403
// with the same body either way.
func Auth(secret []byte, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				metrics.TokenRejectionsTotal.WithLabelValues("missing").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, domain.ErrUnauthorized.Error())
			}

			id, err := token.Verify(raw, secret, time.Now())
			if err != nil {
				reason := "invalid"
				if errors.Is(err, token.ErrExpired) {
					reason = "expired"
				}
				metrics.TokenRejectionsTotal.WithLabelValues(reason).Inc()
				log.Debug().Str("reason", reason).Str("path", c.Path()).Msg("access token rejected")
				return echo.NewHTTPError(http.StatusForbidden, domain.ErrForbidden.Error())
			}

			c.Set(userIDKey, id.UserID)
			return next(c)
		}
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header value.
func bearerToken(header string) (string, bool) {
	scheme, raw, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	raw = strings.TrimSpace(raw)
	return raw, raw != ""
}
