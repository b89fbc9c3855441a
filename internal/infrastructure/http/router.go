// Package http is the notifier's local shell: the HTTP surface through which
// the notification center is observed and driven.
package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/todomessages/todo-api/internal/infrastructure/http/handlers"
)

// NewRouter builds and returns the Echo instance with all shell routes registered.
func NewRouter(tray handlers.Tray, host handlers.ClickDispatcher, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			ev := log.Debug()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	}))

	healthHandler := handlers.NewHealthHandler()
	notificationHandler := handlers.NewNotificationHandler(tray, host)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	e.GET("/notifications", notificationHandler.List)
	e.POST("/notifications/:tag/click", notificationHandler.Click)
	e.GET("/windows", notificationHandler.Windows)
	e.POST("/windows", notificationHandler.RegisterWindow)

	return e
}
