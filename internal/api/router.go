package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/todomessages/todo-api/docs"
	"github.com/todomessages/todo-api/internal/api/handler"
	"github.com/todomessages/todo-api/internal/api/middleware"
	"github.com/todomessages/todo-api/internal/core/ports"
	"github.com/todomessages/todo-api/internal/infrastructure/http/handlers"
)

// Dependencies is everything the router wires into its handlers.
type Dependencies struct {
	AuthService    ports.AuthService
	MessageService ports.MessageService
	Secret         []byte
	Log            zerolog.Logger
	Readiness      []handlers.Dependency
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.RequestLoggerWithConfig(requestLoggerConfig(deps.Log)))

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(deps.AuthService, deps.Log)
	e.POST("/register", authHandler.Register)
	e.POST("/login", authHandler.Login)

	// --- Protected routes ---
	messageHandler := handler.NewMessageHandler(deps.MessageService)
	messages := e.Group("/messages", middleware.Auth(deps.Secret, deps.Log))
	messages.POST("", messageHandler.Create)
	messages.GET("", messageHandler.List)
	messages.GET("/:id", messageHandler.Get)
	messages.PATCH("/:id", messageHandler.Update)
	messages.DELETE("/:id", messageHandler.Delete)

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	readinessHandler := handlers.NewReadinessHandler(deps.Readiness...)
	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	// --- Ops ---
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func requestLoggerConfig(log zerolog.Logger) echomiddleware.RequestLoggerConfig {
	return echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	}
}
