// @title                       Todo Messages API
// @version                     1.0
// @description                 Registration, login and token-protected todo messages.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/todomessages/todo-api/internal/api"
	"github.com/todomessages/todo-api/internal/core/service"
	"github.com/todomessages/todo-api/internal/infrastructure/db/mongo"
	"github.com/todomessages/todo-api/internal/infrastructure/db/redis"
	"github.com/todomessages/todo-api/internal/infrastructure/http/handlers"
	"github.com/todomessages/todo-api/internal/pkg/config"
	"github.com/todomessages/todo-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Init(logger.Options{Service: "api"})
		l := logger.Get()
		l.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{Service: "api", Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	store, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongodb disconnect")
		}
	}()

	rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer rdb.Close()

	authService := service.NewAuthService(store.Users, cfg.AccessTokenSecret, cfg.AccessTokenTTL, logger.Component("auth"))
	messageService := service.NewMessageService(store.Messages, redis.NewPushPublisher(rdb), logger.Component("messages"))

	e := api.NewRouter(api.Dependencies{
		AuthService:    authService,
		MessageService: messageService,
		Secret:         cfg.AccessTokenSecret,
		Log:            logger.Component("http"),
		Readiness: []handlers.Dependency{
			{Name: "mongodb", Ping: store.Ping},
			{Name: "redis", Ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() }},
		},
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("api listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
