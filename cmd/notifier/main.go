// Command notifier is the background agent that presents push notifications
// for one user and routes clicks on them to the application.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/todomessages/todo-api/internal/infrastructure/db/redis"
	shell "github.com/todomessages/todo-api/internal/infrastructure/http"
	"github.com/todomessages/todo-api/internal/infrastructure/notifycenter"
	"github.com/todomessages/todo-api/internal/infrastructure/queue"
	"github.com/todomessages/todo-api/internal/notification"
	"github.com/todomessages/todo-api/internal/pkg/config"
	"github.com/todomessages/todo-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadNotifier(ctx)
	if err != nil {
		logger.Init(logger.Options{Service: "notifier"})
		l := logger.Get()
		l.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{Service: "notifier", Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer rdb.Close()

	center := notifycenter.New(logger.Component("center"))
	presenter := notification.NewPresenter(center, logger.Component("presenter"),
		notification.WithDashboardPath(cfg.DashboardPath))
	host := notification.NewHost(presenter, logger.Component("host"))

	// Workers are not tied to the signal context so Close can drain them.
	dispatcher := queue.NewDispatcher(cfg.Workers, host, logger.Component("dispatcher"))
	dispatcher.Start(context.Background())

	subscribed := make(chan error, 1)
	go func() {
		subscribed <- redis.NewPushSubscriber(rdb).Run(ctx, cfg.UserID, func(channel string, payload []byte) {
			if !dispatcher.Enqueue(queue.Delivery{Channel: channel, Payload: payload}) {
				log.Warn().Str("channel", channel).Msg("push dropped: dispatcher closed")
			}
		})
	}()

	e := shell.NewRouter(center, host, logger.Component("shell"))
	go func() {
		log.Info().Str("port", cfg.Port).Str("channel", redis.Channel(cfg.UserID)).Msg("notifier listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-subscribed:
		if err != nil {
			log.Error().Err(err).Msg("push subscription ended")
		}
		stop()
	}
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}

	// Event sources are stopped; let queued pushes and their work finish.
	dispatcher.Close()
	host.Wait()
	log.Info().Msg("notifier stopped")
}
