package notification

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/todomessages/todo-api/internal/metrics"
)

// Presenter turns push events into notifications and notification clicks into
// window focus or navigation.
type Presenter struct {
	platform      Platform
	dashboardPath string
	icon          string
	badge         string
	log           zerolog.Logger
}

// Option customises a Presenter.
type Option func(*Presenter)

// WithDashboardPath sets the in-app path that marks a window as reusable.
func WithDashboardPath(path string) Option {
	return func(p *Presenter) {
		if path != "" {
			p.dashboardPath = path
		}
	}
}

// WithAssets overrides the icon and badge asset paths.
func WithAssets(icon, badge string) Option {
	return func(p *Presenter) {
		p.icon, p.badge = icon, badge
	}
}

func NewPresenter(platform Platform, log zerolog.Logger, opts ...Option) *Presenter {
	p := &Presenter{
		platform:      platform,
		dashboardPath: DefaultDashboardPath,
		icon:          DefaultIcon,
		badge:         DefaultBadge,
		log:           log,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// OnPush shows the notification described by the event payload. A payload
// that does not decode is logged and dropped.
func (p *Presenter) OnPush(e *PushEvent) {
	payload, err := ParsePayload(e.Data)
	if err != nil {
		metrics.PushEventsTotal.WithLabelValues("payload_error").Inc()
		p.log.Warn().Err(err).Str("event_id", e.ID).Msg("push payload dropped")
		return
	}

	d := newDescriptor(payload, p.icon, p.badge)
	_ = e.WaitUntil(func(ctx context.Context) error {
		if err := p.platform.ShowNotification(ctx, d); err != nil {
			metrics.PushEventsTotal.WithLabelValues("failed").Inc()
			return fmt.Errorf("show notification: %w", err)
		}
		metrics.PushEventsTotal.WithLabelValues("shown").Inc()
		p.log.Debug().Str("event_id", e.ID).Str("tag", d.Tag).Msg("notification shown")
		return nil
	})
}

// OnClick closes the clicked notification and, unless the close action was
// chosen, brings the application to the notification's target.
func (p *Presenter) OnClick(e *ClickEvent) {
	e.Notification.Close()

	action := e.Action
	if action == "" {
		action = "default"
	}
	if e.Action == ActionClose {
		metrics.NotificationClicksTotal.WithLabelValues(action, "dismissed").Inc()
		return
	}

	url := e.Notification.Descriptor().Data.URL
	if url == "" {
		metrics.NotificationClicksTotal.WithLabelValues(action, "dismissed").Inc()
		return
	}

	_ = e.WaitUntil(func(ctx context.Context) error {
		outcome, err := p.focusOrOpen(ctx, url)
		metrics.NotificationClicksTotal.WithLabelValues(action, outcome).Inc()
		if err != nil {
			return err
		}
		p.log.Debug().Str("event_id", e.ID).Str("url", url).Str("outcome", outcome).Msg("notification click routed")
		return nil
	})
}

func (p *Presenter) focusOrOpen(ctx context.Context, url string) (string, error) {
	windows, err := p.platform.MatchWindows(ctx)
	if err != nil {
		return "failed", fmt.Errorf("match windows: %w", err)
	}

	for _, w := range windows {
		if strings.Contains(w.URL(), p.dashboardPath) {
			if err := w.Focus(ctx); err != nil {
				return "failed", fmt.Errorf("focus window: %w", err)
			}
			return "focused", nil
		}
	}

	if err := p.platform.OpenWindow(ctx, url); err != nil {
		return "failed", fmt.Errorf("open window: %w", err)
	}
	return "opened", nil
}
