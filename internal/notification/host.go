package notification

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/todomessages/todo-api/internal/metrics"
)

// Host delivers events to a Presenter the way a background-script runtime
// does: each handler runs to completion with panics contained, and the event
// is held open until the work it registered through WaitUntil settles.
type Host struct {
	presenter *Presenter
	log       zerolog.Logger
	inflight  sync.WaitGroup
}

func NewHost(presenter *Presenter, log zerolog.Logger) *Host {
	return &Host{presenter: presenter, log: log}
}

// Push dispatches a push event carrying data. It returns once the event has
// settled; the error is the joined failure of its deferred work, if any.
func (h *Host) Push(ctx context.Context, data []byte) error {
	ev := &PushEvent{ExtendableEvent: newExtendableEvent(ctx), Data: data}
	return h.dispatch("push", ev.ExtendableEvent, func() { h.presenter.OnPush(ev) })
}

// Click dispatches a click on n. An empty action is a click on the body.
func (h *Host) Click(ctx context.Context, n Notification, action string) error {
	ev := &ClickEvent{ExtendableEvent: newExtendableEvent(ctx), Action: action, Notification: n}
	return h.dispatch("click", ev.ExtendableEvent, func() { h.presenter.OnClick(ev) })
}

// Wait blocks until every event dispatched so far has settled. Stop the event
// sources before calling it.
func (h *Host) Wait() {
	h.inflight.Wait()
}

func (h *Host) dispatch(kind string, ev *ExtendableEvent, handler func()) error {
	h.inflight.Add(1)
	defer h.inflight.Done()

	start := time.Now()
	if err := runHandler(handler); err != nil {
		h.log.Error().Err(err).Str("kind", kind).Str("event_id", ev.ID).Msg("event handler failed")
	}
	ev.endDispatch()

	err := ev.wait()
	metrics.EventLifetimeDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	if err != nil {
		h.log.Error().Err(err).Str("kind", kind).Str("event_id", ev.ID).Msg("event work failed")
	}
	return err
}

func runHandler(handler func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	handler()
	return nil
}
