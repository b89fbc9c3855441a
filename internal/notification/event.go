package notification

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// ErrEventInactive is returned by WaitUntil once the event has finished
// dispatching and has no work left to keep it alive.
var ErrEventInactive = errors.New("event is no longer active")

// Work is asynchronous handler work that keeps its event alive until it returns.
type Work func(ctx context.Context) error

// ExtendableEvent is the lifetime handle passed to a handler. The host does not
// consider the event complete until every Work registered through WaitUntil
// has returned.
type ExtendableEvent struct {
	ID string

	ctx         context.Context
	mu          sync.Mutex
	dispatching bool
	pending     int
	wg          sync.WaitGroup
	errs        []error
}

func newExtendableEvent(ctx context.Context) *ExtendableEvent {
	return &ExtendableEvent{
		ID:          uuid.NewString(),
		ctx:         context.WithoutCancel(ctx),
		dispatching: true,
	}
}

// WaitUntil runs w in the background and extends the event's lifetime until it
// returns. It may be called while the handler runs or from inside other work
// that is still pending.
func (e *ExtendableEvent) WaitUntil(w Work) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.dispatching && e.pending == 0 {
		return ErrEventInactive
	}
	e.pending++
	e.wg.Add(1)

	go func() {
		defer e.settle()
		defer func() {
			if r := recover(); r != nil {
				e.fail(fmt.Errorf("work panicked: %v", r))
			}
		}()
		if err := w(e.ctx); err != nil {
			e.fail(err)
		}
	}()
	return nil
}

func (e *ExtendableEvent) fail(err error) {
	e.mu.Lock()
	e.errs = append(e.errs, err)
	e.mu.Unlock()
}

func (e *ExtendableEvent) settle() {
	e.mu.Lock()
	e.pending--
	e.mu.Unlock()
	e.wg.Done()
}

// endDispatch is called by the host once the handler has returned.
func (e *ExtendableEvent) endDispatch() {
	e.mu.Lock()
	e.dispatching = false
	e.mu.Unlock()
}

// wait blocks until all registered work has settled and returns its errors.
func (e *ExtendableEvent) wait() error {
	e.wg.Wait()

	e.mu.Lock()
	defer e.mu.Unlock()
	return errors.Join(e.errs...)
}

// PushEvent wakes the presenter when a push message arrives.
type PushEvent struct {
	*ExtendableEvent
	Data []byte
}

// ClickEvent reports a user interaction with a shown notification. Action is
// empty for a click on the notification body.
type ClickEvent struct {
	*ExtendableEvent
	Action       string
	Notification Notification
}
