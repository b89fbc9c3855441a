// Package notifycenter is the notifier's local notification surface: a tray
// holding at most one visible notification per tag, and the registry of open
// application windows that clicks are routed to.
package notifycenter

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/todomessages/todo-api/internal/notification"
)

// Center implements notification.Platform.
type Center struct {
	mu      sync.Mutex
	visible map[string]*shown // by tag
	windows []*Window
	seq     uint64
	now     func() time.Time
	log     zerolog.Logger
}

func New(log zerolog.Logger) *Center {
	return &Center{
		visible: make(map[string]*shown),
		now:     time.Now,
		log:     log,
	}
}

// Visible is a snapshot entry of the tray.
type Visible struct {
	ID         string                  `json:"id"`
	ShownAt    time.Time               `json:"shownAt"`
	Descriptor notification.Descriptor `json:"notification"`
}

type shown struct {
	id     string
	seq    uint64
	at     time.Time
	d      notification.Descriptor
	center *Center
}

func (s *shown) Descriptor() notification.Descriptor { return s.d }

// Close removes s from the tray if it is still the visible one for its tag.
func (s *shown) Close() {
	c := s.center
	c.mu.Lock()
	defer c.mu.Unlock()
	if cur, ok := c.visible[s.d.Tag]; ok && cur == s {
		delete(c.visible, s.d.Tag)
		c.log.Debug().Str("notification_id", s.id).Str("tag", s.d.Tag).Msg("notification closed")
	}
}

// ShowNotification puts d on screen, replacing any notification with its tag.
func (c *Center) ShowNotification(_ context.Context, d notification.Descriptor) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	s := &shown{id: uuid.NewString(), seq: c.seq, at: c.now(), d: d, center: c}
	key := d.Tag
	if key == "" {
		key = s.id
	}
	if prev, ok := c.visible[key]; ok {
		c.log.Debug().Str("replaced_id", prev.id).Str("tag", key).Msg("notification replaced")
	}
	c.visible[key] = s

	c.log.Info().
		Str("notification_id", s.id).
		Str("tag", d.Tag).
		Str("title", d.Title).
		Str("url", d.Data.URL).
		Msg("notification shown")
	return nil
}

// Lookup returns the visible notification with tag.
func (c *Center) Lookup(tag string) (notification.Notification, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.visible[tag]
	if !ok {
		return nil, false
	}
	return s, true
}

// Visible lists the tray, oldest first.
func (c *Center) Visible() []Visible {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries := make([]*shown, 0, len(c.visible))
	for _, s := range c.visible {
		entries = append(entries, s)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })

	out := make([]Visible, 0, len(entries))
	for _, s := range entries {
		out = append(out, Visible{ID: s.id, ShownAt: s.at, Descriptor: s.d})
	}
	return out
}

// MatchWindows lists the open application windows in the order they were opened.
func (c *Center) MatchWindows(context.Context) ([]notification.Window, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]notification.Window, 0, len(c.windows))
	for _, w := range c.windows {
		out = append(out, w)
	}
	return out, nil
}

// OpenWindow registers a new focused window at url.
func (c *Center) OpenWindow(_ context.Context, url string) error {
	w := c.Register(url)
	c.log.Info().Str("window_id", w.id).Str("url", url).Msg("window opened")
	return nil
}

// Register records a window that is already open at url and focuses it.
func (c *Center) Register(url string) *Window {
	c.mu.Lock()
	defer c.mu.Unlock()

	w := &Window{id: uuid.NewString(), url: url, center: c}
	c.windows = append(c.windows, w)
	c.focusLocked(w)
	return w
}

// Windows snapshots the window registry.
func (c *Center) Windows() []WindowState {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]WindowState, 0, len(c.windows))
	for _, w := range c.windows {
		out = append(out, WindowState{ID: w.id, URL: w.url, Focused: w.focused})
	}
	return out
}

func (c *Center) focusLocked(target *Window) {
	for _, w := range c.windows {
		w.focused = w == target
	}
}

// WindowState is a snapshot of a Window.
type WindowState struct {
	ID      string `json:"id"`
	URL     string `json:"url"`
	Focused bool   `json:"focused"`
}

// Window is an application window known to the Center.
type Window struct {
	id      string
	url     string
	focused bool
	center  *Center
}

func (w *Window) ID() string { return w.id }

func (w *Window) URL() string {
	w.center.mu.Lock()
	defer w.center.mu.Unlock()
	return w.url
}

// Focus brings w to the foreground.
func (w *Window) Focus(context.Context) error {
	w.center.mu.Lock()
	w.center.focusLocked(w)
	w.center.mu.Unlock()

	w.center.log.Info().Str("window_id", w.id).Str("url", w.url).Msg("window focused")
	return nil
}
