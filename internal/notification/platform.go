package notification

import "context"

// Notification is a notification currently shown by the platform.
type Notification interface {
	Descriptor() Descriptor
	// Close removes the notification from screen. Closing twice is a no-op.
	Close()
}

// Window is an open application window.
type Window interface {
	URL() string
	Focus(ctx context.Context) error
}

// Platform is the host surface the presenter renders into: the notification
// tray and the set of application windows.
type Platform interface {
	// ShowNotification displays d, replacing any visible notification with the
	// same tag.
	ShowNotification(ctx context.Context, d Descriptor) error
	MatchWindows(ctx context.Context) ([]Window, error)
	OpenWindow(ctx context.Context, url string) error
}
