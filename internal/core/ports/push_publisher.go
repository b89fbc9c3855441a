package ports

import (
	"context"

	"github.com/todomessages/todo-api/internal/notification"
)

// PushPublisher hands a push payload to the delivery transport for one user.
type PushPublisher interface {
	Publish(ctx context.Context, userID string, payload notification.PushPayload) error
}
