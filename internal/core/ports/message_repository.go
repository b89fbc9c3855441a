package ports

import (
	"context"

	"github.com/todomessages/todo-api/internal/core/domain"
)

// MessageRepository persists todo messages. Every lookup is scoped by owner;
// a message owned by someone else is reported as domain.ErrMessageNotFound.
type MessageRepository interface {
	Create(ctx context.Context, m *domain.Message) (*domain.Message, error)
	FindByID(ctx context.Context, userID, id string) (*domain.Message, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Message, error)
	Update(ctx context.Context, userID, id string, patch domain.MessagePatch) (*domain.Message, error)
	Delete(ctx context.Context, userID, id string) error
}
