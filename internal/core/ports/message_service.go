package ports

import (
	"context"

	"github.com/todomessages/todo-api/internal/core/domain"
)

// CreateMessageInput is the DTO passed from the transport layer to MessageService.
type CreateMessageInput struct {
	UserID string
	Title  string
	Body   string
}

// MessageService defines the todo-message use cases for an authenticated user.
type MessageService interface {
	Create(ctx context.Context, in CreateMessageInput) (*domain.Message, error)
	Get(ctx context.Context, userID, id string) (*domain.Message, error)
	List(ctx context.Context, userID string) ([]*domain.Message, error)
	Update(ctx context.Context, userID, id string, patch domain.MessagePatch) (*domain.Message, error)
	Delete(ctx context.Context, userID, id string) error
}
