package ports

import (
	"context"

	"github.com/todomessages/todo-api/internal/core/domain"
)

// AuthRepository is the credential store. Create must report a duplicate email
// as domain.ErrUserExists without touching the existing record.
type AuthRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}
