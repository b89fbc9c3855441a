package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/todomessages/todo-api/internal/core/domain"
	"github.com/todomessages/todo-api/internal/core/ports"
	"github.com/todomessages/todo-api/internal/metrics"
	"github.com/todomessages/todo-api/internal/notification"
)

const (
	pushTitle          = "New todo"
	dashboardURLPrefix = notification.DefaultDashboardPath + "/"
)

// MessageService implements the todo-message use cases and pushes a
// notification to the owner whenever a message is created.
type MessageService struct {
	repo   ports.MessageRepository
	push   ports.PushPublisher
	now    func() time.Time
	logger zerolog.Logger
}

func NewMessageService(repo ports.MessageRepository, push ports.PushPublisher, logger zerolog.Logger) *MessageService {
	return &MessageService{repo: repo, push: push, now: time.Now, logger: logger}
}

// Create stores a message. A failed push is logged; the message stays created.
func (s *MessageService) Create(ctx context.Context, in ports.CreateMessageInput) (*domain.Message, error) {
	title := strings.TrimSpace(in.Title)
	if in.UserID == "" || title == "" {
		return nil, domain.ErrInvalidInput
	}

	now := s.now().UTC()
	m, err := s.repo.Create(ctx, &domain.Message{
		UserID:    in.UserID,
		Title:     title,
		Body:      in.Body,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, err
	}
	metrics.MessagesCreatedTotal.Inc()

	payload := notification.PushPayload{
		Title: pushTitle,
		Body:  m.Title,
		Data:  notification.PushData{URL: dashboardURLPrefix + m.ID},
	}
	if err := s.push.Publish(ctx, m.UserID, payload); err != nil {
		metrics.PushPublishedTotal.WithLabelValues("error").Inc()
		s.logger.Warn().Err(err).Str("user_id", m.UserID).Str("message_id", m.ID).Msg("push publish failed")
	} else {
		metrics.PushPublishedTotal.WithLabelValues("ok").Inc()
	}

	s.logger.Info().Str("user_id", m.UserID).Str("message_id", m.ID).Msg("message created")
	return m, nil
}

func (s *MessageService) Get(ctx context.Context, userID, id string) (*domain.Message, error) {
	return s.repo.FindByID(ctx, userID, id)
}

func (s *MessageService) List(ctx context.Context, userID string) ([]*domain.Message, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Update applies a partial update. An empty patch or a blank title is refused.
func (s *MessageService) Update(ctx context.Context, userID, id string, patch domain.MessagePatch) (*domain.Message, error) {
	if patch.Empty() {
		return nil, domain.ErrInvalidInput
	}
	if patch.Title != nil {
		t := strings.TrimSpace(*patch.Title)
		if t == "" {
			return nil, domain.ErrInvalidInput
		}
		patch.Title = &t
	}
	return s.repo.Update(ctx, userID, id, patch)
}

func (s *MessageService) Delete(ctx context.Context, userID, id string) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", userID).Str("message_id", id).Msg("message deleted")
	return nil
}
