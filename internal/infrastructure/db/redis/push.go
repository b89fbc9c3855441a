package redis

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/todomessages/todo-api/internal/notification"
)

// channelPrefix namespaces the per-user push channels: push:<user id>.
const channelPrefix = "push:"

// Channel returns the pub/sub channel carrying pushes for userID.
func Channel(userID string) string {
	return channelPrefix + userID
}

// UserFromChannel is the inverse of Channel.
func UserFromChannel(channel string) (string, bool) {
	if !strings.HasPrefix(channel, channelPrefix) {
		return "", false
	}
	id := strings.TrimPrefix(channel, channelPrefix)
	return id, id != ""
}

// PushPublisher publishes push payloads on per-user channels.
type PushPublisher struct {
	client *redis.Client
}

func NewPushPublisher(client *redis.Client) *PushPublisher {
	return &PushPublisher{client: client}
}

// Publish sends payload to every subscriber of userID's channel. Nobody
// listening is not an error: pushes are fire and forget.
func (p *PushPublisher) Publish(ctx context.Context, userID string, payload notification.PushPayload) error {
	raw, err := payload.Encode()
	if err != nil {
		return fmt.Errorf("encode push: %w", err)
	}
	if err := p.client.Publish(ctx, Channel(userID), raw).Err(); err != nil {
		return fmt.Errorf("publish push: %w", err)
	}
	return nil
}

// PushSubscriber receives push payloads for one user.
type PushSubscriber struct {
	client *redis.Client
}

func NewPushSubscriber(client *redis.Client) *PushSubscriber {
	return &PushSubscriber{client: client}
}

// Run subscribes to userID's channel and calls deliver for every message until
// ctx is cancelled. The subscription is confirmed before Run starts reading.
func (s *PushSubscriber) Run(ctx context.Context, userID string, deliver func(channel string, payload []byte)) error {
	sub := s.client.Subscribe(ctx, Channel(userID))
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", Channel(userID), err)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			deliver(msg.Channel, []byte(msg.Payload))
		}
	}
}
