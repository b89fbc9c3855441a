package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultTimeout = 10 * time.Second

// Config captures the settings required to reach the database.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Store bundles the client, the selected database and its repositories.
type Store struct {
	Client   *mongo.Client
	DB       *mongo.Database
	Users    *UserRepository
	Messages *MessageRepository
}

// Connect dials the server, verifies it with a ping and creates the indexes
// the repositories depend on.
func Connect(ctx context.Context, cfg Config) (*Store, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	s := &Store{
		Client:   client,
		DB:       db,
		Users:    NewUserRepository(db),
		Messages: NewMessageRepository(db),
	}

	if err := s.Users.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("users indexes: %w", err)
	}
	if err := s.Messages.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("messages indexes: %w", err)
	}
	return s, nil
}

// Ping checks that the server answers commands on the selected database.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.Client.Ping(ctx, nil); err != nil {
		return err
	}
	return s.DB.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.Client.Disconnect(ctx)
}
