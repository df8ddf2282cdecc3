package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sheetimport "github.com/lojacrm/backend/internal/infrastructure/import"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisProgressStore implements ProgressStore with Redis so every API instance
// can stream the progress of an import running on any of them.
// The latest snapshot is kept under <channel>:latest; updates go out with PUBLISH.
type RedisProgressStore struct {
	client  *redis.Client
	channel string
	ttl     time.Duration
	logger  *zap.Logger
}

// NewRedisProgressStore creates a store on an existing client
func NewRedisProgressStore(client *redis.Client, channel string, ttl time.Duration, logger *zap.Logger) *RedisProgressStore {
	if channel == "" {
		channel = "crm:import:progress"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisProgressStore{
		client:  client,
		channel: channel,
		ttl:     ttl,
		logger:  logger,
	}
}

func (s *RedisProgressStore) latestKey() string {
	return s.channel + ":latest"
}

// Publish implements ProgressStore. The snapshot write and the PUBLISH are
// sent in one MULTI block.
func (s *RedisProgressStore) Publish(ctx context.Context, p sheetimport.Progress) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode progress: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.latestKey(), payload, s.ttl)
		pipe.Publish(ctx, s.channel, payload)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to publish progress: %w", err)
	}
	return nil
}

// Latest implements ProgressStore
func (s *RedisProgressStore) Latest(ctx context.Context) (*sheetimport.Progress, error) {
	payload, err := s.client.Get(ctx, s.latestKey()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read progress: %w", err)
	}

	var p sheetimport.Progress
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("failed to decode progress: %w", err)
	}
	return &p, nil
}

// Subscribe implements ProgressStore. It returns once Redis confirmed the
// subscription, so nothing published after the call is missed.
func (s *RedisProgressStore) Subscribe(ctx context.Context) (<-chan sheetimport.Progress, error) {
	pubsub := s.client.Subscribe(ctx, s.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", s.channel, err)
	}

	out := make(chan sheetimport.Progress, subscriberBuffer)
	messages := pubsub.Channel()

	go func() {
		defer close(out)
		defer pubsub.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				var p sheetimport.Progress
				if err := json.Unmarshal([]byte(msg.Payload), &p); err != nil {
					s.logger.Warn("Dropping malformed progress message", zap.Error(err))
					continue
				}
				select {
				case out <- p:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// Close closes the Redis client
func (s *RedisProgressStore) Close() error {
	return s.client.Close()
}

// Ensure RedisProgressStore implements ProgressStore
var _ ProgressStore = (*RedisProgressStore)(nil)
