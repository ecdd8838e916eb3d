package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"users-ui/internal/usecase/userinterface"
)

// RedisStateStore implements userinterface.StateStore using Redis as the
// backing store, so view state survives restarts and is shared by replicas.
type RedisStateStore struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewRedisStateStore creates a new Redis-backed state store.
func NewRedisStateStore(client *redis.Client, ttl time.Duration, log *zap.Logger) *RedisStateStore {
	return &RedisStateStore{
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

// stateKey generates a Redis key for a view state key.
func (s *RedisStateStore) stateKey(key string) string {
	return fmt.Sprintf("ui:state:%s", key)
}

// Load retrieves view state from Redis.
func (s *RedisStateStore) Load(ctx context.Context, key string) (*userinterface.State, error) {
	data, err := s.client.Get(ctx, s.stateKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		// No state yet - not an error
		s.log.Debug("state miss", zap.String("key", key))
		return nil, nil
	}
	if err != nil {
		s.log.Error("failed to get state", zap.String("key", key), zap.Error(err))
		return nil, err
	}

	var state userinterface.State
	if err := json.Unmarshal(data, &state); err != nil {
		s.log.Error("failed to unmarshal state", zap.String("key", key), zap.Error(err))
		return nil, err
	}

	return &state, nil
}

// Save stores view state in Redis with TTL. Every save extends the TTL.
func (s *RedisStateStore) Save(ctx context.Context, key string, state *userinterface.State) error {
	if state == nil {
		return fmt.Errorf("cannot store nil state")
	}

	data, err := json.Marshal(state)
	if err != nil {
		s.log.Error("failed to marshal state", zap.String("key", key), zap.Error(err))
		return err
	}

	if err := s.client.Set(ctx, s.stateKey(key), data, s.ttl).Err(); err != nil {
		s.log.Error("failed to set state", zap.String("key", key), zap.Error(err))
		return err
	}

	s.log.Debug("state saved", zap.String("key", key), zap.Int("users", len(state.Users)), zap.Duration("ttl", s.ttl))
	return nil
}
