// internal/session/store.go
package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"contest-console/internal/common/config"
	"contest-console/internal/common/database"
	apperrors "contest-console/internal/common/errors"
)

// State is the persisted wizard session for one conversation. The session
// is inactive when CommandName is empty.
type State struct {
	CommandName  string                 `json:"commandName"`
	StepIndex    int                    `json:"stepIndex"`
	Fields       map[string]interface{} `json:"fields"`
	ScopeEventID *int64                 `json:"scopeEventId,omitempty"`
	UpdatedAt    time.Time              `json:"updatedAt"`
}

// Active reports whether a wizard is mid-flight.
func (s *State) Active() bool {
	return s != nil && s.CommandName != ""
}

// Store persists wizard sessions keyed by conversation identity. Callers
// serialize access per key; the store itself holds no lock.
type Store interface {
	Get(ctx context.Context, key string) (*State, error)
	Put(ctx context.Context, key string, state *State) error
	Forget(ctx context.Context, key string) error
}

// RedisStore keeps sessions in Redis with a TTL, so abandoned wizards
// expire on the store's schedule rather than the orchestrator's.
type RedisStore struct {
	client *database.RedisClient
	prefix string
	ttl    time.Duration
}

func NewRedisStore(client *database.RedisClient, cfg config.SessionConfig) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: cfg.KeyPrefix,
		ttl:    time.Duration(cfg.TTL) * time.Second,
	}
}

func (s *RedisStore) Get(ctx context.Context, key string) (*State, error) {
	raw, err := s.client.Get(ctx, s.prefix+key)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, apperrors.NewSessionStoreFailedError(err)
	}

	var state State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		// A corrupt session is unrecoverable; drop it rather than wedge the
		// conversation.
		_ = s.client.Del(ctx, s.prefix+key)
		return nil, nil
	}
	return &state, nil
}

func (s *RedisStore) Put(ctx context.Context, key string, state *State) error {
	state.UpdatedAt = time.Now().UTC()
	raw, err := json.Marshal(state)
	if err != nil {
		return apperrors.NewSessionStoreFailedError(err)
	}
	if err := s.client.Set(ctx, s.prefix+key, string(raw), s.ttl); err != nil {
		return apperrors.NewSessionStoreFailedError(err)
	}
	return nil
}

func (s *RedisStore) Forget(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key); err != nil {
		return apperrors.NewSessionStoreFailedError(err)
	}
	return nil
}
