package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/oauth2"
)

// DefaultRedisKeyPrefix namespaces credential keys.
const DefaultRedisKeyPrefix = "storefront:credential:"

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithKeyPrefix overrides DefaultRedisKeyPrefix.
func WithKeyPrefix(prefix string) RedisOption {
	return func(s *RedisStore) {
		s.prefix = prefix
	}
}

// WithTTL expires the credential key after ttl; zero keeps it until cleared.
func WithTTL(ttl time.Duration) RedisOption {
	return func(s *RedisStore) {
		s.ttl = ttl
	}
}

// RedisStore keeps the credential of one browsing session in Redis.
type RedisStore struct {
	client    redis.Cmdable
	sessionID string
	prefix    string
	ttl       time.Duration
}

// NewRedisStore creates a store for sessionID.
func NewRedisStore(client redis.Cmdable, sessionID string, options ...RedisOption) *RedisStore {
	ret := &RedisStore{client: client, sessionID: sessionID, prefix: DefaultRedisKeyPrefix}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}

func (r *RedisStore) key() string {
	return r.prefix + r.sessionID
}

func (r *RedisStore) LookupToken(ctx context.Context) (*oauth2.Token, bool) {
	data, err := r.client.Get(ctx, r.key()).Bytes()
	if err != nil {
		return nil, false
	}
	token := &oauth2.Token{}
	if err = json.Unmarshal(data, token); err != nil || validate(token) != nil {
		return nil, false
	}
	return token, true
}

func (r *RedisStore) SetToken(ctx context.Context, token *oauth2.Token) error {
	if err := validate(token); err != nil {
		return err
	}
	data, err := json.Marshal(token)
	if err != nil {
		return err
	}
	if err = r.client.Set(ctx, r.key(), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store credential: %w", err)
	}
	return nil
}

func (r *RedisStore) ClearToken(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key()).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to clear credential: %w", err)
	}
	return nil
}
