// Package redis keeps the session token in Redis so several server
// processes can share one login.
package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/csg33k/beneficiary-admin/internal/ports"
)

var _ ports.TokenStore = (*TokenStore)(nil)

const DefaultKey = "beneficiary-admin:session:token"

type TokenStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// New wraps client. A zero ttl keeps the token until it is deleted.
func New(client *redis.Client, key string, ttl time.Duration) *TokenStore {
	if key == "" {
		key = DefaultKey
	}
	return &TokenStore{client: client, key: key, ttl: ttl}
}

// Dial connects to addr and checks the connection.
func Dial(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

func (s *TokenStore) Load(ctx context.Context) (string, error) {
	tok, err := s.client.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return tok, err
}

func (s *TokenStore) Save(ctx context.Context, token string) error {
	return s.client.Set(ctx, s.key, token, s.ttl).Err()
}

func (s *TokenStore) Delete(ctx context.Context) error {
	return s.client.Del(ctx, s.key).Err()
}
