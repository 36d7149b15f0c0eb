package main

import (
	"context"
	"fmt"
	"time"

	redisadapter "github.com/csg33k/beneficiary-admin/internal/adapters/redis"
	sqliteadapter "github.com/csg33k/beneficiary-admin/internal/adapters/sqlite"
	"github.com/csg33k/beneficiary-admin/internal/config"
	"github.com/csg33k/beneficiary-admin/internal/ports"
	"github.com/csg33k/beneficiary-admin/internal/session"
)

// openStore returns the token store selected by session.backend and the
// function that releases it.
func openStore(ctx context.Context, cfg *config.Config) (ports.TokenStore, func() error, error) {
	switch cfg.Session.Backend {
	case config.BackendMemory:
		return session.NewMemoryStore(), func() error { return nil }, nil
	case config.BackendRedis:
		client, err := redisadapter.Dial(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, nil, err
		}
		return redisadapter.New(client, cfg.Redis.Key, cfg.Session.TTL), client.Close, nil
	case config.BackendSQLite:
		store, err := sqliteadapter.New(ctx, cfg.Session.DBPath)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown session backend %q", cfg.Session.Backend)
	}
}

// savedAt reports when store last saved a token, for stores that track it.
func savedAt(ctx context.Context, store ports.TokenStore) (time.Time, bool) {
	dated, ok := store.(interface {
		UpdatedAt(ctx context.Context) (time.Time, error)
	})
	if !ok {
		return time.Time{}, false
	}
	at, err := dated.UpdatedAt(ctx)
	if err != nil || at.IsZero() {
		return time.Time{}, false
	}
	return at, true
}
