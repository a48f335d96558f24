// Package backend turns configuration into a ready storage backend.
package backend

import (
	"context"
	"fmt"
	"log/slog"

	"rentabilidad/internal/config"
	"rentabilidad/internal/storage"
	"rentabilidad/internal/storage/memory"
	"rentabilidad/internal/storage/mongodb"
)

// Backend bundles the KV store with the repository built on top of it.
type Backend struct {
	Name string
	KV   storage.KV
	Repo *storage.Repository

	ping  func(ctx context.Context) error
	close func(ctx context.Context) error
}

// Open connects the backend selected by cfg.DataBackend.
func Open(ctx context.Context, cfg *config.Config) (*Backend, error) {
	switch cfg.DataBackend {
	case config.BackendMemory:
		s, err := memory.NewStoreFromFile(cfg.DataSeedFile)
		if err != nil {
			return nil, fmt.Errorf("open memory backend: %w", err)
		}
		slog.InfoContext(ctx, "Using in-memory storage", "seed_file", cfg.DataSeedFile)
		return newBackend(config.BackendMemory, s, nil, nil), nil

	case config.BackendSQLite:
		s, err := storage.NewSQLiteStore(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite backend: %w", err)
		}
		return newBackend(config.BackendSQLite, s, s.Ping, func(context.Context) error { return s.Close() }), nil

	case config.BackendMongo:
		s, err := mongodb.NewStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, fmt.Errorf("open mongo backend: %w", err)
		}
		slog.InfoContext(ctx, "Using MongoDB storage", "database", cfg.MongoDatabase)
		return newBackend(config.BackendMongo, s, s.Ping, s.Close), nil
	}
	return nil, fmt.Errorf("unknown data backend %q", cfg.DataBackend)
}

func newBackend(name string, kv storage.KV, ping, closeFn func(context.Context) error) *Backend {
	return &Backend{Name: name, KV: kv, Repo: storage.NewRepository(kv), ping: ping, close: closeFn}
}

// Ping checks the underlying connection. Backends without one always succeed.
func (b *Backend) Ping(ctx context.Context) error {
	if b.ping == nil {
		return nil
	}
	return b.ping(ctx)
}

func (b *Backend) Close(ctx context.Context) error {
	if b.close == nil {
		return nil
	}
	return b.close(ctx)
}
