package bootstrap

import (
	"context"
	"fmt"

	"github.com/IgorGrieder/linkly-connector/internal/config"
	"github.com/IgorGrieder/linkly-connector/internal/infrastructure/db"
	"github.com/IgorGrieder/linkly-connector/internal/processing/trigger"
	"github.com/IgorGrieder/linkly-connector/internal/storage/memory"
	mongoStorage "github.com/IgorGrieder/linkly-connector/internal/storage/mongo"
	pgStorage "github.com/IgorGrieder/linkly-connector/internal/storage/postgres"
	redisStorage "github.com/IgorGrieder/linkly-connector/internal/storage/redis"
	sqliteStorage "github.com/IgorGrieder/linkly-connector/internal/storage/sqlite"
	goredis "github.com/redis/go-redis/v9"
)

// State is an opened node state backend. Ping is nil for the memory store.
type State struct {
	Backend string
	Store   trigger.StateStore
	Ping    func(context.Context) error
	Close   func(context.Context) error
}

// OpenState connects the backend selected by STATE_BACKEND.
func OpenState(ctx context.Context, cfg *config.Config) (*State, error) {
	noClose := func(context.Context) error { return nil }

	switch cfg.State.Backend {
	case config.StateMemory, "":
		return &State{Backend: config.StateMemory, Store: memory.NewStateStore(), Close: noClose}, nil

	case config.StateMongo:
		m, err := db.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Database, 0)
		if err != nil {
			return nil, fmt.Errorf("connect mongodb: %w", err)
		}
		return &State{
			Backend: cfg.State.Backend,
			Store:   mongoStorage.NewStateRepository(m),
			Ping:    m.Ping,
			Close:   m.Disconnect,
		}, nil

	case config.StatePostgres:
		pg, err := db.ConnectPostgres(ctx, cfg.Postgres.DSN, int32(cfg.Postgres.MaxConns))
		if err != nil {
			return nil, err
		}
		store, err := pgStorage.NewStateStore(pg)
		if err == nil {
			err = store.EnsureSchema(ctx)
		}
		if err != nil {
			pg.Close()
			return nil, err
		}
		return &State{
			Backend: cfg.State.Backend,
			Store:   store,
			Ping:    pg.Ping,
			Close:   func(context.Context) error { pg.Close(); return nil },
		}, nil

	case config.StateRedis:
		client, err := Redis(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return &State{
			Backend: cfg.State.Backend,
			Store:   redisStorage.NewStateStore(client),
			Ping:    func(ctx context.Context) error { return client.Ping(ctx).Err() },
			Close:   func(context.Context) error { return client.Close() },
		}, nil

	case config.StateSQLite:
		conn, err := db.OpenSQLite(ctx, cfg.SQLite.Path)
		if err != nil {
			return nil, err
		}
		store, err := sqliteStorage.NewStateStore(ctx, conn)
		if err != nil {
			_ = conn.Close()
			return nil, err
		}
		return &State{
			Backend: cfg.State.Backend,
			Store:   store,
			Ping:    conn.PingContext,
			Close:   func(context.Context) error { return conn.Close() },
		}, nil

	default:
		return nil, fmt.Errorf("unknown state backend %q", cfg.State.Backend)
	}
}

// Redis connects the configured Redis server.
func Redis(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	return redisStorage.New(ctx, redisStorage.Config{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}
