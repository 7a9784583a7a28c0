// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/danielhkuo/bale-scorer/cliparse"
	"github.com/danielhkuo/bale-scorer/db"
)

// Open connects the remote store selected by cfg. The returned func
// releases the connection.
func Open(ctx context.Context, cfg cliparse.Config) (RemoteStore, func() error, error) {
	switch cfg.DatabaseType {
	case cliparse.DatabasePostgres:
		conn, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("database connection failed: %w", err)
		}
		if err := conn.PingContext(ctx); err != nil {
			conn.Close()
			return nil, nil, fmt.Errorf("database ping failed: %w", err)
		}
		if err := db.CreateSchema(conn); err != nil {
			conn.Close()
			return nil, nil, fmt.Errorf("schema creation failed: %w", err)
		}
		slog.Info("database schema ready")
		return NewPostgresStore(conn), conn.Close, nil

	case cliparse.DatabaseRedis:
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid redis URL: %w", err)
		}
		if cfg.RedisPassword != "" {
			opts.Password = cfg.RedisPassword
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("redis ping failed: %w", err)
		}
		return NewRedisStore(client), client.Close, nil

	case cliparse.DatabaseMemory:
		slog.Warn("using in-memory remote store; documents are lost on exit")
		return NewMemoryRemote(), func() error { return nil }, nil

	default:
		return nil, nil, fmt.Errorf("unknown database type %q", cfg.DatabaseType)
	}
}
