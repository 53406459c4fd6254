// Package cache provides Valkey (Redis-compatible) client initialization
// and the REST response cache for template collections.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// pingTimeout bounds the connection check in ConnectValkey.
const pingTimeout = 5 * time.Second

// ValkeyOptions describes how to reach the Valkey server.
type ValkeyOptions struct {
	Addr     string
	Password string
	DB       int
}

// ConnectValkey opens a client for opts and pings the server. The client is
// closed again when the ping fails.
func ConnectValkey(ctx context.Context, opts ValkeyOptions) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("valkey ping %s: %w", opts.Addr, err)
	}

	slog.Info("valkey connected", "addr", opts.Addr, "db", opts.DB)
	return client, nil
}
