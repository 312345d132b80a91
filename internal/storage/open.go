package storage

import (
	"context"
	"fmt"
)

const (
	BackendNone     = "none"
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Options selects and parameterizes a backend.
type Options struct {
	Backend     string
	Path        string
	DatabaseURL string
	RedisAddr   string
	RedisPrefix string
}

// Open constructs the configured backend. The "none" backend keeps
// snapshots in memory only.
func Open(ctx context.Context, opts Options) (Gateway, error) {
	var (
		gw  Gateway
		err error
	)
	switch opts.Backend {
	case "", BackendNone:
		gw = NewMemoryStore()
	case BackendFile:
		gw, err = NewFileStore(opts.Path)
	case BackendSQLite:
		gw, err = NewSQLiteStore(opts.Path)
	case BackendPostgres:
		gw, err = NewPostgresStore(ctx, opts.DatabaseURL)
	case BackendRedis:
		gw, err = NewRedisStore(ctx, opts.RedisAddr, opts.RedisPrefix)
	default:
		err = fmt.Errorf("storage: unknown backend %q", opts.Backend)
	}
	if err != nil {
		return nil, err
	}
	return gw, nil
}
