// Package backend selects the task store named in secrets.toml.
package backend

import (
	"context"
	"errors"
	"fmt"

	"orange/internal/backend/googletasks"
	"orange/internal/backend/postgres"
	"orange/internal/backend/sqlite"
	"orange/internal/config"
	"orange/internal/service"
)

// Open connects to the backend configured in cfg.Secrets. Missing Google
// credentials are reported as configuration errors.
func Open(ctx context.Context, cfg *config.Config) (service.Service, error) {
	switch cfg.Secrets.Backend {
	case config.BackendPostgres, "":
		store, err := postgres.New(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.BackendSQLite:
		store, err := sqlite.New(ctx, cfg.SQLitePath())
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.BackendGoogleTasks:
		client, err := googletasks.New(ctx, cfg)
		if errors.Is(err, googletasks.ErrNoOAuthClient) || errors.Is(err, googletasks.ErrNoToken) {
			return nil, fmt.Errorf("%w: %v", config.ErrConfigUnreadable, err)
		}
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("%w: unknown backend: %s", config.ErrConfigUnreadable, cfg.Secrets.Backend)
	}
}
