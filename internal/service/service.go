// Package service defines the backend-agnostic persistence gateway for tasks.
package service

import (
	"context"
	"errors"

	"orange/internal/config"
	"orange/internal/todo"
)

// ErrConnectionFailed is wrapped by backends that cannot reach their store.
var ErrConnectionFailed = errors.New("connection failed")

// Service loads and stores the task list.
// Commands and the UI never import a backend directly.
type Service interface {
	// LoadAll returns every stored task in id order.
	// Stored items that do not form a valid task are skipped.
	// Missing or malformed tags are read as no tags.
	LoadAll(ctx context.Context) ([]todo.Task, error)

	// Flush deletes every id in removed, then updates or inserts each task
	// by id. Each task is written atomically; the flush as a whole is not.
	Flush(ctx context.Context, tasks []todo.Task, removed []int64) error

	// Close releases the backend connection.
	Close() error
}

// Factory creates a Service from config.
// Used to inject the backend during dispatch.
type Factory func(ctx context.Context, cfg *config.Config) (Service, error)
