// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"sort"
	"sync"

	"orange/internal/todo"
)

// FlushCall records the arguments of one Flush.
type FlushCall struct {
	Tasks   []todo.Task
	Removed []int64
}

// FakeService is an in-memory implementation of service.Service for testing.
// Stored tasks are kept by id, like rows in the todo table.
type FakeService struct {
	mu     sync.RWMutex
	rows   map[int64]todo.Task
	closed bool

	// Flushes records every successful Flush in call order.
	Flushes []FlushCall

	// Error injection for testing
	LoadAllErr error
	FlushErr   error
	CloseErr   error
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{rows: make(map[int64]todo.Task)}
}

// AddTask stores a task. It panics on invalid input so that test setup
// mistakes surface immediately.
func (f *FakeService) AddTask(id int64, heading, body string, checked bool, tags ...string) {
	t, err := todo.New(id, heading, body)
	if err != nil {
		panic(err)
	}
	t.SetChecked(checked)
	t.AddTags(tags...)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[id] = t
}

// Stored returns the stored tasks in id order.
func (f *FakeService) Stored() []todo.Task {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.sorted()
}

// Closed reports whether Close was called.
func (f *FakeService) Closed() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.closed
}

func (f *FakeService) sorted() []todo.Task {
	out := make([]todo.Task, 0, len(f.rows))
	for _, t := range f.rows {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// LoadAll implements service.Service.
func (f *FakeService) LoadAll(ctx context.Context) ([]todo.Task, error) {
	if f.LoadAllErr != nil {
		return nil, f.LoadAllErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.sorted(), nil
}

// Flush implements service.Service.
func (f *FakeService) Flush(ctx context.Context, tasks []todo.Task, removed []int64) error {
	if f.FlushErr != nil {
		return f.FlushErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, id := range removed {
		delete(f.rows, id)
	}
	for _, t := range tasks {
		f.rows[t.ID()] = t
	}

	call := FlushCall{
		Tasks:   append([]todo.Task(nil), tasks...),
		Removed: append([]int64(nil), removed...),
	}
	f.Flushes = append(f.Flushes, call)
	return nil
}

// Close implements service.Service.
func (f *FakeService) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return f.CloseErr
}
