// Package editor holds the staging area for a task being created or edited.
package editor

import (
	"errors"

	"orange/internal/todo"
)

// ErrNoCurrentDraft is returned when a draft operation runs on an empty slot.
var ErrNoCurrentDraft = errors.New("no current draft")

// Slot holds at most one draft plus the outcome of the last save attempt.
// The zero value is an empty slot.
type Slot struct {
	draft   *todo.Draft
	lastErr error
}

// OpenForCreate starts a fresh draft with the given identifier.
func (s *Slot) OpenForCreate(id int64) {
	s.draft = &todo.Draft{ID: id}
	s.lastErr = nil
}

// OpenForEdit starts a draft copied from task.
func (s *Slot) OpenForEdit(task todo.Task) {
	d := task.Draft()
	s.draft = &d
	s.lastErr = nil
}

// Load replaces the slot contents with a copy of d.
func (s *Slot) Load(d todo.Draft) {
	d = d.Clone()
	s.draft = &d
	s.lastErr = nil
}

// Active reports whether the slot holds a draft.
func (s *Slot) Active() bool { return s.draft != nil }

// Draft returns a copy of the current draft.
func (s *Slot) Draft() (todo.Draft, bool) {
	if s.draft == nil {
		return todo.Draft{}, false
	}
	return s.draft.Clone(), true
}

// Update applies fn to the current draft.
func (s *Slot) Update(fn func(d *todo.Draft)) error {
	if s.draft == nil {
		return ErrNoCurrentDraft
	}
	fn(s.draft)
	return nil
}

// AttemptSave validates the draft. On success the slot is emptied and the
// task returned; on failure the draft stays and the error is recorded.
func (s *Slot) AttemptSave() (todo.Task, error) {
	if s.draft == nil {
		s.lastErr = ErrNoCurrentDraft
		return todo.Task{}, ErrNoCurrentDraft
	}
	task, err := todo.FromDraft(*s.draft)
	if err != nil {
		s.lastErr = err
		return todo.Task{}, err
	}
	s.draft = nil
	s.lastErr = nil
	return task, nil
}

// Cancel discards the draft and any recorded error.
func (s *Slot) Cancel() {
	s.draft = nil
	s.lastErr = nil
}

// LastErr returns the error of the most recent save attempt, or nil.
func (s *Slot) LastErr() error { return s.lastErr }
