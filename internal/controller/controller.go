// Package controller owns the in-memory task list and every state
// transition the UI and the CLI can trigger on it.
//
// The controller is not safe for concurrent use; all calls are expected from
// the single goroutine that handles user input.
package controller

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"orange/internal/editor"
	"orange/internal/service"
	"orange/internal/todo"
)

var (
	// ErrTaskNotFound is returned for identifiers not in the collection.
	ErrTaskNotFound = errors.New("task not found")

	// ErrNoActiveEdit is returned by edit operations when no task is bound
	// to the inline editor.
	ErrNoActiveEdit = errors.New("no task is being edited")

	// ErrDuplicateID is returned by Create for an identifier already in the
	// collection.
	ErrDuplicateID = errors.New("task id already in use")
)

// activeEdit binds the inline editor to one task. The draft carries only the
// fields the user changes; checked is always read from the live task.
type activeEdit struct {
	id      int64
	draft   todo.Draft
	lastErr error
}

// Controller owns the task collection, the create slot, the edit binding and
// the removal ledger.
type Controller struct {
	tasks []todo.Task

	create     editor.Slot
	showCreate bool

	edit     *activeEdit // nil: no active edit
	debounce *editor.Debouncer

	pending []int64 // queued for ApplyRemovals
	removed []int64 // ledger replayed at flush
}

// Option configures a Controller.
type Option func(*options)

type options struct {
	clock  editor.Clock
	window time.Duration
}

// WithClock sets the clock used by the edit toggle debounce.
func WithClock(c editor.Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithDebounce sets the edit toggle debounce window.
func WithDebounce(d time.Duration) Option {
	return func(o *options) { o.window = d }
}

// New creates a controller over tasks. The slice is copied.
func New(tasks []todo.Task, opts ...Option) *Controller {
	o := options{clock: editor.SystemClock{}, window: editor.DefaultDebounce}
	for _, opt := range opts {
		opt(&o)
	}

	owned := make([]todo.Task, len(tasks))
	copy(owned, tasks)

	return &Controller{
		tasks:    owned,
		debounce: editor.NewDebouncer(o.clock, o.window),
	}
}

// Tasks returns a copy of the collection in display order.
func (c *Controller) Tasks() []todo.Task {
	out := make([]todo.Task, len(c.tasks))
	copy(out, c.tasks)
	return out
}

// Task returns the task with the given id.
func (c *Controller) Task(id int64) (todo.Task, bool) {
	i := c.indexOf(id)
	if i < 0 {
		return todo.Task{}, false
	}
	return c.tasks[i], true
}

// Removed returns the removal ledger.
func (c *Controller) Removed() []int64 {
	out := make([]int64, len(c.removed))
	copy(out, c.removed)
	return out
}

func (c *Controller) indexOf(id int64) int {
	for i := range c.tasks {
		if c.tasks[i].ID() == id {
			return i
		}
	}
	return -1
}

// OpenCreate starts a fresh create draft with the next identifier.
// An already open create draft is kept.
func (c *Controller) OpenCreate() {
	c.showCreate = true
	if !c.create.Active() {
		c.create.OpenForCreate(todo.NextID(c.tasks))
	}
}

// CreateOpen reports whether the create panel is shown.
func (c *Controller) CreateOpen() bool { return c.showCreate }

// ToggleCreate shows or hides the create panel. Hiding keeps the draft.
func (c *Controller) ToggleCreate() {
	if c.showCreate {
		c.showCreate = false
		log.Trace("create panel hidden")
		return
	}
	c.OpenCreate()
	log.Trace("create panel shown")
}

// UpdateCreate applies fn to the create draft.
func (c *Controller) UpdateCreate(fn func(d *todo.Draft)) error {
	return c.create.Update(fn)
}

// CreateDraft returns a copy of the create draft.
func (c *Controller) CreateDraft() (todo.Draft, bool) { return c.create.Draft() }

// CreateErr returns the outcome of the last create attempt.
func (c *Controller) CreateErr() error { return c.create.LastErr() }

// CancelCreate discards the create draft and hides the panel.
func (c *Controller) CancelCreate() {
	c.create.Cancel()
	c.showCreate = false
}

// SubmitCreate validates the create draft and appends the task on success.
func (c *Controller) SubmitCreate() (todo.Task, error) {
	task, err := c.create.AttemptSave()
	if err != nil {
		if errors.Is(err, todo.ErrEmptyBody) {
			log.Info("todo body not added while trying to save")
		}
		return todo.Task{}, err
	}
	c.tasks = append(c.tasks, task)
	c.showCreate = false
	log.WithField("task", task.ID()).Debug("task created")
	return task, nil
}

// Create loads d into the create slot and submits it. A zero d.ID is
// replaced by the next identifier; an id already in use is refused.
func (c *Controller) Create(d todo.Draft) (todo.Task, error) {
	switch {
	case d.ID == 0:
		d.ID = todo.NextID(c.tasks)
	case c.indexOf(d.ID) >= 0:
		return todo.Task{}, fmt.Errorf("%w: %d", ErrDuplicateID, d.ID)
	}
	c.create.Load(d)
	return c.SubmitCreate()
}

// ToggleChecked flips the checked flag of a task.
func (c *Controller) ToggleChecked(id int64) error {
	i := c.indexOf(id)
	if i < 0 {
		return ErrTaskNotFound
	}
	c.tasks[i].ToggleChecked()
	log.WithField("task", id).Debug("task checked toggled")
	return nil
}

// BeginEdit binds the inline editor to id with a fresh copy of the task.
// A previous binding and its draft are discarded.
func (c *Controller) BeginEdit(id int64) error {
	i := c.indexOf(id)
	if i < 0 {
		return ErrTaskNotFound
	}
	c.edit = &activeEdit{id: id, draft: c.tasks[i].Draft()}
	log.WithField("task", id).Trace("edit-todo dialog shown")
	return nil
}

// ToggleEdit opens or closes the inline editor for id. Binding and
// unbinding share one debounce window: a toggle arriving inside the window
// of the previous accepted one is ignored and reported as false, whichever
// direction it would go. Toggling a different id moves the editor to it.
func (c *Controller) ToggleEdit(id int64) (bool, error) {
	if c.indexOf(id) < 0 {
		return false, ErrTaskNotFound
	}
	if !c.debounce.Allow() {
		log.WithField("task", id).Trace("edit toggle debounced")
		return false, nil
	}
	if c.edit != nil && c.edit.id == id {
		c.edit = nil
		log.WithField("task", id).Trace("edit-todo dialog hidden")
		return true, nil
	}
	return true, c.BeginEdit(id)
}

// EditingID returns the id bound to the inline editor.
func (c *Controller) EditingID() (int64, bool) {
	if c.edit == nil {
		return 0, false
	}
	return c.edit.id, true
}

// EditView returns the edit draft with checked taken from the live task.
func (c *Controller) EditView() (todo.Draft, bool) {
	if c.edit == nil {
		return todo.Draft{}, false
	}
	d := c.edit.draft.Clone()
	if task, ok := c.Task(c.edit.id); ok {
		d.Checked = task.Checked()
	}
	return d, true
}

// EditErr returns the outcome of the last save of the bound task.
func (c *Controller) EditErr() error {
	if c.edit == nil {
		return nil
	}
	return c.edit.lastErr
}

// UpdateEdit applies fn to the edit draft. Changes to ID and Checked are
// ignored.
func (c *Controller) UpdateEdit(fn func(d *todo.Draft)) error {
	if c.edit == nil {
		return ErrNoActiveEdit
	}
	fn(&c.edit.draft)
	c.edit.draft.ID = c.edit.id
	return nil
}

// CancelEdit closes the inline editor, discarding the draft.
func (c *Controller) CancelEdit() { c.edit = nil }

// SaveEdit validates the edit draft and, on success, replaces the bound task
// in place and closes the editor. On failure the binding stays and the
// error is kept for display.
func (c *Controller) SaveEdit() error {
	if c.edit == nil {
		return ErrNoActiveEdit
	}
	i := c.indexOf(c.edit.id)
	if i < 0 {
		c.edit = nil
		return ErrTaskNotFound
	}

	d := c.edit.draft.Clone()
	d.ID = c.edit.id
	d.Checked = c.tasks[i].Checked()

	task, err := todo.FromDraft(d)
	if err != nil {
		c.edit.lastErr = err
		if errors.Is(err, todo.ErrEmptyBody) {
			log.WithField("task", d.ID).Info("tried to remove todo's body")
		}
		return err
	}

	c.tasks[i] = task
	c.edit = nil
	log.WithField("task", task.ID()).Debug("task saved")
	return nil
}

// QueueRemoval marks id for removal by the next ApplyRemovals.
func (c *Controller) QueueRemoval(id int64) {
	for _, p := range c.pending {
		if p == id {
			return
		}
	}
	c.pending = append(c.pending, id)
}

// ApplyRemovals removes queued tasks from the collection and records their
// ids in the ledger. Ids not in the collection are dropped silently.
// It returns the ids actually removed.
func (c *Controller) ApplyRemovals() []int64 {
	if len(c.pending) == 0 {
		return nil
	}

	queued := make(map[int64]bool, len(c.pending))
	for _, id := range c.pending {
		queued[id] = true
	}
	c.pending = nil

	var applied []int64
	kept := c.tasks[:0]
	for _, t := range c.tasks {
		if queued[t.ID()] {
			applied = append(applied, t.ID())
			continue
		}
		kept = append(kept, t)
	}
	c.tasks = kept

	for _, id := range applied {
		c.recordRemoval(id)
		if c.edit != nil && c.edit.id == id {
			c.edit = nil
		}
		log.WithField("task", id).Debug("task removed")
	}
	return applied
}

// Remove queues and applies the removal of one task.
func (c *Controller) Remove(id int64) bool {
	c.QueueRemoval(id)
	return len(c.ApplyRemovals()) == 1
}

func (c *Controller) recordRemoval(id int64) {
	for _, r := range c.removed {
		if r == id {
			return
		}
	}
	c.removed = append(c.removed, id)
}

// Flush writes the collection and the removal ledger to svc. The ledger is
// cleared once the write succeeds.
func (c *Controller) Flush(ctx context.Context, svc service.Service) error {
	if err := svc.Flush(ctx, c.Tasks(), c.Removed()); err != nil {
		return err
	}
	c.removed = nil
	log.WithField("tasks", len(c.tasks)).Trace("save executed successfully")
	return nil
}
