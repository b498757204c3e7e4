// Package todo defines the task entity and its unvalidated draft form.
package todo

import (
	"errors"
	"fmt"
)

// Validation errors returned by New and FromDraft.
// All of them wrap ErrInvalid.
var (
	ErrInvalid      = errors.New("invalid task")
	ErrEmptyHeading = fmt.Errorf("%w: heading is empty", ErrInvalid)
	ErrEmptyBody    = fmt.Errorf("%w: body is empty", ErrInvalid)
	ErrZeroID       = fmt.Errorf("%w: id is zero", ErrInvalid)
)

// Task is a validated to-do item.
// Heading and body are non-empty and the id is non-zero for every Task
// obtained from New or FromDraft.
type Task struct {
	id      int64
	heading string
	body    string
	checked bool
	tags    []string
}

// New constructs a Task, reporting the first failing check in the order
// heading, body, id.
func New(id int64, heading, body string) (Task, error) {
	if heading == "" {
		return Task{}, ErrEmptyHeading
	}
	if body == "" {
		return Task{}, ErrEmptyBody
	}
	if id == 0 {
		return Task{}, ErrZeroID
	}
	return Task{id: id, heading: heading, body: body}, nil
}

// FromDraft validates a draft and converts it into a Task.
func FromDraft(d Draft) (Task, error) {
	t, err := New(d.ID, d.Heading, d.Body)
	if err != nil {
		return Task{}, err
	}
	t.checked = d.Checked
	t.tags = cloneTags(d.Tags)
	return t, nil
}

// ID returns the task identifier.
func (t Task) ID() int64 { return t.id }

// Heading returns the task heading.
func (t Task) Heading() string { return t.heading }

// Body returns the task body.
func (t Task) Body() string { return t.body }

// Checked reports whether the task is done.
func (t Task) Checked() bool { return t.checked }

// Tags returns a copy of the task tags in insertion order.
func (t Task) Tags() []string { return cloneTags(t.tags) }

// MarkChecked marks the task as done.
func (t *Task) MarkChecked() { t.checked = true }

// SetChecked sets the done flag.
func (t *Task) SetChecked(checked bool) { t.checked = checked }

// ToggleChecked flips the done flag.
func (t *Task) ToggleChecked() { t.checked = !t.checked }

// AddTags appends tags as given. Empty and duplicate tags are kept.
func (t *Task) AddTags(tags ...string) {
	t.tags = append(t.tags, tags...)
}

// Draft returns an independent, editable copy of the task.
func (t Task) Draft() Draft {
	return Draft{
		ID:      t.id,
		Heading: t.heading,
		Body:    t.body,
		Checked: t.checked,
		Tags:    cloneTags(t.tags),
	}
}

// NextID returns the identifier a new task should get: one past the
// largest id in tasks, or 1 for an empty collection.
func NextID(tasks []Task) int64 {
	var highest int64
	for _, t := range tasks {
		if t.id > highest {
			highest = t.id
		}
	}
	return highest + 1
}

func cloneTags(tags []string) []string {
	if tags == nil {
		return nil
	}
	out := make([]string, len(tags))
	copy(out, tags)
	return out
}
