package controller

import (
	"fmt"

	"orange/internal/todo"
)

// Event is a user intent produced by a renderer and consumed by Apply.
type Event interface {
	event()
}

// ToggleChecked flips the checked flag of a task.
type ToggleChecked struct{ ID int64 }

// ToggleEdit opens or closes the inline editor for a task.
type ToggleEdit struct{ ID int64 }

// ToggleCreatePanel shows or hides the create panel.
type ToggleCreatePanel struct{}

// EditCreate replaces the editable fields of the create draft.
type EditCreate struct {
	Heading string
	Body    string
	Tags    []string
}

// SubmitCreate commits the create draft.
type SubmitCreate struct{}

// CancelCreate discards the create draft.
type CancelCreate struct{}

// EditDraft replaces the editable fields of the inline edit draft.
type EditDraft struct {
	Heading string
	Body    string
	Tags    []string
}

// SaveEdit commits the inline edit draft.
type SaveEdit struct{}

// CancelEdit closes the inline editor.
type CancelEdit struct{}

// Delete removes a task.
type Delete struct{ ID int64 }

func (ToggleChecked) event()     {}
func (ToggleEdit) event()        {}
func (ToggleCreatePanel) event() {}
func (EditCreate) event()        {}
func (SubmitCreate) event()      {}
func (CancelCreate) event()      {}
func (EditDraft) event()         {}
func (SaveEdit) event()          {}
func (CancelEdit) event()        {}
func (Delete) event()            {}

// Apply performs the transition requested by ev. Validation failures are
// returned and also kept on the affected editor for display.
func (c *Controller) Apply(ev Event) error {
	switch ev := ev.(type) {
	case ToggleChecked:
		return c.ToggleChecked(ev.ID)
	case ToggleEdit:
		_, err := c.ToggleEdit(ev.ID)
		return err
	case ToggleCreatePanel:
		c.ToggleCreate()
		return nil
	case EditCreate:
		if !c.create.Active() {
			c.OpenCreate()
		}
		return c.UpdateCreate(func(d *todo.Draft) {
			d.Heading = ev.Heading
			d.Body = ev.Body
			d.Tags = append([]string(nil), ev.Tags...)
		})
	case SubmitCreate:
		_, err := c.SubmitCreate()
		return err
	case CancelCreate:
		c.CancelCreate()
		return nil
	case EditDraft:
		return c.UpdateEdit(func(d *todo.Draft) {
			d.Heading = ev.Heading
			d.Body = ev.Body
			d.Tags = append([]string(nil), ev.Tags...)
		})
	case SaveEdit:
		return c.SaveEdit()
	case CancelEdit:
		c.CancelEdit()
		return nil
	case Delete:
		if !c.Remove(ev.ID) {
			return ErrTaskNotFound
		}
		return nil
	default:
		return fmt.Errorf("unknown event %T", ev)
	}
}
