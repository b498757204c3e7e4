package controller

import "orange/internal/todo"

// Row is one task as shown in the list.
type Row struct {
	ID      int64
	Heading string
	Body    string
	Checked bool
	Tags    []string
	Editing bool
}

// Panel is an open editor: its draft and the error of the last save.
type Panel struct {
	Draft todo.Draft
	Err   error
}

// ViewModel is an immutable snapshot of everything a renderer needs.
type ViewModel struct {
	Rows   []Row
	Create *Panel // nil when the create panel is hidden
	Edit   *Panel // nil when no task is being edited
}

// View builds the current view model.
func (c *Controller) View() ViewModel {
	var vm ViewModel

	editID, editing := c.EditingID()
	vm.Rows = make([]Row, 0, len(c.tasks))
	for _, t := range c.tasks {
		vm.Rows = append(vm.Rows, Row{
			ID:      t.ID(),
			Heading: t.Heading(),
			Body:    t.Body(),
			Checked: t.Checked(),
			Tags:    t.Tags(),
			Editing: editing && t.ID() == editID,
		})
	}

	if c.showCreate {
		if d, ok := c.create.Draft(); ok {
			vm.Create = &Panel{Draft: d, Err: c.create.LastErr()}
		}
	}
	if d, ok := c.EditView(); ok {
		vm.Edit = &Panel{Draft: d, Err: c.EditErr()}
	}
	return vm
}
