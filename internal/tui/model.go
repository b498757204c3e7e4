// Package tui implements the terminal user interface on top of the task
// controller. Key presses become controller events; the screen is rendered
// from the controller's view model.
package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"

	"orange/internal/controller"
	"orange/internal/service"
)

// Title is the heading shown at the top of the screen.
const Title = "Orange To Do - a minimalistic to do app"

// ErrNoBackend is returned by a close request when there is no service and
// no way to connect one.
var ErrNoBackend = errors.New("no backend connection")

type mode int

const (
	modeList mode = iota
	modeCreate
	modeEdit
	modeConfirmQuit
)

// ConnectFunc opens the backend. It is used at close time when the
// connection made at startup failed.
type ConnectFunc func(ctx context.Context) (service.Service, error)

// Model is the bubbletea model of the application.
type Model struct {
	ctx     context.Context
	ctl     *controller.Controller
	svc     service.Service
	connect ConnectFunc

	mode   mode
	cursor int
	create panel
	edit   panel

	saveErr  error
	quitting bool
	width    int
}

// Option configures a Model.
type Option func(*Model)

// WithService sets the backend loaded at startup.
func WithService(svc service.Service) Option {
	return func(m *Model) { m.svc = svc }
}

// WithConnect sets the function used to reach the backend at close time
// when no service is set.
func WithConnect(fn ConnectFunc) Option {
	return func(m *Model) { m.connect = fn }
}

// WithContext sets the context used for backend calls.
func WithContext(ctx context.Context) Option {
	return func(m *Model) { m.ctx = ctx }
}

// New creates a model showing the tasks of ctl.
func New(ctl *controller.Controller, opts ...Option) Model {
	m := Model{
		ctx:    context.Background(),
		ctl:    ctl,
		create: newPanel(),
		edit:   newPanel(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// SaveErr returns the error of the last failed save, if the user chose to
// quit anyway.
func (m Model) SaveErr() error {
	return m.saveErr
}

// Close releases the backend connection, if any.
func (m Model) Close() error {
	if m.svc == nil {
		return nil
	}
	return m.svc.Close()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		if m.mode == modeConfirmQuit {
			return m.updateConfirm(msg)
		}
		if msg.String() == "ctrl+c" {
			return m.requestClose()
		}
		switch m.mode {
		case modeCreate:
			return m.updateCreate(msg)
		case modeEdit:
			return m.updateEdit(msg)
		default:
			return m.updateList(msg)
		}
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := m.ctl.View().Rows

	switch msg.String() {
	case "q":
		return m.requestClose()
	case "up", "k":
		m.cursor = clampCursor(m.cursor-1, len(rows))
	case "down", "j":
		m.cursor = clampCursor(m.cursor+1, len(rows))
	case " ":
		if id, ok := m.selected(); ok {
			m.apply(controller.ToggleChecked{ID: id})
		}
	case "enter":
		id, ok := m.selected()
		if !ok {
			return m, nil
		}
		before, wasEditing := m.ctl.EditingID()
		m.apply(controller.ToggleEdit{ID: id})
		after, editing := m.ctl.EditingID()
		if editing && (!wasEditing || before != after) {
			d, _ := m.ctl.EditView()
			m.mode = modeEdit
			return m, m.edit.load(d)
		}
	case "d", "delete":
		if id, ok := m.selected(); ok {
			m.apply(controller.Delete{ID: id})
			m.cursor = clampCursor(m.cursor, len(rows)-1)
		}
	case "n":
		m.apply(controller.ToggleCreatePanel{})
		if d, ok := m.ctl.CreateDraft(); ok && m.ctl.CreateOpen() {
			m.mode = modeCreate
			return m, m.create.load(d)
		}
	case "tab":
		return m.focusPanel()
	}
	return m, nil
}

// focusPanel moves keyboard focus from the list to an open editor,
// preferring the create panel.
func (m Model) focusPanel() (tea.Model, tea.Cmd) {
	if m.ctl.CreateOpen() {
		m.mode = modeCreate
		return m, m.create.focusCurrent()
	}
	if _, ok := m.ctl.EditingID(); ok {
		m.mode = modeEdit
		return m, m.edit.focusCurrent()
	}
	return m, nil
}

func (m Model) updateCreate(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.apply(controller.CancelCreate{})
		m.create.blur()
		m.mode = modeList
	case "shift+tab":
		m.create.blur()
		m.mode = modeList
	case "tab":
		return m, m.create.next()
	case "ctrl+s":
		m.syncCreate()
		if m.apply(controller.SubmitCreate{}) == nil {
			m.create.blur()
			m.mode = modeList
			m.cursor = len(m.ctl.View().Rows) - 1
		}
	default:
		cmd := m.create.update(msg)
		m.syncCreate()
		return m, cmd
	}
	return m, nil
}

func (m Model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if _, ok := m.ctl.EditingID(); !ok {
		m.mode = modeList
		return m.updateList(msg)
	}

	switch msg.String() {
	case "esc":
		m.apply(controller.CancelEdit{})
		m.edit.blur()
		m.mode = modeList
	case "shift+tab":
		m.edit.blur()
		m.mode = modeList
	case "tab":
		return m, m.edit.next()
	case "ctrl+s":
		m.syncEdit()
		if m.apply(controller.SaveEdit{}) == nil {
			m.edit.blur()
			m.mode = modeList
		}
	default:
		cmd := m.edit.update(msg)
		m.syncEdit()
		return m, cmd
	}
	return m, nil
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "ctrl+c":
		log.WithError(m.saveErr).Warn("quitting without saving")
		m.quitting = true
		return m, tea.Quit
	case "c", "esc", "n":
		m.saveErr = nil
		m.mode = modeList
	}
	return m, nil
}

// requestClose flushes the list and quits, or opens the confirmation dialog
// when the flush fails.
func (m Model) requestClose() (tea.Model, tea.Cmd) {
	if err := m.save(); err != nil {
		log.WithError(err).Trace("error occured while saving")
		m.saveErr = err
		m.mode = modeConfirmQuit
		return m, nil
	}
	m.saveErr = nil
	m.quitting = true
	return m, tea.Quit
}

func (m *Model) save() error {
	if m.svc == nil {
		if m.connect == nil {
			return ErrNoBackend
		}
		svc, err := m.connect(m.ctx)
		if err != nil {
			return err
		}
		m.svc = svc
	}
	return m.ctl.Flush(m.ctx, m.svc)
}

func (m *Model) syncCreate() {
	heading, body, tags := m.create.values()
	m.apply(controller.EditCreate{Heading: heading, Body: body, Tags: tags})
}

func (m *Model) syncEdit() {
	heading, body, tags := m.edit.values()
	m.apply(controller.EditDraft{Heading: heading, Body: body, Tags: tags})
}

// apply hands ev to the controller. Validation errors are kept by the
// controller for display, so they are only logged here.
func (m *Model) apply(ev controller.Event) error {
	err := m.ctl.Apply(ev)
	if err != nil {
		log.WithError(err).WithField("event", ev).Trace("event not applied")
	}
	return err
}

func (m Model) selected() (int64, bool) {
	rows := m.ctl.View().Rows
	if len(rows) == 0 {
		return 0, false
	}
	return rows[clampCursor(m.cursor, len(rows))].ID, true
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
