package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"orange/internal/controller"
	"orange/internal/output"
	"orange/internal/todo"
)

type field int

const (
	fieldHeading field = iota
	fieldBody
	fieldTags
	fieldCount
)

// panel holds the input widgets of one editor. The controller keeps the
// authoritative draft; the widgets are pushed to it after every keystroke.
// A field whose widget still shows what load put there reports the loaded
// value, so widget sanitizing and tag joining never leak into the draft.
type panel struct {
	heading textinput.Model
	body    textarea.Model
	tags    textinput.Model
	focus   field

	loaded todo.Draft
	shown  [fieldCount]string
}

func newPanel() panel {
	heading := textinput.New()
	heading.Placeholder = "Heading"
	heading.CharLimit = 0
	heading.Width = 48

	body := textarea.New()
	body.Placeholder = "Body"
	body.CharLimit = 0
	body.MaxHeight = 0
	body.ShowLineNumbers = false
	body.SetWidth(50)
	body.SetHeight(3)

	tags := textinput.New()
	tags.Placeholder = "tags, comma separated"
	tags.CharLimit = 0
	tags.Width = 48

	return panel{heading: heading, body: body, tags: tags}
}

// load fills the widgets from d and focuses the heading.
func (p *panel) load(d todo.Draft) tea.Cmd {
	p.heading.Reset()
	p.heading.SetValue(d.Heading)
	p.heading.CursorEnd()

	p.body.Reset()
	p.body.SetValue(d.Body)

	p.tags.Reset()
	p.tags.SetValue(strings.Join(d.Tags, ", "))
	p.tags.CursorEnd()

	p.loaded = d.Clone()
	p.shown = [fieldCount]string{p.heading.Value(), p.body.Value(), p.tags.Value()}

	p.focus = fieldHeading
	return p.focusCurrent()
}

// next moves focus to the following field, wrapping around.
func (p *panel) next() tea.Cmd {
	p.focus = (p.focus + 1) % fieldCount
	return p.focusCurrent()
}

func (p *panel) focusCurrent() tea.Cmd {
	p.blur()
	switch p.focus {
	case fieldBody:
		return p.body.Focus()
	case fieldTags:
		return p.tags.Focus()
	default:
		return p.heading.Focus()
	}
}

func (p *panel) blur() {
	p.heading.Blur()
	p.body.Blur()
	p.tags.Blur()
}

// update passes msg to the focused widget.
func (p *panel) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch p.focus {
	case fieldBody:
		p.body, cmd = p.body.Update(msg)
	case fieldTags:
		p.tags, cmd = p.tags.Update(msg)
	default:
		p.heading, cmd = p.heading.Update(msg)
	}
	return cmd
}

func (p *panel) values() (heading, body string, tags []string) {
	heading, body, tags = p.loaded.Heading, p.loaded.Body, p.loaded.Clone().Tags
	if v := p.heading.Value(); v != p.shown[fieldHeading] {
		heading = v
	}
	if v := p.body.Value(); v != p.shown[fieldBody] {
		body = v
	}
	if v := p.tags.Value(); v != p.shown[fieldTags] {
		tags = parseTags(v)
	}
	return heading, body, tags
}

func (p *panel) view(title string, state *controller.Panel, focused, showChecked bool) string {
	var b strings.Builder

	header := title
	if showChecked {
		header = output.Checkbox(state.Draft.Checked) + " " + header
	}
	b.WriteString(panelTitleStyle.Render(header))
	b.WriteString("\n")
	b.WriteString(p.heading.View())
	b.WriteString("\n")
	b.WriteString(p.body.View())
	b.WriteString("\n")
	b.WriteString(p.tags.View())

	if msg := output.ValidationMessage(state.Err); msg != "" {
		b.WriteString("\n")
		b.WriteString(warningStyle.Render(msg))
	}

	style := panelStyle
	if focused {
		style = focusedPanelStyle
	}
	return style.Render(b.String())
}

// parseTags splits user input on commas. Surrounding blanks are trimmed and
// empty entries dropped.
func parseTags(s string) []string {
	var tags []string
	for _, part := range strings.Split(s, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
