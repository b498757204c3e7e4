package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"orange/internal/output"
)

var (
	orange = lipgloss.Color("208")

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(orange)

	cursorStyle  = lipgloss.NewStyle().Foreground(orange).Bold(true)
	checkedStyle = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("243"))
	tagStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	helpStyle    = lipgloss.NewStyle().Faint(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))

	panelTitleStyle   = lipgloss.NewStyle().Bold(true)
	panelStyle        = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	focusedPanelStyle = panelStyle.BorderForeground(orange)

	dialogStyle = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("203")).Padding(0, 2)
)

const (
	listHelp   = "space check • enter edit • d delete • n new • tab focus editor • q quit"
	editorHelp = "tab next field • ctrl+s save • esc cancel • shift+tab back to list"
)

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	vm := m.ctl.View()
	var b strings.Builder

	b.WriteString(titleStyle.Render(Title))
	b.WriteString("\n\n")

	if vm.Create != nil {
		b.WriteString(m.create.view("New todo", vm.Create, m.mode == modeCreate, false))
		b.WriteString("\n\n")
	}

	if len(vm.Rows) == 0 {
		b.WriteString(helpStyle.Render("No todos yet. Press n to create one."))
		b.WriteString("\n")
	}

	cursor := clampCursor(m.cursor, len(vm.Rows))
	for i, row := range vm.Rows {
		marker := "  "
		if i == cursor && m.mode == modeList {
			marker = cursorStyle.Render("> ")
		}

		heading := row.Heading
		if row.Checked {
			heading = checkedStyle.Render(heading)
		}
		fmt.Fprintf(&b, "%s%s %s%s\n", marker, output.Checkbox(row.Checked), heading, tagStyle.Render(output.FormatTags(row.Tags)))

		if row.Editing && vm.Edit != nil {
			b.WriteString(m.edit.view(fmt.Sprintf("Editing todo %d", row.ID), vm.Edit, m.mode == modeEdit, true))
			b.WriteString("\n")
		}
	}

	if m.mode == modeConfirmQuit {
		b.WriteString("\n")
		b.WriteString(m.confirmView())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch m.mode {
	case modeCreate, modeEdit:
		b.WriteString(helpStyle.Render(editorHelp))
	case modeList:
		b.WriteString(helpStyle.Render(listHelp))
	}
	return b.String()
}

func (m Model) confirmView() string {
	var b strings.Builder
	b.WriteString(warningStyle.Bold(true).Render("Error occured while saving. Quit?"))
	if m.saveErr != nil {
		b.WriteString("\n")
		b.WriteString(m.saveErr.Error())
	}
	b.WriteString("\n\n")
	b.WriteString("y quit anyway • c cancel")
	return dialogStyle.Render(b.String())
}
