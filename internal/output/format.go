// Package output provides formatters for CLI and UI output.
package output

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"orange/internal/todo"
)

// Checkbox returns the marker shown in front of a task heading.
func Checkbox(checked bool) string {
	if checked {
		return "[x]"
	}
	return "[ ]"
}

// FormatTask formats a task line for the list command.
// Format: "{ID:>4}  [x] {HEADING} #tag #tag\n"
func FormatTask(w io.Writer, task todo.Task) {
	fmt.Fprintf(w, "%4d  %s %s%s\n", task.ID(), Checkbox(task.Checked()), normalizeTitle(task.Heading()), FormatTags(task.Tags()))
}

// FormatTaskLong formats a task line followed by its body, each body line
// indented under the heading.
func FormatTaskLong(w io.Writer, task todo.Task) {
	FormatTask(w, task)
	for _, line := range strings.Split(task.Body(), "\n") {
		fmt.Fprintf(w, "          %s\n", strings.TrimRight(line, "\r"))
	}
}

// FormatTags renders tags as " #a #b", or "" when there are none.
func FormatTags(tags []string) string {
	var sb strings.Builder
	for _, tag := range tags {
		sb.WriteString(" #")
		sb.WriteString(tag)
	}
	return sb.String()
}

// ValidationMessage returns the inline message shown for a failed save.
func ValidationMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, todo.ErrEmptyHeading):
		return "Add heading. Todo can't have empty heading!"
	case errors.Is(err, todo.ErrEmptyBody):
		return "Add body. Todo can't have empty body!"
	case errors.Is(err, todo.ErrZeroID):
		return "Todo can't have a zero id!"
	default:
		return err.Error()
	}
}

// normalizeTitle normalizes a task heading for display.
// - Empty or whitespace-only headings become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
