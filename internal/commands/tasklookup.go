package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"orange/internal/config"
	"orange/internal/controller"
	"orange/internal/exitcode"
	"orange/internal/output"
	"orange/internal/service"
	"orange/internal/todo"
)

// openList loads every stored task into a controller.
func openList(ctx context.Context, svc service.Service, errOut io.Writer) (*controller.Controller, int) {
	tasks, err := svc.LoadAll(ctx)
	if err != nil {
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return nil, exitcode.BackendError
	}
	return controller.New(tasks), exitcode.Success
}

// saveList flushes the controller's tasks and removals back to svc.
func saveList(ctx context.Context, cfg *config.Config, ctl *controller.Controller, svc service.Service, out, errOut io.Writer) int {
	if err := ctl.Flush(ctx, svc); err != nil {
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}
	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// parseID parses the task id argument, reporting failures on errOut.
func parseID(args []string, errOut io.Writer) (int64, bool) {
	id, err := ParseTaskID(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return 0, false
	}
	return id, true
}

// reportTaskError prints a controller or validation error and returns the
// matching exit code.
func reportTaskError(errOut io.Writer, id int64, err error) int {
	switch {
	case errors.Is(err, controller.ErrTaskNotFound):
		fmt.Fprintf(errOut, "error: task not found: %d\n", id)
	case errors.Is(err, todo.ErrInvalid):
		fmt.Fprintf(errOut, "error: %s\n", output.ValidationMessage(err))
	default:
		fmt.Fprintf(errOut, "error: %v\n", err)
	}
	return exitcode.UserError
}

// optionalString is a string flag that remembers whether it was given.
type optionalString struct {
	value string
	set   bool
}

func (s *optionalString) String() string { return s.value }

func (s *optionalString) Set(v string) error {
	s.value, s.set = v, true
	return nil
}

// tagList collects a repeatable --tag flag.
type tagList []string

func (t *tagList) String() string { return strings.Join(*t, ",") }

func (t *tagList) Set(v string) error {
	*t = append(*t, v)
	return nil
}
