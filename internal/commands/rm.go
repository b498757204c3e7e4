package commands

import (
	"context"
	"flag"
	"io"

	"orange/internal/config"
	"orange/internal/controller"
	"orange/internal/exitcode"
	"orange/internal/service"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct{}

func (c *RmCmd) Name() string       { return "rm" }
func (c *RmCmd) Aliases() []string  { return []string{"delete"} }
func (c *RmCmd) Synopsis() string   { return "Delete a task" }
func (c *RmCmd) Usage() string      { return "orange rm <id>" }
func (c *RmCmd) NeedsBackend() bool { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	id, ok := parseID(args, errOut)
	if !ok {
		return exitcode.UserError
	}

	ctl, code := openList(ctx, svc, errOut)
	if ctl == nil {
		return code
	}

	if !ctl.Remove(id) {
		return reportTaskError(errOut, id, controller.ErrTaskNotFound)
	}
	return saveList(ctx, cfg, ctl, svc, out, errOut)
}
