package commands

import (
	"context"
	"flag"
	"io"

	"orange/internal/config"
	"orange/internal/exitcode"
	"orange/internal/service"
)

func init() {
	Register(&ToggleCmd{})
}

// ToggleCmd implements the toggle command, flipping a task between done and
// not done.
type ToggleCmd struct{}

func (c *ToggleCmd) Name() string       { return "toggle" }
func (c *ToggleCmd) Aliases() []string  { return []string{"done"} }
func (c *ToggleCmd) Synopsis() string   { return "Check or uncheck a task" }
func (c *ToggleCmd) Usage() string      { return "orange toggle <id>" }
func (c *ToggleCmd) NeedsBackend() bool { return true }

func (c *ToggleCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ToggleCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	id, ok := parseID(args, errOut)
	if !ok {
		return exitcode.UserError
	}

	ctl, code := openList(ctx, svc, errOut)
	if ctl == nil {
		return code
	}

	if err := ctl.ToggleChecked(id); err != nil {
		return reportTaskError(errOut, id, err)
	}
	return saveList(ctx, cfg, ctl, svc, out, errOut)
}
