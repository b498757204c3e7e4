package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"orange/internal/config"
	"orange/internal/exitcode"
	"orange/internal/service"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string       { return "help" }
func (c *HelpCmd) Aliases() []string  { return nil }
func (c *HelpCmd) Synopsis() string   { return "Print usage" }
func (c *HelpCmd) Usage() string      { return "orange help" }
func (c *HelpCmd) NeedsBackend() bool { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	fmt.Fprint(out, "\nCommands:\n")
	fmt.Fprint(out, DefaultRegistry.Summary())
	return exitcode.Success
}

const helpText = `Usage:
  orange [ui] [common flags]                         Open the interactive list
  orange list [common flags] [--long]                Print all tasks
  orange ls [common flags] [--long]
  orange add [common flags] --body <text> [--tag <tag>]... <heading...>
  orange create [common flags] --body <text> [--tag <tag>]... <heading...>
  orange edit [common flags] [--heading <text>] [--body <text>] [--tag <tag>]... <id>
  orange toggle [common flags] <id>                  Check or uncheck a task
  orange done [common flags] <id>
  orange rm [common flags] <id>
  orange delete [common flags] <id>
  orange login [common flags]                        Authorize the Google Tasks backend
  orange logout [common flags]
  orange help
  orange version

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr

The backend is chosen in <config dir>/secrets.toml:
  backend = "postgres" | "sqlite" | "googletasks"
`
