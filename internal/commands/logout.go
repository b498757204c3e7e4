package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"orange/internal/backend/googletasks"
	"orange/internal/config"
	"orange/internal/exitcode"
	"orange/internal/service"
)

func init() {
	Register(&LogoutCmd{})
}

// LogoutCmd forgets the Google Tasks token. Database credentials in
// secrets.toml are left alone.
type LogoutCmd struct{}

func (c *LogoutCmd) Name() string       { return "logout" }
func (c *LogoutCmd) Aliases() []string  { return nil }
func (c *LogoutCmd) Synopsis() string   { return "Remove the stored Google token" }
func (c *LogoutCmd) Usage() string      { return "orange logout [common flags]" }
func (c *LogoutCmd) NeedsBackend() bool { return false }

func (c *LogoutCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *LogoutCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	had, err := googletasks.Logout(cfg)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.ConfigError
	}

	if cfg.Quiet {
		return exitcode.Success
	}
	if had {
		fmt.Fprintln(out, "ok")
	} else {
		fmt.Fprintln(out, "not logged in")
	}
	return exitcode.Success
}
