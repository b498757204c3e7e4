package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"runtime/debug"

	"orange/internal/config"
	"orange/internal/exitcode"
	"orange/internal/service"
)

// Version is the application version. Set at build time.
var Version = "0.1.0"

func init() {
	Register(&VersionCmd{})
}

// VersionCmd prints the version, followed by the VCS revision when the
// binary was built from a checkout.
type VersionCmd struct{}

func (c *VersionCmd) Name() string       { return "version" }
func (c *VersionCmd) Aliases() []string  { return nil }
func (c *VersionCmd) Synopsis() string   { return "Print version" }
func (c *VersionCmd) Usage() string      { return "orange version" }
func (c *VersionCmd) NeedsBackend() bool { return false }

func (c *VersionCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *VersionCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if rev := revision(); rev != "" {
		fmt.Fprintf(out, "orange %s (%s)\n", Version, rev)
		return exitcode.Success
	}
	fmt.Fprintf(out, "orange %s\n", Version)
	return exitcode.Success
}

func revision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && len(s.Value) >= 7 {
			return s.Value[:7]
		}
	}
	return ""
}
