package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"orange/internal/config"
	"orange/internal/exitcode"
	"orange/internal/service"
	"orange/internal/todo"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	body string
	tags tagList
}

func (c *AddCmd) Name() string       { return "add" }
func (c *AddCmd) Aliases() []string  { return []string{"create"} }
func (c *AddCmd) Synopsis() string   { return "Create a task" }
func (c *AddCmd) Usage() string      { return "orange add [--body <text>] [--tag <tag>]... <heading...>" }
func (c *AddCmd) NeedsBackend() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	c.tags = nil
	fs.StringVar(&c.body, "body", "", "")
	fs.StringVar(&c.body, "b", "", "")
	fs.Var(&c.tags, "tag", "")
	fs.Var(&c.tags, "t", "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	heading := strings.Join(args, " ")
	if strings.TrimSpace(heading) == "" {
		fmt.Fprintln(errOut, "error: heading required")
		return exitcode.UserError
	}

	ctl, code := openList(ctx, svc, errOut)
	if ctl == nil {
		return code
	}

	task, err := ctl.Create(todo.Draft{Heading: heading, Body: c.body, Tags: c.tags})
	if err != nil {
		return reportTaskError(errOut, 0, err)
	}
	if code := saveList(ctx, cfg, ctl, svc, io.Discard, errOut); code != exitcode.Success {
		return code
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "ok %d\n", task.ID())
	}
	return exitcode.Success
}
