package commands

import (
	"context"
	"flag"
	"io"

	"orange/internal/config"
	"orange/internal/exitcode"
	"orange/internal/service"
	"orange/internal/todo"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd implements the edit command. Only the given fields change; any
// --tag replaces the task's tags.
type EditCmd struct {
	heading optionalString
	body    optionalString
	tags    tagList
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return nil }
func (c *EditCmd) Synopsis() string  { return "Change a task" }
func (c *EditCmd) Usage() string {
	return "orange edit [--heading <text>] [--body <text>] [--tag <tag>]... <id>"
}
func (c *EditCmd) NeedsBackend() bool { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	c.heading, c.body, c.tags = optionalString{}, optionalString{}, nil
	fs.Var(&c.heading, "heading", "")
	fs.Var(&c.body, "body", "")
	fs.Var(&c.body, "b", "")
	fs.Var(&c.tags, "tag", "")
	fs.Var(&c.tags, "t", "")
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	id, ok := parseID(args, errOut)
	if !ok {
		return exitcode.UserError
	}

	ctl, code := openList(ctx, svc, errOut)
	if ctl == nil {
		return code
	}

	if err := ctl.BeginEdit(id); err != nil {
		return reportTaskError(errOut, id, err)
	}
	if err := ctl.UpdateEdit(func(d *todo.Draft) {
		if c.heading.set {
			d.Heading = c.heading.value
		}
		if c.body.set {
			d.Body = c.body.value
		}
		if len(c.tags) > 0 {
			d.Tags = append([]string(nil), c.tags...)
		}
	}); err != nil {
		return reportTaskError(errOut, id, err)
	}
	if err := ctl.SaveEdit(); err != nil {
		return reportTaskError(errOut, id, err)
	}

	return saveList(ctx, cfg, ctl, svc, out, errOut)
}
