package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"

	"orange/internal/config"
	"orange/internal/controller"
	"orange/internal/exitcode"
	"orange/internal/logging"
	"orange/internal/service"
	"orange/internal/todo"
	"orange/internal/tui"
)

func init() {
	Register(&UICmd{})
}

// UICmd starts the terminal user interface. It is the default command.
// Startup failures leave the list empty; the backend is retried on close.
type UICmd struct {
	factory service.Factory
}

// SetFactory implements Connector.
func (c *UICmd) SetFactory(f service.Factory) {
	c.factory = f
}

func (c *UICmd) Name() string       { return "ui" }
func (c *UICmd) Aliases() []string  { return nil }
func (c *UICmd) Synopsis() string   { return "Open the terminal UI" }
func (c *UICmd) Usage() string      { return "orange [ui] [common flags]" }
func (c *UICmd) NeedsBackend() bool { return false }

func (c *UICmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *UICmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	closer := logging.SetupFile(cfg)
	defer closer.Close()

	model := c.Model(ctx, cfg)

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx), tea.WithOutput(out))
	final, err := program.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	m, ok := final.(tui.Model)
	if !ok {
		return exitcode.Success
	}
	if err := m.Close(); err != nil {
		log.WithError(err).Warn("closing backend")
	}
	if err := m.SaveErr(); err != nil {
		fmt.Fprintf(errOut, "error: changes not saved: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}

// Model connects to the backend, loads the list and builds the UI model.
// Failures are logged and leave the list empty.
func (c *UICmd) Model(ctx context.Context, cfg *config.Config) tui.Model {
	var (
		tasks []todo.Task
		opts  = []tui.Option{tui.WithContext(ctx), tui.WithConnect(func(ctx context.Context) (service.Service, error) {
			return c.open(ctx, cfg)
		})}
	)

	svc, err := c.open(ctx, cfg)
	if err != nil {
		log.WithError(err).Warn("error occured while initializing db")
	} else {
		tasks, err = svc.LoadAll(ctx)
		if err != nil {
			log.WithError(err).Warn("error occured while reading todos")
		}
		opts = append(opts, tui.WithService(svc))
	}

	return tui.New(controller.New(tasks), opts...)
}

func (c *UICmd) open(ctx context.Context, cfg *config.Config) (service.Service, error) {
	if err := cfg.LoadSecrets(); err != nil {
		return nil, err
	}
	if c.factory == nil {
		return nil, tui.ErrNoBackend
	}
	return c.factory(ctx, cfg)
}
