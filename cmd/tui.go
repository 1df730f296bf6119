package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/bookmind/internal/router"
	"github.com/desertthunder/bookmind/internal/shared"
	"github.com/desertthunder/bookmind/internal/state"
	"github.com/desertthunder/bookmind/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive BookMind client.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if err := r.bootstrap(); err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/bookmind-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	model := ui.NewModel(ui.ModelOpts{
		Ctx:      ctx,
		API:      r.api,
		Store:    r.store,
		Router:   router.New(r.store),
		Notifier: state.NewNotifier(r.config.Session.NotificationTTL()),
		Cache:    r.wishing,
	})

	p := tea.NewProgram(model)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
