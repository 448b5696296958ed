package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/RedPhoenixQ/reddit-proxy/internal/shared"
	"github.com/RedPhoenixQ/reddit-proxy/internal/ui"
)

// Browse launches the interactive terminal browser for a listing.
func (r *Runner) Browse(ctx context.Context, cmd *cli.Command) error {
	if err := r.loadConfig(cmd); err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/reddit-proxy-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	client, err := r.redditClient(nil)
	if err != nil {
		return err
	}

	model := ui.NewModel(ctx, client, cmd.StringArg("path"), cmd.String("query"), cmd.String("token"))
	p := tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
