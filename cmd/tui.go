package main

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/tdx/internal/shared"
	"github.com/desertthunder/tdx/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal client.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	pageURL, err := r.pageURL()
	if err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(r.config.Log.File)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	shared.SetLogLevel(fileLogger, shared.ParseLogLevel(r.config.Log.Level))
	r.SetLogger(fileLogger)

	receiver, err := r.newReceiver(io.Discard)
	if err != nil {
		return err
	}

	model := ui.NewModel(ctx, ui.Config{
		PageURL:       pageURL,
		NewPage:       r.newPage,
		Navigate:      receiver.navigate,
		AwaitRedirect: receiver.await,
		Logger:        fileLogger,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
