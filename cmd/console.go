package cmd

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/grovetools/cellconsole/pkg/action"
	"github.com/grovetools/cellconsole/pkg/models"
	"github.com/grovetools/cellconsole/state"
	"github.com/grovetools/cellconsole/tui/console"
	"github.com/grovetools/cellconsole/tui/theme"
	"github.com/spf13/cobra"
)

func newConsoleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "console",
		Short: "Open the interactive operator console",
		Long: `Open the interactive operator console.

The workflow (pick, draw or sort) is restored from the last session,
falling back to ui.mode in the configuration.`,
		Args: cobra.NoArgs,
		RunE: runConsole,
	}
	return cmd
}

func runConsole(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd, "console", withRobotAutoInit)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	if err := rt.watchConfig(ctx, nil); err != nil {
		rt.logger.WithError(err).Warn("Config watcher disabled")
	}

	updates := rt.engine.Store().Subscribe()
	defer rt.engine.Store().Unsubscribe(updates)

	stop := rt.start(ctx)
	defer stop()

	if mode, ok := startupMode(rt.cfg.UI.Mode); ok {
		rt.engine.Dispatch(action.SelectMode(mode))
	}

	model := console.New(rt.engine, updates, console.Options{
		Theme: theme.DefaultTheme,
		OnModeChange: func(mode models.UIMode) {
			if err := state.SetUIMode(mode); err != nil {
				rt.logger.WithError(err).Warn("Failed to save workflow")
			}
		},
	})

	console.InitTerminal()
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("console: %w", err)
	}
	return nil
}

// startupMode prefers the saved workflow over the configured one.
func startupMode(configured string) (models.UIMode, bool) {
	if mode, ok := state.UIMode(); ok {
		return mode, true
	}
	mode := models.UIMode(configured)
	return mode, configured != "" && mode.Valid()
}
