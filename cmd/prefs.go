package cmd

import (
	"github.com/grovetools/cellconsole/cli"
	"github.com/grovetools/cellconsole/logging"
	"github.com/grovetools/cellconsole/pkg/overlay"
	"github.com/grovetools/cellconsole/pkg/paths"
	"github.com/grovetools/cellconsole/state"
	"github.com/spf13/cobra"
)

func newPrefsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show or change saved operator preferences",
	}
	cmd.AddCommand(newPrefsShowCmd(), newPrefsOverlayCmd(), newPrefsResetCmd())
	return cmd
}

func newPrefsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the saved preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			prefs, err := state.Load()
			if err != nil {
				return err
			}
			return printResult(cmd, prefs)
		},
	}
}

func newPrefsOverlayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "overlay",
		Short: "Save the overlay layers served by the preview endpoint",
		Long: `Save the overlay layers served by the preview endpoint.

Flags that are not given keep their saved value, or the configured one when
nothing is saved yet.`,
		Example: `  cellconsole prefs overlay --labels=false
  cellconsole prefs overlay --area --perimeter`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			current, ok, err := state.OverlayToggles()
			if err != nil {
				return err
			}
			if !ok {
				cfg, _, err := cli.LoadConfig(cmd)
				if err != nil {
					return err
				}
				current = state.Overlay(overlay.OptionsFromConfig(cfg.Overlay))
			}

			flags := cmd.Flags()
			for name, dst := range map[string]*bool{
				"edges": &current.Edges, "holes": &current.Holes, "labels": &current.Labels,
				"width": &current.Width, "height": &current.Height,
				"area": &current.Area, "perimeter": &current.Perimeter,
			} {
				if flags.Changed(name) {
					*dst, _ = flags.GetBool(name)
				}
			}

			if err := state.SetOverlayToggles(current); err != nil {
				return err
			}
			return printResult(cmd, current)
		},
	}
	f := cmd.Flags()
	f.Bool("edges", false, "Draw object outlines")
	f.Bool("holes", false, "Draw hole outlines")
	f.Bool("labels", false, "Draw object labels")
	f.Bool("width", false, "Annotate object width")
	f.Bool("height", false, "Annotate object height")
	f.Bool("area", false, "Annotate object area")
	f.Bool("perimeter", false, "Annotate object perimeter")
	return cmd
}

func newPrefsResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Forget all saved preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := state.Reset(); err != nil {
				return err
			}
			logging.NewPrettyLogger().WithWriter(cmd.OutOrStdout()).Success("Removed " + paths.PreferencesPath())
			return nil
		},
	}
}
