// Package cmd holds the cellconsole command tree.
package cmd

import (
	"github.com/grovetools/cellconsole/cli"
	"github.com/grovetools/cellconsole/logging"
	"github.com/grovetools/cellconsole/pkg/profiling"
	"github.com/grovetools/cellconsole/version"
	"github.com/spf13/cobra"
)

// NewRootCmd builds the cellconsole command tree.
func NewRootCmd() *cobra.Command {
	root := cli.NewStandardCommand("cellconsole", "Operator console for the pick-and-place cell")
	root.Long = `Operator console for the vision-guided pick-and-place cell.

Run without a subcommand to open the interactive console. The other
commands drive the same engine once and print the result.

Examples:
  cellconsole
  cellconsole camera analyze --overlay overlay.png
  cellconsole robot movel 300 0 250 180 0 90
  cellconsole job start pick
  cellconsole serve start`
	root.SilenceUsage = true
	root.SilenceErrors = true
	root.PersistentFlags().String("host", "", "Backend base URL (overrides backend.host)")
	profiling.New(logging.NewLogger("profiling")).AddFlags(root)

	info := version.GetInfo()
	cli.SetVersionTemplate(root, info)

	root.RunE = runConsole

	root.AddCommand(newConsoleCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newCameraCmd())
	root.AddCommand(newRobotCmd())
	root.AddCommand(newJobCmd())
	root.AddCommand(newDXFCmd())
	root.AddCommand(newConfigCmd())
	root.AddCommand(newPrefsCmd())
	root.AddCommand(cli.NewVersionCommand("cellconsole", info))

	cli.ApplyStyledHelpRecursive(root)
	return root
}
