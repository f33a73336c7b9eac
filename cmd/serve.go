package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/grovetools/cellconsole/config"
	"github.com/grovetools/cellconsole/internal/pidfile"
	"github.com/grovetools/cellconsole/internal/server"
	"github.com/grovetools/cellconsole/logging"
	"github.com/grovetools/cellconsole/pkg/overlay"
	"github.com/grovetools/cellconsole/pkg/paths"
	"github.com/grovetools/cellconsole/state"
	"github.com/spf13/cobra"
)

// NewServeCmd returns the state server command with subcommands.
func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local state server",
		Long:  "Run the engine headless and serve its state over HTTP, SSE and websocket.",
	}

	cmd.AddCommand(newServeStartCmd())
	cmd.AddCommand(newServeStopCmd())
	cmd.AddCommand(newServeStatusCmd())

	return cmd
}

func newServeStartCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the server in the foreground",
		Long: `Start the state server in the foreground.

The address may be host:port or unix:///path/to/socket. The configuration
file is watched and reloaded while the server runs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd, "serve", withRobotAutoInit)
			if err != nil {
				return err
			}
			logger := rt.logger
			if addr == "" {
				addr = rt.cfg.Server.Addr
			}

			if err := paths.EnsureDirs(); err != nil {
				return fmt.Errorf("failed to create state directory: %w", err)
			}
			pidPath := paths.PidFilePath()
			if err := pidfile.Acquire(pidPath); err != nil {
				return fmt.Errorf("failed to start: %w", err)
			}
			defer func() {
				if err := pidfile.Release(pidPath); err != nil {
					logger.Errorf("Failed to release pidfile: %v", err)
				}
			}()

			srv := server.New(logger, rt.engine)
			srv.SetOverlay(overlayOptions(rt.cfg))
			if config.Enabled(rt.cfg.Server.Metrics) {
				srv.SetMetrics(rt.metrics.Handler())
			}
			srv.SetRunningConfig(&server.RunningConfig{
				Host:         rt.cfg.Backend.Host,
				PollInterval: rt.cfg.PollIntervalDuration(),
				ConfigFile:   rt.configPath,
				StartedAt:    time.Now(),
			})

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			err = rt.watchConfig(ctx, func(cfg *config.Config) {
				srv.SetOverlay(overlayOptions(cfg))
				srv.SetRunningConfig(&server.RunningConfig{
					Host:         cfg.Backend.Host,
					PollInterval: cfg.PollIntervalDuration(),
					ConfigFile:   rt.configPath,
					StartedAt:    time.Now(),
				})
			})
			if err != nil {
				logger.WithError(err).Warn("Config watcher disabled")
			}

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(stop)

			go func() {
				select {
				case <-stop:
					logger.Info("Received stop signal")
				case <-ctx.Done():
				}
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer shutdownCancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					logger.Errorf("Server shutdown error: %v", err)
				}
			}()

			stopEngine := rt.start(ctx)
			defer stopEngine()

			logger.WithField("pid", os.Getpid()).WithField("addr", addr).Info("Starting state server")
			if err := srv.ListenAndServe(addr); err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default server.addr)")
	return cmd
}

// overlayOptions applies the operator's saved toggles over the configured
// ones.
func overlayOptions(cfg *config.Config) overlay.Options {
	opts := overlay.OptionsFromConfig(cfg.Overlay)
	saved, ok, err := state.OverlayToggles()
	if err != nil || !ok {
		return opts
	}
	return overlay.Options(saved)
}

func newServeStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the running server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pidPath := paths.PidFilePath()

			running, pid, err := pidfile.IsRunning(pidPath)
			if err != nil {
				return fmt.Errorf("error checking status: %w", err)
			}

			out := logging.NewPrettyLogger().WithWriter(cmd.OutOrStdout())
			if !running {
				out.Warn("Server is not running")
				return nil
			}

			process, err := os.FindProcess(pid)
			if err != nil {
				return fmt.Errorf("failed to find process %d: %w", pid, err)
			}
			if err := process.Signal(syscall.SIGTERM); err != nil {
				return fmt.Errorf("failed to send stop signal: %w", err)
			}

			out.Success(fmt.Sprintf("Sent SIGTERM to process %d", pid))
			return nil
		},
	}
}

func newServeStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check server status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pidPath := paths.PidFilePath()
			running, pid, err := pidfile.IsRunning(pidPath)
			if err != nil {
				return fmt.Errorf("error: %w", err)
			}

			out := logging.NewPrettyLogger().WithWriter(cmd.OutOrStdout())
			if running {
				out.Success("Running")
				out.Field("pid", pid)
				out.Field("pid file", pidPath)
				return nil
			}
			out.Error("Stopped")
			os.Exit(1) // non-zero for scripts
			return nil
		},
	}
}
