package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/grovetools/cellconsole/cli"
	"github.com/grovetools/cellconsole/pkg/action"
	"github.com/grovetools/cellconsole/pkg/models"
	"github.com/spf13/cobra"
)

func newJobCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "job",
		Short: "Start, stop and watch autonomous jobs",
		Long: `Start, stop and watch the autonomous pick and sort jobs.

Examples:
  cellconsole job start pick
  cellconsole job status pick --watch
  cellconsole job stop pick`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:       "start <pick|sort>",
		Short:     "Start a job",
		Args:      cobra.ExactArgs(1),
		ValidArgs: jobNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			job, err := models.ParseJobType(args[0])
			if err != nil {
				return err
			}
			return runOneShot(cmd, action.StartJob(job))
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:       "stop <pick|sort>",
		Short:     "Stop a job",
		Args:      cobra.ExactArgs(1),
		ValidArgs: jobNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			job, err := models.ParseJobType(args[0])
			if err != nil {
				return err
			}
			return runOneShot(cmd, action.StopJob(job))
		},
	})
	cmd.AddCommand(newJobStatusCmd())
	return cmd
}

func newJobStatusCmd() *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:       "status <pick|sort>",
		Short:     "Print the job status",
		Long:      "Print the job status once, or every poll interval with --watch until the job stops.",
		Args:      cobra.ExactArgs(1),
		ValidArgs: jobNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			job, err := models.ParseJobType(args[0])
			if err != nil {
				return err
			}
			rt, err := newRuntime(cmd, "cli")
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			asJSON := cli.GetOptions(cmd).JSONOutput
			out := cmd.OutOrStdout()

			for {
				status, err := rt.gateway.JobStatus(ctx, job)
				if err != nil {
					return err
				}
				status.ImageBase64 = ""
				status.Fields = nil

				if !watch {
					return writeResult(out, asJSON, status)
				}
				if asJSON {
					if err := writeResult(out, true, status); err != nil {
						return err
					}
				} else {
					printStatusLine(out, job, status)
				}
				if status.AutoRun != nil && !*status.AutoRun {
					return nil
				}

				select {
				case <-ctx.Done():
					return nil
				case <-time.After(rt.cfg.PollIntervalDuration()):
				}
			}
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Keep polling until the job stops")
	return cmd
}

func printStatusLine(w io.Writer, job models.JobType, s models.JobStatus) {
	stage := s.Stage
	if stage == "" {
		stage = "-"
	}
	running := "unknown"
	if s.AutoRun != nil {
		running = fmt.Sprintf("%t", *s.AutoRun)
	}
	line := fmt.Sprintf("%s  %-5s running=%s stage=%s", time.Now().Format("15:04:05"), job, running, stage)
	if len(s.TargetPose) == 6 {
		line += fmt.Sprintf(" target=(%.1f, %.1f, %.1f, rz %.1f)", s.TargetPose[0], s.TargetPose[1], s.TargetPose[2], s.TargetPose[5])
	}
	if s.Analysis != nil {
		line += fmt.Sprintf(" objects=%d", len(s.Analysis.Objects))
	}
	fmt.Fprintln(w, line)
}

func jobNames() []string {
	names := make([]string, len(models.JobTypes))
	for i, j := range models.JobTypes {
		names[i] = string(j)
	}
	return names
}
