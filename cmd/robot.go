package cmd

import (
	"fmt"
	"strconv"

	"github.com/grovetools/cellconsole/pkg/action"
	"github.com/grovetools/cellconsole/pkg/models"
	"github.com/spf13/cobra"
)

func newRobotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "robot",
		Short: "Drive the robot controller",
	}

	simple := []struct {
		use, short string
		kind       action.Kind
	}{
		{"tcp", "Print the current tool pose", action.GetTCP},
		{"ping", "Check the robot connection", action.RobotPing},
		{"enable", "Enable the robot", action.RobotEnable},
		{"disable", "Disable the robot", action.RobotDisable},
		{"stop", "Stop all motion", action.RobotStop},
		{"reset", "Clear controller errors", action.RobotReset},
		{"pick", "Toggle the gripper", action.RobotPickUnpick},
	}
	for _, s := range simple {
		kind := s.kind
		cmd.AddCommand(&cobra.Command{
			Use:   s.use,
			Short: s.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runOneShot(cmd, action.Of(kind))
			},
		})
	}

	cmd.AddCommand(newRobotModeCmd())
	cmd.AddCommand(newRobotMoveLCmd())
	cmd.AddCommand(newRobotParamsCmd())
	return cmd
}

func newRobotModeCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "mode <auto|manual>",
		Short:     "Select the controller mode",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"auto", "manual"},
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "auto":
				return runOneShot(cmd, action.Of(action.RobotModeAuto))
			case "manual":
				return runOneShot(cmd, action.Of(action.RobotModeManual))
			}
			return fmt.Errorf("unknown mode %q (want auto or manual)", args[0])
		},
	}
}

func newRobotMoveLCmd() *cobra.Command {
	var (
		simulate bool
		zLift    float64
	)
	cmd := &cobra.Command{
		Use:   "movel <x> <y> <z> <rx> <ry> <rz>",
		Short: "Move linearly to a pose",
		Long: `Move linearly to a pose in mm and degrees. Simulation and Z lift
default to the motion section of the configuration.

Examples:
  cellconsole robot movel 300 0 250 180 0 90
  cellconsole robot movel 300 0 250 180 0 90 --simulate`,
		Args: cobra.ExactArgs(6),
		RunE: func(cmd *cobra.Command, args []string) error {
			pose, err := parsePose(args)
			if err != nil {
				return err
			}
			p := action.MoveL{Pose: pose}
			if cmd.Flags().Changed("simulate") {
				p.Simulate = &simulate
			}
			if cmd.Flags().Changed("z-lift") {
				p.ZLift = &zLift
			}
			return runOneShot(cmd, action.New(action.RobotMoveL, p))
		},
	}
	cmd.Flags().BoolVar(&simulate, "simulate", false, "Plan the move without executing it")
	cmd.Flags().Float64Var(&zLift, "z-lift", 0, "Lift in mm before the lateral move")
	return cmd
}

func newRobotParamsCmd() *cobra.Command {
	var vel, acc, ovl float64
	cmd := &cobra.Command{
		Use:   "params",
		Short: "Show or set motion parameters",
		Long: `Show the velocity, acceleration and override percentages. With any
flag set, the current values are read, the given ones replaced and the
result written back.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !flags.Changed("vel") && !flags.Changed("acc") && !flags.Changed("ovl") {
				return runOneShot(cmd, action.Of(action.GetMotionParams))
			}

			rt, err := newRuntime(cmd, "cli")
			if err != nil {
				return err
			}
			stop := rt.start(cmd.Context())
			defer stop()

			got, err := rt.await(cmd.Context(), action.Of(action.GetMotionParams))
			if err != nil {
				return err
			}
			params, _ := got.Payload.(models.MotionParams)
			if flags.Changed("vel") {
				params.Vel = vel
			}
			if flags.Changed("acc") {
				params.Acc = acc
			}
			if flags.Changed("ovl") {
				params.Ovl = ovl
			}

			got, err = rt.await(cmd.Context(), action.New(action.SetMotionParams, params))
			if err != nil {
				return err
			}
			return printResult(cmd, got.Payload)
		},
	}
	cmd.Flags().Float64Var(&vel, "vel", 0, "Velocity in percent")
	cmd.Flags().Float64Var(&acc, "acc", 0, "Acceleration in percent")
	cmd.Flags().Float64Var(&ovl, "ovl", 0, "Speed override in percent")
	return cmd
}

// parsePose reads six numbers in x, y, z, rx, ry, rz order.
func parsePose(args []string) ([]float64, error) {
	names := []string{"x", "y", "z", "rx", "ry", "rz"}
	if len(args) != len(names) {
		return nil, fmt.Errorf("pose needs %d values, got %d", len(names), len(args))
	}
	pose := make([]float64, len(args))
	for i, arg := range args {
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", names[i], arg, err)
		}
		pose[i] = v
	}
	return pose, nil
}
