package engine

import (
	"context"
	"fmt"

	"github.com/grovetools/cellconsole/pkg/action"
	"github.com/grovetools/cellconsole/pkg/models"
)

const msgBadPose = "Pose must be [x,y,z,rx,ry,rz]"

func (e *Engine) getTCP(ctx context.Context, _ action.Action) {
	pose, err := e.gw.TCP(ctx)
	if err != nil {
		e.Dispatch(action.Fail(action.GetTCPFailure, err))
		return
	}
	e.Dispatch(action.New(action.GetTCPSuccess, pose))
	e.notify(action.TagRobot, "Robot Current Pose Fetched")
}

func (e *Engine) robotPing(ctx context.Context, _ action.Action) {
	res, err := e.gw.RobotPing(ctx)
	if err != nil {
		e.Dispatch(action.Fail(action.RobotPingFailure, err))
		return
	}
	e.Dispatch(action.New(action.RobotPingSuccess, res))
	if res.Connected {
		e.notify(action.TagRobot, "Robot Connected")
	}
}

// initRobot enables the robot and selects auto mode the first time it is
// seen connected.
func (e *Engine) initRobot(_ context.Context, a action.Action) {
	res, ok := a.Payload.(models.PingResult)
	if !ok || !res.Connected {
		return
	}
	e.robotInit.Do(func() {
		e.logger.Info("Robot connected, enabling in auto mode")
		e.Dispatch(action.Of(action.RobotEnable))
		e.Dispatch(action.Of(action.RobotModeAuto))
	})
}

func (e *Engine) robotMode(ctx context.Context, a action.Action) {
	mode := models.ModeAuto
	if a.Kind == action.RobotModeManual {
		mode = models.ModeManual
	}
	res, err := e.gw.SetMode(ctx, mode)
	if err != nil {
		e.Dispatch(action.Fail(action.RobotModeFailure, err))
		return
	}
	e.Dispatch(action.New(action.RobotModeSuccess, res))
}

func (e *Engine) robotEnable(ctx context.Context, a action.Action) {
	enable := a.Kind == action.RobotEnable
	res, err := e.gw.SetEnabled(ctx, enable)
	if err != nil {
		e.Dispatch(action.Fail(action.RobotEnableFailure, err))
		return
	}
	e.Dispatch(action.New(action.RobotEnableSuccess, res))
	if enable {
		e.notify(action.TagRobot, "Robot Enabled")
	} else {
		e.notify(action.TagRobot, "Robot Disabled")
	}
}

// tcpAfterEnable fetches the pose once the robot reports enabled.
func (e *Engine) tcpAfterEnable(_ context.Context, a action.Action) {
	if res, ok := a.Payload.(models.ValueResult); ok && res.Value == models.Enabled {
		e.Dispatch(action.Of(action.GetTCP))
	}
}

func (e *Engine) robotSafety(ctx context.Context, a action.Action) {
	call, msg := e.gw.Stop, "Robot Movement Stopped"
	if a.Kind == action.RobotReset {
		call, msg = e.gw.Reset, "Robot Errors Cleared"
	}
	res, err := call(ctx)
	if err != nil {
		e.Dispatch(action.Fail(action.RobotSafetyFailure, err))
		return
	}
	e.Dispatch(action.New(action.RobotSafetySuccess, res))
	e.notify(action.TagRobot, msg)
}

func (e *Engine) moveL(ctx context.Context, a action.Action) {
	p, _ := a.Payload.(action.MoveL)
	if len(p.Pose) != 6 {
		e.Dispatch(action.New(action.RobotMoveLFailure, models.NewFailure(msgBadPose)))
		e.notify(action.TagRobot, msgBadPose)
		return
	}

	cfg := e.current()
	req := models.MoveLRequest{Pose: p.Pose, Simulate: cfg.simulate, ZLift: cfg.zLift}
	if p.Simulate != nil {
		req.Simulate = *p.Simulate
	}
	if p.ZLift != nil {
		req.ZLift = *p.ZLift
	}

	res, err := e.gw.MoveL(ctx, req)
	if err != nil {
		failure := models.FailureFrom(err)
		if failure.Message == "" {
			failure.Message = "MoveL failed"
		}
		e.Dispatch(action.New(action.RobotMoveLFailure, failure))
		e.notify(action.TagRobot, failure.Message)
		return
	}
	e.Dispatch(action.New(action.RobotMoveLSuccess, res))
	e.notify(action.TagRobot, fmt.Sprintf("(MoveL) Moving to X=%.1f Y=%.1f Z=%.1f RZ=%.1f",
		p.Pose[0], p.Pose[1], p.Pose[2], p.Pose[5]))
}

func (e *Engine) pickUnpick(ctx context.Context, _ action.Action) {
	res, err := e.gw.PickUnpick(ctx)
	if err != nil {
		e.Dispatch(action.Fail(action.RobotPickUnpickFailure, err))
		return
	}
	e.Dispatch(action.New(action.RobotPickUnpickSuccess, res))
	if res.Current == 1 {
		e.notify(action.TagRobot, "Object Picked")
	} else {
		e.notify(action.TagRobot, "Object Placed")
	}
}

func (e *Engine) motionParams(ctx context.Context, a action.Action) {
	if a.Kind == action.GetMotionParams {
		params, err := e.gw.MotionParams(ctx)
		if err != nil {
			e.Dispatch(action.Fail(action.GetMotionParamsFailure, err))
			return
		}
		e.Dispatch(action.New(action.GetMotionParamsSuccess, params))
		return
	}

	want, ok := a.Payload.(models.MotionParams)
	if !ok {
		e.Dispatch(action.New(action.SetMotionParamsFailure, models.NewFailure("Motion parameters are missing")))
		return
	}
	params, err := e.gw.SetMotionParams(ctx, want)
	if err != nil {
		e.Dispatch(action.Fail(action.SetMotionParamsFailure, err))
		return
	}
	e.Dispatch(action.New(action.SetMotionParamsSuccess, params))
}
