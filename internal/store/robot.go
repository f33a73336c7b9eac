package store

import (
	"github.com/grovetools/cellconsole/pkg/action"
	"github.com/grovetools/cellconsole/pkg/models"
)

// ReduceRobot handles the robot families.
func ReduceRobot(s RobotState, a action.Action) RobotState {
	switch a.Kind {
	case action.GetTCP, action.RobotPing, action.RobotPickUnpick:
		s.Loading = true
		s.Error = nil
	case action.GetTCPSuccess:
		pose, ok := a.Payload.(models.Pose)
		if !ok {
			return s
		}
		s.Loading = false
		s.Pose = &pose
	case action.RobotPingSuccess:
		res, ok := a.Payload.(models.PingResult)
		if !ok {
			return s
		}
		s.Loading = false
		s.Connected = res.Connected
	case action.RobotPingFailure:
		s.Loading = false
		s.Connected = false
		s.Error = failureOf(a)
	case action.GetTCPFailure, action.RobotPickUnpickFailure:
		s.Loading = false
		s.Error = failureOf(a)

	case action.RobotModeSuccess:
		res, ok := a.Payload.(models.ValueResult)
		if !ok {
			return s
		}
		mode := res.Value
		s.Mode = &mode
		s.Error = nil
	case action.RobotEnableSuccess:
		res, ok := a.Payload.(models.ValueResult)
		if !ok {
			return s
		}
		s.Enabled = res.Value
		s.Error = nil
	case action.RobotSafetySuccess:
		res, ok := a.Payload.(models.SafetyResult)
		if !ok {
			return s
		}
		s.Safety = res.Action
		s.Error = nil
	case action.RobotModeFailure, action.RobotEnableFailure, action.RobotSafetyFailure:
		s.Error = failureOf(a)

	case action.RobotMoveL:
		s.Moving = true
		s.Error = nil
	case action.RobotMoveLSuccess:
		s.Moving = false
		if res, ok := a.Payload.(models.MoveLResult); ok && len(res.Pose) > 0 {
			s.LastPose = res.Pose
		}
	case action.RobotMoveLFailure:
		s.Moving = false
		s.Error = failureOf(a)

	case action.RobotPickUnpickSuccess:
		res, ok := a.Payload.(models.PickResult)
		if !ok {
			return s
		}
		current := res.Current
		s.Loading = false
		s.Gripper = &current

	case action.GetMotionParams, action.SetMotionParams:
		s.LoadingMotionParams = true
		s.MotionParamsError = nil
	case action.GetMotionParamsSuccess, action.SetMotionParamsSuccess:
		params, ok := a.Payload.(models.MotionParams)
		if !ok {
			return s
		}
		s.LoadingMotionParams = false
		s.MotionParams = params
	case action.GetMotionParamsFailure, action.SetMotionParamsFailure:
		s.LoadingMotionParams = false
		s.MotionParamsError = failureOf(a)
	}
	return s
}
