package engine

import (
	"context"

	"github.com/grovetools/cellconsole/pkg/action"
	"github.com/grovetools/cellconsole/pkg/models"
)

const (
	msgImageMissing = "Image is missing"
	msgTCPMissing   = "TCP not available"
	msgZMissing     = "TCP Z not available"
)

func (e *Engine) getUser(ctx context.Context, _ action.Action) {
	res, err := e.gw.Users(ctx)
	if err != nil {
		e.Dispatch(action.Fail(action.GetUserFailure, err))
		return
	}
	if res.Status != "Ok" {
		msg, _ := res.Data.(string)
		e.Dispatch(action.New(action.GetUserFailure, models.Failure{Message: msg, Body: res.Data}))
		return
	}
	e.Dispatch(action.New(action.GetUserSuccess, res))
}

func (e *Engine) cameraPing(ctx context.Context, _ action.Action) {
	res, err := e.gw.CameraPing(ctx)
	if err != nil {
		e.Dispatch(action.Fail(action.CameraPingFailure, err))
		return
	}
	e.Dispatch(action.New(action.CameraPingSuccess, res))
	if res.Connected {
		e.notify(action.TagCamera, "Camera Connected")
	}
}

// cameraTrigger captures at the Z carried by the request, falling back to the
// robot's last known pose.
func (e *Engine) cameraTrigger(ctx context.Context, a action.Action) {
	var z *float64
	if p, ok := a.Payload.(action.TriggerCamera); ok && p.CurrentZ != nil {
		z = p.CurrentZ
	} else if pose := e.State().Robot.Pose; pose != nil {
		v := pose.Z
		z = &v
	}
	if z == nil {
		e.Dispatch(action.New(action.CameraTriggerFailure, models.NewFailure(msgZMissing)))
		return
	}

	capture, err := e.gw.TriggerCamera(ctx, *z)
	if err != nil {
		e.Dispatch(action.Fail(action.CameraTriggerFailure, err))
		return
	}
	e.Dispatch(action.New(action.CameraTriggerSuccess, capture))
}

// analyze checks its inputs before calling the backend: the image must be in
// the request, the TCP may come from the request or the robot store.
func (e *Engine) analyze(ctx context.Context, a action.Action) {
	p, _ := a.Payload.(action.Analyze)
	if p.ImageBase64 == "" {
		e.Dispatch(action.New(action.AnalyzeImageFailure, models.NewFailure(msgImageMissing)))
		return
	}
	tcp := p.TCP
	if tcp == nil {
		if pose := e.State().Robot.Pose; pose != nil {
			tcp = pose.Slice()
		}
	}
	if len(tcp) != 6 {
		e.Dispatch(action.New(action.AnalyzeImageFailure, models.NewFailure(msgTCPMissing)))
		return
	}

	cfg := e.current()
	res, err := e.gw.Analyze(ctx, models.AnalyzeRequest{
		ImageBase64: p.ImageBase64,
		TCP:         tcp,
		WhiteThresh: cfg.whiteThresh,
		AutoThresh:  cfg.autoThresh,
		EnableEdges: cfg.enableEdges,
	})
	if err != nil {
		e.Dispatch(action.Fail(action.AnalyzeImageFailure, err))
		return
	}
	e.Dispatch(action.New(action.AnalyzeImageSuccess, res))
}

func (e *Engine) autosetup(ctx context.Context, _ action.Action) {
	res, err := e.gw.Autosetup(ctx)
	if err != nil {
		e.Dispatch(action.Fail(action.RunAutosetupFailure, err))
		return
	}
	e.Dispatch(action.New(action.RunAutosetupSuccess, res))
	e.notify(action.TagCamera, "Autosetup Complete")
}

// captureAfterAutosetup re-captures with the new exposure at the robot's
// current height.
func (e *Engine) captureAfterAutosetup(_ context.Context, _ action.Action) {
	pose := e.State().Robot.Pose
	if pose == nil {
		e.notify(action.TagCamera, msgZMissing)
		return
	}
	e.Dispatch(action.TriggerCameraAt(pose.Z))
}
