package engine

import (
	"context"
	"sync"

	"github.com/grovetools/cellconsole/pkg/action"
)

type handler func(ctx context.Context, a action.Action)

// process is one long-lived reactive loop. Every action it receives is
// handled in its own goroutine, so concurrent requests of the same kind run
// independently and a slow call never holds up the next one.
type process struct {
	name   string
	kinds  []action.Kind
	handle handler
	inbox  chan action.Action
}

func (p *process) run(ctx context.Context, wg *sync.WaitGroup) {
	for {
		select {
		case <-ctx.Done():
			return
		case a := <-p.inbox:
			wg.Add(1)
			go func() {
				defer wg.Done()
				p.handle(ctx, a)
			}()
		}
	}
}

func (e *Engine) on(name string, h handler, kinds ...action.Kind) {
	p := &process{
		name:   name,
		kinds:  kinds,
		handle: h,
		inbox:  make(chan action.Action, 64),
	}
	e.processes = append(e.processes, p)
	for _, k := range kinds {
		e.routes[k] = append(e.routes[k], p)
	}
}

// register wires every intent family and cross-domain trigger.
func (e *Engine) register() {
	e.on("user", e.getUser, action.GetUser)

	e.on("camera-ping", e.cameraPing, action.CameraPing)
	e.on("camera-trigger", e.cameraTrigger, action.CameraTrigger)
	e.on("analyze", e.analyze, action.AnalyzeImage)
	e.on("autosetup", e.autosetup, action.RunAutosetup)

	e.on("tcp", e.getTCP, action.GetTCP)
	e.on("robot-ping", e.robotPing, action.RobotPing)
	e.on("robot-mode", e.robotMode, action.RobotModeAuto, action.RobotModeManual)
	e.on("robot-enable", e.robotEnable, action.RobotEnable, action.RobotDisable)
	e.on("robot-safety", e.robotSafety, action.RobotStop, action.RobotReset)
	e.on("movel", e.moveL, action.RobotMoveL)
	e.on("pick-unpick", e.pickUnpick, action.RobotPickUnpick)
	e.on("motion-params", e.motionParams, action.GetMotionParams, action.SetMotionParams)

	e.on("job", e.job, action.JobStart, action.JobStop)
	e.on("dxf", e.dxf, action.DXFPreview, action.DXFDraw)

	// Cross-domain triggers read the store once when the outcome arrives.
	if e.autoInitRobot {
		e.on("robot-init", e.initRobot, action.RobotPingSuccess)
	}
	e.on("tcp-after-enable", e.tcpAfterEnable, action.RobotEnableSuccess)
	e.on("capture-after-autosetup", e.captureAfterAutosetup, action.RunAutosetupSuccess)

	e.on("notification-dismiss", e.dismissLater, action.ShowNotification)
}
