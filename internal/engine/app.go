package engine

import (
	"bytes"
	"context"
	"fmt"

	"github.com/grovetools/cellconsole/pkg/action"
	"github.com/grovetools/cellconsole/pkg/models"
)

// job starts or stops a job. The status poller itself is started and
// stopped by the dispatch loop when the outcome is reduced.
func (e *Engine) job(ctx context.Context, a action.Action) {
	p, _ := a.Payload.(action.Job)
	start := a.Kind == action.JobStart
	failKind := action.JobStopFailure
	if start {
		failKind = action.JobStartFailure
	}
	if _, err := p.Job.Slot(); err != nil {
		e.Dispatch(action.New(failKind, action.JobFailure{Job: p.Job, Failure: models.NewFailure(err.Error())}))
		return
	}

	call, okKind, verb := e.gw.StopJob, action.JobStopSuccess, "stopped"
	if start {
		call, okKind, verb = e.gw.StartJob, action.JobStartSuccess, "started"
	}
	ack, err := call(ctx, p.Job)
	if err != nil {
		e.Dispatch(action.New(failKind, action.JobFailure{Job: p.Job, Failure: models.FailureFrom(err)}))
		return
	}
	e.Dispatch(action.New(okKind, action.JobAck{Job: p.Job, Ack: ack}))

	msg := ack.Message
	if msg == "" {
		msg = fmt.Sprintf("%s job %s", jobTitle(p.Job), verb)
	}
	e.notify(action.TagApp, msg)
}

func jobTitle(job models.JobType) string {
	switch job {
	case models.JobPick:
		return "Pick"
	case models.JobSort:
		return "Sort"
	}
	return string(job)
}

func (e *Engine) dxf(ctx context.Context, a action.Action) {
	if a.Kind == action.DXFPreview {
		f, ok := a.Payload.(action.DXFFile)
		if !ok || len(f.Data) == 0 {
			e.Dispatch(action.New(action.DXFPreviewFailure, models.NewFailure("DXF file is missing")))
			return
		}
		set, err := e.gw.PreviewDXF(ctx, f.Name, bytes.NewReader(f.Data))
		if err != nil {
			e.Dispatch(action.Fail(action.DXFPreviewFailure, err))
			return
		}
		e.Dispatch(action.New(action.DXFPreviewSuccess, set))
		return
	}

	params, _ := a.Payload.(models.DrawParams)
	set, err := e.gw.Draw(ctx, params)
	if err != nil {
		e.Dispatch(action.Fail(action.DXFDrawFailure, err))
		return
	}
	e.Dispatch(action.New(action.DXFDrawSuccess, set))
}
