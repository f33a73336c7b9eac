package engine

import (
	"context"
	"sync"
	"time"

	"github.com/grovetools/cellconsole/pkg/action"
	"github.com/grovetools/cellconsole/pkg/models"
)

// poller is a running status loop. token identifies the actions it
// dispatches.
type poller struct {
	token  uint64
	cancel context.CancelFunc
}

// pollers maps each job type to its active status loop. It is owned by one
// Engine, so separate engines never share pollers.
type pollers struct {
	mu     sync.Mutex
	next   uint64
	active map[models.JobType]*poller
}

func newPollers() *pollers {
	return &pollers{active: make(map[models.JobType]*poller)}
}

// begin registers a poller for job. It returns false when one already runs.
func (r *pollers) begin(job models.JobType, cancel context.CancelFunc) (uint64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.active[job]; ok {
		return 0, false
	}
	r.next++
	r.active[job] = &poller{token: r.next, cancel: cancel}
	return r.next, true
}

// end cancels and forgets the poller for job, if any.
func (r *pollers) end(job models.JobType) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.active[job]
	if !ok {
		return false
	}
	p.cancel()
	delete(r.active, job)
	return true
}

// finish forgets the poller for job if token is still current. Used when a
// poller terminates on its own.
func (r *pollers) finish(job models.JobType, token uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.active[job]; ok && p.token == token {
		p.cancel()
		delete(r.active, job)
	}
}

func (r *pollers) current(job models.JobType, token uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.active[job]
	return ok && p.token == token
}

func (r *pollers) running(job models.JobType) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.active[job]
	return ok
}

func (r *pollers) stopAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for job, p := range r.active {
		p.cancel()
		delete(r.active, job)
	}
}

func (e *Engine) startPoller(ctx context.Context, job models.JobType) {
	pctx, cancel := context.WithCancel(ctx)
	token, ok := e.pollers.begin(job, cancel)
	if !ok {
		cancel()
		return
	}

	e.logger.WithField("job", job).Info("Status polling started")
	e.recorder.ObservePoller(job, true)

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		e.poll(pctx, job, token)
	}()
}

func (e *Engine) stopPoller(job models.JobType) {
	if e.pollers.end(job) {
		e.logger.WithField("job", job).Info("Status polling stopped")
		e.recorder.ObservePoller(job, false)
	}
}

// poll requests the job status immediately and then once per interval until
// canceled. A failed request ends the loop; it is not retried.
func (e *Engine) poll(ctx context.Context, job models.JobType, token uint64) {
	for {
		status, err := e.gw.JobStatus(ctx, job)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			e.Dispatch(action.New(action.JobStatusFailure, action.JobFailure{
				Job:     job,
				Token:   token,
				Failure: models.FailureFrom(err),
			}))
			return
		}
		e.Dispatch(action.New(action.JobStatusSuccess, action.JobStatus{
			Job:    job,
			Token:  token,
			Status: status,
		}))

		timer := time.NewTimer(e.current().pollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}
