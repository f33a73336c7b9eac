// Package engine runs the console's effects: every action passes through one
// dispatch loop that reduces it into the store and then hands it to the
// processes that react to it.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/grovetools/cellconsole/config"
	"github.com/grovetools/cellconsole/internal/store"
	"github.com/grovetools/cellconsole/pkg/action"
	"github.com/grovetools/cellconsole/pkg/gateway"
	"github.com/grovetools/cellconsole/pkg/models"
	"github.com/sirupsen/logrus"
)

// Recorder receives engine activity, e.g. for metrics.
type Recorder interface {
	ObserveAction(kind action.Kind)
	ObserveDropped(kind action.Kind)
	ObservePoller(job models.JobType, running bool)
}

type nopRecorder struct{}

func (nopRecorder) ObserveAction(action.Kind)          {}
func (nopRecorder) ObserveDropped(action.Kind)         {}
func (nopRecorder) ObservePoller(models.JobType, bool) {}

// hostSetter is implemented by gateways that can be re-pointed on reload.
type hostSetter interface {
	SetHost(host string)
}

// settings is the part of the configuration the processes read.
type settings struct {
	host         string
	pollInterval time.Duration
	dismissAfter time.Duration
	whiteThresh  int
	autoThresh   bool
	enableEdges  bool
	simulate     bool
	zLift        float64
}

func settingsFrom(cfg *config.Config) settings {
	return settings{
		host:         cfg.Backend.Host,
		pollInterval: cfg.PollIntervalDuration(),
		dismissAfter: cfg.DismissAfterDuration(),
		whiteThresh:  cfg.Analyze.WhiteThresh,
		autoThresh:   config.Enabled(cfg.Analyze.AutoThresh),
		enableEdges:  config.Enabled(cfg.Analyze.EnableEdges),
		simulate:     cfg.Motion.Simulate,
		zLift:        cfg.Motion.ZLift,
	}
}

// Options configures an Engine.
type Options struct {
	Gateway  gateway.Gateway
	Store    *store.Store
	Config   *config.Config
	Logger   *logrus.Entry
	Recorder Recorder

	// AutoInitRobot enables the robot in auto mode the first time a ping
	// reports it connected. Only long-lived operator surfaces set it.
	AutoInitRobot bool
}

// Engine owns the dispatch loop, the per-family processes and the status
// pollers.
type Engine struct {
	gw       gateway.Gateway
	store    *store.Store
	logger   *logrus.Entry
	recorder Recorder

	settingsMu sync.RWMutex
	settings   settings

	actions chan action.Action
	stopped chan struct{}

	processes []*process
	routes    map[action.Kind][]*process
	pollers   *pollers

	watchMu  sync.Mutex
	watchers map[*watcher]struct{}

	autoInitRobot bool
	robotInit     sync.Once
	wg            sync.WaitGroup
}

// New creates an Engine. Nothing runs until Start.
func New(opts Options) *Engine {
	if opts.Store == nil {
		opts.Store = store.New(store.Initial())
	}
	if opts.Config == nil {
		opts.Config = &config.Config{}
		opts.Config.SetDefaults()
	}
	if opts.Logger == nil {
		opts.Logger = logrus.NewEntry(logrus.StandardLogger())
	}
	if opts.Recorder == nil {
		opts.Recorder = nopRecorder{}
	}

	e := &Engine{
		gw:       opts.Gateway,
		store:    opts.Store,
		logger:   opts.Logger,
		recorder: opts.Recorder,
		settings: settingsFrom(opts.Config),
		actions:  make(chan action.Action, 256),
		stopped:  make(chan struct{}),
		routes:   make(map[action.Kind][]*process),
		pollers:  newPollers(),
		watchers: make(map[*watcher]struct{}),

		autoInitRobot: opts.AutoInitRobot,
	}
	e.register()
	return e
}

// Store returns the engine's state store.
func (e *Engine) Store() *store.Store {
	return e.store
}

// State returns the committed state.
func (e *Engine) State() store.RootState {
	return e.store.Get()
}

// SetConfig applies a reloaded configuration. In-flight calls keep the
// values they started with.
func (e *Engine) SetConfig(cfg *config.Config) {
	next := settingsFrom(cfg)

	e.settingsMu.Lock()
	prev := e.settings
	e.settings = next
	e.settingsMu.Unlock()

	if hs, ok := e.gw.(hostSetter); ok && next.host != prev.host {
		hs.SetHost(next.host)
		e.logger.WithField("host", next.host).Info("Backend host changed")
	}
}

func (e *Engine) current() settings {
	e.settingsMu.RLock()
	defer e.settingsMu.RUnlock()
	return e.settings
}

// Dispatch queues an action. It never blocks once the engine has stopped.
func (e *Engine) Dispatch(a action.Action) {
	select {
	case e.actions <- a:
	case <-e.stopped:
	}
}

// Start runs the dispatch loop and every process, and blocks until ctx is
// canceled and all of them have returned.
func (e *Engine) Start(ctx context.Context) {
	for _, p := range e.processes {
		e.wg.Add(1)
		go func(p *process) {
			defer e.wg.Done()
			p.run(ctx, &e.wg)
		}(p)
	}

	func() {
		defer close(e.stopped)
		for {
			select {
			case <-ctx.Done():
				return
			case a := <-e.actions:
				e.handle(ctx, a)
			}
		}
	}()

	e.pollers.stopAll()
	e.wg.Wait()
}

// handle is the only place actions are reduced. Poller lifecycle changes
// happen here, before any process sees the action, so a stop is in effect
// before the next action is reduced.
func (e *Engine) handle(ctx context.Context, a action.Action) {
	if e.stale(a) {
		e.recorder.ObserveDropped(a.Kind)
		e.logger.WithField("kind", a.Kind).Debug("Dropped status from a stopped poller")
		return
	}

	e.store.Apply(a)
	e.recorder.ObserveAction(a.Kind)

	if f, ok := a.Failure(); ok {
		e.logger.WithFields(logrus.Fields{
			"kind":  a.Kind,
			"error": f.Message,
		}).Warn("Action failed")
	}

	switch a.Kind {
	case action.JobStartSuccess:
		if p, ok := a.Payload.(action.JobAck); ok {
			e.startPoller(ctx, p.Job)
		}
	case action.JobStopSuccess:
		if p, ok := a.Payload.(action.JobAck); ok {
			e.stopPoller(p.Job)
		}
	case action.JobStatusFailure:
		if p, ok := a.Payload.(action.JobFailure); ok {
			e.pollers.finish(p.Job, p.Token)
			e.recorder.ObservePoller(p.Job, false)
		}
	}

	e.notifyWatchers(a)

	for _, p := range e.routes[a.Kind] {
		select {
		case p.inbox <- a:
		case <-ctx.Done():
			return
		}
	}
}

// stale reports whether a is a status outcome from a poller that is no
// longer current.
func (e *Engine) stale(a action.Action) bool {
	switch p := a.Payload.(type) {
	case action.JobStatus:
		return a.Kind == action.JobStatusSuccess && !e.pollers.current(p.Job, p.Token)
	case action.JobFailure:
		return a.Kind == action.JobStatusFailure && !e.pollers.current(p.Job, p.Token)
	}
	return false
}

// Polling reports whether a status poller runs for job.
func (e *Engine) Polling(job models.JobType) bool {
	return e.pollers.running(job)
}
