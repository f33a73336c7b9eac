package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/grovetools/cellconsole/cli"
	"github.com/grovetools/cellconsole/config"
	"github.com/grovetools/cellconsole/errors"
	"github.com/grovetools/cellconsole/internal/engine"
	"github.com/grovetools/cellconsole/internal/metrics"
	"github.com/grovetools/cellconsole/logging"
	"github.com/grovetools/cellconsole/pkg/action"
	"github.com/grovetools/cellconsole/pkg/gateway"
	"github.com/grovetools/cellconsole/pkg/models"
	"github.com/grovetools/cellconsole/version"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// defaultAwait bounds one-shot commands that wait for a result action.
const defaultAwait = 2 * time.Minute

// runtime is everything a command needs to talk to the cell.
type runtime struct {
	cfg          *config.Config
	configPath   string
	hostOverride string
	logger       *logrus.Entry
	metrics      *metrics.Metrics
	gateway      *gateway.Client
	engine       *engine.Engine
}

// runtimeOption adjusts the engine a runtime builds.
type runtimeOption func(*engine.Options)

// withRobotAutoInit makes the engine enable the robot in auto mode once it
// is first seen connected. One-shot commands must not set it.
func withRobotAutoInit(o *engine.Options) { o.AutoInitRobot = true }

// newRuntime loads configuration and builds the gateway and engine. The
// engine is not started.
func newRuntime(cmd *cobra.Command, component string, opts ...runtimeOption) (*runtime, error) {
	cfg, path, err := cli.LoadConfig(cmd)
	if err != nil {
		return nil, err
	}
	host, _ := cmd.Flags().GetString("host")
	if host != "" {
		cfg.Backend.Host = host
	}

	logger := cli.GetLogger(cmd, component)
	m := metrics.New()

	gwOpts := gateway.OptionsFromConfig(cfg)
	gwOpts.Observer = m
	gwOpts.Logger = logger.WithField("component", "gateway")
	if gwOpts.UserAgent == "" {
		gwOpts.UserAgent = version.GetInfo().UserAgent()
	}
	gw := gateway.New(gwOpts)

	engOpts := engine.Options{
		Gateway:  gw,
		Config:   cfg,
		Logger:   logger,
		Recorder: m,
	}
	for _, opt := range opts {
		opt(&engOpts)
	}
	eng := engine.New(engOpts)

	return &runtime{
		cfg:          cfg,
		configPath:   path,
		hostOverride: host,
		logger:       logger,
		metrics:      m,
		gateway:      gw,
		engine:       eng,
	}, nil
}

// start runs the engine until the returned cancel func is called.
func (r *runtime) start(ctx context.Context) context.CancelFunc {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		r.engine.Start(ctx)
	}()
	return func() {
		cancel()
		<-done
	}
}

// watchConfig reloads the configuration file while ctx is live. Each valid
// edit resets the loggers and re-configures the engine before onReload runs.
// The --host flag keeps precedence over the file. Without a config file it
// does nothing.
func (r *runtime) watchConfig(ctx context.Context, onReload func(*config.Config)) error {
	if r.configPath == "" {
		return nil
	}
	w, err := config.NewWatcher(r.configPath, 0, r.logger, func(cfg *config.Config) {
		if r.hostOverride != "" {
			cfg.Backend.Host = r.hostOverride
		}
		logging.Reset()
		r.engine.SetConfig(cfg)
		if onReload != nil {
			onReload(cfg)
		}
	})
	if err != nil {
		return err
	}
	go w.Start(ctx)
	return nil
}

// await dispatches a and waits for its family's outcome. A failure action
// is returned as an error.
func (r *runtime) await(ctx context.Context, a action.Action, kinds ...action.Kind) (action.Action, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultAwait)
	defer cancel()

	got, err := r.engine.Await(ctx, a, kinds...)
	if err != nil {
		return got, fmt.Errorf("waiting for %s: %w", a.Kind, err)
	}
	if f, ok := got.Failure(); ok {
		return got, failureError(f)
	}
	return got, nil
}

// failureError turns a failure payload back into a CellError so the error
// handler can classify it.
func failureError(f models.Failure) error {
	code := f.Code
	if code == "" {
		code = errors.ErrCodeInternal
	}
	err := errors.New(code, f.Message)
	if f.Body != nil {
		err.WithDetail("body", f.Body)
	}
	return err
}

// runOneShot starts the engine, awaits a and prints the result payload.
func runOneShot(cmd *cobra.Command, a action.Action, kinds ...action.Kind) error {
	rt, err := newRuntime(cmd, "cli")
	if err != nil {
		return err
	}
	stop := rt.start(cmd.Context())
	defer stop()

	got, err := rt.await(cmd.Context(), a, kinds...)
	if err != nil {
		return err
	}
	return printResult(cmd, got.Payload)
}

// printResult writes v as indented JSON with --json, YAML otherwise.
func printResult(cmd *cobra.Command, v interface{}) error {
	return writeResult(cmd.OutOrStdout(), cli.GetOptions(cmd).JSONOutput, v)
}

func writeResult(w io.Writer, asJSON bool, v interface{}) error {
	if v == nil {
		_, err := fmt.Fprintln(w, "ok")
		return err
	}
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	// Round-trip through JSON so YAML output uses the wire field names.
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(doc)
}
