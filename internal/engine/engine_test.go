package engine

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/grovetools/cellconsole/config"
	"github.com/grovetools/cellconsole/errors"
	"github.com/grovetools/cellconsole/internal/store"
	"github.com/grovetools/cellconsole/pkg/action"
	"github.com/grovetools/cellconsole/pkg/gateway/mocks"
	"github.com/grovetools/cellconsole/pkg/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const waitFor = 2 * time.Second

type countingRecorder struct {
	mu      sync.Mutex
	dropped map[action.Kind]int
}

func (r *countingRecorder) ObserveAction(action.Kind) {}

func (r *countingRecorder) ObserveDropped(kind action.Kind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.dropped == nil {
		r.dropped = make(map[action.Kind]int)
	}
	r.dropped[kind]++
}

func (r *countingRecorder) ObservePoller(models.JobType, bool) {}

func (r *countingRecorder) droppedCount(kind action.Kind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dropped[kind]
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.SetDefaults()
	cfg.Polling.Interval = "20ms"
	cfg.Notifications.DismissAfter = "1h"
	return cfg
}

func startEngine(t *testing.T, gw *mocks.MockGateway, opts ...func(*Options)) *Engine {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	o := Options{
		Gateway: gw,
		Config:  testConfig(),
		Logger:  logrus.NewEntry(logger),
	}
	for _, fn := range opts {
		fn(&o)
	}
	e := New(o)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		e.Start(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return e
}

func await(t *testing.T, e *Engine, a action.Action, kinds ...action.Kind) action.Action {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), waitFor)
	defer cancel()
	got, err := e.Await(ctx, a, kinds...)
	require.NoError(t, err)
	return got
}

func TestTriggerCameraScenario(t *testing.T) {
	gw := &mocks.MockGateway{
		TriggerCameraFunc: func(_ context.Context, z float64) (models.CameraCapture, error) {
			assert.Equal(t, 150.0, z)
			return models.CameraCapture{ImageBase64: "abc", ScaleXPxPerMM: 10}, nil
		},
	}
	e := startEngine(t, gw)

	got := await(t, e, action.TriggerCameraAt(150))
	assert.Equal(t, action.CameraTriggerSuccess, got.Kind)

	cam := e.State().Camera
	assert.False(t, cam.Loading())
	require.NotNil(t, cam.Capture)
	assert.Equal(t, "abc", cam.Capture.ImageBase64)
	assert.Equal(t, 10.0, cam.Capture.ScaleXPxPerMM)
	assert.Nil(t, cam.Error)
}

func TestTriggerCameraWithoutZ(t *testing.T) {
	gw := &mocks.MockGateway{}
	e := startEngine(t, gw)

	got := await(t, e, action.Of(action.CameraTrigger))
	require.Equal(t, action.CameraTriggerFailure, got.Kind)
	f, _ := got.Failure()
	assert.Equal(t, msgZMissing, f.Message)
	assert.Zero(t, gw.Calls("TriggerCamera"))
}

func TestAnalyzeMissingImageSkipsNetwork(t *testing.T) {
	gw := &mocks.MockGateway{}
	e := startEngine(t, gw)

	got := await(t, e, action.AnalyzeImageOf("", []float64{0, 0, 0, 0, 0, 0}))
	require.Equal(t, action.AnalyzeImageFailure, got.Kind)
	f, _ := got.Failure()
	assert.Equal(t, "Image is missing", f.Message)
	assert.Equal(t, errors.ErrCodePrecondition, f.Code)
	assert.Zero(t, gw.Calls("Analyze"))
	assert.Equal(t, "Image is missing", e.State().Camera.Error.Message)
}

func TestAnalyzeWithoutTCP(t *testing.T) {
	gw := &mocks.MockGateway{}
	e := startEngine(t, gw)

	got := await(t, e, action.AnalyzeImageOf("img", nil))
	f, _ := got.Failure()
	assert.Equal(t, "TCP not available", f.Message)
	assert.Zero(t, gw.Calls("Analyze"))
}

func TestAnalyzeUsesStoredPoseAndConfig(t *testing.T) {
	var req models.AnalyzeRequest
	gw := &mocks.MockGateway{
		TCPFunc: func(context.Context) (models.Pose, error) {
			return models.Pose{X: 1, Y: 2, Z: 300, RX: 4, RY: 5, RZ: 6}, nil
		},
		AnalyzeFunc: func(_ context.Context, r models.AnalyzeRequest) (*models.AnalysisResult, error) {
			req = r
			return &models.AnalysisResult{Success: true, Objects: []models.DetectedObject{{ID: 1}}}, nil
		},
	}
	e := startEngine(t, gw)

	await(t, e, action.Of(action.GetTCP))
	got := await(t, e, action.AnalyzeImageOf("img", nil))
	require.Equal(t, action.AnalyzeImageSuccess, got.Kind)

	assert.Equal(t, []float64{1, 2, 300, 4, 5, 6}, req.TCP)
	assert.Equal(t, config.DefaultWhiteThresh, req.WhiteThresh)
	assert.True(t, req.AutoThresh)
	assert.True(t, req.EnableEdges)
	assert.Len(t, e.State().Camera.Analysis.Objects, 1)
}

func TestAtMostOnePollerPerJob(t *testing.T) {
	var polls int32
	gw := &mocks.MockGateway{
		JobStatusFunc: func(context.Context, models.JobType) (models.JobStatus, error) {
			atomic.AddInt32(&polls, 1)
			return models.JobStatus{Stage: "running"}, nil
		},
	}
	e := startEngine(t, gw, func(o *Options) { o.Config.Polling.Interval = "50ms" })

	await(t, e, action.StartJob(models.JobPick))
	await(t, e, action.StartJob(models.JobPick))
	assert.True(t, e.Polling(models.JobPick))

	time.Sleep(220 * time.Millisecond)
	// One poller: an immediate poll plus one per 50ms tick.
	n := atomic.LoadInt32(&polls)
	assert.GreaterOrEqual(t, n, int32(3))
	assert.LessOrEqual(t, n, int32(6))
	assert.Equal(t, 2, gw.Calls("StartJob"))
}

func TestPollersAreIndependentPerJob(t *testing.T) {
	gw := &mocks.MockGateway{}
	e := startEngine(t, gw)

	await(t, e, action.StartJob(models.JobPick))
	await(t, e, action.StartJob(models.JobSort))
	assert.True(t, e.Polling(models.JobPick))
	assert.True(t, e.Polling(models.JobSort))

	await(t, e, action.StopJob(models.JobSort))
	assert.True(t, e.Polling(models.JobPick))
	assert.False(t, e.Polling(models.JobSort))
}

func TestNoStatusAfterStop(t *testing.T) {
	release := make(chan struct{})
	inFlight := make(chan struct{}, 1)
	var calls int32
	gw := &mocks.MockGateway{
		JobStatusFunc: func(context.Context, models.JobType) (models.JobStatus, error) {
			if atomic.AddInt32(&calls, 1) == 2 {
				// Ignore cancellation so the answer arrives after the stop.
				inFlight <- struct{}{}
				<-release
			}
			return models.JobStatus{Stage: "stage"}, nil
		},
	}
	rec := &countingRecorder{}
	e := startEngine(t, gw, func(o *Options) { o.Recorder = rec })

	sub := e.Store().Subscribe()
	defer e.Store().Unsubscribe(sub)

	await(t, e, action.StartJob(models.JobPick))
	select {
	case <-inFlight:
	case <-time.After(waitFor):
		t.Fatal("second poll never started")
	}

	await(t, e, action.StopJob(models.JobPick))
	assert.False(t, e.Polling(models.JobPick))
	close(release)

	// A late status carrying the old token is dropped before reduction.
	e.Dispatch(action.New(action.JobStatusSuccess, action.JobStatus{Job: models.JobPick, Token: 1}))
	await(t, e, action.Of(action.DXFReset), action.DXFReset)
	assert.Equal(t, 1, rec.droppedCount(action.JobStatusSuccess))

	stopped := false
	for {
		select {
		case u := <-sub:
			if u.Action.Kind == action.JobStopSuccess {
				stopped = true
				continue
			}
			if stopped {
				assert.NotEqual(t, action.JobStatusSuccess, u.Action.Kind, "status reduced after stop")
			}
		default:
			assert.True(t, stopped)
			return
		}
	}
}

func TestPollFailureTerminates(t *testing.T) {
	gw := &mocks.MockGateway{
		JobStatusFunc: func(context.Context, models.JobType) (models.JobStatus, error) {
			return models.JobStatus{}, errors.Backend("app/1-status", 500, map[string]interface{}{"detail": "camera offline"})
		},
	}
	e := startEngine(t, gw)

	got := await(t, e, action.StartJob(models.JobPick), action.JobStatusFailure)
	f, _ := got.Failure()
	assert.Equal(t, "camera offline", f.Message)
	assert.False(t, e.Polling(models.JobPick))

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, gw.Calls("JobStatus"))
	assert.Equal(t, "camera offline", e.State().App.Error.Message)

	// The job can be restarted explicitly.
	await(t, e, action.StartJob(models.JobPick), action.JobStatusFailure)
	assert.Equal(t, 2, gw.Calls("JobStatus"))
}

func TestMoveLRejectsShortPose(t *testing.T) {
	gw := &mocks.MockGateway{}
	e := startEngine(t, gw)

	got := await(t, e, action.MoveTo([]float64{1, 2, 3}))
	f, _ := got.Failure()
	assert.Equal(t, "Pose must be [x,y,z,rx,ry,rz]", f.Message)
	assert.Zero(t, gw.Calls("MoveL"))

	assert.Eventually(t, func() bool {
		return e.State().Notification.Message == "Pose must be [x,y,z,rx,ry,rz]"
	}, waitFor, 5*time.Millisecond)
}

func TestMoveLAppliesDefaultsAndNotifies(t *testing.T) {
	var req models.MoveLRequest
	gw := &mocks.MockGateway{
		MoveLFunc: func(_ context.Context, r models.MoveLRequest) (models.MoveLResult, error) {
			req = r
			return models.MoveLResult{Status: "ok", Pose: r.Pose}, nil
		},
	}
	e := startEngine(t, gw, func(o *Options) {
		o.Config.Motion.Simulate = true
		o.Config.Motion.ZLift = 30
	})

	lift := 5.0
	await(t, e, action.New(action.RobotMoveL, action.MoveL{Pose: []float64{10, 20, 30, 0, 0, 90}, ZLift: &lift}))
	assert.True(t, req.Simulate)
	assert.Equal(t, 5.0, req.ZLift)

	assert.Eventually(t, func() bool {
		return e.State().Notification.Message == "(MoveL) Moving to X=10.0 Y=20.0 Z=30.0 RZ=90.0"
	}, waitFor, 5*time.Millisecond)
}

func TestMoveLBackendDetail(t *testing.T) {
	gw := &mocks.MockGateway{
		MoveLFunc: func(context.Context, models.MoveLRequest) (models.MoveLResult, error) {
			return models.MoveLResult{}, errors.Backend("robot/moveL", 500, map[string]interface{}{"detail": "MoveL failed: error code 14"})
		},
	}
	e := startEngine(t, gw)

	got := await(t, e, action.MoveTo([]float64{1, 2, 3, 4, 5, 6}))
	f, _ := got.Failure()
	assert.Equal(t, "MoveL failed: error code 14", f.Message)
	assert.False(t, e.State().Robot.Moving)
}

func TestConcurrentRequestsRunIndependently(t *testing.T) {
	var barrier sync.WaitGroup
	barrier.Add(2)
	gw := &mocks.MockGateway{
		TCPFunc: func(ctx context.Context) (models.Pose, error) {
			barrier.Done()
			// Both calls must be in flight at once to get past here.
			waited := make(chan struct{})
			go func() {
				barrier.Wait()
				close(waited)
			}()
			select {
			case <-waited:
				return models.Pose{Z: 1}, nil
			case <-time.After(waitFor):
				return models.Pose{}, fmt.Errorf("requests were serialized")
			}
		},
	}
	e := startEngine(t, gw)

	e.Dispatch(action.Of(action.GetTCP))
	e.Dispatch(action.Of(action.GetTCP))

	assert.Eventually(t, func() bool {
		return gw.Calls("TCP") == 2 && !e.State().Robot.Loading
	}, waitFor, 5*time.Millisecond)
	assert.Nil(t, e.State().Robot.Error)
}

func TestProcessSurvivesFailure(t *testing.T) {
	var calls int32
	gw := &mocks.MockGateway{
		TCPFunc: func(context.Context) (models.Pose, error) {
			if atomic.AddInt32(&calls, 1) == 1 {
				return models.Pose{}, errors.Transport("robot/tcp", fmt.Errorf("connection refused"))
			}
			return models.Pose{Z: 42}, nil
		},
	}
	e := startEngine(t, gw)

	first := await(t, e, action.Of(action.GetTCP))
	assert.Equal(t, action.GetTCPFailure, first.Kind)

	second := await(t, e, action.Of(action.GetTCP))
	assert.Equal(t, action.GetTCPSuccess, second.Kind)
	assert.Equal(t, 42.0, e.State().Robot.Pose.Z)
}

func autoInitRobot(o *Options) { o.AutoInitRobot = true }

func TestRobotInitRunsOnce(t *testing.T) {
	gw := &mocks.MockGateway{}
	e := startEngine(t, gw, autoInitRobot)

	await(t, e, action.Of(action.RobotPing))
	await(t, e, action.Of(action.RobotPing))

	assert.Eventually(t, func() bool {
		s := e.State().Robot
		return s.Enabled == models.Enabled && s.Mode != nil && s.Pose != nil
	}, waitFor, 5*time.Millisecond)
	assert.Equal(t, 1, gw.Calls("SetEnabled"))
	assert.Equal(t, 1, gw.Calls("SetMode"))
	assert.Equal(t, 1, gw.Calls("TCP"))
}

func TestPingWithoutAutoInitLeavesRobotAlone(t *testing.T) {
	gw := &mocks.MockGateway{}
	e := startEngine(t, gw)

	got := await(t, e, action.Of(action.RobotPing))
	assert.Equal(t, action.RobotPingSuccess, got.Kind)
	assert.True(t, e.State().Robot.Connected)

	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, gw.Calls("SetEnabled"))
	assert.Zero(t, gw.Calls("SetMode"))
}

func TestDisableDoesNotFetchPose(t *testing.T) {
	gw := &mocks.MockGateway{}
	e := startEngine(t, gw)

	await(t, e, action.Of(action.RobotDisable))
	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, gw.Calls("TCP"))
	assert.Equal(t, models.Disabled, e.State().Robot.Enabled)
}

func TestAutosetupTriggersCaptureAtCurrentZ(t *testing.T) {
	z := make(chan float64, 1)
	gw := &mocks.MockGateway{
		TCPFunc: func(context.Context) (models.Pose, error) {
			return models.Pose{Z: 412}, nil
		},
		TriggerCameraFunc: func(_ context.Context, currentZ float64) (models.CameraCapture, error) {
			z <- currentZ
			return models.CameraCapture{ImageBase64: "fresh"}, nil
		},
	}
	e := startEngine(t, gw)

	await(t, e, action.Of(action.GetTCP))
	await(t, e, action.Of(action.RunAutosetup))

	select {
	case got := <-z:
		assert.Equal(t, 412.0, got)
	case <-time.After(waitFor):
		t.Fatal("autosetup did not trigger a capture")
	}
}

func TestAutosetupWithoutPoseNotifies(t *testing.T) {
	gw := &mocks.MockGateway{}
	e := startEngine(t, gw)

	await(t, e, action.Of(action.RunAutosetup))
	assert.Eventually(t, func() bool {
		return e.State().Notification.Message == "TCP Z not available"
	}, waitFor, 5*time.Millisecond)
	assert.Zero(t, gw.Calls("TriggerCamera"))
}

func TestNotificationIsDismissed(t *testing.T) {
	gw := &mocks.MockGateway{}
	e := startEngine(t, gw, func(o *Options) { o.Config.Notifications.DismissAfter = "150ms" })

	await(t, e, action.Of(action.GetTCP), action.ShowNotification)
	assert.True(t, e.State().Notification.Visible)
	assert.Equal(t, "Robot Current Pose Fetched", e.State().Notification.Message)

	assert.Eventually(t, func() bool {
		return !e.State().Notification.Visible
	}, waitFor, 5*time.Millisecond)
}

func TestGetUserRequiresOkStatus(t *testing.T) {
	gw := &mocks.MockGateway{
		UsersFunc: func(context.Context) (models.UsersResponse, error) {
			return models.UsersResponse{Status: "Error", Data: "Session expired"}, nil
		},
	}
	e := startEngine(t, gw)

	got := await(t, e, action.Of(action.GetUser))
	require.Equal(t, action.GetUserFailure, got.Kind)
	assert.Equal(t, "Session expired", e.State().Auth.Message)
}

func TestDXFPreviewAndDraw(t *testing.T) {
	gw := &mocks.MockGateway{
		PreviewDXFFunc: func(_ context.Context, name string, r io.Reader) (models.PathSet, error) {
			data, _ := io.ReadAll(r)
			assert.Equal(t, "part.dxf", name)
			assert.Equal(t, "0\nSECTION", string(data))
			return models.PathSet{Paths: [][]models.Point{{models.Pt(0, 0), models.Pt(1, 1)}}}, nil
		},
		DrawFunc: func(context.Context, models.DrawParams) (models.PathSet, error) {
			return models.PathSet{PathCount: 3}, nil
		},
	}
	e := startEngine(t, gw)

	got := await(t, e, action.New(action.DXFPreview, action.DXFFile{Name: "part.dxf", Data: []byte("0\nSECTION")}))
	assert.Equal(t, action.DXFPreviewSuccess, got.Kind)
	assert.Len(t, e.State().App.PreviewPaths, 1)

	await(t, e, action.New(action.DXFDraw, models.DrawParams{"scale": 1}))
	assert.Equal(t, 3, e.State().App.PathCount)

	missing := await(t, e, action.New(action.DXFPreview, action.DXFFile{Name: "empty.dxf"}))
	assert.Equal(t, action.DXFPreviewFailure, missing.Kind)
}

type hostGateway struct {
	*mocks.MockGateway
	mu   sync.Mutex
	host string
}

func (h *hostGateway) SetHost(host string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.host = host
}

func TestSetConfigRepointsGateway(t *testing.T) {
	gw := &hostGateway{MockGateway: &mocks.MockGateway{}}
	e := New(Options{Gateway: gw, Config: testConfig()})

	cfg := testConfig()
	cfg.Backend.Host = "http://cell-2:8000/"
	cfg.Polling.Interval = "5s"
	e.SetConfig(cfg)

	assert.Equal(t, "http://cell-2:8000/", gw.host)
	assert.Equal(t, 5*time.Second, e.current().pollInterval)
}

func TestSeparateEnginesDoNotSharePollers(t *testing.T) {
	a := startEngine(t, &mocks.MockGateway{})
	b := startEngine(t, &mocks.MockGateway{})

	await(t, a, action.StartJob(models.JobPick))
	assert.True(t, a.Polling(models.JobPick))
	assert.False(t, b.Polling(models.JobPick))
}

func TestStoreStartsFromGivenState(t *testing.T) {
	initial := store.Initial()
	initial.UI.Mode = models.ModeDraw
	e := New(Options{Gateway: &mocks.MockGateway{}, Store: store.New(initial)})
	assert.Equal(t, models.ModeDraw, e.State().UI.Mode)
}
