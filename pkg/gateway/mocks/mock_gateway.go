package mocks

import (
	"context"
	"io"
	"sync"

	"github.com/grovetools/cellconsole/pkg/gateway"
	"github.com/grovetools/cellconsole/pkg/models"
)

// MockGateway is a mock implementation of gateway.Gateway for testing.
// Unset functions succeed with zero values.
type MockGateway struct {
	UsersFunc func(ctx context.Context) (models.UsersResponse, error)

	CameraPingFunc    func(ctx context.Context) (models.PingResult, error)
	TriggerCameraFunc func(ctx context.Context, currentZ float64) (models.CameraCapture, error)
	AnalyzeFunc       func(ctx context.Context, req models.AnalyzeRequest) (*models.AnalysisResult, error)
	AutosetupFunc     func(ctx context.Context) (map[string]interface{}, error)

	TCPFunc             func(ctx context.Context) (models.Pose, error)
	RobotPingFunc       func(ctx context.Context) (models.PingResult, error)
	SetModeFunc         func(ctx context.Context, mode int) (models.ValueResult, error)
	SetEnabledFunc      func(ctx context.Context, enabled bool) (models.ValueResult, error)
	StopFunc            func(ctx context.Context) (models.SafetyResult, error)
	ResetFunc           func(ctx context.Context) (models.SafetyResult, error)
	MoveLFunc           func(ctx context.Context, req models.MoveLRequest) (models.MoveLResult, error)
	PickUnpickFunc      func(ctx context.Context) (models.PickResult, error)
	MotionParamsFunc    func(ctx context.Context) (models.MotionParams, error)
	SetMotionParamsFunc func(ctx context.Context, params models.MotionParams) (models.MotionParams, error)

	// Application operations
	StartJobFunc   func(ctx context.Context, job models.JobType) (models.JobAck, error)
	StopJobFunc    func(ctx context.Context, job models.JobType) (models.JobAck, error)
	JobStatusFunc  func(ctx context.Context, job models.JobType) (models.JobStatus, error)
	PreviewDXFFunc func(ctx context.Context, name string, file io.Reader) (models.PathSet, error)
	DrawFunc       func(ctx context.Context, params models.DrawParams) (models.PathSet, error)

	mu    sync.Mutex
	calls map[string]int
}

var _ gateway.Gateway = (*MockGateway)(nil)

func (m *MockGateway) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[name]++
}

// Calls returns how many times the named method was invoked.
func (m *MockGateway) Calls(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[name]
}

// Users calls the mock function
func (m *MockGateway) Users(ctx context.Context) (models.UsersResponse, error) {
	m.record("Users")
	if m.UsersFunc != nil {
		return m.UsersFunc(ctx)
	}
	return models.UsersResponse{Status: "ok"}, nil
}

// CameraPing calls the mock function
func (m *MockGateway) CameraPing(ctx context.Context) (models.PingResult, error) {
	m.record("CameraPing")
	if m.CameraPingFunc != nil {
		return m.CameraPingFunc(ctx)
	}
	return models.PingResult{Connected: true}, nil
}

// TriggerCamera calls the mock function
func (m *MockGateway) TriggerCamera(ctx context.Context, currentZ float64) (models.CameraCapture, error) {
	m.record("TriggerCamera")
	if m.TriggerCameraFunc != nil {
		return m.TriggerCameraFunc(ctx, currentZ)
	}
	return models.CameraCapture{}, nil
}

// Analyze calls the mock function
func (m *MockGateway) Analyze(ctx context.Context, req models.AnalyzeRequest) (*models.AnalysisResult, error) {
	m.record("Analyze")
	if m.AnalyzeFunc != nil {
		return m.AnalyzeFunc(ctx, req)
	}
	return &models.AnalysisResult{Success: true, Objects: []models.DetectedObject{}}, nil
}

// Autosetup calls the mock function
func (m *MockGateway) Autosetup(ctx context.Context) (map[string]interface{}, error) {
	m.record("Autosetup")
	if m.AutosetupFunc != nil {
		return m.AutosetupFunc(ctx)
	}
	return map[string]interface{}{}, nil
}

// TCP calls the mock function
func (m *MockGateway) TCP(ctx context.Context) (models.Pose, error) {
	m.record("TCP")
	if m.TCPFunc != nil {
		return m.TCPFunc(ctx)
	}
	return models.Pose{}, nil
}

// RobotPing calls the mock function
func (m *MockGateway) RobotPing(ctx context.Context) (models.PingResult, error) {
	m.record("RobotPing")
	if m.RobotPingFunc != nil {
		return m.RobotPingFunc(ctx)
	}
	return models.PingResult{Connected: true}, nil
}

// SetMode calls the mock function
func (m *MockGateway) SetMode(ctx context.Context, mode int) (models.ValueResult, error) {
	m.record("SetMode")
	if m.SetModeFunc != nil {
		return m.SetModeFunc(ctx, mode)
	}
	return models.ValueResult{Value: mode}, nil
}

// SetEnabled calls the mock function
func (m *MockGateway) SetEnabled(ctx context.Context, enabled bool) (models.ValueResult, error) {
	m.record("SetEnabled")
	if m.SetEnabledFunc != nil {
		return m.SetEnabledFunc(ctx, enabled)
	}
	if enabled {
		return models.ValueResult{Value: models.Enabled}, nil
	}
	return models.ValueResult{Value: models.Disabled}, nil
}

// Stop calls the mock function
func (m *MockGateway) Stop(ctx context.Context) (models.SafetyResult, error) {
	m.record("Stop")
	if m.StopFunc != nil {
		return m.StopFunc(ctx)
	}
	return models.SafetyResult{Action: "STOP"}, nil
}

// Reset calls the mock function
func (m *MockGateway) Reset(ctx context.Context) (models.SafetyResult, error) {
	m.record("Reset")
	if m.ResetFunc != nil {
		return m.ResetFunc(ctx)
	}
	return models.SafetyResult{Action: "ERRORS RESET"}, nil
}

// MoveL calls the mock function
func (m *MockGateway) MoveL(ctx context.Context, req models.MoveLRequest) (models.MoveLResult, error) {
	m.record("MoveL")
	if m.MoveLFunc != nil {
		return m.MoveLFunc(ctx, req)
	}
	return models.MoveLResult{Status: "ok", Pose: req.Pose}, nil
}

// PickUnpick calls the mock function
func (m *MockGateway) PickUnpick(ctx context.Context) (models.PickResult, error) {
	m.record("PickUnpick")
	if m.PickUnpickFunc != nil {
		return m.PickUnpickFunc(ctx)
	}
	return models.PickResult{}, nil
}

// MotionParams calls the mock function
func (m *MockGateway) MotionParams(ctx context.Context) (models.MotionParams, error) {
	m.record("MotionParams")
	if m.MotionParamsFunc != nil {
		return m.MotionParamsFunc(ctx)
	}
	return models.DefaultMotionParams(), nil
}

// SetMotionParams calls the mock function
func (m *MockGateway) SetMotionParams(ctx context.Context, params models.MotionParams) (models.MotionParams, error) {
	m.record("SetMotionParams")
	if m.SetMotionParamsFunc != nil {
		return m.SetMotionParamsFunc(ctx, params)
	}
	return params, nil
}

// StartJob calls the mock function
func (m *MockGateway) StartJob(ctx context.Context, job models.JobType) (models.JobAck, error) {
	m.record("StartJob")
	if m.StartJobFunc != nil {
		return m.StartJobFunc(ctx, job)
	}
	return models.JobAck{}, nil
}

// StopJob calls the mock function
func (m *MockGateway) StopJob(ctx context.Context, job models.JobType) (models.JobAck, error) {
	m.record("StopJob")
	if m.StopJobFunc != nil {
		return m.StopJobFunc(ctx, job)
	}
	return models.JobAck{}, nil
}

// JobStatus calls the mock function
func (m *MockGateway) JobStatus(ctx context.Context, job models.JobType) (models.JobStatus, error) {
	m.record("JobStatus")
	if m.JobStatusFunc != nil {
		return m.JobStatusFunc(ctx, job)
	}
	return models.JobStatus{}, nil
}

// PreviewDXF calls the mock function
func (m *MockGateway) PreviewDXF(ctx context.Context, name string, file io.Reader) (models.PathSet, error) {
	m.record("PreviewDXF")
	if m.PreviewDXFFunc != nil {
		return m.PreviewDXFFunc(ctx, name, file)
	}
	return models.PathSet{}, nil
}

// Draw calls the mock function
func (m *MockGateway) Draw(ctx context.Context, params models.DrawParams) (models.PathSet, error) {
	m.record("Draw")
	if m.DrawFunc != nil {
		return m.DrawFunc(ctx, params)
	}
	return models.PathSet{}, nil
}
