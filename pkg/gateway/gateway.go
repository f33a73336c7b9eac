// Package gateway wraps every backend endpoint the console uses in a typed call.
package gateway

import (
	"context"
	"io"

	"github.com/grovetools/cellconsole/pkg/models"
)

// AuthService covers auth/*.
type AuthService interface {
	Users(ctx context.Context) (models.UsersResponse, error)
}

// CameraService covers camera/*.
type CameraService interface {
	CameraPing(ctx context.Context) (models.PingResult, error)
	TriggerCamera(ctx context.Context, currentZ float64) (models.CameraCapture, error)
	Analyze(ctx context.Context, req models.AnalyzeRequest) (*models.AnalysisResult, error)
	Autosetup(ctx context.Context) (map[string]interface{}, error)
}

// RobotService covers robot/*.
type RobotService interface {
	TCP(ctx context.Context) (models.Pose, error)
	RobotPing(ctx context.Context) (models.PingResult, error)
	SetMode(ctx context.Context, mode int) (models.ValueResult, error)
	SetEnabled(ctx context.Context, enabled bool) (models.ValueResult, error)
	Stop(ctx context.Context) (models.SafetyResult, error)
	Reset(ctx context.Context) (models.SafetyResult, error)
	MoveL(ctx context.Context, req models.MoveLRequest) (models.MoveLResult, error)
	PickUnpick(ctx context.Context) (models.PickResult, error)
	MotionParams(ctx context.Context) (models.MotionParams, error)
	SetMotionParams(ctx context.Context, params models.MotionParams) (models.MotionParams, error)
}

// ApplicationService covers app/*.
type ApplicationService interface {
	StartJob(ctx context.Context, job models.JobType) (models.JobAck, error)
	StopJob(ctx context.Context, job models.JobType) (models.JobAck, error)
	JobStatus(ctx context.Context, job models.JobType) (models.JobStatus, error)
	PreviewDXF(ctx context.Context, name string, file io.Reader) (models.PathSet, error)
	Draw(ctx context.Context, params models.DrawParams) (models.PathSet, error)
}

// Gateway is the full backend surface.
type Gateway interface {
	AuthService
	CameraService
	RobotService
	ApplicationService
}

// Observer is told about every completed call. status is 0 when no
// response arrived.
type Observer interface {
	ObserveCall(endpoint string, status int, seconds float64, err error)
}
