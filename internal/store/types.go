// Package store holds the console's view state: one pure reducer per domain
// and a thread-safe Store that applies actions and fans out updates.
package store

import (
	"github.com/grovetools/cellconsole/pkg/action"
	"github.com/grovetools/cellconsole/pkg/models"
)

// AuthState tracks the logged-in user lookup.
type AuthState struct {
	Loading bool            `json:"loading"`
	Status  string          `json:"status,omitempty"`
	User    interface{}     `json:"user,omitempty"`
	Message string          `json:"message,omitempty"`
	Error   *models.Failure `json:"error"`
}

// CameraState tracks capture and analysis.
type CameraState struct {
	Connected bool `json:"connected"`
	Capturing bool `json:"capturing"`
	Analyzing bool `json:"analyzing"`
	// AutosetupRunning is set while camera/autosetup is in flight.
	AutosetupRunning bool `json:"autosetup_running"`

	Capture     *models.CameraCapture  `json:"capture"`
	ImageBase64 string                 `json:"image_base64,omitempty"`
	ImageName   string                 `json:"image_name,omitempty"`
	Analysis    *models.AnalysisResult `json:"analysis"`
	Autosetup   map[string]interface{} `json:"autosetup,omitempty"`
	Error       *models.Failure        `json:"error"`
}

// Loading reports whether a capture or analysis is in flight.
func (c CameraState) Loading() bool {
	return c.Capturing || c.Analyzing
}

// RobotState tracks the controller. Mode and Enabled keep the backend's
// integer encoding (see models.ModeAuto, models.Enabled).
type RobotState struct {
	Loading   bool         `json:"loading"`
	Connected bool         `json:"connected"`
	Pose      *models.Pose `json:"pose"`
	Mode      *int         `json:"mode"`
	Enabled   int          `json:"enabled"`
	Safety    string       `json:"safety,omitempty"`
	Moving    bool         `json:"moving"`
	LastPose  []float64    `json:"last_pose,omitempty"`
	// Gripper is the last pick/unpick answer, 1 while holding.
	Gripper *int `json:"gripper"`

	MotionParams        models.MotionParams `json:"motion_params"`
	LoadingMotionParams bool                `json:"loading_motion_params"`
	MotionParamsError   *models.Failure     `json:"motion_params_error"`

	Error *models.Failure `json:"error"`
}

// StageIdle is the stage label before any status arrives.
const StageIdle = "idle"

// AppState tracks autonomous jobs, DXF paths and the priority order.
type AppState struct {
	Running bool           `json:"running"`
	Job     models.JobType `json:"job,omitempty"`
	Loading bool           `json:"loading"`
	Stage   string         `json:"stage"`
	Message string         `json:"message,omitempty"`

	// Status is every field the status endpoint has reported, merged
	// across polls.
	Status      map[string]interface{} `json:"status,omitempty"`
	ImageBase64 string                 `json:"image_base64,omitempty"`
	Analysis    *models.AnalysisResult `json:"analysis"`
	TargetPose  []float64              `json:"target_pose,omitempty"`
	TCP         []float64              `json:"tcp,omitempty"`

	PreviewPaths [][]models.Point       `json:"preview_paths,omitempty"`
	DrawPaths    [][]models.Point       `json:"draw_paths,omitempty"`
	Origin       *models.Point          `json:"origin"`
	Params       map[string]interface{} `json:"params,omitempty"`
	PathCount    int                    `json:"path_count"`

	PriorityOrder []models.ID `json:"priority_order,omitempty"`

	Error *models.Failure `json:"error"`
}

// NotificationState is the single toast slot.
type NotificationState struct {
	ID      string `json:"id,omitempty"`
	Tag     string `json:"tag,omitempty"`
	Message string `json:"message"`
	Visible bool   `json:"visible"`
}

// UIState selects the operator workflow.
type UIState struct {
	Mode models.UIMode `json:"mode"`
}

// RootState is the whole view state.
type RootState struct {
	Auth         AuthState         `json:"auth"`
	Camera       CameraState       `json:"camera"`
	Robot        RobotState        `json:"robot"`
	App          AppState          `json:"app"`
	Notification NotificationState `json:"notification"`
	UI           UIState           `json:"ui"`
}

// Initial returns the state every store starts from.
func Initial() RootState {
	return RootState{
		Robot: RobotState{
			Enabled:      models.Disabled,
			MotionParams: models.DefaultMotionParams(),
		},
		App: AppState{Stage: StageIdle},
		UI:  UIState{Mode: models.ModePick},
	}
}

// Update is sent to subscribers after every applied action.
type Update struct {
	Seq    uint64        `json:"seq"`
	Action action.Action `json:"action"`
	State  RootState     `json:"state"`
}
