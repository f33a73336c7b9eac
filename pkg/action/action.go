// Package action defines the vocabulary every component uses to communicate:
// a closed set of kinds, typed payloads and constructors.
package action

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/grovetools/cellconsole/pkg/models"
)

// Action is an immutable intent. Payload is one of the payload types in this
// package, a models type, or nil.
type Action struct {
	Kind    Kind        `json:"kind"`
	Payload interface{} `json:"payload,omitempty"`
}

// New builds an action.
func New(kind Kind, payload interface{}) Action {
	return Action{Kind: kind, Payload: payload}
}

// Of builds an action without payload.
func Of(kind Kind) Action {
	return Action{Kind: kind}
}

func (a Action) String() string {
	if a.Payload == nil {
		return string(a.Kind)
	}
	return fmt.Sprintf("%s %+v", a.Kind, a.Payload)
}

// Failure returns the failure payload of a failure action.
func (a Action) Failure() (models.Failure, bool) {
	switch p := a.Payload.(type) {
	case models.Failure:
		return p, true
	case JobFailure:
		return p.Failure, true
	}
	return models.Failure{}, false
}

// Notification tags identify the subsystem a toast belongs to.
const (
	TagRobot  = "robot"
	TagCamera = "camera"
	TagApp    = "app"
)

// TriggerCamera is the CAMERA_TRIGGER payload. CurrentZ is the robot Z the
// backend uses to pick its px/mm scale.
type TriggerCamera struct {
	CurrentZ *float64 `json:"current_z,omitempty"`
}

// Analyze is the ANALYZE_IMAGE payload. A missing TCP is filled from the
// robot store.
type Analyze struct {
	ImageBase64 string    `json:"image_base64"`
	TCP         []float64 `json:"tcp,omitempty"`
}

// LocalImage is the CAMERA_LOCAL_IMAGE payload.
type LocalImage struct {
	Name        string `json:"name,omitempty"`
	ImageBase64 string `json:"image_base64"`
}

// MoveL is the ROBOT_MOVEL payload. Nil options fall back to configuration.
type MoveL struct {
	Pose     []float64 `json:"pose"`
	Simulate *bool     `json:"simulate,omitempty"`
	ZLift    *float64  `json:"z_lift,omitempty"`
}

// Job names the job a start or stop refers to.
type Job struct {
	Job models.JobType `json:"job"`
}

// JobAck is the JOB_START_SUCCESS and JOB_STOP_SUCCESS payload.
type JobAck struct {
	Job models.JobType `json:"job"`
	Ack models.JobAck  `json:"ack"`
}

// JobStatus is the JOB_STATUS_SUCCESS payload. Token identifies the poller
// that produced it.
type JobStatus struct {
	Job    models.JobType   `json:"job"`
	Token  uint64           `json:"token"`
	Status models.JobStatus `json:"status"`
}

// JobFailure is the payload of every job failure. Token is zero except for
// status failures.
type JobFailure struct {
	Job     models.JobType `json:"job"`
	Token   uint64         `json:"token,omitempty"`
	Failure models.Failure `json:"failure"`
}

// DXFFile is the DXF_PREVIEW payload.
type DXFFile struct {
	Name string `json:"name"`
	Data []byte `json:"data"`
}

// PriorityOrder is the SET_PRIORITY_ORDER payload.
type PriorityOrder struct {
	Order []models.ID `json:"order"`
}

// Notification is the SHOW_NOTIFICATION payload.
type Notification struct {
	ID      string `json:"id"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// Hide is the HIDE_NOTIFICATION payload. An empty ID hides whatever is shown.
type Hide struct {
	ID string `json:"id,omitempty"`
}

// Fail builds a failure action from any error.
func Fail(kind Kind, err error) Action {
	return New(kind, models.FailureFrom(err))
}

// TriggerCameraAt requests a capture at the given Z.
func TriggerCameraAt(z float64) Action {
	return New(CameraTrigger, TriggerCamera{CurrentZ: &z})
}

// AnalyzeImageOf requests analysis of an image. tcp may be nil.
func AnalyzeImageOf(imageBase64 string, tcp []float64) Action {
	return New(AnalyzeImage, Analyze{ImageBase64: imageBase64, TCP: tcp})
}

// MoveTo requests a linear move with configured defaults.
func MoveTo(pose []float64) Action {
	return New(RobotMoveL, MoveL{Pose: pose})
}

// StartJob requests a job start.
func StartJob(job models.JobType) Action {
	return New(JobStart, Job{Job: job})
}

// StopJob requests a job stop.
func StopJob(job models.JobType) Action {
	return New(JobStop, Job{Job: job})
}

// Notify builds a toast with a fresh id.
func Notify(tag, message string) Action {
	return New(ShowNotification, Notification{ID: uuid.NewString(), Tag: tag, Message: message})
}

// Dismiss hides the toast with the given id.
func Dismiss(id string) Action {
	return New(HideNotification, Hide{ID: id})
}

// SelectMode switches the operator workflow.
func SelectMode(mode models.UIMode) Action {
	return New(SetUIMode, mode)
}

// CommitOrder records the locked priority order.
func CommitOrder(order []models.ID) Action {
	cp := make([]models.ID, len(order))
	copy(cp, order)
	return New(SetPriorityOrder, PriorityOrder{Order: cp})
}
