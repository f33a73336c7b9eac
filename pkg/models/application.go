package models

import (
	"fmt"
)

// JobType identifies an autonomous job family on the backend.
type JobType string

const (
	JobPick JobType = "pick"
	JobSort JobType = "sort"
)

// JobTypes lists every pollable job.
var JobTypes = []JobType{JobPick, JobSort}

// Slot is the backend's numeric job slot used in app/<slot>-start.
func (j JobType) Slot() (int, error) {
	switch j {
	case JobPick:
		return 1, nil
	case JobSort:
		return 2, nil
	}
	return 0, fmt.Errorf("unknown job type %q", string(j))
}

// ParseJobType validates a job name.
func ParseJobType(s string) (JobType, error) {
	j := JobType(s)
	if _, err := j.Slot(); err != nil {
		return "", err
	}
	return j, nil
}

// JobAck is the start/stop answer, kept whole.
type JobAck struct {
	Message string                 `json:"message,omitempty"`
	Fields  map[string]interface{} `json:"fields,omitempty"`
}

// JobStatus is one status poll. Fields is the full payload; the typed
// fields are lifted out of it when present.
type JobStatus struct {
	AutoRun     *bool                  `json:"auto_run,omitempty" mapstructure:"auto_run"`
	Stage       string                 `json:"stage,omitempty" mapstructure:"stage"`
	ImageBase64 string                 `json:"image_base64,omitempty" mapstructure:"image_base64"`
	TargetPose  []float64              `json:"target_pose,omitempty" mapstructure:"target_pose"`
	TCP         []float64              `json:"tcp,omitempty" mapstructure:"tcp"`
	Analysis    *AnalysisResult        `json:"analysis,omitempty" mapstructure:"-"`
	Fields      map[string]interface{} `json:"fields,omitempty" mapstructure:"-"`
}

// PathSet is a DXF-derived toolpath: ordered polylines plus an origin.
type PathSet struct {
	Paths     [][]Point              `json:"paths"`
	Origin    *Point                 `json:"origin,omitempty"`
	Params    map[string]interface{} `json:"params,omitempty"`
	PathCount int                    `json:"path_count,omitempty"`
}

// DrawParams is the opaque app/draw body.
type DrawParams map[string]interface{}

// UIMode selects the operator workflow.
type UIMode string

const (
	ModePick UIMode = "pick"
	ModeDraw UIMode = "draw"
	ModeSort UIMode = "sort"
)

// UIModes lists the workflows in display order.
var UIModes = []UIMode{ModePick, ModeDraw, ModeSort}

// Next cycles to the following workflow.
func (m UIMode) Next() UIMode {
	for i, mode := range UIModes {
		if mode == m {
			return UIModes[(i+1)%len(UIModes)]
		}
	}
	return ModePick
}

// Valid reports whether m is a known workflow.
func (m UIMode) Valid() bool {
	for _, mode := range UIModes {
		if mode == m {
			return true
		}
	}
	return false
}

// UsersResponse is the auth/users answer.
type UsersResponse struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data"`
}
