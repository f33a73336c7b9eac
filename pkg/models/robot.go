package models

import (
	"fmt"
)

// Pose is a robot tool-center-point in mm and degrees.
type Pose struct {
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	Z  float64 `json:"z"`
	RX float64 `json:"rx"`
	RY float64 `json:"ry"`
	RZ float64 `json:"rz"`
}

// Slice returns [x, y, z, rx, ry, rz], the wire order used by analyze and moveL.
func (p Pose) Slice() []float64 {
	return []float64{p.X, p.Y, p.Z, p.RX, p.RY, p.RZ}
}

// PoseFromSlice converts a 6-element slice.
func PoseFromSlice(v []float64) (Pose, error) {
	if len(v) != 6 {
		return Pose{}, fmt.Errorf("pose needs 6 values, got %d", len(v))
	}
	return Pose{X: v[0], Y: v[1], Z: v[2], RX: v[3], RY: v[4], RZ: v[5]}, nil
}

// Encodings fixed by the robot backend.
const (
	ModeAuto   = 0
	ModeManual = 1

	Disabled = 0
	Enabled  = 1
)

// ValueResult is the {"value": 0|1} body of mode and enable endpoints.
type ValueResult struct {
	Value int `json:"value"`
}

// SafetyResult is the body of robot/stop and robot/reset.
type SafetyResult struct {
	Action string `json:"action"`
}

// PingResult is the body of robot/ping and camera/ping.
type PingResult struct {
	Connected bool `json:"connected"`
}

// PickResult is the body of robot/pick-unpick. Current is 1 while holding.
type PickResult struct {
	Current int `json:"current"`
}

// MotionParams are velocity, acceleration and overlap percentages.
type MotionParams struct {
	Vel float64 `json:"vel"`
	Acc float64 `json:"acc"`
	Ovl float64 `json:"ovl"`
}

// DefaultMotionParams matches the controller's power-on values.
func DefaultMotionParams() MotionParams {
	return MotionParams{Vel: 50, Acc: 50, Ovl: 100}
}

// MoveLRequest is the robot/moveL body.
type MoveLRequest struct {
	Pose     []float64 `json:"pose"`
	Simulate bool      `json:"simulate"`
	ZLift    float64   `json:"z_lift"`
}

// MoveLResult is the robot/moveL answer. Fields keeps the full body.
type MoveLResult struct {
	Status string                 `json:"status,omitempty"`
	Pose   []float64              `json:"pose,omitempty"`
	Fields map[string]interface{} `json:"fields,omitempty"`
}
