package gateway

import (
	"context"

	"github.com/grovetools/cellconsole/errors"
	"github.com/grovetools/cellconsole/pkg/models"
)

// TCP calls GET robot/tcp.
func (c *Client) TCP(ctx context.Context) (models.Pose, error) {
	var out models.Pose
	err := c.get(ctx, "robot/tcp", &out)
	return out, err
}

// RobotPing calls GET robot/ping.
func (c *Client) RobotPing(ctx context.Context) (models.PingResult, error) {
	var out models.PingResult
	err := c.get(ctx, "robot/ping", &out)
	return out, err
}

// SetMode calls GET robot/mode/auto or robot/mode/manual.
func (c *Client) SetMode(ctx context.Context, mode int) (models.ValueResult, error) {
	endpoint := "robot/mode/auto"
	if mode == models.ModeManual {
		endpoint = "robot/mode/manual"
	}
	var out models.ValueResult
	err := c.get(ctx, endpoint, &out)
	return out, err
}

// SetEnabled calls GET robot/enable or robot/disable.
func (c *Client) SetEnabled(ctx context.Context, enabled bool) (models.ValueResult, error) {
	endpoint := "robot/disable"
	if enabled {
		endpoint = "robot/enable"
	}
	var out models.ValueResult
	err := c.get(ctx, endpoint, &out)
	return out, err
}

// Stop calls GET robot/stop.
func (c *Client) Stop(ctx context.Context) (models.SafetyResult, error) {
	var out models.SafetyResult
	err := c.get(ctx, "robot/stop", &out)
	return out, err
}

// Reset calls GET robot/reset to clear controller errors.
func (c *Client) Reset(ctx context.Context) (models.SafetyResult, error) {
	var out models.SafetyResult
	err := c.get(ctx, "robot/reset", &out)
	return out, err
}

// MoveL calls POST robot/moveL.
func (c *Client) MoveL(ctx context.Context, req models.MoveLRequest) (models.MoveLResult, error) {
	var raw map[string]interface{}
	if err := c.post(ctx, "robot/moveL", req, &raw); err != nil {
		return models.MoveLResult{}, err
	}
	var out models.MoveLResult
	if err := remarshal(raw, &out); err != nil {
		return models.MoveLResult{}, errors.Decode("robot/moveL", err)
	}
	out.Fields = raw
	return out, nil
}

// PickUnpick calls GET robot/pick-unpick, toggling the gripper.
func (c *Client) PickUnpick(ctx context.Context) (models.PickResult, error) {
	var out models.PickResult
	err := c.get(ctx, "robot/pick-unpick", &out)
	return out, err
}

// MotionParams calls GET robot/motion-params.
func (c *Client) MotionParams(ctx context.Context) (models.MotionParams, error) {
	var out models.MotionParams
	err := c.get(ctx, "robot/motion-params", &out)
	return out, err
}

// SetMotionParams calls POST robot/motion-params and returns the values the
// controller reports back.
func (c *Client) SetMotionParams(ctx context.Context, params models.MotionParams) (models.MotionParams, error) {
	var out struct {
		Status string               `json:"status"`
		Params *models.MotionParams `json:"params"`
	}
	if err := c.post(ctx, "robot/motion-params", params, &out); err != nil {
		return models.MotionParams{}, err
	}
	if out.Params == nil {
		return params, nil
	}
	return *out.Params, nil
}
