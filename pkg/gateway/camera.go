package gateway

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/grovetools/cellconsole/errors"
	"github.com/grovetools/cellconsole/pkg/models"
)

// CameraPing calls GET camera/ping.
func (c *Client) CameraPing(ctx context.Context) (models.PingResult, error) {
	var out models.PingResult
	err := c.get(ctx, "camera/ping", &out)
	return out, err
}

// TriggerCamera calls POST camera/trigger with the current robot Z.
func (c *Client) TriggerCamera(ctx context.Context, currentZ float64) (models.CameraCapture, error) {
	var raw map[string]interface{}
	if err := c.post(ctx, "camera/trigger", map[string]float64{"current_z": currentZ}, &raw); err != nil {
		return models.CameraCapture{}, err
	}

	capture := models.CameraCapture{Fields: raw}
	if err := remarshal(raw, &capture); err != nil {
		return models.CameraCapture{}, errors.Decode("camera/trigger", err)
	}
	capture.Fields = raw
	return capture, nil
}

// Analyze calls POST camera/analyze, the one call with a client-side
// deadline, and normalizes the answer.
func (c *Client) Analyze(ctx context.Context, req models.AnalyzeRequest) (*models.AnalysisResult, error) {
	var raw json.RawMessage
	err := c.do(ctx, call{
		method:   http.MethodPost,
		endpoint: "camera/analyze",
		body:     req,
		timeout:  c.analyzeTimeout,
	}, &raw)
	if err != nil {
		return nil, err
	}
	result, err := NormalizeAnalysis(raw)
	if err != nil {
		return nil, errors.Decode("camera/analyze", err)
	}
	return result, nil
}

// Autosetup calls POST camera/autosetup. The answer is opaque.
func (c *Client) Autosetup(ctx context.Context) (map[string]interface{}, error) {
	var out map[string]interface{}
	err := c.post(ctx, "camera/autosetup", nil, &out)
	return out, err
}

// remarshal copies a decoded JSON map into a typed struct.
func remarshal(in interface{}, out interface{}) error {
	data, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}
