package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/grovetools/cellconsole/errors"
	"github.com/grovetools/cellconsole/pkg/models"
	"github.com/mitchellh/mapstructure"
)

func jobEndpoint(job models.JobType, verb string) (string, error) {
	slot, err := job.Slot()
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeInvalidInput, "unknown job")
	}
	return fmt.Sprintf("app/%d-%s", slot, verb), nil
}

// StartJob calls POST app/<slot>-start.
func (c *Client) StartJob(ctx context.Context, job models.JobType) (models.JobAck, error) {
	return c.jobAck(ctx, job, "start")
}

// StopJob calls POST app/<slot>-stop.
func (c *Client) StopJob(ctx context.Context, job models.JobType) (models.JobAck, error) {
	return c.jobAck(ctx, job, "stop")
}

func (c *Client) jobAck(ctx context.Context, job models.JobType, verb string) (models.JobAck, error) {
	endpoint, err := jobEndpoint(job, verb)
	if err != nil {
		return models.JobAck{}, err
	}
	var raw map[string]interface{}
	if err := c.post(ctx, endpoint, nil, &raw); err != nil {
		return models.JobAck{}, err
	}
	ack := models.JobAck{Fields: raw}
	if msg, ok := raw["message"].(string); ok {
		ack.Message = msg
	}
	return ack, nil
}

// JobStatus calls GET app/<slot>-status.
func (c *Client) JobStatus(ctx context.Context, job models.JobType) (models.JobStatus, error) {
	endpoint, err := jobEndpoint(job, "status")
	if err != nil {
		return models.JobStatus{}, err
	}
	var raw map[string]interface{}
	if err := c.get(ctx, endpoint, &raw); err != nil {
		return models.JobStatus{}, err
	}
	status, err := DecodeJobStatus(raw)
	if err != nil {
		return models.JobStatus{}, errors.Decode(endpoint, err)
	}
	return status, nil
}

// DecodeJobStatus lifts the known fields out of a status payload. The
// payload itself is kept whole in Fields.
func DecodeJobStatus(raw map[string]interface{}) (models.JobStatus, error) {
	status := models.JobStatus{Fields: raw}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &status,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return models.JobStatus{}, err
	}
	if err := decoder.Decode(raw); err != nil {
		return models.JobStatus{}, err
	}
	status.Fields = raw

	if analysis, ok := raw["analysis"]; ok && analysis != nil {
		data, err := jsonBytes(analysis)
		if err != nil {
			return models.JobStatus{}, err
		}
		if status.Analysis, err = NormalizeAnalysis(data); err != nil {
			return models.JobStatus{}, err
		}
	}
	return status, nil
}

// PreviewDXF uploads a DXF file to POST app/preview as multipart form data.
func (c *Client) PreviewDXF(ctx context.Context, name string, file io.Reader) (models.PathSet, error) {
	var out models.PathSet
	err := c.do(ctx, call{
		method:   http.MethodPost,
		endpoint: "app/preview",
		prepare: func(r *resty.Request) {
			r.SetFileReader("file", name, file)
		},
	}, &out)
	return out, err
}

// Draw calls POST app/draw.
func (c *Client) Draw(ctx context.Context, params models.DrawParams) (models.PathSet, error) {
	if params == nil {
		params = models.DrawParams{}
	}
	var out models.PathSet
	err := c.post(ctx, "app/draw", params, &out)
	return out, err
}
