package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/grovetools/cellconsole/errors"
	"github.com/grovetools/cellconsole/pkg/models"
	"github.com/h2non/gock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testHost = "http://backend.test"

func newTestClient(t *testing.T) *Client {
	t.Helper()
	c := New(Options{Host: testHost + "/", AnalyzeTimeout: time.Second})
	gock.InterceptClient(c.HTTPClient())
	t.Cleanup(func() {
		gock.RestoreClient(c.HTTPClient())
		gock.Off()
	})
	return c
}

type recordingObserver struct {
	endpoints []string
	statuses  []int
	errs      []error
}

func (o *recordingObserver) ObserveCall(endpoint string, status int, _ float64, err error) {
	o.endpoints = append(o.endpoints, endpoint)
	o.statuses = append(o.statuses, status)
	o.errs = append(o.errs, err)
}

func TestSetHostTrimsSlash(t *testing.T) {
	c := New(Options{Host: "http://robot.local:8000/"})
	assert.Equal(t, "http://robot.local:8000", c.Host())

	c.SetHost("http://other:9000//")
	assert.Equal(t, "http://other:9000", c.Host())
}

func TestTCP(t *testing.T) {
	c := newTestClient(t)
	gock.New(testHost).
		Get("/robot/tcp").
		Reply(200).
		JSON(map[string]float64{"x": 1, "y": 2, "z": 300, "rx": 4, "ry": 5, "rz": 6})

	pose, err := c.TCP(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.Pose{X: 1, Y: 2, Z: 300, RX: 4, RY: 5, RZ: 6}, pose)
	assert.True(t, gock.IsDone())
}

func TestRobotModeAndEnableEndpoints(t *testing.T) {
	c := newTestClient(t)
	gock.New(testHost).Get("/robot/mode/manual").Reply(200).
		JSON(map[string]interface{}{"status": "ok", "mode": "MANUAL", "value": 1})
	gock.New(testHost).Get("/robot/mode/auto").Reply(200).
		JSON(map[string]interface{}{"status": "ok", "mode": "AUTO", "value": 0})
	gock.New(testHost).Get("/robot/enable").Reply(200).
		JSON(map[string]interface{}{"status": "ok", "robot": "ENABLED", "value": 1})
	gock.New(testHost).Get("/robot/disable").Reply(200).
		JSON(map[string]interface{}{"status": "ok", "robot": "DISABLED", "value": 0})

	ctx := context.Background()
	manual, err := c.SetMode(ctx, models.ModeManual)
	require.NoError(t, err)
	assert.Equal(t, 1, manual.Value)

	auto, err := c.SetMode(ctx, models.ModeAuto)
	require.NoError(t, err)
	assert.Equal(t, 0, auto.Value)

	on, err := c.SetEnabled(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, models.Enabled, on.Value)

	off, err := c.SetEnabled(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, models.Disabled, off.Value)

	assert.True(t, gock.IsDone())
}

func TestBackendErrorKeepsBody(t *testing.T) {
	c := newTestClient(t)
	obs := &recordingObserver{}
	c.observer = obs

	gock.New(testHost).
		Post("/robot/moveL").
		Reply(500).
		JSON(map[string]string{"detail": "MoveL failed: error code 14"})

	_, err := c.MoveL(context.Background(), models.MoveLRequest{Pose: []float64{1, 2, 3, 4, 5, 6}})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeBackend, errors.GetCode(err))

	failure := models.FailureFrom(err)
	assert.Equal(t, "MoveL failed: error code 14", failure.Message)
	assert.Equal(t, map[string]interface{}{"detail": "MoveL failed: error code 14"}, failure.Body)

	require.Len(t, obs.endpoints, 1)
	assert.Equal(t, "robot/moveL", obs.endpoints[0])
	assert.Equal(t, 500, obs.statuses[0])
	assert.Error(t, obs.errs[0])
}

func TestMoveLSendsBody(t *testing.T) {
	c := newTestClient(t)
	gock.New(testHost).
		Post("/robot/moveL").
		MatchType("json").
		JSON(map[string]interface{}{"pose": []float64{10, 20, 30, 0, 0, 90}, "simulate": true, "z_lift": 25}).
		Reply(200).
		JSON(map[string]interface{}{"status": "ok", "motion": "MoveL", "pose": []float64{10, 20, 30, 0, 0, 90}})

	res, err := c.MoveL(context.Background(), models.MoveLRequest{
		Pose:     []float64{10, 20, 30, 0, 0, 90},
		Simulate: true,
		ZLift:    25,
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", res.Status)
	assert.Equal(t, []float64{10, 20, 30, 0, 0, 90}, res.Pose)
	assert.Equal(t, "MoveL", res.Fields["motion"])
}

func TestSetMotionParamsReadsEcho(t *testing.T) {
	c := newTestClient(t)
	gock.New(testHost).
		Post("/robot/motion-params").
		Reply(200).
		JSON(map[string]interface{}{"status": "ok", "params": map[string]float64{"vel": 20, "acc": 30, "ovl": 90}})

	params, err := c.SetMotionParams(context.Background(), models.MotionParams{Vel: 20, Acc: 30, Ovl: 100})
	require.NoError(t, err)
	assert.Equal(t, models.MotionParams{Vel: 20, Acc: 30, Ovl: 90}, params)
}

func TestTriggerCamera(t *testing.T) {
	c := newTestClient(t)
	gock.New(testHost).
		Post("/camera/trigger").
		JSON(map[string]float64{"current_z": 412.5}).
		Reply(200).
		JSON(map[string]interface{}{"image_base64": "aGVsbG8=", "scale_x_px_per_mm": 3.2, "exposure": 1200})

	capture, err := c.TriggerCamera(context.Background(), 412.5)
	require.NoError(t, err)
	assert.Equal(t, "aGVsbG8=", capture.ImageBase64)
	assert.InDelta(t, 3.2, capture.ScaleXPxPerMM, 1e-9)
	assert.EqualValues(t, 1200, capture.Fields["exposure"])
}

func TestAnalyzeSingleObject(t *testing.T) {
	c := newTestClient(t)
	gock.New(testHost).
		Post("/camera/analyze").
		Reply(200).
		JSON(map[string]interface{}{
			"success":          true,
			"center_px":        []float64{100, 50},
			"static_center_px": []float64{320, 240},
			"box_px":           [][]float64{{0, 0}, {10, 0}, {10, 10}, {0, 10}},
			"target":           map[string]float64{"x": 1, "y": 2, "rz": 3},
			"inspection": map[string]interface{}{
				"edges_mm": []float64{12.5, 8},
				"holes":    []interface{}{map[string]interface{}{"center_px": []float64{5, 5}, "diameter_mm": 4.25}},
			},
		})

	result, err := c.Analyze(context.Background(), models.AnalyzeRequest{ImageBase64: "x", TCP: []float64{0, 0, 300, 0, 0, 0}})
	require.NoError(t, err)
	assert.True(t, result.Success)
	require.Len(t, result.Objects, 1)

	obj := result.Objects[0]
	assert.Equal(t, 1, obj.ID)
	assert.Equal(t, models.Pt(100, 50), *obj.CenterPx)
	assert.Equal(t, &models.Target{X: 1, Y: 2, RZ: 3}, obj.Target)
	assert.True(t, obj.HasHoles())
	assert.Equal(t, models.Pt(320, 240), *result.StaticCenterPx)
}

func TestAnalyzeTimesOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c := New(Options{Host: srv.URL, AnalyzeTimeout: 50 * time.Millisecond})
	_, err := c.Analyze(context.Background(), models.AnalyzeRequest{})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeTimeout, errors.GetCode(err))
}

func TestJobStatus(t *testing.T) {
	c := newTestClient(t)
	gock.New(testHost).
		Get("/app/2-status").
		Reply(200).
		JSON(map[string]interface{}{
			"auto_run": true,
			"stage":    "moving",
			"tcp":      []float64{1, 2, 3, 4, 5, 6},
			"analysis": map[string]interface{}{
				"objects": []interface{}{
					map[string]interface{}{"id": 4, "center_px": []float64{1, 1}},
					map[string]interface{}{"center_px": []float64{2, 2}},
				},
				"groups": []interface{}{map[string]interface{}{"group_id": 1, "object_ids": []int{4}}},
			},
			"cycle": 7,
		})

	status, err := c.JobStatus(context.Background(), models.JobSort)
	require.NoError(t, err)
	require.NotNil(t, status.AutoRun)
	assert.True(t, *status.AutoRun)
	assert.Equal(t, "moving", status.Stage)
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, status.TCP)
	assert.EqualValues(t, 7, status.Fields["cycle"])

	require.NotNil(t, status.Analysis)
	require.Len(t, status.Analysis.Objects, 2)
	assert.Equal(t, 4, status.Analysis.Objects[0].ID)
	assert.Equal(t, 2, status.Analysis.Objects[1].ID)
	assert.Equal(t, models.ID("1"), status.Analysis.Groups[0].GroupID)
}

func TestStartAndStopJob(t *testing.T) {
	c := newTestClient(t)
	gock.New(testHost).Post("/app/1-start").Reply(200).
		JSON(map[string]interface{}{"success": true, "message": "Auto pick started", "auto_run": true})
	gock.New(testHost).Post("/app/1-stop").Reply(200).
		JSON(map[string]interface{}{"success": true, "message": "Auto pick stopped", "auto_run": false})

	ack, err := c.StartJob(context.Background(), models.JobPick)
	require.NoError(t, err)
	assert.Equal(t, "Auto pick started", ack.Message)

	ack, err = c.StopJob(context.Background(), models.JobPick)
	require.NoError(t, err)
	assert.Equal(t, false, ack.Fields["auto_run"])
}

func TestUnknownJobIsRejectedLocally(t *testing.T) {
	c := newTestClient(t)
	_, err := c.StartJob(context.Background(), models.JobType("weld"))
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInvalidInput, errors.GetCode(err))
}

func TestPreviewDXFUploadsMultipart(t *testing.T) {
	c := newTestClient(t)
	gock.New(testHost).
		Post("/app/preview").
		MatchHeader("Content-Type", "^multipart/form-data").
		Reply(200).
		JSON(map[string]interface{}{
			"paths":  [][][]float64{{{0, 0}, {10, 0}}},
			"origin": []float64{0, 0},
		})

	set, err := c.PreviewDXF(context.Background(), "part.dxf", strings.NewReader("0\nSECTION\n"))
	require.NoError(t, err)
	require.Len(t, set.Paths, 1)
	assert.Equal(t, []models.Point{models.Pt(0, 0), models.Pt(10, 0)}, set.Paths[0])
	assert.Equal(t, models.Pt(0, 0), *set.Origin)
}

func TestTransportError(t *testing.T) {
	c := New(Options{Host: "http://127.0.0.1:1"})
	_, err := c.RobotPing(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeTransport, errors.GetCode(err))
}

func TestNormalizeAnalysisEmpty(t *testing.T) {
	result, err := NormalizeAnalysis([]byte(`{"success": false, "reason": "no object"}`))
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "no object", result.Reason)
	assert.Empty(t, result.Objects)
}

func TestNormalizeAnalysisLegacyTarget(t *testing.T) {
	result, err := NormalizeAnalysis([]byte(`{"center_px":[1,2],"target":{"target_X":5,"target_Y":6,"Rz":7}}`))
	require.NoError(t, err)
	require.Len(t, result.Objects, 1)
	assert.Equal(t, &models.Target{X: 5, Y: 6, RZ: 7}, result.Objects[0].Target)
}
