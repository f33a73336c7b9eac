package overlay

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/grovetools/cellconsole/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(p models.Point) *models.Point { return &p }

func f64(v float64) *float64 { return &v }

func centerDots(s Scene) []Circle {
	var out []Circle
	for _, c := range s.Circles {
		if c.Fill {
			out = append(out, c)
		}
	}
	return out
}

func polylinesOf(s Scene, c color.RGBA) []Polyline {
	var out []Polyline
	for _, p := range s.Polylines {
		if p.Color == c {
			out = append(out, p)
		}
	}
	return out
}

func TestBuildScalesAxesIndependently(t *testing.T) {
	res := &models.AnalysisResult{
		Objects: []models.DetectedObject{{ID: 1, CenterPx: ptr(models.Pt(100, 50))}},
	}
	scene := Build(res, Size{W: 200, H: 100}, Size{W: 400, H: 150}, DefaultOptions())

	dots := centerDots(scene)
	require.Len(t, dots, 1)
	assert.Equal(t, models.Pt(200, 75), dots[0].Center)
	assert.Equal(t, Palette[0], dots[0].Color)
}

func TestBuildCrosshairOnce(t *testing.T) {
	res := &models.AnalysisResult{
		StaticCenterPx: ptr(models.Pt(320, 240)),
		Objects: []models.DetectedObject{
			{ID: 1, CenterPx: ptr(models.Pt(10, 10))},
			{ID: 2, CenterPx: ptr(models.Pt(20, 20))},
		},
	}
	scene := Build(res, Size{W: 640, H: 480}, Size{W: 320, H: 240}, DefaultOptions())
	require.NotNil(t, scene.Crosshair)
	assert.Equal(t, models.Pt(160, 120), scene.Crosshair.Center)
	assert.Equal(t, Yellow, scene.Crosshair.Color)

	dots := centerDots(scene)
	require.Len(t, dots, 2)
	assert.Equal(t, Palette[1], dots[1].Color)
}

func TestLabelCollisionShiftsUp(t *testing.T) {
	res := &models.AnalysisResult{
		Objects: []models.DetectedObject{
			{ID: 1, CenterPx: ptr(models.Pt(100, 100))},
			{ID: 2, CenterPx: ptr(models.Pt(102, 101))},
		},
	}
	scene := Build(res, Size{W: 200, H: 200}, Size{W: 200, H: 200}, DefaultOptions())
	require.Len(t, scene.Labels, 2)

	first, second := scene.Labels[0].Rect, scene.Labels[1].Rect
	assert.Equal(t, "#1", scene.Labels[0].Text)
	assert.Equal(t, float64(LabelHeight), first.H)
	assert.Equal(t, 108.0, first.X)
	assert.Equal(t, 100.0-LabelOffset-LabelHeight, first.Y)

	// Unshifted, the second label would sit 1px lower than the first.
	assert.Equal(t, first.Y+1-(LabelHeight+LabelGap), second.Y)
	assert.False(t, first.Intersects(second))
}

func TestLabelCollisionExactShift(t *testing.T) {
	res := &models.AnalysisResult{
		Objects: []models.DetectedObject{
			{ID: 1, CenterPx: ptr(models.Pt(50, 80))},
			{ID: 2, CenterPx: ptr(models.Pt(50, 80))},
			{ID: 3, CenterPx: ptr(models.Pt(50, 80))},
		},
	}
	scene := Build(res, Size{W: 100, H: 100}, Size{W: 100, H: 100}, DefaultOptions())
	require.Len(t, scene.Labels, 3)
	assert.Equal(t, scene.Labels[0].Rect.Y-(LabelHeight+4), scene.Labels[1].Rect.Y)
	assert.Equal(t, scene.Labels[1].Rect.Y-(LabelHeight+4), scene.Labels[2].Rect.Y)
}

func TestLabelsApartAreNotMoved(t *testing.T) {
	res := &models.AnalysisResult{
		Objects: []models.DetectedObject{
			{ID: 1, CenterPx: ptr(models.Pt(10, 100))},
			{ID: 2, CenterPx: ptr(models.Pt(150, 100))},
		},
	}
	scene := Build(res, Size{W: 200, H: 200}, Size{W: 200, H: 200}, DefaultOptions())
	assert.Equal(t, scene.Labels[0].Rect.Y, scene.Labels[1].Rect.Y)
}

func TestLabelsCanBeDisabled(t *testing.T) {
	res := &models.AnalysisResult{Objects: []models.DetectedObject{{ID: 1, CenterPx: ptr(models.Pt(1, 1))}}}
	opts := DefaultOptions()
	opts.Labels = false
	assert.Empty(t, Build(res, Size{W: 10, H: 10}, Size{W: 10, H: 10}, opts).Labels)
}

func TestHolesSuppressBox(t *testing.T) {
	box := []models.Point{models.Pt(0, 0), models.Pt(10, 0), models.Pt(10, 10), models.Pt(0, 10)}
	res := &models.AnalysisResult{
		Objects: []models.DetectedObject{
			{ID: 1, BoxPx: box},
			{ID: 2, BoxPx: box, Inspection: &models.Inspection{
				Holes: []models.Hole{{CenterPx: models.Pt(5, 5), DiameterMM: 4.2}},
			}},
		},
	}
	scene := Build(res, Size{W: 10, H: 10}, Size{W: 10, H: 10}, DefaultOptions())

	boxes := polylinesOf(scene, Blue)
	require.Len(t, boxes, 1)
	assert.True(t, boxes[0].Closed)

	require.Len(t, scene.Circles, 1)
	assert.False(t, scene.Circles[0].Fill)
	assert.Equal(t, Cyan, scene.Circles[0].Color)
	require.Len(t, scene.Texts, 1)
	assert.Equal(t, "Ø 4.20 mm", scene.Texts[0].Text)
	assert.Equal(t, models.Pt(13, 5), scene.Texts[0].At)
}

func TestEdgesWrapAndAnnotate(t *testing.T) {
	res := &models.AnalysisResult{
		Objects: []models.DetectedObject{{
			ID:        1,
			ContourPx: []models.Point{models.Pt(0, 0), models.Pt(1, 1)},
			EdgesPx:   []models.Point{models.Pt(0, 0), models.Pt(100, 0), models.Pt(100, 50)},
			Inspection: &models.Inspection{
				EdgesMM: []float64{12.5, 6.25, 13.98},
			},
		}},
	}
	scene := Build(res, Size{W: 200, H: 100}, Size{W: 200, H: 100}, DefaultOptions())

	edges := polylinesOf(scene, Yellow)
	require.Len(t, edges, 3)
	assert.Equal(t, []models.Point{models.Pt(100, 50), models.Pt(0, 0)}, edges[2].Points)

	require.Len(t, scene.Texts, 3)
	assert.Equal(t, "12.5 mm", scene.Texts[0].Text)
	assert.Equal(t, models.Pt(54, -4), scene.Texts[0].At)
	assert.Equal(t, "14.0 mm", scene.Texts[2].Text)

	assert.Len(t, polylinesOf(scene, Lime), 1)

	opts := DefaultOptions()
	opts.Edges = false
	assert.Empty(t, polylinesOf(Build(res, Size{W: 200, H: 100}, Size{W: 200, H: 100}, opts), Yellow))
}

func TestDimensionReadoutsToggle(t *testing.T) {
	res := &models.AnalysisResult{
		Objects: []models.DetectedObject{{
			ID:       1,
			CenterPx: ptr(models.Pt(10, 10)),
			Inspection: &models.Inspection{
				WidthMM: f64(40), HeightMM: f64(20), AreaMM2: f64(800), PerimeterMM: f64(120),
			},
		}},
	}
	size := Size{W: 100, H: 100}
	assert.Empty(t, Build(res, size, size, DefaultOptions()).Texts)

	opts := DefaultOptions()
	opts.Width = true
	opts.Area = true
	texts := Build(res, size, size, opts).Texts
	require.Len(t, texts, 2)
	assert.Equal(t, "W 40.0 mm", texts[0].Text)
	assert.Equal(t, "A 800.0 mm²", texts[1].Text)
	assert.Less(t, texts[0].At.Y, texts[1].At.Y)
}

func TestBuildNilResult(t *testing.T) {
	scene := Build(nil, Size{W: 10, H: 10}, Size{W: 20, H: 20}, DefaultOptions())
	assert.Equal(t, Scene{Width: 20, Height: 20}, scene)
}

func TestFitPathsUniformScaleAndFlip(t *testing.T) {
	paths := [][]models.Point{{models.Pt(0, 0), models.Pt(100, 0), models.Pt(100, 50)}}
	scene := FitPaths(paths, nil, Size{W: 220, H: 120})

	require.Len(t, scene.Polylines, 1)
	pts := scene.Polylines[0].Points
	assert.Equal(t, models.Pt(10, 110), pts[0])
	assert.Equal(t, models.Pt(210, 110), pts[1])
	assert.Equal(t, models.Pt(210, 10), pts[2])

	require.Len(t, scene.Circles, 1)
	assert.Equal(t, models.Pt(10, 110), scene.Circles[0].Center)
	assert.Equal(t, OriginColor, scene.Circles[0].Color)
}

func TestFitPathsLimitedByTighterAxis(t *testing.T) {
	paths := [][]models.Point{{models.Pt(-50, -50), models.Pt(50, 50)}}
	fit, ok := FitTo(paths, Size{W: 420, H: 220})
	require.True(t, ok)
	assert.Equal(t, 2.0, fit.Scale)
	assert.Equal(t, 110.0, fit.OffsetX)

	scene := FitPaths(paths, ptr(models.Pt(0, 0)), Size{W: 420, H: 220})
	assert.Equal(t, models.Pt(210, 110), scene.Circles[0].Center)
}

func TestFitPathsEmpty(t *testing.T) {
	scene := FitPaths(nil, nil, Size{W: 100, H: 100})
	assert.Empty(t, scene.Polylines)
	assert.Empty(t, scene.Circles)
}

type recordingCanvas struct {
	calls []string
}

func (r *recordingCanvas) Clear() { r.calls = append(r.calls, "clear") }
func (r *recordingCanvas) StrokePolyline([]models.Point, bool, float64, color.Color) {
	r.calls = append(r.calls, "polyline")
}
func (r *recordingCanvas) Circle(models.Point, float64, bool, float64, color.Color) {
	r.calls = append(r.calls, "circle")
}
func (r *recordingCanvas) FillRect(Rect, color.Color) { r.calls = append(r.calls, "rect") }
func (r *recordingCanvas) Text(models.Point, string, color.Color) {
	r.calls = append(r.calls, "text")
}

func TestPaintClearsFirst(t *testing.T) {
	res := &models.AnalysisResult{
		StaticCenterPx: ptr(models.Pt(5, 5)),
		Objects:        []models.DetectedObject{{ID: 7, CenterPx: ptr(models.Pt(5, 5))}},
	}
	scene := Build(res, Size{W: 10, H: 10}, Size{W: 10, H: 10}, DefaultOptions())

	rc := &recordingCanvas{}
	Paint(rc, scene)
	assert.Equal(t, []string{"clear", "polyline", "polyline", "circle", "rect", "text"}, rc.calls)
}

func TestImageCanvasPaintsPixels(t *testing.T) {
	res := &models.AnalysisResult{
		Objects: []models.DetectedObject{{ID: 1, CenterPx: ptr(models.Pt(10, 10))}},
	}
	opts := DefaultOptions()
	opts.Labels = false
	scene := Build(res, Size{W: 20, H: 20}, Size{W: 40, H: 40}, opts)

	c := NewImageCanvas(40, 40)
	Paint(c, scene)
	center := color.RGBAModel.Convert(c.Image().At(20, 20)).(color.RGBA)
	assert.Equal(t, uint8(255), center.R)
	assert.Equal(t, uint8(0), center.G)
	corner := color.RGBAModel.Convert(c.Image().At(0, 0)).(color.RGBA)
	assert.Equal(t, uint8(0), corner.A)

	// Repainting gives the same pixels.
	var first, second bytes.Buffer
	require.NoError(t, c.EncodePNG(&first))
	Paint(c, scene)
	require.NoError(t, c.EncodePNG(&second))
	assert.Equal(t, first.Bytes(), second.Bytes())
}

func TestDecodeBase64Image(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 4))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	encoded := base64.StdEncoding.EncodeToString(buf.Bytes())

	for _, in := range []string{encoded, "data:image/png;base64," + encoded} {
		got, err := DecodeBase64Image(in)
		require.NoError(t, err)
		assert.Equal(t, Size{W: 8, H: 4}, SizeOf(got))
	}

	_, err := DecodeBase64Image("not base64!")
	assert.Error(t, err)
}

func TestRenderAnalysisKeepsNativeSize(t *testing.T) {
	bg := image.NewRGBA(image.Rect(0, 0, 30, 20))
	c := RenderAnalysis(bg, &models.AnalysisResult{}, Size{}, DefaultOptions())
	assert.Equal(t, image.Rect(0, 0, 30, 20), c.Image().Bounds())
}
