package overlay

import (
	"math"

	"github.com/grovetools/cellconsole/pkg/models"
)

// PathMargin is the total horizontal and vertical margin left by FitPaths.
const PathMargin = 20

// Fit maps data coordinates (Y up) to canvas pixels (Y down) with one
// uniform scale.
type Fit struct {
	Scale   float64
	OffsetX float64
	OffsetY float64
	MinX    float64
	MinY    float64
	Height  float64
}

// Apply maps a data point to the canvas.
func (f Fit) Apply(p models.Point) models.Point {
	return models.Point{
		X: f.OffsetX + (p.X-f.MinX)*f.Scale,
		Y: f.Height - (f.OffsetY + (p.Y-f.MinY)*f.Scale),
	}
}

// FitTo computes the transform that centers the bounding box of paths in a
// canvas of the given size. It returns false when there are no points.
func FitTo(paths [][]models.Point, canvas Size) (Fit, bool) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, path := range paths {
		for _, p := range path {
			minX = math.Min(minX, p.X)
			minY = math.Min(minY, p.Y)
			maxX = math.Max(maxX, p.X)
			maxY = math.Max(maxY, p.Y)
		}
	}
	if math.IsInf(minX, 1) {
		return Fit{}, false
	}

	spanX, spanY := maxX-minX, maxY-minY
	availW, availH := canvas.W-PathMargin, canvas.H-PathMargin
	scale := 1.0
	switch {
	case spanX > 0 && spanY > 0:
		scale = math.Min(availW/spanX, availH/spanY)
	case spanX > 0:
		scale = availW / spanX
	case spanY > 0:
		scale = availH / spanY
	}
	if scale <= 0 {
		scale = 1
	}

	return Fit{
		Scale:   scale,
		OffsetX: (canvas.W - spanX*scale) / 2,
		OffsetY: (canvas.H - spanY*scale) / 2,
		MinX:    minX,
		MinY:    minY,
		Height:  canvas.H,
	}, true
}

// FitPaths derives the path-preview scene. The origin defaults to (0, 0)
// in data coordinates and is marked with a filled dot.
func FitPaths(paths [][]models.Point, origin *models.Point, canvas Size) Scene {
	scene := Scene{Width: canvas.W, Height: canvas.H}
	fit, ok := FitTo(paths, canvas)
	if !ok {
		return scene
	}

	for _, path := range paths {
		if len(path) == 0 {
			continue
		}
		pts := make([]models.Point, len(path))
		for i, p := range path {
			pts[i] = fit.Apply(p)
		}
		scene.Polylines = append(scene.Polylines, Polyline{Points: pts, Width: 1, Color: PathColor})
	}

	o := models.Pt(0, 0)
	if origin != nil {
		o = *origin
	}
	scene.Circles = append(scene.Circles, Circle{Center: fit.Apply(o), Radius: 4, Fill: true, Color: OriginColor})
	return scene
}
