// Package overlay derives drawing primitives from analysis results and path
// sets, and paints them on a canvas registered to the displayed image.
//
// Geometry arrives in the image's native pixel space. Build scales it to the
// displayed size with independent X and Y factors; FitPaths fits a path set
// into the canvas with one uniform factor and a flipped Y axis.
package overlay

import (
	"image/color"

	"github.com/grovetools/cellconsole/pkg/models"
)

// Rect is an axis-aligned rectangle in screen pixels.
type Rect struct {
	X, Y, W, H float64
}

// Intersects reports whether r and o overlap. Touching edges do not count.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.X+o.W && o.X < r.X+r.W && r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

// Crosshair marks the static reference center.
type Crosshair struct {
	Center models.Point
	Arm    float64
	Width  float64
	Color  color.RGBA
}

// Circle is a filled dot or a stroked ring.
type Circle struct {
	Center models.Point
	Radius float64
	Fill   bool
	Width  float64
	Color  color.RGBA
}

// Polyline is an open or closed stroke.
type Polyline struct {
	Points []models.Point
	Closed bool
	Width  float64
	Color  color.RGBA
}

// Text is a free-floating string; At is the left end of the baseline.
type Text struct {
	At    models.Point
	Text  string
	Color color.RGBA
}

// Label is an object's identifying tag drawn on a filled box.
type Label struct {
	ObjectID int
	Rect     Rect
	Text     string
	Color    color.RGBA
}

// Scene is everything one render pass paints, in paint order.
type Scene struct {
	Width     float64
	Height    float64
	Crosshair *Crosshair
	Polylines []Polyline
	Circles   []Circle
	Texts     []Text
	Labels    []Label
}

// Size is a width and height in pixels.
type Size struct {
	W, H float64
}

// Colors used by the renderer.
var (
	Yellow = color.RGBA{R: 255, G: 255, A: 255}
	Red    = color.RGBA{R: 255, A: 255}
	Lime   = color.RGBA{G: 255, A: 255}
	Blue   = color.RGBA{B: 255, A: 255}
	Cyan   = color.RGBA{G: 255, B: 255, A: 255}
	White  = color.RGBA{R: 255, G: 255, B: 255, A: 255}

	PathColor   = color.RGBA{G: 255, B: 204, A: 255}
	OriginColor = color.RGBA{R: 236, G: 248, B: 65, A: 255}
)

// Palette colors object center dots and labels, cycling by object index.
var Palette = []color.RGBA{
	Red,
	{R: 255, G: 165, A: 255},
	{R: 255, B: 255, A: 255},
	{R: 30, G: 144, B: 255, A: 255},
	{G: 255, B: 127, A: 255},
	{R: 255, G: 215, A: 255},
}
