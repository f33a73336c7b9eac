package overlay

import (
	"image/color"

	"github.com/grovetools/cellconsole/pkg/models"
)

// Canvas is a drawing surface. Implementations draw in screen pixels.
type Canvas interface {
	Clear()
	StrokePolyline(points []models.Point, closed bool, width float64, c color.Color)
	Circle(center models.Point, radius float64, fill bool, width float64, c color.Color)
	FillRect(r Rect, c color.Color)
	Text(at models.Point, s string, c color.Color)
}

// Paint clears c and draws s from scratch.
func Paint(c Canvas, s Scene) {
	c.Clear()

	if ch := s.Crosshair; ch != nil {
		x, y := ch.Center.X, ch.Center.Y
		c.StrokePolyline([]models.Point{models.Pt(x-ch.Arm, y), models.Pt(x+ch.Arm, y)}, false, ch.Width, ch.Color)
		c.StrokePolyline([]models.Point{models.Pt(x, y-ch.Arm), models.Pt(x, y+ch.Arm)}, false, ch.Width, ch.Color)
	}
	for _, p := range s.Polylines {
		c.StrokePolyline(p.Points, p.Closed, p.Width, p.Color)
	}
	for _, ci := range s.Circles {
		c.Circle(ci.Center, ci.Radius, ci.Fill, ci.Width, ci.Color)
	}
	for _, t := range s.Texts {
		c.Text(t.At, t.Text, t.Color)
	}
	for _, l := range s.Labels {
		c.FillRect(l.Rect, l.Color)
		c.Text(models.Pt(l.Rect.X+LabelPadding/2, l.Rect.Y+l.Rect.H-4), l.Text, White)
	}
}
