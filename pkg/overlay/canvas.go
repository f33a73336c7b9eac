package overlay

import (
	"image"
	"image/color"
	"io"

	"github.com/fogleman/gg"
	"github.com/grovetools/cellconsole/pkg/models"
)

// ImageCanvas paints onto an in-memory RGBA image, optionally over a
// background stretched to the canvas size.
type ImageCanvas struct {
	dc         *gg.Context
	background image.Image
}

var _ Canvas = (*ImageCanvas)(nil)

// NewImageCanvas creates a transparent canvas.
func NewImageCanvas(width, height int) *ImageCanvas {
	return &ImageCanvas{dc: gg.NewContext(width, height)}
}

// NewImageCanvasOver creates a canvas of the given size that clears to bg.
func NewImageCanvasOver(bg image.Image, width, height int) *ImageCanvas {
	return &ImageCanvas{dc: gg.NewContext(width, height), background: bg}
}

// Clear resets the canvas to its background.
func (c *ImageCanvas) Clear() {
	c.dc.SetColor(color.Transparent)
	c.dc.Clear()
	if c.background == nil {
		return
	}
	b := c.background.Bounds()
	c.dc.Push()
	c.dc.Scale(float64(c.dc.Width())/float64(b.Dx()), float64(c.dc.Height())/float64(b.Dy()))
	c.dc.DrawImage(c.background, -b.Min.X, -b.Min.Y)
	c.dc.Pop()
}

// StrokePolyline draws a polyline.
func (c *ImageCanvas) StrokePolyline(points []models.Point, closed bool, width float64, col color.Color) {
	if len(points) == 0 {
		return
	}
	c.dc.NewSubPath()
	c.dc.MoveTo(points[0].X, points[0].Y)
	for _, p := range points[1:] {
		c.dc.LineTo(p.X, p.Y)
	}
	if closed {
		c.dc.ClosePath()
	}
	c.dc.SetLineWidth(width)
	c.dc.SetColor(col)
	c.dc.Stroke()
}

// Circle draws a filled or stroked circle.
func (c *ImageCanvas) Circle(center models.Point, radius float64, fill bool, width float64, col color.Color) {
	c.dc.DrawCircle(center.X, center.Y, radius)
	c.dc.SetColor(col)
	if fill {
		c.dc.Fill()
		return
	}
	c.dc.SetLineWidth(width)
	c.dc.Stroke()
}

// FillRect fills a rectangle.
func (c *ImageCanvas) FillRect(r Rect, col color.Color) {
	c.dc.DrawRectangle(r.X, r.Y, r.W, r.H)
	c.dc.SetColor(col)
	c.dc.Fill()
}

// Text draws s with its baseline starting at at.
func (c *ImageCanvas) Text(at models.Point, s string, col color.Color) {
	c.dc.SetColor(col)
	c.dc.DrawString(s, at.X, at.Y)
}

// Image returns the painted image.
func (c *ImageCanvas) Image() image.Image {
	return c.dc.Image()
}

// EncodePNG writes the canvas as PNG.
func (c *ImageCanvas) EncodePNG(w io.Writer) error {
	return c.dc.EncodePNG(w)
}
