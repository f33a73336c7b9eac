package overlay

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/grovetools/cellconsole/config"
	"github.com/grovetools/cellconsole/pkg/models"
)

// Label and glyph metrics, matching the 7x13 bitmap face the canvas uses.
const (
	GlyphWidth   = 7
	LabelHeight  = 16
	LabelPadding = 6
	LabelGap     = 4
	// LabelOffset places a label to the upper right of its object's center.
	LabelOffset = 8

	crosshairArm = 10
	dotRadius    = 5
	holeRadius   = 5
	strokeWidth  = 2
	lineHeight   = 14
)

// Options selects the optional annotations.
type Options struct {
	Edges     bool
	Holes     bool
	Labels    bool
	Width     bool
	Height    bool
	Area      bool
	Perimeter bool
}

// DefaultOptions draws edges, holes and labels without dimension readouts.
func DefaultOptions() Options {
	return Options{Edges: true, Holes: true, Labels: true}
}

// OptionsFromConfig maps the overlay section of the configuration.
func OptionsFromConfig(cfg config.OverlayConfig) Options {
	return Options{
		Edges:     config.Enabled(cfg.Edges),
		Holes:     config.Enabled(cfg.Holes),
		Labels:    config.Enabled(cfg.Labels),
		Width:     cfg.Width,
		Height:    cfg.Height,
		Area:      cfg.Area,
		Perimeter: cfg.Perimeter,
	}
}

type scaler struct {
	sx, sy float64
}

func newScaler(natural, displayed Size) scaler {
	s := scaler{sx: 1, sy: 1}
	if natural.W > 0 && displayed.W > 0 {
		s.sx = displayed.W / natural.W
	}
	if natural.H > 0 && displayed.H > 0 {
		s.sy = displayed.H / natural.H
	}
	return s
}

func (s scaler) pt(p models.Point) models.Point {
	return models.Point{X: p.X * s.sx, Y: p.Y * s.sy}
}

func (s scaler) pts(in []models.Point) []models.Point {
	out := make([]models.Point, len(in))
	for i, p := range in {
		out[i] = s.pt(p)
	}
	return out
}

// Build derives the scene for an analysis result painted over an image of
// the given native size shown at the displayed size. A nil result yields an
// empty scene.
func Build(res *models.AnalysisResult, natural, displayed Size, opts Options) Scene {
	scene := Scene{Width: displayed.W, Height: displayed.H}
	if res == nil {
		return scene
	}
	sc := newScaler(natural, displayed)

	if res.StaticCenterPx != nil {
		scene.Crosshair = &Crosshair{
			Center: sc.pt(*res.StaticCenterPx),
			Arm:    crosshairArm,
			Width:  strokeWidth,
			Color:  Yellow,
		}
	}

	var placed []Rect
	for i, obj := range res.Objects {
		tint := Palette[i%len(Palette)]

		if len(obj.ContourPx) > 0 {
			scene.Polylines = append(scene.Polylines, Polyline{
				Points: sc.pts(obj.ContourPx), Closed: true, Width: strokeWidth, Color: Lime,
			})
		}
		if len(obj.BoxPx) > 0 && !obj.HasHoles() {
			scene.Polylines = append(scene.Polylines, Polyline{
				Points: sc.pts(obj.BoxPx), Closed: true, Width: strokeWidth, Color: Blue,
			})
		}
		if opts.Edges {
			addEdges(&scene, sc, obj)
		}
		if opts.Holes && obj.Inspection != nil {
			for _, h := range obj.Inspection.Holes {
				c := sc.pt(h.CenterPx)
				scene.Circles = append(scene.Circles, Circle{Center: c, Radius: holeRadius, Width: strokeWidth, Color: Cyan})
				scene.Texts = append(scene.Texts, Text{
					At:    models.Pt(c.X+8, c.Y),
					Text:  fmt.Sprintf("Ø %.2f mm", h.DiameterMM),
					Color: Cyan,
				})
			}
		}

		if obj.CenterPx == nil {
			continue
		}
		center := sc.pt(*obj.CenterPx)
		scene.Circles = append(scene.Circles, Circle{Center: center, Radius: dotRadius, Fill: true, Color: tint})

		for k, line := range readouts(obj.Inspection, opts) {
			scene.Texts = append(scene.Texts, Text{
				At:    models.Pt(center.X+LabelOffset, center.Y+float64(k+1)*lineHeight),
				Text:  line,
				Color: White,
			})
		}

		if opts.Labels {
			label := placeLabel(obj.ID, center, placed)
			label.Color = tint
			placed = append(placed, label.Rect)
			scene.Labels = append(scene.Labels, label)
		}
	}
	return scene
}

// addEdges draws edge i from EdgesPx[i] to EdgesPx[i+1], wrapping, annotated
// with EdgesMM[i].
func addEdges(scene *Scene, sc scaler, obj models.DetectedObject) {
	if obj.Inspection == nil || len(obj.Inspection.EdgesMM) == 0 || len(obj.EdgesPx) < 2 {
		return
	}
	n := len(obj.EdgesPx)
	for i := range obj.EdgesPx {
		p1 := sc.pt(obj.EdgesPx[i])
		p2 := sc.pt(obj.EdgesPx[(i+1)%n])
		scene.Polylines = append(scene.Polylines, Polyline{
			Points: []models.Point{p1, p2}, Width: strokeWidth, Color: Yellow,
		})
		if i >= len(obj.Inspection.EdgesMM) {
			continue
		}
		mid := models.Pt((p1.X+p2.X)/2, (p1.Y+p2.Y)/2)
		scene.Texts = append(scene.Texts, Text{
			At:    models.Pt(mid.X+4, mid.Y-4),
			Text:  fmt.Sprintf("%.1f mm", obj.Inspection.EdgesMM[i]),
			Color: Yellow,
		})
	}
}

func readouts(in *models.Inspection, opts Options) []string {
	if in == nil {
		return nil
	}
	var lines []string
	if opts.Width && in.WidthMM != nil {
		lines = append(lines, fmt.Sprintf("W %.1f mm", *in.WidthMM))
	}
	if opts.Height && in.HeightMM != nil {
		lines = append(lines, fmt.Sprintf("H %.1f mm", *in.HeightMM))
	}
	if opts.Area && in.AreaMM2 != nil {
		lines = append(lines, fmt.Sprintf("A %.1f mm²", *in.AreaMM2))
	}
	if opts.Perimeter && in.PerimeterMM != nil {
		lines = append(lines, fmt.Sprintf("P %.1f mm", *in.PerimeterMM))
	}
	return lines
}

// placeLabel puts the label above and right of center, then moves it up by
// its height plus LabelGap until it clears every placed label.
func placeLabel(id int, center models.Point, placed []Rect) Label {
	text := "#" + strconv.Itoa(id)
	w := float64(utf8.RuneCountInString(text)*GlyphWidth + LabelPadding)
	r := Rect{X: center.X + LabelOffset, Y: center.Y - LabelOffset - LabelHeight, W: w, H: LabelHeight}

	for collides(r, placed) {
		r.Y -= LabelHeight + LabelGap
	}
	return Label{ObjectID: id, Rect: r, Text: text}
}

func collides(r Rect, placed []Rect) bool {
	for _, p := range placed {
		if r.Intersects(p) {
			return true
		}
	}
	return false
}
