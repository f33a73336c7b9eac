package overlay

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/jpeg" // register decoders for captured frames
	_ "image/png"
	"strings"

	"github.com/grovetools/cellconsole/pkg/models"
)

// DecodeBase64Image decodes a captured frame. A data-URL prefix is accepted.
func DecodeBase64Image(data string) (image.Image, error) {
	if i := strings.Index(data, ","); i >= 0 && strings.HasPrefix(data, "data:") {
		data = data[i+1:]
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(data))
	if err != nil {
		return nil, fmt.Errorf("image is not valid base64: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// SizeOf returns the native size of img.
func SizeOf(img image.Image) Size {
	b := img.Bounds()
	return Size{W: float64(b.Dx()), H: float64(b.Dy())}
}

// RenderAnalysis paints res over bg at the displayed size. A zero displayed
// size keeps the native size.
func RenderAnalysis(bg image.Image, res *models.AnalysisResult, displayed Size, opts Options) *ImageCanvas {
	natural := SizeOf(bg)
	if displayed.W <= 0 || displayed.H <= 0 {
		displayed = natural
	}
	c := NewImageCanvasOver(bg, int(displayed.W), int(displayed.H))
	Paint(c, Build(res, natural, displayed, opts))
	return c
}

// RenderPaths paints a path preview on a transparent canvas.
func RenderPaths(paths [][]models.Point, origin *models.Point, size Size) *ImageCanvas {
	c := NewImageCanvas(int(size.W), int(size.H))
	Paint(c, FitPaths(paths, origin, size))
	return c
}
