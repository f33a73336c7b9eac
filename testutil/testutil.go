// Package testutil holds helpers shared by package tests.
package testutil

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

// IsolateHome points CELLCONSOLE_HOME at a temporary directory so config
// discovery, preferences and the pid file never touch the real ones.
func IsolateHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("CELLCONSOLE_HOME", dir)
	t.Setenv("CELLCONSOLE_LOG_LEVEL", "error")
	return dir
}

// QuietLogger returns a logger that discards everything.
func QuietLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

// PNGBase64 returns a w x h mid-grey PNG, base64 encoded like a camera
// capture.
func PNGBase64(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.Gray{Y: 128})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}
