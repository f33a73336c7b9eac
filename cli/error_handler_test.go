package cli

import (
	"bytes"
	stderrors "errors"
	"testing"

	"github.com/grovetools/cellconsole/errors"
	"github.com/stretchr/testify/assert"
)

func TestHandleTransport(t *testing.T) {
	var buf bytes.Buffer
	h := &ErrorHandler{Out: &buf}
	err := errors.Transport("robot/tcp", stderrors.New("connection refused"))

	assert.Equal(t, err, h.Handle(err))
	assert.Contains(t, buf.String(), "Backend unreachable (robot/tcp)")
	assert.NotContains(t, buf.String(), "Error details")
}

func TestHandleVerboseShowsDetails(t *testing.T) {
	var buf bytes.Buffer
	h := &ErrorHandler{Out: &buf, Verbose: true}
	h.Handle(errors.Backend("robot/moveL", 500, map[string]interface{}{"detail": "out of reach"}))

	out := buf.String()
	assert.Contains(t, out, "Backend error")
	assert.Contains(t, out, "out of reach")
	assert.Contains(t, out, "Error details")
}

func TestHandlePlainError(t *testing.T) {
	var buf bytes.Buffer
	h := &ErrorHandler{Out: &buf}
	h.Handle(stderrors.New("boom"))
	assert.Equal(t, "❌ Error: boom\n", buf.String())
	assert.NoError(t, h.Handle(nil))
}
