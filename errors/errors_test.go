package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellError(t *testing.T) {
	err := New(ErrCodeBackend, "backend failed")
	assert.Equal(t, ErrCodeBackend, err.Code)

	cause := fmt.Errorf("underlying error")
	wrapped := Wrap(cause, ErrCodeTransport, "request failed")
	assert.Equal(t, cause, wrapped.Unwrap())

	assert.True(t, Is(wrapped, ErrCodeTransport))
	assert.False(t, Is(wrapped, ErrCodeBackend))

	detailed := err.WithDetail("endpoint", "camera/trigger").WithDetail("status", 500)
	assert.Equal(t, "camera/trigger", detailed.Details["endpoint"])
}

func TestIsThroughFmtWrapping(t *testing.T) {
	inner := Precondition("Image is missing")
	outer := fmt.Errorf("analyze: %w", inner)

	assert.True(t, Is(outer, ErrCodePrecondition))
	assert.Equal(t, ErrCodePrecondition, GetCode(outer))

	found, ok := As(outer)
	require.True(t, ok)
	assert.Equal(t, "Image is missing", found.Message)

	assert.Equal(t, ErrorCode(""), GetCode(fmt.Errorf("plain")))
	assert.False(t, Is(nil, ErrCodeInternal))
}

func TestErrorConstructors(t *testing.T) {
	err := Backend("robot/moveL", 500, map[string]interface{}{"detail": "unreachable"})
	assert.Equal(t, ErrCodeBackend, err.Code)
	assert.Equal(t, 500, err.Details["status"])
	assert.Equal(t, "robot/moveL returned HTTP 500", err.Message)

	err = Transport("robot/tcp", fmt.Errorf("connection refused"))
	assert.Equal(t, ErrCodeTransport, err.Code)
	assert.Contains(t, err.Error(), "connection refused")

	err = Timeout("camera/analyze", "15s")
	assert.Equal(t, "15s", err.Details["timeout"])

	err = ConfigNotFound("/tmp/cellconsole.yml")
	assert.Equal(t, "/tmp/cellconsole.yml", err.Details["path"])
}

func TestToJSON(t *testing.T) {
	err := ConfigInvalid("backend.host is empty")
	assert.Contains(t, err.ToJSON(), `"code": "CONFIG_INVALID"`)
}
