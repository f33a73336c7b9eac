package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/grovetools/cellconsole/pkg/action"
	"github.com/grovetools/cellconsole/pkg/models"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveCall(t *testing.T) {
	m := New()
	m.ObserveCall("robot/tcp", 200, 0.01, nil)
	m.ObserveCall("robot/tcp", 200, 0.02, nil)
	m.ObserveCall("robot/moveL", 500, 0.1, errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.GatewayCalls.WithLabelValues("robot/tcp", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GatewayCalls.WithLabelValues("robot/moveL", "500")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GatewayErrors.WithLabelValues("robot/moveL")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.GatewayErrors.WithLabelValues("robot/tcp")))
}

func TestObserveActions(t *testing.T) {
	m := New()
	m.ObserveAction(action.GetTCP)
	m.ObserveAction(action.GetTCP)
	m.ObserveDropped(action.JobStatusSuccess)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Actions.WithLabelValues(string(action.GetTCP))))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Dropped.WithLabelValues(string(action.JobStatusSuccess))))
}

func TestObservePoller(t *testing.T) {
	m := New()
	m.ObservePoller(models.JobPick, true)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Pollers.WithLabelValues(string(models.JobPick))))
	m.ObservePoller(models.JobPick, false)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Pollers.WithLabelValues(string(models.JobPick))))
}

func TestRegistriesAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.ObserveAction(action.GetTCP)
	assert.Equal(t, 0.0, testutil.ToFloat64(b.Actions.WithLabelValues(string(action.GetTCP))))
}

func TestHandlerServesText(t *testing.T) {
	m := New()
	m.ObserveAction(action.GetTCP)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "cellconsole_actions_total")
}
