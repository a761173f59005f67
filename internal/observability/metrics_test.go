package observability

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()

	m.RecordRequest("/orders", http.MethodPost, http.StatusCreated, 3*time.Millisecond)
	m.RecordRequest("/orders", http.MethodPost, http.StatusCreated, 5*time.Millisecond)
	m.RecordRequest("/orders", http.MethodPost, http.StatusConflict, time.Millisecond)
	m.RecordError("/orders", http.MethodPost, "INSUFFICIENT_INVENTORY")

	assert.Equal(t, int64(2), m.RequestCount("/orders", http.MethodPost, http.StatusCreated))
	assert.Equal(t, int64(1), m.RequestCount("/orders", http.MethodPost, http.StatusConflict))
	assert.Equal(t, int64(1), m.ErrorCount("/orders", http.MethodPost, "INSUFFICIENT_INVENTORY"))
	assert.Zero(t, m.RequestCount("/events", http.MethodGet, http.StatusOK))
}

func TestMetricsNilReceiverIsSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/orders", http.MethodPost, http.StatusCreated, 0)
	m.RecordError("/orders", http.MethodPost, "INTERNAL_ERROR")
}
