package observability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/api/v1/tickets", "GET", 200, 5*time.Millisecond)
	m.RecordRequest("/api/v1/tickets", "GET", 200, 7*time.Millisecond)
	m.RecordError("/api/v1/tickets", "POST", "VALIDATION_FAILED")

	requests, errCounts := m.Snapshot()
	assert.Equal(t, int64(2), requests["/api/v1/tickets|GET|200"])
	assert.Equal(t, int64(1), errCounts["/api/v1/tickets|POST|VALIDATION_FAILED"])

	// Snapshot hands out copies.
	requests["/api/v1/tickets|GET|200"] = 99
	again, _ := m.Snapshot()
	assert.Equal(t, int64(2), again["/api/v1/tickets|GET|200"])
}

func TestMetricsNilReceiver(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/health/live", "GET", 200, time.Millisecond)
	m.RecordError("/health/live", "GET", "INTERNAL_ERROR")
	requests, errCounts := m.Snapshot()
	assert.Nil(t, requests)
	assert.Nil(t, errCounts)
}
