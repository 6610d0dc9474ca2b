package status

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthz(t *testing.T) {
	m := NewMetrics()
	s := NewServer(":0", m)
	s.RecordRun(time.Date(2026, 8, 3, 8, 0, 0, 0, time.UTC), 2)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/healthz", nil)
	s.httpServer.Handler.ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "2026-08-03T08:00:00Z", body["last_run"])
	assert.Equal(t, float64(2), body["last_run_failed_sites"])
}

func TestMetricsEndpoint(t *testing.T) {
	m := NewMetrics()
	m.ReportsProcessedTotal.Inc()
	m.ReportsSentTotal.WithLabelValues("smtp").Inc()
	m.ReportsFailedTotal.WithLabelValues("delivery").Inc()
	m.ReportsSkippedTotal.WithLabelValues("not_due").Add(3)

	s := NewServer(":0", m)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	s.httpServer.Handler.ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	body := rec.Body.String()

	assert.True(t, strings.Contains(body, `reporter_reports_processed_total 1`))
	assert.True(t, strings.Contains(body, `reporter_reports_sent_total{transport="smtp"} 1`))
	assert.True(t, strings.Contains(body, `reporter_reports_failed_total{stage="delivery"} 1`))
	assert.True(t, strings.Contains(body, `reporter_reports_skipped_total{reason="not_due"} 3`))
}
