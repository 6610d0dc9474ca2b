package umami

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnit(t *testing.T) {
	tests := []struct {
		frequency string
		want      string
	}{
		{"day", "day"},
		{"week", "day"},
		{"month", "day"},
		{"quarter", "month"},
		{"year", "year"},
	}

	for _, tt := range tests {
		t.Run(tt.frequency, func(t *testing.T) {
			unit, err := Unit(tt.frequency)
			require.NoError(t, err)
			assert.Equal(t, tt.want, unit)
		})
	}
}

func TestUnitUnsupportedFrequency(t *testing.T) {
	_, err := Unit("fortnight")
	assert.ErrorIs(t, err, ErrUnsupportedFrequency)
}

func statsAndMetricsServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/websites/site-1/stats":
			json.NewEncoder(w).Encode(ScalarStats{
				Pageviews: ScalarMetric{Value: 100, Prev: 90},
			})
		case "/websites/site-1/metrics":
			json.NewEncoder(w).Encode([]map[string]interface{}{
				{"x": "/home", "y": 80},
				{"x": "/about", "y": 20},
			})
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestFetchBundle(t *testing.T) {
	server := statsAndMetricsServer(t)
	defer server.Close()

	client := newTestClient(server)
	bundle, err := client.FetchBundle(context.Background(), "site-1", 1000, 2000, "week",
		[]string{"stats", "urls", "referrers"})
	require.NoError(t, err)

	assert.True(t, bundle.Has("stats"))
	assert.True(t, bundle.Has("urls"))
	assert.True(t, bundle.Has("referrers"))
	assert.Equal(t, float64(100), bundle.Stats.Pageviews.Value)
	assert.Equal(t, "/home", bundle.Series["urls"][0].Label)
}

func TestFetchBundleSkipsUnknownCategory(t *testing.T) {
	server := statsAndMetricsServer(t)
	defer server.Close()

	client := newTestClient(server)
	bundle, err := client.FetchBundle(context.Background(), "site-1", 1000, 2000, "week",
		[]string{"stats", "bogus", "urls"})
	require.NoError(t, err)

	assert.True(t, bundle.Has("stats"))
	assert.True(t, bundle.Has("urls"))
	assert.False(t, bundle.Has("bogus"))
}

func TestFetchBundleSkipsFailingCategory(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/websites/site-1/stats" {
			http.Error(w, "boom", http.StatusForbidden)
			return
		}
		json.NewEncoder(w).Encode([]map[string]interface{}{{"x": "/home", "y": 80}})
	}))
	defer server.Close()

	client := newTestClient(server)
	bundle, err := client.FetchBundle(context.Background(), "site-1", 1000, 2000, "week",
		[]string{"stats", "urls"})
	require.NoError(t, err)

	// The failing category is dropped, the rest of the bundle survives.
	assert.False(t, bundle.Has("stats"))
	assert.True(t, bundle.Has("urls"))
}

func TestFetchBundleInvalidWindow(t *testing.T) {
	client := &Client{baseURL: "http://unused", timezone: "CET"}

	tests := []struct {
		name       string
		start, end int64
	}{
		{"start equals end", 1000, 1000},
		{"start after end", 2000, 1000},
		{"negative start", -1, 1000},
		{"zero sentinel", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.FetchBundle(context.Background(), "site-1", tt.start, tt.end, "week", []string{"stats"})
			assert.ErrorIs(t, err, ErrInvalidWindow)
		})
	}
}

func TestFetchBundleUnsupportedFrequency(t *testing.T) {
	client := &Client{baseURL: "http://unused", timezone: "CET"}
	_, err := client.FetchBundle(context.Background(), "site-1", 1000, 2000, "hour", []string{"stats"})
	assert.ErrorIs(t, err, ErrUnsupportedFrequency)
}

func TestBundleEmpty(t *testing.T) {
	assert.True(t, NewBundle().Empty())
	assert.True(t, (*Bundle)(nil).Empty())

	b := NewBundle()
	b.Series["urls"] = []LabelValue{{Label: "/", Value: 1}}
	assert.False(t, b.Empty())
}
