package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/sitepulse/umami-reporter/internal/config"
	"github.com/sitepulse/umami-reporter/internal/watermark"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Monday August 3rd 2026.
var monday = time.Date(2026, 8, 3, 8, 0, 0, 0, time.UTC)

func site(frequency string, sendDay ...string) config.SiteConfig {
	return config.SiteConfig{
		WebsiteID: "w1",
		Name:      "Blog",
		Emails:    []string{"a@b.test"},
		Frequency: frequency,
		SendDay:   sendDay,
	}
}

func TestDayOfWeekGate(t *testing.T) {
	tuesday := monday.AddDate(0, 0, 1)
	firstOfJuly := time.Date(2026, 7, 1, 8, 0, 0, 0, time.UTC)
	firstOfJan := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	firstOfFeb := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		site config.SiteConfig
		now  time.Time
		want bool
	}{
		{"daily no send_day", site("day"), monday, true},
		{"daily matching day", site("day", "mon", "wed"), monday, true},
		{"daily non-matching day", site("day", "wed"), monday, false},
		{"weekly no send_day", site("week"), monday, true},
		{"weekly on configured day", site("week", "mon"), monday, true},
		{"weekly off configured day", site("week", "mon"), tuesday, false},
		{"monthly on the 1st", site("month"), firstOfJuly, true},
		{"monthly mid-month", site("month"), monday, false},
		{"quarterly on quarter start", site("quarter"), firstOfJuly, true},
		{"quarterly on non-quarter month", site("quarter"), firstOfFeb, false},
		{"yearly on Jan 1", site("year"), firstOfJan, true},
		{"yearly on other 1st", site("year"), firstOfJuly, false},
		{"unknown frequency", site("fortnight"), monday, false},
	}

	gate := DayOfWeekGate{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			due, err := gate.Due(context.Background(), tt.site, tt.now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, due)
		})
	}
}

func elapsedGate(t *testing.T) (*ElapsedGate, watermark.Store) {
	t.Helper()
	store, err := watermark.NewFileStore(t.TempDir())
	require.NoError(t, err)
	return &ElapsedGate{Store: store}, store
}

func TestElapsedGate(t *testing.T) {
	ctx := context.Background()

	t.Run("never sent is due", func(t *testing.T) {
		gate, _ := elapsedGate(t)
		due, err := gate.Due(ctx, site("month"), monday)
		require.NoError(t, err)
		assert.True(t, due)
	})

	t.Run("monthly due after 31 days", func(t *testing.T) {
		gate, store := elapsedGate(t)
		require.NoError(t, store.SetLastSent(ctx, "w1", monday.AddDate(0, 0, -31)))

		due, err := gate.Due(ctx, site("month"), monday)
		require.NoError(t, err)
		assert.True(t, due)
	})

	t.Run("monthly not due after 10 days", func(t *testing.T) {
		gate, store := elapsedGate(t)
		require.NoError(t, store.SetLastSent(ctx, "w1", monday.AddDate(0, 0, -10)))

		due, err := gate.Due(ctx, site("month"), monday)
		require.NoError(t, err)
		assert.False(t, due)
	})

	t.Run("daily unsupported under elapsed policy", func(t *testing.T) {
		gate, _ := elapsedGate(t)
		due, err := gate.Due(ctx, site("day"), monday)
		require.NoError(t, err)
		assert.False(t, due)
	})

	t.Run("yearly uses the legacy 90 day threshold", func(t *testing.T) {
		gate, store := elapsedGate(t)
		require.NoError(t, store.SetLastSent(ctx, "w1", monday.AddDate(0, 0, -91)))

		due, err := gate.Due(ctx, site("year"), monday)
		require.NoError(t, err)
		assert.True(t, due)
	})
}

func TestNewGate(t *testing.T) {
	store, err := watermark.NewFileStore(t.TempDir())
	require.NoError(t, err)

	g, err := NewGate("dayofweek", nil)
	require.NoError(t, err)
	assert.IsType(t, DayOfWeekGate{}, g)

	g, err = NewGate("elapsed", store)
	require.NoError(t, err)
	assert.IsType(t, &ElapsedGate{}, g)

	_, err = NewGate("elapsed", nil)
	assert.Error(t, err)

	_, err = NewGate("moonphase", nil)
	assert.Error(t, err)
}

func TestHourMatches(t *testing.T) {
	eight := time.Date(2026, 8, 3, 8, 30, 0, 0, time.UTC)

	ok, err := HourMatches("08:00", eight)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = HourMatches("09:00", eight)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = HourMatches("morning", eight)
	assert.Error(t, err)
}
