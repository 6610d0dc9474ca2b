package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCalculateDateRange(t *testing.T) {
	now := time.Date(2026, 8, 3, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		frequency string
		days      int64
	}{
		{"day", 1},
		{"week", 7},
		{"month", 30},
		{"quarter", 90},
		{"year", 365},
	}

	for _, tt := range tests {
		t.Run(tt.frequency, func(t *testing.T) {
			start, end := CalculateDateRange(now, tt.frequency)

			assert.Equal(t, now.UnixMilli(), end)
			assert.Less(t, start, end)
			// Exactly the documented lookback, to the millisecond.
			assert.Equal(t, tt.days*24*60*60*1000, end-start)
		})
	}
}

func TestCalculateDateRangeInvalidFrequencyReturnsSentinel(t *testing.T) {
	start, end := CalculateDateRange(time.Now(), "bogus")
	assert.Equal(t, int64(0), start)
	assert.Equal(t, int64(0), end)
}
