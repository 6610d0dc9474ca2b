// Package schedule decides when reports are due and fans site processing
// out over a bounded worker pool.
package schedule

import (
	"time"

	"github.com/sitepulse/umami-reporter/internal/pkg/logger"
)

// lookbackDays is a fixed-day approximation; month, quarter and year
// windows drift against the calendar on purpose.
var lookbackDays = map[string]int{
	"day":     1,
	"week":    7,
	"month":   30,
	"quarter": 90,
	"year":    365,
}

// CalculateDateRange returns the report window as epoch milliseconds,
// ending at now and looking back per frequency. An unknown frequency is
// non-fatal for the batch: it logs and returns the (0, 0) sentinel, which
// callers must treat as "skip this site".
func CalculateDateRange(now time.Time, frequency string) (startMs, endMs int64) {
	days, ok := lookbackDays[frequency]
	if !ok {
		logger.Error("invalid report frequency", "frequency", frequency)
		return 0, 0
	}

	endMs = now.UnixMilli()
	startMs = now.Add(-time.Duration(days) * 24 * time.Hour).UnixMilli()
	return startMs, endMs
}
