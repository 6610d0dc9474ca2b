package umami

import (
	"context"
	"errors"
	"fmt"

	"github.com/sitepulse/umami-reporter/internal/pkg/logger"
)

// CategoryStats is the aggregate-stats category; it uses its own endpoint
// and a field-by-field projection instead of label/value rows.
const CategoryStats = "stats"

var (
	// ErrInvalidWindow means the requested range cannot describe any data.
	ErrInvalidWindow = errors.New("umami: range start must be non-negative and before range end")
	// ErrUnsupportedFrequency means no API unit exists for the frequency.
	ErrUnsupportedFrequency = errors.New("umami: unsupported frequency")
)

// categoryTypes maps each breakdown category to the type parameter of the
// /metrics endpoint. CategoryStats is absent on purpose.
var categoryTypes = map[string]string{
	"events":    "event",
	"urls":      "url",
	"referrers": "referrer",
	"browsers":  "browser",
	"oses":      "os",
	"devices":   "device",
	"countries": "country",
}

// Unit maps a report frequency to the API aggregation unit: day, week and
// month reports aggregate by day, quarterly by month, yearly by year.
func Unit(frequency string) (string, error) {
	switch frequency {
	case "day", "week", "month":
		return "day", nil
	case "quarter":
		return "month", nil
	case "year":
		return "year", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFrequency, frequency)
	}
}

// validateWindow rejects ranges the API would answer with garbage.
func validateWindow(startMs, endMs int64) error {
	if startMs < 0 || endMs < 0 || startMs >= endMs {
		return ErrInvalidWindow
	}
	return nil
}

// FetchBundle fetches every requested category for one website and reshapes
// the payloads into a canonical Bundle. Unknown categories are skipped with
// a warning. A single category's fetch failure drops only that category;
// the rest of the bundle is still delivered.
func (c *Client) FetchBundle(ctx context.Context, websiteID string, startMs, endMs int64, frequency string, categories []string) (*Bundle, error) {
	if err := validateWindow(startMs, endMs); err != nil {
		return nil, err
	}
	unit, err := Unit(frequency)
	if err != nil {
		return nil, err
	}

	bundle := NewBundle()
	for _, category := range categories {
		if category == CategoryStats {
			stats, err := c.GetWebsiteStats(ctx, websiteID, startMs, endMs, unit)
			if err != nil {
				logger.Warn("skipping category after fetch failure",
					"website_id", websiteID, "category", category, "error", err.Error())
				continue
			}
			bundle.Stats = stats
			continue
		}

		metricType, ok := categoryTypes[category]
		if !ok {
			logger.Warn("unsupported stat category, skipping",
				"website_id", websiteID, "category", category)
			continue
		}

		rows, err := c.GetMetrics(ctx, websiteID, metricType, startMs, endMs, unit)
		if err != nil {
			logger.Warn("skipping category after fetch failure",
				"website_id", websiteID, "category", category, "error", err.Error())
			continue
		}
		bundle.Series[category] = rows
	}

	return bundle, nil
}
