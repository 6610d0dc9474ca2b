package schedule

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sitepulse/umami-reporter/internal/config"
	"github.com/sitepulse/umami-reporter/internal/pkg/logger"
	"github.com/sitepulse/umami-reporter/internal/watermark"
)

// Gate decides whether a site's report is due at a given instant. The two
// policies are not interchangeable and must be selected explicitly.
type Gate interface {
	Due(ctx context.Context, site config.SiteConfig, now time.Time) (bool, error)
}

// NewGate builds the gate named by the scheduler policy. The elapsed policy
// requires a watermark store.
func NewGate(policy string, store watermark.Store) (Gate, error) {
	switch policy {
	case "", "dayofweek":
		return DayOfWeekGate{}, nil
	case "elapsed":
		if store == nil {
			return nil, fmt.Errorf("elapsed cadence policy requires a watermark store")
		}
		return &ElapsedGate{Store: store}, nil
	default:
		return nil, fmt.Errorf("unknown cadence policy %q", policy)
	}
}

// DayOfWeekGate fires on calendar rules: daily/weekly reports on configured
// weekdays, monthly on the 1st, quarterly on the first day of a quarter,
// yearly on January 1st.
type DayOfWeekGate struct{}

// Due implements Gate.
func (DayOfWeekGate) Due(_ context.Context, site config.SiteConfig, now time.Time) (bool, error) {
	dayName := strings.ToLower(now.Format("Mon"))

	switch site.Frequency {
	case "day":
		return len(site.SendDay) == 0 || containsDay(site.SendDay, dayName), nil
	case "week":
		return len(site.SendDay) == 0 || site.SendDay[0] == dayName, nil
	case "month":
		return now.Day() == 1, nil
	case "quarter":
		m := now.Month()
		return now.Day() == 1 && (m == time.January || m == time.April || m == time.July || m == time.October), nil
	case "year":
		return now.Day() == 1 && now.Month() == time.January, nil
	}
	return false, nil
}

func containsDay(days []string, day string) bool {
	for _, d := range days {
		if d == day {
			return true
		}
	}
	return false
}

// elapsedThresholds is how long must pass since the last successful send
// before a report is due again. The year threshold of 90 days matches the
// legacy scheduler; it is suspected to be wrong (expected 365) but is kept
// until stakeholders confirm.
var elapsedThresholds = map[string]time.Duration{
	"week":    7 * 24 * time.Hour,
	"month":   30 * 24 * time.Hour,
	"quarter": 90 * 24 * time.Hour,
	"year":    90 * 24 * time.Hour,
}

// ElapsedGate fires when enough time has passed since the persisted
// last-sent watermark. Daily frequency has no threshold under this policy
// and is never due.
type ElapsedGate struct {
	Store watermark.Store
}

// Due implements Gate. A missing watermark record means "never sent", so
// the first qualifying tick is always due.
func (g *ElapsedGate) Due(ctx context.Context, site config.SiteConfig, now time.Time) (bool, error) {
	threshold, ok := elapsedThresholds[site.Frequency]
	if !ok {
		logger.Warn("frequency unsupported under elapsed cadence policy",
			"website_id", site.WebsiteID, "frequency", site.Frequency)
		return false, nil
	}

	lastSent, err := g.Store.LastSent(ctx, site.WebsiteID)
	if err != nil {
		return false, fmt.Errorf("reading watermark for %s: %w", site.WebsiteID, err)
	}

	return now.Sub(lastSent) >= threshold, nil
}

// HourMatches reports whether now falls in the hourly tick configured by
// emailTime ("HH:MM"). This lets a single hourly dispatch loop run all day
// while each site fires once per qualifying day.
func HourMatches(emailTime string, now time.Time) (bool, error) {
	parts := strings.SplitN(emailTime, ":", 2)
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return false, fmt.Errorf("invalid email_time %q: %w", emailTime, err)
	}
	return hour == now.Hour(), nil
}
