// Package watermark persists the last successful send per website, used by
// the elapsed cadence policy. Records are keyed by website_id so concurrent
// writers for different sites never conflict.
package watermark

import (
	"context"
	"time"
)

// Store reads and writes per-site last-sent timestamps.
type Store interface {
	// LastSent returns the persisted timestamp for the site. A site that
	// has never been sent a report yields the zero time and no error.
	LastSent(ctx context.Context, websiteID string) (time.Time, error)
	// SetLastSent records a successful send. It must only be called after
	// delivery is confirmed.
	SetLastSent(ctx context.Context, websiteID string, t time.Time) error
}
