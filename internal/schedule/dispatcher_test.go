package schedule

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sitepulse/umami-reporter/internal/config"
	"github.com/stretchr/testify/assert"
)

func makeSites(n int) []config.SiteConfig {
	sites := make([]config.SiteConfig, n)
	for i := range sites {
		sites[i] = config.SiteConfig{WebsiteID: string(rune('a' + i)), Name: "Site"}
	}
	return sites
}

func TestDispatchProcessesAllSites(t *testing.T) {
	var count int32
	summary := Dispatch(context.Background(), makeSites(10), 5,
		func(ctx context.Context, site config.SiteConfig, now time.Time) error {
			atomic.AddInt32(&count, 1)
			return nil
		})

	assert.Equal(t, int32(10), atomic.LoadInt32(&count))
	assert.Equal(t, 10, summary.Processed)
	assert.Equal(t, 0, summary.Failed)
}

func TestDispatchIsolatesFailures(t *testing.T) {
	var completed int32
	summary := Dispatch(context.Background(), makeSites(10), 5,
		func(ctx context.Context, site config.SiteConfig, now time.Time) error {
			if site.WebsiteID == "c" {
				return errors.New("boom")
			}
			atomic.AddInt32(&completed, 1)
			return nil
		})

	assert.Equal(t, int32(9), atomic.LoadInt32(&completed))
	assert.Equal(t, 10, summary.Processed)
	assert.Equal(t, 1, summary.Failed)
}

func TestDispatchRecoversPanics(t *testing.T) {
	summary := Dispatch(context.Background(), makeSites(10), 5,
		func(ctx context.Context, site config.SiteConfig, now time.Time) error {
			if site.WebsiteID == "c" {
				panic("worker blew up")
			}
			return nil
		})

	assert.Equal(t, 10, summary.Processed)
	assert.Equal(t, 1, summary.Failed)
}

func TestDispatchSharesOneTimestamp(t *testing.T) {
	var (
		mu    sync.Mutex
		times []time.Time
	)
	Dispatch(context.Background(), makeSites(6), 3,
		func(ctx context.Context, site config.SiteConfig, now time.Time) error {
			mu.Lock()
			times = append(times, now)
			mu.Unlock()
			return nil
		})

	for _, ts := range times[1:] {
		assert.Equal(t, times[0], ts)
	}
}

func TestDispatchBoundsConcurrency(t *testing.T) {
	var current, peak int32
	Dispatch(context.Background(), makeSites(10), 2,
		func(ctx context.Context, site config.SiteConfig, now time.Time) error {
			n := atomic.AddInt32(&current, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&current, -1)
			return nil
		})

	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
}
