package schedule

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sitepulse/umami-reporter/internal/config"
	"github.com/sitepulse/umami-reporter/internal/pkg/logger"
)

// DefaultWorkers bounds dispatch concurrency when no pool size is configured.
const DefaultWorkers = 5

// ProcessFunc runs the full report pipeline for one site at one instant.
type ProcessFunc func(ctx context.Context, site config.SiteConfig, now time.Time) error

// Summary counts the outcomes of one dispatch run.
type Summary struct {
	Processed int
	Failed    int
}

// Dispatch captures one `now` and fans fn out over every site using a
// bounded worker pool. Each site's failure (error or panic) is logged with
// the site's identity and never affects siblings; Dispatch returns once all
// tasks have settled.
func Dispatch(ctx context.Context, sites []config.SiteConfig, workers int, fn ProcessFunc) Summary {
	if workers <= 0 {
		workers = DefaultWorkers
	}

	now := time.Now()
	jobs := make(chan config.SiteConfig)

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		result Summary
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for site := range jobs {
				err := runOne(ctx, site, now, fn)

				mu.Lock()
				result.Processed++
				if err != nil {
					result.Failed++
				}
				mu.Unlock()

				if err != nil {
					logger.Error("error processing website",
						"website_id", site.WebsiteID, "name", site.Name, "error", err.Error())
				}
			}
		}()
	}

	for _, site := range sites {
		jobs <- site
	}
	close(jobs)
	wg.Wait()

	return result
}

// runOne isolates a single site's task, converting panics into errors so a
// misbehaving site cannot take the pool down.
func runOne(ctx context.Context, site config.SiteConfig, now time.Time, fn ProcessFunc) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during site processing: %v", r)
		}
	}()
	return fn(ctx, site, now)
}
