package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sitepulse/umami-reporter/internal/config"
	"github.com/sitepulse/umami-reporter/internal/delivery"
	"github.com/sitepulse/umami-reporter/internal/i18n"
	"github.com/sitepulse/umami-reporter/internal/pkg/logger"
	"github.com/sitepulse/umami-reporter/internal/render"
	"github.com/sitepulse/umami-reporter/internal/schedule"
	"github.com/sitepulse/umami-reporter/internal/status"
	"github.com/sitepulse/umami-reporter/internal/umami"
	"github.com/sitepulse/umami-reporter/internal/watermark"
)

// Fetcher fetches the normalized metric bundle for one site's window.
// *umami.Client implements it.
type Fetcher interface {
	FetchBundle(ctx context.Context, websiteID string, startMs, endMs int64, frequency string, categories []string) (*umami.Bundle, error)
}

// Renderer renders a named template with bindings. *render.Engine
// implements it.
type Renderer interface {
	Render(templateName string, bindings map[string]interface{}) (string, error)
}

// Processor runs the full report pipeline for one site at a time. All
// fields are set before dispatch and read-only afterwards, so one
// Processor serves every concurrent site task.
type Processor struct {
	Company   config.CompanyConfig
	Policy    string // "dayofweek" or "elapsed"
	Gate      schedule.Gate
	Fetcher   Fetcher
	Resolver  *i18n.Resolver
	Renderer  Renderer
	Sender    delivery.Sender
	Transport string           // label for delivery metrics
	Watermark watermark.Store  // required under the elapsed policy
	Metrics   *status.Metrics  // optional
	HTMLDir   string
	CSSPath   string
}

// ErrEmptyRender means the template produced no output; such a report is
// never delivered.
var ErrEmptyRender = errors.New("report: rendered document is empty")

// ProcessSite runs the pipeline for one site. Any returned error aborts
// only this site; the dispatcher logs it and siblings continue.
func (p *Processor) ProcessSite(ctx context.Context, site config.SiteConfig, now time.Time) error {
	p.count(func(m *status.Metrics) { m.ReportsProcessedTotal.Inc() })

	if err := site.Validate(); err != nil {
		p.fail("validate")
		return err
	}
	site.ApplyDefaults()

	if p.Policy != "elapsed" {
		ok, err := schedule.HourMatches(site.EmailTime, now)
		if err != nil {
			p.fail("validate")
			return err
		}
		if !ok {
			p.skip("hour_gate")
			return nil
		}
	}

	table := p.Resolver.Resolve(site.Lang)
	frequencyLabel := i18n.FrequencyLabel(site.Frequency, table)

	due, err := p.Gate.Due(ctx, site, now)
	if err != nil {
		p.fail("cadence")
		return err
	}
	if !due {
		p.skip("not_due")
		return nil
	}

	startMs, endMs := schedule.CalculateDateRange(now, site.Frequency)
	if startMs == 0 && endMs == 0 {
		p.fail("window")
		return fmt.Errorf("no report window for frequency %q", site.Frequency)
	}

	bundle, err := p.Fetcher.FetchBundle(ctx, site.WebsiteID, startMs, endMs, site.Frequency, site.WhatStats)
	if err != nil {
		p.fail("fetch")
		return fmt.Errorf("fetching metrics: %w", err)
	}
	if bundle.Empty() {
		logger.Warn("no metrics fetched, skipping report",
			"website_id", site.WebsiteID, "name", site.Name)
		p.skip("empty_bundle")
		return nil
	}

	bindings := BuildContext(site, p.Company, table, frequencyLabel, bundle, render.Styling(p.CSSPath))
	doc, err := p.Renderer.Render(site.EmailTemplate, bindings)
	if err != nil {
		p.fail("render")
		return fmt.Errorf("rendering report: %w", err)
	}
	if doc == "" {
		p.fail("render")
		return ErrEmptyRender
	}

	attachment := ""
	if site.GenerateHTML || site.SendAttachment {
		path, err := render.WriteHTML(p.HTMLDir, site.Name, doc)
		if err != nil {
			logger.Error("could not write report file",
				"website_id", site.WebsiteID, "error", err.Error())
		} else if site.SendAttachment {
			attachment = path
		}
	}

	msg := delivery.Message{
		Subject:        Subject(table, frequencyLabel, site.Name),
		HTML:           doc,
		Recipients:     site.Emails,
		AttachmentPath: attachment,
	}
	if err := p.Sender.Send(ctx, msg); err != nil {
		p.fail("delivery")
		return fmt.Errorf("delivering report: %w", err)
	}

	logger.Info("report sent",
		"website_id", site.WebsiteID, "name", site.Name,
		"frequency", site.Frequency, "recipients", len(site.Emails))
	p.count(func(m *status.Metrics) { m.ReportsSentTotal.WithLabelValues(p.Transport).Inc() })

	if p.Policy == "elapsed" && p.Watermark != nil {
		if err := p.Watermark.SetLastSent(ctx, site.WebsiteID, now); err != nil {
			// The report went out; a stale watermark only risks an early
			// re-send on the next qualifying tick.
			logger.Error("could not persist watermark",
				"website_id", site.WebsiteID, "error", err.Error())
		}
	}

	return nil
}

func (p *Processor) count(fn func(*status.Metrics)) {
	if p.Metrics != nil {
		fn(p.Metrics)
	}
}

func (p *Processor) skip(reason string) {
	p.count(func(m *status.Metrics) { m.ReportsSkippedTotal.WithLabelValues(reason).Inc() })
}

func (p *Processor) fail(stage string) {
	p.count(func(m *status.Metrics) { m.ReportsFailedTotal.WithLabelValues(stage).Inc() })
}
