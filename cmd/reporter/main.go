package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sitepulse/umami-reporter/internal/config"
	"github.com/sitepulse/umami-reporter/internal/delivery"
	"github.com/sitepulse/umami-reporter/internal/i18n"
	"github.com/sitepulse/umami-reporter/internal/pkg/logger"
	"github.com/sitepulse/umami-reporter/internal/render"
	"github.com/sitepulse/umami-reporter/internal/report"
	"github.com/sitepulse/umami-reporter/internal/schedule"
	"github.com/sitepulse/umami-reporter/internal/status"
	"github.com/sitepulse/umami-reporter/internal/umami"
	"github.com/sitepulse/umami-reporter/internal/watermark"
)

func main() {
	var (
		configPath   = flag.String("config", "configs/config.yaml", "path to the main config file (YAML or JSON)")
		websitesPath = flag.String("websites", "configs/websites.json", "path to the site list")
		once         = flag.Bool("once", false, "run a single dispatch tick and exit")
		verbose      = flag.Bool("verbose", false, "enable debug logging")
	)
	flag.Parse()

	if *verbose {
		logger.SetLevel(logger.DEBUG)
	}

	cfg, err := config.LoadFromEnv(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	sites, err := config.LoadSites(*websitesPath)
	if err != nil {
		log.Fatalf("Failed to load site list: %v", err)
	}
	if len(sites) == 0 {
		log.Fatalf("Site list %s is empty, nothing to report on", *websitesPath)
	}

	resolver, err := i18n.NewResolver(cfg.Report.LocaleDir)
	if err != nil {
		log.Fatalf("Failed to load base translations: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// The token must exist before any site task starts; the client is
	// immutable afterwards and shared by every worker.
	token, err := umami.Login(ctx, cfg.Umami)
	if err != nil {
		log.Fatalf("Failed to authenticate with Umami API: %v", err)
	}
	client := umami.NewClient(cfg.Umami, token)
	logger.Info("authenticated with Umami API", "api_url", cfg.Umami.APIURL)

	var store watermark.Store
	if cfg.Scheduler.Policy == "elapsed" {
		store, err = newWatermarkStore(cfg)
		if err != nil {
			log.Fatalf("Failed to open watermark store: %v", err)
		}
	}

	gate, err := schedule.NewGate(cfg.Scheduler.Policy, store)
	if err != nil {
		log.Fatalf("Failed to configure cadence policy: %v", err)
	}

	sender, err := delivery.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to configure delivery transport: %v", err)
	}

	metrics := status.NewMetrics()
	processor := &report.Processor{
		Company:   cfg.Company,
		Policy:    cfg.Scheduler.Policy,
		Gate:      gate,
		Fetcher:   client,
		Resolver:  resolver,
		Renderer:  render.NewEngine(cfg.Report.TemplatesDir),
		Sender:    sender,
		Transport: cfg.Delivery.Transport,
		Watermark: store,
		Metrics:   metrics,
		HTMLDir:   cfg.Report.HTMLDir,
		CSSPath:   filepath.Join(cfg.Report.TemplatesDir, "style.css"),
	}

	var statusServer *status.Server
	if cfg.Status.Enabled && !*once {
		statusServer = status.NewServer(cfg.Status.Addr, metrics)
		go statusServer.Start()
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			statusServer.Shutdown(shutdownCtx)
		}()
	}

	runTick := func() {
		started := time.Now()
		summary := schedule.Dispatch(ctx, sites, cfg.Scheduler.Workers, processor.ProcessSite)
		metrics.RunDurationSeconds.Observe(time.Since(started).Seconds())
		if statusServer != nil {
			statusServer.RecordRun(time.Now(), summary.Failed)
		}
		logger.Info("dispatch run finished",
			"sites", summary.Processed, "failed", summary.Failed,
			"duration", time.Since(started).String())
	}

	runTick()
	if *once {
		return
	}

	ticker := time.NewTicker(cfg.Scheduler.Interval())
	defer ticker.Stop()

	logger.Info("running in loop mode", "interval", cfg.Scheduler.Interval().String())
	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down")
			return
		case <-ticker.C:
			runTick()
		}
	}
}

func newWatermarkStore(cfg *config.Config) (watermark.Store, error) {
	switch cfg.Watermark.Backend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr: cfg.Watermark.RedisAddr,
			DB:   cfg.Watermark.RedisDB,
		})
		return watermark.NewRedisStore(client), nil
	default:
		return watermark.NewFileStore(cfg.Watermark.Dir)
	}
}
