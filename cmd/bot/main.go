package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"RateSentinel/internal/baseline"
	"RateSentinel/internal/config"
	"RateSentinel/internal/monitor"
	"RateSentinel/internal/notifier"
	"RateSentinel/internal/ratesource"
	"RateSentinel/internal/recorder"
	"RateSentinel/internal/scheduler"

	"github.com/joho/godotenv"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] RateSentinel starting...")

	// Pick up a local .env before reading the environment.
	if err := godotenv.Load(); err == nil {
		log.Println("[INFO] loaded .env file")
	}

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init rate source
	var src ratesource.Source
	if cfg.DataSource.BaseURL != "" {
		src = ratesource.NewFrankfurterFetcher(cfg.DataSource.BaseURL, cfg.Proxy)
	} else {
		src = ratesource.NewYahooFetcher(cfg.Proxy)
	}
	log.Printf("[INFO] data source: %s, pair: %s", src.Name(), cfg.DataSource.Symbol)

	// Init baseline resolver
	res := baseline.NewResolver(src, cfg.DataSource.Symbol, cfg.Mode(),
		cfg.Baseline.CustomDays, cfg.Baseline.CustomValue)
	log.Printf("[INFO] baseline mode: %s", cfg.Mode())

	// Init mailer
	transport := &notifier.SMTPTransport{
		Host:        cfg.Mail.Host,
		Port:        cfg.Mail.Port,
		Sender:      cfg.Mail.Sender,
		Password:    cfg.Mail.Password,
		Recipient:   cfg.Mail.Recipient,
		DialTimeout: cfg.DialTimeout(),
	}
	mailer := notifier.NewMailer(transport, cfg.Mail.MaxRetries, cfg.RetryDelay())

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Optional daily digest
	if cfg.Schedule.DigestCron != "" {
		sched := scheduler.NewScheduler(src, res, mailer, cfg.DataSource.Symbol)
		if err := sched.RegisterDigest(cfg.Schedule.DigestCron); err != nil {
			log.Fatalf("[FATAL] register digest task: %v", err)
		}
		sched.Start()
		defer sched.Stop()
	}

	// Start the monitor loop.
	loop := monitor.NewLoop(src, res, mailer, rec,
		cfg.DataSource.Symbol, cfg.Mode(), cfg.Interval(), cfg.RunOnStart())
	loopDone := make(chan struct{})
	go func() {
		loop.Run(ctx)
		close(loopDone)
	}()

	log.Println("[INFO] RateSentinel is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	// Let an in-flight cycle finish before the deferred recorder Close runs.
	<-loopDone
	log.Println("[INFO] RateSentinel stopped")
}
