package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"MarketArchiver/internal/batch"
	"MarketArchiver/internal/config"
	"MarketArchiver/internal/events"
	"MarketArchiver/internal/fetch"
	"MarketArchiver/internal/model"
	"MarketArchiver/internal/provider"
	"MarketArchiver/internal/recorder"
	"MarketArchiver/internal/report"
	"MarketArchiver/internal/scheduler"
	"MarketArchiver/internal/sink"
)

func newLogger() (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zcfg.EncoderConfig.TimeKey = "time"
	return zcfg.Build()
}

func main() {
	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config validation: %v", err)
	}

	logger, err := newLogger()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()
	logger.Info("MarketArchiver starting",
		zap.String("gateway", cfg.Gateway.BaseURL),
		zap.Int("symbols", len(cfg.Batch.Symbols)))

	startDate, err := cfg.ParsedStartDate()
	if err != nil {
		logger.Fatal("start date", zap.Error(err))
	}
	barSize, err := model.NormalizeBarSize(cfg.Fetch.BarSize)
	if err != nil {
		logger.Fatal("bar size", zap.Error(err))
	}

	// Provider session
	session := provider.NewGatewaySession(cfg.Gateway.BaseURL, cfg.Gateway.APIKey, cfg.Proxy, cfg.RequestTimeout())
	logger.Info("provider", zap.String("name", session.Name()))

	// Fetch pipeline
	evs := events.NewZapSink(logger)
	throttle := fetch.NewThrottle(cfg.RequestSpacing())
	policy := fetch.RetryPolicy{MaxRetries: cfg.Fetch.MaxRetries, Backoff: cfg.RetryBackoff()}
	fetcher := fetch.NewSymbolFetcher(session, throttle, policy, cfg.Fetch.MaxWindowDays, barSize, evs)

	// Run recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			logger.Warn("init sqlite recorder failed, using noop", zap.Error(err))
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	orch := batch.NewOrchestrator(session, fetcher, sink.NewCSVSink(), evs, cfg.Batch.OutputDir, cfg.PersistEnabled())

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("shutdown signal received, finishing current symbol")
		cancel()
	}()

	// One full batch up front
	rpt, err := orch.Run(ctx, cfg.Batch.Symbols, startDate)
	if err != nil {
		logger.Fatal("run batch", zap.Error(err))
	}
	if err := rec.RecordRun(rpt); err != nil {
		logger.Error("record run", zap.Error(err))
	}
	fmt.Print(report.FormatBatchReport(rpt))

	// Optional scheduled refresh keeps the archive current
	if cfg.Schedule.RefreshCron == "" {
		logger.Info("MarketArchiver done")
		return
	}
	sched := scheduler.NewScheduler(ctx, orch, rec, cfg.Batch.Symbols, startDate, logger)
	if err := sched.Register(cfg.Schedule.RefreshCron); err != nil {
		logger.Fatal("register refresh", zap.Error(err))
	}
	sched.Start()
	defer sched.Stop()

	logger.Info("MarketArchiver is running, press Ctrl+C to stop")
	<-ctx.Done()
	logger.Info("MarketArchiver stopped")
}
