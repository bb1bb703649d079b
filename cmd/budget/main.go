package main

import (
	"context"
	"errors"
	"math/rand/v2"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"budgettracker/internal/amqp"
	"budgettracker/internal/cache"
	"budgettracker/internal/charts"
	"budgettracker/internal/cli"
	apphttp "budgettracker/internal/http"
	"budgettracker/internal/log"
	"budgettracker/internal/sample"
)

func main() {
	cli.LoadEnvFile()

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		log.Default(log.ComponentApp).Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	logger := cli.SetupLogger(cfg.LogLevel)
	logger.Info("Starting budget server", "port", cfg.Port, "backend", cfg.DataBackend)

	rt, err := cli.OpenRuntime(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("Failed to open runtime", log.FieldError, err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer rt.Close()

	if cfg.SeedSampleData {
		seeded, err := sample.LoadIfEmpty(context.Background(), rt.Store, time.Now(), rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
		if err != nil {
			logger.Error("Failed to seed sample data", log.FieldError, err)
		} else if seeded {
			logger.Info("Seeded sample data")
		}
	}

	summaries := cache.NewSummaryCache(rt.Store, cfg.SummaryCacheSize, cfg.SummaryCacheTTL)
	cacheManager := cache.NewManager(logger)
	cacheManager.Register(summaries.Cleaner())
	cacheManager.StartCleanup(cfg.SummaryCacheTTL)
	defer cacheManager.Stop()

	var forwarder *amqp.Forwarder
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, change notifications disabled", log.FieldError, err)
		} else {
			defer client.Close()
			forwarder = amqp.NewForwarder(client, logger)
			unsubscribe := rt.Store.Subscribe(forwarder.Listen)
			defer unsubscribe()
			logger.Info("AMQP change notifications enabled", "exchange", cfg.AMQPExchange)
		}
	} else {
		logger.Info("AMQP disabled, no change notifications will be published")
	}

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Store:     rt.Store,
		Processor: rt.Processor,
		Summaries: summaries,
		Charts:    charts.NewGenerator(cfg.CurrencySymbol),
		Ping:      rt.Backend.Ping,
		Logger:    logger,

		TrustedProxies: cfg.TrustedProxies,
	})

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		runScheduler(gctx, rt, cfg.RecurringInterval, logger)
		return nil
	})
	if forwarder != nil {
		g.Go(func() error { return forwarder.Run(gctx) })
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		_ = srv.Shutdown(context.Background())
		os.Exit(1)
	}

	<-done
	logger.Info("Server stopped gracefully")
}

// runScheduler processes due recurring payments once on startup and then on
// every tick until ctx ends.
func runScheduler(ctx context.Context, rt *cli.Runtime, interval time.Duration, logger *log.Logger) {
	process := func(now time.Time) {
		created, err := rt.Processor.ProcessDue(ctx, now)
		if err != nil {
			logger.Error("Recurring processing failed", log.FieldError, err)
			return
		}
		logger.Info("Recurring processing complete",
			log.FieldCount, len(created), "next_check", now.Add(interval).Format("15:04:05"))
	}

	process(time.Now())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			process(now)
		}
	}
}
