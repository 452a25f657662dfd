package main

import (
	"context"
	"net"
	"os"
	"time"

	"katha/internal/amqp"
	"katha/internal/cache"
	"katha/internal/cli"
	"katha/internal/core"
	apphttp "katha/internal/http"
	"katha/internal/log"
	"katha/internal/services"
	"katha/internal/session"
	"katha/internal/snapshot"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger, nil)
	loc := cfg.Location()

	ctx := context.Background()
	be := cli.InitBackend(ctx, logger, cfg)

	var (
		kathas  []core.Katha
		entries []core.LedgerEntry
	)
	if cfg.SeedDemoData {
		kathas, entries = snapshot.Seed(core.Today(time.Now().In(loc)))
	}

	persister := session.Persister{Store: be.Store}
	observers := []session.Observer{persister}

	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		c, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, continuing without export events", "error", err)
		} else {
			amqpClient = c
			observers = append(observers, amqpClient)
			logger.Info("Publishing mutation events", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	sess := session.Open(ctx, be.Store, kathas, entries, time.Now, observers...)
	snap := sess.Snapshot()
	if !persister.Flush(ctx, snap) {
		logger.Warn("Initial snapshot could not be persisted")
	}
	logger.Info("Ledger loaded", "kathas", len(snap.Kathas), "entries", len(snap.Entries))

	svc := services.NewLedgerService(sess, services.Options{
		Location:  loc,
		CacheSize: cfg.CacheSize,
		CacheTTL:  cfg.CacheTTL,
		Logger:    logger.WithComponent(log.ComponentLedger),
	})
	caches := cache.NewManager()
	svc.RegisterCaches(caches)
	caches.StartCleanup(cfg.CacheTTL)

	srv := apphttp.NewServer(net.JoinHostPort("", cfg.Port), svc, apphttp.Options{
		RateLimit: cfg.RateLimit,
		Logger:    logger.WithComponent(log.ComponentHTTP),
		Checks:    map[string]apphttp.ReadinessCheck{"store": apphttp.ReadinessCheck(be.Ping)},
	})

	shutdownCtx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		caches.Stop()
		if amqpClient != nil {
			if err := amqpClient.Close(); err != nil {
				logger.Warn("AMQP close error", "error", err)
			}
		}
		if err := be.Cleanup(); err != nil {
			logger.Warn("Backend cleanup error", "error", err)
		}
	})

	logger.Info("Starting katha server", "port", cfg.Port, "backend", cfg.DataBackend, "timezone", loc.String())
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(shutdownCtx, done)
	logger.Info("Server stopped gracefully")
}
