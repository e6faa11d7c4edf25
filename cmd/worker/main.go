// Package main is the entry point for the CourtPulse worker.
//
// The worker is the write side of the system: it polls the NBA stats source
// on two cadences, rebuilds the completed and live leaderboards, and keeps
// the optional Redis read cache warm. Serving processes only read what this
// worker writes.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appconfig "github.com/courtpulse/courtpulse/config"
	"github.com/courtpulse/courtpulse/internal/domain/games"
	"github.com/courtpulse/courtpulse/internal/infrastructure/external/nba"
	"github.com/courtpulse/courtpulse/internal/infrastructure/persistence/postgres"
	"github.com/courtpulse/courtpulse/internal/infrastructure/persistence/redis"
	"github.com/courtpulse/courtpulse/internal/infrastructure/refresher"
	"github.com/courtpulse/courtpulse/internal/infrastructure/scheduler"
	"github.com/courtpulse/courtpulse/internal/infrastructure/scheduler/jobs"
	"github.com/courtpulse/courtpulse/pkg/metrics"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. CONFIGURATION
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := appconfig.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. LOGGING
	// ─────────────────────────────────────────────────────────────────────────
	log := setupLogger(cfg)
	log.Info("starting CourtPulse worker",
		"env", cfg.App.Environment,
		"completed_interval", cfg.Scheduler.CompletedInterval.String(),
		"live_interval", cfg.Scheduler.LiveInterval.String(),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. DATABASE
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("connecting to database...")
	pgCfg := postgres.DefaultConfig()
	pgCfg.Host = cfg.Database.Host
	pgCfg.Port = cfg.Database.Port
	pgCfg.Database = cfg.Database.Name
	pgCfg.User = cfg.Database.User
	pgCfg.Password = cfg.Database.Password
	pgCfg.SSLMode = cfg.Database.SSLMode
	pgCfg.MaxConns = cfg.Database.MaxConns
	pgCfg.MinConns = cfg.Database.MinConns
	pgCfg.MaxConnLifetime = cfg.Database.MaxConnLifetime
	pgCfg.MaxConnIdleTime = cfg.Database.MaxConnIdleTime

	dbConn, err := postgres.NewConnection(ctx, pgCfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		log.Info("closing database connection...")
		dbConn.Close()
	}()

	// ─────────────────────────────────────────────────────────────────────────
	// 4. MIGRATIONS
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("checking database migrations...")
	migrator := postgres.NewMigrator(dbConn)
	if err := migrator.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info("database schema is up to date")

	// ─────────────────────────────────────────────────────────────────────────
	// 5. REDIS (optional read cache)
	// ─────────────────────────────────────────────────────────────────────────
	var snapshotCache refresher.SnapshotCacher
	if cfg.Redis.Enabled {
		log.Info("connecting to Redis...")
		redisCfg := redis.DefaultConfig()
		redisCfg.Host = cfg.Redis.Host
		redisCfg.Port = cfg.Redis.Port
		redisCfg.Password = cfg.Redis.Password
		redisCfg.DB = cfg.Redis.DB

		cache, err := redis.NewCache(ctx, redisCfg)
		if err != nil {
			log.Warn("failed to connect to Redis, caching disabled", "error", err)
		} else {
			defer cache.Close()
			snapshotCache = redis.NewSnapshotCache(cache, cfg.Redis.CacheTTL)
			log.Info("Redis connection established")
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 6. PIPELINE WIRING
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing refresh pipeline...")
	m := metrics.NewManager()
	statsClient := nba.NewClient(cfg.StatsAPI.BaseURL, cfg.StatsAPI.Timeout, log)
	discovery := games.NewDiscovery(statsClient, log)
	snapshotRepo := postgres.NewSnapshotRepo(dbConn, log)

	refr := refresher.New(discovery, statsClient, snapshotRepo, snapshotCache,
		m, log, cfg.StatsAPI.TopN)

	// ─────────────────────────────────────────────────────────────────────────
	// 7. METRICS LISTENER (optional)
	// ─────────────────────────────────────────────────────────────────────────
	if cfg.Observability.MetricsEnabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", m.Handler())
		srv := &http.Server{Addr: cfg.Observability.MetricsAddr, Handler: mux}
		go func() {
			log.Info("metrics listener started", "addr", cfg.Observability.MetricsAddr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error("metrics listener failed", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 8. SCHEDULER
	// ─────────────────────────────────────────────────────────────────────────
	sched := scheduler.New(log)
	if err := sched.Register(
		jobs.NewRefreshCompletedJob(refr),
		scheduler.NewIntervalSchedule(cfg.Scheduler.CompletedInterval),
	); err != nil {
		return fmt.Errorf("failed to register completed refresh job: %w", err)
	}
	if err := sched.Register(
		jobs.NewRefreshLiveJob(refr),
		scheduler.NewIntervalSchedule(cfg.Scheduler.LiveInterval),
	); err != nil {
		return fmt.Errorf("failed to register live refresh job: %w", err)
	}

	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	// Prime both boards once at startup instead of waiting a full interval.
	go func() {
		if err := sched.RunNow(ctx, jobs.JobNameRefreshCompleted); err != nil {
			log.Warn("initial completed refresh failed", "error", err)
		}
		if err := sched.RunNow(ctx, jobs.JobNameRefreshLive); err != nil {
			log.Warn("initial live refresh failed", "error", err)
		}
	}()

	// ─────────────────────────────────────────────────────────────────────────
	// 9. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("CourtPulse worker is running")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	sig := <-sigCh
	log.Info("received shutdown signal", "signal", sig.String())

	if err := sched.Stop(); err != nil {
		log.Warn("scheduler stop failed", "error", err)
	}

	log.Info("shutdown completed successfully")
	return nil
}

// setupLogger configures structured logging: JSON in production, text
// otherwise.
func setupLogger(cfg *appconfig.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.App.LogLevel)}

	var handler slog.Handler
	if cfg.IsProduction() {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	log := slog.New(handler)
	slog.SetDefault(log)
	return log
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
