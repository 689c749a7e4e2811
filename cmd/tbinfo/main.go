package main

import (
	"context"
	"flag"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/egtb/tbinfo/internal/config"
	"github.com/egtb/tbinfo/internal/httpapi"
	"github.com/egtb/tbinfo/internal/logx"
	"github.com/egtb/tbinfo/internal/probe"
	"github.com/egtb/tbinfo/internal/stats"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fallback := logx.NewLogger("info")
		fallback.Fatal().Err(err).Msg("load config")
	}

	logger := logx.NewLogger(cfg.LogLevel)

	// Load endgame statistics
	var store *stats.Store
	if cfg.StatsPath != "" {
		store, err = stats.Load(cfg.StatsPath)
		if err != nil {
			logger.Fatal().Err(err).Str("path", cfg.StatsPath).Msg("load stats")
		}
		logger.Info().Int("endgames", store.Len()).Str("path", cfg.StatsPath).Msg("stats loaded")
	} else {
		logger.Warn().Msg("no stats path configured, statistics endpoints disabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Tablebase backend client, with an optional Redis probe cache
	var prober httpapi.Prober
	if cfg.BackendURL != "" {
		opts := []probe.Option{probe.WithTimeout(cfg.ProbeTimeout)}
		if cfg.RedisURL != "" {
			redisOpts, err := redis.ParseURL(cfg.RedisURL)
			if err != nil {
				logger.Fatal().Err(err).Msg("parse redis url")
			}
			rdb := redis.NewClient(redisOpts)
			if err := rdb.Ping(ctx).Err(); err != nil {
				logger.Warn().Err(err).Msg("redis unreachable, probe cache degraded")
			}
			defer rdb.Close()
			opts = append(opts, probe.WithCache(probe.NewCache(rdb, cfg.CacheTTL, logger)))
		}
		prober = probe.NewClient(cfg.BackendURL, logger.With().Str("component", "probe").Logger(), opts...)
		logger.Info().Str("backend", cfg.BackendURL).Msg("tablebase backend configured")
	} else {
		logger.Warn().Msg("no backend configured, probes resolve from local rules only")
	}

	srv := &http.Server{
		Addr: cfg.Addr,
		Handler: httpapi.NewRouter(logger, store, prober, httpapi.Options{
			Rounding:          cfg.Rounding,
			EmptyRunThreshold: cfg.EmptyRunThreshold,
			MinBarWidth:       cfg.MinBarWidth,
		}),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("api listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("api server")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown")
	}
}
