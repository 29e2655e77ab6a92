package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/web3-frozen/btc-dashboard/internal/cache"
	"github.com/web3-frozen/btc-dashboard/internal/config"
	"github.com/web3-frozen/btc-dashboard/internal/handler"
	"github.com/web3-frozen/btc-dashboard/internal/middleware"
	"github.com/web3-frozen/btc-dashboard/internal/monitor"
	"github.com/web3-frozen/btc-dashboard/internal/sources"
)

func main() {
	cfg, err := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Response cache: Redis when configured (retry up to 30s), memory otherwise
	var store cache.Store
	if cfg.RedisURL != "" {
		var rdb *cache.Redis
		for i := 0; i < 6; i++ {
			rdb, err = cache.NewRedis(cfg.RedisURL, cfg.RedisPassword)
			if err == nil {
				break
			}
			logger.Warn("redis not ready, retrying...", "attempt", i+1, "error", err)
			time.Sleep(5 * time.Second)
		}
		if err != nil {
			logger.Error("failed to connect to redis after retries", "error", err)
			os.Exit(1)
		}
		store = rdb
		logger.Info("redis connected for response cache")
	} else {
		store = cache.NewMemory()
		logger.Info("REDIS_URL not set, using in-memory response cache")
	}
	defer store.Close()
	respCache := cache.New(store, logger)

	// Data sources
	client := sources.NewClient(respCache)
	ep := cfg.Endpoints
	engine := monitor.NewEngine(monitor.Sources{
		Price:                 sources.NewCoinGecko(client, ep[sources.NamePrice], cfg.CoinGeckoAPIKey),
		BlockHeight:           sources.NewBlockHeight(client, ep[sources.NameBlockHeight]),
		BlockHeight7dAgo:      sources.NewBlockHeightAgo(client, ep[sources.NameBlockHeight7d]),
		AvgBlockTime:          sources.NewBlockInterval(client, ep[sources.NameBlockInterval]),
		DifficultyAdjustment:  sources.NewDifficulty(client, ep[sources.NameDifficulty]),
		OnchainVolume:         sources.NewOnchainVolume(client, ep[sources.NameOnchainVolume]),
		InstitutionalHoldings: sources.NewInstitutional(client, ep[sources.NameInstitutional]),
	}, logger, cfg.RefreshInterval)
	logger.Info("refresh engine configured", "interval", engine.Interval().String(), "sources", engine.SourceNames())

	go engine.Run(ctx)

	// HTTP routes
	r := chi.NewRouter()
	r.Use(middleware.Recover(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS(cfg.FrontendOrigin))

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", handler.Health())
	r.Get("/readyz", handler.Ready(respCache, engine))
	r.Get("/", handler.Page(engine, logger))

	r.Route("/api", func(r chi.Router) {
		r.Get("/tiles", handler.Tiles(engine))
		r.Get("/report", handler.Report(engine))
		r.Get("/meta", handler.Meta(engine, cfg.Endpoints))
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down gracefully")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
}
