package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"reddit-repost-assistant/internal/config"
	"reddit-repost-assistant/internal/domain/ports/adapter"
	"reddit-repost-assistant/internal/infra/adapters/reddit"
	"reddit-repost-assistant/internal/infra/logging"
	"reddit-repost-assistant/internal/infra/metrics"
	red "reddit-repost-assistant/internal/infra/redis"
	"reddit-repost-assistant/internal/infra/storage"
	"reddit-repost-assistant/internal/infra/store"
	"reddit-repost-assistant/internal/infra/web"
	"reddit-repost-assistant/internal/infra/worker"
	"reddit-repost-assistant/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("developer mode enabled")
	}

	metrics.MustRegister()

	// ---- Storage ----
	blobs, err := storage.NewFSBlobStore(cfg.Storage.DataDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("blob store")
	}
	jobs := store.NewMemoryJobStore()

	// ---- Forum client ----
	var forum adapter.ForumSearchClient
	if cfg.Runtime.Dev && cfg.Reddit.ClientID == "" {
		forum = reddit.NewNoopClient()
		logger.Warn().Msg("no reddit credentials in dev mode; using noop forum client")
	} else {
		forum = reddit.NewRealClient(cfg.Reddit)
	}

	// ---- Redis search cache (optional) ----
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis")
		}
		defer redisClient.Close()
		forum = red.NewCachedSearchClient(forum, redisClient, cfg.Redis.TTL, logger)
		logger.Info().Dur("ttl", cfg.Redis.TTL).Msg("search cache enabled")
	}

	// ---- Workers ----
	pool := worker.NewPool(cfg.Check.MaxActiveJobs, logger)
	pool.Start(ctx)
	defer pool.Stop()

	// ---- Use case ----
	checkUC := usecase.NewCheckUseCase(cfg.Check, jobs, blobs, forum, pool, logger)

	// ---- HTTP ----
	server := web.NewServer(checkUC, logger)
	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: server.Router(),
	}
	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("http server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server")
		}
	}()

	// ---- Graceful shutdown ----
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
	cancel()
}
