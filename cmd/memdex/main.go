package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/memdex/internal/config"
	"github.com/kailas-cloud/memdex/internal/domain"
	idxstore "github.com/kailas-cloud/memdex/internal/index"
	logpkg "github.com/kailas-cloud/memdex/internal/logger"
	"github.com/kailas-cloud/memdex/internal/metrics"
	"github.com/kailas-cloud/memdex/internal/repository/contextrepo"
	"github.com/kailas-cloud/memdex/internal/repository/embcache"
	"github.com/kailas-cloud/memdex/internal/schedule"
	chiTransport "github.com/kailas-cloud/memdex/internal/transport/chi"
	openaiEmb "github.com/kailas-cloud/memdex/internal/transport/openai"
	contextsuc "github.com/kailas-cloud/memdex/internal/usecase/contexts"
	healthuc "github.com/kailas-cloud/memdex/internal/usecase/health"
	indexuc "github.com/kailas-cloud/memdex/internal/usecase/index"
	searchuc "github.com/kailas-cloud/memdex/internal/usecase/search"
	"github.com/kailas-cloud/memdex/internal/version"
)

// contextStore is the union of the repository contracts the services need.
type contextStore interface {
	contextsuc.Repository
	Ping(ctx context.Context) error
}

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting memdex context store",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("store_driver", cfg.Store.Driver),
	)

	ctx := context.Background()

	// Context storage
	var repo contextStore
	switch cfg.Store.Driver {
	case "redis":
		redisRepo, err := contextrepo.NewRedis(contextrepo.RedisConfig{
			Addrs:     cfg.Store.Addrs,
			Username:  cfg.Store.Username,
			Password:  cfg.Store.Password,
			DB:        cfg.Store.DB,
			KeyPrefix: cfg.Store.KeyPrefix,
		})
		if err != nil {
			logger.Fatal("Failed to create context repository", zap.Error(err))
		}
		defer redisRepo.Close()

		readiness := time.Duration(cfg.Store.ReadinessTimeout) * time.Second
		if err := redisRepo.WaitForReady(ctx, readiness); err != nil {
			logger.Fatal("Context storage not ready", zap.Error(err))
		}
		logger.Info("Connected to context storage", zap.Strings("addrs", cfg.Store.Addrs))
		repo = redisRepo
	case "memory":
		repo = contextrepo.NewMemory()
		logger.Info("Using in-memory context storage")
	default:
		logger.Fatal("Unknown store driver", zap.String("driver", cfg.Store.Driver))
	}

	// Register metrics explicitly (no init() for the domain metrics)
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterSearchMetrics()

	// Embedder chain. No provider means lexical-only mode.
	var embedder domain.Embedder
	if cfg.Embedding.Provider == "openai" {
		embedder = openaiEmb.NewEmbedder(&openaiEmb.Config{
			APIKey:     cfg.Embedding.APIKey,
			BaseURL:    cfg.Embedding.BaseURL,
			Model:      cfg.Embedding.Model,
			Dimensions: cfg.Embedding.Dimensions,
			Provider:   cfg.Embedding.Provider,
			Logger:     logger,
		})
		embedder = embcache.Wrap(
			embedder,
			cfg.Embedding.Cache.Size,
			time.Duration(cfg.Embedding.Cache.TTLSec)*time.Second,
		)
		logger.Info("Embedder created",
			zap.String("provider", cfg.Embedding.Provider),
			zap.String("model", cfg.Embedding.Model),
			zap.Int("dimensions", cfg.Embedding.Dimensions),
		)
	} else {
		logger.Info("No embedding provider configured, running lexical-only search")
	}

	// In-memory search index and lifecycle
	store := idxstore.NewStore()
	lifecycle := indexuc.New(store, repo, embedder, indexuc.Config{
		StaleInterval:  time.Duration(cfg.Index.StaleIntervalSec) * time.Second,
		EmbedBatchSize: cfg.Index.EmbedBatchSize,
	}, logger)

	// Initial build; a failure is tolerated and the stale-check job retries.
	if err := lifecycle.Rebuild(ctx); err != nil {
		logger.Warn("Initial index build failed", zap.Error(err))
	}

	searchSvc := searchuc.New(store, embedder, lifecycle, searchuc.Config{
		Weights: func() searchuc.Weights {
			w := searchuc.DefaultWeights()
			w.FuzzyThreshold = cfg.Search.FuzzyThreshold
			return w
		}(),
		Hybrid: searchuc.HybridWeights{
			Lexical:  cfg.Search.HybridLexicalWeight,
			Semantic: cfg.Search.HybridSemanticWeight,
		},
		SemanticThreshold: cfg.Search.SemanticThreshold,
	}, logger)

	contextsSvc := contextsuc.New(repo, lifecycle, logger)
	healthSvc := healthuc.New(repo, embeddingHealthChecker(embedder))

	// Periodic index freshness job
	scheduler := schedule.NewCronScheduler(logger)
	staleJob := indexuc.NewStaleCheckJob(lifecycle)
	if err := scheduler.AddJob(staleJob, cfg.Index.StaleCheckCron); err != nil {
		logger.Fatal("Failed to schedule stale check job", zap.Error(err))
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	// HTTP server
	server := chiTransport.NewServer(contextsSvc, searchSvc, lifecycle, healthSvc, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      server.Router(cfg.Auth.APIKeys),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// embeddingHealthChecker adapts a domain.Embedder to health.EmbeddingChecker.
// Returns nil (checks skipped) when no provider is configured or the
// provider has no health endpoint.
func embeddingHealthChecker(embedder domain.Embedder) healthuc.EmbeddingChecker {
	if embedder == nil {
		return nil
	}
	if hc, ok := embedder.(domain.HealthChecker); ok {
		return hc
	}
	return nil
}
