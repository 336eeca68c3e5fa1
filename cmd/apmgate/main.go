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

	"github.com/observekit/apmgate/internal/catalog"
	"github.com/observekit/apmgate/internal/config"
	logpkg "github.com/observekit/apmgate/internal/logger"
	"github.com/observekit/apmgate/internal/metrics"
	"github.com/observekit/apmgate/internal/repository/cache"
	"github.com/observekit/apmgate/internal/store/es"
	chiTransport "github.com/observekit/apmgate/internal/transport/chi"
	mcpTransport "github.com/observekit/apmgate/internal/transport/mcp"
	queryuc "github.com/observekit/apmgate/internal/usecase/query"
	"github.com/observekit/apmgate/internal/version"
)

func main() {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting apmgate",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("es_addresses", cfg.Elasticsearch.Addresses),
		zap.String("catalog", cfg.Catalog.Path),
	)

	cat, err := catalog.Load(cfg.Catalog.Path, logger)
	if err != nil {
		logger.Fatal("Failed to load index catalog", zap.Error(err))
	}

	store, err := es.NewClient(es.Config{
		Addresses: cfg.Elasticsearch.Addresses,
		Username:  cfg.Elasticsearch.Username,
		Password:  cfg.Elasticsearch.Password,
		Timeout:   time.Duration(cfg.Elasticsearch.TimeoutSec) * time.Second,
	})
	if err != nil {
		logger.Fatal("Failed to create Elasticsearch client", zap.Error(err))
	}

	var responseCache queryuc.ResponseCache
	if len(cfg.Cache.Addrs) > 0 {
		c, err := cache.New(cache.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
			TTL:      time.Duration(cfg.Cache.TTLSec) * time.Second,
		}, logger)
		if err != nil {
			logger.Fatal("Failed to create query cache", zap.Error(err))
		}
		defer c.Close()
		responseCache = c
		logger.Info("Query cache enabled", zap.Strings("addrs", cfg.Cache.Addrs))
	}

	metrics.RegisterQueryMetrics()

	querySvc := queryuc.New(store, responseCache, cat, logger)
	mcpServer := mcpTransport.NewServer(querySvc, logger)

	adminSrv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      chiTransport.NewRouter(store, logger),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("Starting admin HTTP server", zap.String("addr", adminSrv.Addr))
		if err := adminSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Admin HTTP server error", zap.Error(err))
		}
	}()

	// Blocks until stdin closes or a signal arrives.
	if err := mcpServer.Serve(ctx); err != nil {
		logger.Error("MCP server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := adminSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}
