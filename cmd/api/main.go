package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/bbl-digital/sales-enablement-portal/internal/api/router"
	"github.com/bbl-digital/sales-enablement-portal/internal/chat"
	appconfig "github.com/bbl-digital/sales-enablement-portal/internal/config"
	"github.com/bbl-digital/sales-enablement-portal/internal/export"
	"github.com/bbl-digital/sales-enablement-portal/internal/extract"
	"github.com/bbl-digital/sales-enablement-portal/internal/feedback"
	"github.com/bbl-digital/sales-enablement-portal/internal/observability/metrics"
	"github.com/bbl-digital/sales-enablement-portal/internal/relay"
	"github.com/bbl-digital/sales-enablement-portal/internal/state"
	"github.com/bbl-digital/sales-enablement-portal/pkg/logging"
)

func main() {
	// Load .env if present; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting sales-enablement-portal API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	relayMetrics := metrics.NewRelayMetrics(prometheus.DefaultRegisterer)

	// Redis backs chat transcripts and UI state when configured; without it
	// both fall back to in-process stores.
	var transcriptStore chat.TranscriptStore
	var stateBackend state.Backend
	if cfg.RedisAddr != "" {
		opts := &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		redisClient := redis.NewClient(opts)
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Error("failed to connect to Redis", "addr", cfg.RedisAddr, "error", err)
			os.Exit(1)
		}
		transcriptStore = chat.NewRedisTranscriptStore(redisClient, int64(cfg.TranscriptMaxMessages))
		stateBackend = state.NewRedisBackend(redisClient)
		logger.Info("using Redis for transcripts and UI state", "addr", cfg.RedisAddr)
	} else {
		transcriptStore = chat.NewMemoryTranscriptStore(cfg.TranscriptMaxMessages)
		stateBackend = state.NewMemoryBackend()
		logger.Warn("REDIS_ADDR not set, transcripts and UI state are in-memory only")
	}

	forwarder := relay.NewForwarder(logger, relay.WithMetrics(relayMetrics)).
		WithTimeout(cfg.WebhookTimeout)

	feedbackTarget := relay.Target{
		Name:           "feedback",
		URL:            cfg.FeedbackWebhookURL,
		FailureMessage: "Failed to send feedback.",
	}
	chatTarget := relay.Target{
		Name:           "product-chat",
		URL:            cfg.ProductChatWebhookURL,
		FailureMessage: "Failed to fetch chatbot response",
	}
	recsTarget := relay.Target{
		Name:           "product-recs",
		URL:            cfg.ProductRecsWebhookURL,
		FailureMessage: "Failed to fetch product recommendations",
	}
	qualifyTarget := relay.Target{
		Name:           "qualify-leads",
		URL:            cfg.QualifyLeadsWebhookURL,
		FailureMessage: "Failed to fetch qualify leads results",
	}

	extractor := extract.New(logger, extract.WithMetrics(relayMetrics))

	routerCfg := &router.Config{
		Logger:             logger,
		Forwarder:          forwarder,
		RecsTarget:         recsTarget,
		QualifyTarget:      qualifyTarget,
		FeedbackHandler:    feedback.NewHandler(forwarder, feedbackTarget, logger),
		ChatHandler:        chat.NewHandler(forwarder, chatTarget, transcriptStore, logger),
		ExportHandler:      export.NewHandler(logger, export.WithMetrics(relayMetrics)),
		ExtractHandler:     extract.NewHandler(extractor, cfg.MaxUploadBytes, logger),
		StateHandler:       state.NewHandler(state.NewStore(stateBackend), logger),
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	}
	r := router.New(routerCfg)

	// WriteTimeout stays unset: the relay routes wait on automation flows
	// that can run for minutes.
	srv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     r,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
