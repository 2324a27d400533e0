package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m4mynk/luxor-frontend/internal/cart"
	"github.com/m4mynk/luxor-frontend/internal/checkout"
	"github.com/m4mynk/luxor-frontend/internal/commerce"
	"github.com/m4mynk/luxor-frontend/internal/config"
	"github.com/m4mynk/luxor-frontend/internal/event"
	handler "github.com/m4mynk/luxor-frontend/internal/handler/http"
	"github.com/m4mynk/luxor-frontend/internal/session"
	redisstore "github.com/m4mynk/luxor-frontend/internal/storage/redis"
	"github.com/m4mynk/luxor-frontend/internal/task"
	"github.com/m4mynk/luxor-frontend/internal/wishlist"
	"github.com/m4mynk/luxor-frontend/pkg/health"
	"github.com/m4mynk/luxor-frontend/pkg/httpclient"
	pkgkafka "github.com/m4mynk/luxor-frontend/pkg/kafka"
	"github.com/m4mynk/luxor-frontend/pkg/tracing"
)

// App wires together all dependencies and runs the storefront session service.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	rdb        *redis.Client
	producer   *pkgkafka.Producer
	debouncer  *task.Debouncer
	reconciler *task.Periodic
	httpServer *http.Server

	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize OpenTelemetry tracing.
	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    "storefront",
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SampleRate:     cfg.TraceSample,
		Enabled:        cfg.TracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	// Initialize Redis client.
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to Redis",
		slog.String("addr", cfg.RedisAddr),
		slog.Int("db", cfg.RedisDB),
	)

	// Initialize Kafka producer.
	kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
	producer := pkgkafka.NewProducer(kafkaCfg, logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	// Outbound client for the commerce API, circuit-broken so a dead
	// backend fails fast instead of stalling every checkout call.
	clientCfg := httpclient.DefaultConfig()
	clientCfg.Timeout = cfg.CommerceTimeout
	commerceDoer := httpclient.NewCircuitBreakerClient(
		httpclient.New(clientCfg),
		httpclient.DefaultCircuitBreakerConfig("commerce"),
		logger,
	)
	commerceAPI := commerce.NewClient(commerceDoer, cfg.CommerceBaseURL, logger)

	// Build the dependency graph.
	store := redisstore.NewStore(rdb, cfg.SessionTTL)
	eventProducer := event.NewProducer(producer, logger)
	debouncer := task.NewDebouncer(cfg.CartDebounce, nil)

	cartService := cart.NewService(store, eventProducer, debouncer, logger)
	wishlistService := wishlist.NewService(store, commerceAPI, eventProducer, logger)
	sessionService := session.NewService(store, logger)
	checkoutService := checkout.NewService(cartService, sessionService, commerceAPI, eventProducer, logger)

	reconciler := wishlistService.Reconciler(cfg.ReconcileInterval)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("redis", func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})
	healthHandler.Register("kafka", producer.Ping)

	// HTTP router.
	router := handler.NewRouter(
		cartService,
		wishlistService,
		checkoutService,
		sessionService,
		healthHandler,
		logger,
		cfg.AllowedOrigins,
	)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		rdb:            rdb,
		producer:       producer,
		debouncer:      debouncer,
		reconciler:     reconciler,
		httpServer:     httpServer,
		tracerShutdown: tracerShutdown,
	}, nil
}

// Run starts the HTTP server and the background wishlist reconciler, then
// blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	a.reconciler.Start(ctx)
	a.logger.Info("wishlist stock reconciler started",
		slog.Duration("interval", a.cfg.ReconcileInterval),
	)

	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	// Graceful HTTP server shutdown with a 10-second deadline.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	// Stop background work before closing its downstream dependencies.
	a.reconciler.Stop()
	a.debouncer.Close()

	// Close Kafka producer.
	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
	}

	// Close Redis client.
	if err := a.rdb.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
	}

	// Flush and stop the tracer provider.
	if err := a.tracerShutdown(shutdownCtx); err != nil {
		a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}
