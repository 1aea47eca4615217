package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"connectrpc.com/connect"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/chimt4chi/personal-budget-tracker/internal/auth"
	"github.com/chimt4chi/personal-budget-tracker/internal/config"
	"github.com/chimt4chi/personal-budget-tracker/internal/events"
	"github.com/chimt4chi/personal-budget-tracker/internal/middleware"
	"github.com/chimt4chi/personal-budget-tracker/internal/service"
	"github.com/chimt4chi/personal-budget-tracker/internal/storage/sqlite"
	"github.com/chimt4chi/personal-budget-tracker/pkg/api/apiconnect"
	"github.com/chimt4chi/personal-budget-tracker/pkg/logging"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is fine; the environment may already be set.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := logging.Setup(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initialize storage: %w", err)
	}
	defer store.Close()
	logger.Info("Storage initialized", "database", cfg.DBPath)

	publisher, err := newPublisher(cfg, logger)
	if err != nil {
		return err
	}
	defer publisher.Close()

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenDuration)
	authenticator := auth.NewPasswordAuthenticator(store)

	mux := http.NewServeMux()

	var interceptors []connect.Interceptor
	if cfg.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics, err := middleware.NewMetrics(reg)
		if err != nil {
			return fmt.Errorf("register metrics: %w", err)
		}
		interceptors = append(interceptors, metrics.Interceptor())
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}
	logInterceptor := middleware.LoggingInterceptor(logger)

	withAuth := func(authInterceptor connect.Interceptor) connect.HandlerOption {
		chain := append(append([]connect.Interceptor{}, interceptors...), authInterceptor, logInterceptor)
		return connect.WithInterceptors(chain...)
	}
	required := withAuth(middleware.RequireAuth(jwtManager))
	optional := withAuth(middleware.OptionalAuth(jwtManager))

	mux.Handle(apiconnect.NewAuthServiceHandler(
		service.NewAuthService(authenticator, jwtManager, store, logger), optional))
	mux.Handle(apiconnect.NewGroupServiceHandler(service.NewGroupService(store, logger), required))
	mux.Handle(apiconnect.NewExpenseServiceHandler(service.NewExpenseService(store, publisher, logger), required))
	mux.Handle(apiconnect.NewLedgerServiceHandler(service.NewLedgerService(store, logger), required))

	// h2c serves HTTP/2 without TLS for Connect clients.
	server := &http.Server{
		Addr:    cfg.Addr(),
		Handler: h2c.NewHandler(loggingMiddleware(logger, corsMiddleware(mux)), &http2.Server{}),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Connect server starting", "address", cfg.Addr(), "metrics", cfg.MetricsEnabled)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down", "timeout", cfg.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// newPublisher connects to the broker when AMQP_URL is set.
func newPublisher(cfg *config.Config, logger *slog.Logger) (events.Publisher, error) {
	if cfg.AMQPURL == "" {
		logger.Info("AMQP_URL not set, domain events disabled")
		return events.NopPublisher{}, nil
	}
	pub, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		return nil, fmt.Errorf("connect event publisher: %w", err)
	}
	logger.Info("Publishing domain events", "exchange", cfg.AMQPExchange)
	return pub, nil
}
