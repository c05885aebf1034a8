package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"MerchantWarriorGateway/config"
	"MerchantWarriorGateway/internal/api/handlers"
	"MerchantWarriorGateway/internal/domain/gateway"
	"MerchantWarriorGateway/internal/domain/outcome"
	"MerchantWarriorGateway/internal/external/kafka"
	"MerchantWarriorGateway/internal/external/merchantwarrior"
	"MerchantWarriorGateway/pkg/health"
	"MerchantWarriorGateway/pkg/logger"

	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

// Run bootstraps the payment API and blocks until SIGINT/SIGTERM.
func Run(cfg config.Config) error {
	l := logger.Setup(logger.Options{Level: cfg.LogLevel, Console: cfg.Console()})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	endpoints := cfg.Endpoints()
	opts := []merchantwarrior.Option{
		merchantwarrior.WithEndpoints(endpoints),
		merchantwarrior.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		merchantwarrior.WithLogger(l),
	}
	if cfg.LogTranscripts {
		opts = append(opts, merchantwarrior.WithTranscriptLogging())
	}
	client, err := merchantwarrior.New(cfg.Credentials(), opts...)
	if err != nil {
		return fmt.Errorf("api - Run - merchantwarrior.New: %w", err)
	}

	var provider gateway.Provider = client
	if len(cfg.KafkaBrokers) > 0 {
		publisher := kafka.NewPublisher(l, cfg.KafkaBrokers, cfg.KafkaOutcomesTopic)
		defer func() { _ = publisher.Close() }()
		provider = outcome.NewRecorder(client, publisher, l)
		l.Info("Publishing payment outcomes", slog.String("topic", cfg.KafkaOutcomesTopic))
	}

	router := NewRouter(
		handlers.NewPaymentHandler(provider, l),
		handlers.NewTranscriptHandler(),
		health.NewRegistry(health.NewDialChecker("merchant_warrior", endpoints.Token, endpoints.Post)),
	)
	engine := NewGinEngine(l)
	router.SetUp(engine)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return serve(ctx, l, server)
}

// serve runs server until ctx is cancelled, then drains it.
func serve(ctx context.Context, l *slog.Logger, server *http.Server) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		l.Info("Starting API HTTP server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		l.Info("Shutting down API service gracefully")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
