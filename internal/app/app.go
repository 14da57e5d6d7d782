// Package app wires configuration, storage, broker and services into the
// running node process.
package app

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

	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/telestash/node/internal/adapter/mail"
	"github.com/telestash/node/internal/adapter/postgres"
	contentrepo "github.com/telestash/node/internal/adapter/postgres/content"
	raweventrepo "github.com/telestash/node/internal/adapter/postgres/rawevent"
	userrepo "github.com/telestash/node/internal/adapter/postgres/user"
	"github.com/telestash/node/internal/adapter/rabbit"
	"github.com/telestash/node/internal/adapter/telegram"
	"github.com/telestash/node/internal/auth"
	"github.com/telestash/node/internal/config"
	"github.com/telestash/node/internal/service/dispatcher"
	"github.com/telestash/node/internal/service/identity"
	"github.com/telestash/node/internal/service/ingest"
	"github.com/telestash/node/internal/service/registration"
	"github.com/telestash/node/internal/transport/middleware"
	"github.com/telestash/node/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, applies
// migrations, connects to PostgreSQL and RabbitMQ, wires the services and
// runs the update consumer plus the ops HTTP server until a shutdown signal
// arrives.
func Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting node",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	if err := Migrate(cfg.Database); err != nil {
		return err
	}

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	conn, err := amqp.Dial(cfg.Broker.URL)
	if err != nil {
		return fmt.Errorf("connect to broker: %w", err)
	}
	defer conn.Close()

	producer, err := rabbit.NewProducer(conn, cfg.Broker.AnswersQueue, logger)
	if err != nil {
		return err
	}
	defer producer.Close()

	users := userrepo.New(pool)
	rawEvents := raweventrepo.New(pool)
	contents := contentrepo.New(pool)
	tx := postgres.NewTxManager(pool)

	identitySvc := identity.NewService(logger, users)
	registrationSvc := registration.NewService(logger, users,
		auth.NewTokenizer(cfg.Crypto.TokenSecret),
		mail.NewClient(cfg.Mail, logger),
	)
	ingestSvc := ingest.NewService(logger,
		telegram.NewFileFetcher(cfg.Telegram, logger),
		contents, tx, cfg.Link.BaseURL,
	)
	dispatcherSvc := dispatcher.NewService(logger,
		rawEvents, identitySvc, registrationSvc, ingestSvc, producer, users,
	)

	consumer, err := rabbit.NewConsumer(conn, cfg.Broker.UpdatesQueue,
		cfg.Dispatcher.Workers, cfg.Broker.Prefetch, dispatcherSvc, logger)
	if err != nil {
		return err
	}

	opsSrv := newOpsServer(cfg.Ops, logger, pool, conn)

	errCh := make(chan error, 2)

	go func() {
		logger.Info("consumer started",
			slog.String("queue", cfg.Broker.UpdatesQueue),
			slog.Int("workers", cfg.Dispatcher.Workers),
		)
		errCh <- consumer.Run(ctx)
	}()

	go func() {
		logger.Info("ops server started", slog.String("addr", opsSrv.Addr))
		if err := opsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("component failed", slog.String("error", err.Error()))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Ops.ShutdownTimeout)
	defer cancel()
	if err := opsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("ops server shutdown", slog.String("error", err.Error()))
	}

	logger.Info("node stopped")
	return nil
}

// newOpsServer builds the internal HTTP server exposing the health probes.
func newOpsServer(cfg config.OpsConfig, logger *slog.Logger, pool *pgxpool.Pool, conn *amqp.Connection) *http.Server {
	health := rest.NewHealthHandler(pool, conn, BuildVersion())

	mux := http.NewServeMux()
	mux.HandleFunc("GET /live", health.Live)
	mux.HandleFunc("GET /ready", health.Ready)
	mux.HandleFunc("GET /health", health.Health)

	chain := middleware.Chain(
		middleware.RequestID,
		middleware.Logger(logger),
		middleware.Recovery(logger),
	)

	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      chain(mux),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}
}
