package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/diacor/portal/internal/api"
	"github.com/diacor/portal/internal/api/events"
	"github.com/diacor/portal/internal/clients/mailer"
	"github.com/diacor/portal/internal/clients/tilopay"
	"github.com/diacor/portal/internal/repository"
	"github.com/diacor/portal/internal/service"
	"github.com/diacor/portal/pkg/broker"
	"github.com/diacor/portal/pkg/config"
	"github.com/diacor/portal/pkg/job"
	"github.com/diacor/portal/pkg/logger"
	"github.com/diacor/portal/pkg/postgres"
)

const (
	ReadTimeout     = 5 * time.Second
	WriteTimeout    = 30 * time.Second // card payment creation waits for the gateway
	ShutdownTimeout = 10 * time.Second
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.New(".env")
	panicOnErr("load config", err)

	l, err := logger.New(cfg.Logger.Level, cfg.Logger.Format)
	panicOnErr("create logger", err)

	pool, err := postgres.Connect(ctx, cfg.Postgres.DSN, cfg.Postgres.MaxConn)
	panicOnErr("connect to postgres", err)
	defer pool.Close()

	err = postgres.UpMigrations(cfg.Postgres.DSN)
	panicOnErr("up migrations", err)

	repo := repository.New(pool)

	gateway := tilopay.NewClient(cfg)

	producer := broker.NewProducer(l, cfg.Kafka.Brokers, cfg.Kafka.PaymentSettledTopic)
	defer producer.Close()

	var notifier service.Notifier = mailer.Nop{}
	if cfg.Mailer.Enabled {
		notifier = mailer.New(cfg.Mailer)
	}

	s := service.New(repo, gateway, producer, notifier)

	jobs := job.NewService().
		TryRegisterJob(cfg.Jobs.StatusSyncEnabled, "sync invoice statuses", cfg.Jobs.StatusSyncInterval, s.SyncInvoiceStatuses).
		Start(ctx)

	if cfg.Kafka.ManualConsumeEnabled {
		consumer := broker.NewConsumer(l, cfg.Kafka.Brokers, cfg.Kafka.ConsumerGroupID, cfg.Kafka.ManualPaymentsTopic).
			Handle(cfg.Kafka.ManualPaymentsTopic, events.NewEventHandler(s).OnManualPayment).
			Consume(ctx)
		defer consumer.Close()
	}

	handler := api.NewHandler(s, cfg.Portal.BaseURL)
	mw := api.NewMiddleware(cfg.HTTP.APIKeyEnabled, cfg.HTTP.APIKey)

	router := api.NewRouter(handler, mw, cfg.HTTP.LookupRateLimit)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      router,
		ReadTimeout:  ReadTimeout,
		WriteTimeout: WriteTimeout,
	}

	var wg sync.WaitGroup

	wg.Add(1)

	go func() {
		defer wg.Done()

		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Panicf("listen and serve: %s", err)
		}
	}()

	slog.InfoContext(ctx, "service started", "port", cfg.HTTP.Port)

	wg.Add(1)

	go func() {
		defer wg.Done()

		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
		sig := <-ch

		slog.InfoContext(ctx, "got OS signal", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.WithoutCancel(ctx), ShutdownTimeout)
		defer shutdownCancel()

		err := server.Shutdown(shutdownCtx)
		if err != nil {
			slog.ErrorContext(ctx, "server shutdown", "error", err)
		}

		cancel()
		jobs.Stop()
	}()

	wg.Wait()
}

func panicOnErr(msg string, err error) {
	if err != nil {
		log.Panicf("%s: %s", msg, err)
	}
}
