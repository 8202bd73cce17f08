package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/codespaze/resume-builder/internal/bootstrap"
	"github.com/codespaze/resume-builder/internal/config"
	"github.com/codespaze/resume-builder/internal/core/domain"
	"github.com/codespaze/resume-builder/internal/observability/logging"
	"github.com/codespaze/resume-builder/internal/observability/metrics"
)

const serviceName = "resume-worker"

func main() {
	cfg := config.Load()
	slog.SetDefault(logging.NewJSONLogger(serviceName, cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	workerMetrics := metrics.NewWorkerMetrics(serviceName)
	metricsServer := &http.Server{
		Addr:    ":" + cfg.WorkerMetricsPort,
		Handler: workerMetrics.Handler(),
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("metrics server error", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	slog.Info("worker subscribed", "subject", cfg.NATSSubject)
	err = app.Queue.SubscribeResumeProcessed(ctx, func(handlerCtx context.Context, event domain.ResumeProcessedEvent) error {
		start := time.Now()
		workerMetrics.StartEvent()
		workerMetrics.ObserveQueueLag(serviceName, start.Sub(event.OccurredAt))

		appendCtx, cancel := context.WithTimeout(handlerCtx, 30*time.Second)
		defer cancel()

		appendErr := app.HistoryUC.Append(appendCtx, event)
		workerMetrics.FinishEvent(serviceName, time.Since(start), appendErr)
		return appendErr
	})
	if err != nil {
		log.Fatalf("worker subscribe error: %v", err)
	}
}
