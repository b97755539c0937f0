package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/dig"

	"service-delivery/internal/config"
	"service-delivery/internal/logx"
	"service-delivery/internal/metrics"
	"service-delivery/internal/ports/dispatchtx"
	"service-delivery/internal/worker"
)

// WorkerRunner runs the backlog sweeper and its metrics endpoint.
type WorkerRunner struct {
	runFn func(*dig.Container) error
}

// NewWorkerRunner returns a new WorkerRunner
func NewWorkerRunner() *WorkerRunner {
	return &WorkerRunner{runFn: runWorker}
}

// MustRun runs the worker until its context is cancelled.
func (r *WorkerRunner) MustRun(container *dig.Container) {
	err := r.runFn(container)
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}
	panic(err)
}

func registerWorker(container *dig.Container) error {
	return provideAll(container,
		func(agents dispatchtx.AgentRepository, tasks dispatchtx.TaskRepository, set *metrics.Set, logger logx.Logger) *worker.Sweeper {
			return worker.NewSweeper(agents, tasks, worker.Gauges{
				AvailableAgents: set.AvailableAgents,
				PendingTasks:    set.PendingTasks,
			}, logger)
		},
	)
}

func runWorker(container *dig.Container) error {
	return container.Invoke(workerRun)
}

func workerRun(
	ctx context.Context,
	cfg *config.Config,
	logger logx.Logger,
	gatherer prometheus.Gatherer,
	sweeper *worker.Sweeper,
	closer *Closer,
) error {
	if sweeper == nil {
		return fmt.Errorf("sweeper is nil: worker container misconfigured")
	}
	defer closer.Close()

	if cfg.Worker.MetricsPort > 0 {
		startMetricsServer(ctx, fmt.Sprintf(":%d", cfg.Worker.MetricsPort), gatherer, logger)
	}

	logger.Info("service-delivery-worker started")
	return sweeper.Run(ctx, cfg.Worker.Schedule)
}

// startMetricsServer serves /metrics and /healthz until ctx is cancelled.
func startMetricsServer(ctx context.Context, addr string, gatherer prometheus.Gatherer, logger logx.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      5 * time.Second,
	}

	go func() {
		logger.Info("metrics server starting", logx.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server error", logx.Err(err))
		}
	}()

	go func() {
		<-ctx.Done()
		gracefulShutdown(srv, logger, 5*time.Second)
	}()
}
