package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"go.uber.org/dig"

	"service-delivery/internal/config"
	"service-delivery/internal/logx"
	"service-delivery/internal/telemetry"
)

const shutdownTimeout = 15 * time.Second

// MustRun starts the HTTP server using the provided DI container
func MustRun(container *dig.Container) {
	if err := run(container); err != nil {
		switch {
		case errors.Is(err, context.Canceled):
			log.Println("shutdown requested, exiting")
			return
		case errors.Is(err, context.DeadlineExceeded):
			log.Println("startup aborted: startup timeout exceeded")
			return
		default:
			log.Fatalf("run error: %v", err)
		}
	}
}

type serveIn struct {
	dig.In

	Ctx    context.Context
	Cfg    *config.Config
	Logger logx.Logger
	Closer *Closer
	Server *http.Server
	Pprof  *http.Server `name:"pprof_server" optional:"true"`
}

func run(container *dig.Container) error {
	return container.Invoke(serve)
}

func serve(in serveIn) error {
	defer in.Closer.Close()

	shutdownTracer, err := telemetry.InitTracer(in.Ctx, in.Cfg.Telemetry.ServiceName, in.Cfg.Telemetry.Endpoint, in.Logger)
	if err != nil {
		return fmt.Errorf("init tracer: %w", err)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			in.Logger.Error("tracer shutdown error", logx.Err(err))
		}
	}()

	servers := []*http.Server{in.Server}
	if in.Pprof != nil {
		servers = append(servers, in.Pprof)
	}

	errCh := make(chan error, len(servers))
	for _, srv := range servers {
		startServer(srv, in.Logger, errCh)
	}

	select {
	case <-in.Ctx.Done():
		in.Logger.Info("shutting down service-delivery")
	case err = <-errCh:
		in.Logger.Error("server failed", logx.Err(err))
	}

	for _, srv := range servers {
		gracefulShutdown(srv, in.Logger, shutdownTimeout)
	}
	return err
}

func startServer(server *http.Server, logger logx.Logger, errCh chan<- error) {
	go func() {
		logger.Info("listening", logx.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("listen %s: %w", server.Addr, err)
		}
	}()
}

func gracefulShutdown(srv *http.Server, logger logx.Logger, timeout time.Duration) {
	shCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shCtx); err != nil {
		logger.Error("graceful shutdown error",
			logx.String("addr", srv.Addr),
			logx.Err(err),
		)
	}
}
