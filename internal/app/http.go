package app

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/dig"

	"service-delivery/internal/config"
	"service-delivery/internal/http/handlers"
	"service-delivery/internal/http/middleware/auth"
	"service-delivery/internal/http/middleware/ratelimit"
	"service-delivery/internal/http/pprofserver"
	"service-delivery/internal/http/router"
	"service-delivery/internal/logx"
	"service-delivery/internal/metrics"
)

const pprofServerName = "pprof_server"

func registerHTTP(container *dig.Container) error {
	if err := provideAll(container,
		provideAuthenticator,
		provideRateLimiter,
		provideRateLimitMiddleware,
		handlers.New,
		handlers.NewAgentUsecase,
		handlers.NewAgentHandler,
		handlers.NewTaskUsecase,
		handlers.NewTaskHandler,
		provideRouter,
		provideServer,
	); err != nil {
		return err
	}
	if err := container.Provide(providePprofServer, dig.Name(pprofServerName)); err != nil {
		return fmt.Errorf("provide pprof server: %w", err)
	}
	return nil
}

func provideAuthenticator(cfg *config.Config, logger logx.Logger) (*auth.Authenticator, error) {
	if cfg.Auth.Secret == "" {
		return nil, errors.New("JWT_SECRET_KEY is required")
	}
	return auth.New(cfg.Auth.Secret, logger), nil
}

func provideRateLimiter(cfg *config.Config, logger logx.Logger, closer *Closer) ratelimit.Limiter {
	rl := cfg.RateLimit
	if !rl.Enabled {
		return ratelimit.NopLimiter{}
	}
	if rl.Backend == config.BackendRedis {
		client := redis.NewClient(&redis.Options{Addr: rl.RedisAddr})
		closer.Add("redis", client.Close)
		logger.Info("rate limiting via redis", logx.String("addr", rl.RedisAddr))
		return ratelimit.NewSlidingWindowLimiter(client, rl.Burst, rl.Window)
	}
	return ratelimit.NewTokenBucketLimiter(ratelimit.RealClock{}, ratelimit.Config{
		Rate:       rl.Rate,
		Burst:      rl.Burst,
		TTL:        rl.TTL,
		MaxBuckets: rl.MaxBuckets,
	})
}

func provideRateLimitMiddleware(logger logx.Logger, set *metrics.Set, limiter ratelimit.Limiter) *ratelimit.Middleware {
	return ratelimit.New(logger, set.RateLimitExceeded, limiter)
}

type routerIn struct {
	dig.In

	Cfg       *config.Config
	Logger    logx.Logger
	Gatherer  prometheus.Gatherer
	Base      *handlers.Handlers
	Agents    *handlers.AgentHandler
	Tasks     *handlers.TaskHandler
	Auth      *auth.Authenticator
	RateLimit *ratelimit.Middleware
}

func provideRouter(in routerIn) http.Handler {
	return router.New(router.Deps{
		Base:      in.Base,
		Agents:    in.Agents,
		Tasks:     in.Tasks,
		Auth:      in.Auth.Middleware,
		RateLimit: in.RateLimit.Handler(),
		Metrics:   promhttp.HandlerFor(in.Gatherer, promhttp.HandlerOpts{}),
		Logger:    in.Logger,
		Timeout:   in.Cfg.OperationTimeout + 5*time.Second,
	})
}

func provideServer(cfg *config.Config, mux http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.OperationTimeout + 10*time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// providePprofServer returns nil when pprof is disabled.
func providePprofServer(cfg *config.Config, logger logx.Logger) *http.Server {
	if !cfg.Pprof.Enabled {
		return nil
	}
	return pprofserver.New(pprofserver.Config{
		Addr: cfg.Pprof.Addr,
		User: cfg.Pprof.User,
		Pass: cfg.Pprof.Pass,
	}, logger)
}
