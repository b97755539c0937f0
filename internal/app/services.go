package app

import (
	"errors"
	"fmt"

	"go.uber.org/dig"

	"service-delivery/internal/config"
	order "service-delivery/internal/gateway/orders"
	"service-delivery/internal/logx"
	"service-delivery/internal/metrics"
	"service-delivery/internal/ports/dispatchtx"
	"service-delivery/internal/service/agent"
	"service-delivery/internal/service/dispatch"
	"service-delivery/internal/service/notify"
	"service-delivery/internal/service/task"
	"service-delivery/internal/transport/kafka"
)

func registerService(container *dig.Container) error {
	return provideAll(container,
		provideAgentService,
		dispatch.NewMatcher,
		provideOrdersGateway,
		provideNotifier,
		provideTaskService,
	)
}

func provideAgentService(cfg *config.Config, repo dispatchtx.AgentRepository, logger logx.Logger) *agent.Service {
	return agent.NewService(repo, cfg.OperationTimeout, logger)
}

func provideOrdersGateway(cfg *config.Config, logger logx.Logger, set *metrics.Set) (task.OrdersGateway, error) {
	httpGw := order.NewHTTPGateway(cfg.Orders.BaseURL, order.NewHTTPClient(cfg.Orders.Timeout))
	if httpGw == nil {
		return nil, errors.New("ORDER_SERVICE_URL is required")
	}
	return order.NewRetryingGateway(httpGw, logger, set.GatewayRetries, order.RetryConfig{
		MaxAttempts: cfg.Orders.MaxAttempts,
		BaseDelay:   cfg.Orders.BaseDelay,
		MaxDelay:    cfg.Orders.MaxDelay,
	}), nil
}

func provideNotifier(cfg *config.Config, logger logx.Logger, set *metrics.Set, closer *Closer) (task.Notifier, error) {
	var pub notify.Publisher
	switch cfg.Notify.Sink {
	case config.SinkKafka:
		producer, err := kafka.NewSyncProducer(cfg.Notify.Brokers, cfg.Notify.Timeout)
		if err != nil {
			return nil, fmt.Errorf("kafka producer: %w", err)
		}
		kp, err := kafka.NewStatusPublisher(producer, cfg.Notify.Topic)
		if err != nil {
			_ = producer.Close()
			return nil, err
		}
		closer.Add("kafka producer", kp.Close)
		pub = kp
	case config.SinkLog, "":
		pub = notify.NewLogPublisher(logger)
	default:
		return nil, fmt.Errorf("unknown notify sink %q", cfg.Notify.Sink)
	}
	logger.Info("status notifications enabled", logx.String("sink", cfg.Notify.Sink))
	return notify.NewGateway(pub, cfg.Notify.Timeout, set.NotificationFailures, logger), nil
}

type taskServiceIn struct {
	dig.In

	Cfg      *config.Config
	Logger   logx.Logger
	Metrics  *metrics.Set
	Runner   dispatchtx.Runner
	Tasks    dispatchtx.TaskRepository
	Agents   *agent.Service
	Matcher  *dispatch.Matcher
	Orders   task.OrdersGateway
	Notifier task.Notifier
}

func provideTaskService(in taskServiceIn) *task.Service {
	return task.NewService(task.Deps{
		Runner:      in.Runner,
		Tasks:       in.Tasks,
		Agents:      in.Agents,
		Matcher:     in.Matcher,
		Orders:      in.Orders,
		Notifier:    in.Notifier,
		Observer:    in.Metrics,
		Logger:      in.Logger,
		Timeout:     in.Cfg.OperationTimeout,
		MaxAttempts: in.Cfg.Dispatch.MaxAttempts,
	})
}
