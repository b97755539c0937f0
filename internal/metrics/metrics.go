package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "delivery"

// Set holds the service's application metrics.
type Set struct {
	RateLimitExceeded    prometheus.Counter
	GatewayRetries       prometheus.Counter
	NotificationFailures prometheus.Counter
	DispatchOutcomes     *prometheus.CounterVec
	AvailableAgents      prometheus.Gauge
	PendingTasks         prometheus.Gauge
}

// New creates the metric set and registers it with reg.
// Collectors already registered under the same name are reused.
func New(reg prometheus.Registerer) (*Set, error) {
	s := &Set{
		RateLimitExceeded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rate_limit_exceeded_total",
			Help: "Total number of rejected HTTP requests due to rate limiting",
		}),
		GatewayRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gateway_retries_total",
			Help: "Total number of retry attempts performed by gateways",
		}),
		NotificationFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notification_failures_total",
			Help:      "Status notifications that could not be delivered.",
		}),
		DispatchOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatch_outcomes_total",
			Help:      "Task dispatch attempts by outcome (assigned, pending, conflict).",
		}, []string{"outcome"}),
		AvailableAgents: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "available_agents",
			Help:      "Agents currently available for dispatch.",
		}),
		PendingTasks: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pending_tasks",
			Help:      "Tasks waiting without an assigned agent.",
		}),
	}

	var err error
	if s.RateLimitExceeded, err = register(reg, s.RateLimitExceeded); err != nil {
		return nil, err
	}
	if s.GatewayRetries, err = register(reg, s.GatewayRetries); err != nil {
		return nil, err
	}
	if s.NotificationFailures, err = register(reg, s.NotificationFailures); err != nil {
		return nil, err
	}
	if s.DispatchOutcomes, err = register(reg, s.DispatchOutcomes); err != nil {
		return nil, err
	}
	if s.AvailableAgents, err = register(reg, s.AvailableAgents); err != nil {
		return nil, err
	}
	if s.PendingTasks, err = register(reg, s.PendingTasks); err != nil {
		return nil, err
	}
	return s, nil
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// ObserveDispatch counts one dispatch outcome.
func (s *Set) ObserveDispatch(outcome string) {
	s.DispatchOutcomes.WithLabelValues(outcome).Inc()
}
