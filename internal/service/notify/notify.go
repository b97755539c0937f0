// Package notify delivers task status events to the order-tracking consumer on a best-effort basis.
package notify

import (
	"context"
	"time"

	"service-delivery/internal/domain"
	"service-delivery/internal/logx"
)

// Publisher is a notification sink.
type Publisher interface {
	Publish(ctx context.Context, ev domain.StatusEvent) error
}

type counter interface {
	Inc()
}

// Gateway publishes status events and swallows every failure.
type Gateway struct {
	pub      Publisher
	timeout  time.Duration
	failures counter
	logger   logx.Logger
}

// NewGateway creates a Gateway. failures may be nil.
func NewGateway(pub Publisher, timeout time.Duration, failures counter, logger logx.Logger) *Gateway {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Gateway{pub: pub, timeout: timeout, failures: failures, logger: logger}
}

// Publish sends ev with its own deadline, detached from the caller's cancellation.
// It never fails: the transition that produced ev is already committed.
func (g *Gateway) Publish(ctx context.Context, ev domain.StatusEvent) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), g.timeout)
	defer cancel()

	defer func() {
		if p := recover(); p != nil {
			g.fail(ev, logx.Any("panic", p))
		}
	}()

	if err := g.pub.Publish(ctx, ev); err != nil {
		g.fail(ev, logx.Err(err))
		return
	}
	g.logger.Debug("status notification sent",
		logx.Int64("task_id", ev.TaskID),
		logx.String("order_id", ev.OrderID),
		logx.String("status", string(ev.Status)),
	)
}

func (g *Gateway) fail(ev domain.StatusEvent, cause logx.Field) {
	if g.failures != nil {
		g.failures.Inc()
	}
	g.logger.Error("status notification failed",
		logx.String("event", "notification_failed"),
		logx.Int64("task_id", ev.TaskID),
		logx.String("order_id", ev.OrderID),
		logx.String("status", string(ev.Status)),
		cause,
	)
}

// LogPublisher writes events to the log instead of a broker.
type LogPublisher struct {
	logger logx.Logger
}

// NewLogPublisher creates a LogPublisher.
func NewLogPublisher(logger logx.Logger) *LogPublisher {
	if logger == nil {
		logger = logx.Nop()
	}
	return &LogPublisher{logger: logger}
}

// Publish logs ev.
func (p *LogPublisher) Publish(_ context.Context, ev domain.StatusEvent) error {
	p.logger.Info("delivery status",
		logx.String("event", "delivery_status"),
		logx.Int64("task_id", ev.TaskID),
		logx.String("order_id", ev.OrderID),
		logx.String("delivery_status", string(ev.Status)),
		logx.Time("timestamp", ev.Timestamp),
	)
	return nil
}
