package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"

	"service-delivery/internal/domain"
)

// ErrNotConfigured is returned when brokers or topic are missing.
var ErrNotConfigured = errors.New("kafka: brokers and topic are required")

// NewSyncProducer dials brokers and returns a producer that waits for all in-sync replicas.
func NewSyncProducer(brokers []string, timeout time.Duration) (sarama.SyncProducer, error) {
	if len(brokers) == 0 {
		return nil, ErrNotConfigured
	}
	cfg := sarama.NewConfig()
	cfg.ClientID = "service-delivery"
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 3
	cfg.Producer.Idempotent = false
	if timeout > 0 {
		cfg.Producer.Timeout = timeout
		cfg.Net.DialTimeout = timeout
	}
	return sarama.NewSyncProducer(brokers, cfg)
}

// StatusPublisher writes task status events to a Kafka topic, keyed by order id
// so that events of one order stay in one partition.
type StatusPublisher struct {
	producer sarama.SyncProducer
	topic    string
	newID    func() string
}

// NewStatusPublisher wraps producer.
func NewStatusPublisher(producer sarama.SyncProducer, topic string) (*StatusPublisher, error) {
	topic = strings.TrimSpace(topic)
	if producer == nil || topic == "" {
		return nil, ErrNotConfigured
	}
	return &StatusPublisher{
		producer: producer,
		topic:    topic,
		newID:    func() string { return uuid.NewString() },
	}, nil
}

// Publish sends ev and waits for the broker ack or ctx expiry, whichever is first.
func (p *StatusPublisher) Publish(ctx context.Context, ev domain.StatusEvent) error {
	payload, err := json.Marshal(FromDomain(ev, p.newID()))
	if err != nil {
		return fmt.Errorf("kafka: encode event: %w", err)
	}
	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(ev.OrderID),
		Value: sarama.ByteEncoder(payload),
	}

	done := make(chan error, 1)
	go func() {
		_, _, err := p.producer.SendMessage(msg)
		done <- err
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		if err != nil {
			return fmt.Errorf("kafka: send to %s: %w", p.topic, err)
		}
		return nil
	}
}

// Close flushes and closes the producer.
func (p *StatusPublisher) Close() error {
	return p.producer.Close()
}
