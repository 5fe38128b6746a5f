package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/sony/gobreaker"

	"github.com/99minutos/catalog-system/internal/core/ports"
	"github.com/99minutos/catalog-system/internal/pkg/metrics"
)

const defaultPublishTimeout = 5 * time.Second

// Config captures the broker settings for the product event publisher.
type Config struct {
	Brokers []string
	Topic   string
	Timeout time.Duration
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes product events to Kafka behind a circuit breaker, so a
// broker outage fails fast instead of stalling every worker.
type Publisher struct {
	writer  messageWriter
	cb      *gobreaker.CircuitBreaker
	timeout time.Duration
	log     zerolog.Logger
}

// NewPublisher builds a publisher for cfg. Messages are keyed by product id
// and hashed to partitions, which keeps per-product ordering on the topic.
func NewPublisher(cfg Config, log zerolog.Logger) *Publisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
	return newPublisher(w, cfg.Timeout, log)
}

func newPublisher(w messageWriter, timeout time.Duration, log zerolog.Logger) *Publisher {
	if timeout <= 0 {
		timeout = defaultPublishTimeout
	}
	p := &Publisher{writer: w, timeout: timeout, log: log}
	p.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "kafka-product-events",
		MaxRequests: 1,
		Interval:    30 * time.Second,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
		},
	})
	return p
}

// Publish writes event synchronously.
func (p *Publisher) Publish(ctx context.Context, event ports.ProductEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		metrics.EventsPublishedTotal.WithLabelValues(string(event.Type), "error").Inc()
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.ProductID),
		Value: payload,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(event.Type)},
		},
	}

	_, err = p.cb.Execute(func() (interface{}, error) {
		writeCtx, cancel := context.WithTimeout(ctx, p.timeout)
		defer cancel()
		return nil, p.writer.WriteMessages(writeCtx, msg)
	})
	switch {
	case err == nil:
		metrics.EventsPublishedTotal.WithLabelValues(string(event.Type), "ok").Inc()
		return nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.EventsPublishedTotal.WithLabelValues(string(event.Type), "rejected").Inc()
		return fmt.Errorf("publish %s: %w", event.Type, err)
	default:
		metrics.EventsPublishedTotal.WithLabelValues(string(event.Type), "error").Inc()
		return fmt.Errorf("publish %s: %w", event.Type, err)
	}
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// LogPublisher stands in for the broker when none is configured.
type LogPublisher struct {
	log zerolog.Logger
}

func NewLogPublisher(log zerolog.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) Publish(_ context.Context, event ports.ProductEvent) error {
	p.log.Info().
		Str("type", string(event.Type)).
		Str("product_id", event.ProductID).
		Str("slug", event.Slug).
		Str("actor_id", event.ActorID).
		Msg("product event")
	metrics.EventsPublishedTotal.WithLabelValues(string(event.Type), "logged").Inc()
	return nil
}

func (p *LogPublisher) Close() error { return nil }
