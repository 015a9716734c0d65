package publisher

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	orderbookv1 "github.com/tradekit/binance-orderbook/internal/domain/orderbook/v1"
	"github.com/tradekit/binance-orderbook/pkg/config"
	"github.com/tradekit/binance-orderbook/pkg/errors"
	"github.com/tradekit/binance-orderbook/pkg/logger"
)

// Publisher forwards book events to a Kafka topic as JSON so downstream
// consumers can follow the local book without subscribing in-process.
type Publisher struct {
	kafkaWriter *kafka.Writer
	logger      logger.Interface
}

// NewPublisher creates a Kafka publisher for book events.
func NewPublisher(cfg config.PublisherConfig, log logger.Interface) *Publisher {
	kafkaWriter := kafka.NewWriter(kafka.WriterConfig{
		Brokers: cfg.Brokers,
		Topic:   cfg.Topic,
	})

	return &Publisher{
		kafkaWriter: kafkaWriter,
		logger:      log,
	}
}

// Run consumes coordinator events until the channel closes or ctx is
// cancelled. Error events are logged locally, everything else is published.
func (p *Publisher) Run(ctx context.Context, events <-chan orderbookv1.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if event.Type == orderbookv1.EventError {
				p.logger.Error(event.Err, logger.Field{Key: "origin", Value: "book event stream"})
				continue
			}
			if err := p.publish(ctx, event); err != nil {
				p.logger.Error(err, logger.Field{Key: "eventType", Value: event.Type})
			}
		}
	}
}

// publish writes one event to the topic keyed by event type.
func (p *Publisher) publish(ctx context.Context, event orderbookv1.Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return errors.NewTracer("failed to encode book event").Wrap(err)
	}

	msg := kafka.Message{
		Key:   []byte(event.Type),
		Value: value,
	}

	if err := p.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		return errors.NewTracer("failed to publish book event").Wrap(err)
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.kafkaWriter.Close()
}
