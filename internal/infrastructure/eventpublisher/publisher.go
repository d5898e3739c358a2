package eventpublisher

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/iho/payengine/internal/domain"
)

// Config for the Kafka publisher.
type Config struct {
	Brokers []string
	Topic   string
	Retrier *Retrier // nil picks the default retrier
}

// KafkaPublisher delivers events to a Kafka topic. Messages are keyed by
// client id so one client's events stay ordered within a partition.
type KafkaPublisher struct {
	writer  *kafka.Writer
	retrier *Retrier
}

// NewKafkaPublisher creates a new KafkaPublisher.
func NewKafkaPublisher(cfg Config) *KafkaPublisher {
	retrier := cfg.Retrier
	if retrier == nil {
		retrier = NewRetrier()
	}

	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(cfg.Brokers...),
			Topic:    cfg.Topic,
			Balancer: &kafka.Hash{},
		},
		retrier: retrier,
	}
}

// Publish encodes the event as JSON and writes it to the topic, retrying
// transient delivery failures.
func (p *KafkaPublisher) Publish(ctx context.Context, event *domain.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding event %s: %w", event.ID, err)
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatUint(uint64(event.ClientID), 10)),
		Value: data,
	}

	return p.retrier.Retry(ctx, func() error {
		return p.writer.WriteMessages(ctx, msg)
	})
}

// Close flushes and closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// LogPublisher logs events instead of delivering them anywhere. It stands in
// for a broker when none is configured; events surface at debug level only.
type LogPublisher struct {
	logger zerolog.Logger
}

// NewLogPublisher creates a new LogPublisher.
func NewLogPublisher(logger zerolog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish logs the event.
func (p *LogPublisher) Publish(ctx context.Context, event *domain.Event) error {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return err
	}

	p.logger.Debug().
		Str("event_id", event.ID).
		Str("event_type", event.Type).
		Uint16("client", uint16(event.ClientID)).
		Uint32("tx", uint32(event.TransactionID)).
		RawJSON("payload", payload).
		Msg("event published")

	return nil
}
