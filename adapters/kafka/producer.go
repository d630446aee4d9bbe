package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/DineshPrabhakaran22/Zerodha1/internal/config"
	"github.com/DineshPrabhakaran22/Zerodha1/internal/models"
	"github.com/segmentio/kafka-go"
)

// Producer writes ledger events to a kafka topic keyed by instrument, so
// every event of one instrument lands on the same partition in order.
type Producer struct {
	writer *kafka.Writer
	log    *slog.Logger
}

func NewProducer(cfg config.KafkaConfig, log *slog.Logger) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafka.Hash{},
			BatchTimeout: cfg.BatchTimeout,
			RequiredAcks: kafka.RequiredAcks(cfg.RequiredAcks),
			MaxAttempts:  cfg.MaxAttempts,
			WriteTimeout: cfg.WriteTimeout,
			Async:        true,
			Completion: func(messages []kafka.Message, err error) {
				if err != nil {
					log.Error("kafka: failed to deliver ledger events", "count", len(messages), "error", err)
				}
			},
		},
		log: log,
	}
}

func (p *Producer) Publish(ctx context.Context, ev models.LedgerEvent) error {
	msg, err := newMessage(ev)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka.Publish: %w", err)
	}
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

func newMessage(ev models.LedgerEvent) (kafka.Message, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("kafka: marshal ledger event: %w", err)
	}
	return kafka.Message{
		Key:   []byte(ev.Name),
		Value: payload,
		Time:  ev.At,
		Headers: []kafka.Header{
			{Key: "mode", Value: []byte(ev.Mode)},
		},
	}, nil
}
