package kafka

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/ecomflow/catalog-service/internal/catalog/domain"
	"github.com/ecomflow/catalog-service/pkg/correlation"
	"github.com/ecomflow/catalog-service/pkg/tracing"
)

type Producer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// ConfirmationSender delivers sale confirmations to the ordering system's inbound
// topic. Fire-and-forget: a failed write is logged and reported as DispatchError,
// never retried here; redelivery of the originating sale is the transport's job.
type ConfirmationSender struct {
	log      *slog.Logger
	producer Producer
	topic    string
}

func NewConfirmationSender(log *slog.Logger, producer Producer, topic string) *ConfirmationSender {
	return &ConfirmationSender{log: log, producer: producer, topic: topic}
}

func (s *ConfirmationSender) Send(ctx context.Context, c domain.SalesConfirmation) error {
	payload, err := json.Marshal(c)
	if err != nil {
		return domain.DispatchError{Err: err}
	}

	headers := []kafka.Header{
		{Key: "event_type", Value: []byte("SalesConfirmation")},
	}
	if corr, err := correlation.From(ctx); err == nil {
		headers = append(headers,
			kafka.Header{Key: "transactionid", Value: []byte(corr.TransactionID)},
			kafka.Header{Key: "serviceid", Value: []byte(corr.ServiceID)},
		)
	}
	headers = tracing.InjectKafkaHeaders(ctx, headers)

	msg := kafka.Message{
		Topic:   s.topic,
		Key:     []byte(c.SalesID),
		Value:   payload,
		Headers: headers,
	}
	if err := s.producer.WriteMessages(ctx, msg); err != nil {
		s.log.Error("sales confirmation dispatch failed", "sales_id", c.SalesID, "status", c.Status, "err", err)
		return domain.DispatchError{Err: err}
	}
	s.log.Info("sales confirmation sent", "sales_id", c.SalesID, "status", c.Status)
	return nil
}
