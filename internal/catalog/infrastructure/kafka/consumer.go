package kafka

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/ecomflow/catalog-service/internal/catalog/application"
	"github.com/ecomflow/catalog-service/internal/catalog/domain"
	"github.com/ecomflow/catalog-service/pkg/correlation"
	"github.com/ecomflow/catalog-service/pkg/idempotency"
	"github.com/ecomflow/catalog-service/pkg/tracing"
)

// Consumer drains the ordering system's stock-update topic and feeds each sale to
// the reconciler. Reconciliation outcomes never fail a message: data problems end
// as a REJECTED confirmation inside the service, so the loop only logs and moves on
// when the environment (context scope, dispatch transport) is broken.
type Consumer struct {
	log    *slog.Logger
	reader *kafka.Reader
	svc    *application.Service
	idem   *idempotency.Store
	tracer trace.Tracer
}

func NewConsumer(log *slog.Logger, brokers []string, topic, group string, svc *application.Service, idem *idempotency.Store) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		Topic:   topic,
		GroupID: group,
	})
	return &Consumer{
		log:    log,
		reader: r,
		svc:    svc,
		idem:   idem,
		tracer: otel.Tracer("catalog-stock-consumer"),
	}
}

func (c *Consumer) Run(ctx context.Context) error {
	defer c.reader.Close()
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			return err
		}
		key := c.idem.Key(msg.Topic, msg.Partition, msg.Offset)
		seen, err := c.idem.Seen(ctx, key)
		if err != nil {
			c.log.Error("redelivery check failed", "err", err)
			continue
		}
		if seen {
			c.log.Info("redelivered message skipped", "key", key)
			_ = c.reader.CommitMessages(ctx, msg)
			continue
		}

		msgCtx := tracing.ExtractKafkaHeaders(ctx, msg.Headers)
		msgCtx, span := c.tracer.Start(msgCtx, "UpdateProductStock")

		req, err := decodeStockUpdate(msg.Value)
		if err != nil {
			c.log.Error("stock update unmarshal failed", "err", err)
			span.End()
			_ = c.reader.CommitMessages(ctx, msg)
			continue
		}

		msgCtx = correlation.With(msgCtx, messageCorrelation(req, msg.Headers))

		if err := c.svc.UpdateStock(msgCtx, req); err != nil {
			c.log.Error("stock update processing failed", "sales_id", req.SalesID, "err", err)
		}
		span.End()
		_ = c.reader.CommitMessages(ctx, msg)
	}
}

func decodeStockUpdate(value []byte) (domain.StockUpdateRequest, error) {
	var req domain.StockUpdateRequest
	if err := json.Unmarshal(value, &req); err != nil {
		return domain.StockUpdateRequest{}, err
	}
	return req, nil
}

// messageCorrelation seeds the request scope: the transactionid travels in the
// message (header wins when both are set), the serviceid is minted fresh per
// delivery.
func messageCorrelation(req domain.StockUpdateRequest, headers []kafka.Header) correlation.Correlation {
	transactionID := req.TransactionID
	if v := headerValue(headers, "transactionid"); v != "" {
		transactionID = v
	}
	return correlation.Correlation{
		TransactionID: transactionID,
		ServiceID:     uuid.NewString(),
	}
}

func headerValue(h []kafka.Header, key string) string {
	for _, hh := range h {
		if hh.Key == key {
			return string(hh.Value)
		}
	}
	return ""
}
