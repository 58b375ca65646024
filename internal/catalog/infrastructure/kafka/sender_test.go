package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/segmentio/kafka-go"

	"github.com/ecomflow/catalog-service/internal/catalog/domain"
	"github.com/ecomflow/catalog-service/pkg/correlation"
)

type fakeProducer struct {
	msgs []kafka.Message
	fail error
}

func (p *fakeProducer) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if p.fail != nil {
		return p.fail
	}
	p.msgs = append(p.msgs, msgs...)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSendConfirmation(t *testing.T) {
	producer := &fakeProducer{}
	sender := NewConfirmationSender(testLogger(), producer, "sales-confirmations")

	ctx := correlation.With(context.Background(), correlation.Correlation{
		TransactionID: "T1",
		ServiceID:     "svc-1",
	})
	conf := domain.SalesConfirmation{SalesID: "S1", Status: domain.StatusApproved, TransactionID: "T1"}
	if err := sender.Send(ctx, conf); err != nil {
		t.Fatalf("Send: %v", err)
	}

	if len(producer.msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(producer.msgs))
	}
	msg := producer.msgs[0]
	if msg.Topic != "sales-confirmations" || string(msg.Key) != "S1" {
		t.Fatalf("unexpected message routing %q/%q", msg.Topic, msg.Key)
	}

	var decoded domain.SalesConfirmation
	if err := json.Unmarshal(msg.Value, &decoded); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if decoded != conf {
		t.Fatalf("payload %+v, want %+v", decoded, conf)
	}
	if headerValue(msg.Headers, "transactionid") != "T1" {
		t.Fatal("transactionid header not propagated")
	}
	if headerValue(msg.Headers, "serviceid") != "svc-1" {
		t.Fatal("serviceid header not propagated")
	}
	if headerValue(msg.Headers, "event_type") != "SalesConfirmation" {
		t.Fatal("event_type header missing")
	}
}

func TestSendConfirmationFailureIsDispatchError(t *testing.T) {
	producer := &fakeProducer{fail: errors.New("broker unreachable")}
	sender := NewConfirmationSender(testLogger(), producer, "sales-confirmations")

	err := sender.Send(context.Background(), domain.SalesConfirmation{SalesID: "S1"})
	var de domain.DispatchError
	if !errors.As(err, &de) {
		t.Fatalf("got %v, want DispatchError", err)
	}
}

func TestDecodeStockUpdate(t *testing.T) {
	raw := []byte(`{"salesId":"S1","products":[{"productId":7,"quantity":2}],"transactionid":"T1"}`)
	req, err := decodeStockUpdate(raw)
	if err != nil {
		t.Fatalf("decodeStockUpdate: %v", err)
	}
	if req.SalesID != "S1" || req.TransactionID != "T1" {
		t.Fatalf("unexpected request %+v", req)
	}
	if len(req.Products) != 1 || req.Products[0].ProductID != 7 || req.Products[0].Quantity != 2 {
		t.Fatalf("unexpected products %+v", req.Products)
	}

	if _, err := decodeStockUpdate([]byte(`{`)); err == nil {
		t.Fatal("malformed payload decoded without error")
	}
}

func TestMessageCorrelation(t *testing.T) {
	req := domain.StockUpdateRequest{TransactionID: "from-body"}

	corr := messageCorrelation(req, nil)
	if corr.TransactionID != "from-body" {
		t.Fatalf("transaction id = %q, want body value", corr.TransactionID)
	}
	if corr.ServiceID == "" {
		t.Fatal("service id was not generated")
	}

	headers := []kafka.Header{{Key: "transactionid", Value: []byte("from-header")}}
	corr = messageCorrelation(req, headers)
	if corr.TransactionID != "from-header" {
		t.Fatalf("transaction id = %q, header should win", corr.TransactionID)
	}

	other := messageCorrelation(req, nil)
	if other.ServiceID == messageCorrelation(req, nil).ServiceID {
		t.Fatal("service ids must be unique per delivery")
	}
}
