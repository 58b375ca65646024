package logging

import (
	"log/slog"
	"os"

	"github.com/ecomflow/catalog-service/pkg/correlation"
)

func New() *slog.Logger {
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	return slog.New(h)
}

// WithCorrelation returns a child logger carrying the operation's tracing ids;
// every log line on the reconciliation path goes through one of these.
func WithCorrelation(log *slog.Logger, c correlation.Correlation) *slog.Logger {
	return log.With("transaction_id", c.TransactionID, "service_id", c.ServiceID)
}
