package http

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/ecomflow/catalog-service/pkg/correlation"
)

const (
	headerTransactionID = "transactionid"
	headerAuthorization = "Authorization"
)

// RequireCorrelation rejects requests arriving without a transactionid header and
// seeds the request context with the correlation scope: the caller's transaction
// id, a serviceid minted per request, and the Authorization token carried verbatim
// for outbound forwarding. Token validation belongs to the gateway, not here.
func RequireCorrelation(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		transactionID := r.Header.Get(headerTransactionID)
		if transactionID == "" {
			writeError(w, http.StatusBadRequest, "the transactionid header is required")
			return
		}
		corr := correlation.Correlation{
			TransactionID: transactionID,
			ServiceID:     uuid.NewString(),
			Token:         r.Header.Get(headerAuthorization),
		}
		next.ServeHTTP(w, r.WithContext(correlation.With(r.Context(), corr)))
	})
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"status": status, "message": message})
}
