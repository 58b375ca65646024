// Package correlation threads the tracing identifiers of one logical operation
// (transactionid from the caller, a serviceid generated on entry, and the verbatim
// Authorization token) through the call path as an explicit context value. Nothing
// here falls back to ambient globals: code outside an active request scope gets
// ErrNoContext.
package correlation

import (
	"context"
	"errors"
)

var ErrNoContext = errors.New("correlation: no active request scope")

type Correlation struct {
	TransactionID string
	ServiceID     string
	// Token is the inbound Authorization value, forwarded verbatim on outbound
	// synchronous calls. It is never validated here.
	Token string
}

type ctxKey struct{}

func With(ctx context.Context, c Correlation) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

func From(ctx context.Context) (Correlation, error) {
	c, ok := ctx.Value(ctxKey{}).(Correlation)
	if !ok {
		return Correlation{}, ErrNoContext
	}
	return c, nil
}
