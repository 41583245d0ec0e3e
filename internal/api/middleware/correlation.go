package middleware

import (
	"context"
	"net/http"

	"github.com/rs/xid"
)

const CorrelationIDHeader = "X-Correlation-ID"

type ctxKey struct{}

var correlationIDKey ctxKey

// CorrelationCtx retrieves the correlation ID from the context.
func CorrelationCtx(ctx context.Context) string {
	id, ok := ctx.Value(correlationIDKey).(string)
	if !ok {
		return ""
	}
	return id
}

// WithCorrelationID returns a context carrying id.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}

func CorrelationIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(CorrelationIDHeader)
		if id == "" || len(id) > 128 {
			id = xid.New().String()
		}
		w.Header().Set(CorrelationIDHeader, id)

		next.ServeHTTP(w, r.WithContext(WithCorrelationID(r.Context(), id)))
	})
}
