package middleware

import (
	"net/http"

	"github.com/frahmantamala/calong-tick/pkg/logger"
	"github.com/go-chi/chi/middleware"

	"github.com/google/uuid"
)

const TraceHeader = "X-Trace-ID"

// RequestID propagates the caller's trace id, or mints one, and scopes the
// request logger with it.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(TraceHeader)
		if traceID == "" {
			traceID = middleware.GetReqID(r.Context())
		}
		if traceID == "" {
			traceID = uuid.NewString()
		}

		ctx := logger.With(r.Context(), "trace_id", traceID)

		w.Header().Set(TraceHeader, traceID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
