package internal

import (
	"context"
	"time"
)

type ctxKey string

const ContextAdminKey ctxKey = "adminID"

// AdminIDFromContext returns the authenticated admin id, or 0 when the
// request carried no verified bearer token.
func AdminIDFromContext(ctx context.Context) int64 {
	if ctx == nil {
		return 0
	}
	if adminID, ok := ctx.Value(ContextAdminKey).(int64); ok {
		return adminID
	}
	return 0
}

func ContextWithAdminID(ctx context.Context, adminID int64) context.Context {
	return context.WithValue(ctx, ContextAdminKey, adminID)
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
