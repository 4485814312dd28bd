package events

import (
	"context"
	"log/slog"
	"sort"
)

// AuditSubscriber writes every time-clock event to the log.
type AuditSubscriber struct {
	logger *slog.Logger
}

func NewAuditSubscriber(logger *slog.Logger) *AuditSubscriber {
	return &AuditSubscriber{logger: logger}
}

func (a *AuditSubscriber) Handle(ctx context.Context, event Event) error {
	attrs := []any{
		"event_type", event.EventType(),
		"event_id", event.EventID(),
		"occurred_at", event.OccurredAt(),
	}

	if data, ok := event.Payload().(map[string]interface{}); ok {
		keys := make([]string, 0, len(data))
		for k := range data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			attrs = append(attrs, k, data[k])
		}
	}

	a.logger.InfoContext(ctx, "audit", attrs...)
	return nil
}

func (a *AuditSubscriber) Register(bus *EventBus) {
	for _, eventType := range []string{EventTypeEmployeeCreated, EventTypeClockedIn, EventTypeClockedOut} {
		bus.Subscribe(eventType, a.Handle)
	}
}
