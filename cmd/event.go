package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/frahmantamala/calong-tick/internal/core/events"
	"github.com/frahmantamala/calong-tick/pkg/logger"
	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event bus commands",
	Long:  `Inspect the in-process event bus: publish sample time clock events through the audit subscriber.`,
}

var publishEventCmd = &cobra.Command{
	Use:       "publish [event-type]",
	Short:     "Publish a sample event",
	Long:      `Publish a sample event to the event bus so the audit log format can be checked`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{events.EventTypeEmployeeCreated, events.EventTypeClockedIn, events.EventTypeClockedOut},
	RunE: func(cmd *cobra.Command, args []string) error {
		return publishSampleEvent(cmd.Context(), args[0])
	},
}

var (
	eventEmployeeID int64
	eventEntryID    int64
)

func sampleEvent(eventType string, now time.Time) (events.Event, error) {
	switch eventType {
	case events.EventTypeEmployeeCreated:
		return events.NewEmployeeCreatedEvent(eventEmployeeID, "Sample Employee", "waiter", 1), nil
	case events.EventTypeClockedIn:
		return events.NewClockedInEvent(eventEntryID, eventEmployeeID, now), nil
	case events.EventTypeClockedOut:
		return events.NewClockedOutEvent(eventEntryID, eventEmployeeID, now, 510), nil
	default:
		return nil, fmt.Errorf("unknown event type %q", eventType)
	}
}

func publishSampleEvent(ctx context.Context, eventType string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	lg := logger.LoggerWrapper()

	event, err := sampleEvent(eventType, time.Now())
	if err != nil {
		return err
	}

	bus := events.NewEventBus(lg)
	events.NewAuditSubscriber(lg).Register(bus)

	lg.Info("publishing sample event", "event_type", event.EventType(), "event_id", event.EventID())
	if err := bus.PublishSync(ctx, event); err != nil {
		return fmt.Errorf("publish %s: %w", eventType, err)
	}
	return nil
}

func init() {
	publishEventCmd.Flags().Int64Var(&eventEmployeeID, "employee-id", 1, "employee id carried by the sample event")
	publishEventCmd.Flags().Int64Var(&eventEntryID, "entry-id", 1, "time entry id carried by the sample event")

	eventCmd.AddCommand(publishEventCmd)
}
