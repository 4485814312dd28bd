package events_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/frahmantamala/calong-tick/internal/core/events"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("EventBus", func() {
	var (
		bus    *events.EventBus
		logger *slog.Logger
	)

	BeforeEach(func() {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		bus = events.NewEventBus(logger)
	})

	It("delivers synchronously to every subscriber", func() {
		var got []string
		bus.Subscribe(events.EventTypeClockedIn, func(ctx context.Context, e events.Event) error {
			got = append(got, "first:"+e.EventType())
			return nil
		})
		bus.Subscribe(events.EventTypeClockedIn, func(ctx context.Context, e events.Event) error {
			got = append(got, "second:"+e.EventType())
			return nil
		})

		err := bus.PublishSync(context.Background(), events.NewClockedInEvent(1, 2, time.Now()))
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(Equal([]string{"first:timeentry.clocked_in", "second:timeentry.clocked_in"}))
	})

	It("stops at the first failing synchronous handler", func() {
		bus.Subscribe(events.EventTypeClockedOut, func(ctx context.Context, e events.Event) error {
			return errors.New("boom")
		})

		err := bus.PublishSync(context.Background(), events.NewClockedOutEvent(1, 2, time.Now(), 60))
		Expect(err).To(MatchError(ContainSubstring("timeentry.clocked_out")))
	})

	It("delivers asynchronously even after the publishing context ends", func() {
		var (
			mu       sync.Mutex
			received events.Event
		)
		bus.Subscribe(events.EventTypeEmployeeCreated, func(ctx context.Context, e events.Event) error {
			mu.Lock()
			defer mu.Unlock()
			if ctx.Err() == nil {
				received = e
			}
			return nil
		})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		Expect(bus.Publish(ctx, events.NewEmployeeCreatedEvent(7, "Ana", "waiter", 1))).To(Succeed())

		Eventually(func() events.Event {
			mu.Lock()
			defer mu.Unlock()
			return received
		}).ShouldNot(BeNil())
	})

	It("ignores events nobody listens to", func() {
		Expect(bus.Publish(context.Background(), events.NewClockedInEvent(1, 2, time.Now()))).To(Succeed())
	})
})

var _ = Describe("AuditSubscriber", func() {
	It("logs the event with its payload", func() {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		bus := events.NewEventBus(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError})))
		events.NewAuditSubscriber(logger).Register(bus)

		event := events.NewClockedOutEvent(11, 3, time.Date(2024, 3, 5, 17, 30, 0, 0, time.UTC), 510)
		Expect(bus.PublishSync(context.Background(), event)).To(Succeed())

		out := buf.String()
		Expect(out).To(ContainSubstring("event_type=timeentry.clocked_out"))
		Expect(out).To(ContainSubstring("entry_id=11"))
		Expect(out).To(ContainSubstring("total_minutes=510"))
		Expect(out).To(ContainSubstring("event_id=" + event.EventID()))
	})
})
