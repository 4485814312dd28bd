package timeentry_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/frahmantamala/calong-tick/internal"
	"github.com/frahmantamala/calong-tick/internal/core/events"
	"github.com/frahmantamala/calong-tick/internal/employee"
	"github.com/frahmantamala/calong-tick/internal/timeentry"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
)

func utc(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, time.UTC)
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func expectAppError(err error, target *internal.AppError) {
	ExpectWithOffset(1, err).To(HaveOccurred())
	ExpectWithOffset(1, errors.Is(err, target)).To(BeTrue(), "got %v", err)
}

func expectValidation(err error) *internal.AppError {
	appErr, ok := internal.IsAppError(err)
	ExpectWithOffset(1, ok).To(BeTrue(), "got %v", err)
	ExpectWithOffset(1, appErr.Type).To(Equal(internal.ErrorTypeValidation))
	return appErr
}

var _ = Describe("TimeEntry Service", func() {
	var (
		repo      *mockRepository
		publisher *recordingPublisher
		clock     *fakeClock
		service   *timeentry.Service
		ctx       context.Context

		ana, budi, gone *employee.Employee
	)

	BeforeEach(func() {
		ana = &employee.Employee{ID: 1, Name: "Ana", Pin: "111111", IsActive: true, HourlyRate: decimal.RequireFromString("15")}
		budi = &employee.Employee{ID: 2, Name: "Budi", Pin: "222222", IsActive: true}
		gone = &employee.Employee{ID: 3, Name: "Citra", Pin: "333333", IsActive: false}

		repo = newMockRepository()
		publisher = &recordingPublisher{}
		clock = &fakeClock{now: utc(2024, time.March, 5, 9, 0)}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = timeentry.NewService(repo, newMockEmployees(ana, budi, gone), publisher, time.UTC, logger,
			timeentry.WithClock(clock.Now))
		ctx = context.Background()
	})

	Describe("attendance state machine", func() {
		It("records a full shift from 09:00 to 17:30", func() {
			// Given
			in, err := service.ClockIn(ctx, timeentry.PinDTO{Pin: "111111"})
			Expect(err).NotTo(HaveOccurred())
			Expect(in.EmployeeName).To(Equal("Ana"))
			Expect(in.ClockIn).To(Equal(utc(2024, time.March, 5, 9, 0)))

			// When
			clock.Set(utc(2024, time.March, 5, 17, 30))
			out, err := service.ClockOut(ctx, timeentry.ClockOutDTO{Pin: "111111"})

			// Then
			Expect(err).NotTo(HaveOccurred())
			Expect(out.EntryID).To(Equal(in.EntryID))
			Expect(out.TotalMinutes).To(Equal(510))
			Expect(out.HoursWorked).To(Equal(8))
			Expect(out.MinutesWorked).To(Equal(30))
			Expect(out.HoursDecimal).To(Equal("8.50"))
			Expect(out.TotalTime).To(Equal("8h 30m"))

			stored := repo.entries[in.EntryID]
			Expect(stored.BreakMinutes).To(BeZero())
			Expect(stored.HoursWorked.Decimal.StringFixed(2)).To(Equal("8.50"))
			Expect(*stored.MinutesWorked).To(Equal(30))
			Expect(stored.EntryDate).To(Equal("2024-03-05"))
			Expect(stored.EntryWeek).To(Equal(10))
		})

		It("rejects a second clock-in while an entry is open", func() {
			_, err := service.ClockIn(ctx, timeentry.PinDTO{Pin: "111111"})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.ClockIn(ctx, timeentry.PinDTO{Pin: "111111"})
			expectAppError(err, internal.ErrAlreadyClockedIn)
			Expect(repo.entries).To(HaveLen(1))
		})

		It("rejects clock-out without an open entry", func() {
			_, err := service.ClockOut(ctx, timeentry.ClockOutDTO{Pin: "111111"})
			expectAppError(err, internal.ErrNoOpenEntry)
		})

		It("allows clock in, clock out, clock in", func() {
			_, err := service.ClockIn(ctx, timeentry.PinDTO{Pin: "111111"})
			Expect(err).NotTo(HaveOccurred())
			clock.Set(utc(2024, time.March, 5, 12, 0))
			_, err = service.ClockOut(ctx, timeentry.ClockOutDTO{Pin: "111111"})
			Expect(err).NotTo(HaveOccurred())
			clock.Set(utc(2024, time.March, 5, 13, 0))
			_, err = service.ClockIn(ctx, timeentry.PinDTO{Pin: "111111"})
			Expect(err).NotTo(HaveOccurred())

			Expect(repo.entries).To(HaveLen(2))
		})

		It("keeps employees independent", func() {
			_, err := service.ClockIn(ctx, timeentry.PinDTO{Pin: "111111"})
			Expect(err).NotTo(HaveOccurred())
			_, err = service.ClockIn(ctx, timeentry.PinDTO{Pin: "222222"})
			Expect(err).NotTo(HaveOccurred())
		})

		It("saves clock-out notes", func() {
			_, err := service.ClockIn(ctx, timeentry.PinDTO{Pin: "111111"})
			Expect(err).NotTo(HaveOccurred())
			clock.Set(utc(2024, time.March, 5, 10, 0))

			out, err := service.ClockOut(ctx, timeentry.ClockOutDTO{Pin: "111111", Notes: strPtr(" closed bar ")})
			Expect(err).NotTo(HaveOccurred())
			Expect(*repo.entries[out.EntryID].Notes).To(Equal("closed bar"))
		})

		It("publishes clock events", func() {
			_, err := service.ClockIn(ctx, timeentry.PinDTO{Pin: "111111"})
			Expect(err).NotTo(HaveOccurred())
			clock.Set(utc(2024, time.March, 5, 10, 0))
			_, err = service.ClockOut(ctx, timeentry.ClockOutDTO{Pin: "111111"})
			Expect(err).NotTo(HaveOccurred())

			Expect(publisher.types()).To(Equal([]string{events.EventTypeClockedIn, events.EventTypeClockedOut}))
		})

		It("rejects unknown and inactive pins", func() {
			_, err := service.ClockIn(ctx, timeentry.PinDTO{Pin: "999999"})
			expectAppError(err, internal.ErrInvalidPin)

			_, err = service.ClockIn(ctx, timeentry.PinDTO{Pin: "333333"})
			expectAppError(err, internal.ErrInvalidPin)
		})

		It("requires a pin", func() {
			_, err := service.ClockIn(ctx, timeentry.PinDTO{Pin: "  "})
			expectValidation(err)
		})

		It("reports status", func() {
			status, err := service.Status(ctx, timeentry.PinDTO{Pin: "111111"})
			Expect(err).NotTo(HaveOccurred())
			Expect(status.IsClockedIn).To(BeFalse())
			Expect(status.CurrentEntry).To(BeNil())

			in, err := service.ClockIn(ctx, timeentry.PinDTO{Pin: "111111"})
			Expect(err).NotTo(HaveOccurred())

			status, err = service.Status(ctx, timeentry.PinDTO{Pin: "111111"})
			Expect(err).NotTo(HaveOccurred())
			Expect(status.IsClockedIn).To(BeTrue())
			Expect(status.CurrentEntry.ID).To(Equal(in.EntryID))
			Expect(status.CurrentEntry.ClockIn).To(Equal(in.ClockIn))
			Expect(repo.entries).To(HaveLen(1))
		})

		It("wraps storage failures as internal errors", func() {
			repo.err = errors.New("db down")
			_, err := service.ClockIn(ctx, timeentry.PinDTO{Pin: "111111"})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeInternal))
		})
	})

	Describe("self-service entries", func() {
		It("creates a closed entry with a break", func() {
			result, err := service.CreateEmployeeEntry(ctx, timeentry.EmployeeEntryDTO{
				Pin:          "111111",
				ClockIn:      "2024-03-04T09:00:00Z",
				ClockOut:     "2024-03-04T17:30:00Z",
				BreakMinutes: intPtr(30),
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(result.EmployeeName).To(Equal("Ana"))
			Expect(result.BreakMinutes).To(Equal(30))
			Expect(result.TotalMinutes).To(Equal(480))
			Expect(result.HoursWorked).To(Equal("8.00"))
			Expect(result.TotalTime).To(Equal("8h 0m"))
		})

		It("rejects a malformed timestamp", func() {
			_, err := service.CreateEmployeeEntry(ctx, timeentry.EmployeeEntryDTO{
				Pin:      "111111",
				ClockIn:  "yesterday morning",
				ClockOut: "2024-03-04T17:30:00Z",
			})

			appErr := expectValidation(err)
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidTimestamp))
			expectAppError(err, internal.ErrInvalidTimestamp)

			details, ok := appErr.Details.(internal.ValidationErrors)
			Expect(ok).To(BeTrue())
			Expect(details.Errors).To(HaveLen(1))
			Expect(details.Errors[0].Field).To(Equal("clock_in"))
			Expect(details.Errors[0].Code).To(Equal(string(internal.ErrCodeInvalidTimestamp)))
		})

		It("rejects a negative break", func() {
			_, err := service.CreateEmployeeEntry(ctx, timeentry.EmployeeEntryDTO{
				Pin:          "111111",
				ClockIn:      "2024-03-04T09:00:00Z",
				ClockOut:     "2024-03-04T10:00:00Z",
				BreakMinutes: intPtr(-5),
			})
			expectValidation(err)
		})

		It("clamps a clock-out before clock-in to zero", func() {
			result, err := service.CreateEmployeeEntry(ctx, timeentry.EmployeeEntryDTO{
				Pin:      "111111",
				ClockIn:  "2024-03-04T17:00:00Z",
				ClockOut: "2024-03-04T09:00:00Z",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.TotalMinutes).To(BeZero())
			Expect(result.HoursWorked).To(Equal("0.00"))
		})

		Describe("editing", func() {
			var entryID int64

			BeforeEach(func() {
				result, err := service.CreateEmployeeEntry(ctx, timeentry.EmployeeEntryDTO{
					Pin:          "111111",
					ClockIn:      "2024-03-04T09:00:00Z",
					ClockOut:     "2024-03-04T17:00:00Z",
					BreakMinutes: intPtr(60),
				})
				Expect(err).NotTo(HaveOccurred())
				entryID = result.ID
			})

			It("recomputes derived fields from the merged entry", func() {
				entry, err := service.UpdateEmployeeEntry(ctx, entryID, timeentry.EmployeeEntryUpdateDTO{
					Pin:        "111111",
					EntryPatch: timeentry.EntryPatch{ClockIn: strPtr("2024-02-26T08:00:00Z")},
				})

				Expect(err).NotTo(HaveOccurred())
				Expect(entry.BreakMinutes).To(Equal(60))
				Expect(*entry.TotalMinutes).To(Equal(7*24*60 + 540 - 60))
				Expect(entry.Bucket.Date).To(Equal("2024-02-26"))
				Expect(entry.Bucket.Week).To(Equal(9))
				Expect(entry.Bucket.Month).To(Equal(2))
			})

			It("updates the break alone", func() {
				entry, err := service.UpdateEmployeeEntry(ctx, entryID, timeentry.EmployeeEntryUpdateDTO{
					Pin:        "111111",
					EntryPatch: timeentry.EntryPatch{BreakMinutes: intPtr(0)},
				})

				Expect(err).NotTo(HaveOccurred())
				Expect(*entry.TotalMinutes).To(Equal(480))
				Expect(entry.HoursWorked.StringFixed(2)).To(Equal("8.00"))
			})

			It("refuses another employee's entry", func() {
				_, err := service.UpdateEmployeeEntry(ctx, entryID, timeentry.EmployeeEntryUpdateDTO{
					Pin:        "222222",
					EntryPatch: timeentry.EntryPatch{Notes: strPtr("mine now")},
				})
				expectAppError(err, internal.ErrEntryAccessDenied)

				err = service.DeleteEmployeeEntry(ctx, entryID, timeentry.PinDTO{Pin: "222222"})
				expectAppError(err, internal.ErrEntryAccessDenied)
				Expect(repo.entries).To(HaveKey(entryID))
			})

			It("returns not found for a missing entry", func() {
				_, err := service.UpdateEmployeeEntry(ctx, 999, timeentry.EmployeeEntryUpdateDTO{Pin: "111111"})
				expectAppError(err, internal.ErrTimeEntryNotFound)

				err = service.DeleteEmployeeEntry(ctx, 999, timeentry.PinDTO{Pin: "111111"})
				expectAppError(err, internal.ErrTimeEntryNotFound)
			})

			It("deletes the employee's own entry", func() {
				Expect(service.DeleteEmployeeEntry(ctx, entryID, timeentry.PinDTO{Pin: "111111"})).To(Succeed())
				Expect(repo.entries).NotTo(HaveKey(entryID))
			})
		})

		Describe("MyEntries", func() {
			BeforeEach(func() {
				shifts := [][2]string{
					{"2024-02-20T09:00:00Z", "2024-02-20T10:30:00Z"},
					{"2024-03-04T09:00:00Z", "2024-03-04T17:00:00Z"},
					{"2024-03-05T06:00:00Z", "2024-03-05T08:15:00Z"},
				}
				for _, s := range shifts {
					_, err := service.CreateEmployeeEntry(ctx, timeentry.EmployeeEntryDTO{Pin: "111111", ClockIn: s[0], ClockOut: s[1]})
					Expect(err).NotTo(HaveOccurred())
				}
				_, err := service.CreateEmployeeEntry(ctx, timeentry.EmployeeEntryDTO{Pin: "222222", ClockIn: "2024-03-05T06:00:00Z", ClockOut: "2024-03-05T07:00:00Z"})
				Expect(err).NotTo(HaveOccurred())
			})

			It("lists all own entries newest first with a summary", func() {
				result, err := service.MyEntries(ctx, timeentry.MyEntriesDTO{Pin: "111111"})

				Expect(err).NotTo(HaveOccurred())
				Expect(result.EmployeeName).To(Equal("Ana"))
				Expect(result.Entries).To(HaveLen(3))
				Expect(result.Entries[0].Date).To(Equal("2024-03-05"))
				Expect(result.Summary).To(Equal(timeentry.Summary{
					TotalEntries: 3,
					TotalHours:   11,
					TotalMinutes: 45,
					TotalTime:    "11h 45m",
				}))
			})

			It("filters to the current week", func() {
				result, err := service.MyEntries(ctx, timeentry.MyEntriesDTO{Pin: "111111", Period: "week"})
				Expect(err).NotTo(HaveOccurred())
				Expect(result.Entries).To(HaveLen(2))
			})

			It("filters to the current month", func() {
				result, err := service.MyEntries(ctx, timeentry.MyEntriesDTO{Pin: "111111", Period: "month"})
				Expect(err).NotTo(HaveOccurred())
				Expect(result.Entries).To(HaveLen(2))
			})

			It("prefers a complete date range over the period", func() {
				result, err := service.MyEntries(ctx, timeentry.MyEntriesDTO{
					Pin:       "111111",
					StartDate: "2024-02-01",
					EndDate:   "2024-02-29",
					Period:    "week",
				})
				Expect(err).NotTo(HaveOccurred())
				Expect(result.Entries).To(HaveLen(1))
				Expect(result.Summary.TotalTime).To(Equal("1h 30m"))
			})

			It("rejects an unknown period", func() {
				_, err := service.MyEntries(ctx, timeentry.MyEntriesDTO{Pin: "111111", Period: "year"})
				expectValidation(err)
			})

			It("rejects a date range that ends before it starts", func() {
				_, err := service.MyEntries(ctx, timeentry.MyEntriesDTO{
					Pin:       "111111",
					StartDate: "2024-02-29",
					EndDate:   "2024-02-01",
				})

				appErr := expectValidation(err)
				Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidDate))
			})
		})
	})

	Describe("admin operations", func() {
		It("creates a manual entry for an inactive employee", func() {
			result, err := service.CreateManual(ctx, timeentry.ManualEntryDTO{
				EmployeeID:   gone.ID,
				ClockIn:      "2024-03-01T10:00:00Z",
				ClockOut:     "2024-03-01T12:15:00Z",
				BreakMinutes: intPtr(15),
				Notes:        strPtr("forgot to clock"),
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(result.EmployeeName).To(Equal("Citra"))
			Expect(result.TotalMinutes).To(Equal(120))
			Expect(*repo.entries[result.ID].Notes).To(Equal("forgot to clock"))
		})

		It("refuses a manual entry for a missing employee", func() {
			_, err := service.CreateManual(ctx, timeentry.ManualEntryDTO{
				EmployeeID: 404,
				ClockIn:    "2024-03-01T10:00:00Z",
				ClockOut:   "2024-03-01T12:00:00Z",
			})
			expectAppError(err, internal.ErrEmployeeNotFound)
		})

		It("requires the employee and both timestamps", func() {
			_, err := service.CreateManual(ctx, timeentry.ManualEntryDTO{ClockIn: "2024-03-01T10:00:00Z"})
			appErr := expectValidation(err)
			details := appErr.Details.(internal.ValidationErrors)
			fields := []string{}
			for _, d := range details.Errors {
				fields = append(fields, d.Field)
			}
			Expect(fields).To(ConsistOf("employee_id", "clock_out"))
		})

		It("keeps the stored break when the patch omits it", func() {
			created, err := service.CreateManual(ctx, timeentry.ManualEntryDTO{
				EmployeeID:   ana.ID,
				ClockIn:      "2024-03-01T10:00:00Z",
				ClockOut:     "2024-03-01T12:00:00Z",
				BreakMinutes: intPtr(20),
			})
			Expect(err).NotTo(HaveOccurred())

			entry, err := service.Update(ctx, created.ID, timeentry.EntryPatch{ClockOut: strPtr("2024-03-01T13:00:00Z")})
			Expect(err).NotTo(HaveOccurred())
			Expect(entry.BreakMinutes).To(Equal(20))
			Expect(*entry.TotalMinutes).To(Equal(160))
		})

		It("closes an open entry when the patch sets clock-out", func() {
			in, err := service.ClockIn(ctx, timeentry.PinDTO{Pin: "111111"})
			Expect(err).NotTo(HaveOccurred())

			entry, err := service.Update(ctx, in.EntryID, timeentry.EntryPatch{ClockOut: strPtr("2024-03-05T11:00:00Z")})
			Expect(err).NotTo(HaveOccurred())
			Expect(entry.IsOpen()).To(BeFalse())
			Expect(*entry.TotalMinutes).To(Equal(120))
		})

		It("keeps duration empty when editing an open entry", func() {
			in, err := service.ClockIn(ctx, timeentry.PinDTO{Pin: "111111"})
			Expect(err).NotTo(HaveOccurred())

			entry, err := service.Update(ctx, in.EntryID, timeentry.EntryPatch{ClockIn: strPtr("2024-03-04T23:30:00Z")})
			Expect(err).NotTo(HaveOccurred())
			Expect(entry.IsOpen()).To(BeTrue())
			Expect(entry.TotalMinutes).To(BeNil())
			Expect(entry.HoursWorked).To(BeNil())
			Expect(entry.Bucket.Date).To(Equal("2024-03-04"))
		})

		It("returns not found when updating or deleting a missing entry", func() {
			_, err := service.Update(ctx, 55, timeentry.EntryPatch{Notes: strPtr("x")})
			expectAppError(err, internal.ErrTimeEntryNotFound)

			err = service.Delete(ctx, 55)
			expectAppError(err, internal.ErrTimeEntryNotFound)
		})

		It("rejects a reversed date range in the listing filters", func() {
			_, err := service.List(ctx, timeentry.ListQuery{StartDate: "2024-03-10", EndDate: "2024-03-01"})
			appErr := expectValidation(err)
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidDate))

			same, err := service.List(ctx, timeentry.ListQuery{StartDate: "2024-03-10", EndDate: "2024-03-10"})
			Expect(err).NotTo(HaveOccurred())
			Expect(same).To(BeEmpty())
		})

		It("lists with value-gated filters", func() {
			for _, s := range []struct {
				pin string
				in  string
				out string
			}{
				{"111111", "2024-03-04T09:00:00Z", "2024-03-04T10:00:00Z"},
				{"111111", "2024-04-02T09:00:00Z", "2024-04-02T10:00:00Z"},
				{"222222", "2024-03-06T09:00:00Z", "2024-03-06T10:00:00Z"},
			} {
				_, err := service.CreateEmployeeEntry(ctx, timeentry.EmployeeEntryDTO{Pin: s.pin, ClockIn: s.in, ClockOut: s.out})
				Expect(err).NotTo(HaveOccurred())
			}

			all, err := service.List(ctx, timeentry.ListQuery{})
			Expect(err).NotTo(HaveOccurred())
			Expect(all).To(HaveLen(3))
			Expect(all[0].Bucket.Date).To(Equal("2024-04-02"))

			march, err := service.List(ctx, timeentry.ListQuery{Month: intPtr(3), Year: intPtr(2024)})
			Expect(err).NotTo(HaveOccurred())
			Expect(march).To(HaveLen(2))

			monthWithoutYear, err := service.List(ctx, timeentry.ListQuery{Month: intPtr(3)})
			Expect(err).NotTo(HaveOccurred())
			Expect(monthWithoutYear).To(HaveLen(3))

			anaID := ana.ID
			anasMarch, err := service.List(ctx, timeentry.ListQuery{EmployeeID: &anaID, Week: intPtr(10), Year: intPtr(2024)})
			Expect(err).NotTo(HaveOccurred())
			Expect(anasMarch).To(HaveLen(1))
		})

		It("rejects an out of range month", func() {
			_, err := service.List(ctx, timeentry.ListQuery{Month: intPtr(13), Year: intPtr(2024)})
			expectValidation(err)
		})
	})
})
