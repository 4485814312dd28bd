package timeentry

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/frahmantamala/calong-tick/internal"
	"github.com/frahmantamala/calong-tick/internal/core/common/validation"
	timeentryDatamodel "github.com/frahmantamala/calong-tick/internal/core/datamodel/timeentry"
	"github.com/frahmantamala/calong-tick/internal/core/events"
	"github.com/frahmantamala/calong-tick/internal/employee"
	"github.com/frahmantamala/calong-tick/internal/worktime"
)

type RepositoryAPI interface {
	// CreateOpen inserts an open entry, returning internal.ErrAlreadyClockedIn
	// when the employee already has one. The check and the insert are atomic.
	CreateOpen(ctx context.Context, e *timeentryDatamodel.TimeEntry) error
	GetOpen(ctx context.Context, employeeID int64) (*timeentryDatamodel.TimeEntry, error)
	// Close writes the closing fields of e only while the stored entry is
	// still open, returning internal.ErrNoOpenEntry otherwise.
	Close(ctx context.Context, e *timeentryDatamodel.TimeEntry) error
	Create(ctx context.Context, e *timeentryDatamodel.TimeEntry) error
	GetByID(ctx context.Context, id int64) (*timeentryDatamodel.TimeEntry, error)
	Update(ctx context.Context, e *timeentryDatamodel.TimeEntry) error
	Delete(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context, q ListQuery) ([]*timeentryDatamodel.TimeEntryWithEmployee, error)
}

// EmployeeLookup resolves the employee behind a PIN or an id.
type EmployeeLookup interface {
	VerifyPIN(ctx context.Context, pin string) (*employee.Employee, error)
	Get(ctx context.Context, id int64) (*employee.Employee, error)
}

type ServiceAPI interface {
	ClockIn(ctx context.Context, dto PinDTO) (*ClockInResult, error)
	ClockOut(ctx context.Context, dto ClockOutDTO) (*ClockOutResult, error)
	Status(ctx context.Context, dto PinDTO) (*StatusResult, error)
	MyEntries(ctx context.Context, dto MyEntriesDTO) (*MyEntriesResult, error)
	CreateEmployeeEntry(ctx context.Context, dto EmployeeEntryDTO) (*ManualEntryResult, error)
	UpdateEmployeeEntry(ctx context.Context, id int64, dto EmployeeEntryUpdateDTO) (*TimeEntry, error)
	DeleteEmployeeEntry(ctx context.Context, id int64, dto PinDTO) error

	List(ctx context.Context, q ListQuery) ([]*TimeEntry, error)
	Update(ctx context.Context, id int64, patch EntryPatch) (*TimeEntry, error)
	Delete(ctx context.Context, id int64) error
	CreateManual(ctx context.Context, dto ManualEntryDTO) (*ManualEntryResult, error)
}

type Option func(*Service)

// WithClock replaces time.Now as the source of clock-in and clock-out
// instants.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

type Service struct {
	repo      RepositoryAPI
	employees EmployeeLookup
	publisher events.Publisher
	loc       *time.Location
	now       func() time.Time
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, employees EmployeeLookup, publisher events.Publisher, loc *time.Location, logger *slog.Logger, opts ...Option) *Service {
	if loc == nil {
		loc = time.UTC
	}
	s := &Service{
		repo:      repo,
		employees: employees,
		publisher: publisher,
		loc:       loc,
		now:       time.Now,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) clock() time.Time {
	return s.now().Truncate(time.Second)
}

// ClockIn opens a new entry for the PIN's employee.
func (s *Service) ClockIn(ctx context.Context, dto PinDTO) (*ClockInResult, error) {
	emp, err := s.resolve(ctx, &dto)
	if err != nil {
		return nil, err
	}

	entry := &TimeEntry{EmployeeID: emp.ID, ClockIn: s.clock()}
	entry.Recompute(s.loc)

	record := ToDataModel(entry)
	if err := s.repo.CreateOpen(ctx, record); err != nil {
		if errors.Is(err, internal.ErrAlreadyClockedIn) {
			return nil, err
		}
		s.logger.Error("failed to clock in", "employee_id", emp.ID, "error", err)
		return nil, internal.NewInternalError("failed to clock in", err)
	}

	s.logger.Info("employee clocked in", "employee_id", emp.ID, "entry_id", record.ID)
	s.publish(ctx, events.NewClockedInEvent(record.ID, emp.ID, record.ClockIn))

	return &ClockInResult{
		EntryID:      record.ID,
		EmployeeName: emp.Name,
		ClockIn:      record.ClockIn,
	}, nil
}

// ClockOut closes the employee's open entry. Standard clock-out never
// deducts a break.
func (s *Service) ClockOut(ctx context.Context, dto ClockOutDTO) (*ClockOutResult, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	emp, err := s.employees.VerifyPIN(ctx, dto.Pin)
	if err != nil {
		return nil, err
	}

	record, err := s.repo.GetOpen(ctx, emp.ID)
	if err != nil {
		s.logger.Error("failed to load open entry", "employee_id", emp.ID, "error", err)
		return nil, internal.NewInternalError("failed to clock out", err)
	}
	if record == nil {
		return nil, internal.ErrNoOpenEntry
	}

	entry := FromDataModel(record)
	out := s.clock()
	entry.ClockOut = &out
	entry.BreakMinutes = 0
	entry.Notes = dto.Notes
	entry.Recompute(s.loc)

	if err := s.repo.Close(ctx, ToDataModel(entry)); err != nil {
		if errors.Is(err, internal.ErrNoOpenEntry) {
			return nil, err
		}
		s.logger.Error("failed to clock out", "employee_id", emp.ID, "entry_id", entry.ID, "error", err)
		return nil, internal.NewInternalError("failed to clock out", err)
	}

	total := entry.totalMinutes()
	s.logger.Info("employee clocked out", "employee_id", emp.ID, "entry_id", entry.ID, "total_minutes", total)
	s.publish(ctx, events.NewClockedOutEvent(entry.ID, emp.ID, out, total))

	return &ClockOutResult{
		EntryID:       entry.ID,
		EmployeeName:  emp.Name,
		ClockIn:       entry.ClockIn,
		ClockOut:      out,
		HoursWorked:   total / 60,
		MinutesWorked: total % 60,
		TotalMinutes:  total,
		HoursDecimal:  entry.HoursWorked.StringFixed(2),
		TotalTime:     worktime.FormatHM(total),
	}, nil
}

func (s *Service) Status(ctx context.Context, dto PinDTO) (*StatusResult, error) {
	emp, err := s.resolve(ctx, &dto)
	if err != nil {
		return nil, err
	}

	record, err := s.repo.GetOpen(ctx, emp.ID)
	if err != nil {
		s.logger.Error("failed to load open entry", "employee_id", emp.ID, "error", err)
		return nil, internal.NewInternalError("failed to check status", err)
	}

	result := &StatusResult{EmployeeName: emp.Name}
	if record != nil {
		result.IsClockedIn = true
		result.CurrentEntry = &CurrentEntry{ID: record.ID, ClockIn: record.ClockIn}
	}
	return result, nil
}

// MyEntries lists the employee's own entries, newest first. A complete
// date range wins over period; period resolves against the current
// date.
func (s *Service) MyEntries(ctx context.Context, dto MyEntriesDTO) (*MyEntriesResult, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	emp, err := s.employees.VerifyPIN(ctx, dto.Pin)
	if err != nil {
		return nil, err
	}

	q := ListQuery{EmployeeID: &emp.ID}
	current := worktime.CurrentPeriod(s.now(), s.loc)
	switch {
	case dto.StartDate != "" && dto.EndDate != "":
		q.StartDate, q.EndDate = dto.StartDate, dto.EndDate
	case dto.Period == PeriodWeek:
		q.Week, q.Year = &current.Week, &current.Year
	case dto.Period == PeriodMonth:
		q.Month, q.Year = &current.Month, &current.Year
	}

	entries, err := s.list(ctx, q)
	if err != nil {
		return nil, err
	}

	return &MyEntriesResult{
		EmployeeName: emp.Name,
		Entries:      ToResponses(entries),
		Summary:      Summarize(entries),
	}, nil
}

// CreateEmployeeEntry records a finished shift for the PIN's employee.
func (s *Service) CreateEmployeeEntry(ctx context.Context, dto EmployeeEntryDTO) (*ManualEntryResult, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	in, out, err := interval(dto.ClockIn, dto.ClockOut)
	if err != nil {
		return nil, err
	}
	emp, err := s.employees.VerifyPIN(ctx, dto.Pin)
	if err != nil {
		return nil, err
	}

	return s.createClosed(ctx, emp, in, out, dto.BreakMinutes, dto.Notes)
}

func (s *Service) UpdateEmployeeEntry(ctx context.Context, id int64, dto EmployeeEntryUpdateDTO) (*TimeEntry, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	emp, err := s.employees.VerifyPIN(ctx, dto.Pin)
	if err != nil {
		return nil, err
	}

	entry, err := s.owned(ctx, id, emp.ID)
	if err != nil {
		return nil, err
	}

	return s.applyPatch(ctx, entry, dto.EntryPatch)
}

func (s *Service) DeleteEmployeeEntry(ctx context.Context, id int64, dto PinDTO) error {
	emp, err := s.resolve(ctx, &dto)
	if err != nil {
		return err
	}

	if _, err := s.owned(ctx, id, emp.ID); err != nil {
		return err
	}

	return s.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, q ListQuery) ([]*TimeEntry, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return s.list(ctx, q)
}

// Update edits any entry on behalf of an admin.
func (s *Service) Update(ctx context.Context, id int64, patch EntryPatch) (*TimeEntry, error) {
	patch.Normalize()
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	entry, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	return s.applyPatch(ctx, entry, patch)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.logger.Error("failed to delete time entry", "entry_id", id, "error", err)
		return internal.NewInternalError("failed to delete time entry", err)
	}
	if !deleted {
		return internal.ErrTimeEntryNotFound
	}

	s.logger.Info("time entry deleted", "entry_id", id)
	return nil
}

// CreateManual records a finished shift for any existing employee,
// active or not.
func (s *Service) CreateManual(ctx context.Context, dto ManualEntryDTO) (*ManualEntryResult, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	in, out, err := interval(dto.ClockIn, dto.ClockOut)
	if err != nil {
		return nil, err
	}
	emp, err := s.employees.Get(ctx, dto.EmployeeID)
	if err != nil {
		return nil, err
	}

	return s.createClosed(ctx, emp, in, out, dto.BreakMinutes, dto.Notes)
}

func (s *Service) resolve(ctx context.Context, dto *PinDTO) (*employee.Employee, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	return s.employees.VerifyPIN(ctx, dto.Pin)
}

func (s *Service) get(ctx context.Context, id int64) (*TimeEntry, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to load time entry", "entry_id", id, "error", err)
		return nil, internal.NewInternalError("failed to load time entry", err)
	}
	if record == nil {
		return nil, internal.ErrTimeEntryNotFound
	}
	return FromDataModel(record), nil
}

// owned loads an entry and checks it belongs to employeeID.
func (s *Service) owned(ctx context.Context, id, employeeID int64) (*TimeEntry, error) {
	entry, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry.EmployeeID != employeeID {
		s.logger.Warn("time entry ownership mismatch", "entry_id", id, "employee_id", employeeID)
		return nil, internal.ErrEntryAccessDenied
	}
	return entry, nil
}

func (s *Service) list(ctx context.Context, q ListQuery) ([]*TimeEntry, error) {
	rows, err := s.repo.List(ctx, q)
	if err != nil {
		s.logger.Error("failed to list time entries", "error", err)
		return nil, internal.NewInternalError("failed to list time entries", err)
	}

	entries := make([]*TimeEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, FromJoinedDataModel(row))
	}
	return entries, nil
}

func (s *Service) createClosed(ctx context.Context, emp *employee.Employee, in, out time.Time, breakMinutes *int, notes *string) (*ManualEntryResult, error) {
	entry := &TimeEntry{
		EmployeeID: emp.ID,
		ClockIn:    in,
		ClockOut:   &out,
		Notes:      notes,
	}
	if breakMinutes != nil {
		entry.BreakMinutes = *breakMinutes
	}
	entry.Recompute(s.loc)

	record := ToDataModel(entry)
	if err := s.repo.Create(ctx, record); err != nil {
		s.logger.Error("failed to create time entry", "employee_id", emp.ID, "error", err)
		return nil, internal.NewInternalError("failed to create time entry", err)
	}

	total := entry.totalMinutes()
	s.logger.Info("time entry recorded", "employee_id", emp.ID, "entry_id", record.ID, "total_minutes", total)

	return &ManualEntryResult{
		ID:           record.ID,
		EmployeeName: emp.Name,
		ClockIn:      in,
		ClockOut:     out,
		BreakMinutes: entry.BreakMinutes,
		TotalMinutes: total,
		HoursWorked:  entry.HoursWorked.StringFixed(2),
		TotalTime:    worktime.FormatHM(total),
	}, nil
}

// applyPatch merges patch into entry, recomputes every derived field from
// the merged values and stores the result.
func (s *Service) applyPatch(ctx context.Context, entry *TimeEntry, patch EntryPatch) (*TimeEntry, error) {
	if patch.ClockIn != nil {
		in, appErr := validation.ParseTimestamp("clock_in", *patch.ClockIn)
		if appErr != nil {
			return nil, appErr
		}
		entry.ClockIn = in
	}
	if patch.ClockOut != nil {
		out, appErr := validation.ParseTimestamp("clock_out", *patch.ClockOut)
		if appErr != nil {
			return nil, appErr
		}
		entry.ClockOut = &out
	}
	if patch.BreakMinutes != nil {
		entry.BreakMinutes = *patch.BreakMinutes
	}
	if patch.Notes != nil {
		entry.Notes = patch.Notes
	}
	entry.Recompute(s.loc)

	record := ToDataModel(entry)
	if err := s.repo.Update(ctx, record); err != nil {
		s.logger.Error("failed to update time entry", "entry_id", entry.ID, "error", err)
		return nil, internal.NewInternalError("failed to update time entry", err)
	}

	s.logger.Info("time entry updated", "entry_id", entry.ID)
	return FromDataModel(record), nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish event", "event_type", event.EventType(), "error", err)
	}
}
