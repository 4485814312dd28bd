package postgres

import (
	"context"

	"github.com/frahmantamala/calong-tick/internal"
	timeentryDatamodel "github.com/frahmantamala/calong-tick/internal/core/datamodel/timeentry"
	"github.com/frahmantamala/calong-tick/internal/core/storage"
	"github.com/frahmantamala/calong-tick/internal/timeentry"
	"gorm.io/gorm"
)

type TimeEntryRepository struct {
	db *gorm.DB
}

func NewTimeEntryRepository(db *gorm.DB) timeentry.RepositoryAPI {
	return &TimeEntryRepository{db: db}
}

// CreateOpen checks for an open entry and inserts inside one transaction.
// The partial unique index time_entries_one_open_per_employee rejects the
// loser of two concurrent clock-ins that both passed the check.
func (r *TimeEntryRepository) CreateOpen(ctx context.Context, e *timeentryDatamodel.TimeEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var open int64
		err := tx.Model(&timeentryDatamodel.TimeEntry{}).
			Where("employee_id = ? AND clock_out IS NULL", e.EmployeeID).
			Count(&open).Error
		if err != nil {
			return err
		}
		if open > 0 {
			return internal.ErrAlreadyClockedIn
		}

		if err := tx.Create(e).Error; err != nil {
			if storage.IsUniqueViolation(err) {
				return internal.ErrAlreadyClockedIn
			}
			return err
		}
		return nil
	})
}

func (r *TimeEntryRepository) GetOpen(ctx context.Context, employeeID int64) (*timeentryDatamodel.TimeEntry, error) {
	var e timeentryDatamodel.TimeEntry
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND clock_out IS NULL", employeeID).
		Order("clock_in DESC").
		First(&e).Error
	if err != nil {
		if storage.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func (r *TimeEntryRepository) Close(ctx context.Context, e *timeentryDatamodel.TimeEntry) error {
	res := r.db.WithContext(ctx).
		Model(&timeentryDatamodel.TimeEntry{}).
		Where("id = ? AND clock_out IS NULL", e.ID).
		Updates(map[string]interface{}{
			"clock_out":      e.ClockOut,
			"break_minutes":  e.BreakMinutes,
			"hours_worked":   e.HoursWorked,
			"minutes_worked": e.MinutesWorked,
			"total_minutes":  e.TotalMinutes,
			"notes":          e.Notes,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrNoOpenEntry
	}
	return nil
}

func (r *TimeEntryRepository) Create(ctx context.Context, e *timeentryDatamodel.TimeEntry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *TimeEntryRepository) GetByID(ctx context.Context, id int64) (*timeentryDatamodel.TimeEntry, error) {
	var e timeentryDatamodel.TimeEntry
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&e).Error
	if err != nil {
		if storage.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func (r *TimeEntryRepository) Update(ctx context.Context, e *timeentryDatamodel.TimeEntry) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *TimeEntryRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&timeentryDatamodel.TimeEntry{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *TimeEntryRepository) List(ctx context.Context, q timeentry.ListQuery) ([]*timeentryDatamodel.TimeEntryWithEmployee, error) {
	query := r.db.WithContext(ctx).
		Table("time_entries AS te").
		Select("te.*, e.name AS employee_name, e.pin AS employee_pin, e.employee_type AS employee_type").
		Joins("JOIN employees e ON te.employee_id = e.id")

	if q.EmployeeID != nil {
		query = query.Where("te.employee_id = ?", *q.EmployeeID)
	}
	if q.StartDate != "" && q.EndDate != "" {
		query = query.Where("te.entry_date BETWEEN ? AND ?", q.StartDate, q.EndDate)
	}
	if q.Week != nil && q.Year != nil {
		query = query.Where("te.entry_week = ? AND te.entry_year = ?", *q.Week, *q.Year)
	}
	if q.Month != nil && q.Year != nil {
		query = query.Where("te.entry_month = ? AND te.entry_year = ?", *q.Month, *q.Year)
	}

	var rows []*timeentryDatamodel.TimeEntryWithEmployee
	err := query.Order("te.clock_in DESC").Order("te.id DESC").Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
