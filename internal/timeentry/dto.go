package timeentry

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/frahmantamala/calong-tick/internal"
	"github.com/frahmantamala/calong-tick/internal/core/common/validation"
)

const (
	PeriodWeek  = "week"
	PeriodMonth = "month"
)

type PinDTO struct {
	Pin string `json:"pin" validate:"required"`
}

type ClockOutDTO struct {
	Pin   string  `json:"pin" validate:"required"`
	Notes *string `json:"notes" validate:"omitempty,max=1000"`
}

type MyEntriesDTO struct {
	Pin       string `json:"pin" validate:"required"`
	StartDate string `json:"start_date" validate:"omitempty,date"`
	EndDate   string `json:"end_date" validate:"omitempty,date"`
	Period    string `json:"period" validate:"omitempty,oneof=week month"`
}

// EntryPatch is a partial edit of an entry; nil fields keep their stored
// value.
type EntryPatch struct {
	ClockIn      *string `json:"clock_in"`
	ClockOut     *string `json:"clock_out"`
	BreakMinutes *int    `json:"break_minutes" validate:"omitempty,gte=0,lte=1440"`
	Notes        *string `json:"notes" validate:"omitempty,max=1000"`
}

type EmployeeEntryDTO struct {
	Pin          string  `json:"pin" validate:"required"`
	ClockIn      string  `json:"clock_in" validate:"required"`
	ClockOut     string  `json:"clock_out" validate:"required"`
	BreakMinutes *int    `json:"break_minutes" validate:"omitempty,gte=0,lte=1440"`
	Notes        *string `json:"notes" validate:"omitempty,max=1000"`
}

type EmployeeEntryUpdateDTO struct {
	Pin string `json:"pin" validate:"required"`
	EntryPatch
}

type ManualEntryDTO struct {
	EmployeeID   int64   `json:"employee_id" validate:"required,gt=0"`
	ClockIn      string  `json:"clock_in" validate:"required"`
	ClockOut     string  `json:"clock_out" validate:"required"`
	BreakMinutes *int    `json:"break_minutes" validate:"omitempty,gte=0,lte=1440"`
	Notes        *string `json:"notes" validate:"omitempty,max=1000"`
}

// ListQuery filters the admin entry listing. Each filter applies only when
// all of its values are present: the date range needs both dates, week and
// month each need year.
type ListQuery struct {
	EmployeeID *int64 `json:"employee_id"`
	StartDate  string `json:"start_date" validate:"omitempty,date"`
	EndDate    string `json:"end_date" validate:"omitempty,date"`
	Week       *int   `json:"week" validate:"omitempty,gte=1,lte=53"`
	Month      *int   `json:"month" validate:"omitempty,gte=1,lte=12"`
	Year       *int   `json:"year" validate:"omitempty,gte=1970,lte=9999"`
}

func (d *PinDTO) Normalize() {
	d.Pin = strings.TrimSpace(d.Pin)
}

func (d PinDTO) Validate() error {
	if err := validation.Struct(d); err != nil {
		return err
	}
	return nil
}

func (d *ClockOutDTO) Normalize() {
	d.Pin = strings.TrimSpace(d.Pin)
	d.Notes = normalizeNotes(d.Notes)
}

func (d ClockOutDTO) Validate() error {
	if err := validation.Struct(d); err != nil {
		return err
	}
	return nil
}

func (d *MyEntriesDTO) Normalize() {
	d.Pin = strings.TrimSpace(d.Pin)
	d.StartDate = strings.TrimSpace(d.StartDate)
	d.EndDate = strings.TrimSpace(d.EndDate)
	d.Period = strings.ToLower(strings.TrimSpace(d.Period))
}

func (d MyEntriesDTO) Validate() error {
	if err := validation.Struct(d); err != nil {
		return err
	}
	return validateRange(d.StartDate, d.EndDate)
}

func (p *EntryPatch) Normalize() {
	p.Notes = normalizeNotes(p.Notes)
}

func (p EntryPatch) Validate() error {
	if err := validation.Struct(p); err != nil {
		return err
	}
	return nil
}

func (d *EmployeeEntryDTO) Normalize() {
	d.Pin = strings.TrimSpace(d.Pin)
	d.Notes = normalizeNotes(d.Notes)
}

func (d EmployeeEntryDTO) Validate() error {
	if err := validation.Struct(d); err != nil {
		return err
	}
	return nil
}

func (d *EmployeeEntryUpdateDTO) Normalize() {
	d.Pin = strings.TrimSpace(d.Pin)
	d.EntryPatch.Normalize()
}

func (d EmployeeEntryUpdateDTO) Validate() error {
	if err := validation.Struct(d); err != nil {
		return err
	}
	return nil
}

func (d *ManualEntryDTO) Normalize() {
	d.Notes = normalizeNotes(d.Notes)
}

func (d ManualEntryDTO) Validate() error {
	if err := validation.Struct(d); err != nil {
		return err
	}
	return nil
}

func (q ListQuery) Validate() error {
	if err := validation.Struct(q); err != nil {
		return err
	}
	return validateRange(q.StartDate, q.EndDate)
}

// validateRange checks a date range only when both ends are given, the
// same condition under which the range filter applies.
func validateRange(start, end string) error {
	if start == "" || end == "" {
		return nil
	}
	if _, _, err := validation.DateRange(start, end); err != nil {
		return err
	}
	return nil
}

// ParseListQuery reads the admin listing filters from URL query values.
func ParseListQuery(values url.Values) (ListQuery, error) {
	var q ListQuery

	if v := strings.TrimSpace(values.Get("employee_id")); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			return q, internal.NewValidationFieldError("employee_id", "Employee Id must be a positive integer", internal.ErrCodeInvalidID)
		}
		q.EmployeeID = &id
	}

	q.StartDate = strings.TrimSpace(values.Get("start_date"))
	q.EndDate = strings.TrimSpace(values.Get("end_date"))

	var err error
	if q.Week, err = optionalInt(values, "week"); err != nil {
		return q, err
	}
	if q.Month, err = optionalInt(values, "month"); err != nil {
		return q, err
	}
	if q.Year, err = optionalInt(values, "year"); err != nil {
		return q, err
	}

	return q, q.Validate()
}

func optionalInt(values url.Values, key string) (*int, error) {
	v := strings.TrimSpace(values.Get(key))
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, internal.NewValidationFieldError(key, key+" must be an integer", internal.ErrCodeInvalidInput)
	}
	return &n, nil
}

func normalizeNotes(notes *string) *string {
	if notes == nil {
		return nil
	}
	v := strings.TrimSpace(*notes)
	if v == "" {
		return nil
	}
	return &v
}

// interval parses a clock-in/clock-out pair.
func interval(clockIn, clockOut string) (time.Time, time.Time, error) {
	in, appErr := validation.ParseTimestamp("clock_in", clockIn)
	if appErr != nil {
		return time.Time{}, time.Time{}, appErr
	}
	out, appErr := validation.ParseTimestamp("clock_out", clockOut)
	if appErr != nil {
		return time.Time{}, time.Time{}, appErr
	}
	return in, out, nil
}
