package timeentry

import (
	"time"

	timeentryDatamodel "github.com/frahmantamala/calong-tick/internal/core/datamodel/timeentry"
	"github.com/frahmantamala/calong-tick/internal/worktime"
	"github.com/shopspring/decimal"
)

// TimeEntry is one shift of one employee. An entry without ClockOut is
// open; each employee has at most one open entry.
type TimeEntry struct {
	ID            int64
	EmployeeID    int64
	ClockIn       time.Time
	ClockOut      *time.Time
	BreakMinutes  int
	HoursWorked   *decimal.Decimal
	MinutesWorked *int
	TotalMinutes  *int
	Notes         *string
	Bucket        worktime.CalendarBucket
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// set on entries listed for administrators
	EmployeeName string
	EmployeePin  string
	EmployeeType string
}

func (e *TimeEntry) IsOpen() bool {
	return e.ClockOut == nil
}

// Recompute derives the calendar bucket and, for a closed entry, the
// worked duration from ClockIn, ClockOut and BreakMinutes. It must run
// whenever any of the three changes.
func (e *TimeEntry) Recompute(loc *time.Location) {
	d := worktime.Derive(e.ClockIn, e.ClockOut, e.BreakMinutes, loc)
	e.Bucket = d.Bucket

	if d.Duration == nil {
		e.HoursWorked = nil
		e.MinutesWorked = nil
		e.TotalMinutes = nil
		return
	}

	hours := d.Duration.HoursDecimal
	minutes := d.Duration.Minutes
	total := d.Duration.TotalMinutes
	e.HoursWorked = &hours
	e.MinutesWorked = &minutes
	e.TotalMinutes = &total
}

func (e *TimeEntry) totalMinutes() int {
	if e.TotalMinutes == nil {
		return 0
	}
	return *e.TotalMinutes
}

type Response struct {
	ID            int64      `json:"id"`
	EmployeeID    int64      `json:"employee_id"`
	EmployeeName  string     `json:"employee_name,omitempty"`
	EmployeePin   string     `json:"employee_pin,omitempty"`
	EmployeeType  string     `json:"employee_type,omitempty"`
	ClockIn       time.Time  `json:"clock_in"`
	ClockOut      *time.Time `json:"clock_out"`
	BreakMinutes  int        `json:"break_minutes"`
	HoursWorked   *string    `json:"hours_worked"`
	MinutesWorked *int       `json:"minutes_worked"`
	TotalMinutes  *int       `json:"total_minutes"`
	TotalTime     *string    `json:"total_time"`
	Notes         *string    `json:"notes"`
	worktime.CalendarBucket
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (e *TimeEntry) ToResponse() Response {
	resp := Response{
		ID:             e.ID,
		EmployeeID:     e.EmployeeID,
		EmployeeName:   e.EmployeeName,
		EmployeePin:    e.EmployeePin,
		EmployeeType:   e.EmployeeType,
		ClockIn:        e.ClockIn,
		ClockOut:       e.ClockOut,
		BreakMinutes:   e.BreakMinutes,
		MinutesWorked:  e.MinutesWorked,
		TotalMinutes:   e.TotalMinutes,
		Notes:          e.Notes,
		CalendarBucket: e.Bucket,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
	if e.HoursWorked != nil {
		hours := e.HoursWorked.StringFixed(2)
		resp.HoursWorked = &hours
	}
	if e.TotalMinutes != nil {
		total := worktime.FormatHM(*e.TotalMinutes)
		resp.TotalTime = &total
	}
	return resp
}

func ToResponses(list []*TimeEntry) []Response {
	out := make([]Response, 0, len(list))
	for _, e := range list {
		out = append(out, e.ToResponse())
	}
	return out
}

type ClockInResult struct {
	EntryID      int64     `json:"entry_id"`
	EmployeeName string    `json:"employee_name"`
	ClockIn      time.Time `json:"clock_in"`
}

type ClockOutResult struct {
	EntryID       int64     `json:"entry_id"`
	EmployeeName  string    `json:"employee_name"`
	ClockIn       time.Time `json:"clock_in"`
	ClockOut      time.Time `json:"clock_out"`
	HoursWorked   int       `json:"hours_worked"`
	MinutesWorked int       `json:"minutes_worked"`
	TotalMinutes  int       `json:"total_minutes"`
	HoursDecimal  string    `json:"hours_decimal"`
	TotalTime     string    `json:"total_time"`
}

type CurrentEntry struct {
	ID      int64     `json:"id"`
	ClockIn time.Time `json:"clock_in"`
}

type StatusResult struct {
	EmployeeName string        `json:"employee_name"`
	IsClockedIn  bool          `json:"is_clocked_in"`
	CurrentEntry *CurrentEntry `json:"current_entry"`
}

type Summary struct {
	TotalEntries int    `json:"total_entries"`
	TotalHours   int    `json:"total_hours"`
	TotalMinutes int    `json:"total_minutes"`
	TotalTime    string `json:"total_time"`
}

type MyEntriesResult struct {
	EmployeeName string     `json:"employee_name"`
	Entries      []Response `json:"entries"`
	Summary      Summary    `json:"summary"`
}

// ManualEntryResult describes a closed entry created in one step by an
// admin or by the employee.
type ManualEntryResult struct {
	ID           int64     `json:"id"`
	EmployeeName string    `json:"employee_name"`
	ClockIn      time.Time `json:"clock_in"`
	ClockOut     time.Time `json:"clock_out"`
	BreakMinutes int       `json:"break_minutes"`
	TotalMinutes int       `json:"total_minutes"`
	HoursWorked  string    `json:"hours_worked"`
	TotalTime    string    `json:"total_time"`
}

// Summarize totals the worked minutes of entries, counting open entries
// as zero.
func Summarize(entries []*TimeEntry) Summary {
	total := 0
	for _, e := range entries {
		total += e.totalMinutes()
	}
	return Summary{
		TotalEntries: len(entries),
		TotalHours:   total / 60,
		TotalMinutes: total % 60,
		TotalTime:    worktime.FormatHM(total),
	}
}

func ToDataModel(e *TimeEntry) *timeentryDatamodel.TimeEntry {
	record := &timeentryDatamodel.TimeEntry{
		ID:            e.ID,
		EmployeeID:    e.EmployeeID,
		ClockIn:       e.ClockIn,
		ClockOut:      e.ClockOut,
		BreakMinutes:  e.BreakMinutes,
		MinutesWorked: e.MinutesWorked,
		TotalMinutes:  e.TotalMinutes,
		Notes:         e.Notes,
		EntryDate:     e.Bucket.Date,
		EntryWeek:     e.Bucket.Week,
		EntryMonth:    e.Bucket.Month,
		EntryYear:     e.Bucket.Year,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
	if e.HoursWorked != nil {
		record.HoursWorked = decimal.NewNullDecimal(*e.HoursWorked)
	}
	return record
}

func FromDataModel(r *timeentryDatamodel.TimeEntry) *TimeEntry {
	e := &TimeEntry{
		ID:            r.ID,
		EmployeeID:    r.EmployeeID,
		ClockIn:       r.ClockIn,
		ClockOut:      r.ClockOut,
		BreakMinutes:  r.BreakMinutes,
		MinutesWorked: r.MinutesWorked,
		TotalMinutes:  r.TotalMinutes,
		Notes:         r.Notes,
		Bucket: worktime.CalendarBucket{
			Date:  r.EntryDate,
			Week:  r.EntryWeek,
			Month: r.EntryMonth,
			Year:  r.EntryYear,
		},
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.HoursWorked.Valid {
		hours := r.HoursWorked.Decimal
		e.HoursWorked = &hours
	}
	return e
}

func FromJoinedDataModel(r *timeentryDatamodel.TimeEntryWithEmployee) *TimeEntry {
	e := FromDataModel(&r.TimeEntry)
	e.EmployeeName = r.EmployeeName
	e.EmployeePin = r.EmployeePin
	e.EmployeeType = r.EmployeeType
	return e
}
