// Package report aggregates worked time per employee for payroll review.
package report

import (
	"database/sql"

	"github.com/frahmantamala/calong-tick/internal/worktime"
	"github.com/shopspring/decimal"
)

const (
	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodYear  = "year"
)

// Filter selects what the summary covers. Week, Month and Year take effect
// only together with the matching Period; a missing value falls back to
// the current one.
type Filter struct {
	EmployeeID *int64 `json:"employee_id"`
	Period     string `json:"period" validate:"omitempty,oneof=week month year"`
	Week       *int   `json:"week" validate:"omitempty,gte=1,lte=53"`
	Month      *int   `json:"month" validate:"omitempty,gte=1,lte=12"`
	Year       *int   `json:"year" validate:"omitempty,gte=1970,lte=9999"`
}

// Window is a resolved period restriction. Zero fields are not applied.
type Window struct {
	Week  int
	Month int
	Year  int
}

// Resolve turns the filter into the concrete window to query, filling
// missing values from current.
func (f Filter) Resolve(current worktime.Period) Window {
	year := current.Year
	if f.Year != nil {
		year = *f.Year
	}

	switch f.Period {
	case PeriodWeek:
		week := current.Week
		if f.Week != nil {
			week = *f.Week
		}
		return Window{Week: week, Year: year}
	case PeriodMonth:
		month := current.Month
		if f.Month != nil {
			month = *f.Month
		}
		return Window{Month: month, Year: year}
	case PeriodYear:
		return Window{Year: year}
	default:
		return Window{}
	}
}

// Row is one employee's raw aggregate as read from storage.
type Row struct {
	EmployeeID   int64           `db:"employee_id"`
	EmployeeName string          `db:"employee_name"`
	EmployeeType string          `db:"employee_type"`
	HourlyRate   decimal.Decimal `db:"hourly_rate"`
	TotalEntries int64           `db:"total_entries"`
	TotalMinutes sql.NullInt64   `db:"total_minutes"`
	FirstEntry   sql.NullString  `db:"first_entry"`
	LastEntry    sql.NullString  `db:"last_entry"`
}

type SummaryRow struct {
	EmployeeID       int64   `json:"employee_id"`
	EmployeeName     string  `json:"employee_name"`
	EmployeeType     string  `json:"employee_type"`
	HourlyRate       string  `json:"hourly_rate"`
	TotalEntries     int     `json:"total_entries"`
	TotalMinutes     int     `json:"total_minutes"`
	FirstEntry       *string `json:"first_entry"`
	LastEntry        *string `json:"last_entry"`
	TotalHours       int     `json:"total_hours"`
	RemainingMinutes int     `json:"remaining_minutes"`
	TotalTime        string  `json:"total_time"`
	EstimatedPay     string  `json:"estimated_pay"`
}

// Aggregate formats raw rows, deriving the hour split and the estimated
// pay. Employees without entries come out with zero totals.
func Aggregate(rows []Row) []SummaryRow {
	out := make([]SummaryRow, 0, len(rows))
	for _, r := range rows {
		total := 0
		if r.TotalMinutes.Valid {
			total = int(r.TotalMinutes.Int64)
		}

		out = append(out, SummaryRow{
			EmployeeID:       r.EmployeeID,
			EmployeeName:     r.EmployeeName,
			EmployeeType:     r.EmployeeType,
			HourlyRate:       r.HourlyRate.StringFixed(2),
			TotalEntries:     int(r.TotalEntries),
			TotalMinutes:     total,
			FirstEntry:       nullString(r.FirstEntry),
			LastEntry:        nullString(r.LastEntry),
			TotalHours:       total / 60,
			RemainingMinutes: total % 60,
			TotalTime:        worktime.FormatHM(total),
			EstimatedPay:     worktime.EstimatedPay(total, r.HourlyRate).StringFixed(2),
		})
	}
	return out
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}
