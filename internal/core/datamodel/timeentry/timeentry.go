package timeentry

import (
	"time"

	"github.com/shopspring/decimal"
)

type TimeEntry struct {
	ID            int64               `gorm:"primaryKey"`
	EmployeeID    int64               `gorm:"column:employee_id;not null;index"`
	ClockIn       time.Time           `gorm:"column:clock_in;not null"`
	ClockOut      *time.Time          `gorm:"column:clock_out"`
	BreakMinutes  int                 `gorm:"column:break_minutes;not null"`
	HoursWorked   decimal.NullDecimal `gorm:"column:hours_worked;type:decimal(7,2)"`
	MinutesWorked *int                `gorm:"column:minutes_worked"`
	TotalMinutes  *int                `gorm:"column:total_minutes"`
	Notes         *string             `gorm:"column:notes"`
	EntryDate     string              `gorm:"column:entry_date;size:10;not null"`
	EntryWeek     int                 `gorm:"column:entry_week;not null"`
	EntryMonth    int                 `gorm:"column:entry_month;not null"`
	EntryYear     int                 `gorm:"column:entry_year;not null"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (TimeEntry) TableName() string {
	return "time_entries"
}

// TimeEntryWithEmployee is a time entry joined with the owning employee's
// identifying columns, as listed to administrators.
type TimeEntryWithEmployee struct {
	TimeEntry    `gorm:"embedded"`
	EmployeeName string `gorm:"column:employee_name"`
	EmployeePin  string `gorm:"column:employee_pin"`
	EmployeeType string `gorm:"column:employee_type"`
}
