package worktime

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var minutesPerHour = decimal.NewFromInt(60)

type Duration struct {
	Hours        int             `json:"hours"`
	Minutes      int             `json:"minutes"`
	TotalMinutes int             `json:"total_minutes"`
	HoursDecimal decimal.Decimal `json:"hours_decimal"`
}

// Compute returns the worked duration between clockIn and clockOut after
// deducting breakMinutes. The result is clamped at zero.
func Compute(clockIn, clockOut time.Time, breakMinutes int) Duration {
	if breakMinutes < 0 {
		breakMinutes = 0
	}

	raw := int(clockOut.Sub(clockIn) / time.Minute)
	if clockOut.Before(clockIn) {
		raw = 0
	}

	total := raw - breakMinutes
	if total < 0 {
		total = 0
	}

	return Duration{
		Hours:        total / 60,
		Minutes:      total % 60,
		TotalMinutes: total,
		HoursDecimal: HoursFromMinutes(total),
	}
}

// HoursFromMinutes converts minutes to decimal hours rounded half-up to
// two places.
func HoursFromMinutes(totalMinutes int) decimal.Decimal {
	return decimal.NewFromInt(int64(totalMinutes)).Div(minutesPerHour).Round(2)
}

// HoursWorked is the persisted two-digit rendering of HoursDecimal.
func (d Duration) HoursWorked() string {
	return d.HoursDecimal.StringFixed(2)
}

func (d Duration) String() string {
	return FormatHM(d.TotalMinutes)
}

// FormatHM renders minutes as "{h}h {m}m".
func FormatHM(totalMinutes int) string {
	if totalMinutes < 0 {
		totalMinutes = 0
	}
	return fmt.Sprintf("%dh %dm", totalMinutes/60, totalMinutes%60)
}

// EstimatedPay is totalMinutes/60 * hourlyRate, rounded to cents.
func EstimatedPay(totalMinutes int, hourlyRate decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(int64(totalMinutes)).Mul(hourlyRate).Div(minutesPerHour).Round(2)
}
