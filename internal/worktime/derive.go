package worktime

import "time"

// Derived is every value computed from an entry's clock-in, clock-out and
// break. It is produced in one step so the bucket and duration can never
// drift from the timestamps they came from.
type Derived struct {
	Bucket   CalendarBucket
	Duration *Duration
}

// Derive computes the bucket from clockIn and, when the entry is closed,
// the worked duration. An open entry (nil clockOut) has no duration.
func Derive(clockIn time.Time, clockOut *time.Time, breakMinutes int, loc *time.Location) Derived {
	d := Derived{Bucket: Bucket(clockIn, loc)}
	if clockOut != nil {
		dur := Compute(clockIn, *clockOut, breakMinutes)
		d.Duration = &dur
	}
	return d
}
