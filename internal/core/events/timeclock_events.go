package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeEmployeeCreated = "employee.created"
	EventTypeClockedIn       = "timeentry.clocked_in"
	EventTypeClockedOut      = "timeentry.clocked_out"
)

type EmployeeCreatedEvent struct {
	BaseEvent
	EmployeeID int64  `json:"employee_id"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	CreatedBy  int64  `json:"created_by"`
}

func NewEmployeeCreatedEvent(employeeID int64, name, role string, createdBy int64) *EmployeeCreatedEvent {
	return &EmployeeCreatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeEmployeeCreated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"employee_id": employeeID,
				"name":        name,
				"role":        role,
				"created_by":  createdBy,
			},
		},
		EmployeeID: employeeID,
		Name:       name,
		Role:       role,
		CreatedBy:  createdBy,
	}
}

type ClockedInEvent struct {
	BaseEvent
	EntryID    int64     `json:"entry_id"`
	EmployeeID int64     `json:"employee_id"`
	ClockIn    time.Time `json:"clock_in"`
}

func NewClockedInEvent(entryID, employeeID int64, clockIn time.Time) *ClockedInEvent {
	return &ClockedInEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeClockedIn,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"entry_id":    entryID,
				"employee_id": employeeID,
				"clock_in":    clockIn,
			},
		},
		EntryID:    entryID,
		EmployeeID: employeeID,
		ClockIn:    clockIn,
	}
}

type ClockedOutEvent struct {
	BaseEvent
	EntryID      int64     `json:"entry_id"`
	EmployeeID   int64     `json:"employee_id"`
	ClockOut     time.Time `json:"clock_out"`
	TotalMinutes int       `json:"total_minutes"`
}

func NewClockedOutEvent(entryID, employeeID int64, clockOut time.Time, totalMinutes int) *ClockedOutEvent {
	return &ClockedOutEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeClockedOut,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"entry_id":      entryID,
				"employee_id":   employeeID,
				"clock_out":     clockOut,
				"total_minutes": totalMinutes,
			},
		},
		EntryID:      entryID,
		EmployeeID:   employeeID,
		ClockOut:     clockOut,
		TotalMinutes: totalMinutes,
	}
}
