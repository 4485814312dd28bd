package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID           int64           `gorm:"primaryKey"`
	Name         string          `gorm:"column:name;size:100;not null"`
	Pin          string          `gorm:"column:pin;size:6;uniqueIndex;not null"`
	EmployeeType string          `gorm:"column:employee_type;size:20;not null"`
	Role         string          `gorm:"column:role;size:30;not null"`
	HourlyRate   decimal.Decimal `gorm:"column:hourly_rate;type:decimal(10,2);not null"`
	Phone        *string         `gorm:"column:phone;size:20"`
	Email        *string         `gorm:"column:email;size:100"`
	IsActive     bool            `gorm:"column:is_active;not null"`
	CreatedBy    *int64          `gorm:"column:created_by"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Employee) TableName() string {
	return "employees"
}
