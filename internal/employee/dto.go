package employee

import (
	"strings"

	"github.com/frahmantamala/calong-tick/internal"
	"github.com/frahmantamala/calong-tick/internal/core/common/validation"
	"github.com/shopspring/decimal"
)

type CreateEmployeeDTO struct {
	Name         string           `json:"name" validate:"required,max=100"`
	EmployeeType string           `json:"employee_type" validate:"required,oneof=part_time full_time"`
	Role         string           `json:"role" validate:"omitempty,oneof=head_chef sous_chef junior_chef kitchen_helper dishwasher restaurant_manager floor_manager head_waiter waiter bartender host busser cashier"`
	HourlyRate   *decimal.Decimal `json:"hourly_rate"`
	Phone        *string          `json:"phone" validate:"omitempty,max=20"`
	Email        *string          `json:"email" validate:"omitempty,email,max=100"`
}

// UpdateEmployeeDTO is a partial update: nil fields keep their stored
// value.
type UpdateEmployeeDTO struct {
	Name         *string          `json:"name" validate:"omitempty,max=100"`
	EmployeeType *string          `json:"employee_type" validate:"omitempty,oneof=part_time full_time"`
	Role         *string          `json:"role" validate:"omitempty,oneof=head_chef sous_chef junior_chef kitchen_helper dishwasher restaurant_manager floor_manager head_waiter waiter bartender host busser cashier"`
	HourlyRate   *decimal.Decimal `json:"hourly_rate"`
	Phone        *string          `json:"phone" validate:"omitempty,max=20"`
	Email        *string          `json:"email" validate:"omitempty,email,max=100"`
	IsActive     *bool            `json:"is_active"`
	Pin          *string          `json:"pin" validate:"omitempty,pin"`
}

type VerifyPinDTO struct {
	Pin string `json:"pin" validate:"required"`
}

func (d *CreateEmployeeDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.EmployeeType = strings.TrimSpace(d.EmployeeType)
	d.Role = strings.TrimSpace(d.Role)
	d.Phone = trimOptional(d.Phone)
	d.Email = trimOptional(d.Email)
}

func (d CreateEmployeeDTO) Validate() error {
	if err := validation.Struct(d); err != nil {
		return err
	}
	return validateRate(d.HourlyRate)
}

func (d *UpdateEmployeeDTO) Normalize() {
	if d.Name != nil {
		name := strings.TrimSpace(*d.Name)
		d.Name = &name
	}
	if d.Pin != nil {
		pin := strings.TrimSpace(*d.Pin)
		d.Pin = &pin
	}
	d.EmployeeType = trimOptional(d.EmployeeType)
	d.Role = trimOptional(d.Role)
	d.Phone = trimOptional(d.Phone)
	d.Email = trimOptional(d.Email)
}

func (d UpdateEmployeeDTO) Validate() error {
	if d.Name != nil && *d.Name == "" {
		return internal.NewValidationFieldError("name", "Name must not be empty", internal.ErrCodeInvalidInput)
	}
	if err := validation.Struct(d); err != nil {
		return err
	}
	return validateRate(d.HourlyRate)
}

func (d *VerifyPinDTO) Normalize() {
	d.Pin = strings.TrimSpace(d.Pin)
}

func (d VerifyPinDTO) Validate() error {
	if err := validation.Struct(d); err != nil {
		return err
	}
	return nil
}

func validateRate(rate *decimal.Decimal) error {
	if rate == nil {
		return nil
	}
	if rate.IsNegative() {
		return internal.NewValidationFieldError("hourly_rate", "Hourly Rate must not be negative", internal.ErrCodeInvalidInput)
	}
	if rate.GreaterThanOrEqual(maxHourlyRate) {
		return internal.NewValidationFieldError("hourly_rate", "Hourly Rate must be below 100000000", internal.ErrCodeInvalidInput)
	}
	return nil
}

// decimal(10,2)
var maxHourlyRate = decimal.NewFromInt(100000000)

// trimOptional maps blank optional strings to nil so they are stored as
// NULL.
func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
