package employee

import (
	"time"

	employeeDatamodel "github.com/frahmantamala/calong-tick/internal/core/datamodel/employee"
	"github.com/shopspring/decimal"
)

const (
	TypePartTime = "part_time"
	TypeFullTime = "full_time"
)

const (
	RoleHeadChef          = "head_chef"
	RoleSousChef          = "sous_chef"
	RoleJuniorChef        = "junior_chef"
	RoleKitchenHelper     = "kitchen_helper"
	RoleDishwasher        = "dishwasher"
	RoleRestaurantManager = "restaurant_manager"
	RoleFloorManager      = "floor_manager"
	RoleHeadWaiter        = "head_waiter"
	RoleWaiter            = "waiter"
	RoleBartender         = "bartender"
	RoleHost              = "host"
	RoleBusser            = "busser"
	RoleCashier           = "cashier"

	DefaultRole = RoleWaiter
)

// Employee is a restaurant staff member identified at the time clock by a
// six digit PIN.
type Employee struct {
	ID           int64
	Name         string
	Pin          string
	EmployeeType string
	Role         string
	HourlyRate   decimal.Decimal
	Phone        *string
	Email        *string
	IsActive     bool
	CreatedBy    *int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Response struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Pin          string    `json:"pin"`
	EmployeeType string    `json:"employee_type"`
	Role         string    `json:"role"`
	HourlyRate   string    `json:"hourly_rate"`
	Phone        *string   `json:"phone"`
	Email        *string   `json:"email"`
	IsActive     bool      `json:"is_active"`
	CreatedBy    *int64    `json:"created_by,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (e *Employee) ToResponse() Response {
	return Response{
		ID:           e.ID,
		Name:         e.Name,
		Pin:          e.Pin,
		EmployeeType: e.EmployeeType,
		Role:         e.Role,
		HourlyRate:   e.HourlyRate.StringFixed(2),
		Phone:        e.Phone,
		Email:        e.Email,
		IsActive:     e.IsActive,
		CreatedBy:    e.CreatedBy,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

func ToResponses(list []*Employee) []Response {
	out := make([]Response, 0, len(list))
	for _, e := range list {
		out = append(out, e.ToResponse())
	}
	return out
}

func ToDataModel(e *Employee) *employeeDatamodel.Employee {
	return &employeeDatamodel.Employee{
		ID:           e.ID,
		Name:         e.Name,
		Pin:          e.Pin,
		EmployeeType: e.EmployeeType,
		Role:         e.Role,
		HourlyRate:   e.HourlyRate,
		Phone:        e.Phone,
		Email:        e.Email,
		IsActive:     e.IsActive,
		CreatedBy:    e.CreatedBy,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

func FromDataModel(e *employeeDatamodel.Employee) *Employee {
	return &Employee{
		ID:           e.ID,
		Name:         e.Name,
		Pin:          e.Pin,
		EmployeeType: e.EmployeeType,
		Role:         e.Role,
		HourlyRate:   e.HourlyRate,
		Phone:        e.Phone,
		Email:        e.Email,
		IsActive:     e.IsActive,
		CreatedBy:    e.CreatedBy,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}
