package employee

import (
	"context"
	"errors"
	"log/slog"

	"github.com/frahmantamala/calong-tick/internal"
	employeeDatamodel "github.com/frahmantamala/calong-tick/internal/core/datamodel/employee"
	"github.com/frahmantamala/calong-tick/internal/core/events"
	"github.com/shopspring/decimal"
)

type RepositoryAPI interface {
	PinChecker
	// Create returns internal.ErrPinInUse when the PIN was taken
	// between allocation and insert.
	Create(ctx context.Context, e *employeeDatamodel.Employee) error
	List(ctx context.Context) ([]*employeeDatamodel.Employee, error)
	GetByID(ctx context.Context, id int64) (*employeeDatamodel.Employee, error)
	GetActiveByPin(ctx context.Context, pin string) (*employeeDatamodel.Employee, error)
	PinTakenByOther(ctx context.Context, pin string, employeeID int64) (bool, error)
	Update(ctx context.Context, e *employeeDatamodel.Employee) error
	// Delete removes the employee and its time entries, reporting whether
	// the employee existed.
	Delete(ctx context.Context, id int64) (bool, error)
}

type ServiceAPI interface {
	Create(ctx context.Context, adminID int64, dto CreateEmployeeDTO) (*Employee, error)
	List(ctx context.Context) ([]*Employee, error)
	Get(ctx context.Context, id int64) (*Employee, error)
	Update(ctx context.Context, id int64, dto UpdateEmployeeDTO) (*Employee, error)
	Delete(ctx context.Context, id int64) error
	VerifyPIN(ctx context.Context, pin string) (*Employee, error)
}

type Service struct {
	repo      RepositoryAPI
	pins      *PinAllocator
	publisher events.Publisher
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, pins *PinAllocator, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		pins:      pins,
		publisher: publisher,
		logger:    logger,
	}
}

// Create registers a new active employee with a freshly allocated PIN. If
// a concurrent insert claims the PIN first, allocation starts over, within
// the allocator's attempt bound.
func (s *Service) Create(ctx context.Context, adminID int64, dto CreateEmployeeDTO) (*Employee, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	role := dto.Role
	if role == "" {
		role = DefaultRole
	}
	rate := decimal.Zero
	if dto.HourlyRate != nil {
		rate = *dto.HourlyRate
	}
	var createdBy *int64
	if adminID > 0 {
		createdBy = &adminID
	}

	for attempt := 0; attempt < s.pins.MaxAttempts(); attempt++ {
		pin, err := s.pins.Allocate(ctx)
		if err != nil {
			if errors.Is(err, internal.ErrPinAllocationExhausted) {
				s.logger.Warn("pin allocation exhausted", "attempts", s.pins.MaxAttempts())
				return nil, err
			}
			s.logger.Error("failed to allocate pin", "error", err)
			return nil, internal.NewInternalError("failed to allocate PIN", err)
		}

		record := &employeeDatamodel.Employee{
			Name:         dto.Name,
			Pin:          pin,
			EmployeeType: dto.EmployeeType,
			Role:         role,
			HourlyRate:   rate,
			Phone:        dto.Phone,
			Email:        dto.Email,
			IsActive:     true,
			CreatedBy:    createdBy,
		}

		err = s.repo.Create(ctx, record)
		if errors.Is(err, internal.ErrPinInUse) {
			s.logger.Debug("allocated pin taken concurrently, retrying", "attempt", attempt+1)
			continue
		}
		if err != nil {
			s.logger.Error("failed to create employee", "name", dto.Name, "error", err)
			return nil, internal.NewInternalError("failed to create employee", err)
		}

		emp := FromDataModel(record)
		s.logger.Info("employee created", "employee_id", emp.ID, "role", emp.Role, "admin_id", adminID)
		s.publish(ctx, events.NewEmployeeCreatedEvent(emp.ID, emp.Name, emp.Role, adminID))
		return emp, nil
	}

	return nil, internal.ErrPinAllocationExhausted
}

func (s *Service) List(ctx context.Context) ([]*Employee, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list employees", "error", err)
		return nil, internal.NewInternalError("failed to list employees", err)
	}

	list := make([]*Employee, 0, len(records))
	for _, r := range records {
		list = append(list, FromDataModel(r))
	}
	return list, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Employee, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to load employee", "employee_id", id, "error", err)
		return nil, internal.NewInternalError("failed to load employee", err)
	}
	if record == nil {
		return nil, internal.ErrEmployeeNotFound
	}
	return FromDataModel(record), nil
}

func (s *Service) Update(ctx context.Context, id int64, dto UpdateEmployeeDTO) (*Employee, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to load employee", "employee_id", id, "error", err)
		return nil, internal.NewInternalError("failed to update employee", err)
	}
	if record == nil {
		return nil, internal.ErrEmployeeNotFound
	}

	if dto.Pin != nil && *dto.Pin != record.Pin {
		taken, err := s.repo.PinTakenByOther(ctx, *dto.Pin, id)
		if err != nil {
			return nil, internal.NewInternalError("failed to check PIN", err)
		}
		if taken {
			return nil, internal.ErrPinInUse
		}
		record.Pin = *dto.Pin
	}

	applyPatch(record, dto)

	if err := s.repo.Update(ctx, record); err != nil {
		if errors.Is(err, internal.ErrPinInUse) {
			return nil, err
		}
		s.logger.Error("failed to update employee", "employee_id", id, "error", err)
		return nil, internal.NewInternalError("failed to update employee", err)
	}

	s.logger.Info("employee updated", "employee_id", id)
	return FromDataModel(record), nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.logger.Error("failed to delete employee", "employee_id", id, "error", err)
		return internal.NewInternalError("failed to delete employee", err)
	}
	if !deleted {
		return internal.ErrEmployeeNotFound
	}

	s.logger.Info("employee deleted", "employee_id", id)
	return nil
}

// VerifyPIN resolves a PIN to the active employee holding it. Unknown PINs
// and inactive employees are indistinguishable to the caller.
func (s *Service) VerifyPIN(ctx context.Context, pin string) (*Employee, error) {
	dto := VerifyPinDTO{Pin: pin}
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	record, err := s.repo.GetActiveByPin(ctx, dto.Pin)
	if err != nil {
		s.logger.Error("failed to verify pin", "error", err)
		return nil, internal.NewInternalError("failed to verify PIN", err)
	}
	if record == nil {
		return nil, internal.ErrInvalidPin
	}
	return FromDataModel(record), nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish event", "event_type", event.EventType(), "error", err)
	}
}

func applyPatch(record *employeeDatamodel.Employee, dto UpdateEmployeeDTO) {
	if dto.Name != nil {
		record.Name = *dto.Name
	}
	if dto.EmployeeType != nil {
		record.EmployeeType = *dto.EmployeeType
	}
	if dto.Role != nil {
		record.Role = *dto.Role
	}
	if dto.HourlyRate != nil {
		record.HourlyRate = *dto.HourlyRate
	}
	if dto.Phone != nil {
		record.Phone = dto.Phone
	}
	if dto.Email != nil {
		record.Email = dto.Email
	}
	if dto.IsActive != nil {
		record.IsActive = *dto.IsActive
	}
}
