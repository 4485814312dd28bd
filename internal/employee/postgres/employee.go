package postgres

import (
	"context"

	"github.com/frahmantamala/calong-tick/internal"
	employeeDatamodel "github.com/frahmantamala/calong-tick/internal/core/datamodel/employee"
	timeentryDatamodel "github.com/frahmantamala/calong-tick/internal/core/datamodel/timeentry"
	"github.com/frahmantamala/calong-tick/internal/core/storage"
	"github.com/frahmantamala/calong-tick/internal/employee"
	"gorm.io/gorm"
)

type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) employee.RepositoryAPI {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) Create(ctx context.Context, e *employeeDatamodel.Employee) error {
	err := r.db.WithContext(ctx).Create(e).Error
	if storage.IsUniqueViolation(err) {
		return internal.ErrPinInUse
	}
	return err
}

func (r *EmployeeRepository) List(ctx context.Context) ([]*employeeDatamodel.Employee, error) {
	var list []*employeeDatamodel.Employee
	err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id int64) (*employeeDatamodel.Employee, error) {
	var e employeeDatamodel.Employee
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&e).Error
	if err != nil {
		if storage.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func (r *EmployeeRepository) GetActiveByPin(ctx context.Context, pin string) (*employeeDatamodel.Employee, error) {
	var e employeeDatamodel.Employee
	err := r.db.WithContext(ctx).Where("pin = ? AND is_active = ?", pin, true).First(&e).Error
	if err != nil {
		if storage.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func (r *EmployeeRepository) PinExists(ctx context.Context, pin string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&employeeDatamodel.Employee{}).Where("pin = ?", pin).Count(&count).Error
	return count > 0, err
}

func (r *EmployeeRepository) PinTakenByOther(ctx context.Context, pin string, employeeID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&employeeDatamodel.Employee{}).
		Where("pin = ? AND id <> ?", pin, employeeID).
		Count(&count).Error
	return count > 0, err
}

func (r *EmployeeRepository) Update(ctx context.Context, e *employeeDatamodel.Employee) error {
	err := r.db.WithContext(ctx).Save(e).Error
	if storage.IsUniqueViolation(err) {
		return internal.ErrPinInUse
	}
	return err
}

func (r *EmployeeRepository) Delete(ctx context.Context, id int64) (bool, error) {
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("employee_id = ?", id).Delete(&timeentryDatamodel.TimeEntry{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&employeeDatamodel.Employee{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	return deleted, err
}
