package postgres

import (
	"context"
	"strings"

	"github.com/frahmantamala/calong-tick/internal"
	"github.com/frahmantamala/calong-tick/internal/auth"
	adminDatamodel "github.com/frahmantamala/calong-tick/internal/core/datamodel/admin"
	"github.com/frahmantamala/calong-tick/internal/core/storage"
	"gorm.io/gorm"
)

type AdminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) auth.RepositoryAPI {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&adminDatamodel.Admin{}).Count(&count).Error
	return count, err
}

// CreateFirst counts and inserts in one transaction. On Postgres the table
// is locked first so two concurrent signups cannot both observe zero rows.
func (r *AdminRepository) CreateFirst(ctx context.Context, admin *adminDatamodel.Admin) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if tx.Dialector.Name() == "postgres" {
			if err := tx.Exec("LOCK TABLE admins IN SHARE ROW EXCLUSIVE MODE").Error; err != nil {
				return err
			}
		}

		var count int64
		if err := tx.Model(&adminDatamodel.Admin{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return internal.ErrAdminExists
		}

		if err := tx.Create(admin).Error; err != nil {
			if storage.IsUniqueViolation(err) {
				return internal.ErrAdminDuplicate
			}
			return err
		}
		return nil
	})
}

func (r *AdminRepository) GetByLogin(ctx context.Context, login string) (*adminDatamodel.Admin, error) {
	var admin adminDatamodel.Admin
	err := r.db.WithContext(ctx).
		Where("username = ? OR email = ?", login, strings.ToLower(login)).
		First(&admin).Error
	if err != nil {
		if storage.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &admin, nil
}

func (r *AdminRepository) GetByID(ctx context.Context, id int64) (*adminDatamodel.Admin, error) {
	var admin adminDatamodel.Admin
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&admin).Error
	if err != nil {
		if storage.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &admin, nil
}
