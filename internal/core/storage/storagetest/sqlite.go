// Package storagetest provides an in-memory database carrying the same
// tables and unique indexes as the goose migrations, for repository tests.
package storagetest

import (
	adminDatamodel "github.com/frahmantamala/calong-tick/internal/core/datamodel/admin"
	employeeDatamodel "github.com/frahmantamala/calong-tick/internal/core/datamodel/employee"
	timeentryDatamodel "github.com/frahmantamala/calong-tick/internal/core/datamodel/timeentry"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const openEntryIndex = `CREATE UNIQUE INDEX IF NOT EXISTS time_entries_one_open_per_employee
	ON time_entries (employee_id) WHERE clock_out IS NULL`

// NewSQLite opens a private in-memory database. The pool is pinned to one
// connection because every sqlite :memory: connection is a separate
// database.
func NewSQLite() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&adminDatamodel.Admin{},
		&employeeDatamodel.Employee{},
		&timeentryDatamodel.TimeEntry{},
	); err != nil {
		return nil, err
	}

	if err := db.Exec(openEntryIndex).Error; err != nil {
		return nil, err
	}

	return db, nil
}
