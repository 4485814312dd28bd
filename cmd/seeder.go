package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/frahmantamala/calong-tick/internal/auth"
	authPostgres "github.com/frahmantamala/calong-tick/internal/auth/postgres"
	"github.com/frahmantamala/calong-tick/internal/employee"
	employeePostgres "github.com/frahmantamala/calong-tick/internal/employee/postgres"
	"github.com/frahmantamala/calong-tick/internal/timeentry"
	timeentryPostgres "github.com/frahmantamala/calong-tick/internal/timeentry/postgres"
	"github.com/frahmantamala/calong-tick/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with an admin, sample employees and a few closed shifts for development.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, gdb, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		loc, err := cfg.Clock.Location()
		if err != nil {
			log.Fatalf("failed to load timezone: %v", err)
		}

		if clearData {
			if err := clearTables(gdb); err != nil {
				log.Fatalf("failed to clear data: %v", err)
			}
			fmt.Println("Cleared admins, employees and time entries")
		}

		lg := logger.LoggerWrapper()
		ctx := context.Background()

		authSvc := auth.NewService(
			authPostgres.NewAdminRepository(gdb),
			auth.NewJWTTokenGenerator(cfg.Security.JWTSecret, cfg.Security.AccessTokenDuration),
			cfg.Security.BCryptCost,
			lg,
		)
		employeeRepo := employeePostgres.NewEmployeeRepository(gdb)
		employeeSvc := employee.NewService(employeeRepo, employee.NewPinAllocator(employeeRepo, cfg.Clock.PinMaxAttempts), nil, lg)
		timeSvc := timeentry.NewService(timeentryPostgres.NewTimeEntryRepository(gdb), employeeSvc, nil, loc, lg)

		adminID, err := seedAdmin(ctx, authSvc)
		if err != nil {
			log.Fatalf("failed to seed admin: %v", err)
		}

		existing, err := employeeSvc.List(ctx)
		if err != nil {
			log.Fatalf("failed to list employees: %v", err)
		}
		if len(existing) > 0 {
			fmt.Printf("%d employees already exist; skipping employees and shifts\n", len(existing))
			return
		}

		now := time.Now().In(loc)
		for _, s := range sampleEmployees {
			rate := decimal.RequireFromString(s.rate)
			e, err := employeeSvc.Create(ctx, adminID, employee.CreateEmployeeDTO{
				Name:         s.name,
				EmployeeType: s.employeeType,
				Role:         s.role,
				HourlyRate:   &rate,
			})
			if err != nil {
				log.Fatalf("failed to seed employee %s: %v", s.name, err)
			}
			fmt.Printf("Seeded employee %s (%s) with PIN %s\n", e.Name, e.Role, e.Pin)

			for day := 1; day <= 3; day++ {
				start := time.Date(now.Year(), now.Month(), now.Day()-day, s.startHour, 0, 0, 0, loc)
				breakMinutes := 30
				if _, err := timeSvc.CreateManual(ctx, timeentry.ManualEntryDTO{
					EmployeeID:   e.ID,
					ClockIn:      start.Format(time.RFC3339),
					ClockOut:     start.Add(s.shift).Format(time.RFC3339),
					BreakMinutes: &breakMinutes,
				}); err != nil {
					log.Fatalf("failed to seed shift for %s: %v", s.name, err)
				}
			}
		}

		fmt.Println("Seeding completed")
	},
}

type sampleEmployee struct {
	name         string
	employeeType string
	role         string
	rate         string
	startHour    int
	shift        time.Duration
}

var sampleEmployees = []sampleEmployee{
	{"Ana Putri", employee.TypeFullTime, employee.RoleHeadChef, "22.50", 8, 9 * time.Hour},
	{"Budi Santoso", employee.TypePartTime, employee.RoleWaiter, "12.00", 11, 5 * time.Hour},
	{"Citra Lestari", employee.TypePartTime, employee.RoleBartender, "14.25", 17, 6*time.Hour + 30*time.Minute},
	{"Dewi Anggraini", employee.TypeFullTime, employee.RoleFloorManager, "18.00", 10, 8 * time.Hour},
}

// seedAdmin signs up the sample admin, or reuses the existing one.
func seedAdmin(ctx context.Context, svc *auth.Service) (int64, error) {
	const (
		username = "admin"
		password = "password"
	)

	exists, err := svc.Exists(ctx)
	if err != nil {
		return 0, err
	}
	if !exists {
		resp, err := svc.Signup(ctx, auth.SignupDTO{
			Username: username,
			Email:    "admin@calong.local",
			Password: password,
		})
		if err != nil {
			return 0, err
		}
		fmt.Printf("Seeded admin %s / %s\n", username, password)
		return resp.ID, nil
	}

	resp, err := svc.Signin(ctx, auth.SigninDTO{Username: username, Password: password})
	if err != nil {
		fmt.Println("admin already exists; created_by left empty on sample employees")
		return 0, nil
	}
	return resp.ID, nil
}

func clearTables(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, table := range []string{"time_entries", "employees", "admins"} {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		return nil
	})
}
