package postgres

import (
	"context"
	"strings"

	"github.com/frahmantamala/calong-tick/internal/report"
	"github.com/jmoiron/sqlx"
)

type ReportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) report.RepositoryAPI {
	return &ReportRepository{db: db}
}

// Summary restricts entries inside the join condition so that active
// employees without matching entries still produce a row.
func (r *ReportRepository) Summary(ctx context.Context, employeeID *int64, window report.Window) ([]report.Row, error) {
	var (
		join strings.Builder
		args []interface{}
	)

	join.WriteString("LEFT JOIN time_entries te ON te.employee_id = e.id")
	if window.Week > 0 {
		join.WriteString(" AND te.entry_week = ?")
		args = append(args, window.Week)
	}
	if window.Month > 0 {
		join.WriteString(" AND te.entry_month = ?")
		args = append(args, window.Month)
	}
	if window.Year > 0 {
		join.WriteString(" AND te.entry_year = ?")
		args = append(args, window.Year)
	}

	where := "WHERE e.is_active = ?"
	args = append(args, true)
	if employeeID != nil {
		where += " AND e.id = ?"
		args = append(args, *employeeID)
	}

	query := `
		SELECT
			e.id AS employee_id,
			e.name AS employee_name,
			e.employee_type AS employee_type,
			e.hourly_rate AS hourly_rate,
			COUNT(te.id) AS total_entries,
			SUM(te.total_minutes) AS total_minutes,
			MIN(te.entry_date) AS first_entry,
			MAX(te.entry_date) AS last_entry
		FROM employees e
		` + join.String() + `
		` + where + `
		GROUP BY e.id, e.name, e.employee_type, e.hourly_rate
		ORDER BY e.name, e.id`

	rows := []report.Row{}
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	return rows, nil
}
