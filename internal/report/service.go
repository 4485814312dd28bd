package report

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/calong-tick/internal"
	"github.com/frahmantamala/calong-tick/internal/worktime"
)

type RepositoryAPI interface {
	// Summary returns one row per active employee, ordered by name, with
	// entries restricted to window.
	Summary(ctx context.Context, employeeID *int64, window Window) ([]Row, error)
}

type ServiceAPI interface {
	Summarize(ctx context.Context, filter Filter) ([]SummaryRow, error)
}

type Option func(*Service)

// WithClock replaces time.Now when resolving the current period.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

type Service struct {
	repo   RepositoryAPI
	loc    *time.Location
	now    func() time.Time
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, loc *time.Location, logger *slog.Logger, opts ...Option) *Service {
	if loc == nil {
		loc = time.UTC
	}
	s := &Service{
		repo:   repo,
		loc:    loc,
		now:    time.Now,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Summarize(ctx context.Context, filter Filter) ([]SummaryRow, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	window := filter.Resolve(worktime.CurrentPeriod(s.now(), s.loc))
	rows, err := s.repo.Summary(ctx, filter.EmployeeID, window)
	if err != nil {
		s.logger.Error("failed to build summary report", "period", filter.Period, "error", err)
		return nil, internal.NewInternalError("failed to generate report", err)
	}

	return Aggregate(rows), nil
}
