package periods

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/contalibre/contalibre/internal/ledger/shared"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// WithNow overrides the clock for deterministic tests.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

func (s *Service) List(ctx context.Context, userID int64) ([]Period, error) {
	return s.repo.List(ctx, userID)
}

func (s *Service) Get(ctx context.Context, userID, periodID int64) (Period, error) {
	return s.repo.FindByID(ctx, userID, periodID)
}

// Previous returns the period that ends most recently before the given
// one, or ErrPeriodNotFound when it is the user's earliest period.
func (s *Service) Previous(ctx context.Context, userID, periodID int64) (Period, error) {
	current, err := s.repo.FindByID(ctx, userID, periodID)
	if err != nil {
		return Period{}, err
	}
	return s.repo.FindPrevious(ctx, userID, current.StartsAt)
}

// Create registers an explicit period after checking for overlap with
// existing ranges owned by the same user.
func (s *Service) Create(ctx context.Context, userID int64, name string, startsAt, endsAt time.Time) (Period, error) {
	if strings.TrimSpace(name) == "" {
		return Period{}, fmt.Errorf("%w: period name required", shared.ErrInvalidInput)
	}
	if startsAt.IsZero() || endsAt.IsZero() {
		return Period{}, fmt.Errorf("%w: start and end date required", shared.ErrInvalidInput)
	}
	if startsAt.After(endsAt) {
		return Period{}, fmt.Errorf("%w: start date after end date", shared.ErrInvalidInput)
	}
	conflict, err := s.repo.RangeConflict(ctx, userID, startsAt, endsAt)
	if err != nil {
		return Period{}, err
	}
	if conflict {
		return Period{}, shared.ErrPeriodOverlap
	}
	return s.repo.Insert(ctx, userID, name, startsAt, endsAt)
}

// EnsureCurrent returns the period covering the current calendar month,
// creating it on first use. This is a convenience adapter for HTTP
// handlers; engine operations always receive explicit period ids.
func (s *Service) EnsureCurrent(ctx context.Context, userID int64) (Period, error) {
	now := s.now().UTC()
	period, err := s.repo.FindByDate(ctx, userID, now)
	if err == nil {
		return period, nil
	}
	if !errors.Is(err, shared.ErrPeriodNotFound) {
		return Period{}, err
	}
	start, end := MonthBounds(now)
	period, err = s.repo.Insert(ctx, userID, MonthName(now), start, end)
	if err != nil {
		// A concurrent request may have created the month first.
		if existing, findErr := s.repo.FindByDate(ctx, userID, now); findErr == nil {
			return existing, nil
		}
		return Period{}, err
	}
	return period, nil
}
