package dashboard

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/contalibre/contalibre/internal/ledger/balances"
	"github.com/contalibre/contalibre/internal/ledger/periods"
	"github.com/contalibre/contalibre/internal/ledger/shared"
	"github.com/contalibre/contalibre/internal/ledger/transactions"
	"github.com/contalibre/contalibre/internal/reports"
)

const recentLimit = 10

// BalanceSource reads the period's account balances.
type BalanceSource interface {
	DetailBalances(ctx context.Context, userID, periodID int64) ([]balances.AccountBalance, error)
}

// TransactionSource lists recent activity.
type TransactionSource interface {
	ListRecent(ctx context.Context, userID, periodID int64, limit int) ([]transactions.Transaction, error)
}

// PeriodSource resolves the working period and its predecessor.
type PeriodSource interface {
	EnsureCurrent(ctx context.Context, userID int64) (periods.Period, error)
	Get(ctx context.Context, userID, periodID int64) (periods.Period, error)
	Previous(ctx context.Context, userID, periodID int64) (periods.Period, error)
}

// ClosingSource reports closed periods.
type ClosingSource interface {
	ClosingStatus(ctx context.Context, userID int64, periodIDs []int64) (map[int64]bool, error)
}

// Deltas compares headline totals against the previous period.
type Deltas struct {
	PreviousPeriod string  `json:"previous_period"`
	Assets         float64 `json:"assets"`
	Liabilities    float64 `json:"liabilities"`
	Revenue        float64 `json:"revenue"`
	Expenses       float64 `json:"expenses"`
}

// View is the single-request dashboard payload.
type View struct {
	Period   periods.Period             `json:"period"`
	IsClosed bool                       `json:"is_closed"`
	Summary  reports.ExecutiveSummary   `json:"summary"`
	Deltas   *Deltas                    `json:"deltas,omitempty"`
	Balances []balances.AccountBalance  `json:"balances"`
	Recent   []transactions.Transaction `json:"recent_transactions"`
}

// Service assembles the dashboard in one shot so the UI issues a single
// request per page load.
type Service struct {
	balances BalanceSource
	ledger   TransactionSource
	periods  PeriodSource
	closing  ClosingSource
}

func NewService(balanceSrc BalanceSource, ledger TransactionSource, periodSrc PeriodSource, closing ClosingSource) *Service {
	return &Service{balances: balanceSrc, ledger: ledger, periods: periodSrc, closing: closing}
}

// Load gathers balances, recent transactions, and closing status for
// the period concurrently. periodID zero selects the current calendar
// month, creating it on first use.
func (s *Service) Load(ctx context.Context, userID, periodID int64) (View, error) {
	var period periods.Period
	var err error
	if periodID == 0 {
		period, err = s.periods.EnsureCurrent(ctx, userID)
	} else {
		period, err = s.periods.Get(ctx, userID, periodID)
	}
	if err != nil {
		return View{}, err
	}

	view := View{Period: period}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		detail, err := s.balances.DetailBalances(gctx, userID, period.ID)
		if err != nil {
			return err
		}
		view.Balances = detail
		view.Summary = reports.BuildExecutiveSummary(period.Name, detail)
		return nil
	})
	g.Go(func() error {
		recent, err := s.ledger.ListRecent(gctx, userID, period.ID, recentLimit)
		if err != nil {
			return err
		}
		view.Recent = recent
		return nil
	})
	g.Go(func() error {
		closed, err := s.closing.ClosingStatus(gctx, userID, []int64{period.ID})
		if err != nil {
			return err
		}
		view.IsClosed = closed[period.ID]
		return nil
	})
	g.Go(func() error {
		deltas, err := s.loadDeltas(gctx, userID, period.ID)
		if err != nil {
			return err
		}
		view.Deltas = deltas
		return nil
	})
	if err := g.Wait(); err != nil {
		return View{}, err
	}
	return view, nil
}

// loadDeltas compares the period's totals with the previous one. The
// user's earliest period has nothing to compare against and reports nil.
func (s *Service) loadDeltas(ctx context.Context, userID, periodID int64) (*Deltas, error) {
	previous, err := s.periods.Previous(ctx, userID, periodID)
	if err != nil {
		if errors.Is(err, shared.ErrPeriodNotFound) {
			return nil, nil
		}
		return nil, err
	}
	current, err := s.balances.DetailBalances(ctx, userID, periodID)
	if err != nil {
		return nil, err
	}
	prior, err := s.balances.DetailBalances(ctx, userID, previous.ID)
	if err != nil {
		return nil, err
	}
	now := balances.StatementTotals(current)
	then := balances.StatementTotals(prior)
	return &Deltas{
		PreviousPeriod: previous.Name,
		Assets:         now.Assets - then.Assets,
		Liabilities:    now.Liabilities - then.Liabilities,
		Revenue:        now.Revenue - then.Revenue,
		Expenses:       now.Expenses - then.Expenses,
	}, nil
}
