package balances

import (
	"context"

	"github.com/contalibre/contalibre/internal/ledger/catalog"
	"github.com/contalibre/contalibre/internal/ledger/shared"
)

// AccountResolver supplies catalog metadata for balance computation.
type AccountResolver interface {
	Resolve(ctx context.Context, code int64) (catalog.Account, error)
}

// Service derives account balances, running balances, and statement
// totals from the ledger store. Results are cached per user+period and
// invalidated through Bump.
type Service struct {
	store   Store
	catalog AccountResolver
	cache   *Cache
}

func NewService(store Store, resolver AccountResolver, cache *Cache) *Service {
	return &Service{store: store, catalog: resolver, cache: cache}
}

func (s *Service) requirePeriod(ctx context.Context, userID, periodID int64) error {
	exists, err := s.store.PeriodExists(ctx, userID, periodID)
	if err != nil {
		return err
	}
	if !exists {
		return shared.ErrPeriodNotFound
	}
	return nil
}

// DetailBalances returns normal-side-corrected balances for every
// detail account with movements in the period.
func (s *Service) DetailBalances(ctx context.Context, userID, periodID int64) ([]AccountBalance, error) {
	if err := s.requirePeriod(ctx, userID, periodID); err != nil {
		return nil, err
	}
	var out []AccountBalance
	err := s.cache.FetchJSON(ctx, userID, periodID, "detail", &out, func(ctx context.Context) (any, error) {
		rows, err := s.store.AccountTotals(ctx, userID, periodID)
		if err != nil {
			return nil, err
		}
		for i := range rows {
			side := catalog.SideFor(rows[i].Type)
			rows[i].Balance = Contribution(side, rows[i].TotalDebit, rows[i].TotalCredit)
		}
		return rows, nil
	})
	return out, err
}

// AccountBalance returns the balance of one account in the period. An
// account without movements reports zero.
func (s *Service) AccountBalance(ctx context.Context, userID, accountCode, periodID int64) (AccountBalance, error) {
	account, err := s.catalog.Resolve(ctx, accountCode)
	if err != nil {
		return AccountBalance{}, err
	}
	all, err := s.DetailBalances(ctx, userID, periodID)
	if err != nil {
		return AccountBalance{}, err
	}
	for _, b := range all {
		if b.Code == accountCode {
			return b, nil
		}
	}
	return AccountBalance{
		Code:  account.Code,
		Name:  account.Name,
		Type:  account.Type,
		Level: account.Level,
	}, nil
}

// RunningBalance returns the chronological movements of an account with
// cumulative balances, starting from zero at the period boundary.
func (s *Service) RunningBalance(ctx context.Context, userID, accountCode, periodID int64) ([]Entry, error) {
	account, err := s.catalog.Resolve(ctx, accountCode)
	if err != nil {
		return nil, err
	}
	if err := s.requirePeriod(ctx, userID, periodID); err != nil {
		return nil, err
	}
	movements, err := s.store.MovementsForAccount(ctx, userID, accountCode, periodID)
	if err != nil {
		return nil, err
	}
	return RunningBalance(account.Side(), movements), nil
}

// StatementTotals aggregates balances grouped by account type.
func (s *Service) StatementTotals(ctx context.Context, userID, periodID int64) (Totals, error) {
	all, err := s.DetailBalances(ctx, userID, periodID)
	if err != nil {
		return Totals{}, err
	}
	return StatementTotals(all), nil
}

// Bump invalidates cached balances for the user+period scope.
func (s *Service) Bump(ctx context.Context, userID, periodID int64) error {
	return s.cache.Bump(ctx, userID, periodID)
}
