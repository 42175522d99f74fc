package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/contalibre/contalibre/internal/ledger/balances"
	"github.com/contalibre/contalibre/internal/ledger/catalog"
	"github.com/contalibre/contalibre/internal/ledger/periods"
	"github.com/contalibre/contalibre/internal/ledger/shared"
	"github.com/contalibre/contalibre/internal/ledger/transactions"
)

type stubBalances struct {
	detail   []balances.AccountBalance
	byPeriod map[int64][]balances.AccountBalance
	err      error
}

func (s stubBalances) DetailBalances(ctx context.Context, userID, periodID int64) ([]balances.AccountBalance, error) {
	if s.err != nil {
		return nil, s.err
	}
	if detail, ok := s.byPeriod[periodID]; ok {
		return detail, nil
	}
	return s.detail, nil
}

type stubLedger struct {
	recent []transactions.Transaction
}

func (s stubLedger) ListRecent(ctx context.Context, userID, periodID int64, limit int) ([]transactions.Transaction, error) {
	if limit < len(s.recent) {
		return s.recent[:limit], nil
	}
	return s.recent, nil
}

type stubPeriods struct {
	current  periods.Period
	known    map[int64]periods.Period
	previous map[int64]periods.Period
}

func (s stubPeriods) EnsureCurrent(ctx context.Context, userID int64) (periods.Period, error) {
	return s.current, nil
}

func (s stubPeriods) Get(ctx context.Context, userID, periodID int64) (periods.Period, error) {
	p, ok := s.known[periodID]
	if !ok {
		return periods.Period{}, shared.ErrPeriodNotFound
	}
	return p, nil
}

func (s stubPeriods) Previous(ctx context.Context, userID, periodID int64) (periods.Period, error) {
	p, ok := s.previous[periodID]
	if !ok {
		return periods.Period{}, shared.ErrPeriodNotFound
	}
	return p, nil
}

type stubClosing struct {
	closed map[int64]bool
}

func (s stubClosing) ClosingStatus(ctx context.Context, userID int64, periodIDs []int64) (map[int64]bool, error) {
	return s.closed, nil
}

func enero() periods.Period {
	return periods.Period{
		ID:       1,
		Name:     "Enero 2025",
		StartsAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndsAt:   time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
	}
}

func TestLoadAssemblesView(t *testing.T) {
	detail := []balances.AccountBalance{
		{Code: 110101, Type: catalog.AccountTypeAsset, Balance: 1000},
		{Code: 410101, Type: catalog.AccountTypeRevenue, Balance: 600},
	}
	recent := []transactions.Transaction{{ID: 5, Description: "Venta de contado", Status: true}}

	svc := NewService(
		stubBalances{detail: detail},
		stubLedger{recent: recent},
		stubPeriods{known: map[int64]periods.Period{1: enero()}},
		stubClosing{closed: map[int64]bool{1: true}},
	)

	view, err := svc.Load(context.Background(), 7, 1)
	require.NoError(t, err)
	require.Equal(t, "Enero 2025", view.Period.Name)
	require.True(t, view.IsClosed)
	require.Len(t, view.Balances, 2)
	require.Len(t, view.Recent, 1)
	require.Equal(t, 600.0, view.Summary.NetIncome)
	require.Nil(t, view.Deltas)
}

func TestLoadComputesDeltasAgainstPreviousPeriod(t *testing.T) {
	diciembre := periods.Period{
		ID:       2,
		Name:     "Diciembre 2024",
		StartsAt: time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC),
		EndsAt:   time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
	}
	svc := NewService(
		stubBalances{byPeriod: map[int64][]balances.AccountBalance{
			1: {
				{Code: 110101, Type: catalog.AccountTypeAsset, Balance: 1500},
				{Code: 410101, Type: catalog.AccountTypeRevenue, Balance: 900},
			},
			2: {
				{Code: 110101, Type: catalog.AccountTypeAsset, Balance: 1000},
				{Code: 410101, Type: catalog.AccountTypeRevenue, Balance: 600},
			},
		}},
		stubLedger{},
		stubPeriods{
			known:    map[int64]periods.Period{1: enero()},
			previous: map[int64]periods.Period{1: diciembre},
		},
		stubClosing{closed: map[int64]bool{1: false}},
	)

	view, err := svc.Load(context.Background(), 7, 1)
	require.NoError(t, err)
	require.NotNil(t, view.Deltas)
	require.Equal(t, "Diciembre 2024", view.Deltas.PreviousPeriod)
	require.Equal(t, 500.0, view.Deltas.Assets)
	require.Equal(t, 300.0, view.Deltas.Revenue)
}

func TestLoadDefaultsToCurrentPeriod(t *testing.T) {
	svc := NewService(
		stubBalances{},
		stubLedger{},
		stubPeriods{current: enero()},
		stubClosing{closed: map[int64]bool{1: false}},
	)

	view, err := svc.Load(context.Background(), 7, 0)
	require.NoError(t, err)
	require.Equal(t, int64(1), view.Period.ID)
	require.False(t, view.IsClosed)
}

func TestLoadPropagatesUnknownPeriod(t *testing.T) {
	svc := NewService(stubBalances{}, stubLedger{}, stubPeriods{}, stubClosing{})

	_, err := svc.Load(context.Background(), 7, 99)
	require.ErrorIs(t, err, shared.ErrPeriodNotFound)
}

func TestLoadPropagatesBalanceFailure(t *testing.T) {
	svc := NewService(
		stubBalances{err: shared.ErrPeriodNotFound},
		stubLedger{},
		stubPeriods{known: map[int64]periods.Period{1: enero()}},
		stubClosing{closed: map[int64]bool{}},
	)

	_, err := svc.Load(context.Background(), 7, 1)
	require.ErrorIs(t, err, shared.ErrPeriodNotFound)
}
