package balances

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/contalibre/contalibre/internal/ledger/catalog"
	"github.com/contalibre/contalibre/internal/ledger/shared"
)

type fakeStore struct {
	totals        []AccountBalance
	movements     []Movement
	periodExists  bool
	totalsCalls   int
	movementCalls int
}

func (s *fakeStore) AccountTotals(ctx context.Context, userID, periodID int64) ([]AccountBalance, error) {
	s.totalsCalls++
	out := make([]AccountBalance, len(s.totals))
	copy(out, s.totals)
	return out, nil
}

func (s *fakeStore) MovementsForAccount(ctx context.Context, userID, accountCode, periodID int64) ([]Movement, error) {
	s.movementCalls++
	return s.movements, nil
}

func (s *fakeStore) PeriodExists(ctx context.Context, userID, periodID int64) (bool, error) {
	return s.periodExists, nil
}

type fakeResolver struct {
	accounts map[int64]catalog.Account
}

func (r fakeResolver) Resolve(ctx context.Context, code int64) (catalog.Account, error) {
	account, ok := r.accounts[code]
	if !ok {
		return catalog.Account{}, shared.ErrAccountNotFound
	}
	return account, nil
}

func newTestService(t *testing.T, store *fakeStore) *Service {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	resolver := fakeResolver{accounts: map[int64]catalog.Account{
		110101: {Code: 110101, Name: "Caja", Type: catalog.AccountTypeAsset, Level: 3, IsDetail: true, IsActive: true},
		410101: {Code: 410101, Name: "Ventas", Type: catalog.AccountTypeRevenue, Level: 3, IsDetail: true, IsActive: true},
	}}
	return NewService(store, resolver, NewCache(client, time.Minute))
}

func storedTotals() []AccountBalance {
	return []AccountBalance{
		{Code: 110101, Name: "Caja", Type: catalog.AccountTypeAsset, TotalDebit: 1000, TotalCredit: 300},
		{Code: 410101, Name: "Ventas", Type: catalog.AccountTypeRevenue, TotalDebit: 0, TotalCredit: 1000},
	}
}

func TestDetailBalancesAppliesNormalSide(t *testing.T) {
	store := &fakeStore{totals: storedTotals(), periodExists: true}
	svc := newTestService(t, store)

	out, err := svc.DetailBalances(context.Background(), 7, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 balances, got %d", len(out))
	}
	if out[0].Balance != 700 {
		t.Fatalf("asset balance: expected 700, got %.2f", out[0].Balance)
	}
	if out[1].Balance != 1000 {
		t.Fatalf("revenue balance: expected 1000, got %.2f", out[1].Balance)
	}
}

func TestDetailBalancesServedFromCache(t *testing.T) {
	store := &fakeStore{totals: storedTotals(), periodExists: true}
	svc := newTestService(t, store)

	if _, err := svc.DetailBalances(context.Background(), 7, 1); err != nil {
		t.Fatalf("first call: %v", err)
	}
	if _, err := svc.DetailBalances(context.Background(), 7, 1); err != nil {
		t.Fatalf("second call: %v", err)
	}
	if store.totalsCalls != 1 {
		t.Fatalf("expected a single store hit, got %d", store.totalsCalls)
	}
}

func TestBumpInvalidatesCachedBalances(t *testing.T) {
	store := &fakeStore{totals: storedTotals(), periodExists: true}
	svc := newTestService(t, store)

	if _, err := svc.DetailBalances(context.Background(), 7, 1); err != nil {
		t.Fatalf("warm call: %v", err)
	}
	if err := svc.Bump(context.Background(), 7, 1); err != nil {
		t.Fatalf("bump: %v", err)
	}
	if _, err := svc.DetailBalances(context.Background(), 7, 1); err != nil {
		t.Fatalf("call after bump: %v", err)
	}
	if store.totalsCalls != 2 {
		t.Fatalf("expected store recomputation after bump, got %d hits", store.totalsCalls)
	}
}

func TestDetailBalancesRejectsUnknownPeriod(t *testing.T) {
	store := &fakeStore{periodExists: false}
	svc := newTestService(t, store)

	_, err := svc.DetailBalances(context.Background(), 7, 99)
	if err == nil || err != shared.ErrPeriodNotFound {
		t.Fatalf("expected ErrPeriodNotFound, got %v", err)
	}
	if store.totalsCalls != 0 {
		t.Fatalf("store should not be queried for unknown periods")
	}
}

func TestAccountBalanceWithoutMovementsReportsZero(t *testing.T) {
	store := &fakeStore{totals: storedTotals(), periodExists: true}
	svc := newTestService(t, store)

	b, err := svc.AccountBalance(context.Background(), 7, 410101, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Balance != 1000 {
		t.Fatalf("account with movements: expected 1000, got %.2f", b.Balance)
	}

	store.totals = nil
	if err := svc.Bump(context.Background(), 7, 1); err != nil {
		t.Fatalf("bump: %v", err)
	}
	b, err = svc.AccountBalance(context.Background(), 7, 410101, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Balance != 0 || b.Name != "Ventas" {
		t.Fatalf("expected zero balance with catalog metadata, got %+v", b)
	}
}

func TestAccountBalanceRejectsUnknownAccount(t *testing.T) {
	store := &fakeStore{periodExists: true}
	svc := newTestService(t, store)

	_, err := svc.AccountBalance(context.Background(), 7, 999999, 1)
	if err == nil || err != shared.ErrAccountNotFound {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestRunningBalanceUsesAccountSide(t *testing.T) {
	day := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
	store := &fakeStore{
		periodExists: true,
		movements: []Movement{
			{TransactionID: 1, Date: day, Credit: 800},
			{TransactionID: 2, Date: day.AddDate(0, 0, 3), Debit: 100},
		},
	}
	svc := newTestService(t, store)

	entries, err := svc.RunningBalance(context.Background(), 7, 410101, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Balance != 800 || entries[1].Balance != 700 {
		t.Fatalf("unexpected running balances: %.2f, %.2f", entries[0].Balance, entries[1].Balance)
	}
}

func TestStatementTotalsGroupsByType(t *testing.T) {
	store := &fakeStore{totals: storedTotals(), periodExists: true}
	svc := newTestService(t, store)

	totals, err := svc.StatementTotals(context.Background(), 7, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if totals.Assets != 700 || totals.Revenue != 1000 {
		t.Fatalf("unexpected totals: %+v", totals)
	}
	if totals.NetIncome() != 1000 {
		t.Fatalf("expected net income 1000, got %.2f", totals.NetIncome())
	}
}
