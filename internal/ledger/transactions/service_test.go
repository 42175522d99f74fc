package transactions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/contalibre/contalibre/internal/ledger/catalog"
	"github.com/contalibre/contalibre/internal/ledger/periods"
	"github.com/contalibre/contalibre/internal/ledger/shared"
)

type memoryLedger struct {
	period       periods.Period
	periodErr    error
	closed       bool
	entries      map[int64]Transaction
	lines        map[int64][]Line
	nextID       int64
	linesErr     error
	rollbackFail bool
}

func newMemoryLedger(period periods.Period) *memoryLedger {
	return &memoryLedger{
		period:  period,
		entries: make(map[int64]Transaction),
		lines:   make(map[int64][]Line),
	}
}

func (r *memoryLedger) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	err := fn(ctx, &memoryLedgerTx{repo: r})
	if err != nil && r.rollbackFail {
		return errors.Join(shared.ErrPostingIncomplete, err)
	}
	return err
}

func (r *memoryLedger) ListRecent(ctx context.Context, userID, periodID int64, limit int) ([]Transaction, error) {
	var out []Transaction
	for _, t := range r.entries {
		if t.Status && t.PeriodID == periodID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *memoryLedger) FindByID(ctx context.Context, userID, transactionID int64) (Transaction, error) {
	t, ok := r.entries[transactionID]
	if !ok {
		return Transaction{}, shared.ErrTransactionNotFound
	}
	return t, nil
}

func (r *memoryLedger) FindByRef(ctx context.Context, userID int64, ref uuid.UUID) (Transaction, error) {
	for _, t := range r.entries {
		if t.Ref == ref {
			return t, nil
		}
	}
	return Transaction{}, shared.ErrTransactionNotFound
}

func (r *memoryLedger) FindActiveClosing(ctx context.Context, userID, periodID int64) (Transaction, error) {
	for _, t := range r.entries {
		if t.Status && t.Type == TypeCierre && t.PeriodID == periodID {
			return t, nil
		}
	}
	return Transaction{}, shared.ErrNotClosed
}

func (r *memoryLedger) ClosingStatus(ctx context.Context, userID int64, periodIDs []int64) (map[int64]bool, error) {
	status := make(map[int64]bool, len(periodIDs))
	for _, id := range periodIDs {
		status[id] = false
		for _, t := range r.entries {
			if t.Status && t.Type == TypeCierre && t.PeriodID == id {
				status[id] = true
			}
		}
	}
	return status, nil
}

func (r *memoryLedger) UpdateStatus(ctx context.Context, userID, transactionID int64, status bool) error {
	t, ok := r.entries[transactionID]
	if !ok {
		return shared.ErrTransactionNotFound
	}
	t.Status = status
	r.entries[transactionID] = t
	return nil
}

type memoryLedgerTx struct {
	repo *memoryLedger
}

func (tx *memoryLedgerTx) GetPeriod(ctx context.Context, userID, periodID int64) (periods.Period, error) {
	if tx.repo.periodErr != nil {
		return periods.Period{}, tx.repo.periodErr
	}
	return tx.repo.period, nil
}

func (tx *memoryLedgerTx) HasActiveClosing(ctx context.Context, userID, periodID int64) (bool, error) {
	return tx.repo.closed, nil
}

func (tx *memoryLedgerTx) InsertTransaction(ctx context.Context, userID int64, in ProposalInput, amount float64) (Transaction, error) {
	if in.Ref != uuid.Nil {
		for _, t := range tx.repo.entries {
			if t.Ref == in.Ref {
				return Transaction{}, shared.ErrDuplicateRef
			}
		}
	}
	tx.repo.nextID++
	entry := Transaction{
		ID:          tx.repo.nextID,
		Ref:         in.Ref,
		UserID:      userID,
		PeriodID:    in.PeriodID,
		Date:        in.Date,
		Description: in.Description,
		Type:        in.Type,
		Status:      true,
		Amount:      amount,
	}
	tx.repo.entries[entry.ID] = entry
	return entry, nil
}

func (tx *memoryLedgerTx) InsertLines(ctx context.Context, transactionID int64, lines []LineInput) error {
	if tx.repo.linesErr != nil {
		return tx.repo.linesErr
	}
	for _, in := range lines {
		tx.repo.lines[transactionID] = append(tx.repo.lines[transactionID], Line{
			TransactionID: transactionID,
			AccountCode:   in.AccountCode,
			Debit:         in.Debit,
			Credit:        in.Credit,
		})
	}
	return nil
}

type staticCatalog struct {
	accounts map[int64]catalog.Account
}

func (c staticCatalog) Resolve(ctx context.Context, code int64) (catalog.Account, error) {
	account, ok := c.accounts[code]
	if !ok {
		return catalog.Account{}, shared.ErrAccountNotFound
	}
	return account, nil
}

type bumpRecorder struct {
	calls int
}

func (b *bumpRecorder) Bump(ctx context.Context, userID, periodID int64) error {
	b.calls++
	return nil
}

func testPeriod() periods.Period {
	return periods.Period{
		ID:       1,
		UserID:   7,
		Name:     "Enero 2025",
		StartsAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndsAt:   time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
	}
}

func testCatalog() staticCatalog {
	return staticCatalog{accounts: map[int64]catalog.Account{
		110101: {Code: 110101, Name: "Caja", Type: catalog.AccountTypeAsset, IsDetail: true, IsActive: true},
		410101: {Code: 410101, Name: "Ventas", Type: catalog.AccountTypeRevenue, IsDetail: true, IsActive: true},
		1000:   {Code: 1000, Name: "Activo", Type: catalog.AccountTypeAsset, IsDetail: false, IsActive: true},
	}}
}

func TestPostCommitsBalancedTransaction(t *testing.T) {
	repo := newMemoryLedger(testPeriod())
	bumps := &bumpRecorder{}
	svc := NewService(repo, testCatalog(), bumps, nil)

	entry, err := svc.Post(context.Background(), 7, validProposal())
	require.NoError(t, err)
	require.NotZero(t, entry.ID)
	require.True(t, entry.Status)
	require.Equal(t, 1000.0, entry.Amount)
	require.Len(t, repo.lines[entry.ID], 2)
	require.Equal(t, 1, bumps.calls)
}

func TestPostRejectsUnknownAccount(t *testing.T) {
	repo := newMemoryLedger(testPeriod())
	svc := NewService(repo, testCatalog(), nil, nil)

	in := validProposal()
	in.Lines[0].AccountCode = 999999
	_, err := svc.Post(context.Background(), 7, in)
	require.ErrorIs(t, err, shared.ErrInvalidAccount)
	require.Empty(t, repo.entries)
}

func TestPostRejectsSummaryAccount(t *testing.T) {
	repo := newMemoryLedger(testPeriod())
	svc := NewService(repo, testCatalog(), nil, nil)

	in := validProposal()
	in.Lines[0].AccountCode = 1000
	_, err := svc.Post(context.Background(), 7, in)
	require.ErrorIs(t, err, shared.ErrInvalidAccount)
}

func TestPostRejectsDateOutsidePeriod(t *testing.T) {
	repo := newMemoryLedger(testPeriod())
	svc := NewService(repo, testCatalog(), nil, nil)

	in := validProposal()
	in.Date = time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	_, err := svc.Post(context.Background(), 7, in)
	require.ErrorIs(t, err, shared.ErrInvalidPeriod)
	require.Empty(t, repo.entries)
}

func TestPostRejectsClosedPeriod(t *testing.T) {
	repo := newMemoryLedger(testPeriod())
	repo.closed = true
	svc := NewService(repo, testCatalog(), nil, nil)

	_, err := svc.Post(context.Background(), 7, validProposal())
	require.ErrorIs(t, err, shared.ErrPeriodClosed)
	require.Empty(t, repo.entries)
}

func TestPostVoidsHeaderWhenLinesFailAndRollbackFails(t *testing.T) {
	repo := newMemoryLedger(testPeriod())
	repo.linesErr = shared.WrapStorage("test.lines", context.DeadlineExceeded)
	repo.rollbackFail = true
	svc := NewService(repo, testCatalog(), nil, nil)

	_, err := svc.Post(context.Background(), 7, validProposal())
	require.ErrorIs(t, err, shared.ErrPostingIncomplete)
	// The orphaned header must end up voided.
	require.Len(t, repo.entries, 1)
	for _, entry := range repo.entries {
		require.False(t, entry.Status)
	}
}

func TestPostReplaySameRefReturnsOriginal(t *testing.T) {
	repo := newMemoryLedger(testPeriod())
	bumps := &bumpRecorder{}
	svc := NewService(repo, testCatalog(), bumps, nil)

	in := validProposal()
	in.Ref = uuid.New()

	first, err := svc.Post(context.Background(), 7, in)
	require.NoError(t, err)

	replay, err := svc.Post(context.Background(), 7, in)
	require.NoError(t, err)
	require.Equal(t, first.ID, replay.ID)
	require.Len(t, repo.entries, 1)
	// The replay writes nothing, so the cache stays untouched.
	require.Equal(t, 1, bumps.calls)
}

func TestVoidSoftDeletesAndBumpsCache(t *testing.T) {
	repo := newMemoryLedger(testPeriod())
	bumps := &bumpRecorder{}
	svc := NewService(repo, testCatalog(), bumps, nil)

	entry, err := svc.Post(context.Background(), 7, validProposal())
	require.NoError(t, err)

	require.NoError(t, svc.Void(context.Background(), 7, entry.ID))
	require.False(t, repo.entries[entry.ID].Status)
	require.Equal(t, 2, bumps.calls)
}

func TestVoidRejectsAlreadyVoided(t *testing.T) {
	repo := newMemoryLedger(testPeriod())
	svc := NewService(repo, testCatalog(), nil, nil)

	entry, err := svc.Post(context.Background(), 7, validProposal())
	require.NoError(t, err)
	require.NoError(t, svc.Void(context.Background(), 7, entry.ID))

	err = svc.Void(context.Background(), 7, entry.ID)
	require.ErrorIs(t, err, shared.ErrInvalidStatus)
}

func TestVoidRejectsClosingEntry(t *testing.T) {
	repo := newMemoryLedger(testPeriod())
	svc := NewService(repo, testCatalog(), nil, nil)

	in := validProposal()
	in.Type = TypeCierre
	entry, err := svc.Post(context.Background(), 7, in)
	require.NoError(t, err)

	err = svc.Void(context.Background(), 7, entry.ID)
	require.ErrorIs(t, err, shared.ErrInvalidStatus)
}

func TestVoidRejectsClosedPeriod(t *testing.T) {
	repo := newMemoryLedger(testPeriod())
	svc := NewService(repo, testCatalog(), nil, nil)

	entry, err := svc.Post(context.Background(), 7, validProposal())
	require.NoError(t, err)

	// Posting a closing entry afterwards freezes the period.
	in := validProposal()
	in.Type = TypeCierre
	_, err = svc.Post(context.Background(), 7, in)
	require.NoError(t, err)

	err = svc.Void(context.Background(), 7, entry.ID)
	require.ErrorIs(t, err, shared.ErrPeriodClosed)
}
