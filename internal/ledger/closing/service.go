package closing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/contalibre/contalibre/internal/ledger/balances"
	"github.com/contalibre/contalibre/internal/ledger/catalog"
	"github.com/contalibre/contalibre/internal/ledger/periods"
	"github.com/contalibre/contalibre/internal/ledger/shared"
	"github.com/contalibre/contalibre/internal/ledger/transactions"
)

// Poster submits the generated closing proposal.
type Poster interface {
	Post(ctx context.Context, userID int64, in transactions.ProposalInput) (transactions.Transaction, error)
}

// BalanceSource reads balances and invalidates their cache.
type BalanceSource interface {
	DetailBalances(ctx context.Context, userID, periodID int64) ([]balances.AccountBalance, error)
	Bump(ctx context.Context, userID, periodID int64) error
}

// ClosingLedger queries and voids closing transactions.
type ClosingLedger interface {
	FindActiveClosing(ctx context.Context, userID, periodID int64) (transactions.Transaction, error)
	ClosingStatus(ctx context.Context, userID int64, periodIDs []int64) (map[int64]bool, error)
	UpdateStatus(ctx context.Context, userID, transactionID int64, status bool) error
}

// PeriodSource resolves period metadata.
type PeriodSource interface {
	Get(ctx context.Context, userID, periodID int64) (periods.Period, error)
}

// ClosingCounter records completed closings for observability.
type ClosingCounter interface {
	CountClosing()
}

// Service zeroes temporary accounts into the period result. A period is
// closed exactly when an active CIERRE transaction exists for it; there
// is no stored flag to drift out of sync.
type Service struct {
	poster   Poster
	balances BalanceSource
	ledger   ClosingLedger
	periods  PeriodSource
	metrics  ClosingCounter
	logger   *slog.Logger
	now      func() time.Time
}

func NewService(poster Poster, balanceSrc BalanceSource, ledger ClosingLedger, periodSrc PeriodSource, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		poster:   poster,
		balances: balanceSrc,
		ledger:   ledger,
		periods:  periodSrc,
		logger:   logger,
		now:      time.Now,
	}
}

// WithNow overrides the clock for deterministic tests.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// WithMetrics attaches a closing counter.
func (s *Service) WithMetrics(metrics ClosingCounter) {
	s.metrics = metrics
}

// Close computes net income, builds the closing transaction, and posts
// it. Revenue accounts with a positive balance are debited to zero,
// cost and expense accounts credited to zero, and the remainder lands
// on the profit or loss account. Two concurrent closes cannot both
// succeed: the storage layer keeps a uniqueness guard on active CIERRE
// entries and the loser surfaces ErrAlreadyClosed.
func (s *Service) Close(ctx context.Context, userID, periodID int64) (CloseResult, error) {
	period, err := s.periods.Get(ctx, userID, periodID)
	if err != nil {
		return CloseResult{}, err
	}
	if _, err := s.ledger.FindActiveClosing(ctx, userID, periodID); err == nil {
		return CloseResult{}, shared.ErrAlreadyClosed
	} else if !errors.Is(err, shared.ErrNotClosed) {
		return CloseResult{}, err
	}

	detail, err := s.balances.DetailBalances(ctx, userID, periodID)
	if err != nil {
		return CloseResult{}, err
	}

	var netIncome float64
	var lines []transactions.LineInput
	for _, b := range detail {
		if b.Balance <= 0 {
			continue
		}
		switch b.Type {
		case catalog.AccountTypeRevenue:
			netIncome += b.Balance
			lines = append(lines, transactions.LineInput{AccountCode: b.Code, Debit: b.Balance})
		case catalog.AccountTypeCost, catalog.AccountTypeExpense:
			netIncome -= b.Balance
			lines = append(lines, transactions.LineInput{AccountCode: b.Code, Credit: b.Balance})
		}
	}
	if len(lines) == 0 {
		return CloseResult{}, shared.ErrNothingToClose
	}
	if netIncome > 0 {
		lines = append(lines, transactions.LineInput{AccountCode: catalog.AccountCurrentProfit, Credit: netIncome})
	} else if netIncome < 0 {
		lines = append(lines, transactions.LineInput{AccountCode: catalog.AccountCurrentLoss, Debit: math.Abs(netIncome)})
	}

	entry, err := s.poster.Post(ctx, userID, transactions.ProposalInput{
		PeriodID:    periodID,
		Date:        period.EndsAt,
		Description: fmt.Sprintf("Cierre del período %s", period.Name),
		Type:        transactions.TypeCierre,
		Lines:       lines,
	})
	if err != nil {
		return CloseResult{}, err
	}
	if s.metrics != nil {
		s.metrics.CountClosing()
	}
	s.logger.Info("period closed",
		slog.Int64("user_id", userID),
		slog.Int64("period_id", periodID),
		slog.Int64("transaction_id", entry.ID),
		slog.Float64("net_income", netIncome))
	return CloseResult{PeriodID: periodID, TransactionID: entry.ID, NetIncome: netIncome}, nil
}

// Reopen soft-voids the active closing transaction, restoring every
// temporary account to its pre-close balance. The entry stays on record
// for audit history.
func (s *Service) Reopen(ctx context.Context, userID, periodID int64) error {
	if _, err := s.periods.Get(ctx, userID, periodID); err != nil {
		return err
	}
	entry, err := s.ledger.FindActiveClosing(ctx, userID, periodID)
	if err != nil {
		return err
	}
	if err := s.ledger.UpdateStatus(ctx, userID, entry.ID, false); err != nil {
		return err
	}
	if err := s.balances.Bump(ctx, userID, periodID); err != nil {
		s.logger.Warn("bump balance cache", slog.Any("error", err))
	}
	s.logger.Info("period reopened",
		slog.Int64("user_id", userID),
		slog.Int64("period_id", periodID),
		slog.Int64("transaction_id", entry.ID))
	return nil
}

// ClosingStatus reports, for each period id, whether an active closing
// transaction exists.
func (s *Service) ClosingStatus(ctx context.Context, userID int64, periodIDs []int64) (map[int64]bool, error) {
	return s.ledger.ClosingStatus(ctx, userID, periodIDs)
}
