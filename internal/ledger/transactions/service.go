package transactions

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/contalibre/contalibre/internal/ledger/catalog"
	"github.com/contalibre/contalibre/internal/ledger/shared"
)

// AccountResolver looks up chart accounts during validation.
type AccountResolver interface {
	Resolve(ctx context.Context, code int64) (catalog.Account, error)
}

// BalanceInvalidator drops cached balances after a successful write.
type BalanceInvalidator interface {
	Bump(ctx context.Context, userID, periodID int64) error
}

// PostingCounter records posted transactions for observability.
type PostingCounter interface {
	CountPosting(transactionType string)
}

// Service validates and posts transactions. Checks run in a fixed
// order (balance, accounts, period date, period open) and the first
// failure short-circuits before any write.
type Service struct {
	repo    Repository
	catalog AccountResolver
	cache   BalanceInvalidator
	metrics PostingCounter
	logger  *slog.Logger
	now     func() time.Time
}

func NewService(repo Repository, resolver AccountResolver, cache BalanceInvalidator, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, catalog: resolver, cache: cache, logger: logger, now: time.Now}
}

// WithNow overrides the clock for deterministic tests.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// WithMetrics attaches a posting counter.
func (s *Service) WithMetrics(metrics PostingCounter) {
	s.metrics = metrics
}

// Post validates the proposal and commits it atomically. The returned
// transaction carries its generated id and lines.
func (s *Service) Post(ctx context.Context, userID int64, in ProposalInput) (Transaction, error) {
	if err := in.Validate(); err != nil {
		return Transaction{}, err
	}
	for _, line := range in.Lines {
		account, err := s.catalog.Resolve(ctx, line.AccountCode)
		if err != nil {
			if errors.Is(err, shared.ErrAccountNotFound) {
				return Transaction{}, shared.ErrInvalidAccount
			}
			return Transaction{}, err
		}
		if !account.Postable() {
			return Transaction{}, shared.ErrInvalidAccount
		}
	}

	amount := in.TotalDebit()
	var entry Transaction
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		period, err := tx.GetPeriod(ctx, userID, in.PeriodID)
		if err != nil {
			return err
		}
		if !period.Contains(in.Date) {
			return shared.ErrInvalidPeriod
		}
		closed, err := tx.HasActiveClosing(ctx, userID, in.PeriodID)
		if err != nil {
			return err
		}
		if closed {
			return shared.ErrPeriodClosed
		}
		inserted, err := tx.InsertTransaction(ctx, userID, in, amount)
		if err != nil {
			return err
		}
		entry = inserted
		if err := tx.InsertLines(ctx, inserted.ID, in.Lines); err != nil {
			return err
		}
		entry.Lines = toLines(inserted.ID, in.Lines)
		return nil
	})
	if err != nil {
		if errors.Is(err, shared.ErrDuplicateRef) && in.Ref != uuid.Nil {
			// Idempotent replay: hand back the transaction the ref
			// already created.
			return s.repo.FindByRef(ctx, userID, in.Ref)
		}
		if errors.Is(err, shared.ErrPostingIncomplete) {
			s.voidPartial(ctx, userID, entry.ID)
		}
		return Transaction{}, err
	}
	s.invalidate(ctx, userID, in.PeriodID)
	if s.metrics != nil {
		s.metrics.CountPosting(string(in.Type))
	}
	s.logger.Info("transaction posted",
		slog.Int64("user_id", userID),
		slog.Int64("period_id", in.PeriodID),
		slog.Int64("transaction_id", entry.ID),
		slog.String("type", string(in.Type)),
		slog.Float64("amount", amount))
	return entry, nil
}

// Void soft-deletes a transaction. Closing entries are excluded; those
// are reversed through the period reopen flow.
func (s *Service) Void(ctx context.Context, userID, transactionID int64) error {
	current, err := s.repo.FindByID(ctx, userID, transactionID)
	if err != nil {
		return err
	}
	if !current.Status {
		return shared.ErrInvalidStatus
	}
	if current.Type == TypeCierre {
		return shared.ErrInvalidStatus
	}
	closing, err := s.repo.ClosingStatus(ctx, userID, []int64{current.PeriodID})
	if err != nil {
		return err
	}
	if closing[current.PeriodID] {
		return shared.ErrPeriodClosed
	}
	if err := s.repo.UpdateStatus(ctx, userID, transactionID, false); err != nil {
		return err
	}
	s.invalidate(ctx, userID, current.PeriodID)
	s.logger.Info("transaction voided",
		slog.Int64("user_id", userID),
		slog.Int64("transaction_id", transactionID))
	return nil
}

// ListRecent returns active transactions in the period, newest first.
func (s *Service) ListRecent(ctx context.Context, userID, periodID int64, limit int) ([]Transaction, error) {
	return s.repo.ListRecent(ctx, userID, periodID, limit)
}

// Get returns one transaction with its lines.
func (s *Service) Get(ctx context.Context, userID, transactionID int64) (Transaction, error) {
	return s.repo.FindByID(ctx, userID, transactionID)
}

func (s *Service) invalidate(ctx context.Context, userID, periodID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Bump(ctx, userID, periodID); err != nil {
		s.logger.Warn("bump balance cache", slog.Any("error", err))
	}
}

func (s *Service) voidPartial(ctx context.Context, userID, transactionID int64) {
	if transactionID == 0 {
		return
	}
	if err := s.repo.UpdateStatus(ctx, userID, transactionID, false); err != nil {
		s.logger.Error("void partial transaction",
			slog.Int64("transaction_id", transactionID), slog.Any("error", err))
	}
}

func toLines(transactionID int64, inputs []LineInput) []Line {
	out := make([]Line, 0, len(inputs))
	for _, in := range inputs {
		out = append(out, Line{
			TransactionID: transactionID,
			AccountCode:   in.AccountCode,
			Debit:         in.Debit,
			Credit:        in.Credit,
		})
	}
	return out
}
