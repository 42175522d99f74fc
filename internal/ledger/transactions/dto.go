package transactions

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/contalibre/contalibre/internal/ledger/shared"
)

// BalanceTolerance is the maximum accepted debit/credit drift, in
// currency units.
const BalanceTolerance = 0.01

// LineInput describes one proposed transaction line.
type LineInput struct {
	AccountCode int64
	Debit       float64
	Credit      float64
}

// ProposalInput groups the fields required to post a transaction.
type ProposalInput struct {
	PeriodID        int64
	Date            time.Time
	Description     string
	ReferenceNumber string
	Type            TransactionType
	// Ref is an optional idempotency key; replays with the same ref
	// return the original transaction instead of double-posting.
	Ref   uuid.UUID
	Lines []LineInput
}

// Validate runs the shape and balance checks. It touches no storage;
// account and period checks happen inside Post.
func (in ProposalInput) Validate() error {
	if in.PeriodID == 0 {
		return fmt.Errorf("%w: period required", shared.ErrInvalidInput)
	}
	if in.Date.IsZero() {
		return fmt.Errorf("%w: date required", shared.ErrInvalidInput)
	}
	if strings.TrimSpace(in.Description) == "" {
		return fmt.Errorf("%w: description required", shared.ErrInvalidInput)
	}
	switch in.Type {
	case TypeDiario, TypeAjuste, TypeCierre:
	default:
		return fmt.Errorf("%w: unknown transaction type %q", shared.ErrInvalidInput, in.Type)
	}
	if len(in.Lines) < 2 {
		return shared.ErrTooFewLines
	}
	var debit, credit float64
	for idx, line := range in.Lines {
		if line.AccountCode <= 0 {
			return fmt.Errorf("%w: line %d missing account", shared.ErrInvalidInput, idx)
		}
		if line.Debit < 0 || line.Credit < 0 {
			return fmt.Errorf("%w: line %d negative amount", shared.ErrInvalidInput, idx)
		}
		if line.Debit > 0 && line.Credit > 0 {
			return fmt.Errorf("%w: line %d cannot be both debit and credit", shared.ErrInvalidInput, idx)
		}
		debit += line.Debit
		credit += line.Credit
	}
	if math.Abs(debit-credit) > BalanceTolerance {
		return shared.ErrUnbalanced
	}
	return nil
}

// TotalDebit sums the debit side; after validation it equals the
// transaction amount.
func (in ProposalInput) TotalDebit() float64 {
	var total float64
	for _, line := range in.Lines {
		total += line.Debit
	}
	return total
}
