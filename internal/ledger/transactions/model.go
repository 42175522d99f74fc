package transactions

import (
	"time"

	"github.com/google/uuid"
)

// TransactionType distinguishes ordinary, adjustment, and closing entries.
type TransactionType string

const (
	TypeDiario TransactionType = "DIARIO"
	TypeAjuste TransactionType = "AJUSTE"
	TypeCierre TransactionType = "CIERRE"
)

// Transaction is a posted journal entry. Status false marks a soft
// delete; voided entries stay on record but never contribute to
// balances.
type Transaction struct {
	ID              int64           `json:"id"`
	Ref             uuid.UUID       `json:"ref"`
	UserID          int64           `json:"-"`
	PeriodID        int64           `json:"period_id"`
	Date            time.Time       `json:"date"`
	Description     string          `json:"description"`
	ReferenceNumber *string         `json:"reference_number,omitempty"`
	Type            TransactionType `json:"type"`
	Status          bool            `json:"status"`
	Amount          float64         `json:"amount"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	Lines           []Line          `json:"lines,omitempty"`
}

// Line stores the debit or credit amount for one account. The balance
// invariant is enforced at the transaction level, not per line.
type Line struct {
	ID            int64   `json:"id"`
	TransactionID int64   `json:"-"`
	AccountCode   int64   `json:"account_code"`
	AccountName   string  `json:"account_name,omitempty"`
	Debit         float64 `json:"debit"`
	Credit        float64 `json:"credit"`
}
