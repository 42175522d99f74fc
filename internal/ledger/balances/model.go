package balances

import (
	"time"

	"github.com/contalibre/contalibre/internal/ledger/catalog"
)

// AccountBalance aggregates one account's movements in a period. The
// balance is normal-side corrected: positive always means the balance
// leans the expected way for the account type.
type AccountBalance struct {
	Code        int64               `json:"code"`
	Name        string              `json:"name"`
	Type        catalog.AccountType `json:"type"`
	Level       int                 `json:"level"`
	Balance     float64             `json:"balance"`
	TotalDebit  float64             `json:"total_debit"`
	TotalCredit float64             `json:"total_credit"`
}

// Totals groups statement-level aggregates by account type.
type Totals struct {
	Assets      float64 `json:"assets"`
	Liabilities float64 `json:"liabilities"`
	Equity      float64 `json:"equity"`
	Revenue     float64 `json:"revenue"`
	Costs       float64 `json:"costs"`
	Expenses    float64 `json:"expenses"`
}

// NetIncome is revenue minus costs and expenses.
func (t Totals) NetIncome() float64 {
	return t.Revenue - t.Costs - t.Expenses
}

// Movement is one ledger line with its transaction context, used for
// T-account displays.
type Movement struct {
	TransactionID   int64     `json:"transaction_id"`
	Date            time.Time `json:"date"`
	Description     string    `json:"description"`
	ReferenceNumber *string   `json:"reference_number,omitempty"`
	Debit           float64   `json:"debit"`
	Credit          float64   `json:"credit"`
}

// Entry pairs a movement with the cumulative balance immediately after
// it.
type Entry struct {
	Movement
	Balance float64 `json:"running_balance"`
}
