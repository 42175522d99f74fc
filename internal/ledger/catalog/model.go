package catalog

import "time"

// AccountType enumerates chart of accounts categories.
type AccountType string

const (
	AccountTypeAsset     AccountType = "ASSET"
	AccountTypeLiability AccountType = "LIABILITY"
	AccountTypeEquity    AccountType = "EQUITY"
	AccountTypeRevenue   AccountType = "REVENUE"
	AccountTypeCost      AccountType = "COST"
	AccountTypeExpense   AccountType = "EXPENSE"
)

// NormalSide tells whether an increase is recorded as a debit or a credit.
type NormalSide string

const (
	SideDebit  NormalSide = "DEBIT"
	SideCredit NormalSide = "CREDIT"
)

// Account models a chart of accounts node. Only detail accounts accept
// postings; summary nodes aggregate their children.
type Account struct {
	Code       int64       `json:"code"`
	Name       string      `json:"name"`
	Type       AccountType `json:"type"`
	ParentCode *int64      `json:"parent_code,omitempty"`
	Level      int         `json:"level"`
	IsDetail   bool        `json:"is_detail"`
	IsActive   bool        `json:"is_active"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// Postable reports whether the account may appear on a transaction line.
func (a Account) Postable() bool {
	return a.IsDetail && a.IsActive
}

// Side returns the account's normal side.
func (a Account) Side() NormalSide {
	return SideFor(a.Type)
}

// SideFor maps an account type to its normal side. Assets, costs, and
// expenses grow on the debit side; liabilities, equity, and revenue on
// the credit side.
func SideFor(t AccountType) NormalSide {
	switch t {
	case AccountTypeAsset, AccountTypeCost, AccountTypeExpense:
		return SideDebit
	default:
		return SideCredit
	}
}

// TypeForCode derives the account type from the leading digit of the
// code: 1 asset, 2 liability, 3 equity, 4 revenue, 5 expense. Cost
// accounts share the 5 prefix; the seeded catalog is authoritative
// where the COST/EXPENSE distinction matters.
func TypeForCode(code int64) AccountType {
	for code >= 10 {
		code /= 10
	}
	switch code {
	case 1:
		return AccountTypeAsset
	case 2:
		return AccountTypeLiability
	case 3:
		return AccountTypeEquity
	case 4:
		return AccountTypeRevenue
	default:
		return AccountTypeExpense
	}
}

// Fixed equity accounts used by the period closing engine.
const (
	// AccountCurrentProfit receives net income on close.
	AccountCurrentProfit int64 = 3100
	// AccountCurrentLoss absorbs a net loss on close.
	AccountCurrentLoss int64 = 3110
)
