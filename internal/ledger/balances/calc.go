package balances

import "github.com/contalibre/contalibre/internal/ledger/catalog"

// Contribution returns the signed amount a line adds to an account
// balance. Debit-normal accounts grow with debits, credit-normal
// accounts with credits; a positive result is always a balance in the
// account's expected direction.
func Contribution(side catalog.NormalSide, debit, credit float64) float64 {
	if side == catalog.SideDebit {
		return debit - credit
	}
	return credit - debit
}

// RunningBalance folds movements into cumulative entries. Movements must
// already be in chronological order; the scan starts at zero because
// periods do not carry forward opening balances.
func RunningBalance(side catalog.NormalSide, movements []Movement) []Entry {
	entries := make([]Entry, 0, len(movements))
	var balance float64
	for _, m := range movements {
		balance += Contribution(side, m.Debit, m.Credit)
		entries = append(entries, Entry{Movement: m, Balance: balance})
	}
	return entries
}

// SectionSubtotal sums the balances of the given accounts.
func SectionSubtotal(accounts []AccountBalance) float64 {
	var total float64
	for _, a := range accounts {
		total += a.Balance
	}
	return total
}

// StatementTotals groups balances by account type.
func StatementTotals(accounts []AccountBalance) Totals {
	var t Totals
	for _, a := range accounts {
		switch a.Type {
		case catalog.AccountTypeAsset:
			t.Assets += a.Balance
		case catalog.AccountTypeLiability:
			t.Liabilities += a.Balance
		case catalog.AccountTypeEquity:
			t.Equity += a.Balance
		case catalog.AccountTypeRevenue:
			t.Revenue += a.Balance
		case catalog.AccountTypeCost:
			t.Costs += a.Balance
		case catalog.AccountTypeExpense:
			t.Expenses += a.Balance
		}
	}
	return t
}
