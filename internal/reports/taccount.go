package reports

import (
	"github.com/contalibre/contalibre/internal/ledger/balances"
	"github.com/contalibre/contalibre/internal/ledger/catalog"
)

// BuildTAccount assembles the ledger view of one account from its
// running-balance entries. The final side follows the sign of the last
// cumulative balance: positive on the account's normal side.
func BuildTAccount(account catalog.Account, periodName string, entries []balances.Entry) TAccount {
	t := TAccount{
		AccountCode: account.Code,
		AccountName: account.Name,
		PeriodName:  periodName,
		Entries:     entries,
	}
	for _, e := range entries {
		t.TotalDebit += e.Debit
		t.TotalCredit += e.Credit
	}
	if len(entries) > 0 {
		t.FinalBalance = entries[len(entries)-1].Balance
	}
	side := account.Side()
	leansDebit := (side == catalog.SideDebit) == (t.FinalBalance >= 0)
	if leansDebit {
		t.FinalSide = "DEUDOR"
	} else {
		t.FinalSide = "ACREEDOR"
	}
	return t
}
