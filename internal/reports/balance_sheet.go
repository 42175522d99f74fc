package reports

import (
	"github.com/contalibre/contalibre/internal/ledger/balances"
	"github.com/contalibre/contalibre/internal/ledger/catalog"
)

// BuildBalanceSheet aggregates balances into asset, liability, and
// equity sections. Temporary accounts are excluded; before closing they
// are represented indirectly through the accounting equation gap.
func BuildBalanceSheet(periodName string, accounts []balances.AccountBalance) BalanceSheet {
	assets := Section{Name: "Activo"}
	liabilities := Section{Name: "Pasivo"}
	equity := Section{Name: "Capital"}

	for _, acc := range accounts {
		switch acc.Type {
		case catalog.AccountTypeAsset:
			assets.Accounts = append(assets.Accounts, acc)
			assets.Subtotal += acc.Balance
		case catalog.AccountTypeLiability:
			liabilities.Accounts = append(liabilities.Accounts, acc)
			liabilities.Subtotal += acc.Balance
		case catalog.AccountTypeEquity:
			equity.Accounts = append(equity.Accounts, acc)
			equity.Subtotal += acc.Balance
		}
	}

	return BalanceSheet{
		PeriodName:                periodName,
		Assets:                    assets,
		Liabilities:               liabilities,
		Equity:                    equity,
		TotalAssets:               assets.Subtotal,
		TotalLiabilitiesAndEquity: liabilities.Subtotal + equity.Subtotal,
	}
}
