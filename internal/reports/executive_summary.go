package reports

import (
	"github.com/contalibre/contalibre/internal/ledger/balances"
	"github.com/contalibre/contalibre/internal/ledger/catalog"
)

// Current-account ranges in the six-digit chart: 11xxxx holds current
// assets, 21xxxx current liabilities.
func isCurrentAsset(code int64) bool     { return code >= 110000 && code < 120000 }
func isCurrentLiability(code int64) bool { return code >= 210000 && code < 220000 }

// BuildExecutiveSummary derives headline metrics for dashboards: net
// income, profit margin over revenue, current ratio, and debt ratio.
// Ratios with a zero denominator report zero rather than infinity.
func BuildExecutiveSummary(periodName string, accounts []balances.AccountBalance) ExecutiveSummary {
	totals := balances.StatementTotals(accounts)

	var currentAssets, currentLiabilities float64
	for _, acc := range accounts {
		switch acc.Type {
		case catalog.AccountTypeAsset:
			if isCurrentAsset(acc.Code) {
				currentAssets += acc.Balance
			}
		case catalog.AccountTypeLiability:
			if isCurrentLiability(acc.Code) {
				currentLiabilities += acc.Balance
			}
		}
	}

	netIncome := totals.NetIncome()
	summary := ExecutiveSummary{
		PeriodName: periodName,
		Totals:     totals,
		NetIncome:  netIncome,
	}
	if totals.Revenue != 0 {
		summary.ProfitMargin = netIncome / totals.Revenue * 100
	}
	if currentLiabilities != 0 {
		summary.CurrentRatio = currentAssets / currentLiabilities
	}
	if totals.Assets != 0 {
		summary.DebtRatio = totals.Liabilities / totals.Assets * 100
	}
	return summary
}
