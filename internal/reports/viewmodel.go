package reports

import (
	"github.com/contalibre/contalibre/internal/ledger/balances"
)

// Section groups accounts under a statement heading.
type Section struct {
	Name     string                    `json:"name"`
	Accounts []balances.AccountBalance `json:"accounts"`
	Subtotal float64                   `json:"subtotal"`
}

// BalanceSheet is the structured balance general report.
type BalanceSheet struct {
	PeriodName                string  `json:"period_name"`
	Assets                    Section `json:"assets"`
	Liabilities               Section `json:"liabilities"`
	Equity                    Section `json:"equity"`
	TotalAssets               float64 `json:"total_assets"`
	TotalLiabilitiesAndEquity float64 `json:"total_liabilities_and_equity"`
}

// IncomeStatement is the structured estado de resultados report.
type IncomeStatement struct {
	PeriodName  string  `json:"period_name"`
	Revenue     Section `json:"revenue"`
	Costs       Section `json:"costs"`
	Expenses    Section `json:"expenses"`
	GrossProfit float64 `json:"gross_profit"`
	NetIncome   float64 `json:"net_income"`
}

// ExecutiveSummary condenses the period into headline metrics.
type ExecutiveSummary struct {
	PeriodName   string          `json:"period_name"`
	Totals       balances.Totals `json:"totals"`
	NetIncome    float64         `json:"net_income"`
	ProfitMargin float64         `json:"profit_margin"`
	CurrentRatio float64         `json:"current_ratio"`
	DebtRatio    float64         `json:"debt_ratio"`
}

// TAccount is the ledger view of a single account.
type TAccount struct {
	AccountCode  int64            `json:"account_code"`
	AccountName  string           `json:"account_name"`
	PeriodName   string           `json:"period_name"`
	Entries      []balances.Entry `json:"entries"`
	TotalDebit   float64          `json:"total_debit"`
	TotalCredit  float64          `json:"total_credit"`
	FinalBalance float64          `json:"final_balance"`
	// FinalSide is DEUDOR when the final balance leans debit, ACREEDOR
	// when it leans credit.
	FinalSide string `json:"final_side"`
}
