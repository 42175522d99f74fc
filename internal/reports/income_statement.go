package reports

import (
	"github.com/contalibre/contalibre/internal/ledger/balances"
	"github.com/contalibre/contalibre/internal/ledger/catalog"
)

// BuildIncomeStatement aggregates temporary accounts into revenue,
// cost, and expense sections. Balances arrive normal-side corrected, so
// revenue subtotals are positive for ordinary activity.
func BuildIncomeStatement(periodName string, accounts []balances.AccountBalance) IncomeStatement {
	revenue := Section{Name: "Ingresos"}
	costs := Section{Name: "Costos"}
	expenses := Section{Name: "Gastos"}

	for _, acc := range accounts {
		switch acc.Type {
		case catalog.AccountTypeRevenue:
			revenue.Accounts = append(revenue.Accounts, acc)
			revenue.Subtotal += acc.Balance
		case catalog.AccountTypeCost:
			costs.Accounts = append(costs.Accounts, acc)
			costs.Subtotal += acc.Balance
		case catalog.AccountTypeExpense:
			expenses.Accounts = append(expenses.Accounts, acc)
			expenses.Subtotal += acc.Balance
		}
	}

	grossProfit := revenue.Subtotal - costs.Subtotal
	return IncomeStatement{
		PeriodName:  periodName,
		Revenue:     revenue,
		Costs:       costs,
		Expenses:    expenses,
		GrossProfit: grossProfit,
		NetIncome:   grossProfit - expenses.Subtotal,
	}
}
