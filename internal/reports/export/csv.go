package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/contalibre/contalibre/internal/reports"
)

// BalanceSheetCSV renders the balance sheet as CSV rows.
func BalanceSheetCSV(buf *bytes.Buffer, bs reports.BalanceSheet) error {
	w := csv.NewWriter(buf)
	if err := w.Write([]string{"Balance General", bs.PeriodName}); err != nil {
		return err
	}
	for _, section := range []reports.Section{bs.Assets, bs.Liabilities, bs.Equity} {
		if err := writeSection(w, section); err != nil {
			return err
		}
	}
	if err := w.Write([]string{"", "Total Activo", amount(bs.TotalAssets)}); err != nil {
		return err
	}
	if err := w.Write([]string{"", "Total Pasivo y Capital", amount(bs.TotalLiabilitiesAndEquity)}); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

// IncomeStatementCSV renders the income statement as CSV rows.
func IncomeStatementCSV(buf *bytes.Buffer, is reports.IncomeStatement) error {
	w := csv.NewWriter(buf)
	if err := w.Write([]string{"Estado de Resultados", is.PeriodName}); err != nil {
		return err
	}
	for _, section := range []reports.Section{is.Revenue, is.Costs, is.Expenses} {
		if err := writeSection(w, section); err != nil {
			return err
		}
	}
	if err := w.Write([]string{"", "Utilidad Bruta", amount(is.GrossProfit)}); err != nil {
		return err
	}
	if err := w.Write([]string{"", "Utilidad Neta", amount(is.NetIncome)}); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func writeSection(w *csv.Writer, section reports.Section) error {
	if err := w.Write([]string{section.Name, "", ""}); err != nil {
		return err
	}
	for _, acc := range section.Accounts {
		if err := w.Write([]string{fmt.Sprintf("%d", acc.Code), acc.Name, amount(acc.Balance)}); err != nil {
			return err
		}
	}
	return w.Write([]string{"", "Subtotal " + section.Name, amount(section.Subtotal)})
}

func amount(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
