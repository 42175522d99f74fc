package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/contalibre/contalibre/internal/reports"
)

// BalanceSheetXLSX renders the balance sheet as a one-sheet workbook.
func BalanceSheetXLSX(bs reports.BalanceSheet) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "Balance General"
	f.SetSheetName("Sheet1", sheet)

	row := writeXLSXHeader(f, sheet, "Balance General", bs.PeriodName)
	for _, section := range []reports.Section{bs.Assets, bs.Liabilities, bs.Equity} {
		row = writeXLSXSection(f, sheet, row, section)
	}
	_ = f.SetCellValue(sheet, cell("B", row), "Total Activo")
	_ = f.SetCellValue(sheet, cell("C", row), bs.TotalAssets)
	row++
	_ = f.SetCellValue(sheet, cell("B", row), "Total Pasivo y Capital")
	_ = f.SetCellValue(sheet, cell("C", row), bs.TotalLiabilitiesAndEquity)

	return renderXLSX(f)
}

// IncomeStatementXLSX renders the income statement as a one-sheet
// workbook.
func IncomeStatementXLSX(is reports.IncomeStatement) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "Estado de Resultados"
	f.SetSheetName("Sheet1", sheet)

	row := writeXLSXHeader(f, sheet, "Estado de Resultados", is.PeriodName)
	for _, section := range []reports.Section{is.Revenue, is.Costs, is.Expenses} {
		row = writeXLSXSection(f, sheet, row, section)
	}
	_ = f.SetCellValue(sheet, cell("B", row), "Utilidad Bruta")
	_ = f.SetCellValue(sheet, cell("C", row), is.GrossProfit)
	row++
	_ = f.SetCellValue(sheet, cell("B", row), "Utilidad Neta")
	_ = f.SetCellValue(sheet, cell("C", row), is.NetIncome)

	return renderXLSX(f)
}

func writeXLSXHeader(f *excelize.File, sheet, title, periodName string) int {
	_ = f.SetCellValue(sheet, "A1", title)
	_ = f.SetCellValue(sheet, "A2", periodName)
	return 4
}

func writeXLSXSection(f *excelize.File, sheet string, row int, section reports.Section) int {
	_ = f.SetCellValue(sheet, cell("A", row), section.Name)
	row++
	for _, acc := range section.Accounts {
		_ = f.SetCellValue(sheet, cell("A", row), acc.Code)
		_ = f.SetCellValue(sheet, cell("B", row), acc.Name)
		_ = f.SetCellValue(sheet, cell("C", row), acc.Balance)
		row++
	}
	_ = f.SetCellValue(sheet, cell("B", row), "Subtotal "+section.Name)
	_ = f.SetCellValue(sheet, cell("C", row), section.Subtotal)
	return row + 2
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

func renderXLSX(f *excelize.File) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
