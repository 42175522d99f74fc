package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/contalibre/contalibre/internal/reports"
)

// BalanceSheetPDF renders the balance sheet as a single-page PDF.
func BalanceSheetPDF(bs reports.BalanceSheet) ([]byte, error) {
	pdf := newReportPDF("Balance General", bs.PeriodName)
	for _, section := range []reports.Section{bs.Assets, bs.Liabilities, bs.Equity} {
		writePDFSection(pdf, section)
	}
	writePDFTotal(pdf, "Total Activo", bs.TotalAssets)
	writePDFTotal(pdf, "Total Pasivo y Capital", bs.TotalLiabilitiesAndEquity)
	return renderPDF(pdf)
}

// IncomeStatementPDF renders the income statement as a single-page PDF.
func IncomeStatementPDF(is reports.IncomeStatement) ([]byte, error) {
	pdf := newReportPDF("Estado de Resultados", is.PeriodName)
	for _, section := range []reports.Section{is.Revenue, is.Costs, is.Expenses} {
		writePDFSection(pdf, section)
	}
	writePDFTotal(pdf, "Utilidad Bruta", is.GrossProfit)
	writePDFTotal(pdf, "Utilidad Neta", is.NetIncome)
	return renderPDF(pdf)
}

func newReportPDF(title, periodName string) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 8, title)
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 6, periodName)
	pdf.Ln(10)
	return pdf
}

func writePDFSection(pdf *gofpdf.Fpdf, section reports.Section) {
	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 7, section.Name)
	pdf.Ln(7)
	pdf.SetFont("Arial", "", 10)
	for _, acc := range section.Accounts {
		pdf.CellFormat(30, 6, fmt.Sprintf("%d", acc.Code), "", 0, "L", false, 0, "")
		pdf.CellFormat(90, 6, acc.Name, "", 0, "L", false, 0, "")
		pdf.CellFormat(50, 6, FormatMoney(acc.Balance), "", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(120, 6, "Subtotal "+section.Name, "T", 0, "L", false, 0, "")
	pdf.CellFormat(50, 6, FormatMoney(section.Subtotal), "T", 0, "R", false, 0, "")
	pdf.Ln(9)
}

func writePDFTotal(pdf *gofpdf.Fpdf, label string, value float64) {
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(120, 7, label, "", 0, "L", false, 0, "")
	pdf.CellFormat(50, 7, FormatMoney(value), "", 0, "R", false, 0, "")
	pdf.Ln(-1)
}

func renderPDF(pdf *gofpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
