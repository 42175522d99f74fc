package export

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.Spanish)

// FormatMoney renders an amount with thousand separators and two
// decimals, matching the es-MX display convention.
func FormatMoney(amount float64) string {
	return printer.Sprintf("$%v", number.Decimal(amount, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}
