// Package present turns vehicle records into display view models.
package present

import (
	"math"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter renders numbers for one locale.
type Formatter struct {
	printer *message.Printer
	symbol  string
}

// NewFormatter returns a Formatter for tag. The dollar symbol is the one
// CLDR assigns to USD in that locale.
func NewFormatter(tag language.Tag) *Formatter {
	p := message.NewPrinter(tag)
	return &Formatter{printer: p, symbol: p.Sprint(currency.Symbol(currency.USD))}
}

var defaultFormatter = NewFormatter(language.AmericanEnglish)

// Currency formats v as whole US dollars, e.g. "$20,500".
//
// currency.Amount formatting always emits the cent digits and a space after
// the symbol, so only the symbol comes from x/text/currency and the grouped
// digits come from the printer.
func (f *Formatter) Currency(v float64) string {
	n := int64(math.Round(v))
	if n < 0 {
		return f.printer.Sprintf("-%s%d", f.symbol, -n)
	}
	return f.printer.Sprintf("%s%d", f.symbol, n)
}

// Mileage formats m with thousands separators and an "mi" suffix, e.g. "12,040 mi".
func (f *Formatter) Mileage(m float64) string {
	return f.printer.Sprintf("%d mi", int64(math.Round(m)))
}

// Currency formats v with the en-US formatter.
func Currency(v float64) string { return defaultFormatter.Currency(v) }

// Mileage formats m with the en-US formatter.
func Mileage(m float64) string { return defaultFormatter.Mileage(m) }
