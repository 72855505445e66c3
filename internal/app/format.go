package service

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// CurrencyFormatter renders predictions with Indonesian digit grouping,
// e.g. "Rp 5.250.000".
type CurrencyFormatter struct {
	prefix  string
	printer *message.Printer
}

// NewCurrencyFormatter returns a formatter that prepends prefix.
func NewCurrencyFormatter(prefix string) *CurrencyFormatter {
	return &CurrencyFormatter{prefix: prefix, printer: message.NewPrinter(language.Indonesian)}
}

// Format rounds v to whole units, halves to even, and groups thousands with
// dots. Non-finite values render as "n/a".
func (f *CurrencyFormatter) Format(v float64) string {
	var n string
	if math.IsNaN(v) || math.IsInf(v, 0) {
		n = "n/a"
	} else {
		r := math.RoundToEven(v)
		if r == 0 {
			r = 0 // drop the sign of negative zero
		}
		n = f.printer.Sprintf("%.0f", r)
	}
	if f.prefix == "" {
		return n
	}
	return f.prefix + " " + n
}
