package output

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultCurrency is the new Israeli shekel sign
const DefaultCurrency = "₪"

// Style controls how numbers are rendered
type Style struct {
	// Currency prefixes money values
	Currency string
}

// DefaultStyle returns the shekel style
func DefaultStyle() Style {
	return Style{Currency: DefaultCurrency}
}

var printer = message.NewPrinter(language.English)

// grouped renders a number with thousands separators
func grouped(d decimal.Decimal, places int) string {
	return printer.Sprintf(fmt.Sprintf("%%.%df", places), d.Round(int32(places)).InexactFloat64())
}

// Money renders a money value with two decimals: ₪3,163,900.00
func (s Style) Money(d decimal.Decimal) string {
	return s.Currency + grouped(d, 2)
}

// MoneyWhole renders a money value rounded to whole units: ₪3,163,900
func (s Style) MoneyWhole(d decimal.Decimal) string {
	return s.Currency + grouped(d, 0)
}

// MoneyAuto drops the decimals of whole amounts: ₪25,000 or ₪25,000.50
func (s Style) MoneyAuto(d decimal.Decimal) string {
	if d.Equal(d.Truncate(0)) {
		return s.MoneyWhole(d)
	}
	return s.Money(d)
}

// Area renders an area with at least one decimal: 135.0, 3.6, 2.75
func Area(d decimal.Decimal) string {
	out := d.Round(2).String()
	if !strings.Contains(out, ".") {
		out += ".0"
	}
	return out
}

// Size renders an input size as given: 125, 12.5
func Size(d decimal.Decimal) string {
	return d.String()
}

// Percent renders a fraction as a percentage: 0.18 -> 18%
func Percent(fraction decimal.Decimal) string {
	return fraction.Mul(decimal.NewFromInt(100)).Round(2).String() + "%"
}
