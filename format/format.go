// Package format renders money amounts for display.
package format

import (
	"fmt"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Currency formats amount in major units using the locale conventions of
// lang. Example: Currency(12.5, "EUR", "fr") => "12,50 €". An unknown
// currency code falls back to a plain "CODE amount" rendering.
func Currency(amount float64, code, lang string) string {
	unit, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return fmt.Sprintf("%s %.2f", strings.ToUpper(strings.TrimSpace(code)), amount)
	}
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.English
	}
	p := message.NewPrinter(tag)
	return p.Sprint(currency.Symbol(unit.Amount(amount)))
}
