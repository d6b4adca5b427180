package domain

import (
	"math"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var moneyPrinter = message.NewPrinter(language.BritishEnglish)

var currencySymbols = map[string]string{
	"GBP": "£",
	"USD": "$",
	"EUR": "€",
}

// FormatMoney renders an amount with grouping and two decimals, e.g. £1,234.50.
// Unknown currencies are suffixed with their code.
func FormatMoney(amount float64, currency string) string {
	code := strings.ToUpper(strings.TrimSpace(currency))
	if code == "" {
		code = DefaultCurrency
	}
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = math.Abs(amount)
	}
	num := moneyPrinter.Sprintf("%.2f", amount)
	if sym, ok := currencySymbols[code]; ok {
		return sign + sym + num
	}
	return sign + num + " " + code
}

const displayTimeLayout = "02 Jan 2006 15:04"

func FormatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(displayTimeLayout)
}
