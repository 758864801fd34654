package core

import (
	"time"

	"github.com/shopspring/decimal"
)

var (
	thousand = decimal.NewFromInt(1_000)
	lakh     = decimal.NewFromInt(100_000)
)

// FormatAmount renders an amount for insight texts: lakhs as "1.5L", thousands
// as "2.3K", smaller values as a plain number with at most three decimals.
func FormatAmount(d decimal.Decimal) string {
	switch {
	case d.GreaterThanOrEqual(lakh):
		return d.Div(lakh).StringFixed(1) + "L"
	case d.GreaterThanOrEqual(thousand):
		return d.Div(thousand).StringFixed(1) + "K"
	default:
		return d.Round(3).String()
	}
}

// FormatDay renders a date relative to now: "Today", "Yesterday", "2 Jan", or
// "2 Jan 2006" for dates outside the current year.
func FormatDay(d Date, now time.Time) string {
	n, ok := d.Normalize()
	if !ok {
		return string(d)
	}
	today := DateOf(now)
	switch {
	case n >= today:
		return "Today"
	case n == today.AddDays(-1):
		return "Yesterday"
	}
	t, _ := n.Time()
	if t.Year() != now.Year() {
		return t.Format("2 Jan 2006")
	}
	return t.Format("2 Jan")
}
