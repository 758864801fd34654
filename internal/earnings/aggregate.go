package earnings

import (
	"time"

	"github.com/shopspring/decimal"

	"earnings/internal/core"
)

// DateRange is a relative window recognised by Filter.
type DateRange string

const (
	RangeAll   DateRange = "all"
	RangeToday DateRange = "today"
	RangeWeek  DateRange = "week"
	RangeMonth DateRange = "month"
	RangeYear  DateRange = "year"
)

// Filter selects earnings by exact category and relative date range. The zero
// value, and the value "all" for either field, matches everything.
type Filter struct {
	Category core.Category
	Range    DateRange
}

type (
	Summary struct {
		Total        decimal.Decimal `json:"total"`
		Weekly       decimal.Decimal `json:"weekly"`
		WeeklyCount  int             `json:"weeklyCount"`
		Monthly      decimal.Decimal `json:"monthly"`
		MonthlyCount int             `json:"monthlyCount"`
		LastMonth    decimal.Decimal `json:"lastMonth"`
		// Trend is the percent change against last month with one decimal,
		// "0.0" when last month earned nothing.
		Trend string `json:"trend"`
	}

	SourceTotal struct {
		Category core.Category   `json:"category"`
		Total    decimal.Decimal `json:"total"`
	}

	DayTotal struct {
		Date  core.Date       `json:"date"`
		Total decimal.Decimal `json:"total"`
	}

	MonthTotal struct {
		Key   string          `json:"key"`
		Label string          `json:"label"`
		Total decimal.Decimal `json:"total"`
	}

	YearTotal struct {
		Total decimal.Decimal `json:"total"`
		Count int             `json:"count"`
	}
)

var hundred = decimal.NewFromInt(100)

// Total sums every amount. Missing or malformed amounts count as zero.
func Total(list []core.Earning) decimal.Decimal {
	total := decimal.Zero
	for _, e := range list {
		total = total.Add(e.Amount.Decimal())
	}
	return total
}

// Since keeps the entries dated on or after start. Entries without a readable
// date never match.
func Since(list []core.Earning, start core.Date) []core.Earning {
	out := make([]core.Earning, 0, len(list))
	for _, e := range list {
		if d, ok := e.Date.Normalize(); ok && d >= start {
			out = append(out, e)
		}
	}
	return out
}

// Between keeps the entries dated within [from, to].
func Between(list []core.Earning, from, to core.Date) []core.Earning {
	out := make([]core.Earning, 0)
	for _, e := range list {
		if d, ok := e.Date.Normalize(); ok && d >= from && d <= to {
			out = append(out, e)
		}
	}
	return out
}

// Apply returns the entries matching f as of now, in stored order.
func (f Filter) Apply(list []core.Earning, now time.Time) []core.Earning {
	out := list
	if f.Category != "" && f.Category != "all" {
		out = make([]core.Earning, 0, len(list))
		for _, e := range list {
			if e.Category == f.Category {
				out = append(out, e)
			}
		}
	}

	today := core.DateOf(now)
	switch f.Range {
	case RangeToday:
		out = Since(out, today)
	case RangeWeek:
		out = Since(out, today.AddDays(-7))
	case RangeMonth:
		out = Since(out, core.FirstOfMonth(now))
	case RangeYear:
		out = Since(out, core.FirstOfYear(now))
	}
	return out
}

// Summarize computes the headline totals as of now. The weekly window is the
// seven days ending today.
func Summarize(list []core.Earning, now time.Time) Summary {
	today := core.DateOf(now)
	weekly := Since(list, today.AddDays(-6))
	monthStart := core.FirstOfMonth(now)
	monthly := Since(list, monthStart)

	prevStart := core.FirstOfMonth(now.AddDate(0, 0, -now.Day()))
	lastMonth := Total(Between(list, prevStart, monthStart.AddDays(-1)))

	monthlyTotal := Total(monthly)
	return Summary{
		Total:        Total(list),
		Weekly:       Total(weekly),
		WeeklyCount:  len(weekly),
		Monthly:      monthlyTotal,
		MonthlyCount: len(monthly),
		LastMonth:    lastMonth,
		Trend:        Trend(monthlyTotal, lastMonth),
	}
}

// Trend returns the percent change from previous to current rounded to one
// decimal place. A zero or negative baseline yields "0.0".
func Trend(current, previous decimal.Decimal) string {
	if !previous.IsPositive() {
		return decimal.Zero.StringFixed(1)
	}
	return current.Sub(previous).Div(previous).Mul(hundred).StringFixed(1)
}

// GroupBySource sums amounts per category in first-seen order.
func GroupBySource(list []core.Earning) []SourceTotal {
	out := make([]SourceTotal, 0)
	index := make(map[core.Category]int)
	for _, e := range list {
		i, ok := index[e.Category]
		if !ok {
			i = len(out)
			index[e.Category] = i
			out = append(out, SourceTotal{Category: e.Category, Total: decimal.Zero})
		}
		out[i].Total = out[i].Total.Add(e.Amount.Decimal())
	}
	return out
}

// GroupByDate returns one bucket per calendar day for the last days days,
// oldest first and ending today. Only entries whose stored date equals a
// bucket key exactly are counted.
func GroupByDate(list []core.Earning, days int, now time.Time) []DayTotal {
	if days <= 0 {
		return []DayTotal{}
	}
	today := core.DateOf(now)
	out := make([]DayTotal, days)
	index := make(map[core.Date]int, days)
	for i := range out {
		d := today.AddDays(i - days + 1)
		out[i] = DayTotal{Date: d, Total: decimal.Zero}
		index[d] = i
	}
	for _, e := range list {
		if i, ok := index[e.Date]; ok {
			out[i].Total = out[i].Total.Add(e.Amount.Decimal())
		}
	}
	return out
}

// GroupByMonth returns one bucket per calendar month for the last months
// months, oldest first and ending with the current month.
func GroupByMonth(list []core.Earning, months int, now time.Time) []MonthTotal {
	if months <= 0 {
		return []MonthTotal{}
	}
	out := make([]MonthTotal, months)
	index := make(map[string]int, months)
	for i := range out {
		first := time.Date(now.Year(), now.Month()-time.Month(months-1-i), 1, 0, 0, 0, 0, time.UTC)
		key := first.Format("2006-01")
		out[i] = MonthTotal{Key: key, Label: first.Format("Jan"), Total: decimal.Zero}
		index[key] = i
	}
	for _, e := range list {
		key, ok := e.Date.MonthKey()
		if !ok {
			continue
		}
		if i, ok := index[key]; ok {
			out[i].Total = out[i].Total.Add(e.Amount.Decimal())
		}
	}
	return out
}

// YearToDate sums the entries dated since January 1st.
func YearToDate(list []core.Earning, now time.Time) YearTotal {
	year := Since(list, core.FirstOfYear(now))
	return YearTotal{Total: Total(year), Count: len(year)}
}
