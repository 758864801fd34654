// Package analytics derives statistics, textual insights, the activity streak
// and chart series from the recorded earnings.
package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"earnings/internal/core"
	"earnings/internal/earnings"
)

// Analytics is the aggregate view over the whole earnings history.
type Analytics struct {
	TotalEntries    int                    `json:"totalEntries"`
	TotalAmount     decimal.Decimal        `json:"totalAmount"`
	MonthlyTotal    decimal.Decimal        `json:"monthlyTotal"`
	AvgDaily        decimal.Decimal        `json:"avgDaily"`
	TopSource       *core.Category         `json:"topSource"`
	TopSourceAmount decimal.Decimal        `json:"topSourceAmount"`
	BestDay         *core.Date             `json:"bestDay"`
	BestDayAmount   decimal.Decimal        `json:"bestDayAmount"`
	BySource        []earnings.SourceTotal `json:"bySource"`
}

// Compute builds the analytics as of now.
//
// The top source and the best day are the first buckets, in first-seen order,
// holding the strictly highest positive sum. Both stay nil when nothing was
// earned.
func Compute(list []core.Earning, now time.Time) Analytics {
	monthly := earnings.Total(earnings.Since(list, core.FirstOfMonth(now)))
	bySource := earnings.GroupBySource(list)

	a := Analytics{
		TotalEntries:    len(list),
		TotalAmount:     earnings.Total(list),
		MonthlyTotal:    monthly,
		AvgDaily:        decimal.Zero,
		TopSourceAmount: decimal.Zero,
		BestDayAmount:   decimal.Zero,
		BySource:        bySource,
	}
	if days := now.Day(); days > 0 {
		a.AvgDaily = monthly.DivRound(decimal.NewFromInt(int64(days)), 2)
	}

	for _, s := range bySource {
		if s.Total.GreaterThan(a.TopSourceAmount) {
			c := s.Category
			a.TopSource = &c
			a.TopSourceAmount = s.Total
		}
	}

	for _, d := range dailyTotals(list) {
		if d.Total.GreaterThan(a.BestDayAmount) {
			day := d.Date
			a.BestDay = &day
			a.BestDayAmount = d.Total
		}
	}
	return a
}

// dailyTotals sums amounts per calendar day over all history, first-seen
// order. Entries without a readable date are left out.
func dailyTotals(list []core.Earning) []earnings.DayTotal {
	out := make([]earnings.DayTotal, 0)
	index := make(map[core.Date]int)
	for _, e := range list {
		d, ok := e.Date.Normalize()
		if !ok {
			continue
		}
		i, seen := index[d]
		if !seen {
			i = len(out)
			index[d] = i
			out = append(out, earnings.DayTotal{Date: d, Total: decimal.Zero})
		}
		out[i].Total = out[i].Total.Add(e.Amount.Decimal())
	}
	return out
}

// Streak counts consecutive calendar days with at least one earning, ending
// at the most recent entry. It is zero unless that entry is dated today or
// yesterday.
func Streak(list []core.Earning, now time.Time) int {
	seen := make(map[core.Date]struct{})
	for _, e := range list {
		if d, ok := e.Date.Normalize(); ok {
			seen[d] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return 0
	}

	dates := make([]core.Date, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i] > dates[j] })

	today := core.DateOf(now)
	if dates[0] != today && dates[0] != today.AddDays(-1) {
		return 0
	}

	streak := 1
	for i := 1; i < len(dates); i++ {
		if dates[i] != dates[i-1].AddDays(-1) {
			break
		}
		streak++
	}
	return streak
}
