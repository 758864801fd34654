package analytics

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"earnings/internal/core"
	"earnings/internal/earnings"
)

type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// Series is a labelled chart series.
type Series struct {
	Period Period            `json:"period"`
	Labels []string          `json:"labels"`
	Values []decimal.Decimal `json:"values"`
}

// monthWeeks splits the 30 day window into chart buckets.
var monthWeeks = []int{7, 7, 7, 7, 2}

// Overview returns the dashboard chart for period: daily totals of the last
// week labelled by weekday, the last 30 days in weekly buckets, or the last
// twelve months. Unknown periods fall back to month.
func Overview(list []core.Earning, period Period, now time.Time) Series {
	switch period {
	case PeriodWeek:
		days := earnings.GroupByDate(list, 7, now)
		s := Series{Period: PeriodWeek, Labels: make([]string, len(days)), Values: make([]decimal.Decimal, len(days))}
		for i, d := range days {
			t, _ := d.Date.Time()
			s.Labels[i] = t.Format("Mon")
			s.Values[i] = d.Total
		}
		return s

	case PeriodYear:
		months := earnings.GroupByMonth(list, 12, now)
		s := Series{Period: PeriodYear, Labels: make([]string, len(months)), Values: make([]decimal.Decimal, len(months))}
		for i, m := range months {
			s.Labels[i] = m.Label
			s.Values[i] = m.Total
		}
		return s

	default:
		days := earnings.GroupByDate(list, 30, now)
		s := Series{Period: PeriodMonth}
		start := 0
		for i, n := range monthWeeks {
			sum := decimal.Zero
			for _, d := range days[start : start+n] {
				sum = sum.Add(d.Total)
			}
			start += n
			s.Labels = append(s.Labels, fmt.Sprintf("Week %d", i+1))
			s.Values = append(s.Values, sum)
		}
		return s
	}
}
