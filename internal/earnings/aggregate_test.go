package earnings

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"earnings/internal/core"
)

// Friday 15 March 2024
var now = time.Date(2024, 3, 15, 18, 30, 0, 0, time.UTC)

func earning(amount string, cat core.Category, date string) core.Earning {
	return core.Earning{Amount: core.AmountOf(amount), Category: cat, Date: core.Date(date)}
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestTotalIsPermissive(t *testing.T) {
	list := []core.Earning{
		earning("100", core.Salary, "2024-03-01"),
		earning("abc", core.Salary, "2024-03-01"),
		earning("", core.Salary, "2024-03-01"),
		earning("12.5xyz", core.Salary, "2024-03-01"),
	}
	if got := Total(list); !got.Equal(decimal.RequireFromString("112.5")) {
		t.Errorf("Total = %s, want 112.5", got)
	}
	if got := Total(nil); !got.IsZero() {
		t.Errorf("Total(nil) = %s", got)
	}
}

func TestFilterApply(t *testing.T) {
	list := []core.Earning{
		earning("1", core.Salary, "2024-03-15"),
		earning("2", core.Cashback, "2024-03-08"),
		earning("4", core.Salary, "2024-03-07"),
		earning("8", core.Freelance, "2024-02-20"),
		earning("16", core.Salary, "2023-12-31"),
		earning("32", core.Salary, "not a date"),
	}

	tests := []struct {
		name   string
		filter Filter
		want   int64
	}{
		{"zero value", Filter{}, 63},
		{"all", Filter{Category: "all", Range: RangeAll}, 63},
		{"unknown range", Filter{Range: "decade"}, 63},
		{"today", Filter{Range: RangeToday}, 1},
		{"week is seven days back", Filter{Range: RangeWeek}, 3},
		{"month", Filter{Range: RangeMonth}, 7},
		{"year", Filter{Range: RangeYear}, 15},
		{"category", Filter{Category: core.Salary}, 53},
		{"category and range", Filter{Category: core.Salary, Range: RangeMonth}, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Total(tt.filter.Apply(list, now))
			if !got.Equal(dec(tt.want)) {
				t.Errorf("total = %s, want %d", got, tt.want)
			}
		})
	}
}

func TestCategoryFiltersPartitionTotal(t *testing.T) {
	list := []core.Earning{
		earning("10", core.Salary, "2024-03-15"),
		earning("20.5", core.Cashback, "2024-01-08"),
		earning("bad", core.Referral, "2024-03-07"),
		earning("7", core.Salary, "2022-02-20"),
		earning("3", "mystery", "2024-03-01"),
	}
	sum := decimal.Zero
	for _, s := range GroupBySource(list) {
		sum = sum.Add(Total(Filter{Category: s.Category}.Apply(list, now)))
	}
	if !sum.Equal(Total(list)) {
		t.Errorf("partition sum %s != total %s", sum, Total(list))
	}
}

func TestSummarize(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		s := Summarize(nil, now)
		if !s.Total.IsZero() || !s.Weekly.IsZero() || !s.Monthly.IsZero() || !s.LastMonth.IsZero() {
			t.Errorf("summary = %+v, want zeros", s)
		}
		if s.WeeklyCount != 0 || s.MonthlyCount != 0 || s.Trend != "0.0" {
			t.Errorf("summary = %+v", s)
		}
	})

	t.Run("growth over last month", func(t *testing.T) {
		s := Summarize([]core.Earning{
			earning("1500", core.Salary, "2024-03-02"),
			earning("600", core.Salary, "2024-02-01"),
			earning("400", core.Salary, "2024-02-29"),
			earning("50", core.Salary, "2024-01-31"),
		}, now)
		if !s.Monthly.Equal(dec(1500)) || !s.LastMonth.Equal(dec(1000)) {
			t.Fatalf("monthly %s last month %s", s.Monthly, s.LastMonth)
		}
		if s.Trend != "50.0" {
			t.Errorf("trend = %q, want 50.0", s.Trend)
		}
		if s.MonthlyCount != 1 {
			t.Errorf("monthly count = %d", s.MonthlyCount)
		}
	})

	t.Run("zero baseline", func(t *testing.T) {
		s := Summarize([]core.Earning{earning("500", core.Salary, "2024-03-10")}, now)
		if s.Trend != "0.0" {
			t.Errorf("trend = %q, want 0.0", s.Trend)
		}
	})

	t.Run("decline", func(t *testing.T) {
		s := Summarize([]core.Earning{
			earning("750", core.Salary, "2024-03-10"),
			earning("1000", core.Salary, "2024-02-10"),
		}, now)
		if s.Trend != "-25.0" {
			t.Errorf("trend = %q, want -25.0", s.Trend)
		}
	})

	t.Run("weekly window", func(t *testing.T) {
		s := Summarize([]core.Earning{
			earning("1", core.Salary, "2024-03-15"),
			earning("2", core.Salary, "2024-03-09"),
			earning("4", core.Salary, "2024-03-08"),
		}, now)
		if !s.Weekly.Equal(dec(3)) || s.WeeklyCount != 2 {
			t.Errorf("weekly = %s (%d entries), want 3 (2)", s.Weekly, s.WeeklyCount)
		}
	})
}

func TestTrendRounding(t *testing.T) {
	if got := Trend(dec(1), dec(3)); got != "-66.7" {
		t.Errorf("Trend(1, 3) = %q", got)
	}
	if got := Trend(dec(5), decimal.Zero); got != "0.0" {
		t.Errorf("Trend(5, 0) = %q", got)
	}
}

func TestGroupBySourceKeepsFirstSeenOrder(t *testing.T) {
	got := GroupBySource([]core.Earning{
		earning("5", core.Referral, "2024-03-01"),
		earning("100", core.Salary, "2024-03-01"),
		earning("5", core.Referral, "2024-03-02"),
		earning("1", core.Cashback, "2024-03-02"),
	})
	want := []SourceTotal{
		{core.Referral, dec(10)},
		{core.Salary, dec(100)},
		{core.Cashback, dec(1)},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d sources, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Category != want[i].Category || !got[i].Total.Equal(want[i].Total) {
			t.Errorf("source[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestGroupByDate(t *testing.T) {
	list := []core.Earning{
		earning("10", core.Salary, "2024-03-15"),
		earning("5", core.Salary, "2024-03-15"),
		earning("7", core.Salary, "2024-03-13"),
		earning("99", core.Salary, "2024-03-13T08:00:00Z"),
		earning("1", core.Salary, "2024-03-01"),
	}

	for _, n := range []int{1, 7, 30, 90} {
		got := GroupByDate(nil, n, now)
		if len(got) != n {
			t.Errorf("GroupByDate(%d) returned %d buckets", n, len(got))
		}
	}

	got := GroupByDate(list, 3, now)
	want := []DayTotal{
		{"2024-03-13", dec(7)},
		{"2024-03-14", dec(0)},
		{"2024-03-15", dec(15)},
	}
	for i := range want {
		if got[i].Date != want[i].Date || !got[i].Total.Equal(want[i].Total) {
			t.Errorf("bucket[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}

	if got := GroupByDate(list, 0, now); len(got) != 0 {
		t.Errorf("zero window returned %d buckets", len(got))
	}
}

func TestGroupByMonthCrossesYear(t *testing.T) {
	jan := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)
	got := GroupByMonth([]core.Earning{
		earning("3", core.Salary, "2023-11-30"),
		earning("4", core.Salary, "2024-01-02"),
		earning("8", core.Salary, "2023-10-31"),
	}, 3, jan)

	want := []MonthTotal{
		{"2023-11", "Nov", dec(3)},
		{"2023-12", "Dec", dec(0)},
		{"2024-01", "Jan", dec(4)},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d months", len(got))
	}
	for i := range want {
		if got[i].Key != want[i].Key || got[i].Label != want[i].Label || !got[i].Total.Equal(want[i].Total) {
			t.Errorf("month[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}

	if got := GroupByMonth(nil, 12, now); len(got) != 12 {
		t.Errorf("GroupByMonth(12) returned %d months", len(got))
	}
}

func TestYearToDate(t *testing.T) {
	got := YearToDate([]core.Earning{
		earning("3", core.Salary, "2024-01-01"),
		earning("4", core.Salary, "2024-03-02"),
		earning("8", core.Salary, "2023-12-31"),
	}, now)
	if !got.Total.Equal(dec(7)) || got.Count != 2 {
		t.Errorf("YearToDate = %+v", got)
	}
}
