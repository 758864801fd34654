package analytics

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"earnings/internal/core"
	"earnings/internal/earnings"
)

// MaxInsights caps the number of insights returned.
const MaxInsights = 5

type Insight struct {
	Icon string `json:"icon"`
	Text string `json:"text"`
}

var (
	hundred = decimal.NewFromInt(100)
	seven   = decimal.NewFromInt(7)
)

// Insights returns up to MaxInsights observations in a fixed priority order:
// trend, top source, diversification, monthly goal, this week, best day.
func Insights(list []core.Earning, profile core.Profile, now time.Time) []Insight {
	if len(list) == 0 {
		return []Insight{{Icon: "🚀", Text: "Start adding your earnings to get personalized insights!"}}
	}

	currency := profile.CurrencySymbol()
	money := func(d decimal.Decimal) string { return currency + core.FormatAmount(d) }

	summary := earnings.Summarize(list, now)
	stats := Compute(list, now)
	var out []Insight

	trend, _ := decimal.NewFromString(summary.Trend)
	switch {
	case trend.IsPositive():
		out = append(out, Insight{"📈", fmt.Sprintf(
			"Your earnings are up %s%% compared to last month. Keep it up!", summary.Trend)})
	case trend.IsNegative():
		out = append(out, Insight{"📉", fmt.Sprintf(
			"Your earnings are down %s%% from last month. Time to explore new opportunities!",
			strings.TrimPrefix(summary.Trend, "-"))})
	}

	if stats.TopSource != nil {
		share := "0"
		if stats.TotalAmount.IsPositive() {
			share = stats.TopSourceAmount.Div(stats.TotalAmount).Mul(hundred).StringFixed(0)
		}
		out = append(out, Insight{"🏆", fmt.Sprintf(
			"%s is your top earning source (%s%% of total earnings).", stats.TopSource.Label(), share)})
	}

	switch sources := len(stats.BySource); {
	case sources == 1:
		out = append(out, Insight{"💡", "Consider diversifying your income streams for financial stability."})
	case sources >= 3:
		out = append(out, Insight{"🌟", fmt.Sprintf("Great job! You have %d different income sources.", sources)})
	}

	if goal := profile.MonthlyGoal.Decimal(); goal.IsPositive() {
		out = append(out, goalInsight(goal, summary.Monthly, now, money))
	}

	if summary.Weekly.IsPositive() {
		out = append(out, Insight{"📅", fmt.Sprintf("This week: %s earned (avg %s/day)",
			money(summary.Weekly), money(summary.Weekly.Div(seven)))})
	}

	if stats.BestDay != nil {
		out = append(out, Insight{"🔥", fmt.Sprintf("Your best earning day was %s with %s.",
			core.FormatDay(*stats.BestDay, now), money(stats.BestDayAmount))})
	}

	if len(out) > MaxInsights {
		out = out[:MaxInsights]
	}
	return out
}

// goalInsight compares progress against the share of the month already gone.
// When behind on the last day of the month the whole remainder is due today.
func goalInsight(goal, earned decimal.Decimal, now time.Time, money func(decimal.Decimal) string) Insight {
	daysInMonth := core.DaysInMonth(now)
	elapsed := now.Day()
	remainingDays := daysInMonth - elapsed

	progress := earned.Div(goal).Mul(hundred)
	expected := decimal.NewFromInt(int64(elapsed)).Div(decimal.NewFromInt(int64(daysInMonth))).Mul(hundred)

	if progress.GreaterThanOrEqual(expected) {
		return Insight{"🎯", fmt.Sprintf("You're ahead of your monthly goal! %s%% achieved with %d days remaining.",
			progress.StringFixed(0), remainingDays)}
	}

	needed := goal.Sub(earned)
	if remainingDays <= 0 {
		return Insight{"💪", fmt.Sprintf("Earn %s today to reach your monthly goal.", money(needed))}
	}
	perDay := needed.Div(decimal.NewFromInt(int64(remainingDays)))
	return Insight{"💪", fmt.Sprintf("Earn %s per day to reach your monthly goal.", money(perDay))}
}
