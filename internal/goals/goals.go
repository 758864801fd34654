// Package goals tracks progress toward the monthly goal and unlocks the
// achievement badges.
package goals

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"earnings/internal/analytics"
	"earnings/internal/core"
	"earnings/internal/earnings"
	"earnings/internal/entities"
	"earnings/internal/log"
	"earnings/internal/notify"
)

// Thresholds for the achievements that depend on a number.
const (
	DiversifiedSources = 3
	OnFireStreak       = 7
)

// HighRollerAmount is the single entry amount that unlocks highRoller.
var HighRollerAmount = decimal.NewFromInt(10_000)

var hundred = decimal.NewFromInt(100)

type Progress struct {
	Goal      decimal.Decimal `json:"goal"`
	Earned    decimal.Decimal `json:"earned"`
	Remaining decimal.Decimal `json:"remaining"`
	// Percentage is clamped to [0, 100] and rounded to one decimal place.
	Percentage decimal.Decimal `json:"percentage"`
	IsComplete bool            `json:"isComplete"`
}

// ComputeProgress measures this month's earnings against the profile goal.
func ComputeProgress(list []core.Earning, profile core.Profile, now time.Time) Progress {
	goal := profile.MonthlyGoal.Decimal()
	earned := earnings.Total(earnings.Since(list, core.FirstOfMonth(now)))

	pct := decimal.Zero
	if goal.IsPositive() {
		pct = earned.Div(goal).Mul(hundred)
		pct = decimal.Min(decimal.Max(pct, decimal.Zero), hundred).Round(1)
	}

	return Progress{
		Goal:       goal,
		Earned:     earned,
		Remaining:  decimal.Max(goal.Sub(earned), decimal.Zero),
		Percentage: pct,
		IsComplete: goal.IsPositive() && earned.GreaterThanOrEqual(goal),
	}
}

// Qualified returns the achievements whose condition holds for the given
// state, in catalogue order. It does not look at what is already unlocked.
func Qualified(list []core.Earning, profile core.Profile, now time.Time) []core.AchievementID {
	var ids []core.AchievementID
	if len(list) >= 1 {
		ids = append(ids, core.FirstEarning)
	}
	if len(earnings.GroupBySource(list)) >= DiversifiedSources {
		ids = append(ids, core.Diversified)
	}
	if profile.MonthlyGoal.Decimal().IsPositive() {
		ids = append(ids, core.GoalSetter)
	}
	if ComputeProgress(list, profile, now).IsComplete {
		ids = append(ids, core.GoalCrusher)
	}
	if analytics.Streak(list, now) >= OnFireStreak {
		ids = append(ids, core.OnFire)
	}
	for _, e := range list {
		if e.Amount.Decimal().GreaterThanOrEqual(HighRollerAmount) {
			ids = append(ids, core.HighRoller)
			break
		}
	}
	return ids
}

// Engine evaluates goals against the entity store and announces unlocks.
type Engine struct {
	store    *entities.Store
	notifier notify.Notifier
	logger   *log.Logger
}

type Option func(*Engine)

func WithNotifier(n notify.Notifier) Option {
	return func(e *Engine) { e.notifier = n }
}

func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.logger = l.WithComponent(log.ComponentGoals) }
}

func NewEngine(store *entities.Store, opts ...Option) *Engine {
	e := &Engine{
		store:    store,
		notifier: notify.Discard,
		logger:   log.Wrap(nil, log.ComponentGoals),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Progress(ctx context.Context) (Progress, error) {
	list, err := e.store.Earnings(ctx)
	if err != nil {
		return Progress{}, fmt.Errorf("compute progress: %w", err)
	}
	profile, err := e.store.Profile(ctx)
	if err != nil {
		return Progress{}, fmt.Errorf("compute progress: %w", err)
	}
	return ComputeProgress(list, profile, e.store.Now()), nil
}

// CheckAchievements unlocks every achievement whose condition now holds and
// sends one notification per newly unlocked achievement. Achievements that
// were already unlocked are neither returned nor announced again.
func (e *Engine) CheckAchievements(ctx context.Context) ([]Achievement, error) {
	list, err := e.store.Earnings(ctx)
	if err != nil {
		return nil, fmt.Errorf("check achievements: %w", err)
	}
	profile, err := e.store.Profile(ctx)
	if err != nil {
		return nil, fmt.Errorf("check achievements: %w", err)
	}

	ids, err := e.store.Unlock(ctx, Qualified(list, profile, e.store.Now())...)
	if err != nil {
		return nil, fmt.Errorf("check achievements: %w", err)
	}

	unlocked := make([]Achievement, 0, len(ids))
	for _, id := range ids {
		a := Lookup(id)
		a.Unlocked = true
		unlocked = append(unlocked, a)

		e.logger.InfoContext(ctx, "Achievement unlocked",
			log.FieldOperation, log.OpUnlock, log.FieldAchievement, string(id))
		if err := e.notifier.Notify(ctx, notify.AchievementUnlocked(a.Title, a.Icon)); err != nil {
			e.logger.ErrorContext(ctx, "Failed to send achievement notification",
				log.FieldAchievement, string(id), log.FieldError, err)
		}
	}
	return unlocked, nil
}

// Achievements returns the whole catalogue with the stored unlock flags.
func (e *Engine) Achievements(ctx context.Context) ([]Achievement, error) {
	flags, err := e.store.Achievements(ctx)
	if err != nil {
		return nil, fmt.Errorf("list achievements: %w", err)
	}
	out := Catalogue()
	for i := range out {
		out[i].Unlocked = flags[out[i].ID]
	}
	return out, nil
}

func (e *Engine) Tips(ctx context.Context) ([]string, error) {
	profile, err := e.store.Profile(ctx)
	if err != nil {
		return nil, fmt.Errorf("tips: %w", err)
	}
	return Tips(profile.Occupation), nil
}
