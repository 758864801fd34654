// Package notify delivers user facing notifications: a confirmation when an
// earning is recorded, achievement unlocks and monthly goal milestones.
package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"earnings/internal/core"
	"earnings/internal/log"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelError   Level = "error"
)

// Notification kinds.
const (
	KindEarningAdded        = "earning_added"
	KindAchievementUnlocked = "achievement_unlocked"
	KindGoalProgress        = "goal_progress"
)

type Notification struct {
	Kind    string `json:"kind"`
	Level   Level  `json:"level"`
	Icon    string `json:"icon,omitempty"`
	Message string `json:"message"`
}

// Notifier delivers a notification somewhere the user will see it.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// Func adapts a plain function to Notifier.
type Func func(ctx context.Context, n Notification) error

func (f Func) Notify(ctx context.Context, n Notification) error { return f(ctx, n) }

// Discard drops every notification.
var Discard Notifier = Func(func(context.Context, Notification) error { return nil })

// EarningAdded confirms a newly recorded earning, e.g. "₹5.0K added to Salary / Stipend".
func EarningAdded(currency string, amount decimal.Decimal, category core.Category) Notification {
	return Notification{
		Kind:    KindEarningAdded,
		Level:   LevelSuccess,
		Icon:    "💰",
		Message: fmt.Sprintf("%s%s added to %s", currency, core.FormatAmount(amount), category.Label()),
	}
}

func AchievementUnlocked(title, icon string) Notification {
	return Notification{
		Kind:    KindAchievementUnlocked,
		Level:   LevelSuccess,
		Icon:    icon,
		Message: fmt.Sprintf("Achievement Unlocked: %s!", title),
	}
}

var (
	fifty       = decimal.NewFromInt(50)
	seventyFive = decimal.NewFromInt(75)
	oneHundred  = decimal.NewFromInt(100)
)

// GoalProgress returns the milestone notification for a goal percentage. ok
// is false below the halfway mark.
func GoalProgress(percentage decimal.Decimal) (n Notification, ok bool) {
	switch {
	case percentage.GreaterThanOrEqual(oneHundred):
		return Notification{KindGoalProgress, LevelSuccess, "🏆", "🎉 Congratulations! You've reached your monthly goal!"}, true
	case percentage.GreaterThanOrEqual(seventyFive):
		return Notification{KindGoalProgress, LevelInfo, "🎯",
			fmt.Sprintf("Almost there! %s%% of your goal completed.", percentage.StringFixed(0))}, true
	case percentage.GreaterThanOrEqual(fifty):
		return Notification{KindGoalProgress, LevelInfo, "💪",
			fmt.Sprintf("Halfway there! %s%% of your goal completed.", percentage.StringFixed(0))}, true
	}
	return Notification{}, false
}

// Fanout delivers to every notifier and joins their errors.
type Fanout []Notifier

func (f Fanout) Notify(ctx context.Context, n Notification) error {
	var errs []error
	for _, next := range f {
		if err := next.Notify(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Gate forwards notifications only while enabled reports true. A failing
// enabled check suppresses the notification and returns the error.
func Gate(next Notifier, enabled func(context.Context) (bool, error)) Notifier {
	return Func(func(ctx context.Context, n Notification) error {
		ok, err := enabled(ctx)
		if err != nil {
			return fmt.Errorf("check notification setting: %w", err)
		}
		if !ok {
			return nil
		}
		return next.Notify(ctx, n)
	})
}

// Logger writes notifications to the structured log.
type Logger struct {
	logger *log.Logger
}

func NewLogger(l *log.Logger) *Logger {
	if l == nil {
		l = log.Wrap(nil, log.ComponentNotify)
	}
	return &Logger{logger: l.WithComponent(log.ComponentNotify)}
}

func (l *Logger) Notify(ctx context.Context, n Notification) error {
	l.logger.InfoContext(ctx, n.Message,
		log.FieldOperation, log.OpNotify,
		"kind", n.Kind,
		"level", string(n.Level),
		"icon", n.Icon)
	return nil
}
