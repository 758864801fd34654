// Package services orchestrates the engines behind every user facing write
// and read: notifications, achievement checks and dashboard memoization.
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"earnings/internal/core"
	"earnings/internal/earnings"
	"earnings/internal/entities"
	"earnings/internal/goals"
	"earnings/internal/log"
	"earnings/internal/notify"
)

// EarningService performs writes the way the dashboard does them: store the
// change, tell the user, then re-check achievements.
type EarningService struct {
	store    *entities.Store
	repo     *earnings.Repository
	goals    *goals.Engine
	notifier notify.Notifier
	logger   *log.Logger
}

// WriteResult is the outcome of a write together with the achievements it
// unlocked.
type WriteResult[T any] struct {
	Value    T                   `json:"value"`
	Unlocked []goals.Achievement `json:"unlocked"`
}

// NewEarningService wires the service. The notifier should be the same one
// the goals engine announces unlocks with; nil discards notifications.
func NewEarningService(store *entities.Store, repo *earnings.Repository, g *goals.Engine, n notify.Notifier, logger *log.Logger) *EarningService {
	if n == nil {
		n = notify.Discard
	}
	if logger == nil {
		logger = log.Wrap(nil, log.ComponentEarnings)
	}
	return &EarningService{
		store:    store,
		repo:     repo,
		goals:    g,
		notifier: n,
		logger:   logger.WithComponent(log.ComponentEarnings),
	}
}

// Add records an earning, confirms it, announces a goal milestone when the
// earning crosses one and unlocks any achievement that now holds.
func (s *EarningService) Add(ctx context.Context, e core.Earning) (WriteResult[core.Earning], error) {
	before, err := s.goals.Progress(ctx)
	if err != nil {
		return WriteResult[core.Earning]{}, err
	}

	added, err := s.repo.Add(ctx, e)
	if err != nil {
		return WriteResult[core.Earning]{}, err
	}

	profile, err := s.store.Profile(ctx)
	if err != nil {
		return WriteResult[core.Earning]{}, fmt.Errorf("add earning: %w", err)
	}
	s.send(ctx, notify.EarningAdded(profile.CurrencySymbol(), added.Amount.Decimal(), added.Category))

	after, err := s.goals.Progress(ctx)
	if err != nil {
		return WriteResult[core.Earning]{}, err
	}
	if n, ok := milestoneCrossed(before, after); ok {
		s.send(ctx, n)
	}

	unlocked, err := s.goals.CheckAchievements(ctx)
	if err != nil {
		return WriteResult[core.Earning]{}, err
	}
	return WriteResult[core.Earning]{Value: added, Unlocked: unlocked}, nil
}

// Update edits an earning. ok is false when id is unknown.
func (s *EarningService) Update(ctx context.Context, id string, patch core.EarningPatch) (WriteResult[core.Earning], bool, error) {
	updated, ok, err := s.repo.Update(ctx, id, patch)
	if err != nil || !ok {
		return WriteResult[core.Earning]{}, ok, err
	}
	unlocked, err := s.goals.CheckAchievements(ctx)
	if err != nil {
		return WriteResult[core.Earning]{}, true, err
	}
	return WriteResult[core.Earning]{Value: updated, Unlocked: unlocked}, true, nil
}

// Delete removes an earning. Achievements stay unlocked.
func (s *EarningService) Delete(ctx context.Context, id string) (bool, error) {
	return s.repo.Delete(ctx, id)
}

// UpdateProfile validates and merges a profile patch. Setting a goal can
// unlock goalSetter and goalCrusher.
func (s *EarningService) UpdateProfile(ctx context.Context, patch core.ProfilePatch) (WriteResult[core.Profile], error) {
	if err := validateProfilePatch(patch); err != nil {
		return WriteResult[core.Profile]{}, err
	}
	if patch.MonthlyGoal != nil {
		g := core.NewAmount(goalValue(*patch.MonthlyGoal))
		patch.MonthlyGoal = &g
	}

	p, err := s.store.UpdateProfile(ctx, patch)
	if err != nil {
		return WriteResult[core.Profile]{}, fmt.Errorf("update profile: %w", err)
	}
	s.logger.InfoContext(ctx, "Profile updated", log.FieldOperation, log.OpUpdate)

	unlocked, err := s.goals.CheckAchievements(ctx)
	if err != nil {
		return WriteResult[core.Profile]{}, err
	}
	return WriteResult[core.Profile]{Value: p, Unlocked: unlocked}, nil
}

func (s *EarningService) UpdateSettings(ctx context.Context, patch core.SettingsPatch) (core.Settings, error) {
	if patch.Theme != nil && !patch.Theme.Valid() {
		return core.Settings{}, &core.ValidationError{Fields: []string{"theme"}}
	}
	st, err := s.store.UpdateSettings(ctx, patch)
	if err != nil {
		return core.Settings{}, fmt.Errorf("update settings: %w", err)
	}
	s.logger.InfoContext(ctx, "Settings updated", log.FieldOperation, log.OpUpdate,
		"theme", string(st.Theme), "notifications", st.Notifications)
	return st, nil
}

func (s *EarningService) send(ctx context.Context, n notify.Notification) {
	if err := s.notifier.Notify(ctx, n); err != nil {
		s.logger.ErrorContext(ctx, "Failed to send notification",
			log.FieldOperation, log.OpNotify, "kind", n.Kind, log.FieldError, err)
	}
}

// milestoneCrossed reports the goal notification for after when the earning
// moved progress into a higher milestone band.
func milestoneCrossed(before, after goals.Progress) (notify.Notification, bool) {
	if band(after.Percentage) <= band(before.Percentage) {
		return notify.Notification{}, false
	}
	return notify.GoalProgress(after.Percentage)
}

var milestones = []decimal.Decimal{decimal.NewFromInt(100), decimal.NewFromInt(75), decimal.NewFromInt(50)}

func band(pct decimal.Decimal) int {
	for i, m := range milestones {
		if pct.GreaterThanOrEqual(m) {
			return len(milestones) - i
		}
	}
	return 0
}

func validateProfilePatch(p core.ProfilePatch) error {
	var fields []string
	if p.Occupation != nil && !p.Occupation.Valid() {
		fields = append(fields, "occupation")
	}
	if p.MonthlyGoal != nil {
		if _, err := core.ParseGoal(p.MonthlyGoal.String()); err != nil {
			fields = append(fields, "monthlyGoal")
		}
	}
	if p.Currency != nil && strings.TrimSpace(*p.Currency) == "" {
		fields = append(fields, "currency")
	}
	if len(fields) > 0 {
		return &core.ValidationError{Fields: fields}
	}
	return nil
}

// goalValue reads an already validated goal; blank clears it to zero.
func goalValue(a core.Amount) decimal.Decimal {
	d, _ := core.ParseGoal(a.String())
	return d
}
