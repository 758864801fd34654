package services

import (
	"context"
	"fmt"
	"time"

	"earnings/internal/analytics"
	"earnings/internal/cache"
	"earnings/internal/core"
	"earnings/internal/earnings"
	"earnings/internal/entities"
	"earnings/internal/goals"
)

// RecentCount is how many of the newest earnings a snapshot carries.
const RecentCount = 5

// Snapshot is everything the dashboard view renders.
type Snapshot struct {
	Summary   earnings.Summary    `json:"summary"`
	Analytics analytics.Analytics `json:"analytics"`
	Insights  []analytics.Insight `json:"insights"`
	Progress  goals.Progress      `json:"progress"`
	Streak    int                 `json:"streak"`
	Yearly    earnings.YearTotal  `json:"yearly"`
	Recent    []core.Earning      `json:"recent"`
	Revision  uint64              `json:"revision"`
}

// Dashboard builds snapshots, reusing one while neither the store revision
// nor the calendar day changed.
type Dashboard struct {
	store *entities.Store
	memo  *cache.Memo[Snapshot]
}

// NewDashboard keeps snapshots for ttl. A zero ttl recomputes every time.
func NewDashboard(store *entities.Store, ttl time.Duration) *Dashboard {
	return &Dashboard{store: store, memo: cache.NewMemo[Snapshot](8, ttl)}
}

// Memo exposes the snapshot cache so it can be registered for sweeping.
func (d *Dashboard) Memo() *cache.Memo[Snapshot] {
	return d.memo
}

func (d *Dashboard) Snapshot(ctx context.Context) (Snapshot, error) {
	now := d.store.Now()
	rev := d.store.Revision()
	key := fmt.Sprintf("%d:%s", rev, core.DateOf(now))
	return d.memo.Do(key, func() (Snapshot, error) {
		return d.build(ctx, rev, now)
	})
}

func (d *Dashboard) build(ctx context.Context, rev uint64, now time.Time) (Snapshot, error) {
	list, err := d.store.Earnings(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("build dashboard: %w", err)
	}
	profile, err := d.store.Profile(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("build dashboard: %w", err)
	}

	recent := list
	if len(recent) > RecentCount {
		recent = recent[:RecentCount]
	}

	return Snapshot{
		Summary:   earnings.Summarize(list, now),
		Analytics: analytics.Compute(list, now),
		Insights:  analytics.Insights(list, profile, now),
		Progress:  goals.ComputeProgress(list, profile, now),
		Streak:    analytics.Streak(list, now),
		Yearly:    earnings.YearToDate(list, now),
		Recent:    append([]core.Earning(nil), recent...),
		Revision:  rev,
	}, nil
}
