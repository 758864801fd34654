package analytics

import (
	"context"
	"fmt"

	"earnings/internal/entities"
)

// Engine evaluates the analytics against the live entity store.
type Engine struct {
	store *entities.Store
}

func NewEngine(store *entities.Store) *Engine {
	return &Engine{store: store}
}

func (e *Engine) Compute(ctx context.Context) (Analytics, error) {
	list, err := e.store.Earnings(ctx)
	if err != nil {
		return Analytics{}, fmt.Errorf("compute analytics: %w", err)
	}
	return Compute(list, e.store.Now()), nil
}

func (e *Engine) Insights(ctx context.Context) ([]Insight, error) {
	list, err := e.store.Earnings(ctx)
	if err != nil {
		return nil, fmt.Errorf("generate insights: %w", err)
	}
	profile, err := e.store.Profile(ctx)
	if err != nil {
		return nil, fmt.Errorf("generate insights: %w", err)
	}
	return Insights(list, profile, e.store.Now()), nil
}

func (e *Engine) Streak(ctx context.Context) (int, error) {
	list, err := e.store.Earnings(ctx)
	if err != nil {
		return 0, fmt.Errorf("compute streak: %w", err)
	}
	return Streak(list, e.store.Now()), nil
}

func (e *Engine) Overview(ctx context.Context, period Period) (Series, error) {
	list, err := e.store.Earnings(ctx)
	if err != nil {
		return Series{}, fmt.Errorf("build overview: %w", err)
	}
	return Overview(list, period, e.store.Now()), nil
}
