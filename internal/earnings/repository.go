// Package earnings filters, groups and summarises the recorded earnings and
// owns their create, update and delete operations.
//
// The package level functions are pure and take the list and the current time
// explicitly; Repository binds them to an entity store and its clock.
package earnings

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"earnings/internal/core"
	"earnings/internal/entities"
	"earnings/internal/log"
)

type Repository struct {
	store  *entities.Store
	newID  func() string
	logger *log.Logger
}

type Option func(*Repository)

// WithIDGenerator replaces uuid generation, mostly for tests.
func WithIDGenerator(fn func() string) Option {
	return func(r *Repository) { r.newID = fn }
}

func WithLogger(l *log.Logger) Option {
	return func(r *Repository) { r.logger = l.WithComponent(log.ComponentEarnings) }
}

func NewRepository(store *entities.Store, opts ...Option) *Repository {
	r := &Repository{
		store:  store,
		newID:  uuid.NewString,
		logger: log.Wrap(nil, log.ComponentEarnings),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Repository) now() time.Time {
	return r.store.Now()
}

// List returns every earning, newest first.
func (r *Repository) List(ctx context.Context) ([]core.Earning, error) {
	list, err := r.store.Earnings(ctx)
	if err != nil {
		return nil, fmt.Errorf("list earnings: %w", err)
	}
	return list, nil
}

// Recent returns at most n of the newest earnings.
func (r *Repository) Recent(ctx context.Context, n int) ([]core.Earning, error) {
	list, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	if n >= 0 && n < len(list) {
		list = list[:n]
	}
	return list, nil
}

func (r *Repository) Filtered(ctx context.Context, f Filter) ([]core.Earning, error) {
	list, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	return f.Apply(list, r.now()), nil
}

func (r *Repository) Total(ctx context.Context) (decimal.Decimal, error) {
	list, err := r.List(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return Total(list), nil
}

func (r *Repository) Summary(ctx context.Context) (Summary, error) {
	list, err := r.List(ctx)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(list, r.now()), nil
}

func (r *Repository) BySource(ctx context.Context) ([]SourceTotal, error) {
	list, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	return GroupBySource(list), nil
}

func (r *Repository) ByDate(ctx context.Context, days int) ([]DayTotal, error) {
	list, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	return GroupByDate(list, days, r.now()), nil
}

func (r *Repository) MonthlyTotals(ctx context.Context, months int) ([]MonthTotal, error) {
	list, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	return GroupByMonth(list, months, r.now()), nil
}

func (r *Repository) Yearly(ctx context.Context) (YearTotal, error) {
	list, err := r.List(ctx)
	if err != nil {
		return YearTotal{}, err
	}
	return YearToDate(list, r.now()), nil
}
