package earnings

import (
	"context"
	"fmt"

	"earnings/internal/core"
	"earnings/internal/log"
)

// Get returns the earning with the given id. ok is false when there is none.
func (r *Repository) Get(ctx context.Context, id string) (core.Earning, bool, error) {
	list, err := r.List(ctx)
	if err != nil {
		return core.Earning{}, false, err
	}
	for _, e := range list {
		if e.ID == id {
			return e, true, nil
		}
	}
	return core.Earning{}, false, nil
}

// Add validates e, assigns it an id and a creation time and stores it in front
// of the existing entries.
func (r *Repository) Add(ctx context.Context, e core.Earning) (core.Earning, error) {
	e, err := normalize(e)
	if err != nil {
		return core.Earning{}, err
	}
	e.ID = r.newID()
	e.CreatedAt = r.now()
	e.UpdatedAt = nil

	err = r.store.MutateEarnings(ctx, func(list []core.Earning) ([]core.Earning, bool, error) {
		return append([]core.Earning{e}, list...), true, nil
	})
	if err != nil {
		return core.Earning{}, fmt.Errorf("add earning: %w", err)
	}

	r.logger.InfoContext(ctx, "Earning added", log.NewFields().
		WithOperation(log.OpCreate).
		WithEarning(e.ID, e.Amount.String(), string(e.Category), string(e.Date)).
		ToSlice()...)
	return e, nil
}

// Update merges patch into the stored earning and re-validates the result.
// ok is false, with no error, when id is unknown.
func (r *Repository) Update(ctx context.Context, id string, patch core.EarningPatch) (core.Earning, bool, error) {
	var (
		updated core.Earning
		found   bool
	)
	err := r.store.MutateEarnings(ctx, func(list []core.Earning) ([]core.Earning, bool, error) {
		for i, e := range list {
			if e.ID != id {
				continue
			}
			merged, err := normalize(patch.Apply(e))
			if err != nil {
				return nil, false, err
			}
			now := r.now()
			merged.UpdatedAt = &now
			list[i] = merged
			updated, found = merged, true
			return list, true, nil
		}
		return list, false, nil
	})
	if err != nil {
		return core.Earning{}, false, fmt.Errorf("update earning %s: %w", id, err)
	}
	if !found {
		return core.Earning{}, false, nil
	}

	r.logger.InfoContext(ctx, "Earning updated", log.NewFields().
		WithOperation(log.OpUpdate).
		WithEarning(updated.ID, updated.Amount.String(), string(updated.Category), string(updated.Date)).
		ToSlice()...)
	return updated, true, nil
}

// Delete removes the earning with the given id and reports whether it existed.
func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	var found bool
	err := r.store.MutateEarnings(ctx, func(list []core.Earning) ([]core.Earning, bool, error) {
		for i, e := range list {
			if e.ID == id {
				found = true
				return append(list[:i:i], list[i+1:]...), true, nil
			}
		}
		return list, false, nil
	})
	if err != nil {
		return false, fmt.Errorf("delete earning %s: %w", id, err)
	}
	if found {
		r.logger.InfoContext(ctx, "Earning deleted",
			log.FieldOperation, log.OpDelete, log.FieldEarningID, id)
	}
	return found, nil
}

// normalize validates the required fields and rewrites amount and date into
// their canonical stored form.
func normalize(e core.Earning) (core.Earning, error) {
	if err := e.Validate(); err != nil {
		return core.Earning{}, err
	}
	amount, _ := core.ParseAmount(e.Amount.String())
	date, _ := e.Date.Normalize()
	e.Amount = amount
	e.Date = date
	return e, nil
}
