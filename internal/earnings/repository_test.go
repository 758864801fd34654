package earnings

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"earnings/internal/core"
	"earnings/internal/entities"
	"earnings/internal/kv/memory"
)

func newRepo(t *testing.T) (*Repository, *entities.Store) {
	t.Helper()
	store := entities.New(memory.New(), entities.WithClock(func() time.Time { return now }))
	n := 0
	repo := NewRepository(store, WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}))
	return repo, store
}

func TestAddPrependsAndStamps(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo(t)

	first, err := repo.Add(ctx, core.Earning{Amount: core.AmountOf("1200,50"), Category: core.Freelance, Date: "2024-03-14"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if first.ID != "id-1" || !first.CreatedAt.Equal(now) || first.UpdatedAt != nil {
		t.Errorf("first = %+v", first)
	}
	if first.Amount.String() != "1200.50" {
		t.Errorf("amount stored as %q, want 1200.50", first.Amount)
	}

	if _, err := repo.Add(ctx, core.Earning{Amount: core.AmountOf("5"), Category: core.Cashback, Date: "2024-03-15T09:00:00Z"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].ID != "id-2" || list[1].ID != "id-1" {
		t.Fatalf("list order = %+v", list)
	}
	if list[0].Date != "2024-03-15" {
		t.Errorf("date stored as %q", list[0].Date)
	}

	recent, _ := repo.Recent(ctx, 1)
	if len(recent) != 1 || recent[0].ID != "id-2" {
		t.Errorf("Recent(1) = %+v", recent)
	}
}

func TestAddRejectsMissingFields(t *testing.T) {
	repo, store := newRepo(t)

	_, err := repo.Add(context.Background(), core.Earning{Amount: core.AmountOf("0"), Category: "lottery"})
	if !errors.Is(err, core.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
	var verr *core.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err is %T, want *core.ValidationError", err)
	}
	if fmt.Sprint(verr.Fields) != "[amount category date]" {
		t.Errorf("fields = %v", verr.Fields)
	}
	if store.Revision() != 0 {
		t.Errorf("rejected add wrote to the store")
	}
}

func TestAddRejectsExponentAmounts(t *testing.T) {
	ctx := context.Background()
	repo, store := newRepo(t)

	for _, raw := range []string{"1e99999999", "1E3", "5e-2"} {
		_, err := repo.Add(ctx, core.Earning{Amount: core.AmountOf(raw), Category: core.Salary, Date: "2024-03-15"})
		var verr *core.ValidationError
		if !errors.As(err, &verr) || fmt.Sprint(verr.Fields) != "[amount]" {
			t.Errorf("Add(%q) err = %v", raw, err)
		}
	}
	if store.Revision() != 0 {
		t.Errorf("rejected add wrote to the store")
	}
}

func TestStoredExponentAmountsReadAsZero(t *testing.T) {
	ctx := context.Background()
	repo, store := newRepo(t)

	// as left behind by an older build or an imported backup
	err := store.SaveEarnings(ctx, []core.Earning{
		{ID: "a", Amount: core.AmountOf("1e99999999"), Category: core.Salary, Date: "2024-03-15"},
		{ID: "b", Amount: core.AmountOf("12.34"), Category: core.Salary, Date: "2024-03-15"},
	})
	if err != nil {
		t.Fatalf("SaveEarnings: %v", err)
	}

	sum, err := repo.Summary(ctx)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if sum.Total.String() != "12.34" || sum.Monthly.String() != "12.34" {
		t.Errorf("summary = %+v", sum)
	}
	yearly, _ := repo.Yearly(ctx)
	if yearly.Total.String() != "12.34" || yearly.Count != 2 {
		t.Errorf("yearly = %+v", yearly)
	}
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo(t)
	added, err := repo.Add(ctx, core.Earning{Amount: core.AmountOf("100"), Category: core.Salary, Date: "2024-03-01", Source: "ACME"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	amount := core.AmountOf("250")
	got, ok, err := repo.Update(ctx, added.ID, core.EarningPatch{Amount: &amount})
	if err != nil || !ok {
		t.Fatalf("Update: ok=%v err=%v", ok, err)
	}
	if got.Amount.String() != "250" || got.Source != "ACME" || got.Category != core.Salary {
		t.Errorf("updated = %+v", got)
	}
	if got.UpdatedAt == nil || !got.UpdatedAt.Equal(now) {
		t.Errorf("updatedAt = %v", got.UpdatedAt)
	}
	if !got.CreatedAt.Equal(added.CreatedAt) || got.ID != added.ID {
		t.Errorf("identity changed: %+v", got)
	}

	t.Run("unknown id", func(t *testing.T) {
		_, ok, err := repo.Update(ctx, "nope", core.EarningPatch{Amount: &amount})
		if err != nil || ok {
			t.Errorf("ok=%v err=%v, want false nil", ok, err)
		}
	})

	t.Run("invalid merge", func(t *testing.T) {
		bad := core.Category("lottery")
		_, _, err := repo.Update(ctx, added.ID, core.EarningPatch{Category: &bad})
		if !errors.Is(err, core.ErrValidation) {
			t.Fatalf("err = %v, want ErrValidation", err)
		}
		stored, _, _ := repo.Get(ctx, added.ID)
		if stored.Category != core.Salary {
			t.Errorf("rejected update was stored: %+v", stored)
		}
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo(t)
	for _, amt := range []string{"1", "2", "3"} {
		if _, err := repo.Add(ctx, core.Earning{Amount: core.AmountOf(amt), Category: core.Cashback, Date: "2024-03-10"}); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	ok, err := repo.Delete(ctx, "id-2")
	if err != nil || !ok {
		t.Fatalf("Delete: ok=%v err=%v", ok, err)
	}
	list, _ := repo.List(ctx)
	if len(list) != 2 || list[0].ID != "id-3" || list[1].ID != "id-1" {
		t.Errorf("list after delete = %+v", list)
	}

	ok, err = repo.Delete(ctx, "id-2")
	if err != nil || ok {
		t.Errorf("second Delete: ok=%v err=%v", ok, err)
	}
	if _, found, _ := repo.Get(ctx, "id-2"); found {
		t.Errorf("deleted earning still found")
	}
}

func TestRepositoryReadsUseStoreClock(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo(t)
	if _, err := repo.Add(ctx, core.Earning{Amount: core.AmountOf("40"), Category: core.Passive, Date: "2024-03-15"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	s, err := repo.Summary(ctx)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if !s.Weekly.Equal(dec(40)) || !s.Monthly.Equal(dec(40)) {
		t.Errorf("summary = %+v", s)
	}
	days, _ := repo.ByDate(ctx, 7)
	if len(days) != 7 || days[6].Date != "2024-03-15" || !days[6].Total.Equal(dec(40)) {
		t.Errorf("by date = %+v", days)
	}
	months, _ := repo.MonthlyTotals(ctx, 6)
	if len(months) != 6 || months[5].Key != "2024-03" {
		t.Errorf("monthly = %+v", months)
	}
	today, _ := repo.Filtered(ctx, Filter{Range: RangeToday})
	if len(today) != 1 {
		t.Errorf("today filter = %d entries", len(today))
	}
}
