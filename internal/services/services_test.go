package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"earnings/internal/core"
	"earnings/internal/earnings"
	"earnings/internal/entities"
	"earnings/internal/goals"
	"earnings/internal/kv/memory"
	"earnings/internal/notify"
)

var now = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

type recorder struct {
	mu   sync.Mutex
	sent []notify.Notification
}

func (r *recorder) Notify(_ context.Context, n notify.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
	return nil
}

func (r *recorder) messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.sent))
	for i, n := range r.sent {
		out[i] = n.Message
	}
	return out
}

func (r *recorder) reset() {
	r.mu.Lock()
	r.sent = nil
	r.mu.Unlock()
}

type fixture struct {
	store *entities.Store
	svc   *EarningService
	rec   *recorder
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store := entities.New(memory.New(), entities.WithClock(func() time.Time { return now }))
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	n := 0
	repo := earnings.NewRepository(store, earnings.WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}))
	rec := &recorder{}
	g := goals.NewEngine(store, goals.WithNotifier(rec))
	return fixture{store: store, svc: NewEarningService(store, repo, g, rec, nil), rec: rec}
}

func ptr[T any](v T) *T { return &v }

func TestEarningService_AddNotifiesAndUnlocks(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	res, err := f.svc.Add(ctx, core.Earning{Amount: core.AmountOf("5000"), Category: core.Salary, Date: "2024-03-15"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if res.Value.ID != "id-1" {
		t.Errorf("id = %q", res.Value.ID)
	}
	if len(res.Unlocked) != 1 || res.Unlocked[0].ID != core.FirstEarning {
		t.Fatalf("unlocked = %+v", res.Unlocked)
	}

	want := []string{"₹5.0K added to Salary / Stipend", "Achievement Unlocked: First Earning!"}
	got := f.rec.messages()
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("notifications = %q, want %q", got, want)
	}
}

func TestEarningService_AddValidation(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Add(context.Background(), core.Earning{Category: core.Salary})
	if !errors.Is(err, core.ErrValidation) {
		t.Fatalf("err = %v, want validation error", err)
	}
	if len(f.rec.messages()) != 0 {
		t.Errorf("rejected write sent notifications: %q", f.rec.messages())
	}
}

func TestEarningService_GoalMilestones(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	res, err := f.svc.UpdateProfile(ctx, core.ProfilePatch{MonthlyGoal: ptr(core.AmountOf("1000"))})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if len(res.Unlocked) != 1 || res.Unlocked[0].ID != core.GoalSetter {
		t.Fatalf("unlocked = %+v", res.Unlocked)
	}

	steps := []struct {
		amount    string
		milestone string
	}{
		{"600", "Halfway there! 60% of your goal completed."},
		{"100", ""},
		{"100", "Almost there! 80% of your goal completed."},
		{"200", "🎉 Congratulations! You've reached your monthly goal!"},
	}
	for i, step := range steps {
		f.rec.reset()
		if _, err := f.svc.Add(ctx, core.Earning{Amount: core.AmountOf(step.amount), Category: core.Freelance, Date: "2024-03-14"}); err != nil {
			t.Fatalf("step %d: Add: %v", i, err)
		}
		var found string
		for _, n := range f.rec.sent {
			if n.Kind == notify.KindGoalProgress {
				found = n.Message
			}
		}
		if found != step.milestone {
			t.Errorf("step %d: milestone = %q, want %q", i, found, step.milestone)
		}
	}

	flags, _ := f.store.Achievements(ctx)
	if !flags[core.GoalCrusher] {
		t.Error("goalCrusher should be unlocked once the goal is reached")
	}
}

func TestEarningService_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	if _, err := f.svc.Add(ctx, core.Earning{Amount: core.AmountOf("10"), Category: core.Cashback, Date: "2024-03-15"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	res, ok, err := f.svc.Update(ctx, "id-1", core.EarningPatch{Amount: ptr(core.AmountOf("12000"))})
	if err != nil || !ok {
		t.Fatalf("Update: ok=%v err=%v", ok, err)
	}
	if len(res.Unlocked) != 1 || res.Unlocked[0].ID != core.HighRoller {
		t.Errorf("unlocked = %+v, want highRoller", res.Unlocked)
	}

	if _, ok, err := f.svc.Update(ctx, "missing", core.EarningPatch{}); ok || err != nil {
		t.Errorf("Update(missing) ok=%v err=%v", ok, err)
	}

	deleted, err := f.svc.Delete(ctx, "id-1")
	if err != nil || !deleted {
		t.Fatalf("Delete: %v %v", deleted, err)
	}
	flags, _ := f.store.Achievements(ctx)
	if !flags[core.HighRoller] || !flags[core.FirstEarning] {
		t.Error("deleting an earning must not relock achievements")
	}
}

func TestEarningService_UpdateProfileValidation(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.UpdateProfile(context.Background(), core.ProfilePatch{
		Occupation:  ptr(core.Occupation("pirate")),
		MonthlyGoal: ptr(core.AmountOf("-5")),
		Currency:    ptr(" "),
	})
	var ve *core.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v", err)
	}
	if fmt.Sprint(ve.Fields) != "[occupation monthlyGoal currency]" {
		t.Errorf("fields = %v", ve.Fields)
	}
}

func TestEarningService_UpdateProfileNormalizesGoal(t *testing.T) {
	f := newFixture(t)
	res, err := f.svc.UpdateProfile(context.Background(), core.ProfilePatch{MonthlyGoal: ptr(core.AmountOf("1500,5"))})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if res.Value.MonthlyGoal.String() != "1500.5" {
		t.Errorf("goal = %q", res.Value.MonthlyGoal)
	}
}

func TestEarningService_UpdateSettings(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	if _, err := f.svc.UpdateSettings(ctx, core.SettingsPatch{Theme: ptr(core.Theme("neon"))}); !errors.Is(err, core.ErrValidation) {
		t.Fatalf("err = %v", err)
	}
	st, err := f.svc.UpdateSettings(ctx, core.SettingsPatch{Theme: ptr(core.ThemeDark)})
	if err != nil {
		t.Fatalf("UpdateSettings: %v", err)
	}
	if st.Theme != core.ThemeDark || !st.Notifications {
		t.Errorf("settings = %+v", st)
	}
}
