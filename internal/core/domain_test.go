package core

import (
	"errors"
	"testing"
	"time"
)

func TestDateNormalize(t *testing.T) {
	cases := []struct {
		in  Date
		out Date
		ok  bool
	}{
		{"2025-01-01", "2025-01-01", true},
		{"2025-12-31T18:30:00Z", "2025-12-31", true},
		{"2025-02-30", "", false},
		{"", "", false},
		{"yesterday", "", false},
	}
	for i, tc := range cases {
		got, ok := tc.in.Normalize()
		if ok != tc.ok || got != tc.out {
			t.Fatalf("case %d: expected (%q,%v), got (%q,%v)", i, tc.out, tc.ok, got, ok)
		}
	}
}

func TestDateAddDaysAcrossMonths(t *testing.T) {
	if got := NewDate(2025, 3, 1).AddDays(-1); got != "2025-02-28" {
		t.Fatalf("expected 2025-02-28, got %s", got)
	}
	if got := NewDate(2024, 12, 31).AddDays(1); got != "2025-01-01" {
		t.Fatalf("expected 2025-01-01, got %s", got)
	}
}

func TestEarningValidate(t *testing.T) {
	good := Earning{Amount: AmountOf("100"), Category: Salary, Date: NewDate(2025, 1, 1)}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	err := Earning{Amount: AmountOf("0"), Category: "lottery"}.Validate()
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if len(ve.Fields) != 3 || ve.Fields[0] != "amount" || ve.Fields[1] != "category" || ve.Fields[2] != "date" {
		t.Fatalf("unexpected fields: %v", ve.Fields)
	}
}

func TestPatchesMergeShallow(t *testing.T) {
	name := "Asha"
	p := ProfilePatch{Name: &name}.Apply(DefaultProfile(time.Now()))
	if p.Name != "Asha" || p.Currency != DefaultCurrency || p.Occupation != Student {
		t.Fatalf("unexpected merged profile: %+v", p)
	}

	off := false
	s := SettingsPatch{Notifications: &off}.Apply(DefaultSettings())
	if s.Theme != ThemeLight || s.Notifications {
		t.Fatalf("unexpected merged settings: %+v", s)
	}

	notes := "bonus"
	e := EarningPatch{Notes: &notes}.Apply(Earning{ID: "x", Amount: AmountOf("5"), Source: "acme"})
	if e.ID != "x" || e.Source != "acme" || e.Notes != "bonus" || e.Amount.String() != "5" {
		t.Fatalf("unexpected merged earning: %+v", e)
	}
}

func TestCategoryCatalogue(t *testing.T) {
	if len(Categories()) != 6 {
		t.Fatalf("expected 6 categories")
	}
	if Salary.Label() != "Salary / Stipend" || Salary.Icon() != "💰" {
		t.Fatalf("unexpected salary label/icon")
	}
	if Category("gift").Label() != "gift" || Category("gift").Icon() != "💵" {
		t.Fatalf("unknown category should fall back to raw label and default icon")
	}
}

func TestFormatDay(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	cases := map[Date]string{
		"2025-06-15": "Today",
		"2025-06-14": "Yesterday",
		"2025-06-01": "1 Jun",
		"2024-12-25": "25 Dec 2024",
	}
	for in, want := range cases {
		if got := FormatDay(in, now); got != want {
			t.Errorf("FormatDay(%s) = %q, want %q", in, got, want)
		}
	}
}
