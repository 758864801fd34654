package export

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"earnings/internal/core"
	"earnings/internal/earnings"
	"earnings/internal/entities"
	"earnings/internal/kv/memory"
)

var now = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

func sample() []core.Earning {
	return []core.Earning{
		{ID: "1", Amount: core.AmountOf("1500"), Category: core.Salary, Date: "2024-03-14", Source: "ACME"},
		{ID: "2", Amount: core.AmountOf("25.5"), Category: core.Cashback, Date: "2024-03-10", Notes: "card"},
		{ID: "3", Amount: core.AmountOf("500"), Category: core.Salary, Date: "2024-02-20"},
	}
}

func open(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestWorkbook(t *testing.T) {
	data, err := Workbook(sample())
	if err != nil {
		t.Fatalf("Workbook: %v", err)
	}
	f := open(t, data)

	rows, err := f.GetRows(EarningsSheet)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("earnings rows = %d, want 4", len(rows))
	}
	if rows[0][0] != "Date" || rows[0][4] != "Notes" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][0] != "2024-03-14" || rows[1][1] != "Salary / Stipend" || rows[1][2] != "ACME" || rows[1][3] != "1500" {
		t.Errorf("row 1 = %v", rows[1])
	}
	if rows[2][3] != "25.5" || rows[2][4] != "card" {
		t.Errorf("row 2 = %v", rows[2])
	}

	summary, err := f.GetRows(SummarySheet)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	want := [][]string{
		{"Category", "Total"},
		{"Salary / Stipend", "2000"},
		{"Cashback & Rewards", "25.5"},
		{"Total", "2025.5"},
	}
	if len(summary) != len(want) {
		t.Fatalf("summary = %v", summary)
	}
	for i := range want {
		if summary[i][0] != want[i][0] || summary[i][1] != want[i][1] {
			t.Errorf("summary row %d = %v, want %v", i, summary[i], want[i])
		}
	}
}

func TestEarningsXLSXAppliesFilter(t *testing.T) {
	ctx := context.Background()
	store := entities.New(memory.New(), entities.WithClock(func() time.Time { return now }))
	if err := store.SaveEarnings(ctx, sample()); err != nil {
		t.Fatal(err)
	}

	data, err := NewService(store, nil).EarningsXLSX(ctx, earnings.Filter{Range: earnings.RangeMonth})
	if err != nil {
		t.Fatalf("EarningsXLSX: %v", err)
	}
	rows, err := open(t, data).GetRows(EarningsSheet)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Errorf("rows = %d, want header + 2 March earnings", len(rows))
	}
}
