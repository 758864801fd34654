package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"earnings/internal/core"
	"earnings/internal/sheets"
	sheetsmem "earnings/internal/sheets/memory"
)

type failingWriter struct{ calls int }

func (w *failingWriter) ReplaceEarnings(context.Context, []sheets.Row) (string, error) {
	w.calls++
	return "", errors.New("quota exceeded")
}

func TestDefaultSheetsSyncConfig(t *testing.T) {
	config := DefaultSheetsSyncConfig()
	if config.PollInterval != 10*time.Second {
		t.Errorf("expected PollInterval 10s, got %v", config.PollInterval)
	}
	if config.MaxRetries != 3 {
		t.Errorf("expected MaxRetries 3, got %d", config.MaxRetries)
	}
}

func TestSheetsSync_PushesOnlyOnRevisionChange(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	w := sheetsmem.New()
	s := NewSheetsSync(f.store, w, DefaultSheetsSyncConfig(), nil)

	if !s.SyncOnce(ctx) {
		t.Fatal("first sync should push")
	}
	if s.SyncOnce(ctx) {
		t.Error("unchanged revision should not push")
	}

	if _, err := f.svc.Add(ctx, core.Earning{Amount: core.AmountOf("40"), Category: core.Passive, Date: "2024-03-12", Source: "Dividends"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if !s.SyncOnce(ctx) {
		t.Fatal("changed revision should push")
	}
	if w.Writes() != 2 {
		t.Errorf("writes = %d, want 2", w.Writes())
	}
	rows := w.Rows()
	if len(rows) != 1 || rows[0].Category != "Passive Income" || rows[0].Source != "Dividends" {
		t.Errorf("rows = %+v", rows)
	}
}

func TestSheetsSync_GivesUpAfterMaxRetries(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	w := &failingWriter{}
	s := NewSheetsSync(f.store, w, SheetsSyncConfig{PollInterval: time.Second, MaxRetries: 2}, nil)

	for i := 0; i < 4; i++ {
		s.SyncOnce(ctx)
	}
	if w.calls != 2 {
		t.Errorf("calls = %d, want 2", w.calls)
	}

	// a new revision gets a fresh set of attempts
	if _, err := f.svc.UpdateSettings(ctx, core.SettingsPatch{Theme: ptr(core.ThemeDark)}); err != nil {
		t.Fatalf("UpdateSettings: %v", err)
	}
	s.SyncOnce(ctx)
	if w.calls != 3 {
		t.Errorf("calls = %d, want 3", w.calls)
	}
}

func TestSheetsSync_StartStop(t *testing.T) {
	f := newFixture(t)
	w := sheetsmem.New()
	s := NewSheetsSync(f.store, w, SheetsSyncConfig{PollInterval: time.Hour}, nil)

	if s.IsRunning() {
		t.Error("sync should not be running initially")
	}
	ctx := context.Background()
	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := s.Start(ctx); err == nil {
		t.Error("expected error when starting twice")
	}

	stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.Stop(stopCtx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if s.IsRunning() {
		t.Error("sync should not be running after Stop")
	}
	if w.Writes() != 1 {
		t.Errorf("startup push writes = %d, want 1", w.Writes())
	}
	if err := s.Stop(stopCtx); err != nil {
		t.Errorf("Stop on stopped sync: %v", err)
	}
}

func TestSheetsSync_RestartsAfterContextEnds(t *testing.T) {
	f := newFixture(t)
	w := sheetsmem.New()
	s := NewSheetsSync(f.store, w, SheetsSyncConfig{PollInterval: time.Hour, MaxRetries: 1}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	cancel()

	deadline := time.Now().Add(5 * time.Second)
	for s.IsRunning() {
		if time.Now().After(deadline) {
			t.Fatal("sync still running after its context ended")
		}
		time.Sleep(10 * time.Millisecond)
	}

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start after context end: %v", err)
	}
	stopCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if err := s.Stop(stopCtx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if s.IsRunning() {
		t.Error("sync should not be running after Stop")
	}
}

func TestSheetsSync_StopTimeoutDoesNotWedgeStart(t *testing.T) {
	f := newFixture(t)
	w := &blockingWriter{entered: make(chan struct{}), release: make(chan struct{})}
	s := NewSheetsSync(f.store, w, SheetsSyncConfig{PollInterval: time.Hour, MaxRetries: 1}, nil)

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	<-w.entered

	expired, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	if err := s.Stop(expired); err == nil {
		t.Fatal("expected Stop to time out while a push is in flight")
	}

	close(w.release)
	deadline := time.Now().Add(5 * time.Second)
	for s.IsRunning() {
		if time.Now().After(deadline) {
			t.Fatal("sync still running after the push returned")
		}
		time.Sleep(10 * time.Millisecond)
	}
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start after timed out Stop: %v", err)
	}
	stopCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if err := s.Stop(stopCtx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}

// blockingWriter holds its first push until release is closed.
type blockingWriter struct {
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (w *blockingWriter) ReplaceEarnings(context.Context, []sheets.Row) (string, error) {
	w.once.Do(func() {
		close(w.entered)
		<-w.release
	})
	return "blocked", nil
}
