package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"earnings/internal/entities"
	"earnings/internal/log"
	"earnings/internal/sheets"
)

// SheetsSyncConfig holds configuration for the sheets mirror
type SheetsSyncConfig struct {
	// PollInterval is how often the store revision is checked (default: 10s)
	PollInterval time.Duration

	// MaxRetries is how many consecutive failures are tolerated for one
	// revision before it is skipped until the next change (default: 3)
	MaxRetries int
}

// DefaultSheetsSyncConfig returns sensible defaults
func DefaultSheetsSyncConfig() SheetsSyncConfig {
	return SheetsSyncConfig{
		PollInterval: 10 * time.Second,
		MaxRetries:   3,
	}
}

// SheetsSync mirrors the earnings list to a spreadsheet whenever the store
// revision moves.
type SheetsSync struct {
	store  *entities.Store
	writer sheets.EarningsWriter
	config SheetsSyncConfig
	logger *log.Logger

	// Lifecycle management
	mu        sync.Mutex
	running   bool
	stopCh    chan struct{}
	doneCh    chan struct{}
	synced    uint64
	hasSync   bool
	failedRev uint64
	failures  int
}

func NewSheetsSync(store *entities.Store, writer sheets.EarningsWriter, config SheetsSyncConfig, logger *log.Logger) *SheetsSync {
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultSheetsSyncConfig().PollInterval
	}
	if config.MaxRetries <= 0 {
		config.MaxRetries = DefaultSheetsSyncConfig().MaxRetries
	}
	if logger == nil {
		logger = log.Wrap(nil, log.ComponentSheets)
	}
	return &SheetsSync{
		store:  store,
		writer: writer,
		config: config,
		logger: logger.WithComponent(log.ComponentSheets),
	}
}

// Start begins the polling loop. Returns an error if already running.
func (p *SheetsSync) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return fmt.Errorf("sheets sync is already running")
	}
	stopCh, doneCh := make(chan struct{}), make(chan struct{})
	p.running = true
	p.stopCh, p.doneCh = stopCh, doneCh
	p.mu.Unlock()

	go p.runLoop(ctx, doneCh, stopCh)

	p.logger.InfoContext(ctx, "Sheets sync started", "poll_interval", p.config.PollInterval)
	return nil
}

// Stop gracefully stops the loop and waits for the current push to finish.
func (p *SheetsSync) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.running || p.stopCh == nil {
		p.mu.Unlock()
		return nil
	}
	stopCh, doneCh := p.stopCh, p.doneCh
	p.stopCh = nil
	p.mu.Unlock()

	close(stopCh)

	select {
	case <-doneCh:
		p.logger.InfoContext(ctx, "Sheets sync stopped gracefully")
	case <-ctx.Done():
		p.logger.WarnContext(ctx, "Sheets sync stop timed out")
		return ctx.Err()
	}
	return nil
}

func (p *SheetsSync) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// runLoop owns running: whichever way it exits, Start may be called again.
func (p *SheetsSync) runLoop(ctx context.Context, doneCh chan struct{}, stopCh <-chan struct{}) {
	defer close(doneCh)
	defer func() {
		p.mu.Lock()
		p.running = false
		p.mu.Unlock()
	}()

	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	// Push immediately on startup
	p.SyncOnce(ctx)

	for {
		select {
		case <-stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.SyncOnce(ctx)
		}
	}
}

// SyncOnce pushes the earnings list if the revision changed since the last
// successful push. It reports whether a push happened.
func (p *SheetsSync) SyncOnce(ctx context.Context) bool {
	rev := p.store.Revision()

	p.mu.Lock()
	if p.failedRev != rev {
		p.failures = 0
	}
	upToDate := p.hasSync && p.synced == rev
	exhausted := p.failures >= p.config.MaxRetries
	p.mu.Unlock()
	if upToDate || exhausted {
		return false
	}

	if err := p.push(ctx, rev); err != nil {
		p.mu.Lock()
		p.failedRev = rev
		p.failures++
		attempt := p.failures
		p.mu.Unlock()

		if attempt >= p.config.MaxRetries {
			p.logger.ErrorContext(ctx, "Sheets sync failed permanently for revision",
				log.FieldRevision, rev, "attempts", attempt, log.FieldError, err)
		} else {
			p.logger.WarnContext(ctx, "Sheets sync failed",
				log.FieldRevision, rev, "attempt", attempt, log.FieldError, err)
		}
		return false
	}
	return true
}

func (p *SheetsSync) push(ctx context.Context, rev uint64) error {
	list, err := p.store.Earnings(ctx)
	if err != nil {
		return fmt.Errorf("load earnings: %w", err)
	}
	ref, err := p.writer.ReplaceEarnings(ctx, sheets.RowsFrom(list))
	if err != nil {
		return fmt.Errorf("replace earnings: %w", err)
	}

	p.mu.Lock()
	p.synced = rev
	p.hasSync = true
	p.failures = 0
	p.mu.Unlock()

	p.logger.InfoContext(ctx, "Synced earnings to sheet",
		log.FieldRevision, rev, "rows", len(list), "sheets_ref", ref)
	return nil
}
