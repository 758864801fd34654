// Package entities gives typed access to the four records the dashboard keeps:
// the profile, the earnings list, the settings and the achievement flags.
//
// An empty or partially populated store is never an error: absent keys read as
// their defaults, and a stored value that no longer decodes is logged and
// replaced by its default as well.
package entities

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"earnings/internal/core"
	"earnings/internal/kv"
	"earnings/internal/log"
)

// Storage keys, one per entity.
const (
	KeyProfile      = "earningsAnalyzer_profile"
	KeyEarnings     = "earningsAnalyzer_earnings"
	KeySettings     = "earningsAnalyzer_settings"
	KeyAchievements = "earningsAnalyzer_achievements"
)

// Keys returns every entity key.
func Keys() []string {
	return []string{KeyProfile, KeyEarnings, KeySettings, KeyAchievements}
}

type Store struct {
	kv     kv.Store
	now    func() time.Time
	logger *log.Logger

	// mu serializes read-modify-write sequences so that every mutation is
	// atomic from the caller's point of view.
	mu       sync.Mutex
	revision atomic.Uint64
}

type Option func(*Store)

// WithClock overrides time.Now for createdAt/updatedAt stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l.WithComponent(log.ComponentEntities) }
}

func New(store kv.Store, opts ...Option) *Store {
	s := &Store{
		kv:     store,
		now:    time.Now,
		logger: log.Wrap(nil, log.ComponentEntities),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the store clock's current time.
func (s *Store) Now() time.Time {
	return s.now()
}

// Revision is bumped by every successful write. Anything derived from the
// stored entities is stale once the revision moves.
func (s *Store) Revision() uint64 {
	return s.revision.Load()
}

// Init writes defaults for every absent entity and leaves present ones alone.
func (s *Store) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	defaults := map[string]any{
		KeyProfile:      core.DefaultProfile(s.now()),
		KeyEarnings:     []core.Earning{},
		KeySettings:     core.DefaultSettings(),
		KeyAchievements: core.DefaultAchievements(),
	}
	for _, key := range Keys() {
		_, ok, err := s.kv.Get(ctx, key)
		if err != nil {
			return fmt.Errorf("init %s: %w", key, err)
		}
		if ok {
			continue
		}
		if err := s.put(ctx, key, defaults[key]); err != nil {
			return fmt.Errorf("init %s: %w", key, err)
		}
	}
	return nil
}

// Clear removes every entity. The next read returns defaults.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range Keys() {
		if err := s.kv.Delete(ctx, key); err != nil {
			return fmt.Errorf("clear %s: %w", key, err)
		}
	}
	s.revision.Add(1)
	return nil
}

// load decodes key into out. found is false when the key is absent or its
// value could not be decoded; out is left untouched then.
func (s *Store) load(ctx context.Context, key string, out any) (found bool, err error) {
	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		s.logger.WarnContext(ctx, "Stored entity is unreadable, using default",
			log.FieldKey, key, log.FieldError, err)
		return false, nil
	}
	return true, nil
}

func (s *Store) put(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.kv.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	rev := s.revision.Add(1)
	s.logger.DebugContext(ctx, "Entity written", log.FieldKey, key, log.FieldRevision, rev)
	return nil
}
