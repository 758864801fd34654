package entities

import (
	"context"

	"earnings/internal/core"
)

// Profile returns the stored profile, or the first-run default.
func (s *Store) Profile(ctx context.Context) (core.Profile, error) {
	var p core.Profile
	found, err := s.load(ctx, KeyProfile, &p)
	if err != nil {
		return core.Profile{}, err
	}
	if !found {
		return core.DefaultProfile(s.now()), nil
	}
	return p, nil
}

func (s *Store) SaveProfile(ctx context.Context, p core.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.put(ctx, KeyProfile, p)
}

// UpdateProfile merges patch over the stored profile. A missing profile is
// treated as an empty record.
func (s *Store) UpdateProfile(ctx context.Context, patch core.ProfilePatch) (core.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var p core.Profile
	if _, err := s.load(ctx, KeyProfile, &p); err != nil {
		return core.Profile{}, err
	}
	p = patch.Apply(p)
	if err := s.put(ctx, KeyProfile, p); err != nil {
		return core.Profile{}, err
	}
	return p, nil
}

// Settings returns the stored settings, or the defaults.
func (s *Store) Settings(ctx context.Context) (core.Settings, error) {
	var st core.Settings
	found, err := s.load(ctx, KeySettings, &st)
	if err != nil {
		return core.Settings{}, err
	}
	if !found {
		return core.DefaultSettings(), nil
	}
	return st, nil
}

func (s *Store) SaveSettings(ctx context.Context, st core.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.put(ctx, KeySettings, st)
}

// UpdateSettings merges patch over the stored settings. A missing record is
// treated as empty.
func (s *Store) UpdateSettings(ctx context.Context, patch core.SettingsPatch) (core.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var st core.Settings
	if _, err := s.load(ctx, KeySettings, &st); err != nil {
		return core.Settings{}, err
	}
	st = patch.Apply(st)
	if err := s.put(ctx, KeySettings, st); err != nil {
		return core.Settings{}, err
	}
	return st, nil
}

// Earnings returns the stored list, newest first. Absent means empty.
func (s *Store) Earnings(ctx context.Context) ([]core.Earning, error) {
	var list []core.Earning
	if _, err := s.load(ctx, KeyEarnings, &list); err != nil {
		return nil, err
	}
	if list == nil {
		list = []core.Earning{}
	}
	return list, nil
}

func (s *Store) SaveEarnings(ctx context.Context, list []core.Earning) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if list == nil {
		list = []core.Earning{}
	}
	return s.put(ctx, KeyEarnings, list)
}

// MutateEarnings runs fn over the stored list and writes the result back when
// fn reports a change. The whole sequence holds the store lock.
func (s *Store) MutateEarnings(ctx context.Context, fn func([]core.Earning) ([]core.Earning, bool, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var list []core.Earning
	if _, err := s.load(ctx, KeyEarnings, &list); err != nil {
		return err
	}
	next, changed, err := fn(list)
	if err != nil || !changed {
		return err
	}
	if next == nil {
		next = []core.Earning{}
	}
	return s.put(ctx, KeyEarnings, next)
}

// Achievements returns the unlock flags, every known id present.
func (s *Store) Achievements(ctx context.Context) (core.Achievements, error) {
	var a core.Achievements
	if _, err := s.load(ctx, KeyAchievements, &a); err != nil {
		return nil, err
	}
	return a.Clone(), nil
}

func (s *Store) SaveAchievements(ctx context.Context, a core.Achievements) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.put(ctx, KeyAchievements, a.Clone())
}

// Unlock sets the given achievements and returns the ones that were locked
// before this call, in argument order. Already unlocked ids are skipped, so
// calling Unlock again with the same ids returns nothing and writes nothing.
func (s *Store) Unlock(ctx context.Context, ids ...core.AchievementID) ([]core.AchievementID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var a core.Achievements
	if _, err := s.load(ctx, KeyAchievements, &a); err != nil {
		return nil, err
	}
	a = a.Clone()

	var unlocked []core.AchievementID
	for _, id := range ids {
		if !id.Valid() || a[id] {
			continue
		}
		a[id] = true
		unlocked = append(unlocked, id)
	}
	if len(unlocked) == 0 {
		return nil, nil
	}
	if err := s.put(ctx, KeyAchievements, a); err != nil {
		return nil, err
	}
	return unlocked, nil
}
