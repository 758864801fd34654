// Package backup moves the four stored entities in and out as one JSON
// document.
package backup

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"earnings/internal/core"
	"earnings/internal/entities"
	"earnings/internal/log"
)

//go:embed schema.json
var schemaJSON []byte

// ErrInvalidBackup is returned for documents that are not a backup.
var ErrInvalidBackup = errors.New("invalid backup")

// Document is the exported form of every entity. Absent sections are left
// untouched on import.
type Document struct {
	Profile      *core.Profile     `json:"profile,omitempty"`
	Earnings     []core.Earning    `json:"earnings"`
	Settings     *core.Settings    `json:"settings,omitempty"`
	Achievements core.Achievements `json:"achievements,omitempty"`
	ExportedAt   time.Time         `json:"exportedAt"`
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func schema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("backup.json", bytes.NewReader(schemaJSON)); err != nil {
			compileErr = fmt.Errorf("add schema: %w", err)
			return
		}
		compiled, compileErr = compiler.Compile("backup.json")
		if compileErr != nil {
			compileErr = fmt.Errorf("compile schema: %w", compileErr)
		}
	})
	return compiled, compileErr
}

// Validate checks raw against the backup schema and that earning ids are
// unique.
func Validate(raw []byte) (Document, error) {
	s, err := schema()
	if err != nil {
		return Document{}, err
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	if err := s.Validate(v); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	seen := make(map[string]struct{}, len(doc.Earnings))
	for _, e := range doc.Earnings {
		if _, dup := seen[e.ID]; dup {
			return Document{}, fmt.Errorf("%w: duplicate earning id %q", ErrInvalidBackup, e.ID)
		}
		seen[e.ID] = struct{}{}
	}
	return doc, nil
}

// Service exports and restores the entity store.
type Service struct {
	store  *entities.Store
	logger *log.Logger
}

func NewService(store *entities.Store, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Wrap(nil, log.ComponentBackup)
	}
	return &Service{store: store, logger: logger.WithComponent(log.ComponentBackup)}
}

// Export reads every entity, substituting defaults for missing ones.
func (s *Service) Export(ctx context.Context) (Document, error) {
	profile, err := s.store.Profile(ctx)
	if err != nil {
		return Document{}, fmt.Errorf("export: %w", err)
	}
	list, err := s.store.Earnings(ctx)
	if err != nil {
		return Document{}, fmt.Errorf("export: %w", err)
	}
	settings, err := s.store.Settings(ctx)
	if err != nil {
		return Document{}, fmt.Errorf("export: %w", err)
	}
	flags, err := s.store.Achievements(ctx)
	if err != nil {
		return Document{}, fmt.Errorf("export: %w", err)
	}

	s.logger.InfoContext(ctx, "Backup exported", log.FieldOperation, log.OpExport, "earnings", len(list))
	return Document{
		Profile:      &profile,
		Earnings:     list,
		Settings:     &settings,
		Achievements: flags,
		ExportedAt:   s.store.Now().UTC(),
	}, nil
}

// Import validates raw and writes each section it contains. Imported
// achievements replace the stored flags, so a restore can relock them.
func (s *Service) Import(ctx context.Context, raw []byte) (Document, error) {
	doc, err := Validate(raw)
	if err != nil {
		return Document{}, err
	}

	if doc.Profile != nil {
		if err := s.store.SaveProfile(ctx, *doc.Profile); err != nil {
			return Document{}, fmt.Errorf("import profile: %w", err)
		}
	}
	if doc.Earnings != nil {
		if err := s.store.SaveEarnings(ctx, doc.Earnings); err != nil {
			return Document{}, fmt.Errorf("import earnings: %w", err)
		}
	}
	if doc.Settings != nil {
		if err := s.store.SaveSettings(ctx, *doc.Settings); err != nil {
			return Document{}, fmt.Errorf("import settings: %w", err)
		}
	}
	if doc.Achievements != nil {
		if err := s.store.SaveAchievements(ctx, doc.Achievements.Clone()); err != nil {
			return Document{}, fmt.Errorf("import achievements: %w", err)
		}
	}

	s.logger.InfoContext(ctx, "Backup imported", log.FieldOperation, log.OpImport,
		"profile", doc.Profile != nil, "earnings", len(doc.Earnings),
		"settings", doc.Settings != nil, "achievements", doc.Achievements != nil)
	return doc, nil
}

// Clear removes every stored entity.
func (s *Service) Clear(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear: %w", err)
	}
	s.logger.InfoContext(ctx, "All data cleared", log.FieldOperation, log.OpDelete)
	return nil
}
