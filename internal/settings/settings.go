// Package settings persists the player's game settings.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/verte-zerg/pokeguess/internal/model"
	"github.com/verte-zerg/pokeguess/internal/store"
)

// Key is the settings record key inside store.NamespaceSettings.
const Key = "AppSettings"

const schemaVersion = 1

// KV is the durable key-value store the settings are kept in.
type KV interface {
	Get(ctx context.Context, namespace, key string) ([]byte, error)
	Set(ctx context.Context, namespace, key string, value []byte) error
}

type record struct {
	Version       int    `json:"version"`
	SelectedGens  []bool `json:"selectedGens"`
	Difficulty    string `json:"difficulty"`
	ExactSpelling bool   `json:"exactSpelling"`
}

// Store owns the current settings and writes every change through to the KV store.
type Store struct {
	kv  KV
	log zerolog.Logger

	mu      sync.RWMutex
	current model.Settings
}

// NewStore returns a store holding defaults until Load is called.
func NewStore(kv KV, log zerolog.Logger) *Store {
	return &Store{kv: kv, log: log, current: model.DefaultSettings()}
}

// Load reads persisted settings, substituting defaults for missing or unreadable data.
func (s *Store) Load(ctx context.Context) (model.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.kv.Get(ctx, store.NamespaceSettings, Key)
	if errors.Is(err, store.ErrNotFound) {
		s.current = model.DefaultSettings()
		return s.current.Clone(), nil
	}
	if err != nil {
		return s.current.Clone(), fmt.Errorf("failed to read settings: %w", err)
	}
	cfg, ok := decode(raw)
	if !ok {
		s.log.Warn().Str("key", Key).Msg("discarding unreadable settings record")
		cfg = model.DefaultSettings()
	}
	s.current = cfg
	return s.current.Clone(), nil
}

// Snapshot returns a copy of the current settings.
func (s *Store) Snapshot() model.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

// Update applies fn to a copy of the settings and persists the result.
func (s *Store) Update(ctx context.Context, fn func(*model.Settings)) (model.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.current.Clone()
	fn(&next)
	next = Normalize(next)
	raw, err := encode(next)
	if err != nil {
		return s.current.Clone(), err
	}
	if err := s.kv.Set(ctx, store.NamespaceSettings, Key, raw); err != nil {
		return s.current.Clone(), fmt.Errorf("failed to save settings: %w", err)
	}
	s.current = next
	return s.current.Clone(), nil
}

// ToggleGeneration flips generation idx (zero-based).
func (s *Store) ToggleGeneration(ctx context.Context, idx int) (model.Settings, error) {
	return s.Update(ctx, func(cfg *model.Settings) {
		if idx >= 0 && idx < len(cfg.SelectedGens) {
			cfg.SelectedGens[idx] = !cfg.SelectedGens[idx]
		}
	})
}

// SetDifficulty changes the difficulty level.
func (s *Store) SetDifficulty(ctx context.Context, d model.Difficulty) (model.Settings, error) {
	return s.Update(ctx, func(cfg *model.Settings) {
		cfg.Difficulty = d
	})
}

// ToggleExactSpelling flips the spelling strictness.
func (s *Store) ToggleExactSpelling(ctx context.Context) (model.Settings, error) {
	return s.Update(ctx, func(cfg *model.Settings) {
		cfg.ExactSpelling = !cfg.ExactSpelling
	})
}

// Normalize pads or truncates the generation flags to model.MaxGeneration
// and replaces an unknown difficulty with Normal.
func Normalize(cfg model.Settings) model.Settings {
	gens := make([]bool, model.MaxGeneration)
	copy(gens, cfg.SelectedGens)
	if len(cfg.SelectedGens) < model.MaxGeneration {
		for i := len(cfg.SelectedGens); i < model.MaxGeneration; i++ {
			gens[i] = true
		}
	}
	cfg.SelectedGens = gens
	if !cfg.Difficulty.Valid() {
		cfg.Difficulty = model.Normal
	}
	return cfg
}

func encode(cfg model.Settings) ([]byte, error) {
	return json.Marshal(record{
		Version:       schemaVersion,
		SelectedGens:  cfg.SelectedGens,
		Difficulty:    cfg.Difficulty.String(),
		ExactSpelling: cfg.ExactSpelling,
	})
}

func decode(raw []byte) (model.Settings, bool) {
	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return model.Settings{}, false
	}
	if rec.Version != schemaVersion || len(rec.SelectedGens) != model.MaxGeneration {
		return model.Settings{}, false
	}
	d, ok := model.ParseDifficulty(rec.Difficulty)
	if !ok {
		return model.Settings{}, false
	}
	return model.Settings{
		SelectedGens:  rec.SelectedGens,
		Difficulty:    d,
		ExactSpelling: rec.ExactSpelling,
	}, true
}
