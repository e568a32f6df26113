// Package stats persists and reports guess statistics.
package stats

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

// Key is the stats record key inside store.NamespaceStats.
const Key = "GameStats"

// schemaVersion is bumped whenever the persisted shape changes.
const schemaVersion = 1

// KV is the durable key-value store the stats are kept in.
type KV interface {
	Get(ctx context.Context, namespace, key string) ([]byte, error)
	Set(ctx context.Context, namespace, key string, value []byte) error
	Delete(ctx context.Context, namespace, key string) error
}

type record struct {
	Version        int   `json:"version"`
	BestTime       int64 `json:"bestTime"`
	TotalGuesses   int   `json:"totalGuesses"`
	CorrectGuesses int   `json:"correctGuesses"`
}

// Store keeps the in-memory stats in step with the durable copy.
type Store struct {
	kv  KV
	log zerolog.Logger

	mu      sync.Mutex
	current model.Stats
}

// NewStore returns a store holding defaults until Load is called.
func NewStore(kv KV, log zerolog.Logger) *Store {
	return &Store{kv: kv, log: log, current: model.DefaultStats()}
}

// Load reads the persisted stats. Missing, malformed or unknown-version data
// yields defaults; only storage failures are returned as errors.
func (s *Store) Load(ctx context.Context) (model.Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.kv.Get(ctx, store.NamespaceStats, Key)
	if errors.Is(err, store.ErrNotFound) {
		s.current = model.DefaultStats()
		return s.current, nil
	}
	if err != nil {
		return s.current, fmt.Errorf("failed to read stats: %w", err)
	}
	stats, ok := decode(raw)
	if !ok {
		s.log.Warn().Str("key", Key).Msg("discarding unreadable stats record")
		stats = model.DefaultStats()
	}
	s.current = stats
	return s.current, nil
}

// Current returns the last loaded or written stats.
func (s *Store) Current() model.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// RecordGuess counts one attempt and, when correct, tracks the best time.
func (s *Store) RecordGuess(ctx context.Context, correct bool, elapsed int64) (model.Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.current
	next.TotalGuesses++
	if correct {
		next.CorrectGuesses++
		if next.BestTime < 0 || elapsed < next.BestTime {
			next.BestTime = elapsed
		}
	}
	if err := s.persist(ctx, next); err != nil {
		return s.current, err
	}
	if correct && next.BestTime != s.current.BestTime {
		s.log.Info().Int64("best_time", next.BestTime).Msg("new best time")
	}
	s.current = next
	return s.current, nil
}

// Reset removes the persisted stats and returns defaults.
func (s *Store) Reset(ctx context.Context) (model.Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Delete(ctx, store.NamespaceStats, Key); err != nil {
		return s.current, fmt.Errorf("failed to reset stats: %w", err)
	}
	s.current = model.DefaultStats()
	return s.current, nil
}

func (s *Store) persist(ctx context.Context, stats model.Stats) error {
	raw, err := encode(stats)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, store.NamespaceStats, Key, raw); err != nil {
		return fmt.Errorf("failed to save stats: %w", err)
	}
	return nil
}

func encode(stats model.Stats) ([]byte, error) {
	return json.Marshal(record{
		Version:        schemaVersion,
		BestTime:       stats.BestTime,
		TotalGuesses:   stats.TotalGuesses,
		CorrectGuesses: stats.CorrectGuesses,
	})
}

func decode(raw []byte) (model.Stats, bool) {
	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return model.Stats{}, false
	}
	if rec.Version != schemaVersion {
		return model.Stats{}, false
	}
	if rec.TotalGuesses < 0 || rec.CorrectGuesses < 0 || rec.CorrectGuesses > rec.TotalGuesses || rec.BestTime < -1 {
		return model.Stats{}, false
	}
	return model.Stats{
		BestTime:       rec.BestTime,
		TotalGuesses:   rec.TotalGuesses,
		CorrectGuesses: rec.CorrectGuesses,
	}, true
}
