// Package game implements the guessing session controller.
package game

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/verte-zerg/pokeguess/internal/catalog"
	"github.com/verte-zerg/pokeguess/internal/match"
	"github.com/verte-zerg/pokeguess/internal/model"
	"github.com/verte-zerg/pokeguess/internal/timer"
)

var (
	// ErrBusy is returned when a round is already being prepared.
	ErrBusy = errors.New("a round is already loading")
	// ErrNotInitialized is returned by NewRound before the catalog is loaded.
	ErrNotInitialized = errors.New("session not initialized")
	// ErrNotAwaitingAnswer is returned when a guess arrives outside a round.
	ErrNotAwaitingAnswer = errors.New("not awaiting an answer")
)

// Catalog selects and resolves subjects.
type Catalog interface {
	Load(ctx context.Context) error
	Loaded() bool
	PickRandom(ctx context.Context, settings model.Settings) (model.Subject, error)
}

// StatsStore persists guess statistics.
type StatsStore interface {
	Load(ctx context.Context) (model.Stats, error)
	Current() model.Stats
	RecordGuess(ctx context.Context, correct bool, elapsed int64) (model.Stats, error)
	Reset(ctx context.Context) (model.Stats, error)
}

// SettingsProvider supplies the caller-owned settings.
type SettingsProvider interface {
	Snapshot() model.Settings
}

// Stopwatch measures the time spent on a round.
type Stopwatch interface {
	Start()
	Stop()
	Reset()
	Elapsed() int64
	Close()
}

// Session owns the state of one player's game.
type Session struct {
	catalog  Catalog
	stats    StatsStore
	settings SettingsProvider
	clock    Stopwatch
	log      zerolog.Logger

	mu    sync.Mutex
	busy  bool
	state model.SessionState
}

// Option customizes a Session.
type Option func(*Session)

// WithStopwatch replaces the default wall-clock timer.
func WithStopwatch(sw Stopwatch) Option {
	return func(s *Session) {
		s.clock = sw
	}
}

// New builds a session showing the sentinel subject and loads the stats.
func New(ctx context.Context, cat Catalog, stats StatsStore, settings SettingsProvider, log zerolog.Logger, opts ...Option) (*Session, error) {
	s := &Session{
		catalog:  cat,
		stats:    stats,
		settings: settings,
		log:      log,
		state: model.SessionState{
			Phase:   model.Uninitialized,
			Current: model.Sentinel,
			Hidden:  true,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.clock == nil {
		s.clock = timer.New()
	}
	if _, err := stats.Load(ctx); err != nil {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}
	return s, nil
}

// Close stops the round timer.
func (s *Session) Close() {
	s.clock.Close()
}

// Initialize loads the catalog and starts the first round.
func (s *Session) Initialize(ctx context.Context) error {
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return ErrBusy
	}
	s.busy = true
	prevPhase, prevErr := s.state.Phase, s.state.Err
	s.state.Phase = model.Loading
	s.state.Err = nil
	s.mu.Unlock()

	s.log.Info().Msg("loading catalog")
	if err := s.catalog.Load(ctx); err != nil {
		s.log.Error().Err(err).Msg("catalog load failed")
		s.mu.Lock()
		s.state.Phase = model.Failed
		s.state.Err = err
		s.busy = false
		s.mu.Unlock()
		return err
	}

	return s.round(ctx, func() {
		s.state.Phase, s.state.Err = prevPhase, prevErr
		if prevPhase == model.Failed {
			s.state.Phase, s.state.Err = model.Uninitialized, nil
		}
	})
}

// NewRound picks a fresh subject using the current settings.
func (s *Session) NewRound(ctx context.Context) error {
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return ErrBusy
	}
	if !s.catalog.Loaded() {
		s.mu.Unlock()
		return ErrNotInitialized
	}
	s.busy = true
	s.mu.Unlock()
	return s.round(ctx, nil)
}

// round runs with s.busy set and clears it before returning. restore, when
// set, puts back the pre-call state if no generation is selected.
func (s *Session) round(ctx context.Context, restore func()) error {
	settings := s.settings.Snapshot()
	subject, err := s.catalog.PickRandom(ctx, settings)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false

	if errors.Is(err, catalog.ErrNoGenerationSelected) {
		s.log.Warn().Msg("new round requested with no generation selected")
		if restore != nil {
			restore()
		}
		return err
	}
	if err != nil {
		s.log.Error().Err(err).Msg("failed to start round")
		s.clock.Stop()
		s.state.Phase = model.Failed
		s.state.Err = err
		s.state.AwaitingAnswer = false
		return err
	}

	s.clock.Reset()
	s.state.Current = subject
	s.state.Guess = ""
	s.state.Outcome = model.Unset
	s.state.Hidden = settings.Difficulty != model.Easy
	s.state.AwaitingAnswer = true
	s.state.Phase = model.Ready
	s.state.Err = nil
	s.clock.Start()
	s.log.Info().Int("id", subject.ID).Str("difficulty", settings.Difficulty.String()).Msg("round started")
	return nil
}

// Reveal shows the subject and ends the round without scoring. Calling it
// outside a round does nothing.
func (s *Session) Reveal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Phase != model.Ready {
		return
	}
	s.clock.Stop()
	s.state.Hidden = false
	s.state.AwaitingAnswer = false
	s.state.Outcome = model.Unset
	s.state.Phase = model.Revealed
	s.log.Info().Int("id", s.state.Current.ID).Msg("subject revealed")
}

// SetGuess updates the pending guess text while a round is open.
func (s *Session) SetGuess(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.AwaitingAnswer {
		s.state.Guess = text
	}
}

// SubmitGuess judges text against the current subject and records the
// attempt. A wrong guess leaves the round open and the timer running.
// The round outcome is applied even when saving the stats fails; that
// error is returned alongside the verdict.
func (s *Session) SubmitGuess(ctx context.Context, text string) (match.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.AwaitingAnswer || !s.state.Current.Valid() {
		return match.Result{}, ErrNotAwaitingAnswer
	}
	exact := s.settings.Snapshot().ExactSpelling
	res := match.Evaluate(s.state.Current.Name, text, exact)
	s.state.Guess = text

	if res.Correct {
		s.clock.Stop()
		s.state.Hidden = false
		s.state.AwaitingAnswer = false
		s.state.Outcome = model.Correct
		s.state.Phase = model.Revealed
	} else {
		s.state.Outcome = model.Wrong
	}
	elapsed := s.clock.Elapsed()
	s.log.Info().Bool("correct", res.Correct).Float64("ratio", res.Ratio).Bool("exact", exact).Int64("elapsed", elapsed).Msg("guess submitted")

	if _, err := s.stats.RecordGuess(ctx, res.Correct, elapsed); err != nil {
		s.log.Error().Err(err).Msg("failed to record guess")
		return res, err
	}
	return res, nil
}

// ResetStats clears the persisted statistics.
func (s *Session) ResetStats(ctx context.Context) (model.Stats, error) {
	st, err := s.stats.Reset(ctx)
	if err != nil {
		return st, err
	}
	s.log.Info().Msg("stats reset")
	return st, nil
}

// State returns a snapshot of the session.
func (s *Session) State() model.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.state
	out.Elapsed = s.clock.Elapsed()
	return out
}

// Stats returns the current statistics.
func (s *Session) Stats() model.Stats {
	return s.stats.Current()
}

// Busy reports whether a round is being prepared.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}
