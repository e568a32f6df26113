// Package model defines shared data structures.
package model

import "strings"

// Subject IDs at or below zero mark a subject that is not playable.
const (
	UnresolvedID = -1
	SentinelID   = 0
)

// MaxGeneration is the number of generations in the catalog.
const MaxGeneration = 9

// Subject is a species to be identified.
type Subject struct {
	ID     int
	Name   string
	CryURL string
}

// Sentinel is the placeholder subject shown before any round starts.
var Sentinel = Subject{ID: SentinelID, Name: "MISSINGNO."}

// Valid reports whether the subject has been resolved to a real species.
func (s Subject) Valid() bool {
	return s.ID > 0
}

// Difficulty controls subject visibility at the start of a round.
type Difficulty int

// Difficulty levels.
const (
	Easy Difficulty = iota
	Normal
	Hard
)

// Difficulties lists all levels in display order.
var Difficulties = []Difficulty{Easy, Normal, Hard}

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "Easy"
	case Normal:
		return "Normal"
	case Hard:
		return "Hard"
	default:
		return "Unknown"
	}
}

// Valid reports whether d is a known level.
func (d Difficulty) Valid() bool {
	return d >= Easy && d <= Hard
}

// ParseDifficulty maps a case-insensitive name to a level.
func ParseDifficulty(name string) (Difficulty, bool) {
	for _, d := range Difficulties {
		if strings.EqualFold(d.String(), strings.TrimSpace(name)) {
			return d, true
		}
	}
	return Normal, false
}

// Settings is the caller-owned configuration read at the start of every round.
type Settings struct {
	SelectedGens  []bool
	Difficulty    Difficulty
	ExactSpelling bool
}

// DefaultSettings selects every generation on Normal with fuzzy spelling.
func DefaultSettings() Settings {
	gens := make([]bool, MaxGeneration)
	for i := range gens {
		gens[i] = true
	}
	return Settings{SelectedGens: gens, Difficulty: Normal}
}

// Clone returns a copy that shares no memory with s.
func (s Settings) Clone() Settings {
	out := s
	out.SelectedGens = append([]bool(nil), s.SelectedGens...)
	return out
}

// SelectedIndices returns the zero-based generation indices that are enabled.
func (s Settings) SelectedIndices() []int {
	var out []int
	for i, on := range s.SelectedGens {
		if on {
			out = append(out, i)
		}
	}
	return out
}

// Outcome is the result of the last guess in a round.
type Outcome int

// Guess outcomes.
const (
	Unset Outcome = iota
	Correct
	Wrong
)

func (o Outcome) String() string {
	switch o {
	case Correct:
		return "Correct"
	case Wrong:
		return "Wrong"
	default:
		return "Unset"
	}
}

// Phase is the session controller state.
type Phase int

// Session phases.
const (
	Uninitialized Phase = iota
	Loading
	Ready
	Revealed
	Failed
)

func (p Phase) String() string {
	switch p {
	case Uninitialized:
		return "uninitialized"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Revealed:
		return "revealed"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// SessionState is a read-only snapshot of the controller.
type SessionState struct {
	Phase          Phase
	Current        Subject
	Hidden         bool
	AwaitingAnswer bool
	Outcome        Outcome
	Guess          string
	Elapsed        int64
	Err            error
}

// Stats holds persisted guess counters. BestTime is in timer ticks, -1 when unset.
type Stats struct {
	BestTime       int64
	TotalGuesses   int
	CorrectGuesses int
}

// DefaultStats returns the zero state for a new player.
func DefaultStats() Stats {
	return Stats{BestTime: -1}
}

// Accuracy returns the fraction of correct guesses, 0 when there are none.
func (s Stats) Accuracy() float64 {
	if s.TotalGuesses <= 0 {
		return 0
	}
	return float64(s.CorrectGuesses) / float64(s.TotalGuesses)
}

// SubjectDetail is the per-species data fetched on first selection.
type SubjectDetail struct {
	ID        int
	CryLatest string
	CryLegacy string
}

// CryURL prefers the current cry and falls back to the legacy one.
func (d SubjectDetail) CryURL() string {
	if d.CryLatest != "" {
		return d.CryLatest
	}
	return d.CryLegacy
}
