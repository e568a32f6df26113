package statsui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/pokeguess/internal/model"
)

type fakeStats struct {
	cur    model.Stats
	resets int
	err    error
}

func (f *fakeStats) Current() model.Stats { return f.cur }
func (f *fakeStats) Reset(context.Context) (model.Stats, error) {
	if f.err != nil {
		return f.cur, f.err
	}
	f.resets++
	f.cur = model.DefaultStats()
	return f.cur, nil
}

type fakeSettings struct {
	cfg model.Settings
}

func (f fakeSettings) Snapshot() model.Settings { return f.cfg.Clone() }

func newSizedModel(st *fakeStats) *Model {
	m := NewModel(context.Background(), st, fakeSettings{cfg: model.DefaultSettings()})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m
}

func TestOverviewShowsCards(t *testing.T) {
	m := newSizedModel(&fakeStats{cur: model.Stats{BestTime: 57, TotalGuesses: 4, CorrectGuesses: 3}})
	out := m.View()
	for _, want := range []string{"Best time", "5.7s", "75.0%", "Guesses"} {
		if !strings.Contains(out, want) {
			t.Fatalf("overview missing %q:\n%s", want, out)
		}
	}
}

func TestSettingsTabListsGenerations(t *testing.T) {
	m := newSizedModel(&fakeStats{cur: model.DefaultStats()})
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	out := m.View()
	for _, want := range []string{"Generation 1", "Difficulty", "Normal", "Exact spelling"} {
		if !strings.Contains(out, want) {
			t.Fatalf("settings tab missing %q:\n%s", want, out)
		}
	}
}

func TestResetRequiresConfirmation(t *testing.T) {
	st := &fakeStats{cur: model.Stats{BestTime: 10, TotalGuesses: 2, CorrectGuesses: 1}}
	m := newSizedModel(st)

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	if !strings.Contains(m.View(), "Reset stats?") {
		t.Fatalf("expected confirmation modal")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	if st.resets != 0 {
		t.Fatalf("cancel must not reset")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	if st.resets != 1 {
		t.Fatalf("expected one reset, got %d", st.resets)
	}
	if !strings.Contains(m.View(), "--.--") {
		t.Fatalf("expected cleared best time after reset")
	}
}

func TestResetFailureIsShown(t *testing.T) {
	st := &fakeStats{cur: model.DefaultStats(), err: errors.New("locked")}
	m := newSizedModel(st)
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	if !strings.Contains(m.View(), "locked") {
		t.Fatalf("expected reset error in footer")
	}
}
