package settings

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/verte-zerg/pokeguess/internal/model"
	"github.com/verte-zerg/pokeguess/internal/store"
)

func openSettings(t *testing.T) (*Store, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "pokeguess.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return NewStore(st, zerolog.Nop()), st
}

func TestLoadDefaults(t *testing.T) {
	s, _ := openSettings(t)
	cfg, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.SelectedGens) != model.MaxGeneration {
		t.Fatalf("expected %d generations, got %d", model.MaxGeneration, len(cfg.SelectedGens))
	}
	for i, on := range cfg.SelectedGens {
		if !on {
			t.Fatalf("expected generation %d selected by default", i+1)
		}
	}
	if cfg.Difficulty != model.Normal || cfg.ExactSpelling {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestUpdatesPersist(t *testing.T) {
	s, st := openSettings(t)
	ctx := context.Background()

	if _, err := s.ToggleGeneration(ctx, 2); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if _, err := s.SetDifficulty(ctx, model.Hard); err != nil {
		t.Fatalf("difficulty: %v", err)
	}
	if _, err := s.ToggleExactSpelling(ctx); err != nil {
		t.Fatalf("spelling: %v", err)
	}

	reloaded := NewStore(st, zerolog.Nop())
	cfg, err := reloaded.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.SelectedGens[2] {
		t.Fatalf("expected generation 3 to be deselected")
	}
	if cfg.Difficulty != model.Hard || !cfg.ExactSpelling {
		t.Fatalf("unexpected reloaded settings %+v", cfg)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	s, _ := openSettings(t)
	snap := s.Snapshot()
	snap.SelectedGens[0] = false
	if !s.Snapshot().SelectedGens[0] {
		t.Fatalf("mutating a snapshot must not change the store")
	}
}

func TestLoadDiscardsMalformedRecords(t *testing.T) {
	for name, raw := range map[string]string{
		"garbage":        `{`,
		"legacy shape":   `{"selectedGens":[true],"Difficulty":1}`,
		"short gens":     `{"version":1,"selectedGens":[true,false],"difficulty":"Hard"}`,
		"bad difficulty": `{"version":1,"selectedGens":[true,true,true,true,true,true,true,true,true],"difficulty":"Insane"}`,
	} {
		t.Run(name, func(t *testing.T) {
			s, st := openSettings(t)
			ctx := context.Background()
			if err := st.Set(ctx, store.NamespaceSettings, Key, []byte(raw)); err != nil {
				t.Fatalf("seed: %v", err)
			}
			cfg, err := s.Load(ctx)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if cfg.Difficulty != model.Normal || len(cfg.SelectedGens) != model.MaxGeneration {
				t.Fatalf("expected defaults, got %+v", cfg)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	cfg := Normalize(model.Settings{SelectedGens: []bool{false}, Difficulty: model.Difficulty(7)})
	if len(cfg.SelectedGens) != model.MaxGeneration {
		t.Fatalf("expected padded generations, got %d", len(cfg.SelectedGens))
	}
	if cfg.SelectedGens[0] || !cfg.SelectedGens[1] {
		t.Fatalf("unexpected flags %v", cfg.SelectedGens)
	}
	if cfg.Difficulty != model.Normal {
		t.Fatalf("expected Normal, got %v", cfg.Difficulty)
	}
}
