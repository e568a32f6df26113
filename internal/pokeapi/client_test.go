package pokeapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/verte-zerg/pokeguess/internal/model"
)

func newTestServer(t *testing.T, routes map[string]string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		body, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestGeneration(t *testing.T) {
	srv, _ := newTestServer(t, map[string]string{
		"/generation/1": `{"id":1,"pokemon_species":[{"name":"bulbasaur","url":"x"},{"name":"charmander","url":"y"}]}`,
	})
	c := New(srv.URL+"/", time.Second, zerolog.Nop())

	names, err := c.Generation(context.Background(), 1)
	if err != nil {
		t.Fatalf("generation: %v", err)
	}
	if len(names) != 2 || names[0] != "bulbasaur" || names[1] != "charmander" {
		t.Fatalf("unexpected names %v", names)
	}

	if _, err := c.Generation(context.Background(), 2); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing generation, got %v", err)
	}
}

func TestPokemonPrefersLatestCry(t *testing.T) {
	srv, _ := newTestServer(t, map[string]string{
		"/pokemon/pikachu": `{"id":25,"name":"pikachu","cries":{"latest":"latest.ogg","legacy":"legacy.ogg"}}`,
	})
	c := New(srv.URL, time.Second, zerolog.Nop())

	detail, err := c.Pokemon(context.Background(), "pikachu")
	if err != nil {
		t.Fatalf("pokemon: %v", err)
	}
	if detail.ID != 25 || detail.CryURL() != "latest.ogg" {
		t.Fatalf("unexpected detail %+v", detail)
	}
}

func TestPokemonFallsBackToSpeciesID(t *testing.T) {
	srv, hits := newTestServer(t, map[string]string{
		"/pokemon-species/deoxys": `{"id":386,"name":"deoxys"}`,
		"/pokemon/386":            `{"id":386,"name":"deoxys-normal","cries":{"legacy":"legacy.ogg"}}`,
	})
	c := New(srv.URL, time.Second, zerolog.Nop())

	detail, err := c.Pokemon(context.Background(), "deoxys")
	if err != nil {
		t.Fatalf("pokemon: %v", err)
	}
	if detail.ID != 386 || detail.CryURL() != "legacy.ogg" {
		t.Fatalf("unexpected detail %+v", detail)
	}
	if got := hits.Load(); got != 3 {
		t.Fatalf("expected 3 requests, got %d", got)
	}
}

func TestPokemonServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)
	c := New(srv.URL, time.Second, zerolog.Nop())

	_, err := c.Pokemon(context.Background(), "pikachu")
	if err == nil {
		t.Fatalf("expected error")
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatalf("server error must not look like a missing resource: %v", err)
	}
}

func TestSpriteURL(t *testing.T) {
	if got := SpriteURL(model.Subject{ID: 6}); got != "https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/6.png" {
		t.Fatalf("unexpected sprite url %q", got)
	}
	if got := SpriteURL(model.Subject{ID: model.UnresolvedID}); got != "https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/0.png" {
		t.Fatalf("unexpected placeholder sprite url %q", got)
	}
}
