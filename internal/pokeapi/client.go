// Package pokeapi fetches generation and species data from PokeAPI.
package pokeapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/verte-zerg/pokeguess/internal/model"
)

// DefaultBaseURL is the public PokeAPI v2 endpoint.
const DefaultBaseURL = "https://pokeapi.co/api/v2"

// DefaultTimeout bounds a single request.
const DefaultTimeout = 15 * time.Second

// ErrNotFound is returned when PokeAPI answers 404.
var ErrNotFound = errors.New("pokeapi: resource not found")

// Client is a minimal PokeAPI client.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

type generationResponse struct {
	ID             int `json:"id"`
	PokemonSpecies []struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	} `json:"pokemon_species"`
}

type pokemonResponse struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Cries struct {
		Latest string `json:"latest"`
		Legacy string `json:"legacy"`
	} `json:"cries"`
}

type speciesResponse struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// New returns a client for baseURL; an empty baseURL uses DefaultBaseURL and a
// non-positive timeout uses DefaultTimeout.
func New(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// Generation returns the species names of generation id in API order.
func (c *Client) Generation(ctx context.Context, id int) ([]string, error) {
	var payload generationResponse
	if err := c.getJSON(ctx, "generation/"+strconv.Itoa(id), &payload); err != nil {
		return nil, fmt.Errorf("failed to fetch generation %d: %w", id, err)
	}
	names := make([]string, 0, len(payload.PokemonSpecies))
	for _, s := range payload.PokemonSpecies {
		if s.Name == "" {
			continue
		}
		names = append(names, s.Name)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("generation %d has no species", id)
	}
	c.log.Debug().Int("generation", id).Int("species", len(names)).Msg("fetched generation")
	return names, nil
}

// Pokemon returns the detail for a species name. Species whose default form
// has a different pokemon name are resolved through the species id.
func (c *Client) Pokemon(ctx context.Context, name string) (model.SubjectDetail, error) {
	detail, err := c.pokemon(ctx, name)
	if err == nil {
		return detail, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return model.SubjectDetail{}, err
	}
	id, serr := c.SpeciesID(ctx, name)
	if serr != nil {
		return model.SubjectDetail{}, fmt.Errorf("failed to resolve %q: %w", name, serr)
	}
	c.log.Debug().Str("species", name).Int("id", id).Msg("resolving species by id")
	return c.PokemonByID(ctx, id)
}

// PokemonByID returns the detail for a pokemon id.
func (c *Client) PokemonByID(ctx context.Context, id int) (model.SubjectDetail, error) {
	return c.pokemon(ctx, strconv.Itoa(id))
}

// SpeciesID looks up the national dex id of a species.
func (c *Client) SpeciesID(ctx context.Context, name string) (int, error) {
	var payload speciesResponse
	if err := c.getJSON(ctx, "pokemon-species/"+url.PathEscape(name), &payload); err != nil {
		return 0, err
	}
	if payload.ID <= 0 {
		return 0, fmt.Errorf("species %q has no id", name)
	}
	return payload.ID, nil
}

func (c *Client) pokemon(ctx context.Context, nameOrID string) (model.SubjectDetail, error) {
	var payload pokemonResponse
	if err := c.getJSON(ctx, "pokemon/"+url.PathEscape(nameOrID), &payload); err != nil {
		return model.SubjectDetail{}, fmt.Errorf("failed to fetch pokemon %q: %w", nameOrID, err)
	}
	if payload.ID <= 0 {
		return model.SubjectDetail{}, fmt.Errorf("pokemon %q has no id", nameOrID)
	}
	return model.SubjectDetail{
		ID:        payload.ID,
		CryLatest: payload.Cries.Latest,
		CryLegacy: payload.Cries.Legacy,
	}, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	resp, err := c.httpRequest(ctx, c.baseURL+"/"+path)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("unexpected pokeapi status: %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode pokeapi response: %w", err)
	}
	return nil
}

func (c *Client) httpRequest(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

// SpriteURL builds the front sprite URL for a subject; unresolved subjects map to id 0.
func SpriteURL(s model.Subject) string {
	id := s.ID
	if id < 0 {
		id = 0
	}
	return fmt.Sprintf("https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/%d.png", id)
}
