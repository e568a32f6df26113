// Package catalog loads the generation lists and resolves species on demand.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/verte-zerg/pokeguess/internal/generator"
	"github.com/verte-zerg/pokeguess/internal/model"
)

var (
	// ErrNoGenerationSelected is returned when the settings enable no generation.
	ErrNoGenerationSelected = errors.New("no generation selected")
	// ErrCatalogLoad wraps any failure to fetch the generation lists.
	ErrCatalogLoad = errors.New("catalog load failed")
	// ErrSubjectResolution wraps a failed species detail lookup.
	ErrSubjectResolution = errors.New("subject resolution failed")
	// ErrNotLoaded is returned when picking before Load succeeded.
	ErrNotLoaded = errors.New("catalog not loaded")
)

// Source provides generation membership and species details.
type Source interface {
	Generation(ctx context.Context, id int) ([]string, error)
	Pokemon(ctx context.Context, name string) (model.SubjectDetail, error)
}

type subjectKey struct {
	gen int
	idx int
}

func (k subjectKey) String() string {
	return strconv.Itoa(k.gen) + "/" + strconv.Itoa(k.idx)
}

// Catalog holds the generation lists and the resolved species details.
type Catalog struct {
	source Source
	cache  Cache
	log    zerolog.Logger
	sf     singleflight.Group

	mu      sync.RWMutex
	gens    [][]string
	details map[subjectKey]model.SubjectDetail

	gen *generator.Generator
}

// Option customizes a Catalog.
type Option func(*Catalog)

// WithCache restores and stores generation lists through c.
func WithCache(c Cache) Option {
	return func(cat *Catalog) {
		cat.cache = c
	}
}

// WithRand replaces the random source used by PickRandom.
func WithRand(rnd *rand.Rand) Option {
	return func(cat *Catalog) {
		cat.gen = generator.FromRand(rnd)
	}
}

// New returns an empty catalog backed by source.
func New(source Source, log zerolog.Logger, opts ...Option) *Catalog {
	c := &Catalog{
		source:  source,
		log:     log,
		details: make(map[subjectKey]model.SubjectDetail),
		gen:     generator.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Loaded reports whether every generation list is available.
func (c *Catalog) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.gens) == model.MaxGeneration
}

// Load populates all generation lists, from the cache when it holds a
// complete catalog and from the source otherwise. A failure for any
// generation fails the whole load and publishes nothing. Once loaded,
// further calls return immediately.
func (c *Catalog) Load(ctx context.Context) error {
	if c.Loaded() {
		return nil
	}
	_, err, _ := c.sf.Do("load", func() (interface{}, error) {
		if c.Loaded() {
			return nil, nil
		}
		if gens, ok := c.restore(ctx); ok {
			c.publish(gens)
			c.log.Info().Msg("catalog restored from cache")
			return nil, nil
		}
		gens, err := c.fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.publish(gens)
		if c.cache != nil {
			if err := c.cache.Put(ctx, gens); err != nil {
				c.log.Warn().Err(err).Msg("failed to cache catalog")
			}
		}
		return nil, nil
	})
	return err
}

func (c *Catalog) restore(ctx context.Context) ([][]string, bool) {
	if c.cache == nil {
		return nil, false
	}
	gens, ok, err := c.cache.Get(ctx)
	if err != nil {
		c.log.Warn().Err(err).Msg("failed to read catalog cache")
		return nil, false
	}
	if !ok {
		return nil, false
	}
	if !ValidGenerations(gens) {
		c.log.Warn().Msg("ignoring malformed catalog cache")
		return nil, false
	}
	return gens, true
}

func (c *Catalog) fetch(ctx context.Context) ([][]string, error) {
	gens := make([][]string, model.MaxGeneration)
	g, gctx := errgroup.WithContext(ctx)
	for i := range gens {
		g.Go(func() error {
			names, err := c.source.Generation(gctx, i+1)
			if err != nil {
				return err
			}
			gens[i] = names
			c.log.Debug().Int("generation", i+1).Int("species", len(names)).Msg("loaded generation")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalogLoad, err)
	}
	if !ValidGenerations(gens) {
		return nil, fmt.Errorf("%w: source returned an incomplete catalog", ErrCatalogLoad)
	}
	return gens, nil
}

func (c *Catalog) publish(gens [][]string) {
	copied := make([][]string, len(gens))
	for i, names := range gens {
		copied[i] = append([]string(nil), names...)
	}
	c.mu.Lock()
	c.gens = copied
	c.mu.Unlock()
}

// ValidGenerations reports whether gens is structurally a full catalog.
func ValidGenerations(gens [][]string) bool {
	if len(gens) != model.MaxGeneration {
		return false
	}
	for _, names := range gens {
		if len(names) == 0 {
			return false
		}
		for _, name := range names {
			if name == "" {
				return false
			}
		}
	}
	return true
}

// Sizes returns the number of species in each generation, or nil before Load.
func (c *Catalog) Sizes() []int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.gens) == 0 {
		return nil
	}
	out := make([]int, len(c.gens))
	for i, names := range c.gens {
		out[i] = len(names)
	}
	return out
}

// Subject returns the subject at gen/idx with whatever detail is cached.
func (c *Catalog) Subject(gen, idx int) (model.Subject, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if gen < 0 || gen >= len(c.gens) || idx < 0 || idx >= len(c.gens[gen]) {
		return model.Subject{}, false
	}
	return c.subjectLocked(subjectKey{gen: gen, idx: idx}), true
}

func (c *Catalog) subjectLocked(k subjectKey) model.Subject {
	s := model.Subject{ID: model.UnresolvedID, Name: c.gens[k.gen][k.idx]}
	if d, ok := c.details[k]; ok {
		s.ID = d.ID
		s.CryURL = d.CryURL()
	}
	return s
}

// Resolve returns the subject at gen/idx with its id and cry filled in,
// fetching the detail from the source only the first time.
func (c *Catalog) Resolve(ctx context.Context, gen, idx int) (model.Subject, error) {
	k := subjectKey{gen: gen, idx: idx}

	c.mu.RLock()
	if gen < 0 || gen >= len(c.gens) || idx < 0 || idx >= len(c.gens[gen]) {
		c.mu.RUnlock()
		return model.Subject{}, fmt.Errorf("%w: no subject at %s", ErrSubjectResolution, k)
	}
	name := c.gens[gen][idx]
	if _, ok := c.details[k]; ok {
		s := c.subjectLocked(k)
		c.mu.RUnlock()
		return s, nil
	}
	c.mu.RUnlock()

	_, err, _ := c.sf.Do("resolve:"+k.String(), func() (interface{}, error) {
		c.mu.RLock()
		_, ok := c.details[k]
		c.mu.RUnlock()
		if ok {
			return nil, nil
		}
		detail, err := c.source.Pokemon(ctx, name)
		if err != nil {
			return nil, err
		}
		if detail.ID <= 0 {
			return nil, fmt.Errorf("source returned id %d for %q", detail.ID, name)
		}
		c.mu.Lock()
		c.details[k] = detail
		c.mu.Unlock()
		c.log.Debug().Str("species", name).Int("id", detail.ID).Msg("resolved subject")
		return nil, nil
	})
	if err != nil {
		return model.Subject{}, fmt.Errorf("%w: %s: %w", ErrSubjectResolution, name, err)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.subjectLocked(k), nil
}

// PickRandom chooses a selected generation uniformly, then a species in it
// uniformly, and resolves it. Repeats across calls are allowed.
func (c *Catalog) PickRandom(ctx context.Context, settings model.Settings) (model.Subject, error) {
	choices := settings.SelectedIndices()
	if len(choices) == 0 {
		return model.Subject{}, ErrNoGenerationSelected
	}

	c.mu.RLock()
	if len(c.gens) != model.MaxGeneration {
		c.mu.RUnlock()
		return model.Subject{}, ErrNotLoaded
	}
	var valid []int
	for _, gen := range choices {
		if gen < len(c.gens) {
			valid = append(valid, gen)
		}
	}
	gen, ok := c.gen.Pick(valid)
	if !ok {
		c.mu.RUnlock()
		return model.Subject{}, ErrNoGenerationSelected
	}
	idx := c.gen.Index(len(c.gens[gen]))
	c.mu.RUnlock()

	c.log.Debug().Int("generation", gen+1).Int("index", idx).Msg("picked subject")
	return c.Resolve(ctx, gen, idx)
}
