// Package generator draws random catalog positions.
package generator

import (
	"math/rand"
	"sync"
	"time"
)

// Generator is a random source safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return FromRand(rand.New(rand.NewSource(time.Now().UnixNano())))
}

// FromRand wraps an existing source, typically a seeded one in tests.
func FromRand(rnd *rand.Rand) *Generator {
	return &Generator{rnd: rnd}
}

// Index returns a uniform value in [0, n). It returns -1 when n <= 0.
func (g *Generator) Index(n int) int {
	if n <= 0 {
		return -1
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rnd.Intn(n)
}

// Pick returns a uniformly chosen element of choices.
func (g *Generator) Pick(choices []int) (int, bool) {
	i := g.Index(len(choices))
	if i < 0 {
		return 0, false
	}
	return choices[i], true
}
