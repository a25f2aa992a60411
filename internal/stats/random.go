package stats

import (
	"math/rand/v2"
	"sync"
)

// Random is the only source of randomness used by models and simulations.
// Callers pass one in explicitly so tests can use a seeded source.
type Random interface {
	Float64() float64
}

type lockedRandom struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRandom) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

// NewRandom returns a goroutine-safe source that replays the same sequence for the same seed
func NewRandom(seed uint64) Random {
	return &lockedRandom{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// NewSystemRandom returns a goroutine-safe source seeded from the runtime
func NewSystemRandom() Random {
	return &lockedRandom{r: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// Uniform returns a value in [min, max)
func Uniform(rng Random, min, max float64) float64 {
	return min + rng.Float64()*(max-min)
}
