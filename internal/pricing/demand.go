package pricing

import (
	"math/rand"
	"sync"
	"time"
)

// DemandSampler supplies the simulated market pressure for a pricing call.
// Services take it as a dependency so tests can pin the factor.
type DemandSampler interface {
	Sample() float64
}

// Clock returns the current time. Injectable for deterministic tests of
// the time-to-departure tiers.
type Clock func() time.Time

func SystemClock() time.Time {
	return time.Now()
}

// RandomDemand samples uniformly from [DemandMin, DemandMax].
type RandomDemand struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewRandomDemand(seed int64) *RandomDemand {
	return &RandomDemand{rng: rand.New(rand.NewSource(seed))}
}

func (r *RandomDemand) Sample() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return DemandMin + r.rng.Float64()*(DemandMax-DemandMin)
}

// FixedDemand always returns the same factor.
type FixedDemand float64

func (f FixedDemand) Sample() float64 {
	return float64(f)
}
