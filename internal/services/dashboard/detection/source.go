package detection

import (
	"context"
	"math/rand/v2"
	"sync"

	"github.com/safedrive/dashboard/internal/services/dashboard/dataset"
)

// Source yields the type of the next detected alert. A real inference
// backend implements Source; RandomSource stands in for one.
type Source interface {
	Next(ctx context.Context) (dataset.AlertType, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) (dataset.AlertType, error)

// Next calls f.
func (f SourceFunc) Next(ctx context.Context) (dataset.AlertType, error) { return f(ctx) }

// RandomSource picks uniformly among a fixed set of alert types.
type RandomSource struct {
	mu    sync.Mutex
	rng   *rand.Rand
	types []dataset.AlertType
}

// NewRandomSource returns a source seeded with seed over drowsy,
// distracted and drunk.
func NewRandomSource(seed uint64) *RandomSource {
	return &RandomSource{
		rng:   rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		types: []dataset.AlertType{dataset.AlertDrowsy, dataset.AlertDistracted, dataset.AlertDrunk},
	}
}

// Next returns a random alert type.
func (s *RandomSource) Next(ctx context.Context) (dataset.AlertType, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.types[s.rng.IntN(len(s.types))], nil
}
