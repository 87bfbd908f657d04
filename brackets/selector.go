package brackets

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/Dosada05/rps-country-cup/models"
)

const (
	StrategyOrdered = "ordered"
	StrategyRandom  = "random"
)

var ErrUnknownStrategy = errors.New("unknown pairing strategy")

// PairSelector picks the next two countries to play from the remaining stack.
// Callers guarantee len(remaining) >= 2. The returned rest keeps the order of the
// entries that were not picked.
type PairSelector interface {
	SelectPair(remaining []models.Country) (a, b models.Country, rest []models.Country)

	GetName() string
}

// NewPairSelector returns the selector for a configured strategy name.
func NewPairSelector(strategy string, rng *rand.Rand) (PairSelector, error) {
	switch strategy {
	case "", StrategyOrdered:
		return StackSelector{}, nil
	case StrategyRandom:
		return NewRandomSelector(rng), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}
}

// StackSelector pops the last two entries; the last one pushed becomes side A.
type StackSelector struct{}

func (StackSelector) GetName() string { return StrategyOrdered }

func (StackSelector) SelectPair(remaining []models.Country) (models.Country, models.Country, []models.Country) {
	n := len(remaining)
	return remaining[n-1], remaining[n-2], remaining[:n-2]
}

// RandomSelector samples two distinct entries uniformly without replacement.
type RandomSelector struct {
	rng *rand.Rand
}

func NewRandomSelector(rng *rand.Rand) *RandomSelector {
	return &RandomSelector{rng: rng}
}

func (s *RandomSelector) GetName() string { return StrategyRandom }

func (s *RandomSelector) SelectPair(remaining []models.Country) (models.Country, models.Country, []models.Country) {
	n := len(remaining)
	i := s.rng.IntN(n)
	j := s.rng.IntN(n - 1)
	if j >= i {
		j++
	}

	rest := make([]models.Country, 0, n-2)
	for k, c := range remaining {
		if k == i || k == j {
			continue
		}
		rest = append(rest, c)
	}
	return remaining[i], remaining[j], rest
}

// NewRand builds the shared random source. A zero seed means an unpredictable source.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
