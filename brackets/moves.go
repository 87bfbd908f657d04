package brackets

import (
	"math/rand/v2"

	"github.com/Dosada05/rps-country-cup/models"
)

// MoveSource supplies moves for the two sides of a match.
type MoveSource interface {
	NextMove() models.Move
}

// RandomMoves draws each move independently and uniformly.
type RandomMoves struct {
	rng *rand.Rand
}

func NewRandomMoves(rng *rand.Rand) *RandomMoves {
	return &RandomMoves{rng: rng}
}

func (m *RandomMoves) NextMove() models.Move {
	return models.AllMoves[m.rng.IntN(len(models.AllMoves))]
}
