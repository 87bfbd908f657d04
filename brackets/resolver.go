package brackets

import "github.com/Dosada05/rps-country-cup/models"

// beats maps each move to the move it defeats.
var beats = map[models.Move]models.Move{
	models.MoveRock:     models.MoveScissors,
	models.MoveScissors: models.MovePaper,
	models.MovePaper:    models.MoveRock,
}

// Resolve decides a match from the two moves. Equal moves are a draw, and so is any
// pairing involving a move outside rock, paper and scissors, so a faulty MoveSource
// can never eliminate a country.
func Resolve(a, b models.Move) models.Outcome {
	beatenByA, okA := beats[a]
	_, okB := beats[b]
	switch {
	case !okA || !okB, a == b:
		return models.OutcomeDraw
	case beatenByA == b:
		return models.OutcomeWinsA
	default:
		return models.OutcomeWinsB
	}
}
