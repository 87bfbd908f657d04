package models

// Move is one of the three rock-paper-scissors gestures.
type Move string

const (
	MoveRock     Move = "Rock"
	MovePaper    Move = "Paper"
	MoveScissors Move = "Scissors"
)

// AllMoves lists the moves in a stable order for uniform sampling.
var AllMoves = [...]Move{MoveRock, MovePaper, MoveScissors}

// Outcome is the result of a single match from side A's perspective.
type Outcome int

const (
	OutcomeDraw Outcome = iota
	OutcomeWinsA
	OutcomeWinsB
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWinsA:
		return "wins_a"
	case OutcomeWinsB:
		return "wins_b"
	default:
		return "draw"
	}
}

// MatchResult records a played pairing.
type MatchResult struct {
	Round          int     `json:"round"`
	RemainingCount int     `json:"remaining_count"`
	A              Country `json:"a"`
	B              Country `json:"b"`
	MoveA          Move    `json:"move_a"`
	MoveB          Move    `json:"move_b"`
	Outcome        Outcome `json:"outcome"`
	ImagePath      string  `json:"image_path,omitempty"`
}

// Winner returns the surviving country, or nil on a draw.
func (m MatchResult) Winner() *Country {
	switch m.Outcome {
	case OutcomeWinsA:
		return &m.A
	case OutcomeWinsB:
		return &m.B
	default:
		return nil
	}
}
