package brackets

import (
	"context"
	"log/slog"

	"github.com/Dosada05/rps-country-cup/models"
)

// MatchCard is everything the renderer needs to draw a match.
type MatchCard struct {
	Round int
	A     models.Country
	B     models.Country
	MoveA models.Move
	MoveB models.Move
}

// Renderer produces a match image and returns a handle (file path) to it.
type Renderer interface {
	Render(ctx context.Context, card MatchCard) (string, error)
}

// Poster publishes a post, optionally with an attached image.
type Poster interface {
	Post(ctx context.Context, text string, imagePath string) error
}

// Notifier receives every played match, e.g. to push it to live viewers.
type Notifier interface {
	MatchPlayed(ctx context.Context, result models.MatchResult)
}

type StepKind int

const (
	StepIdle StepKind = iota
	StepBye
	StepMatch
)

func (k StepKind) String() string {
	switch k {
	case StepBye:
		return "bye"
	case StepMatch:
		return "match"
	default:
		return "idle"
	}
}

// StepResult describes what a single Step did.
type StepResult struct {
	Kind       StepKind
	Bye        *models.Country
	Match      *models.MatchResult
	RolledOver bool
	// Champion is set when the step finished the tournament.
	Champion  *models.Country
	Finalists *models.Finalists
}

func (r StepResult) Completed() bool {
	return r.Champion != nil
}

type EngineConfig struct {
	Selector PairSelector
	Moves    MoveSource
	Renderer Renderer
	Poster   Poster
	Notifier Notifier
	Logger   *slog.Logger
}

// Engine advances a tournament one match (or one bye) at a time. It never touches
// persistence: state goes in and the next state comes out.
type Engine struct {
	selector PairSelector
	moves    MoveSource
	renderer Renderer
	poster   Poster
	notifier Notifier
	logger   *slog.Logger
}

func NewEngine(cfg EngineConfig) *Engine {
	e := &Engine{
		selector: cfg.Selector,
		moves:    cfg.Moves,
		renderer: cfg.Renderer,
		poster:   cfg.Poster,
		notifier: cfg.Notifier,
		logger:   cfg.Logger,
	}
	if e.selector == nil {
		e.selector = StackSelector{}
	}
	if e.moves == nil {
		e.moves = NewRandomMoves(NewRand(0))
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// Step plays the next pairing or bye and performs the round rollover when the round
// is exhausted. The input state is not modified.
func (e *Engine) Step(ctx context.Context, state models.TournamentState) (models.TournamentState, StepResult) {
	n := len(state.Remaining)
	if n == 0 {
		e.logger.WarnContext(ctx, "no countries remaining, nothing to advance", slog.Int("round", state.Round))
		return state, StepResult{Kind: StepIdle}
	}

	next := state.Clone()
	var res StepResult

	if n == 1 {
		bye := next.Remaining[0]
		next.Remaining = next.Remaining[:0]
		next.Processed = append(next.Processed, bye)
		res.Kind = StepBye
		res.Bye = &bye
		e.logger.InfoContext(ctx, "country advances on a bye", slog.String("country", bye.Name), slog.Int("round", next.Round))
	} else {
		if n == 2 && len(next.Processed) == 0 && next.Finalists == nil {
			last, prev := next.Remaining[1], next.Remaining[0]
			next.Finalists = &models.Finalists{First: last, Second: prev}
			e.logger.InfoContext(ctx, "finalists captured", slog.String("first", last.Name), slog.String("second", prev.Name))
		}

		a, b, rest := e.selector.SelectPair(next.Remaining)
		next.Remaining = rest

		match := e.play(ctx, next.Round, n, a, b)
		if w := match.Winner(); w != nil {
			next.Processed = append(next.Processed, *w)
		} else {
			next.Processed = append(next.Processed, a, b)
		}
		res.Kind = StepMatch
		res.Match = &match
	}

	if len(next.Remaining) == 0 {
		finished := next.Round
		next.Remaining = next.Processed
		next.Processed = []models.Country{}
		next.Round++
		res.RolledOver = true
		e.logger.InfoContext(ctx, "round finished",
			slog.Int("round", finished),
			slog.Int("next_round", next.Round),
			slog.Int("remaining", len(next.Remaining)))

		if next.IsComplete() {
			champion := next.Remaining[0]
			res.Champion = &champion
			if next.Finalists != nil {
				f := *next.Finalists
				res.Finalists = &f
			}
			e.logger.InfoContext(ctx, "tournament winner", slog.String("country", champion.Name))
		}
	}

	return next, res
}

// play resolves a match and hands it to the external collaborators. Their failures
// are logged and never change the outcome.
func (e *Engine) play(ctx context.Context, round, remainingCount int, a, b models.Country) models.MatchResult {
	moveA, moveB := e.moves.NextMove(), e.moves.NextMove()
	result := models.MatchResult{
		Round:          round,
		RemainingCount: remainingCount,
		A:              a,
		B:              b,
		MoveA:          moveA,
		MoveB:          moveB,
		Outcome:        Resolve(moveA, moveB),
	}

	log := e.logger.With(slog.String("a", a.Name), slog.String("b", b.Name), slog.Int("round", round))
	if w := result.Winner(); w != nil {
		log.InfoContext(ctx, "match won", slog.String("winner", w.Name), slog.String("move_a", string(moveA)), slog.String("move_b", string(moveB)))
	} else {
		log.InfoContext(ctx, "match drawn, both advance", slog.String("move", string(moveA)))
	}

	if e.renderer != nil {
		path, err := e.renderer.Render(ctx, MatchCard{Round: round, A: a, B: b, MoveA: moveA, MoveB: moveB})
		if err != nil {
			log.WarnContext(ctx, "match image rendering failed", slog.Any("error", err))
		} else {
			result.ImagePath = path
		}
	}

	if e.poster != nil {
		if err := e.poster.Post(ctx, FormatMatchPost(result), result.ImagePath); err != nil {
			log.WarnContext(ctx, "match post failed, continuing", slog.Any("error", err))
		}
	}

	if e.notifier != nil {
		e.notifier.MatchPlayed(ctx, result)
	}

	return result
}
