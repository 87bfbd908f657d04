package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/rps-country-cup/brackets"
	"github.com/Dosada05/rps-country-cup/models"
	"github.com/Dosada05/rps-country-cup/repositories"
)

// StepReport is the outcome of one Advance call.
type StepReport struct {
	brackets.StepResult
	// State is the state persisted by the call.
	State models.TournamentState
	// Recovered is set when the stored state was missing or corrupt and a fresh
	// tournament was started before stepping.
	Recovered bool
	// Reset is set when the step completed the tournament and a new one was started.
	Reset bool
}

// TournamentService runs the tournament against persisted state. It does not
// serialise concurrent calls; callers must not invoke it concurrently.
type TournamentService struct {
	states  repositories.StateRepository
	catalog repositories.CatalogRepository
	history *HistoryRecorder
	engine  *brackets.Engine
	metrics *Metrics
	logger  *slog.Logger
}

func NewTournamentService(
	states repositories.StateRepository,
	catalog repositories.CatalogRepository,
	history *HistoryRecorder,
	engine *brackets.Engine,
	metrics *Metrics,
	logger *slog.Logger,
) *TournamentService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TournamentService{
		states:  states,
		catalog: catalog,
		history: history,
		engine:  engine,
		metrics: metrics,
		logger:  logger,
	}
}

// Reset starts a fresh tournament from the full catalog and persists it.
func (s *TournamentService) Reset(ctx context.Context) (models.TournamentState, error) {
	countries, err := s.catalog.Load(ctx)
	if err != nil {
		return models.TournamentState{}, fmt.Errorf("failed to load catalog for reset: %w", err)
	}

	state := models.NewTournamentState(countries)
	if err := s.states.Save(ctx, &state); err != nil {
		return models.TournamentState{}, fmt.Errorf("failed to save fresh tournament: %w", err)
	}
	s.metrics.ObserveState(state.Round, state.InBracket())
	s.logger.InfoContext(ctx, "tournament reset", slog.Int("countries", len(countries)))
	return state, nil
}

// load returns the stored state, starting a fresh tournament when the record is
// missing or corrupt.
func (s *TournamentService) load(ctx context.Context) (models.TournamentState, bool, error) {
	state, err := s.states.Load(ctx)
	switch {
	case err == nil:
		return *state, false, nil
	case errors.Is(err, repositories.ErrStateNotFound), errors.Is(err, repositories.ErrStateCorrupt):
		s.logger.WarnContext(ctx, "tournament state missing or corrupt, starting a new tournament", slog.Any("error", err))
		fresh, err := s.Reset(ctx)
		return fresh, true, err
	default:
		return models.TournamentState{}, false, fmt.Errorf("failed to load tournament state: %w", err)
	}
}

// Advance plays exactly one match or bye and persists the result.
func (s *TournamentService) Advance(ctx context.Context) (StepReport, error) {
	state, recovered, err := s.load(ctx)
	if err != nil {
		return StepReport{}, err
	}

	s.logger.DebugContext(ctx, "advancing tournament",
		slog.Int("round", state.Round),
		slog.Int("remaining", len(state.Remaining)),
		slog.Int("processed", len(state.Processed)))

	next, res := s.engine.Step(ctx, state)
	s.metrics.ObserveStep(res)
	report := StepReport{StepResult: res, Recovered: recovered}

	if res.Kind == brackets.StepIdle {
		report.State = state
		return report, nil
	}

	if res.Completed() {
		return s.complete(ctx, report, next)
	}

	if err := s.states.Save(ctx, &next); err != nil {
		return report, fmt.Errorf("failed to save tournament state: %w", err)
	}
	s.metrics.ObserveState(next.Round, next.InBracket())
	report.State = next
	return report, nil
}

func (s *TournamentService) complete(ctx context.Context, report StepReport, finished models.TournamentState) (StepReport, error) {
	champion := *report.Champion
	if f := report.Finalists; f != nil {
		s.history.Append(ctx, f.First, f.Second, champion)
	} else {
		s.logger.WarnContext(ctx, "finalists were never captured, skipping history", slog.String("winner", champion.Name))
	}

	fresh, err := s.Reset(ctx)
	if err != nil {
		// Keep the finished bracket without finalists so a retry cannot log the
		// same tournament twice.
		finished.Finalists = nil
		if saveErr := s.states.Save(ctx, &finished); saveErr != nil {
			s.logger.ErrorContext(ctx, "failed to save finished tournament", slog.Any("error", saveErr))
		}
		report.State = finished
		return report, err
	}

	report.Reset = true
	report.State = fresh
	return report, nil
}

// PlayRound advances until the current round rolls over, the tournament
// completes or nothing is left to play.
func (s *TournamentService) PlayRound(ctx context.Context) ([]StepReport, error) {
	var reports []StepReport
	for {
		if err := ctx.Err(); err != nil {
			return reports, err
		}
		report, err := s.Advance(ctx)
		if err != nil {
			return reports, err
		}
		reports = append(reports, report)
		if report.Kind == brackets.StepIdle || report.RolledOver {
			return reports, nil
		}
	}
}

// RunToCompletion advances until a champion is crowned. maxSteps <= 0 means no limit.
func (s *TournamentService) RunToCompletion(ctx context.Context, maxSteps int) (*StepReport, int, error) {
	for steps := 1; maxSteps <= 0 || steps <= maxSteps; steps++ {
		if err := ctx.Err(); err != nil {
			return nil, steps - 1, err
		}
		report, err := s.Advance(ctx)
		if err != nil {
			return nil, steps, err
		}
		if report.Completed() {
			return &report, steps, nil
		}
		if report.Kind == brackets.StepIdle {
			return nil, steps, nil
		}
	}
	return nil, maxSteps, nil
}

// State returns the stored state without recovering a missing one.
func (s *TournamentService) State(ctx context.Context) (*models.TournamentState, error) {
	return s.states.Load(ctx)
}

func (s *TournamentService) History(ctx context.Context) ([]models.HistoryRecord, error) {
	return s.history.List(ctx)
}
