package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Dosada05/rps-country-cup/models"
	"github.com/Dosada05/rps-country-cup/repositories"
	"github.com/Dosada05/rps-country-cup/services"
)

// TournamentRunner is the tournament surface exposed over HTTP. Implementations
// must serialise Advance and Reset.
type TournamentRunner interface {
	Advance(ctx context.Context) (services.StepReport, error)
	Reset(ctx context.Context) (models.TournamentState, error)
	State(ctx context.Context) (*models.TournamentState, error)
	History(ctx context.Context) ([]models.HistoryRecord, error)
}

type TournamentHandler struct {
	runner TournamentRunner
	logger *slog.Logger
}

func NewTournamentHandler(runner TournamentRunner, logger *slog.Logger) *TournamentHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TournamentHandler{runner: runner, logger: logger}
}

type stepView struct {
	Kind       string                 `json:"kind"`
	Bye        *models.Country        `json:"bye,omitempty"`
	Match      *models.MatchResult    `json:"match,omitempty"`
	RolledOver bool                   `json:"rolled_over"`
	Champion   *models.Country        `json:"champion,omitempty"`
	Finalists  *models.Finalists      `json:"finalists,omitempty"`
	Recovered  bool                   `json:"recovered"`
	Reset      bool                   `json:"reset"`
	State      models.TournamentState `json:"state"`
}

func toStepView(r services.StepReport) stepView {
	return stepView{
		Kind:       r.Kind.String(),
		Bye:        r.Bye,
		Match:      r.Match,
		RolledOver: r.RolledOver,
		Champion:   r.Champion,
		Finalists:  r.Finalists,
		Recovered:  r.Recovered,
		Reset:      r.Reset,
		State:      r.State,
	}
}

func (h *TournamentHandler) GetState(w http.ResponseWriter, r *http.Request) {
	state, err := h.runner.State(r.Context())
	if err != nil {
		if errors.Is(err, repositories.ErrStateNotFound) {
			notFoundResponse(w, r, h.logger)
			return
		}
		serverErrorResponse(w, r, h.logger, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, state); err != nil {
		serverErrorResponse(w, r, h.logger, err)
	}
}

func (h *TournamentHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	records, err := h.runner.History(r.Context())
	if err != nil {
		serverErrorResponse(w, r, h.logger, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournaments": records}); err != nil {
		serverErrorResponse(w, r, h.logger, err)
	}
}

func (h *TournamentHandler) Advance(w http.ResponseWriter, r *http.Request) {
	report, err := h.runner.Advance(r.Context())
	if err != nil {
		serverErrorResponse(w, r, h.logger, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, toStepView(report)); err != nil {
		serverErrorResponse(w, r, h.logger, err)
	}
}

func (h *TournamentHandler) Reset(w http.ResponseWriter, r *http.Request) {
	state, err := h.runner.Reset(r.Context())
	if err != nil {
		serverErrorResponse(w, r, h.logger, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, state); err != nil {
		serverErrorResponse(w, r, h.logger, err)
	}
}
