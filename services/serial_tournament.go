package services

import (
	"context"
	"sync"

	"github.com/Dosada05/rps-country-cup/models"
)

// SerialTournament guards a TournamentService so that the scheduler and the
// HTTP API never step the same state concurrently.
type SerialTournament struct {
	mu  sync.Mutex
	svc *TournamentService
}

func NewSerialTournament(svc *TournamentService) *SerialTournament {
	return &SerialTournament{svc: svc}
}

func (t *SerialTournament) Advance(ctx context.Context) (StepReport, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.svc.Advance(ctx)
}

func (t *SerialTournament) Reset(ctx context.Context) (models.TournamentState, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.svc.Reset(ctx)
}

func (t *SerialTournament) State(ctx context.Context) (*models.TournamentState, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.svc.State(ctx)
}

func (t *SerialTournament) History(ctx context.Context) ([]models.HistoryRecord, error) {
	return t.svc.History(ctx)
}
