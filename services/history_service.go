package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/Dosada05/rps-country-cup/models"
	"github.com/Dosada05/rps-country-cup/repositories"
)

// HistoryRecorder writes the best-effort audit trail of finished tournaments.
type HistoryRecorder struct {
	repo   repositories.HistoryRepository
	logger *slog.Logger
	now    func() time.Time
}

func NewHistoryRecorder(repo repositories.HistoryRepository, logger *slog.Logger) *HistoryRecorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &HistoryRecorder{repo: repo, logger: logger, now: time.Now}
}

// Append records the final and its winner. Failures are logged and swallowed.
func (h *HistoryRecorder) Append(ctx context.Context, first, second, winner models.Country) {
	rec, err := h.repo.Append(ctx, models.HistoryRecord{
		Final:  models.FinalPairing{Country1: first.Name, Country2: second.Name},
		Winner: winner.Name,
		Date:   h.now(),
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to save tournament history", slog.String("winner", winner.Name), slog.Any("error", err))
		return
	}
	h.logger.InfoContext(ctx, "tournament history saved",
		slog.Int("tournament_id", rec.TournamentID),
		slog.String("finalist_one", rec.Final.Country1),
		slog.String("finalist_two", rec.Final.Country2),
		slog.String("winner", rec.Winner))
}

func (h *HistoryRecorder) List(ctx context.Context) ([]models.HistoryRecord, error) {
	return h.repo.List(ctx)
}
