package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/Dosada05/rps-country-cup/models"
)

// HistoryRepository is the append-only log of finished tournaments. Append assigns
// TournamentID as one more than the number of existing records.
type HistoryRepository interface {
	List(ctx context.Context) ([]models.HistoryRecord, error)
	Append(ctx context.Context, record models.HistoryRecord) (models.HistoryRecord, error)
}

type fileHistoryRepository struct {
	path   string
	logger *slog.Logger
}

func NewFileHistoryRepository(path string, logger *slog.Logger) HistoryRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &fileHistoryRepository{path: path, logger: logger}
}

func (r *fileHistoryRepository) List(_ context.Context) ([]models.HistoryRecord, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []models.HistoryRecord{}, nil
		}
		return nil, fmt.Errorf("failed to read history file %s: %w", r.path, err)
	}

	var records []models.HistoryRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHistoryCorrupt, err)
	}
	if records == nil {
		records = []models.HistoryRecord{}
	}
	return records, nil
}

// Append rewrites the whole log. A corrupt log is moved aside to <path>.corrupt and
// a new one is started.
func (r *fileHistoryRepository) Append(ctx context.Context, record models.HistoryRecord) (models.HistoryRecord, error) {
	records, err := r.List(ctx)
	if err != nil {
		if !errors.Is(err, ErrHistoryCorrupt) {
			return models.HistoryRecord{}, err
		}
		backup := r.path + ".corrupt"
		if renameErr := os.Rename(r.path, backup); renameErr != nil {
			return models.HistoryRecord{}, fmt.Errorf("failed to move corrupt history aside: %w", renameErr)
		}
		r.logger.WarnContext(ctx, "history log is corrupt, starting a new one",
			slog.String("path", r.path), slog.String("backup", backup), slog.Any("error", err))
		records = []models.HistoryRecord{}
	}

	record.TournamentID = len(records) + 1
	records = append(records, record)
	if err := writeJSONAtomic(r.path, records); err != nil {
		return models.HistoryRecord{}, err
	}
	return record, nil
}
