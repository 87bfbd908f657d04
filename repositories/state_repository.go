package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/Dosada05/rps-country-cup/models"
)

// StateRepository persists the single active tournament. Load reports
// ErrStateNotFound or ErrStateCorrupt for records that must be reinitialised;
// any other error is an unexpected I/O failure.
type StateRepository interface {
	Load(ctx context.Context) (*models.TournamentState, error)
	Save(ctx context.Context, state *models.TournamentState) error
}

type fileStateRepository struct {
	path string
}

func NewFileStateRepository(path string) StateRepository {
	return &fileStateRepository{path: path}
}

func (r *fileStateRepository) Load(_ context.Context) (*models.TournamentState, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrStateNotFound
		}
		return nil, fmt.Errorf("failed to read state file %s: %w", r.path, err)
	}
	return decodeState(data)
}

func (r *fileStateRepository) Save(_ context.Context, state *models.TournamentState) error {
	return writeJSONAtomic(r.path, normalizeState(state))
}

func decodeState(data []byte) (*models.TournamentState, error) {
	var state models.TournamentState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStateCorrupt, err)
	}
	if err := validateState(&state); err != nil {
		return nil, err
	}
	return normalizeState(&state), nil
}

func validateState(s *models.TournamentState) error {
	if s.Round < 1 {
		return fmt.Errorf("%w: round %d", ErrStateCorrupt, s.Round)
	}
	if s.TotalEntities < 0 || s.InBracket() > s.TotalEntities {
		return fmt.Errorf("%w: %d countries in bracket exceeds total %d", ErrStateCorrupt, s.InBracket(), s.TotalEntities)
	}
	return nil
}

// normalizeState keeps empty sequences as [] rather than null on disk.
func normalizeState(s *models.TournamentState) *models.TournamentState {
	out := s.Clone()
	if out.Remaining == nil {
		out.Remaining = []models.Country{}
	}
	if out.Processed == nil {
		out.Processed = []models.Country{}
	}
	return &out
}
