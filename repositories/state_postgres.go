package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Dosada05/rps-country-cup/models"
)

const stateRowID = 1

type postgresStateRepository struct {
	db *sql.DB
}

func NewPostgresStateRepository(db *sql.DB) StateRepository {
	return &postgresStateRepository{db: db}
}

func (r *postgresStateRepository) Load(ctx context.Context) (*models.TournamentState, error) {
	var data []byte
	err := r.db.QueryRowContext(ctx, `SELECT data FROM tournament_state WHERE id = $1`, stateRowID).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStateNotFound
		}
		return nil, fmt.Errorf("failed to load tournament state: %w", err)
	}
	return decodeState(data)
}

// Save replaces the singleton row in one statement.
func (r *postgresStateRepository) Save(ctx context.Context, state *models.TournamentState) error {
	data, err := json.Marshal(normalizeState(state))
	if err != nil {
		return fmt.Errorf("failed to encode tournament state: %w", err)
	}

	query := `
		INSERT INTO tournament_state (id, data, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`

	result, err := r.db.ExecContext(ctx, query, stateRowID, string(data))
	if err != nil {
		return fmt.Errorf("failed to save tournament state: %w", err)
	}
	return checkAffectedRows(result, errors.New("tournament state upsert affected no rows"))
}
