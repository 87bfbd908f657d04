package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/rps-country-cup/models"
	"github.com/lib/pq"
)

type postgresHistoryRepository struct {
	db *sql.DB
}

func NewPostgresHistoryRepository(db *sql.DB) HistoryRepository {
	return &postgresHistoryRepository{db: db}
}

func (r *postgresHistoryRepository) List(ctx context.Context) ([]models.HistoryRecord, error) {
	query := `
		SELECT tournament_id, finalist_one, finalist_two, winner, recorded_at
		FROM tournament_history
		ORDER BY tournament_id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournament history: %w", err)
	}
	defer rows.Close()

	records := []models.HistoryRecord{}
	for rows.Next() {
		var rec models.HistoryRecord
		if err := rows.Scan(&rec.TournamentID, &rec.Final.Country1, &rec.Final.Country2, &rec.Winner, &rec.Date); err != nil {
			return nil, fmt.Errorf("failed to scan tournament history row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tournament history: %w", err)
	}
	return records, nil
}

func (r *postgresHistoryRepository) Append(ctx context.Context, record models.HistoryRecord) (models.HistoryRecord, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return models.HistoryRecord{}, fmt.Errorf("failed to begin history transaction: %w", err)
	}
	defer tx.Rollback()

	id, err := nextTournamentID(ctx, tx)
	if err != nil {
		return models.HistoryRecord{}, err
	}
	record.TournamentID = id

	query := `
		INSERT INTO tournament_history (tournament_id, finalist_one, finalist_two, winner, recorded_at)
		VALUES ($1, $2, $3, $4, $5)`
	if _, err := tx.ExecContext(ctx, query,
		record.TournamentID, record.Final.Country1, record.Final.Country2, record.Winner, record.Date,
	); err != nil {
		return models.HistoryRecord{}, handleHistoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return models.HistoryRecord{}, fmt.Errorf("failed to commit tournament history: %w", err)
	}
	return record, nil
}

func nextTournamentID(ctx context.Context, exec SQLExecutor) (int, error) {
	var count int
	if err := exec.QueryRowContext(ctx, `SELECT COUNT(*) FROM tournament_history`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count tournament history: %w", err)
	}
	return count + 1, nil
}

func handleHistoryError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrHistoryConflict
	}
	return fmt.Errorf("failed to insert tournament history: %w", err)
}
