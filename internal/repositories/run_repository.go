package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/videoingest/backend/internal/models"
	"go.uber.org/zap"
)

type runRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewRunRepository creates a new batch run history repository
func NewRunRepository(db *sql.DB, logger *zap.Logger) *runRepository {
	return &runRepository{
		db:     db,
		logger: logger,
	}
}

// Method Create is a RunRecorder implementation for storing a finished batch run.
//
// The run and all of its item outcomes are written in a single transaction.
func (r *runRepository) Create(ctx context.Context, result *models.BatchResult) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.logger.Error("failed to begin transaction", zap.Error(err))
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	query := `INSERT INTO ingest_runs (id, query, total, succeeded, failed, started_at, finished_at) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err = tx.ExecContext(ctx, query,
		result.RunID,
		result.Query,
		len(result.Outcomes),
		result.Succeeded,
		result.Failed,
		result.StartedAt,
		result.FinishedAt,
	)
	if err != nil {
		tx.Rollback()
		r.logger.Error("failed to insert run", zap.String("runId", result.RunID), zap.Error(err))
		return fmt.Errorf("failed to insert run: %w", err)
	}

	itemQuery := `INSERT INTO ingest_run_items (run_id, position, item_id, title, state, failed_stage, error, record_id) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	for i, outcome := range result.Outcomes {
		_, err = tx.ExecContext(ctx, itemQuery,
			result.RunID,
			i,
			outcome.ItemID,
			outcome.Title,
			string(outcome.State),
			string(outcome.FailedStage),
			sql.NullString{String: outcome.Error, Valid: outcome.Error != ""},
			outcome.RecordID,
		)
		if err != nil {
			tx.Rollback()
			r.logger.Error("failed to insert run item", zap.String("runId", result.RunID), zap.Int("position", i), zap.Error(err))
			return fmt.Errorf("failed to insert run item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("failed to commit run", zap.String("runId", result.RunID), zap.Error(err))
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// Method GetByID is a RunHistory implementation for retrieving a stored batch run with its ordered item outcomes.
func (r *runRepository) GetByID(ctx context.Context, id string) (*models.BatchResult, error) {
	query := `SELECT id, query, succeeded, failed, started_at, finished_at FROM ingest_runs WHERE id = ?`

	var result models.BatchResult
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&result.RunID,
		&result.Query,
		&result.Succeeded,
		&result.Failed,
		&result.StartedAt,
		&result.FinishedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrRunNotFound
		}
		r.logger.Error("failed to query run", zap.String("runId", id), zap.Error(err))
		return nil, fmt.Errorf("failed to query run: %w", err)
	}

	itemQuery := `SELECT item_id, title, state, failed_stage, error, record_id FROM ingest_run_items WHERE run_id = ? ORDER BY position`
	rows, err := r.db.QueryContext(ctx, itemQuery, id)
	if err != nil {
		r.logger.Error("failed to query run items", zap.String("runId", id), zap.Error(err))
		return nil, fmt.Errorf("failed to query run items: %w", err)
	}
	defer rows.Close()

	result.Outcomes = []models.ItemOutcome{}
	for rows.Next() {
		var (
			outcome     models.ItemOutcome
			state       string
			failedStage string
			errMessage  sql.NullString
		)
		if err := rows.Scan(&outcome.ItemID, &outcome.Title, &state, &failedStage, &errMessage, &outcome.RecordID); err != nil {
			r.logger.Error("failed to scan run item", zap.Error(err))
			return nil, fmt.Errorf("failed to scan run item: %w", err)
		}
		outcome.State = models.ItemState(state)
		outcome.FailedStage = models.ItemState(failedStage)
		outcome.Error = errMessage.String
		result.Outcomes = append(result.Outcomes, outcome)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating run items", zap.Error(err))
		return nil, fmt.Errorf("error iterating run items: %w", err)
	}

	return &result, nil
}
