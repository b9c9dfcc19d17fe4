package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/adyen/shopflow/internal/models"
)

// RunRepository handles database operations for flow runs
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new run repository over db
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{
		db: db,
	}
}

const runColumns = `id, reference, flow, browser, status, failures, started_at, finished_at`

// CreateRun inserts a new flow run
func (r *RunRepository) CreateRun(run *models.FlowRun) error {
	query := `
		INSERT INTO flow_runs (id, reference, flow, browser, status, failures, started_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(query,
		run.ID,
		run.Reference,
		run.Flow,
		run.Browser,
		run.Status,
		pq.Array(nonNil(run.Failures)),
		run.StartedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}

	return nil
}

// GetRunByReference retrieves a run by its reference
func (r *RunRepository) GetRunByReference(reference string) (*models.FlowRun, error) {
	query := `SELECT ` + runColumns + ` FROM flow_runs WHERE reference = $1`

	run, err := scanRun(r.db.QueryRow(query, reference))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", models.ErrRunNotFound, reference)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	return run, nil
}

// FinishRun stores the final status, failures and finish time of run
func (r *RunRepository) FinishRun(run *models.FlowRun) error {
	query := `
		UPDATE flow_runs
		SET status = $1, failures = $2, finished_at = $3
		WHERE reference = $4
	`

	result, err := r.db.Exec(query, run.Status, pq.Array(nonNil(run.Failures)), run.FinishedAt, run.Reference)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("%w: %s", models.ErrRunNotFound, run.Reference)
	}

	return nil
}

// ListRecent returns up to limit runs, newest first
func (r *RunRepository) ListRecent(limit int) ([]*models.FlowRun, error) {
	query := `SELECT ` + runColumns + ` FROM flow_runs ORDER BY started_at DESC LIMIT $1`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.FlowRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	return runs, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*models.FlowRun, error) {
	run := &models.FlowRun{}
	var finishedAt sql.NullTime
	err := row.Scan(
		&run.ID,
		&run.Reference,
		&run.Flow,
		&run.Browser,
		&run.Status,
		pq.Array(&run.Failures),
		&run.StartedAt,
		&finishedAt,
	)
	if err != nil {
		return nil, err
	}
	if finishedAt.Valid {
		run.FinishedAt = finishedAt.Time
	}
	return run, nil
}

// the failures column is NOT NULL
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
