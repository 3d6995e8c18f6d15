// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/stubgen/internal/core/run"
	"github.com/example/stubgen/internal/ports/secondary"
)

// HistoryRepository implements secondary.HistoryRepository with SQLite.
type HistoryRepository struct {
	db *sql.DB
}

// NewHistoryRepository creates a new SQLite history repository.
func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// GetNextID returns the next available run ID.
func (r *HistoryRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(CAST(SUBSTR(id, 5) AS INTEGER)), 0) FROM runs",
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next run ID: %w", err)
	}

	return run.GenerateRunID(maxID), nil
}

// CreateRun persists a new run.
func (r *HistoryRepository) CreateRun(ctx context.Context, record *secondary.RunRecord) error {
	status := record.Status
	if status == "" {
		status = secondary.RunStatusRunning
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO runs (id, root, kinds, mode, status) VALUES (?, ?, ?, ?, ?)",
		record.ID, record.Root, record.Kinds, record.Mode, status,
	)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}

	return nil
}

// FinishRun stores the final status and counts of a run.
func (r *HistoryRepository) FinishRun(ctx context.Context, record *secondary.RunRecord) error {
	var failed sql.NullString
	if record.FailedKinds != "" {
		failed = sql.NullString{String: record.FailedKinds, Valid: true}
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, created_count = ?, overridden_count = ?, skipped_count = ?,
			failed_kinds = ?, finished_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		record.Status, record.Created, record.Overridden, record.Skipped, failed, record.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("run %s not found", record.ID)
	}

	return nil
}

// AddFiles records file outcomes for a run in one transaction.
func (r *HistoryRepository) AddFiles(ctx context.Context, runID string, files []*secondary.RunFileRecord) error {
	if len(files) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO run_files (run_id, kind, entity, class_name, path, outcome) VALUES (?, ?, ?, ?, ?, ?)",
	)
	if err != nil {
		return fmt.Errorf("failed to prepare run file insert: %w", err)
	}
	defer stmt.Close()

	for _, f := range files {
		if _, err := stmt.ExecContext(ctx, runID, f.Kind, f.Entity, f.ClassName, f.Path, f.Outcome); err != nil {
			return fmt.Errorf("failed to record %s: %w", f.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run files: %w", err)
	}
	return nil
}

const runColumns = `id, root, kinds, mode, status, created_count, overridden_count, skipped_count,
	failed_kinds, started_at, finished_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*secondary.RunRecord, error) {
	var (
		failed     sql.NullString
		startedAt  sql.NullTime
		finishedAt sql.NullTime
	)

	record := &secondary.RunRecord{}
	err := row.Scan(&record.ID, &record.Root, &record.Kinds, &record.Mode, &record.Status,
		&record.Created, &record.Overridden, &record.Skipped, &failed, &startedAt, &finishedAt)
	if err != nil {
		return nil, err
	}

	record.FailedKinds = failed.String
	if startedAt.Valid {
		record.StartedAt = startedAt.Time.Format(time.RFC3339)
	}
	if finishedAt.Valid {
		record.FinishedAt = finishedAt.Time.Format(time.RFC3339)
	}
	return record, nil
}

// GetRun retrieves a run by its ID.
func (r *HistoryRepository) GetRun(ctx context.Context, id string) (*secondary.RunRecord, error) {
	record, err := scanRun(r.db.QueryRowContext(ctx,
		"SELECT "+runColumns+" FROM runs WHERE id = ?", id,
	))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return record, nil
}

// ListRuns retrieves the most recent runs, newest first.
func (r *HistoryRepository) ListRuns(ctx context.Context, limit int) ([]*secondary.RunRecord, error) {
	query := "SELECT " + runColumns + " FROM runs ORDER BY CAST(SUBSTR(id, 5) AS INTEGER) DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*secondary.RunRecord
	for rows.Next() {
		record, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, record)
	}

	return runs, rows.Err()
}

// ListFiles retrieves a run's file outcomes in insertion order.
func (r *HistoryRepository) ListFiles(ctx context.Context, runID string) ([]*secondary.RunFileRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT run_id, kind, entity, class_name, path, outcome, created_at FROM run_files WHERE run_id = ? ORDER BY id ASC",
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list run files: %w", err)
	}
	defer rows.Close()

	var files []*secondary.RunFileRecord
	for rows.Next() {
		var createdAt sql.NullTime
		f := &secondary.RunFileRecord{}
		if err := rows.Scan(&f.RunID, &f.Kind, &f.Entity, &f.ClassName, &f.Path, &f.Outcome, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan run file: %w", err)
		}
		if createdAt.Valid {
			f.CreatedAt = createdAt.Time.Format(time.RFC3339)
		}
		files = append(files, f)
	}

	return files, rows.Err()
}

// Ensure HistoryRepository implements the interface
var _ secondary.HistoryRepository = (*HistoryRepository)(nil)
