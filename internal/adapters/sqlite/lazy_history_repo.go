package sqlite

import (
	"context"
	"database/sql"
	"sync"

	"github.com/example/stubgen/internal/ports/secondary"
)

// Opener opens the history database.
type Opener func() (*sql.DB, error)

// LazyHistoryRepository opens its database on first use, so commands that
// never record a run never touch the database file. An open failure is
// remembered and returned by every call.
type LazyHistoryRepository struct {
	open Opener
	once sync.Once
	db   *sql.DB
	repo *HistoryRepository
	err  error
}

// NewLazyHistoryRepository creates a history repository backed by open.
func NewLazyHistoryRepository(open Opener) *LazyHistoryRepository {
	return &LazyHistoryRepository{open: open}
}

func (r *LazyHistoryRepository) get() (*HistoryRepository, error) {
	r.once.Do(func() {
		r.db, r.err = r.open()
		if r.err == nil {
			r.repo = NewHistoryRepository(r.db)
		}
	})
	return r.repo, r.err
}

// Opened reports whether the database has been opened successfully.
func (r *LazyHistoryRepository) Opened() bool {
	return r.db != nil
}

// Close closes the database if it was opened.
func (r *LazyHistoryRepository) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

// GetNextID returns the next available run ID.
func (r *LazyHistoryRepository) GetNextID(ctx context.Context) (string, error) {
	repo, err := r.get()
	if err != nil {
		return "", err
	}
	return repo.GetNextID(ctx)
}

// CreateRun persists a new run.
func (r *LazyHistoryRepository) CreateRun(ctx context.Context, record *secondary.RunRecord) error {
	repo, err := r.get()
	if err != nil {
		return err
	}
	return repo.CreateRun(ctx, record)
}

// FinishRun records a run's final status and counts.
func (r *LazyHistoryRepository) FinishRun(ctx context.Context, record *secondary.RunRecord) error {
	repo, err := r.get()
	if err != nil {
		return err
	}
	return repo.FinishRun(ctx, record)
}

// AddFiles records the file outcomes of a run.
func (r *LazyHistoryRepository) AddFiles(ctx context.Context, runID string, files []*secondary.RunFileRecord) error {
	repo, err := r.get()
	if err != nil {
		return err
	}
	return repo.AddFiles(ctx, runID, files)
}

// GetRun retrieves a run by ID.
func (r *LazyHistoryRepository) GetRun(ctx context.Context, id string) (*secondary.RunRecord, error) {
	repo, err := r.get()
	if err != nil {
		return nil, err
	}
	return repo.GetRun(ctx, id)
}

// ListRuns lists the most recent runs.
func (r *LazyHistoryRepository) ListRuns(ctx context.Context, limit int) ([]*secondary.RunRecord, error) {
	repo, err := r.get()
	if err != nil {
		return nil, err
	}
	return repo.ListRuns(ctx, limit)
}

// ListFiles lists the file outcomes of a run.
func (r *LazyHistoryRepository) ListFiles(ctx context.Context, runID string) ([]*secondary.RunFileRecord, error) {
	repo, err := r.get()
	if err != nil {
		return nil, err
	}
	return repo.ListFiles(ctx, runID)
}

// Ensure LazyHistoryRepository implements the interface
var _ secondary.HistoryRepository = (*LazyHistoryRepository)(nil)
