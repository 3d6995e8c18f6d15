package secondary

import "context"

// HistoryRepository defines the secondary port for run history persistence.
type HistoryRepository interface {
	// GetNextID returns the next available run ID.
	GetNextID(ctx context.Context) (string, error)

	// CreateRun persists a new run in the running state.
	CreateRun(ctx context.Context, run *RunRecord) error

	// FinishRun stores a run's final status, counts and finish time.
	FinishRun(ctx context.Context, run *RunRecord) error

	// AddFiles records file outcomes for a run.
	AddFiles(ctx context.Context, runID string, files []*RunFileRecord) error

	// GetRun retrieves a run by its ID.
	GetRun(ctx context.Context, id string) (*RunRecord, error)

	// ListRuns retrieves the most recent runs, newest first.
	ListRuns(ctx context.Context, limit int) ([]*RunRecord, error)

	// ListFiles retrieves a run's file outcomes in insertion order.
	ListFiles(ctx context.Context, runID string) ([]*RunFileRecord, error)
}

// RunRecord represents a generation run as stored in persistence.
type RunRecord struct {
	ID          string
	Root        string
	Kinds       string // comma-separated, in run order
	Mode        string
	Status      string
	Created     int
	Overridden  int
	Skipped     int
	FailedKinds string // comma-separated, empty when every kind succeeded
	StartedAt   string
	FinishedAt  string
}

// RunFileRecord represents one file outcome as stored in persistence.
type RunFileRecord struct {
	RunID     string
	Kind      string
	Entity    string
	ClassName string
	Path      string
	Outcome   string
	CreatedAt string
}

// Run statuses.
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)
