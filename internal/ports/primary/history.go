package primary

import "context"

// HistoryService defines the primary port for reading run history.
type HistoryService interface {
	// ListRuns lists the most recent runs, newest first.
	ListRuns(ctx context.Context, limit int) ([]*Run, error)

	// GetRun retrieves a run with its file outcomes.
	GetRun(ctx context.Context, runID string) (*RunDetail, error)
}

// Run represents a generation run at the port boundary.
type Run struct {
	ID          string
	Root        string
	Kinds       []string
	Mode        string
	Status      string
	Created     int
	Overridden  int
	Skipped     int
	FailedKinds []string
	StartedAt   string
	FinishedAt  string
}

// RunDetail is a run with its file outcomes.
type RunDetail struct {
	Run   *Run
	Files []*RunFile
}

// RunFile represents one recorded file outcome.
type RunFile struct {
	Kind      string
	Entity    string
	ClassName string
	Path      string
	Outcome   string
}
