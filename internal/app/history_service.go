package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/stubgen/internal/ports/primary"
	"github.com/example/stubgen/internal/ports/secondary"
)

// HistoryServiceImpl implements the HistoryService interface.
type HistoryServiceImpl struct {
	repo secondary.HistoryRepository
}

// NewHistoryService creates a new HistoryService with injected dependencies.
func NewHistoryService(repo secondary.HistoryRepository) *HistoryServiceImpl {
	return &HistoryServiceImpl{repo: repo}
}

// ListRuns lists the most recent runs.
func (s *HistoryServiceImpl) ListRuns(ctx context.Context, limit int) ([]*primary.Run, error) {
	records, err := s.repo.ListRuns(ctx, limit)
	if err != nil {
		return nil, err
	}

	runs := make([]*primary.Run, len(records))
	for i, r := range records {
		runs[i] = s.recordToRun(r)
	}
	return runs, nil
}

// GetRun retrieves a run with its file outcomes.
func (s *HistoryServiceImpl) GetRun(ctx context.Context, runID string) (*primary.RunDetail, error) {
	record, err := s.repo.GetRun(ctx, runID)
	if err != nil {
		return nil, err
	}

	files, err := s.repo.ListFiles(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list files of %s: %w", runID, err)
	}

	detail := &primary.RunDetail{Run: s.recordToRun(record)}
	for _, f := range files {
		detail.Files = append(detail.Files, &primary.RunFile{
			Kind:      f.Kind,
			Entity:    f.Entity,
			ClassName: f.ClassName,
			Path:      f.Path,
			Outcome:   f.Outcome,
		})
	}
	return detail, nil
}

func (s *HistoryServiceImpl) recordToRun(r *secondary.RunRecord) *primary.Run {
	return &primary.Run{
		ID:          r.ID,
		Root:        r.Root,
		Kinds:       splitList(r.Kinds),
		Mode:        r.Mode,
		Status:      r.Status,
		Created:     r.Created,
		Overridden:  r.Overridden,
		Skipped:     r.Skipped,
		FailedKinds: splitList(r.FailedKinds),
		StartedAt:   r.StartedAt,
		FinishedAt:  r.FinishedAt,
	}
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

// Ensure HistoryServiceImpl implements the interface
var _ primary.HistoryService = (*HistoryServiceImpl)(nil)
