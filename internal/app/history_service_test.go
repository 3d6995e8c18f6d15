package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/stubgen/internal/ports/secondary"
)

func seedHistory(t *testing.T) *mockHistoryRepository {
	t.Helper()
	repo := newMockHistoryRepository()
	ctx := context.Background()

	require.NoError(t, repo.CreateRun(ctx, &secondary.RunRecord{
		ID: "RUN-001", Root: testRoot, Kinds: "repository", Mode: "ask",
		Status: secondary.RunStatusCompleted, Created: 2,
	}))
	require.NoError(t, repo.CreateRun(ctx, &secondary.RunRecord{
		ID: "RUN-002", Root: testRoot, Kinds: "policy,resource,repository", Mode: "never",
		Status: secondary.RunStatusFailed, FailedKinds: "policy", Skipped: 1,
	}))
	require.NoError(t, repo.AddFiles(ctx, "RUN-002", []*secondary.RunFileRecord{
		{RunID: "RUN-002", Kind: "resource", Entity: "User", ClassName: "UserResource",
			Path: testRoot + "/app/Http/Resources/UserResource.php", Outcome: "skipped"},
	}))
	return repo
}

func TestHistoryService_ListRuns(t *testing.T) {
	svc := NewHistoryService(seedHistory(t))

	runs, err := svc.ListRuns(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	assert.Equal(t, "RUN-002", runs[0].ID, "most recent first")
	assert.Equal(t, []string{"policy", "resource", "repository"}, runs[0].Kinds)
	assert.Equal(t, []string{"policy"}, runs[0].FailedKinds)
	assert.Nil(t, runs[1].FailedKinds)

	limited, err := svc.ListRuns(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestHistoryService_GetRun(t *testing.T) {
	svc := NewHistoryService(seedHistory(t))

	detail, err := svc.GetRun(context.Background(), "RUN-002")
	require.NoError(t, err)
	assert.Equal(t, secondary.RunStatusFailed, detail.Run.Status)
	require.Len(t, detail.Files, 1)
	assert.Equal(t, "UserResource", detail.Files[0].ClassName)
	assert.Equal(t, "skipped", detail.Files[0].Outcome)

	_, err = svc.GetRun(context.Background(), "RUN-999")
	assert.Error(t, err)
}
