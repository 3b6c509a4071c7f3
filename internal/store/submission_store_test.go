package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codeclash/arena/internal/models"
)

func TestSubmissionLifecycle(t *testing.T) {
	store := NewSubmissionStore()

	created := store.Create("room-abc12345", "alice", "func main() {}", "go")
	require.Regexp(t, `^sub-[0-9a-f-]{8}$`, created.ID)
	require.Equal(t, models.SubmissionStatusPending, created.Status)
	require.Nil(t, created.Score)
	require.False(t, created.IsTerminal())

	require.True(t, store.Finalize(created.ID, models.SubmissionStatusScored, 87, "good work"))

	scored, err := store.Get(created.ID)
	require.NoError(t, err)
	require.Equal(t, models.SubmissionStatusScored, scored.Status)
	require.NotNil(t, scored.Score)
	require.Equal(t, 87, *scored.Score)
	require.Equal(t, "good work", scored.Feedback)
	require.NotNil(t, scored.ScoredAt)
	require.True(t, scored.IsTerminal())
}

func TestFinalizeAppliesAtMostOnce(t *testing.T) {
	store := NewSubmissionStore()
	created := store.Create("room-abc12345", "alice", "print(1)", "python")

	require.True(t, store.Finalize(created.ID, models.SubmissionStatusScored, 90, "first"))
	require.False(t, store.Finalize(created.ID, models.SubmissionStatusFailed, 10, "second"))

	final, err := store.Get(created.ID)
	require.NoError(t, err)
	require.Equal(t, models.SubmissionStatusScored, final.Status)
	require.Equal(t, 90, *final.Score)
	require.Equal(t, "first", final.Feedback)
}

func TestFinalizeUnknownSubmission(t *testing.T) {
	store := NewSubmissionStore()
	require.False(t, store.Finalize("sub-missing1", models.SubmissionStatusScored, 50, ""))
}

func TestGetReturnsCopy(t *testing.T) {
	store := NewSubmissionStore()
	created := store.Create("room-abc12345", "alice", "x", "go")

	first, err := store.Get(created.ID)
	require.NoError(t, err)
	first.Status = models.SubmissionStatusFailed

	second, err := store.Get(created.ID)
	require.NoError(t, err)
	require.Equal(t, models.SubmissionStatusPending, second.Status)
}
