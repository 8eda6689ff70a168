package interview_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interview-assistant/internal/interview"
	"interview-assistant/internal/storage"
)

var candidate = interview.CandidateDetails{Name: "Alice Smith", Email: "alice@example.com", Phone: "555-123-4567"}

func newPersistentController(t *testing.T, repo *storage.Repository) (*interview.Controller, *interview.FakeScheduler) {
	t.Helper()
	sched := interview.NewFakeScheduler()
	c := interview.NewController(repo,
		interview.WithScheduler(sched),
		interview.WithClock(sched.Now),
		interview.WithQuestionDelay(time.Second),
	)
	t.Cleanup(c.Close)
	return c, sched
}

func TestResumeAfterProcessRestart(t *testing.T) {
	repo := storage.NewRepository(storage.NewMemoryStore(), nil)
	ctx := context.Background()

	first, sched := newPersistentController(t, repo)
	require.NoError(t, first.Start(ctx, candidate))
	require.NoError(t, first.Submit(ctx, "keys identify list items"))
	sched.Advance(time.Second)
	require.NoError(t, first.Submit(ctx, "const cannot be reassigned"))
	sched.Advance(time.Second)

	before := first.Snapshot()
	require.Equal(t, 3, before.NextQuestion)
	first.Close()

	saved := repo.LoadInProgress(ctx)
	require.NotNil(t, saved)
	assert.Equal(t, 3, saved.NextQuestion)

	second, sched2 := newPersistentController(t, repo)
	require.NoError(t, second.Resume(ctx, saved))

	after := second.Snapshot()
	assert.Equal(t, before.Messages, after.Messages)
	assert.Equal(t, 3, after.NextQuestion)
	assert.Equal(t, 60, after.SecondsRemaining)
	assert.Equal(t, interview.StateAwaitingAnswer, after.State)

	for i := 2; i < interview.QuestionCount; i++ {
		require.NoError(t, second.Submit(ctx, "answer"))
		sched2.Advance(time.Second)
	}

	assert.Equal(t, interview.StateEnded, second.State())
	assert.False(t, repo.HasInProgress(ctx))

	archive, err := repo.LoadCompleted(ctx)
	require.NoError(t, err)
	require.Len(t, archive, 1)
	assert.Equal(t, interview.MaxScore, archive[0].Score)
	assert.Equal(t, candidate, archive[0].Candidate)
}

func TestPerfectRunClearsSlot(t *testing.T) {
	repo := storage.NewRepository(storage.NewMemoryStore(), nil)
	ctx := context.Background()
	c, sched := newPersistentController(t, repo)

	require.NoError(t, c.Start(ctx, candidate))
	for i := 0; i < interview.QuestionCount; i++ {
		assert.True(t, repo.HasInProgress(ctx))
		require.NoError(t, c.Submit(ctx, "answer"))
		sched.Advance(time.Second)
	}

	assert.False(t, repo.HasInProgress(ctx))
	archive, err := repo.LoadCompleted(ctx)
	require.NoError(t, err)
	require.Len(t, archive, 1)
	assert.Equal(t, 60, archive[0].Score)
	assert.Equal(t, interview.Score(archive[0].Messages), archive[0].Score)
	assert.NotEmpty(t, archive[0].ID)
}
