package interview

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interview-assistant/internal/metrics"
	"interview-assistant/internal/prompts"
)

type memoryStore struct {
	mu         sync.Mutex
	inProgress *Session
	completed  []CompletedSession
	saves      int

	failSave   error
	failAppend error
}

func (s *memoryStore) SaveInProgress(_ context.Context, session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSave != nil {
		return s.failSave
	}
	s.saves++
	s.inProgress = session.Clone()
	return nil
}

func (s *memoryStore) ClearInProgress(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inProgress = nil
	return nil
}

func (s *memoryStore) AppendCompleted(_ context.Context, cs CompletedSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAppend != nil {
		return s.failAppend
	}
	s.completed = append(s.completed, cs)
	return nil
}

var fullDetails = CandidateDetails{Name: "Jane Doe", Email: "jane@example.com", Phone: "123-456-7890"}

func newTestController(t *testing.T, opts ...Option) (*Controller, *memoryStore, *FakeScheduler) {
	t.Helper()
	store := &memoryStore{}
	sched := NewFakeScheduler()
	base := []Option{
		WithScheduler(sched),
		WithClock(sched.Now),
		WithQuestionDelay(0),
	}
	c := NewController(store, append(base, opts...)...)
	t.Cleanup(c.Close)
	return c, store, sched
}

func TestStart_MissingDetailsOpensWithPrompt(t *testing.T) {
	c, store, _ := newTestController(t)

	require.NoError(t, c.Start(context.Background(), CandidateDetails{}))

	snap := c.Snapshot()
	assert.Equal(t, StateCollectingDetails, snap.State)
	assert.Equal(t, FieldName, snap.PendingField)
	require.Len(t, snap.Messages, 1)
	assert.Equal(t, Message{Sender: SenderAI, Text: prompts.MissingDetail("name")}, snap.Messages[0])
	require.NotNil(t, store.inProgress)
	assert.Len(t, store.inProgress.Messages, 1)
}

func TestStart_CompletePrefillAsksFirstQuestion(t *testing.T) {
	c, _, _ := newTestController(t)

	require.NoError(t, c.Start(context.Background(), fullDetails))

	snap := c.Snapshot()
	assert.Equal(t, StateAwaitingAnswer, snap.State)
	assert.Equal(t, 1, snap.NextQuestion)
	assert.Equal(t, 20, snap.SecondsRemaining)
	require.Len(t, snap.Messages, 1)
	assert.True(t, snap.Messages[0].AsksQuestion(0))
	require.NotNil(t, snap.Question)
	assert.Equal(t, Easy, snap.Question.Difficulty)
}

func TestStart_InvalidPrefillIsDropped(t *testing.T) {
	c, _, _ := newTestController(t)

	require.NoError(t, c.Start(context.Background(), CandidateDetails{
		Name:  "Jane Doe",
		Email: "not-an-email",
		Phone: "123",
	}))

	snap := c.Snapshot()
	assert.Equal(t, FieldEmail, snap.PendingField)
	assert.Equal(t, "", snap.Candidate.Email)
	assert.Equal(t, "", snap.Candidate.Phone)
	assert.Equal(t, prompts.MissingDetail("email"), snap.Messages[0].Text)
}

func TestStart_RejectedWhileInProgress(t *testing.T) {
	c, _, _ := newTestController(t)

	require.NoError(t, c.Start(context.Background(), fullDetails))
	assert.ErrorIs(t, c.Start(context.Background(), fullDetails), ErrAlreadyStarted)
}

func TestSubmit_InvalidEmailTwice(t *testing.T) {
	c, _, _ := newTestController(t)
	ctx := context.Background()

	require.NoError(t, c.Start(ctx, CandidateDetails{Name: "Jane Doe"}))
	require.NoError(t, c.Submit(ctx, "jane-at-example"))
	require.NoError(t, c.Submit(ctx, "still wrong"))

	snap := c.Snapshot()
	assert.Equal(t, FieldEmail, snap.PendingField)
	require.Len(t, snap.Messages, 5)
	assert.Equal(t, prompts.InvalidEmail, snap.Messages[2].Text)
	assert.Equal(t, prompts.InvalidEmail, snap.Messages[4].Text)

	require.NoError(t, c.Submit(ctx, " jane@example.com"))
	snap = c.Snapshot()
	assert.Equal(t, FieldEmail, snap.PendingField)
	assert.Equal(t, " jane@example.com", snap.Messages[5].Text)
	assert.Equal(t, prompts.InvalidEmail, snap.Messages[6].Text)

	require.NoError(t, c.Submit(ctx, "jane@example.com"))
	snap = c.Snapshot()
	assert.Equal(t, "jane@example.com", snap.Candidate.Email)
	assert.Equal(t, FieldPhone, snap.PendingField)
	assert.Equal(t, prompts.AskPhone, snap.Messages[len(snap.Messages)-1].Text)

	require.NoError(t, c.Submit(ctx, "123 456 7890"))
	snap = c.Snapshot()
	assert.Equal(t, StateAwaitingAnswer, snap.State)
	n := len(snap.Messages)
	assert.Equal(t, prompts.DetailsCollected, snap.Messages[n-2].Text)
	assert.True(t, snap.Messages[n-1].AsksQuestion(0))
}

func TestSubmit_AnswerKeptVerbatim(t *testing.T) {
	c, _, _ := newTestController(t)
	ctx := context.Background()

	require.NoError(t, c.Start(ctx, fullDetails))
	require.NoError(t, c.Submit(ctx, "  goroutines share memory by communicating\n"))

	snap := c.Snapshot()
	require.GreaterOrEqual(t, len(snap.Messages), 2)
	assert.Equal(t, SenderUser, snap.Messages[1].Sender)
	assert.Equal(t, "  goroutines share memory by communicating\n", snap.Messages[1].Text)
}

func TestSubmit_FullRunScoresAndArchives(t *testing.T) {
	m := metrics.NewMetrics()
	c, store, _ := newTestController(t, WithMetrics(m), WithIDGenerator(func() string { return "fixed-id" }))
	ctx := context.Background()

	require.NoError(t, c.Start(ctx, fullDetails))
	for i := 0; i < QuestionCount; i++ {
		require.NoError(t, c.Submit(ctx, fmt.Sprintf("answer %d", i)))
	}

	snap := c.Snapshot()
	assert.Equal(t, StateEnded, snap.State)
	require.NotNil(t, snap.Completed)
	assert.Equal(t, "fixed-id", snap.Completed.ID)
	assert.Equal(t, MaxScore, snap.Completed.Score)
	assert.Equal(t, prompts.Summary(6, 6), snap.Completed.Summary)
	assert.Equal(t, prompts.InterviewDone, snap.Messages[len(snap.Messages)-1].Text)
	assert.Len(t, snap.Messages, 2*QuestionCount+1)

	require.Len(t, store.completed, 1)
	assert.Equal(t, fullDetails, store.completed[0].Candidate)
	assert.Nil(t, store.inProgress)

	assert.Equal(t, 6.0, testutil.ToFloat64(m.QuestionsAsked))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.InterviewsCompleted))

	assert.ErrorIs(t, c.Submit(ctx, "late"), ErrInterviewEnded)
}

func TestSubmit_Errors(t *testing.T) {
	c, _, _ := newTestController(t)
	ctx := context.Background()

	assert.ErrorIs(t, c.Submit(ctx, "hello"), ErrNotStarted)
	require.NoError(t, c.Start(ctx, fullDetails))
	assert.ErrorIs(t, c.Submit(ctx, "   "), ErrEmptyAnswer)
	assert.Len(t, c.Snapshot().Messages, 1)
}

func TestSubmit_QuestionDelay(t *testing.T) {
	c, _, sched := newTestController(t, WithQuestionDelay(time.Second))
	ctx := context.Background()

	require.NoError(t, c.Start(ctx, fullDetails))
	require.NoError(t, c.Submit(ctx, "a key identifies list items"))

	snap := c.Snapshot()
	assert.True(t, snap.QuestionPending)
	assert.Nil(t, snap.Question)
	assert.Len(t, snap.Messages, 2)
	assert.ErrorIs(t, c.Submit(ctx, "again"), ErrQuestionPending)

	sched.Advance(time.Second)

	snap = c.Snapshot()
	assert.False(t, snap.QuestionPending)
	assert.Equal(t, 2, snap.NextQuestion)
	assert.True(t, snap.Messages[2].AsksQuestion(1))
}

func TestCountdown_FirstQuestionTimesOut(t *testing.T) {
	m := metrics.NewMetrics()
	c, _, sched := newTestController(t, WithQuestionDelay(time.Second), WithMetrics(m))
	ctx := context.Background()

	require.NoError(t, c.Start(ctx, fullDetails))

	sched.Advance(19 * time.Second)
	snap := c.Snapshot()
	assert.Equal(t, 1, snap.SecondsRemaining)
	assert.False(t, snap.TimeExpired)

	sched.Advance(time.Second)
	snap = c.Snapshot()
	assert.True(t, snap.TimeExpired)
	assert.Equal(t, 0, snap.SecondsRemaining)
	require.Len(t, snap.Messages, 2)
	assert.Equal(t, Message{Sender: SenderUser, Text: TimeoutAnswer}, snap.Messages[1])

	sched.Advance(time.Second)
	snap = c.Snapshot()
	assert.Equal(t, 2, snap.NextQuestion)
	assert.False(t, snap.TimeExpired)
	assert.Equal(t, 20, snap.SecondsRemaining)
	assert.Equal(t, 0, AnsweredCount(snap.Messages))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Timeouts))
}

func TestCountdown_AllQuestionsTimeOut(t *testing.T) {
	c, store, sched := newTestController(t)

	require.NoError(t, c.Start(context.Background(), fullDetails))
	sched.Advance(10 * time.Minute)

	snap := c.Snapshot()
	assert.Equal(t, StateEnded, snap.State)
	require.NotNil(t, snap.Completed)
	assert.Equal(t, 0, snap.Completed.Score)
	require.Len(t, store.completed, 1)
	assert.Equal(t, 0, sched.Pending())
}

func TestCountdown_StaleTickIgnored(t *testing.T) {
	c, _, sched := newTestController(t)
	sched.IgnoreCancel = true
	ctx := context.Background()

	require.NoError(t, c.Start(ctx, fullDetails))
	require.NoError(t, c.Submit(ctx, "answer"))

	sched.Advance(time.Second)

	snap := c.Snapshot()
	assert.Equal(t, 2, snap.NextQuestion)
	assert.Equal(t, 19, snap.SecondsRemaining)
}

func TestFinalize(t *testing.T) {
	c, store, _ := newTestController(t)
	ctx := context.Background()

	_, err := c.Finalize(ctx)
	assert.ErrorIs(t, err, ErrNotStarted)

	require.NoError(t, c.Start(ctx, fullDetails))
	_, err = c.Finalize(ctx)
	assert.ErrorIs(t, err, ErrNotFinished)

	for i := 0; i < QuestionCount; i++ {
		require.NoError(t, c.Submit(ctx, "answer"))
	}
	require.Len(t, store.completed, 1)

	cs, err := c.Finalize(ctx)
	require.NoError(t, err)
	assert.Nil(t, cs)
	assert.Len(t, store.completed, 1)
	assert.Len(t, c.Snapshot().Messages, 2*QuestionCount+1)
}

func askedThrough(n int) []Message {
	var msgs []Message
	for i := 0; i < n; i++ {
		idx := i
		msgs = append(msgs, Message{Sender: SenderAI, Text: bank[i].Prompt, QuestionIndex: &idx})
		if i < n-1 {
			msgs = append(msgs, Message{Sender: SenderUser, Text: "answer"})
		}
	}
	return msgs
}

func TestResume_MidQuestion(t *testing.T) {
	c, _, sched := newTestController(t)

	saved := &Session{Messages: askedThrough(3), NextQuestion: 3, Candidate: fullDetails}
	require.NoError(t, c.Resume(context.Background(), saved))

	snap := c.Snapshot()
	assert.Equal(t, StateAwaitingAnswer, snap.State)
	assert.Len(t, snap.Messages, 5)
	assert.Equal(t, 3, snap.NextQuestion)
	assert.Equal(t, 60, snap.SecondsRemaining)
	require.NotNil(t, snap.Question)
	assert.Equal(t, bank[2].Prompt, snap.Question.Prompt)

	sched.Advance(time.Second)
	assert.Equal(t, 59, c.Snapshot().SecondsRemaining)
}

func TestResume_AfterSavedAnswerAsksNext(t *testing.T) {
	c, _, _ := newTestController(t, WithQuestionDelay(time.Second))

	msgs := append(askedThrough(2), Message{Sender: SenderUser, Text: "answer"})
	require.NoError(t, c.Resume(context.Background(), &Session{Messages: msgs, NextQuestion: 2, Candidate: fullDetails}))

	snap := c.Snapshot()
	assert.Len(t, snap.Messages, 5)
	assert.True(t, snap.Messages[4].AsksQuestion(2))
	assert.Equal(t, 3, snap.NextQuestion)
}

func TestResume_CollectingDetails(t *testing.T) {
	c, _, _ := newTestController(t)

	saved := &Session{
		Messages:     []Message{{Sender: SenderAI, Text: prompts.MissingDetail("phone")}},
		Candidate:    CandidateDetails{Name: "Jane", Email: "jane@example.com"},
		PendingField: FieldPhone,
	}
	require.NoError(t, c.Resume(context.Background(), saved))

	snap := c.Snapshot()
	assert.Equal(t, StateCollectingDetails, snap.State)
	assert.Len(t, snap.Messages, 1)
}

func TestResume_FinishedTranscriptIsFinalized(t *testing.T) {
	c, store, _ := newTestController(t)

	msgs := append(askedThrough(QuestionCount),
		Message{Sender: SenderUser, Text: "answer"},
		Message{Sender: SenderAI, Text: prompts.InterviewDone})
	require.NoError(t, c.Resume(context.Background(), &Session{Messages: msgs, NextQuestion: QuestionCount, Candidate: fullDetails}))

	snap := c.Snapshot()
	assert.Equal(t, StateEnded, snap.State)
	assert.Len(t, snap.Messages, len(msgs))
	require.Len(t, store.completed, 1)
	assert.Equal(t, MaxScore, store.completed[0].Score)
}

func TestRestart(t *testing.T) {
	c, store, sched := newTestController(t)
	ctx := context.Background()

	require.NoError(t, c.Start(ctx, fullDetails))
	require.NoError(t, c.Restart(ctx))

	assert.Equal(t, StateIdle, c.State())
	assert.Nil(t, store.inProgress)
	assert.Equal(t, 0, sched.Pending())

	require.NoError(t, c.Start(ctx, fullDetails))
	assert.Len(t, c.Snapshot().Messages, 1)
}

func TestStorageFailureIsWarning(t *testing.T) {
	m := metrics.NewMetrics()
	c, store, _ := newTestController(t, WithMetrics(m))
	ctx := context.Background()
	store.failSave = errors.New("quota exceeded")

	require.NoError(t, c.Start(ctx, fullDetails))
	snap := c.Snapshot()
	assert.Equal(t, StateAwaitingAnswer, snap.State)
	assert.Contains(t, snap.Warning, "quota exceeded")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StorageFailures.WithLabelValues("save_in_progress")))

	store.failSave = nil
	require.NoError(t, c.Submit(ctx, "answer"))
	assert.Empty(t, c.Snapshot().Warning)
}

func TestArchiveFailureKeepsProgress(t *testing.T) {
	c, store, _ := newTestController(t)
	ctx := context.Background()
	store.failAppend = errors.New("disk full")

	require.NoError(t, c.Start(ctx, fullDetails))
	for i := 0; i < QuestionCount; i++ {
		require.NoError(t, c.Submit(ctx, "answer"))
	}

	snap := c.Snapshot()
	assert.Equal(t, StateEnded, snap.State)
	assert.Contains(t, snap.Warning, "disk full")
	assert.Empty(t, store.completed)
	require.NotNil(t, store.inProgress)
	assert.Equal(t, prompts.InterviewDone, store.inProgress.Messages[len(store.inProgress.Messages)-1].Text)
}

func TestListenerReceivesSnapshots(t *testing.T) {
	var states []State
	c, _, _ := newTestController(t, WithListener(func(s Snapshot) {
		states = append(states, s.State)
	}))
	ctx := context.Background()

	require.NoError(t, c.Start(ctx, CandidateDetails{}))
	require.NoError(t, c.Submit(ctx, "Jane"))
	assert.ErrorIs(t, c.Submit(ctx, ""), ErrEmptyAnswer)

	assert.Equal(t, []State{StateCollectingDetails, StateCollectingDetails}, states)
}
