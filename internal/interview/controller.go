package interview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"interview-assistant/internal/metrics"
	"interview-assistant/internal/prompts"
	"interview-assistant/internal/validator"
)

const (
	DefaultQuestionDelay = time.Second
	DefaultTickInterval  = time.Second
)

// Store persists the in-progress session and the archive of completed ones.
type Store interface {
	SaveInProgress(ctx context.Context, s *Session) error
	ClearInProgress(ctx context.Context) error
	AppendCompleted(ctx context.Context, cs CompletedSession) error
}

var errStale = errors.New("stale scheduled task")

// Controller owns the single interview session and every transition on it.
// Public methods and scheduled callbacks are serialised on one mutex.
type Controller struct {
	mu sync.Mutex

	store     Store
	scheduler Scheduler
	now       func() time.Time
	newID     func() string
	logger    *zap.Logger
	metrics   *metrics.Metrics
	listener  func(Snapshot)

	questionDelay time.Duration
	tickInterval  time.Duration

	session   *Session
	completed *CompletedSession
	warning   string

	countdown Task
	pending   Task
	// gen invalidates callbacks of cancelled tasks that already started running
	gen uint64
}

// Option configures a Controller.
type Option func(*Controller)

func WithScheduler(s Scheduler) Option {
	return func(c *Controller) { c.scheduler = s }
}

func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(c *Controller) { c.newID = newID }
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Controller) { c.metrics = m }
}

// WithListener registers fn to receive a snapshot after every transition.
// fn is called without the controller lock held.
func WithListener(fn func(Snapshot)) Option {
	return func(c *Controller) { c.listener = fn }
}

// WithQuestionDelay sets the pause between an answer and the next question.
func WithQuestionDelay(d time.Duration) Option {
	return func(c *Controller) { c.questionDelay = d }
}

// WithTickInterval sets how often the countdown decrements by one second.
func WithTickInterval(d time.Duration) Option {
	return func(c *Controller) { c.tickInterval = d }
}

// NewController creates an idle controller backed by store.
func NewController(store Store, opts ...Option) *Controller {
	c := &Controller{
		store:         store,
		scheduler:     TimerScheduler{},
		now:           time.Now,
		newID:         uuid.NewString,
		logger:        zap.NewNop(),
		questionDelay: DefaultQuestionDelay,
		tickInterval:  DefaultTickInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

// Snapshot returns a copy of the current session for rendering.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Start begins a fresh interview. Pre-filled details are validated first;
// invalid ones are dropped and collected in the chat instead.
func (c *Controller) Start(ctx context.Context, prefill CandidateDetails) error {
	return c.mutate(func() error {
		if c.session != nil && !c.session.Ended {
			return ErrAlreadyStarted
		}
		c.cancelTasksLocked()
		c.completed = nil
		c.session = &Session{
			Messages:  []Message{},
			Candidate: acceptPrefill(prefill),
		}
		c.session.PendingField = c.session.Candidate.NextMissing()

		c.metrics.IncrementInterviewsStarted()
		c.logger.Info("interview started", zap.String("pending_field", string(c.session.PendingField)))

		c.openLocked(ctx)
		return nil
	})
}

// Resume restores a saved session and continues where it stopped.
func (c *Controller) Resume(ctx context.Context, saved *Session) error {
	if saved == nil {
		return ErrNotStarted
	}
	return c.mutate(func() error {
		if c.session != nil && !c.session.Ended {
			return ErrAlreadyStarted
		}
		c.cancelTasksLocked()
		c.completed = nil

		s := saved.Clone()
		s.Ended = false
		s.TimeExpired = false
		s.SecondsRemaining = resumeSeconds(s.NextQuestion)
		if s.Messages == nil {
			s.Messages = []Message{}
		}
		c.session = s

		c.logger.Info("interview resumed",
			zap.Int("question_number", s.NextQuestion),
			zap.Int("messages", len(s.Messages)))

		c.recoverLocked(ctx)
		return nil
	})
}

// Restart discards the current session and its saved progress.
func (c *Controller) Restart(ctx context.Context) error {
	return c.mutate(func() error {
		c.cancelTasksLocked()
		c.session = nil
		c.completed = nil
		if err := c.store.ClearInProgress(ctx); err != nil {
			c.storageFailed("clear_in_progress", err)
			return nil
		}
		c.warning = ""
		c.logger.Info("interview discarded")
		return nil
	})
}

// Submit handles one line of user input: a candidate detail while details
// are being collected, otherwise the answer to the current question.
// The text is recorded and validated exactly as given.
func (c *Controller) Submit(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyAnswer
	}
	return c.mutate(func() error {
		switch {
		case c.session == nil:
			return ErrNotStarted
		case c.session.Ended:
			return ErrInterviewEnded
		case c.pending != nil:
			return ErrQuestionPending
		}

		if c.session.PendingField != FieldNone {
			c.collectDetailLocked(ctx, text)
			return nil
		}
		c.advanceLocked(ctx, &text)
		return nil
	})
}

// Finalize scores and archives an interview whose questions are all done.
// It returns nil without side effects once the interview has ended.
func (c *Controller) Finalize(ctx context.Context) (*CompletedSession, error) {
	var out *CompletedSession
	err := c.mutate(func() error {
		s := c.session
		if s == nil {
			return ErrNotStarted
		}
		if s.Ended {
			return nil
		}
		if s.PendingField != FieldNone || s.NextQuestion < QuestionCount || c.awaitingLastAnswerLocked() {
			return ErrNotFinished
		}
		c.finalizeLocked(ctx)
		cs := *c.completed
		out = &cs
		return nil
	})
	return out, err
}

// Close cancels any scheduled work. Saved progress is left in place.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelTasksLocked()
}

// mutate runs fn under the lock, then hands the resulting snapshot to the
// listener when fn succeeded.
func (c *Controller) mutate(fn func() error) error {
	c.mu.Lock()
	err := fn()
	snap := c.snapshotLocked()
	listener := c.listener
	c.mu.Unlock()

	if err == nil && listener != nil {
		listener(snap)
	}
	return err
}

func (c *Controller) stateLocked() State {
	switch {
	case c.session == nil:
		return StateIdle
	case c.session.Ended:
		return StateEnded
	case c.session.PendingField != FieldNone:
		return StateCollectingDetails
	default:
		return StateAwaitingAnswer
	}
}

func (c *Controller) snapshotLocked() Snapshot {
	snap := Snapshot{
		State:    c.stateLocked(),
		Messages: []Message{},
		Warning:  c.warning,
	}
	if c.completed != nil {
		cs := *c.completed
		cs.Messages = cloneMessages(cs.Messages)
		snap.Completed = &cs
	}

	s := c.session
	if s == nil {
		return snap
	}
	snap.Messages = cloneMessages(s.Messages)
	snap.Candidate = s.Candidate
	snap.PendingField = s.PendingField
	snap.NextQuestion = s.NextQuestion
	snap.SecondsRemaining = s.SecondsRemaining
	snap.TimeExpired = s.TimeExpired
	snap.QuestionPending = c.pending != nil
	if !s.Ended && s.PendingField == FieldNone && s.NextQuestion > 0 && c.pending == nil {
		q := bank[s.NextQuestion-1]
		snap.Question = &q
	}
	return snap
}

func (c *Controller) openLocked(ctx context.Context) {
	s := c.session
	if s.PendingField != FieldNone {
		c.appendLocked(aiMessage(prompts.MissingDetail(string(s.PendingField))))
		c.persistLocked(ctx)
		return
	}
	c.advanceLocked(ctx, nil)
}

func (c *Controller) recoverLocked(ctx context.Context) {
	s := c.session
	if len(s.Messages) == 0 {
		c.openLocked(ctx)
		return
	}
	if s.PendingField != FieldNone {
		return
	}

	last := s.Messages[len(s.Messages)-1]
	switch {
	case s.NextQuestion == 0:
		c.advanceLocked(ctx, nil)
	case last.Sender == SenderUser:
		// the answer was saved before the next question was asked
		c.advanceLocked(ctx, nil)
	case s.NextQuestion >= QuestionCount && !asksAnyQuestion(last):
		c.finalizeLocked(ctx)
	default:
		c.startCountdownLocked()
	}
}

func (c *Controller) collectDetailLocked(ctx context.Context, answer string) {
	s := c.session
	field := s.PendingField
	c.appendLocked(userMessage(answer))

	if !detailValid(field, answer) {
		c.appendLocked(aiMessage(prompts.InvalidDetail(string(field))))
		c.metrics.IncrementDetailReprompts()
		c.persistLocked(ctx)
		return
	}

	s.Candidate.set(field, answer)
	s.PendingField = s.Candidate.NextMissing()
	if s.PendingField != FieldNone {
		c.appendLocked(aiMessage(prompts.AskDetail(string(s.PendingField))))
		c.persistLocked(ctx)
		return
	}

	c.appendLocked(aiMessage(prompts.DetailsCollected))
	c.persistLocked(ctx)
	c.advanceLocked(ctx, nil)
}

// advanceLocked records answer (nil when entering questioning without one),
// then asks the next question or finalizes.
func (c *Controller) advanceLocked(ctx context.Context, answer *string) {
	s := c.session
	c.cancelTasksLocked()
	if answer != nil {
		c.appendLocked(userMessage(*answer))
	}

	if s.NextQuestion >= QuestionCount {
		c.finalizeLocked(ctx)
		return
	}

	if answer != nil && c.questionDelay > 0 {
		c.persistLocked(ctx)
		c.pending = c.scheduleLocked(c.questionDelay, func() {
			c.pending = nil
			c.askLocked(context.Background())
		})
		return
	}
	c.askLocked(ctx)
}

func (c *Controller) askLocked(ctx context.Context) {
	s := c.session
	i := s.NextQuestion
	q := bank[i]

	c.appendLocked(Message{Sender: SenderAI, Text: q.Prompt, QuestionIndex: &i})
	s.SecondsRemaining = q.Seconds
	s.NextQuestion++
	s.TimeExpired = false

	c.metrics.IncrementQuestionsAsked()
	c.logger.Debug("question asked", zap.Int("index", i), zap.String("difficulty", string(q.Difficulty)))

	c.persistLocked(ctx)
	c.startCountdownLocked()
}

func (c *Controller) startCountdownLocked() {
	c.countdown = c.scheduleLocked(c.tickInterval, c.tickLocked)
}

func (c *Controller) tickLocked() {
	s := c.session
	c.countdown = nil
	if s == nil || s.Ended || s.TimeExpired || s.PendingField != FieldNone {
		return
	}

	s.SecondsRemaining--
	if s.SecondsRemaining > 0 {
		c.startCountdownLocked()
		return
	}

	s.SecondsRemaining = 0
	s.TimeExpired = true
	c.metrics.IncrementTimeouts()
	c.logger.Info("question timed out", zap.Int("index", s.NextQuestion-1))

	answer := TimeoutAnswer
	c.advanceLocked(context.Background(), &answer)
}

func (c *Controller) finalizeLocked(ctx context.Context) {
	s := c.session
	if s.Ended {
		return
	}
	c.cancelTasksLocked()

	if n := len(s.Messages); n == 0 || s.Messages[n-1].Text != prompts.InterviewDone {
		c.appendLocked(aiMessage(prompts.InterviewDone))
	}

	answered := AnsweredCount(s.Messages)
	cs := CompletedSession{
		ID:          c.newID(),
		Candidate:   s.Candidate,
		Messages:    cloneMessages(s.Messages),
		CompletedAt: c.now().UTC(),
		Score:       answered * PointsPerQuestion,
		Summary:     prompts.Summary(answered, QuestionCount),
	}
	s.Ended = true
	s.SecondsRemaining = 0
	c.completed = &cs

	c.metrics.IncrementInterviewsCompleted(cs.Score)
	c.logger.Info("interview completed", zap.String("id", cs.ID), zap.Int("score", cs.Score))

	if err := c.store.AppendCompleted(ctx, cs); err != nil {
		c.storageFailed("append_completed", err)
		// keep the slot so a later resume finalizes again
		if err := c.store.SaveInProgress(ctx, s); err != nil {
			c.logger.Error("storage write failed", zap.String("operation", "save_in_progress"), zap.Error(err))
			c.metrics.IncrementStorageFailure("save_in_progress")
		}
		return
	}
	if err := c.store.ClearInProgress(ctx); err != nil {
		c.storageFailed("clear_in_progress", err)
		return
	}
	c.warning = ""
}

func (c *Controller) awaitingLastAnswerLocked() bool {
	msgs := c.session.Messages
	return len(msgs) > 0 && asksAnyQuestion(msgs[len(msgs)-1])
}

// scheduleLocked runs fn under the lock after d unless the task is
// cancelled first.
func (c *Controller) scheduleLocked(d time.Duration, fn func()) Task {
	gen := c.gen
	return c.scheduler.AfterFunc(d, func() {
		_ = c.mutate(func() error {
			if gen != c.gen {
				return errStale
			}
			fn()
			return nil
		})
	})
}

func (c *Controller) cancelTasksLocked() {
	if c.countdown != nil {
		c.countdown.Cancel()
		c.countdown = nil
	}
	if c.pending != nil {
		c.pending.Cancel()
		c.pending = nil
	}
	c.gen++
}

func (c *Controller) appendLocked(m Message) {
	c.session.Messages = append(c.session.Messages, m)
}

func (c *Controller) persistLocked(ctx context.Context) {
	if err := c.store.SaveInProgress(ctx, c.session); err != nil {
		c.storageFailed("save_in_progress", err)
		return
	}
	c.warning = ""
}

func (c *Controller) storageFailed(op string, err error) {
	c.logger.Error("storage write failed", zap.String("operation", op), zap.Error(err))
	c.metrics.IncrementStorageFailure(op)
	c.warning = fmt.Sprintf("progress could not be saved: %v", err)
}

func acceptPrefill(d CandidateDetails) CandidateDetails {
	out := CandidateDetails{Name: strings.TrimSpace(d.Name)}
	if email := strings.TrimSpace(d.Email); validator.IsValidEmail(email) {
		out.Email = email
	}
	if phone := strings.TrimSpace(d.Phone); validator.IsValidPhone(phone) {
		out.Phone = phone
	}
	return out
}

func detailValid(f Field, v string) bool {
	switch f {
	case FieldEmail:
		return validator.IsValidEmail(v)
	case FieldPhone:
		return validator.IsValidPhone(v)
	default:
		return v != ""
	}
}

func resumeSeconds(next int) int {
	if q, ok := QuestionAt(next - 1); ok {
		return q.Seconds
	}
	return bank[0].Seconds
}

func asksAnyQuestion(m Message) bool {
	if m.Sender != SenderAI {
		return false
	}
	if m.QuestionIndex != nil {
		return true
	}
	for _, q := range bank {
		if q.Prompt == m.Text {
			return true
		}
	}
	return false
}

func aiMessage(text string) Message {
	return Message{Sender: SenderAI, Text: text}
}

func userMessage(text string) Message {
	return Message{Sender: SenderUser, Text: text}
}
