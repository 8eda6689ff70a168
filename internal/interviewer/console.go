package interviewer

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"go.uber.org/zap"

	"interview-assistant/internal/interview"
)

const maxAnswerLength = 4000

// countdown marks at which the remaining time is announced
var reminders = map[int]bool{30: true, 10: true, 5: true}

// SavedProgress reads the in-progress slot.
type SavedProgress interface {
	LoadInProgress(ctx context.Context) *interview.Session
}

// Console runs an interview on a terminal. Controller snapshots are
// rendered through Render, which the controller's listener should call.
type Console struct {
	controller *interview.Controller
	progress   SavedProgress
	in         io.Reader
	logger     *zap.Logger

	mu        sync.Mutex
	out       io.Writer
	printed   int
	reminded  int
	announced bool
	done      chan struct{}
	finish    sync.Once
}

func New(controller *interview.Controller, progress SavedProgress, in io.Reader, out io.Writer, logger *zap.Logger) *Console {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Console{
		controller: controller,
		progress:   progress,
		in:         in,
		out:        out,
		logger:     logger,
		done:       make(chan struct{}),
	}
}

// Render prints transcript entries added since the last call and
// announces the remaining time at a few marks of the countdown.
func (c *Console) Render(s interview.Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(s.Messages) < c.printed {
		c.printed = 0
		c.announced = false
	}
	fresh := s.Messages[c.printed:]
	for _, m := range fresh {
		c.printMessage(m)
	}
	c.printed = len(s.Messages)

	if s.State == interview.StateAwaitingAnswer && len(fresh) == 0 &&
		reminders[s.SecondsRemaining] && c.reminded != s.SecondsRemaining {
		fmt.Fprintf(c.out, "(%d seconds left)\n", s.SecondsRemaining)
	}
	c.reminded = s.SecondsRemaining

	if s.Warning != "" {
		fmt.Fprintf(c.out, "! %s\n", s.Warning)
	}
	if s.State == interview.StateEnded && s.Completed != nil && !c.announced {
		c.announced = true
		fmt.Fprintf(c.out, "\nInterview complete. Score: %d/%d\n%s\n", s.Completed.Score, interview.MaxScore, s.Completed.Summary)
		c.finish.Do(func() { close(c.done) })
	}
}

func (c *Console) printMessage(m interview.Message) {
	if m.Sender == interview.SenderUser {
		if m.Text == interview.TimeoutAnswer {
			fmt.Fprintf(c.out, "You: %s\n", m.Text)
		}
		return
	}
	if m.QuestionIndex != nil {
		q, _ := interview.QuestionAt(*m.QuestionIndex)
		fmt.Fprintf(c.out, "\nQuestion %d/%d (%s, %ds): %s\n", *m.QuestionIndex+1, interview.QuestionCount, q.Difficulty, q.Seconds, m.Text)
		return
	}
	fmt.Fprintf(c.out, "AI: %s\n", m.Text)
}

func (c *Console) println(a ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, a...)
}

func (c *Console) printf(format string, a ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, format, a...)
}

// Run starts or resumes an interview and feeds it lines from the input
// until the interview ends, /quit is entered or the input closes. An
// interview that ends on a timeout stops Run without waiting for input.
func (c *Console) Run(ctx context.Context, prefill interview.CandidateDetails) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	// read returns ok=false once the input closes or the interview ends
	read := func() (string, bool, error) {
		select {
		case <-ctx.Done():
			return "", false, ctx.Err()
		case <-c.done:
			return "", false, nil
		case line, ok := <-lines:
			return strings.TrimSuffix(line, "\r"), ok, nil
		}
	}

	if err := c.begin(ctx, prefill, read); err != nil {
		return err
	}

	for {
		line, ok, err := read()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if command := strings.TrimSpace(line); strings.HasPrefix(command, "/") {
			quit, err := c.handleCommand(ctx, command, prefill)
			if err != nil || quit {
				return err
			}
			continue
		}

		if c.handleInput(ctx, line) {
			return nil
		}
	}
}

func (c *Console) begin(ctx context.Context, prefill interview.CandidateDetails, read func() (string, bool, error)) error {
	if saved := c.progress.LoadInProgress(ctx); saved != nil {
		c.printf("An unfinished interview was found (%d messages). Resume it? [y/n] ", len(saved.Messages))
		answer, ok, err := read()
		if err != nil {
			return err
		}
		if ok && strings.HasPrefix(strings.ToLower(strings.TrimSpace(answer)), "y") {
			return c.controller.Resume(ctx, saved)
		}
		if err := c.controller.Restart(ctx); err != nil {
			return err
		}
	}
	return c.controller.Start(ctx, prefill)
}

// handleCommand reports whether the console should exit.
func (c *Console) handleCommand(ctx context.Context, command string, prefill interview.CandidateDetails) (bool, error) {
	switch command {
	case "/help":
		c.println("Commands:\n/status - show progress\n/restart - discard this interview and start again\n/quit - leave, keeping unfinished progress\n/help - show this message")
	case "/status":
		c.printStatus()
	case "/restart":
		if err := c.controller.Restart(ctx); err != nil {
			return false, err
		}
		c.println("Interview reset.")
		if err := c.controller.Start(ctx, prefill); err != nil {
			return false, err
		}
	case "/quit":
		c.controller.Close()
		if c.controller.State() != interview.StateEnded {
			c.println("Progress saved. Run again to resume.")
		}
		return true, nil
	default:
		c.println("Unknown command. Use /help for the list of commands.")
	}
	return false, nil
}

func (c *Console) printStatus() {
	s := c.controller.Snapshot()
	switch s.State {
	case interview.StateIdle:
		c.println("No interview in progress.")
	case interview.StateCollectingDetails:
		c.printf("Collecting your details: waiting for %s.\n", s.PendingField)
	case interview.StateAwaitingAnswer:
		c.printf("Question %d/%d, %d seconds left.\n", s.NextQuestion, interview.QuestionCount, s.SecondsRemaining)
	case interview.StateEnded:
		if s.Completed != nil {
			c.printf("Interview complete. Score: %d/%d\n", s.Completed.Score, interview.MaxScore)
		} else {
			c.println("Interview complete.")
		}
	}
}

// handleInput reports whether the interview has ended.
func (c *Console) handleInput(ctx context.Context, line string) bool {
	if err := validateUserInput(line); err != nil {
		c.println(err.Error())
		return false
	}

	err := c.controller.Submit(ctx, line)
	switch {
	case err == nil:
	case errors.Is(err, interview.ErrEmptyAnswer):
		c.println("Please give an answer.")
	case errors.Is(err, interview.ErrQuestionPending):
		c.println("The next question is on its way.")
	case errors.Is(err, interview.ErrInterviewEnded):
		c.println("The interview is over. Type /restart to begin again or /quit to leave.")
	default:
		c.logger.Error("submit failed", zap.Error(err))
		c.println("Something went wrong: " + err.Error())
	}
	return c.controller.State() == interview.StateEnded
}

func validateUserInput(text string) error {
	if len(text) > maxAnswerLength {
		return fmt.Errorf("message is too long (at most %d characters)", maxAnswerLength)
	}
	return nil
}
