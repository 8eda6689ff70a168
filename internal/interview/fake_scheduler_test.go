package interview

import (
	"sync"
	"time"
)

// FakeScheduler is a manual clock for driving countdowns in tests.
type FakeScheduler struct {
	// IgnoreCancel keeps cancelled tasks runnable, as if their timer had
	// already fired when Cancel was called.
	IgnoreCancel bool

	mu    sync.Mutex
	now   time.Time
	seq   int
	tasks []*fakeTask
}

type fakeTask struct {
	s         *FakeScheduler
	at        time.Time
	seq       int
	fn        func()
	cancelled bool
}

func (t *fakeTask) Cancel() {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if !t.s.IgnoreCancel {
		t.cancelled = true
	}
}

func NewFakeScheduler() *FakeScheduler {
	return &FakeScheduler{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (s *FakeScheduler) AfterFunc(d time.Duration, fn func()) Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	t := &fakeTask{s: s, at: s.now.Add(d), seq: s.seq, fn: fn}
	s.tasks = append(s.tasks, t)
	return t
}

// Now returns the fake clock's current time.
func (s *FakeScheduler) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Advance moves the clock forward by d, running due tasks in order,
// including tasks scheduled by the callbacks themselves.
func (s *FakeScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now.Add(d)
	s.mu.Unlock()

	for {
		s.mu.Lock()
		next := s.popDueLocked(target)
		if next == nil {
			s.now = target
			s.mu.Unlock()
			return
		}
		s.now = next.at
		s.mu.Unlock()

		next.fn()
	}
}

// Pending returns the number of live scheduled tasks.
func (s *FakeScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.tasks {
		if !t.cancelled {
			n++
		}
	}
	return n
}

func (s *FakeScheduler) popDueLocked(target time.Time) *fakeTask {
	best := -1
	live := s.tasks[:0]
	for _, t := range s.tasks {
		if !t.cancelled {
			live = append(live, t)
		}
	}
	s.tasks = live

	for i, t := range s.tasks {
		if t.at.After(target) {
			continue
		}
		if best < 0 || t.at.Before(s.tasks[best].at) || (t.at.Equal(s.tasks[best].at) && t.seq < s.tasks[best].seq) {
			best = i
		}
	}
	if best < 0 {
		return nil
	}
	t := s.tasks[best]
	s.tasks = append(s.tasks[:best], s.tasks[best+1:]...)
	return t
}
