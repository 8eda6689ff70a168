package extractor

import (
	"context"
	"errors"
	"sync"

	"interview-assistant/internal/interview"
)

// ErrSuperseded is returned for an extraction replaced by a newer upload.
var ErrSuperseded = errors.New("extraction superseded by a newer upload")

// Uploads runs one extraction at a time. Starting a new one cancels the
// previous run and discards its result.
type Uploads struct {
	svc *Service

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
	latest interview.CandidateDetails
}

func NewUploads(svc *Service) *Uploads {
	return &Uploads{svc: svc}
}

// Run extracts details from data and records them as the latest result.
func (u *Uploads) Run(ctx context.Context, data []byte) (interview.CandidateDetails, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	u.mu.Lock()
	u.seq++
	seq := u.seq
	if u.cancel != nil {
		u.cancel()
	}
	u.cancel = cancel
	u.mu.Unlock()

	details := u.svc.Extract(ctx, data)

	u.mu.Lock()
	defer u.mu.Unlock()
	if seq != u.seq {
		return interview.CandidateDetails{}, ErrSuperseded
	}
	u.cancel = nil
	u.latest = details
	return details, nil
}

// Latest returns the details of the most recent finished extraction.
func (u *Uploads) Latest() interview.CandidateDetails {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.latest
}

// Reset forgets the latest result.
func (u *Uploads) Reset() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.latest = interview.CandidateDetails{}
}
