package storage

import (
	"interview-assistant/internal/interview"
)

// Ключи двух сохраняемых значений
const (
	KeyInProgress = "inProgressInterview"
	KeyCompleted  = "completedInterviews"
)

// inProgressRecord формат хранения незавершенного интервью
type inProgressRecord struct {
	Messages         []interview.Message        `json:"messages"`
	QuestionNumber   int                        `json:"questionNumber"`
	CandidateDetails interview.CandidateDetails `json:"candidateDetails"`
	DetailToCollect  *string                    `json:"detailToCollect"`
}

func newInProgressRecord(s *interview.Session) inProgressRecord {
	rec := inProgressRecord{
		Messages:         s.Messages,
		QuestionNumber:   s.NextQuestion,
		CandidateDetails: s.Candidate,
	}
	if rec.Messages == nil {
		rec.Messages = []interview.Message{}
	}
	if s.PendingField != interview.FieldNone {
		f := string(s.PendingField)
		rec.DetailToCollect = &f
	}
	return rec
}

func (r inProgressRecord) validate() error {
	if r.QuestionNumber < 0 || r.QuestionNumber > interview.QuestionCount {
		return ErrMalformedRecord
	}
	if r.DetailToCollect != nil && !interview.Field(*r.DetailToCollect).Valid() {
		return ErrMalformedRecord
	}
	for _, m := range r.Messages {
		if m.Sender != interview.SenderAI && m.Sender != interview.SenderUser {
			return ErrMalformedRecord
		}
		if m.QuestionIndex != nil {
			if _, ok := interview.QuestionAt(*m.QuestionIndex); !ok {
				return ErrMalformedRecord
			}
		}
	}
	return nil
}

func (r inProgressRecord) session() *interview.Session {
	s := &interview.Session{
		Messages:     r.Messages,
		NextQuestion: r.QuestionNumber,
		Candidate:    r.CandidateDetails,
	}
	if s.Messages == nil {
		s.Messages = []interview.Message{}
	}
	if r.DetailToCollect != nil {
		s.PendingField = interview.Field(*r.DetailToCollect)
	}
	return s
}
