package interview

import (
	"encoding/json"
	"time"
)

// Sender identifies who wrote a transcript entry.
type Sender string

const (
	SenderAI   Sender = "ai"
	SenderUser Sender = "user"
)

// Message is one transcript entry. Question entries carry the bank index of
// the question they ask.
type Message struct {
	Sender        Sender `json:"sender"`
	Text          string `json:"text"`
	QuestionIndex *int   `json:"questionIndex,omitempty"`
}

// AsksQuestion reports whether m is the AI entry that asked question i.
func (m Message) AsksQuestion(i int) bool {
	return m.Sender == SenderAI && m.QuestionIndex != nil && *m.QuestionIndex == i
}

// Field names a candidate detail collected before questioning.
type Field string

const (
	FieldNone  Field = ""
	FieldName  Field = "name"
	FieldEmail Field = "email"
	FieldPhone Field = "phone"
)

// Fields lists the candidate details in collection order.
var Fields = []Field{FieldName, FieldEmail, FieldPhone}

// Valid reports whether f is one of the collectable fields.
func (f Field) Valid() bool {
	return f == FieldName || f == FieldEmail || f == FieldPhone
}

// CandidateDetails holds the candidate's contact details. Empty means absent.
type CandidateDetails struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Get returns the value of field f.
func (d CandidateDetails) Get(f Field) string {
	switch f {
	case FieldName:
		return d.Name
	case FieldEmail:
		return d.Email
	case FieldPhone:
		return d.Phone
	default:
		return ""
	}
}

func (d *CandidateDetails) set(f Field, v string) {
	switch f {
	case FieldName:
		d.Name = v
	case FieldEmail:
		d.Email = v
	case FieldPhone:
		d.Phone = v
	}
}

// NextMissing returns the first absent field in collection order, or FieldNone.
func (d CandidateDetails) NextMissing() Field {
	for _, f := range Fields {
		if d.Get(f) == "" {
			return f
		}
	}
	return FieldNone
}

// MarshalJSON writes absent fields as null.
func (d CandidateDetails) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name  *string `json:"name"`
		Email *string `json:"email"`
		Phone *string `json:"phone"`
	}{optional(d.Name), optional(d.Email), optional(d.Phone)})
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Session is the mutable state of the one in-progress interview.
type Session struct {
	Messages         []Message
	NextQuestion     int
	Candidate        CandidateDetails
	PendingField     Field
	SecondsRemaining int
	TimeExpired      bool
	Ended            bool
}

// Clone returns a deep copy of s.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.Messages = cloneMessages(s.Messages)
	return &c
}

func cloneMessages(msgs []Message) []Message {
	out := make([]Message, len(msgs))
	for i, m := range msgs {
		out[i] = m
		if m.QuestionIndex != nil {
			idx := *m.QuestionIndex
			out[i].QuestionIndex = &idx
		}
	}
	return out
}

// CompletedSession is an archived, scored interview.
type CompletedSession struct {
	ID          string           `json:"id"`
	Candidate   CandidateDetails `json:"candidateDetails"`
	Messages    []Message        `json:"messages"`
	CompletedAt time.Time        `json:"completedAt"`
	Score       int              `json:"score"`
	Summary     string           `json:"summary"`
}

// State is the controller's position in the interview lifecycle.
type State string

const (
	StateIdle              State = "idle"
	StateCollectingDetails State = "collecting_details"
	StateAwaitingAnswer    State = "awaiting_answer"
	StateEnded             State = "ended"
)

// Snapshot is a read-only view of the controller for presentation layers.
type Snapshot struct {
	State            State             `json:"state"`
	Messages         []Message         `json:"messages"`
	Candidate        CandidateDetails  `json:"candidateDetails"`
	PendingField     Field             `json:"detailToCollect,omitempty"`
	NextQuestion     int               `json:"questionNumber"`
	Question         *Question         `json:"question,omitempty"`
	SecondsRemaining int               `json:"secondsRemaining"`
	TimeExpired      bool              `json:"timeExpired"`
	QuestionPending  bool              `json:"questionPending"`
	Completed        *CompletedSession `json:"completed,omitempty"`
	Warning          string            `json:"warning,omitempty"`
}
