package interview

import "errors"

var (
	ErrNotStarted      = errors.New("no interview in progress")
	ErrAlreadyStarted  = errors.New("an interview is already in progress")
	ErrInterviewEnded  = errors.New("interview has ended")
	ErrEmptyAnswer     = errors.New("answer is empty")
	ErrQuestionPending = errors.New("next question is about to be asked")
	ErrNotFinished     = errors.New("interview has unanswered questions")
)
