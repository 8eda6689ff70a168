package prompts

import (
	"fmt"
	"strings"
)

// Fixed interviewer lines.
const (
	InvalidEmail     = "That doesn't look like a valid email. Please provide a correct email address."
	InvalidPhone     = "That doesn't look like a valid 10-digit phone number. Please try again."
	InvalidName      = "Please tell me your full name."
	AskName          = "Thank you. What is your full name?"
	AskEmail         = "Got it. What is your email address?"
	AskPhone         = "Perfect. And finally, what is your phone number?"
	DetailsCollected = "Great, I have all your details. Let's begin the interview."
	InterviewDone    = "Thank you for your answers. The interview is now complete."
)

// MissingDetail is the opening line when the session starts without one of
// the candidate fields.
func MissingDetail(field string) string {
	return fmt.Sprintf("It seems I'm missing some information. What is your full %s?", field)
}

// AskDetail returns the prompt for the given field, or "" for an unknown one.
func AskDetail(field string) string {
	switch field {
	case "name":
		return AskName
	case "email":
		return AskEmail
	case "phone":
		return AskPhone
	default:
		return ""
	}
}

// InvalidDetail returns the re-prompt naming the format the field requires.
func InvalidDetail(field string) string {
	switch field {
	case "email":
		return InvalidEmail
	case "phone":
		return InvalidPhone
	default:
		return InvalidName
	}
}

// Summary builds the fixed-template summary stored with a completed interview.
func Summary(answered, total int) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("The candidate answered %d out of %d questions before the time ran out.", answered, total))
	b.WriteString(" Further review is recommended.")
	return b.String()
}
