package validate

import (
	"fmt"
	"unicode/utf8"
)

// Minimum input lengths per flow, counted in characters.
const (
	MinNotesLen    = 50
	MinTopicLen    = 3
	MinQuizTextLen = 100
)

// Question count bounds for quiz generation.
const (
	MinQuestions     = 5
	MaxQuestions     = 40
	DefaultQuestions = 15
)

// Error reports input that fails a static precondition. It is always
// raised before any state changes.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// MinLength fails when s has fewer than min characters.
func MinLength(field, s string, min int) error {
	if utf8.RuneCountInString(s) < min {
		return &Error{
			Field:   field,
			Message: fmt.Sprintf("must be at least %d characters", min),
		}
	}
	return nil
}

// Notes checks text submitted for summarization.
func Notes(notes string) error {
	if utf8.RuneCountInString(notes) < MinNotesLen {
		return &Error{
			Field:   "notes",
			Message: fmt.Sprintf("please enter at least %d characters for a good summary", MinNotesLen),
		}
	}
	return nil
}

// Topic checks a topic submitted for explanation.
func Topic(topic string) error {
	return MinLength("topic", topic, MinTopicLen)
}

// QuizRequest checks the text and question count of a quiz generation request.
func QuizRequest(text string, count int) error {
	if utf8.RuneCountInString(text) < MinQuizTextLen {
		return &Error{
			Field:   "text",
			Message: fmt.Sprintf("please enter at least %d characters to generate a quiz", MinQuizTextLen),
		}
	}
	if count < MinQuestions || count > MaxQuestions {
		return &Error{
			Field:   "numberOfQuestions",
			Message: fmt.Sprintf("must be between %d and %d", MinQuestions, MaxQuestions),
		}
	}
	return nil
}
