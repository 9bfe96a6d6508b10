package quiz

import (
	"context"
	"fmt"
	"time"

	"github.com/abhisek/fgstudy/internal/validate"
)

// Question is a single multiple-choice question.
type Question struct {
	Prompt        string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
}

// HasOption reports whether option is one of the question's options.
func (q Question) HasOption(option string) bool {
	for _, o := range q.Options {
		if o == option {
			return true
		}
	}
	return false
}

// Check verifies the question invariants: a prompt, at least two unique
// options, and a correct answer taken from the options.
func (q Question) Check() error {
	if q.Prompt == "" {
		return fmt.Errorf("question prompt is empty")
	}
	if len(q.Options) < 2 {
		return fmt.Errorf("question %q has %d options, need at least 2", q.Prompt, len(q.Options))
	}
	seen := make(map[string]bool, len(q.Options))
	for _, o := range q.Options {
		if seen[o] {
			return fmt.Errorf("question %q repeats option %q", q.Prompt, o)
		}
		seen[o] = true
	}
	if !seen[q.CorrectAnswer] {
		return fmt.Errorf("question %q: correct answer %q is not among the options", q.Prompt, q.CorrectAnswer)
	}
	return nil
}

func cloneQuestions(qs []Question) []Question {
	out := make([]Question, len(qs))
	for i, q := range qs {
		out[i] = Question{
			Prompt:        q.Prompt,
			Options:       append([]string(nil), q.Options...),
			CorrectAnswer: q.CorrectAnswer,
		}
	}
	return out
}

// QuestionSource produces an ordered quiz for the given text.
// It is a single fallible call; timeouts and retries are its own concern.
type QuestionSource interface {
	Questions(ctx context.Context, text string, count int) ([]Question, error)
}

// QuestionSourceFunc adapts a function to QuestionSource.
type QuestionSourceFunc func(ctx context.Context, text string, count int) ([]Question, error)

func (f QuestionSourceFunc) Questions(ctx context.Context, text string, count int) ([]Question, error) {
	return f(ctx, text, count)
}

// State is the lifecycle phase of a session.
type State int

const (
	StateIdle      State = iota // No quiz set
	StateAnswering              // Quiz set present, not yet graded
	StateGraded                 // Quiz set present, answers checked
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAnswering:
		return "answering"
	case StateGraded:
		return "graded"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// MarshalText encodes the state as its tag name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Clock bounds one graded attempt.
type Clock struct {
	StartedAt time.Time
	EndedAt   *time.Time
}

// ElapsedSeconds returns whole seconds between start and end, or 0 when the
// attempt has not ended.
func (c Clock) ElapsedSeconds() int {
	if c.EndedAt == nil {
		return 0
	}
	d := c.EndedAt.Sub(c.StartedAt)
	if d < 0 {
		return 0
	}
	return int(d / time.Second)
}

// FormatElapsed renders seconds as "42s" below a minute and "1m 30s" above.
func FormatElapsed(seconds int) string {
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	return fmt.Sprintf("%dm %ds", seconds/60, seconds%60)
}

// ScoreOf counts questions whose selection equals the correct answer.
// Unanswered questions never match.
func ScoreOf(set []Question, selections map[int]string) int {
	score := 0
	for i, q := range set {
		if sel, ok := selections[i]; ok && sel == q.CorrectAnswer {
			score++
		}
	}
	return score
}

// Mark is the grading feedback for one option.
type Mark int

const (
	MarkNone    Mark = iota
	MarkCorrect      // The correct option
	MarkWrong        // A selected option that is not correct
)

func (m Mark) String() string {
	switch m {
	case MarkCorrect:
		return "correct"
	case MarkWrong:
		return "wrong"
	default:
		return "none"
	}
}

// MarshalText encodes the mark as its name.
func (m Mark) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// ValidationError is returned for rejected input. See validate.Error.
type ValidationError = validate.Error
