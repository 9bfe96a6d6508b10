package quiz

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/fgstudy/internal/validate"
)

// Action names a session transition reported to an Observer.
type Action string

const (
	ActionGenerated Action = "generated"
	ActionGraded    Action = "graded"
	ActionRetaken   Action = "retaken"
)

// Event describes a completed transition.
type Event struct {
	SessionID      string
	Action         Action
	QuestionCount  int
	Score          int
	ElapsedSeconds int
}

// Observer is notified after each successful transition. It runs outside
// the session lock and may call back into the session.
type Observer func(Event)

// Option configures a Session.
type Option func(*Session)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithObserver registers a transition observer.
func WithObserver(o Observer) Option {
	return func(s *Session) { s.observer = o }
}

// WithID sets the session ID instead of generating a UUID.
func WithID(id string) Option {
	return func(s *Session) { s.id = id }
}

// Session owns one quiz attempt from generation through grading and retake.
// The four actions Generate, SelectAnswer, CheckAnswers and Retake are its
// only mutators.
type Session struct {
	id       string
	source   QuestionSource
	now      func() time.Time
	observer Observer

	mu         sync.Mutex
	state      State
	set        []Question
	selections map[int]string
	clock      Clock
	installs   uint64
	discarded  bool
}

// NewSession creates an idle session backed by source.
func NewSession(source QuestionSource, opts ...Option) *Session {
	s := &Session{
		source:     source,
		now:        time.Now,
		selections: make(map[int]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.id == "" {
		s.id = uuid.NewString()
	}
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Generate validates the request, asks the source for questions and installs
// them. The session sits in StateIdle while the source call is in flight.
// Overlapping calls are not serialized: whichever successful response
// resolves last is installed. A failure leaves a quiz installed by another
// call in place. Results that resolve after Discard are dropped and
// ErrDiscarded is returned.
func (s *Session) Generate(ctx context.Context, text string, count int) error {
	if err := validate.QuizRequest(text, count); err != nil {
		return err
	}

	s.mu.Lock()
	if s.discarded {
		s.mu.Unlock()
		return ErrDiscarded
	}
	installs := s.installs
	s.resetLocked()
	s.mu.Unlock()

	questions, err := s.source.Questions(ctx, text, count)
	if err == nil {
		err = checkQuestions(questions)
	}

	s.mu.Lock()
	if s.discarded {
		s.mu.Unlock()
		return ErrDiscarded
	}
	if err != nil {
		if s.installs == installs {
			s.resetLocked()
		}
		s.mu.Unlock()
		return &UpstreamError{Err: err}
	}

	s.installs++
	s.set = cloneQuestions(questions)
	s.selections = make(map[int]string)
	s.clock = Clock{StartedAt: s.now()}
	s.state = StateAnswering
	ev := Event{SessionID: s.id, Action: ActionGenerated, QuestionCount: len(s.set)}
	s.mu.Unlock()

	s.notify(ev)
	return nil
}

func checkQuestions(qs []Question) error {
	if len(qs) == 0 {
		return errors.New("no questions returned")
	}
	for i, q := range qs {
		if err := q.Check(); err != nil {
			return fmt.Errorf("question %d: %w", i+1, err)
		}
	}
	return nil
}

// SelectAnswer records option as the answer for question index, replacing
// any earlier choice. Only valid while answering.
func (s *Session) SelectAnswer(index int, option string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.discarded {
		return ErrDiscarded
	}
	if s.state != StateAnswering {
		return stateError("select answer", s.state)
	}
	if index < 0 || index >= len(s.set) {
		return &validate.Error{
			Field:   "questionIndex",
			Message: fmt.Sprintf("must be between 0 and %d", len(s.set)-1),
		}
	}
	if !s.set[index].HasOption(option) {
		return &validate.Error{
			Field:   "option",
			Message: fmt.Sprintf("%q is not an option of question %d", option, index+1),
		}
	}

	s.selections[index] = option
	return nil
}

// CheckAnswers stops the clock and grades the attempt. Unanswered questions
// count as incorrect.
func (s *Session) CheckAnswers() error {
	s.mu.Lock()
	if s.discarded {
		s.mu.Unlock()
		return ErrDiscarded
	}
	if s.state != StateAnswering {
		st := s.state
		s.mu.Unlock()
		return stateError("check answers", st)
	}

	end := s.now()
	s.clock.EndedAt = &end
	s.state = StateGraded
	ev := Event{
		SessionID:      s.id,
		Action:         ActionGraded,
		QuestionCount:  len(s.set),
		Score:          ScoreOf(s.set, s.selections),
		ElapsedSeconds: s.clock.ElapsedSeconds(),
	}
	s.mu.Unlock()

	s.notify(ev)
	return nil
}

// Retake clears the answers and the end time of a graded attempt. The quiz
// and the start time are kept.
func (s *Session) Retake() error {
	s.mu.Lock()
	if s.discarded {
		s.mu.Unlock()
		return ErrDiscarded
	}
	if s.state != StateGraded {
		st := s.state
		s.mu.Unlock()
		return stateError("retake", st)
	}

	s.selections = make(map[int]string)
	s.clock.EndedAt = nil
	s.state = StateAnswering
	ev := Event{SessionID: s.id, Action: ActionRetaken, QuestionCount: len(s.set)}
	s.mu.Unlock()

	s.notify(ev)
	return nil
}

// Discard tears the session down. Pending Generate results are ignored and
// every later action returns ErrDiscarded.
func (s *Session) Discard() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.discarded = true
	s.resetLocked()
}

// Discarded reports whether Discard has been called.
func (s *Session) Discarded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.discarded
}

func (s *Session) resetLocked() {
	s.state = StateIdle
	s.set = nil
	s.selections = make(map[int]string)
	s.clock = Clock{}
}

func (s *Session) notify(ev Event) {
	if s.observer != nil {
		s.observer(ev)
	}
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Questions returns a copy of the installed quiz, or nil when idle.
func (s *Session) Questions() []Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.set == nil {
		return nil
	}
	return cloneQuestions(s.set)
}

// Selections returns a copy of the current answers.
func (s *Session) Selections() map[int]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copySelections(s.selections)
}

// Clock returns a copy of the session clock.
func (s *Session) Clock() Clock {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyClock(s.clock)
}

// Score is recomputed from the quiz and the current answers on every call.
func (s *Session) Score() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ScoreOf(s.set, s.selections)
}

// ElapsedSeconds returns the graded attempt's duration in whole seconds, or
// 0 before grading.
func (s *Session) ElapsedSeconds() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clock.ElapsedSeconds()
}

// TimeTaken formats ElapsedSeconds for display.
func (s *Session) TimeTaken() string {
	return FormatElapsed(s.ElapsedSeconds())
}

// AllAnswered reports whether every question has a selection. Presentation
// layers use it to gate CheckAnswers.
func (s *Session) AllAnswered() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set != nil && len(s.selections) == len(s.set)
}

// Feedback returns one mark per option of question index. All marks are
// MarkNone until the session is graded.
func (s *Session) Feedback(index int) []Mark {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.set) {
		return nil
	}
	return feedbackLocked(s.state, s.set[index], s.selections[index])
}

func feedbackLocked(state State, q Question, selected string) []Mark {
	marks := make([]Mark, len(q.Options))
	if state != StateGraded {
		return marks
	}
	for i, o := range q.Options {
		switch {
		case o == q.CorrectAnswer:
			marks[i] = MarkCorrect
		case o == selected:
			marks[i] = MarkWrong
		}
	}
	return marks
}

// Transcript renders the quiz as plain text for copying.
func (s *Session) Transcript() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Transcript(s.set)
}

// Transcript renders questions with their options and correct answers.
func Transcript(set []Question) string {
	blocks := make([]string, len(set))
	for i, q := range set {
		var b strings.Builder
		fmt.Fprintf(&b, "%d. %s\n", i+1, q.Prompt)
		for _, o := range q.Options {
			fmt.Fprintf(&b, "   - %s\n", o)
		}
		fmt.Fprintf(&b, "Correct Answer: %s\n", q.CorrectAnswer)
		blocks[i] = b.String()
	}
	return strings.Join(blocks, "\n")
}

func copySelections(m map[int]string) map[int]string {
	out := make(map[int]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyClock(c Clock) Clock {
	out := Clock{StartedAt: c.StartedAt}
	if c.EndedAt != nil {
		end := *c.EndedAt
		out.EndedAt = &end
	}
	return out
}
