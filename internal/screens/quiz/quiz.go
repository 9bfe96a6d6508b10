package quiz

import (
	"context"
	"errors"
	"strconv"

	tea "charm.land/bubbletea/v2"

	qz "github.com/abhisek/fgstudy/internal/quiz"
	"github.com/abhisek/fgstudy/internal/screen"
	"github.com/abhisek/fgstudy/internal/ui/components"
	"github.com/abhisek/fgstudy/internal/ui/layout"
	"github.com/abhisek/fgstudy/internal/validate"
)

type phase int

const (
	phaseInput phase = iota
	phaseGenerating
	phaseAnswering
	phaseGraded
)

type field int

const (
	fieldText field = iota
	fieldCount
)

// QuizScreen drives one quiz session: text entry, generation, answering,
// grading and retakes.
type QuizScreen struct {
	session *qz.Session
	ctx     context.Context
	cancel  context.CancelFunc

	text    components.TextArea
	count   components.TextInput
	focus   field
	spinner components.Spinner

	phase     phase
	questions []qz.Question
	choices   []components.MultiChoice
	current   int

	errMsg string
	notice string
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)
var _ screen.Closer = (*QuizScreen)(nil)

// New creates a QuizScreen backed by source. opts configure the session.
func New(source qz.QuestionSource, defaultQuestions int, opts ...qz.Option) *QuizScreen {
	if defaultQuestions == 0 {
		defaultQuestions = validate.DefaultQuestions
	}

	count := components.NewTextInput("15", true, 2)
	count.SetValue(strconv.Itoa(defaultQuestions))
	count.Blur()

	ctx, cancel := context.WithCancel(context.Background())
	return &QuizScreen{
		session: qz.NewSession(source, opts...),
		ctx:     ctx,
		cancel:  cancel,
		text:    components.NewTextArea("Paste your notes or describe a topic...", validate.MinQuizTextLen, 76, 8),
		count:   count,
		spinner: components.Spinner{Label: "Generating your quiz..."},
	}
}

func (s *QuizScreen) Init() tea.Cmd {
	return s.text.Init()
}

func (s *QuizScreen) Title() string {
	return "Quiz"
}

// Close abandons any in-flight generation and discards the session.
func (s *QuizScreen) Close() {
	s.cancel()
	s.session.Discard()
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	switch s.phase {
	case phaseInput:
		return []layout.KeyHint{
			{Key: "Tab", Description: "Switch field"},
			{Key: "Ctrl+S", Description: "Generate"},
			{Key: "Esc", Description: "Back"},
		}
	case phaseAnswering:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Option"},
			{Key: "Enter", Description: "Choose"},
			{Key: "←→", Description: "Question"},
			{Key: "C", Description: "Check answers"},
		}
	case phaseGraded:
		return []layout.KeyHint{
			{Key: "←→", Description: "Question"},
			{Key: "R", Description: "Retake"},
			{Key: "N", Description: "New quiz"},
			{Key: "Y", Description: "Copy quiz"},
		}
	}
	return []layout.KeyHint{{Key: "Esc", Description: "Cancel"}}
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case quizReadyMsg:
		return s.handleQuizReady(msg)

	case components.SpinnerTickMsg:
		if s.phase != phaseGenerating {
			return s, nil
		}
		s.spinner.Advance()
		return s, components.SpinnerTick()

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.phase == phaseInput {
		return s, s.updateFocused(msg)
	}
	return s, nil
}

func (s *QuizScreen) handleQuizReady(msg quizReadyMsg) (screen.Screen, tea.Cmd) {
	if errors.Is(msg.Err, qz.ErrDiscarded) {
		return s, nil
	}
	if msg.Err != nil {
		s.phase = phaseInput
		s.errMsg = msg.Err.Error()
		return s, s.focusField(fieldText)
	}

	s.questions = s.session.Questions()
	s.choices = make([]components.MultiChoice, len(s.questions))
	for i, q := range s.questions {
		s.choices[i] = components.NewMultiChoice(q.Prompt, q.Options)
	}
	s.current = 0
	s.phase = phaseAnswering
	return s, nil
}

func (s *QuizScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()
	switch s.phase {
	case phaseInput:
		switch key {
		case "tab", "shift+tab":
			if s.focus == fieldText {
				return s, s.focusField(fieldCount)
			}
			return s, s.focusField(fieldText)
		case "ctrl+s":
			return s, s.generate()
		}
		return s, s.updateFocused(msg)

	case phaseAnswering:
		s.notice = ""
		switch key {
		case "left", "h":
			s.move(-1)
			return s, nil
		case "right", "l", "tab":
			s.move(1)
			return s, nil
		case "c":
			s.check()
			return s, nil
		}
		s.answer(msg)
		return s, nil

	case phaseGraded:
		s.notice = ""
		switch key {
		case "left", "h":
			s.move(-1)
		case "right", "l", "tab":
			s.move(1)
		case "r":
			s.retake()
		case "n":
			s.phase = phaseInput
			s.errMsg = ""
			return s, s.focusField(fieldText)
		case "y":
			s.notice = "Quiz copied to clipboard"
			return s, tea.SetClipboard(s.session.Transcript())
		}
		return s, nil
	}
	return s, nil
}

func (s *QuizScreen) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if s.focus == fieldText {
		s.text, cmd = s.text.Update(msg)
	} else {
		s.count, cmd = s.count.Update(msg)
	}
	return cmd
}

func (s *QuizScreen) focusField(f field) tea.Cmd {
	s.focus = f
	if f == fieldText {
		s.count.Blur()
		return s.text.Focus()
	}
	s.text.Blur()
	return s.count.Focus()
}

// generate validates the form and starts a Generate call.
func (s *QuizScreen) generate() tea.Cmd {
	text := s.text.Value()
	n, err := s.count.NumericValue()
	if err != nil {
		n = 0
	}
	if err := validate.QuizRequest(text, n); err != nil {
		s.errMsg = err.Error()
		var verr *validate.Error
		if errors.As(err, &verr) && verr.Field == "numberOfQuestions" {
			s.count.Submit(false)
		}
		return nil
	}

	s.errMsg = ""
	s.notice = ""
	s.questions = nil
	s.choices = nil
	s.phase = phaseGenerating

	sess, ctx := s.session, s.ctx
	return tea.Batch(components.SpinnerTick(), func() tea.Msg {
		return quizReadyMsg{Err: sess.Generate(ctx, text, n)}
	})
}

func (s *QuizScreen) move(delta int) {
	next := s.current + delta
	if next >= 0 && next < len(s.choices) {
		s.current = next
	}
}

// answer forwards a key to the current question and records a new choice.
func (s *QuizScreen) answer(msg tea.KeyMsg) {
	if len(s.choices) == 0 {
		return
	}
	before := s.choices[s.current].Chosen
	s.choices[s.current], _ = s.choices[s.current].Update(msg)

	mc := s.choices[s.current]
	option, ok := mc.ChosenOption()
	if !ok || mc.Chosen == before {
		return
	}
	if err := s.session.SelectAnswer(s.current, option); err != nil {
		s.errMsg = err.Error()
		s.choices[s.current].Chosen = before
		return
	}
	s.errMsg = ""
	s.move(1)
}

// check grades the attempt once every question has an answer.
func (s *QuizScreen) check() {
	if !s.session.AllAnswered() {
		s.notice = "Answer every question before checking"
		return
	}
	if err := s.session.CheckAnswers(); err != nil {
		s.errMsg = err.Error()
		return
	}
	for i := range s.choices {
		s.choices[i].Marks = s.session.Feedback(i)
	}
	s.current = 0
	s.phase = phaseGraded
}

func (s *QuizScreen) retake() {
	if err := s.session.Retake(); err != nil {
		s.errMsg = err.Error()
		return
	}
	for i := range s.choices {
		s.choices[i].Marks = nil
		s.choices[i].Chosen = -1
		s.choices[i].Cursor = 0
	}
	s.current = 0
	s.phase = phaseAnswering
}
