package quiz

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var notes = strings.Repeat("Photosynthesis converts light energy into chemical energy. ", 3)

type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

// makeQuestions builds n questions whose correct answer cycles a, b, c, d.
func makeQuestions(n int, tag string) []Question {
	opts := []string{"a", "b", "c", "d"}
	qs := make([]Question, n)
	for i := range qs {
		qs[i] = Question{
			Prompt:        fmt.Sprintf("%s question %d", tag, i+1),
			Options:       append([]string(nil), opts...),
			CorrectAnswer: opts[i%len(opts)],
		}
	}
	return qs
}

func staticSource(qs []Question) QuestionSource {
	return QuestionSourceFunc(func(context.Context, string, int) ([]Question, error) {
		return qs, nil
	})
}

func countSource() QuestionSource {
	return QuestionSourceFunc(func(_ context.Context, _ string, n int) ([]Question, error) {
		return makeQuestions(n, "gen"), nil
	})
}

func answeringSession(t *testing.T, n int, clock *fakeClock) *Session {
	t.Helper()
	s := NewSession(countSource(), WithClock(clock.Now))
	require.NoError(t, s.Generate(context.Background(), notes, n))
	require.Equal(t, StateAnswering, s.State())
	return s
}

func TestNewSession_StartsIdle(t *testing.T) {
	s := NewSession(countSource())
	assert.Equal(t, StateIdle, s.State())
	assert.NotEmpty(t, s.ID())
	assert.Nil(t, s.Questions())
	assert.Empty(t, s.Selections())
	assert.False(t, s.AllAnswered())
}

func TestGenerate_ShortTextRejected(t *testing.T) {
	var called bool
	src := QuestionSourceFunc(func(context.Context, string, int) ([]Question, error) {
		called = true
		return nil, nil
	})
	s := NewSession(src)

	err := s.Generate(context.Background(), "short", 15)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "text", verr.Field)
	assert.Equal(t, StateIdle, s.State())
	assert.False(t, called, "source must not be called on invalid input")
}

func TestGenerate_QuestionCountBounds(t *testing.T) {
	s := NewSession(countSource())
	for _, n := range []int{0, 4, 41, 100} {
		err := s.Generate(context.Background(), notes, n)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr, "count %d", n)
		assert.Equal(t, "numberOfQuestions", verr.Field)
	}
	for _, n := range []int{5, 40} {
		require.NoError(t, s.Generate(context.Background(), notes, n))
		assert.Len(t, s.Questions(), n)
	}
}

func TestGenerate_ValidationLeavesGradedStateUntouched(t *testing.T) {
	clock := newFakeClock()
	s := answeringSession(t, 5, clock)
	require.NoError(t, s.SelectAnswer(0, "a"))
	require.NoError(t, s.CheckAnswers())

	err := s.Generate(context.Background(), "too short", 5)
	require.Error(t, err)
	assert.Equal(t, StateGraded, s.State())
	assert.Equal(t, map[int]string{0: "a"}, s.Selections())
}

func TestGenerate_SetsStartTime(t *testing.T) {
	clock := newFakeClock()
	s := answeringSession(t, 5, clock)

	c := s.Clock()
	assert.Equal(t, clock.Now(), c.StartedAt)
	assert.Nil(t, c.EndedAt)
}

func TestGenerate_UpstreamFailure(t *testing.T) {
	boom := errors.New("model unavailable")
	src := QuestionSourceFunc(func(context.Context, string, int) ([]Question, error) {
		return nil, boom
	})
	s := NewSession(src)

	err := s.Generate(context.Background(), notes, 5)

	var uerr *UpstreamError
	require.ErrorAs(t, err, &uerr)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, StateIdle, s.State())
	assert.Nil(t, s.Questions())
}

func TestGenerate_FailureAfterSuccessReturnsToIdle(t *testing.T) {
	var calls atomic.Int32
	src := QuestionSourceFunc(func(_ context.Context, _ string, n int) ([]Question, error) {
		if calls.Add(1) == 1 {
			return makeQuestions(n, "first"), nil
		}
		return nil, errors.New("down")
	})
	s := NewSession(src)
	require.NoError(t, s.Generate(context.Background(), notes, 5))

	err := s.Generate(context.Background(), notes, 5)

	var uerr *UpstreamError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, StateIdle, s.State())
	assert.Nil(t, s.Questions(), "no partial quiz may remain installed")
}

func TestGenerate_MalformedQuestionsAreUpstreamErrors(t *testing.T) {
	tests := []struct {
		name string
		qs   []Question
	}{
		{"empty", nil},
		{"answer not listed", []Question{{Prompt: "p", Options: []string{"a", "b"}, CorrectAnswer: "c"}}},
		{"too few options", []Question{{Prompt: "p", Options: []string{"a"}, CorrectAnswer: "a"}}},
		{"duplicate options", []Question{{Prompt: "p", Options: []string{"a", "a"}, CorrectAnswer: "a"}}},
		{"empty prompt", []Question{{Options: []string{"a", "b"}, CorrectAnswer: "a"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession(staticSource(tt.qs))
			err := s.Generate(context.Background(), notes, 5)
			var uerr *UpstreamError
			require.ErrorAs(t, err, &uerr)
			assert.Equal(t, StateIdle, s.State())
		})
	}
}

func TestGenerate_QuizIsCopied(t *testing.T) {
	qs := makeQuestions(5, "orig")
	s := NewSession(staticSource(qs))
	require.NoError(t, s.Generate(context.Background(), notes, 5))

	qs[0].Prompt = "mutated"
	qs[0].Options[0] = "z"
	got := s.Questions()
	got[1].Prompt = "also mutated"

	fresh := s.Questions()
	assert.Equal(t, "orig question 1", fresh[0].Prompt)
	assert.Equal(t, "a", fresh[0].Options[0])
	assert.Equal(t, "orig question 2", fresh[1].Prompt)
}

// blockingFirstCall returns a source whose first call blocks until gate is
// closed and then returns first; later calls return rest immediately.
func blockingFirstCall(started, gate chan struct{}, first, rest func(n int) ([]Question, error)) QuestionSource {
	var calls atomic.Int32
	return QuestionSourceFunc(func(_ context.Context, _ string, n int) ([]Question, error) {
		if calls.Add(1) == 1 {
			close(started)
			<-gate
			return first(n)
		}
		return rest(n)
	})
}

func TestGenerate_LastResolvedWins(t *testing.T) {
	gate := make(chan struct{})
	started := make(chan struct{})
	var generated atomic.Int32
	src := blockingFirstCall(started, gate,
		func(n int) ([]Question, error) { return makeQuestions(n, "resolved-last"), nil },
		func(n int) ([]Question, error) { return makeQuestions(n, "resolved-first"), nil },
	)
	s := NewSession(src, WithObserver(func(ev Event) {
		if ev.Action == ActionGenerated {
			generated.Add(1)
		}
	}))

	errc := make(chan error, 1)
	go func() { errc <- s.Generate(context.Background(), notes, 5) }()
	<-started

	require.NoError(t, s.Generate(context.Background(), notes, 6))
	require.NoError(t, s.SelectAnswer(0, "a"))
	close(gate)

	require.NoError(t, <-errc)
	qs := s.Questions()
	require.Len(t, qs, 5)
	assert.Equal(t, "resolved-last question 1", qs[0].Prompt)
	assert.Equal(t, StateAnswering, s.State())
	assert.Empty(t, s.Selections(), "answers to the replaced quiz are dropped")
	assert.Equal(t, int32(2), generated.Load())
}

func TestGenerate_FailureKeepsQuizFromOverlappingCall(t *testing.T) {
	gate := make(chan struct{})
	started := make(chan struct{})
	src := blockingFirstCall(started, gate,
		func(n int) ([]Question, error) { return makeQuestions(n, "older"), nil },
		func(int) ([]Question, error) { return nil, errors.New("boom") },
	)
	s := NewSession(src)

	errc := make(chan error, 1)
	go func() { errc <- s.Generate(context.Background(), notes, 5) }()
	<-started

	var upstream *UpstreamError
	require.ErrorAs(t, s.Generate(context.Background(), notes, 6), &upstream)
	assert.Equal(t, StateIdle, s.State())

	close(gate)
	require.NoError(t, <-errc)
	assert.Equal(t, StateAnswering, s.State())
	require.Len(t, s.Questions(), 5)
}

func TestGenerate_FailureAfterInstallLeavesQuiz(t *testing.T) {
	gate := make(chan struct{})
	started := make(chan struct{})
	src := blockingFirstCall(started, gate,
		func(int) ([]Question, error) { return nil, errors.New("timeout") },
		func(n int) ([]Question, error) { return makeQuestions(n, "newer"), nil },
	)
	s := NewSession(src)

	errc := make(chan error, 1)
	go func() { errc <- s.Generate(context.Background(), notes, 5) }()
	<-started

	require.NoError(t, s.Generate(context.Background(), notes, 6))
	close(gate)

	var upstream *UpstreamError
	require.ErrorAs(t, <-errc, &upstream)
	assert.Equal(t, StateAnswering, s.State())
	qs := s.Questions()
	require.Len(t, qs, 6)
	assert.Equal(t, "newer question 1", qs[0].Prompt)
}

func TestGenerate_ResolutionAfterDiscardIsIgnored(t *testing.T) {
	gate := make(chan struct{})
	started := make(chan struct{})
	var observed atomic.Int32
	src := QuestionSourceFunc(func(_ context.Context, _ string, n int) ([]Question, error) {
		close(started)
		<-gate
		return makeQuestions(n, "late"), nil
	})
	s := NewSession(src, WithObserver(func(Event) { observed.Add(1) }))

	errc := make(chan error, 1)
	go func() { errc <- s.Generate(context.Background(), notes, 5) }()
	<-started

	s.Discard()
	close(gate)

	assert.ErrorIs(t, <-errc, ErrDiscarded)
	assert.True(t, s.Discarded())
	assert.Equal(t, StateIdle, s.State())
	assert.Nil(t, s.Questions())
	assert.Zero(t, observed.Load())
}

func TestDiscard_RejectsFurtherActions(t *testing.T) {
	s := answeringSession(t, 5, newFakeClock())
	s.Discard()

	assert.ErrorIs(t, s.Generate(context.Background(), notes, 5), ErrDiscarded)
	assert.ErrorIs(t, s.SelectAnswer(0, "a"), ErrDiscarded)
	assert.ErrorIs(t, s.CheckAnswers(), ErrDiscarded)
	assert.ErrorIs(t, s.Retake(), ErrDiscarded)
}

func TestSelectAnswer(t *testing.T) {
	s := answeringSession(t, 5, newFakeClock())

	require.NoError(t, s.SelectAnswer(3, "b"))
	require.NoError(t, s.SelectAnswer(1, "c"))
	require.NoError(t, s.SelectAnswer(3, "d"))

	assert.Equal(t, map[int]string{1: "c", 3: "d"}, s.Selections())
}

func TestSelectAnswer_Rejections(t *testing.T) {
	tests := []struct {
		name      string
		index     int
		option    string
		wantField string
	}{
		{"negative index", -1, "a", "questionIndex"},
		{"index past end", 5, "a", "questionIndex"},
		{"unlisted option", 0, "e", "option"},
		{"case differs", 0, "A", "option"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := answeringSession(t, 5, newFakeClock())
			err := s.SelectAnswer(tt.index, tt.option)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantField, verr.Field)
			assert.Empty(t, s.Selections())
		})
	}
}

func TestSelectAnswer_IdleRejected(t *testing.T) {
	s := NewSession(countSource())
	assert.ErrorIs(t, s.SelectAnswer(0, "a"), ErrInvalidState)
}

func TestSelectAnswer_GradedRejected(t *testing.T) {
	s := answeringSession(t, 5, newFakeClock())
	require.NoError(t, s.SelectAnswer(0, "b"))
	require.NoError(t, s.CheckAnswers())

	err := s.SelectAnswer(0, "a")

	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, map[int]string{0: "b"}, s.Selections())
}

func TestCheckAnswers_IncompleteIsWellDefined(t *testing.T) {
	s := answeringSession(t, 5, newFakeClock())
	require.NoError(t, s.SelectAnswer(0, "a")) // correct
	require.NoError(t, s.SelectAnswer(1, "a")) // wrong, correct is b
	assert.False(t, s.AllAnswered())

	require.NoError(t, s.CheckAnswers())

	assert.Equal(t, StateGraded, s.State())
	assert.Equal(t, 1, s.Score())
}

func TestCheckAnswers_OnlyFromAnswering(t *testing.T) {
	s := NewSession(countSource())
	assert.ErrorIs(t, s.CheckAnswers(), ErrInvalidState)

	s = answeringSession(t, 5, newFakeClock())
	require.NoError(t, s.CheckAnswers())
	end := s.Clock().EndedAt
	assert.ErrorIs(t, s.CheckAnswers(), ErrInvalidState)
	assert.Equal(t, end, s.Clock().EndedAt, "end time is set exactly once")
}

func TestRetake_OnlyFromGraded(t *testing.T) {
	s := NewSession(countSource())
	assert.ErrorIs(t, s.Retake(), ErrInvalidState)

	s = answeringSession(t, 5, newFakeClock())
	assert.ErrorIs(t, s.Retake(), ErrInvalidState)
}

func TestElapsedTime(t *testing.T) {
	clock := newFakeClock()
	s := answeringSession(t, 5, clock)

	assert.Equal(t, 0, s.ElapsedSeconds(), "elapsed is 0 before grading")

	clock.Advance(90*time.Second + 999*time.Millisecond)
	require.NoError(t, s.CheckAnswers())

	assert.Equal(t, 90, s.ElapsedSeconds())
	assert.Equal(t, "1m 30s", s.TimeTaken())
}

func TestEndToEnd_GenerateAnswerGradeRetake(t *testing.T) {
	clock := newFakeClock()
	s := answeringSession(t, 5, clock)
	qs := s.Questions()
	require.Len(t, qs, 5)
	startedAt := s.Clock().StartedAt

	want := 0
	for i, q := range qs {
		require.NoError(t, s.SelectAnswer(i, q.Options[0]))
		if q.Options[0] == q.CorrectAnswer {
			want++
		}
	}
	assert.True(t, s.AllAnswered())

	clock.Advance(42 * time.Second)
	require.NoError(t, s.CheckAnswers())
	assert.Equal(t, StateGraded, s.State())
	assert.Equal(t, want, s.Score())
	assert.Equal(t, 2, want) // questions 1 and 5 have answer "a"
	assert.Equal(t, "42s", s.TimeTaken())

	clock.Advance(time.Minute)
	require.NoError(t, s.Retake())
	assert.Equal(t, StateAnswering, s.State())
	assert.Empty(t, s.Selections())
	assert.Nil(t, s.Clock().EndedAt)
	assert.Equal(t, startedAt, s.Clock().StartedAt)
	assert.Len(t, s.Questions(), 5)
}

func TestRetake_SameAnswersReproduceScore(t *testing.T) {
	s := answeringSession(t, 8, newFakeClock())
	answers := map[int]string{0: "a", 1: "c", 2: "c", 5: "b", 7: "d"}

	for i, o := range answers {
		require.NoError(t, s.SelectAnswer(i, o))
	}
	require.NoError(t, s.CheckAnswers())
	first := s.Score()

	require.NoError(t, s.Retake())
	assert.Equal(t, 0, s.Score())
	for i, o := range answers {
		require.NoError(t, s.SelectAnswer(i, o))
	}
	require.NoError(t, s.CheckAnswers())

	assert.Equal(t, first, s.Score())
	assert.Equal(t, 4, first)
}

func TestRetake_ElapsedMeasuredFromOriginalStart(t *testing.T) {
	clock := newFakeClock()
	s := answeringSession(t, 5, clock)

	clock.Advance(30 * time.Second)
	require.NoError(t, s.CheckAnswers())
	require.NoError(t, s.Retake())

	clock.Advance(45 * time.Second)
	require.NoError(t, s.CheckAnswers())
	assert.Equal(t, 75, s.ElapsedSeconds())
}

func TestFeedback(t *testing.T) {
	s := answeringSession(t, 5, newFakeClock())
	require.NoError(t, s.SelectAnswer(1, "c")) // correct is b

	assert.Equal(t, []Mark{MarkNone, MarkNone, MarkNone, MarkNone}, s.Feedback(1))

	require.NoError(t, s.CheckAnswers())
	assert.Equal(t, []Mark{MarkNone, MarkCorrect, MarkWrong, MarkNone}, s.Feedback(1))
	assert.Equal(t, []Mark{MarkCorrect, MarkNone, MarkNone, MarkNone}, s.Feedback(0), "unanswered still shows the answer")
	assert.Nil(t, s.Feedback(9))
}

func TestObserver_ReceivesTransitions(t *testing.T) {
	clock := newFakeClock()
	var events []Event
	s := NewSession(countSource(), WithClock(clock.Now), WithID("sess-1"), WithObserver(func(e Event) {
		events = append(events, e)
	}))

	require.NoError(t, s.Generate(context.Background(), notes, 5))
	require.NoError(t, s.SelectAnswer(0, "a"))
	clock.Advance(61 * time.Second)
	require.NoError(t, s.CheckAnswers())
	require.NoError(t, s.Retake())

	require.Len(t, events, 3)
	assert.Equal(t, Event{SessionID: "sess-1", Action: ActionGenerated, QuestionCount: 5}, events[0])
	assert.Equal(t, Event{SessionID: "sess-1", Action: ActionGraded, QuestionCount: 5, Score: 1, ElapsedSeconds: 61}, events[1])
	assert.Equal(t, ActionRetaken, events[2].Action)
}

func TestSnapshot(t *testing.T) {
	clock := newFakeClock()
	s := NewSession(countSource(), WithClock(clock.Now), WithID("snap"))

	snap := s.Snapshot()
	assert.Equal(t, StateIdle, snap.State)
	assert.Nil(t, snap.Score)
	assert.Nil(t, snap.StartedAt)

	require.NoError(t, s.Generate(context.Background(), notes, 5))
	require.NoError(t, s.SelectAnswer(0, "a"))
	snap = s.Snapshot()
	assert.Equal(t, StateAnswering, snap.State)
	assert.Equal(t, 5, snap.Total)
	assert.Nil(t, snap.Score, "score is hidden until graded")
	assert.Empty(t, snap.Feedback)

	clock.Advance(125 * time.Second)
	require.NoError(t, s.CheckAnswers())
	snap = s.Snapshot()
	require.NotNil(t, snap.Score)
	assert.Equal(t, 1, *snap.Score)
	require.NotNil(t, snap.ElapsedSeconds)
	assert.Equal(t, 125, *snap.ElapsedSeconds)
	assert.Equal(t, "2m 5s", snap.TimeTaken)
	assert.Len(t, snap.Feedback, 5)
}

func TestTranscript(t *testing.T) {
	set := []Question{
		{Prompt: "What is H2O?", Options: []string{"Water", "Salt"}, CorrectAnswer: "Water"},
		{Prompt: "2+2?", Options: []string{"3", "4"}, CorrectAnswer: "4"},
	}
	want := "1. What is H2O?\n   - Water\n   - Salt\nCorrect Answer: Water\n" +
		"\n" +
		"2. 2+2?\n   - 3\n   - 4\nCorrect Answer: 4\n"

	assert.Equal(t, want, Transcript(set))

	s := NewSession(staticSource(set))
	assert.Empty(t, s.Transcript())
}
