package quiz

import (
	"math/rand/v2"
	"testing"
	"time"
)

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "0s"},
		{1, "1s"},
		{59, "59s"},
		{60, "1m 0s"},
		{90, "1m 30s"},
		{125, "2m 5s"},
		{3600, "60m 0s"},
	}
	for _, tt := range tests {
		if got := FormatElapsed(tt.seconds); got != tt.want {
			t.Errorf("FormatElapsed(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestClock_ElapsedSeconds(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(59*time.Second + 999*time.Millisecond)

	if got := (Clock{StartedAt: start}).ElapsedSeconds(); got != 0 {
		t.Errorf("open clock elapsed = %d, want 0", got)
	}
	if got := (Clock{StartedAt: start, EndedAt: &end}).ElapsedSeconds(); got != 59 {
		t.Errorf("elapsed = %d, want 59 (floor)", got)
	}
	before := start.Add(-time.Second)
	if got := (Clock{StartedAt: start, EndedAt: &before}).ElapsedSeconds(); got != 0 {
		t.Errorf("negative span elapsed = %d, want 0", got)
	}
	var zero time.Time
	zeroEnd := zero.Add(42*time.Second + 500*time.Millisecond)
	if got := (Clock{StartedAt: zero, EndedAt: &zeroEnd}).ElapsedSeconds(); got != 42 {
		t.Errorf("zero start elapsed = %d, want 42", got)
	}
}

func TestScoreOf_Bounds(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for trial := 0; trial < 200; trial++ {
		n := 5 + r.IntN(36)
		set := makeQuestions(n, "p")
		sel := make(map[int]string)
		for i := range set {
			if r.IntN(3) == 0 {
				continue
			}
			sel[i] = set[i].Options[r.IntN(len(set[i].Options))]
		}

		score := ScoreOf(set, sel)
		if score < 0 || score > n {
			t.Fatalf("trial %d: score %d outside [0, %d]", trial, score, n)
		}
		if again := ScoreOf(set, sel); again != score {
			t.Fatalf("trial %d: score not stable: %d then %d", trial, score, again)
		}
	}
}

func TestScoreOf_UnansweredNeverCount(t *testing.T) {
	set := makeQuestions(5, "p")
	if got := ScoreOf(set, nil); got != 0 {
		t.Errorf("score with no selections = %d, want 0", got)
	}

	all := make(map[int]string)
	for i, q := range set {
		all[i] = q.CorrectAnswer
	}
	if got := ScoreOf(set, all); got != 5 {
		t.Errorf("all correct = %d, want 5", got)
	}

	delete(all, 2)
	if got := ScoreOf(set, all); got != 4 {
		t.Errorf("one unanswered = %d, want 4", got)
	}
}

func TestScoreOf_ExactStringMatch(t *testing.T) {
	set := []Question{{Prompt: "p", Options: []string{"Paris", "paris "}, CorrectAnswer: "Paris"}}
	if got := ScoreOf(set, map[int]string{0: "paris "}); got != 0 {
		t.Errorf("near match scored %d, want 0", got)
	}
}

func TestStateString(t *testing.T) {
	for s, want := range map[State]string{
		StateIdle:      "idle",
		StateAnswering: "answering",
		StateGraded:    "graded",
	} {
		if s.String() != want {
			t.Errorf("State(%d).String() = %q, want %q", s, s.String(), want)
		}
	}
}
