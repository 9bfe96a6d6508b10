package quiz

import "time"

// Snapshot is a read-only view of a session for presentation layers.
// Score, ElapsedSeconds and TimeTaken are set only once graded.
type Snapshot struct {
	ID             string         `json:"id"`
	State          State          `json:"state"`
	Questions      []Question     `json:"questions,omitempty"`
	Selections     map[int]string `json:"selections"`
	Feedback       [][]Mark       `json:"feedback,omitempty"`
	StartedAt      *time.Time     `json:"startedAt,omitempty"`
	EndedAt        *time.Time     `json:"endedAt,omitempty"`
	AllAnswered    bool           `json:"allAnswered"`
	Score          *int           `json:"score,omitempty"`
	Total          int            `json:"total"`
	ElapsedSeconds *int           `json:"elapsedSeconds,omitempty"`
	TimeTaken      string         `json:"timeTaken,omitempty"`
}

// Snapshot captures the session under a single lock.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:          s.id,
		State:       s.state,
		Selections:  copySelections(s.selections),
		Total:       len(s.set),
		AllAnswered: s.set != nil && len(s.selections) == len(s.set),
	}
	if s.set == nil {
		return snap
	}

	snap.Questions = cloneQuestions(s.set)
	clock := copyClock(s.clock)
	snap.StartedAt = &clock.StartedAt
	snap.EndedAt = clock.EndedAt

	if s.state == StateGraded {
		score := ScoreOf(s.set, s.selections)
		elapsed := s.clock.ElapsedSeconds()
		snap.Score = &score
		snap.ElapsedSeconds = &elapsed
		snap.TimeTaken = FormatElapsed(elapsed)
		snap.Feedback = make([][]Mark, len(s.set))
		for i, q := range s.set {
			snap.Feedback[i] = feedbackLocked(s.state, q, s.selections[i])
		}
	}
	return snap
}
