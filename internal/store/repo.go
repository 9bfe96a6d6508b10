package store

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	After   int64     // sequence > After
	Before  int64     // sequence < Before
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
	Purpose string    // LLM events only
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEventRecord is a stored LLM request event.
type LLMEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsageStat aggregates LLM calls for one purpose.
type LLMUsageStat struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// LLMModelUsage aggregates token usage for one model.
type LLMModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// QuizEventData captures a quiz session transition.
type QuizEventData struct {
	SessionID     string
	Action        string // generated, graded or retaken
	QuestionCount int
	Score         int
	ElapsedSecs   int
}

// QuizEventRecord is a stored quiz event.
type QuizEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	QuizEventData
}

// QuizStats summarizes graded attempts.
type QuizStats struct {
	Generated      int
	Graded         int
	QuestionsTotal int
	CorrectTotal   int
	AvgElapsedSecs int
}

// Accuracy returns the share of correctly answered questions across graded
// attempts, or 0 when nothing has been graded.
func (s QuizStats) Accuracy() float64 {
	if s.QuestionsTotal == 0 {
		return 0
	}
	return float64(s.CorrectTotal) / float64(s.QuestionsTotal)
}

// EventRepo provides append and query access to the event log.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
	// QueryLLMEvents returns LLM events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEventRecord, error)
	// GetLLMEvent returns one event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMEventRecord, error)
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsageStat, error)
	LLMUsageByModel(ctx context.Context) ([]LLMModelUsage, error)

	// AppendQuizEvent records a quiz session transition.
	AppendQuizEvent(ctx context.Context, data QuizEventData) error
	// QueryQuizEvents returns quiz events newest first.
	QueryQuizEvents(ctx context.Context, opts QueryOpts) ([]QuizEventRecord, error)
	QuizStats(ctx context.Context) (QuizStats, error)
}

// eventRepo implements EventRepo on gorm.
type eventRepo struct {
	db  *gorm.DB
	now func() time.Time
}

// apply adds the sequence and time filters shared by every event table and
// orders newest first. Timestamps are stored as unix milliseconds.
func (o QueryOpts) apply(q *gorm.DB) *gorm.DB {
	if o.After > 0 {
		q = q.Where("sequence > ?", o.After)
	}
	if o.Before > 0 {
		q = q.Where("sequence < ?", o.Before)
	}
	if !o.From.IsZero() {
		q = q.Where("timestamp >= ?", o.From.UnixMilli())
	}
	if !o.To.IsZero() {
		q = q.Where("timestamp <= ?", o.To.UnixMilli())
	}
	q = q.Order("sequence DESC")
	if o.Limit > 0 {
		q = q.Limit(o.Limit)
	}
	return q
}
