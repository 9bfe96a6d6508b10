package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// eventBase holds the fields shared by every event table. Sequence comes
// from global_sequence so events of different types merge into one
// timeline; Timestamp is unix milliseconds.
type eventBase struct {
	ID        int   `gorm:"primaryKey"`
	Sequence  int64 `gorm:"not null;uniqueIndex"`
	Timestamp int64 `gorm:"not null;index"`
}

func (e *eventBase) stamp(seq int64, at time.Time) {
	e.Sequence = seq
	e.Timestamp = at.UnixMilli()
}

// sequenced is implemented by every event row through eventBase.
type sequenced interface {
	stamp(seq int64, at time.Time)
}

type globalSequence struct {
	ID      int   `gorm:"primaryKey;autoIncrement:false"`
	NextVal int64 `gorm:"not null"`
}

func (globalSequence) TableName() string { return "global_sequence" }

type llmRequestEvent struct {
	eventBase
	Provider     string `gorm:"not null"`
	Model        string `gorm:"not null"`
	Purpose      string `gorm:"not null;index"`
	InputTokens  int    `gorm:"not null"`
	OutputTokens int    `gorm:"not null"`
	LatencyMs    int64  `gorm:"not null"`
	Success      bool   `gorm:"not null"`
	ErrorMessage string `gorm:"not null"`
	RequestBody  string `gorm:"not null"`
	ResponseBody string `gorm:"not null"`
}

func (llmRequestEvent) TableName() string { return "llm_request_events" }

func newLLMRequestEvent(d LLMRequestEventData) *llmRequestEvent {
	return &llmRequestEvent{
		Provider:     d.Provider,
		Model:        d.Model,
		Purpose:      d.Purpose,
		InputTokens:  d.InputTokens,
		OutputTokens: d.OutputTokens,
		LatencyMs:    d.LatencyMs,
		Success:      d.Success,
		ErrorMessage: d.ErrorMessage,
		RequestBody:  d.RequestBody,
		ResponseBody: d.ResponseBody,
	}
}

func (e llmRequestEvent) record() LLMEventRecord {
	return LLMEventRecord{
		ID:        e.ID,
		Sequence:  e.Sequence,
		Timestamp: time.UnixMilli(e.Timestamp),
		LLMRequestEventData: LLMRequestEventData{
			Provider:     e.Provider,
			Model:        e.Model,
			Purpose:      e.Purpose,
			InputTokens:  e.InputTokens,
			OutputTokens: e.OutputTokens,
			LatencyMs:    e.LatencyMs,
			Success:      e.Success,
			ErrorMessage: e.ErrorMessage,
			RequestBody:  e.RequestBody,
			ResponseBody: e.ResponseBody,
		},
	}
}

type quizEvent struct {
	eventBase
	SessionID     string `gorm:"not null;index"`
	Action        string `gorm:"not null"`
	QuestionCount int    `gorm:"not null"`
	Score         int    `gorm:"not null"`
	ElapsedSecs   int    `gorm:"not null"`
}

func (quizEvent) TableName() string { return "quiz_events" }

func (e quizEvent) record() QuizEventRecord {
	return QuizEventRecord{
		ID:        e.ID,
		Sequence:  e.Sequence,
		Timestamp: time.UnixMilli(e.Timestamp),
		QuizEventData: QuizEventData{
			SessionID:     e.SessionID,
			Action:        e.Action,
			QuestionCount: e.QuestionCount,
			Score:         e.Score,
			ElapsedSecs:   e.ElapsedSecs,
		},
	}
}

// migrate creates missing tables and indexes and seeds the sequence row.
func migrate(ctx context.Context, db *gorm.DB) error {
	db = db.WithContext(ctx)
	if err := db.AutoMigrate(&globalSequence{}, &llmRequestEvent{}, &quizEvent{}); err != nil {
		return err
	}
	err := db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&globalSequence{ID: 1, NextVal: 1}).Error
	if err != nil {
		return fmt.Errorf("seed sequence: %w", err)
	}
	return nil
}
