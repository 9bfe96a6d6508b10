package store

import (
	"context"
	"fmt"
)

func (r *eventRepo) AppendQuizEvent(ctx context.Context, data QuizEventData) error {
	row := &quizEvent{
		SessionID:     data.SessionID,
		Action:        data.Action,
		QuestionCount: data.QuestionCount,
		Score:         data.Score,
		ElapsedSecs:   data.ElapsedSecs,
	}
	if _, err := r.appendEvent(ctx, row); err != nil {
		return fmt.Errorf("save quiz event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryQuizEvents(ctx context.Context, opts QueryOpts) ([]QuizEventRecord, error) {
	var rows []quizEvent
	if err := opts.apply(r.db.WithContext(ctx)).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query quiz events: %w", err)
	}

	var records []QuizEventRecord
	for _, row := range rows {
		records = append(records, row.record())
	}
	return records, nil
}

func (r *eventRepo) QuizStats(ctx context.Context) (QuizStats, error) {
	var s QuizStats
	err := r.db.WithContext(ctx).Model(&quizEvent{}).
		Select(`COALESCE(SUM(CASE WHEN action = 'generated' THEN 1 ELSE 0 END), 0) AS "generated",
			COALESCE(SUM(CASE WHEN action = 'graded' THEN 1 ELSE 0 END), 0) AS graded,
			COALESCE(SUM(CASE WHEN action = 'graded' THEN question_count ELSE 0 END), 0) AS questions_total,
			COALESCE(SUM(CASE WHEN action = 'graded' THEN score ELSE 0 END), 0) AS correct_total,
			CAST(COALESCE(AVG(CASE WHEN action = 'graded' THEN elapsed_secs END), 0) AS INTEGER) AS avg_elapsed_secs`).
		Scan(&s).Error
	if err != nil {
		return QuizStats{}, fmt.Errorf("query quiz stats: %w", err)
	}
	return s, nil
}
