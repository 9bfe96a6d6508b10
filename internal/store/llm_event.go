package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	if _, err := r.appendEvent(ctx, newLLMRequestEvent(data)); err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEventRecord, error) {
	q := opts.apply(r.db.WithContext(ctx))
	if opts.Purpose != "" {
		q = q.Where("purpose = ?", opts.Purpose)
	}

	var rows []llmRequestEvent
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}

	var records []LLMEventRecord
	for _, row := range rows {
		records = append(records, row.record())
	}
	return records, nil
}

func (r *eventRepo) GetLLMEvent(ctx context.Context, id int) (*LLMEventRecord, error) {
	var row llmRequestEvent
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get LLM event: %w", err)
	}
	rec := row.record()
	return &rec, nil
}

func (r *eventRepo) LLMUsageByPurpose(ctx context.Context) ([]LLMUsageStat, error) {
	var stats []LLMUsageStat
	err := r.db.WithContext(ctx).Model(&llmRequestEvent{}).
		Select(`purpose, COUNT(*) AS calls,
			COALESCE(SUM(input_tokens), 0) AS input_tokens,
			COALESCE(SUM(output_tokens), 0) AS output_tokens,
			CAST(COALESCE(AVG(latency_ms), 0) AS INTEGER) AS avg_latency_ms`).
		Group("purpose").
		Order("purpose").
		Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("query usage by purpose: %w", err)
	}
	return stats, nil
}

func (r *eventRepo) LLMUsageByModel(ctx context.Context) ([]LLMModelUsage, error) {
	var usage []LLMModelUsage
	err := r.db.WithContext(ctx).Model(&llmRequestEvent{}).
		Select(`model, COUNT(*) AS calls,
			COALESCE(SUM(input_tokens), 0) AS input_tokens,
			COALESCE(SUM(output_tokens), 0) AS output_tokens`).
		Group("model").
		Order("model").
		Scan(&usage).Error
	if err != nil {
		return nil, fmt.Errorf("query usage by model: %w", err)
	}
	return usage, nil
}
