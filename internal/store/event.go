package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// Atomic at the database level, which gorm's builder cannot express.
const nextSequenceSQL = `UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`

// appendEvent takes the next sequence number, stamps row with it and the
// current time, and inserts row in the same transaction. A failed insert
// consumes no sequence number.
func (r *eventRepo) appendEvent(ctx context.Context, row sequenced) (int64, error) {
	var seq int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Raw(nextSequenceSQL).Row().Scan(&seq); err != nil {
			return fmt.Errorf("next sequence: %w", err)
		}
		row.stamp(seq, r.now())
		return tx.Create(row).Error
	})
	if err != nil {
		return 0, err
	}
	return seq, nil
}
