package store

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EnqueueLogs appends decoded-pending logs to the staging queue and
// advances filterKey's cursor to upToBlock in a single transaction, so a
// crash between the two can never leave logs persisted with a cursor that
// wasn't, or vice versa (spec.md §4.1's atomicity requirement).
func (s *Store) EnqueueLogs(filterKey string, chainID int64, logs []RawLog, upToBlock int64) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if len(logs) > 0 {
			result := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "tx_hash"}, {Name: "log_index"}},
				DoNothing: true,
			}).Create(&logs)
			if result.Error != nil {
				return fmt.Errorf("store: failed to enqueue logs: %w", result.Error)
			}
		}
		result := tx.Model(&SyncCursor{}).
			Where("filter_key = ? AND chain_id = ? AND last_synced_block < ?", filterKey, chainID, upToBlock).
			Update("last_synced_block", upToBlock)
		if result.Error != nil {
			return fmt.Errorf("store: failed to advance cursor %s in enqueue transaction: %w", filterKey, result.Error)
		}
		return nil
	})
}

// DequeueBatch returns up to limit staging-queue rows in FIFO (id
// ascending, i.e. block/arrival) order for the Processor's drain loop
// (spec.md §4.6).
func (s *Store) DequeueBatch(limit int) ([]RawLog, error) {
	var logs []RawLog
	if err := s.db.Order("id ASC").Limit(limit).Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("store: failed to dequeue logs: %w", err)
	}
	return logs, nil
}

// DeleteLog removes a staging-queue row once the Processor has attempted
// it, whether decoding and handling succeeded or failed, so a log can
// never reappear from the queue
// itself (spec.md §4.6). Redelivery protection for the decoded side
// effects still rests on each handler's own idempotent upserts.
func (s *Store) DeleteLog(id uint) error {
	if err := s.db.Delete(&RawLog{}, id).Error; err != nil {
		return fmt.Errorf("store: failed to delete raw log %d: %w", id, err)
	}
	return nil
}
