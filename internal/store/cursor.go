package store

import (
	"fmt"
)

// GetOrInitCursor returns the persisted last-synced block for filterKey on
// chainID, creating it at startBlock if absent. The Listener is
// responsible for computing startBlock as tip-WINDOW (never 0) so a fresh
// deployment doesn't attempt a full-chain backfill (spec.md §4.1).
func (s *Store) GetOrInitCursor(filterKey string, chainID int64, startBlock int64) (*SyncCursor, error) {
	var c SyncCursor
	err := s.db.Where("filter_key = ? AND chain_id = ?", filterKey, chainID).First(&c).Error
	if err == nil {
		return &c, nil
	}
	if !isRecordNotFound(err) {
		return nil, fmt.Errorf("store: failed to look up cursor %s: %w", filterKey, err)
	}

	c = SyncCursor{
		FilterKey:       filterKey,
		ChainID:         chainID,
		LastSyncedBlock: startBlock,
	}
	if err := s.db.Create(&c).Error; err != nil {
		return nil, fmt.Errorf("store: failed to init cursor %s: %w", filterKey, err)
	}
	return &c, nil
}

// AdvanceCursor moves filterKey's cursor forward to newBlock. It is a
// no-op (not an error) when newBlock does not exceed the stored value,
// enforcing the monotonic non-decrease invariant from spec.md §4.1 — a
// retried or out-of-order tick can never rewind progress.
func (s *Store) AdvanceCursor(filterKey string, chainID int64, newBlock int64) error {
	result := s.db.Model(&SyncCursor{}).
		Where("filter_key = ? AND chain_id = ? AND last_synced_block < ?", filterKey, chainID, newBlock).
		Update("last_synced_block", newBlock)
	if result.Error != nil {
		return fmt.Errorf("store: failed to advance cursor %s: %w", filterKey, result.Error)
	}
	return nil
}
