package store

import (
	"fmt"

	"gorm.io/gorm/clause"
)

// InsertLpLock records a liquidity lock event, idempotent on tx_hash
// (spec.md §4.3 LpLock handler, step 2).
func (s *Store) InsertLpLock(l *LpLock) error {
	result := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tx_hash"}},
		DoNothing: true,
	}).Create(l)
	if result.Error != nil {
		return fmt.Errorf("store: failed to insert lp lock %s: %w", l.TxHash, result.Error)
	}
	return nil
}
