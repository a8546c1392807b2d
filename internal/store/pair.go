package store

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm/clause"
)

// CreatePairIgnoreConflict inserts a new Pair, doing nothing if the
// address already exists — the ON CONFLICT(address) DO NOTHING policy
// from spec.md §4.3's PairCreated handler step 2.
func (s *Store) CreatePairIgnoreConflict(p *Pair) error {
	result := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "address"}},
		DoNothing: true,
	}).Create(p)
	if result.Error != nil {
		return fmt.Errorf("store: failed to create pair: %w", result.Error)
	}
	return nil
}

// GetPairByAddress returns the pair, or (nil, nil) if unknown — handlers
// treat an unknown pair as "may pre-date local indexing" and skip rather
// than error (spec.md §4.3 Swap/Sync handlers, step 1).
func (s *Store) GetPairByAddress(address string) (*Pair, error) {
	var p Pair
	err := s.db.Where("address = ?", address).First(&p).Error
	if err != nil {
		if isRecordNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("store: failed to get pair %s: %w", address, err)
	}
	return &p, nil
}

// UpdateReserves mutates reserve0/reserve1 for the Sync handler
// (spec.md §4.3).
func (s *Store) UpdateReserves(address string, reserve0, reserve1 decimal.Decimal) error {
	result := s.db.Model(&Pair{}).Where("address = ?", address).
		Updates(map[string]interface{}{"reserve0": reserve0, "reserve1": reserve1})
	if result.Error != nil {
		return fmt.Errorf("store: failed to update reserves for %s: %w", address, result.Error)
	}
	return nil
}

// BaseAddress returns the quote-side token address for this pair, per
// spec.md §3's base_token_index.
func (p Pair) BaseAddress() string {
	if p.BaseTokenIndex == 0 {
		return p.Token0
	}
	return p.Token1
}

// TokenAddress returns the non-base (memecoin) side of this pair.
func (p Pair) TokenAddress() string {
	if p.BaseTokenIndex == 0 {
		return p.Token1
	}
	return p.Token0
}
