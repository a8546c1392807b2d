package store

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TokenMetadata is the subset of Token fields fetched from the chain via
// ERC-20 metadata calls (spec.md §4.3 PairCreated handler, step 3).
type TokenMetadata struct {
	Name        *string
	Symbol      *string
	Decimals    *uint8
	TotalSupply *decimal.Decimal
}

// UpsertTokenWithMetadata creates the token row if absent, or
// COALESCE-merges incoming metadata onto an existing row so that fields
// the RPC failed to resolve don't clobber previously-known values
// (spec.md §4.3 PairCreated handler, step 4).
func (s *Store) UpsertTokenWithMetadata(address string, pairAddress *string, blockNumber *int64, meta TokenMetadata) (*Token, error) {
	existing, err := s.GetTokenByAddress(address)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		t := Token{
			Address:     address,
			Name:        meta.Name,
			Symbol:      meta.Symbol,
			Decimals:    meta.Decimals,
			TotalSupply: meta.TotalSupply,
			PairAddress: pairAddress,
			BlockNumber: blockNumber,
			LastUpdated: time.Now().UTC(),
		}
		if t.Decimals == nil {
			d := uint8(18)
			t.Decimals = &d
		}
		if err := s.db.Create(&t).Error; err != nil {
			return nil, fmt.Errorf("store: failed to create token %s: %w", address, err)
		}
		return &t, nil
	}

	updates := map[string]interface{}{}
	if meta.Name != nil {
		updates["name"] = *meta.Name
	}
	if meta.Symbol != nil {
		updates["symbol"] = *meta.Symbol
	}
	if meta.Decimals != nil {
		updates["decimals"] = *meta.Decimals
	}
	if meta.TotalSupply != nil {
		updates["total_supply"] = *meta.TotalSupply
	}
	if pairAddress != nil && existing.PairAddress == nil {
		updates["pair_address"] = *pairAddress
	}
	if blockNumber != nil && existing.BlockNumber == nil {
		updates["block_number"] = *blockNumber
	}
	if len(updates) == 0 {
		return existing, nil
	}
	if err := s.db.Model(&Token{}).Where("address = ?", address).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("store: failed to update token %s: %w", address, err)
	}
	return s.GetTokenByAddress(address)
}

// GetTokenByAddress returns the token, or (nil, nil) if untracked.
func (s *Store) GetTokenByAddress(address string) (*Token, error) {
	var t Token
	err := s.db.Where("address = ?", address).First(&t).Error
	if err != nil {
		if isRecordNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("store: failed to get token %s: %w", address, err)
	}
	return &t, nil
}

// IncrementTradeCounters applies the Swap handler's step 6 counter
// mutation. It must only be called after a genuine (non-duplicate) Swap
// insert — see InsertSwapIfNew — resolving the "increment semantics under
// redelivery" open question from spec.md §9 as "condition on a real
// insert."
func (s *Store) IncrementTradeCounters(tokenAddress string, isBuy bool, amountUSD decimal.Decimal) error {
	updates := map[string]interface{}{
		"trades_1h":      gorm.Expr("trades_1h + 1"),
		"trades_24h":     gorm.Expr("trades_24h + 1"),
		"volume_1h_usd":  gorm.Expr("volume_1h_usd + ?", amountUSD),
		"volume_24h_usd": gorm.Expr("volume_24h_usd + ?", amountUSD),
		"last_updated":   time.Now().UTC(),
	}
	if isBuy {
		updates["buys_1h"] = gorm.Expr("buys_1h + 1")
	} else {
		updates["sells_1h"] = gorm.Expr("sells_1h + 1")
	}
	if err := s.db.Model(&Token{}).Where("address = ?", tokenAddress).Updates(updates).Error; err != nil {
		return fmt.Errorf("store: failed to increment trade counters for %s: %w", tokenAddress, err)
	}
	return nil
}

// UpdateSyncMetrics applies the Sync handler's step 4 price/liquidity
// mutation (spec.md §4.3).
func (s *Store) UpdateSyncMetrics(tokenAddress string, priceUSD, priceNative, liquidityUSD decimal.Decimal) error {
	updates := map[string]interface{}{
		"price_usd":     priceUSD,
		"price_native":  priceNative,
		"liquidity_usd": liquidityUSD,
		"last_updated":  time.Now().UTC(),
	}
	if err := s.db.Model(&Token{}).Where("address = ?", tokenAddress).Updates(updates).Error; err != nil {
		return fmt.Errorf("store: failed to update sync metrics for %s: %w", tokenAddress, err)
	}
	return nil
}

// UpdateLPLock applies the LpLock handler's step 3 token mutation.
func (s *Store) UpdateLPLock(tokenAddress string, lockPercent float64, unlockDate time.Time) error {
	updates := map[string]interface{}{
		"lp_locked":       true,
		"lp_lock_percent": lockPercent,
		"lp_unlock_date":  unlockDate,
	}
	if err := s.db.Model(&Token{}).Where("address = ?", tokenAddress).Updates(updates).Error; err != nil {
		return fmt.Errorf("store: failed to update lp lock for %s: %w", tokenAddress, err)
	}
	return nil
}

// UpdateScores persists the three score fields computed by the scorer
// (spec.md §4.4) and returns the token's previous bee_score so the caller
// can evaluate the high_bee_score alert trigger (spec.md §4.4).
func (s *Store) UpdateScores(tokenAddress string, total, safety, traction int) (previousBeeScore int, err error) {
	existing, err := s.GetTokenByAddress(tokenAddress)
	if err != nil {
		return 0, err
	}
	if existing == nil {
		return 0, fmt.Errorf("store: cannot score untracked token %s", tokenAddress)
	}
	previousBeeScore = existing.BeeScore

	updates := map[string]interface{}{
		"bee_score":      total,
		"safety_score":   safety,
		"traction_score": traction,
	}
	if err := s.db.Model(&Token{}).Where("address = ?", tokenAddress).Updates(updates).Error; err != nil {
		return previousBeeScore, fmt.Errorf("store: failed to update scores for %s: %w", tokenAddress, err)
	}
	return previousBeeScore, nil
}
