package store

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// NewTokenHolder is the input to Upsert — see TokenHolder's upsert policy
// in spec.md §3: flags are monotonically OR'd, first_buy_block is
// COALESCE of existing and new, balance is replaced.
type NewTokenHolder struct {
	TokenAddress  string
	WalletAddress string
	Balance       decimal.Decimal
	IsDev         bool
	IsSniper      bool
	IsContract    bool
	FirstBuyBlock *int64
}

// Upsert applies the TokenHolder merge policy from spec.md §3.
func (s *Store) Upsert(h NewTokenHolder) error {
	var existing TokenHolder
	err := s.db.Where("token_address = ? AND wallet_address = ?", h.TokenAddress, h.WalletAddress).
		First(&existing).Error
	if err != nil {
		if !isRecordNotFound(err) {
			return fmt.Errorf("store: failed to look up token holder: %w", err)
		}
		row := TokenHolder{
			TokenAddress:  h.TokenAddress,
			WalletAddress: h.WalletAddress,
			Balance:       h.Balance,
			IsDev:         h.IsDev,
			IsSniper:      h.IsSniper,
			IsContract:    h.IsContract,
			FirstBuyBlock: h.FirstBuyBlock,
		}
		if err := s.db.Create(&row).Error; err != nil {
			return fmt.Errorf("store: failed to create token holder: %w", err)
		}
		return nil
	}

	updates := map[string]interface{}{
		"balance":     h.Balance,
		"is_dev":      existing.IsDev || h.IsDev,
		"is_sniper":   existing.IsSniper || h.IsSniper,
		"is_contract": existing.IsContract || h.IsContract,
	}
	if existing.FirstBuyBlock != nil {
		updates["first_buy_block"] = *existing.FirstBuyBlock
	} else if h.FirstBuyBlock != nil {
		updates["first_buy_block"] = *h.FirstBuyBlock
	}

	if err := s.db.Model(&TokenHolder{}).
		Where("token_address = ? AND wallet_address = ?", h.TokenAddress, h.WalletAddress).
		Updates(updates).Error; err != nil {
		return fmt.Errorf("store: failed to update token holder: %w", err)
	}
	return nil
}

// MarkSniper sets is_sniper for an existing holder without touching
// balance (spec.md §4.3 Transfer handler, step 5).
func (s *Store) MarkSniper(tokenAddress, walletAddress string) error {
	err := s.db.Model(&TokenHolder{}).
		Where("token_address = ? AND wallet_address = ?", tokenAddress, walletAddress).
		Update("is_sniper", true).Error
	if err != nil {
		return fmt.Errorf("store: failed to mark sniper %s/%s: %w", tokenAddress, walletAddress, err)
	}
	return nil
}

// FindHolder returns a single (token, wallet) holder row, or (nil, nil).
func (s *Store) FindHolder(tokenAddress, walletAddress string) (*TokenHolder, error) {
	var h TokenHolder
	err := s.db.Where("token_address = ? AND wallet_address = ?", tokenAddress, walletAddress).First(&h).Error
	if err != nil {
		if isRecordNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("store: failed to find holder %s/%s: %w", tokenAddress, walletAddress, err)
	}
	return &h, nil
}
