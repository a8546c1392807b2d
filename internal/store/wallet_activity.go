package store

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm/clause"
)

// NewWalletActivity is the input to RecordActivity.
type NewWalletActivity struct {
	TxHash        string
	WalletAddress string
	TokenAddress  string
	Action        string
	AmountTokens  decimal.Decimal
	AmountUSD     *decimal.Decimal
	BlockNumber   int64
	Timestamp     time.Time
}

// RecordActivity appends a wallet activity row, idempotent on
// (tx_hash, wallet_address, token_address, action) — a given log can
// only ever produce one activity row of a given action for a given
// wallet/token pair (spec.md §3).
func (s *Store) RecordActivity(n NewWalletActivity) error {
	row := WalletActivity{
		TxHash:        n.TxHash,
		WalletAddress: n.WalletAddress,
		TokenAddress:  n.TokenAddress,
		Action:        n.Action,
		AmountTokens:  n.AmountTokens,
		AmountUSD:     n.AmountUSD,
		BlockNumber:   n.BlockNumber,
		Timestamp:     n.Timestamp,
	}
	result := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tx_hash"}, {Name: "wallet_address"}, {Name: "token_address"}, {Name: "action"}},
		DoNothing: true,
	}).Create(&row)
	if result.Error != nil {
		return fmt.Errorf("store: failed to record activity %s/%s/%s: %w", n.TxHash, n.WalletAddress, n.Action, result.Error)
	}
	return nil
}
