package store

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm/clause"
)

// NewSwap is the input to InsertSwapIfNew.
type NewSwap struct {
	TxHash        string
	LogIndex      uint
	PairAddress   string
	TokenAddress  string
	WalletAddress string
	TradeType     string
	AmountTokens  decimal.Decimal
	AmountNative  decimal.Decimal
	AmountUSD     decimal.Decimal
	PriceUSD      decimal.Decimal
	IsWhale       bool
	BlockNumber   int64
	Timestamp     time.Time
}

// InsertSwapIfNew inserts a Swap row, relying on ON CONFLICT(tx_hash,
// log_index) DO NOTHING for idempotence (spec.md §4.3 Swap handler, step
// 5). inserted reports whether a new row was actually written — callers
// must gate IncrementTradeCounters on this to avoid double-counting a
// redelivered log (spec.md §9 open question).
func (s *Store) InsertSwapIfNew(n NewSwap) (inserted bool, err error) {
	row := Swap{
		TxHash:        n.TxHash,
		LogIndex:      n.LogIndex,
		PairAddress:   n.PairAddress,
		TokenAddress:  n.TokenAddress,
		WalletAddress: n.WalletAddress,
		TradeType:     n.TradeType,
		AmountTokens:  n.AmountTokens,
		AmountNative:  n.AmountNative,
		AmountUSD:     n.AmountUSD,
		PriceUSD:      n.PriceUSD,
		IsWhale:       n.IsWhale,
		BlockNumber:   n.BlockNumber,
		Timestamp:     n.Timestamp,
	}
	result := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tx_hash"}, {Name: "log_index"}},
		DoNothing: true,
	}).Create(&row)
	if result.Error != nil {
		return false, fmt.Errorf("store: failed to insert swap %s:%d: %w", n.TxHash, n.LogIndex, result.Error)
	}
	return result.RowsAffected > 0, nil
}
