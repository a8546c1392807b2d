package store

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
)

func TestInsertSwapIfNew_GenuineInsert(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO `swaps`").
		WillReturnResult(sqlmock.NewResult(1, 1))

	inserted, err := s.InsertSwapIfNew(NewSwap{
		TxHash:        "0xabc",
		LogIndex:      0,
		PairAddress:   "0xpair",
		TokenAddress:  "0xtoken",
		WalletAddress: "0xwallet",
		TradeType:     "buy",
		AmountTokens:  decimal.NewFromInt(1000),
		AmountNative:  decimal.NewFromFloat(0.5),
		AmountUSD:     decimal.NewFromInt(300),
		PriceUSD:      decimal.NewFromFloat(0.3),
		BlockNumber:   123,
		Timestamp:     time.Now(),
	})
	if err != nil {
		t.Fatalf("InsertSwapIfNew failed: %v", err)
	}
	if !inserted {
		t.Error("expected inserted=true for a fresh (tx_hash, log_index)")
	}
}

func TestInsertSwapIfNew_Redelivered(t *testing.T) {
	s, mock := newMockStore(t)

	// ON CONFLICT DO NOTHING with a pre-existing row reports 0 rows
	// affected — callers must treat this as "do not increment counters"
	// rather than an error.
	mock.ExpectExec("INSERT INTO `swaps`").
		WillReturnResult(sqlmock.NewResult(0, 0))

	inserted, err := s.InsertSwapIfNew(NewSwap{
		TxHash:        "0xabc",
		LogIndex:      0,
		PairAddress:   "0xpair",
		TokenAddress:  "0xtoken",
		WalletAddress: "0xwallet",
		TradeType:     "buy",
		AmountTokens:  decimal.NewFromInt(1000),
		AmountNative:  decimal.NewFromFloat(0.5),
		AmountUSD:     decimal.NewFromInt(300),
		PriceUSD:      decimal.NewFromFloat(0.3),
		BlockNumber:   123,
		Timestamp:     time.Now(),
	})
	if err != nil {
		t.Fatalf("InsertSwapIfNew failed: %v", err)
	}
	if inserted {
		t.Error("expected inserted=false for a redelivered (tx_hash, log_index)")
	}
}
