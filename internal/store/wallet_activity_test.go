package store

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
)

func TestRecordActivity(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO `wallet_activities`").
		WillReturnResult(sqlmock.NewResult(1, 1))

	amountUSD := decimal.NewFromInt(300)
	err := s.RecordActivity(NewWalletActivity{
		TxHash:        "0xabc",
		WalletAddress: "0xwallet",
		TokenAddress:  "0xtoken",
		Action:        "buy",
		AmountTokens:  decimal.NewFromInt(1000),
		AmountUSD:     &amountUSD,
		BlockNumber:   100,
		Timestamp:     time.Now(),
	})
	if err != nil {
		t.Fatalf("RecordActivity failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}
