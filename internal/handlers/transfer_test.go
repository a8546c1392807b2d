package handlers

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/gorm"

	"github.com/beescan/indexer/internal/events"
)

func TestHandleTransfer_SkipsUntrackedToken(t *testing.T) {
	c, mock := newMockContext(t)
	mock.ExpectQuery("SELECT (.+) FROM `tokens`").WillReturnRows(sqlmock.NewRows([]string{"id", "address"}))

	ev := &events.Transfer{Token: testTokenAddr, Value: "0x1"}
	if err := c.HandleTransfer(context.Background(), ev); err != nil {
		t.Fatalf("HandleTransfer failed: %v", err)
	}
}

func TestHandleTransfer_SkipsZeroValue(t *testing.T) {
	c, mock := newMockContext(t)
	mock.ExpectQuery("SELECT (.+) FROM `tokens`").WillReturnRows(tokenRow())

	ev := &events.Transfer{Token: testTokenAddr, Value: "0x0"}
	if err := c.HandleTransfer(context.Background(), ev); err != nil {
		t.Fatalf("HandleTransfer failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestHandleTransfer_MintOnlyRecordsRecipient(t *testing.T) {
	c, mock := newMockContext(t)

	mock.ExpectQuery("SELECT (.+) FROM `tokens`").WillReturnRows(tokenRow())
	// not a mint skip: recipient upsert path
	mock.ExpectQuery("SELECT (.+) FROM `token_holders`").WillReturnError(gorm.ErrRecordNotFound)
	mock.ExpectExec("INSERT INTO `token_holders`").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO `wallet_activities`").WillReturnResult(sqlmock.NewResult(1, 1))

	ev := &events.Transfer{
		Token:       testTokenAddr,
		From:        "0x0000000000000000000000000000000000000000",
		To:          "0x5555555555555555555555555555555555555555",
		Value:       "0xde0b6b3a7640000",
		BlockNumber: 101,
		TxHash:      "0xtransfertx",
	}
	if err := c.HandleTransfer(context.Background(), ev); err != nil {
		t.Fatalf("HandleTransfer failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestHandleTransfer_DevSenderEmitsAlert(t *testing.T) {
	c, mock := newMockContext(t)

	mock.ExpectQuery("SELECT (.+) FROM `tokens`").WillReturnRows(tokenRow())
	mock.ExpectQuery("SELECT (.+) FROM `token_holders`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "token_address", "wallet_address", "is_dev"}).
			AddRow(1, testTokenAddr, "0x4444444444444444444444444444444444444444", true))
	mock.ExpectExec("INSERT INTO `wallet_activities`").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("SELECT (.+) FROM `token_holders`").WillReturnError(gorm.ErrRecordNotFound)
	mock.ExpectExec("INSERT INTO `token_holders`").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE `token_holders`").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO `wallet_activities`").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("SELECT count").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec("INSERT INTO `alert_events`").WillReturnResult(sqlmock.NewResult(1, 1))

	ev := &events.Transfer{
		Token:       testTokenAddr,
		From:        "0x4444444444444444444444444444444444444444",
		To:          "0x5555555555555555555555555555555555555555",
		Value:       "0xde0b6b3a7640000",
		BlockNumber: 101,
		TxHash:      "0xtransfertx",
	}
	if err := c.HandleTransfer(context.Background(), ev); err != nil {
		t.Fatalf("HandleTransfer failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
