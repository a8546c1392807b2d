package store

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestEnqueueLogs_CommitsLogsAndCursorTogether(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `raw_logs`").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE `sync_cursors`").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	logs := []RawLog{{
		TxHash:      "0xabc",
		LogIndex:    0,
		Address:     "0xpair",
		Topic0:      "0xtopic",
		Topics:      "[]",
		Data:        "0x",
		BlockNumber: 100,
	}}
	err := s.EnqueueLogs("pancakeswap_v2_factory", 56, logs, 100)
	if err != nil {
		t.Fatalf("EnqueueLogs failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestEnqueueLogs_RollsBackOnFailure(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `raw_logs`").WillReturnError(sqlmock.ErrCancelled)
	mock.ExpectRollback()

	logs := []RawLog{{TxHash: "0xabc", LogIndex: 0, Address: "0xpair", Topic0: "0xtopic", Topics: "[]", Data: "0x", BlockNumber: 100}}
	err := s.EnqueueLogs("pancakeswap_v2_factory", 56, logs, 100)
	if err == nil {
		t.Error("expected error to propagate and transaction to roll back")
	}
}

func TestDequeueBatch_FIFOOrder(t *testing.T) {
	s, mock := newMockStore(t)

	rows := sqlmock.NewRows([]string{"id", "tx_hash", "log_index"}).
		AddRow(1, "0xa", 0).
		AddRow(2, "0xb", 0)
	mock.ExpectQuery("SELECT (.+) FROM `raw_logs`").WillReturnRows(rows)

	logs, err := s.DequeueBatch(10)
	if err != nil {
		t.Fatalf("DequeueBatch failed: %v", err)
	}
	if len(logs) != 2 || logs[0].ID != 1 || logs[1].ID != 2 {
		t.Errorf("expected FIFO order [1,2], got %+v", logs)
	}
}

func TestDeleteLog(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("DELETE FROM `raw_logs`").WillReturnResult(sqlmock.NewResult(0, 1))

	if err := s.DeleteLog(1); err != nil {
		t.Fatalf("DeleteLog failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}
