package store

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
)

func TestSnapshotBucketStart_TruncatesToFiveMinutes(t *testing.T) {
	in := time.Date(2026, 7, 30, 14, 37, 12, 0, time.UTC)
	want := time.Date(2026, 7, 30, 14, 35, 0, 0, time.UTC)
	if got := snapshotBucketStart(in); !got.Equal(want) {
		t.Errorf("snapshotBucketStart(%v) = %v, want %v", in, got, want)
	}
}

func TestRecordSnapshot_UpsertsOnBucket(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO `price_snapshots`").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := s.RecordSnapshot(NewPriceSnapshot{
		TokenAddress: "0xtoken",
		Timestamp:    time.Date(2026, 7, 30, 14, 37, 12, 0, time.UTC),
		PriceUSD:     decimal.NewFromFloat(0.001234),
		LiquidityUSD: decimal.NewFromInt(50000),
	})
	if err != nil {
		t.Fatalf("RecordSnapshot failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}
