package store

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm/clause"
)

const snapshotBucket = 5 * time.Minute

// snapshotBucketStart truncates t down to the enclosing 5-minute bucket,
// resolving spec.md §9's price-snapshot throttling open question: the
// unique key is (token_address, timestamp) and timestamp holds the bucket
// start, so any number of Sync events within the same 5-minute window
// collapse onto one row.
func snapshotBucketStart(t time.Time) time.Time {
	return t.UTC().Truncate(snapshotBucket)
}

// NewPriceSnapshot is the input to RecordSnapshot. Timestamp is the raw
// event time; RecordSnapshot truncates it to the bucket boundary.
type NewPriceSnapshot struct {
	TokenAddress string
	Timestamp    time.Time
	PriceUSD     decimal.Decimal
	PriceNative  decimal.Decimal
	LiquidityUSD decimal.Decimal
	VolumeUSD    decimal.Decimal
	MarketCapUSD decimal.Decimal
	HolderCount  int64
}

// RecordSnapshot upserts the price snapshot for the 5-minute bucket
// containing n.Timestamp, replacing any existing row for that bucket with
// the latest values (spec.md §4.3 Sync handler, step 5).
func (s *Store) RecordSnapshot(n NewPriceSnapshot) error {
	bucket := snapshotBucketStart(n.Timestamp)
	row := PriceSnapshot{
		TokenAddress: n.TokenAddress,
		Timestamp:    bucket,
		PriceUSD:     n.PriceUSD,
		PriceNative:  n.PriceNative,
		LiquidityUSD: n.LiquidityUSD,
		VolumeUSD:    n.VolumeUSD,
		MarketCapUSD: n.MarketCapUSD,
		HolderCount:  n.HolderCount,
	}
	result := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "token_address"}, {Name: "timestamp"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"price_usd", "price_native", "liquidity_usd", "volume_usd", "market_cap_usd", "holder_count",
		}),
	}).Create(&row)
	if result.Error != nil {
		return fmt.Errorf("store: failed to record snapshot for %s: %w", n.TokenAddress, result.Error)
	}
	return nil
}
