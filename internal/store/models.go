// Package store is the typed accessor layer over the relational store
// (spec.md §4's "Entity store"): GORM models plus upsert-safe methods that
// enforce the invariants from spec.md §3. Every model follows the
// teacher's AssetSnapshotRecord shape — autoincrement id, explicit
// TableName(), and whichever of CreatedAt/UpdatedAt the entity needs
// (PriceSnapshot carries neither) — with decimal.Decimal fields
// mapped to a DECIMAL column instead of a comment-annotated varchar, since
// shopspring/decimal natively implements sql.Scanner/driver.Valuer.
package store

import (
	"time"

	"github.com/shopspring/decimal"
)

const decimalColumn = "type:decimal(60,18)"

// Pair is a DEX liquidity pool, per spec.md §3.
type Pair struct {
	ID              uint      `gorm:"primaryKey;autoIncrement"`
	Address         string    `gorm:"uniqueIndex;size:42;not null"`
	Token0          string    `gorm:"size:42;not null;index"`
	Token1          string    `gorm:"size:42;not null;index"`
	Factory         string    `gorm:"size:42;not null"`
	Reserve0        decimal.Decimal `gorm:"type:decimal(60,18)"`
	Reserve1        decimal.Decimal `gorm:"type:decimal(60,18)"`
	BaseTokenIndex  int16     `gorm:"not null"`
	BlockNumber     int64     `gorm:"not null"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`
}

func (Pair) TableName() string { return "pairs" }

// Token is a tracked memecoin asset, per spec.md §3.
type Token struct {
	ID                uint      `gorm:"primaryKey;autoIncrement"`
	Address           string    `gorm:"uniqueIndex;size:42;not null"`
	Name              *string   `gorm:"size:255"`
	Symbol            *string   `gorm:"size:64"`
	Decimals          *uint8
	TotalSupply       *decimal.Decimal `gorm:"type:decimal(60,0)"`
	PairAddress       *string   `gorm:"size:42;index"`
	Creator           *string   `gorm:"size:42"`
	BlockNumber       *int64

	PriceUSD        decimal.Decimal `gorm:"type:decimal(40,18);not null;default:0"`
	PriceNative     decimal.Decimal `gorm:"type:decimal(40,18);not null;default:0"`
	PriceChange1h   float64
	PriceChange24h  float64
	MarketCapUSD    decimal.Decimal `gorm:"type:decimal(30,2);not null;default:0"`
	LiquidityUSD    decimal.Decimal `gorm:"type:decimal(30,2);not null;default:0"`
	Volume1hUSD     decimal.Decimal `gorm:"type:decimal(30,2);not null;default:0"`
	Volume24hUSD    decimal.Decimal `gorm:"type:decimal(30,2);not null;default:0"`
	Trades1h        int64
	Trades24h       int64
	Buys1h          int64
	Sells1h         int64

	HolderCount      int64
	HolderCount1hAgo int64
	Top10Percent     float64
	DevPercent       float64
	SniperRatio      float64

	LPLocked           bool
	LPLockPercent      float64
	LPUnlockDate       *time.Time
	OwnershipRenounced bool

	BeeScore      int
	SafetyScore   int
	TractionScore int

	LastUpdated time.Time
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (Token) TableName() string { return "tokens" }

// TokenHolder is a (token, wallet) ownership row, per spec.md §3.
type TokenHolder struct {
	ID              uint      `gorm:"primaryKey;autoIncrement"`
	TokenAddress    string    `gorm:"size:42;not null;uniqueIndex:idx_token_holder"`
	WalletAddress   string    `gorm:"size:42;not null;uniqueIndex:idx_token_holder"`
	Balance         decimal.Decimal `gorm:"type:decimal(60,18);not null"`
	PercentOfSupply float64
	IsDev           bool
	IsSniper        bool
	IsContract      bool
	FirstBuyBlock   *int64
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`
}

func (TokenHolder) TableName() string { return "token_holders" }

// Swap is a single trade, unique by (tx_hash, log_index), per spec.md §3.
type Swap struct {
	ID            uint      `gorm:"primaryKey;autoIncrement"`
	TxHash        string    `gorm:"size:66;not null;uniqueIndex:idx_swap_tx"`
	LogIndex      uint      `gorm:"not null;uniqueIndex:idx_swap_tx"`
	PairAddress   string    `gorm:"size:42;not null;index"`
	TokenAddress  string    `gorm:"size:42;not null;index"`
	WalletAddress string    `gorm:"size:42;not null;index"`
	TradeType     string    `gorm:"size:8;not null"` // "buy" | "sell"
	AmountTokens  decimal.Decimal `gorm:"type:decimal(60,18);not null"`
	AmountNative  decimal.Decimal `gorm:"type:decimal(60,18);not null"`
	AmountUSD     decimal.Decimal `gorm:"type:decimal(30,2);not null"`
	PriceUSD      decimal.Decimal `gorm:"type:decimal(40,18);not null"`
	IsWhale       bool
	BlockNumber   int64     `gorm:"not null"`
	Timestamp     time.Time `gorm:"not null"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
}

func (Swap) TableName() string { return "swaps" }

// WalletActivity is an append-only per-wallet event, per spec.md §3.
type WalletActivity struct {
	ID            uint      `gorm:"primaryKey;autoIncrement"`
	TxHash        string    `gorm:"size:66;not null;uniqueIndex:idx_activity"`
	WalletAddress string    `gorm:"size:42;not null;uniqueIndex:idx_activity"`
	TokenAddress  string    `gorm:"size:42;not null;uniqueIndex:idx_activity"`
	Action        string    `gorm:"size:16;not null;uniqueIndex:idx_activity"` // buy|sell|transfer_in|transfer_out
	AmountTokens  decimal.Decimal `gorm:"type:decimal(60,18)"`
	AmountUSD     *decimal.Decimal `gorm:"type:decimal(30,2)"`
	BlockNumber   int64     `gorm:"not null"`
	Timestamp     time.Time `gorm:"not null"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
}

func (WalletActivity) TableName() string { return "wallet_activities" }

// PriceSnapshot is a (token, timestamp) time-series point, per spec.md §3.
type PriceSnapshot struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"`
	TokenAddress string    `gorm:"size:42;not null;uniqueIndex:idx_snapshot"`
	Timestamp    time.Time `gorm:"not null;uniqueIndex:idx_snapshot"`
	PriceUSD     decimal.Decimal `gorm:"type:decimal(40,18)"`
	PriceNative  decimal.Decimal `gorm:"type:decimal(40,18)"`
	LiquidityUSD decimal.Decimal `gorm:"type:decimal(30,2)"`
	VolumeUSD    decimal.Decimal `gorm:"type:decimal(30,2)"`
	MarketCapUSD decimal.Decimal `gorm:"type:decimal(30,2)"`
	HolderCount  int64
}

func (PriceSnapshot) TableName() string { return "price_snapshots" }

// AlertType enumerates the notification classes from spec.md §3.
type AlertType string

const (
	AlertNewToken     AlertType = "new_token"
	AlertWhaleBuy     AlertType = "whale_buy"
	AlertWhaleSell    AlertType = "whale_sell"
	AlertPricePump    AlertType = "price_pump"
	AlertPriceDump    AlertType = "price_dump"
	AlertLPLocked     AlertType = "lp_locked"
	AlertLPUnlocking  AlertType = "lp_unlocking"
	AlertHighBeeScore AlertType = "high_bee_score"
	AlertDevSell      AlertType = "dev_sell"
)

// AlertEvent is an integer-id notification record, per spec.md §3.
type AlertEvent struct {
	ID            uint      `gorm:"primaryKey;autoIncrement"`
	AlertType     AlertType `gorm:"size:32;not null;index"`
	TokenAddress  string    `gorm:"size:42;not null;index"`
	TokenSymbol   *string   `gorm:"size:64"`
	WalletAddress *string   `gorm:"size:42"`
	Title         string    `gorm:"size:255;not null"`
	Message       *string   `gorm:"size:1024"`
	Processed     bool
	ProcessedAt   *time.Time
	CreatedAt     time.Time `gorm:"autoCreateTime;index"`
}

func (AlertEvent) TableName() string { return "alert_events" }

// LpLock is a liquidity lock record, per spec.md §3.
type LpLock struct {
	ID              uint      `gorm:"primaryKey;autoIncrement"`
	TokenAddress    string    `gorm:"size:42;not null;index"`
	PairAddress     string    `gorm:"size:42;not null;index"`
	LockerContract  string    `gorm:"size:42;not null"`
	LockerName      string    `gorm:"size:32"`
	LockedAmount    decimal.Decimal `gorm:"type:decimal(60,18)"`
	LockedPercent   float64
	LockDate        time.Time
	UnlockDate      time.Time
	TxHash          string    `gorm:"size:66;uniqueIndex"`
	BlockNumber     int64
	IsActive        bool
	CreatedAt       time.Time `gorm:"autoCreateTime"`
}

func (LpLock) TableName() string { return "lp_locks" }

// SyncCursor is the per-filter resumable ingestion position, per
// spec.md §3.
type SyncCursor struct {
	ID               uint   `gorm:"primaryKey;autoIncrement"`
	FilterKey        string `gorm:"size:64;not null;uniqueIndex:idx_cursor"`
	ChainID          int64  `gorm:"not null;uniqueIndex:idx_cursor"`
	LastSyncedBlock  int64  `gorm:"not null"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime"`
}

func (SyncCursor) TableName() string { return "sync_cursors" }

// RawLog is an undecoded entry in the staging queue between the Listener
// and the Processor, per spec.md §2/§3.
type RawLog struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"`
	TxHash      string `gorm:"size:66;not null;uniqueIndex:idx_raw_log"`
	LogIndex    uint   `gorm:"not null;uniqueIndex:idx_raw_log"`
	Address     string `gorm:"size:42;not null"`
	Topic0      string `gorm:"size:66;not null;index"`
	Topics      string `gorm:"type:text;not null"` // JSON array of all topics
	Data        string `gorm:"type:text;not null"` // 0x-prefixed hex
	BlockNumber int64  `gorm:"not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (RawLog) TableName() string { return "raw_logs" }
