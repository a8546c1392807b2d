package store

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store is a typed accessor over the relational store, following the
// teacher's MySQLRecorder: a thin wrapper around *gorm.DB with one method
// family per entity and AutoMigrate-on-construction.
type Store struct {
	db *gorm.DB
}

// Open connects to MySQL via dsn (the teacher's DATABASE_URL format:
// "user:pass@tcp(host:port)/dbname?charset=utf8mb4&parseTime=True&loc=Local")
// and migrates every entity in models.go.
func Open(dsn string, maxOpenConns int) (*Store, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("store: failed to connect to MySQL: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("store: failed to get underlying DB: %w", err)
	}
	if maxOpenConns <= 0 {
		maxOpenConns = 5
	}
	sqlDB.SetMaxOpenConns(maxOpenConns)

	s := &Store{db: db}
	if err := s.autoMigrate(); err != nil {
		return nil, err
	}
	return s, nil
}

// New wraps an already-open *gorm.DB without running migrations — used by
// tests driving GORM against go-sqlmock, as in the teacher's
// internal/db/transaction_recorder_test.go.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) autoMigrate() error {
	if err := s.db.AutoMigrate(
		&Pair{},
		&Token{},
		&TokenHolder{},
		&Swap{},
		&WalletActivity{},
		&PriceSnapshot{},
		&AlertEvent{},
		&LpLock{},
		&SyncCursor{},
		&RawLog{},
	); err != nil {
		return fmt.Errorf("store: failed to migrate schema: %w", err)
	}
	return nil
}

// DB exposes the underlying *gorm.DB for advanced queries, as in the
// teacher's GetDB.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("store: failed to get underlying DB: %w", err)
	}
	return sqlDB.Close()
}
