package handlers

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/beescan/indexer/internal/chainreg"
	"github.com/beescan/indexer/internal/store"
)

// newMockContext wires a Context to a go-sqlmock connection, mirroring
// internal/store's own newMockStore test helper.
func newMockContext(t *testing.T) (*Context, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("failed to create gorm DB: %v", err)
	}

	c := NewContext(store.New(gormDB), nil, nil, chainreg.BSC.BaseTokens(), 600, 5000, nil)
	return c, mock
}
