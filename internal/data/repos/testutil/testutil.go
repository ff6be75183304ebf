package testutil

import (
	"testing"

	"gorm.io/gorm"

	"github.com/yungbote/tracker-backend/internal/data/db"
	"github.com/yungbote/tracker-backend/internal/platform/logger"
)

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	return logger.Nop()
}

// DB returns a fresh, migrated in-memory SQLite index database.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()
	svc, err := db.NewIndexService(db.IndexConfig{Driver: db.DriverSQLite, DSN: ":memory:"}, Logger(tb))
	if err != nil {
		tb.Fatalf("failed to init test db: %v", err)
	}
	tb.Cleanup(func() { _ = svc.Close() })
	return svc.DB()
}

// Tx opens a transaction that is rolled back when the test ends.
func Tx(tb testing.TB, db *gorm.DB) *gorm.DB {
	tb.Helper()
	tx := db.Begin()
	if tx.Error != nil {
		tb.Fatalf("begin tx: %v", tx.Error)
	}
	tb.Cleanup(func() {
		_ = tx.Rollback().Error
	})
	return tx
}
