package db

import (
	"context"
	"testing"

	"github.com/yungbote/tracker-backend/internal/platform/logger"
)

func TestNewIndexServiceMigratesSQLite(t *testing.T) {
	svc, err := NewIndexService(IndexConfig{Driver: DriverSQLite}, logger.Nop())
	if err != nil {
		t.Fatalf("NewIndexService: %v", err)
	}
	t.Cleanup(func() { _ = svc.Close() })
	if err := svc.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}

	for _, table := range []string{"ticket_index", "ticket_assignee_index", "bug_report_index"} {
		if !svc.DB().Migrator().HasTable(table) {
			t.Fatalf("missing table %s", table)
		}
	}
}

func TestDialectorRejectsUnknownDriver(t *testing.T) {
	if _, err := dialectorFor(IndexConfig{Driver: "oracle"}); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
	if _, err := dialectorFor(IndexConfig{Driver: DriverPostgres}); err == nil {
		t.Fatalf("expected error for postgres without dsn")
	}
}
