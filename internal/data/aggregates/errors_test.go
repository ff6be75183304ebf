package aggregates

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domainagg "github.com/yungbote/tracker-backend/internal/domain/aggregates"
)

func TestMapError_NotFound(t *testing.T) {
	err := MapError("index.ticket.find", gorm.ErrRecordNotFound)
	if !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("expected not_found code, got %q (%v)", domainagg.CodeOf(err), err)
	}
}

func TestMapError_PgUniqueViolation(t *testing.T) {
	err := MapError("index.bug.insert", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", Message: "duplicate key value"}))
	if !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("expected conflict code, got %q (%v)", domainagg.CodeOf(err), err)
	}
}

func TestMapError_SqliteUniqueMessage(t *testing.T) {
	err := MapError("index.bug.insert", errors.New("constraint failed: UNIQUE constraint failed: bug_report_index.id (2067)"))
	if !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("expected conflict code, got %q (%v)", domainagg.CodeOf(err), err)
	}
}

func TestMapError_Cancelled(t *testing.T) {
	err := MapError("project.update", context.Canceled)
	if !domainagg.IsInvariant(err, "project.update.cancelled") {
		t.Fatalf("expected cancelled invariant, got %v", err)
	}
}

func TestMapError_Default(t *testing.T) {
	err := MapError("index.ticket.upsert", errors.New("io timeout"))
	if !domainagg.IsInvariant(err, "index.ticket.upsert") {
		t.Fatalf("expected invariant named after op, got %v", err)
	}
}

func TestMapError_PassthroughDomainError(t *testing.T) {
	in := domainagg.NotFound("Ticket", "t-1")
	out := MapError("other", in)
	if out != in {
		t.Fatalf("expected passthrough domain error")
	}
	if MapError("op", nil) != nil {
		t.Fatalf("nil must map to nil")
	}
}
