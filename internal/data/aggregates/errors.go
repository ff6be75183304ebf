package aggregates

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domainagg "github.com/yungbote/tracker-backend/internal/domain/aggregates"
)

// MapError maps infrastructure failures into the domain error taxonomy.
// Domain errors pass through untouched.
func MapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := domainagg.AsDomainError(err); ok {
		return err
	}
	op = strings.TrimSpace(op)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domainagg.NotFound("Record", op)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return domainagg.InvariantViolation(op+".cancelled", err.Error())
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch strings.TrimSpace(pgErr.Code) {
		case "23505": // unique_violation
			return domainagg.Conflict(op + ": " + pgErr.Message)
		case "23503": // foreign_key_violation
			return domainagg.InvariantViolation(op+".foreignKey", pgErr.Message)
		}
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "duplicate key"),
		strings.Contains(msg, "unique constraint"),
		strings.Contains(msg, "already exists"):
		return domainagg.Conflict(op + ": " + err.Error())
	default:
		return domainagg.InvariantViolation(op, err.Error())
	}
}
