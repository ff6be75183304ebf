package aggregates

import (
	"context"
	"strings"
	"time"

	domainagg "github.com/yungbote/tracker-backend/internal/domain/aggregates"
)

// executeWrite runs fn, maps its failure into the domain taxonomy and reports
// the outcome to hooks.
func executeWrite(ctx context.Context, hooks Hooks, op string, fn func(ctx context.Context) error) error {
	start := time.Now()
	if hooks == nil {
		hooks = noopHooks{}
	}
	op = strings.TrimSpace(op)
	if op == "" {
		op = "aggregate.write"
	}
	mapped := MapError(op, fn(ctx))

	status := "success"
	if mapped != nil {
		status = writeStatus(mapped)
		if domainagg.IsCode(mapped, domainagg.CodeConflict) {
			hooks.IncConflict(op)
		}
	}
	hooks.ObserveOperation(op, status, time.Since(start))
	return mapped
}

func writeStatus(err error) string {
	if err == nil {
		return "success"
	}
	code := strings.TrimSpace(string(domainagg.CodeOf(err)))
	if code == "" {
		return "failure"
	}
	return code
}
