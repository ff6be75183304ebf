package aggregates

import (
	"context"
	"errors"
	"testing"
	"time"

	domainagg "github.com/yungbote/tracker-backend/internal/domain/aggregates"
)

func TestExecuteWriteObservesSuccessStatus(t *testing.T) {
	hooks := &spyHooks{}

	err := executeWrite(context.Background(), hooks, "aggregate.test.success", func(context.Context) error { return nil })
	if err != nil {
		t.Fatalf("executeWrite success: %v", err)
	}
	if len(hooks.Operations) != 1 {
		t.Fatalf("operations count: want=1 got=%d", len(hooks.Operations))
	}
	if hooks.Operations[0].Status != "success" {
		t.Fatalf("operation status: want=success got=%s", hooks.Operations[0].Status)
	}
}

func TestExecuteWriteObservesInvariantViolationStatus(t *testing.T) {
	hooks := &spyHooks{}

	err := executeWrite(context.Background(), hooks, "aggregate.test.invariant", func(context.Context) error {
		return domainagg.InvariantViolation("project.singleActiveMilestone", "another ACTIVE milestone already exists")
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domainagg.IsCode(err, domainagg.CodeInvariantViolation) {
		t.Fatalf("expected invariant violation code, got=%v", err)
	}
	if len(hooks.Operations) != 1 {
		t.Fatalf("operations count: want=1 got=%d", len(hooks.Operations))
	}
	if hooks.Operations[0].Status != string(domainagg.CodeInvariantViolation) {
		t.Fatalf("operation status: want=%s got=%s", domainagg.CodeInvariantViolation, hooks.Operations[0].Status)
	}
	if len(hooks.Conflicts) != 0 {
		t.Fatalf("conflict hooks should be empty, got=%+v", hooks.Conflicts)
	}
}

func TestExecuteWriteTracksConflicts(t *testing.T) {
	hooks := &spyHooks{}
	err := executeWrite(context.Background(), hooks, "aggregate.test.conflict", func(context.Context) error {
		return domainagg.Conflict("Project key already exists: PRJ-000001")
	})
	if !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("expected conflict code, got=%v", err)
	}
	if len(hooks.Conflicts) != 1 || hooks.Conflicts[0] != "aggregate.test.conflict" {
		t.Fatalf("conflict hooks: %+v", hooks.Conflicts)
	}
	if len(hooks.Operations) != 1 || hooks.Operations[0].Status != string(domainagg.CodeConflict) {
		t.Fatalf("unexpected op status: %+v", hooks.Operations)
	}
}

func TestExecuteWriteMapsInfrastructureErrors(t *testing.T) {
	hooks := &spyHooks{}
	err := executeWrite(context.Background(), hooks, "", func(context.Context) error {
		return errors.New("disk on fire")
	})
	if !domainagg.IsInvariant(err, "aggregate.write") {
		t.Fatalf("unnamed op should map to aggregate.write invariant, got=%v", err)
	}
}

func TestWriteStatus(t *testing.T) {
	if got := writeStatus(nil); got != "success" {
		t.Fatalf("nil status: want=success got=%s", got)
	}
	if got := writeStatus(domainagg.NotFound("Project", "x")); got != string(domainagg.CodeNotFound) {
		t.Fatalf("not found status: got=%s", got)
	}
	if got := writeStatus(errors.New("raw")); got != "failure" {
		t.Fatalf("raw status: want=failure got=%s", got)
	}
}

type spyHooks struct {
	Operations []spyOperation
	Conflicts  []string
}

type spyOperation struct {
	Name   string
	Status string
}

func (h *spyHooks) ObserveOperation(name, status string, _ time.Duration) {
	h.Operations = append(h.Operations, spyOperation{Name: name, Status: status})
}

func (h *spyHooks) IncConflict(name string) {
	h.Conflicts = append(h.Conflicts, name)
}
