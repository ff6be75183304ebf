package aggregates

import (
	"errors"
	"fmt"
	"testing"
)

func TestCodeOfEachVariant(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"invalid value", InvalidValue("title", "must not be blank"), CodeInvalidValue},
		{"not found", NotFound("Ticket", "t-1"), CodeNotFound},
		{"conflict", Conflict("Ticket already exists: t-1"), CodeConflict},
		{"invariant", InvariantViolation("project.singleActiveMilestone", "only one active milestone"), CodeInvariantViolation},
		{"transition", InvalidTransition("Ticket", "NEW", "DONE", "complete allowed only from IN_PROGRESS"), CodeInvalidTransition},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CodeOf(tc.err); got != tc.want {
				t.Fatalf("code: want=%s got=%s", tc.want, got)
			}
			if !IsCode(tc.err, tc.want) {
				t.Fatalf("IsCode(%s) should be true", tc.want)
			}
		})
	}
}

func TestCodeOfSurvivesWrapping(t *testing.T) {
	base := NotFound("Project", "p-1")
	wrapped := fmt.Errorf("load project: %w", base)
	if !IsCode(wrapped, CodeNotFound) {
		t.Fatalf("expected not_found through wrap, got=%q", CodeOf(wrapped))
	}
	de, ok := AsDomainError(wrapped)
	if !ok {
		t.Fatalf("AsDomainError: expected ok")
	}
	if de.UserMessage() != "Project not found: p-1" {
		t.Fatalf("user message: got=%q", de.UserMessage())
	}
}

func TestCodeOfNonDomainError(t *testing.T) {
	if got := CodeOf(errors.New("boom")); got != "" {
		t.Fatalf("plain error code: want empty got=%q", got)
	}
	if _, ok := AsDomainError(nil); ok {
		t.Fatalf("nil should not be a domain error")
	}
}

func TestIsInvariantMatchesName(t *testing.T) {
	err := InvariantViolation("ticket.assignee", "actor is not an assignee")
	if !IsInvariant(err, "ticket.assignee") {
		t.Fatalf("expected ticket.assignee")
	}
	if IsInvariant(err, "bug.assignee") {
		t.Fatalf("unexpected match for bug.assignee")
	}
	if IsInvariant(Conflict("x"), "ticket.assignee") {
		t.Fatalf("conflict is not an invariant violation")
	}
}

func TestProjectContractIsRepositoryOwned(t *testing.T) {
	if !ProjectContract.RequiresRepositoryOwnedTx() {
		t.Fatalf("project contract must require repository-owned writes")
	}
}
