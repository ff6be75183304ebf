package response

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/yungbote/tracker-backend/internal/access"
	domainagg "github.com/yungbote/tracker-backend/internal/domain/aggregates"
	"github.com/yungbote/tracker-backend/internal/domain/project"
	"github.com/yungbote/tracker-backend/internal/platform/apierr"
)

func TestDescribeMapsFailureKinds(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"invalid value", domainagg.InvalidValue("title", "must not be blank"), http.StatusBadRequest, "invalid_value"},
		{"not found", domainagg.NotFound("Project", "p-1"), http.StatusNotFound, "not_found"},
		{"conflict", domainagg.Conflict("Login already exists: alice"), http.StatusConflict, "conflict"},
		{"invariant", domainagg.InvariantViolation("project.singleActiveMilestone", "x"), http.StatusUnprocessableEntity, "invariant_violation"},
		{"transition", domainagg.InvalidTransition("Ticket", "NEW", "DONE", "x"), http.StatusConflict, "invalid_transition"},
		{"wrapped", fmt.Errorf("outer: %w", domainagg.NotFound("User", "u")), http.StatusNotFound, "not_found"},
		{"denied", &access.DeniedError{ActorID: project.NewUserID(), ProjectID: project.NewProjectID(), Operation: access.OpCreateMilestone, Role: access.ActorTester}, http.StatusForbidden, "access_denied"},
		{"api error", apierr.New(http.StatusUnauthorized, "missing_actor", errors.New("missing actor")), http.StatusUnauthorized, "missing_actor"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal"},
	}
	for _, tc := range cases {
		status, code, _ := Describe(tc.err)
		if status != tc.status || code != tc.code {
			t.Fatalf("%s: want=%d/%s got=%d/%s", tc.name, tc.status, tc.code, status, code)
		}
	}
}

func TestDescribeHidesInternalMessages(t *testing.T) {
	_, _, msg := Describe(errors.New("pq: password authentication failed"))
	if msg != "internal error" {
		t.Fatalf("internal message leaked: %q", msg)
	}
}
