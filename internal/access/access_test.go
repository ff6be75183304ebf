package access

import (
	"testing"
	"time"

	domainagg "github.com/yungbote/tracker-backend/internal/domain/aggregates"
	"github.com/yungbote/tracker-backend/internal/domain/project"
)

func TestRoleTable(t *testing.T) {
	allowed := map[ActorRole][]Operation{
		ActorManager: {
			OpAssignTeamLead, OpAddDeveloper, OpAddTester, OpCreateMilestone, OpActivateMilestone,
			OpCloseMilestone, OpCreateTicket, OpAssignTicketDeveloper, OpCheckTicketCompletion,
			OpAssignBugReport, OpCloseBugReport,
		},
		ActorTeamLead: {
			OpCreateTicket, OpAssignTicketDeveloper, OpCheckTicketCompletion,
			OpTicketAccept, OpTicketStart, OpTicketComplete, OpAssignBugReport,
		},
		ActorDeveloper: {OpTicketAccept, OpTicketStart, OpTicketComplete, OpCreateBugReport, OpFixBugReport},
		ActorTester:    {OpCreateBugReport, OpTestBugReport, OpCloseBugReport},
		ActorOutsider:  nil,
	}
	for role, ops := range allowed {
		want := map[Operation]bool{}
		for _, op := range ops {
			want[op] = true
		}
		for _, op := range Operations {
			if got := IsAllowed(role, op); got != want[op] {
				t.Fatalf("IsAllowed(%s, %s): want=%v got=%v", role, op, want[op], got)
			}
		}
	}
}

func TestGateDeniesTesterMilestoneCreation(t *testing.T) {
	actor, pid := project.NewUserID(), project.NewProjectID()
	err := NewGate().Authorize(actor, pid, ActorTester, OpCreateMilestone)
	if err == nil {
		t.Fatalf("tester must not create milestones")
	}
	de, ok := err.(*DeniedError)
	if !ok {
		t.Fatalf("error type: want=*DeniedError got=%T", err)
	}
	if de.ActorID != actor || de.ProjectID != pid || de.Operation != OpCreateMilestone || de.Role != ActorTester {
		t.Fatalf("denial payload: %+v", de)
	}
	if _, isDomain := domainagg.AsDomainError(err); isDomain {
		t.Fatalf("access denial must not be a domain error")
	}
	if !IsDenied(err) {
		t.Fatalf("IsDenied: want=true")
	}

	if err := NewGate().Authorize(actor, pid, ActorManager, OpCreateMilestone); err != nil {
		t.Fatalf("manager create milestone: %v", err)
	}
}

func TestGateDeniesOutsiderEverything(t *testing.T) {
	g := NewGate()
	for _, op := range Operations {
		err := g.Authorize(project.NewUserID(), project.NewProjectID(), ActorOutsider, op)
		if !IsDenied(err) {
			t.Fatalf("outsider %s: want denied got=%v", op, err)
		}
	}
}

func TestRoleInResolvesMembership(t *testing.T) {
	mgr, dev := project.NewUserID(), project.NewUserID()
	p, err := project.NewProject(project.NewProjectID(), "K", "P", "", mgr, time.Now())
	if err != nil {
		t.Fatalf("NewProject: %v", err)
	}
	if p, err = p.AddDeveloper(dev, time.Now()); err != nil {
		t.Fatalf("AddDeveloper: %v", err)
	}
	cases := map[project.UserID]ActorRole{
		mgr:                 ActorManager,
		dev:                 ActorDeveloper,
		project.NewUserID(): ActorOutsider,
	}
	for u, want := range cases {
		if got := RoleIn(p, u); got != want {
			t.Fatalf("RoleIn(%s): want=%s got=%s", u, want, got)
		}
	}
	if got := RoleIn(nil, mgr); got != ActorOutsider {
		t.Fatalf("RoleIn(nil): want=%s got=%s", ActorOutsider, got)
	}
}
