// Package access decides which project role may invoke which operation.
// Denials are reported as *DeniedError, which is not a domain error.
package access

import (
	"errors"
	"fmt"

	"github.com/yungbote/tracker-backend/internal/domain/project"
)

type Operation string

const (
	OpAssignTeamLead        Operation = "ASSIGN_TEAM_LEAD"
	OpAddDeveloper          Operation = "ADD_DEVELOPER"
	OpAddTester             Operation = "ADD_TESTER"
	OpCreateMilestone       Operation = "CREATE_MILESTONE"
	OpActivateMilestone     Operation = "ACTIVATE_MILESTONE"
	OpCloseMilestone        Operation = "CLOSE_MILESTONE"
	OpCreateTicket          Operation = "CREATE_TICKET"
	OpAssignTicketDeveloper Operation = "ASSIGN_TICKET_DEVELOPER"
	OpCheckTicketCompletion Operation = "CHECK_TICKET_COMPLETION"
	OpTicketAccept          Operation = "TICKET_ACCEPT"
	OpTicketStart           Operation = "TICKET_START"
	OpTicketComplete        Operation = "TICKET_COMPLETE"
	OpCreateBugReport       Operation = "CREATE_BUG_REPORT"
	OpAssignBugReport       Operation = "ASSIGN_BUG_REPORT"
	OpFixBugReport          Operation = "FIX_BUG_REPORT"
	OpTestBugReport         Operation = "TEST_BUG_REPORT"
	OpCloseBugReport        Operation = "CLOSE_BUG_REPORT"
)

// Operations lists the full catalog in declaration order.
var Operations = []Operation{
	OpAssignTeamLead, OpAddDeveloper, OpAddTester,
	OpCreateMilestone, OpActivateMilestone, OpCloseMilestone,
	OpCreateTicket, OpAssignTicketDeveloper, OpCheckTicketCompletion,
	OpTicketAccept, OpTicketStart, OpTicketComplete,
	OpCreateBugReport, OpAssignBugReport, OpFixBugReport, OpTestBugReport, OpCloseBugReport,
}

// ActorRole is a project role, or Outsider for non-members.
type ActorRole string

const (
	ActorManager   ActorRole = ActorRole(project.RoleManager)
	ActorTeamLead  ActorRole = ActorRole(project.RoleTeamLead)
	ActorDeveloper ActorRole = ActorRole(project.RoleDeveloper)
	ActorTester    ActorRole = ActorRole(project.RoleTester)
	ActorOutsider  ActorRole = "OUTSIDER"
)

// RoleIn resolves the actor's role in p.
func RoleIn(p *project.Project, actor project.UserID) ActorRole {
	if p == nil {
		return ActorOutsider
	}
	r, ok := p.RoleOf(actor)
	if !ok {
		return ActorOutsider
	}
	return ActorRole(r)
}

type opSet map[Operation]struct{}

func setOf(ops ...Operation) opSet {
	s := make(opSet, len(ops))
	for _, op := range ops {
		s[op] = struct{}{}
	}
	return s
}

// permissions is the static role table. Roles missing here (Outsider) get nothing.
var permissions = map[ActorRole]opSet{
	ActorManager: setOf(
		OpAssignTeamLead, OpAddDeveloper, OpAddTester,
		OpCreateMilestone, OpActivateMilestone, OpCloseMilestone,
		OpCreateTicket, OpAssignTicketDeveloper, OpCheckTicketCompletion,
		OpAssignBugReport, OpCloseBugReport,
	),
	ActorTeamLead: setOf(
		OpCreateTicket, OpAssignTicketDeveloper, OpCheckTicketCompletion,
		OpTicketAccept, OpTicketStart, OpTicketComplete,
		OpAssignBugReport,
	),
	ActorDeveloper: setOf(
		OpTicketAccept, OpTicketStart, OpTicketComplete,
		OpCreateBugReport, OpFixBugReport,
	),
	ActorTester: setOf(
		OpCreateBugReport, OpTestBugReport, OpCloseBugReport,
	),
}

func IsAllowed(role ActorRole, op Operation) bool {
	ops, ok := permissions[role]
	if !ok {
		return false
	}
	_, ok = ops[op]
	return ok
}

// DeniedError reports a rejected operation together with the resolved role.
type DeniedError struct {
	ActorID   project.UserID
	ProjectID project.ProjectID
	Operation Operation
	Role      ActorRole
}

const CodeAccessDenied = "access_denied"

func (e *DeniedError) Code() string { return CodeAccessDenied }

func (e *DeniedError) UserMessage() string {
	return fmt.Sprintf("Access denied: role=%s, op=%s, actor=%s, project=%s", e.Role, e.Operation, e.ActorID, e.ProjectID)
}

func (e *DeniedError) Error() string { return CodeAccessDenied + ": " + e.UserMessage() }

func IsDenied(err error) bool {
	var de *DeniedError
	return errors.As(err, &de)
}

// Gate checks the role table before any aggregate mutation is attempted.
type Gate struct{}

func NewGate() Gate { return Gate{} }

// Authorize returns nil when role may run op, a *DeniedError otherwise.
func (Gate) Authorize(actor project.UserID, projectID project.ProjectID, role ActorRole, op Operation) error {
	if role == ActorOutsider || !IsAllowed(role, op) {
		return &DeniedError{ActorID: actor, ProjectID: projectID, Operation: op, Role: role}
	}
	return nil
}
