package project

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	domainagg "github.com/yungbote/tracker-backend/internal/domain/aggregates"
)

// Project is an immutable snapshot of the project aggregate. Every operation
// returns a new snapshot (or the receiver, when the operation is a no-op) and
// never mutates the receiver. Snapshots are safe to share across goroutines.
type Project struct {
	id          ProjectID
	key         ProjectKey
	name        string
	description Description
	managerID   UserID
	teamLeadID  UserID
	members     map[UserID]Role
	milestones  map[MilestoneID]Milestone
	tickets     map[TicketID]Ticket
	bugReports  map[BugReportID]BugReport
	createdAt   time.Time
	updatedAt   time.Time
}

var _ domainagg.Aggregate = (*Project)(nil)

// NewProject creates a project whose only member is its manager.
func NewProject(id ProjectID, rawKey, rawName, rawDescription string, managerID UserID, now time.Time) (*Project, error) {
	if id.IsZero() {
		return nil, domainagg.InvalidValue("projectId", "must not be empty")
	}
	if managerID.IsZero() {
		return nil, domainagg.InvalidValue("managerId", "must not be empty")
	}
	key, err := NewProjectKey(rawKey)
	if err != nil {
		return nil, err
	}
	name, err := boundedNonBlank(fieldProjectName, rawName, maxProjectNameLen)
	if err != nil {
		return nil, err
	}
	desc, err := newDescription(fieldProjectDesc, rawDescription)
	if err != nil {
		return nil, err
	}
	p := &Project{
		id:          id,
		key:         key,
		name:        name,
		description: desc,
		managerID:   managerID,
		members:     map[UserID]Role{managerID: RoleManager},
		milestones:  map[MilestoneID]Milestone{},
		tickets:     map[TicketID]Ticket{},
		bugReports:  map[BugReportID]BugReport{},
		createdAt:   now,
		updatedAt:   now,
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Project) Contract() domainagg.Contract { return domainagg.ProjectContract }

func (p *Project) ID() ProjectID            { return p.id }
func (p *Project) Key() ProjectKey          { return p.key }
func (p *Project) Name() string             { return p.name }
func (p *Project) Description() Description { return p.description }
func (p *Project) ManagerID() UserID        { return p.managerID }
func (p *Project) CreatedAt() time.Time     { return p.createdAt }
func (p *Project) UpdatedAt() time.Time     { return p.updatedAt }

func (p *Project) TeamLeadID() (UserID, bool) { return p.teamLeadID, !p.teamLeadID.IsZero() }

func (p *Project) RoleOf(u UserID) (Role, bool) {
	r, ok := p.members[u]
	return r, ok
}

func (p *Project) IsMember(u UserID) bool {
	_, ok := p.members[u]
	return ok
}

// Members returns a copy of the membership map.
func (p *Project) Members() map[UserID]Role { return maps.Clone(p.members) }

func (p *Project) Milestone(id MilestoneID) (Milestone, bool) {
	m, ok := p.milestones[id]
	return m, ok
}

func (p *Project) Ticket(id TicketID) (Ticket, bool) {
	t, ok := p.tickets[id]
	return t, ok
}

func (p *Project) BugReport(id BugReportID) (BugReport, bool) {
	b, ok := p.bugReports[id]
	return b, ok
}

// Milestones, Tickets and BugReports are ordered by creation time, then id.
func (p *Project) Milestones() []Milestone {
	out := slices.Collect(maps.Values(p.milestones))
	slices.SortFunc(out, func(a, b Milestone) int { return byCreated(a.createdAt, b.createdAt, a.id.String(), b.id.String()) })
	return out
}

func (p *Project) Tickets() []Ticket {
	out := slices.Collect(maps.Values(p.tickets))
	slices.SortFunc(out, func(a, b Ticket) int { return byCreated(a.createdAt, b.createdAt, a.id.String(), b.id.String()) })
	return out
}

func (p *Project) BugReports() []BugReport {
	out := slices.Collect(maps.Values(p.bugReports))
	slices.SortFunc(out, func(a, b BugReport) int { return byCreated(a.createdAt, b.createdAt, a.id.String(), b.id.String()) })
	return out
}

func (p *Project) MemberCount() int    { return len(p.members) }
func (p *Project) MilestoneCount() int { return len(p.milestones) }
func (p *Project) TicketCount() int    { return len(p.tickets) }
func (p *Project) BugReportCount() int { return len(p.bugReports) }

func byCreated(a, b time.Time, aID, bID string) int {
	if c := a.Compare(b); c != 0 {
		return c
	}
	return strings.Compare(aID, bID)
}

// validate enforces the invariants every snapshot must satisfy.
func (p *Project) validate() error {
	if role, ok := p.members[p.managerID]; !ok || role != RoleManager {
		return domainagg.InvariantViolation("project.managerRole", "managerId must have MANAGER role")
	}
	if !p.teamLeadID.IsZero() {
		if role, ok := p.members[p.teamLeadID]; !ok || role != RoleTeamLead {
			return domainagg.InvariantViolation("project.teamLeadRole", "teamLeadId must have TEAM_LEAD role")
		}
	}
	active := 0
	for _, m := range p.milestones {
		if m.status == MilestoneActive {
			active++
		}
	}
	if active > 1 {
		return domainagg.InvariantViolation("project.singleActiveMilestone", "only one ACTIVE milestone allowed")
	}
	return nil
}

// next copies the snapshot, applies edit and re-validates the result.
// edit must replace (never mutate) any map it changes.
func (p *Project) next(now time.Time, edit func(n *Project)) (*Project, error) {
	n := *p
	edit(&n)
	n.updatedAt = now
	if err := n.validate(); err != nil {
		return nil, err
	}
	return &n, nil
}

func with[K comparable, V any](m map[K]V, k K, v V) map[K]V {
	out := make(map[K]V, len(m)+1)
	maps.Copy(out, m)
	out[k] = v
	return out
}

// ---------- Members ----------

func (p *Project) AddDeveloper(u UserID, now time.Time) (*Project, error) {
	return p.addMember(u, RoleDeveloper, now)
}

func (p *Project) AddTester(u UserID, now time.Time) (*Project, error) {
	return p.addMember(u, RoleTester, now)
}

// addMember is idempotent for the same role. A member holds exactly one role.
func (p *Project) addMember(u UserID, role Role, now time.Time) (*Project, error) {
	if u.IsZero() {
		return nil, domainagg.InvalidValue("userId", "must not be empty")
	}
	if existing, ok := p.members[u]; ok {
		if existing == role {
			return p, nil
		}
		return nil, domainagg.Conflict(fmt.Sprintf("User already has role %s in project; simplified model allows only one role", existing))
	}
	return p.next(now, func(n *Project) {
		n.members = with(p.members, u, role)
	})
}

// AssignTeamLead promotes u (member or not) to TEAM_LEAD. Testers cannot be promoted.
func (p *Project) AssignTeamLead(u UserID, now time.Time) (*Project, error) {
	if u.IsZero() {
		return nil, domainagg.InvalidValue("userId", "must not be empty")
	}
	current, ok := p.members[u]
	if ok && current == RoleTester {
		return nil, domainagg.Conflict("Cannot promote TESTER to TEAM_LEAD in this simplified model")
	}
	if ok && current == RoleTeamLead && p.teamLeadID == u {
		return p, nil
	}
	return p.next(now, func(n *Project) {
		n.members = with(p.members, u, RoleTeamLead)
		n.teamLeadID = u
	})
}

// ---------- Milestones ----------

func (p *Project) CreateMilestone(id MilestoneID, name string, dates DateRange, now time.Time) (*Project, error) {
	if _, ok := p.milestones[id]; ok {
		return nil, domainagg.Conflict("Milestone already exists: " + id.String())
	}
	ms, err := NewMilestone(id, p.id, name, dates, now)
	if err != nil {
		return nil, err
	}
	return p.next(now, func(n *Project) {
		n.milestones = with(p.milestones, id, ms)
	})
}

func (p *Project) ActivateMilestone(id MilestoneID, now time.Time) (*Project, error) {
	ms, ok := p.milestones[id]
	if !ok {
		return nil, domainagg.NotFound("Milestone", id)
	}
	switch ms.status {
	case MilestoneClosed:
		return nil, domainagg.InvalidTransition("Milestone", MilestoneClosed, MilestoneActive, "cannot activate closed milestone")
	case MilestoneActive:
		return p, nil
	}
	for _, other := range p.milestones {
		if other.status == MilestoneActive && other.id != id {
			return nil, domainagg.InvariantViolation("project.singleActiveMilestone", "another ACTIVE milestone already exists")
		}
	}
	return p.next(now, func(n *Project) {
		n.milestones = with(p.milestones, id, ms.withStatus(MilestoneActive, now))
	})
}

func (p *Project) CloseMilestone(id MilestoneID, now time.Time) (*Project, error) {
	ms, ok := p.milestones[id]
	if !ok {
		return nil, domainagg.NotFound("Milestone", id)
	}
	if ms.status == MilestoneClosed {
		return p, nil
	}
	if ms.status != MilestoneActive {
		return nil, domainagg.InvalidTransition("Milestone", ms.status, MilestoneClosed, "can close only ACTIVE milestone")
	}
	for _, t := range p.tickets {
		if t.milestoneID == id && !t.IsDone() {
			return nil, domainagg.InvariantViolation("milestone.closeRequiresAllTicketsDone", "cannot close milestone while it has not DONE tickets")
		}
	}
	return p.next(now, func(n *Project) {
		n.milestones = with(p.milestones, id, ms.withStatus(MilestoneClosed, now))
	})
}

// ---------- Tickets ----------

func (p *Project) CreateTicket(id TicketID, milestoneID MilestoneID, title Title, description Description, createdBy UserID, now time.Time) (*Project, error) {
	if _, ok := p.tickets[id]; ok {
		return nil, domainagg.Conflict("Ticket already exists: " + id.String())
	}
	ms, ok := p.milestones[milestoneID]
	if !ok {
		return nil, domainagg.NotFound("Milestone", milestoneID)
	}
	if ms.status == MilestoneClosed {
		return nil, domainagg.InvariantViolation("ticket.milestoneNotClosed", "cannot create ticket in CLOSED milestone")
	}
	if !p.IsMember(createdBy) {
		return nil, domainagg.InvariantViolation("ticket.creatorMustBeMember", "creator must be a project member")
	}
	t, err := NewTicket(id, p.id, milestoneID, title, description, createdBy, now)
	if err != nil {
		return nil, err
	}
	return p.next(now, func(n *Project) {
		n.tickets = with(p.tickets, id, t)
	})
}

func (p *Project) AssignDeveloperToTicket(id TicketID, developer UserID, now time.Time) (*Project, error) {
	t, ok := p.tickets[id]
	if !ok {
		return nil, domainagg.NotFound("Ticket", id)
	}
	if t.IsDone() {
		return nil, domainagg.InvariantViolation("ticket.notDoneForAssign", "cannot assign developers to DONE ticket")
	}
	if role, ok := p.members[developer]; !ok || !role.canWork() {
		return nil, domainagg.InvariantViolation("ticket.assigneeRole", "assignee must be DEVELOPER or TEAM_LEAD")
	}
	updated, err := t.Assign(developer, now)
	if err != nil {
		return nil, err
	}
	return p.next(now, func(n *Project) {
		n.tickets = with(p.tickets, id, updated)
	})
}

func (p *Project) ApplyTicketAction(id TicketID, action TicketAction, now time.Time) (*Project, error) {
	t, ok := p.tickets[id]
	if !ok {
		return nil, domainagg.NotFound("Ticket", id)
	}
	if action == nil {
		return nil, domainagg.InvalidValue("action", "must not be empty")
	}
	if !p.IsMember(action.Actor()) {
		return nil, domainagg.InvariantViolation("ticket.actorIsMember", "actor must be a project member")
	}
	updated, err := t.Apply(action, now)
	if err != nil {
		return nil, err
	}
	return p.next(now, func(n *Project) {
		n.tickets = with(p.tickets, id, updated)
	})
}

// ---------- Bug reports ----------

func (p *Project) CreateBugReport(id BugReportID, title Title, description Description, createdBy UserID, now time.Time) (*Project, error) {
	if _, ok := p.bugReports[id]; ok {
		return nil, domainagg.Conflict("BugReport already exists: " + id.String())
	}
	role, ok := p.members[createdBy]
	if !ok || (role != RoleDeveloper && role != RoleTester && role != RoleTeamLead) {
		return nil, domainagg.InvariantViolation("bug.creatorRole", "only DEVELOPER/TEAM_LEAD/TESTER can create bug reports")
	}
	b, err := NewBugReport(id, p.id, title, description, createdBy, now)
	if err != nil {
		return nil, err
	}
	return p.next(now, func(n *Project) {
		n.bugReports = with(p.bugReports, id, b)
	})
}

func (p *Project) AssignBugReport(id BugReportID, developer UserID, now time.Time) (*Project, error) {
	b, ok := p.bugReports[id]
	if !ok {
		return nil, domainagg.NotFound("BugReport", id)
	}
	if b.status == BugClosed {
		return nil, domainagg.InvariantViolation("bug.notClosedForAssign", "cannot assign developer to CLOSED bug report")
	}
	if role, ok := p.members[developer]; !ok || !role.canWork() {
		return nil, domainagg.InvariantViolation("bug.assigneeRole", "assignee must be DEVELOPER or TEAM_LEAD")
	}
	updated := b.AssignTo(developer, now)
	return p.next(now, func(n *Project) {
		n.bugReports = with(p.bugReports, id, updated)
	})
}

func (p *Project) ApplyBugReportAction(id BugReportID, action BugReportAction, now time.Time) (*Project, error) {
	b, ok := p.bugReports[id]
	if !ok {
		return nil, domainagg.NotFound("BugReport", id)
	}
	if action == nil {
		return nil, domainagg.InvalidValue("action", "must not be empty")
	}
	role, ok := p.members[action.Actor()]
	if !ok {
		return nil, domainagg.InvariantViolation("bug.actorIsMember", "actor must be a project member")
	}
	switch action.(type) {
	case FixBug:
		if !role.canWork() {
			return nil, domainagg.InvariantViolation("bug.fixRole", "only DEVELOPER/TEAM_LEAD can fix bugs")
		}
	case TestBug:
		if role != RoleTester {
			return nil, domainagg.InvariantViolation("bug.testRole", "only TESTER can test bug fixes")
		}
	case CloseBug:
		if role != RoleManager && role != RoleTester {
			return nil, domainagg.InvariantViolation("bug.closeRole", "only MANAGER or TESTER can close bugs")
		}
	}
	updated, err := b.Apply(action, now)
	if err != nil {
		return nil, err
	}
	return p.next(now, func(n *Project) {
		n.bugReports = with(p.bugReports, id, updated)
	})
}
