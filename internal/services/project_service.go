package services

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/tracker-backend/internal/access"
	"github.com/yungbote/tracker-backend/internal/data/aggregates"
	"github.com/yungbote/tracker-backend/internal/data/repos/tracker"
	domainagg "github.com/yungbote/tracker-backend/internal/domain/aggregates"
	"github.com/yungbote/tracker-backend/internal/domain/project"
	"github.com/yungbote/tracker-backend/internal/events"
	"github.com/yungbote/tracker-backend/internal/observability"
	"github.com/yungbote/tracker-backend/internal/pkg/dbctx"
	"github.com/yungbote/tracker-backend/internal/pkg/result"
	"github.com/yungbote/tracker-backend/internal/platform/logger"
)

type ProjectService interface {
	RegisterUser(ctx context.Context, login, displayName string) result.Result[UserView]
	CreateProject(ctx context.Context, creator project.UserID, name, description string) result.Result[ProjectView]
	GetProject(ctx context.Context, actor project.UserID, projectID project.ProjectID) result.Result[ProjectView]

	AddDeveloper(ctx context.Context, actor project.UserID, projectID project.ProjectID, developer project.UserID) result.Result[ProjectView]
	AddTester(ctx context.Context, actor project.UserID, projectID project.ProjectID, tester project.UserID) result.Result[ProjectView]
	AssignTeamLead(ctx context.Context, actor project.UserID, projectID project.ProjectID, lead project.UserID) result.Result[ProjectView]

	CreateMilestone(ctx context.Context, actor project.UserID, projectID project.ProjectID, name string, start, end time.Time) result.Result[MilestoneView]
	ActivateMilestone(ctx context.Context, actor project.UserID, projectID project.ProjectID, milestoneID project.MilestoneID) result.Result[MilestoneView]
	CloseMilestone(ctx context.Context, actor project.UserID, projectID project.ProjectID, milestoneID project.MilestoneID) result.Result[MilestoneView]

	CreateTicket(ctx context.Context, actor project.UserID, projectID project.ProjectID, milestoneID project.MilestoneID, title, description string) result.Result[TicketView]
	AssignDeveloperToTicket(ctx context.Context, actor project.UserID, projectID project.ProjectID, ticketID project.TicketID, developer project.UserID) result.Result[TicketView]
	CheckTicketCompletion(ctx context.Context, actor project.UserID, projectID project.ProjectID, ticketID project.TicketID) result.Result[TicketCompletionView]
	AcceptTicket(ctx context.Context, actor project.UserID, projectID project.ProjectID, ticketID project.TicketID) result.Result[TicketView]
	StartTicket(ctx context.Context, actor project.UserID, projectID project.ProjectID, ticketID project.TicketID) result.Result[TicketView]
	CompleteTicket(ctx context.Context, actor project.UserID, projectID project.ProjectID, ticketID project.TicketID) result.Result[TicketView]

	CreateBugReport(ctx context.Context, actor project.UserID, projectID project.ProjectID, title, description string) result.Result[BugReportView]
	AssignBugReport(ctx context.Context, actor project.UserID, projectID project.ProjectID, bugID project.BugReportID, developer project.UserID) result.Result[BugReportView]
	FixBugReport(ctx context.Context, actor project.UserID, projectID project.ProjectID, bugID project.BugReportID) result.Result[BugReportView]
	TestBugReport(ctx context.Context, actor project.UserID, projectID project.ProjectID, bugID project.BugReportID) result.Result[BugReportView]
	CloseBugReport(ctx context.Context, actor project.UserID, projectID project.ProjectID, bugID project.BugReportID) result.Result[BugReportView]

	ListMyProjects(ctx context.Context, user project.UserID) result.Result[[]ProjectView]
	ListMyTickets(ctx context.Context, user project.UserID) result.Result[[]TicketView]
	ListBugsToFix(ctx context.Context, user project.UserID) result.Result[[]BugReportView]
	ListActionableBugs(ctx context.Context, user project.UserID) result.Result[[]BugReportView]
	BuildDashboard(ctx context.Context, user project.UserID) result.Result[DashboardView]
}

type ProjectServiceDeps struct {
	Projects *aggregates.ProjectStore
	Users    *aggregates.UserStore
	Keys     *aggregates.KeySequence
	Tickets  tracker.TicketIndexRepo
	Bugs     tracker.BugReportIndexRepo
	Events   events.Publisher
	Metrics  *observability.Metrics
	Log      *logger.Logger
	// Clock defaults to time.Now.
	Clock func() time.Time
	// DashboardTimeout bounds BuildDashboard; zero means no bound.
	DashboardTimeout time.Duration
}

type projectService struct {
	projects         *aggregates.ProjectStore
	users            *aggregates.UserStore
	keys             *aggregates.KeySequence
	tickets          tracker.TicketIndexRepo
	bugs             tracker.BugReportIndexRepo
	gate             access.Gate
	events           events.Publisher
	metrics          *observability.Metrics
	log              *logger.Logger
	clock            func() time.Time
	dashboardTimeout time.Duration
}

func NewProjectService(deps ProjectServiceDeps) ProjectService {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	keys := deps.Keys
	if keys == nil {
		keys = aggregates.NewKeySequence(project.FormatProjectKey)
	}
	pub := deps.Events
	if pub == nil {
		pub = events.Nop()
	}
	return &projectService{
		projects:         deps.Projects,
		users:            deps.Users,
		keys:             keys,
		tickets:          deps.Tickets,
		bugs:             deps.Bugs,
		gate:             access.NewGate(),
		events:           pub,
		metrics:          deps.Metrics,
		log:              log.With("service", "ProjectService"),
		clock:            clock,
		dashboardTimeout: deps.DashboardTimeout,
	}
}

// ---------------- users & projects ----------------

func (s *projectService) RegisterUser(ctx context.Context, login, displayName string) result.Result[UserView] {
	ctx, span := s.span(ctx, "RegisterUser")
	now := s.clock()
	u, err := project.RegisterUser(project.NewUserID(), login, displayName, now)
	if err == nil {
		u, err = s.users.Insert(ctx, u)
	}
	if err != nil {
		return finish(span, result.Fail[UserView](err))
	}
	s.log.Info("user registered", "user_id", u.ID().String(), "login", u.Login())
	s.publish(ctx, events.New(events.UserRegistered, "", u.ID().String(), u.ID().String(), now))
	return finish(span, result.Ok(toUserView(u)))
}

func (s *projectService) CreateProject(ctx context.Context, creator project.UserID, name, description string) result.Result[ProjectView] {
	ctx, span := s.span(ctx, "CreateProject", attribute.String("actor_id", creator.String()))
	if err := s.ensureUser(creator); err != nil {
		return finish(span, result.Fail[ProjectView](err))
	}
	now := s.clock()
	p, err := project.NewProject(project.NewProjectID(), s.keys.Next(), name, description, creator, now)
	if err == nil {
		p, err = s.projects.Insert(ctx, p)
	}
	if err != nil {
		return finish(span, result.Fail[ProjectView](err))
	}
	s.log.Info("project created", "project_id", p.ID().String(), "project_key", p.Key().String())
	s.publish(ctx, events.New(events.ProjectCreated, p.ID().String(), creator.String(), p.ID().String(), now).
		With("key", p.Key().String()))
	return finish(span, result.Ok(toProjectView(p, creator)))
}

// GetProject is open to any registered user; outsiders see their role as OUTSIDER.
func (s *projectService) GetProject(ctx context.Context, actor project.UserID, projectID project.ProjectID) result.Result[ProjectView] {
	_, span := s.span(ctx, "GetProject", attribute.String("actor_id", actor.String()), attribute.String("project_id", projectID.String()))
	if err := s.ensureUser(actor); err != nil {
		return finish(span, result.Fail[ProjectView](err))
	}
	p, err := s.projects.Get(projectID)
	if err != nil {
		return finish(span, result.Fail[ProjectView](err))
	}
	return finish(span, result.Ok(toProjectView(p, actor)))
}

// ---------------- members ----------------

func (s *projectService) AddDeveloper(ctx context.Context, actor project.UserID, projectID project.ProjectID, developer project.UserID) result.Result[ProjectView] {
	return s.changeMembers(ctx, "AddDeveloper", actor, projectID, developer, access.OpAddDeveloper, events.MemberAdded,
		func(p *project.Project, now time.Time) (*project.Project, error) { return p.AddDeveloper(developer, now) })
}

func (s *projectService) AddTester(ctx context.Context, actor project.UserID, projectID project.ProjectID, tester project.UserID) result.Result[ProjectView] {
	return s.changeMembers(ctx, "AddTester", actor, projectID, tester, access.OpAddTester, events.MemberAdded,
		func(p *project.Project, now time.Time) (*project.Project, error) { return p.AddTester(tester, now) })
}

func (s *projectService) AssignTeamLead(ctx context.Context, actor project.UserID, projectID project.ProjectID, lead project.UserID) result.Result[ProjectView] {
	return s.changeMembers(ctx, "AssignTeamLead", actor, projectID, lead, access.OpAssignTeamLead, events.TeamLeadAssigned,
		func(p *project.Project, now time.Time) (*project.Project, error) { return p.AssignTeamLead(lead, now) })
}

func (s *projectService) changeMembers(
	ctx context.Context,
	name string,
	actor project.UserID,
	projectID project.ProjectID,
	member project.UserID,
	op access.Operation,
	evt events.Type,
	edit func(*project.Project, time.Time) (*project.Project, error),
) result.Result[ProjectView] {
	ctx, span := s.span(ctx, name, attribute.String("actor_id", actor.String()), attribute.String("project_id", projectID.String()))
	if _, err := s.authorize(actor, projectID, op); err != nil {
		return finish(span, result.Fail[ProjectView](err))
	}
	if err := s.ensureUser(member); err != nil {
		return finish(span, result.Fail[ProjectView](err))
	}
	updated, now, err := s.update(ctx, projectID, edit)
	if err != nil {
		return finish(span, result.Fail[ProjectView](err))
	}
	role, _ := updated.RoleOf(member)
	s.publish(ctx, events.New(evt, projectID.String(), actor.String(), member.String(), now).With("role", string(role)))
	return finish(span, result.Ok(toProjectView(updated, actor)))
}

// ---------------- milestones ----------------

func (s *projectService) CreateMilestone(ctx context.Context, actor project.UserID, projectID project.ProjectID, name string, start, end time.Time) result.Result[MilestoneView] {
	ctx, span := s.span(ctx, "CreateMilestone", attribute.String("actor_id", actor.String()), attribute.String("project_id", projectID.String()))
	if _, err := s.authorize(actor, projectID, access.OpCreateMilestone); err != nil {
		return finish(span, result.Fail[MilestoneView](err))
	}
	dates, err := project.NewDateRange(start, end)
	if err != nil {
		return finish(span, result.Fail[MilestoneView](err))
	}
	id := project.NewMilestoneID()
	updated, now, err := s.update(ctx, projectID, func(p *project.Project, now time.Time) (*project.Project, error) {
		return p.CreateMilestone(id, name, dates, now)
	})
	if err != nil {
		return finish(span, result.Fail[MilestoneView](err))
	}
	m, ok := updated.Milestone(id)
	if !ok {
		return finish(span, result.Fail[MilestoneView](domainagg.InvariantViolation("milestone.created", "milestone not found after creation")))
	}
	s.publish(ctx, events.New(events.MilestoneCreated, projectID.String(), actor.String(), id.String(), now))
	return finish(span, result.Ok(toMilestoneView(m)))
}

func (s *projectService) ActivateMilestone(ctx context.Context, actor project.UserID, projectID project.ProjectID, milestoneID project.MilestoneID) result.Result[MilestoneView] {
	return s.changeMilestone(ctx, "ActivateMilestone", actor, projectID, milestoneID, access.OpActivateMilestone, events.MilestoneActivated,
		func(p *project.Project, now time.Time) (*project.Project, error) { return p.ActivateMilestone(milestoneID, now) })
}

func (s *projectService) CloseMilestone(ctx context.Context, actor project.UserID, projectID project.ProjectID, milestoneID project.MilestoneID) result.Result[MilestoneView] {
	return s.changeMilestone(ctx, "CloseMilestone", actor, projectID, milestoneID, access.OpCloseMilestone, events.MilestoneClosed,
		func(p *project.Project, now time.Time) (*project.Project, error) { return p.CloseMilestone(milestoneID, now) })
}

func (s *projectService) changeMilestone(
	ctx context.Context,
	name string,
	actor project.UserID,
	projectID project.ProjectID,
	milestoneID project.MilestoneID,
	op access.Operation,
	evt events.Type,
	edit func(*project.Project, time.Time) (*project.Project, error),
) result.Result[MilestoneView] {
	ctx, span := s.span(ctx, name, attribute.String("actor_id", actor.String()), attribute.String("project_id", projectID.String()))
	if _, err := s.authorize(actor, projectID, op); err != nil {
		return finish(span, result.Fail[MilestoneView](err))
	}
	updated, now, err := s.update(ctx, projectID, edit)
	if err != nil {
		return finish(span, result.Fail[MilestoneView](err))
	}
	m, ok := updated.Milestone(milestoneID)
	if !ok {
		return finish(span, result.Fail[MilestoneView](domainagg.NotFound("Milestone", milestoneID)))
	}
	s.publish(ctx, events.New(evt, projectID.String(), actor.String(), milestoneID.String(), now))
	return finish(span, result.Ok(toMilestoneView(m)))
}

// ---------------- tickets ----------------

func (s *projectService) CreateTicket(ctx context.Context, actor project.UserID, projectID project.ProjectID, milestoneID project.MilestoneID, title, description string) result.Result[TicketView] {
	ctx, span := s.span(ctx, "CreateTicket", attribute.String("actor_id", actor.String()), attribute.String("project_id", projectID.String()))
	if _, err := s.authorize(actor, projectID, access.OpCreateTicket); err != nil {
		return finish(span, result.Fail[TicketView](err))
	}
	t, err := project.NewTitle(title)
	if err != nil {
		return finish(span, result.Fail[TicketView](err))
	}
	d, err := project.NewDescription(description)
	if err != nil {
		return finish(span, result.Fail[TicketView](err))
	}
	id := s.tickets.NextID()
	updated, now, err := s.update(ctx, projectID, func(p *project.Project, now time.Time) (*project.Project, error) {
		return p.CreateTicket(id, milestoneID, t, d, actor, now)
	})
	if err != nil {
		return finish(span, result.Fail[TicketView](err))
	}
	ticket, ok := updated.Ticket(id)
	if !ok {
		return finish(span, result.Fail[TicketView](domainagg.InvariantViolation("ticket.created", "ticket not found after creation")))
	}
	return finish(span, s.indexTicket(ctx, ticket, events.New(events.TicketCreated, projectID.String(), actor.String(), id.String(), now).
		With("milestone_id", milestoneID.String())))
}

func (s *projectService) AssignDeveloperToTicket(ctx context.Context, actor project.UserID, projectID project.ProjectID, ticketID project.TicketID, developer project.UserID) result.Result[TicketView] {
	ctx, span := s.span(ctx, "AssignDeveloperToTicket", attribute.String("actor_id", actor.String()), attribute.String("project_id", projectID.String()))
	if _, err := s.authorize(actor, projectID, access.OpAssignTicketDeveloper); err != nil {
		return finish(span, result.Fail[TicketView](err))
	}
	if err := s.ensureUser(developer); err != nil {
		return finish(span, result.Fail[TicketView](err))
	}
	updated, now, err := s.update(ctx, projectID, func(p *project.Project, now time.Time) (*project.Project, error) {
		return p.AssignDeveloperToTicket(ticketID, developer, now)
	})
	if err != nil {
		return finish(span, result.Fail[TicketView](err))
	}
	ticket, ok := updated.Ticket(ticketID)
	if !ok {
		return finish(span, result.Fail[TicketView](domainagg.NotFound("Ticket", ticketID)))
	}
	return finish(span, s.indexTicket(ctx, ticket, events.New(events.TicketAssigned, projectID.String(), actor.String(), ticketID.String(), now).
		With("developer_id", developer.String())))
}

func (s *projectService) CheckTicketCompletion(ctx context.Context, actor project.UserID, projectID project.ProjectID, ticketID project.TicketID) result.Result[TicketCompletionView] {
	_, span := s.span(ctx, "CheckTicketCompletion", attribute.String("actor_id", actor.String()), attribute.String("project_id", projectID.String()))
	p, err := s.authorize(actor, projectID, access.OpCheckTicketCompletion)
	if err != nil {
		return finish(span, result.Fail[TicketCompletionView](err))
	}
	ticket, ok := p.Ticket(ticketID)
	if !ok {
		return finish(span, result.Fail[TicketCompletionView](domainagg.NotFound("Ticket", ticketID)))
	}
	return finish(span, result.Ok(TicketCompletionView{TicketID: ticket.ID(), Status: ticket.Status(), Done: ticket.IsDone()}))
}

func (s *projectService) AcceptTicket(ctx context.Context, actor project.UserID, projectID project.ProjectID, ticketID project.TicketID) result.Result[TicketView] {
	return s.applyTicketAction(ctx, "AcceptTicket", actor, projectID, ticketID, access.OpTicketAccept, project.AcceptTicket{By: actor}, events.TicketAccepted)
}

func (s *projectService) StartTicket(ctx context.Context, actor project.UserID, projectID project.ProjectID, ticketID project.TicketID) result.Result[TicketView] {
	return s.applyTicketAction(ctx, "StartTicket", actor, projectID, ticketID, access.OpTicketStart, project.StartTicket{By: actor}, events.TicketStarted)
}

func (s *projectService) CompleteTicket(ctx context.Context, actor project.UserID, projectID project.ProjectID, ticketID project.TicketID) result.Result[TicketView] {
	return s.applyTicketAction(ctx, "CompleteTicket", actor, projectID, ticketID, access.OpTicketComplete, project.CompleteTicket{By: actor}, events.TicketCompleted)
}

func (s *projectService) applyTicketAction(
	ctx context.Context,
	name string,
	actor project.UserID,
	projectID project.ProjectID,
	ticketID project.TicketID,
	op access.Operation,
	action project.TicketAction,
	evt events.Type,
) result.Result[TicketView] {
	ctx, span := s.span(ctx, name, attribute.String("actor_id", actor.String()), attribute.String("project_id", projectID.String()))
	if _, err := s.authorize(actor, projectID, op); err != nil {
		return finish(span, result.Fail[TicketView](err))
	}
	updated, now, err := s.update(ctx, projectID, func(p *project.Project, now time.Time) (*project.Project, error) {
		return p.ApplyTicketAction(ticketID, action, now)
	})
	if err != nil {
		return finish(span, result.Fail[TicketView](err))
	}
	ticket, ok := updated.Ticket(ticketID)
	if !ok {
		return finish(span, result.Fail[TicketView](domainagg.NotFound("Ticket", ticketID)))
	}
	return finish(span, s.indexTicket(ctx, ticket, events.New(evt, projectID.String(), actor.String(), ticketID.String(), now).
		With("status", string(ticket.Status()))))
}

// ---------------- bug reports ----------------

func (s *projectService) CreateBugReport(ctx context.Context, actor project.UserID, projectID project.ProjectID, title, description string) result.Result[BugReportView] {
	ctx, span := s.span(ctx, "CreateBugReport", attribute.String("actor_id", actor.String()), attribute.String("project_id", projectID.String()))
	if _, err := s.authorize(actor, projectID, access.OpCreateBugReport); err != nil {
		return finish(span, result.Fail[BugReportView](err))
	}
	t, err := project.NewTitle(title)
	if err != nil {
		return finish(span, result.Fail[BugReportView](err))
	}
	d, err := project.NewDescription(description)
	if err != nil {
		return finish(span, result.Fail[BugReportView](err))
	}
	id := s.bugs.NextID()
	updated, now, err := s.update(ctx, projectID, func(p *project.Project, now time.Time) (*project.Project, error) {
		return p.CreateBugReport(id, t, d, actor, now)
	})
	if err != nil {
		return finish(span, result.Fail[BugReportView](err))
	}
	bug, ok := updated.BugReport(id)
	if !ok {
		return finish(span, result.Fail[BugReportView](domainagg.InvariantViolation("bug.created", "bug report not found after creation")))
	}
	return finish(span, s.indexBug(ctx, bug, events.New(events.BugCreated, projectID.String(), actor.String(), id.String(), now)))
}

func (s *projectService) AssignBugReport(ctx context.Context, actor project.UserID, projectID project.ProjectID, bugID project.BugReportID, developer project.UserID) result.Result[BugReportView] {
	ctx, span := s.span(ctx, "AssignBugReport", attribute.String("actor_id", actor.String()), attribute.String("project_id", projectID.String()))
	if _, err := s.authorize(actor, projectID, access.OpAssignBugReport); err != nil {
		return finish(span, result.Fail[BugReportView](err))
	}
	if err := s.ensureUser(developer); err != nil {
		return finish(span, result.Fail[BugReportView](err))
	}
	updated, now, err := s.update(ctx, projectID, func(p *project.Project, now time.Time) (*project.Project, error) {
		return p.AssignBugReport(bugID, developer, now)
	})
	if err != nil {
		return finish(span, result.Fail[BugReportView](err))
	}
	bug, ok := updated.BugReport(bugID)
	if !ok {
		return finish(span, result.Fail[BugReportView](domainagg.NotFound("BugReport", bugID)))
	}
	return finish(span, s.indexBug(ctx, bug, events.New(events.BugAssigned, projectID.String(), actor.String(), bugID.String(), now).
		With("developer_id", developer.String())))
}

func (s *projectService) FixBugReport(ctx context.Context, actor project.UserID, projectID project.ProjectID, bugID project.BugReportID) result.Result[BugReportView] {
	return s.applyBugAction(ctx, "FixBugReport", actor, projectID, bugID, access.OpFixBugReport, project.FixBug{By: actor}, events.BugFixed)
}

func (s *projectService) TestBugReport(ctx context.Context, actor project.UserID, projectID project.ProjectID, bugID project.BugReportID) result.Result[BugReportView] {
	return s.applyBugAction(ctx, "TestBugReport", actor, projectID, bugID, access.OpTestBugReport, project.TestBug{By: actor}, events.BugTested)
}

func (s *projectService) CloseBugReport(ctx context.Context, actor project.UserID, projectID project.ProjectID, bugID project.BugReportID) result.Result[BugReportView] {
	return s.applyBugAction(ctx, "CloseBugReport", actor, projectID, bugID, access.OpCloseBugReport, project.CloseBug{By: actor}, events.BugClosed)
}

func (s *projectService) applyBugAction(
	ctx context.Context,
	name string,
	actor project.UserID,
	projectID project.ProjectID,
	bugID project.BugReportID,
	op access.Operation,
	action project.BugReportAction,
	evt events.Type,
) result.Result[BugReportView] {
	ctx, span := s.span(ctx, name, attribute.String("actor_id", actor.String()), attribute.String("project_id", projectID.String()))
	if _, err := s.authorize(actor, projectID, op); err != nil {
		return finish(span, result.Fail[BugReportView](err))
	}
	updated, now, err := s.update(ctx, projectID, func(p *project.Project, now time.Time) (*project.Project, error) {
		return p.ApplyBugReportAction(bugID, action, now)
	})
	if err != nil {
		return finish(span, result.Fail[BugReportView](err))
	}
	bug, ok := updated.BugReport(bugID)
	if !ok {
		return finish(span, result.Fail[BugReportView](domainagg.NotFound("BugReport", bugID)))
	}
	return finish(span, s.indexBug(ctx, bug, events.New(evt, projectID.String(), actor.String(), bugID.String(), now).
		With("status", string(bug.Status()))))
}

// ---------------- internal helpers ----------------

func (s *projectService) ensureUser(id project.UserID) error {
	if _, ok := s.users.FindByID(id); !ok {
		return domainagg.NotFound("User", id)
	}
	return nil
}

// authorize resolves actor's role in the committed project and runs the gate.
// It returns the snapshot the decision was made on.
func (s *projectService) authorize(actor project.UserID, projectID project.ProjectID, op access.Operation) (*project.Project, error) {
	if err := s.ensureUser(actor); err != nil {
		return nil, err
	}
	p, err := s.projects.Get(projectID)
	if err != nil {
		return nil, err
	}
	role := access.RoleIn(p, actor)
	if err := s.gate.Authorize(actor, projectID, role, op); err != nil {
		s.log.Debug("operation denied", "actor_id", actor.String(), "project_id", projectID.String(), "op", string(op), "role", string(role))
		return nil, err
	}
	return p, nil
}

func (s *projectService) update(ctx context.Context, projectID project.ProjectID, edit func(*project.Project, time.Time) (*project.Project, error)) (*project.Project, time.Time, error) {
	var at time.Time
	updated, err := s.projects.Update(ctx, projectID, func(cur *project.Project) (*project.Project, error) {
		at = s.clock()
		return edit(cur, at)
	})
	return updated, at, err
}

// indexTicket refreshes the ticket's index row, then announces the change.
// The aggregate is already committed; an index failure is still reported to the caller.
func (s *projectService) indexTicket(ctx context.Context, t project.Ticket, e events.Event) result.Result[TicketView] {
	if err := s.tickets.Upsert(dbctx.Context{Ctx: context.WithoutCancel(ctx)}, t); err != nil {
		s.log.Error("ticket index upsert failed", "ticket_id", t.ID().String(), "project_id", t.ProjectID().String(), "error", err)
		return result.Fail[TicketView](err)
	}
	s.publish(ctx, e)
	return result.Ok(toTicketView(t))
}

func (s *projectService) indexBug(ctx context.Context, b project.BugReport, e events.Event) result.Result[BugReportView] {
	if err := s.bugs.Upsert(dbctx.Context{Ctx: context.WithoutCancel(ctx)}, b); err != nil {
		s.log.Error("bug index upsert failed", "bug_id", b.ID().String(), "project_id", b.ProjectID().String(), "error", err)
		return result.Fail[BugReportView](err)
	}
	s.publish(ctx, e)
	return result.Ok(toBugView(b))
}

// publish is best effort: the change is committed whether or not the bus takes it.
func (s *projectService) publish(ctx context.Context, e events.Event) {
	if err := s.events.Publish(context.WithoutCancel(ctx), e); err != nil {
		s.log.Warn("event publish failed", "event_type", string(e.Type), "project_id", e.ProjectID, "error", err)
	}
}

func (s *projectService) span(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return observability.Tracer().Start(ctx, "ProjectService."+name, trace.WithAttributes(attrs...))
}

func finish[T any](span trace.Span, r result.Result[T]) result.Result[T] {
	if err := r.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, failureCode(err))
	}
	span.End()
	return r
}

func failureCode(err error) string {
	if access.IsDenied(err) {
		return access.CodeAccessDenied
	}
	if code := domainagg.CodeOf(err); code != "" {
		return string(code)
	}
	return "failure"
}
