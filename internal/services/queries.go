package services

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/yungbote/tracker-backend/internal/domain/project"
	"github.com/yungbote/tracker-backend/internal/pkg/dbctx"
	"github.com/yungbote/tracker-backend/internal/pkg/result"
)

// Index hits are resolved against committed project snapshots and re-checked,
// so a row lagging behind the aggregate never leaks a stale view.

func (s *projectService) ListMyProjects(ctx context.Context, user project.UserID) result.Result[[]ProjectView] {
	ctx, span := s.span(ctx, "ListMyProjects", attribute.String("actor_id", user.String()))
	return finish(span, s.listMyProjects(ctx, user))
}

func (s *projectService) ListMyTickets(ctx context.Context, user project.UserID) result.Result[[]TicketView] {
	ctx, span := s.span(ctx, "ListMyTickets", attribute.String("actor_id", user.String()))
	return finish(span, s.listMyTickets(ctx, user))
}

func (s *projectService) ListBugsToFix(ctx context.Context, user project.UserID) result.Result[[]BugReportView] {
	ctx, span := s.span(ctx, "ListBugsToFix", attribute.String("actor_id", user.String()))
	if err := s.ensureUser(user); err != nil {
		return finish(span, result.Fail[[]BugReportView](err))
	}
	rows, err := s.bugs.FindToFix(dbctx.Context{Ctx: ctx}, user)
	if err != nil {
		return finish(span, result.Fail[[]BugReportView](err))
	}
	out := make([]BugReportView, 0, len(rows))
	for _, row := range rows {
		p, ok := s.projects.FindByID(project.ProjectID{UUID: row.ProjectID})
		if !ok {
			continue
		}
		b, ok := p.BugReport(project.BugReportID{UUID: row.ID})
		if !ok || b.Status() != project.BugNew {
			continue
		}
		if dev, assigned := b.AssignedTo(); !assigned || dev != user {
			continue
		}
		out = append(out, toBugView(b))
	}
	return finish(span, result.Ok(out))
}

func (s *projectService) ListActionableBugs(ctx context.Context, user project.UserID) result.Result[[]BugReportView] {
	ctx, span := s.span(ctx, "ListActionableBugs", attribute.String("actor_id", user.String()))
	return finish(span, s.listActionableBugs(ctx, user))
}

func (s *projectService) listMyProjects(ctx context.Context, user project.UserID) result.Result[[]ProjectView] {
	if err := s.ensureUser(user); err != nil {
		return result.Fail[[]ProjectView](err)
	}
	if err := ctx.Err(); err != nil {
		return result.Fail[[]ProjectView](err)
	}
	projects := s.projects.FindAll(func(p *project.Project) bool { return p.IsMember(user) })
	out := make([]ProjectView, 0, len(projects))
	for _, p := range projects {
		out = append(out, toProjectView(p, user))
	}
	return result.Ok(out)
}

func (s *projectService) listMyTickets(ctx context.Context, user project.UserID) result.Result[[]TicketView] {
	if err := s.ensureUser(user); err != nil {
		return result.Fail[[]TicketView](err)
	}
	rows, err := s.tickets.FindByAssignee(dbctx.Context{Ctx: ctx}, user)
	if err != nil {
		return result.Fail[[]TicketView](err)
	}
	out := make([]TicketView, 0, len(rows))
	for _, row := range rows {
		p, ok := s.projects.FindByID(project.ProjectID{UUID: row.ProjectID})
		if !ok {
			continue
		}
		t, ok := p.Ticket(project.TicketID{UUID: row.ID})
		if !ok || !t.IsAssigned(user) {
			continue
		}
		out = append(out, toTicketView(t))
	}
	return result.Ok(out)
}

// listActionableBugs walks the member projects: developers get their NEW
// assigned bugs, testers get every FIXED bug, managers and leads get none.
func (s *projectService) listActionableBugs(ctx context.Context, user project.UserID) result.Result[[]BugReportView] {
	if err := s.ensureUser(user); err != nil {
		return result.Fail[[]BugReportView](err)
	}
	if err := ctx.Err(); err != nil {
		return result.Fail[[]BugReportView](err)
	}
	out := []BugReportView{}
	for _, p := range s.projects.FindAll(func(p *project.Project) bool { return p.IsMember(user) }) {
		for _, b := range bugsForRole(p, user) {
			out = append(out, toBugView(b))
		}
	}
	return result.Ok(out)
}

func bugsForRole(p *project.Project, user project.UserID) []project.BugReport {
	role, ok := p.RoleOf(user)
	if !ok {
		return nil
	}
	var out []project.BugReport
	for _, b := range p.BugReports() {
		switch role {
		case project.RoleDeveloper:
			if dev, assigned := b.AssignedTo(); b.Status() == project.BugNew && assigned && dev == user {
				out = append(out, b)
			}
		case project.RoleTester:
			if b.Status() == project.BugFixed {
				out = append(out, b)
			}
		}
	}
	return out
}
