package services

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/tracker-backend/internal/access"
	domainagg "github.com/yungbote/tracker-backend/internal/domain/aggregates"
	"github.com/yungbote/tracker-backend/internal/domain/project"
	"github.com/yungbote/tracker-backend/internal/pkg/result"
)

// BuildDashboard runs the three personal queries concurrently. The first
// failure cancels the others and is returned alone.
func (s *projectService) BuildDashboard(ctx context.Context, user project.UserID) result.Result[DashboardView] {
	ctx, span := s.span(ctx, "BuildDashboard", attribute.String("actor_id", user.String()))
	started := time.Now()
	r := s.buildDashboard(ctx, user)
	s.metrics.ObserveDashboard(dashboardStatus(r.Err()), time.Since(started))
	return finish(span, r)
}

func (s *projectService) buildDashboard(ctx context.Context, user project.UserID) result.Result[DashboardView] {
	if err := s.ensureUser(user); err != nil {
		return result.Fail[DashboardView](err)
	}
	if s.dashboardTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.dashboardTimeout)
		defer cancel()
	}

	var (
		projects []ProjectView
		tickets  []TicketView
		bugs     []BugReportView
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := s.listMyProjects(gctx, user).Get()
		projects = v
		return err
	})
	g.Go(func() error {
		v, err := s.listMyTickets(gctx, user).Get()
		tickets = v
		return err
	})
	g.Go(func() error {
		v, err := s.listActionableBugs(gctx, user).Get()
		bugs = v
		return err
	})

	if err := g.Wait(); err != nil {
		return result.Fail[DashboardView](s.dashboardFailure(ctx, user, err))
	}
	if ctx.Err() != nil {
		return result.Fail[DashboardView](s.dashboardFailure(ctx, user, ctx.Err()))
	}
	return result.Ok(DashboardView{
		UserID:         user,
		Projects:       projects,
		Tickets:        tickets,
		ActionableBugs: bugs,
	})
}

// dashboardFailure keeps business failures as they are. Cancellation of the
// caller's context becomes dashboard.interrupted; anything else dashboard.failed.
func (s *projectService) dashboardFailure(ctx context.Context, user project.UserID, err error) error {
	if ctx.Err() != nil {
		s.log.Warn("dashboard interrupted", "user_id", user.String(), "error", err)
		return domainagg.InvariantViolation("dashboard.interrupted", "dashboard build was interrupted")
	}
	if _, ok := domainagg.AsDomainError(err); ok || access.IsDenied(err) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return domainagg.InvariantViolation("dashboard.interrupted", "dashboard build was interrupted")
	}
	s.log.Error("dashboard failed", "user_id", user.String(), "error", err)
	return domainagg.InvariantViolation("dashboard.failed", "unexpected failure: "+err.Error())
}

func dashboardStatus(err error) string {
	switch {
	case err == nil:
		return "ok"
	case domainagg.IsInvariant(err, "dashboard.interrupted"):
		return "interrupted"
	default:
		return failureCode(err)
	}
}
