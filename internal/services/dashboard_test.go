package services

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	domainagg "github.com/yungbote/tracker-backend/internal/domain/aggregates"
	"github.com/yungbote/tracker-backend/internal/domain/project"
)

func TestDashboardCombinesAllQueries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tm := f.team(t)
	ms := must(t, f.svc.CreateMilestone(ctx, tm.manager, tm.project, "Sprint", day("2025-01-01"), day("2025-01-14")))
	tk := must(t, f.svc.CreateTicket(ctx, tm.manager, tm.project, ms.ID, "Dashboard ticket", ""))
	must(t, f.svc.AssignDeveloperToTicket(ctx, tm.manager, tm.project, tk.ID, tm.developer))
	bug := must(t, f.svc.CreateBugReport(ctx, tm.tester, tm.project, "Dashboard bug", ""))
	must(t, f.svc.AssignBugReport(ctx, tm.manager, tm.project, bug.ID, tm.developer))

	view := must(t, f.svc.BuildDashboard(ctx, tm.developer))
	require.Equal(t, tm.developer, view.UserID)
	require.Len(t, view.Projects, 1)
	require.Len(t, view.Tickets, 1)
	require.Equal(t, tk.ID, view.Tickets[0].ID)
	require.Len(t, view.ActionableBugs, 1)
	require.Equal(t, bug.ID, view.ActionableBugs[0].ID)

	mgr := must(t, f.svc.BuildDashboard(ctx, tm.manager))
	require.Len(t, mgr.Projects, 1)
	require.Empty(t, mgr.Tickets)
	require.Empty(t, mgr.ActionableBugs)

	require.Contains(t, scrape(t, f), `tracker_dashboard_builds_total{status="ok"} 2`)
}

func TestDashboardFailsFastWithoutPartialView(t *testing.T) {
	indexErr := domainagg.InvariantViolation("index.ticket.findByAssignee", "index unavailable")
	f := newFixture(t, func(d *ProjectServiceDeps) {
		d.Tickets = stubTicketIndex{TicketIndexRepo: d.Tickets, findErr: indexErr}
	})
	tm := f.team(t)

	r := f.svc.BuildDashboard(context.Background(), tm.developer)
	require.ErrorIs(t, r.Err(), indexErr)
	require.Equal(t, DashboardView{}, r.Value())
	require.Contains(t, scrape(t, f), `tracker_dashboard_builds_total{status="invariant_violation"} 1`)
}

func TestDashboardWrapsUnexpectedFailure(t *testing.T) {
	f := newFixture(t, func(d *ProjectServiceDeps) {
		d.Tickets = stubTicketIndex{TicketIndexRepo: d.Tickets, findErr: errors.New("socket closed")}
	})
	tm := f.team(t)

	r := f.svc.BuildDashboard(context.Background(), tm.developer)
	require.True(t, domainagg.IsInvariant(r.Err(), "dashboard.failed"), "got %v", r.Err())
	require.Contains(t, r.Err().Error(), "socket closed")
}

func TestDashboardInterruptedByCaller(t *testing.T) {
	f := newFixture(t)
	tm := f.team(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := f.svc.BuildDashboard(ctx, tm.developer)
	require.True(t, domainagg.IsInvariant(r.Err(), "dashboard.interrupted"), "got %v", r.Err())
	require.Contains(t, scrape(t, f), `tracker_dashboard_builds_total{status="interrupted"} 1`)
}

func TestDashboardUnknownUser(t *testing.T) {
	f := newFixture(t)
	r := f.svc.BuildDashboard(context.Background(), project.NewUserID())
	require.True(t, domainagg.IsCode(r.Err(), domainagg.CodeNotFound), "got %v", r.Err())
}

func scrape(t *testing.T, f *fixture) string {
	t.Helper()
	rec := httptest.NewRecorder()
	f.metrics.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return strings.TrimSpace(string(body))
}
