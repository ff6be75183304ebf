package testutil

import (
	"testing"
	"time"

	"github.com/yungbote/tracker-backend/internal/domain/project"
)

// Seeded is a project with one active milestone, one ticket and one bug report.
type Seeded struct {
	Project   *project.Project
	Manager   project.UserID
	Developer project.UserID
	Tester    project.UserID
	Milestone project.MilestoneID
	Ticket    project.TicketID
	Bug       project.BugReportID
}

func SeedProject(tb testing.TB, key string, now time.Time) Seeded {
	tb.Helper()
	s := Seeded{
		Manager:   project.NewUserID(),
		Developer: project.NewUserID(),
		Tester:    project.NewUserID(),
		Milestone: project.NewMilestoneID(),
		Ticket:    project.NewTicketID(),
		Bug:       project.NewBugReportID(),
	}
	must := func(p *project.Project, err error) *project.Project {
		tb.Helper()
		if err != nil {
			tb.Fatalf("seed project: %v", err)
		}
		return p
	}
	start, _ := project.ParseDate("start", "2025-01-01")
	end, _ := project.ParseDate("end", "2025-01-31")
	dates, err := project.NewDateRange(start, end)
	if err != nil {
		tb.Fatalf("seed dates: %v", err)
	}
	title, _ := project.NewTitle("Seeded work item")
	desc, _ := project.NewDescription("")

	p := must(project.NewProject(project.NewProjectID(), key, "Seeded "+key, "", s.Manager, now))
	p = must(p.AddDeveloper(s.Developer, now))
	p = must(p.AddTester(s.Tester, now))
	p = must(p.CreateMilestone(s.Milestone, "Sprint", dates, now))
	p = must(p.ActivateMilestone(s.Milestone, now))
	p = must(p.CreateTicket(s.Ticket, s.Milestone, title, desc, s.Manager, now))
	p = must(p.AssignDeveloperToTicket(s.Ticket, s.Developer, now))
	p = must(p.CreateBugReport(s.Bug, title, desc, s.Tester, now))
	p = must(p.AssignBugReport(s.Bug, s.Developer, now))
	s.Project = p
	return s
}
