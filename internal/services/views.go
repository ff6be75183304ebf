package services

import (
	"time"

	"github.com/yungbote/tracker-backend/internal/access"
	"github.com/yungbote/tracker-backend/internal/domain/project"
)

type UserView struct {
	ID           project.UserID `json:"id"`
	Login        string         `json:"login"`
	DisplayName  string         `json:"display_name"`
	RegisteredAt time.Time      `json:"registered_at"`
}

type ProjectView struct {
	ID             project.ProjectID `json:"id"`
	Key            string            `json:"key"`
	Name           string            `json:"name"`
	Description    string            `json:"description,omitempty"`
	ManagerID      project.UserID    `json:"manager_id"`
	TeamLeadID     *project.UserID   `json:"team_lead_id,omitempty"`
	MyRole         access.ActorRole  `json:"my_role"`
	MemberCount    int               `json:"member_count"`
	MilestoneCount int               `json:"milestone_count"`
	TicketCount    int               `json:"ticket_count"`
	BugReportCount int               `json:"bug_report_count"`
}

type MilestoneView struct {
	ID        project.MilestoneID     `json:"id"`
	ProjectID project.ProjectID       `json:"project_id"`
	Name      string                  `json:"name"`
	Start     string                  `json:"start"`
	End       string                  `json:"end"`
	Status    project.MilestoneStatus `json:"status"`
}

type TicketView struct {
	ID          project.TicketID     `json:"id"`
	ProjectID   project.ProjectID    `json:"project_id"`
	MilestoneID project.MilestoneID  `json:"milestone_id"`
	Title       string               `json:"title"`
	Status      project.TicketStatus `json:"status"`
	Assignees   []project.UserID     `json:"assignees"`
}

type TicketCompletionView struct {
	TicketID project.TicketID     `json:"ticket_id"`
	Status   project.TicketStatus `json:"status"`
	Done     bool                 `json:"done"`
}

type BugReportView struct {
	ID         project.BugReportID `json:"id"`
	ProjectID  project.ProjectID   `json:"project_id"`
	Title      string              `json:"title"`
	Status     project.BugStatus   `json:"status"`
	AssignedTo *project.UserID     `json:"assigned_to,omitempty"`
}

// DashboardView is only ever built whole; a failed sub-query yields no view.
type DashboardView struct {
	UserID         project.UserID  `json:"user_id"`
	Projects       []ProjectView   `json:"projects"`
	Tickets        []TicketView    `json:"tickets"`
	ActionableBugs []BugReportView `json:"actionable_bugs"`
}

func toUserView(u project.User) UserView {
	return UserView{
		ID:           u.ID(),
		Login:        u.Login(),
		DisplayName:  u.DisplayName(),
		RegisteredAt: u.RegisteredAt().UTC(),
	}
}

func toProjectView(p *project.Project, viewer project.UserID) ProjectView {
	v := ProjectView{
		ID:             p.ID(),
		Key:            p.Key().String(),
		Name:           p.Name(),
		Description:    p.Description().String(),
		ManagerID:      p.ManagerID(),
		MyRole:         access.RoleIn(p, viewer),
		MemberCount:    p.MemberCount(),
		MilestoneCount: p.MilestoneCount(),
		TicketCount:    p.TicketCount(),
		BugReportCount: p.BugReportCount(),
	}
	if lead, ok := p.TeamLeadID(); ok {
		v.TeamLeadID = &lead
	}
	return v
}

func toMilestoneView(m project.Milestone) MilestoneView {
	return MilestoneView{
		ID:        m.ID(),
		ProjectID: m.ProjectID(),
		Name:      m.Name(),
		Start:     project.FormatDate(m.Dates().Start()),
		End:       project.FormatDate(m.Dates().End()),
		Status:    m.Status(),
	}
}

func toTicketView(t project.Ticket) TicketView {
	assignees := t.Assignees()
	if assignees == nil {
		assignees = []project.UserID{}
	}
	return TicketView{
		ID:          t.ID(),
		ProjectID:   t.ProjectID(),
		MilestoneID: t.MilestoneID(),
		Title:       t.Title().String(),
		Status:      t.Status(),
		Assignees:   assignees,
	}
}

func toBugView(b project.BugReport) BugReportView {
	v := BugReportView{
		ID:        b.ID(),
		ProjectID: b.ProjectID(),
		Title:     b.Title().String(),
		Status:    b.Status(),
	}
	if dev, ok := b.AssignedTo(); ok {
		v.AssignedTo = &dev
	}
	return v
}
