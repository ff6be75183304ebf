package project

import (
	"slices"
	"time"

	domainagg "github.com/yungbote/tracker-backend/internal/domain/aggregates"
)

const entityTicket = "Ticket"

// Ticket moves NEW -> ACCEPTED -> IN_PROGRESS -> DONE, one step at a time,
// and only by one of its assignees.
type Ticket struct {
	id          TicketID
	projectID   ProjectID
	milestoneID MilestoneID
	title       Title
	description Description
	status      TicketStatus
	assignees   []UserID
	createdBy   UserID
	createdAt   time.Time
	updatedAt   time.Time
}

func NewTicket(id TicketID, projectID ProjectID, milestoneID MilestoneID, title Title, description Description, createdBy UserID, now time.Time) (Ticket, error) {
	if title.String() == "" {
		return Ticket{}, domainagg.InvalidValue(fieldTitle, reasonBlank)
	}
	return Ticket{
		id:          id,
		projectID:   projectID,
		milestoneID: milestoneID,
		title:       title,
		description: description,
		status:      TicketNew,
		createdBy:   createdBy,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

func (t Ticket) ID() TicketID               { return t.id }
func (t Ticket) ProjectID() ProjectID       { return t.projectID }
func (t Ticket) MilestoneID() MilestoneID   { return t.milestoneID }
func (t Ticket) Title() Title               { return t.title }
func (t Ticket) Description() Description   { return t.description }
func (t Ticket) Status() TicketStatus       { return t.status }
func (t Ticket) CreatedBy() UserID          { return t.createdBy }
func (t Ticket) CreatedAt() time.Time       { return t.createdAt }
func (t Ticket) UpdatedAt() time.Time       { return t.updatedAt }
func (t Ticket) IsDone() bool               { return t.status == TicketDone }
func (t Ticket) IsAssigned(u UserID) bool   { return slices.Contains(t.assignees, u) }
func (t Ticket) Assignees() []UserID        { return slices.Clone(t.assignees) }

// Assign adds developer to the ordered assignee set. Repeated assignment is a no-op.
func (t Ticket) Assign(developer UserID, now time.Time) (Ticket, error) {
	if t.IsDone() {
		return Ticket{}, domainagg.InvariantViolation("ticket.notDoneForAssign", "cannot assign developers to DONE ticket")
	}
	if t.IsAssigned(developer) {
		return t, nil
	}
	next := make([]UserID, 0, len(t.assignees)+1)
	next = append(next, t.assignees...)
	t.assignees = append(next, developer)
	t.updatedAt = now
	return t, nil
}

func (t Ticket) Apply(action TicketAction, now time.Time) (Ticket, error) {
	switch a := action.(type) {
	case AcceptTicket:
		return t.Accept(a.By, now)
	case StartTicket:
		return t.Start(a.By, now)
	case CompleteTicket:
		return t.Complete(a.By, now)
	default:
		return Ticket{}, domainagg.InvariantViolation("ticket.action", "unsupported ticket action")
	}
}

func (t Ticket) Accept(actor UserID, now time.Time) (Ticket, error) {
	return t.advance(actor, TicketNew, TicketAccepted, "accept allowed only from NEW", "accept", now)
}

func (t Ticket) Start(actor UserID, now time.Time) (Ticket, error) {
	return t.advance(actor, TicketAccepted, TicketInProgress, "start allowed only from ACCEPTED", "start", now)
}

func (t Ticket) Complete(actor UserID, now time.Time) (Ticket, error) {
	return t.advance(actor, TicketInProgress, TicketDone, "complete allowed only from IN_PROGRESS", "complete", now)
}

func (t Ticket) advance(actor UserID, from, to TicketStatus, reason, verb string, now time.Time) (Ticket, error) {
	if t.status != from {
		return Ticket{}, domainagg.InvalidTransition(entityTicket, t.status, to, reason)
	}
	if !t.IsAssigned(actor) {
		return Ticket{}, domainagg.InvariantViolation("ticket.assignee", "actor must be assigned to "+verb+" the ticket")
	}
	t.status = to
	t.updatedAt = now
	return t, nil
}
