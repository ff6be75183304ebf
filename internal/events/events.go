// Package events describes committed project changes and how they leave the process.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	UserRegistered     Type = "user.registered"
	ProjectCreated     Type = "project.created"
	MemberAdded        Type = "project.member_added"
	TeamLeadAssigned   Type = "project.team_lead_assigned"
	MilestoneCreated   Type = "milestone.created"
	MilestoneActivated Type = "milestone.activated"
	MilestoneClosed    Type = "milestone.closed"
	TicketCreated      Type = "ticket.created"
	TicketAssigned     Type = "ticket.assigned"
	TicketAccepted     Type = "ticket.accepted"
	TicketStarted      Type = "ticket.started"
	TicketCompleted    Type = "ticket.completed"
	BugCreated         Type = "bug.created"
	BugAssigned        Type = "bug.assigned"
	BugFixed           Type = "bug.fixed"
	BugTested          Type = "bug.tested"
	BugClosed          Type = "bug.closed"
)

// Event is emitted only after the change it describes has been committed.
type Event struct {
	ID         uuid.UUID         `json:"id"`
	Type       Type              `json:"type"`
	ProjectID  string            `json:"project_id,omitempty"`
	ActorID    string            `json:"actor_id,omitempty"`
	EntityID   string            `json:"entity_id,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

func New(t Type, projectID, actorID, entityID string, at time.Time) Event {
	return Event{
		ID:         uuid.New(),
		Type:       t,
		ProjectID:  projectID,
		ActorID:    actorID,
		EntityID:   entityID,
		OccurredAt: at.UTC(),
	}
}

// With returns a copy of e carrying the extra attribute.
func (e Event) With(key, value string) Event {
	attrs := make(map[string]string, len(e.Attributes)+1)
	for k, v := range e.Attributes {
		attrs[k] = v
	}
	attrs[key] = value
	e.Attributes = attrs
	return e
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, Event) error { return nil }

// Nop drops every event.
func Nop() Publisher { return nopPublisher{} }
