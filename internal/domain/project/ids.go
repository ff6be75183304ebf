package project

import (
	"strings"

	"github.com/google/uuid"

	domainagg "github.com/yungbote/tracker-backend/internal/domain/aggregates"
)

// Typed identifiers keep user, project, milestone, ticket and bug ids from being mixed up.
// Each embeds uuid.UUID, so they marshal as canonical uuid strings.

type UserID struct{ uuid.UUID }
type ProjectID struct{ uuid.UUID }
type MilestoneID struct{ uuid.UUID }
type TicketID struct{ uuid.UUID }
type BugReportID struct{ uuid.UUID }

func NewUserID() UserID           { return UserID{uuid.New()} }
func NewProjectID() ProjectID     { return ProjectID{uuid.New()} }
func NewMilestoneID() MilestoneID { return MilestoneID{uuid.New()} }
func NewTicketID() TicketID       { return TicketID{uuid.New()} }
func NewBugReportID() BugReportID { return BugReportID{uuid.New()} }

func (id UserID) IsZero() bool      { return id.UUID == uuid.Nil }
func (id ProjectID) IsZero() bool   { return id.UUID == uuid.Nil }
func (id MilestoneID) IsZero() bool { return id.UUID == uuid.Nil }
func (id TicketID) IsZero() bool    { return id.UUID == uuid.Nil }
func (id BugReportID) IsZero() bool { return id.UUID == uuid.Nil }

func ParseUserID(raw string) (UserID, error) {
	u, err := parseUUID("userId", raw)
	return UserID{u}, err
}

func ParseProjectID(raw string) (ProjectID, error) {
	u, err := parseUUID("projectId", raw)
	return ProjectID{u}, err
}

func ParseMilestoneID(raw string) (MilestoneID, error) {
	u, err := parseUUID("milestoneId", raw)
	return MilestoneID{u}, err
}

func ParseTicketID(raw string) (TicketID, error) {
	u, err := parseUUID("ticketId", raw)
	return TicketID{u}, err
}

func ParseBugReportID(raw string) (BugReportID, error) {
	u, err := parseUUID("bugReportId", raw)
	return BugReportID{u}, err
}

func parseUUID(field, raw string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, domainagg.InvalidValue(field, "must not be blank")
	}
	u, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, domainagg.InvalidValue(field, "must be a uuid")
	}
	if u == uuid.Nil {
		return uuid.Nil, domainagg.InvalidValue(field, "must not be the nil uuid")
	}
	return u, nil
}
