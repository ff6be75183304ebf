package project

import (
	"time"

	domainagg "github.com/yungbote/tracker-backend/internal/domain/aggregates"
)

const entityBugReport = "BugReport"

// BugReport moves NEW -> FIXED -> TESTED -> CLOSED. A zero UserID in
// assignedTo, fixedBy or testedBy means "not recorded yet".
type BugReport struct {
	id          BugReportID
	projectID   ProjectID
	title       Title
	description Description
	status      BugStatus
	createdBy   UserID
	assignedTo  UserID
	fixedBy     UserID
	testedBy    UserID
	createdAt   time.Time
	updatedAt   time.Time
}

func NewBugReport(id BugReportID, projectID ProjectID, title Title, description Description, createdBy UserID, now time.Time) (BugReport, error) {
	if title.String() == "" {
		return BugReport{}, domainagg.InvalidValue(fieldTitle, reasonBlank)
	}
	return BugReport{
		id:          id,
		projectID:   projectID,
		title:       title,
		description: description,
		status:      BugNew,
		createdBy:   createdBy,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

func (b BugReport) ID() BugReportID          { return b.id }
func (b BugReport) ProjectID() ProjectID     { return b.projectID }
func (b BugReport) Title() Title             { return b.title }
func (b BugReport) Description() Description { return b.description }
func (b BugReport) Status() BugStatus        { return b.status }
func (b BugReport) CreatedBy() UserID        { return b.createdBy }
func (b BugReport) CreatedAt() time.Time     { return b.createdAt }
func (b BugReport) UpdatedAt() time.Time     { return b.updatedAt }

func (b BugReport) AssignedTo() (UserID, bool) { return b.assignedTo, !b.assignedTo.IsZero() }
func (b BugReport) FixedBy() (UserID, bool)    { return b.fixedBy, !b.fixedBy.IsZero() }
func (b BugReport) TestedBy() (UserID, bool)   { return b.testedBy, !b.testedBy.IsZero() }

// AssignTo records the developer expected to fix the bug.
func (b BugReport) AssignTo(developer UserID, now time.Time) BugReport {
	b.assignedTo = developer
	b.updatedAt = now
	return b
}

func (b BugReport) Apply(action BugReportAction, now time.Time) (BugReport, error) {
	switch a := action.(type) {
	case FixBug:
		return b.Fix(a.By, now)
	case TestBug:
		return b.Test(a.By, now)
	case CloseBug:
		return b.Close(a.By, now)
	default:
		return BugReport{}, domainagg.InvariantViolation("bug.action", "unsupported bug report action")
	}
}

// Fix self-assigns the actor when nobody is assigned yet.
func (b BugReport) Fix(actor UserID, now time.Time) (BugReport, error) {
	if b.status != BugNew {
		return BugReport{}, domainagg.InvalidTransition(entityBugReport, b.status, BugFixed, "fix allowed only from NEW")
	}
	assignee := b.assignedTo
	if assignee.IsZero() {
		assignee = actor
	}
	if assignee != actor {
		return BugReport{}, domainagg.InvariantViolation("bug.assignee", "only assigned developer can fix the bug")
	}
	b.status = BugFixed
	b.assignedTo = assignee
	b.fixedBy = actor
	b.updatedAt = now
	return b, nil
}

func (b BugReport) Test(actor UserID, now time.Time) (BugReport, error) {
	if b.status != BugFixed {
		return BugReport{}, domainagg.InvalidTransition(entityBugReport, b.status, BugTested, "test allowed only from FIXED")
	}
	b.status = BugTested
	b.testedBy = actor
	b.updatedAt = now
	return b, nil
}

func (b BugReport) Close(actor UserID, now time.Time) (BugReport, error) {
	if b.status != BugTested {
		return BugReport{}, domainagg.InvalidTransition(entityBugReport, b.status, BugClosed, "close allowed only from TESTED")
	}
	b.status = BugClosed
	b.updatedAt = now
	return b, nil
}
