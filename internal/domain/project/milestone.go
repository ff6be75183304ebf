package project

import "time"

type Milestone struct {
	id        MilestoneID
	projectID ProjectID
	name      string
	dates     DateRange
	status    MilestoneStatus
	createdAt time.Time
	updatedAt time.Time
}

// NewMilestone starts every milestone OPEN.
func NewMilestone(id MilestoneID, projectID ProjectID, name string, dates DateRange, now time.Time) (Milestone, error) {
	n, err := boundedNonBlank(fieldMilestoneName, name, maxMilestoneNameLen)
	if err != nil {
		return Milestone{}, err
	}
	return Milestone{
		id:        id,
		projectID: projectID,
		name:      n,
		dates:     dates,
		status:    MilestoneOpen,
		createdAt: now,
		updatedAt: now,
	}, nil
}

func (m Milestone) ID() MilestoneID         { return m.id }
func (m Milestone) ProjectID() ProjectID    { return m.projectID }
func (m Milestone) Name() string            { return m.name }
func (m Milestone) Dates() DateRange        { return m.dates }
func (m Milestone) Status() MilestoneStatus { return m.status }
func (m Milestone) CreatedAt() time.Time    { return m.createdAt }
func (m Milestone) UpdatedAt() time.Time    { return m.updatedAt }

func (m Milestone) withStatus(next MilestoneStatus, now time.Time) Milestone {
	m.status = next
	m.updatedAt = now
	return m
}
