package index

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// TicketRow is the queryable projection of a ticket. The project aggregate
// stays authoritative; rows are rewritten after every committed change.
type TicketRow struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"project_id"`
	MilestoneID uuid.UUID      `gorm:"type:uuid;not null;index" json:"milestone_id"`
	Title       string         `gorm:"column:title;not null" json:"title"`
	Status      string         `gorm:"column:status;not null;index" json:"status"`
	CreatedBy   uuid.UUID      `gorm:"type:uuid;not null" json:"created_by"`
	Assignees   datatypes.JSON `gorm:"column:assignees" json:"assignees"`
	// Version is the source snapshot's update time in unix nanos; older
	// versions never overwrite newer ones.
	Version     int64          `gorm:"column:version;not null" json:"version"`
	CreatedAt   time.Time      `gorm:"not null;autoCreateTime:false" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;index;autoUpdateTime:false" json:"updated_at"`
}

func (TicketRow) TableName() string { return "ticket_index" }

// TicketAssigneeRow links a ticket to one assigned developer.
type TicketAssigneeRow struct {
	TicketID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"ticket_id"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey;index" json:"user_id"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index" json:"project_id"`
}

func (TicketAssigneeRow) TableName() string { return "ticket_assignee_index" }
