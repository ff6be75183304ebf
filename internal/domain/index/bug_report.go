package index

import (
	"time"

	"github.com/google/uuid"
)

// BugReportRow is the queryable projection of a bug report.
type BugReportRow struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"project_id"`
	Title       string     `gorm:"column:title;not null" json:"title"`
	Status      string     `gorm:"column:status;not null;index:idx_bug_report_index_status_assignee,priority:1" json:"status"`
	CreatedBy   uuid.UUID  `gorm:"type:uuid;not null" json:"created_by"`
	AssignedTo  *uuid.UUID `gorm:"type:uuid;index:idx_bug_report_index_status_assignee,priority:2" json:"assigned_to,omitempty"`
	FixedBy     *uuid.UUID `gorm:"type:uuid" json:"fixed_by,omitempty"`
	TestedBy    *uuid.UUID `gorm:"type:uuid" json:"tested_by,omitempty"`
	Version     int64      `gorm:"column:version;not null" json:"version"`
	CreatedAt   time.Time  `gorm:"not null;autoCreateTime:false" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null;index;autoUpdateTime:false" json:"updated_at"`
}

func (BugReportRow) TableName() string { return "bug_report_index" }
