// Package domain re-exports the persisted row types so storage code can
// import a single package.
package domain

import "github.com/yungbote/tracker-backend/internal/domain/index"

type TicketIndexRow = index.TicketRow
type TicketAssigneeIndexRow = index.TicketAssigneeRow
type BugReportIndexRow = index.BugReportRow

// IndexModels lists every table owned by the secondary index database.
func IndexModels() []any {
	return []any{
		&TicketIndexRow{},
		&TicketAssigneeIndexRow{},
		&BugReportIndexRow{},
	}
}
