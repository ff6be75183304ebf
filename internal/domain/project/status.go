package project

// Role is a member's single role inside one project.
type Role string

const (
	RoleManager   Role = "MANAGER"
	RoleTeamLead  Role = "TEAM_LEAD"
	RoleDeveloper Role = "DEVELOPER"
	RoleTester    Role = "TESTER"
)

func (r Role) canWork() bool { return r == RoleDeveloper || r == RoleTeamLead }

type MilestoneStatus string

const (
	MilestoneOpen   MilestoneStatus = "OPEN"
	MilestoneActive MilestoneStatus = "ACTIVE"
	MilestoneClosed MilestoneStatus = "CLOSED"
)

type TicketStatus string

const (
	TicketNew        TicketStatus = "NEW"
	TicketAccepted   TicketStatus = "ACCEPTED"
	TicketInProgress TicketStatus = "IN_PROGRESS"
	TicketDone       TicketStatus = "DONE"
)

type BugStatus string

const (
	BugNew    BugStatus = "NEW"
	BugFixed  BugStatus = "FIXED"
	BugTested BugStatus = "TESTED"
	BugClosed BugStatus = "CLOSED"
)
