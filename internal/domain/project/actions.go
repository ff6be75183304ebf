package project

// TicketAction is the closed set of ticket lifecycle commands.
type TicketAction interface {
	Actor() UserID
	ticketAction()
}

type AcceptTicket struct{ By UserID }
type StartTicket struct{ By UserID }
type CompleteTicket struct{ By UserID }

func (a AcceptTicket) Actor() UserID   { return a.By }
func (a StartTicket) Actor() UserID    { return a.By }
func (a CompleteTicket) Actor() UserID { return a.By }

func (AcceptTicket) ticketAction()   {}
func (StartTicket) ticketAction()    {}
func (CompleteTicket) ticketAction() {}

// BugReportAction is the closed set of bug lifecycle commands.
type BugReportAction interface {
	Actor() UserID
	bugReportAction()
}

type FixBug struct{ By UserID }
type TestBug struct{ By UserID }
type CloseBug struct{ By UserID }

func (a FixBug) Actor() UserID   { return a.By }
func (a TestBug) Actor() UserID  { return a.By }
func (a CloseBug) Actor() UserID { return a.By }

func (FixBug) bugReportAction()   {}
func (TestBug) bugReportAction()  {}
func (CloseBug) bugReportAction() {}
