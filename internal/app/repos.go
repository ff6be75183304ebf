package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/tracker-backend/internal/data/aggregates"
	"github.com/yungbote/tracker-backend/internal/data/repos/tracker"
	"github.com/yungbote/tracker-backend/internal/domain/project"
	"github.com/yungbote/tracker-backend/internal/observability"
	"github.com/yungbote/tracker-backend/internal/platform/logger"
)

// Repos holds the in-memory aggregate stores and their secondary indices.
type Repos struct {
	Projects *aggregates.ProjectStore
	Users    *aggregates.UserStore
	Keys     *aggregates.KeySequence

	TicketIndex    tracker.TicketIndexRepo
	BugReportIndex tracker.BugReportIndexRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger, metrics *observability.Metrics) Repos {
	log.Info("Wiring repos...")
	hooks := aggregates.NewObservabilityHooks(metrics)
	return Repos{
		Projects:       aggregates.NewProjectStore(hooks, log),
		Users:          aggregates.NewUserStore(hooks, log),
		Keys:           aggregates.NewKeySequence(project.FormatProjectKey),
		TicketIndex:    tracker.NewTicketIndexRepo(db, log),
		BugReportIndex: tracker.NewBugReportIndexRepo(db, log),
	}
}
