package app

import (
	"github.com/yungbote/tracker-backend/internal/observability"
	"github.com/yungbote/tracker-backend/internal/platform/logger"
	"github.com/yungbote/tracker-backend/internal/services"
)

type Services struct {
	Projects services.ProjectService
}

func wireServices(log *logger.Logger, cfg Config, repos Repos, clients Clients, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")
	return Services{
		Projects: services.NewProjectService(services.ProjectServiceDeps{
			Projects:         repos.Projects,
			Users:            repos.Users,
			Keys:             repos.Keys,
			Tickets:          repos.TicketIndex,
			Bugs:             repos.BugReportIndex,
			Events:           clients.Publisher,
			Metrics:          metrics,
			Log:              log,
			DashboardTimeout: cfg.DashboardTimeout,
		}),
	}
}
