package app

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/tracker-backend/internal/data/db"
	"github.com/yungbote/tracker-backend/internal/http"
	httpH "github.com/yungbote/tracker-backend/internal/http/handlers"
	"github.com/yungbote/tracker-backend/internal/observability"
	"github.com/yungbote/tracker-backend/internal/platform/logger"
)

type Handlers struct {
	Health    *httpH.HealthHandler
	User      *httpH.UserHandler
	Project   *httpH.ProjectHandler
	Milestone *httpH.MilestoneHandler
	Ticket    *httpH.TicketHandler
	Bug       *httpH.BugHandler
	Me        *httpH.MeHandler
}

func wireHandlers(log *logger.Logger, services Services, index *db.IndexService, clients Clients) Handlers {
	log.Info("Wiring handlers...")
	probes := map[string]httpH.Probe{"index_db": index.Ping}
	if clients.EventBus != nil {
		rdb := clients.EventBus.Client()
		probes["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	return Handlers{
		Health:    httpH.NewHealthHandler(probes),
		User:      httpH.NewUserHandler(services.Projects),
		Project:   httpH.NewProjectHandler(services.Projects),
		Milestone: httpH.NewMilestoneHandler(services.Projects),
		Ticket:    httpH.NewTicketHandler(services.Projects),
		Bug:       httpH.NewBugHandler(services.Projects),
		Me:        httpH.NewMeHandler(services.Projects),
	}
}

func wireRouter(log *logger.Logger, cfg Config, handlers Handlers, metrics *observability.Metrics) *gin.Engine {
	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
	}
	return http.NewRouter(http.RouterConfig{
		Log:              log,
		Metrics:          metrics,
		ServiceName:      serviceName,
		CORSOrigins:      cfg.CORSOrigins,
		HealthHandler:    handlers.Health,
		UserHandler:      handlers.User,
		ProjectHandler:   handlers.Project,
		MilestoneHandler: handlers.Milestone,
		TicketHandler:    handlers.Ticket,
		BugHandler:       handlers.Bug,
		MeHandler:        handlers.Me,
	})
}
