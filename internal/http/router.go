package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/tracker-backend/internal/http/handlers"
	httpMW "github.com/yungbote/tracker-backend/internal/http/middleware"
	"github.com/yungbote/tracker-backend/internal/observability"
	"github.com/yungbote/tracker-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	Metrics     *observability.Metrics
	ServiceName string
	CORSOrigins []string

	UserHandler      *httpH.UserHandler
	ProjectHandler   *httpH.ProjectHandler
	MilestoneHandler *httpH.MilestoneHandler
	TicketHandler    *httpH.TicketHandler
	BugHandler       *httpH.BugHandler
	MeHandler        *httpH.MeHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins...))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	{
		// Registration (no actor yet)
		if cfg.UserHandler != nil {
			api.POST("/users", cfg.UserHandler.Register)
		}
	}

	protected := api.Group("/")
	protected.Use(httpMW.RequireActor())
	{
		// Projects & members
		if cfg.ProjectHandler != nil {
			protected.GET("/projects", cfg.ProjectHandler.ListMine)
			protected.POST("/projects", cfg.ProjectHandler.Create)
			protected.GET("/projects/:projectID", cfg.ProjectHandler.Get)
			protected.POST("/projects/:projectID/developers", cfg.ProjectHandler.AddDeveloper)
			protected.POST("/projects/:projectID/testers", cfg.ProjectHandler.AddTester)
			protected.POST("/projects/:projectID/team-lead", cfg.ProjectHandler.AssignTeamLead)
		}

		// Milestones
		if cfg.MilestoneHandler != nil {
			protected.POST("/projects/:projectID/milestones", cfg.MilestoneHandler.Create)
			protected.POST("/projects/:projectID/milestones/:milestoneID/activate", cfg.MilestoneHandler.Activate)
			protected.POST("/projects/:projectID/milestones/:milestoneID/close", cfg.MilestoneHandler.Close)
		}

		// Tickets
		if cfg.TicketHandler != nil {
			protected.POST("/projects/:projectID/tickets", cfg.TicketHandler.Create)
			protected.POST("/projects/:projectID/tickets/:ticketID/assignees", cfg.TicketHandler.AssignDeveloper)
			protected.GET("/projects/:projectID/tickets/:ticketID/completion", cfg.TicketHandler.Completion)
			protected.POST("/projects/:projectID/tickets/:ticketID/accept", cfg.TicketHandler.Accept)
			protected.POST("/projects/:projectID/tickets/:ticketID/start", cfg.TicketHandler.Start)
			protected.POST("/projects/:projectID/tickets/:ticketID/complete", cfg.TicketHandler.Complete)
		}

		// Bug reports
		if cfg.BugHandler != nil {
			protected.POST("/projects/:projectID/bugs", cfg.BugHandler.Create)
			protected.POST("/projects/:projectID/bugs/:bugID/assignee", cfg.BugHandler.Assign)
			protected.POST("/projects/:projectID/bugs/:bugID/fix", cfg.BugHandler.Fix)
			protected.POST("/projects/:projectID/bugs/:bugID/test", cfg.BugHandler.Test)
			protected.POST("/projects/:projectID/bugs/:bugID/close", cfg.BugHandler.Close)
		}

		// Me
		if cfg.MeHandler != nil {
			protected.GET("/me/tickets", cfg.MeHandler.Tickets)
			protected.GET("/me/bugs-to-fix", cfg.MeHandler.BugsToFix)
			protected.GET("/me/actionable-bugs", cfg.MeHandler.ActionableBugs)
			protected.GET("/me/dashboard", cfg.MeHandler.Dashboard)
		}
	}

	return r
}
