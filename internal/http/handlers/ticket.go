package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/tracker-backend/internal/domain/project"
	"github.com/yungbote/tracker-backend/internal/http/response"
	"github.com/yungbote/tracker-backend/internal/pkg/result"
	"github.com/yungbote/tracker-backend/internal/services"
)

type TicketHandler struct {
	projects services.ProjectService
}

func NewTicketHandler(projects services.ProjectService) *TicketHandler {
	return &TicketHandler{projects: projects}
}

// POST /api/projects/:projectID/tickets
func (h *TicketHandler) Create(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	projectID, ok := projectParam(c)
	if !ok {
		return
	}
	var req struct {
		MilestoneID string `json:"milestone_id"`
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if !bindJSON(c, &req) {
		return
	}
	milestoneID, err := project.ParseMilestoneID(req.MilestoneID)
	if !check(c, err) {
		return
	}
	response.Respond(c, http.StatusCreated, h.projects.CreateTicket(c.Request.Context(), actor, projectID, milestoneID, req.Title, req.Description))
}

// POST /api/projects/:projectID/tickets/:ticketID/assignees
func (h *TicketHandler) AssignDeveloper(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	projectID, ok := projectParam(c)
	if !ok {
		return
	}
	ticketID, ok := ticketParam(c)
	if !ok {
		return
	}
	var req userRef
	if !bindJSON(c, &req) {
		return
	}
	developer, ok := userField(c, req.UserID)
	if !ok {
		return
	}
	response.Respond(c, http.StatusOK, h.projects.AssignDeveloperToTicket(c.Request.Context(), actor, projectID, ticketID, developer))
}

// GET /api/projects/:projectID/tickets/:ticketID/completion
func (h *TicketHandler) Completion(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	projectID, ok := projectParam(c)
	if !ok {
		return
	}
	ticketID, ok := ticketParam(c)
	if !ok {
		return
	}
	response.Respond(c, http.StatusOK, h.projects.CheckTicketCompletion(c.Request.Context(), actor, projectID, ticketID))
}

// POST /api/projects/:projectID/tickets/:ticketID/accept
func (h *TicketHandler) Accept(c *gin.Context) { h.transition(c, h.projects.AcceptTicket) }

// POST /api/projects/:projectID/tickets/:ticketID/start
func (h *TicketHandler) Start(c *gin.Context) { h.transition(c, h.projects.StartTicket) }

// POST /api/projects/:projectID/tickets/:ticketID/complete
func (h *TicketHandler) Complete(c *gin.Context) { h.transition(c, h.projects.CompleteTicket) }

func (h *TicketHandler) transition(c *gin.Context, op func(context.Context, project.UserID, project.ProjectID, project.TicketID) result.Result[services.TicketView]) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	projectID, ok := projectParam(c)
	if !ok {
		return
	}
	ticketID, ok := ticketParam(c)
	if !ok {
		return
	}
	response.Respond(c, http.StatusOK, op(c.Request.Context(), actor, projectID, ticketID))
}
