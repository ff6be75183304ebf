package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/tracker-backend/internal/http/response"
	"github.com/yungbote/tracker-backend/internal/services"
)

// MeHandler serves the caller's personal views.
type MeHandler struct {
	projects services.ProjectService
}

func NewMeHandler(projects services.ProjectService) *MeHandler {
	return &MeHandler{projects: projects}
}

// GET /api/me/tickets
func (h *MeHandler) Tickets(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	response.Respond(c, http.StatusOK, h.projects.ListMyTickets(c.Request.Context(), actor))
}

// GET /api/me/bugs-to-fix
func (h *MeHandler) BugsToFix(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	response.Respond(c, http.StatusOK, h.projects.ListBugsToFix(c.Request.Context(), actor))
}

// GET /api/me/actionable-bugs
func (h *MeHandler) ActionableBugs(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	response.Respond(c, http.StatusOK, h.projects.ListActionableBugs(c.Request.Context(), actor))
}

// GET /api/me/dashboard
func (h *MeHandler) Dashboard(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	response.Respond(c, http.StatusOK, h.projects.BuildDashboard(c.Request.Context(), actor))
}
