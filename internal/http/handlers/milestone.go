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

type MilestoneHandler struct {
	projects services.ProjectService
}

func NewMilestoneHandler(projects services.ProjectService) *MilestoneHandler {
	return &MilestoneHandler{projects: projects}
}

// POST /api/projects/:projectID/milestones
func (h *MilestoneHandler) Create(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	projectID, ok := projectParam(c)
	if !ok {
		return
	}
	var req struct {
		Name  string `json:"name"`
		Start string `json:"start"`
		End   string `json:"end"`
	}
	if !bindJSON(c, &req) {
		return
	}
	start, err := project.ParseDate("start", req.Start)
	if !check(c, err) {
		return
	}
	end, err := project.ParseDate("end", req.End)
	if !check(c, err) {
		return
	}
	response.Respond(c, http.StatusCreated, h.projects.CreateMilestone(c.Request.Context(), actor, projectID, req.Name, start, end))
}

// POST /api/projects/:projectID/milestones/:milestoneID/activate
func (h *MilestoneHandler) Activate(c *gin.Context) {
	h.transition(c, h.projects.ActivateMilestone)
}

// POST /api/projects/:projectID/milestones/:milestoneID/close
func (h *MilestoneHandler) Close(c *gin.Context) {
	h.transition(c, h.projects.CloseMilestone)
}

func (h *MilestoneHandler) transition(c *gin.Context, op func(context.Context, project.UserID, project.ProjectID, project.MilestoneID) result.Result[services.MilestoneView]) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	projectID, ok := projectParam(c)
	if !ok {
		return
	}
	milestoneID, ok := milestoneParam(c)
	if !ok {
		return
	}
	response.Respond(c, http.StatusOK, op(c.Request.Context(), actor, projectID, milestoneID))
}
