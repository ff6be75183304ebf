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

type ProjectHandler struct {
	projects services.ProjectService
}

func NewProjectHandler(projects services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

// GET /api/projects
func (h *ProjectHandler) ListMine(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	response.Respond(c, http.StatusOK, h.projects.ListMyProjects(c.Request.Context(), actor))
}

// POST /api/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if !bindJSON(c, &req) {
		return
	}
	response.Respond(c, http.StatusCreated, h.projects.CreateProject(c.Request.Context(), actor, req.Name, req.Description))
}

// GET /api/projects/:projectID
func (h *ProjectHandler) Get(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	projectID, ok := projectParam(c)
	if !ok {
		return
	}
	response.Respond(c, http.StatusOK, h.projects.GetProject(c.Request.Context(), actor, projectID))
}

// POST /api/projects/:projectID/developers
func (h *ProjectHandler) AddDeveloper(c *gin.Context) {
	h.member(c, h.projects.AddDeveloper)
}

// POST /api/projects/:projectID/testers
func (h *ProjectHandler) AddTester(c *gin.Context) {
	h.member(c, h.projects.AddTester)
}

// POST /api/projects/:projectID/team-lead
func (h *ProjectHandler) AssignTeamLead(c *gin.Context) {
	h.member(c, h.projects.AssignTeamLead)
}

type memberOp = func(ctx context.Context, actor project.UserID, projectID project.ProjectID, member project.UserID) result.Result[services.ProjectView]

func (h *ProjectHandler) member(c *gin.Context, op memberOp) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	projectID, ok := projectParam(c)
	if !ok {
		return
	}
	var req userRef
	if !bindJSON(c, &req) {
		return
	}
	member, ok := userField(c, req.UserID)
	if !ok {
		return
	}
	response.Respond(c, http.StatusOK, op(c.Request.Context(), actor, projectID, member))
}
