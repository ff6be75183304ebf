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

type BugHandler struct {
	projects services.ProjectService
}

func NewBugHandler(projects services.ProjectService) *BugHandler {
	return &BugHandler{projects: projects}
}

// POST /api/projects/:projectID/bugs
func (h *BugHandler) Create(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	projectID, ok := projectParam(c)
	if !ok {
		return
	}
	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if !bindJSON(c, &req) {
		return
	}
	response.Respond(c, http.StatusCreated, h.projects.CreateBugReport(c.Request.Context(), actor, projectID, req.Title, req.Description))
}

// POST /api/projects/:projectID/bugs/:bugID/assignee
func (h *BugHandler) Assign(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	projectID, ok := projectParam(c)
	if !ok {
		return
	}
	bugID, ok := bugParam(c)
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
	response.Respond(c, http.StatusOK, h.projects.AssignBugReport(c.Request.Context(), actor, projectID, bugID, developer))
}

// POST /api/projects/:projectID/bugs/:bugID/fix
func (h *BugHandler) Fix(c *gin.Context) { h.transition(c, h.projects.FixBugReport) }

// POST /api/projects/:projectID/bugs/:bugID/test
func (h *BugHandler) Test(c *gin.Context) { h.transition(c, h.projects.TestBugReport) }

// POST /api/projects/:projectID/bugs/:bugID/close
func (h *BugHandler) Close(c *gin.Context) { h.transition(c, h.projects.CloseBugReport) }

func (h *BugHandler) transition(c *gin.Context, op func(context.Context, project.UserID, project.ProjectID, project.BugReportID) result.Result[services.BugReportView]) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	projectID, ok := projectParam(c)
	if !ok {
		return
	}
	bugID, ok := bugParam(c)
	if !ok {
		return
	}
	response.Respond(c, http.StatusOK, op(c.Request.Context(), actor, projectID, bugID))
}
