package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/tracker-backend/internal/domain/project"
	"github.com/yungbote/tracker-backend/internal/http/response"
	"github.com/yungbote/tracker-backend/internal/platform/apierr"
	"github.com/yungbote/tracker-backend/internal/platform/ctxutil"
)

// Each helper writes the error response itself and reports false on failure.

func actorID(c *gin.Context) (project.UserID, bool) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil {
		response.RespondFailure(c, apierr.New(http.StatusUnauthorized, "missing_actor", errors.New("actor not set on request")))
		return project.UserID{}, false
	}
	return project.UserID{UUID: rd.ActorID}, true
}

func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.RespondFailure(c, apierr.New(http.StatusBadRequest, "invalid_request", err))
		return false
	}
	return true
}

func projectParam(c *gin.Context) (project.ProjectID, bool) {
	id, err := project.ParseProjectID(c.Param("projectID"))
	return id, check(c, err)
}

func milestoneParam(c *gin.Context) (project.MilestoneID, bool) {
	id, err := project.ParseMilestoneID(c.Param("milestoneID"))
	return id, check(c, err)
}

func ticketParam(c *gin.Context) (project.TicketID, bool) {
	id, err := project.ParseTicketID(c.Param("ticketID"))
	return id, check(c, err)
}

func bugParam(c *gin.Context) (project.BugReportID, bool) {
	id, err := project.ParseBugReportID(c.Param("bugID"))
	return id, check(c, err)
}

func userField(c *gin.Context, raw string) (project.UserID, bool) {
	id, err := project.ParseUserID(raw)
	return id, check(c, err)
}

func check(c *gin.Context, err error) bool {
	if err != nil {
		response.RespondFailure(c, err)
		return false
	}
	return true
}

type userRef struct {
	UserID string `json:"user_id"`
}
