package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/tracker-backend/internal/http/response"
	"github.com/yungbote/tracker-backend/internal/services"
)

type UserHandler struct {
	projects services.ProjectService
}

func NewUserHandler(projects services.ProjectService) *UserHandler {
	return &UserHandler{projects: projects}
}

// POST /api/users
func (h *UserHandler) Register(c *gin.Context) {
	var req struct {
		Login       string `json:"login"`
		DisplayName string `json:"display_name"`
	}
	if !bindJSON(c, &req) {
		return
	}
	response.Respond(c, http.StatusCreated, h.projects.RegisterUser(c.Request.Context(), req.Login, req.DisplayName))
}
