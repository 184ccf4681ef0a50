package handler

import (
	"github.com/gin-gonic/gin"

	"smartplanning/backend/internal/service"
	"smartplanning/backend/pkg/response"
)

// DirectoryHandler serves the team and employee directory.
type DirectoryHandler struct {
	directorySvc service.DirectoryService
}

// NewDirectoryHandler builds the DirectoryHandler.
func NewDirectoryHandler(directorySvc service.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{directorySvc: directorySvc}
}

// ListTeams returns all teams.
// GET /api/v1/teams
func (h *DirectoryHandler) ListTeams(c *gin.Context) {
	teams, err := h.directorySvc.ListTeams(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, teams)
}

// ListEmployees returns employees, optionally filtered by team.
// Managers only ever see their own team.
// GET /api/v1/employees?team_id=xxx
func (h *DirectoryHandler) ListEmployees(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	employees, err := h.directorySvc.ListEmployees(c.Request.Context(), c.Query("team_id"), actor)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, employees)
}
