package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"smartplanning/backend/internal/dto"
	"smartplanning/backend/internal/service"
	"smartplanning/backend/pkg/response"
)

// ScheduleHandler serves the generated-schedule validation workflow.
type ScheduleHandler struct {
	scheduleSvc service.ScheduleService
}

// NewScheduleHandler builds the ScheduleHandler.
func NewScheduleHandler(scheduleSvc service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleSvc: scheduleSvc}
}

// List returns generated schedules, filterable by status and team.
// GET /api/v1/generated-schedules
func (h *ScheduleHandler) List(c *gin.Context) {
	var req dto.ScheduleListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "invalid query parameters")
		return
	}

	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	schedules, total, err := h.scheduleSvc.List(c.Request.Context(), &req, actor)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, schedules, total, req.Page, req.PageSize)
}

// Get returns one generated schedule.
// GET /api/v1/generated-schedules/:id
func (h *ScheduleHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "schedule id must not be empty")
		return
	}

	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	schedule, err := h.scheduleSvc.GetByID(c.Request.Context(), id, actor)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, schedule)
}

// Ingest accepts a freshly generated draft from the upstream engine.
// POST /api/v1/generated-schedules
func (h *ScheduleHandler) Ingest(c *gin.Context) {
	var req dto.CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request payload")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	schedule, err := h.scheduleSvc.Ingest(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.Created(c, schedule)
}

// UpdateScheduleData replaces a draft's schedule data in one request.
// PATCH /api/v1/generated-schedules/:id
func (h *ScheduleHandler) UpdateScheduleData(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "schedule id must not be empty")
		return
	}

	var req dto.UpdateScheduleDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request payload")
		return
	}

	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	schedule, err := h.scheduleSvc.UpdateScheduleData(c.Request.Context(), id, req.ScheduleData.ToModel(), actor)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, schedule)
}

// Validate approves a draft schedule.
// PATCH /api/v1/generated-schedules/:id/validate
func (h *ScheduleHandler) Validate(c *gin.Context) {
	h.transition(c, h.scheduleSvc.Validate)
}

// Reject rejects a draft schedule.
// PATCH /api/v1/generated-schedules/:id/reject
func (h *ScheduleHandler) Reject(c *gin.Context) {
	h.transition(c, h.scheduleSvc.Reject)
}

// transition shares the validate/reject handler shape: both are the
// same single-action, conflict-aware state change.
func (h *ScheduleHandler) transition(
	c *gin.Context,
	op func(ctx context.Context, id string, actor service.Actor) (*dto.ScheduleResponse, error),
) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "schedule id must not be empty")
		return
	}

	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	schedule, err := op(c.Request.Context(), id, actor)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, schedule)
}

// handleScheduleError maps schedule module business errors onto the
// response envelope. A stale-state race lands on 409 so the client
// refreshes its list instead of treating the loss as fatal.
func (h *ScheduleHandler) handleScheduleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrScheduleNotFound):
		response.NotFound(c, 20001, "generated schedule not found")
	case errors.Is(err, service.ErrScheduleNotDraft):
		response.Conflict(c, 20002, "schedule is no longer in draft status")
	case errors.Is(err, service.ErrForbiddenTeamScope):
		response.Forbidden(c, 20003, "schedule belongs to another team")
	case errors.Is(err, service.ErrMalformedScheduleData):
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, 20004, "schedule data is malformed", err.Error())
	case errors.Is(err, service.ErrEmployeeNotFound):
		response.NotFound(c, 20005, "employee not found")
	case errors.Is(err, service.ErrTeamNotFound):
		response.NotFound(c, 20006, "team not found")
	case errors.Is(err, service.ErrEmployeeTeamMismatch):
		response.BadRequest(c, 20007, "employee does not belong to the given team")
	default:
		response.InternalError(c)
	}
}
