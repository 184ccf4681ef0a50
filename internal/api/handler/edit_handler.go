package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"smartplanning/backend/internal/dto"
	"smartplanning/backend/internal/repository"
	"smartplanning/backend/internal/service"
	"smartplanning/backend/pkg/response"
)

// EditHandler serves the per-schedule edit sessions.
type EditHandler struct {
	editSvc service.EditService
}

// NewEditHandler builds the EditHandler.
func NewEditHandler(editSvc service.EditService) *EditHandler {
	return &EditHandler{editSvc: editSvc}
}

// Begin opens an edit session on a draft schedule.
// POST /api/v1/generated-schedules/:id/edit
func (h *EditHandler) Begin(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "schedule id must not be empty")
		return
	}

	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	session, err := h.editSvc.Begin(c.Request.Context(), id, actor)
	if err != nil {
		h.handleEditError(c, err)
		return
	}

	response.Created(c, session)
}

// Get returns the current working copy of an edit session.
// GET /api/v1/generated-schedules/:id/edit
func (h *EditHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "schedule id must not be empty")
		return
	}

	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	session, err := h.editSvc.Get(c.Request.Context(), id, actor)
	if err != nil {
		h.handleEditError(c, err)
		return
	}

	response.OK(c, session)
}

// Mutate applies one buffered change to the working copy.
// PATCH /api/v1/generated-schedules/:id/edit
func (h *EditHandler) Mutate(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "schedule id must not be empty")
		return
	}

	var req dto.EditMutationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request payload")
		return
	}

	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	session, err := h.editSvc.Mutate(c.Request.Context(), id, &req, actor)
	if err != nil {
		h.handleEditError(c, err)
		return
	}

	response.OK(c, session)
}

// Commit validates the working copy and writes it through.
// POST /api/v1/generated-schedules/:id/edit/commit
func (h *EditHandler) Commit(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "schedule id must not be empty")
		return
	}

	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	if err := h.editSvc.Commit(c.Request.Context(), id, actor); err != nil {
		h.handleEditError(c, err)
		return
	}

	response.OK(c, nil)
}

// Cancel discards the working copy.
// DELETE /api/v1/generated-schedules/:id/edit
func (h *EditHandler) Cancel(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "schedule id must not be empty")
		return
	}

	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	if err := h.editSvc.Cancel(c.Request.Context(), id, actor); err != nil {
		h.handleEditError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *EditHandler) handleEditError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNoEditSession):
		response.NotFound(c, 21001, "no edit session open for this schedule")
	case errors.Is(err, service.ErrEditSessionExists):
		response.Conflict(c, 21002, "an edit session is already open for this schedule")
	case errors.Is(err, service.ErrEditNotOwner):
		response.Forbidden(c, 21003, "edit session belongs to another reviewer")
	case errors.Is(err, service.ErrScheduleNotFound):
		response.NotFound(c, 20001, "generated schedule not found")
	case errors.Is(err, service.ErrScheduleNotDraft):
		response.Conflict(c, 20002, "schedule is no longer in draft status")
	case errors.Is(err, service.ErrForbiddenTeamScope):
		response.Forbidden(c, 20003, "schedule belongs to another team")
	case errors.Is(err, service.ErrMalformedScheduleData):
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, 20004, "schedule data is malformed", err.Error())
	default:
		response.InternalError(c)
	}
}
