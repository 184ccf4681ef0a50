package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"smartplanning/backend/internal/service"
	"smartplanning/backend/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler serves schedule export downloads.
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler builds the ExportHandler.
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportWeekExcel exports one team's week as an Excel grid.
// GET /api/v1/export/schedules?team_id=xxx&year=2025&week=10
func (h *ExportHandler) ExportWeekExcel(c *gin.Context) {
	teamID := c.Query("team_id")
	if teamID == "" {
		response.BadRequest(c, 10001, "team_id must not be empty")
		return
	}
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		response.BadRequest(c, 10001, "year must be a number")
		return
	}
	week, err := strconv.Atoi(c.Query("week"))
	if err != nil {
		response.BadRequest(c, 10001, "week must be a number")
		return
	}

	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.ExportWeekExcel(c.Request.Context(), teamID, year, week, actor)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Header("Content-Type", xlsxContentType)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ExportScheduleICS exports one approved schedule as an iCalendar feed.
// GET /api/v1/generated-schedules/:id/ics
func (h *ExportHandler) ExportScheduleICS(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "schedule id must not be empty")
		return
	}

	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	data, filename, err := h.exportSvc.ExportScheduleICS(c.Request.Context(), id, actor)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", data)
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportNoSchedules):
		response.NotFound(c, 22001, "no schedules for this team and week")
	case errors.Is(err, service.ErrScheduleNotFound):
		response.NotFound(c, 20001, "generated schedule not found")
	case errors.Is(err, service.ErrScheduleNotApproved):
		response.Conflict(c, 22002, "only approved schedules can be exported as a calendar")
	case errors.Is(err, service.ErrForbiddenTeamScope):
		response.Forbidden(c, 20003, "schedule belongs to another team")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c)
	default:
		response.InternalError(c)
	}
}
