package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/volley-vote-api/internal/dto"
	"github.com/noah-isme/volley-vote-api/internal/models"
	"github.com/noah-isme/volley-vote-api/pkg/response"
)

type attendanceService interface {
	Toggle(ctx context.Context, req dto.ToggleVoteRequest) (*models.ToggleResult, error)
	CurrentWeek(ctx context.Context) (*models.WeekMarks, error)
	ListForWeek(ctx context.Context, weekID string) (*models.WeekMarks, error)
	DeleteMark(ctx context.Context, id string) (*models.DeleteResult, error)
	LazyPeople(ctx context.Context) ([]models.Person, error)
	Export(ctx context.Context, req dto.ExportRequest) (*models.Document, error)
	CalendarEvent(ctx context.Context, req dto.CalendarRequest) (*models.Document, error)
}

// AttendanceHandler exposes voting endpoints.
type AttendanceHandler struct {
	service attendanceService
}

// NewAttendanceHandler constructs an attendance handler.
func NewAttendanceHandler(svc attendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: svc}
}

// Toggle godoc
// @Summary Toggle availability for a slot in the current week
// @Tags Votes
// @Accept json
// @Produce json
// @Param payload body dto.ToggleVoteRequest true "Slot"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /votes/toggle [post]
func (h *AttendanceHandler) Toggle(c *gin.Context) {
	var req dto.ToggleVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err, "invalid payload")
		return
	}
	res, err := h.service.Toggle(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res)
}

// List godoc
// @Summary Votes of the current week, or of ?week=YYYY-MM-DD
// @Tags Votes
// @Produce json
// @Param week query string false "Monday of the week"
// @Success 200 {object} response.Envelope
// @Router /votes [get]
func (h *AttendanceHandler) List(c *gin.Context) {
	var (
		res *models.WeekMarks
		err error
	)
	if weekID := c.Query("week"); weekID != "" {
		res, err = h.service.ListForWeek(c.Request.Context(), weekID)
	} else {
		res, err = h.service.CurrentWeek(c.Request.Context())
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res)
}

// Calendar godoc
// @Summary Download an .ics event for a slot of the current week
// @Tags Votes
// @Produce text/calendar
// @Param day query string true "mon..sun"
// @Param time query string true "18:00..21:00"
// @Success 200 {file} file
// @Router /votes/calendar [get]
func (h *AttendanceHandler) Calendar(c *gin.Context) {
	var req dto.CalendarRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err, "invalid query")
		return
	}
	doc, err := h.service.CalendarEvent(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, doc.Filename, doc.ContentType, doc.Content)
}

// DeleteMark godoc
// @Summary Delete a single vote
// @Tags Admin
// @Produce json
// @Param id path string true "Vote ID"
// @Security AdminPassword
// @Success 200 {object} response.Envelope
// @Router /admin/votes/{id} [delete]
func (h *AttendanceHandler) DeleteMark(c *gin.Context) {
	res, err := h.service.DeleteMark(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res)
}

// Lazy godoc
// @Summary People without a vote this week
// @Tags Admin
// @Produce json
// @Security AdminPassword
// @Success 200 {object} response.Envelope
// @Router /admin/lazy-users [get]
func (h *AttendanceHandler) Lazy(c *gin.Context) {
	people, err := h.service.LazyPeople(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, people, map[string]interface{}{"count": len(people)})
}

// Export godoc
// @Summary Export the current week grid
// @Tags Admin
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf"
// @Security AdminPassword
// @Success 200 {file} file
// @Router /admin/votes/export [get]
func (h *AttendanceHandler) Export(c *gin.Context) {
	var req dto.ExportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err, "invalid query")
		return
	}
	doc, err := h.service.Export(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, doc.Filename, doc.ContentType, doc.Content)
}
