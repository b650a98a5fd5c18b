package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/volley-vote-api/internal/dto"
	"github.com/noah-isme/volley-vote-api/internal/models"
	appErrors "github.com/noah-isme/volley-vote-api/pkg/errors"
	"github.com/noah-isme/volley-vote-api/pkg/response"
)

type adminAuthService interface {
	Login(ctx context.Context, req dto.AdminLoginRequest) (*models.AdminToken, error)
}

type reminderService interface {
	Remind(ctx context.Context, req dto.RemindRequest) (*dto.RemindResponse, error)
	Configured() bool
}

// AdminHandler exposes the admin session and reminder endpoints.
type AdminHandler struct {
	auth      adminAuthService
	reminders reminderService
}

// NewAdminHandler constructs an admin handler.
func NewAdminHandler(auth adminAuthService, reminders reminderService) *AdminHandler {
	return &AdminHandler{auth: auth, reminders: reminders}
}

// Login godoc
// @Summary Exchange the admin password for a session token
// @Tags Admin
// @Accept json
// @Produce json
// @Param payload body dto.AdminLoginRequest true "Password"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /admin/login [post]
func (h *AdminHandler) Login(c *gin.Context) {
	var req dto.AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err, "invalid payload")
		return
	}
	token, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, token)
}

// Remind godoc
// @Summary Push a reminder to the given people
// @Tags Admin
// @Accept json
// @Produce json
// @Param payload body dto.RemindRequest true "Recipients"
// @Security AdminPassword
// @Success 200 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /admin/remind-lazy [post]
func (h *AdminHandler) Remind(c *gin.Context) {
	if !h.reminders.Configured() {
		response.Error(c, appErrors.Clone(appErrors.ErrConfiguration, "push credentials are not configured"))
		return
	}
	var req dto.RemindRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err, "invalid payload")
		return
	}
	res, err := h.reminders.Remind(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res.Results, map[string]interface{}{"summary": res.Summary})
}
