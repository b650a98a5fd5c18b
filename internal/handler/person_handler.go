package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/volley-vote-api/internal/dto"
	"github.com/noah-isme/volley-vote-api/internal/models"
	"github.com/noah-isme/volley-vote-api/pkg/response"
)

type personService interface {
	Register(ctx context.Context, req dto.RegisterPersonRequest) (*models.Person, error)
	List(ctx context.Context) ([]models.PersonView, error)
	Delete(ctx context.Context, id string) (*models.DeleteResult, error)
}

// PersonHandler exposes roster endpoints.
type PersonHandler struct {
	service personService
}

// NewPersonHandler constructs a person handler.
func NewPersonHandler(svc personService) *PersonHandler {
	return &PersonHandler{service: svc}
}

// Register godoc
// @Summary Register on the roster
// @Tags Users
// @Accept json
// @Produce json
// @Param payload body dto.RegisterPersonRequest true "Names"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /users [post]
func (h *PersonHandler) Register(c *gin.Context) {
	var req dto.RegisterPersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err, "invalid payload")
		return
	}
	person, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, person)
}

// List godoc
// @Summary List the roster with display names
// @Tags Users
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /users [get]
func (h *PersonHandler) List(c *gin.Context) {
	people, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, people, map[string]interface{}{"count": len(people)})
}

// Delete godoc
// @Summary Delete a person with their votes and subscription
// @Tags Admin
// @Produce json
// @Param id path string true "Person ID"
// @Security AdminPassword
// @Success 200 {object} response.Envelope
// @Router /admin/users/{id} [delete]
func (h *PersonHandler) Delete(c *gin.Context) {
	res, err := h.service.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res)
}
