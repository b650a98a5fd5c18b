package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/volley-vote-api/internal/dto"
	"github.com/noah-isme/volley-vote-api/internal/models"
	"github.com/noah-isme/volley-vote-api/pkg/response"
)

type subscriptionService interface {
	PublicKey() string
	Subscribe(ctx context.Context, req dto.SubscribeRequest) (*models.PushSubscription, error)
}

// PushHandler exposes browser push subscription endpoints.
type PushHandler struct {
	service subscriptionService
}

// NewPushHandler constructs a push handler.
func NewPushHandler(svc subscriptionService) *PushHandler {
	return &PushHandler{service: svc}
}

// PublicKey godoc
// @Summary VAPID public key for PushManager.subscribe
// @Tags Push
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /push/public-key [get]
func (h *PushHandler) PublicKey(c *gin.Context) {
	key := h.service.PublicKey()
	response.JSON(c, http.StatusOK, gin.H{"publicKey": key, "enabled": key != ""})
}

// Subscribe godoc
// @Summary Store the push subscription of a person
// @Tags Push
// @Accept json
// @Produce json
// @Param payload body dto.SubscribeRequest true "Subscription"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /push/subscribe [post]
func (h *PushHandler) Subscribe(c *gin.Context) {
	var req dto.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err, "invalid payload")
		return
	}
	sub, err := h.service.Subscribe(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, sub)
}
