package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/volley-vote-api/internal/dto"
	"github.com/noah-isme/volley-vote-api/internal/models"
	"github.com/noah-isme/volley-vote-api/internal/repository"
	appErrors "github.com/noah-isme/volley-vote-api/pkg/errors"
	"github.com/noah-isme/volley-vote-api/pkg/validation"
)

type subscriptionRepository interface {
	Upsert(ctx context.Context, sub *models.PushSubscription) error
}

// SubscriptionService stores browser push subscriptions.
type SubscriptionService struct {
	repo      subscriptionRepository
	publicKey string
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSubscriptionService constructs a SubscriptionService.
func NewSubscriptionService(repo subscriptionRepository, publicKey string, validate *validator.Validate, logger *zap.Logger) *SubscriptionService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubscriptionService{repo: repo, publicKey: publicKey, validator: validate, logger: logger}
}

// PublicKey returns the VAPID public key browsers subscribe with. It is
// empty when push is disabled.
func (s *SubscriptionService) PublicKey() string {
	return s.publicKey
}

// Subscribe replaces the person's subscription.
func (s *SubscriptionService) Subscribe(ctx context.Context, req dto.SubscribeRequest) (*models.PushSubscription, error) {
	req.UserID = strings.TrimSpace(req.UserID)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Invalid(err, "userId and a complete subscription are required", validation.Fields(err))
	}

	sub := &models.PushSubscription{
		PersonID: req.UserID,
		Endpoint: req.Subscription.Endpoint,
		P256dh:   req.Subscription.Keys.P256dh,
		Auth:     req.Subscription.Keys.Auth,
	}
	if err := s.repo.Upsert(ctx, sub); err != nil {
		if errors.Is(err, repository.ErrPersonNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "person not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save subscription")
	}
	s.logger.Info("push subscription saved", zap.String("person_id", sub.PersonID))
	return sub, nil
}
