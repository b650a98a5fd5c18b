package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/volley-vote-api/internal/dto"
	"github.com/noah-isme/volley-vote-api/internal/models"
	appErrors "github.com/noah-isme/volley-vote-api/pkg/errors"
	"github.com/noah-isme/volley-vote-api/pkg/jobs"
	"github.com/noah-isme/volley-vote-api/pkg/push"
	"github.com/noah-isme/volley-vote-api/pkg/validation"
)

const (
	reasonNoSubscription = "no subscription"
	reasonPersonNotFound = "person not found"
)

type recipientRepository interface {
	Recipients(ctx context.Context, personIDs []string) ([]models.Recipient, error)
}

// ReminderConfig shapes the notification sent to each recipient.
type ReminderConfig struct {
	Title       string
	Body        string
	URL         string
	Concurrency int
	Timeout     time.Duration
}

// ErrPushNotConfigured is returned by Remind when no VAPID keys were loaded.
var ErrPushNotConfigured = appErrors.Clone(appErrors.ErrConfiguration, "push credentials are not configured")

// ReminderService nudges people who have not voted this week.
type ReminderService struct {
	repo      recipientRepository
	sender    push.Sender
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
	pool      *jobs.Pool
	title     string
	url       string
	body      *template.Template
}

// NewReminderService constructs the dispatcher. A nil sender means push
// credentials are not configured; every Remind call then fails fast.
func NewReminderService(repo recipientRepository, sender push.Sender, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger, cfg ReminderConfig) (*ReminderService, error) {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.URL == "" {
		cfg.URL = "/"
	}
	if cfg.Body == "" {
		cfg.Body = "{{.FirstName}}, vote for this week's games!"
	}
	body, err := template.New("reminder").Option("missingkey=error").Parse(cfg.Body)
	if err != nil {
		return nil, fmt.Errorf("parse reminder body template: %w", err)
	}
	return &ReminderService{
		repo:      repo,
		sender:    sender,
		validator: validate,
		metrics:   metrics,
		logger:    logger,
		pool:      jobs.NewPool("reminders", jobs.PoolConfig{Workers: cfg.Concurrency, Timeout: cfg.Timeout, Logger: logger}),
		title:     cfg.Title,
		url:       cfg.URL,
		body:      body,
	}, nil
}

// Remind sends one notification per distinct requested person and returns an
// outcome for each, in request order. A failure for one recipient never
// affects the others and nothing is retried.
func (s *ReminderService) Remind(ctx context.Context, req dto.RemindRequest) (*dto.RemindResponse, error) {
	if !s.Configured() {
		return nil, ErrPushNotConfigured
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Invalid(err, "userIds must be a non-empty list", validation.Fields(err))
	}

	ids := dedupe(req.UserIDs)
	recipients, err := s.repo.Recipients(ctx, ids)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load reminder recipients")
	}
	byID := make(map[string]models.Recipient, len(recipients))
	for _, r := range recipients {
		byID[r.PersonID] = r
	}

	started := time.Now()
	outcomes := make([]models.ReminderOutcome, len(ids))
	errs := s.pool.Run(ctx, len(ids), func(ctx context.Context, i int) error {
		recipient, ok := byID[ids[i]]
		switch {
		case !ok:
			return errors.New(reasonPersonNotFound)
		case recipient.Subscription == nil:
			return errors.New(reasonNoSubscription)
		}
		return s.deliver(ctx, recipient)
	})

	for i, id := range ids {
		outcomes[i] = models.ReminderOutcome{PersonID: id, Delivered: errs[i] == nil}
		if errs[i] != nil {
			outcomes[i].Error = errs[i].Error()
			s.logger.Warn("reminder not delivered", zap.String("person_id", id), zap.Error(errs[i]))
		}
	}

	summary := models.Summarize(outcomes)
	s.metrics.RecordReminderBatch(summary.Delivered, summary.Failed, time.Since(started))
	s.logger.Info("reminder batch finished",
		zap.Int("workers", s.pool.Workers()),
		zap.Int("requested", summary.Requested),
		zap.Int("delivered", summary.Delivered),
		zap.Int("failed", summary.Failed),
	)
	return &dto.RemindResponse{Results: outcomes, Summary: summary}, nil
}

func (s *ReminderService) deliver(ctx context.Context, recipient models.Recipient) error {
	payload, err := s.payloadFor(recipient)
	if err != nil {
		return err
	}
	sub := recipient.Subscription
	if err := s.sender.Send(ctx, push.Subscription{Endpoint: sub.Endpoint, P256dh: sub.P256dh, Auth: sub.Auth}, payload); err != nil {
		var status *push.StatusError
		if errors.As(err, &status) && status.Gone() {
			// Left in place; the person has to subscribe again from the client.
			s.logger.Warn("push subscription expired",
				zap.String("person_id", recipient.PersonID),
				zap.Int("status", status.StatusCode),
			)
			return appErrors.Wrap(err, appErrors.ErrDelivery.Code, appErrors.ErrDelivery.Status, "subscription expired")
		}
		return appErrors.Wrap(err, appErrors.ErrDelivery.Code, appErrors.ErrDelivery.Status, "delivery failed")
	}
	return nil
}

func (s *ReminderService) payloadFor(recipient models.Recipient) ([]byte, error) {
	var body bytes.Buffer
	if err := s.body.Execute(&body, struct{ FirstName string }{recipient.FirstName}); err != nil {
		return nil, fmt.Errorf("render reminder body: %w", err)
	}
	payload, err := json.Marshal(models.ReminderPayload{Title: s.title, Body: body.String(), URL: s.url})
	if err != nil {
		return nil, fmt.Errorf("marshal reminder payload: %w", err)
	}
	return payload, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Configured reports whether a push sender is available.
func (s *ReminderService) Configured() bool {
	return s.sender != nil
}
