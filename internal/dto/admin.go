package dto

import "github.com/noah-isme/volley-vote-api/internal/models"

// AdminLoginRequest exchanges the shared secret for a session token.
type AdminLoginRequest struct {
	Password string `json:"password" validate:"required"`
}

// RemindRequest lists the people to nudge.
type RemindRequest struct {
	UserIDs []string `json:"userIds" validate:"required,min=1,dive,required"`
}

// RemindResponse carries per-recipient outcomes plus a summary.
type RemindResponse struct {
	Results []models.ReminderOutcome `json:"results"`
	Summary models.ReminderSummary   `json:"summary"`
}
