package models

import "time"

// AdminToken is a short-lived session issued in exchange for the shared secret.
type AdminToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}
