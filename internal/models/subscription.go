package models

import "time"

// PushKeys holds the client keys used to encrypt a push payload.
type PushKeys struct {
	P256dh string `json:"p256dh"`
	Auth   string `json:"auth"`
}

// PushSubscription is the single delivery endpoint registered for a person.
type PushSubscription struct {
	PersonID  string    `db:"person_id" json:"userId"`
	Endpoint  string    `db:"endpoint" json:"endpoint"`
	P256dh    string    `db:"p256dh" json:"-"`
	Auth      string    `db:"auth" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Keys returns the encryption keys in their wire shape.
func (s PushSubscription) Keys() PushKeys {
	return PushKeys{P256dh: s.P256dh, Auth: s.Auth}
}
