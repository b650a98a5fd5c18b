package models

import "time"

// Person is a self-registered roster member.
type Person struct {
	ID        string    `db:"id" json:"id"`
	FirstName string    `db:"first_name" json:"firstName"`
	LastName  string    `db:"last_name" json:"lastName"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// PersonView decorates a person with the roster-wide display label.
type PersonView struct {
	Person
	DisplayName string `json:"displayName"`
}

// DeleteResult reports whether a delete removed anything.
type DeleteResult struct {
	Deleted bool `json:"deleted"`
}
