package repository

import "errors"

// ErrPersonNotFound is returned when a write references a person that does not
// exist. It is detected through the foreign key, not a lookup.
var ErrPersonNotFound = errors.New("person not found")

// ErrPersonExists is returned when a person id is already taken.
var ErrPersonExists = errors.New("person already exists")
