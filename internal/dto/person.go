package dto

// RegisterPersonRequest is the self-registration payload.
type RegisterPersonRequest struct {
	FirstName string `json:"firstName" validate:"required,max=64"`
	LastName  string `json:"lastName" validate:"required,max=64"`
}
