package dto

// ToggleVoteRequest flips one availability cell for the current week.
type ToggleVoteRequest struct {
	UserID string `json:"userId" validate:"required"`
	Day    string `json:"day" validate:"required,oneof=mon tue wed thu fri sat sun"`
	Time   string `json:"time" validate:"required,oneof=18:00 19:00 20:00 21:00"`
}

// CalendarRequest selects the slot to export as an .ics event.
type CalendarRequest struct {
	Day  string `form:"day" validate:"required,oneof=mon tue wed thu fri sat sun"`
	Time string `form:"time" validate:"required,oneof=18:00 19:00 20:00 21:00"`
}

// ExportRequest picks the rendering of the weekly grid export.
type ExportRequest struct {
	Format string `form:"format" validate:"omitempty,oneof=csv pdf"`
}
