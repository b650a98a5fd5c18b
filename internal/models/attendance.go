package models

import "time"

// Day is a day-of-week code used on the voting grid.
type Day string

const (
	DayMonday    Day = "mon"
	DayTuesday   Day = "tue"
	DayWednesday Day = "wed"
	DayThursday  Day = "thu"
	DayFriday    Day = "fri"
	DaySaturday  Day = "sat"
	DaySunday    Day = "sun"
)

// Days lists the grid columns in week order.
var Days = []Day{DayMonday, DayTuesday, DayWednesday, DayThursday, DayFriday, DaySaturday, DaySunday}

// Valid returns true when the day is a supported value.
func (d Day) Valid() bool {
	return d.Offset() >= 0
}

// Offset is the number of days after Monday, or -1 for an unknown code.
func (d Day) Offset() int {
	for i, day := range Days {
		if day == d {
			return i
		}
	}
	return -1
}

// Slot is a start-time label such as "19:00".
type Slot string

// Slots lists the grid rows in chronological order.
var Slots = []Slot{"18:00", "19:00", "20:00", "21:00"}

// Valid returns true when the slot is one of the fixed start times.
func (s Slot) Valid() bool {
	for _, slot := range Slots {
		if slot == s {
			return true
		}
	}
	return false
}

// MarkKey identifies a single availability cell for one person.
type MarkKey struct {
	PersonID string
	Day      Day
	Slot     Slot
	WeekID   string
}

// AttendanceMark means "this person can make this slot this week".
type AttendanceMark struct {
	ID        string    `db:"id" json:"id"`
	PersonID  string    `db:"person_id" json:"userId"`
	Day       Day       `db:"day" json:"day"`
	Slot      Slot      `db:"slot" json:"time"`
	WeekID    string    `db:"week_id" json:"weekStart"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Key returns the uniqueness key of the mark.
func (m AttendanceMark) Key() MarkKey {
	return MarkKey{PersonID: m.PersonID, Day: m.Day, Slot: m.Slot, WeekID: m.WeekID}
}

// ToggleResult is the outcome of flipping a cell.
type ToggleResult struct {
	Attending bool   `json:"voted"`
	WeekID    string `json:"weekStart"`
}

// WeekMarks is the full grid state for one week.
type WeekMarks struct {
	WeekID string           `json:"weekStart"`
	Marks  []AttendanceMark `json:"votes"`
}

// Document is a rendered file ready to be served as an attachment.
type Document struct {
	Filename    string
	ContentType string
	Content     []byte
}
