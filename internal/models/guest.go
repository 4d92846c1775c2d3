package models

import (
	"strings"
	"time"
)

// MaxGuests is the number of people one invite can register in a single RSVP
const MaxGuests = 6

// GuestEntry represents one person on an RSVP form
type GuestEntry struct {
	Name    string `json:"name"`
	Dietary string `json:"dietary,omitempty"`
}

// HasName reports whether the entry counts as a guest
func (g GuestEntry) HasName() bool {
	return strings.TrimSpace(g.Name) != ""
}

// Attendance values as they appear in the submission sheet
const (
	AttendanceYes = "Ja"
	AttendanceNo  = "Nee"
)

// NoDietary is written when a guest leaves the dietary field empty
const NoDietary = "Geen"

// SubmissionRecord is the row emitted to the sink for each named guest
type SubmissionRecord struct {
	ID          string    `json:"id"`
	BatchID     string    `json:"batch_id"`
	Name        string    `json:"name"`
	Attendance  string    `json:"attendance"`
	Event       string    `json:"event"`
	Dietary     string    `json:"dietary"`
	Songs       []string  `json:"songs"`
	Tier        string    `json:"tier"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// Attending reports whether the record is a yes
func (r SubmissionRecord) Attending() bool {
	return r.Attendance == AttendanceYes
}
