// Package form computes which parts of the RSVP form a guest sees, validates
// a draft before submission and drives the per-guest submission loop.
package form

import "wedding-rsvp/internal/models"

// State is the position of a form session
type State string

const (
	AwaitingTier        State = "awaiting_tier"
	AwaitingAttendance  State = "awaiting_attendance"
	AwaitingEventChoice State = "awaiting_event_choice"
	ReadyToSubmit       State = "ready_to_submit"
	Submitting          State = "submitting"
	Submitted           State = "submitted"
	SubmitFailed        State = "submit_failed"
)

// VisibilitySet lists which sections render for the current state
type VisibilitySet struct {
	State       State             `json:"state"`
	CodeEntry   bool              `json:"code_entry"`
	Guests      bool              `json:"guests"`
	Attendance  bool              `json:"attendance"`
	EventPicker bool              `json:"event_picker"`
	Dietary     bool              `json:"dietary"`
	Songs       bool              `json:"songs"`
	CanSubmit   bool              `json:"can_submit"`
	Events      []models.SubEvent `json:"events,omitempty"`
}

// Evaluate derives the form state from the profile and the draft. It never
// returns the submission states; those belong to a Session.
func Evaluate(profile models.TierProfile, draft models.RsvpDraft) State {
	if profile.Tier == models.TierNone || len(profile.Events) == 0 {
		return AwaitingTier
	}
	if draft.Attending == nil {
		return AwaitingAttendance
	}
	if !*draft.Attending {
		return ReadyToSubmit
	}
	if profile.SkipEventSelection {
		return ReadyToSubmit
	}
	if !profile.HasEvent(draft.EventID) {
		return AwaitingEventChoice
	}
	return ReadyToSubmit
}

// Visible computes the sections to render for a draft
func Visible(profile models.TierProfile, draft models.RsvpDraft) VisibilitySet {
	return visibleIn(Evaluate(profile, draft), profile, draft)
}

func visibleIn(state State, profile models.TierProfile, draft models.RsvpDraft) VisibilitySet {
	v := VisibilitySet{State: state}

	switch state {
	case AwaitingTier:
		v.CodeEntry = true
		return v
	case Submitted:
		return v
	}

	v.Guests = true
	v.Attendance = true

	attending := draft.IsAttending()
	if attending && !profile.SkipEventSelection {
		v.EventPicker = true
		v.Events = profile.Events
	}

	switch state {
	case ReadyToSubmit, SubmitFailed:
		v.CanSubmit = true
		v.Dietary = attending && profile.DietaryApplicable
		v.Songs = attending
	case Submitting:
		v.Dietary = attending && profile.DietaryApplicable
		v.Songs = attending
	}

	return v
}
