package form

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"wedding-rsvp/internal/models"
)

// Validate checks a draft before it may leave ReadyToSubmit. Checks run in a
// fixed order and the first failure is returned as a *ValidationError.
func Validate(profile models.TierProfile, draft models.RsvpDraft) error {
	if len(draft.NamedGuests()) == 0 {
		return missingGuestName()
	}
	if draft.Attending == nil {
		return missingAttendance()
	}
	if *draft.Attending && !profile.SkipEventSelection && !profile.HasEvent(draft.EventID) {
		return missingEventChoice()
	}
	return nil
}

// ResolvedEvent returns the sub-event the draft is attending, counting the
// auto-selected event of single-event tiers
func ResolvedEvent(profile models.TierProfile, draft models.RsvpDraft) (models.SubEvent, bool) {
	if !draft.IsAttending() {
		return models.SubEvent{}, false
	}
	if e, ok := profile.SingleEvent(); ok {
		return e, true
	}
	return profile.Event(draft.EventID)
}

// BuildRecords turns a validated draft into one record per named guest
func BuildRecords(profile models.TierProfile, draft models.RsvpDraft, batchID string, now time.Time) []models.SubmissionRecord {
	attending := draft.IsAttending()

	attendance := models.AttendanceNo
	if attending {
		attendance = models.AttendanceYes
	}

	var eventLabel string
	if e, ok := ResolvedEvent(profile, draft); ok {
		eventLabel = e.Label
	}

	var songs []string
	if attending {
		for _, s := range draft.Songs {
			songs = append(songs, s.String())
		}
	}
	if songs == nil {
		songs = []string{}
	}

	named := draft.NamedGuests()
	records := make([]models.SubmissionRecord, 0, len(named))
	for _, g := range named {
		dietary := models.NoDietary
		if attending && profile.DietaryApplicable {
			if d := strings.TrimSpace(g.Dietary); d != "" {
				dietary = d
			}
		}

		records = append(records, models.SubmissionRecord{
			ID:          uuid.NewString(),
			BatchID:     batchID,
			Name:        strings.TrimSpace(g.Name),
			Attendance:  attendance,
			Event:       eventLabel,
			Dietary:     dietary,
			Songs:       songs,
			Tier:        string(profile.Tier),
			SubmittedAt: now,
		})
	}

	return records
}
