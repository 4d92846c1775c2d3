package form

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"wedding-rsvp/internal/invite"
	"wedding-rsvp/internal/models"
)

// Sink receives one record per named guest on submission
type Sink interface {
	Deliver(ctx context.Context, rec models.SubmissionRecord) error
}

// Result describes a finished submission attempt
type Result struct {
	BatchID   string                    `json:"batch_id"`
	Records   []models.SubmissionRecord `json:"records"`
	Delivered int                       `json:"delivered"`
	Test      bool                      `json:"test"`
	Attending bool                      `json:"attending"`
	Title     string                    `json:"title"`
	Message   string                    `json:"message"`
}

// Option configures a Session
type Option func(*Session)

// WithClock overrides the timestamp source
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// WithObserver registers a callback for every state transition during submit
func WithObserver(fn func(from, to State)) Option {
	return func(s *Session) {
		s.observer = fn
	}
}

// Session owns one RSVP draft. It has exactly one writer and is not safe for
// concurrent use.
type Session struct {
	resolver *invite.Resolver
	sink     Sink
	log      zerolog.Logger
	now      func() time.Time
	observer func(from, to State)

	profile    models.TierProfile
	draft      models.RsvpDraft
	submitting bool
	submitted  bool
	lastErr    error
}

// NewSession creates a session in AwaitingTier with an empty draft
func NewSession(resolver *invite.Resolver, sink Sink, log zerolog.Logger, opts ...Option) *Session {
	s := &Session{
		resolver: resolver,
		sink:     sink,
		log:      log,
		now:      time.Now,
		profile:  resolver.Profile(models.TierNone),
		draft:    models.NewDraft(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EnterCode resolves a code. An unknown code leaves the session waiting for a
// code; a recognized one locks the tier for the rest of the session.
func (s *Session) EnterCode(code string) (models.InviteTier, error) {
	if s.profile.Tier != models.TierNone {
		return s.profile.Tier, ErrTierLocked
	}

	tier := s.resolver.Resolve(code)
	if tier == models.TierNone {
		s.log.Debug().Str("code", invite.Normalize(code)).Msg("Unrecognized invite code")
		return tier, nil
	}

	s.profile = s.resolver.Profile(tier)
	s.applyAttendance()
	s.log.Info().Str("tier", string(tier)).Msg("Invite accepted")
	return tier, nil
}

// EnterQuery resolves the invite code carried in a raw URL query string
func (s *Session) EnterQuery(rawQuery string) (models.InviteTier, error) {
	return s.EnterCode(invite.CodeFromQuery(rawQuery))
}

// State returns the current form state
func (s *Session) State() State {
	switch {
	case s.submitted:
		return Submitted
	case s.submitting:
		return Submitting
	}
	return Evaluate(s.profile, s.draft)
}

// Visibility returns the sections to render right now
func (s *Session) Visibility() VisibilitySet {
	return visibleIn(s.State(), s.profile, s.draft)
}

// Profile returns the resolved tier profile
func (s *Session) Profile() models.TierProfile {
	return s.profile
}

// Draft returns a copy of the current draft
func (s *Session) Draft() models.RsvpDraft {
	return s.draft.Clone()
}

// LastError returns the error of the most recent failed submit, if any
func (s *Session) LastError() error {
	return s.lastErr
}

// SetGuestName updates the name of guest i
func (s *Session) SetGuestName(i int, name string) error {
	if err := s.checkEditable(); err != nil {
		return err
	}
	if i < 0 || i >= len(s.draft.Guests) {
		return ErrGuestIndex
	}
	s.draft.Guests[i].Name = name
	return nil
}

// SetGuestDietary updates the dietary note of guest i
func (s *Session) SetGuestDietary(i int, text string) error {
	if err := s.checkEditable(); err != nil {
		return err
	}
	if i < 0 || i >= len(s.draft.Guests) {
		return ErrGuestIndex
	}
	s.draft.Guests[i].Dietary = text
	return nil
}

// AddGuest appends a blank guest row
func (s *Session) AddGuest() error {
	if err := s.checkEditable(); err != nil {
		return err
	}
	if len(s.draft.Guests) >= models.MaxGuests {
		return ErrGuestLimitReached
	}
	s.draft.Guests = append(s.draft.Guests, models.GuestEntry{})
	return nil
}

// RemoveGuest drops guest i; the form always keeps one row
func (s *Session) RemoveGuest(i int) error {
	if err := s.checkEditable(); err != nil {
		return err
	}
	if i < 0 || i >= len(s.draft.Guests) {
		return ErrGuestIndex
	}
	if len(s.draft.Guests) == 1 {
		return ErrLastGuest
	}
	s.draft.Guests = append(s.draft.Guests[:i], s.draft.Guests[i+1:]...)
	return nil
}

// SetAttendance records the yes/no answer. A no clears the chosen event and
// every dietary note.
func (s *Session) SetAttendance(attending bool) error {
	if err := s.checkEditable(); err != nil {
		return err
	}
	s.draft.Attending = &attending
	s.applyAttendance()
	return nil
}

func (s *Session) applyAttendance() {
	if s.draft.Attending == nil {
		return
	}
	if !*s.draft.Attending {
		s.draft.EventID = ""
		for i := range s.draft.Guests {
			s.draft.Guests[i].Dietary = ""
		}
		return
	}
	if e, ok := s.profile.SingleEvent(); ok {
		s.draft.EventID = e.ID
	}
}

// ChooseEvent selects the sub-event the guests will attend
func (s *Session) ChooseEvent(id string) error {
	if err := s.checkEditable(); err != nil {
		return err
	}
	if !s.draft.IsAttending() {
		return ErrNotAttending
	}
	if !s.profile.HasEvent(id) {
		return ErrEventNotAvailable
	}
	s.draft.EventID = id
	return nil
}

// AddSong adds a song request
func (s *Session) AddSong(song models.Song) error {
	if err := s.checkEditable(); err != nil {
		return err
	}
	for _, existing := range s.draft.Songs {
		if existing.ID == song.ID {
			return ErrSongAlreadySelected
		}
	}
	if len(s.draft.Songs) >= models.MaxSongs {
		return ErrSongLimitReached
	}
	s.draft.Songs = append(s.draft.Songs, song)
	return nil
}

// RemoveSong drops a song request by id
func (s *Session) RemoveSong(id string) error {
	if err := s.checkEditable(); err != nil {
		return err
	}
	for i, existing := range s.draft.Songs {
		if existing.ID == id {
			s.draft.Songs = append(s.draft.Songs[:i], s.draft.Songs[i+1:]...)
			return nil
		}
	}
	return nil
}

// Load replaces the draft by replaying d through the session's mutators, so
// every rule applies as if the guest had typed it in
func (s *Session) Load(d models.RsvpDraft) error {
	if err := s.checkEditable(); err != nil {
		return err
	}
	if len(d.Guests) > models.MaxGuests {
		return ErrGuestLimitReached
	}

	s.draft = models.NewDraft()
	for i, g := range d.Guests {
		if i > 0 {
			if err := s.AddGuest(); err != nil {
				return err
			}
		}
		s.draft.Guests[i] = g
	}

	if d.Attending != nil {
		if err := s.SetAttendance(*d.Attending); err != nil {
			return err
		}
	}
	if d.EventID != "" && s.draft.IsAttending() && s.profile.Tier != models.TierNone && !s.profile.SkipEventSelection {
		if err := s.ChooseEvent(d.EventID); err != nil {
			return err
		}
	}
	for _, song := range d.Songs {
		if err := s.AddSong(song); err != nil {
			return err
		}
	}
	return nil
}

// Submit validates the draft and delivers one record per named guest, in
// order. The batch cannot be aborted once delivery starts. On failure the
// session returns to ReadyToSubmit with the draft intact.
func (s *Session) Submit(ctx context.Context) (Result, error) {
	if s.submitted {
		return Result{}, ErrAlreadySubmitted
	}

	err := Validate(s.profile, s.draft)
	if errors.Is(err, ErrMissingGuestName) {
		return Result{}, err
	}
	if s.profile.Tier == models.TierNone {
		return Result{}, ErrInviteRequired
	}
	if err != nil {
		return Result{}, err
	}

	s.transition(ReadyToSubmit, Submitting)
	s.submitting = true
	defer func() { s.submitting = false }()

	result := Result{
		BatchID:   uuid.NewString(),
		Test:      s.profile.IsTestTier,
		Attending: s.draft.IsAttending(),
	}
	result.Records = BuildRecords(s.profile, s.draft, result.BatchID, s.now())

	log := s.log.With().
		Str("batch_id", result.BatchID).
		Str("tier", string(s.profile.Tier)).
		Int("guests", len(result.Records)).
		Logger()

	if s.profile.IsTestTier {
		log.Info().Msg("Test invite, skipping delivery")
	} else {
		deliverCtx := context.WithoutCancel(ctx)
		for _, rec := range result.Records {
			if err := s.sink.Deliver(deliverCtx, rec); err != nil {
				subErr := &SubmissionError{
					Delivered: result.Delivered,
					Total:     len(result.Records),
					Err:       err,
				}
				log.Error().Err(err).Int("delivered", result.Delivered).Msg("RSVP delivery failed")
				s.lastErr = subErr
				s.transition(Submitting, SubmitFailed)
				s.transition(SubmitFailed, ReadyToSubmit)
				return result, subErr
			}
			result.Delivered++
		}
	}

	result.Title, result.Message = confirmation(result.Attending)
	s.lastErr = nil
	s.submitted = true
	s.transition(Submitting, Submitted)
	log.Info().Bool("attending", result.Attending).Msg("RSVP submitted")
	return result, nil
}

// Reset clears the draft after a submission so another party can register
// with the same invite
func (s *Session) Reset() {
	s.draft = models.NewDraft()
	s.submitted = false
	s.lastErr = nil
}

func (s *Session) checkEditable() error {
	if s.submitted {
		return ErrAlreadySubmitted
	}
	return nil
}

func (s *Session) transition(from, to State) {
	s.log.Debug().Str("from", string(from)).Str("to", string(to)).Msg("Form transition")
	if s.observer != nil {
		s.observer(from, to)
	}
}

func confirmation(attending bool) (string, string) {
	if attending {
		return "Tot dan!", "We kijken ernaar uit om je te zien op onze speciale dag!"
	}
	return "Jammer!", "We zullen je missen, maar we begrijpen het. We houden je op de hoogte!"
}
