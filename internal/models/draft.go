package models

// MaxSongs is how many song requests one RSVP can carry
const MaxSongs = 3

// Song is a song request picked through the external search
type Song struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	ArtworkURL string `json:"artwork_url,omitempty"`
}

// String renders the song the way the sheet stores it
func (s Song) String() string {
	return s.Title + " - " + s.Artist
}

// RsvpDraft is the in-progress form
type RsvpDraft struct {
	Guests    []GuestEntry `json:"guests"`
	Attending *bool        `json:"attending"`
	EventID   string       `json:"event_id,omitempty"`
	Songs     []Song       `json:"songs,omitempty"`
}

// NewDraft returns an empty draft with a single blank guest row
func NewDraft() RsvpDraft {
	return RsvpDraft{Guests: []GuestEntry{{}}}
}

// NamedGuests returns the guests that have a non-empty name
func (d RsvpDraft) NamedGuests() []GuestEntry {
	var named []GuestEntry
	for _, g := range d.Guests {
		if g.HasName() {
			named = append(named, g)
		}
	}
	return named
}

// IsAttending reports an explicit yes
func (d RsvpDraft) IsAttending() bool {
	return d.Attending != nil && *d.Attending
}

// Clone returns a deep copy so callers cannot mutate the owner's draft
func (d RsvpDraft) Clone() RsvpDraft {
	c := RsvpDraft{EventID: d.EventID}
	if d.Attending != nil {
		v := *d.Attending
		c.Attending = &v
	}
	if d.Guests != nil {
		c.Guests = append([]GuestEntry(nil), d.Guests...)
	}
	if d.Songs != nil {
		c.Songs = append([]Song(nil), d.Songs...)
	}
	return c
}
