package models

// InviteTier is the access level an invite code unlocks
type InviteTier string

const (
	TierNone        InviteTier = "none"
	TierCeremony    InviteTier = "ceremony"
	TierCeremonyAll InviteTier = "ceremony_all"
	TierReception   InviteTier = "reception"
	TierDinner      InviteTier = "dinner"
	TierPartyOnly   InviteTier = "party_only"
	TierFull        InviteTier = "full"
	TierTest        InviteTier = "test"
)

// AllTiers lists every tier, including none
var AllTiers = []InviteTier{
	TierNone,
	TierCeremony,
	TierCeremonyAll,
	TierReception,
	TierDinner,
	TierPartyOnly,
	TierFull,
	TierTest,
}

// Valid reports whether t is one of the known tiers
func (t InviteTier) Valid() bool {
	for _, known := range AllTiers {
		if t == known {
			return true
		}
	}
	return false
}

// SubEvent is one part of the wedding day a guest can be invited to
type SubEvent struct {
	ID         string `json:"id"`
	Label      string `json:"label"`
	Start      string `json:"start"`
	Location   string `json:"location"`
	ServesFood bool   `json:"serves_food"`
}

// TierProfile describes what a tier unlocks on the form
type TierProfile struct {
	Tier               InviteTier `json:"tier"`
	Events             []SubEvent `json:"events"`
	DietaryApplicable  bool       `json:"dietary_applicable"`
	SkipEventSelection bool       `json:"skip_event_selection"`
	IsTestTier         bool       `json:"is_test_tier"`
}

// HasEvent reports whether the profile can see the given sub-event
func (p TierProfile) HasEvent(id string) bool {
	_, ok := p.Event(id)
	return ok
}

// Event looks up a visible sub-event by id
func (p TierProfile) Event(id string) (SubEvent, bool) {
	for _, e := range p.Events {
		if e.ID == id {
			return e, true
		}
	}
	return SubEvent{}, false
}

// SingleEvent returns the auto-selected sub-event when there is exactly one
func (p TierProfile) SingleEvent() (SubEvent, bool) {
	if len(p.Events) != 1 {
		return SubEvent{}, false
	}
	return p.Events[0], true
}
