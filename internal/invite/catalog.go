package invite

import "wedding-rsvp/internal/models"

// Sub-event identifiers
const (
	EventCeremony  = "ceremony"
	EventReception = "reception"
	EventDinner    = "dinner"
	EventParty     = "party"
)

const venue = "Outfort, Hoofdfrontweg 1, 2660 Hoboken"

// Catalog is the ordered list of sub-events on the wedding day
var Catalog = []models.SubEvent{
	{ID: EventCeremony, Label: "Ceremonie", Start: "15:00", Location: "Gemeentehuis Hoboken", ServesFood: false},
	{ID: EventReception, Label: "Receptie", Start: "17:00", Location: venue, ServesFood: true},
	{ID: EventDinner, Label: "Diner", Start: "19:00", Location: venue, ServesFood: true},
	{ID: EventParty, Label: "Feest", Start: "21:00", Location: venue, ServesFood: false},
}

// TierEvents maps every tier to the sub-events it may select
var TierEvents = map[models.InviteTier][]string{
	models.TierNone:        {},
	models.TierCeremony:    {EventCeremony, EventReception},
	models.TierCeremonyAll: {EventCeremony, EventReception, EventDinner, EventParty},
	models.TierReception:   {EventReception},
	models.TierDinner:      {EventReception, EventDinner},
	models.TierPartyOnly:   {EventParty},
	models.TierFull:        {EventReception, EventDinner, EventParty},
	models.TierTest:        {EventCeremony, EventReception, EventDinner, EventParty},
}

// Codes maps normalized invite codes to tiers. Several codes may share a tier.
var Codes = map[string]models.InviteTier{
	"JAWOORD":  models.TierCeremonyAll,
	"AANZOEK":  models.TierCeremonyAll,
	"GELOFTE":  models.TierCeremony,
	"BUBBELS":  models.TierReception,
	"DINER":    models.TierDinner,
	"DANS":     models.TierPartyOnly,
	"FEEST":    models.TierFull,
	"TESTCODE": models.TierTest,
}
