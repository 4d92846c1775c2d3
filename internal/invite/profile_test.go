package invite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wedding-rsvp/internal/models"
)

func eventIDs(events []models.SubEvent) []string {
	ids := make([]string, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.ID)
	}
	return ids
}

func TestDeriveProfile_EventsPerTier(t *testing.T) {
	tests := []struct {
		tier models.InviteTier
		want []string
	}{
		{models.TierNone, []string{}},
		{models.TierCeremony, []string{EventCeremony, EventReception}},
		{models.TierCeremonyAll, []string{EventCeremony, EventReception, EventDinner, EventParty}},
		{models.TierReception, []string{EventReception}},
		{models.TierDinner, []string{EventReception, EventDinner}},
		{models.TierPartyOnly, []string{EventParty}},
		{models.TierFull, []string{EventReception, EventDinner, EventParty}},
		{models.TierTest, []string{EventCeremony, EventReception, EventDinner, EventParty}},
	}

	for _, tt := range tests {
		t.Run(string(tt.tier), func(t *testing.T) {
			p := DeriveProfile(tt.tier, Catalog)
			assert.Equal(t, tt.want, eventIDs(p.Events))
		})
	}
}

func TestDeriveProfile_Invariants(t *testing.T) {
	inCatalog := make(map[string]bool)
	for _, e := range Catalog {
		inCatalog[e.ID] = true
	}

	for _, tier := range models.AllTiers {
		t.Run(string(tier), func(t *testing.T) {
			p := DeriveProfile(tier, Catalog)

			for _, e := range p.Events {
				assert.True(t, inCatalog[e.ID], "%s not in catalog", e.ID)
			}
			assert.Equal(t, tier == models.TierNone, len(p.Events) == 0)
			assert.Equal(t, len(p.Events) == 1, p.SkipEventSelection)
			assert.Equal(t, tier == models.TierTest, p.IsTestTier)

			food := false
			for _, e := range p.Events {
				food = food || e.ServesFood
			}
			assert.Equal(t, food, p.DietaryApplicable)
		})
	}
}

func TestDeriveProfile_KeepsCatalogOrder(t *testing.T) {
	events := map[models.InviteTier][]string{}
	for k, v := range TierEvents {
		events[k] = v
	}
	events[models.TierFull] = []string{EventParty, EventReception}

	r, err := NewResolver(Codes, events, Catalog)
	require.NoError(t, err)

	p := r.Profile(models.TierFull)
	assert.Equal(t, []string{EventReception, EventParty}, eventIDs(p.Events))
}

func TestDeriveProfile_UnknownTierIsEmpty(t *testing.T) {
	p := DeriveProfile("brunch", Catalog)

	assert.Equal(t, models.TierNone, p.Tier)
	assert.Empty(t, p.Events)
	assert.False(t, p.DietaryApplicable)
}

func TestDietaryApplicable(t *testing.T) {
	assert.False(t, DeriveProfile(models.TierPartyOnly, Catalog).DietaryApplicable)
	assert.False(t, DeriveProfile(models.TierNone, Catalog).DietaryApplicable)

	for _, tier := range []models.InviteTier{
		models.TierCeremony, models.TierCeremonyAll, models.TierReception,
		models.TierDinner, models.TierFull, models.TierTest,
	} {
		assert.True(t, DeriveProfile(tier, Catalog).DietaryApplicable, "tier %s", tier)
	}
}

func TestScenario_Bubbels(t *testing.T) {
	r := Default()

	tier := r.Resolve("Bubbels")
	require.Equal(t, models.TierReception, tier)

	p := r.Profile(tier)
	require.Len(t, p.Events, 1)
	assert.Equal(t, EventReception, p.Events[0].ID)
	assert.Equal(t, "17:00", p.Events[0].Start)
	assert.True(t, p.SkipEventSelection)
	assert.True(t, p.DietaryApplicable)
}

func TestScenario_Dans(t *testing.T) {
	r := Default()

	p := r.Profile(r.Resolve("dans"))
	assert.Equal(t, models.TierPartyOnly, p.Tier)
	require.Len(t, p.Events, 1)
	assert.Equal(t, EventParty, p.Events[0].ID)
	assert.Equal(t, "21:00", p.Events[0].Start)
	assert.False(t, p.DietaryApplicable)
}

func TestScenario_TestCode(t *testing.T) {
	r := Default()

	p := r.Profile(r.Resolve("testcode"))
	assert.Equal(t, models.TierTest, p.Tier)
	assert.Len(t, p.Events, len(Catalog))
	assert.True(t, p.IsTestTier)
}

func TestGuidanceMessage(t *testing.T) {
	r := Default()

	assert.Contains(t, GuidanceMessage(r.Profile(models.TierNone)), "code")
	assert.Contains(t, GuidanceMessage(r.Profile(models.TierReception)), "17:00")

	multi := GuidanceMessage(r.Profile(models.TierFull))
	assert.Contains(t, multi, "receptie (17:00)")
	assert.Contains(t, multi, "feest (21:00)")
}
