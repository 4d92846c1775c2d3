package invite

import (
	"fmt"
	"strings"

	"wedding-rsvp/internal/models"
)

// DeriveProfile filters the catalog down to what the tier may select, using
// the default tier table
func DeriveProfile(tier models.InviteTier, catalog []models.SubEvent) models.TierProfile {
	return deriveProfile(tier, catalog, TierEvents)
}

func deriveProfile(tier models.InviteTier, catalog []models.SubEvent, tierEvents map[models.InviteTier][]string) models.TierProfile {
	allowed := make(map[string]bool)
	for _, id := range tierEvents[tier] {
		allowed[id] = true
	}

	profile := models.TierProfile{
		Tier:       tier,
		Events:     []models.SubEvent{},
		IsTestTier: tier == models.TierTest,
	}
	if !tier.Valid() {
		profile.Tier = models.TierNone
		profile.IsTestTier = false
		return profile
	}

	// Catalog order wins over table order.
	for _, e := range catalog {
		if !allowed[e.ID] {
			continue
		}
		profile.Events = append(profile.Events, e)
		if e.ServesFood {
			profile.DietaryApplicable = true
		}
	}
	profile.SkipEventSelection = len(profile.Events) == 1

	return profile
}

// GuidanceMessage is the copy shown to a guest once their code is resolved
func GuidanceMessage(profile models.TierProfile) string {
	if profile.Tier == models.TierNone || len(profile.Events) == 0 {
		return "Vul de code in die je bij je uitnodiging kreeg."
	}

	if e, ok := profile.SingleEvent(); ok {
		return fmt.Sprintf("Je bent van harte welkom op onze %s om %s (%s).",
			strings.ToLower(e.Label), e.Start, e.Location)
	}

	parts := make([]string, 0, len(profile.Events))
	for _, e := range profile.Events {
		parts = append(parts, fmt.Sprintf("%s (%s)", strings.ToLower(e.Label), e.Start))
	}
	return "Je bent van harte welkom op: " + strings.Join(parts, ", ") + "."
}
