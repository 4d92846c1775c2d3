// Package invite maps invite codes to access tiers and derives what each tier
// unlocks on the RSVP form.
package invite

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"wedding-rsvp/internal/models"
)

// QueryParam is the URL query parameter that carries an invite code
const QueryParam = "i"

var (
	ErrMissingTier    = errors.New("tier has no event filter")
	ErrUnknownEvent   = errors.New("event not in catalog")
	ErrDuplicateEvent = errors.New("event listed twice for tier")
	ErrEmptyTier      = errors.New("tier unlocks no events")
	ErrBadCode        = errors.New("invalid code entry")
)

// Resolver holds a validated code table and tier filter table
type Resolver struct {
	codes      map[string]models.InviteTier
	tierEvents map[models.InviteTier][]string
	catalog    []models.SubEvent
}

// NewResolver validates the tables once and returns a resolver over them
func NewResolver(codes map[string]models.InviteTier, tierEvents map[models.InviteTier][]string, catalog []models.SubEvent) (*Resolver, error) {
	known := make(map[string]bool, len(catalog))
	for _, e := range catalog {
		known[e.ID] = true
	}

	for _, tier := range models.AllTiers {
		ids, ok := tierEvents[tier]
		if !ok {
			return nil, fmt.Errorf("%s: %w", tier, ErrMissingTier)
		}
		if tier == models.TierNone {
			if len(ids) != 0 {
				return nil, fmt.Errorf("none tier must unlock nothing, got %v", ids)
			}
			continue
		}
		if len(ids) == 0 {
			return nil, fmt.Errorf("%s: %w", tier, ErrEmptyTier)
		}
		seen := make(map[string]bool, len(ids))
		for _, id := range ids {
			if !known[id] {
				return nil, fmt.Errorf("%s -> %s: %w", tier, id, ErrUnknownEvent)
			}
			if seen[id] {
				return nil, fmt.Errorf("%s -> %s: %w", tier, id, ErrDuplicateEvent)
			}
			seen[id] = true
		}
	}

	normalized := make(map[string]models.InviteTier, len(codes))
	for code, tier := range codes {
		key := Normalize(code)
		if key == "" {
			return nil, fmt.Errorf("empty code: %w", ErrBadCode)
		}
		if !tier.Valid() || tier == models.TierNone {
			return nil, fmt.Errorf("code %s maps to %q: %w", key, tier, ErrBadCode)
		}
		if _, dup := normalized[key]; dup {
			return nil, fmt.Errorf("code %s listed twice: %w", key, ErrBadCode)
		}
		normalized[key] = tier
	}

	return &Resolver{
		codes:      normalized,
		tierEvents: tierEvents,
		catalog:    catalog,
	}, nil
}

// Default builds the resolver for the production tables
func Default() *Resolver {
	r, err := NewResolver(Codes, TierEvents, Catalog)
	if err != nil {
		panic(fmt.Sprintf("invite tables are inconsistent: %v", err))
	}
	return r
}

// Normalize trims and uppercases a raw code
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Resolve returns the tier for a code, or none when it is empty or unknown
func (r *Resolver) Resolve(code string) models.InviteTier {
	key := Normalize(code)
	if key == "" {
		return models.TierNone
	}
	if tier, ok := r.codes[key]; ok {
		return tier
	}
	return models.TierNone
}

// ResolveQuery resolves the code carried in a raw URL query string
func (r *Resolver) ResolveQuery(rawQuery string) models.InviteTier {
	return r.Resolve(CodeFromQuery(rawQuery))
}

// Profile derives the tier profile from this resolver's tables
func (r *Resolver) Profile(tier models.InviteTier) models.TierProfile {
	return deriveProfile(tier, r.catalog, r.tierEvents)
}

// Catalog returns a copy of the sub-event catalog
func (r *Resolver) Catalog() []models.SubEvent {
	return append([]models.SubEvent(nil), r.catalog...)
}

// CodeFromQuery extracts the invite code from a raw query string such as
// "i=bubbels" or "?i=bubbels". Malformed queries yield an empty code.
func CodeFromQuery(rawQuery string) string {
	values, err := url.ParseQuery(strings.TrimPrefix(rawQuery, "?"))
	if err != nil {
		return ""
	}
	return values.Get(QueryParam)
}

// Resolve uses the default tables
func Resolve(code string) models.InviteTier {
	return defaultResolver.Resolve(code)
}

var defaultResolver = Default()
