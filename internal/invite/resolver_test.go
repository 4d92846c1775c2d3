package invite

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wedding-rsvp/internal/models"
)

func TestResolve_CodeTable(t *testing.T) {
	r := Default()

	for code, tier := range Codes {
		assert.Equal(t, tier, r.Resolve(code), "code %s", code)
	}
}

func TestResolve_Normalization(t *testing.T) {
	r := Default()

	tests := []struct {
		name string
		code string
		want models.InviteTier
	}{
		{name: "padded lowercase", code: " jawoord ", want: models.TierCeremonyAll},
		{name: "uppercase", code: "JAWOORD", want: models.TierCeremonyAll},
		{name: "mixed case", code: "BuBbElS", want: models.TierReception},
		{name: "tabs and newline", code: "\tdans\n", want: models.TierPartyOnly},
		{name: "empty", code: "", want: models.TierNone},
		{name: "only spaces", code: "   ", want: models.TierNone},
		{name: "unknown", code: "xyz123", want: models.TierNone},
		{name: "inner space is not trimmed", code: "ja woord", want: models.TierNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Resolve(tt.code))
		})
	}
}

func TestResolve_PackageLevelUsesDefaults(t *testing.T) {
	assert.Equal(t, models.TierTest, Resolve("testcode"))
	assert.Equal(t, models.TierNone, Resolve("nope"))
}

func TestCodeFromQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{name: "plain", query: "i=bubbels", want: "bubbels"},
		{name: "leading question mark", query: "?i=DANS", want: "DANS"},
		{name: "other params", query: "utm=mail&i=feest", want: "feest"},
		{name: "encoded spaces", query: "i=%20testcode%20", want: " testcode "},
		{name: "missing", query: "x=1", want: ""},
		{name: "empty", query: "", want: ""},
		{name: "malformed", query: "i=%zz", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CodeFromQuery(tt.query))
		})
	}
}

func TestResolveQuery(t *testing.T) {
	r := Default()

	assert.Equal(t, models.TierReception, r.ResolveQuery("?i=bubbels"))
	assert.Equal(t, models.TierNone, r.ResolveQuery("?i=xyz123"))
	assert.Equal(t, models.TierNone, r.ResolveQuery(""))
}

func TestNewResolver_RejectsBrokenTables(t *testing.T) {
	full := func() map[models.InviteTier][]string {
		m := make(map[models.InviteTier][]string, len(TierEvents))
		for k, v := range TierEvents {
			m[k] = v
		}
		return m
	}

	t.Run("missing tier", func(t *testing.T) {
		events := full()
		delete(events, models.TierDinner)
		_, err := NewResolver(Codes, events, Catalog)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrMissingTier))
	})

	t.Run("missing none entry", func(t *testing.T) {
		events := full()
		delete(events, models.TierNone)
		_, err := NewResolver(Codes, events, Catalog)
		assert.ErrorIs(t, err, ErrMissingTier)
	})

	t.Run("none unlocks something", func(t *testing.T) {
		events := full()
		events[models.TierNone] = []string{EventParty}
		_, err := NewResolver(Codes, events, Catalog)
		assert.Error(t, err)
	})

	t.Run("unknown event", func(t *testing.T) {
		events := full()
		events[models.TierFull] = []string{"brunch"}
		_, err := NewResolver(Codes, events, Catalog)
		assert.ErrorIs(t, err, ErrUnknownEvent)
	})

	t.Run("duplicate event", func(t *testing.T) {
		events := full()
		events[models.TierFull] = []string{EventParty, EventParty}
		_, err := NewResolver(Codes, events, Catalog)
		assert.ErrorIs(t, err, ErrDuplicateEvent)
	})

	t.Run("tier with no events", func(t *testing.T) {
		events := full()
		events[models.TierReception] = nil
		_, err := NewResolver(Codes, events, Catalog)
		assert.ErrorIs(t, err, ErrEmptyTier)
	})

	t.Run("code to none", func(t *testing.T) {
		_, err := NewResolver(map[string]models.InviteTier{"X": models.TierNone}, full(), Catalog)
		assert.ErrorIs(t, err, ErrBadCode)
	})

	t.Run("code to unknown tier", func(t *testing.T) {
		_, err := NewResolver(map[string]models.InviteTier{"X": "brunch"}, full(), Catalog)
		assert.ErrorIs(t, err, ErrBadCode)
	})

	t.Run("codes collide after normalization", func(t *testing.T) {
		codes := map[string]models.InviteTier{"dans": models.TierPartyOnly, " DANS": models.TierFull}
		_, err := NewResolver(codes, full(), Catalog)
		assert.ErrorIs(t, err, ErrBadCode)
	})

	t.Run("blank code", func(t *testing.T) {
		_, err := NewResolver(map[string]models.InviteTier{"  ": models.TierFull}, full(), Catalog)
		assert.ErrorIs(t, err, ErrBadCode)
	})
}

func TestNewResolver_NormalizesTableKeys(t *testing.T) {
	r, err := NewResolver(map[string]models.InviteTier{" brunch ": models.TierFull}, TierEvents, Catalog)
	require.NoError(t, err)

	assert.Equal(t, models.TierFull, r.Resolve("BRUNCH"))
}
