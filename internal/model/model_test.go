package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistrationTypeFormatted(t *testing.T) {
	cases := map[string]string{
		TypeAnchorPartner: "Anchor Partner",
		TypeSeriesVenture: "Series Venture",
		TypeAttend:        "Attendee",
		"something-else":  "something-else",
	}
	for raw, want := range cases {
		r := Registration{RegistrationType: raw}
		assert.Equal(t, want, r.RegistrationTypeFormatted())
	}
}

func TestEnumSetsRejectUnknownValues(t *testing.T) {
	assert.True(t, RegistrationTypes[TypeAttend])
	assert.False(t, RegistrationTypes["vip"])

	assert.True(t, Statuses[StatusRejected])
	assert.False(t, Statuses["archived"])

	assert.True(t, SponsorshipTiers["demoday"])
	assert.False(t, SponsorshipTiers["platinum"])

	assert.True(t, VentureStages["early-revenue"])
	assert.False(t, VentureStages["exit"])

	assert.True(t, FundingNeeds["over-50m"])
	assert.False(t, FundingNeeds["none"])
}
