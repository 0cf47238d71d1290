package validator

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"summitapi/internal/dto"
	"summitapi/internal/model"
)

func validAttendRequest() dto.CreateRegistrationRequest {
	return dto.CreateRegistrationRequest{
		FullName:         "Jane O'Connor-Smith Jr.",
		Email:            "jane@example.com",
		Phone:            "+234 801 234 5678",
		Organization:     "Acme Corp",
		RegistrationType: model.TypeAttend,
	}
}

func validVentureRequest() dto.CreateRegistrationRequest {
	req := validAttendRequest()
	req.RegistrationType = model.TypeSeriesVenture
	req.VentureStage = "prototype"
	req.Location = "Port Harcourt"
	req.TeamSize = 4
	req.ProjectDescription = strings.Repeat("We build solar-powered water purification units for riverine communities. ", 2)
	req.FundingNeeds = "5m-10m"
	req.GuidedLabsInterest = strings.Repeat("Mentorship on hardware manufacturing at scale. ", 2)
	return req
}

func fieldsOf(errs []dto.FieldError) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Field)
	}
	return out
}

func TestNormalizeAttendClearsBothGroups(t *testing.T) {
	req := validAttendRequest()
	// Extraneous values from a stale client form must never persist.
	req.SponsorshipTier = "tier1"
	req.ParticipationType = "sponsor"
	req.VentureStage = "idea"
	req.Location = "Lagos"
	req.TeamSize = 12
	req.ProjectDescription = strings.Repeat("x", 150)
	req.FundingNeeds = "over-50m"
	req.GuidedLabsInterest = strings.Repeat("y", 60)

	reg, errs := NormalizeRegistration(context.Background(), &req)
	require.Empty(t, errs)

	assert.Equal(t, model.TypeAttend, reg.RegistrationType)
	assert.Empty(t, reg.SponsorshipTier)
	assert.Empty(t, reg.ParticipationType)
	assert.Empty(t, reg.VentureStage)
	assert.Empty(t, reg.Location)
	assert.Zero(t, reg.TeamSize)
	assert.Empty(t, reg.ProjectDescription)
	assert.Empty(t, reg.FundingNeeds)
	assert.Empty(t, reg.GuidedLabsInterest)
}

func TestNormalizeDefaultsToAttend(t *testing.T) {
	req := validAttendRequest()
	req.RegistrationType = ""

	reg, errs := NormalizeRegistration(context.Background(), &req)
	require.Empty(t, errs)
	assert.Equal(t, model.TypeAttend, reg.RegistrationType)
	assert.Equal(t, model.StatusPending, reg.Status)
}

func TestNormalizeTrimsAndLowercasesEmail(t *testing.T) {
	req := validAttendRequest()
	req.FullName = "  Jane Doe  "
	req.Email = "  Jane.DOE@Example.COM "

	reg, errs := NormalizeRegistration(context.Background(), &req)
	require.Empty(t, errs)
	assert.Equal(t, "Jane Doe", reg.FullName)
	assert.Equal(t, "jane.doe@example.com", reg.Email)
}

func TestNormalizeAnchorPartnerRequiredFields(t *testing.T) {
	req := validAttendRequest()
	req.RegistrationType = model.TypeAnchorPartner

	_, errs := NormalizeRegistration(context.Background(), &req)
	fields := fieldsOf(errs)
	assert.Contains(t, fields, "sponsorshipTier")
	assert.Contains(t, fields, "participationType")
}

func TestNormalizeAnchorPartnerClearsVentureGroup(t *testing.T) {
	req := validAttendRequest()
	req.RegistrationType = model.TypeAnchorPartner
	req.SponsorshipTier = "community"
	req.ParticipationType = "exhibitor"
	req.VentureStage = "scaling"
	req.TeamSize = 9

	reg, errs := NormalizeRegistration(context.Background(), &req)
	require.Empty(t, errs)
	assert.Equal(t, "community", reg.SponsorshipTier)
	assert.Equal(t, "exhibitor", reg.ParticipationType)
	assert.Empty(t, reg.VentureStage)
	assert.Zero(t, reg.TeamSize)
}

func TestNormalizeAnchorPartnerRejectsUnknownTier(t *testing.T) {
	req := validAttendRequest()
	req.RegistrationType = model.TypeAnchorPartner
	req.SponsorshipTier = "platinum"
	req.ParticipationType = "sponsor"

	_, errs := NormalizeRegistration(context.Background(), &req)
	require.Len(t, errs, 1)
	assert.Equal(t, "sponsorshipTier", errs[0].Field)
	assert.Equal(t, "Invalid sponsorship tier", errs[0].Message)
}

func TestNormalizeSeriesVentureValid(t *testing.T) {
	req := validVentureRequest()

	reg, errs := NormalizeRegistration(context.Background(), &req)
	require.Empty(t, errs)
	assert.Equal(t, "prototype", reg.VentureStage)
	assert.Equal(t, 4, reg.TeamSize)
	assert.Empty(t, reg.SponsorshipTier)
	assert.Empty(t, reg.ParticipationType)
}

func TestNormalizeSeriesVentureRejectsNonPositiveTeamSize(t *testing.T) {
	req := validVentureRequest()
	req.TeamSize = 0

	_, errs := NormalizeRegistration(context.Background(), &req)
	require.Len(t, errs, 1)
	assert.Equal(t, "teamSize", errs[0].Field)
	assert.Equal(t, "Team size must be a positive integer", errs[0].Message)

	req = validVentureRequest()
	req.TeamSize = -3
	_, errs = NormalizeRegistration(context.Background(), &req)
	require.Len(t, errs, 1)
	assert.Equal(t, "teamSize", errs[0].Field)
}

func TestNormalizeSeriesVentureDescriptionBounds(t *testing.T) {
	req := validVentureRequest()
	req.ProjectDescription = strings.Repeat("a", 99)
	_, errs := NormalizeRegistration(context.Background(), &req)
	require.Len(t, errs, 1)
	assert.Equal(t, "projectDescription", errs[0].Field)

	req = validVentureRequest()
	req.ProjectDescription = strings.Repeat("a", 501)
	_, errs = NormalizeRegistration(context.Background(), &req)
	require.Len(t, errs, 1)
	assert.Equal(t, "projectDescription", errs[0].Field)

	req = validVentureRequest()
	req.ProjectDescription = strings.Repeat("a", 100)
	_, errs = NormalizeRegistration(context.Background(), &req)
	assert.Empty(t, errs)
}

func TestNormalizeSeriesVentureGuidedLabsBounds(t *testing.T) {
	req := validVentureRequest()
	req.GuidedLabsInterest = strings.Repeat("b", 49)
	_, errs := NormalizeRegistration(context.Background(), &req)
	require.Len(t, errs, 1)
	assert.Equal(t, "guidedLabsInterest", errs[0].Field)
}

func TestNormalizeCollectsAllErrors(t *testing.T) {
	req := dto.CreateRegistrationRequest{
		FullName:         "J",
		Email:            "not-an-email",
		Phone:            "abc",
		RegistrationType: model.TypeSeriesVenture,
	}

	_, errs := NormalizeRegistration(context.Background(), &req)
	fields := fieldsOf(errs)
	assert.Contains(t, fields, "fullName")
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "phone")
	assert.Contains(t, fields, "ventureStage")
	assert.Contains(t, fields, "projectDescription")
	assert.Contains(t, fields, "guidedLabsInterest")
	assert.Contains(t, fields, "fundingNeeds")
	assert.Contains(t, fields, "teamSize")
	assert.Contains(t, fields, "location")
}

func TestNormalizeRejectsUnknownRegistrationType(t *testing.T) {
	req := validAttendRequest()
	req.RegistrationType = "vip"

	_, errs := NormalizeRegistration(context.Background(), &req)
	require.Len(t, errs, 1)
	assert.Equal(t, "registrationType", errs[0].Field)
}

func TestNormalizeRejectsBadFullNameCharacters(t *testing.T) {
	req := validAttendRequest()
	req.FullName = "Jane <Doe>"

	_, errs := NormalizeRegistration(context.Background(), &req)
	require.Len(t, errs, 1)
	assert.Equal(t, "fullName", errs[0].Field)
	assert.Equal(t, ErrInvalidFullName, errs[0].Message)
}

func TestNormalizeRejectsOversizedOrganization(t *testing.T) {
	req := validAttendRequest()
	req.Organization = strings.Repeat("o", 201)

	_, errs := NormalizeRegistration(context.Background(), &req)
	require.Len(t, errs, 1)
	assert.Equal(t, "organization", errs[0].Field)
}
