package model

import (
	"time"

	"github.com/google/uuid"
)

// Registration types. The type decides which of the two optional field
// groups must be populated; the other group is always stored empty.
const (
	TypeAnchorPartner = "anchor-partner"
	TypeSeriesVenture = "series-venture"
	TypeAttend        = "attend"
)

// Review statuses. Flat set, any status may follow any other.
const (
	StatusPending  = "pending"
	StatusReviewed = "reviewed"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

var RegistrationTypes = map[string]bool{
	TypeAnchorPartner: true,
	TypeSeriesVenture: true,
	TypeAttend:        true,
}

var Statuses = map[string]bool{
	StatusPending:  true,
	StatusReviewed: true,
	StatusApproved: true,
	StatusRejected: true,
}

var SponsorshipTiers = map[string]bool{
	"tier1":     true,
	"tier2":     true,
	"community": true,
	"demoday":   true,
}

var ParticipationTypes = map[string]bool{
	"sponsor":   true,
	"speaker":   true,
	"exhibitor": true,
	"multiple":  true,
}

var VentureStages = map[string]bool{
	"idea":          true,
	"prototype":     true,
	"pilot":         true,
	"early-revenue": true,
	"scaling":       true,
}

var FundingNeeds = map[string]bool{
	"under-5m": true,
	"5m-10m":   true,
	"10m-25m":  true,
	"25m-50m":  true,
	"over-50m": true,
}

type Registration struct {
	ID           uuid.UUID `db:"id" json:"id"`
	FullName     string    `db:"full_name" json:"fullName"`
	Email        string    `db:"email" json:"email"`
	Phone        string    `db:"phone" json:"phone"`
	Organization string    `db:"organization" json:"organization"`

	RegistrationType string `db:"registration_type" json:"registrationType"`

	// Anchor-partner group. Empty unless RegistrationType is anchor-partner.
	SponsorshipTier   string `db:"sponsorship_tier" json:"sponsorshipTier"`
	ParticipationType string `db:"participation_type" json:"participationType"`

	// Series-venture group. Empty/zero unless RegistrationType is series-venture.
	VentureStage       string `db:"venture_stage" json:"ventureStage"`
	Location           string `db:"location" json:"location"`
	TeamSize           int    `db:"team_size" json:"teamSize"`
	ProjectDescription string `db:"project_description" json:"projectDescription"`
	FundingNeeds       string `db:"funding_needs" json:"fundingNeeds"`
	GuidedLabsInterest string `db:"guided_labs_interest" json:"guidedLabsInterest"`

	SubmissionDate time.Time `db:"submission_date" json:"submissionDate"`
	IPAddress      string    `db:"ip_address" json:"ipAddress"`
	UserAgent      string    `db:"user_agent" json:"userAgent"`
	Status         string    `db:"status" json:"status"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time `db:"updated_at" json:"updatedAt"`
}

// RegistrationTypeFormatted returns the human-readable label for the type.
func (r *Registration) RegistrationTypeFormatted() string {
	switch r.RegistrationType {
	case TypeAnchorPartner:
		return "Anchor Partner"
	case TypeSeriesVenture:
		return "Series Venture"
	case TypeAttend:
		return "Attendee"
	}
	return r.RegistrationType
}

type StatsOverview struct {
	TotalRegistrations    int `json:"totalRegistrations"`
	Attendees             int `json:"attendees"`
	AnchorPartners        int `json:"anchorPartners"`
	SeriesVentures        int `json:"seriesVentures"`
	PendingReviews        int `json:"pendingReviews"`
	ApprovedRegistrations int `json:"approvedRegistrations"`
}

type BucketCount struct {
	Value string `db:"value" json:"value"`
	Count int    `db:"count" json:"count"`
}

type Stats struct {
	Overview            StatsOverview `json:"overview"`
	SponsorshipTiers    []BucketCount `json:"sponsorshipTiers"`
	VentureStages       []BucketCount `json:"ventureStages"`
	FundingNeeds        []BucketCount `json:"fundingNeeds"`
	RecentRegistrations int           `json:"recentRegistrations"`
}
