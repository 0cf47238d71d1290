package validator

import (
	"context"
	"reflect"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator"

	"summitapi/internal/dto"
	"summitapi/internal/model"
)

var (
	global     *validator.Validate
	nameRegex  = regexp.MustCompile(`^[a-zA-Z\s\-'.]+$`)
	phoneRegex = regexp.MustCompile(`^\+?[0-9][0-9\s\-.()]{4,}$`)
)

const (
	ErrInvalidFormat      = "Invalid format"
	ErrFieldRequired      = "Field is required"
	ErrFieldExceedsMaxLen = "Field exceeds maximum length"
	ErrFieldBelowMinLen   = "Field is below minimum length"
	ErrUnknownValidation  = "Unknown validation error"

	ErrInvalidFullName = "Full name can only contain letters, spaces, hyphens, apostrophes, and periods"
	ErrInvalidEmail    = "Please provide a valid email address"
	ErrInvalidPhone    = "Please provide a valid phone number"
	ErrInvalidRegType  = "Registration type must be: anchor-partner, series-venture, or attend"
)

func init() {
	SetValidator(New())
}

func New() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("person_name", validatePersonName)
	_ = v.RegisterValidation("phone", validatePhone)
	return v
}

func SetValidator(v *validator.Validate) {
	global = v
}

func Validator() *validator.Validate {
	return global
}

func validatePersonName(fl validator.FieldLevel) bool {
	return nameRegex.MatchString(fl.Field().String())
}

// Permissive, any locale: an optional + followed by digits with common
// separators. Syntactic shape only.
func validatePhone(fl validator.FieldLevel) bool {
	return phoneRegex.MatchString(fl.Field().String())
}

// Validate runs the tag-based rules and reports every failing field.
// A submission is never partially accepted, so the whole report goes
// back to the caller at once.
func Validate(ctx context.Context, structure any) []dto.FieldError {
	return parseValidationErrors(Validator().StructCtx(ctx, structure))
}

func parseValidationErrors(err error) []dto.FieldError {
	if err == nil {
		return nil
	}
	vErrors, ok := err.(validator.ValidationErrors)
	if !ok || len(vErrors) == 0 {
		return nil
	}
	out := make([]dto.FieldError, 0, len(vErrors))
	for _, ve := range vErrors {
		out = append(out, dto.FieldError{Field: ve.Field(), Message: messageFor(ve)})
	}
	return out
}

func messageFor(ve validator.FieldError) string {
	switch ve.Tag() {
	case "required":
		return ErrFieldRequired
	case "max":
		return ErrFieldExceedsMaxLen
	case "min":
		return ErrFieldBelowMinLen
	case "person_name":
		return ErrInvalidFullName
	case "email":
		return ErrInvalidEmail
	case "phone":
		return ErrInvalidPhone
	case "oneof":
		return ErrInvalidRegType
	default:
		return ErrUnknownValidation
	}
}

// conditionalRule checks one field that becomes required for a given
// registration type. check returns "" when the field is acceptable.
type conditionalRule struct {
	field string
	check func(*dto.CreateRegistrationRequest) string
}

// requiredByType and clearedByType are the two halves of the conditional
// model: the discriminant decides which group must be present and which
// group is forced empty no matter what the client sent.
var requiredByType = map[string][]conditionalRule{
	model.TypeAnchorPartner: {
		{"sponsorshipTier", checkSponsorshipTier},
		{"participationType", checkParticipationType},
	},
	model.TypeSeriesVenture: {
		{"ventureStage", checkVentureStage},
		{"location", checkLocation},
		{"teamSize", checkTeamSize},
		{"projectDescription", checkProjectDescription},
		{"fundingNeeds", checkFundingNeeds},
		{"guidedLabsInterest", checkGuidedLabsInterest},
	},
	model.TypeAttend: nil,
}

var clearedByType = map[string][]func(*model.Registration){
	model.TypeAnchorPartner: {clearVentureFields},
	model.TypeSeriesVenture: {clearAnchorFields},
	model.TypeAttend:        {clearAnchorFields, clearVentureFields},
}

func clearAnchorFields(r *model.Registration) {
	r.SponsorshipTier = ""
	r.ParticipationType = ""
}

func clearVentureFields(r *model.Registration) {
	r.VentureStage = ""
	r.Location = ""
	r.TeamSize = 0
	r.ProjectDescription = ""
	r.FundingNeeds = ""
	r.GuidedLabsInterest = ""
}

func checkSponsorshipTier(req *dto.CreateRegistrationRequest) string {
	if req.SponsorshipTier == "" {
		return "Sponsorship tier is required for anchor partners"
	}
	if !model.SponsorshipTiers[req.SponsorshipTier] {
		return "Invalid sponsorship tier"
	}
	return ""
}

func checkParticipationType(req *dto.CreateRegistrationRequest) string {
	if req.ParticipationType == "" {
		return "Participation type is required for anchor partners"
	}
	if !model.ParticipationTypes[req.ParticipationType] {
		return "Invalid participation type"
	}
	return ""
}

func checkVentureStage(req *dto.CreateRegistrationRequest) string {
	if req.VentureStage == "" {
		return "Venture stage is required for series ventures"
	}
	if !model.VentureStages[req.VentureStage] {
		return "Invalid venture stage"
	}
	return ""
}

func checkLocation(req *dto.CreateRegistrationRequest) string {
	if req.Location == "" {
		return "Location is required for series ventures"
	}
	if utf8.RuneCountInString(req.Location) > 200 {
		return "Location is too long"
	}
	return ""
}

func checkTeamSize(req *dto.CreateRegistrationRequest) string {
	if req.TeamSize <= 0 {
		return "Team size must be a positive integer"
	}
	return ""
}

func checkProjectDescription(req *dto.CreateRegistrationRequest) string {
	n := utf8.RuneCountInString(req.ProjectDescription)
	if n == 0 {
		return "Project description is required for series ventures"
	}
	if n < 100 || n > 500 {
		return "Project description must be between 100 and 500 characters"
	}
	return ""
}

func checkFundingNeeds(req *dto.CreateRegistrationRequest) string {
	if req.FundingNeeds == "" {
		return "Funding needs is required for series ventures"
	}
	if !model.FundingNeeds[req.FundingNeeds] {
		return "Invalid funding needs"
	}
	return ""
}

func checkGuidedLabsInterest(req *dto.CreateRegistrationRequest) string {
	n := utf8.RuneCountInString(req.GuidedLabsInterest)
	if n == 0 {
		return "Guided Labs interest is required for series ventures"
	}
	if n < 50 || n > 500 {
		return "Guided Labs interest must be between 50 and 500 characters"
	}
	return ""
}

func trimRequest(req *dto.CreateRegistrationRequest) {
	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Phone = strings.TrimSpace(req.Phone)
	req.Organization = strings.TrimSpace(req.Organization)
	req.RegistrationType = strings.TrimSpace(req.RegistrationType)
	req.SponsorshipTier = strings.TrimSpace(req.SponsorshipTier)
	req.ParticipationType = strings.TrimSpace(req.ParticipationType)
	req.VentureStage = strings.TrimSpace(req.VentureStage)
	req.Location = strings.TrimSpace(req.Location)
	req.ProjectDescription = strings.TrimSpace(req.ProjectDescription)
	req.FundingNeeds = strings.TrimSpace(req.FundingNeeds)
	req.GuidedLabsInterest = strings.TrimSpace(req.GuidedLabsInterest)
}

// NormalizeRegistration turns a raw submission into a type-narrowed record
// or a complete list of field errors. Either every rule passes and the
// returned record carries only the fields its registration type owns, or
// nothing is accepted.
func NormalizeRegistration(ctx context.Context, req *dto.CreateRegistrationRequest) (*model.Registration, []dto.FieldError) {
	trimRequest(req)
	if req.RegistrationType == "" {
		req.RegistrationType = model.TypeAttend
	}

	errs := Validate(ctx, *req)
	for _, rule := range requiredByType[req.RegistrationType] {
		if msg := rule.check(req); msg != "" {
			errs = append(errs, dto.FieldError{Field: rule.field, Message: msg})
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}

	reg := &model.Registration{
		FullName:         req.FullName,
		Email:            req.Email,
		Phone:            req.Phone,
		Organization:     req.Organization,
		RegistrationType: req.RegistrationType,

		SponsorshipTier:   req.SponsorshipTier,
		ParticipationType: req.ParticipationType,

		VentureStage:       req.VentureStage,
		Location:           req.Location,
		TeamSize:           req.TeamSize,
		ProjectDescription: req.ProjectDescription,
		FundingNeeds:       req.FundingNeeds,
		GuidedLabsInterest: req.GuidedLabsInterest,

		Status: model.StatusPending,
	}
	for _, clear := range clearedByType[reg.RegistrationType] {
		clear(reg)
	}
	return reg, nil
}
