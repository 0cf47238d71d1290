package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/ginext"
)

const (
	MsgValidationErrors  = "Validation errors"
	MsgInvalidJSON       = "Invalid JSON in request body"
	MsgInvalidID         = "Invalid registration ID"
	MsgNotFound          = "Registration not found"
	MsgInternalError     = "Internal server error. Please try again later."
	MsgTooManyRequests   = "Too many requests from this IP address. Please try again later."
	MsgTooManySubmission = "Too many registration attempts from this IP address. Please try again later."
)

// CreateRegistrationRequest carries the raw intake submission. The shared
// fields are checked by validator tags; the two conditional groups are
// checked by the per-type rule tables in pkg/validator.
type CreateRegistrationRequest struct {
	FullName         string `json:"fullName" validate:"required,person_name,min=2,max=100"`
	Email            string `json:"email" validate:"required,email,max=150"`
	Phone            string `json:"phone" validate:"required,phone,max=20"`
	Organization     string `json:"organization" validate:"omitempty,max=200"`
	RegistrationType string `json:"registrationType" validate:"omitempty,oneof=anchor-partner series-venture attend"`

	SponsorshipTier   string `json:"sponsorshipTier"`
	ParticipationType string `json:"participationType"`

	VentureStage       string `json:"ventureStage"`
	Location           string `json:"location"`
	TeamSize           int    `json:"teamSize"`
	ProjectDescription string `json:"projectDescription"`
	FundingNeeds       string `json:"fundingNeeds"`
	GuidedLabsInterest string `json:"guidedLabsInterest"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type CreateRegistrationResponse struct {
	ID               uuid.UUID `json:"id"`
	RegistrationType string    `json:"registrationType"`
	SubmissionDate   time.Time `json:"submissionDate"`
}

// ExistingRegistrationRef points a conflicting submission at the record
// that already holds the (email, registrationType) pair.
type ExistingRegistrationRef struct {
	ID             uuid.UUID `json:"id"`
	SubmissionDate time.Time `json:"submissionDate"`
}

type DeleteRegistrationResponse struct {
	ID               uuid.UUID `json:"id"`
	Email            string    `json:"email"`
	RegistrationType string    `json:"registrationType"`
}

// RegistrationCreatedMessage is the notification event published to
// RabbitMQ after a successful intake.
type RegistrationCreatedMessage struct {
	RegistrationID   uuid.UUID `json:"registration_id"`
	FullName         string    `json:"full_name"`
	Email            string    `json:"email"`
	RegistrationType string    `json:"registration_type"`
	SubmissionDate   time.Time `json:"submission_date"`
}

type Pagination struct {
	CurrentPage  int  `json:"currentPage"`
	TotalPages   int  `json:"totalPages"`
	TotalRecords int  `json:"totalRecords"`
	HasNextPage  bool `json:"hasNextPage"`
	HasPrevPage  bool `json:"hasPrevPage"`
	Limit        int  `json:"limit"`
}

// Response is the envelope every endpoint answers with.
type Response struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Data       any         `json:"data,omitempty"`
	Errors     any         `json:"errors,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

func SuccessResponse(c *ginext.Context, data any) {
	c.JSON(200, Response{Success: true, Data: data})
}

func SuccessMessageResponse(c *ginext.Context, message string, data any) {
	c.JSON(200, Response{Success: true, Message: message, Data: data})
}

func SuccessCreatedResponse(c *ginext.Context, message string, data any) {
	c.JSON(201, Response{Success: true, Message: message, Data: data})
}

func SuccessPageResponse(c *ginext.Context, data any, p Pagination) {
	c.JSON(200, Response{Success: true, Data: data, Pagination: &p})
}

func ValidationErrorResponse(c *ginext.Context, errs []FieldError) {
	c.JSON(400, Response{Success: false, Message: MsgValidationErrors, Errors: errs})
}

func BadRequestResponse(c *ginext.Context, message string) {
	c.JSON(400, Response{Success: false, Message: message})
}

func NotFoundResponse(c *ginext.Context) {
	c.JSON(404, Response{Success: false, Message: MsgNotFound})
}

func ConflictResponse(c *ginext.Context, message string, data any) {
	c.JSON(409, Response{Success: false, Message: message, Data: data})
}

func TooManyRequestsResponse(c *ginext.Context, message string) {
	c.JSON(429, Response{Success: false, Message: message})
}

// InternalServerError hides failure detail unless the service runs in
// development mode.
func InternalServerError(c *ginext.Context, env string, err error) {
	resp := Response{Success: false, Message: MsgInternalError}
	if env == "development" && err != nil {
		resp.Errors = err.Error()
	}
	c.JSON(500, resp)
}
