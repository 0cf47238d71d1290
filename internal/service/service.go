package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/ginext"

	"summitapi/internal/dto"
	"summitapi/internal/model"
	"summitapi/internal/rabbit"
	"summitapi/internal/repo"
	"summitapi/pkg/validator"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

type Service interface {
	CreateRegistration(ctx *ginext.Context)
	GetAllRegistrations(ctx *ginext.Context)
	GetRegistrationStats(ctx *ginext.Context)
	GetRegistrationByID(ctx *ginext.Context)
	UpdateRegistrationStatus(ctx *ginext.Context)
	DeleteRegistration(ctx *ginext.Context)
}

type service struct {
	repo repo.Repository
	log  *zerolog.Logger
	rbt  *rabbit.Client
	env  string
}

// NewService wires the handlers. rbt may be nil when notifications are
// disabled; the create path then skips publishing.
func NewService(repo repo.Repository, logger *zerolog.Logger, rbt *rabbit.Client, env string) Service {
	return &service{
		repo: repo,
		log:  logger,
		rbt:  rbt,
		env:  env,
	}
}

func (s *service) CreateRegistration(ctx *ginext.Context) {
	var req dto.CreateRegistrationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		s.log.Error().Err(err).Msg("failed to parse create registration request")
		dto.BadRequestResponse(ctx, dto.MsgInvalidJSON)
		return
	}

	reg, verrs := validator.NormalizeRegistration(ctx, &req)
	if len(verrs) > 0 {
		s.log.Info().Int("fields", len(verrs)).Msg("registration rejected by validation")
		dto.ValidationErrorResponse(ctx, verrs)
		return
	}

	reg.IPAddress = ctx.ClientIP()
	reg.UserAgent = ctx.Request.UserAgent()

	created, err := s.repo.CreateRegistration(ctx.Request.Context(), reg)
	if err != nil {
		var dup *repo.DuplicateRegistrationError
		switch {
		case errors.As(err, &dup):
			dto.ConflictResponse(ctx,
				fmt.Sprintf("A registration with this email already exists for %s type", reg.RegistrationType),
				dto.ExistingRegistrationRef{ID: dup.ExistingID, SubmissionDate: dup.SubmissionDate})
			return
		case errors.Is(err, repo.ErrDuplicateRegistration):
			// Constraint fired between the pre-check and the insert.
			dto.ConflictResponse(ctx, "Registration with this information already exists", nil)
			return
		default:
			s.log.Error().Err(err).Msg("failed to create registration in DB")
			dto.InternalServerError(ctx, s.env, err)
			return
		}
	}

	s.log.Info().
		Str("registration_id", created.ID.String()).
		Str("registration_type", created.RegistrationType).
		Msg("registration created successfully")

	s.publishCreated(created)

	dto.SuccessCreatedResponse(ctx, "Registration submitted successfully", dto.CreateRegistrationResponse{
		ID:               created.ID,
		RegistrationType: created.RegistrationType,
		SubmissionDate:   created.SubmissionDate,
	})
}

func (s *service) publishCreated(reg *model.Registration) {
	if s.rbt == nil {
		return
	}
	msg := dto.RegistrationCreatedMessage{
		RegistrationID:   reg.ID,
		FullName:         reg.FullName,
		Email:            reg.Email,
		RegistrationType: reg.RegistrationType,
		SubmissionDate:   reg.SubmissionDate,
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to marshal registration created message")
		return
	}
	// Best effort: a lost notification never fails the request.
	if err := s.rbt.Publish(payload); err != nil {
		s.log.Error().Err(err).Msg("failed to publish registration created message to RabbitMQ")
	}
}

func (s *service) GetAllRegistrations(ctx *ginext.Context) {
	page := parsePositiveInt(ctx.Query("page"), 1)
	limit := parsePositiveInt(ctx.Query("limit"), defaultPageSize)
	if limit > maxPageSize {
		limit = maxPageSize
	}

	filter := repo.ListFilter{
		RegistrationType: ctx.Query("registrationType"),
		Status:           ctx.Query("status"),
		SponsorshipTier:  ctx.Query("sponsorshipTier"),
		VentureStage:     ctx.Query("ventureStage"),
		FundingNeeds:     ctx.Query("fundingNeeds"),
		Search:           ctx.Query("search"),
		Page:             page,
		PageSize:         limit,
	}

	if raw := ctx.Query("startDate"); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			dto.BadRequestResponse(ctx, "Invalid startDate. Expected YYYY-MM-DD")
			return
		}
		filter.StartDate = &t
	}
	if raw := ctx.Query("endDate"); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			dto.BadRequestResponse(ctx, "Invalid endDate. Expected YYYY-MM-DD")
			return
		}
		filter.EndDate = &t
	}

	regs, total, err := s.repo.ListRegistrations(ctx.Request.Context(), filter)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list registrations")
		dto.InternalServerError(ctx, s.env, err)
		return
	}

	totalPages := (total + limit - 1) / limit
	dto.SuccessPageResponse(ctx, regs, dto.Pagination{
		CurrentPage:  page,
		TotalPages:   totalPages,
		TotalRecords: total,
		HasNextPage:  page < totalPages,
		HasPrevPage:  page > 1,
		Limit:        limit,
	})
}

func (s *service) GetRegistrationStats(ctx *ginext.Context) {
	stats, err := s.repo.GetStats(ctx.Request.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("failed to get registration stats")
		dto.InternalServerError(ctx, s.env, err)
		return
	}
	dto.SuccessResponse(ctx, stats)
}

func (s *service) GetRegistrationByID(ctx *ginext.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		dto.BadRequestResponse(ctx, dto.MsgInvalidID)
		return
	}

	reg, err := s.repo.GetRegistrationByID(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrRegistrationNotFound) {
			dto.NotFoundResponse(ctx)
			return
		}
		s.log.Error().Err(err).Msg("failed to get registration by id")
		dto.InternalServerError(ctx, s.env, err)
		return
	}
	dto.SuccessResponse(ctx, reg)
}

func (s *service) UpdateRegistrationStatus(ctx *ginext.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		dto.BadRequestResponse(ctx, dto.MsgInvalidID)
		return
	}

	var req dto.UpdateStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadRequestResponse(ctx, dto.MsgInvalidJSON)
		return
	}
	if !model.Statuses[req.Status] {
		dto.BadRequestResponse(ctx, "Invalid status. Allowed values: pending, reviewed, approved, rejected")
		return
	}

	reg, err := s.repo.UpdateRegistrationStatus(ctx.Request.Context(), id, req.Status)
	if err != nil {
		if errors.Is(err, repo.ErrRegistrationNotFound) {
			dto.NotFoundResponse(ctx)
			return
		}
		s.log.Error().Err(err).Msg("failed to update registration status")
		dto.InternalServerError(ctx, s.env, err)
		return
	}

	s.log.Info().
		Str("registration_id", reg.ID.String()).
		Str("status", reg.Status).
		Msg("registration status updated")

	dto.SuccessMessageResponse(ctx, "Registration status updated successfully", reg)
}

func (s *service) DeleteRegistration(ctx *ginext.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		dto.BadRequestResponse(ctx, dto.MsgInvalidID)
		return
	}

	reg, err := s.repo.DeleteRegistration(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrRegistrationNotFound) {
			dto.NotFoundResponse(ctx)
			return
		}
		s.log.Error().Err(err).Msg("failed to delete registration")
		dto.InternalServerError(ctx, s.env, err)
		return
	}

	s.log.Info().
		Str("registration_id", reg.ID.String()).
		Str("email", reg.Email).
		Msg("registration permanently deleted")

	dto.SuccessMessageResponse(ctx, "Registration permanently deleted successfully", dto.DeleteRegistrationResponse{
		ID:               reg.ID,
		Email:            reg.Email,
		RegistrationType: reg.RegistrationType,
	})
}

func parsePositiveInt(raw string, def int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	return n
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
