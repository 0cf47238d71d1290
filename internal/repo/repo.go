package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/dbpg"

	"summitapi/internal/model"
)

var (
	ErrRegistrationNotFound  = errors.New("registration not found")
	ErrDuplicateRegistration = errors.New("duplicate registration")
)

// DuplicateRegistrationError reports a uniqueness conflict together with the
// record already holding the (email, registrationType) pair. The insert path
// can hit the constraint without these details; it falls back to the bare
// sentinel.
type DuplicateRegistrationError struct {
	ExistingID     uuid.UUID
	SubmissionDate time.Time
}

func (e *DuplicateRegistrationError) Error() string {
	return fmt.Sprintf("duplicate registration (existing id %s)", e.ExistingID)
}

func (e *DuplicateRegistrationError) Unwrap() error {
	return ErrDuplicateRegistration
}

// ListFilter narrows ListRegistrations. Zero values mean "no constraint".
type ListFilter struct {
	RegistrationType string
	Status           string
	SponsorshipTier  string
	VentureStage     string
	FundingNeeds     string
	StartDate        *time.Time
	EndDate          *time.Time
	Search           string
	Page             int
	PageSize         int
}

type Repository interface {
	CreateRegistration(ctx context.Context, reg *model.Registration) (*model.Registration, error)
	ListRegistrations(ctx context.Context, f ListFilter) ([]model.Registration, int, error)
	GetRegistrationByID(ctx context.Context, id uuid.UUID) (*model.Registration, error)
	UpdateRegistrationStatus(ctx context.Context, id uuid.UUID, status string) (*model.Registration, error)
	DeleteRegistration(ctx context.Context, id uuid.UUID) (*model.Registration, error)
	GetStats(ctx context.Context) (*model.Stats, error)
	MigrateUp(migrationsDir string) error
	MigrateDown(migrationsDir string) error
}

type repository struct {
	db  *dbpg.DB
	log *zerolog.Logger
}

func NewRepository(db *dbpg.DB, log *zerolog.Logger) (Repository, error) {
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	if err := db.Master.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}
	return &repository{db: db, log: log}, nil
}

func (r *repository) MigrateUp(migrationsDir string) error {
	files, err := filepath.Glob(filepath.Join(migrationsDir, "*.up.sql"))
	if err != nil {
		return fmt.Errorf("failed to read migration files: %w", err)
	}

	for _, file := range files {
		sqlBytes, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", file, err)
		}

		if _, err := r.db.ExecContext(context.Background(), string(sqlBytes)); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", file, err)
		}
	}

	r.log.Info().Msgf("Migrations applied successfully from %s", migrationsDir)
	return nil
}

func (r *repository) MigrateDown(migrationsDir string) error {
	files, err := filepath.Glob(filepath.Join(migrationsDir, "*.down.sql"))
	if err != nil {
		return fmt.Errorf("failed to read rollback files: %w", err)
	}

	for _, file := range files {
		sqlBytes, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read rollback file %s: %w", file, err)
		}

		if _, err := r.db.ExecContext(context.Background(), string(sqlBytes)); err != nil {
			return fmt.Errorf("failed to rollback migration %s: %w", file, err)
		}
	}

	r.log.Info().Msgf("Migrations rolled back successfully from %s", migrationsDir)
	return nil
}

const registrationColumns = `id, full_name, email, phone, organization, registration_type,
	sponsorship_tier, participation_type, venture_stage, location, team_size,
	project_description, funding_needs, guided_labs_interest,
	submission_date, ip_address, user_agent, status, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRegistration(row rowScanner) (*model.Registration, error) {
	var reg model.Registration
	err := row.Scan(
		&reg.ID,
		&reg.FullName,
		&reg.Email,
		&reg.Phone,
		&reg.Organization,
		&reg.RegistrationType,
		&reg.SponsorshipTier,
		&reg.ParticipationType,
		&reg.VentureStage,
		&reg.Location,
		&reg.TeamSize,
		&reg.ProjectDescription,
		&reg.FundingNeeds,
		&reg.GuidedLabsInterest,
		&reg.SubmissionDate,
		&reg.IPAddress,
		&reg.UserAgent,
		&reg.Status,
		&reg.CreatedAt,
		&reg.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

// CreateRegistration inserts a new record. The unique index on
// (email, registration_type) is the authoritative duplicate guard; the
// pre-check only exists to give the caller a reference to the existing
// record. A concurrent insert between the two statements still surfaces
// as a duplicate via the constraint.
func (r *repository) CreateRegistration(ctx context.Context, reg *model.Registration) (*model.Registration, error) {
	var existing DuplicateRegistrationError
	err := r.db.QueryRowContext(ctx, `
		SELECT id, submission_date
		FROM registrations
		WHERE email = $1 AND registration_type = $2
	`, reg.Email, reg.RegistrationType).Scan(&existing.ExistingID, &existing.SubmissionDate)
	if err == nil {
		return nil, &existing
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to check duplicate registration: %w", err)
	}

	query := `
		INSERT INTO registrations (
			id, full_name, email, phone, organization, registration_type,
			sponsorship_tier, participation_type, venture_stage, location, team_size,
			project_description, funding_needs, guided_labs_interest,
			ip_address, user_agent, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING ` + registrationColumns

	row := r.db.QueryRowContext(ctx, query,
		uuid.New(), reg.FullName, reg.Email, reg.Phone, reg.Organization, reg.RegistrationType,
		reg.SponsorshipTier, reg.ParticipationType, reg.VentureStage, reg.Location, reg.TeamSize,
		reg.ProjectDescription, reg.FundingNeeds, reg.GuidedLabsInterest,
		reg.IPAddress, reg.UserAgent, reg.Status,
	)

	created, err := scanRegistration(row)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return nil, ErrDuplicateRegistration
		}
		return nil, fmt.Errorf("failed to create registration: %w", err)
	}
	return created, nil
}

// buildListWhere translates a ListFilter into a WHERE clause and its
// arguments. Exact-match filters AND together; the search term ORs across
// the text fields, case-insensitively.
func buildListWhere(f ListFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.RegistrationType != "" {
		add("registration_type = $%d", f.RegistrationType)
	}
	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if f.SponsorshipTier != "" {
		add("sponsorship_tier = $%d", f.SponsorshipTier)
	}
	if f.VentureStage != "" {
		add("venture_stage = $%d", f.VentureStage)
	}
	if f.FundingNeeds != "" {
		add("funding_needs = $%d", f.FundingNeeds)
	}
	if f.StartDate != nil {
		add("submission_date >= $%d", *f.StartDate)
	}
	if f.EndDate != nil {
		add("submission_date <= $%d", *f.EndDate)
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(full_name ILIKE $%d OR email ILIKE $%d OR organization ILIKE $%d OR phone ILIKE $%d OR location ILIKE $%d)",
			n, n, n, n, n))
	}

	if len(conds) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

func (r *repository) ListRegistrations(ctx context.Context, f ListFilter) ([]model.Registration, int, error) {
	where, args := buildListWhere(f)

	var total int
	countQuery := "SELECT COUNT(*) FROM registrations " + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count registrations: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM registrations
		%s
		ORDER BY submission_date DESC
		LIMIT $%d OFFSET $%d
	`, registrationColumns, where, len(args)+1, len(args)+2)
	args = append(args, f.PageSize, (f.Page-1)*f.PageSize)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list registrations: %w", err)
	}
	defer rows.Close()

	regs := make([]model.Registration, 0, f.PageSize)
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan registration: %w", err)
		}
		regs = append(regs, *reg)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read registrations: %w", err)
	}

	return regs, total, nil
}

func (r *repository) GetRegistrationByID(ctx context.Context, id uuid.UUID) (*model.Registration, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+registrationColumns+" FROM registrations WHERE id = $1", id)

	reg, err := scanRegistration(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to get registration: %w", err)
	}
	return reg, nil
}

func (r *repository) UpdateRegistrationStatus(ctx context.Context, id uuid.UUID, status string) (*model.Registration, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE registrations
		SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+registrationColumns, status, id)

	reg, err := scanRegistration(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to update registration status: %w", err)
	}
	return reg, nil
}

// DeleteRegistration permanently removes the record. Hard delete; there is
// no tombstone to resurrect.
func (r *repository) DeleteRegistration(ctx context.Context, id uuid.UUID) (*model.Registration, error) {
	row := r.db.QueryRowContext(ctx,
		"DELETE FROM registrations WHERE id = $1 RETURNING "+registrationColumns, id)

	reg, err := scanRegistration(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to delete registration: %w", err)
	}
	return reg, nil
}

func (r *repository) GetStats(ctx context.Context) (*model.Stats, error) {
	stats := &model.Stats{
		SponsorshipTiers: make([]model.BucketCount, 0),
		VentureStages:    make([]model.BucketCount, 0),
		FundingNeeds:     make([]model.BucketCount, 0),
	}

	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE registration_type = 'attend'),
		       COUNT(*) FILTER (WHERE registration_type = 'anchor-partner'),
		       COUNT(*) FILTER (WHERE registration_type = 'series-venture'),
		       COUNT(*) FILTER (WHERE status = 'pending'),
		       COUNT(*) FILTER (WHERE status = 'approved')
		FROM registrations
	`).Scan(
		&stats.Overview.TotalRegistrations,
		&stats.Overview.Attendees,
		&stats.Overview.AnchorPartners,
		&stats.Overview.SeriesVentures,
		&stats.Overview.PendingReviews,
		&stats.Overview.ApprovedRegistrations,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get registration overview: %w", err)
	}

	stats.SponsorshipTiers, err = r.groupCounts(ctx, "sponsorship_tier", model.TypeAnchorPartner)
	if err != nil {
		return nil, err
	}
	stats.VentureStages, err = r.groupCounts(ctx, "venture_stage", model.TypeSeriesVenture)
	if err != nil {
		return nil, err
	}
	stats.FundingNeeds, err = r.groupCounts(ctx, "funding_needs", model.TypeSeriesVenture)
	if err != nil {
		return nil, err
	}

	sevenDaysAgo := time.Now().AddDate(0, 0, -7)
	err = r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM registrations WHERE submission_date >= $1
	`, sevenDaysAgo).Scan(&stats.RecentRegistrations)
	if err != nil {
		return nil, fmt.Errorf("failed to count recent registrations: %w", err)
	}

	return stats, nil
}

// column is always one of the fixed group-by fields, never caller input.
func (r *repository) groupCounts(ctx context.Context, column, registrationType string) ([]model.BucketCount, error) {
	query := fmt.Sprintf(`
		SELECT %s, COUNT(*)
		FROM registrations
		WHERE registration_type = $1
		GROUP BY %s
	`, column, column)

	rows, err := r.db.QueryContext(ctx, query, registrationType)
	if err != nil {
		return nil, fmt.Errorf("failed to group by %s: %w", column, err)
	}
	defer rows.Close()

	buckets := make([]model.BucketCount, 0)
	for rows.Next() {
		var b model.BucketCount
		if err := rows.Scan(&b.Value, &b.Count); err != nil {
			return nil, fmt.Errorf("failed to scan %s bucket: %w", column, err)
		}
		buckets = append(buckets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s buckets: %w", column, err)
	}

	return buckets, nil
}
