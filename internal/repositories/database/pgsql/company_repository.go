package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
	"github.com/finbooks/finbooks_backend/internal/models"
	"github.com/finbooks/finbooks_backend/internal/utils/mapping"
)

type PgxCompanyRepository struct {
	BaseRepository
}

// newPgxCompanyRepository creates a new repository for company data.
func newPgxCompanyRepository(pool *pgxpool.Pool) portsrepo.CompanyRepositoryFacade {
	return &PgxCompanyRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.CompanyRepositoryFacade = (*PgxCompanyRepository)(nil)

// SaveCompany persists a new company.
func (r *PgxCompanyRepository) SaveCompany(ctx context.Context, company domain.Company) error {
	modelCompany := mapping.ToModelCompany(company)
	query := `
		INSERT INTO companies (company_id, name, home_currency, fy_start_month, auto_post_enabled, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		modelCompany.CompanyID,
		modelCompany.Name,
		modelCompany.HomeCurrency,
		modelCompany.FYStartMonth,
		modelCompany.AutoPostEnabled,
		modelCompany.CreatedAt,
		modelCompany.CreatedBy,
		modelCompany.LastUpdatedAt,
		modelCompany.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err, "") {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert company "+modelCompany.CompanyID, err)
	}
	return nil
}

// FindCompanyByID retrieves a company by its unique identifier.
func (r *PgxCompanyRepository) FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	query := `
		SELECT company_id, name, home_currency, fy_start_month, auto_post_enabled, created_at, created_by, last_updated_at, last_updated_by
		FROM companies
		WHERE company_id = $1;
	`
	var modelCompany models.Company
	err := r.Pool.QueryRow(ctx, query, companyID).Scan(
		&modelCompany.CompanyID,
		&modelCompany.Name,
		&modelCompany.HomeCurrency,
		&modelCompany.FYStartMonth,
		&modelCompany.AutoPostEnabled,
		&modelCompany.CreatedAt,
		&modelCompany.CreatedBy,
		&modelCompany.LastUpdatedAt,
		&modelCompany.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find company by ID "+companyID, err)
	}

	domainCompany := mapping.ToDomainCompany(modelCompany)
	return &domainCompany, nil
}

// UpdateAutoPost flips the company-level auto-posting flag.
func (r *PgxCompanyRepository) UpdateAutoPost(ctx context.Context, companyID string, enabled bool, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE companies
		SET auto_post_enabled = $2, last_updated_at = $3, last_updated_by = $4
		WHERE company_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, companyID, enabled, updatedAt, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update auto post flag for company "+companyID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
