package repositories

import (
	"context"
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
)

// CompanyReader defines read operations for company data.
type CompanyReader interface {
	// FindCompanyByID retrieves a company by its unique identifier.
	FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error)
}

// CompanyWriter defines write operations for company data.
type CompanyWriter interface {
	// SaveCompany persists a new company.
	SaveCompany(ctx context.Context, company domain.Company) error

	// UpdateAutoPost flips the company-level auto-posting flag.
	UpdateAutoPost(ctx context.Context, companyID string, enabled bool, updatedBy string, updatedAt time.Time) error
}

// CompanyRepositoryFacade combines all company repository interfaces.
type CompanyRepositoryFacade interface {
	CompanyReader
	CompanyWriter
}
