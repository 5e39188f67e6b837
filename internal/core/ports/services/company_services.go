package services

import (
	"context"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/finbooks/finbooks_backend/internal/dto"
)

// CompanySvcFacade defines company (tenant) operations.
type CompanySvcFacade interface {
	// CreateCompany provisions a new tenant.
	CreateCompany(ctx context.Context, req dto.CreateCompanyRequest, creatorUserID string) (*domain.Company, error)

	// GetCompanyByID retrieves a company.
	GetCompanyByID(ctx context.Context, companyID string) (*domain.Company, error)

	// SetAutoPost toggles whether autoPost requests are honored; when
	// disabled, every posting lands as a Draft.
	SetAutoPost(ctx context.Context, companyID string, enabled bool, userID string) error
}
