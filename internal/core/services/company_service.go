package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/dto"
)

// defaultFYStartMonth is April, the most common fiscal year start in the
// jurisdictions this ledger targets.
const defaultFYStartMonth = 4

// companyService provides tenant lifecycle operations.
type companyService struct {
	BaseService
	companyRepo portsrepo.CompanyRepositoryFacade
}

// NewCompanyService creates a new CompanySvcFacade.
func NewCompanyService(companyRepo portsrepo.CompanyRepositoryFacade) portssvc.CompanySvcFacade {
	return &companyService{companyRepo: companyRepo}
}

var _ portssvc.CompanySvcFacade = (*companyService)(nil)

func (s *companyService) CreateCompany(ctx context.Context, req dto.CreateCompanyRequest, creatorUserID string) (*domain.Company, error) {
	now := time.Now()

	fyStart := req.FYStartMonth
	if fyStart == 0 {
		fyStart = defaultFYStartMonth
	}

	company := domain.Company{
		CompanyID:       uuid.NewString(),
		Name:            req.Name,
		HomeCurrency:    strings.ToUpper(req.HomeCurrency),
		FYStartMonth:    fyStart,
		AutoPostEnabled: req.AutoPostEnabled,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.companyRepo.SaveCompany(ctx, company); err != nil {
		s.LogError(ctx, err, "failed to save company", "company_name", req.Name)
		return nil, err
	}

	s.LogInfo(ctx, "company created", "company_id", company.CompanyID, "fy_start_month", company.FYStartMonth)
	return &company, nil
}

func (s *companyService) GetCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	company, err := s.companyRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return company, nil
}

func (s *companyService) SetAutoPost(ctx context.Context, companyID string, enabled bool, userID string) error {
	// Verify the company exists before flipping the flag.
	if _, err := s.companyRepo.FindCompanyByID(ctx, companyID); err != nil {
		return err
	}

	if err := s.companyRepo.UpdateAutoPost(ctx, companyID, enabled, userID, time.Now()); err != nil {
		s.LogError(ctx, err, "failed to update auto-post flag", "company_id", companyID)
		return err
	}

	s.LogInfo(ctx, "auto-post flag updated", "company_id", companyID, "enabled", enabled)
	return nil
}
