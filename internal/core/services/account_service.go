package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/dto"
)

// accountService manages the chart of accounts.
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	companySvc  portssvc.CompanySvcFacade
}

// NewAccountService creates a new AccountSvcFacade.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, companySvc portssvc.CompanySvcFacade) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: accountRepo, companySvc: companySvc}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, companyID string, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	if _, err := s.companySvc.GetCompanyByID(ctx, companyID); err != nil {
		return nil, err
	}

	accountType := domain.AccountType(req.AccountType)

	depth := 0
	if req.ParentAccountID != nil {
		parent, err := s.accountRepo.FindAccountByID(ctx, companyID, *req.ParentAccountID)
		if err != nil {
			return nil, fmt.Errorf("parent account lookup failed: %w", err)
		}
		// A child must stay within its parent's fundamental type so roll-ups
		// remain meaningful.
		if parent.AccountType != accountType {
			return nil, fmt.Errorf("%w: parent account %s is %s, child is %s",
				apperrors.ErrValidation, parent.AccountID, parent.AccountType, accountType)
		}
		depth = parent.Depth + 1
	}

	if req.IsControlAccount && req.ControlAccountType == "" {
		return nil, fmt.Errorf("%w: control accounts require a control account type", apperrors.ErrValidation)
	}
	if !req.IsControlAccount && req.ControlAccountType != "" {
		return nil, fmt.Errorf("%w: control account type set on a non-control account", apperrors.ErrValidation)
	}

	now := time.Now()
	account := domain.Account{
		AccountID:          uuid.NewString(),
		CompanyID:          companyID,
		Code:               req.Code,
		Name:               req.Name,
		AccountType:        accountType,
		ParentAccountID:    req.ParentAccountID,
		Depth:              depth,
		IsControlAccount:   req.IsControlAccount,
		ControlAccountType: domain.ControlAccountType(req.ControlAccountType),
		Purpose:            domain.AccountPurpose(req.Purpose),
		IsActive:           true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "failed to save account", "company_id", companyID, "code", req.Code)
		return nil, err
	}

	s.LogInfo(ctx, "account created", "company_id", companyID, "account_id", account.AccountID, "code", account.Code)
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, companyID, accountID string) (*domain.Account, error) {
	return s.accountRepo.FindAccountByID(ctx, companyID, accountID)
}

func (s *accountService) GetAccountsByIDs(ctx context.Context, companyID string, accountIDs []string) (map[string]domain.Account, error) {
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, companyID, accountIDs)
	if err != nil {
		return nil, err
	}
	for _, id := range accountIDs {
		if _, ok := accounts[id]; !ok {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
		}
	}
	return accounts, nil
}

func (s *accountService) ResolvePurposeAccount(ctx context.Context, companyID string, purpose domain.AccountPurpose) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByPurpose(ctx, companyID, purpose)
	if err != nil {
		return nil, fmt.Errorf("no account configured for purpose %s: %w", purpose, err)
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context, companyID string) ([]domain.Account, error) {
	return s.accountRepo.ListAccounts(ctx, companyID)
}
