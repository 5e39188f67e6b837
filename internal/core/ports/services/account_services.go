package services

import (
	"context"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/finbooks/finbooks_backend/internal/dto"
)

// AccountReaderSvc defines read operations for the chart of accounts.
type AccountReaderSvc interface {
	// GetAccountByID retrieves an account.
	GetAccountByID(ctx context.Context, companyID, accountID string) (*domain.Account, error)

	// GetAccountsByIDs retrieves multiple accounts keyed by ID.
	GetAccountsByIDs(ctx context.Context, companyID string, accountIDs []string) (map[string]domain.Account, error)

	// ResolvePurposeAccount resolves the system account for a posting purpose.
	ResolvePurposeAccount(ctx context.Context, companyID string, purpose domain.AccountPurpose) (*domain.Account, error)

	// ListAccounts lists all accounts of a company ordered by code.
	ListAccounts(ctx context.Context, companyID string) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations for the chart of accounts.
type AccountWriterSvc interface {
	// CreateAccount creates an account after hierarchy validation.
	CreateAccount(ctx context.Context, companyID string, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error)
}

// AccountSvcFacade combines account service interfaces.
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
