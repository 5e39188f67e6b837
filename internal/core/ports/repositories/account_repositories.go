package repositories

import (
	"context"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
)

// AccountReader defines read operations for chart-of-accounts data.
type AccountReader interface {
	// FindAccountByID retrieves an account scoped to a company.
	FindAccountByID(ctx context.Context, companyID, accountID string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts keyed by account ID.
	FindAccountsByIDs(ctx context.Context, companyID string, accountIDs []string) (map[string]domain.Account, error)

	// FindAccountByPurpose resolves the system account tagged with a purpose.
	FindAccountByPurpose(ctx context.Context, companyID string, purpose domain.AccountPurpose) (*domain.Account, error)

	// ListAccounts returns all accounts of a company ordered by code.
	ListAccounts(ctx context.Context, companyID string) ([]domain.Account, error)

	// ListControlAccounts returns the company's control accounts.
	ListControlAccounts(ctx context.Context, companyID string) ([]domain.Account, error)
}

// AccountWriter defines write operations for chart-of-accounts data.
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error
}

// AccountRepositoryFacade combines all account repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
