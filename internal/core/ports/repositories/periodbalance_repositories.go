package repositories

import (
	"context"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
)

// PeriodBalanceReader defines read operations for the period balance cache.
type PeriodBalanceReader interface {
	// ListPeriodBalances returns every cached row for a financial year,
	// ordered by account then period.
	ListPeriodBalances(ctx context.Context, companyID, financialYear string) ([]domain.PeriodBalance, error)

	// FindPeriodBalance returns one (account, period) row, or ErrNotFound.
	FindPeriodBalance(ctx context.Context, companyID, accountID, financialYear string, periodMonth int) (*domain.PeriodBalance, error)
}

// PeriodBalanceWriter defines rebuild operations for the period balance cache.
type PeriodBalanceWriter interface {
	// ReplaceForYear atomically replaces all rows of a (company, financial
	// year) with the supplied recomputed rows. Implementations must hold the
	// recalculation scope lock for the key so the replace cannot interleave
	// with concurrent posting into the same periods.
	ReplaceForYear(ctx context.Context, companyID, financialYear string, rows []domain.PeriodBalance) error
}

// PeriodBalanceRepositoryFacade combines the period balance interfaces.
type PeriodBalanceRepositoryFacade interface {
	PeriodBalanceReader
	PeriodBalanceWriter
}
