package services

import (
	"context"
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
)

// PeriodBalanceSvcFacade maintains the per-month balance cache.
type PeriodBalanceSvcFacade interface {
	// Recalculate replays all posted entries for the financial year and
	// rebuilds the cache rows. Safe to run concurrently with posting; the
	// repository serializes against in-flight postings for the same scope.
	Recalculate(ctx context.Context, companyID string, financialYear string) error
	ListBalances(ctx context.Context, companyID string, financialYear string, accountID *string) ([]domain.PeriodBalance, error)
}

// ReportingSvcFacade produces financial statements from the balance cache.
type ReportingSvcFacade interface {
	TrialBalance(ctx context.Context, companyID string, asOf time.Time) (*domain.TrialBalanceReport, error)
	IncomeStatement(ctx context.Context, companyID string, from, to time.Time) (*domain.IncomeStatement, error)
	BalanceSheet(ctx context.Context, companyID string, asOf time.Time) (*domain.BalanceSheet, error)
	AbnormalBalances(ctx context.Context, companyID string, asOf time.Time) ([]domain.AbnormalBalance, error)
}
