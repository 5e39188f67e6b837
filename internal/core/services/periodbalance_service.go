package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/utils/accounting"
)

// periodBalanceService maintains the per-month balance cache. The journal is
// the system of record; Recalculate must reproduce the cache exactly from
// posted entries alone.
type periodBalanceService struct {
	BaseService
	periodBalanceRepo portsrepo.PeriodBalanceRepositoryFacade
	journalRepo       portsrepo.JournalReader
	accountSvc        portssvc.AccountReaderSvc
	companySvc        portssvc.CompanySvcFacade
}

// NewPeriodBalanceService creates a new PeriodBalanceSvcFacade.
func NewPeriodBalanceService(periodBalanceRepo portsrepo.PeriodBalanceRepositoryFacade, journalRepo portsrepo.JournalReader, accountSvc portssvc.AccountReaderSvc, companySvc portssvc.CompanySvcFacade) portssvc.PeriodBalanceSvcFacade {
	return &periodBalanceService{
		periodBalanceRepo: periodBalanceRepo,
		journalRepo:       journalRepo,
		accountSvc:        accountSvc,
		companySvc:        companySvc,
	}
}

var _ portssvc.PeriodBalanceSvcFacade = (*periodBalanceService)(nil)

func (s *periodBalanceService) Recalculate(ctx context.Context, companyID string, financialYear string) error {
	company, err := s.companySvc.GetCompanyByID(ctx, companyID)
	if err != nil {
		return err
	}

	entries, err := s.journalRepo.ListPostedEntriesForYear(ctx, companyID, financialYear)
	if err != nil {
		s.LogError(ctx, err, "failed to load entries for recalculation",
			"company_id", companyID, "financial_year", financialYear)
		return err
	}

	accounts, err := s.accountSvc.ListAccounts(ctx, companyID)
	if err != nil {
		return err
	}
	sides := make(map[string]domain.BalanceSide, len(accounts))
	for _, acc := range accounts {
		sides[acc.AccountID] = acc.NormalSide()
	}

	rows, err := replayEntries(companyID, financialYear, company.FYStartMonth, entries, sides)
	if err != nil {
		return err
	}

	if err := s.periodBalanceRepo.ReplaceForYear(ctx, companyID, financialYear, rows); err != nil {
		s.LogError(ctx, err, "failed to replace period balances",
			"company_id", companyID, "financial_year", financialYear)
		return err
	}

	s.LogInfo(ctx, "period balances recalculated",
		"company_id", companyID, "financial_year", financialYear, "entries", len(entries), "rows", len(rows))
	return nil
}

func (s *periodBalanceService) ListBalances(ctx context.Context, companyID string, financialYear string, accountID *string) ([]domain.PeriodBalance, error) {
	rows, err := s.periodBalanceRepo.ListPeriodBalances(ctx, companyID, financialYear)
	if err != nil {
		return nil, err
	}
	if accountID == nil {
		return rows, nil
	}
	filtered := rows[:0]
	for _, row := range rows {
		if row.AccountID == *accountID {
			filtered = append(filtered, row)
		}
	}
	return filtered, nil
}

// replayEntries folds posted entries into period rows: debit and credit
// totals per (account, month), then opening balances chained across the
// financial year's months in fiscal order. Opening and closing are expressed
// on each account's normal balance side; balance-sheet carry-in from prior
// years arrives through opening journal entries, so the first fiscal month
// always opens at zero.
func replayEntries(companyID, financialYear string, fyStartMonth int, entries []domain.JournalEntry, sides map[string]domain.BalanceSide) ([]domain.PeriodBalance, error) {
	type key struct {
		accountID string
		month     int
	}
	activity := make(map[key]*domain.PeriodBalance)

	for _, e := range entries {
		month := accounting.PeriodMonth(e.EntryDate)
		for _, l := range e.Lines {
			k := key{accountID: l.AccountID, month: month}
			row, ok := activity[k]
			if !ok {
				row = &domain.PeriodBalance{
					CompanyID:      companyID,
					AccountID:      l.AccountID,
					FinancialYear:  financialYear,
					PeriodMonth:    month,
					OpeningBalance: decimal.Zero,
					PeriodDebits:   decimal.Zero,
					PeriodCredits:  decimal.Zero,
				}
				activity[k] = row
			}
			row.PeriodDebits = row.PeriodDebits.Add(l.Debit)
			row.PeriodCredits = row.PeriodCredits.Add(l.Credit)
		}
	}

	accountIDs := make([]string, 0, len(sides))
	for accountID := range sides {
		accountIDs = append(accountIDs, accountID)
	}
	sort.Strings(accountIDs)

	// Chain openings per account in fiscal month order.
	running := make(map[string]decimal.Decimal)
	rows := make([]domain.PeriodBalance, 0, len(activity))
	for i := 0; i < 12; i++ {
		month := (fyStartMonth-1+i)%12 + 1
		for _, accountID := range accountIDs {
			row, ok := activity[key{accountID: accountID, month: month}]
			if !ok {
				continue
			}
			opening, ok := running[accountID]
			if !ok {
				opening = decimal.Zero
			}
			row.OpeningBalance = opening
			row.ClosingBalance = row.Closing(sides[accountID])
			running[accountID] = row.ClosingBalance
			rows = append(rows, *row)
		}
	}

	// Any activity on an account without a known side is a data fault.
	if len(rows) != len(activity) {
		return nil, fmt.Errorf("entries reference %d account-periods but only %d could be replayed", len(activity), len(rows))
	}
	return rows, nil
}
