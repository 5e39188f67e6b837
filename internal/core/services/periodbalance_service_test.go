package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/finbooks/finbooks_backend/internal/core/services"
)

// Recalculate replays posted entries into period rows with openings chained
// in fiscal month order, so a March row opens with February's closing even
// though March is month 3 and the year starts in April.
func TestPeriodBalanceRecalculate_ReplaysEntries(t *testing.T) {
	companyRepo := new(MockCompanyRepository)
	accountRepo := new(MockAccountRepository)
	journalRepo := new(MockJournalRepository)
	periodRepo := new(MockPeriodBalanceRepository)

	companySvc := services.NewCompanyService(companyRepo)
	accountSvc := services.NewAccountService(accountRepo, companySvc)
	svc := services.NewPeriodBalanceService(periodRepo, journalRepo, accountSvc, companySvc)

	ctx := context.Background()
	company := domain.Company{CompanyID: uuid.NewString(), FYStartMonth: 4, HomeCurrency: "INR"}
	bank := newTestAccount(company.CompanyID, "1100", "Bank", domain.Asset)
	revenue := newTestAccount(company.CompanyID, "4000", "Sales Revenue", domain.Income)

	entries := []domain.JournalEntry{
		{
			EntryID:   uuid.NewString(),
			CompanyID: company.CompanyID,
			EntryDate: time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC),
			Status:    domain.Posted,
			Lines: []domain.JournalEntryLine{
				{AccountID: bank.AccountID, Debit: decimal.NewFromInt(500), Credit: decimal.Zero},
				{AccountID: revenue.AccountID, Debit: decimal.Zero, Credit: decimal.NewFromInt(500)},
			},
		},
		{
			EntryID:   uuid.NewString(),
			CompanyID: company.CompanyID,
			EntryDate: time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC),
			Status:    domain.Posted,
			Lines: []domain.JournalEntryLine{
				{AccountID: bank.AccountID, Debit: decimal.NewFromInt(200), Credit: decimal.Zero},
				{AccountID: revenue.AccountID, Debit: decimal.Zero, Credit: decimal.NewFromInt(200)},
			},
		},
	}

	companyRepo.On("FindCompanyByID", ctx, company.CompanyID).Return(&company, nil)
	journalRepo.On("ListPostedEntriesForYear", ctx, company.CompanyID, "2025-26").Return(entries, nil)
	accountRepo.On("ListAccounts", ctx, company.CompanyID).Return([]domain.Account{bank, revenue}, nil)

	var replaced []domain.PeriodBalance
	periodRepo.On("ReplaceForYear", ctx, company.CompanyID, "2025-26", mock.Anything).
		Run(func(args mock.Arguments) {
			replaced = args.Get(3).([]domain.PeriodBalance)
		}).
		Return(nil)

	err := svc.Recalculate(ctx, company.CompanyID, "2025-26")
	require.NoError(t, err)
	require.Len(t, replaced, 4)

	byKey := make(map[string]domain.PeriodBalance)
	for _, row := range replaced {
		byKey[row.AccountID+"/"+string(rune('0'+row.PeriodMonth))] = row
	}

	aprBank := byKey[bank.AccountID+"/4"]
	require.True(t, aprBank.OpeningBalance.IsZero())
	require.True(t, aprBank.PeriodDebits.Equal(decimal.NewFromInt(500)))
	require.True(t, aprBank.ClosingBalance.Equal(decimal.NewFromInt(500)))

	mayBank := byKey[bank.AccountID+"/5"]
	require.True(t, mayBank.OpeningBalance.Equal(decimal.NewFromInt(500)))
	require.True(t, mayBank.ClosingBalance.Equal(decimal.NewFromInt(700)))

	// Income is credit-normal, so credits raise the closing balance.
	mayRevenue := byKey[revenue.AccountID+"/5"]
	require.True(t, mayRevenue.OpeningBalance.Equal(decimal.NewFromInt(500)))
	require.True(t, mayRevenue.ClosingBalance.Equal(decimal.NewFromInt(700)))
}

func TestPeriodBalanceListBalances_FiltersByAccount(t *testing.T) {
	companyRepo := new(MockCompanyRepository)
	accountRepo := new(MockAccountRepository)
	journalRepo := new(MockJournalRepository)
	periodRepo := new(MockPeriodBalanceRepository)

	companySvc := services.NewCompanyService(companyRepo)
	accountSvc := services.NewAccountService(accountRepo, companySvc)
	svc := services.NewPeriodBalanceService(periodRepo, journalRepo, accountSvc, companySvc)

	ctx := context.Background()
	rows := []domain.PeriodBalance{
		{CompanyID: "co-1", AccountID: "acc-1", FinancialYear: "2025-26", PeriodMonth: 4},
		{CompanyID: "co-1", AccountID: "acc-2", FinancialYear: "2025-26", PeriodMonth: 4},
	}
	periodRepo.On("ListPeriodBalances", ctx, "co-1", "2025-26").Return(rows, nil)

	accountID := "acc-2"
	got, err := svc.ListBalances(ctx, "co-1", "2025-26", &accountID)

	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "acc-2", got[0].AccountID)
}
