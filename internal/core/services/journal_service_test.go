package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/core/services"
	"github.com/finbooks/finbooks_backend/internal/dto"
)

type JournalServiceTestSuite struct {
	suite.Suite
	companyRepo *MockCompanyRepository
	accountRepo *MockAccountRepository
	journalRepo *MockJournalRepository
	journalSvc  portssvc.JournalSvcFacade

	ctx     context.Context
	company domain.Company

	bankAccount    domain.Account
	arAccount      domain.Account
	revenueAccount domain.Account
	taxAccount     domain.Account
}

func (s *JournalServiceTestSuite) SetupTest() {
	s.companyRepo = new(MockCompanyRepository)
	s.accountRepo = new(MockAccountRepository)
	s.journalRepo = new(MockJournalRepository)

	companySvc := services.NewCompanyService(s.companyRepo)
	accountSvc := services.NewAccountService(s.accountRepo, companySvc)
	s.journalSvc = services.NewJournalService(s.journalRepo, accountSvc, companySvc)

	s.ctx = context.Background()
	s.company = domain.Company{
		CompanyID:       uuid.NewString(),
		Name:            "Acme Traders",
		HomeCurrency:    "INR",
		FYStartMonth:    4,
		AutoPostEnabled: true,
	}

	s.bankAccount = newTestAccount(s.company.CompanyID, "1100", "Bank", domain.Asset)
	s.arAccount = newTestAccount(s.company.CompanyID, "1200", "Trade Receivables", domain.Asset)
	s.revenueAccount = newTestAccount(s.company.CompanyID, "4000", "Sales Revenue", domain.Income)
	s.taxAccount = newTestAccount(s.company.CompanyID, "2300", "GST Payable", domain.Liability)
}

func newTestAccount(companyID, code, name string, accountType domain.AccountType) domain.Account {
	return domain.Account{
		AccountID:   uuid.NewString(),
		CompanyID:   companyID,
		Code:        code,
		Name:        name,
		AccountType: accountType,
		IsActive:    true,
	}
}

func (s *JournalServiceTestSuite) accountMap(accounts ...domain.Account) map[string]domain.Account {
	m := make(map[string]domain.Account, len(accounts))
	for _, a := range accounts {
		m[a.AccountID] = a
	}
	return m
}

func (s *JournalServiceTestSuite) TestCreateEntry_PostComputesBalanceChanges() {
	entry := domain.JournalEntry{
		CompanyID:   s.company.CompanyID,
		EntryDate:   time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		SourceType:  domain.SourceManual,
		SourceID:    "man-1",
		Description: "capital introduction",
		Lines: []domain.JournalEntryLine{
			{AccountID: s.bankAccount.AccountID, Debit: decimal.NewFromInt(100), Credit: decimal.Zero},
			{AccountID: s.revenueAccount.AccountID, Debit: decimal.Zero, Credit: decimal.NewFromInt(100)},
		},
	}

	s.companyRepo.On("FindCompanyByID", s.ctx, s.company.CompanyID).Return(&s.company, nil)
	s.accountRepo.On("FindAccountsByIDs", s.ctx, s.company.CompanyID, mock.Anything).
		Return(s.accountMap(s.bankAccount, s.revenueAccount), nil)

	var savedEntry domain.JournalEntry
	var savedChanges map[string]decimal.Decimal
	s.journalRepo.On("SaveEntry", s.ctx, mock.AnythingOfType("domain.JournalEntry"), mock.Anything).
		Run(func(args mock.Arguments) {
			savedEntry = args.Get(1).(domain.JournalEntry)
			savedChanges = args.Get(2).(map[string]decimal.Decimal)
		}).
		Return(&entry, nil)

	_, err := s.journalSvc.CreateEntry(s.ctx, entry, true, "user-1")

	s.Require().NoError(err)
	s.Equal(domain.Posted, savedEntry.Status)
	s.Equal("2025-26", savedEntry.FinancialYear)
	s.NotEmpty(savedEntry.EntryID)
	s.NotNil(savedEntry.PostedAt)
	// Both a debit to an asset and a credit to income are increases.
	s.True(savedChanges[s.bankAccount.AccountID].Equal(decimal.NewFromInt(100)))
	s.True(savedChanges[s.revenueAccount.AccountID].Equal(decimal.NewFromInt(100)))
}

func (s *JournalServiceTestSuite) TestCreateEntry_DraftSkipsBalanceChanges() {
	entry := domain.JournalEntry{
		CompanyID:  s.company.CompanyID,
		EntryDate:  time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		SourceType: domain.SourceManual,
		SourceID:   "man-2",
		Lines: []domain.JournalEntryLine{
			{AccountID: s.bankAccount.AccountID, Debit: decimal.NewFromInt(50), Credit: decimal.Zero},
			{AccountID: s.revenueAccount.AccountID, Debit: decimal.Zero, Credit: decimal.NewFromInt(50)},
		},
	}

	s.companyRepo.On("FindCompanyByID", s.ctx, s.company.CompanyID).Return(&s.company, nil)
	s.accountRepo.On("FindAccountsByIDs", s.ctx, s.company.CompanyID, mock.Anything).
		Return(s.accountMap(s.bankAccount, s.revenueAccount), nil)

	var savedEntry domain.JournalEntry
	s.journalRepo.On("SaveEntry", s.ctx, mock.AnythingOfType("domain.JournalEntry"), mock.Anything).
		Run(func(args mock.Arguments) {
			savedEntry = args.Get(1).(domain.JournalEntry)
			s.Nil(args.Get(2))
		}).
		Return(&entry, nil)

	_, err := s.journalSvc.CreateEntry(s.ctx, entry, false, "user-1")

	s.Require().NoError(err)
	s.Equal(domain.Draft, savedEntry.Status)
	s.Nil(savedEntry.PostedAt)
}

func (s *JournalServiceTestSuite) TestCreateEntry_UnbalancedRejected() {
	entry := domain.JournalEntry{
		CompanyID:  s.company.CompanyID,
		EntryDate:  time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		SourceType: domain.SourceManual,
		SourceID:   "man-3",
		Lines: []domain.JournalEntryLine{
			{AccountID: s.bankAccount.AccountID, Debit: decimal.NewFromInt(100), Credit: decimal.Zero},
			{AccountID: s.revenueAccount.AccountID, Debit: decimal.Zero, Credit: decimal.NewFromInt(90)},
		},
	}

	_, err := s.journalSvc.CreateEntry(s.ctx, entry, true, "user-1")

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.journalRepo.AssertNotCalled(s.T(), "SaveEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (s *JournalServiceTestSuite) TestCreateEntry_InactiveAccountRejected() {
	inactive := newTestAccount(s.company.CompanyID, "9999", "Closed Account", domain.Asset)
	inactive.IsActive = false

	entry := domain.JournalEntry{
		CompanyID:  s.company.CompanyID,
		EntryDate:  time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		SourceType: domain.SourceManual,
		SourceID:   "man-4",
		Lines: []domain.JournalEntryLine{
			{AccountID: inactive.AccountID, Debit: decimal.NewFromInt(10), Credit: decimal.Zero},
			{AccountID: s.revenueAccount.AccountID, Debit: decimal.Zero, Credit: decimal.NewFromInt(10)},
		},
	}

	s.companyRepo.On("FindCompanyByID", s.ctx, s.company.CompanyID).Return(&s.company, nil)
	s.accountRepo.On("FindAccountsByIDs", s.ctx, s.company.CompanyID, mock.Anything).
		Return(s.accountMap(inactive, s.revenueAccount), nil)

	_, err := s.journalSvc.CreateEntry(s.ctx, entry, true, "user-1")

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *JournalServiceTestSuite) postedEntryFixture() domain.JournalEntry {
	postedAt := time.Date(2025, 5, 2, 10, 0, 0, 0, time.UTC)
	entry := domain.JournalEntry{
		EntryID:       uuid.NewString(),
		CompanyID:     s.company.CompanyID,
		EntryNumber:   7,
		FinancialYear: "2025-26",
		EntryDate:     time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		SourceType:    domain.SourceInvoice,
		SourceID:      "inv-42",
		Description:   "Invoice inv-42",
		Status:        domain.Posted,
		PostedBy:      "user-1",
		PostedAt:      &postedAt,
	}
	entry.Lines = []domain.JournalEntryLine{
		{LineID: uuid.NewString(), EntryID: entry.EntryID, AccountID: s.arAccount.AccountID, Debit: decimal.NewFromInt(118), Credit: decimal.Zero},
		{LineID: uuid.NewString(), EntryID: entry.EntryID, AccountID: s.revenueAccount.AccountID, Debit: decimal.Zero, Credit: decimal.NewFromInt(100)},
		{LineID: uuid.NewString(), EntryID: entry.EntryID, AccountID: s.taxAccount.AccountID, Debit: decimal.Zero, Credit: decimal.NewFromInt(18)},
	}
	return entry
}

func (s *JournalServiceTestSuite) TestReverseEntry_MirrorsLines() {
	original := s.postedEntryFixture()
	header := original
	header.Lines = nil

	s.journalRepo.On("FindEntryByID", s.ctx, s.company.CompanyID, original.EntryID).Return(&header, nil)
	s.journalRepo.On("FindLinesByEntryID", s.ctx, original.EntryID).Return(original.Lines, nil)
	s.companyRepo.On("FindCompanyByID", s.ctx, s.company.CompanyID).Return(&s.company, nil)
	s.accountRepo.On("FindAccountsByIDs", s.ctx, s.company.CompanyID, mock.Anything).
		Return(s.accountMap(s.arAccount, s.revenueAccount, s.taxAccount), nil)

	var reversing domain.JournalEntry
	var changes map[string]decimal.Decimal
	s.journalRepo.On("SaveReversal", s.ctx, mock.AnythingOfType("domain.JournalEntry"), mock.AnythingOfType("domain.JournalEntry"), mock.Anything).
		Run(func(args mock.Arguments) {
			reversing = args.Get(2).(domain.JournalEntry)
			changes = args.Get(3).(map[string]decimal.Decimal)
		}).
		Return(&original, nil)

	reversalDate := time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)
	_, err := s.journalSvc.ReverseEntry(s.ctx, s.company.CompanyID, original.EntryID, reversalDate, "user-2")

	s.Require().NoError(err)
	s.Require().Len(reversing.Lines, 3)
	s.Equal(original.EntryID, *reversing.ReversalOfID)
	s.Equal(domain.Posted, reversing.Status)
	s.Equal(original.EntryID+"-REV", reversing.SourceID)

	// Every line swaps sides against the same account.
	s.True(reversing.Lines[0].Credit.Equal(decimal.NewFromInt(118)))
	s.True(reversing.Lines[1].Debit.Equal(decimal.NewFromInt(100)))
	s.True(reversing.Lines[2].Debit.Equal(decimal.NewFromInt(18)))

	// Reversal deltas are the exact negation of the original posting.
	s.True(changes[s.arAccount.AccountID].Equal(decimal.NewFromInt(-118)))
	s.True(changes[s.revenueAccount.AccountID].Equal(decimal.NewFromInt(-100)))
	s.True(changes[s.taxAccount.AccountID].Equal(decimal.NewFromInt(-18)))
}

func (s *JournalServiceTestSuite) TestReverseEntry_AlreadyReversed() {
	original := s.postedEntryFixture()
	original.Status = domain.Reversed
	header := original
	header.Lines = nil

	s.journalRepo.On("FindEntryByID", s.ctx, s.company.CompanyID, original.EntryID).Return(&header, nil)
	s.journalRepo.On("FindLinesByEntryID", s.ctx, original.EntryID).Return(original.Lines, nil)

	_, err := s.journalSvc.ReverseEntry(s.ctx, s.company.CompanyID, original.EntryID, time.Now(), "user-2")

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrConflict)
	s.journalRepo.AssertNotCalled(s.T(), "SaveReversal", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *JournalServiceTestSuite) TestReverseEntry_DraftRejected() {
	original := s.postedEntryFixture()
	original.Status = domain.Draft
	header := original
	header.Lines = nil

	s.journalRepo.On("FindEntryByID", s.ctx, s.company.CompanyID, original.EntryID).Return(&header, nil)
	s.journalRepo.On("FindLinesByEntryID", s.ctx, original.EntryID).Return(original.Lines, nil)

	_, err := s.journalSvc.ReverseEntry(s.ctx, s.company.CompanyID, original.EntryID, time.Now(), "user-2")

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrConflict)
}

func (s *JournalServiceTestSuite) TestReverseEntry_OfAReversalRejected() {
	original := s.postedEntryFixture()
	upstream := uuid.NewString()
	original.ReversalOfID = &upstream
	header := original
	header.Lines = nil

	s.journalRepo.On("FindEntryByID", s.ctx, s.company.CompanyID, original.EntryID).Return(&header, nil)
	s.journalRepo.On("FindLinesByEntryID", s.ctx, original.EntryID).Return(original.Lines, nil)

	_, err := s.journalSvc.ReverseEntry(s.ctx, s.company.CompanyID, original.EntryID, time.Now(), "user-2")

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrConflict)
}

func (s *JournalServiceTestSuite) TestPostDraft_OnlyDrafts() {
	entry := s.postedEntryFixture()
	header := entry
	header.Lines = nil

	s.journalRepo.On("FindEntryByID", s.ctx, s.company.CompanyID, entry.EntryID).Return(&header, nil)
	s.journalRepo.On("FindLinesByEntryID", s.ctx, entry.EntryID).Return(entry.Lines, nil)

	_, err := s.journalSvc.PostDraft(s.ctx, s.company.CompanyID, entry.EntryID, "user-1")

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrConflict)
}

func (s *JournalServiceTestSuite) TestListEntries_DefaultLimit() {
	s.journalRepo.On("ListEntries", s.ctx, s.company.CompanyID, 20, (*string)(nil), false).
		Return([]domain.JournalEntry{}, nil, nil)

	resp, err := s.journalSvc.ListEntries(s.ctx, s.company.CompanyID, dto.ListEntriesParams{})

	s.Require().NoError(err)
	s.Empty(resp.Entries)
	s.journalRepo.AssertExpectations(s.T())
}

func TestJournalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(JournalServiceTestSuite))
}

func TestJournalService_GetEntryByID_NotFound(t *testing.T) {
	companyRepo := new(MockCompanyRepository)
	accountRepo := new(MockAccountRepository)
	journalRepo := new(MockJournalRepository)

	companySvc := services.NewCompanyService(companyRepo)
	accountSvc := services.NewAccountService(accountRepo, companySvc)
	svc := services.NewJournalService(journalRepo, accountSvc, companySvc)

	ctx := context.Background()
	journalRepo.On("FindEntryByID", ctx, "co-1", "missing").Return(nil, apperrors.ErrNotFound)

	_, err := svc.GetEntryByID(ctx, "co-1", "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
