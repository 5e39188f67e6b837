package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/core/services"
	"github.com/finbooks/finbooks_backend/internal/dto"
)

type AutoPostServiceTestSuite struct {
	suite.Suite
	companyRepo *MockCompanyRepository
	accountRepo *MockAccountRepository
	journalRepo *MockJournalRepository
	autoPostSvc portssvc.AutoPostSvcFacade

	ctx     context.Context
	company domain.Company

	purposeAccounts map[domain.AccountPurpose]domain.Account
}

func (s *AutoPostServiceTestSuite) SetupTest() {
	s.companyRepo = new(MockCompanyRepository)
	s.accountRepo = new(MockAccountRepository)
	s.journalRepo = new(MockJournalRepository)

	companySvc := services.NewCompanyService(s.companyRepo)
	accountSvc := services.NewAccountService(s.accountRepo, companySvc)
	journalSvc := services.NewJournalService(s.journalRepo, accountSvc, companySvc)
	s.autoPostSvc = services.NewAutoPostService(journalSvc, s.journalRepo, accountSvc, companySvc)

	s.ctx = context.Background()
	s.company = domain.Company{
		CompanyID:       uuid.NewString(),
		Name:            "Acme Traders",
		HomeCurrency:    "INR",
		FYStartMonth:    4,
		AutoPostEnabled: true,
	}

	s.purposeAccounts = map[domain.AccountPurpose]domain.Account{
		domain.PurposeReceivable:      newTestAccount(s.company.CompanyID, "1200", "Trade Receivables", domain.Asset),
		domain.PurposePayable:         newTestAccount(s.company.CompanyID, "2100", "Trade Payables", domain.Liability),
		domain.PurposeRevenue:         newTestAccount(s.company.CompanyID, "4000", "Sales Revenue", domain.Income),
		domain.PurposeTaxPayable:      newTestAccount(s.company.CompanyID, "2300", "GST Payable", domain.Liability),
		domain.PurposeTDSPayable:      newTestAccount(s.company.CompanyID, "2400", "TDS Payable", domain.Liability),
		domain.PurposeBank:            newTestAccount(s.company.CompanyID, "1100", "Bank", domain.Asset),
		domain.PurposeExpense:         newTestAccount(s.company.CompanyID, "5000", "General Expenses", domain.Expense),
		domain.PurposePayrollExpense:  newTestAccount(s.company.CompanyID, "5100", "Salaries", domain.Expense),
		domain.PurposeInterestExpense: newTestAccount(s.company.CompanyID, "5200", "Interest Expense", domain.Expense),
		domain.PurposeLoanLiability:   newTestAccount(s.company.CompanyID, "2500", "Term Loan", domain.Liability),
	}
}

// stubHappyPath wires the mocks every successful posting needs.
func (s *AutoPostServiceTestSuite) stubHappyPath(sourceType domain.SourceType, sourceID string) **domain.JournalEntry {
	s.journalRepo.On("FindEntryBySource", s.ctx, s.company.CompanyID, sourceType, sourceID).
		Return(nil, apperrors.ErrNotFound)
	s.companyRepo.On("FindCompanyByID", s.ctx, s.company.CompanyID).Return(&s.company, nil)

	accountsByID := make(map[string]domain.Account, len(s.purposeAccounts))
	for purpose, account := range s.purposeAccounts {
		account := account
		accountsByID[account.AccountID] = account
		s.accountRepo.On("FindAccountByPurpose", s.ctx, s.company.CompanyID, purpose).Return(&account, nil)
	}
	s.accountRepo.On("FindAccountsByIDs", s.ctx, s.company.CompanyID, mock.Anything).Return(accountsByID, nil)

	saved := new(*domain.JournalEntry)
	s.journalRepo.On("SaveEntry", s.ctx, mock.AnythingOfType("domain.JournalEntry"), mock.Anything).
		Run(func(args mock.Arguments) {
			entry := args.Get(1).(domain.JournalEntry)
			*saved = &entry
		}).
		Return(&domain.JournalEntry{}, nil)
	return saved
}

func (s *AutoPostServiceTestSuite) lineFor(entry *domain.JournalEntry, purpose domain.AccountPurpose) *domain.JournalEntryLine {
	accountID := s.purposeAccounts[purpose].AccountID
	for i := range entry.Lines {
		if entry.Lines[i].AccountID == accountID {
			return &entry.Lines[i]
		}
	}
	return nil
}

func (s *AutoPostServiceTestSuite) TestPostInvoice_SplitsGrossIntoComponents() {
	saved := s.stubHappyPath(domain.SourceInvoice, "inv-100")

	due := time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)
	tax := decimal.NewFromInt(1800)
	req := dto.InvoicePostRequest{
		PostingOptions: dto.PostingOptions{
			SourceID: "inv-100",
			Date:     time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
			AutoPost: true,
		},
		PartyID:   "cust-7",
		NetAmount: decimal.NewFromInt(10000),
		TaxAmount: &tax,
		DueDate:   &due,
	}

	_, err := s.autoPostSvc.PostInvoice(s.ctx, s.company.CompanyID, req, "user-1")
	s.Require().NoError(err)

	entry := *saved
	s.Require().NotNil(entry)
	s.Equal(domain.Posted, entry.Status)
	s.Equal(domain.SourceInvoice, entry.SourceType)
	s.Require().NotNil(entry.DueDate)
	s.True(entry.DueDate.Equal(due))
	s.Require().Len(entry.Lines, 3)

	ar := s.lineFor(entry, domain.PurposeReceivable)
	s.Require().NotNil(ar)
	s.True(ar.Debit.Equal(decimal.NewFromInt(11800)))
	s.Require().NotNil(ar.PartyID)
	s.Equal("cust-7", *ar.PartyID)
	s.Equal(services.PartyCustomer, *ar.PartyType)

	revenue := s.lineFor(entry, domain.PurposeRevenue)
	s.Require().NotNil(revenue)
	s.True(revenue.Credit.Equal(decimal.NewFromInt(10000)))

	gst := s.lineFor(entry, domain.PurposeTaxPayable)
	s.Require().NotNil(gst)
	s.True(gst.Credit.Equal(decimal.NewFromInt(1800)))

	s.True(entry.TotalDebits().Equal(decimal.NewFromInt(11800)))
}

func (s *AutoPostServiceTestSuite) TestPostInvoice_RepostReturnsExistingEntry() {
	existing := domain.JournalEntry{
		EntryID:    uuid.NewString(),
		CompanyID:  s.company.CompanyID,
		SourceType: domain.SourceInvoice,
		SourceID:   "inv-100",
		Status:     domain.Posted,
	}
	s.journalRepo.On("FindEntryBySource", s.ctx, s.company.CompanyID, domain.SourceInvoice, "inv-100").
		Return(&existing, nil)
	s.journalRepo.On("FindLinesByEntryID", s.ctx, existing.EntryID).
		Return([]domain.JournalEntryLine{}, nil)

	req := dto.InvoicePostRequest{
		PostingOptions: dto.PostingOptions{SourceID: "inv-100", Date: time.Now(), AutoPost: true},
		PartyID:        "cust-7",
		NetAmount:      decimal.NewFromInt(10000),
	}

	got, err := s.autoPostSvc.PostInvoice(s.ctx, s.company.CompanyID, req, "user-1")

	s.Require().NoError(err)
	s.Equal(existing.EntryID, got.EntryID)
	s.journalRepo.AssertNotCalled(s.T(), "SaveEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (s *AutoPostServiceTestSuite) TestPostPayment_DraftWhenCompanyDisablesAutoPost() {
	s.company.AutoPostEnabled = false
	saved := s.stubHappyPath(domain.SourcePayment, "pay-1")

	req := dto.PaymentPostRequest{
		PostingOptions: dto.PostingOptions{SourceID: "pay-1", Date: time.Now(), AutoPost: true},
		PartyID:        "cust-7",
		Amount:         decimal.NewFromInt(5000),
	}

	_, err := s.autoPostSvc.PostPayment(s.ctx, s.company.CompanyID, req, "user-1")

	s.Require().NoError(err)
	entry := *saved
	s.Require().NotNil(entry)
	s.Equal(domain.Draft, entry.Status)
}

func (s *AutoPostServiceTestSuite) TestPostVendorPayment_WithholdsTDS() {
	saved := s.stubHappyPath(domain.SourceVendorPayment, "vp-9")

	tds := decimal.NewFromInt(1000)
	req := dto.VendorPaymentPostRequest{
		PostingOptions: dto.PostingOptions{SourceID: "vp-9", Date: time.Now(), AutoPost: true},
		PartyID:        "vend-3",
		Amount:         decimal.NewFromInt(10000),
		TDSAmount:      &tds,
	}

	_, err := s.autoPostSvc.PostVendorPayment(s.ctx, s.company.CompanyID, req, "user-1")
	s.Require().NoError(err)

	entry := *saved
	s.Require().NotNil(entry)
	s.Require().Len(entry.Lines, 3)

	payable := s.lineFor(entry, domain.PurposePayable)
	s.True(payable.Debit.Equal(decimal.NewFromInt(10000)))
	s.Equal("vend-3", *payable.PartyID)

	tdsLine := s.lineFor(entry, domain.PurposeTDSPayable)
	s.True(tdsLine.Credit.Equal(decimal.NewFromInt(1000)))

	bank := s.lineFor(entry, domain.PurposeBank)
	s.True(bank.Credit.Equal(decimal.NewFromInt(9000)))
}

func (s *AutoPostServiceTestSuite) TestPostPayroll_TDSMustBeBelowGross() {
	s.journalRepo.On("FindEntryBySource", s.ctx, s.company.CompanyID, domain.SourcePayroll, "pr-1").
		Return(nil, apperrors.ErrNotFound)
	s.companyRepo.On("FindCompanyByID", s.ctx, s.company.CompanyID).Return(&s.company, nil)

	tds := decimal.NewFromInt(60000)
	req := dto.PayrollPostRequest{
		PostingOptions: dto.PostingOptions{SourceID: "pr-1", Date: time.Now(), AutoPost: true},
		GrossAmount:    decimal.NewFromInt(50000),
		TDSAmount:      &tds,
	}

	_, err := s.autoPostSvc.PostPayroll(s.ctx, s.company.CompanyID, req, "user-1")

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *AutoPostServiceTestSuite) TestPostLoanPayment_SplitsPrincipalAndInterest() {
	saved := s.stubHappyPath(domain.SourceLoanPayment, "emi-3")

	req := dto.LoanPaymentPostRequest{
		PostingOptions:  dto.PostingOptions{SourceID: "emi-3", Date: time.Now(), AutoPost: true},
		PrincipalAmount: decimal.NewFromInt(8000),
		InterestAmount:  decimal.NewFromInt(2000),
	}

	_, err := s.autoPostSvc.PostLoanPayment(s.ctx, s.company.CompanyID, req, "user-1")
	s.Require().NoError(err)

	entry := *saved
	s.Require().NotNil(entry)
	s.Require().Len(entry.Lines, 3)
	s.True(s.lineFor(entry, domain.PurposeInterestExpense).Debit.Equal(decimal.NewFromInt(2000)))
	s.True(s.lineFor(entry, domain.PurposeLoanLiability).Debit.Equal(decimal.NewFromInt(8000)))
	s.True(s.lineFor(entry, domain.PurposeBank).Credit.Equal(decimal.NewFromInt(10000)))
}

func (s *AutoPostServiceTestSuite) TestPostEvent_UnknownSourceType() {
	event := domain.PostingEvent{
		SourceType: domain.SourceType("SOMETHING_ELSE"),
		SourceID:   "x-1",
		Date:       time.Now(),
	}
	s.journalRepo.On("FindEntryBySource", s.ctx, s.company.CompanyID, event.SourceType, "x-1").
		Return(nil, apperrors.ErrNotFound)
	s.companyRepo.On("FindCompanyByID", s.ctx, s.company.CompanyID).Return(&s.company, nil)

	_, err := s.autoPostSvc.PostEvent(s.ctx, s.company.CompanyID, event, true, "user-1")

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
}

// Every source type the engine accepts must have a line builder registered.
func (s *AutoPostServiceTestSuite) TestEverySourceTypeHasABuilder() {
	type builderLister interface {
		Builders() []domain.SourceType
	}
	lister, ok := s.autoPostSvc.(builderLister)
	s.Require().True(ok)

	registered := make(map[domain.SourceType]bool)
	for _, kind := range lister.Builders() {
		registered[kind] = true
	}
	for _, kind := range domain.AllSourceTypes {
		s.Truef(registered[kind], "source type %s has no line builder", kind)
	}
	s.Len(registered, len(domain.AllSourceTypes))
}

func TestAutoPostServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AutoPostServiceTestSuite))
}
