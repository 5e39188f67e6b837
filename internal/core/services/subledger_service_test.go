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
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/core/services"
)

type SubledgerServiceTestSuite struct {
	suite.Suite
	companyRepo   *MockCompanyRepository
	accountRepo   *MockAccountRepository
	subledgerRepo *MockSubledgerRepository
	subledgerSvc  portssvc.SubledgerSvcFacade

	ctx     context.Context
	company domain.Company
	asOf    time.Time
}

func (s *SubledgerServiceTestSuite) SetupTest() {
	s.companyRepo = new(MockCompanyRepository)
	s.accountRepo = new(MockAccountRepository)
	s.subledgerRepo = new(MockSubledgerRepository)

	companySvc := services.NewCompanyService(s.companyRepo)
	s.subledgerSvc = services.NewSubledgerService(s.subledgerRepo, s.accountRepo, companySvc)

	s.ctx = context.Background()
	s.company = domain.Company{CompanyID: uuid.NewString(), FYStartMonth: 4, HomeCurrency: "INR"}
	s.asOf = time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC)

	s.companyRepo.On("FindCompanyByID", s.ctx, s.company.CompanyID).Return(&s.company, nil)
}

func (s *SubledgerServiceTestSuite) daysAgo(days int) time.Time {
	return s.asOf.AddDate(0, 0, -days)
}

func (s *SubledgerServiceTestSuite) TestAgingReport_SettlesFIFO() {
	due1 := s.daysAgo(100)
	due2 := s.daysAgo(20)
	lines := []portsrepo.SubledgerDocLine{
		{
			EntryDate: s.daysAgo(130), DueDate: &due1, SourceType: domain.SourceInvoice, SourceID: "inv-1",
			PartyType: services.PartyCustomer, PartyID: "cust-1", PartyName: "Globex",
			Debit: decimal.NewFromInt(1000), Credit: decimal.Zero,
		},
		{
			EntryDate: s.daysAgo(50), DueDate: &due2, SourceType: domain.SourceInvoice, SourceID: "inv-2",
			PartyType: services.PartyCustomer, PartyID: "cust-1", PartyName: "Globex",
			Debit: decimal.NewFromInt(500), Credit: decimal.Zero,
		},
		{
			EntryDate: s.daysAgo(40), SourceType: domain.SourcePayment, SourceID: "pay-1",
			PartyType: services.PartyCustomer, PartyID: "cust-1", PartyName: "Globex",
			Debit: decimal.Zero, Credit: decimal.NewFromInt(800),
		},
	}
	s.subledgerRepo.On("ListPartyLines", s.ctx, s.company.CompanyID, domain.ControlAR, s.asOf).
		Return(lines, nil)

	report, err := s.subledgerSvc.AgingReport(s.ctx, s.company.CompanyID, domain.ControlAR, s.asOf, nil)

	s.Require().NoError(err)
	s.Equal(services.PartyCustomer, report.PartyType)
	s.Require().Len(report.Parties, 1)

	party := report.Parties[0]
	s.Equal("cust-1", party.PartyID)
	s.True(party.Total.Equal(decimal.NewFromInt(700)))

	// The 800 payment settles the oldest invoice first, leaving 200 of the
	// overdue invoice (90+) and the full 500 of the recent one (0-30).
	s.Require().Len(party.Buckets, 4)
	s.Equal("0-30", party.Buckets[0].Label)
	s.True(party.Buckets[0].Amount.Equal(decimal.NewFromInt(500)))
	s.True(party.Buckets[1].Amount.IsZero())
	s.True(party.Buckets[2].Amount.IsZero())
	s.Equal("90+", party.Buckets[3].Label)
	s.True(party.Buckets[3].Amount.Equal(decimal.NewFromInt(200)))

	s.True(report.Totals[0].Amount.Equal(decimal.NewFromInt(500)))
	s.True(report.Totals[3].Amount.Equal(decimal.NewFromInt(200)))
}

func (s *SubledgerServiceTestSuite) TestAgingReport_CustomBoundaries() {
	due := s.daysAgo(20)
	lines := []portsrepo.SubledgerDocLine{
		{
			EntryDate: s.daysAgo(30), DueDate: &due, SourceType: domain.SourceInvoice, SourceID: "inv-7",
			PartyType: services.PartyCustomer, PartyID: "cust-7", PartyName: "Hooli",
			Debit: decimal.NewFromInt(400), Credit: decimal.Zero,
		},
	}
	s.subledgerRepo.On("ListPartyLines", s.ctx, s.company.CompanyID, domain.ControlAR, s.asOf).
		Return(lines, nil)

	report, err := s.subledgerSvc.AgingReport(s.ctx, s.company.CompanyID, domain.ControlAR, s.asOf, []int{15, 45})

	s.Require().NoError(err)
	s.Require().Len(report.Totals, 3)
	s.Equal("0-15", report.Totals[0].Label)
	s.Equal("16-45", report.Totals[1].Label)
	s.Equal("45+", report.Totals[2].Label)
	// 20 days past due lands in the middle band under the custom cut-offs.
	s.Require().Len(report.Parties, 1)
	s.True(report.Parties[0].Buckets[1].Amount.Equal(decimal.NewFromInt(400)))
}

func (s *SubledgerServiceTestSuite) TestAgingReport_BadBoundariesRejected() {
	_, err := s.subledgerSvc.AgingReport(s.ctx, s.company.CompanyID, domain.ControlAR, s.asOf, []int{60, 30})

	s.Require().ErrorIs(err, apperrors.ErrValidation)
	s.subledgerRepo.AssertNotCalled(s.T(), "ListPartyLines", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *SubledgerServiceTestSuite) TestAgingReport_FullySettledPartyOmitted() {
	due := s.daysAgo(10)
	lines := []portsrepo.SubledgerDocLine{
		{
			EntryDate: s.daysAgo(30), DueDate: &due, SourceType: domain.SourceInvoice, SourceID: "inv-9",
			PartyType: services.PartyCustomer, PartyID: "cust-2", PartyName: "Initech",
			Debit: decimal.NewFromInt(250), Credit: decimal.Zero,
		},
		{
			EntryDate: s.daysAgo(5), SourceType: domain.SourcePayment, SourceID: "pay-9",
			PartyType: services.PartyCustomer, PartyID: "cust-2", PartyName: "Initech",
			Debit: decimal.Zero, Credit: decimal.NewFromInt(250),
		},
	}
	s.subledgerRepo.On("ListPartyLines", s.ctx, s.company.CompanyID, domain.ControlAR, s.asOf).
		Return(lines, nil)

	report, err := s.subledgerSvc.AgingReport(s.ctx, s.company.CompanyID, domain.ControlAR, s.asOf, nil)

	s.Require().NoError(err)
	s.Empty(report.Parties)
}

func (s *SubledgerServiceTestSuite) TestAgingReport_PayablesFlipSides() {
	due := s.daysAgo(45)
	lines := []portsrepo.SubledgerDocLine{
		{
			EntryDate: s.daysAgo(60), DueDate: &due, SourceType: domain.SourceVendorInvoice, SourceID: "bill-1",
			PartyType: services.PartyVendor, PartyID: "vend-1", PartyName: "Stationery Mart",
			Debit: decimal.Zero, Credit: decimal.NewFromInt(900),
		},
	}
	s.subledgerRepo.On("ListPartyLines", s.ctx, s.company.CompanyID, domain.ControlAP, s.asOf).
		Return(lines, nil)

	report, err := s.subledgerSvc.AgingReport(s.ctx, s.company.CompanyID, domain.ControlAP, s.asOf, nil)

	s.Require().NoError(err)
	s.Equal(services.PartyVendor, report.PartyType)
	s.Require().Len(report.Parties, 1)
	// 45 days past due lands in the 31-60 bucket.
	s.True(report.Parties[0].Buckets[1].Amount.Equal(decimal.NewFromInt(900)))
}

func (s *SubledgerServiceTestSuite) TestPartyLedger_RunningBalance() {
	from := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	lines := []portsrepo.SubledgerDocLine{
		{
			EntryID: "e1", EntryNumber: 1, EntryDate: from.AddDate(0, 0, 3),
			SourceType: domain.SourceInvoice, Description: "Invoice inv-1",
			Debit: decimal.NewFromInt(50), Credit: decimal.Zero,
		},
		{
			EntryID: "e2", EntryNumber: 2, EntryDate: from.AddDate(0, 0, 9),
			SourceType: domain.SourcePayment, Description: "Payment pay-1",
			Debit: decimal.Zero, Credit: decimal.NewFromInt(30),
		},
	}
	s.subledgerRepo.On("GetPartyOpeningBalance", s.ctx, s.company.CompanyID, services.PartyCustomer, "cust-1", from).
		Return(decimal.NewFromInt(100), nil)
	s.subledgerRepo.On("ListLinesForParty", s.ctx, s.company.CompanyID, services.PartyCustomer, "cust-1", from, s.asOf).
		Return(lines, nil)

	ledger, err := s.subledgerSvc.PartyLedger(s.ctx, s.company.CompanyID, services.PartyCustomer, "cust-1", from, s.asOf)

	s.Require().NoError(err)
	s.True(ledger.OpeningBalance.Equal(decimal.NewFromInt(100)))
	s.Require().Len(ledger.Lines, 2)
	s.True(ledger.Lines[0].RunningBalance.Equal(decimal.NewFromInt(150)))
	s.True(ledger.Lines[1].RunningBalance.Equal(decimal.NewFromInt(120)))
	s.True(ledger.ClosingBalance.Equal(decimal.NewFromInt(120)))
}

func (s *SubledgerServiceTestSuite) TestReconcileControl_ReportsDivergence() {
	control := newTestAccount(s.company.CompanyID, "1200", "Trade Receivables", domain.Asset)
	control.IsControlAccount = true
	control.ControlAccountType = domain.ControlAR

	s.accountRepo.On("ListControlAccounts", s.ctx, s.company.CompanyID).
		Return([]domain.Account{control}, nil)
	s.subledgerRepo.On("GetControlAccountBalance", s.ctx, s.company.CompanyID, control.AccountID, s.asOf).
		Return(decimal.NewFromInt(1000), nil)
	s.subledgerRepo.On("ListPartyBalances", s.ctx, s.company.CompanyID, control.AccountID, s.asOf).
		Return([]domain.PartyBalance{
			{PartyType: services.PartyCustomer, PartyID: "cust-1", Balance: decimal.NewFromInt(700)},
			{PartyType: services.PartyCustomer, PartyID: "cust-2", Balance: decimal.NewFromInt(200)},
		}, nil)

	result, err := s.subledgerSvc.ReconcileControl(s.ctx, s.company.CompanyID, domain.ControlAR, s.asOf)

	s.Require().NoError(err)
	s.False(result.InAgreement)
	s.True(result.Difference.Equal(decimal.NewFromInt(100)))
	s.Len(result.Parties, 2)
}

func TestSubledgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SubledgerServiceTestSuite))
}
