package services_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/dto"
)

// --- Mock CompanyRepository ---

type MockCompanyRepository struct {
	mock.Mock
}

var _ portsrepo.CompanyRepositoryFacade = (*MockCompanyRepository)(nil)

func (m *MockCompanyRepository) FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Company), args.Error(1)
}

func (m *MockCompanyRepository) SaveCompany(ctx context.Context, company domain.Company) error {
	args := m.Called(ctx, company)
	return args.Error(0)
}

func (m *MockCompanyRepository) UpdateAutoPost(ctx context.Context, companyID string, enabled bool, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, companyID, enabled, updatedBy, updatedAt)
	return args.Error(0)
}

// --- Mock AccountRepository ---

type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, companyID, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, companyID string, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, companyID, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByPurpose(ctx context.Context, companyID string, purpose domain.AccountPurpose) (*domain.Account, error) {
	args := m.Called(ctx, companyID, purpose)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, companyID string) ([]domain.Account, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListControlAccounts(ctx context.Context, companyID string) ([]domain.Account, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

// --- Mock JournalRepository ---

type MockJournalRepository struct {
	mock.Mock
}

var _ portsrepo.JournalRepositoryWithTx = (*MockJournalRepository)(nil)

func (m *MockJournalRepository) FindEntryByID(ctx context.Context, companyID, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) FindEntryBySource(ctx context.Context, companyID string, sourceType domain.SourceType, sourceID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, sourceType, sourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalEntryLine, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntryLine), args.Error(1)
}

func (m *MockJournalRepository) ListEntries(ctx context.Context, companyID string, limit int, nextToken *string, includeDrafts bool) ([]domain.JournalEntry, *string, error) {
	args := m.Called(ctx, companyID, limit, nextToken, includeDrafts)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var token *string
	if args.Get(1) != nil {
		v := args.Get(1).(string)
		token = &v
	}
	return args.Get(0).([]domain.JournalEntry), token, args.Error(2)
}

func (m *MockJournalRepository) ListPostedEntriesForYear(ctx context.Context, companyID, financialYear string) ([]domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, financialYear)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry, balanceChanges map[string]decimal.Decimal) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entry, balanceChanges)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) PostDraftEntry(ctx context.Context, entry domain.JournalEntry, postedBy string, postedAt time.Time, balanceChanges map[string]decimal.Decimal) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entry, postedBy, postedAt, balanceChanges)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) SaveReversal(ctx context.Context, original domain.JournalEntry, reversing domain.JournalEntry, balanceChanges map[string]decimal.Decimal) (*domain.JournalEntry, error) {
	args := m.Called(ctx, original, reversing, balanceChanges)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockJournalRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockJournalRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Mock PeriodBalanceRepository ---

type MockPeriodBalanceRepository struct {
	mock.Mock
}

var _ portsrepo.PeriodBalanceRepositoryFacade = (*MockPeriodBalanceRepository)(nil)

func (m *MockPeriodBalanceRepository) ListPeriodBalances(ctx context.Context, companyID, financialYear string) ([]domain.PeriodBalance, error) {
	args := m.Called(ctx, companyID, financialYear)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PeriodBalance), args.Error(1)
}

func (m *MockPeriodBalanceRepository) FindPeriodBalance(ctx context.Context, companyID, accountID, financialYear string, periodMonth int) (*domain.PeriodBalance, error) {
	args := m.Called(ctx, companyID, accountID, financialYear, periodMonth)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PeriodBalance), args.Error(1)
}

func (m *MockPeriodBalanceRepository) ReplaceForYear(ctx context.Context, companyID, financialYear string, rows []domain.PeriodBalance) error {
	args := m.Called(ctx, companyID, financialYear, rows)
	return args.Error(0)
}

// --- Mock ReportingRepository ---

type MockReportingRepository struct {
	mock.Mock
}

var _ portsrepo.ReportingRepository = (*MockReportingRepository)(nil)

func (m *MockReportingRepository) GetActivityData(ctx context.Context, companyID string, from, to time.Time) ([]domain.TrialBalanceRow, error) {
	args := m.Called(ctx, companyID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TrialBalanceRow), args.Error(1)
}

// --- Mock SubledgerRepository ---

type MockSubledgerRepository struct {
	mock.Mock
}

var _ portsrepo.SubledgerRepository = (*MockSubledgerRepository)(nil)

func (m *MockSubledgerRepository) ListPartyLines(ctx context.Context, companyID string, controlType domain.ControlAccountType, asOf time.Time) ([]portsrepo.SubledgerDocLine, error) {
	args := m.Called(ctx, companyID, controlType, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]portsrepo.SubledgerDocLine), args.Error(1)
}

func (m *MockSubledgerRepository) ListLinesForParty(ctx context.Context, companyID, partyType, partyID string, from, to time.Time) ([]portsrepo.SubledgerDocLine, error) {
	args := m.Called(ctx, companyID, partyType, partyID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]portsrepo.SubledgerDocLine), args.Error(1)
}

func (m *MockSubledgerRepository) GetPartyOpeningBalance(ctx context.Context, companyID, partyType, partyID string, before time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, companyID, partyType, partyID, before)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockSubledgerRepository) GetControlAccountBalance(ctx context.Context, companyID, accountID string, asOf time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, companyID, accountID, asOf)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockSubledgerRepository) ListPartyBalances(ctx context.Context, companyID, accountID string, asOf time.Time) ([]domain.PartyBalance, error) {
	args := m.Called(ctx, companyID, accountID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PartyBalance), args.Error(1)
}

// --- Mock BankRepository ---

type MockBankRepository struct {
	mock.Mock
}

var _ portsrepo.BankRepositoryFacade = (*MockBankRepository)(nil)

func (m *MockBankRepository) FindBankTransactionByID(ctx context.Context, companyID, transactionID string) (*domain.BankTransaction, error) {
	args := m.Called(ctx, companyID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankTransaction), args.Error(1)
}

func (m *MockBankRepository) ListBankTransactions(ctx context.Context, companyID, bankAccountID string, limit int, nextToken *string) ([]domain.BankTransaction, *string, error) {
	args := m.Called(ctx, companyID, bankAccountID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var token *string
	if args.Get(1) != nil {
		v := args.Get(1).(string)
		token = &v
	}
	return args.Get(0).([]domain.BankTransaction), token, args.Error(2)
}

func (m *MockBankRepository) ListUnreconciled(ctx context.Context, companyID, bankAccountID string, asOf time.Time) ([]domain.BankTransaction, error) {
	args := m.Called(ctx, companyID, bankAccountID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BankTransaction), args.Error(1)
}

func (m *MockBankRepository) FindReversalCandidates(ctx context.Context, companyID, bankAccountID string, txnType domain.BankTxnType, amount decimal.Decimal, tolerance decimal.Decimal, from, to time.Time) ([]domain.BankTransaction, error) {
	args := m.Called(ctx, companyID, bankAccountID, txnType, amount, tolerance, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BankTransaction), args.Error(1)
}

func (m *MockBankRepository) GetStatementBalance(ctx context.Context, companyID, bankAccountID string, asOf time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, companyID, bankAccountID, asOf)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockBankRepository) InsertStatementLines(ctx context.Context, txns []domain.BankTransaction) (int, int, error) {
	args := m.Called(ctx, txns)
	return args.Int(0), args.Int(1), args.Error(2)
}

func (m *MockBankRepository) SetReconciliation(ctx context.Context, transactionID string, version int64, recordType domain.ReconciledType, recordID string, at time.Time) error {
	args := m.Called(ctx, transactionID, version, recordType, recordID, at)
	return args.Error(0)
}

func (m *MockBankRepository) ClearReconciliation(ctx context.Context, transactionID string, version int64) error {
	args := m.Called(ctx, transactionID, version)
	return args.Error(0)
}

func (m *MockBankRepository) PairTransactions(ctx context.Context, reversalID string, reversalVersion int64, originalID string, originalVersion int64, at time.Time) error {
	args := m.Called(ctx, reversalID, reversalVersion, originalID, originalVersion, at)
	return args.Error(0)
}

func (m *MockBankRepository) SaveRecord(ctx context.Context, companyID string, record domain.ReconCandidate, tdsSection *string, tdsAmount *decimal.Decimal) error {
	args := m.Called(ctx, companyID, record, tdsSection, tdsAmount)
	return args.Error(0)
}

func (m *MockBankRepository) SearchCandidates(ctx context.Context, filter portsrepo.CandidateFilter) ([]domain.ReconCandidate, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReconCandidate), args.Error(1)
}

func (m *MockBankRepository) FindRecord(ctx context.Context, companyID string, recordType domain.ReconciledType, recordID string) (*domain.ReconCandidate, error) {
	args := m.Called(ctx, companyID, recordType, recordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReconCandidate), args.Error(1)
}

func (m *MockBankRepository) SetRecordReconciled(ctx context.Context, companyID string, recordType domain.ReconciledType, recordID string, reconciled bool) error {
	args := m.Called(ctx, companyID, recordType, recordID, reconciled)
	return args.Error(0)
}

func (m *MockBankRepository) GetTDSSummary(ctx context.Context, companyID string, from, to time.Time) ([]domain.TDSSectionSummary, error) {
	args := m.Called(ctx, companyID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TDSSectionSummary), args.Error(1)
}

func (m *MockBankRepository) GetLedgerBalanceFromLines(ctx context.Context, companyID, bankAccountID string, asOf time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, companyID, bankAccountID, asOf)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockBankRepository) CountUnlinkedEntryLines(ctx context.Context, companyID, bankAccountID string, from *time.Time, asOf time.Time) (int, error) {
	args := m.Called(ctx, companyID, bankAccountID, from, asOf)
	return args.Int(0), args.Error(1)
}

func (m *MockBankRepository) ListUnmatchedEntryLines(ctx context.Context, companyID, bankAccountID string, asOf time.Time) ([]domain.BRSItem, error) {
	args := m.Called(ctx, companyID, bankAccountID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BRSItem), args.Error(1)
}

// --- Mock AutoPostSvc ---

type MockAutoPostSvc struct {
	mock.Mock
}

var _ portssvc.AutoPostSvcFacade = (*MockAutoPostSvc)(nil)

func (m *MockAutoPostSvc) PostEvent(ctx context.Context, companyID string, event domain.PostingEvent, autoPost bool, actorID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, event, autoPost, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockAutoPostSvc) PostInvoice(ctx context.Context, companyID string, req dto.InvoicePostRequest, actorID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockAutoPostSvc) PostPayment(ctx context.Context, companyID string, req dto.PaymentPostRequest, actorID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockAutoPostSvc) PostExpense(ctx context.Context, companyID string, req dto.ExpensePostRequest, actorID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockAutoPostSvc) PostVendorInvoice(ctx context.Context, companyID string, req dto.VendorInvoicePostRequest, actorID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockAutoPostSvc) PostVendorPayment(ctx context.Context, companyID string, req dto.VendorPaymentPostRequest, actorID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockAutoPostSvc) PostPayroll(ctx context.Context, companyID string, req dto.PayrollPostRequest, actorID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockAutoPostSvc) PostLoanPayment(ctx context.Context, companyID string, req dto.LoanPaymentPostRequest, actorID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockAutoPostSvc) PostLoanPrepayment(ctx context.Context, companyID string, req dto.LoanPrepaymentPostRequest, actorID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockAutoPostSvc) PostFromSource(ctx context.Context, companyID string, req dto.GenericPostRequest, actorID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

// --- Mock JournalWriterSvc ---

type MockJournalWriterSvc struct {
	mock.Mock
}

var _ portssvc.JournalWriterSvc = (*MockJournalWriterSvc)(nil)

func (m *MockJournalWriterSvc) CreateEntry(ctx context.Context, entry domain.JournalEntry, post bool, actorID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entry, post, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalWriterSvc) PostDraft(ctx context.Context, companyID, entryID, actorID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, entryID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalWriterSvc) ReverseEntry(ctx context.Context, companyID, entryID string, reversalDate time.Time, actorID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, entryID, reversalDate, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
