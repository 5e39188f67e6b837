package repositories

import (
	"context"
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CandidateFilter narrows the reconciliation candidate search.
type CandidateFilter struct {
	CompanyID         string
	BankAccountID     string
	Type              *domain.BankTxnType // candidate direction relevant for the txn
	AmountMin         *decimal.Decimal
	AmountMax         *decimal.Decimal
	DateFrom          *time.Time
	DateTo            *time.Time
	Text              string // free text over reference/description/party
	RecordTypes       []domain.ReconciledType
	IncludeReconciled bool
}

// BankTransactionReader defines read operations for bank statement lines.
type BankTransactionReader interface {
	// FindBankTransactionByID retrieves one bank transaction.
	FindBankTransactionByID(ctx context.Context, companyID, transactionID string) (*domain.BankTransaction, error)

	// ListBankTransactions retrieves a keyset-paginated list for one bank
	// account, newest first.
	ListBankTransactions(ctx context.Context, companyID, bankAccountID string, limit int, nextToken *string) ([]domain.BankTransaction, *string, error)

	// ListUnreconciled returns unreconciled transactions for a bank account
	// up to asOf, used by the reconciliation statement.
	ListUnreconciled(ctx context.Context, companyID, bankAccountID string, asOf time.Time) ([]domain.BankTransaction, error)

	// FindReversalCandidates returns opposite-type transactions within the
	// amount tolerance and lookback window, for reversal pairing.
	FindReversalCandidates(ctx context.Context, companyID, bankAccountID string, txnType domain.BankTxnType, amount decimal.Decimal, tolerance decimal.Decimal, from, to time.Time) ([]domain.BankTransaction, error)

	// GetStatementBalance nets credits minus debits up to asOf.
	GetStatementBalance(ctx context.Context, companyID, bankAccountID string, asOf time.Time) (decimal.Decimal, error)
}

// BankTransactionWriter defines the reconciliation mutations. Link, unlink and
// pair writes are serialized per transaction via the version token: a stale
// version fails with apperrors.ErrConflict and no change.
type BankTransactionWriter interface {
	// InsertStatementLines inserts imported lines. A line whose content hash
	// is already present for the company is left untouched and counted as
	// conflicted; the rest of the batch still lands.
	InsertStatementLines(ctx context.Context, txns []domain.BankTransaction) (inserted int, conflicted int, err error)

	// SetReconciliation links a transaction to (recordType, recordID).
	SetReconciliation(ctx context.Context, transactionID string, version int64, recordType domain.ReconciledType, recordID string, at time.Time) error

	// ClearReconciliation restores a transaction to Unreconciled.
	ClearReconciliation(ctx context.Context, transactionID string, version int64) error

	// PairTransactions marks a reversal and its original as paired to each
	// other, atomically, flagging the reversal side.
	PairTransactions(ctx context.Context, reversalID string, reversalVersion int64, originalID string, originalVersion int64, at time.Time) error
}

// ReconRecordRepository stores the externally-supplied business records
// (payments, expense claims, payroll disbursements, loan payments, ...) that
// bank transactions reconcile against.
type ReconRecordRepository interface {
	// SaveRecord registers a business record for matching.
	SaveRecord(ctx context.Context, companyID string, record domain.ReconCandidate, tdsSection *string, tdsAmount *decimal.Decimal) error

	// SearchCandidates returns records matching the filter.
	SearchCandidates(ctx context.Context, filter CandidateFilter) ([]domain.ReconCandidate, error)

	// FindRecord retrieves one record.
	FindRecord(ctx context.Context, companyID string, recordType domain.ReconciledType, recordID string) (*domain.ReconCandidate, error)

	// SetRecordReconciled flags a record as reconciled or not.
	SetRecordReconciled(ctx context.Context, companyID string, recordType domain.ReconciledType, recordID string, reconciled bool) error

	// GetTDSSummary aggregates TDS amounts by section over a period.
	GetTDSSummary(ctx context.Context, companyID string, from, to time.Time) ([]domain.TDSSectionSummary, error)
}

// BankLedgerReader exposes the journal-side aggregates the enhanced statement
// needs, independent of the bank transaction table.
type BankLedgerReader interface {
	// GetLedgerBalanceFromLines nets posted journal lines touching the bank
	// account up to asOf (debits minus credits).
	GetLedgerBalanceFromLines(ctx context.Context, companyID, bankAccountID string, asOf time.Time) (decimal.Decimal, error)

	// CountUnlinkedEntryLines counts posted lines on the bank account within
	// [from, asOf] that no bank transaction links to.
	CountUnlinkedEntryLines(ctx context.Context, companyID, bankAccountID string, from *time.Time, asOf time.Time) (int, error)

	// ListUnmatchedEntryLines returns those same lines for itemization.
	// Amounts are signed: debits to the bank account positive, credits
	// negative.
	ListUnmatchedEntryLines(ctx context.Context, companyID, bankAccountID string, asOf time.Time) ([]domain.BRSItem, error)
}

// BankRepositoryFacade combines all reconciliation repository interfaces.
type BankRepositoryFacade interface {
	BankTransactionReader
	BankTransactionWriter
	ReconRecordRepository
	BankLedgerReader
}
