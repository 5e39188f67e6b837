package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankTxnType is the direction of a bank statement line from the bank's view.
type BankTxnType string

const (
	BankCredit BankTxnType = "CREDIT" // money into the bank account
	BankDebit  BankTxnType = "DEBIT"  // money out of the bank account
)

// ReconciledType names the internal record kind a bank transaction is linked to.
type ReconciledType string

const (
	ReconPayment    ReconciledType = "payment"
	ReconExpense    ReconciledType = "expense"
	ReconPayroll    ReconciledType = "payroll"
	ReconTaxPayment ReconciledType = "tax_payment"
	ReconTransfer   ReconciledType = "transfer"
	ReconContractor ReconciledType = "contractor"
	ReconJournal    ReconciledType = "journal"
)

// EntrySource maps a record kind to the source type its auto-posted journal
// entry carries, so the entry behind a record-linked bank transaction can be
// resolved through the posting idempotency key. Record kinds with no posting
// path report false.
func (t ReconciledType) EntrySource() (SourceType, bool) {
	switch t {
	case ReconPayment:
		return SourcePayment, true
	case ReconExpense:
		return SourceExpense, true
	case ReconPayroll:
		return SourcePayroll, true
	case ReconContractor:
		return SourceVendorPayment, true
	}
	return "", false
}

// DifferenceType classifies a small amount difference absorbed while linking a
// bank transaction to a journal line. Each classification produces a balancing
// adjustment entry so the ledger stays balanced.
type DifferenceType string

const (
	DiffBankInterest DifferenceType = "bank_interest"
	DiffBankCharges  DifferenceType = "bank_charges"
	DiffTDSDeducted  DifferenceType = "tds_deducted"
	DiffRoundOff     DifferenceType = "round_off"
	DiffForexGain    DifferenceType = "forex_gain"
	DiffForexLoss    DifferenceType = "forex_loss"
	DiffOtherIncome  DifferenceType = "other_income"
	DiffOtherExpense DifferenceType = "other_expense"
)

// BankTransaction is one imported or manually captured bank statement line.
// It is mutated only by reconciliation, unreconciliation and pairing.
type BankTransaction struct {
	TransactionID   string          `json:"transactionID"`
	CompanyID       string          `json:"companyID"`
	BankAccountID   string          `json:"bankAccountID"` // ledger account of the bank
	Date            time.Time       `json:"date"`
	Type            BankTxnType     `json:"type"`
	Amount          decimal.Decimal `json:"amount"`
	ReferenceNumber string          `json:"referenceNumber"`
	Description     string          `json:"description"`

	ReconciledType *ReconciledType `json:"reconciledType,omitempty"`
	ReconciledID   *string         `json:"reconciledID,omitempty"`
	ReconciledAt   *time.Time      `json:"reconciledAt,omitempty"`

	IsReversal          bool    `json:"isReversal"`
	PairedTransactionID *string `json:"pairedTransactionID,omitempty"`

	ImportBatchID *string `json:"importBatchID,omitempty"`
	ContentHash   string  `json:"contentHash,omitempty"` // dedup key for imports
	Version       int64   `json:"version"`               // optimistic concurrency token
	AuditFields
}

// IsReconciled reports whether the transaction is linked to an internal record.
func (t BankTransaction) IsReconciled() bool {
	return t.ReconciledType != nil && t.ReconciledID != nil
}

// IsPaired reports whether the transaction is half of a reversal pair.
func (t BankTransaction) IsPaired() bool {
	return t.PairedTransactionID != nil
}

// ReconCandidate is an unreconciled internal record eligible for matching.
type ReconCandidate struct {
	RecordType      ReconciledType  `json:"recordType"`
	RecordID        string          `json:"recordID"`
	Date            time.Time       `json:"date"`
	Amount          decimal.Decimal `json:"amount"`
	ReferenceNumber string          `json:"referenceNumber"`
	Description     string          `json:"description"`
	PartyName       string          `json:"partyName,omitempty"`
	Reconciled      bool            `json:"reconciled"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// ReconciliationSuggestion is a scored candidate produced at query time.
// It is a projection and is never persisted.
type ReconciliationSuggestion struct {
	Candidate   ReconCandidate  `json:"candidate"`
	Score       decimal.Decimal `json:"score"` // 0-100
	AmountScore decimal.Decimal `json:"amountScore"`
	DateScore   decimal.Decimal `json:"dateScore"`
	TextScore   decimal.Decimal `json:"textScore"`
}

// ReversalOriginalSuggestion is a scored candidate original for a likely
// reversal transaction. It is a projection and is never persisted.
type ReversalOriginalSuggestion struct {
	Original    BankTransaction `json:"original"`
	Score       decimal.Decimal `json:"score"` // 0-100
	AmountScore decimal.Decimal `json:"amountScore"`
	DateScore   decimal.Decimal `json:"dateScore"`
	TextScore   decimal.Decimal `json:"textScore"`
}

// ReversalDetection is the result of inspecting a transaction's description
// for reversal markers.
type ReversalDetection struct {
	TransactionID string `json:"transactionID"`
	IsLikely      bool   `json:"isLikely"`
	Confidence    int    `json:"confidence"` // 0-100
	MatchedMarker string `json:"matchedMarker,omitempty"`
	OriginalRef   string `json:"originalRef,omitempty"` // reference extracted from the description
}

// StatementImportResult summarises one bank statement import batch.
type StatementImportResult struct {
	BatchID  string `json:"batchID"`
	Imported int    `json:"imported"`
	Skipped  int    `json:"skipped"` // dedup hits
	Failed   int    `json:"failed"`
}

// BRSItem is one outstanding item explaining part of a bank/ledger difference.
type BRSItem struct {
	TransactionID string          `json:"transactionID,omitempty"`
	EntryID       string          `json:"entryID,omitempty"`
	Date          time.Time       `json:"date"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
}

// BankReconciliationStatement reconciles the bank statement closing balance
// against the ledger balance for a bank account as of a date.
type BankReconciliationStatement struct {
	CompanyID              string          `json:"companyID"`
	BankAccountID          string          `json:"bankAccountID"`
	AsOf                   time.Time       `json:"asOf"`
	StatementBalance       decimal.Decimal `json:"statementBalance"`
	LedgerBalance          decimal.Decimal `json:"ledgerBalance"`
	OutstandingDeposits    []BRSItem       `json:"outstandingDeposits"`
	OutstandingWithdrawals []BRSItem       `json:"outstandingWithdrawals"`
	UnrecordedBankCredits  []BRSItem       `json:"unrecordedBankCredits"`
	UnrecordedBankDebits   []BRSItem       `json:"unrecordedBankDebits"`
	AdjustedBalance        decimal.Decimal `json:"adjustedBalance"`
	Difference             decimal.Decimal `json:"difference"`
	InAgreement            bool            `json:"inAgreement"`
}

// TDSSectionSummary aggregates tax deducted at source by statutory section.
type TDSSectionSummary struct {
	Section string          `json:"section"`
	Count   int             `json:"count"`
	Amount  decimal.Decimal `json:"amount"`
}

// EnhancedBRS extends the statement with a ledger balance computed strictly
// from posted journal lines, a TDS summary for the period, and a count of
// journal lines on the bank account with no linked bank transaction.
type EnhancedBRS struct {
	BankReconciliationStatement
	PeriodStart         *time.Time          `json:"periodStart,omitempty"`
	LedgerBalanceFromJE decimal.Decimal     `json:"ledgerBalanceFromJE"`
	TDSSummary          []TDSSectionSummary `json:"tdsSummary"`
	UnlinkedEntryLines  int                 `json:"unlinkedEntryLines"`
}
