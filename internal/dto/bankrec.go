package dto

import (
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// StatementLine is one raw bank statement line supplied by an importer.
type StatementLine struct {
	Date            time.Time       `json:"date" binding:"required"`
	Type            string          `json:"type" binding:"required,oneof=CREDIT DEBIT"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	ReferenceNumber string          `json:"referenceNumber,omitempty"`
	Description     string          `json:"description,omitempty"`
}

// ImportStatementRequest imports a batch of statement lines for one bank
// account, optionally skipping lines already imported (by content hash).
type ImportStatementRequest struct {
	BankAccountID string          `json:"bankAccountID" binding:"required"`
	Dedup         bool            `json:"dedup"`
	Lines         []StatementLine `json:"lines" binding:"required,min=1,dive"`
}

// CandidateSearchRequest filters the reconciliation candidate search.
type CandidateSearchRequest struct {
	BankAccountID     string           `form:"bankAccountID"`
	Type              string           `form:"type" binding:"omitempty,oneof=CREDIT DEBIT"`
	AmountMin         *decimal.Decimal `form:"amountMin"`
	AmountMax         *decimal.Decimal `form:"amountMax"`
	DateFrom          *time.Time       `form:"dateFrom" time_format:"2006-01-02"`
	DateTo            *time.Time       `form:"dateTo" time_format:"2006-01-02"`
	Text              string           `form:"text"`
	RecordTypes       []string         `form:"recordTypes"`
	IncludeReconciled bool             `form:"includeReconciled"`
}

// LinkRecordRequest links a bank transaction to a business record.
type LinkRecordRequest struct {
	RecordType string `json:"recordType" binding:"required"`
	RecordID   string `json:"recordID" binding:"required"`
}

// LinkJournalRequest links a bank transaction directly to a journal entry,
// optionally classifying a small difference which is posted as a balancing
// adjustment entry.
type LinkJournalRequest struct {
	EntryID          string           `json:"entryID" binding:"required"`
	DifferenceAmount *decimal.Decimal `json:"differenceAmount,omitempty"`
	DifferenceType   string           `json:"differenceType,omitempty" binding:"omitempty,oneof=bank_interest bank_charges tds_deducted round_off forex_gain forex_loss other_income other_expense"`
}

// PairReversalRequest pairs a reversal transaction with its original.
type PairReversalRequest struct {
	OriginalTransactionID string `json:"originalTransactionID" binding:"required"`
}

// RegisterRecordRequest registers an externally-produced business record
// (payment, expense claim, payroll disbursement, ...) for matching.
type RegisterRecordRequest struct {
	RecordType      string           `json:"recordType" binding:"required"`
	RecordID        string           `json:"recordID" binding:"required"`
	Date            time.Time        `json:"date" binding:"required"`
	Amount          decimal.Decimal  `json:"amount" binding:"required"`
	ReferenceNumber string           `json:"referenceNumber,omitempty"`
	Description     string           `json:"description,omitempty"`
	PartyName       string           `json:"partyName,omitempty"`
	TDSSection      *string          `json:"tdsSection,omitempty"`
	TDSAmount       *decimal.Decimal `json:"tdsAmount,omitempty"`
}

// BankTransactionResponse defines the data returned for a bank transaction.
type BankTransactionResponse struct {
	TransactionID       string          `json:"transactionID"`
	BankAccountID       string          `json:"bankAccountID"`
	Date                time.Time       `json:"date"`
	Type                string          `json:"type"`
	Amount              decimal.Decimal `json:"amount"`
	ReferenceNumber     string          `json:"referenceNumber,omitempty"`
	Description         string          `json:"description,omitempty"`
	ReconciledType      *string         `json:"reconciledType,omitempty"`
	ReconciledID        *string         `json:"reconciledID,omitempty"`
	IsReversal          bool            `json:"isReversal"`
	PairedTransactionID *string         `json:"pairedTransactionID,omitempty"`
}

// ToBankTransactionResponse converts a domain bank transaction to its DTO.
func ToBankTransactionResponse(t *domain.BankTransaction) BankTransactionResponse {
	resp := BankTransactionResponse{
		TransactionID:       t.TransactionID,
		BankAccountID:       t.BankAccountID,
		Date:                t.Date,
		Type:                string(t.Type),
		Amount:              t.Amount,
		ReferenceNumber:     t.ReferenceNumber,
		Description:         t.Description,
		ReconciledID:        t.ReconciledID,
		IsReversal:          t.IsReversal,
		PairedTransactionID: t.PairedTransactionID,
	}
	if t.ReconciledType != nil {
		rt := string(*t.ReconciledType)
		resp.ReconciledType = &rt
	}
	return resp
}
