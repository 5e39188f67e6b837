package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankTransaction represents one imported bank statement line.
type BankTransaction struct {
	TransactionID       string          `db:"transaction_id"`
	CompanyID           string          `db:"company_id"`
	BankAccountID       string          `db:"bank_account_id"`
	TxnDate             time.Time       `db:"txn_date"`
	TxnType             string          `db:"txn_type"` // CREDIT or DEBIT
	Amount              decimal.Decimal `db:"amount"`
	ReferenceNumber     string          `db:"reference_number"`
	Description         string          `db:"description"`
	ReconciledType      *string         `db:"reconciled_type"` // Nullable
	ReconciledID        *string         `db:"reconciled_id"`
	ReconciledAt        *time.Time      `db:"reconciled_at"`
	IsReversal          bool            `db:"is_reversal"`
	PairedTransactionID *string         `db:"paired_transaction_id"`
	ImportBatchID       *string         `db:"import_batch_id"`
	ContentHash         string          `db:"content_hash"`
	Version             int64           `db:"version"`
	AuditFields
}

// ReconRecord is an externally-produced business record registered for bank
// reconciliation matching.
type ReconRecord struct {
	CompanyID       string           `db:"company_id"`
	RecordType      string           `db:"record_type"`
	RecordID        string           `db:"record_id"`
	RecordDate      time.Time        `db:"record_date"`
	Amount          decimal.Decimal  `db:"amount"`
	ReferenceNumber string           `db:"reference_number"`
	Description     string           `db:"description"`
	PartyName       string           `db:"party_name"`
	TDSSection      *string          `db:"tds_section"` // Nullable
	TDSAmount       *decimal.Decimal `db:"tds_amount"`  // Nullable
	Reconciled      bool             `db:"reconciled"`
	CreatedAt       time.Time        `db:"created_at"`
}
