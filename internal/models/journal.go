package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the state of a journal entry.
type EntryStatus string

const (
	Draft    EntryStatus = "DRAFT"
	Posted   EntryStatus = "POSTED"
	Reversed EntryStatus = "REVERSED"
)

// JournalEntry represents a single balanced accounting event. Lines live in
// journal_entry_lines and are loaded separately.
type JournalEntry struct {
	EntryID       string      `db:"entry_id"`
	CompanyID     string      `db:"company_id"`
	EntryNumber   int64       `db:"entry_number"` // 0 until posted
	FinancialYear string      `db:"financial_year"`
	EntryDate     time.Time   `db:"entry_date"`
	DueDate       *time.Time  `db:"due_date"` // Nullable
	SourceType    string      `db:"source_type"`
	SourceID      string      `db:"source_id"`
	Description   string      `db:"description"`
	Status        EntryStatus `db:"status"`
	PostedBy      string      `db:"posted_by"` // Nullable, empty for drafts
	PostedAt      *time.Time  `db:"posted_at"` // Nullable
	ReversalOfID  *string     `db:"reversal_of_id"`
	ReversedByID  *string     `db:"reversed_by_id"`
	AuditFields
}

// JournalEntryLine represents one side-effect of an entry on a single account.
type JournalEntryLine struct {
	LineID      string          `db:"line_id"`
	EntryID     string          `db:"entry_id"`
	AccountID   string          `db:"account_id"`
	Debit       decimal.Decimal `db:"debit"`
	Credit      decimal.Decimal `db:"credit"`
	PartyType   *string         `db:"party_type"` // Nullable subledger tag
	PartyID     *string         `db:"party_id"`
	Description string          `db:"description"`
}
