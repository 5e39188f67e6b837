package domain

import (
	"errors"
	"fmt"
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

// Validation failures for journal entries. These are structural errors: an
// entry failing any of them is rejected before anything is written.
var (
	ErrEntryUnbalanced  = errors.New("entry debits and credits do not balance")
	ErrEntryMinLines    = errors.New("entry must have at least two lines")
	ErrLineBothSides    = errors.New("entry line must have exactly one of debit or credit set")
	ErrLineNonPositive  = errors.New("entry line amount must be positive")
	ErrEntryDateMissing = errors.New("entry date is required")
	ErrEntryNotPosted   = errors.New("entry must be posted")
	ErrEntryNotDraft    = errors.New("entry must be a draft")
	ErrEntryIsReversal  = errors.New("entry is itself a reversal")
	ErrAlreadyReversed  = errors.New("entry has already been reversed")
)

// JournalEntry is a single balanced accounting event. Once Posted it is
// immutable except for the Reversed transition, which links a mirroring entry
// and never edits existing lines.
type JournalEntry struct {
	EntryID       string             `json:"entryID"`
	CompanyID     string             `json:"companyID"`
	EntryNumber   int64              `json:"entryNumber"` // allocated at posting, monotonic per (company, financial year)
	FinancialYear string             `json:"financialYear"`
	EntryDate     time.Time          `json:"entryDate"`
	DueDate       *time.Time         `json:"dueDate,omitempty"` // settlement due date for invoice and bill entries
	SourceType    SourceType         `json:"sourceType"`
	SourceID      string             `json:"sourceID"`
	Description   string             `json:"description"`
	Status        EntryStatus        `json:"status"`
	PostedBy      string             `json:"postedBy,omitempty"`
	PostedAt      *time.Time         `json:"postedAt,omitempty"`
	ReversalOfID  *string            `json:"reversalOfID,omitempty"` // set on the reversing entry
	ReversedByID  *string            `json:"reversedByID,omitempty"` // set on the original once reversed
	Lines         []JournalEntryLine `json:"lines,omitempty"`
	AuditFields
}

// JournalEntryLine is one side-effect of an entry on a single account.
// Exactly one of Debit/Credit is non-zero.
type JournalEntryLine struct {
	LineID      string          `json:"lineID"`
	EntryID     string          `json:"entryID"`
	AccountID   string          `json:"accountID"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	PartyType   *string         `json:"partyType,omitempty"` // subledger tag, e.g. "customer", "vendor"
	PartyID     *string         `json:"partyID,omitempty"`
	Description string          `json:"description,omitempty"`
}

// Amount returns the single non-zero side of the line.
func (l JournalEntryLine) Amount() decimal.Decimal {
	if l.Debit.IsPositive() {
		return l.Debit
	}
	return l.Credit
}

// IsDebit reports whether this line debits its account.
func (l JournalEntryLine) IsDebit() bool {
	return l.Debit.IsPositive()
}

// Mirror returns a copy of the line with the debit and credit sides swapped.
func (l JournalEntryLine) Mirror() JournalEntryLine {
	m := l
	m.Debit, m.Credit = l.Credit, l.Debit
	return m
}

// ValidateLines enforces the balance law over a prospective set of entry
// lines: at least two lines, exactly one positive side per line, and total
// debits equal to total credits within BalanceTolerance.
func ValidateLines(lines []JournalEntryLine) error {
	if len(lines) < 2 {
		return ErrEntryMinLines
	}

	debits := decimal.Zero
	credits := decimal.Zero
	for i, l := range lines {
		hasDebit := !l.Debit.IsZero()
		hasCredit := !l.Credit.IsZero()
		if hasDebit == hasCredit {
			return fmt.Errorf("%w: line %d", ErrLineBothSides, i)
		}
		if l.Debit.IsNegative() || l.Credit.IsNegative() {
			return fmt.Errorf("%w: line %d", ErrLineNonPositive, i)
		}
		debits = debits.Add(l.Debit)
		credits = credits.Add(l.Credit)
	}

	if !WithinTolerance(debits, credits) {
		return fmt.Errorf("%w: debits %s, credits %s", ErrEntryUnbalanced, debits.String(), credits.String())
	}
	return nil
}

// Validate checks the whole entry before persistence.
func (e JournalEntry) Validate() error {
	if e.EntryDate.IsZero() {
		return ErrEntryDateMissing
	}
	return ValidateLines(e.Lines)
}

// TotalDebits sums the debit side of the entry's lines.
func (e JournalEntry) TotalDebits() decimal.Decimal {
	total := decimal.Zero
	for _, l := range e.Lines {
		total = total.Add(l.Debit)
	}
	return total
}
