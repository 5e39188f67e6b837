package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OpenItem is an unsettled invoice or bill tracked against a party.
type OpenItem struct {
	SourceType      SourceType      `json:"sourceType"`
	SourceID        string          `json:"sourceID"`
	PartyType       string          `json:"partyType"`
	PartyID         string          `json:"partyID"`
	PartyName       string          `json:"partyName"`
	DueDate         time.Time       `json:"dueDate"`
	Amount          decimal.Decimal `json:"amount"`     // original currency
	HomeAmount      decimal.Decimal `json:"homeAmount"` // home currency
	CurrencyCode    string          `json:"currencyCode"`
	DaysOutstanding int             `json:"daysOutstanding"`
}

// AgingBucket is one days-outstanding band of an aging report.
type AgingBucket struct {
	Label      string          `json:"label"` // e.g. "0-30", "31-60", "90+"
	FromDays   int             `json:"fromDays"`
	ToDays     *int            `json:"toDays,omitempty"` // nil for the open-ended bucket
	Amount     decimal.Decimal `json:"amount"`
	HomeAmount decimal.Decimal `json:"homeAmount"`
}

// PartyAging aggregates one party's open items into buckets.
type PartyAging struct {
	PartyType string          `json:"partyType"`
	PartyID   string          `json:"partyID"`
	PartyName string          `json:"partyName"`
	Buckets   []AgingBucket   `json:"buckets"`
	Total     decimal.Decimal `json:"total"`
	HomeTotal decimal.Decimal `json:"homeTotal"`
}

// AgingReport is the full AP or AR aging for a company as of a date.
type AgingReport struct {
	CompanyID string        `json:"companyID"`
	AsOf      time.Time     `json:"asOf"`
	PartyType string        `json:"partyType"` // "customer" or "vendor"
	Parties   []PartyAging  `json:"parties"`
	Totals    []AgingBucket `json:"totals"`
}

// PartyLedgerLine is one journal line replayed into a party's running ledger.
type PartyLedgerLine struct {
	EntryID        string          `json:"entryID"`
	EntryNumber    int64           `json:"entryNumber"`
	EntryDate      time.Time       `json:"entryDate"`
	SourceType     SourceType      `json:"sourceType"`
	Description    string          `json:"description"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
}

// PartyLedger reconstructs a party's balance over a date range, seeded with
// the balance accumulated before the range.
type PartyLedger struct {
	CompanyID      string            `json:"companyID"`
	PartyType      string            `json:"partyType"`
	PartyID        string            `json:"partyID"`
	FromDate       time.Time         `json:"fromDate"`
	ToDate         time.Time         `json:"toDate"`
	OpeningBalance decimal.Decimal   `json:"openingBalance"`
	Lines          []PartyLedgerLine `json:"lines"`
	ClosingBalance decimal.Decimal   `json:"closingBalance"`
}

// PartyBalance is one party's closing balance under a control account.
type PartyBalance struct {
	PartyType string          `json:"partyType"`
	PartyID   string          `json:"partyID"`
	Balance   decimal.Decimal `json:"balance"`
}

// ControlReconciliation compares a control account's balance against the sum
// of its subledger party balances. Divergence is a data-integrity signal
// reported with a per-party drill-down, never a thrown error.
type ControlReconciliation struct {
	CompanyID        string             `json:"companyID"`
	AccountID        string             `json:"accountID"`
	AccountName      string             `json:"accountName"`
	ControlType      ControlAccountType `json:"controlType"`
	AsOf             time.Time          `json:"asOf"`
	ControlBalance   decimal.Decimal    `json:"controlBalance"`
	SubledgerBalance decimal.Decimal    `json:"subledgerBalance"`
	Difference       decimal.Decimal    `json:"difference"`
	InAgreement      bool               `json:"inAgreement"`
	Parties          []PartyBalance     `json:"parties"`
}

// DefaultAgingBoundaries are the default days-outstanding cut-offs.
var DefaultAgingBoundaries = []int{30, 60, 90}
