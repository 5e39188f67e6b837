package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TrialBalanceRow is a single account's activity in a trial balance report.
type TrialBalanceRow struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	AccountType AccountType     `json:"accountType"`
	Opening     decimal.Decimal `json:"opening"`
	Debits      decimal.Decimal `json:"debits"`
	Credits     decimal.Decimal `json:"credits"`
	Closing     decimal.Decimal `json:"closing"` // on the account's normal side
}

// TrialBalanceReport lists every account's period activity. TotalDebits must
// equal TotalCredits; a mismatch is a bug, not a business condition.
type TrialBalanceReport struct {
	CompanyID     string            `json:"companyID"`
	FinancialYear string            `json:"financialYear"`
	AsOf          time.Time         `json:"asOf"`
	Rows          []TrialBalanceRow `json:"rows"`
	TotalDebits   decimal.Decimal   `json:"totalDebits"`
	TotalCredits  decimal.Decimal   `json:"totalCredits"`
}

// AccountAmount is an account with its net amount in a financial statement.
type AccountAmount struct {
	AccountID string          `json:"accountID"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	NetAmount decimal.Decimal `json:"netAmount"`
}

// IncomeStatement groups income and expense closings for a period.
type IncomeStatement struct {
	Income       []AccountAmount `json:"income"`
	Expenses     []AccountAmount `json:"expenses"`
	TotalIncome  decimal.Decimal `json:"totalIncome"`
	TotalExpense decimal.Decimal `json:"totalExpense"`
	NetProfit    decimal.Decimal `json:"netProfit"`
}

// BalanceSheet groups asset, liability and equity closings as of a date.
// Assets = Liabilities + Equity + current-period profit, within tolerance.
type BalanceSheet struct {
	Assets           []AccountAmount `json:"assets"`
	Liabilities      []AccountAmount `json:"liabilities"`
	Equity           []AccountAmount `json:"equity"`
	TotalAssets      decimal.Decimal `json:"totalAssets"`
	TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
	TotalEquity      decimal.Decimal `json:"totalEquity"`
	RetainedProfit   decimal.Decimal `json:"retainedProfit"` // current-period P&L folded into equity
	Balanced         bool            `json:"balanced"`
}

// AbnormalBalanceCategory classifies an account whose closing balance sits on
// the wrong side of its normal balance.
type AbnormalBalanceCategory string

const (
	// AbnormalContra marks a recognised contra pattern, informational only.
	AbnormalContra AbnormalBalanceCategory = "CONTRA_INFORMATIONAL"
	// AbnormalUnexpected marks a balance that should be investigated.
	AbnormalUnexpected AbnormalBalanceCategory = "UNEXPECTED_WARNING"
)

// AbnormalBalance annotates one account with an unexpected balance side.
// These are advisory; they never block postings or other reports.
type AbnormalBalance struct {
	AccountID       string                  `json:"accountID"`
	AccountCode     string                  `json:"accountCode"`
	AccountName     string                  `json:"accountName"`
	AccountType     AccountType             `json:"accountType"`
	ExpectedSide    BalanceSide             `json:"expectedSide"`
	ClosingBalance  decimal.Decimal         `json:"closingBalance"`
	Category        AbnormalBalanceCategory `json:"category"`
	SuggestedAction string                  `json:"suggestedAction"`
}
