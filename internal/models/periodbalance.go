package models

import "github.com/shopspring/decimal"

// PeriodBalance is one row of the per-account monthly balance cache.
// Primary key: (company_id, account_id, financial_year, period_month).
type PeriodBalance struct {
	CompanyID      string          `db:"company_id"`
	AccountID      string          `db:"account_id"`
	FinancialYear  string          `db:"financial_year"`
	PeriodMonth    int             `db:"period_month"`
	OpeningBalance decimal.Decimal `db:"opening_balance"`
	PeriodDebits   decimal.Decimal `db:"period_debits"`
	PeriodCredits  decimal.Decimal `db:"period_credits"`
	ClosingBalance decimal.Decimal `db:"closing_balance"`
}
