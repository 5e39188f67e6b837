package domain

import "github.com/shopspring/decimal"

// PeriodBalance is the derived per-account activity for one calendar month of
// a financial year. It is a rebuildable cache: the journal is the system of
// record and Recalculate must reproduce these rows exactly.
type PeriodBalance struct {
	CompanyID      string          `json:"companyID"`
	AccountID      string          `json:"accountID"`
	FinancialYear  string          `json:"financialYear"`
	PeriodMonth    int             `json:"periodMonth"` // 1-12 calendar month
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	PeriodDebits   decimal.Decimal `json:"periodDebits"`
	PeriodCredits  decimal.Decimal `json:"periodCredits"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
}

// Closing computes the closing balance on the account's normal side.
func (p PeriodBalance) Closing(side BalanceSide) decimal.Decimal {
	net := p.PeriodDebits.Sub(p.PeriodCredits)
	if side == CreditSide {
		net = net.Neg()
	}
	return p.OpeningBalance.Add(net)
}
