package mapping

import (
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/finbooks/finbooks_backend/internal/models"
)

// ToModelPeriodBalance converts a domain PeriodBalance to its model
func ToModelPeriodBalance(d domain.PeriodBalance) models.PeriodBalance {
	return models.PeriodBalance{
		CompanyID:      d.CompanyID,
		AccountID:      d.AccountID,
		FinancialYear:  d.FinancialYear,
		PeriodMonth:    d.PeriodMonth,
		OpeningBalance: d.OpeningBalance,
		PeriodDebits:   d.PeriodDebits,
		PeriodCredits:  d.PeriodCredits,
		ClosingBalance: d.ClosingBalance,
	}
}

// ToDomainPeriodBalance converts a model PeriodBalance to its domain form
func ToDomainPeriodBalance(m models.PeriodBalance) domain.PeriodBalance {
	return domain.PeriodBalance{
		CompanyID:      m.CompanyID,
		AccountID:      m.AccountID,
		FinancialYear:  m.FinancialYear,
		PeriodMonth:    m.PeriodMonth,
		OpeningBalance: m.OpeningBalance,
		PeriodDebits:   m.PeriodDebits,
		PeriodCredits:  m.PeriodCredits,
		ClosingBalance: m.ClosingBalance,
	}
}

// ToDomainPeriodBalanceSlice converts a slice of model rows to domain rows
func ToDomainPeriodBalanceSlice(ms []models.PeriodBalance) []domain.PeriodBalance {
	ds := make([]domain.PeriodBalance, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainPeriodBalance(m)
	}
	return ds
}
