package mapping

import (
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/finbooks/finbooks_backend/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:          d.AccountID,
		CompanyID:          d.CompanyID,
		Code:               d.Code,
		Name:               d.Name,
		AccountType:        models.AccountType(d.AccountType),
		ParentAccountID:    d.ParentAccountID,
		Depth:              d.Depth,
		IsControlAccount:   d.IsControlAccount,
		ControlAccountType: string(d.ControlAccountType),
		Purpose:            string(d.Purpose),
		IsActive:           d.IsActive,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:          m.AccountID,
		CompanyID:          m.CompanyID,
		Code:               m.Code,
		Name:               m.Name,
		AccountType:        domain.AccountType(m.AccountType),
		ParentAccountID:    m.ParentAccountID,
		Depth:              m.Depth,
		IsControlAccount:   m.IsControlAccount,
		ControlAccountType: domain.ControlAccountType(m.ControlAccountType),
		Purpose:            domain.AccountPurpose(m.Purpose),
		IsActive:           m.IsActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

// ToDomainAccountSlice converts a slice of model Accounts to a slice of domain Accounts
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}
