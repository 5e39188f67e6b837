package mapping

import (
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/finbooks/finbooks_backend/internal/models"
)

// ToModelCompany converts a domain Company to a model Company
func ToModelCompany(d domain.Company) models.Company {
	return models.Company{
		CompanyID:       d.CompanyID,
		Name:            d.Name,
		HomeCurrency:    d.HomeCurrency,
		FYStartMonth:    d.FYStartMonth,
		AutoPostEnabled: d.AutoPostEnabled,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

// ToDomainCompany converts a model Company to a domain Company
func ToDomainCompany(m models.Company) domain.Company {
	return domain.Company{
		CompanyID:       m.CompanyID,
		Name:            m.Name,
		HomeCurrency:    m.HomeCurrency,
		FYStartMonth:    m.FYStartMonth,
		AutoPostEnabled: m.AutoPostEnabled,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}
