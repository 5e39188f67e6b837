package dto

import "github.com/finbooks/finbooks_backend/internal/core/domain"

// CreateCompanyRequest defines the payload for creating a company.
type CreateCompanyRequest struct {
	Name            string `json:"name" binding:"required,min=1,max=200"`
	HomeCurrency    string `json:"homeCurrency" binding:"required,len=3"`
	FYStartMonth    int    `json:"fyStartMonth" binding:"omitempty,min=1,max=12"`
	AutoPostEnabled bool   `json:"autoPostEnabled"`
}

// UpdateAutoPostRequest toggles the company-level auto-posting flag.
type UpdateAutoPostRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// CompanyResponse defines the data returned for a company.
type CompanyResponse struct {
	CompanyID       string `json:"companyID"`
	Name            string `json:"name"`
	HomeCurrency    string `json:"homeCurrency"`
	FYStartMonth    int    `json:"fyStartMonth"`
	AutoPostEnabled bool   `json:"autoPostEnabled"`
}

// ToCompanyResponse converts a domain.Company to its response DTO.
func ToCompanyResponse(c *domain.Company) CompanyResponse {
	return CompanyResponse{
		CompanyID:       c.CompanyID,
		Name:            c.Name,
		HomeCurrency:    c.HomeCurrency,
		FYStartMonth:    c.FYStartMonth,
		AutoPostEnabled: c.AutoPostEnabled,
	}
}
