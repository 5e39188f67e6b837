package domain

// Company is the tenant boundary. Every ledger entity is scoped to exactly one
// company and no operation crosses companies.
type Company struct {
	CompanyID       string `json:"companyID"`
	Name            string `json:"name"`
	HomeCurrency    string `json:"homeCurrency"`
	FYStartMonth    int    `json:"fyStartMonth"`    // 1-12, first month of the financial year
	AutoPostEnabled bool   `json:"autoPostEnabled"` // when false, all postings land as Draft
	AuditFields
}
