package models

// Company represents the tenant row every other entity is scoped to.
type Company struct {
	CompanyID       string `db:"company_id"`
	Name            string `db:"name"`
	HomeCurrency    string `db:"home_currency"`
	FYStartMonth    int    `db:"fy_start_month"`
	AutoPostEnabled bool   `db:"auto_post_enabled"`
	AuditFields
}
