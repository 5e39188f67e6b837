package models

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Income    AccountType = "INCOME"
	Expense   AccountType = "EXPENSE"
)

// Account represents a node in a company's chart of accounts.
// Note: ParentAccountID uses a pointer for the nullable foreign key.
type Account struct {
	AccountID          string      `db:"account_id"`
	CompanyID          string      `db:"company_id"`
	Code               string      `db:"code"`
	Name               string      `db:"name"`
	AccountType        AccountType `db:"account_type"`
	ParentAccountID    *string     `db:"parent_account_id"` // Nullable
	Depth              int         `db:"depth"`
	IsControlAccount   bool        `db:"is_control_account"`
	ControlAccountType string      `db:"control_account_type"` // Nullable in DB, empty when not a control account
	Purpose            string      `db:"purpose"`              // Nullable in DB, empty when untagged
	IsActive           bool        `db:"is_active"`
	AuditFields
}
