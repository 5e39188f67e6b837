package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Income    AccountType = "INCOME"
	Expense   AccountType = "EXPENSE"
)

// BalanceSide identifies which side of an entry increases an account.
type BalanceSide string

const (
	DebitSide  BalanceSide = "DEBIT"
	CreditSide BalanceSide = "CREDIT"
)

// ControlAccountType tags a control account with the subledger it summarises.
type ControlAccountType string

const (
	ControlAR ControlAccountType = "AR" // trade receivables / customer subledger
	ControlAP ControlAccountType = "AP" // trade payables / vendor subledger
)

// Account represents a node in a company's chart of accounts.
// Leaf accounts carry postings; non-leaf accounts are roll-ups by reporting
// convention only.
type Account struct {
	AccountID          string             `json:"accountID"`
	CompanyID          string             `json:"companyID"`
	Code               string             `json:"code"` // unique per company
	Name               string             `json:"name"`
	AccountType        AccountType        `json:"accountType"`
	ParentAccountID    *string            `json:"parentAccountID,omitempty"`
	Depth              int                `json:"depth"` // 0 for roots, parent.Depth+1 otherwise
	IsControlAccount   bool               `json:"isControlAccount"`
	ControlAccountType ControlAccountType `json:"controlAccountType,omitempty"`
	Purpose            AccountPurpose     `json:"purpose,omitempty"` // system-account tag used by auto-posting, at most one account per purpose
	IsActive           bool               `json:"isActive"`
	AuditFields
}

// NormalSide returns the side on which this account's balance normally sits.
// Assets and expenses grow with debits; liabilities, equity and income grow
// with credits.
func (a Account) NormalSide() BalanceSide {
	return NormalSideFor(a.AccountType)
}

// NormalSideFor returns the normal balance side for an account type.
func NormalSideFor(t AccountType) BalanceSide {
	switch t {
	case Asset, Expense:
		return DebitSide
	default:
		return CreditSide
	}
}
