package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SourceType identifies the kind of business event an entry was posted from.
// Together with SourceID it forms the idempotency key for auto-posting.
type SourceType string

const (
	SourceInvoice        SourceType = "INVOICE"
	SourcePayment        SourceType = "PAYMENT"
	SourceExpense        SourceType = "EXPENSE"
	SourceVendorInvoice  SourceType = "VENDOR_INVOICE"
	SourceVendorPayment  SourceType = "VENDOR_PAYMENT"
	SourcePayroll        SourceType = "PAYROLL"
	SourceLoanPayment    SourceType = "LOAN_PAYMENT"
	SourceLoanPrepayment SourceType = "LOAN_PREPAYMENT"
	SourceBankAdjustment SourceType = "BANK_ADJUSTMENT"
	SourceManual         SourceType = "MANUAL"
)

// AllSourceTypes lists every event kind the posting engine accepts. The
// auto-posting line-builder map is checked against this list in tests so a new
// kind cannot be added without a builder.
var AllSourceTypes = []SourceType{
	SourceInvoice,
	SourcePayment,
	SourceExpense,
	SourceVendorInvoice,
	SourceVendorPayment,
	SourcePayroll,
	SourceLoanPayment,
	SourceLoanPrepayment,
	SourceBankAdjustment,
	SourceManual,
}

// AmountField names a component amount inside a posting event payload.
// Absent fields mean "not applicable", never zero.
type AmountField string

const (
	AmountGross     AmountField = "gross"
	AmountNet       AmountField = "net"
	AmountTax       AmountField = "tax"
	AmountTDS       AmountField = "tds"
	AmountPrincipal AmountField = "principal"
	AmountInterest  AmountField = "interest"
)

// AccountPurpose tags the system accounts the line builders post against.
// Purposes are resolved to concrete accounts per company.
type AccountPurpose string

const (
	PurposeReceivable      AccountPurpose = "RECEIVABLE"
	PurposePayable         AccountPurpose = "PAYABLE"
	PurposeRevenue         AccountPurpose = "REVENUE"
	PurposeTaxPayable      AccountPurpose = "TAX_PAYABLE"
	PurposeTDSPayable      AccountPurpose = "TDS_PAYABLE"
	PurposeBank            AccountPurpose = "BANK"
	PurposeExpense         AccountPurpose = "EXPENSE_DEFAULT"
	PurposePayrollExpense  AccountPurpose = "PAYROLL_EXPENSE"
	PurposeInterestExpense AccountPurpose = "INTEREST_EXPENSE"
	PurposeLoanLiability   AccountPurpose = "LOAN_LIABILITY"
	PurposeOtherIncome     AccountPurpose = "OTHER_INCOME"
	PurposeOtherExpense    AccountPurpose = "OTHER_EXPENSE"
	PurposeBankCharges     AccountPurpose = "BANK_CHARGES"
	PurposeTDSReceivable   AccountPurpose = "TDS_RECEIVABLE"
	PurposeForexGain       AccountPurpose = "FOREX_GAIN"
	PurposeForexLoss       AccountPurpose = "FOREX_LOSS"
	PurposeRoundOff        AccountPurpose = "ROUND_OFF"
)

// PostingEvent is the normalized form of one business event handed to the
// auto-posting service. Specific producers (invoice, payment, payroll, ...)
// populate the amount fields their kind requires; the MANUAL kind additionally
// carries explicit debit/credit account references.
type PostingEvent struct {
	SourceType  SourceType
	SourceID    string
	Date        time.Time
	DueDate     *time.Time
	Description string
	PartyType   *string
	PartyID     *string
	Amounts     map[AmountField]decimal.Decimal

	// Account overrides by purpose, used by SourceManual and
	// SourceBankAdjustment where the caller names the accounts directly.
	Accounts map[AccountPurpose]string
}

// Amount returns the named component and whether it was supplied.
func (e PostingEvent) Amount(f AmountField) (decimal.Decimal, bool) {
	v, ok := e.Amounts[f]
	return v, ok
}
