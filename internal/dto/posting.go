package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PostingOptions are common to every posting operation.
type PostingOptions struct {
	SourceID string    `json:"sourceID" binding:"required"`
	Date     time.Time `json:"date" binding:"required"`
	AutoPost bool      `json:"autoPost"`
}

// InvoicePostRequest posts a finalized customer invoice: debit receivable for
// the gross, credit revenue and tax payable for the components.
type InvoicePostRequest struct {
	PostingOptions
	PartyID   string           `json:"partyID" binding:"required"`
	NetAmount decimal.Decimal  `json:"netAmount" binding:"required"`
	TaxAmount *decimal.Decimal `json:"taxAmount,omitempty"`
	DueDate   *time.Time       `json:"dueDate,omitempty"`
}

// PaymentPostRequest posts a customer payment receipt: debit bank, credit
// receivable.
type PaymentPostRequest struct {
	PostingOptions
	PartyID   string          `json:"partyID" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Reference string          `json:"reference,omitempty"`
}

// ExpensePostRequest posts an approved expense claim: debit expense, credit
// bank.
type ExpensePostRequest struct {
	PostingOptions
	Amount      decimal.Decimal  `json:"amount" binding:"required"`
	TaxAmount   *decimal.Decimal `json:"taxAmount,omitempty"`
	Description string           `json:"description,omitempty"`
}

// VendorInvoicePostRequest posts a vendor bill: debit expense (and tax
// receivable), credit payable for the gross.
type VendorInvoicePostRequest struct {
	PostingOptions
	PartyID   string           `json:"partyID" binding:"required"`
	NetAmount decimal.Decimal  `json:"netAmount" binding:"required"`
	TaxAmount *decimal.Decimal `json:"taxAmount,omitempty"`
	DueDate   *time.Time       `json:"dueDate,omitempty"`
}

// VendorPaymentPostRequest posts a vendor payment: debit payable for the
// gross, credit bank for the net paid and TDS payable for any withholding.
type VendorPaymentPostRequest struct {
	PostingOptions
	PartyID   string           `json:"partyID" binding:"required"`
	Amount    decimal.Decimal  `json:"amount" binding:"required"`
	TDSAmount *decimal.Decimal `json:"tdsAmount,omitempty"`
}

// PayrollPostRequest posts a payroll disbursement: debit payroll expense for
// the gross, credit bank for the net and TDS payable for the withholding.
type PayrollPostRequest struct {
	PostingOptions
	GrossAmount decimal.Decimal  `json:"grossAmount" binding:"required"`
	TDSAmount   *decimal.Decimal `json:"tdsAmount,omitempty"`
}

// LoanPaymentPostRequest posts a loan EMI: debit interest expense and loan
// liability, credit bank.
type LoanPaymentPostRequest struct {
	PostingOptions
	PrincipalAmount decimal.Decimal `json:"principalAmount" binding:"required"`
	InterestAmount  decimal.Decimal `json:"interestAmount" binding:"required"`
}

// LoanPrepaymentPostRequest posts a principal-only prepayment.
type LoanPrepaymentPostRequest struct {
	PostingOptions
	PrincipalAmount decimal.Decimal `json:"principalAmount" binding:"required"`
}

// GenericPostRequest is the escape hatch for sources without a dedicated
// operation: a typed key-value payload of amounts and purpose-to-account
// overrides.
type GenericPostRequest struct {
	PostingOptions
	SourceType  string                     `json:"sourceType" binding:"required"`
	Description string                     `json:"description,omitempty"`
	PartyType   *string                    `json:"partyType,omitempty"`
	PartyID     *string                    `json:"partyID,omitempty"`
	Amounts     map[string]decimal.Decimal `json:"amounts" binding:"required"`
	Accounts    map[string]string          `json:"accounts,omitempty"`
}
