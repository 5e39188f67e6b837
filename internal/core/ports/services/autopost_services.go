package services

import (
	"context"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/finbooks/finbooks_backend/internal/dto"
)

// AutoPostSvcFacade translates business events into balanced journal entries.
// Every operation is idempotent on (sourceType, sourceID): re-invoking a
// posting for an already-posted source returns the existing entry.
type AutoPostSvcFacade interface {
	PostInvoice(ctx context.Context, companyID string, req dto.InvoicePostRequest, actorID string) (*domain.JournalEntry, error)
	PostPayment(ctx context.Context, companyID string, req dto.PaymentPostRequest, actorID string) (*domain.JournalEntry, error)
	PostExpense(ctx context.Context, companyID string, req dto.ExpensePostRequest, actorID string) (*domain.JournalEntry, error)
	PostVendorInvoice(ctx context.Context, companyID string, req dto.VendorInvoicePostRequest, actorID string) (*domain.JournalEntry, error)
	PostVendorPayment(ctx context.Context, companyID string, req dto.VendorPaymentPostRequest, actorID string) (*domain.JournalEntry, error)
	PostPayroll(ctx context.Context, companyID string, req dto.PayrollPostRequest, actorID string) (*domain.JournalEntry, error)
	PostLoanPayment(ctx context.Context, companyID string, req dto.LoanPaymentPostRequest, actorID string) (*domain.JournalEntry, error)
	PostLoanPrepayment(ctx context.Context, companyID string, req dto.LoanPrepaymentPostRequest, actorID string) (*domain.JournalEntry, error)

	// PostFromSource is the generic escape hatch for event kinds without a
	// dedicated operation.
	PostFromSource(ctx context.Context, companyID string, req dto.GenericPostRequest, actorID string) (*domain.JournalEntry, error)

	// PostEvent posts an already-normalized event (used internally by the
	// reconciliation engine for adjustment entries).
	PostEvent(ctx context.Context, companyID string, event domain.PostingEvent, autoPost bool, actorID string) (*domain.JournalEntry, error)
}
