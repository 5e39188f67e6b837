package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/dto"
)

// Party tags carried on subledger lines.
const (
	PartyCustomer = "customer"
	PartyVendor   = "vendor"
)

// accountResolver resolves an account purpose to a concrete account for one
// posting, honoring per-event overrides before the company's purpose tags.
type accountResolver struct {
	ctx        context.Context
	companyID  string
	accountSvc portssvc.AccountReaderSvc
	overrides  map[domain.AccountPurpose]string
}

func (r *accountResolver) resolve(purpose domain.AccountPurpose) (string, error) {
	if id, ok := r.overrides[purpose]; ok {
		account, err := r.accountSvc.GetAccountByID(r.ctx, r.companyID, id)
		if err != nil {
			return "", fmt.Errorf("override account for purpose %s: %w", purpose, err)
		}
		return account.AccountID, nil
	}
	account, err := r.accountSvc.ResolvePurposeAccount(r.ctx, r.companyID, purpose)
	if err != nil {
		return "", err
	}
	return account.AccountID, nil
}

// lineBuilder turns one normalized event into balanced journal lines.
type lineBuilder func(event domain.PostingEvent, r *accountResolver) ([]domain.JournalEntryLine, error)

// autoPostService translates business events into journal entries. Posting is
// idempotent on (sourceType, sourceID): the first call wins and every
// subsequent call returns the same entry.
type autoPostService struct {
	BaseService
	journalSvc  portssvc.JournalWriterSvc
	journalRepo portsrepo.JournalReader
	accountSvc  portssvc.AccountReaderSvc
	companySvc  portssvc.CompanySvcFacade
	builders    map[domain.SourceType]lineBuilder
}

// NewAutoPostService creates a new AutoPostSvcFacade.
func NewAutoPostService(journalSvc portssvc.JournalWriterSvc, journalRepo portsrepo.JournalReader, accountSvc portssvc.AccountReaderSvc, companySvc portssvc.CompanySvcFacade) portssvc.AutoPostSvcFacade {
	s := &autoPostService{
		journalSvc:  journalSvc,
		journalRepo: journalRepo,
		accountSvc:  accountSvc,
		companySvc:  companySvc,
	}
	s.builders = map[domain.SourceType]lineBuilder{
		domain.SourceInvoice:        buildInvoiceLines,
		domain.SourcePayment:        buildPaymentLines,
		domain.SourceExpense:        buildExpenseLines,
		domain.SourceVendorInvoice:  buildVendorInvoiceLines,
		domain.SourceVendorPayment:  buildVendorPaymentLines,
		domain.SourcePayroll:        buildPayrollLines,
		domain.SourceLoanPayment:    buildLoanPaymentLines,
		domain.SourceLoanPrepayment: buildLoanPrepaymentLines,
		domain.SourceBankAdjustment: buildSignedPurposeLines,
		domain.SourceManual:         buildSignedPurposeLines,
	}
	return s
}

var _ portssvc.AutoPostSvcFacade = (*autoPostService)(nil)

// Builders returns the registered source types. Used to verify coverage.
func (s *autoPostService) Builders() []domain.SourceType {
	kinds := make([]domain.SourceType, 0, len(s.builders))
	for k := range s.builders {
		kinds = append(kinds, k)
	}
	return kinds
}

func (s *autoPostService) PostEvent(ctx context.Context, companyID string, event domain.PostingEvent, autoPost bool, actorID string) (*domain.JournalEntry, error) {
	if event.SourceID == "" {
		return nil, fmt.Errorf("%w: source ID is required", apperrors.ErrValidation)
	}
	if event.Date.IsZero() {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, domain.ErrEntryDateMissing.Error())
	}

	// Idempotency check up front so a re-delivery never touches accounts.
	if existing, err := s.findExisting(ctx, companyID, event.SourceType, event.SourceID); err != nil {
		return nil, err
	} else if existing != nil {
		s.LogInfo(ctx, "source already posted, returning existing entry",
			"company_id", companyID, "source_type", event.SourceType, "source_id", event.SourceID, "entry_id", existing.EntryID)
		return existing, nil
	}

	company, err := s.companySvc.GetCompanyByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	post := autoPost && company.AutoPostEnabled
	if autoPost && !company.AutoPostEnabled {
		s.LogDebug(ctx, "auto-post disabled for company, entry will be a draft", "company_id", companyID)
	}

	build, ok := s.builders[event.SourceType]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported source type %q", apperrors.ErrValidation, event.SourceType)
	}
	resolver := &accountResolver{ctx: ctx, companyID: companyID, accountSvc: s.accountSvc, overrides: event.Accounts}
	lines, err := build(event, resolver)
	if err != nil {
		return nil, err
	}

	entry := domain.JournalEntry{
		CompanyID:   companyID,
		EntryDate:   event.Date,
		DueDate:     event.DueDate,
		SourceType:  event.SourceType,
		SourceID:    event.SourceID,
		Description: event.Description,
		Lines:       lines,
	}

	saved, err := s.journalSvc.CreateEntry(ctx, entry, post, actorID)
	if err != nil {
		// A concurrent posting of the same source lost us the unique key
		// race; the entry it created is the answer.
		if errors.Is(err, apperrors.ErrDuplicate) {
			if existing, findErr := s.findExisting(ctx, companyID, event.SourceType, event.SourceID); findErr == nil && existing != nil {
				return existing, nil
			}
		}
		return nil, err
	}
	return saved, nil
}

func (s *autoPostService) findExisting(ctx context.Context, companyID string, sourceType domain.SourceType, sourceID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryBySource(ctx, companyID, sourceType, sourceID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	lines, err := s.journalRepo.FindLinesByEntryID(ctx, entry.EntryID)
	if err != nil {
		return nil, err
	}
	entry.Lines = lines
	return entry, nil
}

func (s *autoPostService) PostInvoice(ctx context.Context, companyID string, req dto.InvoicePostRequest, actorID string) (*domain.JournalEntry, error) {
	partyType := PartyCustomer
	event := domain.PostingEvent{
		SourceType:  domain.SourceInvoice,
		SourceID:    req.SourceID,
		Date:        req.Date,
		DueDate:     req.DueDate,
		Description: fmt.Sprintf("Invoice %s", req.SourceID),
		PartyType:   &partyType,
		PartyID:     &req.PartyID,
		Amounts:     map[domain.AmountField]decimal.Decimal{domain.AmountNet: req.NetAmount},
	}
	if req.TaxAmount != nil {
		event.Amounts[domain.AmountTax] = *req.TaxAmount
	}
	return s.PostEvent(ctx, companyID, event, req.AutoPost, actorID)
}

func (s *autoPostService) PostPayment(ctx context.Context, companyID string, req dto.PaymentPostRequest, actorID string) (*domain.JournalEntry, error) {
	partyType := PartyCustomer
	description := fmt.Sprintf("Payment %s", req.SourceID)
	if req.Reference != "" {
		description = fmt.Sprintf("Payment %s (%s)", req.SourceID, req.Reference)
	}
	event := domain.PostingEvent{
		SourceType:  domain.SourcePayment,
		SourceID:    req.SourceID,
		Date:        req.Date,
		Description: description,
		PartyType:   &partyType,
		PartyID:     &req.PartyID,
		Amounts:     map[domain.AmountField]decimal.Decimal{domain.AmountGross: req.Amount},
	}
	return s.PostEvent(ctx, companyID, event, req.AutoPost, actorID)
}

func (s *autoPostService) PostExpense(ctx context.Context, companyID string, req dto.ExpensePostRequest, actorID string) (*domain.JournalEntry, error) {
	description := req.Description
	if description == "" {
		description = fmt.Sprintf("Expense %s", req.SourceID)
	}
	event := domain.PostingEvent{
		SourceType:  domain.SourceExpense,
		SourceID:    req.SourceID,
		Date:        req.Date,
		Description: description,
		Amounts:     map[domain.AmountField]decimal.Decimal{domain.AmountNet: req.Amount},
	}
	if req.TaxAmount != nil {
		event.Amounts[domain.AmountTax] = *req.TaxAmount
	}
	return s.PostEvent(ctx, companyID, event, req.AutoPost, actorID)
}

func (s *autoPostService) PostVendorInvoice(ctx context.Context, companyID string, req dto.VendorInvoicePostRequest, actorID string) (*domain.JournalEntry, error) {
	partyType := PartyVendor
	event := domain.PostingEvent{
		SourceType:  domain.SourceVendorInvoice,
		SourceID:    req.SourceID,
		Date:        req.Date,
		DueDate:     req.DueDate,
		Description: fmt.Sprintf("Vendor invoice %s", req.SourceID),
		PartyType:   &partyType,
		PartyID:     &req.PartyID,
		Amounts:     map[domain.AmountField]decimal.Decimal{domain.AmountNet: req.NetAmount},
	}
	if req.TaxAmount != nil {
		event.Amounts[domain.AmountTax] = *req.TaxAmount
	}
	return s.PostEvent(ctx, companyID, event, req.AutoPost, actorID)
}

func (s *autoPostService) PostVendorPayment(ctx context.Context, companyID string, req dto.VendorPaymentPostRequest, actorID string) (*domain.JournalEntry, error) {
	partyType := PartyVendor
	event := domain.PostingEvent{
		SourceType:  domain.SourceVendorPayment,
		SourceID:    req.SourceID,
		Date:        req.Date,
		Description: fmt.Sprintf("Vendor payment %s", req.SourceID),
		PartyType:   &partyType,
		PartyID:     &req.PartyID,
		Amounts:     map[domain.AmountField]decimal.Decimal{domain.AmountGross: req.Amount},
	}
	if req.TDSAmount != nil {
		event.Amounts[domain.AmountTDS] = *req.TDSAmount
	}
	return s.PostEvent(ctx, companyID, event, req.AutoPost, actorID)
}

func (s *autoPostService) PostPayroll(ctx context.Context, companyID string, req dto.PayrollPostRequest, actorID string) (*domain.JournalEntry, error) {
	event := domain.PostingEvent{
		SourceType:  domain.SourcePayroll,
		SourceID:    req.SourceID,
		Date:        req.Date,
		Description: fmt.Sprintf("Payroll %s", req.SourceID),
		Amounts:     map[domain.AmountField]decimal.Decimal{domain.AmountGross: req.GrossAmount},
	}
	if req.TDSAmount != nil {
		event.Amounts[domain.AmountTDS] = *req.TDSAmount
	}
	return s.PostEvent(ctx, companyID, event, req.AutoPost, actorID)
}

func (s *autoPostService) PostLoanPayment(ctx context.Context, companyID string, req dto.LoanPaymentPostRequest, actorID string) (*domain.JournalEntry, error) {
	event := domain.PostingEvent{
		SourceType:  domain.SourceLoanPayment,
		SourceID:    req.SourceID,
		Date:        req.Date,
		Description: fmt.Sprintf("Loan EMI %s", req.SourceID),
		Amounts: map[domain.AmountField]decimal.Decimal{
			domain.AmountPrincipal: req.PrincipalAmount,
			domain.AmountInterest:  req.InterestAmount,
		},
	}
	return s.PostEvent(ctx, companyID, event, req.AutoPost, actorID)
}

func (s *autoPostService) PostLoanPrepayment(ctx context.Context, companyID string, req dto.LoanPrepaymentPostRequest, actorID string) (*domain.JournalEntry, error) {
	event := domain.PostingEvent{
		SourceType:  domain.SourceLoanPrepayment,
		SourceID:    req.SourceID,
		Date:        req.Date,
		Description: fmt.Sprintf("Loan prepayment %s", req.SourceID),
		Amounts:     map[domain.AmountField]decimal.Decimal{domain.AmountPrincipal: req.PrincipalAmount},
	}
	return s.PostEvent(ctx, companyID, event, req.AutoPost, actorID)
}

func (s *autoPostService) PostFromSource(ctx context.Context, companyID string, req dto.GenericPostRequest, actorID string) (*domain.JournalEntry, error) {
	sourceType := domain.SourceType(req.SourceType)
	if _, ok := s.builders[sourceType]; !ok {
		return nil, fmt.Errorf("%w: unsupported source type %q", apperrors.ErrValidation, req.SourceType)
	}

	amounts := make(map[domain.AmountField]decimal.Decimal, len(req.Amounts))
	for field, amount := range req.Amounts {
		amounts[domain.AmountField(field)] = amount
	}
	accounts := make(map[domain.AccountPurpose]string, len(req.Accounts))
	for purpose, accountID := range req.Accounts {
		accounts[domain.AccountPurpose(purpose)] = accountID
	}

	event := domain.PostingEvent{
		SourceType:  sourceType,
		SourceID:    req.SourceID,
		Date:        req.Date,
		Description: req.Description,
		PartyType:   req.PartyType,
		PartyID:     req.PartyID,
		Amounts:     amounts,
		Accounts:    accounts,
	}
	return s.PostEvent(ctx, companyID, event, req.AutoPost, actorID)
}

// --- line builders ---

func requireAmount(event domain.PostingEvent, field domain.AmountField) (decimal.Decimal, error) {
	v, ok := event.Amount(field)
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: amount %q is required for %s", apperrors.ErrValidation, field, event.SourceType)
	}
	if !v.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: amount %q must be positive", apperrors.ErrValidation, field)
	}
	return v, nil
}

func optionalAmount(event domain.PostingEvent, field domain.AmountField) (decimal.Decimal, error) {
	v, ok := event.Amount(field)
	if !ok {
		return decimal.Zero, nil
	}
	if v.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: amount %q must not be negative", apperrors.ErrValidation, field)
	}
	return v, nil
}

func debitLine(accountID string, amount decimal.Decimal, event domain.PostingEvent, withParty bool) domain.JournalEntryLine {
	l := domain.JournalEntryLine{AccountID: accountID, Debit: amount, Credit: decimal.Zero, Description: event.Description}
	if withParty {
		l.PartyType = event.PartyType
		l.PartyID = event.PartyID
	}
	return l
}

func creditLine(accountID string, amount decimal.Decimal, event domain.PostingEvent, withParty bool) domain.JournalEntryLine {
	l := domain.JournalEntryLine{AccountID: accountID, Debit: decimal.Zero, Credit: amount, Description: event.Description}
	if withParty {
		l.PartyType = event.PartyType
		l.PartyID = event.PartyID
	}
	return l
}

// buildInvoiceLines: debit receivable for the gross, credit revenue for the
// net and tax payable for the tax.
func buildInvoiceLines(event domain.PostingEvent, r *accountResolver) ([]domain.JournalEntryLine, error) {
	net, err := requireAmount(event, domain.AmountNet)
	if err != nil {
		return nil, err
	}
	tax, err := optionalAmount(event, domain.AmountTax)
	if err != nil {
		return nil, err
	}
	gross := net.Add(tax)

	receivable, err := r.resolve(domain.PurposeReceivable)
	if err != nil {
		return nil, err
	}
	revenue, err := r.resolve(domain.PurposeRevenue)
	if err != nil {
		return nil, err
	}

	lines := []domain.JournalEntryLine{
		debitLine(receivable, gross, event, true),
		creditLine(revenue, net, event, false),
	}
	if tax.IsPositive() {
		taxPayable, err := r.resolve(domain.PurposeTaxPayable)
		if err != nil {
			return nil, err
		}
		lines = append(lines, creditLine(taxPayable, tax, event, false))
	}
	return lines, nil
}

// buildPaymentLines: debit bank, credit receivable.
func buildPaymentLines(event domain.PostingEvent, r *accountResolver) ([]domain.JournalEntryLine, error) {
	amount, err := requireAmount(event, domain.AmountGross)
	if err != nil {
		return nil, err
	}
	bank, err := r.resolve(domain.PurposeBank)
	if err != nil {
		return nil, err
	}
	receivable, err := r.resolve(domain.PurposeReceivable)
	if err != nil {
		return nil, err
	}
	return []domain.JournalEntryLine{
		debitLine(bank, amount, event, false),
		creditLine(receivable, amount, event, true),
	}, nil
}

// buildExpenseLines: debit expense (and tax payable for the input credit),
// credit bank for the total paid.
func buildExpenseLines(event domain.PostingEvent, r *accountResolver) ([]domain.JournalEntryLine, error) {
	net, err := requireAmount(event, domain.AmountNet)
	if err != nil {
		return nil, err
	}
	tax, err := optionalAmount(event, domain.AmountTax)
	if err != nil {
		return nil, err
	}

	expense, err := r.resolve(domain.PurposeExpense)
	if err != nil {
		return nil, err
	}
	bank, err := r.resolve(domain.PurposeBank)
	if err != nil {
		return nil, err
	}

	lines := []domain.JournalEntryLine{debitLine(expense, net, event, false)}
	if tax.IsPositive() {
		taxPayable, err := r.resolve(domain.PurposeTaxPayable)
		if err != nil {
			return nil, err
		}
		lines = append(lines, debitLine(taxPayable, tax, event, false))
	}
	lines = append(lines, creditLine(bank, net.Add(tax), event, false))
	return lines, nil
}

// buildVendorInvoiceLines: debit expense for the net and tax payable for the
// input credit, credit payable for the gross.
func buildVendorInvoiceLines(event domain.PostingEvent, r *accountResolver) ([]domain.JournalEntryLine, error) {
	net, err := requireAmount(event, domain.AmountNet)
	if err != nil {
		return nil, err
	}
	tax, err := optionalAmount(event, domain.AmountTax)
	if err != nil {
		return nil, err
	}
	gross := net.Add(tax)

	expense, err := r.resolve(domain.PurposeExpense)
	if err != nil {
		return nil, err
	}
	payable, err := r.resolve(domain.PurposePayable)
	if err != nil {
		return nil, err
	}

	lines := []domain.JournalEntryLine{debitLine(expense, net, event, false)}
	if tax.IsPositive() {
		taxPayable, err := r.resolve(domain.PurposeTaxPayable)
		if err != nil {
			return nil, err
		}
		lines = append(lines, debitLine(taxPayable, tax, event, false))
	}
	lines = append(lines, creditLine(payable, gross, event, true))
	return lines, nil
}

// buildVendorPaymentLines: debit payable for the gross, credit TDS payable
// for the withholding and bank for the net paid out.
func buildVendorPaymentLines(event domain.PostingEvent, r *accountResolver) ([]domain.JournalEntryLine, error) {
	gross, err := requireAmount(event, domain.AmountGross)
	if err != nil {
		return nil, err
	}
	tds, err := optionalAmount(event, domain.AmountTDS)
	if err != nil {
		return nil, err
	}
	if tds.GreaterThanOrEqual(gross) {
		return nil, fmt.Errorf("%w: TDS must be less than the gross amount", apperrors.ErrValidation)
	}

	payable, err := r.resolve(domain.PurposePayable)
	if err != nil {
		return nil, err
	}
	bank, err := r.resolve(domain.PurposeBank)
	if err != nil {
		return nil, err
	}

	lines := []domain.JournalEntryLine{debitLine(payable, gross, event, true)}
	if tds.IsPositive() {
		tdsPayable, err := r.resolve(domain.PurposeTDSPayable)
		if err != nil {
			return nil, err
		}
		lines = append(lines, creditLine(tdsPayable, tds, event, false))
	}
	lines = append(lines, creditLine(bank, gross.Sub(tds), event, false))
	return lines, nil
}

// buildPayrollLines: debit payroll expense for the gross, credit TDS payable
// for the withholding and bank for the net disbursed.
func buildPayrollLines(event domain.PostingEvent, r *accountResolver) ([]domain.JournalEntryLine, error) {
	gross, err := requireAmount(event, domain.AmountGross)
	if err != nil {
		return nil, err
	}
	tds, err := optionalAmount(event, domain.AmountTDS)
	if err != nil {
		return nil, err
	}
	if tds.GreaterThanOrEqual(gross) {
		return nil, fmt.Errorf("%w: TDS must be less than the gross amount", apperrors.ErrValidation)
	}

	payrollExpense, err := r.resolve(domain.PurposePayrollExpense)
	if err != nil {
		return nil, err
	}
	bank, err := r.resolve(domain.PurposeBank)
	if err != nil {
		return nil, err
	}

	lines := []domain.JournalEntryLine{debitLine(payrollExpense, gross, event, false)}
	if tds.IsPositive() {
		tdsPayable, err := r.resolve(domain.PurposeTDSPayable)
		if err != nil {
			return nil, err
		}
		lines = append(lines, creditLine(tdsPayable, tds, event, false))
	}
	lines = append(lines, creditLine(bank, gross.Sub(tds), event, false))
	return lines, nil
}

// buildLoanPaymentLines: one EMI splits into interest expense and principal
// against the loan liability, all paid from bank.
func buildLoanPaymentLines(event domain.PostingEvent, r *accountResolver) ([]domain.JournalEntryLine, error) {
	principal, err := requireAmount(event, domain.AmountPrincipal)
	if err != nil {
		return nil, err
	}
	interest, err := requireAmount(event, domain.AmountInterest)
	if err != nil {
		return nil, err
	}

	interestExpense, err := r.resolve(domain.PurposeInterestExpense)
	if err != nil {
		return nil, err
	}
	loanLiability, err := r.resolve(domain.PurposeLoanLiability)
	if err != nil {
		return nil, err
	}
	bank, err := r.resolve(domain.PurposeBank)
	if err != nil {
		return nil, err
	}

	return []domain.JournalEntryLine{
		debitLine(interestExpense, interest, event, false),
		debitLine(loanLiability, principal, event, false),
		creditLine(bank, principal.Add(interest), event, false),
	}, nil
}

// buildLoanPrepaymentLines: principal-only reduction of the loan liability.
func buildLoanPrepaymentLines(event domain.PostingEvent, r *accountResolver) ([]domain.JournalEntryLine, error) {
	principal, err := requireAmount(event, domain.AmountPrincipal)
	if err != nil {
		return nil, err
	}
	loanLiability, err := r.resolve(domain.PurposeLoanLiability)
	if err != nil {
		return nil, err
	}
	bank, err := r.resolve(domain.PurposeBank)
	if err != nil {
		return nil, err
	}
	return []domain.JournalEntryLine{
		debitLine(loanLiability, principal, event, false),
		creditLine(bank, principal, event, false),
	}, nil
}

// buildSignedPurposeLines handles MANUAL and BANK_ADJUSTMENT events. Each
// amount is keyed by an account purpose and signed: positive amounts debit
// the resolved account, negative amounts credit it. Balance is enforced by
// entry validation downstream.
func buildSignedPurposeLines(event domain.PostingEvent, r *accountResolver) ([]domain.JournalEntryLine, error) {
	if len(event.Amounts) < 2 {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, domain.ErrEntryMinLines.Error())
	}

	fields := make([]domain.AmountField, 0, len(event.Amounts))
	for field := range event.Amounts {
		fields = append(fields, field)
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i] < fields[j] })

	lines := make([]domain.JournalEntryLine, 0, len(fields))
	for _, field := range fields {
		amount := event.Amounts[field]
		if amount.IsZero() {
			return nil, fmt.Errorf("%w: amount for %q is zero", apperrors.ErrValidation, field)
		}
		accountID, err := r.resolve(domain.AccountPurpose(field))
		if err != nil {
			return nil, err
		}
		if amount.IsPositive() {
			lines = append(lines, debitLine(accountID, amount, event, true))
		} else {
			lines = append(lines, creditLine(accountID, amount.Neg(), event, true))
		}
	}
	return lines, nil
}
