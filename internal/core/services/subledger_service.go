package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
)

// subledgerService derives party-level views by replaying the party-tagged
// lines on control accounts. Nothing here is stored; the journal remains the
// single source of truth.
type subledgerService struct {
	BaseService
	subledgerRepo portsrepo.SubledgerRepository
	accountRepo   portsrepo.AccountRepositoryFacade
	companySvc    portssvc.CompanySvcFacade
}

// NewSubledgerService creates a new SubledgerSvcFacade.
func NewSubledgerService(subledgerRepo portsrepo.SubledgerRepository, accountRepo portsrepo.AccountRepositoryFacade, companySvc portssvc.CompanySvcFacade) portssvc.SubledgerSvcFacade {
	return &subledgerService{
		subledgerRepo: subledgerRepo,
		accountRepo:   accountRepo,
		companySvc:    companySvc,
	}
}

var _ portssvc.SubledgerSvcFacade = (*subledgerService)(nil)

func partyTypeFor(controlType domain.ControlAccountType) string {
	if controlType == domain.ControlAR {
		return PartyCustomer
	}
	return PartyVendor
}

func (s *subledgerService) AgingReport(ctx context.Context, companyID string, controlType domain.ControlAccountType, asOf time.Time, boundaries []int) (*domain.AgingReport, error) {
	if _, err := s.companySvc.GetCompanyByID(ctx, companyID); err != nil {
		return nil, err
	}
	if len(boundaries) == 0 {
		boundaries = domain.DefaultAgingBoundaries
	} else if err := validateAgingBoundaries(boundaries); err != nil {
		return nil, err
	}

	lines, err := s.subledgerRepo.ListPartyLines(ctx, companyID, controlType, asOf)
	if err != nil {
		s.LogError(ctx, err, "failed to load subledger lines", "company_id", companyID, "control_type", controlType)
		return nil, err
	}

	report := &domain.AgingReport{
		CompanyID: companyID,
		AsOf:      asOf,
		PartyType: partyTypeFor(controlType),
		Totals:    newAgingBuckets(boundaries),
	}

	// Lines arrive ordered by party, then entry date, then entry number, so
	// one pass groups them.
	var (
		current []portsrepo.SubledgerDocLine
		flush   = func() error {
			if len(current) == 0 {
				return nil
			}
			party, err := agePartyLines(current, controlType, asOf, boundaries)
			if err != nil {
				return err
			}
			if party != nil {
				report.Parties = append(report.Parties, *party)
				for i, b := range party.Buckets {
					report.Totals[i].Amount = report.Totals[i].Amount.Add(b.Amount)
					report.Totals[i].HomeAmount = report.Totals[i].HomeAmount.Add(b.HomeAmount)
				}
			}
			current = current[:0]
			return nil
		}
	)
	for _, line := range lines {
		if len(current) > 0 && (current[0].PartyType != line.PartyType || current[0].PartyID != line.PartyID) {
			if err := flush(); err != nil {
				return nil, err
			}
		}
		current = append(current, line)
	}
	if err := flush(); err != nil {
		return nil, err
	}

	return report, nil
}

// agePartyLines settles one party's documents first-in-first-out and ages the
// open remainders by days past due. Due date falls back to the entry date
// when a document carries none. Returns nil when the party nets to zero.
func agePartyLines(lines []portsrepo.SubledgerDocLine, controlType domain.ControlAccountType, asOf time.Time, boundaries []int) (*domain.PartyAging, error) {
	type openDoc struct {
		due    time.Time
		amount decimal.Decimal
	}

	var docs []openDoc
	settled := decimal.Zero
	for _, l := range lines {
		// For receivables the debit side raises a document and the credit
		// side settles it; payables are the mirror image.
		charge, settle := l.Debit, l.Credit
		if controlType == domain.ControlAP {
			charge, settle = l.Credit, l.Debit
		}
		if charge.IsPositive() {
			due := l.EntryDate
			if l.DueDate != nil {
				due = *l.DueDate
			}
			docs = append(docs, openDoc{due: due, amount: charge})
		}
		settled = settled.Add(settle)
	}

	// FIFO: settlements consume the oldest documents first.
	buckets := newAgingBuckets(boundaries)
	total := decimal.Zero
	for _, doc := range docs {
		if settled.GreaterThanOrEqual(doc.amount) {
			settled = settled.Sub(doc.amount)
			continue
		}
		open := doc.amount.Sub(settled)
		settled = decimal.Zero

		days := int(asOf.Sub(doc.due).Hours() / 24)
		if days < 0 {
			days = 0
		}
		idx := bucketIndex(days, boundaries)
		buckets[idx].Amount = buckets[idx].Amount.Add(open)
		buckets[idx].HomeAmount = buckets[idx].HomeAmount.Add(open)
		total = total.Add(open)
	}

	// Over-settlement (advances) keeps the party off the aging report; it
	// shows up in the party ledger instead.
	if total.IsZero() {
		return nil, nil
	}

	return &domain.PartyAging{
		PartyType: lines[0].PartyType,
		PartyID:   lines[0].PartyID,
		PartyName: lines[0].PartyName,
		Buckets:   buckets,
		Total:     total,
		HomeTotal: total,
	}, nil
}

func validateAgingBoundaries(boundaries []int) error {
	prev := 0
	for _, boundary := range boundaries {
		if boundary <= prev {
			return fmt.Errorf("%w: aging boundaries must be strictly increasing positive day counts", apperrors.ErrValidation)
		}
		prev = boundary
	}
	return nil
}

func newAgingBuckets(boundaries []int) []domain.AgingBucket {
	buckets := make([]domain.AgingBucket, 0, len(boundaries)+1)
	from := 0
	for _, boundary := range boundaries {
		to := boundary
		buckets = append(buckets, domain.AgingBucket{
			Label:      fmt.Sprintf("%d-%d", from, to),
			FromDays:   from,
			ToDays:     &to,
			Amount:     decimal.Zero,
			HomeAmount: decimal.Zero,
		})
		from = boundary + 1
	}
	buckets = append(buckets, domain.AgingBucket{
		Label:      fmt.Sprintf("%d+", boundaries[len(boundaries)-1]),
		FromDays:   from,
		Amount:     decimal.Zero,
		HomeAmount: decimal.Zero,
	})
	return buckets
}

func bucketIndex(days int, boundaries []int) int {
	for i, boundary := range boundaries {
		if days <= boundary {
			return i
		}
	}
	return len(boundaries)
}

func (s *subledgerService) PartyLedger(ctx context.Context, companyID, partyType, partyID string, from, to time.Time) (*domain.PartyLedger, error) {
	opening, err := s.subledgerRepo.GetPartyOpeningBalance(ctx, companyID, partyType, partyID, from)
	if err != nil {
		return nil, err
	}
	lines, err := s.subledgerRepo.ListLinesForParty(ctx, companyID, partyType, partyID, from, to)
	if err != nil {
		return nil, err
	}

	ledger := &domain.PartyLedger{
		CompanyID:      companyID,
		PartyType:      partyType,
		PartyID:        partyID,
		FromDate:       from,
		ToDate:         to,
		OpeningBalance: opening,
		Lines:          make([]domain.PartyLedgerLine, 0, len(lines)),
	}

	// Running balance is debits minus credits throughout, so receivable
	// parties run positive and payable parties run negative.
	running := opening
	for _, l := range lines {
		running = running.Add(l.Debit).Sub(l.Credit)
		ledger.Lines = append(ledger.Lines, domain.PartyLedgerLine{
			EntryID:        l.EntryID,
			EntryNumber:    l.EntryNumber,
			EntryDate:      l.EntryDate,
			SourceType:     l.SourceType,
			Description:    l.Description,
			Debit:          l.Debit,
			Credit:         l.Credit,
			RunningBalance: running,
		})
	}
	ledger.ClosingBalance = running
	return ledger, nil
}

func (s *subledgerService) PartyBalances(ctx context.Context, companyID string, controlType domain.ControlAccountType, asOf time.Time) ([]domain.PartyBalance, error) {
	control, err := s.controlAccount(ctx, companyID, controlType)
	if err != nil {
		return nil, err
	}
	return s.subledgerRepo.ListPartyBalances(ctx, companyID, control.AccountID, asOf)
}

func (s *subledgerService) ReconcileControl(ctx context.Context, companyID string, controlType domain.ControlAccountType, asOf time.Time) (*domain.ControlReconciliation, error) {
	control, err := s.controlAccount(ctx, companyID, controlType)
	if err != nil {
		return nil, err
	}

	controlBalance, err := s.subledgerRepo.GetControlAccountBalance(ctx, companyID, control.AccountID, asOf)
	if err != nil {
		return nil, err
	}
	parties, err := s.subledgerRepo.ListPartyBalances(ctx, companyID, control.AccountID, asOf)
	if err != nil {
		return nil, err
	}

	subledgerBalance := decimal.Zero
	for _, p := range parties {
		subledgerBalance = subledgerBalance.Add(p.Balance)
	}

	difference := controlBalance.Sub(subledgerBalance)
	result := &domain.ControlReconciliation{
		CompanyID:        companyID,
		AccountID:        control.AccountID,
		AccountName:      control.Name,
		ControlType:      controlType,
		AsOf:             asOf,
		ControlBalance:   controlBalance,
		SubledgerBalance: subledgerBalance,
		Difference:       difference,
		InAgreement:      domain.WithinTolerance(controlBalance, subledgerBalance),
		Parties:          parties,
	}

	if !result.InAgreement {
		s.LogWarn(ctx, "control account diverges from subledger",
			"company_id", companyID, "account_id", control.AccountID, "difference", difference.String())
	}
	return result, nil
}

func (s *subledgerService) controlAccount(ctx context.Context, companyID string, controlType domain.ControlAccountType) (*domain.Account, error) {
	controls, err := s.accountRepo.ListControlAccounts(ctx, companyID)
	if err != nil {
		return nil, err
	}
	for i := range controls {
		if controls[i].ControlAccountType == controlType {
			return &controls[i], nil
		}
	}
	return nil, fmt.Errorf("%w: no %s control account configured", apperrors.ErrNotFound, controlType)
}
