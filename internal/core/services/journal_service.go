package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/dto"
	"github.com/finbooks/finbooks_backend/internal/utils/accounting"
)

const (
	defaultEntryPageSize = 20
	maxEntryPageSize     = 100
)

// journalService implements the structural journal mechanics every posting
// path goes through: validation, persistence, the Draft to Posted transition
// and reversal. It never decides WHICH lines to write; that is the
// auto-posting service's job.
type journalService struct {
	BaseService
	journalRepo portsrepo.JournalRepositoryWithTx
	accountSvc  portssvc.AccountReaderSvc
	companySvc  portssvc.CompanySvcFacade
}

// NewJournalService creates a new JournalSvcFacade.
func NewJournalService(journalRepo portsrepo.JournalRepositoryWithTx, accountSvc portssvc.AccountReaderSvc, companySvc portssvc.CompanySvcFacade) portssvc.JournalSvcFacade {
	return &journalService{
		journalRepo: journalRepo,
		accountSvc:  accountSvc,
		companySvc:  companySvc,
	}
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// loadLineAccounts fetches the accounts an entry's lines touch and checks
// every one is active. Returned map is keyed by account ID.
func (s *journalService) loadLineAccounts(ctx context.Context, companyID string, lines []domain.JournalEntryLine) (map[string]domain.Account, error) {
	ids := make([]string, 0, len(lines))
	seen := make(map[string]struct{}, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.AccountID]; ok {
			continue
		}
		seen[l.AccountID] = struct{}{}
		ids = append(ids, l.AccountID)
	}

	accounts, err := s.accountSvc.GetAccountsByIDs(ctx, companyID, ids)
	if err != nil {
		return nil, err
	}
	for id, acc := range accounts {
		if !acc.IsActive {
			return nil, fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, id)
		}
	}
	return accounts, nil
}

// balanceChanges computes the signed closing-balance delta per account that
// posting these lines causes. Signs follow the normal balance side, so a
// debit to an asset and a credit to a liability are both positive.
func balanceChanges(lines []domain.JournalEntryLine, accounts map[string]domain.Account) (map[string]decimal.Decimal, error) {
	types := make(map[string]domain.AccountType, len(accounts))
	for id, acc := range accounts {
		types[id] = acc.AccountType
	}
	return accounting.NetChanges(lines, types)
}

func (s *journalService) CreateEntry(ctx context.Context, entry domain.JournalEntry, post bool, actorID string) (*domain.JournalEntry, error) {
	if err := entry.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}

	company, err := s.companySvc.GetCompanyByID(ctx, entry.CompanyID)
	if err != nil {
		return nil, err
	}

	accounts, err := s.loadLineAccounts(ctx, entry.CompanyID, entry.Lines)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	entry.EntryID = uuid.NewString()
	entry.FinancialYear = accounting.FinancialYear(entry.EntryDate, company.FYStartMonth)
	entry.Status = domain.Draft
	entry.EntryNumber = 0 // allocated at posting
	entry.AuditFields = domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     actorID,
		LastUpdatedAt: now,
		LastUpdatedBy: actorID,
	}
	for i := range entry.Lines {
		entry.Lines[i].LineID = uuid.NewString()
		entry.Lines[i].EntryID = entry.EntryID
	}

	var changes map[string]decimal.Decimal
	if post {
		entry.Status = domain.Posted
		entry.PostedBy = actorID
		entry.PostedAt = &now
		changes, err = balanceChanges(entry.Lines, accounts)
		if err != nil {
			return nil, err
		}
	}

	saved, err := s.journalRepo.SaveEntry(ctx, entry, changes)
	if err != nil {
		s.LogError(ctx, err, "failed to save journal entry",
			"company_id", entry.CompanyID, "source_type", entry.SourceType, "source_id", entry.SourceID)
		return nil, err
	}

	s.LogInfo(ctx, "journal entry created",
		"company_id", saved.CompanyID, "entry_id", saved.EntryID, "status", saved.Status, "entry_number", saved.EntryNumber)
	return saved, nil
}

func (s *journalService) PostDraft(ctx context.Context, companyID, entryID, actorID string) (*domain.JournalEntry, error) {
	entry, err := s.getEntryWithLines(ctx, companyID, entryID)
	if err != nil {
		return nil, err
	}
	if entry.Status != domain.Draft {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrConflict, domain.ErrEntryNotDraft.Error())
	}

	accounts, err := s.loadLineAccounts(ctx, companyID, entry.Lines)
	if err != nil {
		return nil, err
	}
	changes, err := balanceChanges(entry.Lines, accounts)
	if err != nil {
		return nil, err
	}

	posted, err := s.journalRepo.PostDraftEntry(ctx, *entry, actorID, time.Now(), changes)
	if err != nil {
		s.LogError(ctx, err, "failed to post draft entry", "company_id", companyID, "entry_id", entryID)
		return nil, err
	}

	s.LogInfo(ctx, "draft entry posted", "company_id", companyID, "entry_id", entryID, "entry_number", posted.EntryNumber)
	return posted, nil
}

func (s *journalService) ReverseEntry(ctx context.Context, companyID, entryID string, reversalDate time.Time, actorID string) (*domain.JournalEntry, error) {
	original, err := s.getEntryWithLines(ctx, companyID, entryID)
	if err != nil {
		return nil, err
	}

	switch {
	case original.Status == domain.Reversed:
		return nil, fmt.Errorf("%w: %s", apperrors.ErrConflict, domain.ErrAlreadyReversed.Error())
	case original.Status != domain.Posted:
		return nil, fmt.Errorf("%w: %s", apperrors.ErrConflict, domain.ErrEntryNotPosted.Error())
	case original.ReversalOfID != nil:
		return nil, fmt.Errorf("%w: %s", apperrors.ErrConflict, domain.ErrEntryIsReversal.Error())
	}
	if reversalDate.Before(original.EntryDate) {
		return nil, fmt.Errorf("%w: reversal date precedes the original entry date", apperrors.ErrValidation)
	}

	company, err := s.companySvc.GetCompanyByID(ctx, companyID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	reversing := domain.JournalEntry{
		EntryID:       uuid.NewString(),
		CompanyID:     companyID,
		FinancialYear: accounting.FinancialYear(reversalDate, company.FYStartMonth),
		EntryDate:     reversalDate,
		SourceType:    original.SourceType,
		SourceID:      original.EntryID + "-REV",
		Description:   fmt.Sprintf("Reversal of entry #%d: %s", original.EntryNumber, original.Description),
		Status:        domain.Posted,
		PostedBy:      actorID,
		PostedAt:      &now,
		ReversalOfID:  &original.EntryID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}
	reversing.Lines = make([]domain.JournalEntryLine, len(original.Lines))
	for i, l := range original.Lines {
		m := l.Mirror()
		m.LineID = uuid.NewString()
		m.EntryID = reversing.EntryID
		reversing.Lines[i] = m
	}

	accounts, err := s.loadLineAccounts(ctx, companyID, reversing.Lines)
	if err != nil {
		return nil, err
	}
	changes, err := balanceChanges(reversing.Lines, accounts)
	if err != nil {
		return nil, err
	}

	saved, err := s.journalRepo.SaveReversal(ctx, *original, reversing, changes)
	if err != nil {
		s.LogError(ctx, err, "failed to reverse entry", "company_id", companyID, "entry_id", entryID)
		return nil, err
	}

	s.LogInfo(ctx, "entry reversed",
		"company_id", companyID, "original_entry_id", entryID, "reversing_entry_id", saved.EntryID)
	return saved, nil
}

func (s *journalService) GetEntryByID(ctx context.Context, companyID, entryID string) (*domain.JournalEntry, error) {
	return s.getEntryWithLines(ctx, companyID, entryID)
}

func (s *journalService) ListEntries(ctx context.Context, companyID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultEntryPageSize
	}
	if limit > maxEntryPageSize {
		limit = maxEntryPageSize
	}

	entries, nextToken, err := s.journalRepo.ListEntries(ctx, companyID, limit, params.NextToken, params.IncludeDrafts)
	if err != nil {
		s.LogError(ctx, err, "failed to list journal entries", "company_id", companyID)
		return nil, err
	}

	return &dto.ListEntriesResponse{
		Entries:   dto.ToEntryResponses(entries),
		NextToken: nextToken,
	}, nil
}

func (s *journalService) getEntryWithLines(ctx context.Context, companyID, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, companyID, entryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: entry %s", apperrors.ErrNotFound, entryID)
		}
		return nil, err
	}
	lines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	entry.Lines = lines
	return entry, nil
}
