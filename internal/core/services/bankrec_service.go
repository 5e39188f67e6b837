package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
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
	"github.com/finbooks/finbooks_backend/internal/utils/matching"
)

const defaultBankTxnPageSize = 50

// differenceContraPurposes maps each difference classification to the account
// purpose its adjustment entry posts against.
var differenceContraPurposes = map[domain.DifferenceType]domain.AccountPurpose{
	domain.DiffBankInterest: domain.PurposeOtherIncome,
	domain.DiffBankCharges:  domain.PurposeBankCharges,
	domain.DiffTDSDeducted:  domain.PurposeTDSReceivable,
	domain.DiffRoundOff:     domain.PurposeRoundOff,
	domain.DiffForexGain:    domain.PurposeForexGain,
	domain.DiffForexLoss:    domain.PurposeForexLoss,
	domain.DiffOtherIncome:  domain.PurposeOtherIncome,
	domain.DiffOtherExpense: domain.PurposeOtherExpense,
}

// bankRecService drives statement import, matching, linking and the
// reconciliation statements. All mutations go through version-checked
// repository writes; a concurrent link to the same transaction loses with
// ErrConflict instead of double-reconciling.
type bankRecService struct {
	BaseService
	bankRepo    portsrepo.BankRepositoryFacade
	journalRepo portsrepo.JournalReader
	journalSvc  portssvc.JournalWriterSvc
	autoPostSvc portssvc.AutoPostSvcFacade
	companySvc  portssvc.CompanySvcFacade
}

// NewBankRecService creates a new BankRecSvcFacade.
func NewBankRecService(bankRepo portsrepo.BankRepositoryFacade, journalRepo portsrepo.JournalReader, journalSvc portssvc.JournalWriterSvc, autoPostSvc portssvc.AutoPostSvcFacade, companySvc portssvc.CompanySvcFacade) portssvc.BankRecSvcFacade {
	return &bankRecService{
		bankRepo:    bankRepo,
		journalRepo: journalRepo,
		journalSvc:  journalSvc,
		autoPostSvc: autoPostSvc,
		companySvc:  companySvc,
	}
}

var _ portssvc.BankRecSvcFacade = (*bankRecService)(nil)

// contentHash fingerprints one statement line so re-imports of overlapping
// statements skip lines already present. ordinal is the zero-based count of
// textually identical lines seen earlier in the same batch: the first
// occurrence hashes the same across imports, while repeated identical lines
// (several equal ATM withdrawals on one day) get distinct hashes and coexist.
func contentHash(companyID, bankAccountID string, line dto.StatementLine, ordinal int) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%s|%s|%s|%s|%s|%d",
		companyID, bankAccountID, line.Date.Format("2006-01-02"), line.Type,
		line.Amount.String(), line.ReferenceNumber, line.Description, ordinal)
	return hex.EncodeToString(h.Sum(nil))
}

func (s *bankRecService) ImportStatement(ctx context.Context, companyID string, req dto.ImportStatementRequest, actorID string) (*domain.StatementImportResult, error) {
	if _, err := s.companySvc.GetCompanyByID(ctx, companyID); err != nil {
		return nil, err
	}

	batchID := uuid.NewString()
	now := time.Now()
	result := &domain.StatementImportResult{BatchID: batchID}

	txns := make([]domain.BankTransaction, 0, len(req.Lines))
	seen := make(map[string]int)
	for _, line := range req.Lines {
		if !line.Amount.IsPositive() {
			result.Failed++
			continue
		}
		fingerprint := contentHash(companyID, req.BankAccountID, line, 0)
		ordinal := seen[fingerprint]
		seen[fingerprint] = ordinal + 1
		txn := domain.BankTransaction{
			TransactionID:   uuid.NewString(),
			CompanyID:       companyID,
			BankAccountID:   req.BankAccountID,
			Date:            line.Date,
			Type:            domain.BankTxnType(line.Type),
			Amount:          line.Amount,
			ReferenceNumber: line.ReferenceNumber,
			Description:     line.Description,
			ImportBatchID:   &batchID,
			ContentHash:     contentHash(companyID, req.BankAccountID, line, ordinal),
			Version:         1,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     actorID,
				LastUpdatedAt: now,
				LastUpdatedBy: actorID,
			},
		}
		txn.IsReversal = matching.DetectReversal(txn).IsLikely
		txns = append(txns, txn)
	}

	inserted, conflicted, err := s.bankRepo.InsertStatementLines(ctx, txns)
	if err != nil {
		s.LogError(ctx, err, "failed to import statement lines",
			"company_id", companyID, "bank_account_id", req.BankAccountID, "batch_id", batchID)
		return nil, err
	}
	result.Imported = inserted
	// A conflicted line is one already imported earlier. With dedup on that
	// is the expected skip; with dedup off it is a per-line failure, never a
	// batch abort.
	if req.Dedup {
		result.Skipped = conflicted
	} else {
		result.Failed += conflicted
	}

	s.LogInfo(ctx, "statement imported",
		"company_id", companyID, "bank_account_id", req.BankAccountID, "batch_id", batchID,
		"imported", inserted, "skipped", result.Skipped, "failed", result.Failed)
	return result, nil
}

func (s *bankRecService) GetBankTransaction(ctx context.Context, companyID, transactionID string) (*domain.BankTransaction, error) {
	return s.bankRepo.FindBankTransactionByID(ctx, companyID, transactionID)
}

func (s *bankRecService) ListBankTransactions(ctx context.Context, companyID, bankAccountID string, unreconciledOnly bool, limit int, nextToken string) ([]domain.BankTransaction, string, error) {
	if unreconciledOnly {
		txns, err := s.bankRepo.ListUnreconciled(ctx, companyID, bankAccountID, time.Now())
		if err != nil {
			return nil, "", err
		}
		return txns, "", nil
	}

	if limit <= 0 {
		limit = defaultBankTxnPageSize
	}
	var tokenPtr *string
	if nextToken != "" {
		tokenPtr = &nextToken
	}
	txns, next, err := s.bankRepo.ListBankTransactions(ctx, companyID, bankAccountID, limit, tokenPtr)
	if err != nil {
		return nil, "", err
	}
	nextOut := ""
	if next != nil {
		nextOut = *next
	}
	return txns, nextOut, nil
}

func (s *bankRecService) SuggestCandidates(ctx context.Context, companyID, transactionID string, req dto.CandidateSearchRequest) ([]domain.ReconciliationSuggestion, error) {
	txn, err := s.bankRepo.FindBankTransactionByID(ctx, companyID, transactionID)
	if err != nil {
		return nil, err
	}

	filter := portsrepo.CandidateFilter{
		CompanyID:         companyID,
		BankAccountID:     txn.BankAccountID,
		AmountMin:         req.AmountMin,
		AmountMax:         req.AmountMax,
		DateFrom:          req.DateFrom,
		DateTo:            req.DateTo,
		Text:              req.Text,
		IncludeReconciled: req.IncludeReconciled,
	}
	if req.BankAccountID != "" {
		filter.BankAccountID = req.BankAccountID
	}
	if req.Type != "" {
		t := domain.BankTxnType(req.Type)
		filter.Type = &t
	}
	for _, rt := range req.RecordTypes {
		filter.RecordTypes = append(filter.RecordTypes, domain.ReconciledType(rt))
	}

	candidates, err := s.bankRepo.SearchCandidates(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "candidate search failed", "company_id", companyID, "transaction_id", transactionID)
		return nil, err
	}

	return matching.Rank(*txn, candidates), nil
}

func (s *bankRecService) RegisterRecord(ctx context.Context, companyID string, req dto.RegisterRecordRequest, actorID string) error {
	record := domain.ReconCandidate{
		RecordType:      domain.ReconciledType(req.RecordType),
		RecordID:        req.RecordID,
		Date:            req.Date,
		Amount:          req.Amount,
		ReferenceNumber: req.ReferenceNumber,
		Description:     req.Description,
		PartyName:       req.PartyName,
		CreatedAt:       time.Now(),
	}
	if !record.Amount.IsPositive() {
		return fmt.Errorf("%w: record amount must be positive", apperrors.ErrValidation)
	}

	if err := s.bankRepo.SaveRecord(ctx, companyID, record, req.TDSSection, req.TDSAmount); err != nil {
		s.LogError(ctx, err, "failed to register record",
			"company_id", companyID, "record_type", req.RecordType, "record_id", req.RecordID)
		return err
	}
	return nil
}

func (s *bankRecService) LinkRecord(ctx context.Context, companyID, transactionID string, req dto.LinkRecordRequest, actorID string) (*domain.BankTransaction, error) {
	txn, err := s.bankRepo.FindBankTransactionByID(ctx, companyID, transactionID)
	if err != nil {
		return nil, err
	}
	recordType := domain.ReconciledType(req.RecordType)
	if txn.IsReconciled() {
		// Re-linking the same record is an idempotent no-op; only a
		// different record conflicts.
		if *txn.ReconciledType == recordType && *txn.ReconciledID == req.RecordID {
			return txn, nil
		}
		return nil, fmt.Errorf("%w: transaction %s is already reconciled", apperrors.ErrConflict, transactionID)
	}

	record, err := s.bankRepo.FindRecord(ctx, companyID, recordType, req.RecordID)
	if err != nil {
		return nil, err
	}
	if record.Reconciled {
		return nil, fmt.Errorf("%w: record %s/%s is already reconciled", apperrors.ErrConflict, req.RecordType, req.RecordID)
	}

	if err := s.bankRepo.SetReconciliation(ctx, txn.TransactionID, txn.Version, recordType, record.RecordID, time.Now()); err != nil {
		return nil, err
	}
	if err := s.bankRepo.SetRecordReconciled(ctx, companyID, recordType, record.RecordID, true); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "bank transaction linked",
		"company_id", companyID, "transaction_id", transactionID, "record_type", req.RecordType, "record_id", req.RecordID)
	return s.bankRepo.FindBankTransactionByID(ctx, companyID, transactionID)
}

func (s *bankRecService) LinkJournalEntry(ctx context.Context, companyID, transactionID string, req dto.LinkJournalRequest, actorID string) (*domain.BankTransaction, error) {
	txn, err := s.bankRepo.FindBankTransactionByID(ctx, companyID, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.IsReconciled() {
		return nil, fmt.Errorf("%w: transaction %s is already reconciled", apperrors.ErrConflict, transactionID)
	}

	entry, err := s.journalRepo.FindEntryByID(ctx, companyID, req.EntryID)
	if err != nil {
		return nil, err
	}
	if entry.Status != domain.Posted {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrConflict, domain.ErrEntryNotPosted.Error())
	}

	// A classified difference becomes its own balancing entry so the ledger
	// absorbs exactly what the bank statement shows. DifferenceAmount is the
	// bank amount minus the ledger amount.
	if req.DifferenceAmount != nil && !req.DifferenceAmount.IsZero() {
		if _, err := s.postDifferenceAdjustment(ctx, companyID, txn, *req.DifferenceAmount, domain.DifferenceType(req.DifferenceType), actorID); err != nil {
			return nil, err
		}
	}

	if err := s.bankRepo.SetReconciliation(ctx, txn.TransactionID, txn.Version, domain.ReconJournal, entry.EntryID, time.Now()); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "bank transaction linked to journal entry",
		"company_id", companyID, "transaction_id", transactionID, "entry_id", entry.EntryID)
	return s.bankRepo.FindBankTransactionByID(ctx, companyID, transactionID)
}

func (s *bankRecService) postDifferenceAdjustment(ctx context.Context, companyID string, txn *domain.BankTransaction, difference decimal.Decimal, diffType domain.DifferenceType, actorID string) (*domain.JournalEntry, error) {
	contra, ok := differenceContraPurposes[diffType]
	if !ok {
		return nil, fmt.Errorf("%w: unknown difference type %q", apperrors.ErrValidation, diffType)
	}
	if difference.Abs().GreaterThan(txn.Amount) {
		return nil, fmt.Errorf("%w: difference exceeds the transaction amount", apperrors.ErrValidation)
	}

	event := domain.PostingEvent{
		SourceType:  domain.SourceBankAdjustment,
		SourceID:    txn.TransactionID + "-adj",
		Date:        txn.Date,
		Description: fmt.Sprintf("Reconciliation adjustment (%s) for bank txn %s", diffType, txn.ReferenceNumber),
		Amounts: map[domain.AmountField]decimal.Decimal{
			domain.AmountField(domain.PurposeBank): difference,
			domain.AmountField(contra):             difference.Neg(),
		},
		Accounts: map[domain.AccountPurpose]string{
			domain.PurposeBank: txn.BankAccountID,
		},
	}
	return s.autoPostSvc.PostEvent(ctx, companyID, event, true, actorID)
}

func (s *bankRecService) Unlink(ctx context.Context, companyID, transactionID string, actorID string) (*domain.BankTransaction, error) {
	txn, err := s.bankRepo.FindBankTransactionByID(ctx, companyID, transactionID)
	if err != nil {
		return nil, err
	}
	if !txn.IsReconciled() {
		return nil, fmt.Errorf("%w: transaction %s is not reconciled", apperrors.ErrConflict, transactionID)
	}

	if err := s.bankRepo.ClearReconciliation(ctx, txn.TransactionID, txn.Version); err != nil {
		return nil, err
	}
	// Journal links have no record-side flag to restore.
	if *txn.ReconciledType != domain.ReconJournal {
		if err := s.bankRepo.SetRecordReconciled(ctx, companyID, *txn.ReconciledType, *txn.ReconciledID, false); err != nil {
			return nil, err
		}
	}

	s.LogInfo(ctx, "bank transaction unlinked", "company_id", companyID, "transaction_id", transactionID)
	return s.bankRepo.FindBankTransactionByID(ctx, companyID, transactionID)
}

func (s *bankRecService) DetectReversal(ctx context.Context, companyID, transactionID string) (*domain.ReversalDetection, error) {
	txn, err := s.bankRepo.FindBankTransactionByID(ctx, companyID, transactionID)
	if err != nil {
		return nil, err
	}
	detection := matching.DetectReversal(*txn)
	return &detection, nil
}

// Search bounds for candidate originals: the original precedes the reversal
// by at most the lookback, within a relative amount band.
const originalLookbackDays = 90

var originalAmountBand = decimal.NewFromFloat(0.01)

func (s *bankRecService) SuggestOriginals(ctx context.Context, companyID, transactionID string) ([]domain.ReversalOriginalSuggestion, error) {
	txn, err := s.bankRepo.FindBankTransactionByID(ctx, companyID, transactionID)
	if err != nil {
		return nil, err
	}

	tolerance := txn.Amount.Mul(originalAmountBand)
	if tolerance.LessThan(domain.BalanceTolerance) {
		tolerance = domain.BalanceTolerance
	}
	from := txn.Date.AddDate(0, 0, -originalLookbackDays)

	candidates, err := s.bankRepo.FindReversalCandidates(ctx, companyID, txn.BankAccountID, txn.Type, txn.Amount, tolerance, from, txn.Date)
	if err != nil {
		s.LogError(ctx, err, "original search failed", "company_id", companyID, "transaction_id", transactionID)
		return nil, err
	}

	return matching.RankOriginals(*txn, candidates), nil
}

func (s *bankRecService) PairReversal(ctx context.Context, companyID, transactionID string, req dto.PairReversalRequest, actorID string) (*domain.BankTransaction, error) {
	if transactionID == req.OriginalTransactionID {
		return nil, fmt.Errorf("%w: a transaction cannot pair with itself", apperrors.ErrValidation)
	}

	reversal, err := s.bankRepo.FindBankTransactionByID(ctx, companyID, transactionID)
	if err != nil {
		return nil, err
	}
	original, err := s.bankRepo.FindBankTransactionByID(ctx, companyID, req.OriginalTransactionID)
	if err != nil {
		return nil, err
	}

	switch {
	case reversal.BankAccountID != original.BankAccountID:
		return nil, fmt.Errorf("%w: transactions belong to different bank accounts", apperrors.ErrValidation)
	case reversal.Type == original.Type:
		return nil, fmt.Errorf("%w: a reversal must have the opposite direction of its original", apperrors.ErrValidation)
	case !domain.WithinTolerance(reversal.Amount, original.Amount):
		return nil, fmt.Errorf("%w: reversal amount does not match the original", apperrors.ErrValidation)
	case reversal.IsReconciled():
		return nil, fmt.Errorf("%w: a reconciled transaction cannot be paired as a reversal", apperrors.ErrConflict)
	case reversal.IsPaired() || original.IsPaired():
		return nil, fmt.Errorf("%w: transaction is already paired", apperrors.ErrConflict)
	}

	// An original already carried into the ledger needs its entry backed
	// out, or the books keep an amount the bank has taken back.
	if original.IsReconciled() {
		entryID, err := s.linkedEntryID(ctx, companyID, original)
		if err != nil {
			return nil, err
		}
		if entryID != "" {
			reversingEntry, err := s.journalSvc.ReverseEntry(ctx, companyID, entryID, reversal.Date, actorID)
			if err != nil {
				return nil, err
			}
			s.LogInfo(ctx, "reversed ledger entry for paired original",
				"company_id", companyID, "original_entry_id", entryID, "reversing_entry_id", reversingEntry.EntryID)
		}
	}

	if err := s.bankRepo.PairTransactions(ctx, reversal.TransactionID, reversal.Version, original.TransactionID, original.Version, time.Now()); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "reversal paired",
		"company_id", companyID, "reversal_id", reversal.TransactionID, "original_id", original.TransactionID)
	return s.bankRepo.FindBankTransactionByID(ctx, companyID, transactionID)
}

// linkedEntryID resolves the journal entry behind a reconciled transaction.
// Journal links carry the entry directly; record links resolve through the
// entry posted for the record's idempotency key. Records whose kind never
// posts an entry, or whose entry was never posted, resolve to "".
func (s *bankRecService) linkedEntryID(ctx context.Context, companyID string, txn *domain.BankTransaction) (string, error) {
	if *txn.ReconciledType == domain.ReconJournal {
		return *txn.ReconciledID, nil
	}
	sourceType, ok := txn.ReconciledType.EntrySource()
	if !ok {
		return "", nil
	}
	entry, err := s.journalRepo.FindEntryBySource(ctx, companyID, sourceType, *txn.ReconciledID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return entry.EntryID, nil
}

func (s *bankRecService) Statement(ctx context.Context, companyID, bankAccountID string, asOf time.Time) (*domain.BankReconciliationStatement, error) {
	statementBalance, err := s.bankRepo.GetStatementBalance(ctx, companyID, bankAccountID, asOf)
	if err != nil {
		return nil, err
	}
	ledgerBalance, err := s.bankRepo.GetLedgerBalanceFromLines(ctx, companyID, bankAccountID, asOf)
	if err != nil {
		return nil, err
	}
	unmatched, err := s.bankRepo.ListUnmatchedEntryLines(ctx, companyID, bankAccountID, asOf)
	if err != nil {
		return nil, err
	}
	unreconciled, err := s.bankRepo.ListUnreconciled(ctx, companyID, bankAccountID, asOf)
	if err != nil {
		return nil, err
	}

	brs := &domain.BankReconciliationStatement{
		CompanyID:        companyID,
		BankAccountID:    bankAccountID,
		AsOf:             asOf,
		StatementBalance: statementBalance,
		LedgerBalance:    ledgerBalance,
	}

	// Unmatched ledger lines carry signed amounts: deposits in transit are
	// positive, outstanding withdrawals negative.
	adjusted := statementBalance
	for _, item := range unmatched {
		if item.Amount.IsNegative() {
			withdrawal := item
			withdrawal.Amount = item.Amount.Neg()
			brs.OutstandingWithdrawals = append(brs.OutstandingWithdrawals, withdrawal)
			adjusted = adjusted.Sub(withdrawal.Amount)
		} else {
			brs.OutstandingDeposits = append(brs.OutstandingDeposits, item)
			adjusted = adjusted.Add(item.Amount)
		}
	}

	// Bank lines the books never recorded (interest credited, charges
	// debited) explain the rest of the gap from the statement side. They
	// adjust in the opposite direction of the ledger-side items, so an item
	// sitting unmatched on both sides cancels out instead of double
	// counting.
	for _, txn := range unreconciled {
		item := domain.BRSItem{
			TransactionID: txn.TransactionID,
			Date:          txn.Date,
			Description:   txn.Description,
			Amount:        txn.Amount,
		}
		if txn.Type == domain.BankCredit {
			brs.UnrecordedBankCredits = append(brs.UnrecordedBankCredits, item)
			adjusted = adjusted.Sub(txn.Amount)
		} else {
			brs.UnrecordedBankDebits = append(brs.UnrecordedBankDebits, item)
			adjusted = adjusted.Add(txn.Amount)
		}
	}

	brs.AdjustedBalance = adjusted
	brs.Difference = adjusted.Sub(ledgerBalance)
	brs.InAgreement = domain.WithinTolerance(adjusted, ledgerBalance)
	return brs, nil
}

func (s *bankRecService) EnhancedStatement(ctx context.Context, companyID, bankAccountID string, asOf time.Time) (*domain.EnhancedBRS, error) {
	company, err := s.companySvc.GetCompanyByID(ctx, companyID)
	if err != nil {
		return nil, err
	}

	base, err := s.Statement(ctx, companyID, bankAccountID, asOf)
	if err != nil {
		return nil, err
	}

	fyStart, _ := accounting.FYBounds(asOf, company.FYStartMonth)

	ledgerFromJE, err := s.bankRepo.GetLedgerBalanceFromLines(ctx, companyID, bankAccountID, asOf)
	if err != nil {
		return nil, err
	}
	tdsSummary, err := s.bankRepo.GetTDSSummary(ctx, companyID, fyStart, asOf)
	if err != nil {
		return nil, err
	}
	unlinked, err := s.bankRepo.CountUnlinkedEntryLines(ctx, companyID, bankAccountID, &fyStart, asOf)
	if err != nil {
		return nil, err
	}

	return &domain.EnhancedBRS{
		BankReconciliationStatement: *base,
		PeriodStart:                 &fyStart,
		LedgerBalanceFromJE:         ledgerFromJE,
		TDSSummary:                  tdsSummary,
		UnlinkedEntryLines:          unlinked,
	}, nil
}
