package services

import (
	"context"
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/finbooks/finbooks_backend/internal/dto"
)

// BankRecSvcFacade drives statement import, candidate matching, linking,
// reversal pairing and reconciliation statements for one bank account.
type BankRecSvcFacade interface {
	ImportStatement(ctx context.Context, companyID string, req dto.ImportStatementRequest, actorID string) (*domain.StatementImportResult, error)
	GetBankTransaction(ctx context.Context, companyID, transactionID string) (*domain.BankTransaction, error)
	ListBankTransactions(ctx context.Context, companyID, bankAccountID string, unreconciledOnly bool, limit int, nextToken string) ([]domain.BankTransaction, string, error)

	// SuggestCandidates scores registered records against the transaction
	// and returns them ranked best first. Scores are advisory and never
	// persisted.
	SuggestCandidates(ctx context.Context, companyID, transactionID string, req dto.CandidateSearchRequest) ([]domain.ReconciliationSuggestion, error)

	RegisterRecord(ctx context.Context, companyID string, req dto.RegisterRecordRequest, actorID string) error
	LinkRecord(ctx context.Context, companyID, transactionID string, req dto.LinkRecordRequest, actorID string) (*domain.BankTransaction, error)
	LinkJournalEntry(ctx context.Context, companyID, transactionID string, req dto.LinkJournalRequest, actorID string) (*domain.BankTransaction, error)
	Unlink(ctx context.Context, companyID, transactionID string, actorID string) (*domain.BankTransaction, error)

	DetectReversal(ctx context.Context, companyID, transactionID string) (*domain.ReversalDetection, error)

	// SuggestOriginals scores opposite-direction transactions on the same
	// bank account against a likely reversal and returns them ranked best
	// first, for pairing.
	SuggestOriginals(ctx context.Context, companyID, transactionID string) ([]domain.ReversalOriginalSuggestion, error)

	PairReversal(ctx context.Context, companyID, transactionID string, req dto.PairReversalRequest, actorID string) (*domain.BankTransaction, error)

	Statement(ctx context.Context, companyID, bankAccountID string, asOf time.Time) (*domain.BankReconciliationStatement, error)
	EnhancedStatement(ctx context.Context, companyID, bankAccountID string, asOf time.Time) (*domain.EnhancedBRS, error)
}
