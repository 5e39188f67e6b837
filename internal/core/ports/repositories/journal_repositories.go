package repositories

import (
	"context"
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalReader defines read operations for journal entry data.
type JournalReader interface {
	// FindEntryByID retrieves an entry header (without lines).
	FindEntryByID(ctx context.Context, companyID, entryID string) (*domain.JournalEntry, error)

	// FindEntryBySource retrieves the entry posted for an idempotency key, or
	// apperrors.ErrNotFound when the source has not been posted.
	FindEntryBySource(ctx context.Context, companyID string, sourceType domain.SourceType, sourceID string) (*domain.JournalEntry, error)

	// FindLinesByEntryID retrieves all lines of an entry.
	FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalEntryLine, error)

	// ListEntries retrieves a keyset-paginated list of entries for a company,
	// newest first. Draft entries are excluded unless includeDrafts is set.
	ListEntries(ctx context.Context, companyID string, limit int, nextToken *string, includeDrafts bool) ([]domain.JournalEntry, *string, error)

	// ListPostedEntriesForYear streams all posted entries (with lines) of a
	// financial year in (date, entry number) order, for balance replay.
	ListPostedEntriesForYear(ctx context.Context, companyID, financialYear string) ([]domain.JournalEntry, error)
}

// JournalWriter defines write operations for journal entry data.
type JournalWriter interface {
	// SaveEntry persists an entry with its lines atomically. For a Posted
	// entry it also allocates the per-(company, financial year) entry number
	// and applies the given period-balance deltas in the same transaction.
	// The returned entry carries the allocated number.
	SaveEntry(ctx context.Context, entry domain.JournalEntry, balanceChanges map[string]decimal.Decimal) (*domain.JournalEntry, error)

	// PostDraftEntry transitions a Draft entry to Posted, allocating its entry
	// number and applying period-balance deltas atomically.
	PostDraftEntry(ctx context.Context, entry domain.JournalEntry, postedBy string, postedAt time.Time, balanceChanges map[string]decimal.Decimal) (*domain.JournalEntry, error)

	// SaveReversal persists the reversing entry and flips the original to
	// Reversed with both links set, in a single transaction.
	SaveReversal(ctx context.Context, original domain.JournalEntry, reversing domain.JournalEntry, balanceChanges map[string]decimal.Decimal) (*domain.JournalEntry, error)
}

// JournalRepositoryFacade combines all journal repository interfaces.
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
}

// JournalRepositoryWithTx extends the facade with transaction management.
type JournalRepositoryWithTx interface {
	JournalRepositoryFacade
	TransactionManager
}
