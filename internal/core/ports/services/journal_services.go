package services

import (
	"context"
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/finbooks/finbooks_backend/internal/dto"
)

// JournalReaderSvc defines read operations for journal entries.
type JournalReaderSvc interface {
	// GetEntryByID retrieves an entry with its lines.
	GetEntryByID(ctx context.Context, companyID, entryID string) (*domain.JournalEntry, error)

	// ListEntries retrieves a paginated list of entries.
	ListEntries(ctx context.Context, companyID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)
}

// JournalWriterSvc defines the structural journal mechanics shared by every
// posting path: create, post a draft, and reverse.
type JournalWriterSvc interface {
	// CreateEntry validates and persists an entry. The entry is stored as
	// Draft unless post is set, in which case it is validated, numbered and
	// its period-balance deltas applied atomically.
	CreateEntry(ctx context.Context, entry domain.JournalEntry, post bool, actorID string) (*domain.JournalEntry, error)

	// PostDraft transitions an existing Draft entry to Posted.
	PostDraft(ctx context.Context, companyID, entryID, actorID string) (*domain.JournalEntry, error)

	// ReverseEntry creates the debit/credit mirror of a posted entry dated at
	// reversalDate, linking both entries and flipping the original's status.
	// Reversing a Draft or already-Reversed entry fails with ErrConflict.
	ReverseEntry(ctx context.Context, companyID, entryID string, reversalDate time.Time, actorID string) (*domain.JournalEntry, error)
}

// JournalSvcFacade combines journal service interfaces.
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
}
