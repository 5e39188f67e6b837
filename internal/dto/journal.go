package dto

import (
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// EntryLineResponse defines the data returned for one journal entry line.
type EntryLineResponse struct {
	LineID      string          `json:"lineID"`
	AccountID   string          `json:"accountID"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	PartyType   *string         `json:"partyType,omitempty"`
	PartyID     *string         `json:"partyID,omitempty"`
	Description string          `json:"description,omitempty"`
}

// EntryResponse defines the data returned for a journal entry.
type EntryResponse struct {
	EntryID       string              `json:"entryID"`
	EntryNumber   int64               `json:"entryNumber,omitempty"`
	FinancialYear string              `json:"financialYear"`
	EntryDate     time.Time           `json:"entryDate"`
	DueDate       *time.Time          `json:"dueDate,omitempty"`
	SourceType    string              `json:"sourceType"`
	SourceID      string              `json:"sourceID"`
	Description   string              `json:"description"`
	Status        string              `json:"status"`
	PostedAt      *time.Time          `json:"postedAt,omitempty"`
	ReversalOfID  *string             `json:"reversalOfID,omitempty"`
	ReversedByID  *string             `json:"reversedByID,omitempty"`
	Lines         []EntryLineResponse `json:"lines,omitempty"`
}

// CreateEntryLineRequest is one line of a manual journal entry. Exactly one
// of debit or credit must be positive.
type CreateEntryLineRequest struct {
	AccountID   string          `json:"accountID" binding:"required"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	PartyType   *string         `json:"partyType,omitempty"`
	PartyID     *string         `json:"partyID,omitempty"`
	Description string          `json:"description,omitempty"`
}

// CreateEntryRequest defines the payload for creating a manual journal entry.
type CreateEntryRequest struct {
	EntryDate   time.Time                `json:"entryDate" binding:"required"`
	DueDate     *time.Time               `json:"dueDate,omitempty"`
	SourceID    string                   `json:"sourceID" binding:"required"`
	Description string                   `json:"description,omitempty"`
	Post        bool                     `json:"post"`
	Lines       []CreateEntryLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// ToJournalEntry converts the request to an unsaved domain entry.
func (r *CreateEntryRequest) ToJournalEntry(companyID string) domain.JournalEntry {
	entry := domain.JournalEntry{
		CompanyID:   companyID,
		EntryDate:   r.EntryDate,
		DueDate:     r.DueDate,
		SourceType:  domain.SourceManual,
		SourceID:    r.SourceID,
		Description: r.Description,
		Lines:       make([]domain.JournalEntryLine, len(r.Lines)),
	}
	for i, l := range r.Lines {
		entry.Lines[i] = domain.JournalEntryLine{
			AccountID:   l.AccountID,
			Debit:       l.Debit,
			Credit:      l.Credit,
			PartyType:   l.PartyType,
			PartyID:     l.PartyID,
			Description: l.Description,
		}
	}
	return entry
}

// ListEntriesParams holds parameters for listing journal entries.
type ListEntriesParams struct {
	Limit         int     `form:"limit"`
	NextToken     *string `form:"nextToken"`
	IncludeDrafts bool    `form:"includeDrafts"`
}

// ListEntriesResponse is a page of journal entries plus the next page token.
type ListEntriesResponse struct {
	Entries   []EntryResponse `json:"entries"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// ReverseEntryRequest defines the payload for reversing a posted entry.
type ReverseEntryRequest struct {
	Date time.Time `json:"date" binding:"required"`
}

// ToEntryLineResponse converts a domain line to its response DTO.
func ToEntryLineResponse(l *domain.JournalEntryLine) EntryLineResponse {
	return EntryLineResponse{
		LineID:      l.LineID,
		AccountID:   l.AccountID,
		Debit:       l.Debit,
		Credit:      l.Credit,
		PartyType:   l.PartyType,
		PartyID:     l.PartyID,
		Description: l.Description,
	}
}

// ToEntryResponse converts a domain entry (with any loaded lines) to its DTO.
func ToEntryResponse(e *domain.JournalEntry) EntryResponse {
	resp := EntryResponse{
		EntryID:       e.EntryID,
		EntryNumber:   e.EntryNumber,
		FinancialYear: e.FinancialYear,
		EntryDate:     e.EntryDate,
		DueDate:       e.DueDate,
		SourceType:    string(e.SourceType),
		SourceID:      e.SourceID,
		Description:   e.Description,
		Status:        string(e.Status),
		PostedAt:      e.PostedAt,
		ReversalOfID:  e.ReversalOfID,
		ReversedByID:  e.ReversedByID,
	}
	if len(e.Lines) > 0 {
		resp.Lines = make([]EntryLineResponse, len(e.Lines))
		for i := range e.Lines {
			resp.Lines[i] = ToEntryLineResponse(&e.Lines[i])
		}
	}
	return resp
}

// ToEntryResponses converts a slice of entries.
func ToEntryResponses(entries []domain.JournalEntry) []EntryResponse {
	responses := make([]EntryResponse, len(entries))
	for i := range entries {
		responses[i] = ToEntryResponse(&entries[i])
	}
	return responses
}
