package mapping

import (
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/finbooks/finbooks_backend/internal/models"
)

// ToModelJournalEntry converts a domain JournalEntry header to its model.
// Lines are mapped separately.
func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:       d.EntryID,
		CompanyID:     d.CompanyID,
		EntryNumber:   d.EntryNumber,
		FinancialYear: d.FinancialYear,
		EntryDate:     d.EntryDate,
		DueDate:       d.DueDate,
		SourceType:    string(d.SourceType),
		SourceID:      d.SourceID,
		Description:   d.Description,
		Status:        models.EntryStatus(d.Status),
		PostedBy:      d.PostedBy,
		PostedAt:      d.PostedAt,
		ReversalOfID:  d.ReversalOfID,
		ReversedByID:  d.ReversedByID,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

// ToDomainJournalEntry converts a model JournalEntry to a domain JournalEntry
func ToDomainJournalEntry(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:       m.EntryID,
		CompanyID:     m.CompanyID,
		EntryNumber:   m.EntryNumber,
		FinancialYear: m.FinancialYear,
		EntryDate:     m.EntryDate,
		DueDate:       m.DueDate,
		SourceType:    domain.SourceType(m.SourceType),
		SourceID:      m.SourceID,
		Description:   m.Description,
		Status:        domain.EntryStatus(m.Status),
		PostedBy:      m.PostedBy,
		PostedAt:      m.PostedAt,
		ReversalOfID:  m.ReversalOfID,
		ReversedByID:  m.ReversedByID,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

// ToModelJournalEntryLine converts a domain line to its model
func ToModelJournalEntryLine(d domain.JournalEntryLine) models.JournalEntryLine {
	return models.JournalEntryLine{
		LineID:      d.LineID,
		EntryID:     d.EntryID,
		AccountID:   d.AccountID,
		Debit:       d.Debit,
		Credit:      d.Credit,
		PartyType:   d.PartyType,
		PartyID:     d.PartyID,
		Description: d.Description,
	}
}

// ToDomainJournalEntryLine converts a model line to its domain form
func ToDomainJournalEntryLine(m models.JournalEntryLine) domain.JournalEntryLine {
	return domain.JournalEntryLine{
		LineID:      m.LineID,
		EntryID:     m.EntryID,
		AccountID:   m.AccountID,
		Debit:       m.Debit,
		Credit:      m.Credit,
		PartyType:   m.PartyType,
		PartyID:     m.PartyID,
		Description: m.Description,
	}
}

// ToDomainJournalEntryLineSlice converts a slice of model lines to domain lines
func ToDomainJournalEntryLineSlice(ms []models.JournalEntryLine) []domain.JournalEntryLine {
	ds := make([]domain.JournalEntryLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainJournalEntryLine(m)
	}
	return ds
}
