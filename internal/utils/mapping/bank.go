package mapping

import (
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/finbooks/finbooks_backend/internal/models"
)

// ToModelBankTransaction converts a domain BankTransaction to its model
func ToModelBankTransaction(d domain.BankTransaction) models.BankTransaction {
	m := models.BankTransaction{
		TransactionID:       d.TransactionID,
		CompanyID:           d.CompanyID,
		BankAccountID:       d.BankAccountID,
		TxnDate:             d.Date,
		TxnType:             string(d.Type),
		Amount:              d.Amount,
		ReferenceNumber:     d.ReferenceNumber,
		Description:         d.Description,
		ReconciledID:        d.ReconciledID,
		ReconciledAt:        d.ReconciledAt,
		IsReversal:          d.IsReversal,
		PairedTransactionID: d.PairedTransactionID,
		ImportBatchID:       d.ImportBatchID,
		ContentHash:         d.ContentHash,
		Version:             d.Version,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
	if d.ReconciledType != nil {
		rt := string(*d.ReconciledType)
		m.ReconciledType = &rt
	}
	return m
}

// ToDomainBankTransaction converts a model BankTransaction to its domain form
func ToDomainBankTransaction(m models.BankTransaction) domain.BankTransaction {
	d := domain.BankTransaction{
		TransactionID:       m.TransactionID,
		CompanyID:           m.CompanyID,
		BankAccountID:       m.BankAccountID,
		Date:                m.TxnDate,
		Type:                domain.BankTxnType(m.TxnType),
		Amount:              m.Amount,
		ReferenceNumber:     m.ReferenceNumber,
		Description:         m.Description,
		ReconciledID:        m.ReconciledID,
		ReconciledAt:        m.ReconciledAt,
		IsReversal:          m.IsReversal,
		PairedTransactionID: m.PairedTransactionID,
		ImportBatchID:       m.ImportBatchID,
		ContentHash:         m.ContentHash,
		Version:             m.Version,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
	if m.ReconciledType != nil {
		rt := domain.ReconciledType(*m.ReconciledType)
		d.ReconciledType = &rt
	}
	return d
}

// ToDomainBankTransactionSlice converts a slice of model bank transactions
func ToDomainBankTransactionSlice(ms []models.BankTransaction) []domain.BankTransaction {
	ds := make([]domain.BankTransaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainBankTransaction(m)
	}
	return ds
}

// ToDomainReconCandidate converts a model ReconRecord to a domain candidate
func ToDomainReconCandidate(m models.ReconRecord) domain.ReconCandidate {
	return domain.ReconCandidate{
		RecordType:      domain.ReconciledType(m.RecordType),
		RecordID:        m.RecordID,
		Date:            m.RecordDate,
		Amount:          m.Amount,
		ReferenceNumber: m.ReferenceNumber,
		Description:     m.Description,
		PartyName:       m.PartyName,
		Reconciled:      m.Reconciled,
		CreatedAt:       m.CreatedAt,
	}
}
