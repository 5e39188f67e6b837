package pgsql

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
	"github.com/finbooks/finbooks_backend/internal/models"
	"github.com/finbooks/finbooks_backend/internal/utils/mapping"
	"github.com/finbooks/finbooks_backend/internal/utils/pagination"
)

const bankTxnColumns = `transaction_id, company_id, bank_account_id, txn_date, txn_type, amount,
	reference_number, description, reconciled_type, reconciled_id, reconciled_at,
	is_reversal, paired_transaction_id, import_batch_id, content_hash, version,
	created_at, created_by, last_updated_at, last_updated_by`

const reconRecordColumns = `company_id, record_type, record_id, record_date, amount,
	reference_number, description, party_name, tds_section, tds_amount, reconciled, created_at`

type PgxBankRepository struct {
	BaseRepository
}

// newPgxBankRepository creates a new repository for bank reconciliation data.
func newPgxBankRepository(pool *pgxpool.Pool) portsrepo.BankRepositoryFacade {
	return &PgxBankRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.BankRepositoryFacade = (*PgxBankRepository)(nil)

func scanBankTransaction(row pgx.Row) (models.BankTransaction, error) {
	var m models.BankTransaction
	err := row.Scan(
		&m.TransactionID, &m.CompanyID, &m.BankAccountID, &m.TxnDate, &m.TxnType, &m.Amount,
		&m.ReferenceNumber, &m.Description, &m.ReconciledType, &m.ReconciledID, &m.ReconciledAt,
		&m.IsReversal, &m.PairedTransactionID, &m.ImportBatchID, &m.ContentHash, &m.Version,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxBankRepository) queryBankTransactions(ctx context.Context, query string, args ...interface{}) ([]models.BankTransaction, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	txns := []models.BankTransaction{}
	for rows.Next() {
		m, err := scanBankTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, m)
	}
	return txns, rows.Err()
}

// InsertStatementLines inserts imported statement lines. Content-hash
// collisions with previously imported lines are skipped row by row, so one
// already-present line never aborts the batch.
func (r *PgxBankRepository) InsertStatementLines(ctx context.Context, txns []domain.BankTransaction) (int, int, error) {
	if len(txns) == 0 {
		return 0, 0, nil
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return 0, 0, err
	}
	defer r.Rollback(ctx, tx)

	query := `
		INSERT INTO bank_transactions (` + bankTxnColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		ON CONFLICT (company_id, content_hash) DO NOTHING;
	`

	inserted := 0
	for _, txn := range txns {
		m := mapping.ToModelBankTransaction(txn)
		tag, err := tx.Exec(ctx, query,
			m.TransactionID, m.CompanyID, m.BankAccountID, m.TxnDate, m.TxnType, m.Amount,
			m.ReferenceNumber, m.Description, m.ReconciledType, m.ReconciledID, m.ReconciledAt,
			m.IsReversal, m.PairedTransactionID, m.ImportBatchID, m.ContentHash, m.Version,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
		)
		if err != nil {
			return 0, 0, apperrors.NewAppError(500, "failed to insert bank transaction "+m.TransactionID, err)
		}
		inserted += int(tag.RowsAffected())
	}

	if err := r.Commit(ctx, tx); err != nil {
		return 0, 0, err
	}
	return inserted, len(txns) - inserted, nil
}

// FindBankTransactionByID retrieves one bank transaction.
func (r *PgxBankRepository) FindBankTransactionByID(ctx context.Context, companyID, transactionID string) (*domain.BankTransaction, error) {
	query := `SELECT ` + bankTxnColumns + ` FROM bank_transactions WHERE company_id = $1 AND transaction_id = $2;`
	m, err := scanBankTransaction(r.Pool.QueryRow(ctx, query, companyID, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find bank transaction "+transactionID, err)
	}
	txn := mapping.ToDomainBankTransaction(m)
	return &txn, nil
}

// ListBankTransactions retrieves a keyset-paginated list for one bank account,
// newest first on (txn_date, created_at).
func (r *PgxBankRepository) ListBankTransactions(ctx context.Context, companyID, bankAccountID string, limit int, nextToken *string) ([]domain.BankTransaction, *string, error) {
	if limit <= 0 {
		limit = 50
	}
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + bankTxnColumns + ` FROM bank_transactions WHERE company_id = $1 AND bank_account_id = $2`
	orderByClause := `ORDER BY txn_date DESC, created_at DESC`

	args := []interface{}{companyID, bankAccountID}
	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeDateToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		baseQuery += ` AND (txn_date, created_at) < ($3, $4)`
		args = append(args, lastDate, lastCreatedAt)
	}
	query := baseQuery + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	args = append(args, fetchLimit)

	ms, err := r.queryBankTransactions(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to list bank transactions", err)
	}

	var next *string
	if len(ms) > limit {
		ms = ms[:limit]
		last := ms[len(ms)-1]
		token := pagination.EncodeDateToken(last.TxnDate, last.CreatedAt)
		next = &token
	}
	return mapping.ToDomainBankTransactionSlice(ms), next, nil
}

// ListUnreconciled returns unreconciled transactions for a bank account up to
// asOf, oldest first.
func (r *PgxBankRepository) ListUnreconciled(ctx context.Context, companyID, bankAccountID string, asOf time.Time) ([]domain.BankTransaction, error) {
	query := `
		SELECT ` + bankTxnColumns + `
		FROM bank_transactions
		WHERE company_id = $1 AND bank_account_id = $2 AND txn_date <= $3
		  AND reconciled_type IS NULL AND paired_transaction_id IS NULL
		ORDER BY txn_date, created_at;
	`
	ms, err := r.queryBankTransactions(ctx, query, companyID, bankAccountID, asOf)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list unreconciled bank transactions", err)
	}
	return mapping.ToDomainBankTransactionSlice(ms), nil
}

// FindReversalCandidates returns opposite-type transactions within the amount
// tolerance and lookback window.
func (r *PgxBankRepository) FindReversalCandidates(ctx context.Context, companyID, bankAccountID string, txnType domain.BankTxnType, amount decimal.Decimal, tolerance decimal.Decimal, from, to time.Time) ([]domain.BankTransaction, error) {
	query := `
		SELECT ` + bankTxnColumns + `
		FROM bank_transactions
		WHERE company_id = $1 AND bank_account_id = $2 AND txn_type <> $3
		  AND ABS(amount - $4) <= $5
		  AND txn_date >= $6 AND txn_date <= $7
		  AND paired_transaction_id IS NULL
		ORDER BY txn_date DESC;
	`
	ms, err := r.queryBankTransactions(ctx, query, companyID, bankAccountID, string(txnType), amount, tolerance, from, to)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to find reversal candidates", err)
	}
	return mapping.ToDomainBankTransactionSlice(ms), nil
}

// GetStatementBalance nets credits minus debits up to asOf.
func (r *PgxBankRepository) GetStatementBalance(ctx context.Context, companyID, bankAccountID string, asOf time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN txn_type = 'CREDIT' THEN amount ELSE -amount END), 0)
		FROM bank_transactions
		WHERE company_id = $1 AND bank_account_id = $2 AND txn_date <= $3;
	`
	var balance decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, companyID, bankAccountID, asOf).Scan(&balance); err != nil {
		return decimal.Zero, apperrors.NewAppError(500, "failed to compute statement balance", err)
	}
	return balance, nil
}

// SetReconciliation links a transaction to (recordType, recordID). A stale
// version means a concurrent mutation won; the caller gets ErrConflict.
func (r *PgxBankRepository) SetReconciliation(ctx context.Context, transactionID string, version int64, recordType domain.ReconciledType, recordID string, at time.Time) error {
	query := `
		UPDATE bank_transactions
		SET reconciled_type = $3, reconciled_id = $4, reconciled_at = $5, version = version + 1, last_updated_at = $5
		WHERE transaction_id = $1 AND version = $2 AND reconciled_type IS NULL;
	`
	tag, err := r.Pool.Exec(ctx, query, transactionID, version, string(recordType), recordID, at)
	if err != nil {
		return apperrors.NewAppError(500, "failed to reconcile bank transaction "+transactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrConflict
	}
	return nil
}

// ClearReconciliation restores a transaction to unreconciled.
func (r *PgxBankRepository) ClearReconciliation(ctx context.Context, transactionID string, version int64) error {
	query := `
		UPDATE bank_transactions
		SET reconciled_type = NULL, reconciled_id = NULL, reconciled_at = NULL, version = version + 1, last_updated_at = NOW()
		WHERE transaction_id = $1 AND version = $2 AND reconciled_type IS NOT NULL;
	`
	tag, err := r.Pool.Exec(ctx, query, transactionID, version)
	if err != nil {
		return apperrors.NewAppError(500, "failed to unreconcile bank transaction "+transactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrConflict
	}
	return nil
}

// PairTransactions marks a reversal and its original as paired to each other
// atomically, flagging the reversal side.
func (r *PgxBankRepository) PairTransactions(ctx context.Context, reversalID string, reversalVersion int64, originalID string, originalVersion int64, at time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		UPDATE bank_transactions
		SET paired_transaction_id = $3, is_reversal = $4, version = version + 1, last_updated_at = $5
		WHERE transaction_id = $1 AND version = $2 AND paired_transaction_id IS NULL;
	`
	for _, side := range []struct {
		id       string
		version  int64
		pairedTo string
		reversal bool
	}{
		{reversalID, reversalVersion, originalID, true},
		{originalID, originalVersion, reversalID, false},
	} {
		tag, err := tx.Exec(ctx, query, side.id, side.version, side.pairedTo, side.reversal, at)
		if err != nil {
			return apperrors.NewAppError(500, "failed to pair bank transaction "+side.id, err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrConflict
		}
	}

	return r.Commit(ctx, tx)
}

// SaveRecord registers a business record for matching. Re-registering the
// same (type, id) replaces the unreconciled row.
func (r *PgxBankRepository) SaveRecord(ctx context.Context, companyID string, record domain.ReconCandidate, tdsSection *string, tdsAmount *decimal.Decimal) error {
	query := `
		INSERT INTO recon_records (` + reconRecordColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, false, $11)
		ON CONFLICT (company_id, record_type, record_id)
		DO UPDATE SET record_date = EXCLUDED.record_date, amount = EXCLUDED.amount,
		              reference_number = EXCLUDED.reference_number, description = EXCLUDED.description,
		              party_name = EXCLUDED.party_name, tds_section = EXCLUDED.tds_section,
		              tds_amount = EXCLUDED.tds_amount
		WHERE NOT recon_records.reconciled;
	`
	_, err := r.Pool.Exec(ctx, query,
		companyID, string(record.RecordType), record.RecordID, record.Date, record.Amount,
		record.ReferenceNumber, record.Description, record.PartyName, tdsSection, tdsAmount,
		record.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "") {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to save recon record "+record.RecordID, err)
	}
	return nil
}

// FindRecord retrieves one record.
func (r *PgxBankRepository) FindRecord(ctx context.Context, companyID string, recordType domain.ReconciledType, recordID string) (*domain.ReconCandidate, error) {
	query := `SELECT ` + reconRecordColumns + ` FROM recon_records WHERE company_id = $1 AND record_type = $2 AND record_id = $3;`
	var m models.ReconRecord
	err := r.Pool.QueryRow(ctx, query, companyID, string(recordType), recordID).Scan(
		&m.CompanyID, &m.RecordType, &m.RecordID, &m.RecordDate, &m.Amount,
		&m.ReferenceNumber, &m.Description, &m.PartyName, &m.TDSSection, &m.TDSAmount,
		&m.Reconciled, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find recon record "+recordID, err)
	}
	record := mapping.ToDomainReconCandidate(m)
	return &record, nil
}

// SetRecordReconciled flags a record as reconciled or not.
func (r *PgxBankRepository) SetRecordReconciled(ctx context.Context, companyID string, recordType domain.ReconciledType, recordID string, reconciled bool) error {
	query := `UPDATE recon_records SET reconciled = $4 WHERE company_id = $1 AND record_type = $2 AND record_id = $3;`
	tag, err := r.Pool.Exec(ctx, query, companyID, string(recordType), recordID, reconciled)
	if err != nil {
		return apperrors.NewAppError(500, "failed to flag recon record "+recordID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SearchCandidates returns records matching the filter.
func (r *PgxBankRepository) SearchCandidates(ctx context.Context, filter portsrepo.CandidateFilter) ([]domain.ReconCandidate, error) {
	query := `SELECT ` + reconRecordColumns + ` FROM recon_records WHERE company_id = $1`
	args := []interface{}{filter.CompanyID}

	addArg := func(clause string, value interface{}) {
		args = append(args, value)
		query += ` AND ` + clause + `$` + strconv.Itoa(len(args))
	}

	if !filter.IncludeReconciled {
		query += ` AND NOT reconciled`
	}
	if filter.AmountMin != nil {
		addArg(`amount >= `, *filter.AmountMin)
	}
	if filter.AmountMax != nil {
		addArg(`amount <= `, *filter.AmountMax)
	}
	if filter.DateFrom != nil {
		addArg(`record_date >= `, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		addArg(`record_date <= `, *filter.DateTo)
	}
	if len(filter.RecordTypes) > 0 {
		types := make([]string, len(filter.RecordTypes))
		for i, rt := range filter.RecordTypes {
			types[i] = string(rt)
		}
		addArg(`record_type = ANY(`, types)
		query += `)`
	}
	if filter.Text != "" {
		args = append(args, "%"+filter.Text+"%")
		placeholder := `$` + strconv.Itoa(len(args))
		query += ` AND (reference_number ILIKE ` + placeholder + ` OR description ILIKE ` + placeholder + ` OR party_name ILIKE ` + placeholder + `)`
	}
	query += ` ORDER BY record_date DESC LIMIT 200;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to search recon candidates", err)
	}
	defer rows.Close()

	candidates := []domain.ReconCandidate{}
	for rows.Next() {
		var m models.ReconRecord
		if err := rows.Scan(
			&m.CompanyID, &m.RecordType, &m.RecordID, &m.RecordDate, &m.Amount,
			&m.ReferenceNumber, &m.Description, &m.PartyName, &m.TDSSection, &m.TDSAmount,
			&m.Reconciled, &m.CreatedAt,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan recon record row", err)
		}
		candidates = append(candidates, mapping.ToDomainReconCandidate(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating recon record rows", err)
	}
	return candidates, nil
}

// GetTDSSummary aggregates TDS amounts by section over a period.
func (r *PgxBankRepository) GetTDSSummary(ctx context.Context, companyID string, from, to time.Time) ([]domain.TDSSectionSummary, error) {
	query := `
		SELECT tds_section, COUNT(*), COALESCE(SUM(tds_amount), 0)
		FROM recon_records
		WHERE company_id = $1 AND tds_section IS NOT NULL
		  AND record_date >= $2 AND record_date <= $3
		GROUP BY tds_section
		ORDER BY tds_section;
	`
	rows, err := r.Pool.Query(ctx, query, companyID, from, to)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to aggregate TDS summary", err)
	}
	defer rows.Close()

	summaries := []domain.TDSSectionSummary{}
	for rows.Next() {
		var s domain.TDSSectionSummary
		if err := rows.Scan(&s.Section, &s.Count, &s.Amount); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan TDS summary row", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating TDS summary rows", err)
	}
	return summaries, nil
}

// GetLedgerBalanceFromLines nets posted journal lines touching the bank
// account up to asOf (debits minus credits).
func (r *PgxBankRepository) GetLedgerBalanceFromLines(ctx context.Context, companyID, bankAccountID string, asOf time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(l.debit - l.credit), 0)
		FROM journal_entry_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE e.company_id = $1 AND e.status = 'POSTED'
		  AND l.account_id = $2 AND e.entry_date <= $3;
	`
	var balance decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, companyID, bankAccountID, asOf).Scan(&balance); err != nil {
		return decimal.Zero, apperrors.NewAppError(500, "failed to compute ledger balance for bank account "+bankAccountID, err)
	}
	return balance, nil
}

// unmatchedLineFilter selects posted lines on the bank account that no bank
// transaction is linked to. A link covers the entry either directly (a
// 'journal' link names the entry) or through a record link whose posting
// idempotency key the entry carries. The CASE mirrors
// domain.ReconciledType.EntrySource.
const unmatchedLineFilter = `
	FROM journal_entry_lines l
	JOIN journal_entries e ON e.entry_id = l.entry_id
	WHERE e.company_id = $1 AND e.status = 'POSTED'
	  AND l.account_id = $2 AND e.entry_date <= $3
	  AND NOT EXISTS (
	      SELECT 1 FROM bank_transactions bt
	      WHERE bt.company_id = e.company_id
	        AND ((bt.reconciled_type = 'journal' AND bt.reconciled_id = e.entry_id)
	          OR (bt.reconciled_id = e.source_id
	              AND bt.reconciled_type = CASE e.source_type
	                  WHEN 'PAYMENT' THEN 'payment'
	                  WHEN 'EXPENSE' THEN 'expense'
	                  WHEN 'PAYROLL' THEN 'payroll'
	                  WHEN 'VENDOR_PAYMENT' THEN 'contractor'
	              END))
	  )`

// CountUnlinkedEntryLines counts posted lines on the bank account within
// [from, asOf] that no bank transaction links to.
func (r *PgxBankRepository) CountUnlinkedEntryLines(ctx context.Context, companyID, bankAccountID string, from *time.Time, asOf time.Time) (int, error) {
	query := `SELECT COUNT(*)` + unmatchedLineFilter
	args := []interface{}{companyID, bankAccountID, asOf}
	if from != nil {
		args = append(args, *from)
		query += ` AND e.entry_date >= $4`
	}
	query += `;`

	var count int
	if err := r.Pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, apperrors.NewAppError(500, "failed to count unlinked entry lines", err)
	}
	return count, nil
}

// ListUnmatchedEntryLines returns those same lines for itemization. Amounts
// are signed: debits to the bank account positive, credits negative.
func (r *PgxBankRepository) ListUnmatchedEntryLines(ctx context.Context, companyID, bankAccountID string, asOf time.Time) ([]domain.BRSItem, error) {
	query := `SELECT e.entry_id, e.entry_date, e.description, l.debit - l.credit AS amount` +
		unmatchedLineFilter + ` ORDER BY e.entry_date, e.entry_number;`

	rows, err := r.Pool.Query(ctx, query, companyID, bankAccountID, asOf)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list unmatched entry lines", err)
	}
	defer rows.Close()

	items := []domain.BRSItem{}
	for rows.Next() {
		var item domain.BRSItem
		if err := rows.Scan(&item.EntryID, &item.Date, &item.Description, &item.Amount); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan unmatched line row", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating unmatched line rows", err)
	}
	return items, nil
}
