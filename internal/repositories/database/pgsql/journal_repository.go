package pgsql

import (
	"context"
	"errors"
	"sort"
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

const entryColumns = `entry_id, company_id, entry_number, financial_year, entry_date, due_date,
	source_type, source_id, description, status, posted_by, posted_at, reversal_of_id, reversed_by_id,
	created_at, created_by, last_updated_at, last_updated_by`

const lineColumns = `line_id, entry_id, account_id, debit, credit, party_type, party_id, description`

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal entry data.
func newPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepositoryWithTx {
	return &PgxJournalRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.JournalRepositoryWithTx = (*PgxJournalRepository)(nil)

// lockPeriodScope takes the per-(company, financial year) advisory lock that
// serializes posting against a concurrent period balance rebuild. The lock is
// released at transaction end.
func lockPeriodScope(ctx context.Context, tx pgx.Tx, companyID, financialYear string) error {
	_, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1 || ':' || $2));`, companyID, financialYear)
	if err != nil {
		return apperrors.NewAppError(500, "failed to acquire period scope lock", err)
	}
	return nil
}

// allocateEntryNumber hands out the next entry number for the company's
// financial year. The upsert serializes concurrent posters on the sequence row.
func allocateEntryNumber(ctx context.Context, tx pgx.Tx, companyID, financialYear string) (int64, error) {
	query := `
		INSERT INTO entry_number_sequences (company_id, financial_year, last_number)
		VALUES ($1, $2, 1)
		ON CONFLICT (company_id, financial_year)
		DO UPDATE SET last_number = entry_number_sequences.last_number + 1
		RETURNING last_number;
	`
	var number int64
	if err := tx.QueryRow(ctx, query, companyID, financialYear).Scan(&number); err != nil {
		return 0, apperrors.NewAppError(500, "failed to allocate entry number", err)
	}
	return number, nil
}

func insertEntry(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) error {
	m := mapping.ToModelJournalEntry(entry)
	query := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NULLIF($11, ''), $12, $13, $14, $15, $16, $17, $18);
	`
	_, err := tx.Exec(ctx, query,
		m.EntryID, m.CompanyID, m.EntryNumber, m.FinancialYear, m.EntryDate, m.DueDate,
		m.SourceType, m.SourceID, m.Description, m.Status, m.PostedBy, m.PostedAt,
		m.ReversalOfID, m.ReversedByID,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err, "") {
			// The (company_id, source_type, source_id) idempotency index fired.
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert journal entry "+m.EntryID, err)
	}
	return nil
}

func insertLines(ctx context.Context, tx pgx.Tx, lines []domain.JournalEntryLine) error {
	batch := &pgx.Batch{}
	query := `
		INSERT INTO journal_entry_lines (` + lineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	for _, line := range lines {
		m := mapping.ToModelJournalEntryLine(line)
		batch.Queue(query, m.LineID, m.EntryID, m.AccountID, m.Debit, m.Credit, m.PartyType, m.PartyID, m.Description)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert journal entry lines", err)
	}
	return nil
}

// applyBalanceChanges maintains the period balance cache inside the posting
// transaction: the entry's month row absorbs the line debits/credits and the
// signed net change, and every later month of the financial year shifts its
// opening and closing by the same net. Accounts are processed in sorted order
// so concurrent posters cannot deadlock.
func applyBalanceChanges(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry, changes map[string]decimal.Decimal) error {
	if len(changes) == 0 {
		return nil
	}
	if err := lockPeriodScope(ctx, tx, entry.CompanyID, entry.FinancialYear); err != nil {
		return err
	}

	month := int(entry.EntryDate.Month())

	type lineTotals struct{ debits, credits decimal.Decimal }
	totals := make(map[string]lineTotals, len(changes))
	for _, line := range entry.Lines {
		t := totals[line.AccountID]
		t.debits = t.debits.Add(line.Debit)
		t.credits = t.credits.Add(line.Credit)
		totals[line.AccountID] = t
	}

	accountIDs := make([]string, 0, len(changes))
	for accountID := range changes {
		accountIDs = append(accountIDs, accountID)
	}
	sort.Strings(accountIDs)

	// Month ordering within a financial year is fiscal, not calendar: with an
	// April start, April is month 0 and March month 11.
	ensureRowQuery := `
		INSERT INTO period_balances (company_id, account_id, financial_year, period_month, opening_balance, period_debits, period_credits, closing_balance)
		SELECT $1, $2, $3, $4, COALESCE(prev.closing_balance, 0), 0, 0, COALESCE(prev.closing_balance, 0)
		FROM (SELECT 1) seed
		LEFT JOIN LATERAL (
			SELECT p.closing_balance
			FROM period_balances p
			JOIN companies c ON c.company_id = p.company_id
			WHERE p.company_id = $1 AND p.account_id = $2 AND p.financial_year = $3
			  AND ((p.period_month - c.fy_start_month + 12) % 12) < (($4::int - c.fy_start_month + 12) % 12)
			ORDER BY ((p.period_month - c.fy_start_month + 12) % 12) DESC
			LIMIT 1
		) prev ON true
		ON CONFLICT (company_id, account_id, financial_year, period_month) DO NOTHING;
	`
	applyMonthQuery := `
		UPDATE period_balances
		SET period_debits = period_debits + $5,
		    period_credits = period_credits + $6,
		    closing_balance = closing_balance + $7
		WHERE company_id = $1 AND account_id = $2 AND financial_year = $3 AND period_month = $4;
	`
	shiftLaterQuery := `
		UPDATE period_balances pb
		SET opening_balance = pb.opening_balance + $5,
		    closing_balance = pb.closing_balance + $5
		FROM companies c
		WHERE c.company_id = pb.company_id
		  AND pb.company_id = $1 AND pb.account_id = $2 AND pb.financial_year = $3
		  AND ((pb.period_month - c.fy_start_month + 12) % 12) > (($4::int - c.fy_start_month + 12) % 12);
	`

	for _, accountID := range accountIDs {
		net := changes[accountID]
		t := totals[accountID]
		if _, err := tx.Exec(ctx, ensureRowQuery, entry.CompanyID, accountID, entry.FinancialYear, month); err != nil {
			return apperrors.NewAppError(500, "failed to seed period balance row for account "+accountID, err)
		}
		if _, err := tx.Exec(ctx, applyMonthQuery, entry.CompanyID, accountID, entry.FinancialYear, month, t.debits, t.credits, net); err != nil {
			return apperrors.NewAppError(500, "failed to apply period balance delta for account "+accountID, err)
		}
		if _, err := tx.Exec(ctx, shiftLaterQuery, entry.CompanyID, accountID, entry.FinancialYear, month, net); err != nil {
			return apperrors.NewAppError(500, "failed to shift later period balances for account "+accountID, err)
		}
	}
	return nil
}

// SaveEntry persists an entry with its lines atomically. A Posted entry also
// gets its entry number allocated and the period balance deltas applied in
// the same transaction.
func (r *PgxJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry, balanceChanges map[string]decimal.Decimal) (*domain.JournalEntry, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	if entry.Status == domain.Posted {
		number, err := allocateEntryNumber(ctx, tx, entry.CompanyID, entry.FinancialYear)
		if err != nil {
			return nil, err
		}
		entry.EntryNumber = number
	}

	if err := insertEntry(ctx, tx, entry); err != nil {
		return nil, err
	}
	if err := insertLines(ctx, tx, entry.Lines); err != nil {
		return nil, err
	}
	if entry.Status == domain.Posted {
		if err := applyBalanceChanges(ctx, tx, entry, balanceChanges); err != nil {
			return nil, err
		}
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &entry, nil
}

// PostDraftEntry transitions a Draft entry to Posted, allocating its entry
// number and applying period balance deltas atomically.
func (r *PgxJournalRepository) PostDraftEntry(ctx context.Context, entry domain.JournalEntry, postedBy string, postedAt time.Time, balanceChanges map[string]decimal.Decimal) (*domain.JournalEntry, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	number, err := allocateEntryNumber(ctx, tx, entry.CompanyID, entry.FinancialYear)
	if err != nil {
		return nil, err
	}

	query := `
		UPDATE journal_entries
		SET status = $3, entry_number = $4, posted_by = $5, posted_at = $6, last_updated_at = $6, last_updated_by = $5
		WHERE company_id = $1 AND entry_id = $2 AND status = $7;
	`
	tag, err := tx.Exec(ctx, query, entry.CompanyID, entry.EntryID, models.Posted, number, postedBy, postedAt, models.Draft)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to post draft entry "+entry.EntryID, err)
	}
	if tag.RowsAffected() == 0 {
		// Already posted or reversed by a concurrent caller.
		return nil, apperrors.ErrConflict
	}

	entry.Status = domain.Posted
	entry.EntryNumber = number
	entry.PostedBy = postedBy
	entry.PostedAt = &postedAt
	entry.LastUpdatedAt = postedAt
	entry.LastUpdatedBy = postedBy

	if err := applyBalanceChanges(ctx, tx, entry, balanceChanges); err != nil {
		return nil, err
	}
	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &entry, nil
}

// SaveReversal persists the reversing entry and flips the original to
// Reversed with both links set, in a single transaction.
func (r *PgxJournalRepository) SaveReversal(ctx context.Context, original domain.JournalEntry, reversing domain.JournalEntry, balanceChanges map[string]decimal.Decimal) (*domain.JournalEntry, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	number, err := allocateEntryNumber(ctx, tx, reversing.CompanyID, reversing.FinancialYear)
	if err != nil {
		return nil, err
	}
	reversing.EntryNumber = number

	if err := insertEntry(ctx, tx, reversing); err != nil {
		return nil, err
	}
	if err := insertLines(ctx, tx, reversing.Lines); err != nil {
		return nil, err
	}

	query := `
		UPDATE journal_entries
		SET status = $3, reversed_by_id = $4, last_updated_at = $5, last_updated_by = $6
		WHERE company_id = $1 AND entry_id = $2 AND status = $7 AND reversed_by_id IS NULL;
	`
	tag, err := tx.Exec(ctx, query,
		original.CompanyID, original.EntryID, models.Reversed, reversing.EntryID,
		reversing.CreatedAt, reversing.CreatedBy, models.Posted)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to mark entry "+original.EntryID+" reversed", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, apperrors.ErrConflict
	}

	if err := applyBalanceChanges(ctx, tx, reversing, balanceChanges); err != nil {
		return nil, err
	}
	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &reversing, nil
}

func scanEntry(row pgx.Row) (models.JournalEntry, error) {
	var m models.JournalEntry
	var postedBy *string
	err := row.Scan(
		&m.EntryID, &m.CompanyID, &m.EntryNumber, &m.FinancialYear, &m.EntryDate, &m.DueDate,
		&m.SourceType, &m.SourceID, &m.Description, &m.Status, &postedBy, &m.PostedAt,
		&m.ReversalOfID, &m.ReversedByID,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return models.JournalEntry{}, err
	}
	if postedBy != nil {
		m.PostedBy = *postedBy
	}
	return m, nil
}

// FindEntryByID retrieves an entry header (without lines).
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, companyID, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE company_id = $1 AND entry_id = $2;`
	m, err := scanEntry(r.Pool.QueryRow(ctx, query, companyID, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find journal entry by ID "+entryID, err)
	}
	entry := mapping.ToDomainJournalEntry(m)
	return &entry, nil
}

// FindEntryBySource retrieves the entry posted for an idempotency key.
func (r *PgxJournalRepository) FindEntryBySource(ctx context.Context, companyID string, sourceType domain.SourceType, sourceID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE company_id = $1 AND source_type = $2 AND source_id = $3;`
	m, err := scanEntry(r.Pool.QueryRow(ctx, query, companyID, string(sourceType), sourceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find journal entry by source "+sourceID, err)
	}
	entry := mapping.ToDomainJournalEntry(m)
	return &entry, nil
}

// FindLinesByEntryID retrieves all lines of an entry.
func (r *PgxJournalRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalEntryLine, error) {
	query := `SELECT ` + lineColumns + ` FROM journal_entry_lines WHERE entry_id = $1 ORDER BY line_id;`
	rows, err := r.Pool.Query(ctx, query, entryID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query lines for entry "+entryID, err)
	}
	defer rows.Close()

	lines := []models.JournalEntryLine{}
	for rows.Next() {
		var m models.JournalEntryLine
		if err := rows.Scan(&m.LineID, &m.EntryID, &m.AccountID, &m.Debit, &m.Credit, &m.PartyType, &m.PartyID, &m.Description); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan line row for entry "+entryID, err)
		}
		lines = append(lines, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating line rows for entry "+entryID, err)
	}
	return mapping.ToDomainJournalEntryLineSlice(lines), nil
}

// ListEntries retrieves a keyset-paginated list of entries for a company,
// newest first on (entry_date, entry_number).
func (r *PgxJournalRepository) ListEntries(ctx context.Context, companyID string, limit int, nextToken *string, includeDrafts bool) ([]domain.JournalEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + entryColumns + ` FROM journal_entries WHERE company_id = $1`
	if !includeDrafts {
		baseQuery += ` AND status <> 'DRAFT'`
	}
	orderByClause := `ORDER BY entry_date DESC, entry_number DESC`

	args := []interface{}{companyID}
	if nextToken != nil && *nextToken != "" {
		lastDate, lastNumber, decodeErr := pagination.DecodeEntryToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		baseQuery += ` AND (entry_date, entry_number) < ($2, $3)`
		args = append(args, lastDate, lastNumber)
	}
	query := baseQuery + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to list journal entries for company "+companyID, err)
	}
	defer rows.Close()

	entries := []domain.JournalEntry{}
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan journal entry row", err)
		}
		entries = append(entries, mapping.ToDomainJournalEntry(m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating journal entry rows", err)
	}

	var next *string
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[len(entries)-1]
		token := pagination.EncodeEntryToken(last.EntryDate, last.EntryNumber)
		next = &token
	}
	return entries, next, nil
}

// ListPostedEntriesForYear returns all posted entries of a financial year with
// their lines attached, in (entry date, entry number) order.
func (r *PgxJournalRepository) ListPostedEntriesForYear(ctx context.Context, companyID, financialYear string) ([]domain.JournalEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM journal_entries
		WHERE company_id = $1 AND financial_year = $2 AND status = 'POSTED'
		ORDER BY entry_date, entry_number;
	`
	rows, err := r.Pool.Query(ctx, query, companyID, financialYear)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list posted entries for year "+financialYear, err)
	}
	defer rows.Close()

	entries := []domain.JournalEntry{}
	index := map[string]int{}
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan journal entry row", err)
		}
		entries = append(entries, mapping.ToDomainJournalEntry(m))
		index[m.EntryID] = len(entries) - 1
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating journal entry rows", err)
	}
	if len(entries) == 0 {
		return entries, nil
	}

	lineQuery := `
		SELECT l.line_id, l.entry_id, l.account_id, l.debit, l.credit, l.party_type, l.party_id, l.description
		FROM journal_entry_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE e.company_id = $1 AND e.financial_year = $2 AND e.status = 'POSTED'
		ORDER BY l.entry_id, l.line_id;
	`
	lineRows, err := r.Pool.Query(ctx, lineQuery, companyID, financialYear)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query lines for year "+financialYear, err)
	}
	defer lineRows.Close()

	for lineRows.Next() {
		var m models.JournalEntryLine
		if err := lineRows.Scan(&m.LineID, &m.EntryID, &m.AccountID, &m.Debit, &m.Credit, &m.PartyType, &m.PartyID, &m.Description); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan line row", err)
		}
		if i, ok := index[m.EntryID]; ok {
			entries[i].Lines = append(entries[i].Lines, mapping.ToDomainJournalEntryLine(m))
		}
	}
	if err := lineRows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating line rows", err)
	}
	return entries, nil
}
