package pgsql

import (
	"context"
	"database/sql"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
)

type PgxSubledgerRepository struct {
	BaseRepository
}

// newPgxSubledgerRepository creates a new repository for party-level journal
// line projections.
func newPgxSubledgerRepository(pool *pgxpool.Pool) portsrepo.SubledgerRepository {
	return &PgxSubledgerRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.SubledgerRepository = (*PgxSubledgerRepository)(nil)

func (r *PgxSubledgerRepository) queryDocLines(ctx context.Context, query string, args ...interface{}) ([]portsrepo.SubledgerDocLine, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := []portsrepo.SubledgerDocLine{}
	for rows.Next() {
		var l portsrepo.SubledgerDocLine
		var partyType, partyID, partyName sql.NullString
		if err := rows.Scan(
			&l.EntryID, &l.EntryNumber, &l.EntryDate, &l.DueDate, &l.SourceType, &l.SourceID,
			&l.Description, &partyType, &partyID, &partyName, &l.Debit, &l.Credit,
		); err != nil {
			return nil, err
		}
		l.PartyType = partyType.String
		l.PartyID = partyID.String
		l.PartyName = partyName.String
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// ListPartyLines returns every party-tagged line on control accounts of the
// given subledger type up to asOf, ordered by party, then entry date, then
// entry number.
func (r *PgxSubledgerRepository) ListPartyLines(ctx context.Context, companyID string, controlType domain.ControlAccountType, asOf time.Time) ([]portsrepo.SubledgerDocLine, error) {
	query := `
		SELECT e.entry_id, e.entry_number, e.entry_date, e.due_date, e.source_type, e.source_id,
		       e.description, l.party_type, l.party_id, COALESCE(l.party_id, '') AS party_name, l.debit, l.credit
		FROM journal_entry_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		JOIN accounts a ON a.account_id = l.account_id
		WHERE e.company_id = $1 AND e.status = 'POSTED' AND e.entry_date <= $2
		  AND a.is_control_account AND a.control_account_type = $3
		  AND l.party_id IS NOT NULL
		ORDER BY l.party_type, l.party_id, e.entry_date, e.entry_number;
	`
	lines, err := r.queryDocLines(ctx, query, companyID, asOf, string(controlType))
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list subledger lines for company "+companyID, err)
	}
	return lines, nil
}

// ListLinesForParty returns one party's lines within [from, to], ordered by
// entry date then entry number.
func (r *PgxSubledgerRepository) ListLinesForParty(ctx context.Context, companyID, partyType, partyID string, from, to time.Time) ([]portsrepo.SubledgerDocLine, error) {
	query := `
		SELECT e.entry_id, e.entry_number, e.entry_date, e.due_date, e.source_type, e.source_id,
		       e.description, l.party_type, l.party_id, COALESCE(l.party_id, '') AS party_name, l.debit, l.credit
		FROM journal_entry_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE e.company_id = $1 AND e.status = 'POSTED'
		  AND l.party_type = $2 AND l.party_id = $3
		  AND e.entry_date >= $4 AND e.entry_date <= $5
		ORDER BY e.entry_date, e.entry_number;
	`
	lines, err := r.queryDocLines(ctx, query, companyID, partyType, partyID, from, to)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list lines for party "+partyID, err)
	}
	return lines, nil
}

// GetPartyOpeningBalance nets all of a party's lines strictly before the given
// date (debits minus credits).
func (r *PgxSubledgerRepository) GetPartyOpeningBalance(ctx context.Context, companyID, partyType, partyID string, before time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(l.debit - l.credit), 0)
		FROM journal_entry_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE e.company_id = $1 AND e.status = 'POSTED'
		  AND l.party_type = $2 AND l.party_id = $3 AND e.entry_date < $4;
	`
	var balance decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, companyID, partyType, partyID, before).Scan(&balance); err != nil {
		return decimal.Zero, apperrors.NewAppError(500, "failed to compute opening balance for party "+partyID, err)
	}
	return balance, nil
}

// GetControlAccountBalance nets all posted lines on the control account itself
// up to asOf (debits minus credits).
func (r *PgxSubledgerRepository) GetControlAccountBalance(ctx context.Context, companyID, accountID string, asOf time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(l.debit - l.credit), 0)
		FROM journal_entry_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE e.company_id = $1 AND e.status = 'POSTED'
		  AND l.account_id = $2 AND e.entry_date <= $3;
	`
	var balance decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, companyID, accountID, asOf).Scan(&balance); err != nil {
		return decimal.Zero, apperrors.NewAppError(500, "failed to compute control account balance for "+accountID, err)
	}
	return balance, nil
}

// ListPartyBalances nets party-tagged lines on one control account up to asOf,
// grouped per party.
func (r *PgxSubledgerRepository) ListPartyBalances(ctx context.Context, companyID, accountID string, asOf time.Time) ([]domain.PartyBalance, error) {
	query := `
		SELECT l.party_type, l.party_id, COALESCE(SUM(l.debit - l.credit), 0) AS balance
		FROM journal_entry_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE e.company_id = $1 AND e.status = 'POSTED'
		  AND l.account_id = $2 AND e.entry_date <= $3
		  AND l.party_id IS NOT NULL
		GROUP BY l.party_type, l.party_id
		HAVING COALESCE(SUM(l.debit - l.credit), 0) <> 0
		ORDER BY l.party_type, l.party_id;
	`
	rows, err := r.Pool.Query(ctx, query, companyID, accountID, asOf)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list party balances for account "+accountID, err)
	}
	defer rows.Close()

	balances := []domain.PartyBalance{}
	for rows.Next() {
		var b domain.PartyBalance
		if err := rows.Scan(&b.PartyType, &b.PartyID, &b.Balance); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan party balance row", err)
		}
		balances = append(balances, b)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating party balance rows", err)
	}
	return balances, nil
}
