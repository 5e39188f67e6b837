package pgsql

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
)

type ReportingRepository struct {
	BaseRepository
}

// newReportingRepository creates a new repository for report aggregates.
func newReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingRepository {
	return &ReportingRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.ReportingRepository = (*ReportingRepository)(nil)

// GetActivityData aggregates, per account with any posted activity up to `to`,
// the net balance accumulated before `from` and the debit/credit totals within
// [from, to]. The opening is returned on the account's normal side.
func (r *ReportingRepository) GetActivityData(ctx context.Context, companyID string, from, to time.Time) ([]domain.TrialBalanceRow, error) {
	query := `
		SELECT a.account_id, a.code, a.name, a.account_type,
		       COALESCE(SUM(CASE WHEN e.entry_date < $2 THEN l.debit - l.credit ELSE 0 END), 0) AS opening_net,
		       COALESCE(SUM(CASE WHEN e.entry_date >= $2 THEN l.debit ELSE 0 END), 0) AS period_debits,
		       COALESCE(SUM(CASE WHEN e.entry_date >= $2 THEN l.credit ELSE 0 END), 0) AS period_credits
		FROM accounts a
		JOIN journal_entry_lines l ON l.account_id = a.account_id
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE a.company_id = $1 AND e.status = 'POSTED' AND e.entry_date <= $3
		GROUP BY a.account_id, a.code, a.name, a.account_type
		ORDER BY a.code;
	`
	rows, err := r.Pool.Query(ctx, query, companyID, from, to)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query activity data for company "+companyID, err)
	}
	defer rows.Close()

	result := []domain.TrialBalanceRow{}
	for rows.Next() {
		var row domain.TrialBalanceRow
		if err := rows.Scan(&row.AccountID, &row.AccountCode, &row.AccountName, &row.AccountType, &row.Opening, &row.Debits, &row.Credits); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan activity row", err)
		}
		// The SQL nets debits minus credits; express the opening on the
		// account's normal side.
		if domain.NormalSideFor(row.AccountType) == domain.CreditSide {
			row.Opening = row.Opening.Neg()
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating activity rows", err)
	}
	return result, nil
}
