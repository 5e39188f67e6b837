package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
	"github.com/finbooks/finbooks_backend/internal/models"
	"github.com/finbooks/finbooks_backend/internal/utils/mapping"
)

const periodBalanceColumns = `company_id, account_id, financial_year, period_month,
	opening_balance, period_debits, period_credits, closing_balance`

type PgxPeriodBalanceRepository struct {
	BaseRepository
}

// newPgxPeriodBalanceRepository creates a new repository for the period
// balance cache.
func newPgxPeriodBalanceRepository(pool *pgxpool.Pool) portsrepo.PeriodBalanceRepositoryFacade {
	return &PgxPeriodBalanceRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.PeriodBalanceRepositoryFacade = (*PgxPeriodBalanceRepository)(nil)

func scanPeriodBalance(row pgx.Row) (models.PeriodBalance, error) {
	var m models.PeriodBalance
	err := row.Scan(
		&m.CompanyID, &m.AccountID, &m.FinancialYear, &m.PeriodMonth,
		&m.OpeningBalance, &m.PeriodDebits, &m.PeriodCredits, &m.ClosingBalance,
	)
	return m, err
}

// ListPeriodBalances returns every cached row for a financial year, ordered by
// account then fiscal month.
func (r *PgxPeriodBalanceRepository) ListPeriodBalances(ctx context.Context, companyID, financialYear string) ([]domain.PeriodBalance, error) {
	query := `
		SELECT pb.company_id, pb.account_id, pb.financial_year, pb.period_month,
		       pb.opening_balance, pb.period_debits, pb.period_credits, pb.closing_balance
		FROM period_balances pb
		JOIN companies c ON c.company_id = pb.company_id
		WHERE pb.company_id = $1 AND pb.financial_year = $2
		ORDER BY pb.account_id, ((pb.period_month - c.fy_start_month + 12) % 12);
	`
	rows, err := r.Pool.Query(ctx, query, companyID, financialYear)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list period balances for year "+financialYear, err)
	}
	defer rows.Close()

	balances := []models.PeriodBalance{}
	for rows.Next() {
		m, err := scanPeriodBalance(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan period balance row", err)
		}
		balances = append(balances, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating period balance rows", err)
	}
	return mapping.ToDomainPeriodBalanceSlice(balances), nil
}

// FindPeriodBalance returns one (account, period) row.
func (r *PgxPeriodBalanceRepository) FindPeriodBalance(ctx context.Context, companyID, accountID, financialYear string, periodMonth int) (*domain.PeriodBalance, error) {
	query := `
		SELECT ` + periodBalanceColumns + `
		FROM period_balances
		WHERE company_id = $1 AND account_id = $2 AND financial_year = $3 AND period_month = $4;
	`
	m, err := scanPeriodBalance(r.Pool.QueryRow(ctx, query, companyID, accountID, financialYear, periodMonth))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find period balance", err)
	}
	balance := mapping.ToDomainPeriodBalance(m)
	return &balance, nil
}

// ReplaceForYear atomically replaces all rows of a (company, financial year)
// with the recomputed rows. It holds the same advisory lock the posting path
// takes, so a rebuild never interleaves with concurrent posting into the same
// periods.
func (r *PgxPeriodBalanceRepository) ReplaceForYear(ctx context.Context, companyID, financialYear string, balances []domain.PeriodBalance) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := lockPeriodScope(ctx, tx, companyID, financialYear); err != nil {
		return err
	}

	deleteQuery := `DELETE FROM period_balances WHERE company_id = $1 AND financial_year = $2;`
	if _, err := tx.Exec(ctx, deleteQuery, companyID, financialYear); err != nil {
		return apperrors.NewAppError(500, "failed to clear period balances for year "+financialYear, err)
	}

	batch := &pgx.Batch{}
	insertQuery := `
		INSERT INTO period_balances (` + periodBalanceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	for _, balance := range balances {
		m := mapping.ToModelPeriodBalance(balance)
		batch.Queue(insertQuery,
			m.CompanyID, m.AccountID, m.FinancialYear, m.PeriodMonth,
			m.OpeningBalance, m.PeriodDebits, m.PeriodCredits, m.ClosingBalance,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert recomputed period balances", err)
	}

	return r.Commit(ctx, tx)
}
