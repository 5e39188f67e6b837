package pgsql

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
	"github.com/finbooks/finbooks_backend/internal/models"
	"github.com/finbooks/finbooks_backend/internal/utils/mapping"
)

const accountColumns = `account_id, company_id, code, name, account_type, parent_account_id, depth,
	is_control_account, control_account_type, purpose, is_active,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for chart-of-accounts data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

func scanAccount(row pgx.Row) (models.Account, error) {
	var m models.Account
	var controlType, purpose sql.NullString
	err := row.Scan(
		&m.AccountID,
		&m.CompanyID,
		&m.Code,
		&m.Name,
		&m.AccountType,
		&m.ParentAccountID,
		&m.Depth,
		&m.IsControlAccount,
		&controlType,
		&purpose,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return models.Account{}, err
	}
	if controlType.Valid {
		m.ControlAccountType = controlType.String
	}
	if purpose.Valid {
		m.Purpose = purpose.String
	}
	return m, nil
}

func (r *PgxAccountRepository) queryAccounts(ctx context.Context, query string, args ...interface{}) ([]models.Account, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := []models.Account{}
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, m)
	}
	return accounts, rows.Err()
}

// SaveAccount persists a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), NULLIF($10, ''), $11, $12, $13, $14, $15);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.AccountID,
		m.CompanyID,
		m.Code,
		m.Name,
		m.AccountType,
		m.ParentAccountID,
		m.Depth,
		m.IsControlAccount,
		m.ControlAccountType,
		m.Purpose,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err, "") {
			// Duplicate code or a second account claiming the same purpose.
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert account "+m.AccountID, err)
	}
	return nil
}

// FindAccountByID retrieves an account scoped to a company.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, companyID, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE company_id = $1 AND account_id = $2;`
	m, err := scanAccount(r.Pool.QueryRow(ctx, query, companyID, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find account by ID "+accountID, err)
	}
	domainAccount := mapping.ToDomainAccount(m)
	return &domainAccount, nil
}

// FindAccountsByIDs retrieves multiple accounts keyed by account ID. Missing
// IDs are simply absent from the result map.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, companyID string, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE company_id = $1 AND account_id = ANY($2);`
	ms, err := r.queryAccounts(ctx, query, companyID, accountIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to find accounts by IDs", err)
	}

	result := make(map[string]domain.Account, len(ms))
	for _, m := range ms {
		result[m.AccountID] = mapping.ToDomainAccount(m)
	}
	return result, nil
}

// FindAccountByPurpose resolves the system account tagged with a purpose.
func (r *PgxAccountRepository) FindAccountByPurpose(ctx context.Context, companyID string, purpose domain.AccountPurpose) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE company_id = $1 AND purpose = $2;`
	m, err := scanAccount(r.Pool.QueryRow(ctx, query, companyID, string(purpose)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("no account configured for purpose " + string(purpose))
		}
		return nil, apperrors.NewAppError(500, "failed to find account by purpose "+string(purpose), err)
	}
	domainAccount := mapping.ToDomainAccount(m)
	return &domainAccount, nil
}

// ListAccounts returns all accounts of a company ordered by code.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, companyID string) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE company_id = $1 ORDER BY code;`
	ms, err := r.queryAccounts(ctx, query, companyID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list accounts for company "+companyID, err)
	}
	return mapping.ToDomainAccountSlice(ms), nil
}

// ListControlAccounts returns the company's control accounts.
func (r *PgxAccountRepository) ListControlAccounts(ctx context.Context, companyID string) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE company_id = $1 AND is_control_account ORDER BY code;`
	ms, err := r.queryAccounts(ctx, query, companyID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list control accounts for company "+companyID, err)
	}
	return mapping.ToDomainAccountSlice(ms), nil
}
