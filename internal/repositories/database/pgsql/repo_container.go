package pgsql

import (
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	companyRepo := newPgxCompanyRepository(dbPool)
	accountRepo := newPgxAccountRepository(dbPool)
	journalRepo := newPgxJournalRepository(dbPool)
	periodBalanceRepo := newPgxPeriodBalanceRepository(dbPool)
	reportingRepo := newReportingRepository(dbPool)
	subledgerRepo := newPgxSubledgerRepository(dbPool)
	bankRepo := newPgxBankRepository(dbPool)

	return portsrepo.RepositoryProvider{
		CompanyRepo:       companyRepo,
		AccountRepo:       accountRepo,
		JournalRepo:       journalRepo,
		PeriodBalanceRepo: periodBalanceRepo,
		ReportingRepo:     reportingRepo,
		SubledgerRepo:     subledgerRepo,
		BankRepo:          bankRepo,
	}
}
