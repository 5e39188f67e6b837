package services

import (
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Company and account services first since everything else depends on them
	container.CompanySvc = NewCompanyService(repos.CompanyRepo)
	container.AccountSvc = NewAccountService(repos.AccountRepo, container.CompanySvc)

	container.JournalSvc = NewJournalService(repos.JournalRepo, container.AccountSvc, container.CompanySvc)
	container.AutoPostSvc = NewAutoPostService(container.JournalSvc, repos.JournalRepo, container.AccountSvc, container.CompanySvc)

	container.PeriodBalanceSvc = NewPeriodBalanceService(repos.PeriodBalanceRepo, repos.JournalRepo, container.AccountSvc, container.CompanySvc)
	container.ReportingSvc = NewReportingService(repos.ReportingRepo, container.CompanySvc)
	container.SubledgerSvc = NewSubledgerService(repos.SubledgerRepo, repos.AccountRepo, container.CompanySvc)

	container.BankRecSvc = NewBankRecService(repos.BankRepo, repos.JournalRepo, container.JournalSvc, container.AutoPostSvc, container.CompanySvc)

	return container
}

// Compile-time interface checks
var (
	_ portssvc.CompanySvcFacade       = (*companyService)(nil)
	_ portssvc.AccountSvcFacade       = (*accountService)(nil)
	_ portssvc.JournalSvcFacade       = (*journalService)(nil)
	_ portssvc.AutoPostSvcFacade      = (*autoPostService)(nil)
	_ portssvc.PeriodBalanceSvcFacade = (*periodBalanceService)(nil)
	_ portssvc.ReportingSvcFacade     = (*reportingService)(nil)
	_ portssvc.SubledgerSvcFacade     = (*subledgerService)(nil)
	_ portssvc.BankRecSvcFacade       = (*bankRecService)(nil)
)
