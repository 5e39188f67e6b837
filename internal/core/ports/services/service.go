package services

// ServiceContainer holds all the service facades wired at startup.
type ServiceContainer struct {
	CompanySvc       CompanySvcFacade
	AccountSvc       AccountSvcFacade
	JournalSvc       JournalSvcFacade
	AutoPostSvc      AutoPostSvcFacade
	PeriodBalanceSvc PeriodBalanceSvcFacade
	ReportingSvc     ReportingSvcFacade
	SubledgerSvc     SubledgerSvcFacade
	BankRecSvc       BankRecSvcFacade
}
