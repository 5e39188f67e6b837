package handlers

import (
	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/middleware"
	"github.com/finbooks/finbooks_backend/internal/platform/config"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	setupAPIV1Routes(r, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	services *portssvc.ServiceContainer,
) {
	// Every v1 route requires an authenticated actor; the gateway in front of
	// this service sets the actor header after authentication.
	v1 := r.Group("/api/v1", middleware.ActorIDMiddleware())

	registerCompanyRoutes(v1, services.CompanySvc)

	// All ledger operations are scoped to a single company
	company := v1.Group("/companies/:companyID")
	registerAccountRoutes(company, services.AccountSvc)
	registerJournalRoutes(company, services.JournalSvc)
	registerPostingRoutes(company, services.AutoPostSvc)
	registerReportingRoutes(company, services.ReportingSvc, services.PeriodBalanceSvc)
	registerSubledgerRoutes(company, services.SubledgerSvc)
	registerBankRecRoutes(company, services.BankRecSvc)
}
