package handlers

import (
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler serves financial statements and the period balance cache.
type reportingHandler struct {
	reportingService     portssvc.ReportingSvcFacade
	periodBalanceService portssvc.PeriodBalanceSvcFacade
}

func newReportingHandler(rs portssvc.ReportingSvcFacade, pbs portssvc.PeriodBalanceSvcFacade) *reportingHandler {
	return &reportingHandler{reportingService: rs, periodBalanceService: pbs}
}

// registerReportingRoutes registers report and balance routes under a company scope.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade, periodBalanceService portssvc.PeriodBalanceSvcFacade) {
	h := newReportingHandler(reportingService, periodBalanceService)

	reports := rg.Group("/reports")
	{
		reports.GET("/trial-balance", h.trialBalance)
		reports.GET("/income-statement", h.incomeStatement)
		reports.GET("/balance-sheet", h.balanceSheet)
		reports.GET("/abnormal-balances", h.abnormalBalances)
	}

	balances := rg.Group("/balances")
	{
		balances.GET("", h.listBalances)
		balances.POST("/recalculate", h.recalculate)
	}
}

func (h *reportingHandler) trialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")

	asOf, ok := parseDateParam(c, "asOf", time.Now())
	if !ok {
		return
	}

	report, err := h.reportingService.TrialBalance(c.Request.Context(), companyID, asOf)
	if err != nil {
		respondError(c, logger, err, "build trial balance")
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *reportingHandler) incomeStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")

	from, ok := parseDateParam(c, "from", time.Time{})
	if !ok {
		return
	}
	if from.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from is required (YYYY-MM-DD)"})
		return
	}
	to, ok := parseDateParam(c, "to", time.Now())
	if !ok {
		return
	}

	report, err := h.reportingService.IncomeStatement(c.Request.Context(), companyID, from, to)
	if err != nil {
		respondError(c, logger, err, "build income statement")
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *reportingHandler) balanceSheet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")

	asOf, ok := parseDateParam(c, "asOf", time.Now())
	if !ok {
		return
	}

	report, err := h.reportingService.BalanceSheet(c.Request.Context(), companyID, asOf)
	if err != nil {
		respondError(c, logger, err, "build balance sheet")
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *reportingHandler) abnormalBalances(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")

	asOf, ok := parseDateParam(c, "asOf", time.Now())
	if !ok {
		return
	}

	abnormal, err := h.reportingService.AbnormalBalances(c.Request.Context(), companyID, asOf)
	if err != nil {
		respondError(c, logger, err, "list abnormal balances")
		return
	}

	c.JSON(http.StatusOK, gin.H{"abnormalBalances": abnormal})
}

func (h *reportingHandler) listBalances(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")

	financialYear := c.Query("financialYear")
	if financialYear == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "financialYear is required (e.g. 2025-26)"})
		return
	}
	var accountID *string
	if raw := c.Query("accountID"); raw != "" {
		accountID = &raw
	}

	balances, err := h.periodBalanceService.ListBalances(c.Request.Context(), companyID, financialYear, accountID)
	if err != nil {
		respondError(c, logger, err, "list period balances")
		return
	}

	c.JSON(http.StatusOK, gin.H{"balances": balances})
}

func (h *reportingHandler) recalculate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")

	financialYear := c.Query("financialYear")
	if financialYear == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "financialYear is required (e.g. 2025-26)"})
		return
	}

	if err := h.periodBalanceService.Recalculate(c.Request.Context(), companyID, financialYear); err != nil {
		respondError(c, logger, err, "recalculate period balances")
		return
	}

	logger.Info("Period balances recalculated", slog.String("company_id", companyID), slog.String("financial_year", financialYear))
	c.Status(http.StatusNoContent)
}
