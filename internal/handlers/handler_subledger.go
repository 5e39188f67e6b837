package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// subledgerHandler serves party-level views over control account lines.
type subledgerHandler struct {
	subledgerService portssvc.SubledgerSvcFacade
}

func newSubledgerHandler(ss portssvc.SubledgerSvcFacade) *subledgerHandler {
	return &subledgerHandler{subledgerService: ss}
}

// registerSubledgerRoutes registers subledger routes under a company scope.
func registerSubledgerRoutes(rg *gin.RouterGroup, subledgerService portssvc.SubledgerSvcFacade) {
	h := newSubledgerHandler(subledgerService)

	subledger := rg.Group("/subledger/:controlType")
	{
		subledger.GET("/aging", h.agingReport)
		subledger.GET("/balances", h.partyBalances)
		subledger.GET("/reconcile", h.reconcileControl)
	}

	rg.GET("/parties/:partyType/:partyID/ledger", h.partyLedger)
}

func controlTypeParam(c *gin.Context) (domain.ControlAccountType, bool) {
	switch strings.ToUpper(c.Param("controlType")) {
	case string(domain.ControlAR):
		return domain.ControlAR, true
	case string(domain.ControlAP):
		return domain.ControlAP, true
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "controlType must be AR or AP"})
		return "", false
	}
}

// parseBoundariesParam reads the optional comma-separated bucket cut-offs,
// e.g. boundaries=15,45,75. Empty means the service default.
func parseBoundariesParam(c *gin.Context) ([]int, bool) {
	raw := c.Query("boundaries")
	if raw == "" {
		return nil, true
	}
	parts := strings.Split(raw, ",")
	boundaries := make([]int, 0, len(parts))
	for _, part := range parts {
		days, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "boundaries must be comma-separated day counts"})
			return nil, false
		}
		boundaries = append(boundaries, days)
	}
	return boundaries, true
}

func (h *subledgerHandler) agingReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")

	controlType, ok := controlTypeParam(c)
	if !ok {
		return
	}
	asOf, ok := parseDateParam(c, "asOf", time.Now())
	if !ok {
		return
	}
	boundaries, ok := parseBoundariesParam(c)
	if !ok {
		return
	}

	report, err := h.subledgerService.AgingReport(c.Request.Context(), companyID, controlType, asOf, boundaries)
	if err != nil {
		respondError(c, logger, err, "build aging report")
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *subledgerHandler) partyBalances(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")

	controlType, ok := controlTypeParam(c)
	if !ok {
		return
	}
	asOf, ok := parseDateParam(c, "asOf", time.Now())
	if !ok {
		return
	}

	balances, err := h.subledgerService.PartyBalances(c.Request.Context(), companyID, controlType, asOf)
	if err != nil {
		respondError(c, logger, err, "list party balances")
		return
	}

	c.JSON(http.StatusOK, gin.H{"balances": balances})
}

func (h *subledgerHandler) reconcileControl(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")

	controlType, ok := controlTypeParam(c)
	if !ok {
		return
	}
	asOf, ok := parseDateParam(c, "asOf", time.Now())
	if !ok {
		return
	}

	recon, err := h.subledgerService.ReconcileControl(c.Request.Context(), companyID, controlType, asOf)
	if err != nil {
		respondError(c, logger, err, "reconcile control account")
		return
	}

	c.JSON(http.StatusOK, recon)
}

func (h *subledgerHandler) partyLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")
	partyType := c.Param("partyType")
	partyID := c.Param("partyID")

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

	ledger, err := h.subledgerService.PartyLedger(c.Request.Context(), companyID, partyType, partyID, from, to)
	if err != nil {
		respondError(c, logger, err, "build party ledger")
		return
	}

	c.JSON(http.StatusOK, ledger)
}
