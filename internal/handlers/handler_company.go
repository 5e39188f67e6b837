package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/dto"
	"github.com/finbooks/finbooks_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// companyHandler handles HTTP requests related to companies.
type companyHandler struct {
	companyService portssvc.CompanySvcFacade
}

func newCompanyHandler(cs portssvc.CompanySvcFacade) *companyHandler {
	return &companyHandler{companyService: cs}
}

// registerCompanyRoutes registers the top-level company routes.
func registerCompanyRoutes(rg *gin.RouterGroup, companyService portssvc.CompanySvcFacade) {
	h := newCompanyHandler(companyService)

	companies := rg.Group("/companies")
	{
		companies.POST("", h.createCompany)
		companies.GET("/:companyID", h.getCompany)
		companies.PUT("/:companyID/autopost", h.setAutoPost)
	}
}

func (h *companyHandler) createCompany(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateCompany", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	company, err := h.companyService.CreateCompany(c.Request.Context(), req, actorID)
	if err != nil {
		respondError(c, logger, err, "create company")
		return
	}

	logger.Info("Company created", slog.String("company_id", company.CompanyID))
	c.JSON(http.StatusCreated, dto.ToCompanyResponse(company))
}

func (h *companyHandler) getCompany(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")

	company, err := h.companyService.GetCompanyByID(c.Request.Context(), companyID)
	if err != nil {
		respondError(c, logger, err, "retrieve company")
		return
	}

	c.JSON(http.StatusOK, dto.ToCompanyResponse(company))
}

func (h *companyHandler) setAutoPost(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")

	var req dto.UpdateAutoPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.companyService.SetAutoPost(c.Request.Context(), companyID, *req.Enabled, actorID); err != nil {
		respondError(c, logger, err, "update auto-post setting")
		return
	}

	logger.Info("Auto-post setting updated", slog.String("company_id", companyID), slog.Bool("enabled", *req.Enabled))
	c.Status(http.StatusNoContent)
}
