package handlers

import (
	"log/slog"
	"net/http"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/dto"
	"github.com/finbooks/finbooks_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// postingHandler exposes the auto-posting operations, one route per business
// event kind plus the generic escape hatch.
type postingHandler struct {
	autoPostService portssvc.AutoPostSvcFacade
}

func newPostingHandler(aps portssvc.AutoPostSvcFacade) *postingHandler {
	return &postingHandler{autoPostService: aps}
}

// registerPostingRoutes registers posting routes under a company scope.
func registerPostingRoutes(rg *gin.RouterGroup, autoPostService portssvc.AutoPostSvcFacade) {
	h := newPostingHandler(autoPostService)

	postings := rg.Group("/postings")
	{
		postings.POST("/invoice", h.postInvoice)
		postings.POST("/payment", h.postPayment)
		postings.POST("/expense", h.postExpense)
		postings.POST("/vendor-invoice", h.postVendorInvoice)
		postings.POST("/vendor-payment", h.postVendorPayment)
		postings.POST("/payroll", h.postPayroll)
		postings.POST("/loan-payment", h.postLoanPayment)
		postings.POST("/loan-prepayment", h.postLoanPrepayment)
		postings.POST("/generic", h.postGeneric)
	}
}

// bindAndPost factors the shared bind/auth/respond cycle; post runs the
// service call once the request payload has been bound into req.
func bindAndPost[T any](c *gin.Context, action string, post func(ctx *gin.Context, companyID string, req T, actorID string) (*domain.JournalEntry, error)) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")

	var req T
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for posting", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entry, err := post(c, companyID, req, actorID)
	if err != nil {
		respondError(c, logger, err, action)
		return
	}

	logger.Info("Posting processed",
		slog.String("action", action),
		slog.String("company_id", companyID),
		slog.String("entry_id", entry.EntryID),
		slog.String("status", string(entry.Status)))
	c.JSON(http.StatusCreated, dto.ToEntryResponse(entry))
}

func (h *postingHandler) postInvoice(c *gin.Context) {
	bindAndPost(c, "post invoice", func(ctx *gin.Context, companyID string, req dto.InvoicePostRequest, actorID string) (*domain.JournalEntry, error) {
		return h.autoPostService.PostInvoice(ctx.Request.Context(), companyID, req, actorID)
	})
}

func (h *postingHandler) postPayment(c *gin.Context) {
	bindAndPost(c, "post payment", func(ctx *gin.Context, companyID string, req dto.PaymentPostRequest, actorID string) (*domain.JournalEntry, error) {
		return h.autoPostService.PostPayment(ctx.Request.Context(), companyID, req, actorID)
	})
}

func (h *postingHandler) postExpense(c *gin.Context) {
	bindAndPost(c, "post expense", func(ctx *gin.Context, companyID string, req dto.ExpensePostRequest, actorID string) (*domain.JournalEntry, error) {
		return h.autoPostService.PostExpense(ctx.Request.Context(), companyID, req, actorID)
	})
}

func (h *postingHandler) postVendorInvoice(c *gin.Context) {
	bindAndPost(c, "post vendor invoice", func(ctx *gin.Context, companyID string, req dto.VendorInvoicePostRequest, actorID string) (*domain.JournalEntry, error) {
		return h.autoPostService.PostVendorInvoice(ctx.Request.Context(), companyID, req, actorID)
	})
}

func (h *postingHandler) postVendorPayment(c *gin.Context) {
	bindAndPost(c, "post vendor payment", func(ctx *gin.Context, companyID string, req dto.VendorPaymentPostRequest, actorID string) (*domain.JournalEntry, error) {
		return h.autoPostService.PostVendorPayment(ctx.Request.Context(), companyID, req, actorID)
	})
}

func (h *postingHandler) postPayroll(c *gin.Context) {
	bindAndPost(c, "post payroll", func(ctx *gin.Context, companyID string, req dto.PayrollPostRequest, actorID string) (*domain.JournalEntry, error) {
		return h.autoPostService.PostPayroll(ctx.Request.Context(), companyID, req, actorID)
	})
}

func (h *postingHandler) postLoanPayment(c *gin.Context) {
	bindAndPost(c, "post loan payment", func(ctx *gin.Context, companyID string, req dto.LoanPaymentPostRequest, actorID string) (*domain.JournalEntry, error) {
		return h.autoPostService.PostLoanPayment(ctx.Request.Context(), companyID, req, actorID)
	})
}

func (h *postingHandler) postLoanPrepayment(c *gin.Context) {
	bindAndPost(c, "post loan prepayment", func(ctx *gin.Context, companyID string, req dto.LoanPrepaymentPostRequest, actorID string) (*domain.JournalEntry, error) {
		return h.autoPostService.PostLoanPrepayment(ctx.Request.Context(), companyID, req, actorID)
	})
}

func (h *postingHandler) postGeneric(c *gin.Context) {
	bindAndPost(c, "post generic event", func(ctx *gin.Context, companyID string, req dto.GenericPostRequest, actorID string) (*domain.JournalEntry, error) {
		return h.autoPostService.PostFromSource(ctx.Request.Context(), companyID, req, actorID)
	})
}
