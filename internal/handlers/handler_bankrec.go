package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/dto"
	"github.com/finbooks/finbooks_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// bankRecHandler drives statement import and reconciliation over HTTP.
type bankRecHandler struct {
	bankRecService portssvc.BankRecSvcFacade
}

func newBankRecHandler(brs portssvc.BankRecSvcFacade) *bankRecHandler {
	return &bankRecHandler{bankRecService: brs}
}

// registerBankRecRoutes registers reconciliation routes under a company scope.
func registerBankRecRoutes(rg *gin.RouterGroup, bankRecService portssvc.BankRecSvcFacade) {
	h := newBankRecHandler(bankRecService)

	bankrec := rg.Group("/bankrec")
	{
		bankrec.POST("/import", h.importStatement)
		bankrec.POST("/records", h.registerRecord)
		bankrec.GET("/transactions", h.listTransactions)
		bankrec.GET("/transactions/:transactionID", h.getTransaction)
		bankrec.GET("/transactions/:transactionID/candidates", h.suggestCandidates)
		bankrec.GET("/transactions/:transactionID/reversal", h.detectReversal)
		bankrec.GET("/transactions/:transactionID/originals", h.suggestOriginals)
		bankrec.POST("/transactions/:transactionID/link-record", h.linkRecord)
		bankrec.POST("/transactions/:transactionID/link-journal", h.linkJournalEntry)
		bankrec.POST("/transactions/:transactionID/unlink", h.unlink)
		bankrec.POST("/transactions/:transactionID/pair", h.pairReversal)
		bankrec.GET("/statement", h.statement)
		bankrec.GET("/statement/enhanced", h.enhancedStatement)
	}
}

func (h *bankRecHandler) importStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")

	var req dto.ImportStatementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ImportStatement", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.bankRecService.ImportStatement(c.Request.Context(), companyID, req, actorID)
	if err != nil {
		respondError(c, logger, err, "import bank statement")
		return
	}

	logger.Info("Bank statement imported",
		slog.String("company_id", companyID),
		slog.String("bank_account_id", req.BankAccountID),
		slog.Int("imported", result.Imported),
		slog.Int("skipped", result.Skipped),
		slog.Int("failed", result.Failed))
	c.JSON(http.StatusCreated, result)
}

func (h *bankRecHandler) registerRecord(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")

	var req dto.RegisterRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.bankRecService.RegisterRecord(c.Request.Context(), companyID, req, actorID); err != nil {
		respondError(c, logger, err, "register record")
		return
	}

	logger.Info("Record registered for matching",
		slog.String("company_id", companyID),
		slog.String("record_type", req.RecordType),
		slog.String("record_id", req.RecordID))
	c.Status(http.StatusNoContent)
}

func (h *bankRecHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")

	bankAccountID := c.Query("bankAccountID")
	if bankAccountID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bankAccountID is required"})
		return
	}
	unreconciledOnly, _ := strconv.ParseBool(c.DefaultQuery("unreconciledOnly", "false"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	nextToken := c.Query("nextToken")

	txns, token, err := h.bankRecService.ListBankTransactions(c.Request.Context(), companyID, bankAccountID, unreconciledOnly, limit, nextToken)
	if err != nil {
		respondError(c, logger, err, "list bank transactions")
		return
	}

	responses := make([]dto.BankTransactionResponse, len(txns))
	for i := range txns {
		responses[i] = dto.ToBankTransactionResponse(&txns[i])
	}
	resp := gin.H{"transactions": responses}
	if token != "" {
		resp["nextToken"] = token
	}
	c.JSON(http.StatusOK, resp)
}

func (h *bankRecHandler) getTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")
	transactionID := c.Param("transactionID")

	txn, err := h.bankRecService.GetBankTransaction(c.Request.Context(), companyID, transactionID)
	if err != nil {
		respondError(c, logger, err, "retrieve bank transaction")
		return
	}

	c.JSON(http.StatusOK, dto.ToBankTransactionResponse(txn))
}

func (h *bankRecHandler) suggestCandidates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")
	transactionID := c.Param("transactionID")

	var req dto.CandidateSearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	suggestions, err := h.bankRecService.SuggestCandidates(c.Request.Context(), companyID, transactionID, req)
	if err != nil {
		respondError(c, logger, err, "suggest reconciliation candidates")
		return
	}

	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

func (h *bankRecHandler) detectReversal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")
	transactionID := c.Param("transactionID")

	detection, err := h.bankRecService.DetectReversal(c.Request.Context(), companyID, transactionID)
	if err != nil {
		respondError(c, logger, err, "detect reversal")
		return
	}

	c.JSON(http.StatusOK, detection)
}

func (h *bankRecHandler) suggestOriginals(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")
	transactionID := c.Param("transactionID")

	originals, err := h.bankRecService.SuggestOriginals(c.Request.Context(), companyID, transactionID)
	if err != nil {
		respondError(c, logger, err, "suggest original transactions")
		return
	}

	c.JSON(http.StatusOK, gin.H{"originals": originals})
}

func (h *bankRecHandler) linkRecord(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")
	transactionID := c.Param("transactionID")

	var req dto.LinkRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	txn, err := h.bankRecService.LinkRecord(c.Request.Context(), companyID, transactionID, req, actorID)
	if err != nil {
		respondError(c, logger, err, "link record")
		return
	}

	logger.Info("Bank transaction linked to record",
		slog.String("company_id", companyID),
		slog.String("transaction_id", transactionID),
		slog.String("record_type", req.RecordType),
		slog.String("record_id", req.RecordID))
	c.JSON(http.StatusOK, dto.ToBankTransactionResponse(txn))
}

func (h *bankRecHandler) linkJournalEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")
	transactionID := c.Param("transactionID")

	var req dto.LinkJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	txn, err := h.bankRecService.LinkJournalEntry(c.Request.Context(), companyID, transactionID, req, actorID)
	if err != nil {
		respondError(c, logger, err, "link journal entry")
		return
	}

	logger.Info("Bank transaction linked to journal entry",
		slog.String("company_id", companyID),
		slog.String("transaction_id", transactionID),
		slog.String("entry_id", req.EntryID))
	c.JSON(http.StatusOK, dto.ToBankTransactionResponse(txn))
}

func (h *bankRecHandler) unlink(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")
	transactionID := c.Param("transactionID")

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	txn, err := h.bankRecService.Unlink(c.Request.Context(), companyID, transactionID, actorID)
	if err != nil {
		respondError(c, logger, err, "unlink bank transaction")
		return
	}

	logger.Info("Bank transaction unlinked",
		slog.String("company_id", companyID),
		slog.String("transaction_id", transactionID))
	c.JSON(http.StatusOK, dto.ToBankTransactionResponse(txn))
}

func (h *bankRecHandler) pairReversal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")
	transactionID := c.Param("transactionID")

	var req dto.PairReversalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	txn, err := h.bankRecService.PairReversal(c.Request.Context(), companyID, transactionID, req, actorID)
	if err != nil {
		respondError(c, logger, err, "pair reversal")
		return
	}

	logger.Info("Reversal paired",
		slog.String("company_id", companyID),
		slog.String("transaction_id", transactionID),
		slog.String("original_transaction_id", req.OriginalTransactionID))
	c.JSON(http.StatusOK, dto.ToBankTransactionResponse(txn))
}

func (h *bankRecHandler) statement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")

	bankAccountID := c.Query("bankAccountID")
	if bankAccountID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bankAccountID is required"})
		return
	}
	asOf, ok := parseDateParam(c, "asOf", time.Now())
	if !ok {
		return
	}

	brs, err := h.bankRecService.Statement(c.Request.Context(), companyID, bankAccountID, asOf)
	if err != nil {
		respondError(c, logger, err, "build reconciliation statement")
		return
	}

	c.JSON(http.StatusOK, brs)
}

func (h *bankRecHandler) enhancedStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")

	bankAccountID := c.Query("bankAccountID")
	if bankAccountID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bankAccountID is required"})
		return
	}
	asOf, ok := parseDateParam(c, "asOf", time.Now())
	if !ok {
		return
	}

	brs, err := h.bankRecService.EnhancedStatement(c.Request.Context(), companyID, bankAccountID, asOf)
	if err != nil {
		respondError(c, logger, err, "build enhanced reconciliation statement")
		return
	}

	c.JSON(http.StatusOK, brs)
}
