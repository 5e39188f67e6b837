package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/dto"
	"github.com/finbooks/finbooks_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// journalHandler handles HTTP requests for journal entries.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

func newJournalHandler(js portssvc.JournalSvcFacade) *journalHandler {
	return &journalHandler{journalService: js}
}

// registerJournalRoutes registers journal entry routes under a company scope.
func registerJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := newJournalHandler(journalService)

	entries := rg.Group("/entries")
	{
		entries.POST("", h.createEntry)
		entries.GET("", h.listEntries)
		entries.GET("/:entryID", h.getEntry)
		entries.POST("/:entryID/post", h.postDraft)
		entries.POST("/:entryID/reverse", h.reverseEntry)
	}
}

func (h *journalHandler) createEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")

	var req dto.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entry := req.ToJournalEntry(companyID)
	saved, err := h.journalService.CreateEntry(c.Request.Context(), entry, req.Post, actorID)
	if err != nil {
		respondError(c, logger, err, "create journal entry")
		return
	}

	logger.Info("Journal entry created",
		slog.String("company_id", companyID),
		slog.String("entry_id", saved.EntryID),
		slog.String("status", string(saved.Status)))
	c.JSON(http.StatusCreated, dto.ToEntryResponse(saved))
}

func (h *journalHandler) getEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")
	entryID := c.Param("entryID")

	entry, err := h.journalService.GetEntryByID(c.Request.Context(), companyID, entryID)
	if err != nil {
		respondError(c, logger, err, "retrieve journal entry")
		return
	}

	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

func (h *journalHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")

	var params dto.ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	page, err := h.journalService.ListEntries(c.Request.Context(), companyID, params)
	if err != nil {
		respondError(c, logger, err, "list journal entries")
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *journalHandler) postDraft(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")
	entryID := c.Param("entryID")

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	posted, err := h.journalService.PostDraft(c.Request.Context(), companyID, entryID, actorID)
	if err != nil {
		respondError(c, logger, err, "post draft entry")
		return
	}

	logger.Info("Draft entry posted",
		slog.String("company_id", companyID),
		slog.String("entry_id", entryID),
		slog.Int64("entry_number", posted.EntryNumber))
	c.JSON(http.StatusOK, dto.ToEntryResponse(posted))
}

func (h *journalHandler) reverseEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")
	entryID := c.Param("entryID")

	var req dto.ReverseEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	reversing, err := h.journalService.ReverseEntry(c.Request.Context(), companyID, entryID, req.Date, actorID)
	if err != nil {
		respondError(c, logger, err, "reverse journal entry")
		return
	}

	logger.Info("Journal entry reversed",
		slog.String("company_id", companyID),
		slog.String("entry_id", entryID),
		slog.String("reversing_entry_id", reversing.EntryID))
	c.JSON(http.StatusCreated, dto.ToEntryResponse(reversing))
}
