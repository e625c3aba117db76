package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/ledgerkeep/ledgerkeep/internal/apperrors"
	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	portssvc "github.com/ledgerkeep/ledgerkeep/internal/core/ports/services"
	"github.com/ledgerkeep/ledgerkeep/internal/dto"
	"github.com/ledgerkeep/ledgerkeep/internal/middleware"
)

// ledgerHandler handles HTTP requests related to journal entries and balances.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

// newLedgerHandler creates a new ledgerHandler.
func newLedgerHandler(ledgerService portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{ledgerService: ledgerService}
}

func registerLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(ledgerService)

	entries := rg.Group("/entries")
	{
		entries.POST("", h.createEntry)
		entries.GET("", h.listEntries)
		entries.GET("/:entryID", h.getEntry)
		entries.POST("/:entryID/post", h.postEntry)
		entries.POST("/:entryID/void", h.voidEntry)
	}

	ledger := rg.Group("/ledger")
	{
		ledger.GET("/balances", h.getBalances)
		ledger.GET("/summary", h.getSummary)
		ledger.GET("/verify", h.verifyChain)
	}
}

// respondWithError maps service errors onto HTTP statuses.
func respondWithError(c *gin.Context, logger *slog.Logger, action string, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("validation error", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrConflict):
		logger.Warn("state conflict", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		logger.Error("internal error", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// createEntry godoc
// @Summary Create a draft journal entry
// @Description Validates and persists a balanced journal entry in DRAFT status
// @Tags entries
// @Accept  json
// @Produce  json
// @Param   entry body dto.CreateEntryRequest true "Journal entry"
// @Success 201 {object} dto.EntryResponse
// @Failure 400 {object} map[string]string "Invalid request format or unbalanced entry"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /entries [post]
func (h *ledgerHandler) createEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("failed to bind entry request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format"})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	entry, err := h.ledgerService.CreateEntry(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondWithError(c, logger, "create entry", err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToEntryResponse(*entry))
}

// postEntry godoc
// @Summary Post a draft journal entry
// @Description Transitions an entry to POSTED, appends it to the hash chain and updates balances
// @Tags entries
// @Produce  json
// @Param   entryID path string true "Entry ID"
// @Success 200 {object} dto.EntryResponse
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 409 {object} map[string]string "Entry already posted or voided"
// @Router /entries/{entryID}/post [post]
func (h *ledgerHandler) postEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	entry, err := h.ledgerService.PostEntry(c.Request.Context(), c.Param("entryID"), userID)
	if err != nil {
		respondWithError(c, logger, "post entry", err)
		return
	}

	c.JSON(http.StatusOK, dto.ToEntryResponse(*entry))
}

// voidEntry godoc
// @Summary Void a posted journal entry
// @Description Marks the entry VOIDED and posts a reversing entry atomically
// @Tags entries
// @Accept  json
// @Produce  json
// @Param   entryID path string true "Entry ID"
// @Param   void body dto.VoidEntryRequest true "Void reason"
// @Success 200 {object} dto.VoidEntryResponse
// @Failure 400 {object} map[string]string "Missing reason"
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 409 {object} map[string]string "Entry not posted or already voided"
// @Router /entries/{entryID}/void [post]
func (h *ledgerHandler) voidEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.VoidEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "void reason is required"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	result, err := h.ledgerService.VoidEntry(c.Request.Context(), c.Param("entryID"), userID, req.Reason)
	if err != nil {
		respondWithError(c, logger, "void entry", err)
		return
	}

	c.JSON(http.StatusOK, dto.ToVoidEntryResponse(*result))
}

// getEntry godoc
// @Summary Get a journal entry
// @Produce  json
// @Param   entryID path string true "Entry ID"
// @Success 200 {object} dto.EntryResponse
// @Failure 404 {object} map[string]string "Entry not found"
// @Router /entries/{entryID} [get]
func (h *ledgerHandler) getEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	entry, err := h.ledgerService.GetEntryByID(c.Request.Context(), c.Param("entryID"))
	if err != nil {
		respondWithError(c, logger, "get entry", err)
		return
	}

	c.JSON(http.StatusOK, dto.ToEntryResponse(*entry))
}

// listEntries godoc
// @Summary List journal entries
// @Description Lists entries with optional status, date range, account and text filters
// @Produce  json
// @Param   status query string false "DRAFT, POSTED or VOIDED"
// @Param   dateFrom query string false "RFC3339 or YYYY-MM-DD lower bound"
// @Param   dateTo query string false "RFC3339 or YYYY-MM-DD upper bound"
// @Param   accountId query string false "Entries touching this account"
// @Param   search query string false "Matched against number, description, reference"
// @Success 200 {object} dto.ListEntriesResponse
// @Router /entries [get]
func (h *ledgerHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ListEntriesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}

	filter := domain.EntryFilter{
		Status:     domain.EntryStatus(req.Status),
		AccountID:  req.AccountID,
		SearchText: req.Search,
	}
	if req.Status != "" && filter.Status != domain.Draft && filter.Status != domain.Posted && filter.Status != domain.Voided {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status filter"})
		return
	}

	var err error
	if filter.DateFrom, err = parseDateParam(req.DateFrom); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dateFrom"})
		return
	}
	if filter.DateTo, err = parseDateParam(req.DateTo); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dateTo"})
		return
	}

	entries, meta, err := h.ledgerService.ListEntries(c.Request.Context(), filter, req.Page, req.Limit, req.SortBy, req.SortOrder)
	if err != nil {
		respondWithError(c, logger, "list entries", err)
		return
	}

	c.JSON(http.StatusOK, dto.ToListEntriesResponse(entries, meta))
}

// getBalances godoc
// @Summary List running account balances
// @Produce  json
// @Param   accountType query string false "Filter by account type"
// @Param   minBalance query string false "Minimum raw balance (decimal string)"
// @Param   maxBalance query string false "Maximum raw balance (decimal string)"
// @Param   search query string false "Matched against account name and code"
// @Success 200 {array} dto.BalanceResponse
// @Router /ledger/balances [get]
func (h *ledgerHandler) getBalances(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ListBalancesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}

	filter := domain.BalanceFilter{SearchText: req.Search}
	if req.AccountType != "" {
		accountType := domain.AccountType(req.AccountType)
		if !accountType.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid accountType"})
			return
		}
		filter.AccountType = accountType
	}

	var err error
	if filter.MinBalance, err = parseDecimalParam(req.MinBalance); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid minBalance"})
		return
	}
	if filter.MaxBalance, err = parseDecimalParam(req.MaxBalance); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid maxBalance"})
		return
	}

	balances, err := h.ledgerService.GetBalances(c.Request.Context(), filter)
	if err != nil {
		respondWithError(c, logger, "get balances", err)
		return
	}

	out := make([]dto.BalanceResponse, len(balances))
	for i, b := range balances {
		out[i] = dto.ToBalanceResponse(b)
	}
	c.JSON(http.StatusOK, out)
}

// getSummary godoc
// @Summary Get the ledger summary
// @Description Aggregates balances per account type and checks the accounting equation
// @Produce  json
// @Success 200 {object} dto.SummaryResponse
// @Router /ledger/summary [get]
func (h *ledgerHandler) getSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	summary, err := h.ledgerService.GetSummary(c.Request.Context())
	if err != nil {
		respondWithError(c, logger, "get summary", err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSummaryResponse(*summary))
}

// verifyChain godoc
// @Summary Verify the hash chain
// @Description Recomputes every posted entry's hash in posting order and reports mismatches
// @Produce  json
// @Success 200 {object} dto.VerifyChainResponse
// @Router /ledger/verify [get]
func (h *ledgerHandler) verifyChain(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	report, err := h.ledgerService.VerifyChain(c.Request.Context())
	if err != nil {
		respondWithError(c, logger, "verify chain", err)
		return
	}

	c.JSON(http.StatusOK, dto.ToVerifyChainResponse(*report))
}

// parseDateParam accepts RFC3339 timestamps or plain dates.
func parseDateParam(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// parseDecimalParam parses an optional exact decimal query value.
func parseDecimalParam(value string) (*decimal.Decimal, error) {
	if value == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
