package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SscSPs/inventory_management_app/internal/apperrors"
	"github.com/SscSPs/inventory_management_app/internal/core/domain"
	portssvc "github.com/SscSPs/inventory_management_app/internal/core/ports/services"
	"github.com/SscSPs/inventory_management_app/internal/dto"
	"github.com/SscSPs/inventory_management_app/internal/middleware"
)

// ledgerHandler handles HTTP requests for the movement ledger.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func newLedgerHandler(ledgerService portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{ledgerService: ledgerService}
}

// registerLedgerRoutes registers routes related to the movement ledger.
func registerLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade, userService portssvc.UserSvcFacade) {
	h := newLedgerHandler(ledgerService)
	readOnly := middleware.RequireCapability(userService, domain.CapStockRead)

	rg.GET("/movements", readOnly, h.listRecentMovements)
	rg.GET("/movements/:id", readOnly, h.getMovement)
	rg.GET("/stocks/:sku/movements", readOnly, h.listMovements)
	rg.GET("/stocks/:sku/replay", readOnly, h.verifyReplay)
}

// getMovement godoc
// @Summary Get a ledger entry by sequence id
// @Tags ledger
// @Produce json
// @Param id path int true "Movement sequence id"
// @Success 200 {object} dto.MovementResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /movements/{id} [get]
func (h *ledgerHandler) getMovement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	movementID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid movement id"})
		return
	}

	movement, err := h.ledgerService.GetMovement(c.Request.Context(), movementID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Movement not found"})
			return
		}
		logger.Error("Failed to get movement", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve movement"})
		return
	}
	c.JSON(http.StatusOK, movement)
}

// listMovements godoc
// @Summary List a SKU's movement history
// @Description Token-paginated, ordered oldest first so the history can be replayed.
// @Tags ledger
// @Produce json
// @Param sku path string true "Stock SKU"
// @Param limit query int false "Page size" default(50)
// @Param since query string false "RFC3339 lower bound"
// @Param until query string false "RFC3339 upper bound"
// @Param nextToken query string false "Continuation token from a previous page"
// @Success 200 {object} dto.ListMovementsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /stocks/{sku}/movements [get]
func (h *ledgerHandler) listMovements(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sku := c.Param("sku")
	var params dto.ListMovementsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.ledgerService.ListMovements(c.Request.Context(), sku, params)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Stock not found"})
			return
		}
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		logger.Error("Failed to list movements", slog.String("sku", sku), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list movements"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// listRecentMovements godoc
// @Summary List the latest ledger entries across all SKUs
// @Tags ledger
// @Produce json
// @Param limit query int false "Maximum entries to return" default(50)
// @Success 200 {array} dto.MovementResponse
// @Security BearerAuth
// @Router /movements [get]
func (h *ledgerHandler) listRecentMovements(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid limit"})
		return
	}

	movements, err := h.ledgerService.ListRecent(c.Request.Context(), limit)
	if err != nil {
		logger.Error("Failed to list recent movements", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list recent movements"})
		return
	}
	c.JSON(http.StatusOK, movements)
}

// verifyReplay godoc
// @Summary Verify a SKU's ledger against its current stock
// @Description Replays the full ledger; a mismatch is reported, never repaired.
// @Tags ledger
// @Produce json
// @Param sku path string true "Stock SKU"
// @Success 200 {object} dto.LedgerReplayResult
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /stocks/{sku}/replay [get]
func (h *ledgerHandler) verifyReplay(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sku := c.Param("sku")

	result, err := h.ledgerService.VerifyReplay(c.Request.Context(), sku)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Stock not found"})
			return
		}
		logger.Error("Failed to verify ledger replay", slog.String("sku", sku), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to verify ledger"})
		return
	}
	c.JSON(http.StatusOK, result)
}
