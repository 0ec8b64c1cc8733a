package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SscSPs/inventory_management_app/internal/apperrors"
	"github.com/SscSPs/inventory_management_app/internal/core/domain"
	portssvc "github.com/SscSPs/inventory_management_app/internal/core/ports/services"
	"github.com/SscSPs/inventory_management_app/internal/dto"
	"github.com/SscSPs/inventory_management_app/internal/middleware"
)

// transferHandler handles HTTP requests related to transfers.
type transferHandler struct {
	transferService portssvc.TransferSvcFacade
}

func newTransferHandler(transferService portssvc.TransferSvcFacade) *transferHandler {
	return &transferHandler{transferService: transferService}
}

// registerTransferRoutes registers routes related to transfers.
func registerTransferRoutes(rg *gin.RouterGroup, transferService portssvc.TransferSvcFacade, userService portssvc.UserSvcFacade) {
	h := newTransferHandler(transferService)

	transfers := rg.Group("/transfers")
	{
		transfers.GET("", middleware.RequireCapability(userService, domain.CapStockRead), h.listTransfers)
		transfers.GET("/stats", middleware.RequireCapability(userService, domain.CapStockRead), h.getTransferStats)
		transfers.POST("", middleware.RequireCapability(userService, domain.CapTransferCreate), h.createTransfer)
		transfers.GET("/:number", middleware.RequireCapability(userService, domain.CapStockRead), h.getTransfer)
		transfers.POST("/:number/approve", middleware.RequireCapability(userService, domain.CapTransferApprove), h.approveTransfer)
		transfers.POST("/:number/complete", middleware.RequireCapability(userService, domain.CapTransferComplete), h.completeTransfer)
		transfers.POST("/:number/cancel", middleware.RequireCapability(userService, domain.CapTransferCancel), h.cancelTransfer)
		transfers.POST("/:number/fail", middleware.RequireCapability(userService, domain.CapTransferComplete), h.failTransfer)
	}
}

func respondTransferError(c *gin.Context, logger *slog.Logger, err error, action string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrInvalidTransition),
		errors.Is(err, apperrors.ErrInsufficientAvailable),
		errors.Is(err, apperrors.ErrBusy):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	default:
		logger.Error("Transfer operation failed", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to " + action})
	}
}

// createTransfer godoc
// @Summary Create a transfer
// @Description Reserves every line all-or-nothing; any line failing availability rejects the whole request.
// @Tags transfers
// @Accept json
// @Produce json
// @Param transfer body dto.CreateTransferRequest true "Transfer details"
// @Success 201 {object} dto.TransferResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Insufficient available stock"
// @Security BearerAuth
// @Router /transfers [post]
func (h *transferHandler) createTransfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createTransfer", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	requesterUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	transfer, err := h.transferService.CreateTransfer(c.Request.Context(), req, requesterUserID)
	if err != nil {
		respondTransferError(c, logger, err, "create transfer")
		return
	}

	logger.Info("Transfer created", slog.String("transfer_number", transfer.TransferNumber))
	c.JSON(http.StatusCreated, dto.ToTransferResponse(transfer))
}

// getTransfer godoc
// @Summary Get a transfer with its items
// @Tags transfers
// @Produce json
// @Param number path string true "Transfer number"
// @Success 200 {object} dto.TransferResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /transfers/{number} [get]
func (h *transferHandler) getTransfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	number := c.Param("number")

	transfer, err := h.transferService.GetTransfer(c.Request.Context(), number)
	if err != nil {
		respondTransferError(c, logger, err, "retrieve transfer")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransferResponse(transfer))
}

// listTransfers godoc
// @Summary List transfers
// @Tags transfers
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Param status query string false "Filter by status"
// @Param priority query string false "Filter by priority"
// @Param fromLocation query string false "Filter by origin"
// @Param toLocation query string false "Filter by destination"
// @Param requestedBy query string false "Filter by requester user id"
// @Success 200 {object} dto.ListTransfersResponse
// @Security BearerAuth
// @Router /transfers [get]
func (h *transferHandler) listTransfers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListTransfersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.transferService.ListTransfers(c.Request.Context(), params)
	if err != nil {
		respondTransferError(c, logger, err, "list transfers")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getTransferStats godoc
// @Summary Count transfers per lifecycle state
// @Tags transfers
// @Produce json
// @Success 200 {object} dto.TransferStatsResponse
// @Security BearerAuth
// @Router /transfers/stats [get]
func (h *transferHandler) getTransferStats(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	stats, err := h.transferService.GetTransferStats(c.Request.Context())
	if err != nil {
		respondTransferError(c, logger, err, "get transfer stats")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransferStatsResponse(stats))
}

// approveTransfer godoc
// @Summary Approve a pending transfer
// @Tags transfers
// @Produce json
// @Param number path string true "Transfer number"
// @Success 200 {object} dto.TransferResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Transfer is not pending"
// @Security BearerAuth
// @Router /transfers/{number}/approve [post]
func (h *transferHandler) approveTransfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	number := c.Param("number")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	transfer, err := h.transferService.ApproveTransfer(c.Request.Context(), number, userID)
	if err != nil {
		respondTransferError(c, logger, err, "approve transfer")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransferResponse(transfer))
}

// completeTransfer godoc
// @Summary Complete an in-transit transfer
// @Description Settles shipped, received and damaged counts per line; omitted lines count as fully received.
// @Tags transfers
// @Accept json
// @Produce json
// @Param number path string true "Transfer number"
// @Param completion body dto.CompleteTransferRequest true "Completion details"
// @Success 200 {object} dto.TransferResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Transfer is not in transit"
// @Security BearerAuth
// @Router /transfers/{number}/complete [post]
func (h *transferHandler) completeTransfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	number := c.Param("number")
	var req dto.CompleteTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	transfer, err := h.transferService.CompleteTransfer(c.Request.Context(), number, req, userID)
	if err != nil {
		respondTransferError(c, logger, err, "complete transfer")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransferResponse(transfer))
}

// cancelTransfer godoc
// @Summary Cancel a draft or pending transfer
// @Description Releases every reservation in full.
// @Tags transfers
// @Produce json
// @Param number path string true "Transfer number"
// @Success 200 {object} dto.TransferResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Transfer cannot be cancelled from its current state"
// @Security BearerAuth
// @Router /transfers/{number}/cancel [post]
func (h *transferHandler) cancelTransfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	number := c.Param("number")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	transfer, err := h.transferService.CancelTransfer(c.Request.Context(), number, userID)
	if err != nil {
		respondTransferError(c, logger, err, "cancel transfer")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransferResponse(transfer))
}

// failTransfer godoc
// @Summary Mark an in-transit transfer failed
// @Description Releases reservations; the requested quantity stays on hand at the origin.
// @Tags transfers
// @Accept json
// @Produce json
// @Param number path string true "Transfer number"
// @Param failure body dto.FailTransferRequest true "Failure reason"
// @Success 200 {object} dto.TransferResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Transfer is not in transit"
// @Security BearerAuth
// @Router /transfers/{number}/fail [post]
func (h *transferHandler) failTransfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	number := c.Param("number")
	var req dto.FailTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	transfer, err := h.transferService.FailTransfer(c.Request.Context(), number, req.Reason, userID)
	if err != nil {
		respondTransferError(c, logger, err, "fail transfer")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransferResponse(transfer))
}
