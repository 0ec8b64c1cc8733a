package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SscSPs/inventory_management_app/internal/core/domain"
	portssvc "github.com/SscSPs/inventory_management_app/internal/core/ports/services"
	"github.com/SscSPs/inventory_management_app/internal/dto"
	"github.com/SscSPs/inventory_management_app/internal/middleware"
)

// reportingHandler serves the aggregated inventory reports.
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

func newReportingHandler(reportingService portssvc.ReportingSvcFacade) *reportingHandler {
	return &reportingHandler{reportingService: reportingService}
}

// registerReportingRoutes registers reporting routes.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade, userService portssvc.UserSvcFacade) {
	h := newReportingHandler(reportingService)
	read := middleware.RequireCapability(userService, domain.CapStockRead)

	reports := rg.Group("/reports")
	{
		reports.GET("/summary", read, h.getSummary)
		reports.GET("/categories", read, h.getCategoryBreakdown)
		reports.GET("/low-stock", read, h.getLowStockReport)
	}
}

// getSummary godoc
// @Summary Inventory headline summary
// @Tags reports
// @Produce json
// @Success 200 {object} dto.InventorySummaryResponse
// @Security BearerAuth
// @Router /reports/summary [get]
func (h *reportingHandler) getSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	summary, err := h.reportingService.GetInventorySummary(c.Request.Context())
	if err != nil {
		logger.Error("Failed to build inventory summary", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to build inventory summary"})
		return
	}
	c.JSON(http.StatusOK, dto.ToInventorySummaryResponse(summary))
}

// getCategoryBreakdown godoc
// @Summary Per-category stock value breakdown
// @Tags reports
// @Produce json
// @Success 200 {object} dto.CategoryBreakdownResponse
// @Security BearerAuth
// @Router /reports/categories [get]
func (h *reportingHandler) getCategoryBreakdown(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	rows, err := h.reportingService.GetCategoryBreakdown(c.Request.Context())
	if err != nil {
		logger.Error("Failed to build category breakdown", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to build category breakdown"})
		return
	}
	c.JSON(http.StatusOK, dto.ToCategoryBreakdownResponse(rows))
}

// getLowStockReport godoc
// @Summary Stocks at or below their minimum level
// @Tags reports
// @Produce json
// @Param limit query int false "Maximum rows" default(50)
// @Success 200 {array} dto.StockResponse
// @Security BearerAuth
// @Router /reports/low-stock [get]
func (h *reportingHandler) getLowStockReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid limit parameter"})
			return
		}
		limit = parsed
	}

	stocks, err := h.reportingService.GetLowStockReport(c.Request.Context(), limit)
	if err != nil {
		logger.Error("Failed to build low stock report", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to build low stock report"})
		return
	}
	c.JSON(http.StatusOK, dto.ToListStockResponse(stocks))
}
