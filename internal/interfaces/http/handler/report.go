package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	reportapp "github.com/optica-neyra/backend/internal/application/report"
	"github.com/optica-neyra/backend/internal/interfaces/http/middleware"
)

// ReportHandler handles sales report API endpoints
type ReportHandler struct {
	BaseHandler
	reportService *reportapp.SalesReportService
	location      *time.Location
}

// NewReportHandler creates a new ReportHandler. Daily buckets are cut in
// the given location (the store's local time zone).
func NewReportHandler(reportService *reportapp.SalesReportService, location *time.Location) *ReportHandler {
	if location == nil {
		location = time.UTC
	}
	return &ReportHandler{
		reportService: reportService,
		location:      location,
	}
}

// ReportPeriodRequest defines the date range for report queries
type ReportPeriodRequest struct {
	StartDate string `form:"start_date" binding:"required"`
	EndDate   string `form:"end_date" binding:"required"`
}

// TopProductsRequest defines the query for the product sales ranking
type TopProductsRequest struct {
	ReportPeriodRequest
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

// GetSalesSummary handles GET /reports/sales/summary
func (h *ReportHandler) GetSalesSummary(c *gin.Context) {
	var req ReportPeriodRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	from, to, err := h.parsePeriod(req)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	summary, err := h.reportService.Summary(c.Request.Context(), from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

// GetTopProducts handles GET /reports/sales/top-products
func (h *ReportHandler) GetTopProducts(c *gin.Context) {
	var req TopProductsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	if req.Limit == 0 {
		req.Limit = 10
	}

	from, to, err := h.parsePeriod(req.ReportPeriodRequest)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	ranking, err := h.reportService.TopProducts(c.Request.Context(), from, to, req.Limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, ranking)
}

// GetDailyTrend handles GET /reports/sales/daily-trend
func (h *ReportHandler) GetDailyTrend(c *gin.Context) {
	var req ReportPeriodRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	from, to, err := h.parsePeriod(req)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	trend, err := h.reportService.DailyTrend(c.Request.Context(), from, to, h.location)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, trend)
}

// parsePeriod parses start_date/end_date (YYYY-MM-DD, store-local) into
// an inclusive timestamp range covering the whole end day
func (h *ReportHandler) parsePeriod(req ReportPeriodRequest) (time.Time, time.Time, error) {
	from, err := time.ParseInLocation("2006-01-02", req.StartDate, h.location)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	endDay, err := time.ParseInLocation("2006-01-02", req.EndDate, h.location)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to := endDay.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return from, to, nil
}
