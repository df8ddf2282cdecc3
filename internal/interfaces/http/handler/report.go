package handler

import (
	"github.com/gin-gonic/gin"
	reportapp "github.com/lojacrm/backend/internal/application/report"
	"github.com/lojacrm/backend/internal/interfaces/http/dto"
	"github.com/lojacrm/backend/internal/interfaces/http/middleware"
)

// ReportHandler handles report-related API endpoints
type ReportHandler struct {
	BaseHandler
	reportService *reportapp.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *reportapp.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// GetSalespersonRanking godoc
//
//	@Summary		Salesperson ranking
//	@Description	Sales grouped by salesperson, highest total first
//	@Tags			reports
//	@Produce		json
//	@Success		200	{object}	dto.Response{data=[]reportapp.SalespersonRankingResponse}
//	@Router			/reports/ranking [get]
func (h *ReportHandler) GetSalespersonRanking(c *gin.Context) {
	ranking, err := h.reportService.GetSalespersonRanking(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ranking)
}

// GetUpcomingBirthdays godoc
//
//	@Summary	Upcoming client birthdays
//	@Tags		reports
//	@Produce	json
//	@Param		window	query		int	false	"Days ahead: 0 (today), 7 or 30 (default)"
//	@Success	200		{object}	dto.Response{data=[]reportapp.BirthdayResponse}
//	@Failure	400		{object}	dto.Response
//	@Router		/reports/birthdays [get]
func (h *ReportHandler) GetUpcomingBirthdays(c *gin.Context) {
	var req dto.BirthdayRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	window := reportapp.BirthdayWindowMonth
	if req.Window != nil {
		window = *req.Window
	}

	birthdays, err := h.reportService.GetUpcomingBirthdays(c.Request.Context(), window)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, birthdays)
}

// GetDashboard godoc
//
//	@Summary	Dashboard totals
//	@Tags		reports
//	@Produce	json
//	@Success	200	{object}	dto.Response{data=reportapp.DashboardResponse}
//	@Router		/reports/dashboard [get]
func (h *ReportHandler) GetDashboard(c *gin.Context) {
	dashboard, err := h.reportService.GetDashboard(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dashboard)
}
