package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/slp-caseload/internal/middleware"
	"github.com/noah-isme/slp-caseload/internal/models"
	"github.com/noah-isme/slp-caseload/internal/service"
	"github.com/noah-isme/slp-caseload/pkg/response"
)

type reportService interface {
	MonthlySessions(ctx context.Context, month, year int, sortBy string) (*models.MonthlySessionsReport, bool, error)
	MonthlySessionsExport(ctx context.Context, month, year int, sortBy, format string) (*service.ExportFile, error)
	MakeupNeeded(ctx context.Context, sortBy string) (*models.MakeupNeededReport, error)
	MakeupsByMonth(ctx context.Context, schoolYearStart *int) (*models.MakeupMatrix, error)
}

// ReportHandler exposes caseload reporting endpoints.
type ReportHandler struct {
	reports reportService
}

// NewReportHandler constructs ReportHandler.
func NewReportHandler(reports reportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// MonthlySessions godoc
// @Summary Monthly sessions report, optionally downloaded as CSV or PDF
// @Tags Reports
// @Produce json
// @Param month query int false "Month (1-12), defaults to current"
// @Param year query int false "Year, defaults to current"
// @Param sort_by query string false "student_az|student_za|remaining_asc|remaining_desc|makeups_asc|makeups_desc"
// @Param format query string false "csv|pdf"
// @Success 200 {object} response.Envelope
// @Router /monthly_sessions_report [get]
func (h *ReportHandler) MonthlySessions(c *gin.Context) {
	month, ok := queryInt(c, "month")
	if !ok {
		return
	}
	year, ok := queryInt(c, "year")
	if !ok {
		return
	}
	sortBy := strings.TrimSpace(c.DefaultQuery("sort_by", service.SortStudentAZ))
	ctx := c.Request.Context()

	if format := strings.ToLower(strings.TrimSpace(c.Query("format"))); format != "" {
		file, err := h.reports.MonthlySessionsExport(ctx, month, year, sortBy, format)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Attachment(c, file.Filename, file.ContentType, file.Payload)
		return
	}

	start := time.Now()
	report, cacheHit, err := h.reports.MonthlySessions(ctx, month, year, sortBy)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		meta = map[string]interface{}{}
	}
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	meta["sort_keys"] = service.MonthlySortKeys
	response.JSON(c, http.StatusOK, report, nil, meta)
}

// MakeupNeeded godoc
// @Summary Open Makeup Needed sessions, overall and this month
// @Tags Reports
// @Produce json
// @Param sort_by query string false "date_asc|date_desc|student_az|student_za|status_asc|status_desc"
// @Success 200 {object} response.Envelope
// @Router /reports/makeup_needed [get]
func (h *ReportHandler) MakeupNeeded(c *gin.Context) {
	report, err := h.reports.MakeupNeeded(c.Request.Context(), strings.TrimSpace(c.Query("sort_by")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// MakeupsByMonth godoc
// @Summary Makeup Needed counts per student for a September to June school year
// @Tags Reports
// @Produce json
// @Param school_year_start query int false "Calendar year the school year starts in"
// @Success 200 {object} response.Envelope
// @Router /makeups_by_month [get]
func (h *ReportHandler) MakeupsByMonth(c *gin.Context) {
	year, ok := queryInt(c, "school_year_start")
	if !ok {
		return
	}
	var start *int
	if year > 0 {
		start = &year
	}
	matrix, err := h.reports.MakeupsByMonth(c.Request.Context(), start)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, matrix, nil)
}
