package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/slp-caseload/internal/dto"
	"github.com/noah-isme/slp-caseload/internal/models"
	"github.com/noah-isme/slp-caseload/internal/service"
	appErrors "github.com/noah-isme/slp-caseload/pkg/errors"
	"github.com/noah-isme/slp-caseload/pkg/response"
)

// Quarterly report form stages.
const (
	stageStart    = "start"
	stageGenerate = "generate"
)

type quarterlyReportService interface {
	Start(ctx context.Context, studentID *int64) (*dto.QuarterlyStartResponse, error)
	Generate(ctx context.Context, req service.GenerateQuarterlyRequest) (*dto.QuarterlyReportResult, error)
	Save(ctx context.Context, req service.SaveQuarterlyRequest) (*models.QuarterlyReport, error)
	History(ctx context.Context, studentID *int64) ([]models.QuarterlyReportWithStudent, error)
	PDF(ctx context.Context, id int64) (*service.ExportFile, error)
}

// QuarterlyReportHandler drives the two-stage quarterly report flow.
type QuarterlyReportHandler struct {
	reports  quarterlyReportService
	students studentLister
}

// NewQuarterlyReportHandler constructs QuarterlyReportHandler.
func NewQuarterlyReportHandler(reports quarterlyReportService, students studentLister) *QuarterlyReportHandler {
	return &QuarterlyReportHandler{reports: reports, students: students}
}

type quarterlyStageRequest struct {
	FormStage string `json:"form_stage"`
	service.GenerateQuarterlyRequest
}

// Form godoc
// @Summary Student picker, or the entry grid when student_id is given
// @Tags Quarterly Reports
// @Produce json
// @Param student_id query int false "Student ID"
// @Success 200 {object} response.Envelope
// @Router /quarterly_report [get]
func (h *QuarterlyReportHandler) Form(c *gin.Context) {
	studentID, ok := queryID(c, "student_id")
	if !ok {
		return
	}
	if studentID != nil {
		grid, err := h.reports.Start(c.Request.Context(), studentID)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, grid, nil, map[string]interface{}{"form_stage": stageGenerate})
		return
	}
	students, err := h.students.List(c.Request.Context(), models.StudentFilter{})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"students": students}, nil, map[string]interface{}{"form_stage": stageStart})
}

// Submit godoc
// @Summary Load the entry grid (form_stage=start) or generate paragraphs (form_stage=generate)
// @Tags Quarterly Reports
// @Accept json
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /quarterly_report [post]
func (h *QuarterlyReportHandler) Submit(c *gin.Context) {
	var req quarterlyStageRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx := c.Request.Context()
	switch strings.TrimSpace(req.FormStage) {
	case stageStart:
		var studentID *int64
		if req.StudentID > 0 {
			studentID = &req.StudentID
		}
		grid, err := h.reports.Start(ctx, studentID)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, grid, nil, map[string]interface{}{"form_stage": stageGenerate})
	case stageGenerate:
		report, err := h.reports.Generate(ctx, req.GenerateQuarterlyRequest)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, report, nil)
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "form_stage must be start or generate"))
	}
}

// Save godoc
// @Summary Store a generated quarterly report with the signature line
// @Tags Quarterly Reports
// @Accept json
// @Produce json
// @Param payload body service.SaveQuarterlyRequest true "Report"
// @Success 201 {object} response.Envelope
// @Router /save_quarterly_report [post]
func (h *QuarterlyReportHandler) Save(c *gin.Context) {
	var req service.SaveQuarterlyRequest
	if !bindJSON(c, &req) {
		return
	}
	report, err := h.reports.Save(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, report, map[string]interface{}{"message": "Quarterly report saved successfully!"})
}

// History godoc
// @Summary Saved quarterly reports
// @Tags Quarterly Reports
// @Produce json
// @Param student_id query int false "Student filter"
// @Success 200 {object} response.Envelope
// @Router /quarterly_report_history [get]
func (h *QuarterlyReportHandler) History(c *gin.Context) {
	studentID, ok := queryID(c, "student_id")
	if !ok {
		return
	}
	reports, err := h.reports.History(c.Request.Context(), studentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reports, nil)
}

// PDF godoc
// @Summary Download a saved quarterly report as PDF
// @Tags Quarterly Reports
// @Produce application/pdf
// @Param id path int true "Report ID"
// @Success 200 {file} file
// @Router /quarterly_reports/{id}/pdf [get]
func (h *QuarterlyReportHandler) PDF(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	file, err := h.reports.PDF(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Payload)
}
