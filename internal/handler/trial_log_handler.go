package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/slp-caseload/internal/dto"
	"github.com/noah-isme/slp-caseload/internal/models"
	"github.com/noah-isme/slp-caseload/internal/service"
	"github.com/noah-isme/slp-caseload/pkg/response"
)

type trialLogService interface {
	Form(ctx context.Context, studentID *int64) (*dto.TrialLogForm, error)
	Submit(ctx context.Context, req service.SubmitTrialLogsRequest) ([]models.TrialLog, error)
	StudentLogs(ctx context.Context, studentID int64) (*dto.StudentTrialLogsResponse, error)
	ByDate(ctx context.Context, raw string) (*dto.TrialLogsByDateResponse, error)
}

// TrialLogHandler exposes trial data entry and review endpoints.
type TrialLogHandler struct {
	logs trialLogService
}

// NewTrialLogHandler constructs TrialLogHandler.
func NewTrialLogHandler(logs trialLogService) *TrialLogHandler {
	return &TrialLogHandler{logs: logs}
}

// Form godoc
// @Summary Students and objectives for the trial log form
// @Tags Trial Logs
// @Produce json
// @Param student_id query int false "Preselected student"
// @Success 200 {object} response.Envelope
// @Router /trial_log [get]
func (h *TrialLogHandler) Form(c *gin.Context) {
	studentID, ok := queryID(c, "student_id")
	if !ok {
		return
	}
	form, err := h.logs.Form(c.Request.Context(), studentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, form, nil)
}

// Submit godoc
// @Summary Record one trial log per selected objective
// @Tags Trial Logs
// @Accept json
// @Produce json
// @Param payload body service.SubmitTrialLogsRequest true "Trial counters"
// @Success 201 {object} response.Envelope
// @Router /trial_log [post]
func (h *TrialLogHandler) Submit(c *gin.Context) {
	var req service.SubmitTrialLogsRequest
	if !bindJSON(c, &req) {
		return
	}
	logs, err := h.logs.Submit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, logs, map[string]interface{}{"message": "Trial log saved successfully!"})
}

// StudentLogs godoc
// @Summary A student's trial logs grouped by counter system
// @Tags Trial Logs
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /student/{id}/trial_logs [get]
func (h *TrialLogHandler) StudentLogs(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.logs.StudentLogs(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}

// ByDate godoc
// @Summary Trial logs recorded on one date, defaulting to today
// @Tags Trial Logs
// @Produce json
// @Param date query string false "YYYY-MM-DD"
// @Success 200 {object} response.Envelope
// @Router /trial_logs_by_date [get]
func (h *TrialLogHandler) ByDate(c *gin.Context) {
	resp, err := h.logs.ByDate(c.Request.Context(), c.Query("date"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if resp.Message != "" {
		response.Message(c, resp, resp.Message)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}
