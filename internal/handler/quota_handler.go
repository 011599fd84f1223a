package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/slp-caseload/internal/models"
	"github.com/noah-isme/slp-caseload/internal/service"
	"github.com/noah-isme/slp-caseload/pkg/response"
)

type quotaService interface {
	List(ctx context.Context, studentID *int64) ([]models.MonthlyQuota, error)
	Upsert(ctx context.Context, req service.QuotaRequest) (*models.MonthlyQuota, error)
}

// QuotaHandler exposes monthly session quota overrides.
type QuotaHandler struct {
	quotas quotaService
}

// NewQuotaHandler constructs QuotaHandler.
func NewQuotaHandler(quotas quotaService) *QuotaHandler {
	return &QuotaHandler{quotas: quotas}
}

// List godoc
// @Summary Monthly quota overrides
// @Tags Reports
// @Produce json
// @Param student_id query int false "Student filter"
// @Success 200 {object} response.Envelope
// @Router /monthly_quotas [get]
func (h *QuotaHandler) List(c *gin.Context) {
	studentID, ok := queryID(c, "student_id")
	if !ok {
		return
	}
	quotas, err := h.quotas.List(c.Request.Context(), studentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, quotas, nil)
}

// Upsert godoc
// @Summary Set the expected sessions for a student and month
// @Tags Reports
// @Accept json
// @Produce json
// @Param payload body service.QuotaRequest true "Quota"
// @Success 200 {object} response.Envelope
// @Router /monthly_quotas [post]
func (h *QuotaHandler) Upsert(c *gin.Context) {
	var req service.QuotaRequest
	if !bindJSON(c, &req) {
		return
	}
	quota, err := h.quotas.Upsert(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, quota, "Monthly quota saved.")
}
