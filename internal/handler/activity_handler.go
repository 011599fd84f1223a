package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/slp-caseload/internal/models"
	"github.com/noah-isme/slp-caseload/pkg/response"
)

type activityService interface {
	List(ctx context.Context) ([]models.Activity, error)
	Get(ctx context.Context, id int64) (*models.Activity, error)
	Add(ctx context.Context, name string) (*models.Activity, error)
	Rename(ctx context.Context, id int64, name string) (*models.Activity, error)
	Archive(ctx context.Context, id int64) error
}

// ActivityHandler manages the SOAP activity lookup list.
type ActivityHandler struct {
	activities activityService
}

// NewActivityHandler constructs ActivityHandler.
func NewActivityHandler(activities activityService) *ActivityHandler {
	return &ActivityHandler{activities: activities}
}

type activityRequest struct {
	Name string `json:"name" form:"name"`
}

// List godoc
// @Summary Active activities ordered by name
// @Tags Activities
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /activities [get]
func (h *ActivityHandler) List(c *gin.Context) {
	activities, err := h.activities.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, activities, nil)
}

// Add godoc
// @Summary Add an activity
// @Tags Activities
// @Accept json
// @Produce json
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /activities/add [post]
func (h *ActivityHandler) Add(c *gin.Context) {
	var req activityRequest
	if !bindJSON(c, &req) {
		return
	}
	activity, err := h.activities.Add(c.Request.Context(), req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, activity, map[string]interface{}{"message": "Activity added."})
}

// Get godoc
// @Summary Load an activity for editing
// @Tags Activities
// @Produce json
// @Param id path int true "Activity ID"
// @Success 200 {object} response.Envelope
// @Router /activities/edit/{id} [get]
func (h *ActivityHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	activity, err := h.activities.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, activity, nil)
}

// Rename godoc
// @Summary Rename an activity
// @Tags Activities
// @Accept json
// @Produce json
// @Param id path int true "Activity ID"
// @Success 200 {object} response.Envelope
// @Router /activities/edit/{id} [post]
func (h *ActivityHandler) Rename(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req activityRequest
	if !bindJSON(c, &req) {
		return
	}
	activity, err := h.activities.Rename(c.Request.Context(), id, req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, activity, "Activity updated.")
}

// Delete godoc
// @Summary Archive an activity
// @Tags Activities
// @Produce json
// @Param id path int true "Activity ID"
// @Success 200 {object} response.Envelope
// @Router /activities/delete/{id} [post]
func (h *ActivityHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.activities.Archive(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.RedirectOr(c, nextTarget(c), func() {
		response.Message(c, gin.H{"id": id}, "Activity deleted.")
	})
}
