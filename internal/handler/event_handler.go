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

type eventService interface {
	Calendar(ctx context.Context) ([]models.CalendarEvent, error)
	Create(ctx context.Context, req service.CreateEventRequest) ([]models.Event, error)
	Update(ctx context.Context, id int64, req service.UpdateEventRequest) (*models.Event, error)
	ListSessions(ctx context.Context, filterDate, filterStudent, filterStatus string) ([]models.EventWithStudent, error)
	Pending(ctx context.Context) ([]models.EventWithStudent, error)
	Archive(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
	UpdateStatus(ctx context.Context, id int64, status string) error
	BulkForm(ctx context.Context) (*dto.BulkSessionsForm, error)
	BulkSessions(ctx context.Context, req service.BulkSessionsRequest) ([]models.Event, error)
	ScheduleMakeup(ctx context.Context, missedID int64, req service.MakeupRequest) (*models.Event, error)
	StudentSessions(ctx context.Context, studentID int64) (*dto.StudentSessionsResponse, error)
}

type studentLister interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, error)
}

// EventHandler exposes calendar and session endpoints.
type EventHandler struct {
	events   eventService
	students studentLister
}

// NewEventHandler constructs EventHandler.
func NewEventHandler(events eventService, students studentLister) *EventHandler {
	return &EventHandler{events: events, students: students}
}

type sessionStatusRequest struct {
	Status string `json:"status" form:"status"`
}

// Calendar godoc
// @Summary Calendar feed of active events
// @Tags Events
// @Produce json
// @Success 200 {array} models.CalendarEvent
// @Router /api/events [get]
func (h *EventHandler) Calendar(c *gin.Context) {
	events, err := h.events.Calendar(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

// Create godoc
// @Summary Create an event; Sessions fan out to one event per student
// @Tags Events
// @Accept json
// @Produce json
// @Param payload body service.CreateEventRequest true "Event payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /api/events [post]
func (h *EventHandler) Create(c *gin.Context) {
	var req service.CreateEventRequest
	if !bindJSON(c, &req) {
		return
	}
	events, err := h.events.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.CreatedEventsResponse{Created: len(events), Events: events})
}

// Update godoc
// @Summary Partially update an event
// @Tags Events
// @Accept json
// @Produce json
// @Param id path int true "Event ID"
// @Param payload body service.UpdateEventRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Router /api/events/{id} [post]
func (h *EventHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.UpdateEventRequest
	if !bindJSON(c, &req) {
		return
	}
	event, err := h.events.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, event, nil)
}

// Makeup godoc
// @Summary Schedule a makeup for a Makeup Needed session
// @Tags Events
// @Accept json
// @Produce json
// @Param id path int true "Missed event ID"
// @Param payload body service.MakeupRequest true "Makeup slot"
// @Success 201 {object} response.Envelope
// @Router /api/events/{id}/makeup [post]
func (h *EventHandler) Makeup(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.MakeupRequest
	if !bindJSON(c, &req) {
		return
	}
	event, err := h.events.ScheduleMakeup(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, event)
}

// Sessions godoc
// @Summary List active sessions
// @Tags Sessions
// @Produce json
// @Param filter_date query string false "YYYY-MM-DD"
// @Param filter_student query int false "Student ID"
// @Param filter_status query string false "Status"
// @Success 200 {object} response.Envelope
// @Router /sessions [get]
func (h *EventHandler) Sessions(c *gin.Context) {
	ctx := c.Request.Context()
	filterDate := strings.TrimSpace(c.Query("filter_date"))
	filterStatus := strings.TrimSpace(c.Query("filter_status"))
	sessions, err := h.events.ListSessions(ctx, filterDate, c.Query("filter_student"), filterStatus)
	if err != nil {
		response.Error(c, err)
		return
	}
	students, err := h.students.List(ctx, models.StudentFilter{})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.SessionListResponse{
		Sessions:     sessions,
		Students:     students,
		FilterDate:   filterDate,
		FilterStatus: filterStatus,
		Statuses:     models.EventStatuses,
	}, nil)
}

// Pending godoc
// @Summary Scheduled sessions still awaiting a status
// @Tags Sessions
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /scheduled_sessions_pending [get]
func (h *EventHandler) Pending(c *gin.Context) {
	sessions, err := h.events.Pending(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sessions, nil)
}

// BulkForm godoc
// @Summary Students offered for bulk scheduling
// @Tags Sessions
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /bulk_sessions [get]
func (h *EventHandler) BulkForm(c *gin.Context) {
	form, err := h.events.BulkForm(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, form, nil)
}

// BulkSessions godoc
// @Summary Create one session per student with a start time
// @Tags Sessions
// @Accept json
// @Produce json
// @Param payload body service.BulkSessionsRequest true "Bulk schedule"
// @Success 201 {object} response.Envelope
// @Router /bulk_sessions [post]
func (h *EventHandler) BulkSessions(c *gin.Context) {
	var req service.BulkSessionsRequest
	if !bindJSON(c, &req) {
		return
	}
	events, err := h.events.BulkSessions(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.CreatedEventsResponse{Created: len(events), Events: events},
		map[string]interface{}{"message": "Sessions scheduled successfully!"})
}

// Archive godoc
// @Summary Archive a session
// @Tags Sessions
// @Produce json
// @Param id path int true "Event ID"
// @Param next query string false "Redirect target"
// @Success 200 {object} response.Envelope
// @Router /archive_session/{id} [post]
func (h *EventHandler) Archive(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.events.Archive(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.RedirectOr(c, nextTarget(c), func() {
		response.Message(c, gin.H{"id": id}, "Session archived.")
	})
}

// Delete godoc
// @Summary Delete an event
// @Tags Sessions
// @Produce json
// @Param id path int true "Event ID"
// @Param next query string false "Redirect target"
// @Success 200 {object} response.Envelope
// @Router /delete_event/{id} [post]
func (h *EventHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.events.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.RedirectOr(c, nextTarget(c), func() {
		response.Message(c, gin.H{"id": id}, "Event deleted.")
	})
}

// UpdateStatus godoc
// @Summary Set a session's status
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path int true "Event ID"
// @Param next query string false "Redirect target"
// @Success 200 {object} response.Envelope
// @Router /update_session_status/{id} [post]
func (h *EventHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req sessionStatusRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBind(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
			return
		}
	}
	if err := h.events.UpdateStatus(c.Request.Context(), id, req.Status); err != nil {
		response.Error(c, err)
		return
	}
	response.RedirectOr(c, nextTarget(c), func() {
		response.Message(c, gin.H{"id": id, "status": req.Status}, "Session status updated.")
	})
}

// StudentSessions godoc
// @Summary A student's sessions with their trial logs and objectives
// @Tags Sessions
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /student/{id}/sessions [get]
func (h *EventHandler) StudentSessions(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.events.StudentSessions(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}
