package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/slp-caseload/internal/dto"
	"github.com/noah-isme/slp-caseload/internal/models"
	"github.com/noah-isme/slp-caseload/internal/service"
	"github.com/noah-isme/slp-caseload/pkg/response"
)

type soapNoteService interface {
	Form(ctx context.Context, studentID *int64) (*dto.SoapFormResponse, error)
	Generate(ctx context.Context, req service.GenerateSoapNoteRequest) (*dto.SoapNoteResult, error)
	Add(ctx context.Context, req service.AddSoapNoteRequest) (*models.SoapNote, error)
	BulkAdd(ctx context.Context, req service.BulkSoapNotesRequest) ([]models.SoapNote, error)
	List(ctx context.Context, req service.SoapNoteFilterRequest) ([]models.SoapNoteWithStudent, error)
	Students(ctx context.Context) ([]models.Student, error)
	ExportCSV(ctx context.Context, req service.SoapNoteFilterRequest) (*service.ExportFile, error)
}

// SoapNoteHandler exposes SOAP note generation, storage and export.
type SoapNoteHandler struct {
	notes soapNoteService
}

// NewSoapNoteHandler constructs SoapNoteHandler.
func NewSoapNoteHandler(notes soapNoteService) *SoapNoteHandler {
	return &SoapNoteHandler{notes: notes}
}

// Form godoc
// @Summary Options for the SOAP note generator
// @Tags SOAP Notes
// @Produce json
// @Param student_id query int false "Selected student"
// @Success 200 {object} response.Envelope
// @Router /soap_note [get]
func (h *SoapNoteHandler) Form(c *gin.Context) {
	studentID, ok := queryID(c, "student_id")
	if !ok {
		return
	}
	form, err := h.notes.Form(c.Request.Context(), studentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, form, nil)
}

// Generate godoc
// @Summary Generate a SOAP note, saving it when requested
// @Tags SOAP Notes
// @Accept json
// @Produce json
// @Param payload body service.GenerateSoapNoteRequest true "Session details"
// @Success 200 {object} response.Envelope
// @Router /soap_note [post]
func (h *SoapNoteHandler) Generate(c *gin.Context) {
	var req service.GenerateSoapNoteRequest
	if !bindJSON(c, &req) {
		return
	}
	note, err := h.notes.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if note.Saved != nil {
		response.Message(c, note, "SOAP note saved successfully!")
		return
	}
	response.JSON(c, http.StatusOK, note, nil)
}

// Add godoc
// @Summary Save a generated SOAP note
// @Tags SOAP Notes
// @Accept json
// @Produce json
// @Param payload body service.AddSoapNoteRequest true "Note"
// @Success 201 {object} response.Envelope
// @Router /soap_note/add [post]
func (h *SoapNoteHandler) Add(c *gin.Context) {
	var req service.AddSoapNoteRequest
	if !bindJSON(c, &req) {
		return
	}
	note, err := h.notes.Add(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, note, map[string]interface{}{"message": "SOAP note added successfully!"})
}

// BulkForm godoc
// @Summary Students for the bulk SOAP note form
// @Tags SOAP Notes
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /soap_notes/bulk_add [get]
func (h *SoapNoteHandler) BulkForm(c *gin.Context) {
	students, err := h.notes.Students(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"students": students}, nil)
}

// BulkAdd godoc
// @Summary Save many SOAP notes in one transaction
// @Tags SOAP Notes
// @Accept json
// @Produce json
// @Param payload body service.BulkSoapNotesRequest true "Notes"
// @Success 201 {object} response.Envelope
// @Router /soap_notes/bulk_add [post]
func (h *SoapNoteHandler) BulkAdd(c *gin.Context) {
	var req service.BulkSoapNotesRequest
	if !bindJSON(c, &req) {
		return
	}
	notes, err := h.notes.BulkAdd(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, notes, map[string]interface{}{"message": "SOAP notes added successfully!"})
}

// List godoc
// @Summary Stored SOAP notes, newest first
// @Tags SOAP Notes
// @Produce json
// @Param student_id query int false "Student filter"
// @Param start_date query string false "YYYY-MM-DD"
// @Param end_date query string false "YYYY-MM-DD"
// @Success 200 {object} response.Envelope
// @Router /soap_notes [get]
func (h *SoapNoteHandler) List(c *gin.Context) {
	filter, ok := soapFilter(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	notes, err := h.notes.List(ctx, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	students, err := h.notes.Students(ctx)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.SoapNoteListResponse{
		Notes:         notes,
		Students:      students,
		FilterStudent: filter.StudentID,
		StartDate:     filter.StartDate,
		EndDate:       filter.EndDate,
	}, nil)
}

// Export godoc
// @Summary Download SOAP notes as de-identified CSV
// @Tags SOAP Notes
// @Produce text/csv
// @Param student_id query int false "Student filter"
// @Param start_date query string false "YYYY-MM-DD"
// @Param end_date query string false "YYYY-MM-DD"
// @Success 200 {file} file
// @Router /soap_notes/export [get]
func (h *SoapNoteHandler) Export(c *gin.Context) {
	filter, ok := soapFilter(c)
	if !ok {
		return
	}
	file, err := h.notes.ExportCSV(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Payload)
}

func soapFilter(c *gin.Context) (service.SoapNoteFilterRequest, bool) {
	studentID, ok := queryID(c, "student_id")
	if !ok {
		return service.SoapNoteFilterRequest{}, false
	}
	return service.SoapNoteFilterRequest{
		StudentID: studentID,
		StartDate: strings.TrimSpace(c.Query("start_date")),
		EndDate:   strings.TrimSpace(c.Query("end_date")),
	}, true
}
