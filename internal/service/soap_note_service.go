package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/slp-caseload/internal/dto"
	"github.com/noah-isme/slp-caseload/internal/models"
	"github.com/noah-isme/slp-caseload/internal/narrative"
	appErrors "github.com/noah-isme/slp-caseload/pkg/errors"
)

// Flash-style messages surfaced in response meta.
const (
	MsgSoapMissingFields = "Missing required fields; note was not saved."
	MsgSoapBulkFailed    = "Could not save SOAP notes. No notes were added."
)

type soapNoteRepository interface {
	Create(ctx context.Context, note *models.SoapNote) error
	CreateMany(ctx context.Context, notes []*models.SoapNote) error
	List(ctx context.Context, filter models.SoapNoteFilter) ([]models.SoapNoteWithStudent, error)
}

type activityLister interface {
	ListActive(ctx context.Context) ([]models.Activity, error)
}

type sessionCounter interface {
	CountStudentSessions(ctx context.Context, studentID int64, from, to time.Time, statuses []string) (int, error)
}

// GenerateSoapNoteRequest carries the SOAP form. Fields ending in Other hold the free-text
// value used when the matching picker is set to "Other".
type GenerateSoapNoteRequest struct {
	StudentID         int64    `json:"student_id" validate:"required,gt=0"`
	Month             string   `json:"month" validate:"required"`
	SessionNumber     string   `json:"session_number" validate:"required"`
	TotalSessions     string   `json:"total_sessions" validate:"required"`
	SessionType       string   `json:"session_type"`
	Performance       string   `json:"performance" validate:"required"`
	AdditionalS       string   `json:"additional_s"`
	Activity          string   `json:"activity" validate:"required"`
	ActivityOther     string   `json:"activity_other"`
	Objective         string   `json:"objective" validate:"required"`
	ObjectiveOther    string   `json:"objective_other"`
	Accuracy          string   `json:"accuracy" validate:"required"`
	SupportLevel      string   `json:"support_level" validate:"required"`
	SupportLevelOther string   `json:"support_level_other"`
	AdditionalO       string   `json:"additional_o"`
	VisualCues        []string `json:"visual_cues"`
	VisualCuesOther   string   `json:"visual_cues_other"`
	VerbalCues        []string `json:"verbal_cues"`
	VerbalCuesOther   string   `json:"verbal_cues_other"`
	Save              bool     `json:"save"`
	NoteDate          string   `json:"note_date"`
}

// AddSoapNoteRequest persists an already generated note.
type AddSoapNoteRequest struct {
	StudentID int64  `json:"student_id"`
	NoteDate  string `json:"note_date"`
	FullNote  string `json:"full_note"`
}

// BulkSoapNoteEntry is one note in a bulk submission.
type BulkSoapNoteEntry struct {
	StudentID int64  `json:"student_id" validate:"required,gt=0"`
	NoteDate  string `json:"note_date" validate:"required"`
	NoteText  string `json:"note_text" validate:"required"`
}

// BulkSoapNotesRequest adds many notes at once.
type BulkSoapNotesRequest struct {
	Notes []BulkSoapNoteEntry `json:"notes" validate:"required,min=1,dive"`
}

// SoapNoteFilterRequest holds the raw list and export filters.
type SoapNoteFilterRequest struct {
	StudentID *int64
	StartDate string
	EndDate   string
}

// SoapNoteServiceParams groups constructor dependencies.
type SoapNoteServiceParams struct {
	Notes      soapNoteRepository
	Students   activeStudentLister
	Objectives objectiveLister
	Activities activityLister
	Sessions   sessionCounter
	Exports    *ExportService
	Metrics    *MetricsService
	Validator  *validator.Validate
	Logger     *zap.Logger
	Signature  string
}

// SoapNoteService generates, stores and exports SOAP notes.
type SoapNoteService struct {
	notes      soapNoteRepository
	students   activeStudentLister
	objectives objectiveLister
	activities activityLister
	sessions   sessionCounter
	exports    *ExportService
	metrics    *MetricsService
	validator  *validator.Validate
	logger     *zap.Logger
	signature  string
	now        func() time.Time
}

// NewSoapNoteService constructs the SOAP note service.
func NewSoapNoteService(params SoapNoteServiceParams) *SoapNoteService {
	validate := params.Validator
	if validate == nil {
		validate = validator.New()
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SoapNoteService{
		notes:      params.Notes,
		students:   params.Students,
		objectives: params.Objectives,
		activities: params.Activities,
		sessions:   params.Sessions,
		exports:    params.Exports,
		metrics:    params.Metrics,
		validator:  validate,
		logger:     logger,
		signature:  params.Signature,
		now:        time.Now,
	}
}

// Form gathers the pickers for the generator. With a student selected it adds their
// objectives, monthly services and this month's completed plus excused session count.
func (s *SoapNoteService) Form(ctx context.Context, studentID *int64) (*dto.SoapFormResponse, error) {
	students, err := s.students.ListActive(ctx, models.StudentFilter{})
	if err != nil {
		return nil, internalError(err, "failed to list students")
	}
	activities, err := s.activities.ListActive(ctx)
	if err != nil {
		return nil, internalError(err, "failed to list activities")
	}

	now := s.now().UTC()
	form := &dto.SoapFormResponse{
		Students:         students,
		Objectives:       []models.StudentObjective{},
		Activities:       activities,
		Months:           narrative.Months,
		CurrentMonth:     now.Format("January"),
		MonthlyServices:  "Not specified",
		SessionTypes:     narrative.SessionTypes,
		SupportLevels:    narrative.SupportLevelOptions,
		VisualCueOptions: narrative.VisualCueOptions,
		VerbalCueOptions: narrative.VerbalCueOptions,
	}
	if studentID == nil {
		return form, nil
	}

	student, err := s.students.FindByID(ctx, *studentID)
	if err != nil {
		return nil, lookupError(err, "student")
	}
	form.SelectedStudent = student
	if student.MonthlyServices != nil && strings.TrimSpace(*student.MonthlyServices) != "" {
		form.MonthlyServices = *student.MonthlyServices
	}
	if form.Objectives, err = s.objectives.ListActiveObjectives(ctx, studentID); err != nil {
		return nil, internalError(err, "failed to list objectives")
	}
	first := monthStart(now.Year(), now.Month())
	form.SessionCount, err = s.sessions.CountStudentSessions(ctx, student.ID, first, first.AddDate(0, 1, -1),
		[]string{models.EventStatusCompleted, models.EventStatusExcused})
	if err != nil {
		return nil, internalError(err, "failed to count sessions")
	}
	return form, nil
}

// Generate assembles the four SOAP sections and, when requested, saves the note.
func (s *SoapNoteService) Generate(ctx context.Context, req GenerateSoapNoteRequest) (*dto.SoapNoteResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid soap note payload")
	}
	noteDate := dayOf(s.now().UTC())
	if strings.TrimSpace(req.NoteDate) != "" {
		parsed, err := parseDate(req.NoteDate)
		if err != nil {
			return nil, err
		}
		noteDate = parsed
	}
	student, err := s.students.FindByID(ctx, req.StudentID)
	if err != nil {
		return nil, lookupError(err, "student")
	}

	support := narrative.ChooseOther(req.SupportLevel, req.SupportLevelOther)
	if support == "" {
		support = narrative.DefaultSupportLevel
	}
	note := narrative.BuildSoapNote(narrative.SoapInput{
		StudentName:   student.DisplayName(),
		Pronouns:      student.PronounValue(),
		Month:         req.Month,
		SessionNumber: req.SessionNumber,
		TotalSessions: req.TotalSessions,
		SessionType:   req.SessionType,
		Performance:   strings.TrimSpace(req.Performance),
		AdditionalS:   req.AdditionalS,
		Activity:      narrative.ChooseOther(req.Activity, req.ActivityOther),
		Objective:     narrative.ChooseOther(req.Objective, req.ObjectiveOther),
		Accuracy:      strings.TrimSpace(req.Accuracy),
		SupportLevel:  support,
		AdditionalO:   req.AdditionalO,
		VisualCues:    narrative.WithOther(req.VisualCues, req.VisualCuesOther),
		VerbalCues:    narrative.WithOther(req.VerbalCues, req.VerbalCuesOther),
		Signature:     s.signature,
	})
	s.metrics.IncDocument("soap_note")

	result := &dto.SoapNoteResult{
		SoapNote:  note,
		FullNote:  note.Text(),
		StudentID: student.ID,
		NoteDate:  noteDate.Format(dateLayout),
	}
	if !req.Save {
		return result, nil
	}
	saved := &models.SoapNote{StudentID: student.ID, NoteDate: noteDate, NoteText: result.FullNote}
	if err := s.notes.Create(ctx, saved); err != nil {
		return nil, internalError(err, "failed to save soap note")
	}
	result.Saved = saved
	return result, nil
}

// Add stores a generated note. The note date defaults to today.
func (s *SoapNoteService) Add(ctx context.Context, req AddSoapNoteRequest) (*models.SoapNote, error) {
	text := strings.TrimSpace(req.FullNote)
	if req.StudentID <= 0 || text == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, MsgSoapMissingFields)
	}
	noteDate := dayOf(s.now().UTC())
	if strings.TrimSpace(req.NoteDate) != "" {
		parsed, err := parseDate(req.NoteDate)
		if err != nil {
			return nil, err
		}
		noteDate = parsed
	}
	if _, err := s.students.FindByID(ctx, req.StudentID); err != nil {
		return nil, lookupError(err, "student")
	}
	note := &models.SoapNote{StudentID: req.StudentID, NoteDate: noteDate, NoteText: text}
	if err := s.notes.Create(ctx, note); err != nil {
		return nil, internalError(err, "failed to save soap note")
	}
	return note, nil
}

// BulkAdd stores every note or none. Database failures are logged and reported generically.
func (s *SoapNoteService) BulkAdd(ctx context.Context, req BulkSoapNotesRequest) ([]models.SoapNote, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "All fields are required.")
	}
	notes := make([]*models.SoapNote, 0, len(req.Notes))
	for _, entry := range req.Notes {
		text := strings.TrimSpace(entry.NoteText)
		if text == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "All fields are required.")
		}
		day, err := parseDate(entry.NoteDate)
		if err != nil {
			return nil, err
		}
		notes = append(notes, &models.SoapNote{StudentID: entry.StudentID, NoteDate: day, NoteText: text})
	}
	if err := s.notes.CreateMany(ctx, notes); err != nil {
		s.logger.Error("bulk soap note insert rolled back", zap.Int("count", len(notes)), zap.Error(err))
		return nil, internalError(err, MsgSoapBulkFailed)
	}
	out := make([]models.SoapNote, 0, len(notes))
	for _, note := range notes {
		out = append(out, *note)
	}
	return out, nil
}

// List returns saved notes matching the filter, newest first.
func (s *SoapNoteService) List(ctx context.Context, req SoapNoteFilterRequest) ([]models.SoapNoteWithStudent, error) {
	filter, err := buildSoapFilter(req)
	if err != nil {
		return nil, err
	}
	notes, err := s.notes.List(ctx, filter)
	if err != nil {
		return nil, internalError(err, "failed to list soap notes")
	}
	if notes == nil {
		notes = []models.SoapNoteWithStudent{}
	}
	return notes, nil
}

// Students lists active students for the filter and bulk forms.
func (s *SoapNoteService) Students(ctx context.Context) ([]models.Student, error) {
	students, err := s.students.ListActive(ctx, models.StudentFilter{})
	if err != nil {
		return nil, internalError(err, "failed to list students")
	}
	return students, nil
}

// ExportCSV renders the filtered notes as a redacted CSV download.
func (s *SoapNoteService) ExportCSV(ctx context.Context, req SoapNoteFilterRequest) (*ExportFile, error) {
	notes, err := s.List(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.exports.SoapNotesCSV(notes)
}

func buildSoapFilter(req SoapNoteFilterRequest) (models.SoapNoteFilter, error) {
	filter := models.SoapNoteFilter{StudentID: req.StudentID}
	start, err := parseOptionalDate(req.StartDate)
	if err != nil {
		return filter, err
	}
	end, err := parseOptionalDate(req.EndDate)
	if err != nil {
		return filter, err
	}
	filter.StartDate = start
	filter.EndDate = end
	return filter, nil
}
