package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/slp-caseload/internal/dto"
	"github.com/noah-isme/slp-caseload/internal/models"
	"github.com/noah-isme/slp-caseload/internal/narrative"
	appErrors "github.com/noah-isme/slp-caseload/pkg/errors"
)

// MsgSelectStudent is returned when a quarterly report is requested without a student.
const MsgSelectStudent = "Please select a student."

var storedQuarterPattern = regexp.MustCompile(`^\d{4}-Q[1-4]$`)

type quarterlyReportRepository interface {
	Create(ctx context.Context, report *models.QuarterlyReport) error
	List(ctx context.Context, studentID *int64) ([]models.QuarterlyReportWithStudent, error)
	FindByID(ctx context.Context, id int64) (*models.QuarterlyReportWithStudent, error)
}

// QuarterlyMeasurement is one performance entry in the grid.
type QuarterlyMeasurement struct {
	Percent string `json:"percent"`
	Support string `json:"support"`
}

// QuarterlyObjectiveEntry holds the measurements recorded for one objective.
type QuarterlyObjectiveEntry struct {
	ObjectiveID  int64                  `json:"objective_id" validate:"required,gt=0"`
	Measurements []QuarterlyMeasurement `json:"measurements"`
}

// QuarterlyGoalEntry holds one goal's objective entries and cue selections.
type QuarterlyGoalEntry struct {
	GoalID     int64                     `json:"goal_id" validate:"required,gt=0"`
	Objectives []QuarterlyObjectiveEntry `json:"objectives" validate:"dive"`
	VisualCues []string                  `json:"visual_cues"`
	VerbalCues []string                  `json:"verbal_cues"`
}

// GenerateQuarterlyRequest is the filled performance grid.
type GenerateQuarterlyRequest struct {
	StudentID     int64                `json:"student_id"`
	Quarter       string               `json:"quarter" validate:"required"`
	Progress      string               `json:"progress" validate:"required"`
	ProgressOther string               `json:"progress_other"`
	Closing       string               `json:"closing"`
	ClosingOther  string               `json:"closing_other"`
	Goals         []QuarterlyGoalEntry `json:"goals" validate:"dive"`
}

// SaveQuarterlyRequest stores a generated report. Text wins over Paragraphs when both are set.
type SaveQuarterlyRequest struct {
	StudentID  int64    `json:"student_id" validate:"required,gt=0"`
	Quarter    string   `json:"quarter" validate:"required"`
	Paragraphs []string `json:"paragraphs"`
	Text       string   `json:"report_text"`
}

// QuarterlyReportService builds and stores quarterly progress narratives.
type QuarterlyReportService struct {
	reports         quarterlyReportRepository
	students        activeStudentLister
	goals           studentGoalReader
	exports         *ExportService
	metrics         *MetricsService
	validator       *validator.Validate
	logger          *zap.Logger
	signature       string
	schoolYearStart time.Month
	now             func() time.Time
}

// QuarterlyReportServiceParams groups constructor dependencies.
type QuarterlyReportServiceParams struct {
	Reports              quarterlyReportRepository
	Students             activeStudentLister
	Goals                studentGoalReader
	Exports              *ExportService
	Metrics              *MetricsService
	Validator            *validator.Validate
	Logger               *zap.Logger
	Signature            string
	SchoolYearStartMonth int
}

// NewQuarterlyReportService constructs the service.
func NewQuarterlyReportService(params QuarterlyReportServiceParams) *QuarterlyReportService {
	validate := params.Validator
	if validate == nil {
		validate = validator.New()
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	start := time.Month(params.SchoolYearStartMonth)
	if start < time.January || start > time.December {
		start = time.September
	}
	return &QuarterlyReportService{
		reports:         params.Reports,
		students:        params.Students,
		goals:           params.Goals,
		exports:         params.Exports,
		metrics:         params.Metrics,
		validator:       validate,
		logger:          logger,
		signature:       params.Signature,
		schoolYearStart: start,
		now:             time.Now,
	}
}

// Start loads the entry grid for a student.
func (s *QuarterlyReportService) Start(ctx context.Context, studentID *int64) (*dto.QuarterlyStartResponse, error) {
	if studentID == nil || *studentID <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, MsgSelectStudent)
	}
	student, goals, err := s.loadStudent(ctx, *studentID)
	if err != nil {
		return nil, err
	}
	return &dto.QuarterlyStartResponse{
		Student:         *student,
		Goals:           goals,
		Quarters:        narrative.Quarters,
		DefaultQuarter:  s.currentQuarter(),
		ProgressOptions: narrative.ProgressOptions,
		ClosingOptions:  narrative.ClosingOptions,
		SupportLevels:   narrative.SupportLevelOptions,
	}, nil
}

// Generate writes one paragraph per active goal. Entries for goals or objectives the student
// does not own are ignored.
func (s *QuarterlyReportService) Generate(ctx context.Context, req GenerateQuarterlyRequest) (*dto.QuarterlyReportResult, error) {
	if req.StudentID <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, MsgSelectStudent)
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid quarterly report payload")
	}
	if !narrative.ValidQuarter(req.Quarter) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "quarter must be one of Q1, Q2, Q3, Q4")
	}
	progress := narrative.ChooseOther(req.Progress, req.ProgressOther)
	if progress == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "overall progress is required")
	}

	student, goals, err := s.loadStudent(ctx, req.StudentID)
	if err != nil {
		return nil, err
	}

	entries := make(map[int64]QuarterlyGoalEntry, len(req.Goals))
	for _, g := range req.Goals {
		entries[g.GoalID] = g
	}
	input := narrative.QuarterlyInput{
		FirstName: student.DisplayName(),
		Pronouns:  student.PronounValue(),
		Quarter:   req.Quarter,
		Progress:  progress,
		Closing:   narrative.ChooseOther(req.Closing, req.ClosingOther),
		Goals:     make([]narrative.GoalProgress, 0, len(goals)),
	}
	for _, goal := range goals {
		input.Goals = append(input.Goals, goalProgress(goal, entries[goal.ID]))
	}

	paragraphs := narrative.BuildQuarterlyParagraphs(input)
	s.metrics.IncDocument("quarterly_report")
	return &dto.QuarterlyReportResult{Student: *student, Quarter: req.Quarter, Paragraphs: paragraphs}, nil
}

// Save stores the report under a "YYYY-Qn" code with the signature appended.
func (s *QuarterlyReportService) Save(ctx context.Context, req SaveQuarterlyRequest) (*models.QuarterlyReport, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid quarterly report payload")
	}
	quarter, err := s.storedQuarter(req.Quarter)
	if err != nil {
		return nil, err
	}
	if _, err := s.students.FindByID(ctx, req.StudentID); err != nil {
		return nil, lookupError(err, "student")
	}

	paragraphs := req.Paragraphs
	if text := strings.TrimSpace(req.Text); text != "" {
		paragraphs = []string{text}
	}
	body := narrative.AppendSignature(paragraphs, s.signature)
	if strings.TrimSpace(body) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "report text is required")
	}

	report := &models.QuarterlyReport{
		StudentID:   req.StudentID,
		Quarter:     quarter,
		ReportText:  body,
		DateCreated: s.now().UTC(),
	}
	if err := s.reports.Create(ctx, report); err != nil {
		return nil, internalError(err, "failed to save quarterly report")
	}
	s.logger.Info("quarterly report saved", zap.Int64("student_id", req.StudentID), zap.String("quarter", quarter))
	return report, nil
}

// History lists saved reports newest first, optionally for one student.
func (s *QuarterlyReportService) History(ctx context.Context, studentID *int64) ([]models.QuarterlyReportWithStudent, error) {
	reports, err := s.reports.List(ctx, studentID)
	if err != nil {
		return nil, internalError(err, "failed to list quarterly reports")
	}
	if reports == nil {
		reports = []models.QuarterlyReportWithStudent{}
	}
	return reports, nil
}

// PDF renders a saved report for download.
func (s *QuarterlyReportService) PDF(ctx context.Context, id int64) (*ExportFile, error) {
	report, err := s.reports.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "quarterly report")
	}
	return s.exports.QuarterlyReportPDF(*report)
}

func (s *QuarterlyReportService) loadStudent(ctx context.Context, id int64) (*models.Student, []models.GoalWithObjectives, error) {
	student, err := s.students.FindByID(ctx, id)
	if err != nil {
		return nil, nil, lookupError(err, "student")
	}
	if !student.Active {
		return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	goals, err := s.goals.ListByStudent(ctx, id, true)
	if err != nil {
		return nil, nil, internalError(err, "failed to list goals")
	}
	objectives, err := s.goals.ListObjectivesByStudent(ctx, id, true)
	if err != nil {
		return nil, nil, internalError(err, "failed to list objectives")
	}
	return student, groupObjectives(goals, objectives), nil
}

// currentQuarter counts quarters from the school year start month.
func (s *QuarterlyReportService) currentQuarter() string {
	offset := (int(s.now().UTC().Month()) - int(s.schoolYearStart) + 12) % 12
	return narrative.Quarters[offset/3]
}

// storedQuarter accepts "Qn" (prefixed with the current year) or an explicit "YYYY-Qn".
func (s *QuarterlyReportService) storedQuarter(raw string) (string, error) {
	quarter := strings.ToUpper(strings.TrimSpace(raw))
	if storedQuarterPattern.MatchString(quarter) {
		return quarter, nil
	}
	if narrative.ValidQuarter(quarter) {
		return fmt.Sprintf("%d-%s", s.now().UTC().Year(), quarter), nil
	}
	return "", appErrors.Clone(appErrors.ErrValidation, "quarter must look like Q1 or 2025-Q1")
}

func goalProgress(goal models.GoalWithObjectives, entry QuarterlyGoalEntry) narrative.GoalProgress {
	measured := make(map[int64][]QuarterlyMeasurement, len(entry.Objectives))
	for _, o := range entry.Objectives {
		measured[o.ObjectiveID] = append(measured[o.ObjectiveID], o.Measurements...)
	}
	progress := narrative.GoalProgress{
		Objectives: make([]narrative.ObjectiveProgress, 0, len(goal.Objectives)),
		VisualCues: entry.VisualCues,
		VerbalCues: entry.VerbalCues,
	}
	for _, objective := range goal.Objectives {
		measurements := make([]narrative.Measurement, 0, len(measured[objective.ID]))
		for _, m := range measured[objective.ID] {
			measurements = append(measurements, narrative.Measurement{Percent: m.Percent, Support: m.Support})
		}
		progress.Objectives = append(progress.Objectives, narrative.ObjectiveProgress{
			Description:  strings.TrimSpace(objective.Description),
			Measurements: measurements,
		})
	}
	return progress
}
