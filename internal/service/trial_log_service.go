package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/slp-caseload/internal/dto"
	"github.com/noah-isme/slp-caseload/internal/models"
	appErrors "github.com/noah-isme/slp-caseload/pkg/errors"
)

// InvalidDateMessage is shown when a date filter cannot be parsed and today is used instead.
const InvalidDateMessage = "Invalid date format!"

type trialLogRepository interface {
	CreateMany(ctx context.Context, logs []*models.TrialLog) error
	ListByStudent(ctx context.Context, studentID int64) ([]models.TrialLogView, error)
	ListByDate(ctx context.Context, day time.Time) ([]models.TrialLogView, error)
}

// TrialCounters holds both counter sets; a submission normally fills only one.
type TrialCounters struct {
	CorrectNoSupport       int `json:"correct_no_support" validate:"gte=0"`
	CorrectVisualCue       int `json:"correct_visual_cue" validate:"gte=0"`
	CorrectVerbalCue       int `json:"correct_verbal_cue" validate:"gte=0"`
	CorrectVisualVerbalCue int `json:"correct_visual_verbal_cue" validate:"gte=0"`
	CorrectModeling        int `json:"correct_modeling" validate:"gte=0"`
	Incorrect              int `json:"incorrect" validate:"gte=0"`
	Independent            int `json:"independent" validate:"gte=0"`
	MinimalSupport         int `json:"minimal_support" validate:"gte=0"`
	ModerateSupport        int `json:"moderate_support" validate:"gte=0"`
	MaximalSupport         int `json:"maximal_support" validate:"gte=0"`
	IncorrectNew           int `json:"incorrect_new" validate:"gte=0"`
}

// SubmitTrialLogsRequest records one log per selected objective.
type SubmitTrialLogsRequest struct {
	StudentID     int64   `json:"student_id" validate:"required,gt=0"`
	ObjectiveIDs  []int64 `json:"objective_ids" validate:"dive,gt=0"`
	DateOfSession string  `json:"date_of_session" validate:"required"`
	TrialCounters
	Notes *string `json:"notes"`
}

// TrialLogService records and reports trial-level performance data.
type TrialLogService struct {
	repo       trialLogRepository
	students   activeStudentLister
	objectives objectiveLister
	validator  *validator.Validate
	logger     *zap.Logger
	now        func() time.Time
}

// NewTrialLogService constructs the trial log service.
func NewTrialLogService(repo trialLogRepository, students activeStudentLister, objectives objectiveLister, validate *validator.Validate, logger *zap.Logger) *TrialLogService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TrialLogService{repo: repo, students: students, objectives: objectives, validator: validate, logger: logger, now: time.Now}
}

// Form returns the students and, when one is selected, their active objectives.
func (s *TrialLogService) Form(ctx context.Context, studentID *int64) (*dto.TrialLogForm, error) {
	students, err := s.students.ListActive(ctx, models.StudentFilter{})
	if err != nil {
		return nil, internalError(err, "failed to list students")
	}
	form := &dto.TrialLogForm{
		Students:          students,
		Objectives:        []models.StudentObjective{},
		SelectedStudentID: studentID,
		Today:             s.now().UTC().Format(dateLayout),
		SupportLevels:     models.SupportLevels,
	}
	if studentID != nil {
		objectives, err := s.objectives.ListActiveObjectives(ctx, studentID)
		if err != nil {
			return nil, internalError(err, "failed to list objectives")
		}
		form.Objectives = objectives
	}
	return form, nil
}

// Submit stores one trial log per objective in a single transaction. With no objectives
// selected a single log without an objective is stored.
func (s *TrialLogService) Submit(ctx context.Context, req SubmitTrialLogsRequest) ([]models.TrialLog, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid trial log payload")
	}
	day, err := parseDate(req.DateOfSession)
	if err != nil {
		return nil, err
	}
	student, err := s.students.FindByID(ctx, req.StudentID)
	if err != nil {
		return nil, lookupError(err, "student")
	}
	if !student.Active {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}

	objectiveIDs := uniqueIDs(req.ObjectiveIDs)
	if len(objectiveIDs) > 0 {
		owned, err := s.objectives.ListActiveObjectives(ctx, &req.StudentID)
		if err != nil {
			return nil, internalError(err, "failed to list objectives")
		}
		allowed := make(map[int64]struct{}, len(owned))
		for _, o := range owned {
			allowed[o.ID] = struct{}{}
		}
		for _, id := range objectiveIDs {
			if _, ok := allowed[id]; !ok {
				return nil, appErrors.Clone(appErrors.ErrValidation, "objective does not belong to student")
			}
		}
	}

	targets := make([]*int64, 0, len(objectiveIDs))
	for i := range objectiveIDs {
		targets = append(targets, &objectiveIDs[i])
	}
	if len(targets) == 0 {
		targets = append(targets, nil)
	}

	logs := make([]*models.TrialLog, 0, len(targets))
	for _, objectiveID := range targets {
		logs = append(logs, newTrialLog(req, day, objectiveID))
	}
	if err := s.repo.CreateMany(ctx, logs); err != nil {
		s.logger.Error("trial log insert rolled back", zap.Int64("student_id", req.StudentID), zap.Error(err))
		return nil, internalError(err, "failed to save trial logs")
	}

	out := make([]models.TrialLog, 0, len(logs))
	for _, log := range logs {
		out = append(out, *log)
	}
	return out, nil
}

// StudentLogs returns a student's logs bucketed into new, legacy and unclassified.
func (s *TrialLogService) StudentLogs(ctx context.Context, studentID int64) (*dto.StudentTrialLogsResponse, error) {
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		return nil, lookupError(err, "student")
	}
	logs, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, internalError(err, "failed to list trial logs")
	}
	resp := &dto.StudentTrialLogsResponse{Student: *student}
	for _, log := range logs {
		resp.TrialLogs.Add(log)
	}
	return resp, nil
}

// ByDate lists logs for one date. An unparseable date falls back to today and sets Message.
func (s *TrialLogService) ByDate(ctx context.Context, raw string) (*dto.TrialLogsByDateResponse, error) {
	day := dayOf(s.now().UTC())
	var message string
	if raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			message = InvalidDateMessage
		} else {
			day = parsed
		}
	}
	logs, err := s.repo.ListByDate(ctx, day)
	if err != nil {
		return nil, internalError(err, "failed to list trial logs")
	}
	for i := range logs {
		logs[i].Metrics = logs[i].TrialLog.Metrics()
	}
	if logs == nil {
		logs = []models.TrialLogView{}
	}
	return &dto.TrialLogsByDateResponse{Date: day.Format(dateLayout), TrialLogs: logs, Message: message}, nil
}

func newTrialLog(req SubmitTrialLogsRequest, day time.Time, objectiveID *int64) *models.TrialLog {
	c := req.TrialCounters
	return &models.TrialLog{
		StudentID:              req.StudentID,
		ObjectiveID:            objectiveID,
		DateOfSession:          day,
		CorrectNoSupport:       c.CorrectNoSupport,
		CorrectVisualCue:       c.CorrectVisualCue,
		CorrectVerbalCue:       c.CorrectVerbalCue,
		CorrectVisualVerbalCue: c.CorrectVisualVerbalCue,
		CorrectModeling:        c.CorrectModeling,
		Incorrect:              c.Incorrect,
		Independent:            c.Independent,
		MinimalSupport:         c.MinimalSupport,
		ModerateSupport:        c.ModerateSupport,
		MaximalSupport:         c.MaximalSupport,
		IncorrectNew:           c.IncorrectNew,
		Notes:                  optionalString(req.Notes),
	}
}
